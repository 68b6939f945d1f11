package contract

import (
	"github.com/aptos-labs/aptos-go-sdk"
	"github.com/aptos-labs/aptos-go-sdk/bcs"
	"github.com/pkg/errors"
)

func u64(value uint64) []byte {
	serializer := &bcs.Serializer{}
	serializer.U64(value)
	return serializer.ToBytes()
}

func address(value string) ([]byte, error) {
	var parsed aptos.AccountAddress
	if err := parsed.ParseStringRelaxed(value); err != nil {
		return nil, errors.Wrapf(err, "invalid address %q", value)
	}

	serializer := &bcs.Serializer{}
	parsed.MarshalBCS(serializer)
	if err := serializer.Error(); err != nil {
		return nil, errors.Wrapf(err, "cannot encode address %q", value)
	}
	return serializer.ToBytes(), nil
}
