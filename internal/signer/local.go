// Package signer provides signing delegates for the transaction submitter. A delegate
// stands in for the wallet: it gets a signing message and answers with a public key
// and a signature, or refuses.
package signer

import (
	"context"
	"encoding/hex"
	"mome/internal/blockchain"
	"mome/internal/logger"
	"mome/internal/transaction"
	"strings"

	"github.com/aptos-labs/aptos-go-sdk"
	"github.com/aptos-labs/aptos-go-sdk/crypto"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const privateKeyPrefix = "ed25519-priv-"

var (
	ErrWrongAccount = errors.New("signer: request is for another account")
	ErrTimeout      = errors.New("signer: no answer in time")
)

type options struct {
	prefixedPublicKey bool
}

type Option func(*options)

// WithPrefixedPublicKey answers with a 33-byte public key, a leading zero byte in
// front of the key, the way some browser wallets do.
func WithPrefixedPublicKey() Option {
	return func(o *options) {
		o.prefixedPublicKey = true
	}
}

// ParsePrivateKey accepts an Ed25519 private key as plain hex, 0x hex or in the
// "ed25519-priv-0x..." form.
func ParsePrivateKey(s string) (*crypto.Ed25519PrivateKey, error) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimPrefix(raw, privateKeyPrefix)
	raw = strings.TrimPrefix(raw, "0x")
	if raw == "" {
		return nil, errors.New("signer: empty private key")
	}

	keyBytes, err := hex.DecodeString(raw)
	if err != nil {
		return nil, errors.Wrap(err, "signer: private key is not hex")
	}

	key := &crypto.Ed25519PrivateKey{}
	if err := key.FromBytes(keyBytes); err != nil {
		return nil, errors.Wrap(err, "signer: invalid private key")
	}
	return key, nil
}

// Account builds the on-chain account the key controls.
func Account(key *crypto.Ed25519PrivateKey) (*aptos.Account, error) {
	account, err := aptos.NewAccountFromSigner(key)
	if err != nil {
		return nil, errors.Wrap(err, "signer: cannot derive account")
	}
	return account, nil
}

// Local returns a delegate that signs with key. It refuses requests for any address
// other than the key's own account.
func Local(key *crypto.Ed25519PrivateKey, opts ...Option) (transaction.SigningDelegate, error) {
	account, err := Account(key)
	if err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	address := account.Address.String()
	publicKey := hex.EncodeToString(key.PubKey().Bytes())
	if o.prefixedPublicKey {
		publicKey = "00" + publicKey
	}

	return func(ctx context.Context, request transaction.SignatureRequest) (*transaction.Signature, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !blockchain.SameAddress(request.Address, address) {
			return nil, errors.Wrapf(ErrWrongAccount, "signer: %s cannot sign for %s", address, request.Address)
		}

		message, err := hex.DecodeString(strings.TrimPrefix(request.Message, "0x"))
		if err != nil {
			return nil, errors.Wrap(err, "signer: message is not hex")
		}

		signature, err := key.SignMessage(message)
		if err != nil {
			return nil, errors.Wrap(err, "signer: cannot sign")
		}

		logger.Debug("signer: signed message", zap.String("address", address), zap.Int("bytes", len(message)))
		return &transaction.Signature{
			PublicKey: "0x" + publicKey,
			Signature: "0x" + hex.EncodeToString(signature.Bytes()),
		}, nil
	}, nil
}
