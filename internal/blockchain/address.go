package blockchain

import (
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

const addressHexLength = 64

// NormalizeAddress returns the long form of an account address: "0x" followed by
// 64 lowercase hex characters, left-padded with zeros.
func NormalizeAddress(address string) (string, error) {
	raw := strings.ToLower(strings.TrimSpace(address))
	raw = strings.TrimPrefix(raw, "0x")

	if raw == "" {
		return "", errors.New("address: empty")
	}
	if len(raw) > addressHexLength {
		return "", errors.Errorf("address: %q is longer than %d hex characters", address, addressHexLength)
	}

	padded := strings.Repeat("0", addressHexLength-len(raw)) + raw
	if _, err := hex.DecodeString(padded); err != nil {
		return "", errors.Wrapf(err, "address: %q is not hex", address)
	}

	return "0x" + padded, nil
}

// SameAddress compares two addresses in any accepted form.
func SameAddress(a, b string) bool {
	na, err := NormalizeAddress(a)
	if err != nil {
		return false
	}
	nb, err := NormalizeAddress(b)
	if err != nil {
		return false
	}
	return na == nb
}
