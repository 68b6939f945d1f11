package blockchain

import (
	"encoding/hex"
	"strings"
)

// ed25519 public keys are 32 bytes; some wallets hand them back with a leading
// type byte (33 bytes).
const prefixedPublicKeyHexLength = 66

// NormalizePublicKey strips surrounding space, any 0x prefix and, for a 33-byte hex
// key, the leading byte. Applying it to its own output returns that output unchanged.
func NormalizePublicKey(publicKey string) string {
	key := stripHexPrefix(publicKey)
	if len(key) == prefixedPublicKeyHexLength && isHex(key) {
		key = key[2:]
	}
	return key
}

// NormalizeSignature strips surrounding space and any 0x prefix.
func NormalizeSignature(signature string) string {
	return stripHexPrefix(signature)
}

// stripHexPrefix repeats until nothing changes, so "0x 0xab" and "0xab" agree.
func stripHexPrefix(s string) string {
	for {
		trimmed := strings.TrimSpace(s)
		if len(trimmed) >= 2 && strings.EqualFold(trimmed[:2], "0x") {
			trimmed = trimmed[2:]
		}
		if trimmed == s {
			return s
		}
		s = trimmed
	}
}

func isHex(s string) bool {
	_, err := hex.DecodeString(s)
	return err == nil
}
