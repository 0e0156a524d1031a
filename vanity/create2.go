// Package vanity searches CREATE2 salts so that a minimal-proxy clone lands
// on an address with a chosen hex suffix. It implements the CREATE2 formula
// and the EIP-1167 template directly; both are fixed, public byte layouts
// and pulling in a full chain SDK for them is not worth the dependency.
package vanity

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Address is a 20-byte EVM account address.
type Address [20]byte

// Salt is the 32-byte CREATE2 salt.
type Salt [32]byte

// HexToAddress parses a 40-hex-char address, with or without the 0x prefix.
func HexToAddress(s string) (Address, error) {
	var a Address
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	if len(s) != 40 {
		return a, fmt.Errorf("address must be 40 hex chars, got %d", len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return a, fmt.Errorf("invalid address hex: %w", err)
	}
	copy(a[:], b)
	return a, nil
}

// Hex returns the lowercase 0x-prefixed representation. Suffix matching is
// defined over this form.
func (a Address) Hex() string {
	return "0x" + hex.EncodeToString(a[:])
}

// Hex returns the lowercase 0x-prefixed representation of the salt.
func (s Salt) Hex() string {
	return "0x" + hex.EncodeToString(s[:])
}

// Keccak256 hashes the concatenation of its arguments with legacy Keccak-256.
func Keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}

// CreateAddress2 computes the CREATE2 deployment address:
// keccak256(0xff ++ deployer ++ salt ++ initCodeHash)[12:].
// Pure function of its inputs.
func CreateAddress2(deployer Address, salt Salt, initCodeHash []byte) Address {
	var a Address
	sum := Keccak256([]byte{0xff}, deployer[:], salt[:], initCodeHash)
	copy(a[:], sum[12:])
	return a
}
