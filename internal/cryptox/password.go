// Package cryptox holds the cryptographic primitives of the session core:
// salted password hashing and authenticated encryption of cookie values.
package cryptox

import (
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/dmitrijs2005/backoffice/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	// SaltSize is the number of random bytes in a password salt.
	SaltSize = 30
	// DerivedKeySize is the length of the derived key in bytes.
	DerivedKeySize = 64

	credentialSeparator = "."
)

// Argon2Hasher hashes passwords with Argon2id. The zero value is not usable;
// start from DefaultHasher.
type Argon2Hasher struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
}

// DefaultHasher is used by HashPassword and ComparePassword.
var DefaultHasher = &Argon2Hasher{Time: 1, Memory: 64 * 1024, Threads: 4}

func (h *Argon2Hasher) derive(plainText, salt string) []byte {
	return argon2.IDKey([]byte(plainText), []byte(salt), h.Time, h.Memory, h.Threads, DerivedKeySize)
}

// Hash returns "salt.derived", both hex encoded. A fresh salt is drawn for
// every call.
func (h *Argon2Hasher) Hash(plainText string) (string, error) {
	salt, err := common.MakeRandHexString(SaltSize)
	if err != nil {
		return "", err
	}
	derived := h.derive(plainText, salt)
	return salt + credentialSeparator + hex.EncodeToString(derived), nil
}

// Compare reports whether plainText matches a credential produced by Hash.
// Malformed credentials never match.
func (h *Argon2Hasher) Compare(plainText, stored string) bool {
	salt, expectedHex, ok := strings.Cut(stored, credentialSeparator)
	if !ok || salt == "" || expectedHex == "" {
		return false
	}
	expected, err := hex.DecodeString(expectedHex)
	if err != nil || len(expected) != DerivedKeySize {
		return false
	}
	derived := h.derive(plainText, salt)
	return subtle.ConstantTimeCompare(derived, expected) == 1
}

// HashPassword hashes plainText with DefaultHasher.
func HashPassword(plainText string) (string, error) {
	return DefaultHasher.Hash(plainText)
}

// ComparePassword checks plainText against stored with DefaultHasher.
func ComparePassword(plainText, stored string) bool {
	return DefaultHasher.Compare(plainText, stored)
}
