package cryptox

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"errors"

	"github.com/dmitrijs2005/backoffice/internal/common"
)

const (
	// KeySize is the required cipher key length in bytes (AES-256).
	KeySize = 32
	// NonceSize is the GCM nonce length.
	NonceSize = 12
	// TagSize is the GCM authentication tag length.
	TagSize = 16
)

// blobPrefix marks the layout version of an encrypted blob.
var blobPrefix = []byte("bo1")

// ErrInvalidKeyLength is returned when the key is not exactly KeySize bytes.
var ErrInvalidKeyLength = errors.New("invalid key length")

var blobEncoding = base64.RawURLEncoding

func newGCM(key string) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeyLength
	}
	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Encrypt seals plainText with AES-256-GCM under key.
//
// The result is prefix || nonce || ciphertext || tag, base64url encoded
// without padding so it can be stored in a cookie as is.
func Encrypt(plainText, key string) (string, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := common.GenerateRandByteArray(NonceSize)

	out := make([]byte, 0, len(blobPrefix)+NonceSize+len(plainText)+TagSize)
	out = append(out, blobPrefix...)
	out = append(out, nonce...)
	out = aesgcm.Seal(out, nonce, []byte(plainText), nil)

	return blobEncoding.EncodeToString(out), nil
}

// Decrypt opens a blob produced by Encrypt.
//
// Only a bad key length is reported as an error. Any decoding, layout or
// authentication failure yields an empty string, so a forged value looks
// exactly like a missing one.
func Decrypt(encoded, key string) (string, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	raw, err := blobEncoding.DecodeString(encoded)
	if err != nil {
		return "", nil
	}
	if len(raw) < len(blobPrefix)+NonceSize+TagSize {
		return "", nil
	}
	if !bytes.Equal(raw[:len(blobPrefix)], blobPrefix) {
		return "", nil
	}

	raw = raw[len(blobPrefix):]
	nonce, sealed := raw[:NonceSize], raw[NonceSize:]

	plain, err := aesgcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", nil
	}
	return string(plain), nil
}

// CookieCipher binds Encrypt/Decrypt to a key validated once at startup.
type CookieCipher struct {
	key string
}

// NewCookieCipher returns ErrInvalidKeyLength for keys that are not KeySize
// bytes long.
func NewCookieCipher(key string) (*CookieCipher, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeyLength
	}
	return &CookieCipher{key: key}, nil
}

// Seal encrypts a cookie value.
func (c *CookieCipher) Seal(value string) (string, error) {
	return Encrypt(value, c.key)
}

// Open decrypts a cookie value; "" means absent or tampered.
func (c *CookieCipher) Open(value string) string {
	plain, err := Decrypt(value, c.key)
	if err != nil {
		return ""
	}
	return plain
}
