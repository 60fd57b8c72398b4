package cryptox

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"a",
		"eyJhbGciOiJIUzI1NiJ9.payload.signature",
		strings.Repeat("x", 4096),
		"unicode: привет, 世界",
	}

	for _, in := range inputs {
		enc, err := Encrypt(in, testKey)
		require.NoError(t, err)

		dec, err := Decrypt(enc, testKey)
		require.NoError(t, err)
		assert.Equal(t, in, dec)
	}
}

func TestEncrypt_Layout(t *testing.T) {
	enc, err := Encrypt("hello", testKey)
	require.NoError(t, err)

	raw, err := blobEncoding.DecodeString(enc)
	require.NoError(t, err)
	assert.Equal(t, len(blobPrefix)+NonceSize+len("hello")+TagSize, len(raw))
	assert.Equal(t, blobPrefix, raw[:len(blobPrefix)])
}

func TestEncrypt_RandomNonce(t *testing.T) {
	a, err := Encrypt("same", testKey)
	require.NoError(t, err)
	b, err := Encrypt("same", testKey)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestInvalidKeyLength(t *testing.T) {
	keys := []string{"", "short", testKey + "x", testKey[:31]}

	for _, k := range keys {
		_, err := Encrypt("data", k)
		assert.True(t, errors.Is(err, ErrInvalidKeyLength), "encrypt with %d byte key: %v", len(k), err)

		_, err = Decrypt("data", k)
		assert.True(t, errors.Is(err, ErrInvalidKeyLength), "decrypt with %d byte key: %v", len(k), err)
	}
}

func TestDecrypt_TamperedBytesYieldEmpty(t *testing.T) {
	enc, err := Encrypt("session-token", testKey)
	require.NoError(t, err)

	raw, err := blobEncoding.DecodeString(enc)
	require.NoError(t, err)

	for i := range raw {
		tampered := append([]byte(nil), raw...)
		tampered[i] ^= 0x01

		dec, err := Decrypt(blobEncoding.EncodeToString(tampered), testKey)
		require.NoError(t, err, "byte %d", i)
		assert.Equal(t, "", dec, "byte %d", i)
	}
}

func TestDecrypt_MalformedInputYieldsEmpty(t *testing.T) {
	enc, err := Encrypt("session-token", testKey)
	require.NoError(t, err)

	cases := map[string]string{
		"not base64": "%%%***",
		"too short":  blobEncoding.EncodeToString([]byte("bo1abc")),
		"truncated":  enc[:len(enc)-4],
		"empty":      "",
	}

	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			dec, err := Decrypt(in, testKey)
			require.NoError(t, err)
			assert.Equal(t, "", dec)
		})
	}
}

func TestDecrypt_WrongKeyYieldsEmpty(t *testing.T) {
	enc, err := Encrypt("session-token", testKey)
	require.NoError(t, err)

	dec, err := Decrypt(enc, strings.Repeat("k", KeySize))
	require.NoError(t, err)
	assert.Equal(t, "", dec)
}

func TestCookieCipher(t *testing.T) {
	_, err := NewCookieCipher("too-short")
	assert.ErrorIs(t, err, ErrInvalidKeyLength)

	c, err := NewCookieCipher(testKey)
	require.NoError(t, err)

	sealed, err := c.Seal("value")
	require.NoError(t, err)
	assert.Equal(t, "value", c.Open(sealed))
	assert.Equal(t, "", c.Open(sealed+"A"))
	assert.Equal(t, "", c.Open("garbage"))
}
