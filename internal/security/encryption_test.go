package security

import (
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptor_EncryptDecrypt(t *testing.T) {
	// Generate a 32-byte key for AES-256
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	encryptor, err := NewEncryptor(key)
	require.NoError(t, err)

	testCases := []struct {
		name      string
		plaintext []byte
	}{
		{
			name:      "session records",
			plaintext: []byte(`[{"id":"a1","classification":{"stress_level":"High"}}]`),
		},
		{
			name:      "empty payload",
			plaintext: []byte{},
		},
		{
			name:      "unicode text",
			plaintext: []byte("Fáj a fejem és rossz a közérzetem"),
		},
		{
			name:      "binary data",
			plaintext: []byte{0x00, 0xff, 0x10, 0x80, 0x7f},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Encrypt
			ciphertext, err := encryptor.Encrypt(tc.plaintext)
			require.NoError(t, err)

			// Ciphertext carries at least the nonce and the GCM tag
			assert.Greater(t, len(ciphertext), len(tc.plaintext))

			// Decrypt
			decrypted, err := encryptor.Decrypt(ciphertext)
			require.NoError(t, err)

			// Decrypted bytes should match original plaintext
			assert.Equal(t, tc.plaintext, decrypted)
		})
	}
}

func TestEncryptor_InvalidKey(t *testing.T) {
	testCases := []struct {
		name    string
		keySize int
	}{
		{name: "too short", keySize: 16},
		{name: "too long", keySize: 64},
		{name: "empty", keySize: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			key := make([]byte, tc.keySize)
			_, err := NewEncryptor(key)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "encryption key must be 32 bytes")
		})
	}
}

func TestNewEncryptorFromHex(t *testing.T) {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	encryptor, err := NewEncryptorFromHex(hex.EncodeToString(key))
	require.NoError(t, err)
	assert.NotNil(t, encryptor)

	_, err = NewEncryptorFromHex("not hex at all")
	assert.Error(t, err)

	// Valid hex but only 128 bits
	_, err = NewEncryptorFromHex(hex.EncodeToString(key[:16]))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "encryption key must be 32 bytes")
}

func TestEncryptor_DifferentCiphertexts(t *testing.T) {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	encryptor, err := NewEncryptor(key)
	require.NoError(t, err)

	plaintext := []byte("sensitive health data")

	// Encrypt the same plaintext multiple times
	ciphertext1, err := encryptor.Encrypt(plaintext)
	require.NoError(t, err)

	ciphertext2, err := encryptor.Encrypt(plaintext)
	require.NoError(t, err)

	// Ciphertexts should be different due to random nonce
	assert.NotEqual(t, ciphertext1, ciphertext2, "encrypting the same plaintext should produce different ciphertexts")

	// Both should decrypt to the same plaintext
	decrypted1, err := encryptor.Decrypt(ciphertext1)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted1)

	decrypted2, err := encryptor.Decrypt(ciphertext2)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted2)
}

func TestEncryptor_InvalidCiphertext(t *testing.T) {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	encryptor, err := NewEncryptor(key)
	require.NoError(t, err)

	testCases := []struct {
		name       string
		ciphertext []byte
	}{
		{name: "too short", ciphertext: []byte("abc")},
		{name: "corrupted data", ciphertext: []byte("abcdefghijklmnopqrstuvwxyz")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := encryptor.Decrypt(tc.ciphertext)
			assert.Error(t, err)
		})
	}
}

func TestEncryptor_WrongKeyFailsToDecrypt(t *testing.T) {
	keyA := make([]byte, 32)
	keyB := make([]byte, 32)
	_, err := rand.Read(keyA)
	require.NoError(t, err)
	_, err = rand.Read(keyB)
	require.NoError(t, err)

	encryptorA, err := NewEncryptor(keyA)
	require.NoError(t, err)
	encryptorB, err := NewEncryptor(keyB)
	require.NoError(t, err)

	ciphertext, err := encryptorA.Encrypt([]byte("session history"))
	require.NoError(t, err)

	_, err = encryptorB.Decrypt(ciphertext)
	assert.Error(t, err)
}
