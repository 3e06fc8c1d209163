package adaptive

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// AESGCM implements AES-256-GCM authenticated encryption.
type AESGCM struct {
	baseCipher
}

// NewAESGCM creates a new AES-256-GCM cipher.
//
// Key must be exactly 32 bytes.
func NewAESGCM(key []byte) (*AESGCM, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("invalid key size for AES-256-GCM: must be %d bytes, got %d", KeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &AESGCM{
		baseCipher: baseCipher{aead: aead},
	}, nil
}

// Type returns the cipher type.
func (c *AESGCM) Type() CipherType {
	return CipherAESGCM
}

// Encrypt encrypts plaintext with additional data.
func (c *AESGCM) Encrypt(plaintext, additionalData []byte) ([]byte, error) {
	return c.encrypt(plaintext, additionalData)
}

// Decrypt decrypts ciphertext with additional data.
func (c *AESGCM) Decrypt(ciphertext, additionalData []byte) ([]byte, error) {
	return c.decrypt(ciphertext, additionalData)
}

// NonceSize returns the nonce size in bytes.
func (c *AESGCM) NonceSize() int {
	return c.baseCipher.NonceSize()
}

// Overhead returns the authentication tag size in bytes.
func (c *AESGCM) Overhead() int {
	return c.baseCipher.Overhead()
}
