// Package adaptive provides authenticated encryption for NavKeep data
// at rest.
//
// Persisted navigation records and export bundles are sealed with an
// AEAD cipher chosen for the hardware the process runs on:
//
//   - AES-256-GCM on amd64 and arm64, where Go's crypto/aes uses the
//     CPU's AES instructions
//   - ChaCha20-Poly1305 everywhere else
//
// Keys are always 32 bytes. Configuration supplies them hex encoded;
// NewFromHexKey builds a cipher straight from the config value.
//
// Usage:
//
//	cipher, err := adaptive.NewFromHexKey(cfg.EncryptionKey)
//	sealed, err := cipher.Encrypt(plaintext, aad)
//	plaintext, err := cipher.Decrypt(sealed, aad)
//
// Every Encrypt call draws a fresh random nonce and prepends it to the
// ciphertext, so callers never manage nonces themselves.
package adaptive
