package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"yanoback/model"
)

const (
	saltLength       = 16
	nonceLength      = 12
	keyLength        = 32 // AES-256
	pbkdf2Iterations = 100000
	minSecretLength  = 32
)

// Cipher performs AES-256-GCM encryption of string payloads under a key
// derived from the configured master secret. It holds no mutable state and
// is safe for concurrent use.
type Cipher struct {
	secret string
}

// NewCipher creates a Cipher keyed by the given master secret. The secret
// may be empty or too short; the Cipher then reports itself unavailable and
// every Encrypt/Decrypt call fails.
func NewCipher(secret string) *Cipher {
	return &Cipher{secret: secret}
}

// Available reports whether a master secret of sufficient length is configured.
func (c *Cipher) Available() bool {
	return len(c.secret) >= minSecretLength
}

// Encrypt encrypts plaintext and returns base64(salt‖nonce‖ciphertext).
// Salt and nonce are freshly random on every call; reusing a nonce under the
// same key would break GCM confidentiality and integrity.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	if !c.Available() {
		return "", model.NewEncryptionUnavailableError()
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", model.NewEncryptionError(fmt.Errorf("failed to generate salt: %w", err))
	}
	nonce := make([]byte, nonceLength)
	if _, err := rand.Read(nonce); err != nil {
		return "", model.NewEncryptionError(fmt.Errorf("failed to generate nonce: %w", err))
	}

	gcm, err := c.newGCM(salt)
	if err != nil {
		return "", model.NewEncryptionError(err)
	}

	sealed := gcm.Seal(nil, nonce, []byte(plaintext), nil)

	combined := make([]byte, 0, saltLength+nonceLength+len(sealed))
	combined = append(combined, salt...)
	combined = append(combined, nonce...)
	combined = append(combined, sealed...)
	return base64.StdEncoding.EncodeToString(combined), nil
}

// Decrypt reverses Encrypt. Any malformed input or authentication failure
// yields a decryption error; it never returns a partial plaintext.
func (c *Cipher) Decrypt(encoded string) (string, error) {
	if !c.Available() {
		return "", model.NewEncryptionUnavailableError()
	}

	combined, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", model.NewDecryptionError(fmt.Errorf("invalid base64 payload: %w", err))
	}
	if len(combined) < saltLength+nonceLength {
		return "", model.NewDecryptionError(fmt.Errorf("payload too short: %d bytes", len(combined)))
	}

	salt := combined[:saltLength]
	nonce := combined[saltLength : saltLength+nonceLength]
	sealed := combined[saltLength+nonceLength:]

	gcm, err := c.newGCM(salt)
	if err != nil {
		return "", model.NewDecryptionError(err)
	}

	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", model.NewDecryptionError(err)
	}
	return string(plaintext), nil
}

// newGCM derives the AES key from the master secret and salt via PBKDF2.
func (c *Cipher) newGCM(salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(c.secret), salt, pbkdf2Iterations, keyLength, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}
