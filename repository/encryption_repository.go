package repository

// EncryptionRepository defines the interface for authenticated symmetric
// encryption of sensitive cache payloads.
type EncryptionRepository interface {
	// Encrypt returns the base64 encoding of salt‖nonce‖ciphertext.
	Encrypt(plaintext string) (string, error)
	// Decrypt reverses Encrypt, failing on any tampering or malformed input.
	Decrypt(encoded string) (string, error)
	// Available reports whether a usable master secret is configured.
	Available() bool
}
