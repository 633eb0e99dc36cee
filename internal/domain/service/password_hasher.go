package service

// PasswordHasher defines the interface for hashing and verifying passwords.
type PasswordHasher interface {
	// Hash returns the salted hash of a plaintext password.
	Hash(password string) (string, error)

	// Check reports whether the plaintext password matches the hash.
	Check(password, hash string) bool
}
