package model

// PasswordVerifier compares a plaintext password with a stored hash.
type PasswordVerifier interface {
	Verify(plaintext, hash string) bool
}

// PasswordHasher produces hashes accepted by the matching PasswordVerifier.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
}

// CredentialStore checks sign-in attempts.
type CredentialStore interface {
	Verify(username, password string) bool
}
