package ports

// PasswordHasher hashes and verifies account passwords
type PasswordHasher interface {
	// Hash derives a storable hash from a plaintext password
	Hash(password string) (string, error)

	// Compare checks password against hash; a mismatch yields core.ErrInvalidCredentials
	Compare(hash, password string) error
}
