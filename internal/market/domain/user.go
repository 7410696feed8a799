package domain

import "time"

// User is a registered account. PasswordSalt and PasswordHash are derived at
// registration (or password change) and never read back as plaintext.
type User struct {
	ID           string
	Username     string
	Email        string
	Bio          string
	Image        string
	PasswordSalt string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
