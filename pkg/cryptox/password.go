package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters. These follow the OWASP minimum recommendation for
// interactive logins.
const (
	memory      = 19 * 1024 // Memory usage in KiB (19 MiB)
	iterations  = 2         // Iteration count
	parallelism = 1         // Number of threads
	keyLength   = 32        // Length of the derived key
	saltLength  = 16        // Length of the salt
)

// GenerateSalt returns a fresh cryptographically random salt, base64url
// encoded. Every user gets their own salt; it is stored alongside the hash.
func GenerateSalt() (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("cryptox: failed to generate salt: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(salt), nil
}

// HashPassword derives an Argon2id digest of the password under the given
// salt and returns it base64url encoded. Deterministic: the same salt and
// password always produce the same digest.
func HashPassword(salt, password string) string {
	hash := argon2.IDKey(
		[]byte(password),
		[]byte(salt),
		iterations,
		memory,
		parallelism,
		keyLength,
	)
	return base64.RawURLEncoding.EncodeToString(hash)
}

// VerifyPassword reports whether password hashes to expectedHash under salt.
// The comparison is constant time. Malformed input never panics; it simply
// fails to verify.
func VerifyPassword(password, salt, expectedHash string) bool {
	expected, err := base64.RawURLEncoding.DecodeString(expectedHash)
	if err != nil || len(expected) == 0 {
		return false
	}

	computed := argon2.IDKey(
		[]byte(password),
		[]byte(salt),
		iterations,
		memory,
		parallelism,
		uint32(len(expected)), // #nosec G115 - digest lengths are small
	)

	return subtle.ConstantTimeCompare(computed, expected) == 1
}
