package service

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"unicode"
)

// slugify lowercases the title and reduces every run of non-alphanumeric
// characters to a single hyphen. A title with no usable characters still
// yields a non-empty slug via a random suffix at the call site.
func slugify(title string) string {
	var b strings.Builder
	hyphen := false

	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			hyphen = false
		default:
			if b.Len() > 0 && !hyphen {
				b.WriteByte('-')
				hyphen = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}

// slugSuffix returns a short random hex string appended to a slug when the
// plain form collides with an existing item.
func slugSuffix() string {
	var b [4]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
