package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateSalt_Unique(t *testing.T) {
	seen := make(map[string]struct{})
	for range 10 {
		salt, err := GenerateSalt()
		require.NoError(t, err)
		require.NotEmpty(t, salt)

		_, dup := seen[salt]
		require.False(t, dup, "salts must never repeat")
		seen[salt] = struct{}{}
	}
}

func TestHashPassword_Deterministic(t *testing.T) {
	salt, err := GenerateSalt()
	require.NoError(t, err)

	h1 := HashPassword(salt, "correct horse battery staple")
	h2 := HashPassword(salt, "correct horse battery staple")
	require.Equal(t, h1, h2, "same salt and password must produce same digest")

	other, err := GenerateSalt()
	require.NoError(t, err)
	require.NotEqual(t, h1, HashPassword(other, "correct horse battery staple"),
		"different salt must produce different digest")
}

func TestVerifyPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 100)},
		{"empty password", ""},
		{"unicode password", "пароль🔒密码"},
		{"whitespace password", "   spaces   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			salt, err := GenerateSalt()
			require.NoError(t, err)

			hash := HashPassword(salt, tt.password)
			require.True(t, VerifyPassword(tt.password, salt, hash))
			require.False(t, VerifyPassword(tt.password+"x", salt, hash))
			require.False(t, VerifyPassword("completely different", salt, hash))
		})
	}
}

func TestVerifyPassword_MalformedInput(t *testing.T) {
	salt, err := GenerateSalt()
	require.NoError(t, err)

	// None of these should panic; they should just fail to verify.
	require.False(t, VerifyPassword("pw", salt, ""))
	require.False(t, VerifyPassword("pw", salt, "not!base64!!"))
	require.False(t, VerifyPassword("pw", "", "also-not-a-digest"))
	require.False(t, VerifyPassword("", "", ""))
}

func TestVerifyPassword_WrongSalt(t *testing.T) {
	s1, err := GenerateSalt()
	require.NoError(t, err)
	s2, err := GenerateSalt()
	require.NoError(t, err)

	hash := HashPassword(s1, "hunter2")
	require.True(t, VerifyPassword("hunter2", s1, hash))
	require.False(t, VerifyPassword("hunter2", s2, hash))
}
