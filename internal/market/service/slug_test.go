package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Vintage Camera", "vintage-camera"},
		{"  Hand-made   Mug!  ", "hand-made-mug"},
		{"100% Wool Scarf", "100-wool-scarf"},
		{"CAPS LOCK", "caps-lock"},
		{"---", ""},
		{"", ""},
		{"trailing punctuation...", "trailing-punctuation"},
	}
	for _, c := range cases {
		require.Equal(t, c.want, slugify(c.title), "title %q", c.title)
	}
}

func TestSlugSuffixVaries(t *testing.T) {
	require.Len(t, slugSuffix(), 8)
	require.NotEqual(t, slugSuffix(), slugSuffix())
}

func TestNormalizeTags(t *testing.T) {
	got := normalizeTags([]string{" Wool ", "vintage", "WOOL", "", "craft"})
	require.Equal(t, []string{"craft", "vintage", "wool"}, got)
}
