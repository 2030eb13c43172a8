package cmd

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{
			name:   "short string unchanged",
			in:     "https://example.com/p/1",
			maxLen: 60,
			want:   "https://example.com/p/1",
		},
		{
			name:   "long ASCII string cut with ellipsis",
			in:     strings.Repeat("a", 70),
			maxLen: 10,
			want:   strings.Repeat("a", 7) + "...",
		},
		{
			name:   "multi-byte runes count as one",
			in:     strings.Repeat("₹", 30),
			maxLen: 60,
			want:   strings.Repeat("₹", 30),
		},
		{
			name:   "cut point lands between runes, not inside one",
			in:     strings.Repeat("₹", 70),
			maxLen: 10,
			want:   strings.Repeat("₹", 7) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := truncate(tt.in, tt.maxLen)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}
