package clamp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		boundary string
		want     []string
	}{
		{"sentences", "One. Two. Three", ".", []string{"One", " Two", " Three"}},
		{"spaces", "a b  c", " ", []string{"a", "b", "", "c"}},
		{"no boundary present", "abc", "-", []string{"abc"}},
		{"graphemes", "ab", "", []string{"a", "b"}},
		{"combining mark stays whole", "e\u0301x", "", []string{"e\u0301", "x"}},
		{"flag emoji stays whole", "\U0001F1EB\U0001F1F7!", "", []string{"\U0001F1EB\U0001F1F7", "!"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Split(tt.in, tt.boundary))
		})
	}
}

func TestSplitEmptyGraphemes(t *testing.T) {
	assert.Empty(t, Split("", ""))
}
