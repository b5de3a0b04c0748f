package clamp

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Split cuts s on boundary. The empty boundary splits s into grapheme
// clusters so that combining marks and emoji sequences stay whole.
func Split(s, boundary string) []string {
	if boundary != "" {
		return strings.Split(s, boundary)
	}
	tokens := make([]string, 0, len(s))
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		tokens = append(tokens, g.Str())
	}
	return tokens
}
