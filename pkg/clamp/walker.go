package clamp

import (
	"strings"

	"lineclamp/pkg/html"
)

// LastValidTextNode returns the last text node under container that holds
// non-whitespace text. Empty text nodes and childless elements met at the
// end of the last-child chain are detached on the way, and the walk starts
// over from container. It returns nil once no text is left.
func LastValidTextNode(container *html.Node) *html.Node {
	if container == nil {
		return nil
	}
	for {
		n := container
		for len(n.Children) > 0 {
			n = n.LastChild()
		}
		if n == container {
			return nil
		}
		if n.Type == html.TextNode && strings.TrimSpace(n.Text) != "" {
			return n
		}
		n.Detach()
	}
}
