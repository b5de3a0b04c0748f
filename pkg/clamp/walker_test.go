package clamp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lineclamp/pkg/html"
)

func TestLastValidTextNodePrunesEmptyTail(t *testing.T) {
	el := container(t, `<div id="c"><p>keep <em>this</em></p><span></span><b></b></div>`)
	el.AddChild(html.NewText("   "))

	n := LastValidTextNode(el)
	require.NotNil(t, n)
	assert.Equal(t, "this", n.Text)
	assert.Len(t, el.Children, 1, "empty span, b and whitespace text are detached")
}

func TestLastValidTextNodeDescendsLastChild(t *testing.T) {
	el := container(t, `<div id="c">first <span>second <i>third</i></span></div>`)
	n := LastValidTextNode(el)
	require.NotNil(t, n)
	assert.Equal(t, "third", n.Text)
	assert.Equal(t, "i", n.Parent.TagName)
}

func TestLastValidTextNodeEmpty(t *testing.T) {
	el := container(t, `<div id="c"><span><b></b></span></div>`)
	assert.Nil(t, LastValidTextNode(el))
	assert.Empty(t, el.Children)
	assert.Nil(t, LastValidTextNode(nil))
}
