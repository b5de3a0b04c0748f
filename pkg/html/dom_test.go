package html

import "testing"

func makeTree() *Node {
	// <div id="parent"><span>hello</span><p>world</p></div>
	parent := NewElement("div")
	parent.SetAttribute("id", "parent")
	span := NewElement("span")
	span.AppendText("hello")
	parent.AddChild(span)

	p := NewElement("p")
	p.AppendText("world")
	parent.AddChild(p)

	return parent
}

func TestRemoveChild(t *testing.T) {
	parent := makeTree()
	span := parent.Children[0]
	if removed := parent.RemoveChild(span); removed != span {
		t.Fatal("RemoveChild should return the removed child")
	}
	if span.Parent != nil {
		t.Error("removed child should have nil parent")
	}
	if len(parent.Children) != 1 || parent.Children[0].TagName != "p" {
		t.Errorf("expected only <p> to remain, got %d children", len(parent.Children))
	}
	if parent.RemoveChild(NewElement("em")) != nil {
		t.Error("RemoveChild of non-child should return nil")
	}
}

func TestInsertBefore(t *testing.T) {
	parent := makeTree()
	em := NewElement("em")
	parent.InsertBefore(em, parent.Children[1])
	if len(parent.Children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(parent.Children))
	}
	if parent.Children[1] != em || em.Parent != parent {
		t.Error("em should be at index 1 with parent set")
	}

	b := NewElement("b")
	parent.InsertBefore(b, nil)
	if parent.LastChild() != b {
		t.Error("InsertBefore(nil) should append")
	}
}

func TestInsertBeforeReparent(t *testing.T) {
	parent := makeTree()
	span := parent.Children[0]
	parent.InsertBefore(span, parent.Children[1])
	if len(parent.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(parent.Children))
	}
	if parent.Children[0] != span {
		t.Error("span should remain at index 0")
	}
}

func TestInsertAfter(t *testing.T) {
	parent := makeTree()
	span := parent.Children[0]
	marker := NewText("…")
	parent.InsertAfter(marker, span)
	if parent.Children[1] != marker {
		t.Fatalf("marker should follow span, got %q", parent.Serialize())
	}
	tail := NewText("!")
	parent.InsertAfter(tail, parent.LastChild())
	if parent.LastChild() != tail {
		t.Error("InsertAfter(last) should append")
	}
}

func TestSiblings(t *testing.T) {
	parent := makeTree()
	span, p := parent.Children[0], parent.Children[1]
	if span.NextSibling() != p || p.PreviousSibling() != span {
		t.Error("sibling links broken")
	}
	if p.NextSibling() != nil || span.PreviousSibling() != nil {
		t.Error("edge siblings should be nil")
	}
	if parent.NextSibling() != nil {
		t.Error("detached node has no siblings")
	}
}

func TestCloneNode(t *testing.T) {
	parent := makeTree()
	shallow := parent.CloneNode(false)
	if shallow.Parent != nil || len(shallow.Children) != 0 {
		t.Error("shallow clone should be detached and childless")
	}
	shallow.Attributes["id"] = "clone"
	if parent.Attributes["id"] != "parent" {
		t.Error("modifying clone should not affect original")
	}

	deep := parent.CloneNode(true)
	if len(deep.Children) != 2 {
		t.Fatalf("deep clone should have 2 children, got %d", len(deep.Children))
	}
	if deep.Children[0].Parent != deep || deep.Children[0] == parent.Children[0] {
		t.Error("deep clone children should be fresh nodes parented to the clone")
	}
}

func TestContains(t *testing.T) {
	parent := makeTree()
	textNode := parent.Children[0].Children[0]
	if !parent.Contains(parent) || !parent.Contains(textNode) {
		t.Error("node should contain itself and its descendants")
	}
	if parent.Contains(NewElement("em")) {
		t.Error("parent should not contain unrelated node")
	}
}

func TestIsConnected(t *testing.T) {
	doc := NewDocument()
	div := makeTree()
	if div.IsConnected() {
		t.Error("detached tree should not be connected")
	}
	doc.Root.AddChild(div)
	if !div.Children[1].Children[0].IsConnected() {
		t.Error("text inside the document should be connected")
	}
	div.Detach()
	if div.IsConnected() {
		t.Error("detached node should no longer be connected")
	}
}

func TestTextContent(t *testing.T) {
	parent := makeTree()
	if got := parent.TextContent(); got != "helloworld" {
		t.Errorf("TextContent() = %q", got)
	}
	parent.SetTextContent("replaced")
	if len(parent.Children) != 1 || parent.Serialize() != "replaced" {
		t.Errorf("SetTextContent left %q", parent.Serialize())
	}
}

func TestSerialize(t *testing.T) {
	parent := makeTree()
	if got, want := parent.Serialize(), "<span>hello</span><p>world</p>"; got != want {
		t.Errorf("Serialize() = %q, want %q", got, want)
	}
	if got, want := parent.SerializeOuter(), `<div id="parent"><span>hello</span><p>world</p></div>`; got != want {
		t.Errorf("SerializeOuter() = %q, want %q", got, want)
	}
}

func TestSerializeVoidAndEscaping(t *testing.T) {
	n := NewElement("p")
	n.AddChild(NewElement("br"))
	n.AppendText(`<b>"hello" & 'world'</b>`)
	want := `<br>&lt;b&gt;"hello" &amp; 'world'&lt;/b&gt;`
	if got := n.Serialize(); got != want {
		t.Errorf("Serialize() = %q, want %q", got, want)
	}

	a := NewElement("a")
	a.SetAttribute("href", "/test")
	a.SetAttribute("class", "link")
	a.AppendText("click")
	// Attributes sorted alphabetically
	if got, want := a.SerializeOuter(), `<a class="link" href="/test">click</a>`; got != want {
		t.Errorf("SerializeOuter() = %q, want %q", got, want)
	}
}
