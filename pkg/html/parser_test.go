package html

import "testing"

func TestParser_NestedElements(t *testing.T) {
	doc, err := Parse(`<div><section><p>Deep</p></section></div>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Root.Children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(doc.Root.Children))
	}
	div := doc.Root.Children[0]
	section := div.Children[0]
	p := section.Children[0]
	if div.TagName != "div" || section.TagName != "section" || p.TagName != "p" {
		t.Errorf("unexpected tree %s", doc.Root.Serialize())
	}
	if p.Children[0].Type != TextNode || p.Children[0].Text != "Deep" {
		t.Error("expected text node with 'Deep'")
	}
	if p.Parent != section || div.Parent != doc.Root {
		t.Error("parent references not set")
	}
}

func TestParser_Attributes(t *testing.T) {
	doc, err := Parse(`<div id="box" style="color: red" data-x='a &amp; b'></div>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	div := doc.Root.Children[0]
	if style, _ := div.GetAttribute("style"); style != "color: red" {
		t.Errorf("style = %q", style)
	}
	if v, _ := div.GetAttribute("data-x"); v != "a & b" {
		t.Errorf("data-x = %q", v)
	}
	if FindByID(doc.Root, "box") != div {
		t.Error("FindByID should locate the div")
	}
}

func TestParser_AutoCloseP(t *testing.T) {
	doc, err := Parse(`<p>one<div>two</div>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Root.Children) != 2 {
		t.Fatalf("expected <p> and <div> as siblings, got %s", doc.Root.Serialize())
	}
}

func TestParser_VoidAndSelfClosing(t *testing.T) {
	doc, err := Parse(`<div>a<br>b<img src="x"/>c</div>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	div := doc.Root.Children[0]
	if len(div.Children) != 5 {
		t.Fatalf("expected 5 children, got %d (%s)", len(div.Children), div.Serialize())
	}
}

func TestParser_StyleAndScriptTags(t *testing.T) {
	doc, err := Parse(`
		<style>div { color: red; }</style>
		<div>x</div>
		<script>if (a < b) { clamp(el, 2); }</script>
		<style>p { color: blue; }</style>
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Root.Children) != 1 || doc.Root.Children[0].TagName != "div" {
		t.Fatalf("style and script should not enter the tree: %s", doc.Root.Serialize())
	}
	if len(doc.Stylesheets) != 2 || doc.Stylesheets[1] != "p { color: blue; }" {
		t.Errorf("stylesheets = %q", doc.Stylesheets)
	}
	if len(doc.Scripts) != 1 || doc.Scripts[0] != "if (a < b) { clamp(el, 2); }" {
		t.Errorf("scripts = %q", doc.Scripts)
	}
}

func TestParser_LinkDataStylesheet(t *testing.T) {
	doc, err := Parse(`<link rel="stylesheet" href="data:text/css,p%20%7B%20color%3A%20red%20%7D"><p>x</p>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Stylesheets) != 1 || doc.Stylesheets[0] != "p { color: red }" {
		t.Errorf("stylesheets = %q", doc.Stylesheets)
	}
}

func TestParser_ExternalStylesheetLink(t *testing.T) {
	doc, err := Parse(`<link rel="stylesheet" href="css/site.css"><link rel="icon" href="x.ico"><p>x</p>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Links) != 1 || doc.Links[0] != "css/site.css" {
		t.Errorf("links = %q", doc.Links)
	}
	if len(doc.Stylesheets) != 0 {
		t.Errorf("stylesheets = %q", doc.Stylesheets)
	}
}

func TestParseFragment(t *testing.T) {
	nodes, err := ParseFragment(`<a href="#">more</a> tail`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(nodes))
	}
	for _, n := range nodes {
		if n.Parent != nil {
			t.Error("fragment nodes should be detached")
		}
	}
	if nodes[1].Text != " tail" {
		t.Errorf("text = %q", nodes[1].Text)
	}
}
