package css

import (
	"testing"

	"lineclamp/pkg/html"
)

func parseDoc(t *testing.T, s string) *html.Document {
	t.Helper()
	doc, err := html.Parse(s)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return doc
}

func TestParseSelector(t *testing.T) {
	sel, ok := ParseSelector("div.card > p#lead.intro.big")
	if !ok {
		t.Fatal("expected selector to parse")
	}
	if len(sel.Parts) != 2 || sel.Combinators[0] != ChildCombinator {
		t.Fatalf("unexpected parts %+v", sel)
	}
	if sel.Specificity != 11+121 {
		t.Errorf("specificity = %d", sel.Specificity)
	}
	for _, bad := range []string{"", "a:hover", "> p", "input[type]"} {
		if _, ok := ParseSelector(bad); ok {
			t.Errorf("ParseSelector(%q) should fail", bad)
		}
	}
}

func TestQuerySelector(t *testing.T) {
	doc := parseDoc(t, `<div class="card"><section><p id="a" class="x">one</p></section><p class="x y">two</p></div><p>three</p>`)

	if got := QuerySelectorAll(doc.Root, ".card p"); len(got) != 2 {
		t.Errorf(".card p matched %d", len(got))
	}
	if got := QuerySelectorAll(doc.Root, ".card > p"); len(got) != 1 || got[0].TextContent() != "two" {
		t.Errorf(".card > p matched %d", len(got))
	}
	if got := QuerySelector(doc.Root, "#a"); got == nil || got.TextContent() != "one" {
		t.Error("#a not found")
	}
	if got := QuerySelectorAll(doc.Root, "p.x.y, #missing"); len(got) != 1 {
		t.Errorf("p.x.y matched %d", len(got))
	}
	if QuerySelector(doc.Root, "span") != nil {
		t.Error("span should not match")
	}
}
