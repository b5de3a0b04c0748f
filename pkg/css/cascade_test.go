package css

import "testing"

func TestParseStylesheet(t *testing.T) {
	sheet := ParseStylesheet(`
		/* comment */
		p, .note { color: red; }
		@media print { p { color: black; } }
		broken
		#x { margin: 4px }
	`)
	if len(sheet.Rules) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(sheet.Rules))
	}
	if sheet.Rules[2].Declarations["margin-left"] != "4px" {
		t.Errorf("shorthand not expanded: %v", sheet.Rules[2].Declarations)
	}
}

func TestComputeStyleSpecificity(t *testing.T) {
	doc := parseDoc(t, `<style>
		#t { color: blue; }
		p.c { color: green; }
		p { color: red; font-size: 20px; }
	</style><p id="t" class="c" style="font-size: 10px">x</p>`)
	c := NewCascade(doc)
	p := doc.Root.Children[0]
	style := c.Specified(p)
	if v, _ := style.Get("color"); v != "blue" {
		t.Errorf("color = %q, want blue", v)
	}
	if v, _ := style.Get("font-size"); v != "10px" {
		t.Errorf("inline style should win, font-size = %q", v)
	}
}

func TestCascadeInheritance(t *testing.T) {
	doc := parseDoc(t, `<div style="font-weight: bold; width: 10px"><span><em>x</em></span></div>`)
	c := NewCascade(doc)
	em := doc.Root.Children[0].Children[0].Children[0]
	style := c.Computed(em.Children[0])
	if !style.IsBold() || !style.IsItalic() {
		t.Errorf("expected inherited bold and UA italic: %v", style.Properties)
	}
	if _, ok := style.Get("width"); ok {
		t.Error("width must not inherit")
	}
}

func TestSetInlineProperty(t *testing.T) {
	doc := parseDoc(t, `<div style="color: red">x</div>`)
	div := doc.Root.Children[0]
	SetInlineProperty(div, "overflow", "hidden")
	if got, _ := div.GetAttribute("style"); got != "color: red; overflow: hidden" {
		t.Errorf("style = %q", got)
	}
}
