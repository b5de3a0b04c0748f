package resource

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"

	"lineclamp/internal/logging"
	"lineclamp/pkg/clamp"
	"lineclamp/pkg/css"
	"lineclamp/pkg/html"
	"lineclamp/pkg/js"
	"lineclamp/pkg/layout"
	"lineclamp/pkg/render"
	"lineclamp/pkg/text"
)

// PageOptions configures how a page is loaded and laid out.
type PageOptions struct {
	Width, Height   float64
	Metrics         text.Metrics
	NativeLineClamp bool
	Log             *slog.Logger
}

// Page is a parsed document with external stylesheets inlined and a
// layout engine that answers measurement queries against it.
type Page struct {
	Doc    *html.Document
	Layout *layout.Engine

	opts PageOptions
}

// Load fetches source through f and parses it. Relative stylesheet links
// resolve through f as well.
func Load(ctx context.Context, f Fetcher, source string, opts PageOptions) (*Page, error) {
	body, _, err := f.Fetch(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", source, err)
	}
	return Parse(ctx, f, string(body), opts)
}

// Parse builds a page from HTML content. Stylesheets that fail to load are
// logged and skipped. f may be nil, in which case links are ignored.
func Parse(ctx context.Context, f Fetcher, content string, opts PageOptions) (*Page, error) {
	if opts.Log == nil {
		opts.Log = logging.NewNop()
	}
	if opts.Metrics == nil {
		opts.Metrics = text.NewFontMetrics(text.DefaultFontConfig())
	}
	doc, err := html.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	if f != nil {
		for _, href := range doc.Links {
			sheet, err := FetchCSS(ctx, f, href)
			if err != nil {
				opts.Log.Warn("stylesheet skipped", "href", href, "error", err)
				continue
			}
			doc.Stylesheets = append(doc.Stylesheets, sheet)
		}
	}
	le := layout.NewLayoutEngine(doc, opts.Metrics, opts.Width, opts.Height)
	le.SetLineClampSupport(opts.NativeLineClamp)
	return &Page{Doc: doc, Layout: le, opts: opts}, nil
}

// Select returns the first element matching selector.
func (p *Page) Select(selector string) (*html.Node, error) {
	found := p.QueryAll(selector)
	if len(found) == 0 {
		return nil, fmt.Errorf("no element matches %q", selector)
	}
	return found[0], nil
}

// QueryAll returns every element matching selector in document order.
func (p *Page) QueryAll(selector string) []*html.Node {
	return css.QuerySelectorAll(p.Doc.Root, selector)
}

// Clamper returns a clamper measuring against this page.
func (p *Page) Clamper() *clamp.Clamper {
	c := clamp.NewClamper(p.Layout)
	c.SetLogger(p.opts.Log)
	return c
}

// RunScripts executes the page's scripts, draining their timers before
// returning.
func (p *Page) RunScripts(ctx context.Context, observer clamp.Observer) (*js.Engine, error) {
	engine := js.New(p.opts.Log)
	if observer != nil {
		engine.SetObserver(observer)
	}
	return engine, engine.Execute(ctx, p.Doc, p.Layout)
}

// Render paints the page's current state.
func (p *Page) Render() *render.Renderer {
	fonts, _ := p.opts.Metrics.(*text.FontMetrics)
	r := render.NewRenderer(int(math.Ceil(p.opts.Width)), int(math.Ceil(p.opts.Height)), fonts)
	r.Render(p.boxes())
	return r
}

// WritePNG renders the page and encodes it as PNG.
func (p *Page) WritePNG(w io.Writer) error {
	return p.Render().EncodePNG(w)
}

// boxes lays out the top-level elements of the document.
func (p *Page) boxes() []*layout.Box {
	var boxes []*layout.Box
	for _, child := range p.Doc.Root.Children {
		if child.Type != html.ElementNode {
			continue
		}
		box, err := p.Layout.Layout(child)
		if err != nil {
			continue
		}
		boxes = append(boxes, box)
	}
	return boxes
}

// Serialize returns the document's current HTML.
func (p *Page) Serialize() string {
	return p.Doc.Root.Serialize()
}
