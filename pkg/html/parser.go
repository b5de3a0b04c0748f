package html

import (
	"fmt"
	"net/url"
	"strings"
)

type Parser struct {
	tokenizer *Tokenizer
	doc       *Document
	stack     []*Node
}

func NewParser(html string) *Parser {
	return &Parser{
		tokenizer: NewTokenizer(html),
		doc:       NewDocument(),
	}
}

func (p *Parser) Parse() (*Document, error) {
	p.stack = []*Node{p.doc.Root}

	for {
		token, err := p.tokenizer.NextToken()
		if err != nil {
			return nil, fmt.Errorf("tokenizer error: %w", err)
		}
		if token.Type == TokenEOF {
			break
		}

		switch token.Type {
		case TokenStartTag:
			// <style> and <script> bodies are raw text and never enter the tree.
			switch token.TagName {
			case "style":
				p.doc.Stylesheets = append(p.doc.Stylesheets, p.tokenizer.ReadRawUntil("style"))
				continue
			case "script":
				p.doc.Scripts = append(p.doc.Scripts, p.tokenizer.ReadRawUntil("script"))
				continue
			}

			if p.isBlockElement(token.TagName) {
				p.autoCloseP()
			}

			node := &Node{
				Type:       ElementNode,
				TagName:    token.TagName,
				Attributes: token.Attributes,
				Children:   make([]*Node, 0),
			}
			p.currentParent().AddChild(node)

			if token.TagName == "link" {
				p.collectLinkStylesheet(token.Attributes)
			}

			if !token.SelfClosing && !isVoidElement(token.TagName) {
				p.push(node)
			}

		case TokenText:
			p.currentParent().AppendText(token.Text)

		case TokenEndTag:
			p.closeTag(token.TagName)
		}
	}

	return p.doc, nil
}

// currentParent returns the current parent node (top of stack)
func (p *Parser) currentParent() *Node {
	if len(p.stack) == 0 {
		return p.doc.Root
	}
	return p.stack[len(p.stack)-1]
}

func (p *Parser) push(node *Node) {
	p.stack = append(p.stack, node)
}

// closeTag pops the stack until the matching tag is found and closed
func (p *Parser) closeTag(tagName string) {
	for i := len(p.stack) - 1; i >= 1; i-- {
		if p.stack[i].TagName == tagName {
			p.stack = p.stack[:i]
			return
		}
	}
	// Tag not found on stack; ignore the end tag
}

// autoCloseP closes an open <p> element if one is on the stack
func (p *Parser) autoCloseP() {
	for i := len(p.stack) - 1; i >= 1; i-- {
		if p.stack[i].TagName == "p" {
			p.stack = p.stack[:i]
			return
		}
		// Don't close past block-level containers
		if p.isBlockElement(p.stack[i].TagName) {
			return
		}
	}
}

// isBlockElement returns true for elements that auto-close <p>
func (p *Parser) isBlockElement(tagName string) bool {
	return IsBlockTag(tagName) && tagName != "body" && tagName != "html"
}

// IsBlockTag reports whether tag is block-level by default.
func IsBlockTag(tag string) bool {
	switch tag {
	case "address", "article", "aside", "blockquote", "body", "details", "dialog",
		"dd", "div", "dl", "dt", "fieldset", "figcaption", "figure",
		"footer", "form", "h1", "h2", "h3", "h4", "h5", "h6",
		"header", "hgroup", "hr", "html", "li", "main", "nav", "ol",
		"p", "pre", "section", "table", "ul":
		return true
	}
	return false
}

// collectLinkStylesheet loads CSS from a <link rel="stylesheet"> data URI.
// Other hrefs are recorded in Links for the caller to fetch.
func (p *Parser) collectLinkStylesheet(attrs map[string]string) {
	if !strings.Contains(attrs["rel"], "stylesheet") {
		return
	}
	href := strings.TrimSpace(attrs["href"])
	if !strings.HasPrefix(href, "data:text/css,") {
		if href != "" {
			p.doc.Links = append(p.doc.Links, href)
		}
		return
	}
	encoded := href[len("data:text/css,"):]
	decoded, err := url.PathUnescape(encoded)
	if err != nil {
		decoded = encoded
	}
	p.doc.Stylesheets = append(p.doc.Stylesheets, decoded)
}

func Parse(html string) (*Document, error) {
	return NewParser(html).Parse()
}

// ParseFragment parses markup into detached top-level nodes.
func ParseFragment(markup string) ([]*Node, error) {
	doc, err := Parse(markup)
	if err != nil {
		return nil, err
	}
	nodes := append([]*Node(nil), doc.Root.Children...)
	for _, n := range nodes {
		n.Parent = nil
	}
	doc.Root.Children = nil
	return nodes, nil
}

// FindByID returns the first element below root whose id attribute matches.
func FindByID(root *Node, id string) *Node {
	var found *Node
	root.Walk(func(n *Node) bool {
		if found != nil {
			return false
		}
		if n.Type == ElementNode {
			if v, ok := n.Attributes["id"]; ok && v == id {
				found = n
				return false
			}
		}
		return true
	})
	return found
}
