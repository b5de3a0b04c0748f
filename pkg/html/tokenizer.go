package html

import (
	"fmt"
	gohtml "html"
	"strings"
	"unicode"
)

type TokenType int

const (
	TokenStartTag TokenType = iota
	TokenEndTag
	TokenText
	TokenEOF
)

type Token struct {
	Type        TokenType
	TagName     string
	Attributes  map[string]string
	Text        string
	SelfClosing bool // tag written as <x/>
}

type Tokenizer struct {
	input string
	pos   int
}

func NewTokenizer(html string) *Tokenizer {
	return &Tokenizer{input: html}
}

// NextToken returns the next token. Comments, doctypes and processing
// instructions are skipped; whitespace-only text between tags is dropped.
func (t *Tokenizer) NextToken() (Token, error) {
	for t.pos < len(t.input) {
		if t.input[t.pos] != '<' {
			if tok, ok := t.readText(); ok {
				return tok, nil
			}
			continue
		}
		if t.skipMarkupDeclaration() {
			continue
		}
		return t.readTag()
	}
	return Token{Type: TokenEOF}, nil
}

// skipMarkupDeclaration consumes <!-- -->, <!...> and <?...?> at pos.
func (t *Tokenizer) skipMarkupDeclaration() bool {
	rest := t.input[t.pos:]
	var end string
	switch {
	case strings.HasPrefix(rest, "<!--"):
		end = "-->"
	case strings.HasPrefix(rest, "<!"):
		end = ">"
	case strings.HasPrefix(rest, "<?"):
		end = "?>"
	default:
		return false
	}
	if i := strings.Index(rest[2:], end); i >= 0 {
		t.pos += 2 + i + len(end)
	} else {
		t.pos = len(t.input)
	}
	return true
}

func (t *Tokenizer) readTag() (Token, error) {
	t.pos++ // '<'

	isEndTag := t.peek() == '/'
	if isEndTag {
		t.pos++
	}
	tagName := t.readName(isTagNameChar)
	if tagName == "" {
		return Token{}, fmt.Errorf("expected tag name at position %d", t.pos)
	}
	if isEndTag {
		if err := t.skipPast('>'); err != nil {
			return Token{}, err
		}
		return Token{Type: TokenEndTag, TagName: tagName}, nil
	}

	tok := Token{Type: TokenStartTag, TagName: tagName, Attributes: make(map[string]string)}
	for {
		t.skipWhitespace()
		switch t.peek() {
		case 0:
			return Token{}, fmt.Errorf("unexpected EOF in <%s>", tagName)
		case '>':
			t.pos++
			return tok, nil
		case '/':
			t.pos++
			t.skipWhitespace()
			if t.peek() == '>' {
				t.pos++
				tok.SelfClosing = true
				return tok, nil
			}
			continue
		}
		name, value, err := t.readAttribute()
		if err != nil {
			return Token{}, err
		}
		tok.Attributes[name] = value
	}
}

func (t *Tokenizer) readAttribute() (string, string, error) {
	name := t.readName(isAttributeNameChar)
	if name == "" {
		return "", "", fmt.Errorf("expected attribute name at position %d", t.pos)
	}
	t.skipWhitespace()
	if t.peek() != '=' {
		return name, "", nil
	}
	t.pos++
	t.skipWhitespace()

	quote := t.peek()
	if quote == '"' || quote == '\'' {
		t.pos++
		end := strings.IndexByte(t.input[t.pos:], quote)
		if end < 0 {
			return "", "", fmt.Errorf("unterminated value for attribute %q", name)
		}
		value := t.input[t.pos : t.pos+end]
		t.pos += end + 1
		return name, gohtml.UnescapeString(value), nil
	}
	start := t.pos
	for t.pos < len(t.input) && !unicode.IsSpace(rune(t.input[t.pos])) && t.input[t.pos] != '>' {
		t.pos++
	}
	return name, gohtml.UnescapeString(t.input[start:t.pos]), nil
}

// readText consumes text up to the next '<'. Whitespace-only runs yield
// no token.
func (t *Tokenizer) readText() (Token, bool) {
	end := strings.IndexByte(t.input[t.pos:], '<')
	if end < 0 {
		end = len(t.input) - t.pos
	}
	raw := t.input[t.pos : t.pos+end]
	t.pos += end
	if strings.TrimSpace(raw) == "" {
		return Token{}, false
	}
	return Token{Type: TokenText, Text: gohtml.UnescapeString(normalizeWhitespace(raw))}, true
}

// normalizeWhitespace collapses runs of whitespace to a single space while
// keeping one space at either edge, so "text <em>word</em> more" keeps the
// gaps around the inline element.
func normalizeWhitespace(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	var sb strings.Builder
	if unicode.IsSpace(rune(s[0])) {
		sb.WriteByte(' ')
	}
	sb.WriteString(strings.Join(fields, " "))
	if unicode.IsSpace(rune(s[len(s)-1])) {
		sb.WriteByte(' ')
	}
	return sb.String()
}

// ReadRawUntil returns the raw content up to the (case-insensitive)
// closing tag of a raw text element such as <script> or <style>, and
// consumes the closing tag.
func (t *Tokenizer) ReadRawUntil(endTag string) string {
	needle := "</" + strings.ToLower(endTag) + ">"
	rest := t.input[t.pos:]
	i := strings.Index(strings.ToLower(rest), needle)
	if i < 0 {
		t.pos = len(t.input)
		return rest
	}
	t.pos += i + len(needle)
	return rest[:i]
}

func (t *Tokenizer) peek() byte {
	if t.pos >= len(t.input) {
		return 0
	}
	return t.input[t.pos]
}

func (t *Tokenizer) readName(valid func(byte) bool) string {
	start := t.pos
	for t.pos < len(t.input) && valid(t.input[t.pos]) {
		t.pos++
	}
	return strings.ToLower(t.input[start:t.pos])
}

func (t *Tokenizer) skipWhitespace() {
	for t.pos < len(t.input) && unicode.IsSpace(rune(t.input[t.pos])) {
		t.pos++
	}
}

func (t *Tokenizer) skipPast(target byte) error {
	i := strings.IndexByte(t.input[t.pos:], target)
	if i < 0 {
		t.pos = len(t.input)
		return fmt.Errorf("expected '%c' but reached EOF", target)
	}
	t.pos += i + 1
	return nil
}

func isTagNameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isAttributeNameChar(c byte) bool {
	return isTagNameChar(c) || c == ':' || c == '.'
}
