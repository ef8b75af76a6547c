package jsonc

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind identifies the JSON value kind of a parsed node.
type Kind int

const (
	KindObject Kind = iota
	KindArray
	KindString
	KindNumber
	KindBool
	KindNull
)

// Span is a half-open byte range [Start, End) into the original document text.
type Span struct {
	Start int
	End   int
}

// Member is one key/value pair of an object, in document order.
type Member struct {
	// Key is the decoded key string.
	Key string
	// KeySpan covers the key token including its quotes.
	KeySpan Span
	// Value is the member's value node.
	Value *Value
}

// Value is a parsed node. Scalar nodes keep their raw token text so they can
// be compared and re-emitted byte-for-byte.
type Value struct {
	Kind    Kind
	Span    Span
	Members []*Member // objects only, in document order
	Elems   []*Value  // arrays only
	Raw     string    // scalars only: the original token text
}

// Member returns the object member with the given key, or nil.
func (v *Value) Member(key string) *Member {
	if v == nil || v.Kind != KindObject {
		return nil
	}
	for _, m := range v.Members {
		if m.Key == key {
			return m
		}
	}
	return nil
}

// Lookup walks a key path through nested objects and returns the value at the
// end of it, or nil if any step is missing or not an object.
func (v *Value) Lookup(path ...string) *Value {
	cur := v
	for _, key := range path {
		m := cur.Member(key)
		if m == nil {
			return nil
		}
		cur = m.Value
	}
	return cur
}

// Keys returns the member keys of an object value in document order.
func (v *Value) Keys() []string {
	if v == nil || v.Kind != KindObject {
		return nil
	}
	keys := make([]string, 0, len(v.Members))
	for _, m := range v.Members {
		keys = append(keys, m.Key)
	}
	return keys
}

// StringValue decodes a string node. Returns an error for non-string nodes.
func (v *Value) StringValue() (string, error) {
	if v == nil || v.Kind != KindString {
		return "", fmt.Errorf("value is not a string")
	}
	var s string
	if err := json.Unmarshal([]byte(v.Raw), &s); err != nil {
		return "", err
	}
	return s, nil
}

// ParseError reports where parsing stopped and why.
type ParseError struct {
	Offset int
	Line   int
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

// Document is one configuration file held in memory: the original text, the
// parsed tree, and the indentation unit detected from the text.
type Document struct {
	Text   string
	Root   *Value // nil when the text is blank
	Indent string
}

// Parse parses comment-tolerant JSON and returns the root value with spans
// into text. Blank input (only whitespace and comments) yields a nil root.
func Parse(text string) (*Value, error) {
	p := &parser{src: text}
	p.skipTrivia()
	if p.pos >= len(p.src) {
		return nil, nil
	}
	root, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	p.skipTrivia()
	if p.pos < len(p.src) {
		return nil, p.errorf("unexpected trailing content")
	}
	return root, nil
}

// ParseDocument parses text into a Document, detecting the indentation unit.
func ParseDocument(text string) (*Document, error) {
	root, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return &Document{Text: text, Root: root, Indent: DetectIndent(text)}, nil
}

// DetectIndent returns the indentation unit used by the document: the leading
// whitespace run of the first indented line. Defaults to two spaces.
func DetectIndent(text string) string {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" || len(trimmed) == len(line) {
			continue
		}
		indent := line[:len(line)-len(trimmed)]
		if strings.HasPrefix(indent, "\t") {
			return "\t"
		}
		return indent
	}
	return "  "
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(format string, args ...interface{}) *ParseError {
	line, col := 1, 1
	for _, r := range p.src[:p.pos] {
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return &ParseError{Offset: p.pos, Line: line, Column: col, Msg: fmt.Sprintf(format, args...)}
}

// skipTrivia advances past whitespace and // and /* */ comments.
func (p *parser) skipTrivia() {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			p.pos++
		case c == '/' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '/':
			for p.pos < len(p.src) && p.src[p.pos] != '\n' {
				p.pos++
			}
		case c == '/' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '*':
			end := strings.Index(p.src[p.pos+2:], "*/")
			if end < 0 {
				p.pos = len(p.src)
				return
			}
			p.pos += 2 + end + 2
		default:
			return
		}
	}
}

func (p *parser) parseValue() (*Value, error) {
	if p.pos >= len(p.src) {
		return nil, p.errorf("unexpected end of input")
	}
	switch c := p.src[p.pos]; {
	case c == '{':
		return p.parseObject()
	case c == '[':
		return p.parseArray()
	case c == '"':
		return p.parseString()
	case c == 't' || c == 'f':
		return p.parseKeyword()
	case c == 'n':
		return p.parseKeyword()
	case c == '-' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	default:
		return nil, p.errorf("unexpected character %q", c)
	}
}

func (p *parser) parseObject() (*Value, error) {
	start := p.pos
	p.pos++ // '{'
	v := &Value{Kind: KindObject}
	for {
		p.skipTrivia()
		if p.pos >= len(p.src) {
			return nil, p.errorf("unterminated object")
		}
		if p.src[p.pos] == '}' {
			p.pos++
			v.Span = Span{start, p.pos}
			return v, nil
		}
		if p.src[p.pos] != '"' {
			return nil, p.errorf("expected object key")
		}
		key, err := p.parseString()
		if err != nil {
			return nil, err
		}
		keyStr, err := key.StringValue()
		if err != nil {
			return nil, p.errorf("invalid object key: %v", err)
		}
		p.skipTrivia()
		if p.pos >= len(p.src) || p.src[p.pos] != ':' {
			return nil, p.errorf("expected ':' after object key")
		}
		p.pos++
		p.skipTrivia()
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		v.Members = append(v.Members, &Member{Key: keyStr, KeySpan: key.Span, Value: val})
		p.skipTrivia()
		if p.pos >= len(p.src) {
			return nil, p.errorf("unterminated object")
		}
		switch p.src[p.pos] {
		case ',':
			p.pos++ // trailing comma before '}' is tolerated on the next loop
		case '}':
			// next loop closes
		default:
			return nil, p.errorf("expected ',' or '}' in object")
		}
	}
}

func (p *parser) parseArray() (*Value, error) {
	start := p.pos
	p.pos++ // '['
	v := &Value{Kind: KindArray}
	for {
		p.skipTrivia()
		if p.pos >= len(p.src) {
			return nil, p.errorf("unterminated array")
		}
		if p.src[p.pos] == ']' {
			p.pos++
			v.Span = Span{start, p.pos}
			return v, nil
		}
		elem, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		v.Elems = append(v.Elems, elem)
		p.skipTrivia()
		if p.pos >= len(p.src) {
			return nil, p.errorf("unterminated array")
		}
		switch p.src[p.pos] {
		case ',':
			p.pos++
		case ']':
			// next loop closes
		default:
			return nil, p.errorf("expected ',' or ']' in array")
		}
	}
}

func (p *parser) parseString() (*Value, error) {
	start := p.pos
	p.pos++ // opening quote
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '\\':
			p.pos += 2
		case '"':
			p.pos++
			raw := p.src[start:p.pos]
			var s string
			if err := json.Unmarshal([]byte(raw), &s); err != nil {
				return nil, p.errorf("invalid string literal: %v", err)
			}
			return &Value{Kind: KindString, Span: Span{start, p.pos}, Raw: raw}, nil
		case '\n':
			return nil, p.errorf("unterminated string literal")
		default:
			p.pos++
		}
	}
	return nil, p.errorf("unterminated string literal")
}

func (p *parser) parseKeyword() (*Value, error) {
	for _, kw := range []struct {
		lit  string
		kind Kind
	}{
		{"true", KindBool},
		{"false", KindBool},
		{"null", KindNull},
	} {
		if strings.HasPrefix(p.src[p.pos:], kw.lit) {
			start := p.pos
			p.pos += len(kw.lit)
			return &Value{Kind: kw.kind, Span: Span{start, p.pos}, Raw: kw.lit}, nil
		}
	}
	return nil, p.errorf("unexpected token")
}

func (p *parser) parseNumber() (*Value, error) {
	start := p.pos
	for p.pos < len(p.src) && strings.ContainsRune("-+0123456789.eE", rune(p.src[p.pos])) {
		p.pos++
	}
	raw := p.src[start:p.pos]
	var f float64
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		return nil, p.errorf("invalid number literal %q", raw)
	}
	return &Value{Kind: KindNumber, Span: Span{start, p.pos}, Raw: raw}, nil
}
