package jsonc

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// TextEdit replaces the byte range [Start, End) of the original text with
// NewText. Edits are minimal: everything outside the range is untouched.
type TextEdit struct {
	Start   int
	End     int
	NewText string
}

// Raw is a pre-rendered JSON fragment that the encoder emits verbatim. It is
// used to carry existing document content (scalar or composite) into a
// rebuilt composite value without re-serializing it.
type Raw string

// Obj is an order-preserving object literal used to render new entries.
// encoding/json sorts map keys; tool config entries read better in the order
// the schema documents them (command before args before env), so adapters
// build entries with Obj instead of maps.
type Obj struct {
	keys []string
	vals map[string]interface{}
}

// NewObj returns an empty ordered object literal.
func NewObj() *Obj {
	return &Obj{vals: make(map[string]interface{})}
}

// Set adds or replaces a key, preserving first-set order. Returns the
// receiver for chaining.
func (o *Obj) Set(key string, value interface{}) *Obj {
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = value
	return o
}

// Len returns the number of keys.
func (o *Obj) Len() int { return len(o.keys) }

// Apply splices a set of edits into text. Edits must not overlap; they are
// applied in descending offset order so earlier spans stay valid.
func Apply(text string, edits []TextEdit) string {
	sorted := make([]TextEdit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start > sorted[j].Start })
	for _, e := range sorted {
		text = text[:e.Start] + e.NewText + text[e.End:]
	}
	return text
}

// Edit computes the minimal edits that set the value at a key path. Existing
// members are replaced in place; missing members are inserted into their
// nearest existing ancestor object, creating intermediate objects as needed.
// A nil document root yields a single edit that renders a fresh document.
func Edit(doc *Document, path []string, value interface{}) ([]TextEdit, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("empty key path")
	}
	if doc.Root == nil {
		obj := nestedObj(path, value)
		return []TextEdit{{Start: 0, End: len(doc.Text), NewText: FormatNew(obj, doc.Indent)}}, nil
	}
	if doc.Root.Kind != KindObject {
		return nil, fmt.Errorf("document root is not an object")
	}

	cur := doc.Root
	for i, key := range path {
		m := cur.Member(key)
		if m == nil {
			// Insert the remaining path into cur as one nested literal.
			val := value
			if i < len(path)-1 {
				val = nestedObj(path[i+1:], value)
			}
			return insertMember(doc, cur, key, val)
		}
		if i == len(path)-1 {
			indent := lineIndentAt(doc.Text, m.KeySpan.Start)
			return []TextEdit{{
				Start:   m.Value.Span.Start,
				End:     m.Value.Span.End,
				NewText: encodeValue(value, doc.Indent, indent),
			}}, nil
		}
		if m.Value.Kind != KindObject {
			return nil, fmt.Errorf("key %q already holds a non-object value", key)
		}
		cur = m.Value
	}
	return nil, fmt.Errorf("unreachable")
}

// Remove computes the edits that delete the member at a key path, including
// its syntactic comma. Returns an error if the path does not resolve.
func Remove(doc *Document, path []string) ([]TextEdit, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("empty key path")
	}
	if doc.Root == nil || doc.Root.Kind != KindObject {
		return nil, fmt.Errorf("key path %q not found", strings.Join(path, "."))
	}
	parent := doc.Root
	if len(path) > 1 {
		parent = doc.Root.Lookup(path[:len(path)-1]...)
		if parent == nil || parent.Kind != KindObject {
			return nil, fmt.Errorf("key path %q not found", strings.Join(path, "."))
		}
	}
	key := path[len(path)-1]
	idx := -1
	for i, m := range parent.Members {
		if m.Key == key {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("key path %q not found", strings.Join(path, "."))
	}
	m := parent.Members[idx]

	start := m.KeySpan.Start
	end := m.Value.Span.End

	// Consume a trailing comma (and the rest of the line) when one follows.
	after := end
	for after < len(doc.Text) && (doc.Text[after] == ' ' || doc.Text[after] == '\t') {
		after++
	}
	if after < len(doc.Text) && doc.Text[after] == ',' {
		end = after + 1
		for end < len(doc.Text) && (doc.Text[end] == ' ' || doc.Text[end] == '\t') {
			end++
		}
		if end < len(doc.Text) && doc.Text[end] == '\n' {
			end++
		}
		// Also swallow the indentation of the removed line, but only when the
		// member starts its own line.
		if ls := lineStart(doc.Text, start); whitespaceOnly(doc.Text[ls:start]) {
			start = ls
		}
		return []TextEdit{{Start: start, End: end}}, nil
	}

	// Last member: the preceding comma goes instead.
	if idx > 0 {
		prevEnd := parent.Members[idx-1].Value.Span.End
		comma := prevEnd
		for comma < start && doc.Text[comma] != ',' {
			comma++
		}
		if comma < start {
			return []TextEdit{{Start: comma, End: end}}, nil
		}
	}

	// Only member: collapse to the whitespace between the braces.
	start = parent.Span.Start + 1
	if s := lineStart(doc.Text, m.KeySpan.Start); s-1 > start {
		start = s - 1 // keep text before the member's line, drop its newline
	}
	return []TextEdit{{Start: start, End: end}}, nil
}

func whitespaceOnly(s string) bool {
	return strings.TrimLeft(s, " \t") == ""
}

// FormatNew renders a brand-new document containing only the given object.
func FormatNew(obj *Obj, indent string) string {
	return encodeValue(obj, indent, "") + "\n"
}

func nestedObj(path []string, value interface{}) *Obj {
	obj := NewObj().Set(path[len(path)-1], value)
	for i := len(path) - 2; i >= 0; i-- {
		obj = NewObj().Set(path[i], obj)
	}
	return obj
}

// insertMember produces the edits that add key: value to an existing object.
func insertMember(doc *Document, obj *Value, key string, value interface{}) ([]TextEdit, error) {
	objIndent := lineIndentAt(doc.Text, obj.Span.Start)

	if len(obj.Members) == 0 {
		memberIndent := objIndent + doc.Indent
		entry := "\n" + memberIndent + quoteKey(key) + ": " + encodeValue(value, doc.Indent, memberIndent) + "\n" + objIndent
		// Insert before the closing brace so interior comments survive.
		pos := obj.Span.End - 1
		return []TextEdit{{Start: pos, End: pos, NewText: entry}}, nil
	}

	last := obj.Members[len(obj.Members)-1]
	memberIndent := lineIndentAt(doc.Text, last.KeySpan.Start)
	entry := quoteKey(key) + ": " + encodeValue(value, doc.Indent, memberIndent)

	commaPos := last.Value.Span.End
	scan := commaPos
	for scan < len(doc.Text) && (doc.Text[scan] == ' ' || doc.Text[scan] == '\t') {
		scan++
	}
	if scan < len(doc.Text) && doc.Text[scan] == ',' {
		// Trailing comma already present; slot in after it.
		pos := scan + 1
		return []TextEdit{{Start: pos, End: pos, NewText: "\n" + memberIndent + entry}}, nil
	}
	if scan+1 < len(doc.Text) && doc.Text[scan] == '/' && doc.Text[scan+1] == '/' {
		// A line comment trails the last member. The comma must land before
		// the comment and the new member after it.
		eol := scan
		for eol < len(doc.Text) && doc.Text[eol] != '\n' {
			eol++
		}
		return []TextEdit{
			{Start: commaPos, End: commaPos, NewText: ","},
			{Start: eol, End: eol, NewText: "\n" + memberIndent + entry},
		}, nil
	}
	return []TextEdit{{Start: commaPos, End: commaPos, NewText: "," + "\n" + memberIndent + entry}}, nil
}

func quoteKey(key string) string {
	b, _ := json.Marshal(key)
	return string(b)
}

// lineIndentAt returns the leading whitespace of the line containing offset.
func lineIndentAt(text string, offset int) string {
	start := lineStart(text, offset)
	end := start
	for end < len(text) && (text[end] == ' ' || text[end] == '\t') {
		end++
	}
	return text[start:end]
}

func lineStart(text string, offset int) int {
	start := offset
	for start > 0 && text[start-1] != '\n' {
		start--
	}
	return start
}

// encodeValue renders a value as indented JSON. lineIndent is the indentation
// of the line the value starts on; nested lines add one more unit.
func encodeValue(v interface{}, unit, lineIndent string) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case Raw:
		return string(val)
	case *Obj:
		if val.Len() == 0 {
			return "{}"
		}
		var b strings.Builder
		b.WriteString("{\n")
		inner := lineIndent + unit
		for i, k := range val.keys {
			b.WriteString(inner)
			b.WriteString(quoteKey(k))
			b.WriteString(": ")
			b.WriteString(encodeValue(val.vals[k], unit, inner))
			if i < len(val.keys)-1 {
				b.WriteString(",")
			}
			b.WriteString("\n")
		}
		b.WriteString(lineIndent)
		b.WriteString("}")
		return b.String()
	case map[string]string:
		if len(val) == 0 {
			return "{}"
		}
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := NewObj()
		for _, k := range keys {
			obj.Set(k, val[k])
		}
		return encodeValue(obj, unit, lineIndent)
	case []string:
		elems := make([]interface{}, len(val))
		for i, s := range val {
			elems[i] = s
		}
		return encodeValue(elems, unit, lineIndent)
	case []interface{}:
		if len(val) == 0 {
			return "[]"
		}
		if scalarsOnly(val) {
			parts := make([]string, len(val))
			for i, e := range val {
				parts[i] = encodeValue(e, unit, lineIndent)
			}
			return "[" + strings.Join(parts, ", ") + "]"
		}
		var b strings.Builder
		b.WriteString("[\n")
		inner := lineIndent + unit
		for i, e := range val {
			b.WriteString(inner)
			b.WriteString(encodeValue(e, unit, inner))
			if i < len(val)-1 {
				b.WriteString(",")
			}
			b.WriteString("\n")
		}
		b.WriteString(lineIndent)
		b.WriteString("]")
		return b.String()
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return "null"
		}
		return string(b)
	}
}

func scalarsOnly(elems []interface{}) bool {
	for _, e := range elems {
		switch e.(type) {
		case *Obj, []interface{}, []string, map[string]string:
			return false
		}
	}
	return true
}
