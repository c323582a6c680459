package docx

import (
	"bytes"
	"encoding/xml"
	"regexp"
	"sort"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// ErrOverlappingEdit is returned if two modifications of the same part would overlap.
var ErrOverlappingEdit = errors.New("overlapping edit")

// spaceAttrRegex matches an existing xml:space attribute of an open tag.
var spaceAttrRegex = regexp.MustCompile(`xml:space\s*=\s*(?:"[^"]*"|'[^']*')`)

// Replacer is the key struct which works on a single parsed docx part.
// Modifications are collected as edits on the original bytes and only applied by Bytes(),
// therefore the positions recorded by the parser stay valid during the whole replacement.
type Replacer struct {
	document     []byte
	edits        []edit
	rewritten    map[*TextRun]bool
	ReplaceCount int
	BytesChanged int64
}

// edit replaces document[Start:End] with data, Start == End is an insertion.
type edit struct {
	Position
	data []byte
}

// NewReplacer returns a new Replacer.
func NewReplacer(docBytes []byte) *Replacer {
	return &Replacer{
		document:  docBytes,
		rewritten: make(map[*TextRun]bool),
	}
}

// Replace will replace every placeholder with its value from the placeholderMap.
// Every text element is rewritten at most once, text elements which were already rewritten
// by a previous call are skipped together with the placeholders touching them.
// Values are inserted literally, placeholders contained in values are never expanded.
// Returns the number of replaced placeholders.
func (r *Replacer) Replace(placeholders []*Placeholder, placeholderMap PlaceholderMap) int {
	// the new text of every touched text element, built from the fragments
	type textEdit struct {
		fragments []*PlaceholderFragment
		values    []string
	}
	textEdits := make(map[*TextRun]*textEdit)
	var order []*TextRun

	count := 0
	for _, placeholder := range placeholders {
		value, ok := placeholderMap[placeholder.Key]
		if !ok || r.touchesRewritten(placeholder) {
			continue
		}

		for _, fragment := range placeholder.Fragments {
			te, exists := textEdits[fragment.Element]
			if !exists {
				te = &textEdit{}
				textEdits[fragment.Element] = te
				order = append(order, fragment.Element)
			}
			te.fragments = append(te.fragments, fragment)
			// the first fragment receives the value, all the others are cut
			if fragment.First() {
				te.values = append(te.values, value)
			} else {
				te.values = append(te.values, "")
			}
		}
		count++
	}

	for _, text := range order {
		te := textEdits[text]
		r.rewrite(text, spliceFragments(text.Text, te.fragments, te.values))
	}

	r.ReplaceCount += count
	return count
}

// touchesRewritten returns true if any fragment of the placeholder is in an already rewritten text element.
func (r *Replacer) touchesRewritten(placeholder *Placeholder) bool {
	for _, fragment := range placeholder.Fragments {
		if r.rewritten[fragment.Element] {
			return true
		}
	}
	return false
}

// spliceFragments replaces each fragment's range of text with the corresponding value.
// The fragments are non-overlapping and belong to the given text.
func spliceFragments(text string, fragments []*PlaceholderFragment, values []string) string {
	idx := make([]int, len(fragments))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		return fragments[idx[a]].Position.Start < fragments[idx[b]].Position.Start
	})

	var b strings.Builder
	var cursor int64
	for _, i := range idx {
		pos := fragments[i].Position
		b.WriteString(text[cursor:pos.Start])
		b.WriteString(values[i])
		cursor = pos.End
	}
	b.WriteString(text[cursor:])
	return b.String()
}

// rewrite schedules replacing the content of the text element with the given text.
func (r *Replacer) rewrite(text *TextRun, newText string) {
	r.rewritten[text] = true
	if newText == text.Text || text.SelfClosing() {
		return
	}

	content, preserve := encodeText(text.prefix(r.document), newText)
	if preserve && !text.Preserve {
		r.edits = append(r.edits, r.preserveSpace(text))
	}
	r.edits = append(r.edits, edit{Position: text.Content(), data: []byte(content)})
}

// preserveSpace returns the edit setting xml:space="preserve" on the open tag of the text element.
// An existing xml:space attribute is overwritten, otherwise the attribute is inserted
// right before the closing '>'.
func (r *Replacer) preserveSpace(text *TextRun) edit {
	attr := []byte(`xml:space="preserve"`)
	tag := r.document[text.OpenTag.Start:text.OpenTag.End]
	if loc := spaceAttrRegex.FindIndex(tag); loc != nil {
		return edit{
			Position: Position{Start: text.OpenTag.Start + int64(loc[0]), End: text.OpenTag.Start + int64(loc[1])},
			data:     attr,
		}
	}
	pos := text.OpenTag.End - 1
	return edit{
		Position: Position{Start: pos, End: pos},
		data:     append([]byte(" "), attr...),
	}
}

// Bytes returns the document bytes with all edits applied.
func (r *Replacer) Bytes() ([]byte, error) {
	if len(r.edits) == 0 {
		return r.document, nil
	}

	edits := make([]edit, len(r.edits))
	copy(edits, r.edits)
	sort.SliceStable(edits, func(i, j int) bool {
		return edits[i].Start < edits[j].Start
	})

	var buf bytes.Buffer
	buf.Grow(len(r.document))
	var cursor int64
	for _, e := range edits {
		if e.Start < cursor || e.End > int64(len(r.document)) || !e.Valid() {
			return nil, errors.Errorf("%w at [%d:%d]", ErrOverlappingEdit, e.Start, e.End)
		}
		buf.Write(r.document[cursor:e.Start])
		buf.Write(e.data)
		cursor = e.End
	}
	buf.Write(r.document[cursor:])

	r.BytesChanged = int64(buf.Len()) - int64(len(r.document))
	return buf.Bytes(), nil
}

// encodeText escapes the text for use as content of a <w:t> element.
// Line breaks and tabs cannot be expressed inside <w:t>, the element is closed and
// a <w:br/> or <w:tab/> sibling is emitted instead, just like Word does.
// The returned bool reports whether the (first) text element needs xml:space="preserve".
func encodeText(prefix, text string) (string, bool) {
	var (
		b        strings.Builder
		chunk    strings.Builder
		first    = true
		preserve bool
	)

	flush := func() {
		s := chunk.String()
		if first && s != strings.TrimSpace(s) {
			preserve = true
		}
		first = false
		_ = xml.EscapeText(&b, []byte(s))
		chunk.Reset()
	}
	sibling := func(local string) {
		flush()
		b.WriteString("</" + prefix + "t>")
		b.WriteString("<" + prefix + local + "/>")
		b.WriteString("<" + prefix + `t xml:space="preserve">`)
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	for _, c := range text {
		switch c {
		case '\n', '\r':
			sibling("br")
		case '\t':
			sibling("tab")
		default:
			chunk.WriteRune(c)
		}
	}
	flush()

	return b.String(), preserve
}
