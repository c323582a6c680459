package docx

import (
	"fmt"
	"strings"
)

// Run defines a non-block region of text with a common set of properties.
// It is specified with the <w:r> element.
// In our case the run is specified by the byte positions of its open and close tag
// and the text elements (<w:t>) it contains.
type Run struct {
	ID       int
	OpenTag  Position
	CloseTag Position
	Texts    []*TextRun
	// Hyperlink is set if the run is a descendant of a <w:hyperlink> element.
	Hyperlink bool
}

// Text returns the decoded text of all text elements of the run.
// Tabs and line breaks preceding a text element are included as '\t' and '\n'.
func (r *Run) Text() string {
	var b strings.Builder
	for _, text := range r.Texts {
		b.WriteString(text.Separator)
		b.WriteString(text.Text)
	}
	return b.String()
}

// HasText returns true if the run contains at least one text element.
func (r *Run) HasText() bool {
	return len(r.Texts) > 0
}

// String returns a string representation of the run, given the source bytes.
// It may be helpful in debugging.
func (r *Run) String(bytes []byte) string {
	format := "run %d from offset [%d:%d] '%s' to [%d:%d] '%s' with %d text elements"
	return fmt.Sprintf(format, r.ID,
		r.OpenTag.Start, r.OpenTag.End, bytes[r.OpenTag.Start:r.OpenTag.End],
		r.CloseTag.Start, r.CloseTag.End, bytes[r.CloseTag.Start:r.CloseTag.End],
		len(r.Texts),
	)
}

// DocumentRuns is a convenience type used to describe a slice of runs.
type DocumentRuns []*Run

// WithText returns all runs which contain at least one text element.
func (dr DocumentRuns) WithText() DocumentRuns {
	var r DocumentRuns
	for _, run := range dr {
		if run.HasText() {
			r = append(r, run)
		}
	}
	return r
}

// TextRuns returns the text elements of all runs in document order.
func (dr DocumentRuns) TextRuns() []*TextRun {
	var texts []*TextRun
	for _, run := range dr {
		texts = append(texts, run.Texts...)
	}
	return texts
}

// TextRun defines the <w:t> element which contains the actual literal text data.
// A TextRun is always a child of a Run.
type TextRun struct {
	OpenTag  Position
	CloseTag Position
	// Text is the decoded character data between the tags.
	Text string
	// Separator holds the tabs ('\t') and line breaks ('\n') between the previous
	// text element of the paragraph and this one.
	Separator string
	// Preserve is set if the element carries xml:space="preserve".
	Preserve bool
}

// Content returns the position of the raw (escaped) text between the tags.
func (t *TextRun) Content() Position {
	return Position{Start: t.OpenTag.End, End: t.CloseTag.Start}
}

// SelfClosing returns true for an empty element written as <w:t/>.
func (t *TextRun) SelfClosing() bool {
	return t.OpenTag.End == t.CloseTag.End
}

// prefix returns the namespace prefix of the element including the colon, e.g. "w:".
// An unprefixed element yields an empty string.
func (t *TextRun) prefix(docBytes []byte) string {
	tag := string(docBytes[t.OpenTag.Start:t.OpenTag.End])
	tag = strings.TrimPrefix(tag, "<")
	if end := strings.IndexAny(tag, " \t\r\n/>"); end >= 0 {
		tag = tag[:end]
	}
	if i := strings.IndexRune(tag, ':'); i >= 0 {
		return tag[:i+1]
	}
	return ""
}

// Position is a generic position of a tag, represented by byte offsets
type Position struct {
	Start int64
	End   int64
}

// Valid returns true if Start and End are positive and Start is not after End.
func (p Position) Valid() bool {
	return p.Start >= 0 && p.End >= 0 && p.Start <= p.End
}
