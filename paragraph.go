package docx

import "strings"

// PartKind describes which kind of docx part a paragraph was parsed from.
type PartKind int

const (
	PartDocument PartKind = iota
	PartHeader
	PartFooter
)

func (k PartKind) String() string {
	switch k {
	case PartHeader:
		return "header"
	case PartFooter:
		return "footer"
	default:
		return "document"
	}
}

// Paragraph is a <w:p> element together with the structural context it was found in.
// Paragraphs inside text boxes are nested in runs of another paragraph, the runs of the
// nested paragraph belong to the nested paragraph only.
type Paragraph struct {
	ID        int
	Part      string
	Kind      PartKind
	OpenTag   Position
	CloseTag  Position
	StyleID   string
	InTable   bool
	InTextBox bool
	Runs      DocumentRuns

	// separator collects tabs and breaks until the next text element is opened
	separator string
}

// Text returns the concatenated text of all runs of the paragraph.
func (p *Paragraph) Text() string {
	var b strings.Builder
	for _, run := range p.Runs {
		b.WriteString(run.Text())
	}
	return b.String()
}

// TextRuns returns all text elements of the paragraph in document order.
func (p *Paragraph) TextRuns() []*TextRun {
	return p.Runs.TextRuns()
}

// TopLevel returns true for paragraphs which are direct content of the document body,
// i.e. not part of a table, a text box, a header or a footer.
func (p *Paragraph) TopLevel() bool {
	return p.Kind == PartDocument && !p.InTable && !p.InTextBox
}

// Classify returns the category of the paragraph.
// isList reports whether the paragraph style denotes a list item.
func (p *Paragraph) Classify(isList func(styleID string) bool) Category {
	switch {
	case p.Kind == PartHeader || p.Kind == PartFooter:
		return CategoryHeadersFooters
	case p.InTextBox:
		return CategoryShapes
	case p.InTable:
		return CategoryTables
	case p.StyleID != "" && isList != nil && isList(p.StyleID):
		return CategoryLists
	default:
		return CategoryBody
	}
}
