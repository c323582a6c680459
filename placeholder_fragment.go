package docx

import "fmt"

// PlaceholderFragment is a part of a placeholder within a single text element.
// If the full placeholder is e.g. '{foo-bar}', the placeholder might be ripped
// apart by Word into several runs. So it will most likely occur, that
// the placeholders are split into multiple fragments (e.g. '{foo' and '-bar}').
type PlaceholderFragment struct {
	Position Position // Position of the fragment within the decoded text of the element.
	Number   int      // numbering fragments for ease of use. Numbering is scoped to placeholders.
	Element  *TextRun
}

// NewPlaceholderFragment returns an initialized PlaceholderFragment.
func NewPlaceholderFragment(number int, pos Position, text *TextRun) *PlaceholderFragment {
	return &PlaceholderFragment{
		Position: pos,
		Number:   number,
		Element:  text,
	}
}

// Text returns the text of the fragment.
// If the text element is too short for the offsets, an empty string is returned.
func (p PlaceholderFragment) Text() string {
	if p.Element == nil || int64(len(p.Element.Text)) < p.Position.End {
		return ""
	}
	return p.Element.Text[p.Position.Start:p.Position.End]
}

// First returns true for the fragment which receives the replacement value.
func (p PlaceholderFragment) First() bool {
	return p.Number == 0
}

// String spits out the most important bits and pieces of a fragment and can be used for debugging purposes.
func (p PlaceholderFragment) String() string {
	return fmt.Sprintf("fragment %d with text-positions [%d:%d] '%s' in element at [%d:%d]",
		p.Number, p.Position.Start, p.Position.End, p.Text(),
		p.Element.OpenTag.Start, p.Element.CloseTag.End)
}

// Valid returns true if all positions of the fragment are valid.
func (p PlaceholderFragment) Valid() bool {
	return p.Element != nil &&
		p.Element.OpenTag.Valid() &&
		p.Element.CloseTag.Valid() &&
		p.Position.Valid() &&
		p.Position.End <= int64(len(p.Element.Text))
}
