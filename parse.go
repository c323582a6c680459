package docx

import (
	"bytes"
	"encoding/xml"
	"io"

	"gitlab.com/tozd/go/errors"
)

const (
	// WordNamespace is the namespace of WordprocessingML elements (transitional).
	WordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	// StrictWordNamespace is the namespace of WordprocessingML elements in strict OOXML documents.
	StrictWordNamespace = "http://purl.oclc.org/ooxml/wordprocessingml/main"
)

// ParagraphParser locates all paragraphs, runs and text elements of a single docx part.
// All positions are byte offsets into the part, the parser never modifies the data.
type ParagraphParser struct {
	part       string
	kind       PartKind
	doc        []byte
	paragraphs []*Paragraph
	runID      int
}

// NewParagraphParser returns a parser for the given part.
func NewParagraphParser(part string, kind PartKind, doc []byte) *ParagraphParser {
	return &ParagraphParser{
		part: part,
		kind: kind,
		doc:  doc,
	}
}

// Execute will fire up the parser.
// The parser does a single pass over the part, keeping track of the enclosing
// tables, text boxes and hyperlinks while recording every <w:p>, <w:r> and <w:t>.
func (parser *ParagraphParser) Execute() error {
	decoder := xml.NewDecoder(bytes.NewReader(parser.doc))

	var (
		paragraphs []*Paragraph // open paragraphs, text boxes nest them
		runs       []*Run       // open runs
		text       *TextRun     // open text element
		textData   []byte
		parents    []xml.Name

		tableDepth     int
		textBoxDepth   int
		hyperlinkDepth int
	)

	// parentIs reports whether the innermost open elements are the given ones, outermost first
	parentIs := func(locals ...string) bool {
		if len(parents) < len(locals) {
			return false
		}
		open := parents[len(parents)-len(locals):]
		for i, local := range locals {
			if !isWordElement(open[i]) || open[i].Local != local {
				return false
			}
		}
		return true
	}

	for {
		// the offset before reading the token is where the tag starts
		tagStart := decoder.InputOffset()
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Errorf("unable to parse %s: %w", parser.part, err)
		}
		tagEnd := decoder.InputOffset()

		switch elem := tok.(type) {
		case xml.StartElement:
			if isWordElement(elem.Name) {
				switch elem.Name.Local {
				case "tbl":
					tableDepth++
				case "txbxContent":
					textBoxDepth++
				case "hyperlink":
					hyperlinkDepth++
				case "p":
					paragraph := &Paragraph{
						ID:        len(parser.paragraphs) + 1,
						Part:      parser.part,
						Kind:      parser.kind,
						OpenTag:   Position{Start: tagStart, End: tagEnd},
						InTable:   tableDepth > 0,
						InTextBox: textBoxDepth > 0,
					}
					paragraphs = append(paragraphs, paragraph)
					parser.paragraphs = append(parser.paragraphs, paragraph)
				case "pStyle":
					// the pPr of a tracked change (pPrChange) holds the previous style
					if parentIs("p", "pPr") && len(paragraphs) > 0 {
						paragraphs[len(paragraphs)-1].StyleID = attrValue(elem.Attr, "val")
					}
				case "r":
					if len(paragraphs) > 0 {
						parser.runID++
						run := &Run{
							ID:        parser.runID,
							OpenTag:   Position{Start: tagStart, End: tagEnd},
							Hyperlink: hyperlinkDepth > 0,
						}
						paragraph := paragraphs[len(paragraphs)-1]
						paragraph.Runs = append(paragraph.Runs, run)
						runs = append(runs, run)
					}
				case "t":
					if parentIs("r") && len(runs) > 0 && len(paragraphs) > 0 {
						paragraph := paragraphs[len(paragraphs)-1]
						text = &TextRun{
							OpenTag:   Position{Start: tagStart, End: tagEnd},
							Separator: paragraph.separator,
							Preserve:  attrValue(elem.Attr, "space") == "preserve",
						}
						paragraph.separator = ""
						textData = textData[:0]
					}
				case "tab", "ptab", "br", "cr":
					if parentIs("r") && len(paragraphs) > 0 {
						paragraphs[len(paragraphs)-1].separator += separatorText(elem)
					}
				}
			}
			parents = append(parents, elem.Name)

		case xml.CharData:
			if text != nil {
				textData = append(textData, elem...)
			}

		case xml.EndElement:
			if len(parents) > 0 {
				parents = parents[:len(parents)-1]
			}
			if !isWordElement(elem.Name) {
				break
			}
			switch elem.Name.Local {
			case "tbl":
				tableDepth--
			case "txbxContent":
				textBoxDepth--
			case "hyperlink":
				hyperlinkDepth--
			case "t":
				if text != nil {
					text.CloseTag = Position{Start: tagStart, End: tagEnd}
					text.Text = string(textData)
					run := runs[len(runs)-1]
					run.Texts = append(run.Texts, text)
					text = nil
				}
			case "r":
				if len(runs) > 0 {
					runs[len(runs)-1].CloseTag = Position{Start: tagStart, End: tagEnd}
					runs = runs[:len(runs)-1]
				}
			case "p":
				if len(paragraphs) > 0 {
					paragraphs[len(paragraphs)-1].CloseTag = Position{Start: tagStart, End: tagEnd}
					paragraphs = paragraphs[:len(paragraphs)-1]
				}
			}
		}
	}

	return nil
}

// Paragraphs returns all paragraphs of the part in the order of their opening tags.
func (parser *ParagraphParser) Paragraphs() []*Paragraph {
	return parser.paragraphs
}

// Runs returns all runs of the part.
func (parser *ParagraphParser) Runs() (runs DocumentRuns) {
	for _, paragraph := range parser.paragraphs {
		runs = append(runs, paragraph.Runs...)
	}
	return runs
}

// isWordElement returns true if the name belongs to the WordprocessingML namespace.
// Undeclared 'w' prefixes are accepted as well, some generators omit the declaration in headers.
func isWordElement(name xml.Name) bool {
	switch name.Space {
	case WordNamespace, StrictWordNamespace, "w":
		return true
	}
	return false
}

// separatorText returns the paragraph text of a <w:tab/>, <w:ptab/>, <w:br/> or <w:cr/> run element.
// Page and column breaks do not contribute any text.
func separatorText(elem xml.StartElement) string {
	switch elem.Name.Local {
	case "tab", "ptab":
		return "\t"
	case "br":
		switch attrValue(elem.Attr, "type") {
		case "", "textWrapping":
			return "\n"
		}
		return ""
	default:
		return "\n"
	}
}

// attrValue returns the value of the first attribute with the given local name.
func attrValue(attrs []xml.Attr, local string) string {
	for _, attr := range attrs {
		if attr.Name.Local == local {
			return attr.Value
		}
	}
	return ""
}
