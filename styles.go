package docx

import (
	"encoding/xml"

	"gitlab.com/tozd/go/errors"
)

const (
	// StylesXml is the relative path of the style definitions inside the docx-archive.
	StylesXml = "word/styles.xml"
)

// DefaultListStyles are the style names which mark a paragraph as list item.
var DefaultListStyles = []string{"List Paragraph", "Bullet"}

// StyleMap maps style IDs (as referenced by <w:pStyle w:val="..."/>) to style names.
type StyleMap map[string]string

// Name returns the name of the style with the given ID.
// If the style is unknown, the ID itself is returned since Word uses the name as ID for custom styles.
func (sm StyleMap) Name(styleID string) string {
	if name, ok := sm[styleID]; ok && name != "" {
		return name
	}
	return styleID
}

type stylesXml struct {
	Styles []struct {
		ID   string `xml:"styleId,attr"`
		Type string `xml:"type,attr"`
		Name struct {
			Val string `xml:"val,attr"`
		} `xml:"name"`
	} `xml:"style"`
}

// ParseStyles reads the style definitions of word/styles.xml.
// Only paragraph styles are returned.
func ParseStyles(data []byte) (StyleMap, error) {
	var styles stylesXml
	if err := xml.Unmarshal(data, &styles); err != nil {
		return nil, errors.Errorf("unable to parse %s: %w", StylesXml, err)
	}

	sm := make(StyleMap, len(styles.Styles))
	for _, style := range styles.Styles {
		if style.Type != "" && style.Type != "paragraph" {
			continue
		}
		sm[style.ID] = style.Name.Val
	}
	return sm, nil
}
