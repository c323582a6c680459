// Package docxtest builds minimal docx archives for tests.
package docxtest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	wordNamespaces = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" ` +
		`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
		`xmlns:wps="http://schemas.microsoft.com/office/word/2010/wordprocessingShape" ` +
		`xmlns:mc="http://schemas.openxmlformats.org/markup-compatibility/2006"`

	contentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
		`</Types>`

	rootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
		`</Relationships>`

	// Styles defines the list styles "List Paragraph" and "Bullet" next to "Normal".
	Styles = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:styles ` + wordNamespaces + `>` +
		`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>` +
		`<w:style w:type="paragraph" w:styleId="ListParagraph"><w:name w:val="List Paragraph"/></w:style>` +
		`<w:style w:type="paragraph" w:styleId="Bullet"><w:name w:val="Bullet"/></w:style>` +
		`<w:style w:type="character" w:styleId="Hyperlink"><w:name w:val="Hyperlink"/></w:style>` +
		`</w:styles>`
)

// Body wraps the given body content into a complete word/document.xml.
func Body(content ...string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document ` + wordNamespaces + `><w:body>` +
		strings.Join(content, "") +
		`<w:sectPr/></w:body></w:document>`
}

// Header wraps the given paragraphs into a complete header part.
func Header(content ...string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:hdr ` + wordNamespaces + `>` + strings.Join(content, "") + `</w:hdr>`
}

// Footer wraps the given paragraphs into a complete footer part.
func Footer(content ...string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:ftr ` + wordNamespaces + `>` + strings.Join(content, "") + `</w:ftr>`
}

// P returns a paragraph with one run for every text.
func P(texts ...string) string {
	return `<w:p>` + Runs(texts...) + `</w:p>`
}

// StyledP returns a paragraph with the given style ID and one run for every text.
func StyledP(styleID string, texts ...string) string {
	return fmt.Sprintf(`<w:p><w:pPr><w:pStyle w:val="%s"/></w:pPr>%s</w:p>`, styleID, Runs(texts...))
}

// Runs returns one formatted run for every text.
func Runs(texts ...string) string {
	var b strings.Builder
	for _, text := range texts {
		fmt.Fprintf(&b, `<w:r><w:rPr><w:b/></w:rPr><w:t xml:space="preserve">%s</w:t></w:r>`, text)
	}
	return b.String()
}

// Hyperlink returns a hyperlink element containing one run for every text.
func Hyperlink(texts ...string) string {
	return `<w:hyperlink r:id="rId9">` + Runs(texts...) + `</w:hyperlink>`
}

// Table returns a table with a single row, every cell contains the given paragraph.
func Table(cells ...string) string {
	var b strings.Builder
	b.WriteString(`<w:tbl><w:tblPr/><w:tr>`)
	for _, cell := range cells {
		b.WriteString(`<w:tc>` + cell + `</w:tc>`)
	}
	b.WriteString(`</w:tr></w:tbl>`)
	return b.String()
}

// TextBox returns a paragraph whose run anchors a text box containing the given paragraphs.
func TextBox(content ...string) string {
	return `<w:p><w:r><mc:AlternateContent><mc:Choice Requires="wps"><w:drawing>` +
		`<wps:wsp><wps:txbx><w:txbxContent>` + strings.Join(content, "") + `</w:txbxContent></wps:txbx></wps:wsp>` +
		`</w:drawing></mc:Choice></mc:AlternateContent></w:r></w:p>`
}

// Build assembles a docx archive from the given parts.
// [Content_Types].xml, _rels/.rels and word/styles.xml are added unless contained in parts.
func Build(t testing.TB, parts map[string]string) []byte {
	t.Helper()

	all := map[string]string{
		"[Content_Types].xml": contentTypes,
		"_rels/.rels":         rootRels,
		"word/styles.xml":     Styles,
	}
	for name, content := range parts {
		all[name] = content
	}

	// fixed order, so equal inputs produce equal archives
	names := []string{"[Content_Types].xml", "_rels/.rels"}
	var rest []string
	for name := range all {
		if name != "[Content_Types].xml" && name != "_rels/.rels" {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	names = append(names, rest...)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(all[name]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// WriteFile builds the archive and writes it to name inside dir, returning the full path.
func WriteFile(t testing.TB, dir, name string, parts map[string]string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, Build(t, parts), 0644))
	return path
}

// ReadPart returns the content of a single part of a docx archive.
func ReadPart(t testing.TB, data []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		var b bytes.Buffer
		_, err = b.ReadFrom(rc)
		require.NoError(t, err)
		return b.String()
	}
	t.Fatalf("part %s not found", name)
	return ""
}
