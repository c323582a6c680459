// Package docx fills `{placeholder}` keys inside docx documents.
//
// A docx file is a zip archive of xml parts. The package parses the main document,
// all headers and all footers into paragraphs, runs and text elements, classifies every
// paragraph by the structure it lives in (body, table, text box, list, header/footer) and
// replaces placeholders inside the paragraphs selected by a Scope. All other archive
// entries are copied untouched.
package docx

import (
	"github.com/bmatcuk/doublestar/v4"
)

const (
	// DocumentXml is the relative path where the actual document content resides inside the docx-archive.
	DocumentXml = "word/document.xml"
)

var (
	// HeaderPattern matches all header files inside the docx-archive.
	HeaderPattern = "word/header*.xml"
	// FooterPattern matches all footer files inside the docx-archive.
	FooterPattern = "word/footer*.xml"
)

// classifyPart returns the kind of the archive entry and whether it contains paragraphs
// which are subject to replacement.
func classifyPart(name string) (PartKind, bool) {
	if name == DocumentXml {
		return PartDocument, true
	}
	if match(HeaderPattern, name) {
		return PartHeader, true
	}
	if match(FooterPattern, name) {
		return PartFooter, true
	}
	return PartDocument, false
}

// match reports whether name matches the glob pattern, invalid patterns never match.
func match(pattern, name string) bool {
	ok, err := doublestar.Match(pattern, name)
	return err == nil && ok
}
