package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrInvalidDocument is returned if the archive is not a docx document.
	ErrInvalidDocument = errors.New("invalid docx document")
	// ErrSameFile is returned if a document should be written into the file it was opened from.
	ErrSameFile = errors.New("cannot write into the original docx archive")
)

// Document exposes the main API of the library.  It represents the actual docx document which is going to be modified.
// Although a 'docx' document actually consists of multiple xml files, that fact is not exposed via the Document API.
// All actions on the Document propagate through the files of the docx-zip-archive.
type Document struct {
	path    string
	zipFile *zip.Reader
	closer  io.Closer

	// all files from the zip archive which we're interested in
	files FileMap
	// paths to all header files inside the zip archive
	headerFiles []string
	// paths to all footer files inside the zip archive
	footerFiles []string
	// parsed paragraphs, the map key is the file path inside the document
	paragraphs map[string][]*Paragraph

	styles     StyleMap
	listStyles map[string]bool
}

// Open will open and parse the file pointed to by path.
// The file must be a valid docx file or an error is returned.
func Open(path string) (*Document, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, errors.Errorf("unable to open %s: %w", path, err)
	}

	doc, err := newDocument(&rc.Reader, path, rc)
	if err != nil {
		_ = rc.Close()
		return nil, err
	}
	return doc, nil
}

// OpenBytes allows to create a Document from a byte slice.
// It behaves just like Open().
func OpenBytes(b []byte) (*Document, error) {
	rc, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, errors.Errorf("unable to open zip reader: %w", err)
	}

	return newDocument(rc, "", nil)
}

// newDocument will create a new document struct given the zipFile.
// The params 'path' and 'closer' may be empty/nil in case the document is created from a byte source directly.
//
// newDocument will read the docx archive and validate that at least a 'document.xml' exists.
// If 'word/document.xml' is missing, an error is returned since the docx cannot be correct.
// Then all files are parsed for their paragraphs before returning the new document.
func newDocument(zipFile *zip.Reader, path string, closer io.Closer) (*Document, error) {
	doc := &Document{
		path:       path,
		zipFile:    zipFile,
		closer:     closer,
		files:      make(FileMap),
		paragraphs: make(map[string][]*Paragraph),
		styles:     make(StyleMap),
	}
	doc.SetListStyles(DefaultListStyles...)

	if err := doc.parseArchive(); err != nil {
		return nil, errors.Errorf("error parsing document: %w", err)
	}

	// a valid docx document should really contain a document.xml :)
	if _, exists := doc.files[DocumentXml]; !exists {
		return nil, errors.Errorf("%w: %s is missing", ErrInvalidDocument, DocumentXml)
	}

	for name := range doc.files {
		if err := doc.parseFile(name); err != nil {
			return nil, err
		}
	}

	return doc, nil
}

// parseArchive will go through the docx zip archive and read the relevant files into the FileMap.
// Files inside the FileMap are those which can be modified by the lib:
//   - word/document.xml
//   - word/header*.xml
//   - word/footer*.xml
//
// word/styles.xml is read as well, but only to resolve paragraph style names.
func (d *Document) parseArchive() error {
	for _, file := range d.zipFile.File {
		if file.Name == StylesXml {
			data, err := readZipFile(file)
			if err != nil {
				return err
			}
			styles, err := ParseStyles(data)
			if err != nil {
				return err
			}
			d.styles = styles
			continue
		}

		kind, ok := classifyPart(file.Name)
		if !ok {
			continue
		}
		data, err := readZipFile(file)
		if err != nil {
			return err
		}
		d.files[file.Name] = data

		switch kind {
		case PartHeader:
			d.headerFiles = append(d.headerFiles, file.Name)
		case PartFooter:
			d.footerFiles = append(d.footerFiles, file.Name)
		}
	}
	sort.Strings(d.headerFiles)
	sort.Strings(d.footerFiles)
	return nil
}

// parseFile (re-)parses the paragraphs of the given file.
func (d *Document) parseFile(name string) error {
	kind, _ := classifyPart(name)
	parser := NewParagraphParser(name, kind, d.files[name])
	if err := parser.Execute(); err != nil {
		return errors.Errorf("%w: %s", ErrInvalidDocument, err)
	}
	d.paragraphs[name] = parser.Paragraphs()
	return nil
}

// SetListStyles sets the style names which mark a paragraph as list item.
func (d *Document) SetListStyles(names ...string) {
	d.listStyles = make(map[string]bool, len(names))
	for _, name := range names {
		d.listStyles[name] = true
	}
}

// isListStyle reports whether the style ID refers to one of the list styles.
func (d *Document) isListStyle(styleID string) bool {
	return d.listStyles[d.styles.Name(styleID)]
}

// Parts returns the names of all parsed parts, the main document first.
func (d *Document) Parts() []string {
	parts := []string{DocumentXml}
	parts = append(parts, d.headerFiles...)
	return append(parts, d.footerFiles...)
}

// Paragraphs returns the paragraphs of the given part.
func (d *Document) Paragraphs(part string) []*Paragraph {
	return d.paragraphs[part]
}

// Runs returns all runs from all parsed files.
func (d *Document) Runs() (runs DocumentRuns) {
	for _, part := range d.Parts() {
		for _, paragraph := range d.paragraphs[part] {
			runs = append(runs, paragraph.Runs...)
		}
	}
	return runs
}

// Classify returns the category of the paragraph within this document.
func (d *Document) Classify(paragraph *Paragraph) Category {
	return paragraph.Classify(d.isListStyle)
}

// visit calls fn for every group of text elements of the part which is subject to the scope.
// Selected paragraphs form a single group, for unselected top-level paragraphs every hyperlink
// run forms its own group if the scope contains CategoryHyperlinks.
func (d *Document) visit(part string, scope Scope, fn func(paragraph *Paragraph, category Category, texts []*TextRun)) {
	for _, paragraph := range d.paragraphs[part] {
		category := d.Classify(paragraph)
		if scope.Has(category) || (category == CategoryLists && scope.Has(CategoryBody)) {
			fn(paragraph, category, paragraph.TextRuns())
			continue
		}

		if !paragraph.TopLevel() || !scope.Has(CategoryHyperlinks) {
			continue
		}
		for _, run := range paragraph.Runs {
			if !run.HasText() {
				continue
			}
			if run.Hyperlink || strings.Contains(run.Text(), "http") {
				fn(paragraph, CategoryHyperlinks, run.Texts)
			}
		}
	}
}

// ReplaceAll will iterate over all files and perform the replacement according to the PlaceholderMap.
// Only paragraphs subject to the scope are touched. Every text element is rewritten at most once,
// values containing placeholders are not expanded again.
func (d *Document) ReplaceAll(ctx context.Context, placeholderMap PlaceholderMap, scope Scope) (*Report, error) {
	logger := zerolog.Ctx(ctx)
	report := NewReport()

	unknown := func(key string) bool { return !placeholderMap.Has(key) }

	for _, part := range d.Parts() {
		replacer := NewReplacer(d.files[part])

		d.visit(part, scope, func(paragraph *Paragraph, category Category, texts []*TextRun) {
			report.addUnresolved(ParsePlaceholders(texts, unknown))

			placeholders := ParsePlaceholders(texts, placeholderMap.Has)
			if len(placeholders) == 0 {
				return
			}
			n := replacer.Replace(placeholders, placeholderMap)
			report.Replacements[category] += n

			logger.Debug().
				Str("part", part).
				Int("paragraph", paragraph.ID).
				Stringer("category", category).
				Int("replacements", n).
				Msg("replaced placeholders in paragraph")
		})

		if replacer.ReplaceCount == 0 {
			continue
		}

		changedBytes, err := replacer.Bytes()
		if err != nil {
			return nil, errors.Errorf("replacing in %s: %w", part, err)
		}
		if err := d.SetFile(part, changedBytes); err != nil {
			return nil, err
		}

		logger.Debug().
			Str("part", part).
			Int("replacements", replacer.ReplaceCount).
			Int64("bytes_changed", replacer.BytesChanged).
			Msg("replaced placeholders in part")
	}

	return report, nil
}

// Replace will attempt to replace the given key with the value in every file.
func (d *Document) Replace(ctx context.Context, key, value string, scope Scope) (*Report, error) {
	return d.ReplaceAll(ctx, PlaceholderMap{RemovePlaceholderDelimiter(key): value}, scope)
}

// Placeholders returns all placeholders of the document which are subject to the scope.
func (d *Document) Placeholders(scope Scope) []Occurrence {
	var occurrences []Occurrence
	for _, part := range d.Parts() {
		d.visit(part, scope, func(paragraph *Paragraph, category Category, texts []*TextRun) {
			for _, placeholder := range ParsePlaceholders(texts, nil) {
				occurrences = append(occurrences, Occurrence{
					Key:       placeholder.Key,
					Part:      part,
					Category:  category,
					Paragraph: paragraph.ID,
				})
			}
		})
	}
	return occurrences
}

// GetFile returns the content of the given fileName if it exists.
func (d *Document) GetFile(fileName string) []byte {
	if f, exists := d.files[fileName]; exists {
		return f
	}
	return nil
}

// SetFile allows setting the file contents of the given file.
// The fileName must be known, otherwise an error is returned.
// The file is parsed again, so all paragraphs reflect the new content.
func (d *Document) SetFile(fileName string, fileBytes []byte) error {
	if _, exists := d.files[fileName]; !exists {
		return errors.Errorf("unregistered file %s", fileName)
	}
	d.files[fileName] = fileBytes
	return d.parseFile(fileName)
}

// WriteToFile will write the document to a new file.
// It is important to note that the target file cannot be the same as the path of this document.
// If the path is not yet created, the function will attempt to MkdirAll() before creating the file.
func (d *Document) WriteToFile(file string) (err error) {
	if d.path != "" && samePath(file, d.path) {
		return errors.Errorf("%w: %s", ErrSameFile, file)
	}

	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return errors.Errorf("unable to ensure path directories: %w", err)
	}

	target, err := os.Create(file)
	if err != nil {
		return errors.Errorf("unable to create %s: %w", file, err)
	}
	defer func() {
		if cerr := target.Close(); cerr != nil && err == nil {
			err = errors.Errorf("unable to close %s: %w", file, cerr)
		}
	}()

	return d.Write(target)
}

// Write is responsible for assembling a new .docx file using the modified data as well as all remaining files.
// Docx files are basically zip archives with many XMLs included.
// Files which cannot be modified through this lib will just be read from the original docx and copied into the writer.
// The entries are written in the order of the original archive.
func (d *Document) Write(writer io.Writer) error {
	zipWriter := zip.NewWriter(writer)

	for _, zipFile := range d.zipFile.File {
		fw, err := zipWriter.CreateHeader(entryHeader(zipFile))
		if err != nil {
			return errors.Errorf("unable to create writer: %w", err)
		}

		// write all files which might've been modified by us
		if _, modified := d.files[zipFile.Name]; modified {
			if err := d.files.Write(fw, zipFile.Name); err != nil {
				return err
			}
			continue
		}

		// all files which we don't touch here (e.g. _rels.xml) are just copied from the original
		if err := copyZipFile(fw, zipFile); err != nil {
			return err
		}
	}

	if err := zipWriter.Close(); err != nil {
		return errors.Errorf("unable to finish archive: %w", err)
	}
	return nil
}

// Close will close the underlying archive if the document was opened from a file.
func (d *Document) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer.Close()
}

// samePath reports whether both paths point to the same file.
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	if absA == absB {
		return true
	}
	infoA, errA := os.Stat(absA)
	infoB, errB := os.Stat(absB)
	return errA == nil && errB == nil && os.SameFile(infoA, infoB)
}
