package docx

import (
	"archive/zip"
	"io"

	"gitlab.com/tozd/go/errors"
)

// FileMap is just a convenience type for the map of fileName => fileBytes
type FileMap map[string][]byte

// Write will try to write the bytes from the map into the given writer.
func (fm FileMap) Write(writer io.Writer, filename string) error {
	file, ok := fm[filename]
	if !ok {
		return errors.Errorf("file not found %s", filename)
	}

	_, err := writer.Write(file)
	if err != nil && err != io.EOF {
		return errors.Errorf("unable to write '%s': %w", filename, err)
	}
	return nil
}

// readZipFile slurps the content of a single archive entry.
func readZipFile(file *zip.File) ([]byte, error) {
	readCloser, err := file.Open()
	if err != nil {
		return nil, errors.Errorf("unable to open %s: %w", file.Name, err)
	}
	defer readCloser.Close()

	data, err := io.ReadAll(readCloser)
	if err != nil {
		return nil, errors.Errorf("unable to read %s: %w", file.Name, err)
	}
	return data, nil
}

// copyZipFile copies the raw content of an untouched archive entry into the writer.
func copyZipFile(writer io.Writer, file *zip.File) error {
	readCloser, err := file.Open()
	if err != nil {
		return errors.Errorf("unable to open %s: %w", file.Name, err)
	}
	defer readCloser.Close()

	if _, err := io.Copy(writer, readCloser); err != nil {
		return errors.Errorf("unable to copy %s: %w", file.Name, err)
	}
	return nil
}

// entryHeader returns the header used for writing the entry into the new archive.
// Only the name, modification time and compression method are carried over which keeps
// the output deterministic for identical inputs.
func entryHeader(file *zip.File) *zip.FileHeader {
	method := file.Method
	if method != zip.Store {
		method = zip.Deflate
	}
	return &zip.FileHeader{
		Name:     file.Name,
		Method:   method,
		Modified: file.Modified,
	}
}
