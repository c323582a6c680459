package merge

import (
	"os"

	"gitlab.com/tozd/go/errors"
)

// ReadOnlyMode is the permission of a finalized output: readable by everyone, writable by nobody.
const ReadOnlyMode os.FileMode = 0444

// MakeReadOnly sets the permissions of the file to ReadOnlyMode.
// Fails if the file does not exist or changing the permissions is not allowed.
func MakeReadOnly(path string) error {
	if _, err := os.Stat(path); err != nil {
		return errors.Errorf("finalizing %s: %w", path, err)
	}
	if err := os.Chmod(path, ReadOnlyMode); err != nil {
		return errors.Errorf("making %s read-only: %w", path, err)
	}
	return nil
}
