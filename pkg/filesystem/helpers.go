package filesystem

import (
	"errors"
	"io/fs"

	"github.com/arthur-debert/docsync/pkg/types"
)

// Exists reports whether path exists. Errors other than fs.ErrNotExist
// are returned so callers can tell "missing" from "unreadable".
func Exists(fsys types.FS, path string) (bool, error) {
	_, err := fsys.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// IsDir reports whether path exists and is a directory.
func IsDir(fsys types.FS, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && info.IsDir()
}
