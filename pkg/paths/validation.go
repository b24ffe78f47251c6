package paths

import (
	"strings"

	"github.com/arthur-debert/docsync/pkg/errors"
)

// maxPathLength is the common filesystem limit.
const maxPathLength = 4096

// ValidatePath rejects paths that no filesystem operation could accept.
func ValidatePath(path string) error {
	if path == "" {
		return errors.New(errors.ErrInvalidPath, "path cannot be empty")
	}
	if strings.Contains(path, "\x00") {
		return errors.New(errors.ErrInvalidPath, "path contains null bytes")
	}
	if len(path) > maxPathLength {
		return errors.New(errors.ErrInvalidPath, "path exceeds maximum length")
	}
	return nil
}
