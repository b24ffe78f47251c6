package pathops

import (
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/arthur-debert/docsync/pkg/behavior"
	"github.com/arthur-debert/docsync/pkg/errors"
	"github.com/arthur-debert/docsync/pkg/linkbatch"
	"github.com/arthur-debert/docsync/pkg/types"
)

// Request describes one operation. Source and Target are relative to
// DatasetRoot, which must be absolute.
type Request struct {
	FS          types.FS
	Source      string
	Target      string
	DatasetRoot string
	Options     types.Options

	// Platform is the OS name used for target validation. Empty means the
	// running platform.
	Platform string
}

func (r Request) platform() string {
	if r.Platform == "" {
		return runtime.GOOS
	}
	return r.Platform
}

// Result reports what an operation did. Paths are relative to the dataset
// root.
type Result struct {
	Copied   []string
	Skipped  []string
	Deleted  []string
	Links    linkbatch.Summary
	Symlinks []SymlinkPlan
}

func newResult() *Result {
	return &Result{Links: *linkbatch.NewSummary()}
}

func (r *Result) merge(other *Result) {
	if other == nil {
		return
	}
	r.Copied = append(r.Copied, other.Copied...)
	r.Skipped = append(r.Skipped, other.Skipped...)
	r.Deleted = append(r.Deleted, other.Deleted...)
	r.Symlinks = append(r.Symlinks, other.Symlinks...)
	r.Links.Merge(&other.Links)
}

// cleanRelative validates a dataset-relative path and returns its clean
// slash form.
func cleanRelative(kind, p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", errors.Newf(errors.ErrInvalidPath, "%s path is empty", kind).
			WithDetail(kind, p)
	}
	if filepath.IsAbs(p) || strings.HasPrefix(filepath.ToSlash(p), "/") {
		return "", errors.Newf(errors.ErrInvalidPath,
			"%s path %q must be relative to the dataset root", kind, p).
			WithDetail(kind, p)
	}
	clean := path.Clean(filepath.ToSlash(p))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", errors.Newf(errors.ErrInvalidPath,
			"%s path %q escapes the dataset root", kind, p).
			WithDetail(kind, p)
	}
	if clean == "." {
		clean = ""
	}
	return clean, nil
}

// validate checks everything that can be checked without touching the
// filesystem.
func (r Request) validate() (src, tgt string, err error) {
	if r.FS == nil {
		return "", "", errors.New(errors.ErrInvalidInput, "no filesystem given")
	}
	if !filepath.IsAbs(r.DatasetRoot) {
		return "", "", errors.Newf(errors.ErrInvalidPath,
			"dataset root %q must be an absolute path", r.DatasetRoot).
			WithDetail("datasetRoot", r.DatasetRoot)
	}
	if src, err = cleanRelative("source", r.Source); err != nil {
		return "", "", err
	}
	if tgt, err = cleanRelative("target", r.Target); err != nil {
		return "", "", err
	}

	opts := r.Options
	if opts.DefaultBehavior != "" && !opts.DefaultBehavior.IsValid() {
		return "", "", errors.Newf(errors.ErrConfigInvalid, "invalid default behavior %q", opts.DefaultBehavior)
	}
	if err := behavior.ValidateMap(opts.FolderBehavior); err != nil {
		return "", "", err
	}
	if err := behavior.ValidateTargets(opts.Targets, r.platform()); err != nil {
		return "", "", err
	}
	return src, tgt, nil
}

func (r Request) abs(rel string) string {
	return filepath.Join(r.DatasetRoot, filepath.FromSlash(rel))
}
