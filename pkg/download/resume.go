package download

import (
	"github.com/arthur-debert/docsync/pkg/errors"
	"github.com/arthur-debert/docsync/pkg/types"
)

// PartialSuffix is appended to the destination while a download is in
// progress.
const PartialSuffix = ".partial"

// State describes a download that may be resumed.
type State struct {
	Destination     string
	PartialPath     string
	BytesDownloaded int64
	TotalBytes      int64
}

// ResumeInfo is the outcome of inspecting a partial file.
type ResumeInfo struct {
	ShouldResume    bool
	BytesDownloaded int64
}

// PartialPath returns the in-progress path for destination.
func PartialPath(destination string) string {
	return destination + PartialSuffix
}

// ResumeManager decides whether a partial download can be continued.
type ResumeManager struct {
	fsys types.FS
}

// NewResumeManager creates a ResumeManager over fsys.
func NewResumeManager(fsys types.FS) *ResumeManager {
	return &ResumeManager{fsys: fsys}
}

// ShouldResume reports whether the partial file for destination can be
// continued. Resuming needs a known, non-zero total and a partial file
// holding more than zero and fewer than total bytes.
func (r *ResumeManager) ShouldResume(destination string, totalSize int64) (ResumeInfo, error) {
	if totalSize <= 0 {
		return ResumeInfo{}, nil
	}

	partial := PartialPath(destination)
	info, err := r.fsys.Stat(partial)
	if err != nil {
		if errors.IsNotExist(err) {
			return ResumeInfo{}, nil
		}
		return ResumeInfo{}, errors.IO("stat", partial, err)
	}
	if info.IsDir() {
		return ResumeInfo{}, errors.New(errors.ErrInvalidPath, "partial download path is a directory").
			WithDetail("path", partial)
	}

	size := info.Size()
	if size <= 0 || size >= totalSize {
		return ResumeInfo{}, nil
	}
	return ResumeInfo{ShouldResume: true, BytesDownloaded: size}, nil
}

// State returns the resumable state for destination, or nil when a fresh
// download is needed.
func (r *ResumeManager) State(destination string, totalSize int64) (*State, error) {
	info, err := r.ShouldResume(destination, totalSize)
	if err != nil || !info.ShouldResume {
		return nil, err
	}
	return &State{
		Destination:     destination,
		PartialPath:     PartialPath(destination),
		BytesDownloaded: info.BytesDownloaded,
		TotalBytes:      totalSize,
	}, nil
}

// Cleanup removes the partial file for destination. A missing partial
// file is not an error.
func (r *ResumeManager) Cleanup(destination string) error {
	partial := PartialPath(destination)
	if err := r.fsys.Remove(partial); err != nil && !errors.IsNotExist(err) {
		return errors.IO("remove", partial, err)
	}
	return nil
}
