package download

import (
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v4/disk"

	"github.com/arthur-debert/docsync/pkg/errors"
	"github.com/arthur-debert/docsync/pkg/types"
)

// FreeSpaceFunc reports the free bytes on the volume holding path.
type FreeSpaceFunc func(path string) (uint64, error)

// DiskFree reads free space from the operating system.
func DiskFree(path string) (uint64, error) {
	usage, err := disk.Usage(path)
	if err != nil {
		return 0, err
	}
	return usage.Free, nil
}

// existingAncestor walks up from dir to the first path that exists.
func existingAncestor(fsys types.FS, dir string) string {
	for {
		if _, err := fsys.Stat(dir); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}

// CheckFreeSpace fails with ErrInsufficientSpace when the volume that
// will hold destination has fewer than need free bytes. An unknown need
// passes.
func CheckFreeSpace(fsys types.FS, destination string, need int64, free FreeSpaceFunc) error {
	if need <= 0 || free == nil {
		return nil
	}
	dir := existingAncestor(fsys, filepath.Dir(destination))
	avail, err := free(dir)
	if err != nil {
		return errors.IO("statfs", dir, err)
	}
	if avail < uint64(need) {
		return errors.Newf(errors.ErrInsufficientSpace, "need %s but only %s free",
			humanize.Bytes(uint64(need)), humanize.Bytes(avail)).
			WithDetail("path", dir).
			WithDetail("needed", need).
			WithDetail("available", avail)
	}
	return nil
}
