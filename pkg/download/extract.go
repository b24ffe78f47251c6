package download

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mholt/archives"

	"github.com/arthur-debert/docsync/pkg/errors"
	"github.com/arthur-debert/docsync/pkg/logging"
	"github.com/arthur-debert/docsync/pkg/types"
)

// Extract unpacks the archive at archivePath into destDir and returns the
// number of regular files written. Entries that would land outside
// destDir are rejected. Links inside the archive are skipped.
func Extract(ctx context.Context, fsys types.FS, archivePath, destDir string) (int, error) {
	logger := logging.GetLogger("download.extract")

	f, err := fsys.OpenFile(archivePath, os.O_RDONLY, 0)
	if err != nil {
		return 0, errors.IO("open", archivePath, err)
	}
	defer func() { _ = f.Close() }()

	format, input, err := archives.Identify(ctx, filepath.Base(archivePath), f)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrExtract, "unrecognized archive format").
			WithDetail("path", archivePath)
	}
	extractor, ok := format.(archives.Extractor)
	if !ok {
		return 0, errors.Newf(errors.ErrExtract, "%s is not an extractable archive", format.Extension()).
			WithDetail("path", archivePath)
	}

	written := 0
	err = extractor.Extract(ctx, input, func(ctx context.Context, entry archives.FileInfo) error {
		target, err := entryTarget(destDir, entry.NameInArchive)
		if err != nil {
			return err
		}

		switch {
		case entry.IsDir():
			if err := fsys.MkdirAll(target, 0755); err != nil {
				return errors.IO("mkdir", target, err)
			}
			return nil
		case entry.LinkTarget != "" || !entry.Mode().IsRegular():
			logger.Warn().
				Str("entry", entry.NameInArchive).
				Msg("Skipping non-regular archive entry")
			return nil
		}

		if err := writeEntry(fsys, entry, target); err != nil {
			return err
		}
		written++
		return nil
	})
	if err != nil {
		return written, errors.Wrap(err, errors.ErrExtract, "failed to extract archive").
			WithDetail("path", archivePath)
	}

	logger.Info().
		Str("archive", archivePath).
		Str("dest", destDir).
		Int("files", written).
		Msg("Archive extracted")
	return written, nil
}

func entryTarget(destDir, name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", errors.New(errors.ErrExtract, "archive entry escapes destination").
			WithDetail("entry", name)
	}
	return filepath.Join(destDir, clean), nil
}

func writeEntry(fsys types.FS, entry archives.FileInfo, target string) error {
	if err := fsys.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return errors.IO("mkdir", filepath.Dir(target), err)
	}

	src, err := entry.Open()
	if err != nil {
		return errors.Wrap(err, errors.ErrExtract, "failed to open archive entry").
			WithDetail("entry", entry.NameInArchive)
	}
	defer func() { _ = src.Close() }()

	perm := entry.Mode().Perm() | 0200
	dst, err := fsys.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return errors.IO("create", target, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return errors.IO("write", target, err)
	}
	if err := dst.Close(); err != nil {
		return errors.IO("close", target, err)
	}
	return nil
}
