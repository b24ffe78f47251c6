package pathops

import (
	"context"
	"io/fs"
	"path"
	"path/filepath"

	"github.com/arthur-debert/docsync/pkg/behavior"
	"github.com/arthur-debert/docsync/pkg/errors"
	"github.com/arthur-debert/docsync/pkg/filesystem"
	"github.com/arthur-debert/docsync/pkg/linkbatch"
	"github.com/arthur-debert/docsync/pkg/logging"
	"github.com/arthur-debert/docsync/pkg/types"
	"github.com/rs/zerolog"
)

// Copy copies Source to Target and updates links in the copied files.
func Copy(ctx context.Context, req Request) (*Result, error) {
	return run(ctx, req, false)
}

// Move moves Source to Target and updates links across the dataset.
func Move(ctx context.Context, req Request) (*Result, error) {
	return run(ctx, req, true)
}

// operation carries the state of one copy or move.
type operation struct {
	req       Request
	fsys      types.FS
	move      bool
	dryRun    bool
	folders   types.FolderBehaviorMap
	fallback  types.Behavior
	transform types.Transform

	src, tgt string
	// dest is the dataset-relative path the source ended up at. It differs
	// from tgt when a file lands inside a target directory.
	dest string

	result    *Result
	relocated map[string]string
	plan      *treePlan
	logger    zerolog.Logger
}

func run(ctx context.Context, req Request, move bool) (*Result, error) {
	name := "copy"
	if move {
		name = "move"
	}
	logger := logging.GetLogger("pathops").With().
		Str("op", name).
		Str("source", req.Source).
		Str("target", req.Target).
		Logger()
	done := logging.LogOperationStart(logger, name)
	defer done()

	src, tgt, err := req.validate()
	if err != nil {
		return nil, err
	}

	fallback := req.Options.DefaultBehavior
	if fallback == "" {
		fallback = types.BehaviorOverwrite
	}
	op := &operation{
		req:       req,
		fsys:      req.FS,
		move:      move,
		dryRun:    req.Options.DryRun,
		folders:   behavior.NormalizeMap(req.Options.FolderBehavior),
		fallback:  fallback,
		transform: req.Options.Transform(),
		src:       src,
		tgt:       tgt,
		dest:      tgt,
		result:    newResult(),
		relocated: make(map[string]string),
		logger:    logger,
	}

	if src == tgt {
		logger.Info().Msg("Source and target are the same")
		return op.result, nil
	}

	srcAbs := req.abs(src)
	info, err := op.fsys.Stat(srcAbs)
	if err != nil {
		if errors.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrNotFound, "source %q does not exist", req.Source).
				WithDetail("source", req.Source).
				WithDetail("target", req.Target)
		}
		return nil, errors.IO("stat", srcAbs, err)
	}

	switch {
	case info.IsDir():
		err = op.directory()
	case info.Mode().IsRegular():
		err = op.file(info)
	default:
		err = errors.Newf(errors.ErrInvalidSourceType,
			"source %q is neither a file nor a directory", req.Source).
			WithDetail("source", req.Source).
			WithDetail("mode", info.Mode().String())
	}
	if err != nil {
		return nil, err
	}

	if err := op.updateLinks(ctx); err != nil {
		return nil, err
	}

	logger.Info().
		Int("copied", len(op.result.Copied)).
		Int("skipped", len(op.result.Skipped)).
		Int("deleted", len(op.result.Deleted)).
		Int("links", op.result.Links.Total()).
		Bool("dryRun", op.dryRun).
		Msg("Operation finished")
	return op.result, nil
}

func (op *operation) resolve(key string) types.Behavior {
	return behavior.Resolve(key, op.folders, op.fallback)
}

func (op *operation) rel(abs string) string {
	return linkbatch.RelSlash(op.req.DatasetRoot, abs)
}

// file handles a regular-file source.
func (op *operation) file(info fs.FileInfo) error {
	srcAbs := op.req.abs(op.src)
	tgtAbs := op.req.abs(op.tgt)
	base := path.Base(op.src)

	var dstAbs string
	switch {
	case filesystem.IsDir(op.fsys, tgtAbs):
		dstAbs = filepath.Join(tgtAbs, base)
	case looksLikeFile(op.fsys, tgtAbs, op.tgt):
		dstAbs = tgtAbs
	default:
		dstAbs = filepath.Join(tgtAbs, base)
	}
	if dstAbs == srcAbs {
		op.logger.Info().Msg("File is already at its destination")
		return nil
	}
	op.dest = op.rel(dstAbs)

	if !op.transform.IsZero() {
		op.logger.Debug().Msg("Naming transform ignored for a single file")
	}
	return op.place(srcAbs, dstAbs, path.Base(op.dest), info.Mode())
}

// looksLikeFile reports whether a non-directory target names a file: it
// already exists as one, or its last segment has an extension.
func looksLikeFile(fsys types.FS, abs, rel string) bool {
	if info, err := fsys.Stat(abs); err == nil {
		return !info.IsDir()
	}
	return path.Ext(path.Base(rel)) != ""
}

// place writes one file according to the behavior resolved for key.
func (op *operation) place(srcAbs, dstAbs, key string, mode fs.FileMode) error {
	dstRel := op.rel(dstAbs)

	exists, err := filesystem.Exists(op.fsys, dstAbs)
	if err != nil {
		return errors.IO("stat", dstAbs, err)
	}

	switch b := op.resolve(key); {
	case b == types.BehaviorSkip:
		op.logger.Debug().Str("path", dstRel).Msg("Skipped by skip behavior")
		op.result.Skipped = append(op.result.Skipped, dstRel)
		return nil
	case b == types.BehaviorAdd && exists:
		op.logger.Debug().Str("path", dstRel).Msg("Skipped existing destination")
		op.result.Skipped = append(op.result.Skipped, dstRel)
		return nil
	}

	op.result.Copied = append(op.result.Copied, dstRel)
	op.relocated[dstRel] = op.rel(srcAbs)
	if op.dryRun {
		op.logger.Info().Str("from", op.rel(srcAbs)).Str("to", dstRel).Msg("Would write")
		return nil
	}

	if err := op.fsys.MkdirAll(filepath.Dir(dstAbs), 0755); err != nil {
		return errors.IO("mkdir", filepath.Dir(dstAbs), err)
	}
	if op.move {
		return op.moveFile(srcAbs, dstAbs, exists, mode)
	}
	return copyFile(op.fsys, srcAbs, dstAbs, mode)
}

func (op *operation) moveFile(srcAbs, dstAbs string, exists bool, mode fs.FileMode) error {
	if exists {
		if err := op.fsys.Remove(dstAbs); err != nil {
			return errors.IO("remove", dstAbs, err)
		}
	}
	err := op.fsys.Rename(srcAbs, dstAbs)
	if err == nil {
		return nil
	}
	op.logger.Debug().Err(err).Str("path", srcAbs).Msg("Rename failed, copying instead")
	if err := copyFile(op.fsys, srcAbs, dstAbs, mode); err != nil {
		return err
	}
	if err := op.fsys.Remove(srcAbs); err != nil {
		return errors.IO("remove", srcAbs, err)
	}
	return nil
}

// copyFile copies content and permissions. The owner always keeps write
// access so later runs can overwrite the copy.
func copyFile(fsys types.FS, srcAbs, dstAbs string, mode fs.FileMode) error {
	data, err := fsys.ReadFile(srcAbs)
	if err != nil {
		return errors.IO("read", srcAbs, err)
	}
	if err := fsys.WriteFile(dstAbs, data, mode.Perm()|0200); err != nil {
		return errors.IO("write", dstAbs, err)
	}
	return nil
}
