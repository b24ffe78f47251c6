package pathops

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/docsync/pkg/behavior"
	"github.com/arthur-debert/docsync/pkg/errors"
	"github.com/arthur-debert/docsync/pkg/logging"
	"github.com/arthur-debert/docsync/pkg/types"
)

// SymlinkPlan is a validated symlink that a caller may create. Paths are
// relative to the dataset root; LinkText is what the link should contain.
type SymlinkPlan struct {
	Path     string
	Target   string
	LinkText string
	// Replace is set when Path already is a symlink that must be removed
	// first.
	Replace bool
}

// Distribute copies Source to every target in Options.Targets. The
// canonical target and every copy-mode target receive a copy; symlink-mode
// targets are only validated and returned as plans. Target.Path values are
// relative to the dataset root and Request.Target is ignored.
func Distribute(ctx context.Context, req Request) (*Result, error) {
	logger := logging.GetLogger("pathops").With().
		Str("op", "distribute").
		Str("source", req.Source).
		Logger()
	done := logging.LogOperationStart(logger, "distribute")
	defer done()

	targets := req.Options.Targets
	if len(targets) == 0 {
		return nil, errors.New(errors.ErrConfigInvalid, "no distribution targets configured")
	}
	if err := behavior.ValidateTargets(targets, req.platform()); err != nil {
		return nil, err
	}
	canonical, _ := behavior.Canonical(targets)
	if _, err := cleanRelative("target", canonical.Path); err != nil {
		return nil, err
	}

	// Symlink preconditions are checked up front so a bad plan fails
	// before anything is copied.
	var plans []SymlinkPlan
	for _, t := range targets {
		if t.Mode != types.TargetSymlink || t.Path == canonical.Path {
			continue
		}
		plan, err := planSymlink(req, t.Path, canonical.Path)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}

	result := newResult()
	copyTo := func(t types.TargetConfig) error {
		sub := req
		sub.Target = t.Path
		sub.Options.Targets = nil
		if t.Transform != nil {
			sub.Options.Flatten = t.Transform.Flatten
			sub.Options.Prefix = t.Transform.Prefix
		}
		r, err := Copy(ctx, sub)
		if err != nil {
			return err
		}
		result.merge(r)
		return nil
	}

	if err := copyTo(canonical); err != nil {
		return nil, err
	}
	for _, t := range targets {
		if t.Mode != types.TargetCopy || t.Path == canonical.Path {
			continue
		}
		if err := copyTo(t); err != nil {
			return nil, err
		}
	}

	result.Symlinks = plans
	for _, p := range plans {
		logger.Info().Str("link", p.Path).Str("points_to", p.LinkText).Msg("Symlink target validated")
	}
	return result, nil
}

// planSymlink validates that linkRel can become a symlink to targetRel.
func planSymlink(req Request, linkRel, targetRel string) (SymlinkPlan, error) {
	link, err := cleanRelative("target", linkRel)
	if err != nil {
		return SymlinkPlan{}, err
	}
	target, err := cleanRelative("target", targetRel)
	if err != nil {
		return SymlinkPlan{}, err
	}

	linkAbs := req.abs(link)
	targetAbs := req.abs(target)
	fail := func(format string, args ...interface{}) error {
		return errors.Newf(errors.ErrSymlinkPrecondition, format, args...).
			WithDetail("path", link).
			WithDetail("target", target)
	}

	plan := SymlinkPlan{Path: link, Target: target}
	info, err := req.FS.Lstat(linkAbs)
	switch {
	case err == nil && info.Mode()&fs.ModeSymlink != 0:
		plan.Replace = true
	case err == nil:
		return SymlinkPlan{}, fail("symlink target %q is occupied by a regular file or directory", link)
	case !errors.IsNotExist(err):
		return SymlinkPlan{}, errors.IO("lstat", linkAbs, err)
	}

	// The nearest existing ancestor must be a directory for the link's
	// parent to be creatable.
	for dir := filepath.Dir(linkAbs); ; dir = filepath.Dir(dir) {
		info, err := req.FS.Stat(dir)
		if err == nil {
			if !info.IsDir() {
				return SymlinkPlan{}, fail("cannot create parent of %q: %s is not a directory", link, dir)
			}
			break
		}
		if !errors.IsNotExist(err) {
			return SymlinkPlan{}, errors.IO("stat", dir, err)
		}
		if dir == filepath.Dir(dir) {
			break
		}
	}

	text, err := filepath.Rel(filepath.Dir(linkAbs), targetAbs)
	if err != nil {
		return SymlinkPlan{}, fail("cannot compute link text from %q to %q", link, target)
	}
	plan.LinkText = filepath.ToSlash(text)
	return plan, nil
}
