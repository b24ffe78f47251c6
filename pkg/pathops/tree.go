package pathops

import (
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/docsync/pkg/errors"
	"github.com/arthur-debert/docsync/pkg/filesystem"
	"github.com/arthur-debert/docsync/pkg/naming"
	"github.com/arthur-debert/docsync/pkg/types"
	"github.com/maruel/natural"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

type planItem struct {
	src  string // relative to the source directory
	dst  string // relative to the target directory
	mode fs.FileMode
}

// treePlan is everything a directory operation will write, computed
// before the first mutation.
type treePlan struct {
	files     []planItem
	emptyDirs []planItem
	srcDirs   map[string]bool
	dstPaths  map[string]bool
	mapping   []types.PathMappingEntry
}

func (p *treePlan) addDst(rel string) {
	for rel != "" && rel != "." {
		p.dstPaths[rel] = true
		rel = path.Dir(rel)
	}
}

// buildPlan walks srcAbs and computes destination paths. With a naming
// transform, colliding destinations fail the plan.
func buildPlan(fsys types.FS, srcAbs string, t types.Transform, logger zerolog.Logger) (*treePlan, error) {
	plan := &treePlan{
		srcDirs:  make(map[string]bool),
		dstPaths: make(map[string]bool),
	}

	var walk func(rel string) error
	walk = func(rel string) error {
		abs := filepath.Join(srcAbs, filepath.FromSlash(rel))
		entries, err := fsys.ReadDir(abs)
		if err != nil {
			return errors.IO("readdir", abs, err)
		}
		if len(entries) == 0 && rel != "" {
			plan.emptyDirs = append(plan.emptyDirs, planItem{src: rel})
		}
		for _, e := range entries {
			child := path.Join(rel, e.Name())
			switch {
			case e.IsDir():
				plan.srcDirs[child] = true
				if err := walk(child); err != nil {
					return err
				}
			case e.Type().IsRegular():
				info, err := e.Info()
				if err != nil {
					return errors.IO("stat", filepath.Join(abs, e.Name()), err)
				}
				plan.files = append(plan.files, planItem{src: child, mode: info.Mode()})
			default:
				logger.Warn().Str("path", child).Msg("Skipping entry that is neither file nor directory")
			}
		}
		return nil
	}
	if err := walk(""); err != nil {
		return nil, err
	}

	sort.SliceStable(plan.files, func(i, j int) bool {
		return natural.Less(plan.files[i].src, plan.files[j].src)
	})

	if t.IsZero() {
		for i := range plan.files {
			plan.files[i].dst = plan.files[i].src
		}
		for i := range plan.emptyDirs {
			plan.emptyDirs[i].dst = plan.emptyDirs[i].src
		}
	} else {
		srcFiles := lo.Map(plan.files, func(f planItem, _ int) string { return f.src })
		mapping, err := naming.BuildPathMapping(srcFiles, t)
		if err != nil {
			return nil, err
		}
		plan.mapping = mapping
		for i := range plan.files {
			plan.files[i].dst = naming.TransformFile(plan.files[i].src, t)
		}
		for i := range plan.emptyDirs {
			plan.emptyDirs[i].dst = naming.TransformPath(plan.emptyDirs[i].src, t)
		}
	}

	for _, f := range plan.files {
		plan.addDst(f.dst)
	}
	for _, d := range plan.emptyDirs {
		plan.addDst(d.dst)
	}
	return plan, nil
}

// relocate maps a path relative to the source directory onto its
// transformed path relative to the target directory.
func (p *treePlan) relocate(t types.Transform) func(string) string {
	return func(rel string) string {
		if p.srcDirs[rel] {
			return naming.TransformPath(rel, t)
		}
		return naming.TransformFile(rel, t)
	}
}

// directory handles a directory source.
func (op *operation) directory() error {
	srcAbs := op.req.abs(op.src)
	tgtAbs := op.req.abs(op.tgt)

	if rel, err := filepath.Rel(srcAbs, tgtAbs); err == nil &&
		rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return errors.Newf(errors.ErrInvalidSubfolderOperation,
			"cannot %s %q into its own subfolder %q", op.verb(), op.req.Source, op.req.Target).
			WithDetail("source", op.req.Source).
			WithDetail("target", op.req.Target)
	}

	plan, err := buildPlan(op.fsys, srcAbs, op.transform, op.logger)
	if err != nil {
		return err
	}
	op.plan = plan

	if op.resolve("") == types.BehaviorSkip {
		op.logger.Info().Msg("Target has skip behavior, nothing written")
		op.result.Skipped = append(op.result.Skipped, op.tgt)
		return nil
	}

	if op.move {
		renamed, err := op.tryRename(srcAbs, tgtAbs)
		if err != nil || renamed {
			return err
		}
	}

	if !op.dryRun {
		if err := op.fsys.MkdirAll(tgtAbs, 0755); err != nil {
			return errors.IO("mkdir", tgtAbs, err)
		}
	}
	if err := op.prune(tgtAbs, ""); err != nil {
		return err
	}

	for _, f := range plan.files {
		if err := op.place(
			filepath.Join(srcAbs, filepath.FromSlash(f.src)),
			filepath.Join(tgtAbs, filepath.FromSlash(f.dst)),
			f.dst, f.mode,
		); err != nil {
			return err
		}
	}
	for _, d := range plan.emptyDirs {
		if op.resolve(d.dst) == types.BehaviorSkip || op.dryRun {
			continue
		}
		abs := filepath.Join(tgtAbs, filepath.FromSlash(d.dst))
		if err := op.fsys.MkdirAll(abs, 0755); err != nil {
			return errors.IO("mkdir", abs, err)
		}
	}

	if op.move && !op.dryRun {
		return op.cleanupSource(srcAbs)
	}
	return nil
}

func (op *operation) verb() string {
	if op.move {
		return "move"
	}
	return "copy"
}

// tryRename moves the whole tree with one rename when nothing in the
// destination needs merging. A failed rename is not an error; the caller
// falls back to moving entries one by one.
func (op *operation) tryRename(srcAbs, tgtAbs string) (bool, error) {
	if op.dryRun || !op.transform.IsZero() {
		return false, nil
	}
	exists, err := filesystem.Exists(op.fsys, tgtAbs)
	if err != nil {
		return false, errors.IO("stat", tgtAbs, err)
	}
	if exists {
		return false, nil
	}
	for _, f := range op.plan.files {
		if op.resolve(f.dst) == types.BehaviorSkip {
			return false, nil
		}
	}

	parent := filepath.Dir(tgtAbs)
	if err := op.fsys.MkdirAll(parent, 0755); err != nil {
		return false, errors.IO("mkdir", parent, err)
	}
	if err := op.fsys.Rename(srcAbs, tgtAbs); err != nil {
		op.logger.Debug().Err(err).Msg("Directory rename failed, moving entries one by one")
		return false, nil
	}

	for _, f := range op.plan.files {
		dst := path.Join(op.tgt, f.dst)
		op.result.Copied = append(op.result.Copied, dst)
		op.relocated[dst] = path.Join(op.src, f.src)
	}
	return true, nil
}

// prune deletes destination entries absent from the plan inside folders
// whose behavior is mirror.
func (op *operation) prune(tgtAbs, dir string) error {
	abs := filepath.Join(tgtAbs, filepath.FromSlash(dir))
	entries, err := op.fsys.ReadDir(abs)
	if err != nil {
		if errors.IsNotExist(err) {
			return nil
		}
		return errors.IO("readdir", abs, err)
	}

	mirror := op.resolve(dir) == types.BehaviorMirror
	for _, e := range entries {
		rel := path.Join(dir, e.Name())
		if op.plan.dstPaths[rel] {
			if e.IsDir() {
				if err := op.prune(tgtAbs, rel); err != nil {
					return err
				}
			}
			continue
		}
		if !mirror {
			continue
		}

		entryAbs := filepath.Join(abs, e.Name())
		op.result.Deleted = append(op.result.Deleted, op.rel(entryAbs))
		if op.dryRun {
			op.logger.Info().Str("path", op.rel(entryAbs)).Msg("Would delete")
			continue
		}
		if err := op.fsys.RemoveAll(entryAbs); err != nil {
			return errors.IO("remove", entryAbs, err)
		}
	}
	return nil
}

// cleanupSource removes the source tree once every file left it.
func (op *operation) cleanupSource(srcAbs string) error {
	if len(op.result.Skipped) > 0 {
		op.logger.Warn().
			Int("skipped", len(op.result.Skipped)).
			Msg("Source kept because some entries were not moved")
		return nil
	}
	if err := op.fsys.RemoveAll(srcAbs); err != nil {
		return errors.IO("remove", srcAbs, err)
	}
	return nil
}
