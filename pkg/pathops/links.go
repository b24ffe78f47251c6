package pathops

import (
	"context"
	"path"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/docsync/pkg/linkbatch"
	"github.com/arthur-debert/docsync/pkg/links"
	"github.com/arthur-debert/docsync/pkg/markdown"
	"github.com/arthur-debert/docsync/pkg/types"
	"github.com/samber/lo"
)

// updateLinks runs the link pass for whatever the operation wrote.
// Transformed directory operations rewrite the written files through
// their path mapping; everything else goes through a dataset-wide path
// substitution from the old base to the new one.
func (op *operation) updateLinks(ctx context.Context) error {
	if len(op.relocated) == 0 {
		return nil
	}
	files, readFrom, err := op.linkFiles()
	if err != nil {
		return err
	}
	cfg := linkbatch.Config{
		DatasetRoot:      op.req.DatasetRoot,
		ConcurrencyLimit: op.req.Options.Concurrency(),
		DryRun:           op.dryRun,
		ReadFrom:         readFrom,
	}

	if op.plan != nil && op.plan.mapping != nil {
		return op.rewriteMapped(ctx, cfg, files)
	}

	sub := linkbatch.Substitution{
		OldBase:     op.src,
		NewBase:     op.dest,
		Relocated:   op.relocated,
		RedirectAll: op.move,
	}
	summary := linkbatch.NewProcessor(op.fsys, cfg).Process(ctx, files, sub.Generator())
	op.result.Links.Merge(summary)
	return nil
}

// linkFiles lists the markdown files of the dataset as they are once the
// operation has run. A dry run has written nothing, so the list is
// derived from the plan: moved sources and pruned entries are dropped,
// destinations are added and read from their sources.
func (op *operation) linkFiles() ([]string, map[string]string, error) {
	root := op.req.DatasetRoot
	files, err := linkbatch.CollectMarkdownFiles(op.fsys, root, root, nil)
	if err != nil || !op.dryRun {
		return files, nil, err
	}

	gone := make(map[string]bool)
	if op.move {
		for _, src := range op.relocated {
			gone[src] = true
		}
	}
	deleted := func(rel string) bool {
		return lo.SomeBy(op.result.Deleted, func(d string) bool {
			return rel == d || strings.HasPrefix(rel, d+"/")
		})
	}

	seen := make(map[string]bool, len(files))
	planned := make([]string, 0, len(files)+len(op.relocated))
	for _, f := range files {
		rel := op.rel(f)
		if gone[rel] || deleted(rel) {
			continue
		}
		seen[f] = true
		planned = append(planned, f)
	}

	readFrom := make(map[string]string, len(op.relocated))
	for dst, src := range op.relocated {
		if !markdown.IsMarkdownFile(path.Base(dst)) {
			continue
		}
		abs := op.req.abs(dst)
		readFrom[abs] = op.req.abs(src)
		if !seen[abs] {
			seen[abs] = true
			planned = append(planned, abs)
		}
	}
	return planned, readFrom, nil
}

func (op *operation) rewriteMapped(ctx context.Context, cfg linkbatch.Config, files []string) error {
	srcAbs := op.req.abs(op.src)
	tgtAbs := op.req.abs(op.tgt)
	relocate := op.plan.relocate(op.transform)

	// Only rewrite files this operation wrote.
	written := make([]types.PathMappingEntry, 0, len(op.plan.mapping))
	for _, e := range op.plan.mapping {
		e.Files = lo.Filter(e.Files, func(name string, _ int) bool {
			_, ok := op.relocated[path.Join(op.tgt, e.NewDir, name)]
			return ok
		})
		if len(e.Files) > 0 {
			written = append(written, e)
		}
	}

	// The plan knows how paths below the source were renamed. A content
	// root elsewhere is re-rooted without renaming.
	contentRoot, contentRelocate := srcAbs, relocate
	if scr := op.req.Options.SourceContentRoot; scr != "" {
		contentRoot = op.req.abs(filepath.ToSlash(scr))
		if contentRoot != srcAbs {
			contentRelocate = nil
		}
	}
	summary := links.RewriteMappings(ctx, op.fsys, written, links.RewriteConfig{
		DatasetRoot:       op.req.DatasetRoot,
		SourceRoot:        srcAbs,
		TargetRoot:        tgtAbs,
		SourceContentRoot: contentRoot,
		InstallRoot:       tgtAbs,
		Relocate:          contentRelocate,
		ConcurrencyLimit:  cfg.ConcurrencyLimit,
		DryRun:            cfg.DryRun,
		ReadFrom:          cfg.ReadFrom,
	})
	op.result.Links.Merge(summary)

	if !op.move {
		return nil
	}

	// Referrers elsewhere in the dataset follow the moved files.
	referrers := lo.Reject(files, func(f string, _ int) bool {
		_, moved := op.relocated[linkbatch.RelSlash(op.req.DatasetRoot, f)]
		return moved
	})
	sub := linkbatch.Substitution{
		OldBase:     op.src,
		NewBase:     op.tgt,
		RedirectAll: true,
		Relocate:    relocate,
	}
	summary = linkbatch.NewProcessor(op.fsys, cfg).Process(ctx, referrers, sub.Generator())
	op.result.Links.Merge(summary)
	return nil
}
