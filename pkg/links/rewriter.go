package links

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/docsync/pkg/errors"
	"github.com/arthur-debert/docsync/pkg/linkbatch"
	"github.com/arthur-debert/docsync/pkg/logging"
	"github.com/arthur-debert/docsync/pkg/markdown"
	"github.com/arthur-debert/docsync/pkg/types"
)

// RewriteConfig describes where rewritten files came from and went to.
// All directories are absolute.
type RewriteConfig struct {
	// DatasetRoot bounds resolution; hrefs resolving outside it are
	// unresolvable.
	DatasetRoot string

	// SourceRoot and TargetRoot are the bases of the OriginalDir and
	// NewDir fields of path mapping entries.
	SourceRoot string
	TargetRoot string

	// SourceContentRoot is the subtree whose content now lives under
	// InstallRoot. Empty disables re-rooting.
	SourceContentRoot string
	// InstallRoot defaults to DatasetRoot.
	InstallRoot string
	// Relocate maps a path relative to SourceContentRoot onto its path
	// relative to InstallRoot. Nil keeps the path.
	Relocate func(rel string) string

	ConcurrencyLimit int
	DryRun           bool
	// ReadFrom is handed to the batch processor; see linkbatch.Config.
	ReadFrom map[string]string
}

func (c RewriteConfig) installRoot() string {
	if c.InstallRoot == "" {
		return c.DatasetRoot
	}
	return c.InstallRoot
}

// within returns target relative to base when target lies inside base.
func within(base, target string) (string, bool) {
	rel, err := filepath.Rel(base, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// ComputeHref returns href as seen from newDir for a file that used to
// live in originalDir. External links, in-document anchors and root-style
// links come back unchanged. An href that cannot be resolved inside the
// dataset root yields an error and must be left as is.
func ComputeHref(href, originalDir, newDir string, cfg RewriteConfig) (string, error) {
	if markdown.ShouldSkip(href) {
		return href, nil
	}
	p, suffix := markdown.SplitHref(href)
	if p == "" || strings.HasPrefix(p, "/") {
		return href, nil
	}
	decoded, encoded, err := markdown.DecodePath(p)
	if err != nil {
		return href, errors.Wrapf(err, errors.ErrInvalidPath, "cannot decode href %q", href).
			WithDetail("href", href)
	}

	resolved := filepath.Join(originalDir, filepath.FromSlash(decoded))

	if cfg.SourceContentRoot != "" {
		if rel, ok := within(cfg.SourceContentRoot, resolved); ok {
			if cfg.Relocate != nil && rel != "." {
				rel = cfg.Relocate(rel)
			}
			resolved = filepath.Join(cfg.installRoot(), filepath.FromSlash(rel))
		}
	}

	if _, ok := within(cfg.DatasetRoot, resolved); !ok {
		return href, errors.Newf(errors.ErrInvalidPath, "href %q resolves outside the dataset root", href).
			WithDetail("href", href).
			WithDetail("resolved", resolved)
	}

	rel, err := filepath.Rel(newDir, resolved)
	if err != nil {
		return href, errors.Wrapf(err, errors.ErrInvalidPath, "cannot relate %s to %s", resolved, newDir)
	}
	out := markdown.FormatRelative(filepath.ToSlash(rel))
	if encoded {
		out = markdown.EncodePath(out)
	}
	return out + suffix, nil
}

// Rewrite computes the replacements for the links of one file.
func Rewrite(links []types.ParsedLink, originalDir, newDir string, cfg RewriteConfig) []types.Replacement {
	logger := logging.GetLogger("links")

	var reps []types.Replacement
	for _, l := range links {
		newHref, err := ComputeHref(l.Href, originalDir, newDir, cfg)
		kind := types.KindRelocated
		if err != nil {
			logger.Debug().Err(err).Str("href", l.Href).Msg("Href left unchanged")
			kind = types.KindUnresolved
			newHref = l.Href
		} else if newHref == l.Href {
			continue
		}
		reps = append(reps, types.Replacement{
			Line:    l.Line,
			OldHref: l.Href,
			NewHref: newHref,
			Start:   l.Start,
			End:     l.End,
			Kind:    kind,
		})
	}
	return reps
}

// RewriteMappings rewrites every markdown file listed by entries. Files
// are read from TargetRoot/NewDir; non-markdown files are skipped.
func RewriteMappings(ctx context.Context, fsys types.FS, entries []types.PathMappingEntry, cfg RewriteConfig) *linkbatch.Summary {
	logger := logging.GetLogger("links")

	type dirs struct{ original, updated string }
	byFile := make(map[string]dirs)
	var files []string
	for _, e := range entries {
		d := dirs{
			original: filepath.Join(cfg.SourceRoot, filepath.FromSlash(e.OriginalDir)),
			updated:  filepath.Join(cfg.TargetRoot, filepath.FromSlash(e.NewDir)),
		}
		for _, name := range e.Files {
			if !markdown.IsMarkdownFile(name) {
				continue
			}
			file := filepath.Join(d.updated, name)
			byFile[file] = d
			files = append(files, file)
		}
	}
	logger.Debug().Int("entries", len(entries)).Int("files", len(files)).Msg("Rewriting links for mapped files")

	gen := func(links []types.ParsedLink, file string, _ linkbatch.Config, _ types.FS) ([]types.Replacement, error) {
		d, ok := byFile[file]
		if !ok {
			return nil, errors.Newf(errors.ErrInternal, "no path mapping for %s", file)
		}
		return Rewrite(links, d.original, d.updated, cfg), nil
	}

	return linkbatch.NewProcessor(fsys, linkbatch.Config{
		DatasetRoot:      cfg.DatasetRoot,
		ConcurrencyLimit: cfg.ConcurrencyLimit,
		DryRun:           cfg.DryRun,
		ReadFrom:         cfg.ReadFrom,
	}).Process(ctx, files, gen)
}
