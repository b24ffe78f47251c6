package linkbatch

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/docsync/pkg/filesystem"
	"github.com/arthur-debert/docsync/pkg/markdown"
	"github.com/arthur-debert/docsync/pkg/types"
	"github.com/samber/lo"
)

// Normalization rewrites root-style links into relative ones.
//
// A link is root-style when its path starts with "/", or when its first
// segment names one of DocsFolders and it does not resolve relative to the
// file but does resolve from the dataset root. Targets outside DocsFolders
// (when any are declared) are left alone, as are files and targets
// matching Exclude. A root-style link whose target does not exist is
// reported as unresolved.
type Normalization struct {
	DocsFolders []string
	Exclude     []string
}

// Generator returns the normalization as a batch generator.
func (n Normalization) Generator() Generator {
	folders := lo.Map(n.DocsFolders, func(f string, _ int) string { return cleanRel(f) })

	inDocs := func(target string) bool {
		if len(folders) == 0 {
			return true
		}
		return lo.SomeBy(folders, func(f string) bool { return underBase(target, f) })
	}

	return func(links []types.ParsedLink, file string, cfg Config, fsys types.FS) ([]types.Replacement, error) {
		rel := RelSlash(cfg.DatasetRoot, file)
		if Excluded(rel, n.Exclude) {
			return nil, nil
		}
		exists := func(target string) bool {
			ok, _ := filesystem.Exists(fsys, filepath.Join(cfg.DatasetRoot, filepath.FromSlash(target)))
			return ok
		}

		var reps []types.Replacement
		for _, l := range links {
			if markdown.ShouldSkip(l.Href) {
				continue
			}
			p, suffix := markdown.SplitHref(l.Href)
			decoded, encoded, err := markdown.DecodePath(p)
			if err != nil || decoded == "" {
				continue
			}

			var target string
			switch {
			case strings.HasPrefix(decoded, "/"):
				target = cleanRel(decoded)
			case lo.Contains(folders, firstSegment(decoded)):
				if exists(path.Join(dirOf(rel), decoded)) {
					continue
				}
				target = cleanRel(decoded)
			default:
				continue
			}

			if target == "" || !inDocs(target) || Excluded(target, n.Exclude) {
				continue
			}
			if !exists(target) {
				reps = append(reps, unresolved(l))
				continue
			}

			newPath := markdown.FormatRelative(RelSlash(dirOf(rel), target))
			if encoded {
				newPath = markdown.EncodePath(newPath)
			}
			newHref := newPath + suffix
			if newHref == l.Href {
				continue
			}
			reps = append(reps, types.Replacement{
				Line:    l.Line,
				OldHref: l.Href,
				NewHref: newHref,
				Start:   l.Start,
				End:     l.End,
				Kind:    types.KindNormalized,
			})
		}
		return reps, nil
	}
}

func firstSegment(p string) string {
	p = strings.TrimPrefix(p, "./")
	seg, _, _ := strings.Cut(p, "/")
	return seg
}
