package linkbatch

import (
	"path"
	"strings"

	"github.com/arthur-debert/docsync/pkg/markdown"
	"github.com/arthur-debert/docsync/pkg/types"
)

// Substitution redirects links after the dataset-relative path OldBase
// was copied or moved to NewBase.
//
// Files listed in Relocated (new path -> original path, both relative to
// the dataset root) have their links resolved from the original location
// and re-expressed from the new one. Links pointing into OldBase from a
// relocated file are redirected to NewBase. With RedirectAll set, links
// from every other file into OldBase are redirected too, which is what a
// move needs since the old location no longer exists. Hrefs that already
// point at the right place, possibly spelled differently, are kept.
type Substitution struct {
	OldBase     string
	NewBase     string
	Relocated   map[string]string
	RedirectAll bool
	// Relocate maps a path relative to OldBase onto the path relative to
	// NewBase. Nil keeps the path as is.
	Relocate func(rel string) string
}

// Generator returns the substitution as a batch generator.
func (s Substitution) Generator() Generator {
	oldBase := cleanRel(s.OldBase)
	newBase := cleanRel(s.NewBase)

	return func(links []types.ParsedLink, file string, cfg Config, _ types.FS) ([]types.Replacement, error) {
		rel := RelSlash(cfg.DatasetRoot, file)
		origin, moved := s.Relocated[rel]
		if !moved {
			origin = rel
		}

		var reps []types.Replacement
		for _, l := range links {
			if markdown.ShouldSkip(l.Href) {
				continue
			}
			p, suffix := markdown.SplitHref(l.Href)
			if p == "" {
				continue
			}
			decoded, encoded, err := markdown.DecodePath(p)
			if err != nil {
				if moved {
					reps = append(reps, unresolved(l))
				}
				continue
			}

			rootStyle := strings.HasPrefix(decoded, "/")
			var target string
			if rootStyle {
				target = cleanRel(decoded)
			} else {
				target = path.Join(path.Dir(origin), decoded)
			}
			if target == ".." || strings.HasPrefix(target, "../") {
				if moved {
					reps = append(reps, unresolved(l))
				}
				continue
			}

			redirected := false
			if (moved || s.RedirectAll) && underBase(target, oldBase) {
				tail := strings.TrimPrefix(strings.TrimPrefix(target, oldBase), "/")
				if s.Relocate != nil && tail != "" {
					tail = s.Relocate(tail)
				}
				target = path.Join(newBase, tail)
				redirected = true
			}
			if !redirected && (!moved || rootStyle) {
				continue
			}

			var newPath string
			if rootStyle {
				newPath = "/" + target
			} else {
				relTarget := RelSlash(dirOf(rel), target)
				if relTarget == path.Clean(decoded) {
					continue
				}
				newPath = markdown.FormatRelative(relTarget)
			}
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
				Kind:    types.KindRelocated,
			})
		}
		return reps, nil
	}
}

func unresolved(l types.ParsedLink) types.Replacement {
	return types.Replacement{
		Line:    l.Line,
		OldHref: l.Href,
		NewHref: l.Href,
		Start:   l.Start,
		End:     l.End,
		Kind:    types.KindUnresolved,
	}
}

func cleanRel(p string) string {
	p = path.Clean("/" + strings.ReplaceAll(p, "\\", "/"))
	return strings.TrimPrefix(p, "/")
}

func dirOf(rel string) string {
	d := path.Dir(rel)
	if d == "." {
		return ""
	}
	return d
}
