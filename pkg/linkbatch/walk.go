package linkbatch

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/docsync/pkg/errors"
	"github.com/arthur-debert/docsync/pkg/markdown"
	"github.com/arthur-debert/docsync/pkg/types"
	"github.com/samber/lo"
)

// CollectMarkdownFiles returns every markdown file below dir, skipping
// .git directories and anything matching exclude. Exclusion patterns are
// matched against paths relative to root.
func CollectMarkdownFiles(fsys types.FS, root, dir string, exclude []string) ([]string, error) {
	var files []string
	var walk func(string) error
	walk = func(current string) error {
		entries, err := fsys.ReadDir(current)
		if err != nil {
			return errors.IO("readdir", current, err)
		}
		for _, e := range entries {
			full := filepath.Join(current, e.Name())
			rel := RelSlash(root, full)
			if Excluded(rel, exclude) {
				continue
			}
			if e.IsDir() {
				if e.Name() == ".git" {
					continue
				}
				if err := walk(full); err != nil {
					return err
				}
				continue
			}
			if markdown.IsMarkdownFile(e.Name()) {
				files = append(files, full)
			}
		}
		return nil
	}
	if err := walk(dir); err != nil {
		return nil, err
	}
	return files, nil
}

// Excluded reports whether the dataset-relative path rel matches any
// pattern. "dir/**" matches dir and everything below it; other patterns
// use path.Match against the full path and the base name.
func Excluded(rel string, patterns []string) bool {
	rel = strings.Trim(filepath.ToSlash(rel), "/")
	return lo.SomeBy(patterns, func(pattern string) bool {
		pattern = strings.Trim(filepath.ToSlash(pattern), "/")
		if base, ok := strings.CutSuffix(pattern, "/**"); ok {
			return rel == base || strings.HasPrefix(rel, base+"/")
		}
		if ok, _ := path.Match(pattern, rel); ok {
			return true
		}
		ok, _ := path.Match(pattern, path.Base(rel))
		return ok
	})
}

// RelSlash returns target relative to base with forward slashes, or the
// slash form of target when no relative path exists.
func RelSlash(base, target string) string {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return filepath.ToSlash(target)
	}
	return filepath.ToSlash(rel)
}

// underBase reports whether the slash path p equals base or lies below it.
// An empty base contains everything.
func underBase(p, base string) bool {
	if base == "" {
		return true
	}
	return p == base || strings.HasPrefix(p, base+"/")
}
