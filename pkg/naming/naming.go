// Package naming computes the flatten and prefix transforms applied to
// directory paths when content is distributed, and detects collisions the
// transforms would cause.
package naming

import (
	"path"
	"strings"

	"github.com/arthur-debert/docsync/pkg/errors"
	"github.com/arthur-debert/docsync/pkg/types"
	"github.com/samber/lo"
)

// FlattenPath collapses nesting into one hyphen-joined segment.
func FlattenPath(p string) string {
	p = strings.Trim(p, "/")
	if p == "" {
		return ""
	}
	return strings.ReplaceAll(p, "/", "-")
}

// PrefixPath prepends prefix+"-" to the first segment of p only.
func PrefixPath(p, prefix string) string {
	if prefix == "" || p == "" {
		return p
	}
	return prefix + "-" + p
}

// TransformPath applies flatten first and then prefix. Prefixing a
// flattened path treats the whole result as a single top-level segment.
func TransformPath(p string, t types.Transform) string {
	out := p
	if t.Flatten {
		out = FlattenPath(out)
	}
	if t.Prefix != "" {
		out = PrefixPath(out, t.Prefix)
	}
	return out
}

// TransformFile transforms the directory part of a relative file path and
// keeps the file name.
func TransformFile(rel string, t types.Transform) string {
	dir, name := path.Split(strings.Trim(rel, "/"))
	dir = strings.TrimSuffix(dir, "/")
	newDir := TransformPath(dir, t)
	if newDir == "" {
		return name
	}
	return newDir + "/" + name
}

// DetectCollisions returns every value occurring more than once, in order
// of first appearance.
func DetectCollisions(transformed []string) []string {
	return lo.FindDuplicates(transformed)
}

// BuildPathMapping groups relative file paths by directory and computes the
// transformed directory for each group. The returned entries keep the order
// in which directories first appear in files. A collision between
// transformed file paths fails the whole mapping.
func BuildPathMapping(files []string, t types.Transform) ([]types.PathMappingEntry, error) {
	transformed := lo.Map(files, func(f string, _ int) string {
		return TransformFile(f, t)
	})
	if dups := DetectCollisions(transformed); len(dups) > 0 {
		return nil, errors.Newf(errors.ErrNamingCollision,
			"naming transform produces colliding paths: %s", strings.Join(dups, ", ")).
			WithDetail("collisions", dups)
	}

	byDir := make(map[string]*types.PathMappingEntry)
	var order []string
	for _, f := range files {
		f = strings.Trim(f, "/")
		dir := path.Dir(f)
		if dir == "." {
			dir = ""
		}
		entry, ok := byDir[dir]
		if !ok {
			entry = &types.PathMappingEntry{
				OriginalDir: dir,
				NewDir:      TransformPath(dir, t),
			}
			byDir[dir] = entry
			order = append(order, dir)
		}
		entry.Files = append(entry.Files, path.Base(f))
	}

	return lo.Map(order, func(dir string, _ int) types.PathMappingEntry {
		return *byDir[dir]
	}), nil
}
