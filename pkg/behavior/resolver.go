package behavior

import (
	"path"
	"sort"
	"strings"

	"github.com/arthur-debert/docsync/pkg/errors"
	"github.com/arthur-debert/docsync/pkg/types"
)

// NormalizeKey turns a relative path into the form used as a
// FolderBehaviorMap key: forward slashes, no leading or trailing slash.
func NormalizeKey(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	return strings.Trim(p, "/")
}

// Resolve returns the behavior for relPath. An exact match wins, then the
// nearest configured ancestor, then the root key "", then defaultBehavior.
func Resolve(relPath string, folderBehavior types.FolderBehaviorMap, defaultBehavior types.Behavior) types.Behavior {
	if len(folderBehavior) == 0 {
		return defaultBehavior
	}

	key := NormalizeKey(relPath)
	for key != "" {
		if b, ok := folderBehavior[key]; ok {
			return b
		}
		idx := strings.LastIndex(key, "/")
		if idx < 0 {
			break
		}
		key = key[:idx]
	}

	if b, ok := folderBehavior[""]; ok {
		return b
	}
	return defaultBehavior
}

// NormalizeMap returns a copy of m with every key normalized. Later keys
// that normalize to an existing key overwrite it.
func NormalizeMap(m types.FolderBehaviorMap) types.FolderBehaviorMap {
	out := make(types.FolderBehaviorMap, len(m))
	for k, v := range m {
		out[NormalizeKey(k)] = v
	}
	return out
}

// ValidateMap checks every value is a known behavior and then enforces
// the mirror constraints.
func ValidateMap(m types.FolderBehaviorMap) error {
	for _, k := range sortedKeys(m) {
		if !m[k].IsValid() {
			return errors.Newf(errors.ErrConfigInvalid, "invalid behavior %q for path %q", m[k], k).
				WithDetail("path", k)
		}
	}
	return ValidateMirrorConstraints(m)
}

// ValidateMirrorConstraints requires every configured descendant of a
// mirror path to be mirror as well.
func ValidateMirrorConstraints(m types.FolderBehaviorMap) error {
	keys := sortedKeys(m)
	for _, parent := range keys {
		if m[parent] != types.BehaviorMirror {
			continue
		}
		parentKey := NormalizeKey(parent)
		for _, child := range keys {
			if child == parent {
				continue
			}
			childKey := NormalizeKey(child)
			if !isDescendant(parentKey, childKey) {
				continue
			}
			if m[child] != types.BehaviorMirror {
				return errors.Newf(errors.ErrMirrorConstraint,
					"folder %q uses mirror but its subfolder %q uses %s; descendants of a mirror folder must also mirror",
					parent, child, m[child]).
					WithDetail("parent", parent).
					WithDetail("child", child)
			}
		}
	}
	return nil
}

func isDescendant(parent, child string) bool {
	if parent == "" {
		return child != ""
	}
	return strings.HasPrefix(child, parent+"/")
}

func sortedKeys(m types.FolderBehaviorMap) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Join builds the key for child under a parent key.
func Join(parent, child string) string {
	return NormalizeKey(path.Join(parent, child))
}
