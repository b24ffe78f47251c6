package behavior

import (
	"path"
	"strings"

	"github.com/arthur-debert/docsync/pkg/errors"
	"github.com/arthur-debert/docsync/pkg/types"
)

// IsWindows reports whether platform names Windows. Both the Go name and
// the win32 spelling are accepted.
func IsWindows(platform string) bool {
	switch strings.ToLower(platform) {
	case "windows", "win32":
		return true
	default:
		return false
	}
}

// NormalizeTargetPath cleans a target path for comparison.
func NormalizeTargetPath(p string) string {
	key := NormalizeKey(p)
	if key == "" {
		return ""
	}
	key = path.Clean(key)
	if key == "." {
		return ""
	}
	return key
}

// ValidateTargets checks a multi-target configuration. Two targets whose
// paths normalize to the same location are rejected as duplicates; this
// also covers a symlink target pointing back at the canonical path.
func ValidateTargets(targets []types.TargetConfig, platform string) error {
	if len(targets) == 0 {
		return nil
	}

	seen := make(map[string]int, len(targets))
	for i, t := range targets {
		if !t.Mode.IsValid() {
			return errors.Newf(errors.ErrConfigInvalid, "target %q has invalid mode %q", t.Path, t.Mode).
				WithDetail("path", t.Path)
		}
		key := NormalizeTargetPath(t.Path)
		if prev, ok := seen[key]; ok {
			return errors.Newf(errors.ErrDuplicateTarget,
				"duplicate target path %q (targets %d and %d resolve to the same location, which would create a circular symlink or overwrite itself)",
				t.Path, prev, i).
				WithDetail("path", t.Path)
		}
		seen[key] = i
	}

	if len(targets) > 1 {
		canonical := 0
		for _, t := range targets {
			if t.Mode == types.TargetCanonical {
				canonical++
			}
		}
		if canonical != 1 {
			return errors.Newf(errors.ErrCanonicalCount,
				"exactly one canonical target is required when distributing to %d targets, found %d",
				len(targets), canonical).
				WithDetail("canonical", canonical)
		}
	}

	for _, t := range targets {
		if t.Mode != types.TargetSymlink {
			continue
		}
		if IsWindows(platform) {
			return errors.Newf(errors.ErrUnsupportedPlatform,
				"windows does not support symlink mode for target %q; use copy mode instead", t.Path).
				WithDetail("path", t.Path)
		}
		if t.Transform != nil && !t.Transform.IsZero() {
			return errors.Newf(errors.ErrTransformSymlink,
				"target %q cannot combine a naming transform with symlink mode", t.Path).
				WithDetail("path", t.Path)
		}
	}
	return nil
}

// Canonical returns the canonical target of a validated set. A single
// target is canonical regardless of its declared mode.
func Canonical(targets []types.TargetConfig) (types.TargetConfig, bool) {
	if len(targets) == 1 {
		return targets[0], true
	}
	for _, t := range targets {
		if t.Mode == types.TargetCanonical {
			return t, true
		}
	}
	return types.TargetConfig{}, false
}
