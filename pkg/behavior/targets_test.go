package behavior

import (
	"testing"

	"github.com/arthur-debert/docsync/pkg/errors"
	"github.com/arthur-debert/docsync/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTargets(t *testing.T) {
	canonical := types.TargetConfig{Path: ".agents/skills", Mode: types.TargetCanonical}
	symlink := types.TargetConfig{Path: ".claude/skills", Mode: types.TargetSymlink}
	copyTarget := types.TargetConfig{Path: ".cursor/skills", Mode: types.TargetCopy}

	tests := []struct {
		name     string
		targets  []types.TargetConfig
		platform string
		wantCode errors.ErrorCode
		wantErr  string
	}{
		{
			name:     "empty input is a no-op",
			targets:  nil,
			platform: "linux",
		},
		{
			name:     "single target needs no canonical",
			targets:  []types.TargetConfig{copyTarget},
			platform: "linux",
		},
		{
			name:     "canonical plus symlink on linux",
			targets:  []types.TargetConfig{canonical, symlink},
			platform: "linux",
		},
		{
			name:     "symlink rejected on win32",
			targets:  []types.TargetConfig{canonical, symlink},
			platform: "win32",
			wantCode: errors.ErrUnsupportedPlatform,
			wantErr:  "windows does not support symlink",
		},
		{
			name:     "symlink rejected on windows",
			targets:  []types.TargetConfig{canonical, symlink},
			platform: "windows",
			wantCode: errors.ErrUnsupportedPlatform,
		},
		{
			name:     "duplicate normalized paths",
			targets:  []types.TargetConfig{canonical, {Path: "/.agents/skills/", Mode: types.TargetCopy}},
			platform: "linux",
			wantCode: errors.ErrDuplicateTarget,
		},
		{
			name:     "symlink onto canonical path is a duplicate",
			targets:  []types.TargetConfig{canonical, {Path: ".agents/skills", Mode: types.TargetSymlink}},
			platform: "linux",
			wantCode: errors.ErrDuplicateTarget,
		},
		{
			name:     "no canonical among many",
			targets:  []types.TargetConfig{copyTarget, symlink},
			platform: "linux",
			wantCode: errors.ErrCanonicalCount,
		},
		{
			name:     "two canonicals",
			targets:  []types.TargetConfig{canonical, {Path: "other", Mode: types.TargetCanonical}},
			platform: "linux",
			wantCode: errors.ErrCanonicalCount,
		},
		{
			name: "transform with symlink",
			targets: []types.TargetConfig{
				canonical,
				{Path: ".claude/skills", Mode: types.TargetSymlink, Transform: &types.Transform{Flatten: true}},
			},
			platform: "linux",
			wantCode: errors.ErrTransformSymlink,
		},
		{
			name: "transform with copy is fine",
			targets: []types.TargetConfig{
				canonical,
				{Path: ".cursor/skills", Mode: types.TargetCopy, Transform: &types.Transform{Prefix: "pair"}},
			},
			platform: "linux",
		},
		{
			name:     "invalid mode",
			targets:  []types.TargetConfig{{Path: "x", Mode: "hardlink"}},
			platform: "linux",
			wantCode: errors.ErrConfigInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTargets(tt.targets, tt.platform)
			if tt.wantCode == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, tt.wantCode), "got %v", err)
			if tt.wantErr != "" {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestCanonical(t *testing.T) {
	targets := []types.TargetConfig{
		{Path: "b", Mode: types.TargetCopy},
		{Path: "a", Mode: types.TargetCanonical},
	}
	got, ok := Canonical(targets)
	require.True(t, ok)
	assert.Equal(t, "a", got.Path)

	single, ok := Canonical([]types.TargetConfig{{Path: "only", Mode: types.TargetCopy}})
	require.True(t, ok)
	assert.Equal(t, "only", single.Path)
}
