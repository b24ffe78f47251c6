package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/docsync/pkg/errors"
	"github.com/arthur-debert/docsync/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, types.BehaviorOverwrite, cfg.DefaultBehavior)
	assert.Equal(t, 10, cfg.ConcurrencyLimit)
	assert.Equal(t, 3, cfg.RetryAttempts)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, cfg.RetryDelay)
	assert.False(t, cfg.Flatten)
	assert.Empty(t, cfg.FolderBehavior)
	assert.Equal(t, []string{"docs"}, cfg.Links.DocsFolders)
	assert.Equal(t, []string{"node_modules/**", "vendor/**"}, cfg.Links.Exclude)
	assert.True(t, cfg.Download.CheckSpace)
}

func TestLoadLayering(t *testing.T) {
	dir := t.TempDir()
	user := writeConfig(t, dir, "config.toml", `
concurrency_limit = 4
prefix = "user"
`)
	dataset := writeConfig(t, dir, ".docsync.yaml", `
prefix: dataset
folder_behavior:
  docs/api: mirror
  docs/api/v1: mirror
`)
	explicit := writeConfig(t, dir, "ci.toml", `
flatten = true
[download]
check_space = false
`)
	t.Setenv("DOCSYNC_CONCURRENCY_LIMIT", "7")

	cfg, err := Load(LoadOptions{
		UserConfig:    user,
		DatasetConfig: dataset,
		File:          explicit,
		Overrides:     map[string]interface{}{"dry_run": true},
	})
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.ConcurrencyLimit)
	assert.Equal(t, "dataset", cfg.Prefix)
	assert.True(t, cfg.Flatten)
	assert.True(t, cfg.DryRun)
	assert.False(t, cfg.Download.CheckSpace)
	assert.Equal(t, types.FolderBehaviorMap{
		"docs/api":    types.BehaviorMirror,
		"docs/api/v1": types.BehaviorMirror,
	}, cfg.FolderBehavior)
	// untouched sections keep their defaults
	assert.Equal(t, []string{"docs"}, cfg.Links.DocsFolders)
}

func TestLoadMissingLayeredFilesAreSkipped(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(LoadOptions{
		UserConfig:    filepath.Join(dir, "nope.toml"),
		DatasetConfig: filepath.Join(dir, ".docsync.toml"),
	})
	assert.NoError(t, err)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("DOCSYNC_LINKS__EXCLUDE", "drafts/**,*.tmp.md")
	t.Setenv("DOCSYNC_RETRY_DELAY", "500ms,3s")
	t.Setenv("DOCSYNC_DEFAULT_BEHAVIOR", "ADD")

	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"drafts/**", "*.tmp.md"}, cfg.Links.Exclude)
	assert.Equal(t, []time.Duration{500 * time.Millisecond, 3 * time.Second}, cfg.RetryDelay)
	assert.Equal(t, types.BehaviorAdd, cfg.DefaultBehavior)
}

func TestLoadDelayLists(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, ".docsync.toml", "retry_delay = \"250ms, 1s\"\n")

	cfg, err := Load(LoadOptions{DatasetConfig: path})
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{250 * time.Millisecond, time.Second}, cfg.RetryDelay)

	t.Setenv("DOCSYNC_RETRY_DELAY", " 2s ,4s ")
	cfg, err = Load(LoadOptions{DatasetConfig: path})
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, cfg.RetryDelay)

	t.Setenv("DOCSYNC_RETRY_DELAY", "2s,soon")
	_, err = Load(LoadOptions{DatasetConfig: path})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigInvalid))
}

func TestLoadTargets(t *testing.T) {
	dir := t.TempDir()
	file := writeConfig(t, dir, "targets.toml", `
[[targets]]
path = "site/docs"
mode = "canonical"

[[targets]]
path = "mirror/docs"
mode = "copy"

[targets.transform]
flatten = true
prefix = "m"
`)

	cfg, err := Load(LoadOptions{File: file})
	require.NoError(t, err)

	require.Len(t, cfg.Targets, 2)
	assert.Equal(t, types.TargetCanonical, cfg.Targets[0].Mode)
	assert.Nil(t, cfg.Targets[0].Transform)
	assert.Equal(t, types.TargetCopy, cfg.Targets[1].Mode)
	require.NotNil(t, cfg.Targets[1].Transform)
	assert.Equal(t, types.Transform{Flatten: true, Prefix: "m"}, *cfg.Targets[1].Transform)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.ErrorCode
	}{
		{
			name:    "concurrency below one",
			content: "concurrency_limit = 0\n",
			code:    errors.ErrConfigInvalid,
		},
		{
			name:    "negative retries",
			content: "retry_attempts = -1\n",
			code:    errors.ErrConfigInvalid,
		},
		{
			name:    "unknown behavior",
			content: "default_behavior = \"sometimes\"\n",
			code:    errors.ErrConfigInvalid,
		},
		{
			name:    "mirror with non-mirror child",
			content: "[folder_behavior]\n\"docs\" = \"mirror\"\n\"docs/keep\" = \"add\"\n",
			code:    errors.ErrMirrorConstraint,
		},
		{
			name:    "duplicate targets",
			content: "[[targets]]\npath = \"a\"\nmode = \"canonical\"\n\n[[targets]]\npath = \"./a/\"\nmode = \"copy\"\n",
			code:    errors.ErrDuplicateTarget,
		},
		{
			name:    "malformed toml",
			content: "concurrency_limit = = 3\n",
			code:    errors.ErrConfigLoad,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := writeConfig(t, t.TempDir(), "bad.toml", tt.content)
			_, err := Load(LoadOptions{File: file})
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetErrorCode(err), err.Error())
		})
	}
}

func TestLoadExplicitFileMustExist(t *testing.T) {
	_, err := Load(LoadOptions{File: filepath.Join(t.TempDir(), "missing.toml")})
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "concurrency_limit", envKey("DOCSYNC_CONCURRENCY_LIMIT"))
	assert.Equal(t, "download.s3_region", envKey("DOCSYNC_DOWNLOAD__S3_REGION"))
}
