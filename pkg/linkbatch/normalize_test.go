package linkbatch

import (
	"context"
	"testing"

	"github.com/arthur-debert/docsync/pkg/testutil"
	"github.com/arthur-debert/docsync/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalization(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WithFileTree(testutil.FileTree{
		"docs/index.md":       "index",
		"docs/api/ref.md":     "[home](/docs/index.md) [site](/blog/post) [local](../index.md)",
		"docs/guide/start.md": "[ref](docs/api/ref.md#x) [missing](/docs/nope.md) [ext](https://x.org)",
		"vendor/lib.md":       "[home](/docs/index.md)",
		"docs/private/p.md":   "secret",
		"README.md":           "[p](/docs/private/p.md) [i](docs/index.md)",
	})

	files, err := CollectMarkdownFiles(env.FS, env.DatasetRoot, env.DatasetRoot, []string{"vendor/**"})
	require.NoError(t, err)
	assert.Len(t, files, 5)

	gen := Normalization{
		DocsFolders: []string{"docs"},
		Exclude:     []string{"vendor/**", "docs/private/**"},
	}.Generator()
	summary := NewProcessor(env.FS, Config{DatasetRoot: env.DatasetRoot}).Process(context.Background(), files, gen)

	require.False(t, summary.HasErrors())
	env.AssertFileContent("docs/api/ref.md", "[home](../index.md) [site](/blog/post) [local](../index.md)")
	env.AssertFileContent("docs/guide/start.md", "[ref](../api/ref.md#x) [missing](/docs/nope.md) [ext](https://x.org)")
	env.AssertFileContent("vendor/lib.md", "[home](/docs/index.md)")
	env.AssertFileContent("README.md", "[p](/docs/private/p.md) [i](docs/index.md)")
	assert.Equal(t, 2, summary.Counts[types.KindNormalized])
	assert.Equal(t, 1, summary.Counts[types.KindUnresolved])
}

func TestExcluded(t *testing.T) {
	tests := []struct {
		rel      string
		patterns []string
		want     bool
	}{
		{"vendor", []string{"vendor/**"}, true},
		{"vendor/a/b.md", []string{"vendor/**"}, true},
		{"vendored/a.md", []string{"vendor/**"}, false},
		{"docs/CHANGELOG.md", []string{"CHANGELOG.md"}, true},
		{"docs/a.md", []string{"docs/*.md"}, true},
		{"docs/a.md", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			assert.Equal(t, tt.want, Excluded(tt.rel, tt.patterns))
		})
	}
}

func TestCollectMarkdownFilesSkipsGit(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WithFileTree(testutil.FileTree{
		".git/notes.md": "x",
		"a.md":          "a",
		"b.txt":         "b",
		"sub/c.mdx":     "c",
	})

	files, err := CollectMarkdownFiles(env.FS, env.DatasetRoot, env.DatasetRoot, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{env.Abs("a.md"), env.Abs("sub/c.mdx")}, files)
}
