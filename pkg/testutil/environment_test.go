package testutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestEnvironment(t *testing.T) {
	for _, envType := range []EnvType{EnvMemoryOnly, EnvIsolated} {
		env := NewTestEnvironment(t, envType)
		env.WithFileTree(FileTree{
			"README.md": "# root",
			"docs": FileTree{
				"guide.md": "[readme](../README.md)",
			},
			"nested/deep/file.md": "deep",
		})

		env.AssertFileContent("docs/guide.md", "[readme](../README.md)")
		env.AssertFileContent("nested/deep/file.md", "deep")
		env.AssertExists("README.md")
		env.AssertNotExists("missing.md")

		env.WriteFile("new/dir/x.md", "x")
		assert.Equal(t, "x", env.ReadFile("new/dir/x.md"))
	}
}

func TestFailingFS(t *testing.T) {
	env := NewTestEnvironment(t, EnvMemoryOnly)
	env.WriteFile("a.md", "a")

	boom := errors.New("boom")
	ffs := NewFailingFS(env.FS).Fail("readfile", "a.md", boom)

	_, err := ffs.ReadFile(env.Abs("a.md"))
	assert.Same(t, boom, err)
	assert.Equal(t, 1, ffs.Calls("readfile"))

	info, err := ffs.Stat(env.Abs("a.md"))
	require.NoError(t, err)
	assert.False(t, info.IsDir())
}
