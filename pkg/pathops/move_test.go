package pathops

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/docsync/pkg/testutil"
	"github.com/arthur-debert/docsync/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func guideTree() testutil.FileTree {
	return testutil.FileTree{
		"README.md":           "[guide](docs/guide/intro.md)",
		"docs/api.md":         "[intro](guide/intro.md#setup)",
		"docs/guide/intro.md": "[api](../api.md) [next](next.md)",
		"docs/guide/next.md":  "[back](intro.md)",
	}
}

func assertGuideMoved(t *testing.T, env *testutil.TestEnvironment) {
	t.Helper()
	env.AssertNotExists("docs/guide")
	env.AssertFileContent("README.md", "[guide](./manual/intro.md)")
	env.AssertFileContent("docs/api.md", "[intro](../manual/intro.md#setup)")
	env.AssertFileContent("manual/intro.md", "[api](../docs/api.md) [next](next.md)")
	env.AssertFileContent("manual/next.md", "[back](intro.md)")
}

func TestMoveDirectoryUpdatesReferrers(t *testing.T) {
	for _, envType := range []testutil.EnvType{testutil.EnvMemoryOnly, testutil.EnvIsolated} {
		env := testutil.NewTestEnvironment(t, envType)
		env.WithFileTree(guideTree())

		result, err := Move(context.Background(), request(env, "docs/guide", "manual", types.DefaultOptions()))
		require.NoError(t, err)

		assertGuideMoved(t, env)
		assert.ElementsMatch(t, []string{"manual/intro.md", "manual/next.md"}, result.Copied)
		assert.Equal(t, 3, result.Links.Counts[types.KindRelocated])
	}
}

func TestMoveDirectoryFallsBackToPerEntryRename(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WithFileTree(guideTree())

	ffs := testutil.NewFailingFS(env.FS).Fail("rename", "docs/guide", stderrors.New("invalid cross-device link"))
	req := request(env, "docs/guide", "manual", types.DefaultOptions())
	req.FS = ffs

	_, err := Move(context.Background(), req)
	require.NoError(t, err)

	assertGuideMoved(t, env)
	assert.Equal(t, 3, ffs.Calls("rename"))
}

func TestMoveIntoExistingDirectoryMerges(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WithFileTree(testutil.FileTree{
		"inbox/a.md":   "new a",
		"inbox/b.md":   "new b",
		"archive/a.md": "old a",
	})

	opts := types.DefaultOptions()
	opts.DefaultBehavior = types.BehaviorAdd
	result, err := Move(context.Background(), request(env, "inbox", "archive", opts))
	require.NoError(t, err)

	env.AssertFileContent("archive/a.md", "old a")
	env.AssertFileContent("archive/b.md", "new b")
	// a.md could not move, so the source stays behind with it.
	env.AssertFileContent("inbox/a.md", "new a")
	env.AssertNotExists("inbox/b.md")
	assert.Equal(t, []string{"archive/a.md"}, result.Skipped)
}

func TestMoveFileUpdatesLinks(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WithFileTree(testutil.FileTree{
		"index.md":      "[faq](faq.md) [root](/faq.md)",
		"faq.md":        "[home](index.md)",
		"help/intro.md": "[faq](../faq.md)",
	})

	_, err := Move(context.Background(), request(env, "faq.md", "help/faq/questions.md", types.DefaultOptions()))
	require.NoError(t, err)

	env.AssertNotExists("faq.md")
	env.AssertFileContent("help/faq/questions.md", "[home](../../index.md)")
	env.AssertFileContent("index.md", "[faq](./help/faq/questions.md) [root](/help/faq/questions.md)")
	env.AssertFileContent("help/intro.md", "[faq](./faq/questions.md)")
}

func TestMoveTransformedUpdatesReferrers(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WithFileTree(testutil.FileTree{
		"README.md":                   "[skill](skills/review/code/SKILL.md)",
		"skills/review/code/SKILL.md": "[readme](../../../README.md)",
	})

	opts := types.DefaultOptions()
	opts.Flatten = true
	_, err := Move(context.Background(), request(env, "skills", "installed", opts))
	require.NoError(t, err)

	env.AssertNotExists("skills")
	env.AssertFileContent("installed/review-code/SKILL.md", "[readme](../../README.md)")
	env.AssertFileContent("README.md", "[skill](./installed/review-code/SKILL.md)")
}
