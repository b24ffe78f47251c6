package pathops

import (
	"context"
	"testing"

	"github.com/arthur-debert/docsync/pkg/linkbatch"
	"github.com/arthur-debert/docsync/pkg/testutil"
	"github.com/arthur-debert/docsync/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func replacementsByFile(s *linkbatch.Summary) map[string][]types.Replacement {
	out := make(map[string][]types.Replacement, len(s.Reports))
	for _, r := range s.Reports {
		out[r.File] = r.Replacements
	}
	return out
}

func TestDryRunLinksMatchRealRun(t *testing.T) {
	skillTree := testutil.FileTree{
		"README.md":                      "[driver](source/driver/SKILL.md)",
		"source/navigator/next/SKILL.md": "[readme](../../../README.md) [driver](../../driver/SKILL.md)",
		"source/driver/SKILL.md":         "[next](../navigator/next/SKILL.md)",
	}

	tests := []struct {
		name      string
		tree      testutil.FileTree
		source    string
		target    string
		move      bool
		opts      func(*types.Options)
		relocated int
	}{
		{
			name:   "move directory",
			tree:   guideTree(),
			source: "docs/guide", target: "manual",
			move:      true,
			relocated: 3,
		},
		{
			name: "copy file into directory",
			tree: testutil.FileTree{
				"notes/a.md":   "[b](b.md) [x](../archive/x.md)",
				"notes/b.md":   "b",
				"archive/x.md": "x",
			},
			source: "notes/a.md", target: "archive",
			relocated: 2,
		},
		{
			name: "move file with referrers",
			tree: testutil.FileTree{
				"notes/a.md": "[b](b.md)",
				"notes/b.md": "[a](a.md)",
				"index.md":   "[a](notes/a.md)",
			},
			source: "notes/a.md", target: "archive/a.md",
			move:      true,
			relocated: 3,
		},
		{
			name:   "copy with naming transform",
			tree:   skillTree,
			source: "source", target: "target",
			opts: func(o *types.Options) {
				o.Flatten = true
				o.Prefix = "pair"
			},
			relocated: 3,
		},
		{
			name:   "move with naming transform",
			tree:   skillTree,
			source: "source", target: "target",
			move: true,
			opts: func(o *types.Options) {
				o.Flatten = true
				o.Prefix = "pair"
			},
			relocated: 4,
		},
		{
			name: "move into mirror destination",
			tree: testutil.FileTree{
				"src/a.md":     "[b](sub/b.md)",
				"src/sub/b.md": "[a](../a.md)",
				"dst/a.md":     "old a",
				"dst/extra.md": "[a](../src/a.md)",
				"README.md":    "[a](src/a.md)",
			},
			source: "src", target: "dst",
			move: true,
			opts: func(o *types.Options) {
				o.DefaultBehavior = types.BehaviorMirror
			},
			relocated: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := func(dryRun bool) (*testutil.TestEnvironment, *Result) {
				env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
				env.WithFileTree(tt.tree)
				opts := types.DefaultOptions()
				if tt.opts != nil {
					tt.opts(&opts)
				}
				opts.DryRun = dryRun

				op := Copy
				if tt.move {
					op = Move
				}
				result, err := op(context.Background(), request(env, tt.source, tt.target, opts))
				require.NoError(t, err)
				return env, result
			}

			dryEnv, preview := run(true)
			_, actual := run(false)

			assert.Equal(t, tt.relocated, actual.Links.Counts[types.KindRelocated])
			assert.Equal(t, actual.Links.Counts, preview.Links.Counts)
			assert.Equal(t, actual.Links.FilesProcessed, preview.Links.FilesProcessed)
			assert.Equal(t, replacementsByFile(&actual.Links), replacementsByFile(&preview.Links))
			assert.ElementsMatch(t, actual.Copied, preview.Copied)
			assert.Empty(t, preview.Links.Errors)
			assert.Zero(t, preview.Links.FilesChanged)

			for rel, content := range tt.tree {
				if s, ok := content.(string); ok {
					dryEnv.AssertFileContent(rel, s)
				}
			}
		})
	}
}
