package markdown

import (
	"testing"

	"github.com/arthur-debert/docsync/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func replacementsFor(content []byte, mapping map[string]string) []types.Replacement {
	var reps []types.Replacement
	for _, l := range ParseLinks(content) {
		if newHref, ok := mapping[l.Href]; ok {
			reps = append(reps, types.Replacement{
				Line: l.Line, OldHref: l.Href, NewHref: newHref,
				Start: l.Start, End: l.End, Kind: types.KindRelocated,
			})
		}
	}
	return reps
}

func TestApplyReplacements(t *testing.T) {
	t.Run("applies in descending order regardless of input order", func(t *testing.T) {
		content := []byte("[a](a.md) [b](b.md) [c](c.md)")
		reps := replacementsFor(content, map[string]string{
			"a.md": "../x/a.md",
			"c.md": "./c.md",
		})

		out, applied := ApplyReplacements(content, reps)
		assert.Equal(t, "[a](../x/a.md) [b](b.md) [c](./c.md)", string(out))
		require.Len(t, applied, 2)
		assert.Equal(t, "c.md", applied[0].OldHref)
	})

	t.Run("same href text elsewhere is untouched", func(t *testing.T) {
		content := []byte("a.md is linked as [a.md](a.md)")
		out, _ := ApplyReplacements(content, replacementsFor(content, map[string]string{"a.md": "./b/a.md"}))
		assert.Equal(t, "a.md is linked as [a.md](./b/a.md)", string(out))
	})

	t.Run("stale span is skipped", func(t *testing.T) {
		content := []byte("[a](a.md)")
		out, applied := ApplyReplacements(content, []types.Replacement{
			{OldHref: "zzz.md", NewHref: "y.md", Start: 4, End: 8, Kind: types.KindRelocated},
		})
		assert.Equal(t, "[a](a.md)", string(out))
		assert.Empty(t, applied)
	})

	t.Run("non content changing kinds are ignored", func(t *testing.T) {
		content := []byte("[a](a.md)")
		out, applied := ApplyReplacements(content, []types.Replacement{
			{OldHref: "a.md", NewHref: "b.md", Start: 4, End: 8, Kind: types.KindUnresolved},
		})
		assert.Equal(t, "[a](a.md)", string(out))
		assert.Empty(t, applied)
	})

	t.Run("input is not mutated", func(t *testing.T) {
		content := []byte("[a](a.md)")
		_, _ = ApplyReplacements(content, replacementsFor(content, map[string]string{"a.md": "longer/a.md"}))
		assert.Equal(t, "[a](a.md)", string(content))
	})
}
