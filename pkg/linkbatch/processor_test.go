package linkbatch

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode"

	"github.com/arthur-debert/docsync/pkg/logging"
	"github.com/arthur-debert/docsync/pkg/testutil"
	"github.com/arthur-debert/docsync/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// replaceAll rewrites every occurrence of oldHref.
func replaceAll(oldHref, newHref string) Generator {
	return func(links []types.ParsedLink, _ string, _ Config, _ types.FS) ([]types.Replacement, error) {
		var reps []types.Replacement
		for _, l := range links {
			if l.Href == oldHref {
				reps = append(reps, types.Replacement{
					Line: l.Line, OldHref: l.Href, NewHref: newHref,
					Start: l.Start, End: l.End, Kind: types.KindRelocated,
				})
			}
		}
		return reps, nil
	}
}

func TestProcessorRewritesAndCounts(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WithFileTree(testutil.FileTree{
		"a.md": "[x](old.md) and [x again](old.md)",
		"b.md": "[y](other.md)",
		"c.md": "no links here",
	})

	p := NewProcessor(env.FS, Config{DatasetRoot: env.DatasetRoot})
	summary := p.Process(context.Background(),
		[]string{env.Abs("a.md"), env.Abs("b.md"), env.Abs("c.md")},
		replaceAll("old.md", "new.md"))

	assert.Equal(t, 3, summary.FilesProcessed)
	assert.Equal(t, 1, summary.FilesChanged)
	assert.Equal(t, 2, summary.Counts[types.KindRelocated])
	assert.Equal(t, 2, summary.Total())
	assert.False(t, summary.HasErrors())
	require.Len(t, summary.Reports, 1)
	assert.True(t, summary.Reports[0].Written)

	env.AssertFileContent("a.md", "[x](new.md) and [x again](new.md)")
	env.AssertFileContent("b.md", "[y](other.md)")
}

func TestProcessorDryRunDoesNotWrite(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteFile("a.md", "[x](old.md)")

	p := NewProcessor(env.FS, Config{DatasetRoot: env.DatasetRoot, DryRun: true})
	summary := p.Process(context.Background(), []string{env.Abs("a.md")}, replaceAll("old.md", "new.md"))

	assert.Equal(t, 1, summary.Counts[types.KindRelocated])
	assert.Equal(t, 0, summary.FilesChanged)
	env.AssertFileContent("a.md", "[x](old.md)")
}

func TestProcessorReadsFromPlannedSource(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WithFileTree(testutil.FileTree{
		"src/a.md": "[x](old.md)",
		"dst/b.md": "b",
	})

	tests := []struct {
		name    string
		dryRun  bool
		changed int
	}{
		{"dry run previews the unwritten destination", true, 0},
		{"real run writes the destination", false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProcessor(env.FS, Config{
				DatasetRoot: env.DatasetRoot,
				DryRun:      tt.dryRun,
				ReadFrom:    map[string]string{env.Abs("dst/a.md"): env.Abs("src/a.md")},
			})
			summary := p.Process(context.Background(), []string{env.Abs("dst/a.md")}, replaceAll("old.md", "new.md"))

			assert.False(t, summary.HasErrors())
			assert.Equal(t, 1, summary.FilesProcessed)
			assert.Equal(t, tt.changed, summary.FilesChanged)
			assert.Equal(t, 1, summary.Counts[types.KindRelocated])
			require.Len(t, summary.Reports, 1)
			assert.Equal(t, env.Abs("dst/a.md"), summary.Reports[0].File)
			env.AssertFileContent("src/a.md", "[x](old.md)")
		})
	}
	env.AssertFileContent("dst/a.md", "[x](new.md)")
}

func TestProcessorLogMessagesAreSentenceCase(t *testing.T) {
	var buf bytes.Buffer
	logging.SetOutput(&buf)
	t.Cleanup(func() { logging.SetOutput(&bytes.Buffer{}) })

	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteFile("a.md", "[x](old.md)")
	p := NewProcessor(env.FS, Config{DatasetRoot: env.DatasetRoot})
	p.Process(context.Background(), []string{env.Abs("a.md"), env.Abs("missing.md")}, replaceAll("old.md", "new.md"))

	var messages []string
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var entry struct {
			Message string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		messages = append(messages, entry.Message)
	}
	require.NotEmpty(t, messages)
	for _, msg := range messages {
		first := []rune(msg)[0]
		assert.True(t, unicode.IsUpper(first), "message %q", msg)
		assert.False(t, strings.Contains(msg, ";"), "message %q", msg)
	}
}

func TestProcessorUnresolvedDoesNotWrite(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteFile("a.md", "[x](../../outside.md)")
	ffs := testutil.NewFailingFS(env.FS)

	gen := func(links []types.ParsedLink, _ string, _ Config, _ types.FS) ([]types.Replacement, error) {
		return []types.Replacement{unresolved(links[0])}, nil
	}
	summary := NewProcessor(ffs, Config{DatasetRoot: env.DatasetRoot}).
		Process(context.Background(), []string{env.Abs("a.md")}, gen)

	assert.Equal(t, 1, summary.Counts[types.KindUnresolved])
	assert.Equal(t, 0, summary.FilesChanged)
	assert.Equal(t, 0, ffs.Calls("writefile"))
}

func TestProcessorCollectsPerFileErrors(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WithFileTree(testutil.FileTree{
		"bad.md":  "[x](old.md)",
		"good.md": "[x](old.md)",
		"gen.md":  "[x](old.md)",
	})
	ffs := testutil.NewFailingFS(env.FS).Fail("readfile", "bad.md", errors.New("disk on fire"))

	genErr := errors.New("generator failed")
	gen := func(links []types.ParsedLink, file string, cfg Config, fsys types.FS) ([]types.Replacement, error) {
		if file == env.Abs("gen.md") {
			return nil, genErr
		}
		return replaceAll("old.md", "new.md")(links, file, cfg, fsys)
	}

	summary := NewProcessor(ffs, Config{DatasetRoot: env.DatasetRoot}).Process(context.Background(),
		[]string{env.Abs("bad.md"), env.Abs("good.md"), env.Abs("gen.md")}, gen)

	require.Len(t, summary.Errors, 2)
	assert.Equal(t, env.Abs("bad.md"), summary.Errors[0].File)
	assert.Contains(t, summary.Errors[0].Error(), "disk on fire")
	assert.Equal(t, env.Abs("gen.md"), summary.Errors[1].File)
	assert.ErrorIs(t, summary.Errors[1], genErr)

	env.AssertFileContent("good.md", "[x](new.md)")
}

func TestProcessorWindowsBoundInFlight(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	var files []string
	for i := 0; i < 25; i++ {
		rel := fmt.Sprintf("f%d.md", i)
		env.WriteFile(rel, "[x](old.md)")
		files = append(files, env.Abs(rel))
	}

	var inFlight, peak, calls int32
	gen := func(links []types.ParsedLink, _ string, _ Config, _ types.FS) ([]types.Replacement, error) {
		n := atomic.AddInt32(&inFlight, 1)
		defer atomic.AddInt32(&inFlight, -1)
		atomic.AddInt32(&calls, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		return nil, nil
	}

	summary := NewProcessor(env.FS, Config{DatasetRoot: env.DatasetRoot, ConcurrencyLimit: 4}).
		Process(context.Background(), files, gen)

	assert.Equal(t, 25, summary.FilesProcessed)
	assert.Equal(t, int32(25), atomic.LoadInt32(&calls))
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(4))
}

func TestProcessorCancelledContext(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteFile("a.md", "[x](old.md)")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary := NewProcessor(env.FS, Config{DatasetRoot: env.DatasetRoot}).
		Process(ctx, []string{env.Abs("a.md")}, replaceAll("old.md", "new.md"))

	require.Len(t, summary.Errors, 1)
	assert.ErrorIs(t, summary.Errors[0], context.Canceled)
	env.AssertFileContent("a.md", "[x](old.md)")
}

func TestSummaryMergeOrdersNaturally(t *testing.T) {
	a := NewSummary()
	a.Reports = []FileReport{{File: "f10.md"}}
	a.Counts[types.KindRelocated] = 1
	b := NewSummary()
	b.Reports = []FileReport{{File: "f2.md"}}
	b.Counts[types.KindRelocated] = 2

	a.Merge(b)
	assert.Equal(t, 3, a.Counts[types.KindRelocated])
	assert.Equal(t, "f2.md", a.Reports[0].File)
	assert.Equal(t, "f10.md", a.Reports[1].File)
}
