package download

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestProgressReporterThrottles(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	var updates []Progress
	r := newProgressReporter(1000, 0, func(p Progress) { updates = append(updates, p) }, clock.Now)

	clock.Advance(10 * time.Millisecond)
	r.Add(100)
	require.Len(t, updates, 1)

	// Within the interval: counted, not reported.
	clock.Advance(50 * time.Millisecond)
	r.Add(100)
	assert.Len(t, updates, 1)

	clock.Advance(60 * time.Millisecond)
	r.Add(100)
	require.Len(t, updates, 2)
	assert.Equal(t, int64(300), updates[1].Downloaded)
	assert.Equal(t, 120*time.Millisecond, updates[1].Elapsed)

	final := r.Done()
	assert.Len(t, updates, 3)
	assert.Equal(t, int64(300), final.Downloaded)
}

func TestProgressSpeedExcludesResumedBytes(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	r := newProgressReporter(1000, 400, nil, clock.Now)

	clock.Advance(2 * time.Second)
	_, err := r.Write(make([]byte, 200))
	require.NoError(t, err)

	p := r.Done()
	assert.Equal(t, int64(600), p.Downloaded)
	assert.InDelta(t, 100.0, p.Speed, 0.001)
	assert.InDelta(t, 60.0, p.Percent(), 0.001)
}

func TestFormatProgress(t *testing.T) {
	p := Progress{Downloaded: 500_000, Total: 1_000_000, Speed: 250_000}

	interactive := FormatProgress(p, true)
	assert.True(t, strings.HasPrefix(interactive, "\r"))
	assert.Contains(t, interactive, "50.0%")
	assert.Contains(t, interactive, "500 kB / 1.0 MB")
	assert.Contains(t, interactive, "250 kB/s")

	plain := FormatProgress(p, false)
	assert.Equal(t, "downloaded 500 kB of 1.0 MB (50%) at 250 kB/s\n", plain)

	unknown := FormatProgress(Progress{Downloaded: 2048, Total: -1}, false)
	assert.Equal(t, "downloaded 2.0 kB at 0 B/s\n", unknown)
}

func TestWriterProgressNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, IsInteractive(&buf))

	WriterProgress(&buf)(Progress{Downloaded: 10, Total: 10})
	assert.Equal(t, "downloaded 10 B of 10 B (100%) at 0 B/s\n", buf.String())
}
