package download

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

// ProgressInterval is the minimum time between two progress callbacks.
const ProgressInterval = 100 * time.Millisecond

// Progress is a snapshot of a running download.
type Progress struct {
	Downloaded int64
	// Total is -1 when the size is unknown.
	Total   int64
	Elapsed time.Duration
	// Speed is in bytes per second over the bytes received this session.
	Speed float64
}

// Percent returns the completed share in [0, 100], or -1 when the total
// is unknown.
func (p Progress) Percent() float64 {
	if p.Total <= 0 {
		return -1
	}
	pct := float64(p.Downloaded) / float64(p.Total) * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}

// ProgressFunc receives throttled progress updates.
type ProgressFunc func(Progress)

// ProgressReporter counts received bytes and forwards at most ten
// updates per second to a ProgressFunc.
type ProgressReporter struct {
	mu       sync.Mutex
	fn       ProgressFunc
	now      func() time.Time
	interval time.Duration

	start      time.Time
	last       time.Time
	initial    int64
	downloaded int64
	total      int64
}

// NewProgressReporter starts a reporter for a download of total bytes
// that already has initial bytes on disk. fn may be nil.
func NewProgressReporter(total, initial int64, fn ProgressFunc) *ProgressReporter {
	return newProgressReporter(total, initial, fn, time.Now)
}

func newProgressReporter(total, initial int64, fn ProgressFunc, now func() time.Time) *ProgressReporter {
	start := now()
	return &ProgressReporter{
		fn:         fn,
		now:        now,
		interval:   ProgressInterval,
		start:      start,
		initial:    initial,
		downloaded: initial,
		total:      total,
	}
}

// Add records n received bytes.
func (r *ProgressReporter) Add(n int64) {
	r.mu.Lock()
	r.downloaded += n
	now := r.now()
	if r.fn == nil || now.Sub(r.last) < r.interval {
		r.mu.Unlock()
		return
	}
	r.last = now
	p := r.snapshot(now)
	r.mu.Unlock()
	r.fn(p)
}

// Write lets the reporter sit behind an io.TeeReader.
func (r *ProgressReporter) Write(b []byte) (int, error) {
	r.Add(int64(len(b)))
	return len(b), nil
}

// Done emits a final update regardless of throttling.
func (r *ProgressReporter) Done() Progress {
	r.mu.Lock()
	p := r.snapshot(r.now())
	r.mu.Unlock()
	if r.fn != nil {
		r.fn(p)
	}
	return p
}

func (r *ProgressReporter) snapshot(now time.Time) Progress {
	elapsed := now.Sub(r.start)
	var speed float64
	if secs := elapsed.Seconds(); secs > 0 {
		speed = float64(r.downloaded-r.initial) / secs
	}
	return Progress{
		Downloaded: r.downloaded,
		Total:      r.total,
		Elapsed:    elapsed,
		Speed:      speed,
	}
}

// FormatProgress renders p for humans. Interactive output rewrites the
// current line; non-interactive output is one log style line per call.
func FormatProgress(p Progress, interactive bool) string {
	done := humanize.Bytes(uint64(max(p.Downloaded, 0)))
	speed := humanize.Bytes(uint64(max(p.Speed, 0))) + "/s"

	if pct := p.Percent(); pct >= 0 {
		total := humanize.Bytes(uint64(p.Total))
		if interactive {
			return fmt.Sprintf("\r%5.1f%%  %s / %s  %s", pct, done, total, speed)
		}
		return fmt.Sprintf("downloaded %s of %s (%.0f%%) at %s\n", done, total, pct, speed)
	}
	if interactive {
		return fmt.Sprintf("\r%s  %s", done, speed)
	}
	return fmt.Sprintf("downloaded %s at %s\n", done, speed)
}

// IsInteractive reports whether w is a terminal.
func IsInteractive(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// WriterProgress returns a ProgressFunc printing to w in the style
// matching whether w is a terminal.
func WriterProgress(w io.Writer) ProgressFunc {
	interactive := IsInteractive(w)
	return func(p Progress) {
		_, _ = io.WriteString(w, FormatProgress(p, interactive))
	}
}
