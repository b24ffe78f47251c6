package linkbatch

import (
	"context"
	"fmt"
	"sort"

	"github.com/arthur-debert/docsync/pkg/errors"
	"github.com/arthur-debert/docsync/pkg/logging"
	"github.com/arthur-debert/docsync/pkg/markdown"
	"github.com/arthur-debert/docsync/pkg/types"
	"github.com/maruel/natural"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Config is handed to every generator call.
type Config struct {
	// DatasetRoot is the directory all dataset-relative paths resolve
	// against.
	DatasetRoot string
	// ConcurrencyLimit is the window size. Zero means the default.
	ConcurrencyLimit int
	// DryRun computes replacements without writing files.
	DryRun bool
	// ReadFrom maps a file of the batch to the file its content is read
	// from. Dry runs use it for destinations that have not been written.
	ReadFrom map[string]string
}

func (c Config) windowSize() int {
	if c.ConcurrencyLimit <= 0 {
		return types.DefaultConcurrencyLimit
	}
	return c.ConcurrencyLimit
}

// Generator computes the replacements for one file from its parsed links.
type Generator func(links []types.ParsedLink, file string, cfg Config, fsys types.FS) ([]types.Replacement, error)

// FileReport lists the replacements recorded for one file.
type FileReport struct {
	File         string
	Replacements []types.Replacement
	Written      bool
}

// FileError is a failure confined to one file of a batch.
type FileError struct {
	File string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e FileError) Unwrap() error {
	return e.Err
}

// Summary aggregates the outcome of a batch.
type Summary struct {
	FilesProcessed int
	FilesChanged   int
	Counts         map[types.ReplacementKind]int
	Reports        []FileReport
	Errors         []FileError
}

// NewSummary returns an empty summary.
func NewSummary() *Summary {
	return &Summary{Counts: make(map[types.ReplacementKind]int)}
}

// Total returns the number of recorded replacements of all kinds.
func (s *Summary) Total() int {
	n := 0
	for _, c := range s.Counts {
		n += c
	}
	return n
}

// HasErrors reports whether any file failed.
func (s *Summary) HasErrors() bool {
	return len(s.Errors) > 0
}

// Merge folds other into s.
func (s *Summary) Merge(other *Summary) {
	if other == nil {
		return
	}
	if s.Counts == nil {
		s.Counts = make(map[types.ReplacementKind]int)
	}
	s.FilesProcessed += other.FilesProcessed
	s.FilesChanged += other.FilesChanged
	for k, v := range other.Counts {
		s.Counts[k] += v
	}
	s.Reports = append(s.Reports, other.Reports...)
	s.Errors = append(s.Errors, other.Errors...)
	s.sort()
}

func (s *Summary) sort() {
	sort.SliceStable(s.Reports, func(i, j int) bool {
		return natural.Less(s.Reports[i].File, s.Reports[j].File)
	})
	sort.SliceStable(s.Errors, func(i, j int) bool {
		return natural.Less(s.Errors[i].File, s.Errors[j].File)
	})
}

// Processor runs generators over file lists.
type Processor struct {
	fsys   types.FS
	cfg    Config
	logger zerolog.Logger
}

// NewProcessor returns a processor reading and writing through fsys.
func NewProcessor(fsys types.FS, cfg Config) *Processor {
	return &Processor{
		fsys:   fsys,
		cfg:    cfg,
		logger: logging.GetLogger("linkbatch"),
	}
}

type fileResult struct {
	report    *FileReport
	err       error
	processed bool
}

// Process applies gen to every file. Files are handled in windows of
// ConcurrencyLimit; a window is awaited fully before the next starts.
// Per-file failures are collected in the summary. When ctx is done the
// files not yet dispatched are reported as failed.
func (p *Processor) Process(ctx context.Context, files []string, gen Generator) *Summary {
	done := logging.LogOperationStart(p.logger, "link batch")
	defer done()

	ordered := append([]string(nil), files...)
	sort.Sort(natural.StringSlice(ordered))

	summary := NewSummary()
	window := p.cfg.windowSize()

	for start := 0; start < len(ordered); start += window {
		if err := ctx.Err(); err != nil {
			for _, f := range ordered[start:] {
				summary.Errors = append(summary.Errors, FileError{File: f, Err: err})
			}
			break
		}

		end := min(start+window, len(ordered))
		batch := ordered[start:end]
		results := make([]fileResult, len(batch))

		var g errgroup.Group
		for i, file := range batch {
			g.Go(func() error {
				results[i] = p.processFile(file, gen)
				return nil
			})
		}
		_ = g.Wait()

		for i, r := range results {
			if r.processed {
				summary.FilesProcessed++
			}
			if r.err != nil {
				p.logger.Warn().Err(r.err).Str("file", batch[i]).Msg("Link update failed")
				summary.Errors = append(summary.Errors, FileError{File: batch[i], Err: r.err})
				continue
			}
			if r.report == nil {
				continue
			}
			for _, rep := range r.report.Replacements {
				summary.Counts[rep.Kind]++
			}
			if r.report.Written {
				summary.FilesChanged++
			}
			summary.Reports = append(summary.Reports, *r.report)
		}
	}

	summary.sort()
	p.logger.Debug().
		Int("files", summary.FilesProcessed).
		Int("changed", summary.FilesChanged).
		Int("replacements", summary.Total()).
		Int("errors", len(summary.Errors)).
		Msg("Link batch finished")
	return summary
}

func (p *Processor) processFile(file string, gen Generator) (res fileResult) {
	defer func() {
		if r := recover(); r != nil {
			res = fileResult{err: errors.Newf(errors.ErrInternal, "link generator panicked: %v", r)}
		}
	}()

	src := file
	if from, ok := p.cfg.ReadFrom[file]; ok {
		src = from
	}
	info, err := p.fsys.Stat(src)
	if err != nil {
		return fileResult{err: errors.IO("stat", src, err)}
	}
	content, err := p.fsys.ReadFile(src)
	if err != nil {
		return fileResult{err: errors.IO("read", src, err)}
	}

	links := markdown.ParseLinks(content)
	if len(links) == 0 {
		return fileResult{processed: true}
	}

	reps, err := gen(links, file, p.cfg, p.fsys)
	if err != nil {
		return fileResult{processed: true, err: err}
	}
	if len(reps) == 0 {
		return fileResult{processed: true}
	}

	out, applied := markdown.ApplyReplacements(content, reps)
	report := &FileReport{File: file}
	report.Replacements = append(report.Replacements, applied...)
	for _, r := range reps {
		if !r.Kind.ChangesContent() {
			p.logger.Warn().
				Str("file", file).
				Int("line", r.Line).
				Str("href", r.OldHref).
				Msg("Unresolvable link left unchanged")
			report.Replacements = append(report.Replacements, r)
		}
	}

	if len(applied) > 0 && !p.cfg.DryRun {
		if err := p.fsys.WriteFile(file, out, info.Mode().Perm()); err != nil {
			return fileResult{processed: true, err: errors.IO("write", file, err)}
		}
		report.Written = true
	}
	return fileResult{processed: true, report: report}
}
