package download

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/docsync/pkg/errors"
	"github.com/arthur-debert/docsync/pkg/logging"
	"github.com/arthur-debert/docsync/pkg/types"
)

const copyBufferSize = 32 * 1024

// Options configures a Manager.
type Options struct {
	MaxRetries int
	Delays     []time.Duration
	// Sleep overrides the wait between retries.
	Sleep func(ctx context.Context, d time.Duration) error

	Progress ProgressFunc

	// FreeSpace enables the disk space preflight when set.
	FreeSpace FreeSpaceFunc

	HTTPClient *http.Client
	S3Client   S3API
	S3Profile  string
	S3Region   string
}

// DefaultOptions returns the default retry schedule with the OS disk
// space check enabled.
func DefaultOptions() Options {
	return Options{
		MaxRetries: DefaultMaxRetries,
		Delays:     DefaultDelays,
		FreeSpace:  DiskFree,
	}
}

// Result describes a finished download.
type Result struct {
	Destination string
	Bytes       int64
	Resumed     bool
	Attempts    int
}

// Manager downloads URLs into files, resuming partial downloads and
// retrying transient failures.
type Manager struct {
	fsys     types.FS
	fetchers map[string]Fetcher
	resume   *ResumeManager
	retry    RetryOptions
	progress ProgressFunc
	free     FreeSpaceFunc
	logger   zerolog.Logger
}

// NewManager creates a Manager with http, https and s3 fetchers.
func NewManager(fsys types.FS, opts Options) *Manager {
	httpFetcher := NewHTTPFetcher(opts.HTTPClient)
	s3Fetcher := NewS3Fetcher(opts.S3Client)
	s3Fetcher.Profile = opts.S3Profile
	s3Fetcher.Region = opts.S3Region

	return &Manager{
		fsys: fsys,
		fetchers: map[string]Fetcher{
			"http":  httpFetcher,
			"https": httpFetcher,
			"s3":    s3Fetcher,
		},
		resume: NewResumeManager(fsys),
		retry: RetryOptions{
			MaxRetries: opts.MaxRetries,
			Delays:     opts.Delays,
			Sleep:      opts.Sleep,
		},
		progress: opts.Progress,
		free:     opts.FreeSpace,
		logger:   logging.GetLogger("download"),
	}
}

// Register installs f for scheme, replacing any existing fetcher.
func (m *Manager) Register(scheme string, f Fetcher) {
	m.fetchers[scheme] = f
}

// Download fetches rawURL into destination. The content is streamed into
// the partial file and renamed into place once complete.
func (m *Manager) Download(ctx context.Context, rawURL, destination string) (*Result, error) {
	scheme, err := schemeOf(rawURL)
	if err != nil {
		return nil, err
	}
	fetcher, ok := m.fetchers[scheme]
	if !ok {
		return nil, errors.Newf(errors.ErrInvalidInput, "unsupported URL scheme %q", scheme).
			WithDetail("url", rawURL)
	}

	logger := m.logger.With().
		Str("request", uuid.NewString()).
		Str("url", rawURL).
		Str("dest", destination).
		Logger()
	done := logging.LogOperationStart(logger, "download")
	defer done()

	retry := m.retry
	retry.OnRetry = func(attempt int, err error, delay time.Duration) {
		logger.Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("delay", delay).
			Msg("Transient download failure, retrying")
	}

	attempts := 0
	result, err := Retry(ctx, func(ctx context.Context) (*Result, error) {
		attempts++
		return m.attempt(ctx, fetcher, rawURL, destination, logger)
	}, retry)
	if err != nil {
		logger.Error().Err(err).Int("attempts", attempts).Msg("Download failed")
		return nil, err
	}
	result.Attempts = attempts

	logger.Info().
		Int64("bytes", result.Bytes).
		Bool("resumed", result.Resumed).
		Int("attempts", attempts).
		Msg("Download complete")
	return result, nil
}

func (m *Manager) attempt(ctx context.Context, fetcher Fetcher, rawURL, destination string, logger zerolog.Logger) (*Result, error) {
	total, err := fetcher.Size(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	info, err := m.resume.ShouldResume(destination, total)
	if err != nil {
		return nil, err
	}
	offset := int64(0)
	if info.ShouldResume {
		offset = info.BytesDownloaded
	} else if err := m.resume.Cleanup(destination); err != nil {
		return nil, err
	}

	if err := CheckFreeSpace(m.fsys, destination, total-offset, m.free); err != nil {
		return nil, err
	}

	resp, err := fetcher.Fetch(ctx, rawURL, offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if offset > 0 && resp.Offset != offset {
		logger.Warn().
			Int64("offset", offset).
			Msg("Source ignored range request, restarting from scratch")
		if err := m.resume.Cleanup(destination); err != nil {
			return nil, err
		}
		offset = 0
	}
	if total <= 0 {
		total = resp.Total
	}
	if offset > 0 {
		logger.Info().Int64("offset", offset).Int64("total", total).Msg("Resuming download")
	}

	written, err := m.stream(resp.Body, destination, offset, total)
	if err != nil {
		return nil, err
	}

	size := offset + written
	if total > 0 && size != total {
		return nil, errors.Newf(errors.ErrDownload, "incomplete download: got %d of %d bytes", size, total).
			WithDetail("url", rawURL)
	}

	partial := PartialPath(destination)
	if err := m.fsys.Rename(partial, destination); err != nil {
		return nil, errors.IO("rename", partial, err)
	}
	return &Result{Destination: destination, Bytes: size, Resumed: offset > 0}, nil
}

// stream appends body to the partial file, or truncates it first when
// offset is zero.
func (m *Manager) stream(body io.Reader, destination string, offset, total int64) (int64, error) {
	partial := PartialPath(destination)
	if err := m.fsys.MkdirAll(filepath.Dir(partial), 0755); err != nil {
		return 0, errors.IO("mkdir", filepath.Dir(partial), err)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if offset > 0 {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := m.fsys.OpenFile(partial, flags, 0644)
	if err != nil {
		return 0, errors.IO("open", partial, err)
	}

	reporter := NewProgressReporter(total, offset, m.progress)
	written, err := io.CopyBuffer(io.MultiWriter(f, reporter), body, make([]byte, copyBufferSize))
	reporter.Done()
	if err != nil {
		_ = f.Close()
		// Read failures keep their text so transient ones are retried.
		return written, err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return written, errors.IO("sync", partial, err)
	}
	if err := f.Close(); err != nil {
		return written, errors.IO("close", partial, err)
	}
	return written, nil
}
