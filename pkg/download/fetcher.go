package download

import (
	"context"
	"io"
	"net/url"

	"github.com/arthur-debert/docsync/pkg/errors"
)

// Response is an open content stream.
type Response struct {
	Body io.ReadCloser
	// Offset is the byte position Body starts at. It is zero when the
	// source ignored a range request.
	Offset int64
	// Total is the full content size, or -1 when unknown.
	Total int64
}

// Fetcher retrieves content for one URL scheme.
type Fetcher interface {
	// Size returns the content length, or -1 when the source does not
	// report one.
	Size(ctx context.Context, rawURL string) (int64, error)
	// Fetch opens the content starting at offset.
	Fetch(ctx context.Context, rawURL string, offset int64) (*Response, error)
}

func schemeOf(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInvalidInput, "invalid download URL").
			WithDetail("url", rawURL)
	}
	if u.Scheme == "" {
		return "", errors.New(errors.ErrInvalidInput, "download URL has no scheme").
			WithDetail("url", rawURL)
	}
	return u.Scheme, nil
}
