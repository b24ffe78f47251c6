package download

import (
	"context"
	"fmt"
	"net/http"

	"github.com/arthur-debert/docsync/pkg/errors"
)

// HTTPFetcher downloads over http and https, resuming with Range
// requests.
type HTTPFetcher struct {
	Client    *http.Client
	UserAgent string
}

// NewHTTPFetcher returns a fetcher using client, or http.DefaultClient
// when client is nil.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{Client: client, UserAgent: "docsync"}
}

func (h *HTTPFetcher) newRequest(ctx context.Context, method, rawURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "invalid download URL").
			WithDetail("url", rawURL)
	}
	if h.UserAgent != "" {
		req.Header.Set("User-Agent", h.UserAgent)
	}
	return req, nil
}

func statusError(resp *http.Response, rawURL string) error {
	return errors.Newf(errors.ErrHTTPStatus, "HTTP %s", resp.Status).
		WithDetail("url", rawURL).
		WithDetail("status", resp.StatusCode)
}

// Size issues a HEAD request and reads Content-Length.
func (h *HTTPFetcher) Size(ctx context.Context, rawURL string) (int64, error) {
	req, err := h.newRequest(ctx, http.MethodHead, rawURL)
	if err != nil {
		return -1, err
	}
	resp, err := h.Client.Do(req)
	if err != nil {
		return -1, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return -1, statusError(resp, rawURL)
	}
	return resp.ContentLength, nil
}

// Fetch issues a GET, adding a Range header when offset is positive. A
// server answering 200 to a range request is treated as restarting from
// zero.
func (h *HTTPFetcher) Fetch(ctx context.Context, rawURL string, offset int64) (*Response, error) {
	req, err := h.newRequest(ctx, http.MethodGet, rawURL)
	if err != nil {
		return nil, err
	}
	if offset > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", offset))
	}

	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusPartialContent && offset > 0:
		total := int64(-1)
		if resp.ContentLength >= 0 {
			total = offset + resp.ContentLength
		}
		return &Response{Body: resp.Body, Offset: offset, Total: total}, nil
	case resp.StatusCode == http.StatusOK:
		return &Response{Body: resp.Body, Offset: 0, Total: resp.ContentLength}, nil
	default:
		_ = resp.Body.Close()
		return nil, statusError(resp, rawURL)
	}
}
