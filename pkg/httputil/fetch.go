package httputil

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/calgrid/pkg/buildinfo"
	"github.com/matzehuels/calgrid/pkg/errors"
	"github.com/matzehuels/calgrid/pkg/observability"
)

// MaxFeedSize bounds the body read by [Fetcher.Fetch].
const MaxFeedSize = 16 << 20

// Fetcher downloads calendar feeds.
type Fetcher struct {
	Client    *http.Client
	UserAgent string
	// MaxBytes overrides [MaxFeedSize] when positive.
	MaxBytes int64
}

// NewFetcher returns a fetcher with a 30 second timeout.
func NewFetcher() *Fetcher {
	return &Fetcher{
		Client:    &http.Client{Timeout: 30 * time.Second},
		UserAgent: buildinfo.UserAgent(),
	}
}

// NormalizeURL rewrites webcal:// to https://.
func NormalizeURL(raw string) string {
	if rest, ok := strings.CutPrefix(raw, "webcal://"); ok {
		return "https://" + rest
	}
	return raw
}

// Fetch performs one GET. It does not retry; wrap it in [Retry] for that.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	target := NormalizeURL(rawURL)
	u, err := url.Parse(target)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "invalid feed URL %q", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "invalid feed URL %q", rawURL)
	}
	req.Header.Set("Accept", "text/calendar, application/json;q=0.9, */*;q=0.5")
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, u.Host, u.Path)
	start := time.Now()

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, u.Host, u.Path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		code := errors.ErrCodeNetwork
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			code = errors.ErrCodeTimeout
		}
		return nil, &RetryableError{Err: errors.Wrap(code, err, "fetch %s", u.Host)}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, u.Host, u.Path, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		return nil, &errors.RateLimitedError{RetryAfter: retryAfter, Message: u.Host}
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.New(errors.ErrCodeSourceNotFound, "feed not found: %s", rawURL)
	case resp.StatusCode >= 500:
		return nil, &RetryableError{Err: errors.New(errors.ErrCodeNetwork, "%s returned %s", u.Host, resp.Status)}
	case resp.StatusCode >= 400:
		return nil, errors.New(errors.ErrCodeNetwork, "%s returned %s", u.Host, resp.Status)
	}

	limit := f.MaxBytes
	if limit <= 0 {
		limit = MaxFeedSize
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, &RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "read %s", u.Host)}
	}
	if int64(len(body)) > limit {
		return nil, errors.New(errors.ErrCodeInvalidInput, "feed %s exceeds %d bytes", u.Host, limit)
	}
	return body, nil
}

// FetchWithRetry is [Fetcher.Fetch] retried with [DefaultBackoff].
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) ([]byte, error) {
	var body []byte
	err := Retry(ctx, DefaultBackoff, func() error {
		var err error
		body, err = f.Fetch(ctx, rawURL)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	return body, nil
}
