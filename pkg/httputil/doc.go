// Package httputil fetches remote calendar feeds.
//
// # Fetching
//
// [Fetcher] downloads a feed body with a bounded size and a per-request
// timeout. webcal:// URLs are fetched over https. Transient failures
// (network errors, 5xx responses) are wrapped in [RetryableError]; a 429
// response becomes a rate-limited error that is not retried.
//
//	f := httputil.NewFetcher()
//	body, err := f.Fetch(ctx, "webcal://example.com/team.ics")
//
// # Retry
//
// [Retry] re-runs an operation while it returns a [RetryableError], doubling
// the delay after each attempt up to [Backoff.MaxDelay]:
//
//	err := httputil.Retry(ctx, httputil.DefaultBackoff, func() error {
//	    body, err = f.Fetch(ctx, url)
//	    return err
//	})
//
// Caching of feed bodies is done one level up, by the ics source, through
// the cache package.
package httputil
