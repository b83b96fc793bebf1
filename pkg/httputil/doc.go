// Package httputil provides HTTP plumbing for remote repository clients.
//
// # Caching
//
// [Cache] stores decoded responses as JSON files (default
// ~/.cache/stackbom/http/) with a TTL based on file modification time. Keys
// are hashed, so any string is a valid key. [Cache.Namespace] scopes keys per
// repository:
//
//	c, _ := httputil.NewCache("", 24*time.Hour)
//	central := c.Namespace("maven:")
//
// # Retry
//
// [Backoff.Do] re-runs an operation while it fails with a [RetryableError],
// doubling the delay between attempts. Clients wrap network errors, 429 and
// 5xx responses as retryable and carry the server's Retry-After (see
// [ParseRetryAfter]); everything else is returned at once.
package httputil
