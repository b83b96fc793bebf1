package integrations

import (
	"errors"
	"net/http"
	"time"

	"github.com/matzehuels/stackbom/pkg/httputil"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when a resource doesn't exist in the repository.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")

	// ErrTooLarge is returned when a response body exceeds the caller's limit.
	ErrTooLarge = errors.New("response too large")
)

// NewHTTPClient creates an HTTP client with a standard timeout for repository requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// NewCache creates a file-based cache with the given TTL in the default cache directory.
// See [httputil.NewCache] for details on cache location and behavior.
func NewCache(ttl time.Duration) (*httputil.Cache, error) {
	return httputil.NewCache("", ttl)
}

// NewCacheWithNamespace creates a cache in dir scoped to namespace. An empty
// dir uses the default location.
func NewCacheWithNamespace(dir, namespace string, ttl time.Duration) (*httputil.Cache, error) {
	c, err := httputil.NewCache(dir, ttl)
	if err != nil {
		return nil, err
	}
	return c.Namespace(namespace), nil
}
