package maven

import (
	"context"
	"errors"
	"fmt"
	"strings"

	stderrors "github.com/matzehuels/stackbom/pkg/errors"
	"github.com/matzehuels/stackbom/pkg/httputil"
	"github.com/matzehuels/stackbom/pkg/integrations"
)

// CentralURL is the Maven Central repository root.
const CentralURL = "https://repo1.maven.org/maven2"

// maxPOMSize bounds a single descriptor download.
const maxPOMSize = 4 << 20

// Client fetches project descriptors from a repository using the standard
// Maven layout. All methods are safe for concurrent use.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a client for the repository rooted at repositoryURL.
// An empty repositoryURL uses Maven Central. A nil cache disables caching.
func NewClient(cache *httputil.Cache, repositoryURL string) (*Client, error) {
	if repositoryURL == "" {
		repositoryURL = CentralURL
	}
	if err := stderrors.ValidateURL(repositoryURL); err != nil {
		return nil, err
	}
	return &Client{
		Client:  integrations.NewClient(cache, nil),
		baseURL: strings.TrimRight(repositoryURL, "/"),
	}, nil
}

// BaseURL returns the repository root without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchPOM downloads the descriptor for groupID:artifactID:version.
//
// If refresh is true, the cache is bypassed. Returns
// [integrations.ErrNotFound] when the repository has no such descriptor and
// an INVALID_COORDINATE error when a field is unsafe to put in a URL.
func (c *Client) FetchPOM(ctx context.Context, groupID, artifactID, version string, refresh bool) ([]byte, error) {
	path, err := POMPath(groupID, artifactID, version)
	if err != nil {
		return nil, err
	}
	url := c.baseURL + "/" + path

	var content []byte
	err = c.Cached(ctx, path, refresh, &content, func() error {
		data, err := c.GetBytes(ctx, url, maxPOMSize)
		if err != nil {
			return err
		}
		content = data
		return nil
	})
	if errors.Is(err, integrations.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s:%s:%s", err, groupID, artifactID, version)
	}
	if err != nil {
		return nil, err
	}
	return content, nil
}

// POMPath returns the repository-relative path of a descriptor:
// <group path>/<artifact>/<version>/<artifact>-<version>.pom.
func POMPath(groupID, artifactID, version string) (string, error) {
	for _, f := range []struct{ kind, value string }{
		{"groupId", groupID},
		{"artifactId", artifactID},
		{"version", version},
	} {
		if err := stderrors.ValidateCoordinateField(f.kind, f.value); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("%s/%s/%s/%s-%s.pom",
		strings.ReplaceAll(groupID, ".", "/"), artifactID, version, artifactID, version), nil
}
