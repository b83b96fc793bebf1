// Package maven fetches project descriptors from Maven repositories.
//
// Descriptors are addressed by the standard repository layout:
//
//	<root>/<groupId with dots as slashes>/<artifactId>/<version>/<artifactId>-<version>.pom
//
// Usage:
//
//	cache, _ := integrations.NewCacheWithNamespace("", "maven:", 24*time.Hour)
//	client, err := maven.NewClient(cache, "")  // Maven Central
//	pom, err := client.FetchPOM(ctx, "org.wiremock", "wiremock-standalone", "3.3.1", false)
//
// Coordinate fields are validated before they reach a URL: placeholders,
// whitespace and path separators are rejected with INVALID_COORDINATE.
// Responses are cached by repository path; pass refresh=true to bypass the
// cache.
package maven
