// Package integrations provides HTTP clients for remote artifact repositories.
//
// The [Client] type carries the plumbing shared by repository clients: a
// timeout-bound http.Client, a file cache from [httputil], retry of transient
// failures, and HTTP events reported to [observability] hooks.
//
// Repository-specific clients live in subpackages:
//
//   - [maven]: Maven repository layout (Maven Central by default)
//
// Status handling is uniform: 404 maps to [ErrNotFound], 429 and 5xx to a
// retryable [ErrNetwork], and any other non-200 status to a plain
// [ErrNetwork].
//
// [maven]: github.com/matzehuels/stackbom/pkg/integrations/maven
// [httputil]: github.com/matzehuels/stackbom/pkg/httputil
// [observability]: github.com/matzehuels/stackbom/pkg/observability
package integrations
