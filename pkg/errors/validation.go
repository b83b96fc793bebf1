package errors

import (
	"strings"
	"unicode"
)

// ValidateCoordinateField validates one group, artifact or version string
// before it is interpolated into a repository URL.
//
// The rules are deliberately narrow:
//   - No empty values
//   - No control characters or whitespace
//   - No path separators or traversal sequences
//   - No unresolved ${...} placeholders
func ValidateCoordinateField(kind, value string) error {
	if value == "" {
		return New(ErrCodeInvalidCoordinate, "%s cannot be empty", kind)
	}

	if len(value) > 256 {
		return New(ErrCodeInvalidCoordinate, "%s too long (max 256 characters)", kind)
	}

	for _, r := range value {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidCoordinate, "%s contains invalid characters: %q", kind, value)
		}
	}

	if strings.Contains(value, "${") {
		return New(ErrCodeInvalidCoordinate, "%s is not concrete: %q", kind, value)
	}

	for _, pattern := range []string{"..", "/", "\\", "\x00", "?", "#"} {
		if strings.Contains(value, pattern) {
			return New(ErrCodeInvalidCoordinate, "%s contains invalid characters: %q", kind, pattern)
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
