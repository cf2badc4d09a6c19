package errors

import (
	"strings"
	"unicode"
)

// MaxEntityNameLength bounds entity names accepted from datasets and URLs.
const MaxEntityNameLength = 256

// MaxSearchQueryLength bounds free-text search input.
const MaxSearchQueryLength = 200

// ValidateEntityName validates a framework name read from a dataset or a
// request path.
//
// Rules:
//   - No empty or whitespace-only names
//   - No control characters
//   - Maximum length of 256 bytes
func ValidateEntityName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidDataset, "entity name cannot be empty")
	}

	if len(name) > MaxEntityNameLength {
		return New(ErrCodeInvalidDataset, "entity name too long (max %d characters)", MaxEntityNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidDataset, "entity name %q contains control characters", name)
		}
	}

	return nil
}

// ValidatePath validates a local dataset or output path.
// Absolute paths are allowed; null bytes and control characters are not.
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
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

// ValidateSearchQuery validates free-text search input.
func ValidateSearchQuery(q string) error {
	if len(q) > MaxSearchQueryLength {
		return New(ErrCodeInvalidInput, "search query too long (max %d characters)", MaxSearchQueryLength)
	}
	for _, r := range q {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "search query contains control characters")
		}
	}
	return nil
}
