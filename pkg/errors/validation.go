package errors

import (
	"math"
	"strings"
	"unicode"
)

// Limits applied to untrusted plans, e.g. plan files and HTTP requests.
const (
	MaxIDLength      = 128
	MaxArticleLength = 128
	MaxDepth         = 16
)

// ValidateBoxID validates a box identifier.
//
// The validation rules are intentionally conservative:
//   - No empty or whitespace-only IDs
//   - No control characters
//   - Maximum length of MaxIDLength bytes
func ValidateBoxID(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidInput, "box id cannot be empty")
	}
	if len(id) > MaxIDLength {
		return New(ErrCodeInvalidInput, "box id too long (max %d characters)", MaxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "box id %q contains control characters", id)
		}
	}
	return nil
}

// ValidateArticle validates an article number. Empty articles are allowed.
func ValidateArticle(article string) error {
	if len(article) > MaxArticleLength {
		return New(ErrCodeInvalidInput, "article too long (max %d characters)", MaxArticleLength)
	}
	for _, r := range article {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "article %q contains control characters", article)
		}
	}
	return nil
}

// ValidateWorldSize checks that the world edge length is a positive, finite
// number.
func ValidateWorldSize(size float64) error {
	if math.IsNaN(size) || math.IsInf(size, 0) || size <= 0 {
		return New(ErrCodeInvalidConfig, "world size must be a positive number, got %g", size)
	}
	return nil
}

// ValidateMaxDepth checks the octree depth is at least 1 and at most limit.
// A limit of zero disables the upper bound.
func ValidateMaxDepth(depth, limit int) error {
	if depth < 1 {
		return New(ErrCodeInvalidConfig, "max depth must be at least 1, got %d", depth)
	}
	if limit > 0 && depth > limit {
		return New(ErrCodeInvalidConfig, "max depth must be between 1 and %d, got %d", limit, depth)
	}
	return nil
}

// ValidateBoxCount rejects empty plans and plans above limit. A limit of zero
// disables the upper bound.
func ValidateBoxCount(n, limit int) error {
	if n == 0 {
		return New(ErrCodeInvalidInput, "plan has no boxes")
	}
	if limit > 0 && n > limit {
		return New(ErrCodeTooManyBoxes, "plan has %d boxes, limit is %d", n, limit)
	}
	return nil
}

// ValidatePath validates a plan or output file path given on the command
// line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateURL validates a cache backend URL.
// It ensures the URL uses a redis scheme.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	if !strings.HasPrefix(rawURL, "redis://") && !strings.HasPrefix(rawURL, "rediss://") {
		return New(ErrCodeInvalidInput, "URL must use redis or rediss scheme")
	}
	return nil
}
