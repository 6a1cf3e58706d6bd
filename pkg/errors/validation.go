package errors

import (
	"strings"
	"unicode"
)

// ValidateUserID validates a user identifier arriving from an external
// input channel (CLI argument, network file, HTTP request). The core graph
// treats identifiers as opaque; this boundary check keeps hostile or
// accidental garbage out before it ever reaches the graph.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters or null bytes
//   - No surrounding whitespace
//   - Maximum length of 256 characters
func ValidateUserID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidUser, "user id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidUser, "user id too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidUser, "user id contains control characters")
		}
	}

	if strings.TrimSpace(id) != id {
		return New(ErrCodeInvalidUser, "user id cannot have surrounding whitespace")
	}

	return nil
}

// maxNetworkPathLength bounds network file path arguments.
const maxNetworkPathLength = 500

// ValidateNetworkPath validates a network file path before any file I/O
// happens: non-empty, bounded length, no control characters, no traversal
// sequences. Rejection means the path never reaches the filesystem.
func ValidateNetworkPath(path string) error {
	switch {
	case path == "":
		return New(ErrCodeInvalidInput, "path cannot be empty")
	case len(path) > maxNetworkPathLength:
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxNetworkPathLength)
	case strings.Contains(path, ".."):
		return New(ErrCodeInvalidInput, "path cannot contain path traversal sequences (..)")
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateProbability validates a probability arriving from an external
// input channel before it is handed to the simulator.
func ValidateProbability(p float64) error {
	if p < 0 || p > 1 {
		return New(ErrCodeInvalidProbability, "probability %v outside [0, 1]", p)
	}
	return nil
}
