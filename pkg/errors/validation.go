package errors

import (
	"strings"
	"unicode"
)

// MaxNameLength is the hard limit on attendee names, enforced at intake.
// Longer names are rejected outright rather than passed to the layout engine.
const MaxNameLength = 100

// ValidateAttendeeName validates an attendee display name.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 100 characters
//
// Fitting (font shrinking, truncation) is the layout engine's job; this only
// rejects input that no truncation strategy is expected to handle.
func ValidateAttendeeName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidRecord, "attendee name cannot be empty")
	}

	if len(name) > MaxNameLength {
		return New(ErrCodeInvalidRecord, "attendee name too long (max %d characters)", MaxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidRecord, "attendee name contains invalid control characters")
		}
	}

	return nil
}

// ValidateHexColor validates a hex color string like "#E07A5F".
// Both #RGB and #RRGGBB forms are accepted.
func ValidateHexColor(color string) error {
	if color == "" {
		return New(ErrCodeInvalidColor, "color cannot be empty")
	}

	if !strings.HasPrefix(color, "#") {
		return New(ErrCodeInvalidColor, "color must start with # (got %q)", color)
	}

	hex := color[1:]
	if len(hex) != 3 && len(hex) != 6 {
		return New(ErrCodeInvalidColor, "color must be #RGB or #RRGGBB (got %q)", color)
	}

	for _, r := range hex {
		isHex := (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
		if !isHex {
			return New(ErrCodeInvalidColor, "color contains non-hex digit %q", r)
		}
	}

	return nil
}

// MicroTagMinChars and MicroTagMaxChars bound the character budget for
// circular micro tags. A single character renders lost in the circle;
// values past four cannot fit its fixed diameter.
const (
	MicroTagMinChars = 2
	MicroTagMaxChars = 4
)

// ValidateMicroTag validates a tag value destined for a circular micro badge.
// Micro tags carry 2-4 characters; anything outside that is a data error,
// not a fitting problem.
func ValidateMicroTag(category, value string) error {
	if value == "" {
		return New(ErrCodeInvalidTag, "micro tag %q has empty value", category)
	}
	if len([]rune(value)) < MicroTagMinChars {
		return New(ErrCodeInvalidTag,
			"micro tag %q value %q is below the %d character minimum",
			category, value, MicroTagMinChars)
	}
	if len([]rune(value)) > MicroTagMaxChars {
		return New(ErrCodeInvalidTag,
			"micro tag %q value %q exceeds %d character limit (%d chars)",
			category, value, MicroTagMaxChars, len([]rune(value)))
	}
	return nil
}

// ValidatePath validates a file path for safety.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}
