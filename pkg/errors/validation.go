package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// typeNameRegex matches dotted identifiers such as "zoo.Animal" or "a.b$C".
var typeNameRegex = regexp.MustCompile(`^[\p{L}_$][\p{L}\p{N}_$]*(\.[\p{L}_$][\p{L}\p{N}_$]*)*$`)

// ValidateTypeName validates a qualified type name from a manifest.
//
// Names are dot-separated identifiers. Whitespace, braces and quotes would
// corrupt the generated description and are rejected.
func ValidateTypeName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidTypeName, "type name cannot be empty")
	}
	if len(name) > 256 {
		return New(ErrCodeInvalidTypeName, "type name too long (max 256 characters)")
	}
	if !typeNameRegex.MatchString(name) {
		return New(ErrCodeInvalidTypeName, "invalid type name: %q", name)
	}
	return nil
}

// ValidateLineStyle validates a line-style override such as "dashed" or
// "#red,bold". Brackets and line breaks would end the annotation early.
func ValidateLineStyle(style string) error {
	if style == "" {
		return New(ErrCodeInvalidStyle, "line style cannot be empty")
	}
	if strings.ContainsAny(style, "[]\n\r") {
		return New(ErrCodeInvalidStyle, "line style contains invalid characters: %q", style)
	}
	return nil
}

// ValidateNoteText rejects note text that would break out of its quotes.
func ValidateNoteText(text string) error {
	if strings.ContainsAny(text, "\"\n\r") {
		return New(ErrCodeInvalidInput, "note text cannot contain quotes or line breaks")
	}
	return nil
}

// ValidatePath validates a file path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
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

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
