package errors

import (
	"testing"
)

func TestValidateTypeName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "Animal", false},
		{"qualified", "zoo.animals.Dog", false},
		{"underscore", "my_pkg._Hidden", false},
		{"inner class", "Outer$Inner", false},
		{"unicode", "zoo.Tänzer", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"space", "zoo Dog", true},
		{"trailing dot", "zoo.", true},
		{"leading digit", "1Dog", true},
		{"brace", "Dog{", true},
		{"quote", `Dog"`, true},
		{"newline", "Dog\nCat", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTypeName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTypeName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidTypeName) {
				t.Errorf("ValidateTypeName(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateLineStyle(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"dashed", "dashed", false},
		{"color and weight", "#red,bold", false},
		{"empty", "", true},
		{"bracket", "dashed]", true},
		{"open bracket", "[dashed", true},
		{"newline", "dashed\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLineStyle(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLineStyle(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateNoteText(t *testing.T) {
	if err := ValidateNoteText("deprecated since v2"); err != nil {
		t.Errorf("ValidateNoteText() = %v", err)
	}
	if err := ValidateNoteText(`say "hi"`); err == nil {
		t.Error("quotes should be rejected")
	}
	if err := ValidateNoteText("two\nlines"); err == nil {
		t.Error("line breaks should be rejected")
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "zoo.puml", false},
		{"valid nested", "docs/diagrams/zoo.puml", false},
		{"valid with dots", "v1.2.3/zoo.toml", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"absolute path", "/etc/passwd", true},
		{"path traversal", "../../../etc/passwd", true},
		{"path traversal middle", "foo/../bar", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidFormat,
		ErrCodeInvalidManifest,
		ErrCodeInvalidPath,
		ErrCodeInvalidTypeName,
		ErrCodeInvalidStyle,
		ErrCodeModelInconsistency,
		ErrCodeUnknownKind,
		ErrCodeProvider,
		ErrCodePersistence,
		ErrCodeExport,
		ErrCodeNotFound,
		ErrCodeFileNotFound,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
