package plantuml

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/matzehuels/classdiagram/pkg/errors"
)

// fakeJava writes a script that records its arguments and exits with code.
func fakeJava(t *testing.T, code int) (java, argsFile string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in")
	}
	dir := t.TempDir()
	argsFile = filepath.Join(dir, "args")
	java = filepath.Join(dir, "java")
	script := "#!/bin/sh\necho \"$@\" > " + argsFile + "\necho boom >&2\nexit " + string(rune('0'+code)) + "\n"
	if err := os.WriteFile(java, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return java, argsFile
}

func setup(t *testing.T) (desc, jar string) {
	t.Helper()
	dir := t.TempDir()
	desc = filepath.Join(dir, "zoo.puml")
	jar = filepath.Join(dir, "plantuml.jar")
	for _, p := range []string{desc, jar} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return desc, jar
}

func TestExport(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		wantArgs string
		wantOut  string
	}{
		{name: "default format", format: "", wantArgs: "-jar %JAR %DESC", wantOut: "zoo.png"},
		{name: "svg", format: "svg", wantArgs: "-jar %JAR %DESC -svg", wantOut: "zoo.svg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			java, argsFile := fakeJava(t, 0)
			desc, jar := setup(t)
			e := &Exporter{Java: java, Jar: jar}

			out, err := e.Export(context.Background(), desc, tt.format)
			if err != nil {
				t.Fatalf("Export() error = %v", err)
			}
			if filepath.Base(out) != tt.wantOut {
				t.Errorf("Export() = %q, want %s", out, tt.wantOut)
			}

			got, err := os.ReadFile(argsFile)
			if err != nil {
				t.Fatal(err)
			}
			want := strings.NewReplacer("%JAR", jar, "%DESC", desc).Replace(tt.wantArgs)
			if strings.TrimSpace(string(got)) != want {
				t.Errorf("args = %q, want %q", got, want)
			}
		})
	}
}

func TestExportErrors(t *testing.T) {
	desc, jar := setup(t)
	failing, _ := fakeJava(t, 1)
	ok, _ := fakeJava(t, 0)

	tests := []struct {
		name     string
		exporter Exporter
		path     string
		format   string
		wantCode errors.Code
		wantMsg  string
	}{
		{name: "bad format", exporter: Exporter{Java: ok, Jar: jar}, path: desc, format: "gif", wantCode: errors.ErrCodeInvalidFormat},
		{name: "missing description", exporter: Exporter{Java: ok, Jar: jar}, path: desc + ".missing", wantCode: errors.ErrCodeFileNotFound},
		{name: "missing java", exporter: Exporter{Java: "/nonexistent/java", Jar: jar}, path: desc, wantCode: errors.ErrCodeExport},
		{name: "missing jar", exporter: Exporter{Java: ok, Jar: jar + ".missing"}, path: desc, wantCode: errors.ErrCodeExport},
		{name: "renderer fails", exporter: Exporter{Java: failing, Jar: jar}, path: desc, wantCode: errors.ErrCodeExport, wantMsg: "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.exporter.Export(context.Background(), tt.path, tt.format)
			if !errors.Is(err, tt.wantCode) {
				t.Fatalf("Export() error = %v, want code %s", err, tt.wantCode)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Export() error = %v, want it to mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct{ path, format, want string }{
		{"zoo.puml", "", "zoo.png"},
		{"out/zoo.puml", "svg", "out/zoo.svg"},
		{"zoo", "pdf", "zoo.pdf"},
	}
	for _, tt := range tests {
		if got := OutputPath(tt.path, tt.format); got != tt.want {
			t.Errorf("OutputPath(%q, %q) = %q, want %q", tt.path, tt.format, got, tt.want)
		}
	}
}

func TestValidateFormat(t *testing.T) {
	for _, f := range append([]string{""}, Formats...) {
		if err := ValidateFormat(f); err != nil {
			t.Errorf("ValidateFormat(%q) error = %v", f, err)
		}
	}
	if err := ValidateFormat("bmp"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ValidateFormat(bmp) error = %v", err)
	}
}
