package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/classdiagram/internal/config"
	cdio "github.com/matzehuels/classdiagram/pkg/io"
	"github.com/matzehuels/classdiagram/pkg/pipeline"
)

const zooTOML = `
title = "Zoo"

[[types]]
name = "zoo.Animal"

[[types]]
name = "zoo.Dog"
extends = "zoo.Animal"

[[types]]
name = "zoo.Secret"
hidden = true
`

func testCLI(t *testing.T) *CLI {
	t.Helper()
	cfg := config.Default()
	cfg.Cache.Dir = t.TempDir()
	return &CLI{Logger: log.New(io.Discard), Config: cfg}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"zoo.Dog", []string{"zoo.Dog"}},
		{"zoo.Dog, zoo.Cat ,,", []string{"zoo.Dog", "zoo.Cat"}},
	}
	for _, tt := range tests {
		if got := splitList(tt.input); !slices.Equal(got, tt.want) {
			t.Errorf("splitList(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestPreviewPath(t *testing.T) {
	tests := []struct {
		explicit string
		output   string
		want     string
	}{
		{"", "", "diagram.svg"},
		{"", "out/zoo", "out/zoo.svg"},
		{"", "zoo.puml", "zoo.svg"},
		{"p.svg", "zoo", "p.svg"},
	}
	for _, tt := range tests {
		got := previewPath(tt.explicit, pipeline.Options{Output: tt.output, Preview: "svg"})
		if got != tt.want {
			t.Errorf("previewPath(%q, %q) = %q, want %q", tt.explicit, tt.output, got, tt.want)
		}
	}
}

func TestSetInput(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "zoo.toml")
	if err := os.WriteFile(file, []byte(zooTOML), 0o644); err != nil {
		t.Fatal(err)
	}

	var opts pipeline.Options
	if err := setInput(&opts, dir); err != nil || opts.SourceDir != dir {
		t.Errorf("setInput(dir) = %v, SourceDir %q", err, opts.SourceDir)
	}
	opts = pipeline.Options{}
	if err := setInput(&opts, file); err != nil || opts.ManifestPath != file {
		t.Errorf("setInput(file) = %v, ManifestPath %q", err, opts.ManifestPath)
	}
	if err := setInput(&opts, filepath.Join(dir, "missing")); err == nil {
		t.Error("setInput(missing) should fail")
	}
}

func TestRunRender(t *testing.T) {
	c := testCLI(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "zoo.toml")
	if err := os.WriteFile(input, []byte(zooTOML), 0o644); err != nil {
		t.Fatal(err)
	}

	opts := pipeline.Options{ManifestPath: input, Output: filepath.Join(dir, "zoo"), Preview: pipeline.PreviewDOT}
	if err := c.runRender(context.Background(), opts, renderFlags{}); err != nil {
		t.Fatal(err)
	}

	desc, err := os.ReadFile(filepath.Join(dir, "zoo.puml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(desc), "Animal <|-- Dog\n") {
		t.Errorf("description:\n%s", desc)
	}
	if strings.Contains(string(desc), "Secret") {
		t.Errorf("hidden type drawn:\n%s", desc)
	}
	if _, err := os.Stat(filepath.Join(dir, "zoo.dot")); err != nil {
		t.Errorf("preview not written: %v", err)
	}
}

func TestTypePicker(t *testing.T) {
	m, err := cdio.ReadManifest(strings.NewReader(zooTOML), cdio.FormatTOML)
	if err != nil {
		t.Fatal(err)
	}
	picker := NewTypePickerModel(m)
	if len(picker.Types) != 2 {
		t.Fatalf("picker offers %d types, want the 2 visible ones", len(picker.Types))
	}

	press := func(p TypePickerModel, key string) TypePickerModel {
		var msg tea.KeyMsg
		switch key {
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
		}
		next, _ := p.Update(msg)
		return next.(TypePickerModel)
	}

	picker = press(picker, "down")
	picker = press(picker, "x")
	if got := picker.Selected(); !slices.Equal(got, []string{"zoo.Animal"}) {
		t.Errorf("Selected() = %v, want [zoo.Animal]", got)
	}

	picker = press(picker, "a")
	picker = press(picker, "a")
	if len(picker.Selected()) != 0 {
		t.Errorf("toggling all twice should clear, got %v", picker.Selected())
	}
	picker = press(picker, "enter")
	if picker.Confirmed {
		t.Error("confirming an empty selection should be refused")
	}

	picker = press(picker, "a")
	picker = press(picker, "enter")
	if !picker.Confirmed || len(picker.Selected()) != 2 {
		t.Errorf("Confirmed = %v, Selected = %v", picker.Confirmed, picker.Selected())
	}
	if !strings.Contains(picker.View(), "2 of 2 selected") {
		t.Errorf("View():\n%s", picker.View())
	}
}
