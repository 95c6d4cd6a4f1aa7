package diagram

import (
	"slices"
	"strings"
	"testing"
)

func blocks(s *NoteSet) []string {
	var out []string
	for b := range s.All() {
		out = append(out, b)
	}
	return out
}

func TestAddAttachedNote(t *testing.T) {
	var s NoteSet
	id := s.AddAttached("deprecated", "TypeX")
	if id != "N0" {
		t.Errorf("id = %q, want N0", id)
	}

	got := blocks(&s)
	if len(got) != 1 {
		t.Fatalf("got %d blocks, want 1", len(got))
	}
	lines := strings.Split(strings.TrimSuffix(got[0], "\n"), "\n")
	want := []string{`note "deprecated" as N0`, "N0 .. TypeX"}
	if !slices.Equal(lines, want) {
		t.Errorf("block lines = %q, want %q", lines, want)
	}
}

func TestNoteIDsFollowInsertionOrder(t *testing.T) {
	var s NoteSet
	ids := []string{
		s.AddFree("first"),
		s.AddAttached("second", "A", "B"),
		s.AddFree("third"),
	}
	if !slices.Equal(ids, []string{"N0", "N1", "N2"}) {
		t.Errorf("ids = %v", ids)
	}

	got := blocks(&s)
	want := []string{
		"note \"first\" as N0\n",
		"note \"second\" as N1\nN1 .. A\nN1 .. B\n",
		"note \"third\" as N2\n",
	}
	if !slices.Equal(got, want) {
		t.Errorf("blocks = %q, want %q", got, want)
	}
}

func TestBlocksMapsTargets(t *testing.T) {
	var s NoteSet
	s.AddAttached("hi", "zoo.Dog")

	for b := range s.Blocks(strings.ToUpper) {
		if !strings.Contains(b, "N0 .. ZOO.DOG") {
			t.Errorf("block = %q", b)
		}
	}
}

func TestNotesReturnsCopy(t *testing.T) {
	var s NoteSet
	s.AddAttached("hi", "A")

	ns := s.Notes()
	ns[0].Targets[0] = "changed"

	if s.Notes()[0].Targets[0] != "A" {
		t.Error("Notes() exposed internal state")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d", s.Len())
	}
}
