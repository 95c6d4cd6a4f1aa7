package diagram

import (
	"fmt"
	"iter"
	"slices"
	"strconv"
	"strings"
)

// Note is a free-standing or attached annotation.
type Note struct {
	ID      string
	Text    string
	Targets []string
}

// NoteSet holds notes in insertion order. Ids are "N" followed by the
// 0-based insertion index.
type NoteSet struct {
	notes []Note
}

// AddFree appends a note without attachments and returns its id.
func (s *NoteSet) AddFree(text string) string {
	return s.AddAttached(text)
}

// AddAttached appends a note attached to each of targets and returns its id.
func (s *NoteSet) AddAttached(text string, targets ...string) string {
	id := "N" + strconv.Itoa(len(s.notes))
	s.notes = append(s.notes, Note{ID: id, Text: text, Targets: slices.Clone(targets)})
	return id
}

// Len returns the number of notes.
func (s *NoteSet) Len() int { return len(s.notes) }

// Notes returns a copy of the notes.
func (s *NoteSet) Notes() []Note {
	out := make([]Note, len(s.notes))
	for i, n := range s.notes {
		n.Targets = slices.Clone(n.Targets)
		out[i] = n
	}
	return out
}

// All yields the formatted block of every note, targets rendered as stored.
func (s *NoteSet) All() iter.Seq[string] {
	return s.Blocks(nil)
}

// Blocks yields the formatted block of every note, passing each target
// through name first. A nil name leaves targets unchanged.
func (s *NoteSet) Blocks(name func(string) string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, n := range s.notes {
			if !yield(formatNote(n, name)) {
				return
			}
		}
	}
}

func formatNote(n Note, name func(string) string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "note \"%s\" as %s\n", n.Text, n.ID)
	for _, t := range n.Targets {
		if name != nil {
			t = name(t)
		}
		fmt.Fprintf(&b, "%s .. %s\n", n.ID, t)
	}
	return b.String()
}
