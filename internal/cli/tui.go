package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	cdio "github.com/matzehuels/classdiagram/pkg/io"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// TypePickerModel - Interactive type selection for render --pick
// =============================================================================

// TypePickerModel is the bubbletea model for choosing which manifest types
// are drawn. All types start selected.
type TypePickerModel struct {
	Types     []cdio.TypeSpec
	Chosen    []bool
	Cursor    int
	Height    int
	Offset    int
	Confirmed bool
}

// NewTypePickerModel creates a picker over the visible types of m.
func NewTypePickerModel(m *cdio.Manifest) TypePickerModel {
	var types []cdio.TypeSpec
	for _, t := range m.Types {
		if !t.Hidden {
			types = append(types, t)
		}
	}
	chosen := make([]bool, len(types))
	for i := range chosen {
		chosen[i] = true
	}
	return TypePickerModel{Types: types, Chosen: chosen, Height: 15}
}

// Selected returns the names of the chosen types in manifest order.
func (m TypePickerModel) Selected() []string {
	var names []string
	for i, t := range m.Types {
		if m.Chosen[i] {
			names = append(names, t.Name)
		}
	}
	return names
}

func (m TypePickerModel) Init() tea.Cmd {
	return nil
}

func (m TypePickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Types)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "x":
			if len(m.Types) > 0 {
				m.Chosen[m.Cursor] = !m.Chosen[m.Cursor]
			}
		case "a":
			all := !allChosen(m.Chosen)
			for i := range m.Chosen {
				m.Chosen[i] = all
			}
		case "enter":
			if len(m.Selected()) == 0 {
				return m, nil
			}
			m.Confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m TypePickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Types"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ render  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Types))
	for i := m.Offset; i < end; i++ {
		t := m.Types[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		box := "[ ]"
		if m.Chosen[i] {
			box = StyleSuccess.Render("[x]")
		}

		detail := fmt.Sprintf("%d attrs, %d methods", len(t.Attributes), len(t.Behaviors))
		if t.Extends != "" {
			detail = "extends " + t.Extends + ", " + detail
		}
		line := fmt.Sprintf("%s%s %-30s  %s", cursor, box, t.Name, listDimStyle.Render(detail))

		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case !m.Chosen[i]:
			b.WriteString(listDimStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d of %d selected", len(m.Selected()), len(m.Types))))
	return b.String()
}

func allChosen(chosen []bool) bool {
	for _, c := range chosen {
		if !c {
			return false
		}
	}
	return true
}

// pickTypes runs the picker and returns the chosen names, or nil when the
// user quit without confirming.
func pickTypes(m *cdio.Manifest) ([]string, error) {
	final, err := tea.NewProgram(NewTypePickerModel(m)).Run()
	if err != nil {
		return nil, fmt.Errorf("type picker: %w", err)
	}
	picker := final.(TypePickerModel)
	if !picker.Confirmed {
		return nil, nil
	}
	return picker.Selected(), nil
}
