// Package tui provides the interactive mapping editor using Bubble Tea.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/HBPMedical/mip-dmp/internal/mapping"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginLeft(2)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

// View represents the current view mode
type View int

const (
	ViewEntries View = iota
	ViewPicker
	ViewProblems
	ViewHelp
)

// Model is the editor TUI model
type Model struct {
	sess *Session

	view     View
	cursor   int
	input    textinput.Model
	pickIdx  int
	picks    []string // filtered CDE codes for the picker
	problems []error
	status   string
	width    int
	height   int
	quitting bool
}

// New creates the editor model for a session.
func New(sess *Session) Model {
	ti := textinput.New()
	ti.Placeholder = "Filter CDEs..."
	ti.CharLimit = 80
	ti.Width = 40

	return Model{sess: sess, input: ti}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ViewPicker:
			return m.updatePicker(msg)
		case ViewProblems, ViewHelp:
			m.view = ViewEntries
			return m, nil
		default:
			return m.updateEntries(msg)
		}
	}
	return m, nil
}

func (m Model) updateEntries(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := m.sess.Model.Entries()

	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit

	case "?":
		m.view = ViewHelp

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(entries)-1 {
			m.cursor++
		}

	case "enter":
		if len(entries) > 0 {
			m.view = ViewPicker
			m.input.SetValue("")
			m.input.Focus()
			m.pickIdx = 0
			m.picks = m.filterCDEs("")
		}

	case "c":
		if len(entries) > 0 {
			if err := m.sess.CycleCandidate(entries[m.cursor].SourceColumn); err != nil {
				m.status = err.Error()
			} else {
				m.status = ""
			}
		}

	case "u":
		if len(entries) > 0 {
			if err := m.sess.ToggleUnmapped(entries[m.cursor].SourceColumn); err != nil {
				m.status = err.Error()
			}
		}

	case "v":
		m.problems = m.sess.Validate()
		m.view = ViewProblems

	case "s":
		if err := m.sess.Save(); err != nil {
			m.status = errorStyle.Render(err.Error())
		} else {
			m.status = fmt.Sprintf("saved %s", m.sess.MappingPath)
		}

	case "a":
		if problems := m.sess.Validate(); len(problems) > 0 {
			m.problems = problems
			m.view = ViewProblems
			break
		}
		sum, err := m.sess.Apply(0)
		if err != nil {
			m.status = errorStyle.Render(err.Error())
			break
		}
		m.status = fmt.Sprintf("run %s: %d mapped, %d partial, %d skipped, %d failed cells",
			sum.RunID, sum.Succeeded, sum.Partial, sum.Skipped, sum.CellFailures)
	}

	return m, nil
}

func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view = ViewEntries
		m.input.Blur()
		return m, nil

	case "up":
		if m.pickIdx > 0 {
			m.pickIdx--
		}
		return m, nil

	case "down":
		if m.pickIdx < len(m.picks)-1 {
			m.pickIdx++
		}
		return m, nil

	case "enter":
		entries := m.sess.Model.Entries()
		if m.pickIdx < len(m.picks) && m.cursor < len(entries) {
			source := entries[m.cursor].SourceColumn
			if err := m.sess.Retarget(source, m.picks[m.pickIdx]); err != nil {
				m.status = errorStyle.Render(err.Error())
			} else {
				m.status = fmt.Sprintf("%s → %s", source, m.picks[m.pickIdx])
			}
		}
		m.view = ViewEntries
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.picks = m.filterCDEs(m.input.Value())
	if m.pickIdx >= len(m.picks) {
		m.pickIdx = 0
	}
	return m, cmd
}

// filterCDEs returns CDE codes matching the query, by fuzzy rank over
// "code label" haystacks. An empty query keeps schema order.
func (m Model) filterCDEs(query string) []string {
	cdes := m.sess.Schema.CDEs()
	if strings.TrimSpace(query) == "" {
		codes := make([]string, len(cdes))
		for i := range cdes {
			codes[i] = cdes[i].Code
		}
		return codes
	}

	haystack := make([]string, len(cdes))
	for i := range cdes {
		haystack[i] = cdes[i].Code + " " + cdes[i].Label
	}
	ranked := fuzzy.Find(query, haystack)
	codes := make([]string, len(ranked))
	for i, r := range ranked {
		codes[i] = cdes[r.Index].Code
	}
	return codes
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	switch m.view {
	case ViewPicker:
		return m.viewPicker()
	case ViewProblems:
		return m.viewProblems()
	case ViewHelp:
		return m.viewHelp()
	}
	return m.viewEntries()
}

func (m Model) viewEntries() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Dataset Mapper"))
	sb.WriteString("\n\n")

	for i, e := range m.sess.Model.Entries() {
		line := formatEntry(e)
		if i == m.cursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		sb.WriteString(line + "\n")
	}

	if m.status != "" {
		sb.WriteString("\n" + infoStyle.Render(m.status) + "\n")
	}
	sb.WriteString(helpStyle.Render(
		"↑/↓ select · enter pick CDE · c cycle candidate · u unmap · v validate · s save · a apply · q quit"))
	return sb.String()
}

func formatEntry(e mapping.Entry) string {
	if e.Skipped() {
		return fmt.Sprintf("%-20s → (unmapped)", e.SourceColumn)
	}
	return fmt.Sprintf("%-20s → %-20s [%s]", e.SourceColumn, e.TargetCDE, e.Transform)
}

func (m Model) viewPicker() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Pick target CDE"))
	sb.WriteString("\n\n" + m.input.View() + "\n\n")

	shown := m.picks
	if len(shown) > 10 {
		shown = shown[:10]
	}
	for i, code := range shown {
		if i == m.pickIdx {
			sb.WriteString(selectedStyle.Render("> "+code) + "\n")
		} else {
			sb.WriteString("  " + code + "\n")
		}
	}
	sb.WriteString(helpStyle.Render("↑/↓ select · enter accept · esc cancel"))
	return boxStyle.Render(sb.String())
}

func (m Model) viewProblems() string {
	var sb strings.Builder
	if len(m.problems) == 0 {
		sb.WriteString(selectedStyle.Render("✓ mapping is valid"))
	} else {
		sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %d problem(s)", len(m.problems))))
		sb.WriteString("\n\n")
		for _, p := range m.problems {
			sb.WriteString("  " + p.Error() + "\n")
		}
	}
	sb.WriteString("\n" + helpStyle.Render("any key to return"))
	return boxStyle.Render(sb.String())
}

func (m Model) viewHelp() string {
	help := `Keys:
  ↑/↓, j/k   move between entries
  enter      pick the target CDE for the entry
  c          cycle through ranked candidates
  u          toggle unmapped
  v          validate the mapping
  s          save the mapping file
  a          validate, apply and write the output dataset
  q          quit`
	return boxStyle.Render(help + "\n" + helpStyle.Render("any key to return"))
}

// Run starts the editor for a session.
func Run(sess *Session) error {
	p := tea.NewProgram(New(sess), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
