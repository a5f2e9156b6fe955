// Browse command: interactive TUI for walking a shape's type graph.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wirelayer/abiguard/shape"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	fieldStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98"))
	typeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")).Bold(true)
	suffixStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

var browseCmd = &cobra.Command{
	Use:   "browse <artifact>",
	Short: "Walk an artifact's type graph interactively",
	Long: `Browse opens a terminal UI on the artifact's shape. Starting at the
root type, enter descends into the selected field's type and esc walks
back up; / filters the current type's fields by name.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return fmt.Errorf("browse needs a terminal; use inspect for plain output")
		}

		art, err := resolveArtifact(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		p := tea.NewProgram(newBrowseModel(art), tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

type browseState int

const (
	stateList browseState = iota
	stateFilter
)

// entry is one selectable row: a field or a variant of the current type.
type entry struct {
	label  string
	detail string
	// target is the type index entered by this row, -1 for leaf rows.
	target int
	suffix bool
}

// crumb is one level of the navigation stack.
type crumb struct {
	typeIdx int
	cursor  int
}

type browseModel struct {
	title string
	doc   *shape.Document

	state  browseState
	stack  []crumb
	filter textinput.Model
}

func newBrowseModel(art *artifact) *browseModel {
	ti := textinput.New()
	ti.Prompt = "filter: "
	ti.Width = 40

	return &browseModel{
		title:  art.title(),
		doc:    art.Doc,
		stack:  []crumb{{typeIdx: art.Doc.Root}},
		filter: ti,
	}
}

func (m *browseModel) Init() tea.Cmd { return nil }

func (m *browseModel) current() *crumb { return &m.stack[len(m.stack)-1] }

// entries lists the selectable rows of the current type, filtered by the
// active filter text.
func (m *browseModel) entries() []entry {
	t := m.doc.Types[m.current().typeIdx]
	needle := strings.ToLower(m.filter.Value())

	var rows []entry
	for i, f := range t.Fields {
		if needle != "" && !strings.Contains(strings.ToLower(f.Name), needle) {
			continue
		}
		rows = append(rows, entry{
			label:  f.Name,
			detail: typeRefName(m.doc, f.Type),
			target: f.Type,
			suffix: t.SuffixFrom != nil && i >= *t.SuffixFrom,
		})
	}
	for _, v := range t.Variants {
		if needle != "" && !strings.Contains(strings.ToLower(v.Name), needle) {
			continue
		}
		target := -1
		detail := fmt.Sprintf("= %d", v.Discriminant)
		if len(v.Fields) == 1 {
			target = v.Fields[0].Type
			detail += "  " + typeRefName(m.doc, v.Fields[0].Type)
		}
		rows = append(rows, entry{label: v.Name, detail: detail, target: target})
	}
	return rows
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.state == stateFilter {
		switch key.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "enter", "esc":
			if key.String() == "esc" {
				m.filter.SetValue("")
			}
			m.filter.Blur()
			m.state = stateList
			m.current().cursor = 0
			return m, nil
		default:
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			m.current().cursor = 0
			return m, cmd
		}
	}

	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if c := m.current(); c.cursor > 0 {
			c.cursor--
		}

	case "down", "j":
		if c := m.current(); c.cursor < len(m.entries())-1 {
			c.cursor++
		}

	case "enter":
		rows := m.entries()
		c := m.current()
		if c.cursor < len(rows) && rows[c.cursor].target >= 0 {
			m.filter.SetValue("")
			m.stack = append(m.stack, crumb{typeIdx: rows[c.cursor].target})
		}

	case "esc", "backspace":
		if len(m.stack) > 1 {
			m.filter.SetValue("")
			m.stack = m.stack[:len(m.stack)-1]
		}

	case "/":
		m.state = stateFilter
		m.filter.Focus()
	}

	return m, nil
}

func (m *browseModel) View() string {
	t := m.doc.Types[m.current().typeIdx]

	var b strings.Builder
	b.WriteString(titleStyle.Render("abiguard browse"))
	b.WriteString(" ")
	b.WriteString(m.title)
	b.WriteString("\n\n")
	b.WriteString(m.breadcrumbs())
	b.WriteString("\n")
	b.WriteString(typeStyle.Render(typeHeadline(t)))
	b.WriteString("\n\n")

	rows := m.entries()
	if len(rows) == 0 {
		b.WriteString(helpStyle.Render("(no fields)"))
		b.WriteString("\n")
	}
	for i, row := range rows {
		line := fieldStyle.Render(row.label) + ": " + typeStyle.Render(row.detail)
		if row.suffix {
			line += " " + suffixStyle.Render("(suffix)")
		}
		if i == m.current().cursor {
			b.WriteString(selectedStyle.Render("> "))
			b.WriteString(line)
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.state == stateFilter {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter apply • esc clear"))
	} else {
		help := "↑/↓ select • enter descend • / filter • q quit"
		if len(m.stack) > 1 {
			help = "↑/↓ select • enter descend • esc back • / filter • q quit"
		}
		if m.filter.Value() != "" {
			help = "filter: " + m.filter.Value() + " • " + help
		}
		b.WriteString(helpStyle.Render(help))
	}
	return b.String()
}

func (m *browseModel) breadcrumbs() string {
	parts := make([]string, len(m.stack))
	for i, c := range m.stack {
		name := m.doc.Types[c.typeIdx].Name
		if name == "" {
			name = typeRefName(m.doc, c.typeIdx)
		}
		parts[i] = name
	}
	return helpStyle.Render(strings.Join(parts, " > "))
}
