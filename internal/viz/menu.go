package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/sim"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

var presetInfo = map[string]string{
	"default":    "five particles, capacity 100",
	"demo":       "short chain, loose springs",
	"stiff":      "stiff springs, rk4",
	"rope":       "thirty light particles",
	"ring":       "closed loop of twelve",
	"rain":       "scripted drops from above",
	"weightless": "no gravity",
}

// menu picks a preset and hands over to the live Model.
type menu struct {
	presets []string
	cursor  int
	err     error
}

func NewMenu() tea.Model {
	return menu{presets: config.ListPresets()}
}

// RunInteractive shows the preset menu, then the live view.
func RunInteractive() error {
	_, err := tea.NewProgram(NewMenu(), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}

func (m menu) Init() tea.Cmd { return nil }

func (m menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		name := m.presets[m.cursor]
		s, err := sim.New(config.GetPreset(name).Simulation())
		if err != nil {
			m.err = err
			return m, nil
		}
		live := NewModel(s, name)
		return live, live.Init()
	}
	return m, nil
}

func (m menu) View() string {
	var b strings.Builder
	b.WriteString("\n  " + cyan.Render("springsim") + dim.Render("  mass-spring chain") + "\n\n")

	for i, name := range m.presets {
		cursor, style := "  ", dim
		if i == m.cursor {
			cursor, style = yellow.Render("▸ "), white
		}
		b.WriteString(fmt.Sprintf("  %s%s  %s\n", cursor, style.Render(fmt.Sprintf("%-12s", name)), dim.Render(presetInfo[name])))
	}

	if m.err != nil {
		b.WriteString("\n  " + red.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n  " + dim.Render("↑↓ select  enter start  q quit") + "\n")
	return b.String()
}
