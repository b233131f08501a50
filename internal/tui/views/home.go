package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rendis/hotelrank/internal/tui/styles"
)

// homeAction is one entry of the start screen. A nil emit quits.
type homeAction struct {
	key   string
	title string
	hint  string
	emit  func() tea.Msg
}

// HomeModel is the start screen.
type HomeModel struct {
	actions     []homeAction
	selected    int
	version     string
	destination string
}

func NewHomeModel(version, defaultDestination string) HomeModel {
	return HomeModel{
		version:     version,
		destination: defaultDestination,
		actions: []homeAction{
			{key: "n", title: "Find hotels", hint: "choose a city and a ranking",
				emit: func() tea.Msg { return NavigateToDestination{} }},
			{key: "r", title: "Search again", hint: "pick one of your last destinations",
				emit: func() tea.Msg { return NavigateToRecent{} }},
			{key: "q", title: "Exit"},
		},
	}
}

func (m HomeModel) Init() tea.Cmd {
	return nil
}

func (m HomeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch k := key.String(); k {
	case "up", "k", "shift+tab":
		m.selected = (m.selected + len(m.actions) - 1) % len(m.actions)
	case "down", "j", "tab":
		m.selected = (m.selected + 1) % len(m.actions)
	case "enter":
		return m, m.run(m.selected)
	default:
		for i, a := range m.actions {
			if a.key == k {
				m.selected = i
				return m, m.run(i)
			}
		}
	}
	return m, nil
}

func (m HomeModel) run(i int) tea.Cmd {
	if m.actions[i].emit == nil {
		return tea.Quit
	}
	return m.actions[i].emit
}

func (m HomeModel) View() string {
	var b strings.Builder

	name := lipgloss.NewStyle().Bold(true).Foreground(styles.Primary).Render("hotelrank")
	ver := lipgloss.NewStyle().Foreground(styles.Muted).Render(m.version)
	b.WriteString(name + " " + ver + "\n")
	if m.destination != "" {
		b.WriteString(styles.Label.Render("Default") + styles.Value.Render(m.destination) + "\n")
	}
	b.WriteString("\n")

	hint := lipgloss.NewStyle().Foreground(styles.Muted)
	for i, a := range m.actions {
		title := styles.InactiveItem.Render(a.title)
		marker := " "
		if i == m.selected {
			title = styles.ActiveItem.Render(a.title)
			marker = lipgloss.NewStyle().Foreground(styles.Primary).Render("▌")
		}
		line := fmt.Sprintf("%s %s  %s", marker, styles.Subtitle.Render(a.key), title)
		if a.hint != "" {
			line += "  " + hint.Render(a.hint)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString(styles.StatusBar.Render("tab/↑↓ move • enter or shortcut key to open"))
	return styles.Border.Render(b.String())
}

// NavigateToHome returns to the start screen and ends the open listing.
type NavigateToHome struct{}

// NavigateToDestination opens the destination form.
type NavigateToDestination struct{}
