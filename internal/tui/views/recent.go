package views

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rendis/hotelrank/internal/model"
	"github.com/rendis/hotelrank/internal/tui/styles"
)

// RecentEntry is a destination searched in an earlier session.
type RecentEntry struct {
	Name       string
	SearchedAt time.Time
}

// RecentModel lists recent destinations; enter reruns the search.
type RecentModel struct {
	entries []RecentEntry
	table   table.Model
	err     error
	now     func() time.Time
}

func NewRecentModel(entries []RecentEntry, err error) RecentModel {
	m := RecentModel{entries: entries, err: err, now: time.Now}
	m.table = table.New(
		table.WithColumns([]table.Column{
			{Title: "Destination", Width: 32},
			{Title: "Searched", Width: 10},
		}),
		table.WithRows(m.rows()),
		table.WithFocused(true),
		table.WithHeight(min(max(len(entries), 1), 10)+1),
	)
	m.table.SetStyles(tableStyles())
	return m
}

func (m RecentModel) rows() []table.Row {
	rows := make([]table.Row, len(m.entries))
	for i, e := range m.entries {
		rows[i] = table.Row{e.Name, timeAgo(m.now().Sub(e.SearchedAt))}
	}
	return rows
}

func (m RecentModel) Init() tea.Cmd {
	return nil
}

func (m RecentModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc", "q":
			return m, func() tea.Msg { return NavigateToHome{} }
		case "n":
			return m, func() tea.Msg { return NavigateToDestination{} }
		case "enter":
			i := m.table.Cursor()
			if i < 0 || i >= len(m.entries) {
				return m, nil
			}
			dest := m.entries[i].Name
			return m, func() tea.Msg {
				return OpenListing{Destination: dest, Sort: model.SortPopularity}
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m RecentModel) View() string {
	body := styles.Title.Render("Search again") + "\n"

	switch {
	case m.err != nil:
		body += styles.ErrorText.Render(fmt.Sprintf("History unavailable: %v", m.err))
	case len(m.entries) == 0:
		body += lipgloss.NewStyle().Foreground(styles.Muted).Italic(true).
			Render("Nothing searched yet. Press n to pick a destination.")
	default:
		body += m.table.View()
	}

	body += "\n" + styles.StatusBar.Render("enter search • n new destination • esc home")
	return styles.Border.Render(body)
}

// timeAgo renders an elapsed duration in the coarsest unit that fits.
func timeAgo(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%d min", int(d.Minutes()))
	case d < 48*time.Hour:
		return fmt.Sprintf("%d h", int(d.Hours()))
	default:
		return fmt.Sprintf("%d days", int(d.Hours()/24))
	}
}

// NavigateToRecent opens the recent destinations view.
type NavigateToRecent struct{}
