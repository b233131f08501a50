package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rendis/hotelrank/internal/engine/textfold"
	"github.com/rendis/hotelrank/internal/model"
	"github.com/rendis/hotelrank/internal/tui/styles"
)

const (
	fieldDestination = iota
	fieldSort
	fieldCount
)

// DestinationModel asks for the destination name and the initial sort.
// Recent destinations are offered as suggestions while typing.
type DestinationModel struct {
	input       textinput.Model
	sort        model.SortKey
	focused     int
	err         string
	recent      []string
	suggestions []string
	suggIdx     int
	stay        model.StayQuery
}

func NewDestinationModel(defaultName string, recent []string) DestinationModel {
	in := textinput.New()
	in.Placeholder = "New York"
	in.CharLimit = 100
	in.Width = 40
	in.SetValue(defaultName)
	in.Focus()

	return DestinationModel{
		input:   in,
		sort:    model.SortPopularity,
		recent:  recent,
		suggIdx: -1,
		stay:    model.DefaultStayQuery(),
	}
}

func (m DestinationModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m DestinationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return NavigateToHome{} }

		case "up":
			if m.focused == fieldDestination && m.suggIdx > 0 {
				m.suggIdx--
				return m, nil
			}
			return m, m.setFocus(fieldDestination)

		case "down":
			if m.focused == fieldDestination && m.suggIdx < len(m.suggestions)-1 {
				m.suggIdx++
				return m, nil
			}
			return m, m.setFocus(fieldSort)

		case "tab", "shift+tab":
			if m.focused == fieldDestination && len(m.suggestions) > 0 {
				m.selectSuggestion()
			}
			return m, m.setFocus((m.focused + 1) % fieldCount)

		case "left":
			if m.focused == fieldSort {
				m.sort = m.sort.Prev()
				return m, nil
			}

		case "right":
			if m.focused == fieldSort {
				m.sort = m.sort.Next()
				return m, nil
			}

		case "enter":
			if m.focused == fieldDestination && len(m.suggestions) > 0 {
				m.selectSuggestion()
				return m, nil
			}
			return m, m.submit()
		}
	}

	var cmd tea.Cmd
	if m.focused == fieldDestination {
		m.input, cmd = m.input.Update(msg)
		m.updateSuggestions()
	}
	return m, cmd
}

func (m *DestinationModel) setFocus(field int) tea.Cmd {
	m.err = ""
	m.focused = field
	if field == fieldDestination {
		m.input.Focus()
		return textinput.Blink
	}
	m.input.Blur()
	m.suggestions = nil
	m.suggIdx = -1
	return nil
}

func (m *DestinationModel) selectSuggestion() {
	if m.suggIdx >= 0 && m.suggIdx < len(m.suggestions) {
		m.input.SetValue(m.suggestions[m.suggIdx])
		m.input.CursorEnd()
	}
	m.suggestions = nil
	m.suggIdx = -1
}

func (m *DestinationModel) updateSuggestions() {
	raw := strings.TrimSpace(m.input.Value())
	if raw == "" {
		m.suggestions = nil
		m.suggIdx = -1
		return
	}

	words := textfold.Words(raw)
	var matches []string
	for _, name := range m.recent {
		if textfold.Normalize(name) == textfold.Normalize(raw) {
			continue
		}
		if textfold.ContainsAll(name, words) {
			matches = append(matches, name)
			if len(matches) >= 5 {
				break
			}
		}
	}
	m.suggestions = matches
	switch {
	case len(matches) == 0:
		m.suggIdx = -1
	case m.suggIdx < 0 || m.suggIdx >= len(matches):
		m.suggIdx = 0
	}
}

func (m *DestinationModel) submit() tea.Cmd {
	name := strings.TrimSpace(m.input.Value())
	if name == "" {
		m.err = "Destination is required"
		return nil
	}
	sort := m.sort
	return func() tea.Msg {
		return OpenListing{Destination: name, Sort: sort}
	}
}

func (m DestinationModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("New Search") + "\n\n")

	b.WriteString(fmt.Sprintf("%s %s\n", styles.Label.Render("Destination:"), m.input.View()))
	if m.focused == fieldDestination && len(m.suggestions) > 0 {
		b.WriteString(m.renderSuggestions())
	}
	b.WriteString(m.renderSort())

	muted := lipgloss.NewStyle().Foreground(styles.Muted).Italic(true)
	b.WriteString("\n")
	b.WriteString(muted.Render(fmt.Sprintf("  %s → %s · %d adults, %d children · %d room · %s",
		m.stay.CheckIn, m.stay.CheckOut, m.stay.Adults, m.stay.Children, m.stay.Rooms, m.stay.Currency)))
	b.WriteString("\n")

	if m.err != "" {
		b.WriteString("\n")
		b.WriteString(styles.ErrorText.Render("  " + m.err))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.StatusBar.Render("enter search • tab next • ←→ sort • esc back"))

	return styles.Border.Render(b.String())
}

func (m DestinationModel) renderSuggestions() string {
	var sb strings.Builder
	active := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	inactive := lipgloss.NewStyle().Foreground(styles.Muted)

	for i, name := range m.suggestions {
		if i == m.suggIdx {
			sb.WriteString(active.Render("  > " + name))
		} else {
			sb.WriteString(inactive.Render("    " + name))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m DestinationModel) renderSort() string {
	label := styles.Label.Render("Sort by:")
	value := lipgloss.NewStyle().Foreground(styles.Muted).Render(m.sort.Label())
	line := fmt.Sprintf("%s %s", label, value)
	if m.focused == fieldSort {
		value = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).Render("< " + m.sort.Label() + " >")
		line = fmt.Sprintf("%s %s", label, value)
	}
	return line + "\n"
}

// OpenListing starts a listing session for a destination.
type OpenListing struct {
	Destination string
	Sort        model.SortKey
}
