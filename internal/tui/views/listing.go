package views

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rendis/hotelrank/internal/engine/export"
	"github.com/rendis/hotelrank/internal/engine/geo"
	"github.com/rendis/hotelrank/internal/engine/listing"
	"github.com/rendis/hotelrank/internal/model"
	"github.com/rendis/hotelrank/internal/tui/styles"
)

// nearEndRows is how close to the last row the cursor must get before
// the next page is requested.
const nearEndRows = 3

const toastTTL = 4 * time.Second

type focusArea int

const (
	focusTable focusArea = iota
	focusQuery
)

// ListingModel shows the hotel table for one destination with its
// filter chips, sort and incremental loading.
type ListingModel struct {
	session   *ListingSession
	initSort  model.SortKey
	snap      listing.Snapshot
	center    model.Destination
	table     table.Model
	query     textinput.Model
	spinner   spinner.Model
	focus     focusArea
	width     int
	height    int
	toast     string
	toastSeq  int
	exportMsg string
}

type storeChangedMsg struct{}

type noticeMsg struct{ text string }

type toastExpiredMsg struct{ seq int }

type initialLoadedMsg struct{ err error }

type centerResolvedMsg struct{ dest model.Destination }

type exportDoneMsg struct {
	path string
	rows int
	err  error
}

func NewListingModel(session *ListingSession, sort model.SortKey) ListingModel {
	q := textinput.New()
	q.Placeholder = "Type to filter..."
	q.CharLimit = 50

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	m := ListingModel{
		session:  session,
		initSort: sort,
		query:    q,
		spinner:  sp,
		snap:     session.Store.Snapshot(),
	}
	m.buildTable()
	return m
}

func (m ListingModel) Init() tea.Cmd {
	if m.initSort != "" {
		m.session.Store.SetSort(m.initSort)
	}
	return tea.Batch(
		m.loadInitial(),
		m.waitForStore(),
		m.spinner.Tick,
	)
}

func (m ListingModel) loadInitial() tea.Cmd {
	s := m.session
	return func() tea.Msg {
		return initialLoadedMsg{err: s.Store.LoadInitial(s.Context())}
	}
}

// waitForStore blocks until the store reports a change or a notification.
func (m ListingModel) waitForStore() tea.Cmd {
	s := m.session
	return func() tea.Msg {
		select {
		case <-s.ctx.Done():
			return nil
		case <-s.changed:
			return storeChangedMsg{}
		case text := <-s.notes:
			return noticeMsg{text: text}
		}
	}
}

func (m ListingModel) resolveCenter() tea.Cmd {
	s := m.session
	return func() tea.Msg {
		d, err := s.Loader.Destination(s.Context())
		if err != nil {
			return nil
		}
		return centerResolvedMsg{dest: d}
	}
}

func (m ListingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.buildTable()
		return m, nil

	case storeChangedMsg:
		m.refresh()
		return m, m.waitForStore()

	case noticeMsg:
		m.toast = msg.text
		m.toastSeq++
		seq := m.toastSeq
		return m, tea.Batch(
			m.waitForStore(),
			tea.Tick(toastTTL, func(time.Time) tea.Msg { return toastExpiredMsg{seq: seq} }),
		)

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil

	case initialLoadedMsg:
		m.refresh()
		if msg.err != nil {
			return m, nil
		}
		return m, m.resolveCenter()

	case centerResolvedMsg:
		m.center = msg.dest
		m.buildTable()
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.exportMsg = fmt.Sprintf("Export error: %v", msg.err)
		} else {
			m.exportMsg = fmt.Sprintf("Exported %d rows to %s", msg.rows, msg.path)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.focus == focusQuery {
			switch msg.String() {
			case "esc", "enter", "tab":
				m.focus = focusTable
				m.query.Blur()
				return m, nil
			}
			var cmd tea.Cmd
			m.query, cmd = m.query.Update(msg)
			m.session.Store.SetQuery(m.query.Value())
			m.refresh()
			return m, cmd
		}

		store := m.session.Store
		switch msg.String() {
		case "esc", "q":
			m.session.Close()
			return m, func() tea.Msg { return NavigateToHome{} }
		case "/", "tab":
			m.focus = focusQuery
			m.query.Focus()
			return m, textinput.Blink
		case "b":
			store.SetBrandFilter(cycle(m.snap.Facets.Brands, m.snap.Filter.Brand))
			m.refresh()
			return m, nil
		case "c":
			store.SetCityFilter(cycle(m.snap.Facets.Cities, m.snap.Filter.City))
			m.refresh()
			return m, nil
		case "s":
			store.SetSort(m.snap.Filter.Sort.Next())
			m.refresh()
			return m, nil
		case "S":
			store.SetSort(m.snap.Filter.Sort.Prev())
			m.refresh()
			return m, nil
		case "x":
			store.SetBrandFilter("")
			store.SetCityFilter("")
			store.SetQuery("")
			m.query.SetValue("")
			m.refresh()
			return m, nil
		case "d", "delete":
			if it, ok := m.selectedItem(); ok {
				store.Remove(it.ID)
				m.refresh()
			}
			return m, nil
		case "enter":
			if it, ok := m.selectedItem(); ok {
				center := m.center
				return m, func() tea.Msg { return OpenDetail{Item: it, Center: center} }
			}
			return m, nil
		case "m":
			m.session.RequestMore()
			return m, nil
		case "r":
			return m, m.loadInitial()
		case "e":
			return m, m.exportCSV()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	m.checkNearEnd()
	return m, cmd
}

// refresh pulls a fresh snapshot into the table.
func (m *ListingModel) refresh() {
	m.snap = m.session.Store.Snapshot()
	m.table.SetRows(m.rows())
	m.clampCursor()
}

// clampCursor keeps the table cursor on a row. SetRows on an empty table
// leaves it at -1 and nothing moves it once rows arrive.
func (m *ListingModel) clampCursor() {
	n := len(m.snap.View)
	if n == 0 {
		return
	}
	switch c := m.table.Cursor(); {
	case c < 0:
		m.table.SetCursor(0)
	case c >= n:
		m.table.SetCursor(n - 1)
	}
}

func (m *ListingModel) checkNearEnd() {
	n := len(m.snap.View)
	if n == 0 || m.snap.Loading || m.snap.FetchingMore || m.snap.Exhausted {
		return
	}
	if m.table.Cursor() >= n-nearEndRows {
		m.session.RequestMore()
	}
}

func (m ListingModel) selectedItem() (model.ListingItem, bool) {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.snap.View) {
		return model.ListingItem{}, false
	}
	return m.snap.View[c], true
}

// cycle steps through values and back to "" (no filter).
func cycle(values []string, current string) string {
	if len(values) == 0 {
		return ""
	}
	i := slices.Index(values, current)
	if i == len(values)-1 {
		return ""
	}
	return values[i+1]
}

func (m ListingModel) exportCSV() tea.Cmd {
	items := slices.Clone(m.snap.View)
	dir := m.session.ExportDir
	dest := m.session.Destination
	center := m.center
	return func() tea.Msg {
		path, err := export.WriteFile(dir, dest, items, center)
		return exportDoneMsg{path: path, rows: len(items), err: err}
	}
}

func (m *ListingModel) buildTable() {
	nameW, brandW, cityW := 32, 16, 14
	if m.width > 110 {
		extra := m.width - 110
		nameW += extra * 5 / 10
		brandW += extra * 2 / 10
		cityW += extra * 3 / 10
	}

	columns := []table.Column{
		{Title: "Name", Width: nameW},
		{Title: "Brand", Width: brandW},
		{Title: "City", Width: cityW},
		{Title: "Score", Width: 5},
		{Title: "Price", Width: 12},
		{Title: "Distance", Width: 9},
	}

	height := m.height - 12
	if height < 5 {
		height = 5
	}

	cursor := m.table.Cursor()
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)
	t.SetStyles(tableStyles())
	m.table = t
	m.table.SetRows(m.rows())
	if cursor > 0 && cursor < len(m.snap.View) {
		m.table.SetCursor(cursor)
	}
	m.clampCursor()
}

func (m ListingModel) rows() []table.Row {
	cols := m.table.Columns()
	width := func(i int) int {
		if i < len(cols) {
			return cols[i].Width
		}
		return 20
	}

	rows := make([]table.Row, len(m.snap.View))
	for i, it := range m.snap.View {
		score := ""
		if it.ReviewScore > 0 {
			score = fmt.Sprintf("%.1f", it.ReviewScore)
		}
		distance := ""
		if m.center.HasCoords() && it.HasCoords() {
			distance = geo.FormatDistance(geo.DistanceKm(m.center.Point(), it.Point()))
		}
		rows[i] = table.Row{
			truncate(it.Name, width(0)),
			truncate(it.Brand, width(1)),
			truncate(it.City, width(2)),
			score,
			formatPrice(it.MinPrice),
			distance,
		}
	}
	return rows
}

func formatPrice(p float64) string {
	if p <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f %s", p, model.DefaultStayQuery().Currency)
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Muted).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Secondary)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(styles.Primary).
		Bold(true)
	return s
}

func (m ListingModel) View() string {
	var b strings.Builder

	title := fmt.Sprintf("Hotels in %s", m.session.Destination)
	if m.center.Label != "" {
		title = fmt.Sprintf("Hotels in %s", m.center.Label)
	}
	b.WriteString(styles.Title.Render(title))
	b.WriteString(lipgloss.NewStyle().Foreground(styles.Muted).
		Render(fmt.Sprintf("  %d loaded", m.snap.Total)))
	if len(m.snap.View) != m.snap.Total {
		b.WriteString(lipgloss.NewStyle().Foreground(styles.Muted).
			Render(fmt.Sprintf(", showing %d", len(m.snap.View))))
	}
	b.WriteString("\n")

	b.WriteString(m.renderChips())
	b.WriteString("\n")

	queryStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	if m.focus == focusQuery {
		queryStyle = lipgloss.NewStyle().Foreground(styles.Primary)
	}
	b.WriteString(queryStyle.Render("Filter: "))
	b.WriteString(m.query.View())
	b.WriteString("\n")

	switch {
	case m.snap.Loading:
		b.WriteString("\n" + m.spinner.View() + " Loading hotels...\n")
	case m.snap.Total == 0:
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(styles.Muted).Italic(true).
			Render("No hotels loaded. Press r to retry.") + "\n")
	default:
		b.WriteString(m.table.View())
		b.WriteString("\n")
		switch {
		case m.snap.FetchingMore:
			b.WriteString(m.spinner.View() + " Loading more...\n")
		case m.snap.Exhausted:
			b.WriteString(lipgloss.NewStyle().Foreground(styles.Muted).Render("End of results") + "\n")
		}
	}

	if m.toast != "" {
		b.WriteString("\n" + styles.Toast.Render(m.toast) + "\n")
	}
	if m.exportMsg != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(styles.Success).Render(m.exportMsg))
		b.WriteString("\n")
	}

	var status string
	switch m.focus {
	case focusTable:
		status = "↑↓ navigate • enter details • b brand • c city • s sort • / filter • x clear • d remove • m more • e export • esc back"
	case focusQuery:
		status = "type to filter • esc back"
	}
	b.WriteString(styles.StatusBar.Render(status))

	return b.String()
}

func (m ListingModel) renderChips() string {
	f := m.snap.Filter
	chip := func(label, value string) string {
		if value == "" {
			value = "any"
		}
		return styles.Chip.Render(label + ": " + value)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		chip("Brand", f.Brand), " ",
		chip("City", f.City), " ",
		chip("Sort", f.Sort.Label()),
	)
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

// IsListingMsg reports whether msg belongs to a listing model, so the app
// can keep feeding it while another view is on screen.
func IsListingMsg(msg tea.Msg) bool {
	switch msg.(type) {
	case storeChangedMsg, noticeMsg, toastExpiredMsg, initialLoadedMsg,
		centerResolvedMsg, exportDoneMsg, spinner.TickMsg:
		return true
	}
	return false
}

// OpenDetail asks the app to show the detail page of a hotel.
type OpenDetail struct {
	Item   model.ListingItem
	Center model.Destination
}
