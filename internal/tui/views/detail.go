package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/paulmach/orb"

	"github.com/rendis/hotelrank/internal/engine/geo"
	"github.com/rendis/hotelrank/internal/model"
	"github.com/rendis/hotelrank/internal/tui/components"
	"github.com/rendis/hotelrank/internal/tui/styles"
)

// DetailModel is the hotel page: facts and description on the left, a
// map with the hotel and the destination centre on the right.
type DetailModel struct {
	item     model.ListingItem
	center   model.Destination
	fetcher  DetailFetcher
	ctx      context.Context
	detail   *model.HotelDetail
	err      error
	spinner  spinner.Model
	viewport viewport.Model
	mapView  components.MapView
	width    int
	height   int
}

type detailLoadedMsg struct {
	detail model.HotelDetail
	err    error
}

func NewDetailModel(ctx context.Context, fetcher DetailFetcher, item model.ListingItem, center model.Destination) DetailModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	m := DetailModel{
		item:     item,
		center:   center,
		fetcher:  fetcher,
		ctx:      ctx,
		spinner:  sp,
		viewport: viewport.New(60, 20),
		mapView:  components.NewMapView(30, 12),
	}
	m.placeMarkers(item.Point(), item.HasCoords())
	return m
}

func (m DetailModel) Init() tea.Cmd {
	fetcher, ctx, id := m.fetcher, m.ctx, m.item.ID
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		d, err := fetcher.FetchDetail(ctx, id)
		return detailLoadedMsg{detail: d, err: err}
	})
}

func (m DetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case detailLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.detail = &msg.detail
		if msg.detail.HasCoords() {
			m.placeMarkers(msg.detail.Point(), true)
		}
		m.viewport.SetContent(m.renderBody())
		return m, nil

	case spinner.TickMsg:
		if m.detail != nil || m.err != nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q", "backspace":
			return m, func() tea.Msg { return BackToListing{} }
		case "+", "=":
			m.mapView.ZoomIn()
			return m, nil
		case "-":
			m.mapView.ZoomOut()
			return m, nil
		case "0":
			m.mapView.ZoomReset()
			return m, nil
		case "H":
			m.mapView.Pan(-1, 0)
			return m, nil
		case "L":
			m.mapView.Pan(1, 0)
			return m, nil
		case "K":
			m.mapView.Pan(0, 1)
			return m, nil
		case "J":
			m.mapView.Pan(0, -1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *DetailModel) placeMarkers(hotel orb.Point, ok bool) {
	var markers []components.Marker
	if m.center.HasCoords() {
		markers = append(markers, components.Marker{Point: m.center.Point()})
	}
	if ok {
		markers = append(markers, components.Marker{Point: hotel, Highlight: true})
	}
	m.mapView.SetMarkers(markers)
	if ok && m.center.HasCoords() {
		m.mapView.SetSegment(m.center.Point(), hotel)
	}
}

func (m *DetailModel) layout() {
	mapW := m.width / 3
	if mapW < 20 {
		mapW = 20
	}
	bodyW := m.width - mapW - 8
	if bodyW < 30 {
		bodyW = 30
	}
	h := m.height - 8
	if h < 8 {
		h = 8
	}
	m.viewport.Width = bodyW
	m.viewport.Height = h
	m.mapView.SetSize(mapW, h/2)
	if m.detail != nil {
		m.viewport.SetContent(m.renderBody())
	}
}

func (m DetailModel) distanceKm() (float64, bool) {
	p, ok := m.item.Point(), m.item.HasCoords()
	if m.detail != nil && m.detail.HasCoords() {
		p, ok = m.detail.Point(), true
	}
	if !ok || !m.center.HasCoords() {
		return 0, false
	}
	return geo.DistanceKm(m.center.Point(), p), true
}

func (m DetailModel) renderBody() string {
	d := m.detail
	var b strings.Builder
	w := m.viewport.Width

	row := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(styles.Label.Render(label) + " " + styles.Value.Render(value) + "\n")
	}

	location := strings.Join(nonEmpty(d.City, d.Country), ", ")
	row("Address:", d.Address)
	row("Location:", location)
	if d.ReviewScore > 0 {
		score := fmt.Sprintf("%.1f", d.ReviewScore)
		if d.ReviewScoreWord != "" {
			score += " " + d.ReviewScoreWord
		}
		row("Reviews:", score)
	}
	row("Price from:", formatPrice(m.item.MinPrice))
	if km, ok := m.distanceKm(); ok {
		row("Centre:", geo.FormatDistance(km))
	}
	checkin := strings.Join(nonEmpty(d.CheckinFrom, d.CheckinTo), " - ")
	if d.Checkin24h {
		checkin = "24 hours"
	}
	row("Check-in:", checkin)
	row("Photo:", d.MainPhotoURL)

	if len(d.Facilities) > 0 {
		b.WriteString("\n" + styles.Subtitle.Render("Facilities") + "\n")
		b.WriteString(lipgloss.NewStyle().Width(w).Render(strings.Join(d.Facilities, " · ")))
		b.WriteString("\n")
	}
	for _, desc := range d.Descriptions {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(w).Render(desc))
		b.WriteString("\n")
	}
	return b.String()
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (m DetailModel) View() string {
	name := m.item.Name
	if m.detail != nil && m.detail.Name != "" {
		name = m.detail.Name
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render(name))
	b.WriteString("\n")

	var body string
	switch {
	case m.err != nil:
		body = styles.ErrorText.Render(fmt.Sprintf("Could not load hotel details: %v", m.err))
	case m.detail == nil:
		body = m.spinner.View() + " Loading details..."
	default:
		body = m.viewport.View()
	}

	mapLabel := lipgloss.NewStyle().Bold(true).Foreground(styles.Muted).Render("Map")
	legend := lipgloss.NewStyle().Foreground(styles.Muted).Render(
		lipgloss.NewStyle().Foreground(styles.Warning).Render("■") + " hotel  " +
			lipgloss.NewStyle().Foreground(styles.Secondary).Render("■") + " centre")
	mapBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Muted).
		Render(m.mapView.View())

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().PaddingRight(2).Render(body),
		mapLabel+"\n"+mapBox+"\n"+legend,
	))
	b.WriteString("\n")
	b.WriteString(styles.StatusBar.Render("↑↓ scroll • +/- zoom • HJKL pan • 0 reset • esc back"))
	return b.String()
}

// BackToListing returns from the detail page to the listing.
type BackToListing struct{}
