package tui

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rendis/hotelrank/internal/engine/booking"
	"github.com/rendis/hotelrank/internal/engine/storage"
	"github.com/rendis/hotelrank/internal/model"
	"github.com/rendis/hotelrank/internal/tui/views"
)

type viewID int

const (
	viewHome viewID = iota
	viewDestination
	viewListing
	viewDetail
	viewRecent
)

// Deps are the long-lived services the TUI works with.
type Deps struct {
	Client             *booking.Client
	Store              *storage.Store
	Logger             *slog.Logger
	SessionID          string
	Version            string
	DefaultDestination string
	ExportDir          string
	SkipFailedPages    bool
}

// App is the root bubbletea model.
type App struct {
	deps        Deps
	logger      *slog.Logger
	currentView viewID
	width       int
	height      int
	home        views.HomeModel
	destination views.DestinationModel
	listing     views.ListingModel
	session     *views.ListingSession
	detail      views.DetailModel
	recent      views.RecentModel
}

func NewApp(deps Deps) App {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return App{
		deps:        deps,
		logger:      logger.With("component", "app"),
		currentView: viewHome,
		home:        views.NewHomeModel(deps.Version, deps.DefaultDestination),
	}
}

func (a App) Init() tea.Cmd {
	return a.home.Init()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.closeSession()
			return a, tea.Quit
		}
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// the listing stays alive under the detail page and needs the size too
		if a.session != nil && a.currentView != viewListing {
			m, _ := a.listing.Update(msg)
			a.listing = m.(views.ListingModel)
		}
	case views.NavigateToHome:
		a.closeSession()
		a.currentView = viewHome
		return a, nil
	case views.NavigateToDestination:
		a.currentView = viewDestination
		a.destination = views.NewDestinationModel(a.deps.DefaultDestination, a.recentNames())
		return a, a.destination.Init()
	case views.NavigateToRecent:
		a.currentView = viewRecent
		a.recent = views.NewRecentModel(a.loadRecent())
		return a, a.recent.Init()
	case views.OpenListing:
		a.closeSession()
		a.recordSearch(msg.Destination)
		loader := booking.NewLoader(a.deps.Client, msg.Destination, model.DefaultStayQuery(), a.cache(), a.deps.Logger)
		a.session = views.NewListingSession(msg.Destination, loader, a.deps.Client, views.SessionOptions{
			SkipFailedPages: a.deps.SkipFailedPages,
			ExportDir:       a.deps.ExportDir,
			Logger:          a.deps.Logger,
		})
		a.listing = views.NewListingModel(a.session, msg.Sort)
		a.currentView = viewListing
		a.logger.Info("listing opened", "destination", msg.Destination, "sort", msg.Sort)
		return a, tea.Batch(a.listing.Init(), a.sizeCmd())
	case views.OpenDetail:
		if a.session == nil {
			return a, nil
		}
		a.detail = views.NewDetailModel(a.session.Context(), a.session.Details, msg.Item, msg.Center)
		a.currentView = viewDetail
		return a, tea.Batch(a.detail.Init(), a.sizeCmd())
	case views.BackToListing:
		a.currentView = viewListing
		return a, nil
	}

	var cmd tea.Cmd
	switch a.currentView {
	case viewHome:
		var m tea.Model
		m, cmd = a.home.Update(msg)
		a.home = m.(views.HomeModel)
	case viewDestination:
		var m tea.Model
		m, cmd = a.destination.Update(msg)
		a.destination = m.(views.DestinationModel)
	case viewListing:
		var m tea.Model
		m, cmd = a.listing.Update(msg)
		a.listing = m.(views.ListingModel)
	case viewDetail:
		var m tea.Model
		m, cmd = a.detail.Update(msg)
		a.detail = m.(views.DetailModel)
		// store events keep flowing while the detail page is open
		if a.session != nil && views.IsListingMsg(msg) {
			var lm tea.Model
			var lcmd tea.Cmd
			lm, lcmd = a.listing.Update(msg)
			a.listing = lm.(views.ListingModel)
			cmd = tea.Batch(cmd, lcmd)
		}
	case viewRecent:
		var m tea.Model
		m, cmd = a.recent.Update(msg)
		a.recent = m.(views.RecentModel)
	}

	return a, cmd
}

func (a App) View() string {
	var content string
	switch a.currentView {
	case viewHome:
		content = a.home.View()
	case viewDestination:
		content = a.destination.View()
	case viewListing:
		content = a.listing.View()
	case viewDetail:
		content = a.detail.View()
	case viewRecent:
		content = a.recent.View()
	}

	return lipgloss.Place(
		a.width, a.height,
		lipgloss.Center, lipgloss.Top,
		content,
	)
}

// sizeCmd sends a WindowSizeMsg so newly created views get the current terminal size.
func (a App) sizeCmd() tea.Cmd {
	w, h := a.width, a.height
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: w, Height: h}
	}
}

func (a *App) closeSession() {
	if a.session != nil {
		a.session.Close()
		a.session = nil
	}
}

// cache avoids handing the loader a typed nil inside a non-nil interface.
func (a App) cache() booking.DestinationCache {
	if a.deps.Store == nil {
		return nil
	}
	return a.deps.Store
}

func (a App) recordSearch(name string) {
	if a.deps.Store == nil {
		return
	}
	if err := a.deps.Store.RecordSearch(context.Background(), name, a.deps.SessionID); err != nil {
		a.logger.Warn("recording search failed", "destination", name, "error", err)
	}
}

func (a App) loadRecent() ([]views.RecentEntry, error) {
	if a.deps.Store == nil {
		return nil, nil
	}
	entries, err := a.deps.Store.Recent(context.Background(), 0)
	if err != nil {
		a.logger.Warn("loading recent destinations failed", "error", err)
		return nil, err
	}
	out := make([]views.RecentEntry, len(entries))
	for i, e := range entries {
		out[i] = views.RecentEntry{Name: e.Name, SearchedAt: e.SearchedAt}
	}
	return out, nil
}

func (a App) recentNames() []string {
	entries, _ := a.loadRecent()
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

// Run starts the TUI.
func Run(deps Deps) error {
	p := tea.NewProgram(NewApp(deps), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
