package views

import (
	"context"
	"log/slog"

	"github.com/rendis/hotelrank/internal/engine/listing"
	"github.com/rendis/hotelrank/internal/model"
)

// Loader is what a listing session needs from the page loader.
type Loader interface {
	listing.PageLoader
	Destination(ctx context.Context) (model.Destination, error)
}

// DetailFetcher loads the record behind the detail page.
type DetailFetcher interface {
	FetchDetail(ctx context.Context, hotelID int64) (model.HotelDetail, error)
}

// ListingSession owns the store of one destination search and the
// channels that connect it to the bubbletea loop. It lives behind a
// pointer so it survives bubbletea's value copies.
type ListingSession struct {
	Destination string
	Store       *listing.Store
	Loader      Loader
	Details     DetailFetcher
	ExportDir   string

	logger  *slog.Logger
	ctx     context.Context
	cancel  context.CancelFunc
	trigger chan struct{}
	changed chan struct{}
	notes   chan string
}

type SessionOptions struct {
	SkipFailedPages bool
	ExportDir       string
	Logger          *slog.Logger
}

func NewListingSession(destination string, loader Loader, details DetailFetcher, opts SessionOptions) *ListingSession {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &ListingSession{
		Destination: destination,
		Loader:      loader,
		Details:     details,
		ExportDir:   opts.ExportDir,
		logger:      logger.With("component", "tui"),
		ctx:         ctx,
		cancel:      cancel,
		trigger:     make(chan struct{}, 1),
		changed:     make(chan struct{}, 1),
		notes:       make(chan string, 8),
	}
	s.Store = listing.NewStore(loader, listing.NotifierFunc(s.notify), listing.Options{
		SkipFailedPages: opts.SkipFailedPages,
		OnChange:        func(listing.Snapshot) { s.signalChange() },
		Logger:          logger,
	})
	go s.Store.Watch(ctx, s.trigger)
	return s
}

// RequestMore is the near-end-of-list signal. A pending signal absorbs
// further ones.
func (s *ListingSession) RequestMore() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

func (s *ListingSession) Close() {
	s.cancel()
}

func (s *ListingSession) Context() context.Context {
	return s.ctx
}

func (s *ListingSession) signalChange() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

func (s *ListingSession) notify(msg string) {
	select {
	case s.notes <- msg:
	default:
		s.logger.Warn("notification dropped", "message", msg)
	}
}
