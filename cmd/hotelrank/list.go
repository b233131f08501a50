package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/rendis/hotelrank/internal/engine/booking"
	"github.com/rendis/hotelrank/internal/engine/export"
	"github.com/rendis/hotelrank/internal/engine/geo"
	"github.com/rendis/hotelrank/internal/engine/listing"
	"github.com/rendis/hotelrank/internal/model"
	"github.com/rendis/hotelrank/internal/tui/styles"
)

func runList(args []string) error {
	var common commonFlags
	var pages, limit int
	var brand, city, query, sortStr, csvPath string

	fs := flag.NewFlagSet("list", flag.ExitOnError)
	common.register(fs)
	fs.IntVar(&pages, "pages", 1, "Number of result pages to load")
	fs.StringVar(&brand, "brand", "", "Only hotels of this brand (Independent for unbranded)")
	fs.StringVar(&city, "city", "", "Only hotels in this city")
	fs.StringVar(&query, "query", "", "Free-text filter over name, address, city and brand")
	fs.StringVar(&sortStr, "sort", "popularity", "popularity, distance, price, bayesian_review_score, class_descending, class_ascending")
	fs.StringVar(&csvPath, "csv", "", "Write the view as CSV to this file (- for stdout)")
	fs.IntVar(&limit, "limit", 0, "Print at most this many rows (0 = all)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: hotelrank list [flags]\n\nFlags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  hotelrank list -destination \"New York\" -pages 3 -sort price\n")
		fmt.Fprintf(os.Stderr, "  hotelrank list -brand Independent -city Brooklyn -csv hotels.csv\n")
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	sortKey, err := model.ParseSortKey(sortStr)
	if err != nil {
		return err
	}
	if pages < 1 {
		return fmt.Errorf("-pages must be >= 1")
	}

	svc, err := setup(common, os.Stderr, false)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(os.Stderr, "\nShutting down gracefully...")
			cancel()
		case <-ctx.Done():
		}
	}()

	startTime := time.Now()
	destination := svc.cfg.Destination
	if err := svc.store.RecordSearch(ctx, destination, svc.sessionID); err != nil {
		svc.logger.Warn("recording search failed", "error", err)
	}

	loader := booking.NewLoader(svc.client, destination, model.DefaultStayQuery(), svc.store, svc.logger)
	store := listing.NewStore(loader, listing.NotifierFunc(func(msg string) {
		fmt.Fprintln(os.Stderr, "! "+msg)
	}), listing.Options{SkipFailedPages: svc.cfg.SkipFailedPages, Logger: svc.logger})

	fmt.Fprintf(os.Stderr, "Destination: %s\n", destination)
	if err := store.LoadInitial(ctx); err != nil {
		return fmt.Errorf("loading first page: %w", err)
	}
	for page := 1; page < pages; page++ {
		if store.Snapshot().Exhausted {
			break
		}
		// failures already reached the notifier
		if _, err := store.LoadNextPage(ctx); err != nil {
			break
		}
		fmt.Fprintf(os.Stderr, "Loaded page %d (%d hotels)\n", page, store.Snapshot().Total)
	}

	store.SetBrandFilter(brand)
	store.SetCityFilter(city)
	store.SetQuery(query)
	store.SetSort(sortKey)
	snap := store.Snapshot()

	center, err := loader.Destination(ctx)
	if err != nil {
		center = model.Destination{}
	}

	switch csvPath {
	case "":
		printTable(os.Stdout, snap.View, center, limit)
	case "-":
		if err := export.WriteCSV(os.Stdout, snap.View, center); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
	default:
		f, err := os.Create(csvPath)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		if err := export.WriteCSV(f, snap.View, center); err != nil {
			f.Close()
			return fmt.Errorf("writing csv: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("closing output: %w", err)
		}
	}

	stats := svc.client.Stats()
	duration := time.Since(startTime).Truncate(time.Millisecond)
	svc.logger.Info("list done",
		"loaded", snap.Total, "shown", len(snap.View),
		"requests", stats.Requests.Load(), "rate_limits", stats.RateLimits.Load(), "errors", stats.Errors.Load())

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "══════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  hotelrank\n")
	fmt.Fprintf(os.Stderr, "══════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Destination: %s\n", labelOr(center, destination))
	fmt.Fprintf(os.Stderr, "  Filters:     %s\n", describeFilter(snap.Filter))
	fmt.Fprintf(os.Stderr, "  Loaded:      %d (%d pages)\n", snap.Total, snap.Page+1)
	fmt.Fprintf(os.Stderr, "  Shown:       %d\n", len(snap.View))
	fmt.Fprintf(os.Stderr, "  Requests:    %d (rate limited %d, errors %d)\n",
		stats.Requests.Load(), stats.RateLimits.Load(), stats.Errors.Load())
	fmt.Fprintf(os.Stderr, "  Duration:    %s\n", duration)
	if csvPath != "" && csvPath != "-" {
		fmt.Fprintf(os.Stderr, "  CSV:         %s\n", csvPath)
	}
	fmt.Fprintf(os.Stderr, "══════════════════════════════\n")

	return nil
}

func printTable(w io.Writer, items []model.ListingItem, center model.Destination, limit int) {
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.Muted)).
		Headers("ID", "NAME", "BRAND", "CITY", "SCORE", "PRICE", "DISTANCE").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(styles.Secondary).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	for _, it := range items {
		score, distance := "", ""
		if it.ReviewScore > 0 {
			score = fmt.Sprintf("%.1f", it.ReviewScore)
		}
		if center.HasCoords() && it.HasCoords() {
			distance = geo.FormatDistance(geo.DistanceKm(center.Point(), it.Point()))
		}
		t.Row(
			fmt.Sprintf("%d", it.ID),
			it.Name,
			it.Brand,
			it.City,
			score,
			fmt.Sprintf("%.2f", it.MinPrice),
			distance,
		)
	}
	fmt.Fprintln(w, t.Render())
}

func describeFilter(f listing.Filter) string {
	var parts []string
	if f.Brand != "" {
		parts = append(parts, "brand="+f.Brand)
	}
	if f.City != "" {
		parts = append(parts, "city="+f.City)
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		parts = append(parts, fmt.Sprintf("query=%q", q))
	}
	parts = append(parts, "sort="+string(f.Sort))
	return strings.Join(parts, " ")
}

func labelOr(d model.Destination, fallback string) string {
	if d.Label != "" {
		return d.Label
	}
	return fallback
}
