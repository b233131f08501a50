package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rendis/hotelrank/internal/engine/booking"
	"github.com/rendis/hotelrank/internal/engine/geo"
	"github.com/rendis/hotelrank/internal/model"
	"github.com/rendis/hotelrank/internal/tui/styles"
)

func runDetail(args []string) error {
	var common commonFlags
	var hotelID int64
	var asJSON, withDistance bool

	fs := flag.NewFlagSet("detail", flag.ExitOnError)
	common.register(fs)
	fs.Int64Var(&hotelID, "id", 0, "Hotel id (required)")
	fs.BoolVar(&asJSON, "json", false, "Print the record as JSON")
	fs.BoolVar(&withDistance, "distance", false, "Also print the distance from the destination centre")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: hotelrank detail -id N [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if hotelID <= 0 {
		fs.Usage()
		return fmt.Errorf("-id is required")
	}

	svc, err := setup(common, os.Stderr, false)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	d, err := svc.client.FetchDetail(ctx, hotelID)
	if err != nil {
		return err
	}

	distance := ""
	if withDistance && d.HasCoords() {
		loader := booking.NewLoader(svc.client, svc.cfg.Destination, model.DefaultStayQuery(), svc.store, svc.logger)
		center, err := loader.Destination(ctx)
		if err != nil {
			svc.logger.Warn("resolving destination centre failed", "destination", svc.cfg.Destination, "error", err)
		} else if center.HasCoords() {
			distance = geo.FormatDistance(geo.DistanceKm(center.Point(), d.Point()))
		}
	}

	if asJSON {
		out := struct {
			model.HotelDetail
			Distance string `json:"distance,omitempty"`
		}{d, distance}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	printDetail(os.Stdout, d, distance)
	return nil
}

func printDetail(w io.Writer, d model.HotelDetail, distance string) {
	label := lipgloss.NewStyle().Foreground(styles.Muted).Width(12)
	title := lipgloss.NewStyle().Bold(true).Foreground(styles.Primary)

	row := func(k, v string) {
		if v == "" {
			return
		}
		fmt.Fprintf(w, "%s %s\n", label.Render(k), v)
	}

	fmt.Fprintln(w, title.Render(d.Name))
	row("Address", strings.Join(nonEmpty(d.Address, d.City, d.Country), ", "))
	if d.HasCoords() {
		row("Location", fmt.Sprintf("%.5f, %.5f", d.Lat, d.Lon))
	}
	if d.ReviewScore > 0 {
		row("Reviews", strings.TrimSpace(fmt.Sprintf("%.1f %s", d.ReviewScore, d.ReviewScoreWord)))
	}
	row("Distance", distance)
	switch {
	case d.Checkin24h:
		row("Check-in", "24 hours")
	case d.CheckinFrom != "" || d.CheckinTo != "":
		row("Check-in", strings.Trim(d.CheckinFrom+" - "+d.CheckinTo, " -"))
	}
	row("Photo", d.MainPhotoURL)
	if len(d.Facilities) > 0 {
		row("Facilities", strings.Join(d.Facilities, ", "))
	}
	for _, desc := range d.Descriptions {
		fmt.Fprintf(w, "\n%s\n", desc)
	}
}

func nonEmpty(vals ...string) []string {
	out := vals[:0:0]
	for _, v := range vals {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
