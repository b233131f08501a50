package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/rendis/hotelrank/internal/config"
	"github.com/rendis/hotelrank/internal/engine/booking"
	"github.com/rendis/hotelrank/internal/engine/storage"
	"github.com/rendis/hotelrank/internal/logging"
)

// commonFlags are shared by every subcommand and override config values.
type commonFlags struct {
	envFile     string
	destination string
	proxy       string
	dataDir     string
	logLevel    string
	maxRetries  int
	skipFailed  bool
}

func (f *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.envFile, "env", "", "Path to .env file (default: ./.env if present)")
	fs.StringVar(&f.destination, "destination", "", "Destination name (default: $HOTELRANK_DESTINATION or New York)")
	fs.StringVar(&f.proxy, "proxy", "", "HTTP/SOCKS5 proxy URL")
	fs.StringVar(&f.dataDir, "data-dir", "", "Directory for the destination cache, logs and exports")
	fs.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	fs.IntVar(&f.maxRetries, "max-retries", -1, "Attempts per request when rate limited")
	fs.BoolVar(&f.skipFailed, "skip-failed-pages", false, "Advance past a page that failed instead of retrying it")
}

// services is the wiring shared by the TUI and the headless commands.
type services struct {
	cfg       *config.Config
	logger    *slog.Logger
	client    *booking.Client
	store     *storage.Store
	sessionID string
	logPath   string
	closers   []func() error
}

// setup loads config, applies flag overrides and opens the services. When
// logFile is set the log goes to a session file under the data dir
// instead of logOut.
func setup(f commonFlags, logOut io.Writer, logFile bool) (*services, error) {
	cfg, err := config.Load(f.envFile)
	if err != nil {
		return nil, err
	}
	if f.destination != "" {
		cfg.Destination = f.destination
	}
	if f.proxy != "" {
		cfg.ProxyURL = f.proxy
	}
	if f.dataDir != "" {
		cfg.DataDir = f.dataDir
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if f.maxRetries >= 0 {
		cfg.MaxRetries = f.maxRetries
	}
	if f.skipFailed {
		cfg.SkipFailedPages = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.EnsureDataDir(); err != nil {
		return nil, err
	}

	svc := &services{cfg: cfg, sessionID: uuid.NewString()}

	noColor := false
	if logFile {
		logDir := filepath.Join(cfg.DataDir, "logs")
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, fmt.Errorf("creating log dir: %w", err)
		}
		svc.logPath = filepath.Join(logDir, fmt.Sprintf("hotelrank_%s.log", time.Now().Format("20060102_150405")))
		file, err := os.OpenFile(svc.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log: %w", err)
		}
		svc.closers = append(svc.closers, file.Close)
		logOut = file
		noColor = true
	}

	logger, closeLog, err := logging.New(logging.Config{
		Writer:  logOut,
		Level:   logging.ParseLevel(cfg.LogLevel),
		NoColor: noColor,
		Fluent: logging.FluentConfig{
			Enabled:   cfg.FluentBit.Enabled,
			Host:      cfg.FluentBit.Host,
			Port:      cfg.FluentBit.Port,
			TagPrefix: cfg.FluentBit.TagPrefix,
			Level:     logging.ParseLevel(cfg.FluentBit.Level),
		},
	})
	if err != nil {
		svc.Close()
		return nil, err
	}
	svc.closers = append([]func() error{closeLog}, svc.closers...)
	svc.logger = logger.With("session", svc.sessionID)

	svc.store, err = storage.NewStore(cfg.DBPath())
	if err != nil {
		svc.Close()
		return nil, fmt.Errorf("opening store: %w", err)
	}
	svc.closers = append([]func() error{svc.store.Close}, svc.closers...)

	svc.client = booking.NewClient(booking.Options{
		BaseURL:    cfg.RapidAPI.BaseURL,
		APIKey:     cfg.RapidAPI.Key,
		APIHost:    cfg.RapidAPI.Host,
		ProxyURL:   cfg.ProxyURL,
		MaxRetries: cfg.MaxRetries,
		Logger:     svc.logger,
	})

	svc.logger.Info("session start",
		"version", version,
		"destination", cfg.Destination,
		"data_dir", cfg.DataDir,
		"proxy", cfg.ProxyURL != "",
		"fluent", cfg.FluentBit.Enabled)
	return svc, nil
}

// Close releases everything setup opened, newest first.
func (svc *services) Close() error {
	var errs []error
	for _, c := range svc.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	svc.closers = nil
	return errors.Join(errs...)
}
