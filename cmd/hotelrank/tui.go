package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rendis/hotelrank/internal/tui"
)

func runTUI(args []string) error {
	var common commonFlags
	fs := flag.NewFlagSet("hotelrank", flag.ExitOnError)
	common.register(fs)
	fs.Usage = func() {
		printUsage()
		fmt.Fprintf(os.Stderr, "\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	svc, err := setup(common, os.Stderr, true)
	if err != nil {
		return err
	}
	defer svc.Close()

	err = tui.Run(tui.Deps{
		Client:             svc.client,
		Store:              svc.store,
		Logger:             svc.logger,
		SessionID:          svc.sessionID,
		Version:            version,
		DefaultDestination: svc.cfg.Destination,
		ExportDir:          filepath.Join(svc.cfg.DataDir, "exports"),
		SkipFailedPages:    svc.cfg.SkipFailedPages,
	})
	svc.logger.Info("session end", "requests", svc.client.Stats().Requests.Load())
	return err
}
