package main

import (
	"fmt"
	"os"
)

var version = "dev"

func main() {
	if len(os.Args) > 1 {
		var err error
		switch os.Args[1] {
		case "list":
			err = runList(os.Args[2:])
		case "detail":
			err = runDetail(os.Args[2:])
		case "version":
			fmt.Println("hotelrank " + version)
			return
		case "help", "--help", "-h":
			printUsage()
			return
		default:
			err = runTUI(os.Args[1:])
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// No subcommand → launch TUI
	if err := runTUI(nil); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `hotelrank - hotel search, filtered and ranked

Usage:
  hotelrank [flags]          Launch interactive TUI
  hotelrank list [flags]     Load result pages and print or export them
  hotelrank detail [flags]   Show one hotel's details
  hotelrank version          Show version

Run 'hotelrank list --help' or 'hotelrank detail --help' for flags.
Configuration is read from .env and the environment (RAPIDAPI_KEY, ...).
`)
}
