package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/sadopc/harlog/internal/config"
	"github.com/sadopc/harlog/internal/history"
)

func historyCmd() {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	searchFlag := fs.String("search", "", "Filter by URL substring")
	limitFlag := fs.Int("limit", 50, "Maximum number of entries to list")
	clearFlag := fs.Bool("clear", false, "Remove all history entries")
	dbFlag := fs.String("db", "", "History database path (default: from config)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: harlog history [flags]\n\n")
		fmt.Fprintf(os.Stderr, "List, search or clear the capture history index.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(os.Args[2:]); err != nil {
		os.Exit(1)
	}

	cfg := config.Load()
	dbPath := cfg.HistoryPath
	if *dbFlag != "" {
		dbPath = *dbFlag
	}
	if dbPath == "" {
		fmt.Fprintf(os.Stderr, "Error: no history database configured (set history_path or pass -db)\n")
		os.Exit(1)
	}

	store, err := history.NewStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening history: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if *clearFlag {
		if err := store.Clear(); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing history: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("History cleared")
		return
	}

	var entries []history.Entry
	if *searchFlag != "" {
		entries, err = store.Search(*searchFlag)
	} else {
		entries, err = store.List(*limitFlag, 0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading history: %v\n", err)
		os.Exit(1)
	}

	for _, e := range entries {
		fmt.Printf("%s  %-7s %-50s %3d %8s\n",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			e.Method, e.URL, e.StatusCode,
			humanize.IBytes(uint64(e.ResponseSize)))
	}
	if len(entries) == 0 {
		fmt.Println("No history entries")
	}
}
