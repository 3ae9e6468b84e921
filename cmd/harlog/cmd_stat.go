package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/sadopc/harlog/internal/har"
)

func statCmd() {
	fs := flag.NewFlagSet("stat", flag.ExitOnError)
	verboseFlag := fs.Bool("v", false, "List every entry")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: harlog stat [flags] <file.har>\n\n")
		fmt.Fprintf(os.Stderr, "Summarize the entries of a HAR file.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(os.Args[2:]); err != nil {
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: exactly one file path is required\n\n")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", path, err)
		os.Exit(1)
	}

	var archive har.Archive
	if err := json.Unmarshal(data, &archive); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing %s: %v\n", path, err)
		os.Exit(1)
	}
	if archive.Log == nil {
		fmt.Fprintf(os.Stderr, "Error: %s has no log object\n", path)
		os.Exit(1)
	}

	log := archive.Log
	fmt.Printf("%s: HAR %s, created by %s %s via %s %s\n",
		path, log.Version,
		log.Creator.Name, log.Creator.Version,
		log.Browser.Name, log.Browser.Version)

	var totalBody int64
	for _, entry := range log.Entries {
		if entry.Response.BodySize > 0 {
			totalBody += int64(entry.Response.BodySize)
		}
		if *verboseFlag {
			size := "-"
			if entry.Response.BodySize >= 0 {
				size = humanize.IBytes(uint64(entry.Response.BodySize))
			}
			fmt.Printf("  %-7s %-50s %3d %8s %.3fs\n",
				entry.Request.Method, entry.Request.URL,
				entry.Response.Status, size, entry.Time)
		}
	}
	fmt.Printf("%d entries, %s of response bodies\n",
		len(log.Entries), humanize.IBytes(uint64(totalBody)))
}
