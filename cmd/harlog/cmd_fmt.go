package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/tidwall/pretty"
)

func fmtCmd() {
	fs := flag.NewFlagSet("fmt", flag.ExitOnError)
	writeFlag := fs.Bool("w", false, "Write result to file instead of stdout")
	compactFlag := fs.Bool("compact", false, "Produce compact output instead of indented")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: harlog fmt [flags] <file.har> [files...]\n\n")
		fmt.Fprintf(os.Stderr, "Pretty-print or compact HAR files.\n\n")
		fmt.Fprintf(os.Stderr, "By default, formatted output is written to stdout.\n")
		fmt.Fprintf(os.Stderr, "Use -w to write back to the source file.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  harlog fmt session.har            # print formatted to stdout\n")
		fmt.Fprintf(os.Stderr, "  harlog fmt -w session.har         # overwrite file in-place\n")
		fmt.Fprintf(os.Stderr, "  harlog fmt -compact session.har   # minimize file size\n")
	}

	if err := fs.Parse(os.Args[2:]); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: at least one file path is required\n\n")
		fs.Usage()
		os.Exit(1)
	}

	for _, path := range fs.Args() {
		if err := formatFile(path, *writeFlag, *compactFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting %s: %v\n", path, err)
			os.Exit(1)
		}
	}
}

func formatFile(path string, write, compact bool) error {
	original, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}
	if !json.Valid(original) {
		return fmt.Errorf("not valid JSON")
	}

	var formatted []byte
	if compact {
		formatted = pretty.Ugly(original)
	} else {
		formatted = pretty.PrettyOptions(original, &pretty.Options{Indent: "  "})
	}

	if write {
		if bytes.Equal(original, formatted) {
			return nil
		}
		return os.WriteFile(path, formatted, 0o644)
	}

	_, err = os.Stdout.Write(formatted)
	return err
}
