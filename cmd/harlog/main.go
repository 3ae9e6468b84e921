package main

import (
	"fmt"
	"os"

	"github.com/sadopc/harlog/pkg/version"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "record":
			recordCmd()
			return
		case "fmt":
			fmtCmd()
			return
		case "stat":
			statCmd()
			return
		case "history":
			historyCmd()
			return
		case "version":
			fmt.Printf("harlog %s (%s) built %s\n", version.Version, version.Commit, version.Date)
			return
		case "help":
			printHelp()
			return
		}
	}
	printHelp()
	os.Exit(1)
}

func printHelp() {
	fmt.Fprintf(os.Stderr, `harlog - capture HTTP exchanges into HAR 1.2 archives

Usage:
  harlog <command> [args] [flags]

Commands:
  record    Execute requests and write the captured exchanges to a .har file
  fmt       Pretty-print or compact .har files
  stat      Summarize the entries of a .har file
  history   List, search or clear the capture history index
  version   Print version information
  help      Show this help message

Run 'harlog <command> -h' for command-specific flags.
`)
}
