package main

import (
	"fmt"
	"os"
)

const usageText = `outline drives server-side document indexing jobs.

Usage:
  outline <command> [flags]

Commands:
  jobs      list jobs
  submit    upload a document and create an indexing job
  watch     follow a job's progress until it finishes
  cancel    cancel a job
  result    print a completed job's outline tree
  ask       ask a one-shot question about an indexed document
  sessions  list chat sessions for a job
  config    print resolved configuration and paths
  ui        run the full-screen terminal UI
  version   print build version
  help      show help

Flags:
  -h, --help   show help

Examples:
  outline submit report.pdf -watch
  outline jobs
  outline result 7f3a21 -json
  outline ask 7f3a21 what are the main findings?
`

func printUsage() {
	fmt.Fprint(os.Stderr, usageText)
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		return
	}

	wiring := defaultCommandWiring(os.Stdout, os.Stderr)
	commands := buildCommands(wiring)

	switch args[0] {
	case "-h", "--help", "help":
		printUsage()
		return
	}

	runner, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(2)
	}
	exitOnErr(args[0], runner.Run(args[1:]), wiring.stderr)
}
