package main

import (
	"io"
	"os"
)

type commandRunner interface {
	Run(args []string) error
}

type commandWiring struct {
	stdout    io.Writer
	stderr    io.Writer
	newClient clientFactory
	version   string
}

func defaultCommandWiring(stdout, stderr io.Writer) commandWiring {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return commandWiring{
		stdout:    stdout,
		stderr:    stderr,
		newClient: newOutlineClient,
		version:   buildVersion(),
	}
}

func buildCommands(wiring commandWiring) map[string]commandRunner {
	watch := NewWatchCommand(wiring.stdout, wiring.stderr, wiring.newClient)
	return map[string]commandRunner{
		"jobs":     NewJobsCommand(wiring.stdout, wiring.stderr, wiring.newClient),
		"submit":   NewSubmitCommand(wiring.stdout, wiring.stderr, wiring.newClient, watch.WatchJob),
		"watch":    watch,
		"cancel":   NewCancelCommand(wiring.stdout, wiring.stderr, wiring.newClient),
		"result":   NewResultCommand(wiring.stdout, wiring.stderr, wiring.newClient),
		"ask":      NewAskCommand(wiring.stdout, wiring.stderr, wiring.newClient),
		"sessions": NewSessionsCommand(wiring.stdout, wiring.stderr, wiring.newClient),
		"config":   NewConfigCommand(wiring.stdout, wiring.stderr),
		"ui":       NewUICommand(wiring.stderr, wiring.newClient),
		"version":  NewVersionCommand(wiring.stdout, wiring.version),
	}
}
