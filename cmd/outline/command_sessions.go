package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"outline/internal/live"
)

type SessionsCommand struct {
	stdout    io.Writer
	stderr    io.Writer
	newClient clientFactory
}

func NewSessionsCommand(stdout, stderr io.Writer, newClient clientFactory) *SessionsCommand {
	return &SessionsCommand{
		stdout:    stdout,
		stderr:    stderr,
		newClient: newClient,
	}
}

func (c *SessionsCommand) Run(args []string) error {
	fs := flag.NewFlagSet("sessions", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	clearAll := fs.Bool("clear", false, "delete all chat sessions for the job and start a fresh one")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("sessions requires a job id")
	}
	jobID := fs.Arg(0)

	ctx := context.Background()
	client, err := c.newClient()
	if err != nil {
		return err
	}

	if *clearAll {
		detail, deleted, err := live.ResetSessions(ctx, client, jobID)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "deleted %d session(s); new session %s\n", deleted, detail.ID)
		return nil
	}

	sessions, err := client.ListChatSessions(ctx, jobID)
	if err != nil {
		return err
	}
	printChatSessions(c.stdout, sessions)
	return nil
}
