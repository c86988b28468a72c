package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
)

type CancelCommand struct {
	stdout    io.Writer
	stderr    io.Writer
	newClient clientFactory
}

func NewCancelCommand(stdout, stderr io.Writer, newClient clientFactory) *CancelCommand {
	return &CancelCommand{
		stdout:    stdout,
		stderr:    stderr,
		newClient: newClient,
	}
}

func (c *CancelCommand) Run(args []string) error {
	fs := flag.NewFlagSet("cancel", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("cancel requires a job id")
	}
	jobID := fs.Arg(0)

	ctx := context.Background()
	client, err := c.newClient()
	if err != nil {
		return err
	}
	detail, err := client.CancelJob(ctx, jobID)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "%s  %s\n", detail.ID, detail.Status)
	return nil
}
