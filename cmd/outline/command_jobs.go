package main

import (
	"context"
	"flag"
	"io"
)

type JobsCommand struct {
	stdout    io.Writer
	stderr    io.Writer
	newClient clientFactory
}

func NewJobsCommand(stdout, stderr io.Writer, newClient clientFactory) *JobsCommand {
	return &JobsCommand{
		stdout:    stdout,
		stderr:    stderr,
		newClient: newClient,
	}
}

func (c *JobsCommand) Run(args []string) error {
	fs := flag.NewFlagSet("jobs", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	client, err := c.newClient()
	if err != nil {
		return err
	}
	jobs, err := client.ListJobs(ctx)
	if err != nil {
		return err
	}

	printJobs(c.stdout, jobs)
	return nil
}
