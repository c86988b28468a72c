package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"outline/internal/config"
	"outline/internal/outline"
	"outline/internal/store"
)

// resultCache is the slice of the local result store the command uses.
// Results are immutable once a job completes, so a cache hit never goes
// stale; -refresh exists for operators who cleared server state.
type resultCache interface {
	Get(ctx context.Context, jobID string) ([]byte, bool, error)
	Put(ctx context.Context, jobID string, payload []byte) error
	Delete(ctx context.Context, jobID string) error
	Close() error
}

type ResultCommand struct {
	stdout    io.Writer
	stderr    io.Writer
	newClient clientFactory
	openCache func() (resultCache, error)
}

func NewResultCommand(stdout, stderr io.Writer, newClient clientFactory) *ResultCommand {
	return &ResultCommand{
		stdout:    stdout,
		stderr:    stderr,
		newClient: newClient,
		openCache: openResultCache,
	}
}

func openResultCache() (resultCache, error) {
	path, err := config.ResultCachePath()
	if err != nil {
		return nil, err
	}
	return store.OpenResultCache(path)
}

func (c *ResultCommand) Run(args []string) error {
	fs := flag.NewFlagSet("result", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	rawJSON := fs.Bool("json", false, "print the raw result document")
	outPath := fs.String("o", "", "write the raw result document to a file")
	refresh := fs.Bool("refresh", false, "refetch even when cached")
	showIDs := fs.Bool("ids", false, "append node ids to tree lines")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("result requires a job id")
	}
	jobID := fs.Arg(0)

	ctx := context.Background()
	payload, err := c.loadResult(ctx, jobID, *refresh)
	if err != nil {
		return err
	}

	if *outPath != "" {
		return os.WriteFile(*outPath, payload, 0o644)
	}
	if *rawJSON {
		if _, err := c.stdout.Write(payload); err != nil {
			return err
		}
		if len(payload) > 0 && payload[len(payload)-1] != '\n' {
			fmt.Fprintln(c.stdout)
		}
		return nil
	}

	doc, err := outline.ParseDocument(payload)
	if err != nil {
		return err
	}
	if name := strings.TrimSpace(doc.DocName); name != "" {
		fmt.Fprintln(c.stdout, name)
	}
	if desc := strings.TrimSpace(doc.DocDescription); desc != "" {
		fmt.Fprintln(c.stdout, desc)
	}
	if strings.TrimSpace(doc.DocName) != "" || strings.TrimSpace(doc.DocDescription) != "" {
		fmt.Fprintln(c.stdout)
	}
	for _, line := range outline.Lines(doc.Structure, *showIDs) {
		fmt.Fprintln(c.stdout, line)
	}
	return nil
}

// loadResult prefers the local cache and falls back to the server; a
// broken cache degrades to a plain fetch instead of failing the command.
func (c *ResultCommand) loadResult(ctx context.Context, jobID string, refresh bool) ([]byte, error) {
	cache, err := c.openCache()
	if err != nil {
		fmt.Fprintf(c.stderr, "result cache unavailable: %v\n", err)
		cache = nil
	}
	if cache != nil {
		defer cache.Close()
		if refresh {
			if err := cache.Delete(ctx, jobID); err != nil {
				fmt.Fprintf(c.stderr, "result cache delete failed: %v\n", err)
			}
		} else if payload, ok, err := cache.Get(ctx, jobID); err == nil && ok {
			return payload, nil
		}
	}

	client, err := c.newClient()
	if err != nil {
		return nil, err
	}
	payload, err := client.GetJobResult(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if cache != nil {
		if err := cache.Put(ctx, jobID, payload); err != nil {
			fmt.Fprintf(c.stderr, "result cache write failed: %v\n", err)
		}
	}
	return payload, nil
}
