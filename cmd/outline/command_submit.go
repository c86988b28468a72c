package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	outlineclient "outline/internal/client"
	"outline/internal/config"
	"outline/internal/types"
)

type SubmitCommand struct {
	stdout    io.Writer
	stderr    io.Writer
	newClient clientFactory
	watch     func(jobID string) error
}

func NewSubmitCommand(stdout, stderr io.Writer, newClient clientFactory, watch func(jobID string) error) *SubmitCommand {
	return &SubmitCommand{
		stdout:    stdout,
		stderr:    stderr,
		newClient: newClient,
		watch:     watch,
	}
}

func (c *SubmitCommand) Run(args []string) error {
	defaultModel := ""
	if settings, err := config.Load(); err == nil {
		defaultModel = settings.SubmitModel()
	}

	fs := flag.NewFlagSet("submit", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	inputType := fs.String("type", "", "input type: pdf|md (inferred from the file extension)")
	model := fs.String("model", defaultModel, "model used for indexing")
	tocCheckPages := fs.Int("toc-check-pages", 0, "pages scanned for a table of contents")
	maxPagesPerNode := fs.Int("max-pages-per-node", 0, "page span above which a node is partitioned")
	maxTokensPerNode := fs.Int("max-tokens-per-node", 0, "token count above which a node is partitioned")
	nodeIDs := fs.String("node-ids", "", "add node ids to the result: yes|no")
	nodeSummaries := fs.String("node-summaries", "", "add node summaries to the result: yes|no")
	docDescription := fs.String("doc-description", "", "add a document description: yes|no")
	nodeText := fs.String("node-text", "", "include node text in the result: yes|no")
	thinning := fs.String("thinning", "", "thin deep trees: yes|no")
	thinningThreshold := fs.Int("thinning-threshold", 0, "node count that triggers thinning")
	summaryTokenThreshold := fs.Int("summary-token-threshold", 0, "token budget per node summary")
	watchAfter := fs.Bool("watch", false, "follow the job after submitting")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("submit requires a file")
	}
	path := fs.Arg(0)

	resolvedType := types.InputType(*inputType)
	if *inputType == "" {
		inferred, ok := outlineclient.InferInputType(path)
		if !ok {
			return fmt.Errorf("cannot infer input type from %q: pass -type pdf|md", path)
		}
		resolvedType = inferred
	}

	ctx := context.Background()
	client, err := c.newClient()
	if err != nil {
		return err
	}

	job, err := client.SubmitJob(ctx, path, outlineclient.SubmitOptions{
		InputType:             resolvedType,
		Model:                 *model,
		TOCCheckPages:         *tocCheckPages,
		MaxPagesPerNode:       *maxPagesPerNode,
		MaxTokensPerNode:      *maxTokensPerNode,
		AddNodeIDs:            *nodeIDs,
		AddNodeSummaries:      *nodeSummaries,
		AddDocDescription:     *docDescription,
		AddNodeText:           *nodeText,
		Thinning:              *thinning,
		ThinningThreshold:     *thinningThreshold,
		SummaryTokenThreshold: *summaryTokenThreshold,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, job.ID)

	if *watchAfter && c.watch != nil {
		return c.watch(job.ID)
	}
	return nil
}
