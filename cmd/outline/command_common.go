package main

import (
	"crypto/sha256"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"text/tabwriter"
	"time"

	runewidth "github.com/mattn/go-runewidth"

	"outline/internal/types"
)

const version = "dev"

const (
	fileColumnWidth  = 28
	titleColumnWidth = 32
)

func printJobs(output io.Writer, jobs []*types.JobSummary) {
	writer := tabwriter.NewWriter(output, 0, 8, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tFILE\tTYPE\tSTATUS\tSTAGE\tPROGRESS\tCREATED")
	for _, job := range jobs {
		if job == nil {
			continue
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			job.ID,
			runewidth.Truncate(job.Filename, fileColumnWidth, "…"),
			strings.ToUpper(string(job.InputType)),
			job.Status,
			job.Stage,
			formatProgress(job.Progress),
			formatTimestamp(job.CreatedAt),
		)
	}
	_ = writer.Flush()
}

func printChatSessions(output io.Writer, sessions []*types.ChatSessionSummary) {
	writer := tabwriter.NewWriter(output, 0, 8, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tTITLE\tMSGS\tUPDATED\tACTIVE RUN")
	for _, session := range sessions {
		if session == nil {
			continue
		}
		active := "-"
		if session.ActiveRunID != "" {
			active = string(session.ActiveRunStatus)
		}
		fmt.Fprintf(writer, "%s\t%s\t%d\t%s\t%s\n",
			session.ID,
			runewidth.Truncate(session.Title, titleColumnWidth, "…"),
			session.MessageCount,
			formatTimestamp(session.UpdatedAt),
			active,
		)
	}
	_ = writer.Flush()
}

func formatProgress(p float64) string {
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return fmt.Sprintf("%.0f%%", p*100)
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func exitOnErr(label string, err error, stderr io.Writer) {
	if err == nil {
		return
	}
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(2)
	}
	fmt.Fprintf(stderr, "%s error: %v\n", label, err)
	os.Exit(1)
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		var revision string
		var modified string
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				revision = setting.Value
			case "vcs.modified":
				modified = setting.Value
			}
		}
		if revision != "" {
			if modified == "true" {
				return revision + "-dirty"
			}
			return revision
		}
	}

	exe, err := os.Executable()
	if err == nil {
		file, err := os.Open(exe)
		if err == nil {
			defer file.Close()
			hasher := sha256.New()
			if _, err := io.Copy(hasher, file); err == nil {
				sum := hasher.Sum(nil)
				return fmt.Sprintf("bin-%x", sum[:6])
			}
		}
	}

	return version
}
