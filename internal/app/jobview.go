package app

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/progress"
	xansi "github.com/charmbracelet/x/ansi"

	"outline/internal/types"
)

var stageLabels = map[types.JobStage]string{
	types.StageQueued:        "queued",
	types.StageParsingInput:  "parsing input",
	types.StageTOCAnalysis:   "toc analysis",
	types.StageIndexBuild:    "building index",
	types.StageRefinement:    "refining",
	types.StageSummarization: "summarizing",
	types.StageFinalizing:    "finalizing",
	types.StageCompleted:     "completed",
}

func stageLabel(stage types.JobStage) string {
	if label, ok := stageLabels[stage]; ok {
		return label
	}
	return strings.ToLower(string(stage))
}

// renderJobLines builds the activity tab content for the selected job.
func renderJobLines(job *types.JobDetail, bar progress.Model, width int) []string {
	if job == nil {
		return []string{helpStyle.Render("No job selected.")}
	}
	lines := make([]string, 0, 16+len(job.Activity))

	dot, dotStyle := statusDot(job.Status)
	name := strings.TrimSpace(job.Filename)
	if name == "" {
		name = job.ID
	}
	header := dotStyle.Render(dot) + " " + headerStyle.Render(truncateToWidth(name, max(1, width-20)))
	if badge, ok := inputBadges[job.InputType]; ok {
		header += " " + helpStyle.Render(badge.prefix)
	}
	header += "  " + statusText(job.Status)
	lines = append(lines, header)
	lines = append(lines, helpStyle.Render("id: "+job.ID))
	lines = append(lines, "")

	switch job.Status {
	case types.JobStatusQueued, types.JobStatusRunning:
		pct := clampProgress(job.Progress)
		lines = append(lines,
			stageStyle.Render(stageLabel(job.Stage))+"  "+statusStyle.Render("updated "+formatSince(job.UpdatedAt)))
		lines = append(lines, bar.ViewAs(pct)+fmt.Sprintf(" %3.0f%%", pct*100))
	case types.JobStatusCompleted:
		lines = append(lines, dotDoneStyle.Render("completed")+" "+statusStyle.Render(formatSince(job.UpdatedAt)))
		if job.ResultFile != "" {
			lines = append(lines, helpStyle.Render("result: "+job.ResultFile))
		}
	case types.JobStatusFailed:
		lines = append(lines, errorStyle.Render("failed")+" "+statusStyle.Render(formatSince(job.UpdatedAt)))
	case types.JobStatusCancelled:
		lines = append(lines, dotIdleStyle.Render("cancelled")+" "+statusStyle.Render(formatSince(job.UpdatedAt)))
	}
	if job.Error != "" {
		lines = append(lines, errorStyle.Render(truncateToWidth("error: "+job.Error, max(1, width))))
	}
	lines = append(lines, "")

	lines = append(lines, headerStyle.Render("Activity"))
	if len(job.Activity) == 0 {
		lines = append(lines, helpStyle.Render("(no activity yet)"))
	} else {
		for _, item := range job.Activity {
			lines = append(lines, renderActivityLine(item, width))
		}
	}

	if job.Status == types.JobStatusFailed && len(job.StdoutTail) > 0 {
		lines = append(lines, "", headerStyle.Render("Stdout tail"))
		for _, line := range job.StdoutTail {
			lines = append(lines, statusStyle.Render(truncateToWidth(line, max(1, width))))
		}
	}
	return lines
}

func renderActivityLine(item types.ActivityItem, width int) string {
	ts := "--:--:--"
	if !item.Timestamp.IsZero() {
		ts = item.Timestamp.Local().Format("15:04:05")
	}
	tag := "[" + string(item.Source) + "]"
	head := activityTimeStyle.Render(ts) + " " + activityTagStyle.Render(tag) + " "
	message := item.Message
	if avail := width - xansi.StringWidth(ts) - xansi.StringWidth(tag) - 2; avail > 0 {
		message = truncateToWidth(message, avail)
	}
	return head + message
}

func statusText(status types.JobStatus) string {
	switch status {
	case types.JobStatusRunning:
		return dotRunningStyle.Render("RUNNING")
	case types.JobStatusCompleted:
		return dotDoneStyle.Render("COMPLETED")
	case types.JobStatusFailed:
		return errorStyle.Render("FAILED")
	case types.JobStatusCancelled:
		return dotIdleStyle.Render("CANCELLED")
	default:
		return dotIdleStyle.Render("QUEUED")
	}
}

func clampProgress(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
