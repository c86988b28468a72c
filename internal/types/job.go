package types

import "time"

type JobStatus string

const (
	JobStatusQueued    JobStatus = "QUEUED"
	JobStatusRunning   JobStatus = "RUNNING"
	JobStatusCompleted JobStatus = "COMPLETED"
	JobStatusFailed    JobStatus = "FAILED"
	JobStatusCancelled JobStatus = "CANCELLED"
)

// Terminal reports whether the status can no longer change.
func (s JobStatus) Terminal() bool {
	switch s {
	case JobStatusCompleted, JobStatusFailed, JobStatusCancelled:
		return true
	}
	return false
}

type InputType string

const (
	InputTypePDF      InputType = "pdf"
	InputTypeMarkdown InputType = "md"
)

type ActivitySource string

const (
	ActivitySourceStdout ActivitySource = "stdout"
	ActivitySourceStderr ActivitySource = "stderr"
	ActivitySourceLog    ActivitySource = "log"
	ActivitySourceSystem ActivitySource = "system"
)

type ActivityItem struct {
	Timestamp time.Time      `json:"timestamp"`
	Source    ActivitySource `json:"source"`
	Message   string         `json:"message"`
}

type JobSummary struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	InputType InputType `json:"input_type"`
	Status    JobStatus `json:"status"`
	Stage     JobStage  `json:"stage"`
	Progress  float64   `json:"progress"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type JobDetail struct {
	JobSummary
	Options    map[string]any `json:"options,omitempty"`
	ResultFile string         `json:"result_file,omitempty"`
	Error      string         `json:"error,omitempty"`
	StdoutTail []string       `json:"stdout_tail,omitempty"`
	Activity   []ActivityItem `json:"activity,omitempty"`
}

// Summary projects the detail down to its listing fields.
func (d JobDetail) Summary() JobSummary {
	return d.JobSummary
}
