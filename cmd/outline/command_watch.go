package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"

	"outline/internal/live"
	"outline/internal/types"
)

const watchActivityLines = 5

type WatchCommand struct {
	stdout    io.Writer
	stderr    io.Writer
	newClient clientFactory
}

func NewWatchCommand(stdout, stderr io.Writer, newClient clientFactory) *WatchCommand {
	return &WatchCommand{
		stdout:    stdout,
		stderr:    stderr,
		newClient: newClient,
	}
}

// WatchJob follows jobID with the default live view; submit -watch chains
// through here.
func (c *WatchCommand) WatchJob(jobID string) error {
	return c.Run([]string{jobID})
}

func (c *WatchCommand) Run(args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	plain := fs.Bool("plain", false, "line output instead of the live view")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("watch requires a job id")
	}
	jobID := fs.Arg(0)

	client, err := c.newClient()
	if err != nil {
		return err
	}
	if *plain {
		return c.runPlain(context.Background(), client, jobID)
	}
	return c.runLive(client, jobID)
}

type connectionLostEvent struct{}

// runPlain follows the job with one status line per change, suitable for
// logs and pipes. The loop exits on the first terminal status it sees,
// whether it arrives by event or by snapshot after a reconnect.
func (c *WatchCommand) runPlain(ctx context.Context, client commandClient, jobID string) error {
	events := make(chan any, 64)
	channel := live.NewJobChannel(client, live.JobHandlers{
		Update:         func(ev types.JobUpdateEvent) { events <- ev },
		Activity:       func(ev types.JobActivityEvent) { events <- ev },
		JobError:       func(ev types.JobErrorEvent) { events <- ev },
		Completed:      func(ev types.JobCompletedEvent) { events <- ev },
		ConnectionLost: func(string) { events <- connectionLostEvent{} },
	})
	if err := channel.Subscribe(jobID); err != nil {
		return err
	}
	defer channel.Unsubscribe()

	detail, err := client.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	last := c.printProgress("", detail)
	if detail.Status.Terminal() {
		return watchOutcome(detail)
	}

	for ev := range events {
		switch ev := ev.(type) {
		case types.JobUpdateEvent:
			job := ev.Job
			last = c.printProgress(last, &job)
			if job.Status.Terminal() {
				return watchOutcome(&job)
			}
		case types.JobActivityEvent:
			fmt.Fprintf(c.stdout, "  %s %s\n", ev.Activity.Timestamp.Local().Format("15:04:05"), ev.Activity.Message)
		case types.JobErrorEvent:
			fmt.Fprintf(c.stderr, "job error: %s\n", ev.Error)
		case types.JobCompletedEvent:
			final, err := client.GetJob(ctx, jobID)
			if err != nil {
				return err
			}
			c.printProgress(last, final)
			return watchOutcome(final)
		case connectionLostEvent:
			fmt.Fprintln(c.stderr, "connection lost; retrying")
			// The terminal event may have been missed while disconnected.
			final, err := client.GetJob(ctx, jobID)
			if err != nil {
				continue
			}
			last = c.printProgress(last, final)
			if final.Status.Terminal() {
				return watchOutcome(final)
			}
		}
	}
	return nil
}

func (c *WatchCommand) printProgress(last string, detail *types.JobDetail) string {
	line := fmt.Sprintf("%s  %s  %s  %s", detail.ID, detail.Status, detail.Stage, formatProgress(detail.Progress))
	if line != last {
		fmt.Fprintln(c.stdout, line)
	}
	return line
}

func (c *WatchCommand) runLive(client commandClient, jobID string) error {
	model := newWatchModel(jobID, client)
	p := tea.NewProgram(&model)

	channel := live.NewJobChannel(client, live.JobHandlers{
		Update:         func(ev types.JobUpdateEvent) { p.Send(watchUpdateMsg{detail: ev.Job}) },
		Activity:       func(ev types.JobActivityEvent) { p.Send(watchActivityMsg{item: ev.Activity}) },
		JobError:       func(ev types.JobErrorEvent) { p.Send(watchJobErrorMsg{text: ev.Error}) },
		Completed:      func(ev types.JobCompletedEvent) { p.Send(watchCompletedMsg{}) },
		ConnectionLost: func(string) { p.Send(watchLostMsg{}) },
	})
	model.subscribe = func() error { return channel.Subscribe(jobID) }
	defer channel.Unsubscribe()

	finalModel, err := p.Run()
	if err != nil {
		return err
	}
	final, ok := finalModel.(*watchModel)
	if !ok {
		return nil
	}
	if final.err != nil {
		return final.err
	}
	if final.stopped || final.detail == nil {
		return nil
	}
	return watchOutcome(final.detail)
}

func watchOutcome(detail *types.JobDetail) error {
	switch detail.Status {
	case types.JobStatusFailed:
		if detail.Error != "" {
			return fmt.Errorf("job failed: %s", detail.Error)
		}
		return errors.New("job failed")
	case types.JobStatusCancelled:
		return errors.New("job cancelled")
	}
	return nil
}

type watchUpdateMsg struct{ detail types.JobDetail }
type watchActivityMsg struct{ item types.ActivityItem }
type watchJobErrorMsg struct{ text string }
type watchCompletedMsg struct{}
type watchLostMsg struct{}

type watchSnapshotMsg struct {
	detail *types.JobDetail
	err    error
}

// watchModel is the inline live view: one job header, a progress bar, and
// the tail of the activity feed. It quits itself on the first terminal
// status.
type watchModel struct {
	jobID     string
	api       commandClient
	subscribe func() error

	detail    *types.JobDetail
	bar       progress.Model
	activity  []types.ActivityItem
	lastError string
	lost      bool
	stopped   bool
	done      bool
	err       error
}

func newWatchModel(jobID string, api commandClient) watchModel {
	return watchModel{
		jobID: jobID,
		api:   api,
		bar:   progress.New(progress.WithDefaultBlend(), progress.WithWidth(40)),
	}
}

func (m *watchModel) Init() tea.Cmd {
	return tea.Batch(m.subscribeCmd(), m.snapshotCmd())
}

func (m *watchModel) subscribeCmd() tea.Cmd {
	return func() tea.Msg {
		if m.subscribe == nil {
			return nil
		}
		if err := m.subscribe(); err != nil {
			return watchSnapshotMsg{err: err}
		}
		return nil
	}
}

func (m *watchModel) snapshotCmd() tea.Cmd {
	api := m.api
	jobID := m.jobID
	return func() tea.Msg {
		detail, err := api.GetJob(context.Background(), jobID)
		return watchSnapshotMsg{detail: detail, err: err}
	}
}

func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.stopped = true
			return m, tea.Quit
		}
	case watchSnapshotMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.applyDetail(msg.detail)
		if m.done {
			return m, tea.Quit
		}
	case watchUpdateMsg:
		job := msg.detail
		m.applyDetail(&job)
		if m.done {
			return m, tea.Quit
		}
	case watchActivityMsg:
		m.pushActivity(msg.item)
	case watchJobErrorMsg:
		m.lastError = msg.text
	case watchCompletedMsg:
		return m, m.snapshotCmd()
	case watchLostMsg:
		m.lost = true
		return m, m.snapshotCmd()
	}
	return m, nil
}

func (m *watchModel) applyDetail(detail *types.JobDetail) {
	if detail == nil || detail.ID != m.jobID {
		return
	}
	m.detail = detail
	m.lost = false
	if len(m.activity) == 0 && len(detail.Activity) > 0 {
		tail := detail.Activity
		if len(tail) > watchActivityLines {
			tail = tail[len(tail)-watchActivityLines:]
		}
		m.activity = append(m.activity, tail...)
	}
	if detail.Status.Terminal() {
		m.done = true
	}
}

func (m *watchModel) pushActivity(item types.ActivityItem) {
	m.activity = append(m.activity, item)
	if len(m.activity) > watchActivityLines {
		m.activity = m.activity[len(m.activity)-watchActivityLines:]
	}
}

func (m *watchModel) View() tea.View {
	return tea.NewView(m.render())
}

func (m *watchModel) render() string {
	if m.detail == nil {
		if m.err != nil {
			return ""
		}
		return "contacting server…\n"
	}
	d := m.detail
	var b strings.Builder
	fmt.Fprintf(&b, "%s  [%s]  %s\n", d.Filename, strings.ToUpper(string(d.InputType)), d.ID)
	fmt.Fprintf(&b, "%s · %s\n", d.Status, d.Stage)
	pct := d.Progress
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	fmt.Fprintf(&b, "%s %s\n", m.bar.ViewAs(pct), formatProgress(d.Progress))
	for _, item := range m.activity {
		fmt.Fprintf(&b, "  %s %s\n", item.Timestamp.Local().Format("15:04:05"), item.Message)
	}
	if m.lastError != "" {
		fmt.Fprintf(&b, "error: %s\n", m.lastError)
	}
	if m.lost {
		b.WriteString("connection lost; retrying\n")
	}
	if !m.done {
		b.WriteString("press q to stop watching\n")
	}
	return b.String()
}
