package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	outlineclient "outline/internal/client"
	"outline/internal/live"
	"outline/internal/outline"
	"outline/internal/types"
)

type AskCommand struct {
	stdout    io.Writer
	stderr    io.Writer
	newClient clientFactory
}

func NewAskCommand(stdout, stderr io.Writer, newClient clientFactory) *AskCommand {
	return &AskCommand{
		stdout:    stdout,
		stderr:    stderr,
		newClient: newClient,
	}
}

type askConnectionLost struct{}

func (c *AskCommand) Run(args []string) error {
	fs := flag.NewFlagSet("ask", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	thinking := fs.Bool("thinking", false, "print the retrieval rationale to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return errors.New("ask requires a job id and a question")
	}
	jobID := fs.Arg(0)
	question := strings.Join(fs.Args()[1:], " ")

	ctx := context.Background()
	client, err := c.newClient()
	if err != nil {
		return err
	}

	job, err := client.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status != types.JobStatusCompleted {
		return fmt.Errorf("job %s is %s; ask needs a completed job", jobID, job.Status)
	}

	session, err := live.EnsureSession(ctx, client, jobID)
	if err != nil {
		return err
	}

	chat := live.NewChatCoordinator()
	chat.ApplySession(session)

	content, err := chat.BeginSend(question)
	if err != nil {
		return err
	}
	resp, err := client.SendChatMessage(ctx, session.ID, content)
	if err != nil {
		chat.FailSend(err)
		return err
	}
	chat.ApplySendAccepted(*resp, content, time.Now())

	return c.stream(ctx, client, chat, session.ID, resp, *thinking)
}

// stream drives the coordinator from the run's event channel and mirrors
// the accumulating answer onto stdout. On connection loss the session
// snapshot is the source of truth: any text the stream missed is printed
// from the snapshot, and a terminal status found there ends the command.
func (c *AskCommand) stream(ctx context.Context, client commandClient, chat *live.ChatCoordinator, sessionID string, resp *outlineclient.SendMessageResponse, showThinking bool) error {
	events := make(chan any, 64)
	channel := live.NewChatChannel(client, live.ChatHandlers{
		RunStarted:         func(ev types.ChatRunStartedEvent) { events <- ev },
		RetrievalCompleted: func(ev types.ChatRetrievalCompletedEvent) { events <- ev },
		AnswerDelta:        func(ev types.ChatAnswerDeltaEvent) { events <- ev },
		AnswerCompleted:    func(ev types.ChatAnswerCompletedEvent) { events <- ev },
		RunCompleted:       func(ev types.ChatRunCompletedEvent) { events <- ev },
		RunFailed:          func(ev types.ChatRunFailedEvent) { events <- ev },
		ConnectionLost:     func(string, string) { events <- askConnectionLost{} },
	})
	if err := channel.Subscribe(sessionID, resp.RunID); err != nil {
		return err
	}
	defer channel.Unsubscribe()

	printed := 0
	for ev := range events {
		switch ev := ev.(type) {
		case types.ChatRunStartedEvent:
			chat.ApplyRunStarted(ev)
		case types.ChatRetrievalCompletedEvent:
			chat.ApplyRetrievalCompleted(ev)
			if showThinking && strings.TrimSpace(ev.Thinking) != "" {
				fmt.Fprintf(c.stderr, "retrieval: %s\n", strings.TrimSpace(ev.Thinking))
			}
		case types.ChatAnswerDeltaEvent:
			chat.ApplyAnswerDelta(ev)
			if ev.AssistantMessageID == resp.AssistantMessageID {
				fmt.Fprint(c.stdout, ev.Delta)
				printed += len(ev.Delta)
			}
		case types.ChatAnswerCompletedEvent:
			chat.ApplyAnswerCompleted(ev)
		case types.ChatRunCompletedEvent:
			chat.ApplyRunCompleted(ev)
			return c.finish(printed, answerFor(chat, resp.AssistantMessageID))
		case types.ChatRunFailedEvent:
			chat.ApplyRunFailed(ev)
			return c.failed(printed, ev.Error)
		case askConnectionLost:
			chat.NoteConnectionLost()
			fmt.Fprintln(c.stderr, "connection lost; retrying")
			detail, err := client.GetChatSession(ctx, sessionID)
			if err != nil {
				continue
			}
			run := findRun(detail, resp.RunID)
			if run != nil && run.Status.Terminal() {
				msg := findMessage(detail, resp.AssistantMessageID)
				if msg != nil && len(msg.Content) > printed {
					fmt.Fprint(c.stdout, msg.Content[printed:])
					printed = len(msg.Content)
				}
				if run.Status == types.RunStatusFailed {
					chat.ApplyRunFailed(types.ChatRunFailedEvent{SessionID: sessionID, RunID: run.ID, Error: run.Error, Timestamp: run.UpdatedAt})
					return c.failed(printed, run.Error)
				}
				chat.ApplyRunCompleted(types.ChatRunCompletedEvent{SessionID: sessionID, RunID: run.ID, Timestamp: run.UpdatedAt})
				chat.ApplySession(detail)
				return c.finish(printed, msg)
			}
			// Run still in flight: sync any text the stream missed.
			if chat.ApplySession(detail) {
				if msg := answerFor(chat, resp.AssistantMessageID); msg != nil && len(msg.Content) > printed {
					fmt.Fprint(c.stdout, msg.Content[printed:])
					printed = len(msg.Content)
				}
			}
		}
	}
	return nil
}

func (c *AskCommand) finish(printed int, msg *types.ChatMessage) error {
	if printed > 0 {
		fmt.Fprintln(c.stdout)
	}
	if msg == nil || len(msg.Citations) == 0 {
		return nil
	}
	fmt.Fprintln(c.stdout)
	fmt.Fprintln(c.stdout, "Sources:")
	for _, label := range outline.CitationLabels(msg.Citations) {
		if strings.TrimSpace(label) == "" {
			continue
		}
		fmt.Fprintf(c.stdout, "- %s\n", label)
	}
	return nil
}

func (c *AskCommand) failed(printed int, errText string) error {
	if printed > 0 {
		fmt.Fprintln(c.stdout)
	}
	errText = strings.TrimSpace(errText)
	if errText != "" {
		return fmt.Errorf("run failed: %s", errText)
	}
	return errors.New("run failed")
}

func answerFor(chat *live.ChatCoordinator, messageID string) *types.ChatMessage {
	msgs := chat.Messages()
	for i := range msgs {
		if msgs[i].ID == messageID {
			return &msgs[i]
		}
	}
	return nil
}

func findRun(detail *types.ChatSessionDetail, runID string) *types.ChatRun {
	for i := range detail.Runs {
		if detail.Runs[i].ID == runID {
			return &detail.Runs[i]
		}
	}
	return nil
}

func findMessage(detail *types.ChatSessionDetail, messageID string) *types.ChatMessage {
	for i := range detail.Messages {
		if detail.Messages[i].ID == messageID {
			return &detail.Messages[i]
		}
	}
	return nil
}
