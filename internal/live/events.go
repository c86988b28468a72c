package live

import (
	"context"

	"outline/internal/client"
	"outline/internal/logging"
	"outline/internal/types"
)

// JobStreams opens the push event stream for one job.
type JobStreams interface {
	JobEvents(ctx context.Context, jobID string) (<-chan client.StreamEvent, func(), error)
}

// ChatStreams opens the push event stream for one chat run.
type ChatStreams interface {
	ChatRunEvents(ctx context.Context, sessionID, runID string) (<-chan client.StreamEvent, func(), error)
}

// JobHandlers receives typed job events. Handlers run on the stream's
// reader goroutine; consumers that need serialization forward the payload
// into their own event loop. Nil handlers are skipped.
type JobHandlers struct {
	Update         func(types.JobUpdateEvent)
	Activity       func(types.JobActivityEvent)
	JobError       func(types.JobErrorEvent)
	Completed      func(types.JobCompletedEvent)
	ConnectionLost func(jobID string)
}

// ChatHandlers receives typed chat run events, same dispatch rules as
// JobHandlers.
type ChatHandlers struct {
	RunStarted         func(types.ChatRunStartedEvent)
	RetrievalCompleted func(types.ChatRetrievalCompletedEvent)
	AnswerDelta        func(types.ChatAnswerDeltaEvent)
	AnswerCompleted    func(types.ChatAnswerCompletedEvent)
	RunCompleted       func(types.ChatRunCompletedEvent)
	RunFailed          func(types.ChatRunFailedEvent)
	ConnectionLost     func(sessionID, runID string)
}

// JobChannel maintains at most one job subscription at a time.
type JobChannel struct {
	core     *channel
	streams  JobStreams
	handlers JobHandlers
	logger   logging.Logger
}

func NewJobChannel(streams JobStreams, handlers JobHandlers, opts ...ChannelOption) *JobChannel {
	core := newChannel(opts...)
	return &JobChannel{core: core, streams: streams, handlers: handlers, logger: core.logger}
}

// Subscribe watches jobID, replacing any previous subscription. Calling it
// again for the same job while the stream is healthy is a no-op.
func (c *JobChannel) Subscribe(jobID string) error {
	if err := requireID("job id", jobID); err != nil {
		return err
	}
	open := func(ctx context.Context) (<-chan client.StreamEvent, func(), error) {
		return c.streams.JobEvents(ctx, jobID)
	}
	lost := func() {
		if c.handlers.ConnectionLost != nil {
			c.handlers.ConnectionLost(jobID)
		}
	}
	return c.core.subscribe(jobID, open, c.dispatch, lost)
}

func (c *JobChannel) Unsubscribe() {
	c.core.unsubscribe()
}

// Target returns the currently subscribed job id, if any.
func (c *JobChannel) Target() (string, bool) {
	return c.core.target()
}

// dispatch routes one event to its typed handler and reports whether it
// was terminal for the job: an explicit completion event, or an update
// whose status is terminal.
func (c *JobChannel) dispatch(ev client.StreamEvent) bool {
	switch ev.Name {
	case types.EventJobUpdate:
		var payload types.JobUpdateEvent
		if !decodeEvent(c.logger, ev, &payload) {
			return false
		}
		if c.handlers.Update != nil {
			c.handlers.Update(payload)
		}
		return payload.Job.Status.Terminal()
	case types.EventJobActivity:
		var payload types.JobActivityEvent
		if !decodeEvent(c.logger, ev, &payload) {
			return false
		}
		if c.handlers.Activity != nil {
			c.handlers.Activity(payload)
		}
	case types.EventJobError:
		var payload types.JobErrorEvent
		if !decodeEvent(c.logger, ev, &payload) {
			return false
		}
		if c.handlers.JobError != nil {
			c.handlers.JobError(payload)
		}
	case types.EventJobCompleted:
		var payload types.JobCompletedEvent
		if !decodeEvent(c.logger, ev, &payload) {
			return false
		}
		if c.handlers.Completed != nil {
			c.handlers.Completed(payload)
		}
		return true
	default:
		c.logger.Debug("ignoring unknown event", logging.F("event", ev.Name))
	}
	return false
}

// ChatChannel maintains at most one chat run subscription at a time.
type ChatChannel struct {
	core     *channel
	streams  ChatStreams
	handlers ChatHandlers
	logger   logging.Logger
}

func NewChatChannel(streams ChatStreams, handlers ChatHandlers, opts ...ChannelOption) *ChatChannel {
	core := newChannel(opts...)
	return &ChatChannel{core: core, streams: streams, handlers: handlers, logger: core.logger}
}

// Subscribe watches one run within a session, replacing any previous
// subscription.
func (c *ChatChannel) Subscribe(sessionID, runID string) error {
	if err := requireID("session id", sessionID); err != nil {
		return err
	}
	if err := requireID("run id", runID); err != nil {
		return err
	}
	open := func(ctx context.Context) (<-chan client.StreamEvent, func(), error) {
		return c.streams.ChatRunEvents(ctx, sessionID, runID)
	}
	lost := func() {
		if c.handlers.ConnectionLost != nil {
			c.handlers.ConnectionLost(sessionID, runID)
		}
	}
	return c.core.subscribe(sessionID+"/"+runID, open, c.dispatch, lost)
}

func (c *ChatChannel) Unsubscribe() {
	c.core.unsubscribe()
}

func (c *ChatChannel) Target() (string, bool) {
	return c.core.target()
}

func (c *ChatChannel) dispatch(ev client.StreamEvent) bool {
	switch ev.Name {
	case types.EventChatRunStarted:
		var payload types.ChatRunStartedEvent
		if !decodeEvent(c.logger, ev, &payload) {
			return false
		}
		if c.handlers.RunStarted != nil {
			c.handlers.RunStarted(payload)
		}
	case types.EventChatRetrievalCompleted:
		var payload types.ChatRetrievalCompletedEvent
		if !decodeEvent(c.logger, ev, &payload) {
			return false
		}
		if c.handlers.RetrievalCompleted != nil {
			c.handlers.RetrievalCompleted(payload)
		}
	case types.EventChatAnswerDelta:
		var payload types.ChatAnswerDeltaEvent
		if !decodeEvent(c.logger, ev, &payload) {
			return false
		}
		if c.handlers.AnswerDelta != nil {
			c.handlers.AnswerDelta(payload)
		}
	case types.EventChatAnswerCompleted:
		var payload types.ChatAnswerCompletedEvent
		if !decodeEvent(c.logger, ev, &payload) {
			return false
		}
		if c.handlers.AnswerCompleted != nil {
			c.handlers.AnswerCompleted(payload)
		}
	case types.EventChatRunCompleted:
		var payload types.ChatRunCompletedEvent
		if !decodeEvent(c.logger, ev, &payload) {
			return false
		}
		if c.handlers.RunCompleted != nil {
			c.handlers.RunCompleted(payload)
		}
		return true
	case types.EventChatRunFailed:
		var payload types.ChatRunFailedEvent
		if !decodeEvent(c.logger, ev, &payload) {
			return false
		}
		if c.handlers.RunFailed != nil {
			c.handlers.RunFailed(payload)
		}
		return true
	default:
		c.logger.Debug("ignoring unknown event", logging.F("event", ev.Name))
	}
	return false
}
