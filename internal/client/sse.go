package client

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"outline/internal/config"
	"outline/internal/logging"
)

// StreamEvent is one named server-sent event with its undecoded payload.
type StreamEvent struct {
	Name string
	Data json.RawMessage
}

func streamDebugEnabled() bool {
	return strings.TrimSpace(os.Getenv("OUTLINE_DEBUG_STREAM")) == "1"
}

var (
	streamLogger     logging.Logger
	streamLoggerOnce sync.Once
)

func streamLog() logging.Logger {
	if !streamDebugEnabled() {
		return logging.Nop()
	}
	streamLoggerOnce.Do(func() {
		path := ""
		if dataDir, err := config.DataDir(); err == nil {
			path = filepath.Join(dataDir, "stream.log")
		}
		if path == "" {
			path = filepath.Join(os.TempDir(), "outline-stream.log")
		}
		logger, _, err := logging.NewFileLogger(path, logging.Debug)
		if err != nil {
			logger = logging.New(os.Stderr, logging.Debug)
		}
		streamLogger = logger
	})
	return streamLogger
}

// JobEvents opens the push channel for one job. The returned channel closes
// when the stream ends for any reason; cancel tears the connection down.
func (c *Client) JobEvents(ctx context.Context, jobID string) (<-chan StreamEvent, func(), error) {
	return c.openStream(ctx, "/api/jobs/"+jobID+"/events", "job", jobID)
}

// ChatRunEvents opens the push channel for one chat run.
func (c *Client) ChatRunEvents(ctx context.Context, sessionID, runID string) (<-chan StreamEvent, func(), error) {
	path := "/api/chat/sessions/" + sessionID + "/runs/" + runID + "/events"
	return c.openStream(ctx, path, "chat", sessionID+"/"+runID)
}

func (c *Client) openStream(ctx context.Context, path, kind, target string) (<-chan StreamEvent, func(), error) {
	logger := streamLog().With(
		logging.F("conn", logging.NewStreamID()),
		logging.F("kind", kind),
		logging.F("target", target),
	)

	ctx, cancel := context.WithCancel(ctx)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	httpClient := &http.Client{Transport: c.http.Transport}
	resp, err := httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		cancel()
		logger.Debug("stream rejected", logging.F("status", resp.StatusCode))
		return nil, nil, decodeAPIError(resp)
	}
	logger.Debug("stream open")

	ch := make(chan StreamEvent, 64)
	go func() {
		defer close(ch)
		defer resp.Body.Close()

		start := time.Now()
		count := 0
		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		name := ""
		var dataLines []string

		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				if len(dataLines) > 0 {
					event := StreamEvent{
						Name: name,
						Data: json.RawMessage(strings.Join(dataLines, "\n")),
					}
					// Blocking send: dropping an event here would lose
					// answer deltas, so slow consumers stall the reader
					// instead.
					select {
					case ch <- event:
					case <-ctx.Done():
						return
					}
					count++
					logger.Debug("stream event", logging.F("event", event.Name), logging.F("bytes", len(event.Data)))
				}
				name = ""
				dataLines = dataLines[:0]
				continue
			}
			if strings.HasPrefix(line, ":") {
				continue
			}
			if strings.HasPrefix(line, "event:") {
				name = strings.TrimSpace(line[len("event:"):])
				continue
			}
			if strings.HasPrefix(line, "data:") {
				dataLines = append(dataLines, strings.TrimSpace(line[len("data:"):]))
			}
		}
		if err := scanner.Err(); err != nil {
			logger.Debug("stream scan error", logging.F("err", err))
		}
		logger.Debug("stream close", logging.F("count", count), logging.F("dur", time.Since(start)))
	}()

	return ch, cancel, nil
}
