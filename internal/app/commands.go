package app

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"outline/internal/live"
	"outline/internal/outline"
)

func checkHealthCmd(api JobAPI) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		defer cancel()
		_, err := api.Health(ctx)
		return healthMsg{err: err}
	}
}

func fetchJobsCmd(api JobAPI) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		defer cancel()
		jobs, err := api.ListJobs(ctx)
		return jobsMsg{jobs: jobs, err: err}
	}
}

func fetchJobDetailCmd(api JobAPI, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		defer cancel()
		detail, err := api.GetJob(ctx, id)
		return jobDetailMsg{id: id, detail: detail, err: err}
	}
}

func cancelJobCmd(api JobAPI, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 6*time.Second)
		defer cancel()
		detail, err := api.CancelJob(ctx, id)
		return cancelMsg{id: id, detail: detail, err: err}
	}
}

// fetchResultCmd consults the local cache before asking the server. Result
// documents are immutable once written, so a hit never needs revalidation.
func fetchResultCmd(api JobAPI, cache ResultStore, jobID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if cache != nil {
			if raw, ok, err := cache.Get(ctx, jobID); err == nil && ok {
				doc, err := outline.ParseDocument(raw)
				if err == nil {
					return resultMsg{jobID: jobID, doc: doc, cached: true}
				}
				// A corrupt cache entry is dropped and refetched.
				_ = cache.Delete(ctx, jobID)
			}
		}
		raw, err := api.GetJobResult(ctx, jobID)
		if err != nil {
			return resultMsg{jobID: jobID, err: err}
		}
		doc, err := outline.ParseDocument(raw)
		if err != nil {
			return resultMsg{jobID: jobID, err: err}
		}
		if cache != nil {
			_ = cache.Put(ctx, jobID, raw)
		}
		return resultMsg{jobID: jobID, doc: doc}
	}
}

func ensureSessionCmd(api ChatAPI, jobID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 6*time.Second)
		defer cancel()
		session, err := live.EnsureSession(ctx, api, jobID)
		return sessionMsg{jobID: jobID, session: session, err: err}
	}
}

func resetSessionsCmd(api ChatAPI, jobID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
		defer cancel()
		session, deleted, err := live.ResetSessions(ctx, api, jobID)
		return sessionResetMsg{jobID: jobID, session: session, deleted: deleted, err: err}
	}
}

func refreshSessionCmd(api ChatAPI, sessionID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		defer cancel()
		session, err := api.GetChatSession(ctx, sessionID)
		jobID := ""
		if session != nil {
			jobID = session.JobID
		}
		return sessionMsg{jobID: jobID, session: session, err: err}
	}
}

func sendMessageCmd(api ChatAPI, sessionID, content string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		resp, err := api.SendChatMessage(ctx, sessionID, content)
		return sendMsg{sessionID: sessionID, content: content, resp: resp, err: err}
	}
}

func debounceSelectCmd(id string, seq int, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return selectDebounceMsg{id: id, seq: seq}
	})
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
