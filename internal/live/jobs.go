package live

import (
	"sort"

	"outline/internal/types"
)

// JobEffects describes the follow-up work a feed mutation calls for. The
// feed itself never performs I/O; the caller issues the fetches.
type JobEffects struct {
	// FetchResult names a job whose result should be fetched now.
	FetchResult string
	// EnsureSession names a job whose chat session should be established.
	EnsureSession string
}

func (e JobEffects) Empty() bool {
	return e.FetchResult == "" && e.EnsureSession == ""
}

type reactionKey struct {
	jobID  string
	status types.JobStatus
}

// JobFeed reconciles pull snapshots and push updates into one canonical
// job view: the ordered summary list, the per-job details seen so far, and
// the selection. Snapshot fetches and push updates write through the same
// merge, so whichever resolves later wins, subject to the monotonic guard:
// while a job stays RUNNING, a later-arriving update never lowers its
// progress or regresses its stage.
//
// Methods must be called from a single goroutine.
type JobFeed struct {
	summaries []*types.JobSummary
	details   map[string]*types.JobDetail
	selected  string
	reacted   map[reactionKey]bool
	lastError string
	degraded  bool
}

func NewJobFeed() *JobFeed {
	return &JobFeed{
		details: make(map[string]*types.JobDetail),
		reacted: make(map[reactionKey]bool),
	}
}

// ApplySummaries replaces the summary list from a snapshot, keeping the
// monotonic guard against values already shown.
func (f *JobFeed) ApplySummaries(list []*types.JobSummary) JobEffects {
	merged := make([]*types.JobSummary, 0, len(list))
	for _, s := range list {
		if s == nil || s.ID == "" {
			continue
		}
		m := *s
		clampRunning(f.lookup(m.ID), &m)
		merged = append(merged, &m)
	}
	f.summaries = merged
	f.sortSummaries()
	if sel := f.lookup(f.selected); sel != nil {
		return f.react(sel.ID, sel.Status)
	}
	return JobEffects{}
}

// ApplyDetail merges one job detail, whether it arrived by snapshot fetch
// or push update. The summary list entry is re-projected from the detail,
// so both stay consistent.
func (f *JobFeed) ApplyDetail(detail *types.JobDetail) JobEffects {
	if detail == nil || detail.ID == "" {
		return JobEffects{}
	}
	d := *detail
	clampRunning(f.lookup(d.ID), &d.JobSummary)
	f.details[d.ID] = &d
	f.upsertSummary(d.Summary())
	f.degraded = false
	return f.react(d.ID, d.Status)
}

// ApplyActivity appends one activity entry to the job's detail, if held.
func (f *JobFeed) ApplyActivity(ev types.JobActivityEvent) {
	f.degraded = false
	d, ok := f.details[ev.JobID]
	if !ok {
		return
	}
	d.Activity = append(d.Activity, ev.Activity)
}

// ApplyJobError records a pushed error message for banner display. The
// authoritative job status still arrives via the accompanying update.
func (f *JobFeed) ApplyJobError(ev types.JobErrorEvent) {
	f.degraded = false
	f.lastError = ev.Error
}

// ApplyCompleted handles the explicit completion event. The result file
// pointer lands on the held detail; completion side effects fire through
// the same once-per-status gate as a terminal update.
func (f *JobFeed) ApplyCompleted(ev types.JobCompletedEvent) JobEffects {
	f.degraded = false
	if d, ok := f.details[ev.JobID]; ok && ev.ResultFile != "" {
		d.ResultFile = ev.ResultFile
	}
	return f.react(ev.JobID, types.JobStatusCompleted)
}

// Select changes the selected job. Selecting a job already COMPLETED asks
// for its result and chat session immediately; both calls are idempotent
// against the server, and the reaction gate keeps later duplicate updates
// from re-issuing them.
func (f *JobFeed) Select(jobID string) JobEffects {
	if jobID == f.selected {
		return JobEffects{}
	}
	f.selected = jobID
	if s := f.lookup(jobID); s != nil && s.Status == types.JobStatusCompleted {
		f.reacted[reactionKey{jobID, s.Status}] = true
		return JobEffects{FetchResult: jobID, EnsureSession: jobID}
	}
	return JobEffects{}
}

// react fires the status-transition side effects, at most once per status
// value a job reaches. Only the selected job's completion triggers fetches.
func (f *JobFeed) react(jobID string, status types.JobStatus) JobEffects {
	if status.Terminal() {
		f.degraded = false
	}
	var fx JobEffects
	if status == types.JobStatusCompleted && jobID == f.selected {
		key := reactionKey{jobID, status}
		if !f.reacted[key] {
			f.reacted[key] = true
			fx.FetchResult = jobID
			fx.EnsureSession = jobID
		}
	}
	return fx
}

func (f *JobFeed) SelectedID() string {
	return f.selected
}

// Selected returns the held detail for the selected job, if any.
func (f *JobFeed) Selected() *types.JobDetail {
	if f.selected == "" {
		return nil
	}
	return f.details[f.selected]
}

// SelectedSummary returns the summary row for the selected job.
func (f *JobFeed) SelectedSummary() *types.JobSummary {
	return f.lookup(f.selected)
}

// Summaries returns the canonical list, most recently created first.
// Callers must not mutate the returned slice.
func (f *JobFeed) Summaries() []*types.JobSummary {
	return f.summaries
}

func (f *JobFeed) Job(jobID string) (*types.JobSummary, bool) {
	s := f.lookup(jobID)
	return s, s != nil
}

// ActiveTarget is the job the event channel should watch: the first
// RUNNING job in list order, or the selected job when nothing is running.
func (f *JobFeed) ActiveTarget() (string, bool) {
	for _, s := range f.summaries {
		if s.Status == types.JobStatusRunning {
			return s.ID, true
		}
	}
	if f.selected != "" {
		return f.selected, true
	}
	return "", false
}

// NoteConnectionLost raises the degraded warning. It clears when any
// subsequent event applies or the tracked job reaches a terminal status.
func (f *JobFeed) NoteConnectionLost() {
	f.degraded = true
}

func (f *JobFeed) Degraded() bool {
	return f.degraded
}

func (f *JobFeed) LastError() string {
	return f.lastError
}

func (f *JobFeed) ClearError() {
	f.lastError = ""
}

func (f *JobFeed) lookup(jobID string) *types.JobSummary {
	if jobID == "" {
		return nil
	}
	for _, s := range f.summaries {
		if s.ID == jobID {
			return s
		}
	}
	return nil
}

func (f *JobFeed) upsertSummary(s types.JobSummary) {
	for i, existing := range f.summaries {
		if existing.ID == s.ID {
			f.summaries[i] = &s
			f.sortSummaries()
			return
		}
	}
	f.summaries = append(f.summaries, &s)
	f.sortSummaries()
}

func (f *JobFeed) sortSummaries() {
	sort.SliceStable(f.summaries, func(i, j int) bool {
		return f.summaries[i].CreatedAt.After(f.summaries[j].CreatedAt)
	})
}

// clampRunning applies the monotonic display guard in place: progress and
// stage never regress while both the held and incoming rows are RUNNING.
func clampRunning(prev *types.JobSummary, incoming *types.JobSummary) {
	if prev == nil || prev.Status != types.JobStatusRunning || incoming.Status != types.JobStatusRunning {
		return
	}
	if incoming.Progress < prev.Progress {
		incoming.Progress = prev.Progress
	}
	if incoming.Stage.Rank() < prev.Stage.Rank() {
		incoming.Stage = prev.Stage
	}
}
