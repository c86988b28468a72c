package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/progress"
	"charm.land/bubbles/v2/textinput"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"

	"outline/internal/client"
	"outline/internal/config"
	"outline/internal/live"
	"outline/internal/logging"
	"outline/internal/outline"
	"outline/internal/store"
	"outline/internal/types"
)

const (
	maxTranscriptLines = 2000
	maxEventsPerTick   = 64
	tickInterval       = 100 * time.Millisecond
	selectionDebounce  = 500 * time.Millisecond
	minListWidth       = 24
	maxListWidth       = 40
	minViewportWidth   = 20
	minContentHeight   = 6
)

type uiMode int

const (
	uiModeNormal uiMode = iota
	uiModeChat
	uiModeConfirm
	uiModeHelp
)

type paneTab int

const (
	tabActivity paneTab = iota
	tabOutline
	tabChat
)

type confirmAction int

const (
	confirmNone confirmAction = iota
	confirmCancelJob
	confirmClearSessions
)

// ResultStore is the slice of the result cache the UI touches.
type ResultStore interface {
	Get(ctx context.Context, jobID string) ([]byte, bool, error)
	Put(ctx context.Context, jobID string, raw []byte) error
	Delete(ctx context.Context, jobID string) error
}

// resultEntry is one parsed result document plus its flattened node index,
// used to resolve citation labels without walking the tree per citation.
type resultEntry struct {
	doc    *types.ResultDocument
	nodes  map[string]*types.ResultNode
	cached bool
}

type Model struct {
	jobAPI  JobAPI
	chatAPI ChatAPI

	feed *live.JobFeed
	chat *live.ChatCoordinator

	jobEvents  *live.JobChannel
	chatEvents *live.ChatChannel
	queue      *liveQueue

	cache  ResultStore
	logger logging.Logger

	sidebar   Sidebar
	viewport  viewport.Model
	bar       progress.Model
	chatInput textinput.Model
	confirm   *ConfirmController

	pendingConfirm confirmAction
	confirmTarget  string

	results    map[string]*resultEntry
	transcript *Transcript

	mode   uiMode
	tab    paneTab
	status string

	width        int
	height       int
	listWidth    int
	contentWidth int
	bodyHeight   int

	showNodeIDs bool
	follow      bool
	markdown    bool

	selectSeq int

	baseURL  string
	serverOK bool
}

type ModelOption func(*Model)

func WithResultCache(cache ResultStore) ModelOption {
	return func(m *Model) {
		if m == nil || cache == nil {
			return
		}
		m.cache = cache
	}
}

func WithLogger(logger logging.Logger) ModelOption {
	return func(m *Model) {
		if m == nil || logger == nil {
			return
		}
		m.logger = logger
	}
}

func WithMarkdown(enabled bool) ModelOption {
	return func(m *Model) {
		if m == nil {
			return
		}
		m.markdown = enabled
	}
}

func NewModel(client *client.Client, opts ...ModelOption) Model {
	vp := viewport.New(viewport.WithWidth(minViewportWidth), viewport.WithHeight(minContentHeight-1))
	vp.SetContent("Loading jobs…")

	input := textinput.New()
	input.Placeholder = "ask about this document"
	input.CharLimit = 2000
	input.Prompt = promptStyle.Render("> ")

	baseURL := ""
	if client != nil {
		baseURL = client.BaseURL()
	}

	api := NewClientAPI(client)
	m := Model{
		jobAPI:     api,
		chatAPI:    api,
		feed:       live.NewJobFeed(),
		chat:       live.NewChatCoordinator(),
		queue:      newLiveQueue(),
		logger:     logging.Nop(),
		sidebar:    NewSidebar(),
		viewport:   vp,
		bar:        progress.New(progress.WithDefaultBlend(), progress.WithWidth(40)),
		chatInput:  input,
		confirm:    NewConfirmController(),
		results:    map[string]*resultEntry{},
		transcript: NewTranscript(maxTranscriptLines),
		mode:       uiModeNormal,
		tab:        tabActivity,
		follow:     true,
		markdown:   true,
		baseURL:    baseURL,
	}
	for _, opt := range opts {
		opt(&m)
	}
	// Channels pick up the configured logger, so they come after the options.
	m.jobEvents = newJobEventChannel(api, m.queue, m.logger)
	m.chatEvents = newChatEventChannel(api, m.queue, m.logger)
	return m
}

func Run(client *client.Client, settings config.Settings) error {
	setMarkdownBackgroundDark(settings.DarkBackground())
	opts := []ModelOption{WithMarkdown(settings.MarkdownEnabled())}

	if path, err := config.UILogPath(); err == nil {
		if logger, closer, err := logging.NewFileLogger(path, logging.ParseLevel(settings.LogLevel())); err == nil {
			defer closer.Close()
			opts = append(opts, WithLogger(logger))
		}
	}
	if path, err := config.ResultCachePath(); err == nil {
		if cache, err := store.OpenResultCache(path); err == nil {
			defer cache.Close()
			opts = append(opts, WithResultCache(cache))
		}
	}

	model := NewModel(client, opts...)
	p := tea.NewProgram(&model)
	_, err := p.Run()
	model.shutdown()
	return err
}

func (m *Model) shutdown() {
	m.jobEvents.Unsubscribe()
	m.chatEvents.Unsubscribe()
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(checkHealthCmd(m.jobAPI), fetchJobsCmd(m.jobAPI), m.bar.Init(), tickCmd())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.applyResize(msg.Width, msg.Height)
		return m, nil
	case tickMsg:
		cmds := m.consumeLiveTick()
		cmds = append(cmds, tickCmd())
		return m, tea.Batch(cmds...)
	case healthMsg:
		wasOK := m.serverOK
		m.serverOK = msg.err == nil
		if msg.err != nil {
			m.status = "health error: " + msg.err.Error()
		} else if !wasOK {
			m.status = "connected to " + m.baseURL
		}
		return m, nil
	case jobsMsg:
		return m.handleJobs(msg)
	case jobDetailMsg:
		return m.handleJobDetail(msg)
	case cancelMsg:
		return m.handleCancel(msg)
	case resultMsg:
		return m.handleResult(msg)
	case sessionMsg:
		return m.handleSession(msg)
	case sessionResetMsg:
		return m.handleSessionReset(msg)
	case sendMsg:
		return m.handleSend(msg)
	case selectDebounceMsg:
		if msg.seq != m.selectSeq {
			return m, nil
		}
		return m, tea.Batch(m.applySelection(msg.id)...)
	case progress.FrameMsg:
		var cmd tea.Cmd
		m.bar, cmd = m.bar.Update(msg)
		return m, cmd
	case tea.PasteMsg:
		if m.mode == uiModeChat {
			var cmd tea.Cmd
			m.chatInput, cmd = m.chatInput.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleJobs(msg jobsMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.status = "jobs error: " + msg.err.Error()
		return m, nil
	}
	fx := m.feed.ApplySummaries(msg.jobs)
	cmds := m.runJobEffects(fx)
	if m.feed.SelectedID() == "" {
		if summaries := m.feed.Summaries(); len(summaries) > 0 {
			cmds = append(cmds, m.applySelection(summaries[0].ID)...)
		}
	}
	m.syncSidebar()
	m.syncJobSubscription()
	m.refreshContent()
	return m, tea.Batch(cmds...)
}

func (m *Model) handleJobDetail(msg jobDetailMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.status = "job error: " + msg.err.Error()
		return m, nil
	}
	if msg.detail == nil {
		return m, nil
	}
	fx := m.feed.ApplyDetail(msg.detail)
	cmds := m.runJobEffects(fx)
	m.syncSidebar()
	m.syncJobSubscription()
	m.refreshContent()
	return m, tea.Batch(cmds...)
}

func (m *Model) handleCancel(msg cancelMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.status = "cancel error: " + msg.err.Error()
		return m, nil
	}
	m.status = "cancel requested"
	if msg.detail == nil {
		return m, fetchJobDetailCmd(m.jobAPI, msg.id)
	}
	fx := m.feed.ApplyDetail(msg.detail)
	cmds := m.runJobEffects(fx)
	m.syncSidebar()
	m.syncJobSubscription()
	m.refreshContent()
	return m, tea.Batch(cmds...)
}

func (m *Model) handleResult(msg resultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.status = "result error: " + msg.err.Error()
		return m, nil
	}
	if msg.doc == nil {
		return m, nil
	}
	m.results[msg.jobID] = &resultEntry{
		doc:    msg.doc,
		nodes:  outline.FlattenTree(msg.doc.Structure),
		cached: msg.cached,
	}
	if msg.jobID == m.feed.SelectedID() {
		if msg.cached {
			m.status = "result loaded (cache)"
		} else {
			m.status = "result loaded"
		}
		m.refreshContent()
	}
	return m, nil
}

func (m *Model) handleSession(msg sessionMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.status = "session error: " + msg.err.Error()
		return m, nil
	}
	if msg.session == nil {
		return m, nil
	}
	if msg.jobID != "" && msg.jobID != m.feed.SelectedID() {
		return m, nil
	}
	if !m.chat.ApplySession(msg.session) {
		return m, nil
	}
	m.rebuildTranscript()
	m.syncChatSubscription()
	m.refreshContent()
	return m, nil
}

func (m *Model) handleSessionReset(msg sessionResetMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.status = "clear chat error: " + msg.err.Error()
		return m, nil
	}
	if msg.jobID != m.feed.SelectedID() {
		return m, nil
	}
	m.chatEvents.Unsubscribe()
	m.chat.Clear()
	m.transcript.Reset()
	if msg.session != nil && m.chat.ApplySession(msg.session) {
		m.rebuildTranscript()
	}
	m.status = fmt.Sprintf("chat history cleared (%d sessions)", msg.deleted)
	m.refreshContent()
	return m, nil
}

func (m *Model) handleSend(msg sendMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.chat.FailSend(msg.err)
		m.status = "send error: " + msg.err.Error()
		m.refreshContent()
		return m, nil
	}
	if msg.resp == nil || msg.sessionID != m.chat.SessionID() {
		return m, nil
	}
	m.chat.ApplySendAccepted(*msg.resp, msg.content, time.Now())
	m.transcript.AppendQuestion(msg.content)
	m.transcript.StartAnswer()
	m.follow = true
	if err := m.chatEvents.Subscribe(msg.sessionID, msg.resp.RunID); err != nil {
		m.status = "chat stream error: " + err.Error()
	} else {
		m.status = "asked"
	}
	m.refreshContent()
	return m, nil
}

// consumeLiveTick drains queued stream messages and applies them, keeping
// all reconciler mutation on the UI goroutine. One tick applies at most
// maxEventsPerTick messages so a delta burst cannot stall rendering.
func (m *Model) consumeLiveTick() []tea.Cmd {
	drained := m.queue.drain(maxEventsPerTick)
	if len(drained) == 0 {
		return nil
	}
	var cmds []tea.Cmd
	for _, raw := range drained {
		cmds = append(cmds, m.applyLiveMsg(raw)...)
	}
	m.syncSidebar()
	m.syncJobSubscription()
	m.refreshContent()
	return cmds
}

func (m *Model) applyLiveMsg(raw tea.Msg) []tea.Cmd {
	switch msg := raw.(type) {
	case jobUpdateMsg:
		return m.runJobEffects(m.feed.ApplyDetail(&msg.ev.Job))
	case jobActivityMsg:
		m.feed.ApplyActivity(msg.ev)
	case jobErrorMsg:
		m.feed.ApplyJobError(msg.ev)
		m.status = "job error: " + msg.ev.Error
	case jobCompletedMsg:
		return m.runJobEffects(m.feed.ApplyCompleted(msg.ev))
	case jobStreamLostMsg:
		if target, ok := m.jobEvents.Target(); ok && target == msg.jobID {
			m.feed.NoteConnectionLost()
		}
	case chatRunStartedMsg:
		m.chat.ApplyRunStarted(msg.ev)
	case chatRetrievalMsg:
		m.chat.ApplyRetrievalCompleted(msg.ev)
	case chatAnswerDeltaMsg:
		if msg.ev.RunID == m.chat.ActiveRunID() {
			m.chat.ApplyAnswerDelta(msg.ev)
			m.transcript.AppendAnswerDelta(msg.ev.Delta)
		}
	case chatAnswerDoneMsg:
		if msg.ev.RunID == m.chat.ActiveRunID() {
			m.chat.ApplyAnswerCompleted(msg.ev)
			m.transcript.FinishAnswer()
			if labels := resolveCitationLabels(msg.ev.Citations, m.selectedNodes()); len(labels) > 0 {
				m.transcript.AppendSources(labels)
			}
		}
	case chatRunDoneMsg:
		return m.runChatEffects(m.chat.ApplyRunCompleted(msg.ev))
	case chatRunFailedMsg:
		active := m.chat.ActiveRunID()
		fx := m.chat.ApplyRunFailed(msg.ev)
		if msg.ev.RunID == active {
			m.transcript.FinishAnswer()
			m.transcript.AppendNotice("run failed: " + msg.ev.Error)
			m.chat.ClearError()
		}
		return m.runChatEffects(fx)
	case chatStreamLostMsg:
		if m.chat.SessionID() == msg.sessionID && m.chat.Phase().Busy() {
			m.chat.NoteConnectionLost()
		}
	}
	return nil
}

func (m *Model) runJobEffects(fx live.JobEffects) []tea.Cmd {
	if fx.Empty() {
		return nil
	}
	var cmds []tea.Cmd
	if fx.FetchResult != "" {
		m.status = "fetching result"
		cmds = append(cmds, fetchResultCmd(m.jobAPI, m.cache, fx.FetchResult))
	}
	if fx.EnsureSession != "" {
		cmds = append(cmds, ensureSessionCmd(m.chatAPI, fx.EnsureSession))
	}
	return cmds
}

func (m *Model) runChatEffects(fx live.ChatEffects) []tea.Cmd {
	if fx.Empty() {
		return nil
	}
	var cmds []tea.Cmd
	if fx.CloseChannel {
		m.chatEvents.Unsubscribe()
	}
	if fx.RefetchSession != "" {
		cmds = append(cmds, refreshSessionCmd(m.chatAPI, fx.RefetchSession))
	}
	return cmds
}

// applySelection makes the job the selected one: the chat pane resets, the
// detail is fetched, and the push subscription follows the new target.
func (m *Model) applySelection(id string) []tea.Cmd {
	if id == "" || id == m.feed.SelectedID() {
		return nil
	}
	m.selectSeq++
	fx := m.feed.Select(id)
	m.chatEvents.Unsubscribe()
	m.chat.Clear()
	m.transcript.Reset()
	m.sidebar.SetActive(id)
	m.sidebar.SelectByJobID(id)
	m.follow = true
	cmds := []tea.Cmd{fetchJobDetailCmd(m.jobAPI, id)}
	cmds = append(cmds, m.runJobEffects(fx)...)
	m.syncJobSubscription()
	m.refreshContent()
	return cmds
}

func (m *Model) scheduleSelect() tea.Cmd {
	id := m.sidebar.CursorJobID()
	if id == "" || id == m.feed.SelectedID() {
		return nil
	}
	m.selectSeq++
	return debounceSelectCmd(id, m.selectSeq, selectionDebounce)
}

// syncJobSubscription points the single job subscription at the feed's
// active target: the first RUNNING job, else the selected one.
func (m *Model) syncJobSubscription() {
	target, ok := m.feed.ActiveTarget()
	if !ok {
		m.jobEvents.Unsubscribe()
		return
	}
	if err := m.jobEvents.Subscribe(target); err != nil {
		m.status = "stream error: " + err.Error()
	}
}

func (m *Model) syncChatSubscription() {
	sessionID := m.chat.SessionID()
	runID := m.chat.ActiveRunID()
	if sessionID == "" || runID == "" || !m.chat.Phase().Busy() {
		m.chatEvents.Unsubscribe()
		return
	}
	if err := m.chatEvents.Subscribe(sessionID, runID); err != nil {
		m.status = "chat stream error: " + err.Error()
	}
}

func (m *Model) syncSidebar() {
	m.sidebar.Apply(m.feed.Summaries(), m.feed.SelectedID())
}

func (m *Model) selectedNodes() map[string]*types.ResultNode {
	if entry, ok := m.results[m.feed.SelectedID()]; ok && entry != nil {
		return entry.nodes
	}
	return nil
}

// rebuildTranscript regenerates the transcript from the canonical session.
// The assistant message of a run still in flight stays open so further
// deltas keep appending to it.
func (m *Model) rebuildTranscript() {
	m.transcript.Reset()
	session := m.chat.Session()
	if session == nil {
		return
	}
	openID := ""
	if m.chat.Phase().Busy() {
		if run := findRun(session, m.chat.ActiveRunID()); run != nil {
			openID = run.AssistantMessageID
		}
	}
	nodes := m.selectedNodes()
	for _, msg := range session.Messages {
		switch msg.Role {
		case types.RoleUser:
			m.transcript.AppendQuestion(msg.Content)
		case types.RoleAssistant:
			m.transcript.StartAnswer()
			if msg.Content != "" {
				m.transcript.AppendAnswerDelta(msg.Content)
			}
			if msg.ID == openID {
				continue
			}
			m.transcript.FinishAnswer()
			if labels := resolveCitationLabels(msg.Citations, nodes); len(labels) > 0 {
				m.transcript.AppendSources(labels)
			}
		}
	}
}

func findRun(session *types.ChatSessionDetail, runID string) *types.ChatRun {
	if session == nil || runID == "" {
		return nil
	}
	for i := range session.Runs {
		if session.Runs[i].ID == runID {
			return &session.Runs[i]
		}
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirm.IsOpen() {
		handled, choice := m.confirm.HandleKey(msg)
		if !handled {
			return m, nil
		}
		switch choice {
		case confirmChoiceConfirm:
			return m, m.resolveConfirm()
		case confirmChoiceCancel:
			m.closeConfirm("")
		}
		return m, nil
	}
	if m.mode == uiModeHelp {
		switch msg.String() {
		case "esc", "?", "q", "enter":
			m.mode = uiModeNormal
		}
		return m, nil
	}
	if m.mode == uiModeChat {
		return m.handleChatKey(msg)
	}
	return m.handleNormalKey(msg)
}

func (m *Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.mode = uiModeNormal
		m.chatInput.Blur()
		return m, nil
	case "enter":
		return m, m.submitChatMessage()
	}
	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	return m, cmd
}

func (m *Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "?":
		m.mode = uiModeHelp
		return m, nil
	case "tab":
		m.setTab((m.tab + 1) % 3)
		return m, nil
	case "shift+tab":
		m.setTab((m.tab + 2) % 3)
		return m, nil
	case "1":
		m.setTab(tabActivity)
		return m, nil
	case "2":
		m.setTab(tabOutline)
		return m, nil
	case "3":
		m.setTab(tabChat)
		return m, nil
	case "j", "down":
		m.sidebar.CursorDown()
		return m, m.scheduleSelect()
	case "k", "up":
		m.sidebar.CursorUp()
		return m, m.scheduleSelect()
	case "enter":
		return m, tea.Batch(m.applySelection(m.sidebar.CursorJobID())...)
	case "a":
		m.focusChat()
		return m, nil
	case "c":
		m.openCancelConfirm()
		return m, nil
	case "x":
		m.openClearConfirm()
		return m, nil
	case "i":
		m.showNodeIDs = !m.showNodeIDs
		m.refreshContent()
		return m, nil
	case "y":
		m.copyActive()
		return m, nil
	case "r":
		return m, m.refreshAll()
	case "g":
		m.follow = false
		m.viewport.GotoTop()
		return m, nil
	case "G":
		m.follow = true
		m.viewport.GotoBottom()
		return m, nil
	case "ctrl+d":
		m.viewport.HalfPageDown()
		return m, nil
	case "ctrl+u":
		m.follow = false
		m.viewport.HalfPageUp()
		return m, nil
	case "pgdown":
		m.viewport.PageDown()
		return m, nil
	case "pgup":
		m.follow = false
		m.viewport.PageUp()
		return m, nil
	}
	return m, nil
}

func (m *Model) submitChatMessage() tea.Cmd {
	content, err := m.chat.BeginSend(m.chatInput.Value())
	if err != nil {
		switch {
		case errors.Is(err, live.ErrEmptyMessage):
			m.status = "nothing to send"
		case errors.Is(err, live.ErrRunActive):
			m.status = "a run is already active"
		case errors.Is(err, live.ErrNoSession):
			m.status = "preparing chat session"
			if id := m.feed.SelectedID(); id != "" {
				return ensureSessionCmd(m.chatAPI, id)
			}
		default:
			m.status = "send error: " + err.Error()
		}
		return nil
	}
	m.chatInput.SetValue("")
	m.status = "sending…"
	m.refreshContent()
	return sendMessageCmd(m.chatAPI, m.chat.SessionID(), content)
}

func (m *Model) setTab(tab paneTab) {
	if tab == m.tab {
		return
	}
	m.tab = tab
	m.follow = tab != tabOutline
	m.applyViewportSize()
	m.refreshContent()
}

func (m *Model) focusChat() {
	if m.tab != tabChat {
		m.setTab(tabChat)
	}
	m.mode = uiModeChat
	m.chatInput.Focus()
}

func (m *Model) openCancelConfirm() {
	sel := m.feed.SelectedSummary()
	if sel == nil {
		m.status = "no job selected"
		return
	}
	if sel.Status.Terminal() {
		m.status = "job already finished"
		return
	}
	m.pendingConfirm = confirmCancelJob
	m.confirmTarget = sel.ID
	m.mode = uiModeConfirm
	m.confirm.Open("Cancel job", "Stop indexing "+displayName(sel)+"?")
}

func (m *Model) openClearConfirm() {
	sel := m.feed.SelectedSummary()
	if sel == nil {
		m.status = "no job selected"
		return
	}
	if m.chat.Session() == nil {
		m.status = "no chat history"
		return
	}
	m.pendingConfirm = confirmClearSessions
	m.confirmTarget = sel.ID
	m.mode = uiModeConfirm
	m.confirm.Open("Clear chat history", "Delete all chat sessions for "+displayName(sel)+"?")
}

func (m *Model) resolveConfirm() tea.Cmd {
	action, target := m.pendingConfirm, m.confirmTarget
	m.closeConfirm("")
	switch action {
	case confirmCancelJob:
		m.status = "cancelling…"
		return cancelJobCmd(m.jobAPI, target)
	case confirmClearSessions:
		m.status = "clearing chat history…"
		return resetSessionsCmd(m.chatAPI, target)
	}
	return nil
}

func (m *Model) closeConfirm(status string) {
	m.confirm.Close()
	m.pendingConfirm = confirmNone
	m.confirmTarget = ""
	m.mode = uiModeNormal
	if status != "" {
		m.status = status
	}
}

func (m *Model) copyActive() {
	switch m.tab {
	case tabChat:
		if text := m.lastAssistantAnswer(); text != "" {
			m.copyWithStatus(text, "answer copied")
			return
		}
	case tabOutline:
		if entry, ok := m.results[m.feed.SelectedID()]; ok && entry != nil && entry.doc != nil {
			m.copyWithStatus(strings.Join(outline.Lines(entry.doc.Structure, m.showNodeIDs), "\n"), "outline copied")
			return
		}
	default:
		if id := m.feed.SelectedID(); id != "" {
			m.copyWithStatus(id, "job id copied")
			return
		}
	}
	m.status = "nothing to copy"
}

func (m *Model) lastAssistantAnswer() string {
	msgs := m.chat.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == types.RoleAssistant && strings.TrimSpace(msgs[i].Content) != "" {
			return msgs[i].Content
		}
	}
	return ""
}

func (m *Model) refreshAll() tea.Cmd {
	m.status = "refreshing…"
	cmds := []tea.Cmd{checkHealthCmd(m.jobAPI), fetchJobsCmd(m.jobAPI)}
	if id := m.feed.SelectedID(); id != "" {
		cmds = append(cmds, fetchJobDetailCmd(m.jobAPI, id))
	}
	if sessionID := m.chat.SessionID(); sessionID != "" && !m.chat.Phase().Busy() {
		cmds = append(cmds, refreshSessionCmd(m.chatAPI, sessionID))
	}
	return tea.Batch(cmds...)
}

func (m *Model) applyResize(width, height int) {
	m.width = width
	m.height = height
	listWidth := width / 4
	if listWidth < minListWidth {
		listWidth = minListWidth
	}
	if listWidth > maxListWidth {
		listWidth = maxListWidth
	}
	contentWidth := width - listWidth - 3
	if contentWidth < minViewportWidth {
		contentWidth = minViewportWidth
	}
	bodyHeight := height - 3
	if bodyHeight < minContentHeight {
		bodyHeight = minContentHeight
	}
	m.listWidth = listWidth
	m.contentWidth = contentWidth
	m.bodyHeight = bodyHeight

	m.sidebar.SetSize(listWidth, bodyHeight)
	m.applyViewportSize()

	barWidth := contentWidth - 8
	if barWidth < 10 {
		barWidth = 10
	}
	if barWidth > 60 {
		barWidth = 60
	}
	m.bar = progress.New(progress.WithDefaultBlend(), progress.WithWidth(barWidth))
	m.refreshContent()
}

func (m *Model) applyViewportSize() {
	viewportHeight := m.bodyHeight - 1
	if m.tab == tabChat {
		viewportHeight--
	}
	if viewportHeight < 1 {
		viewportHeight = 1
	}
	m.viewport.SetWidth(max(1, m.contentWidth))
	m.viewport.SetHeight(viewportHeight)
}

func (m *Model) refreshContent() {
	width := m.contentWidth
	if width <= 0 {
		width = 80
	}
	var content string
	switch m.tab {
	case tabActivity:
		content = strings.Join(renderJobLines(m.feed.Selected(), m.bar, width), "\n")
	case tabOutline:
		content = strings.Join(renderOutlineLines(m.feed.Selected(), m.results[m.feed.SelectedID()], m.showNodeIDs, width), "\n")
	case tabChat:
		content = renderChatContent(m.feed.Selected(), m.chat, m.transcript, m.selectedNodes(), width, m.markdown)
	}
	m.viewport.SetContent(content)
	if m.follow && m.tab != tabOutline {
		m.viewport.GotoBottom()
	}
}

func displayName(s *types.JobSummary) string {
	if s == nil {
		return ""
	}
	if name := strings.TrimSpace(s.Filename); name != "" {
		return name
	}
	return s.ID
}
