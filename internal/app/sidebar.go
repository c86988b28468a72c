package app

import (
	"fmt"
	"io"
	"strings"
	"time"

	"charm.land/bubbles/v2/list"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"outline/internal/types"
)

const (
	activeDot    = "●"
	queuedDot    = "·"
	doneDot      = "✓"
	failedDot    = "✗"
	cancelledDot = "-"
)

type inputBadge struct {
	prefix string
	color  string
}

var inputBadges = map[types.InputType]inputBadge{
	types.InputTypePDF:      {prefix: "[PDF]", color: "203"},
	types.InputTypeMarkdown: {prefix: "[MD]", color: "39"},
}

type jobItem struct {
	job *types.JobSummary
}

func (i *jobItem) Title() string {
	return displayName(i.job)
}

func (i *jobItem) Description() string {
	if i.job == nil {
		return ""
	}
	return formatSince(i.job.CreatedAt)
}

func (i *jobItem) FilterValue() string {
	return i.Title()
}

func (i *jobItem) id() string {
	if i.job == nil {
		return ""
	}
	return i.job.ID
}

type jobDelegate struct {
	cursorID string
	activeID string
}

func (d *jobDelegate) Height() int {
	return 1
}

func (d *jobDelegate) Spacing() int {
	return 0
}

func (d *jobDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

func (d *jobDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	entry, ok := item.(*jobItem)
	if !ok || entry.job == nil {
		return
	}
	maxWidth := m.Width()
	isCursor := d.cursorID != "" && entry.id() == d.cursorID
	isActive := d.activeID != "" && entry.id() == d.activeID

	dot, dotStyle := statusDot(entry.job.Status)
	badge := inputBadges[entry.job.InputType]
	badgeText := badge.prefix

	prefix := " " + dot + " "
	if badgeText != "" {
		prefix += badgeText + " "
	}
	suffix := ""
	if since := formatSince(entry.job.CreatedAt); since != "" {
		suffix = " • " + since
	}
	title := entry.Title()
	available := maxWidth - ansi.StringWidth(prefix) - ansi.StringWidth(suffix)
	if available <= 0 {
		title = ""
		suffix = truncateToWidth(suffix, max(0, maxWidth-ansi.StringWidth(prefix)))
	} else {
		title = truncateToWidth(title, available)
	}

	style := jobStyle
	if isActive {
		style = jobActiveStyle
	}
	if isCursor {
		style = selectedStyle
	}
	dotRender := dotStyle
	if isCursor {
		// Keep the cursor row background solid under the colored dot.
		dotRender = dotStyle.Background(lipgloss.Color("236"))
	}
	rendered := style.Render(" ") + dotRender.Render(dot) + style.Render(" ")
	if badgeText != "" {
		badgeStyle := style.Foreground(lipgloss.Color(badge.color))
		rendered += badgeStyle.Render(badgeText) + style.Render(" ")
	}
	rendered += style.Render(title)
	rendered += style.Render(suffix)
	fmt.Fprint(w, rendered)
}

func statusDot(status types.JobStatus) (string, lipgloss.Style) {
	switch status {
	case types.JobStatusRunning:
		return activeDot, dotRunningStyle
	case types.JobStatusCompleted:
		return doneDot, dotDoneStyle
	case types.JobStatusFailed:
		return failedDot, dotFailedStyle
	case types.JobStatusCancelled:
		return cancelledDot, dotIdleStyle
	default:
		return queuedDot, dotIdleStyle
	}
}

// Sidebar is the job list on the left of the screen. The cursor row is the
// one highlighted; the active row is the job whose detail pane is shown.
type Sidebar struct {
	list     list.Model
	delegate *jobDelegate
}

func NewSidebar() Sidebar {
	delegate := &jobDelegate{}
	mlist := list.New([]list.Item{}, delegate, minListWidth, minContentHeight)
	mlist.Title = "Jobs"
	mlist.SetShowHelp(false)
	mlist.SetFilteringEnabled(false)
	mlist.SetShowPagination(false)
	mlist.SetShowStatusBar(false)
	mlist.Styles.Title = headerStyle
	return Sidebar{list: mlist, delegate: delegate}
}

func (s *Sidebar) Apply(jobs []*types.JobSummary, activeID string) {
	cursorID := s.CursorJobID()
	items := make([]list.Item, 0, len(jobs))
	for _, job := range jobs {
		if job == nil {
			continue
		}
		items = append(items, &jobItem{job: job})
	}
	s.list.SetItems(items)
	s.delegate.activeID = activeID
	if cursorID == "" || !s.SelectByJobID(cursorID) {
		if activeID == "" || !s.SelectByJobID(activeID) {
			if len(items) > 0 {
				s.list.Select(0)
			}
		}
	}
	s.delegate.cursorID = s.CursorJobID()
}

func (s *Sidebar) SetActive(activeID string) {
	s.delegate.activeID = activeID
}

func (s *Sidebar) SetSize(width, height int) {
	s.list.SetSize(width, height)
}

func (s *Sidebar) View() string {
	return s.list.View()
}

func (s *Sidebar) CursorUp() {
	s.list.CursorUp()
	s.delegate.cursorID = s.CursorJobID()
}

func (s *Sidebar) CursorDown() {
	s.list.CursorDown()
	s.delegate.cursorID = s.CursorJobID()
}

func (s *Sidebar) CursorJobID() string {
	item := s.list.SelectedItem()
	if item == nil {
		return ""
	}
	entry, ok := item.(*jobItem)
	if !ok {
		return ""
	}
	return entry.id()
}

func (s *Sidebar) SelectByJobID(id string) bool {
	if id == "" {
		return false
	}
	for i, item := range s.list.Items() {
		entry, ok := item.(*jobItem)
		if !ok || entry.job == nil {
			continue
		}
		if entry.job.ID == id {
			s.list.Select(i)
			s.delegate.cursorID = id
			return true
		}
	}
	return false
}

func (s *Sidebar) Len() int {
	return len(s.list.Items())
}

func formatSince(at time.Time) string {
	if at.IsZero() {
		return ""
	}
	delta := time.Since(at)
	if delta < 0 {
		delta = 0
	}
	switch {
	case delta < time.Minute:
		return "just now"
	case delta < time.Hour:
		return fmt.Sprintf("%dm ago", int(delta.Minutes()))
	case delta < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(delta.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(delta.Hours()/24))
	}
}

func truncateToWidth(text string, width int) string {
	if width <= 0 {
		return text
	}
	if ansi.StringWidth(text) <= width {
		return text
	}
	if width == 1 {
		return "…"
	}
	return ansi.Cut(text, 0, width-1) + "…"
}

func padToWidth(text string, width int) string {
	gap := width - ansi.StringWidth(text)
	if gap <= 0 {
		return text
	}
	return text + strings.Repeat(" ", gap)
}
