package app

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	xansi "github.com/charmbracelet/x/ansi"
)

func (m *Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m *Model) render() string {
	if m.width <= 0 || m.height <= 0 {
		return "starting…"
	}
	rows := make([]string, 0, 4)
	rows = append(rows, m.headerLine())
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), m.dividerColumn(), m.contentColumn()))
	rows = append(rows, m.statusLine())
	rows = append(rows, m.helpLine())
	base := strings.Join(rows, "\n")

	if m.confirm.IsOpen() {
		block, row := m.confirm.View(m.width, m.height-2)
		base = overlayAt(base, block, row)
	}
	if m.mode == uiModeHelp {
		block, row := m.helpOverlay()
		base = overlayAt(base, block, row)
	}
	return base
}

func (m *Model) headerLine() string {
	title := headerStyle.Render(" outline ")
	dot := dotDoneStyle.Render("●")
	if !m.serverOK {
		dot = errorStyle.Render("●")
	}
	server := statusStyle.Render(m.baseURL) + " " + dot
	gap := m.width - xansi.StringWidth(title) - xansi.StringWidth(server) - 1
	if gap < 1 {
		return truncateToWidth(title, m.width)
	}
	return title + strings.Repeat(" ", gap) + server + " "
}

func (m *Model) contentColumn() string {
	parts := []string{m.tabBar(), m.viewport.View()}
	if m.tab == tabChat {
		parts = append(parts, m.chatInputLine())
	}
	return strings.Join(parts, "\n")
}

func (m *Model) dividerColumn() string {
	height := max(1, m.bodyHeight)
	bar := dividerStyle.Render("│")
	lines := make([]string, height)
	for i := range lines {
		lines[i] = bar
	}
	return strings.Join(lines, "\n")
}

func (m *Model) tabBar() string {
	names := [...]string{"1:Activity", "2:Outline", "3:Chat"}
	parts := make([]string, 0, len(names))
	for i, name := range names {
		style := tabStyle
		if paneTab(i) == m.tab {
			style = tabActiveStyle
		}
		parts = append(parts, style.Render(" "+name+" "))
	}
	return truncateToWidth(strings.Join(parts, " "), max(1, m.contentWidth))
}

func (m *Model) chatInputLine() string {
	return truncateToWidth(m.chatInput.View(), max(1, m.contentWidth))
}

func (m *Model) statusLine() string {
	left := m.status
	if left == "" {
		left = "ready"
	}
	line := " " + statusStyle.Render(truncateToWidth(left, max(1, m.width-30)))
	if m.degraded() {
		line += "  " + warnStyle.Render("connection lost; retrying…")
	}
	return truncateToWidth(line, m.width)
}

func (m *Model) helpLine() string {
	var hint string
	switch {
	case m.mode == uiModeChat:
		hint = "enter send • esc done • ctrl+c quit"
	case m.confirm.IsOpen():
		hint = "←/→ choose • enter confirm • esc cancel"
	default:
		hint = "j/k jobs • enter open • tab pane • a ask • c cancel • x clear chat • y copy • r refresh • ? help • q quit"
	}
	return helpStyle.Render(truncateToWidth(" "+hint, m.width))
}

func (m *Model) helpOverlay() (string, int) {
	rows := []string{
		"j/k, ↑/↓      move between jobs",
		"enter         open the job under the cursor",
		"tab, 1/2/3    switch panes",
		"a             focus the chat input",
		"c             cancel the running job",
		"x             clear chat history",
		"i             toggle node ids in the outline",
		"y             copy pane content",
		"r             refresh from the server",
		"g/G, pgup/dn  scroll",
		"q, ctrl+c     quit",
		"esc, ?        close this help",
	}
	width := 0
	for _, row := range rows {
		if w := xansi.StringWidth(row); w > width {
			width = w
		}
	}
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, headerStyle.Render(padToWidth("Keys", width)))
	for _, row := range rows {
		lines = append(lines, padToWidth(row, width))
	}
	block := helpBorderStyle.Render(strings.Join(lines, "\n"))
	blockHeight := len(lines) + 2
	row := (m.height - blockHeight) / 2
	if row < 1 {
		row = 1
	}
	if x := (m.width - width - 4) / 2; x > 0 {
		block = indentBlock(block, x)
	}
	return block, row
}

func (m *Model) degraded() bool {
	return m.feed.Degraded() || m.chat.Degraded()
}

// overlayAt splices an overlay block over the base text, replacing whole
// rows starting at the given row.
func overlayAt(base, block string, row int) string {
	if base == "" || block == "" || row < 0 {
		return base
	}
	lines := strings.Split(base, "\n")
	for i, overlay := range strings.Split(block, "\n") {
		target := row + i
		if target >= len(lines) {
			break
		}
		lines[target] = overlay
	}
	return strings.Join(lines, "\n")
}
