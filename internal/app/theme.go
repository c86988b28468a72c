package app

import "charm.land/lipgloss/v2"

var (
	headerStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	helpStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	warnStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	errorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	selectedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("236"))
	dividerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	jobStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	jobActiveStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Bold(true)
	dotRunningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("70"))
	dotDoneStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	dotFailedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	dotIdleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	stageStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	tabStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	tabActiveStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("239")).Bold(true)
	activityTimeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	activityTagStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	thinkingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Faint(true)
	sourceStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("117"))
	promptStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	dialogHeadStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("251")).Background(lipgloss.Color("235")).Bold(true)
	dialogBodyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("235"))
	dialogBorderStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("208"))
	helpBorderStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63"))
)
