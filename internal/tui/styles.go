package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	// Priority colors
	ColorUrgent = lipgloss.Color("#FF6B6B") // P1 - Red
	ColorHigh   = lipgloss.Color("#FFB347") // P2 - Orange
	ColorMedium = lipgloss.Color("#FFE66D") // P3 - Yellow
	ColorLow    = lipgloss.Color("#4ECDC4") // P4 - Teal

	// UI colors
	Primary   = lipgloss.Color("#7C3AED")
	Academic  = lipgloss.Color("#3B82F6")
	Surface   = lipgloss.Color("#16213e")
	TextMuted = lipgloss.Color("#888888")
	Border    = lipgloss.Color("#333333")
	DoneGreen = lipgloss.Color("#95E1A3")
)

// Styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(0, 1)

	SidebarStyle = lipgloss.NewStyle().
			Width(24).
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(Border).
			Padding(1, 1)

	TaskPaneStyle = lipgloss.NewStyle().
			Padding(1, 2)

	ListItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	ListItemSelectedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(Surface).
				Bold(true)

	TaskItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	TaskItemSelectedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(Surface).
				Bold(true)

	TaskDoneStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Strikethrough(true).
			Padding(0, 1)

	ColumnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(Primary).
				Padding(0, 1)

	PriorityP1Style = lipgloss.NewStyle().Foreground(ColorUrgent).Bold(true)
	PriorityP2Style = lipgloss.NewStyle().Foreground(ColorHigh).Bold(true)
	PriorityP3Style = lipgloss.NewStyle().Foreground(ColorMedium)
	PriorityP4Style = lipgloss.NewStyle().Foreground(ColorLow)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted)
)

// priorityStyle returns the style for a given priority
func priorityStyle(priority int) lipgloss.Style {
	switch priority {
	case 1:
		return PriorityP1Style
	case 2:
		return PriorityP2Style
	case 3:
		return PriorityP3Style
	default:
		return PriorityP4Style
	}
}

// formatPriority returns a styled priority badge
func formatPriority(priority int) string {
	switch priority {
	case 1:
		return PriorityP1Style.Render("P1")
	case 2:
		return PriorityP2Style.Render("P2")
	case 3:
		return PriorityP3Style.Render("P3")
	default:
		return PriorityP4Style.Render("P4")
	}
}
