package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/trihoang/studydesk/internal/model"
	"github.com/trihoang/studydesk/internal/store"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	sidebar := m.renderSidebar()

	var pane string
	switch m.view {
	case ViewBoard:
		pane = m.renderBoard()
	case ViewMatrix:
		pane = m.renderMatrix()
	default:
		pane = m.renderTasks()
	}

	mainContent := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, pane)

	if m.mode == ModeAddTask || m.mode == ModeAddList || m.mode == ModeEditTask {
		modal := m.renderModal()
		mainContent = lipgloss.Place(
			m.width, m.height-2,
			lipgloss.Center, lipgloss.Center,
			modal,
			lipgloss.WithWhitespaceChars(" "),
		)
	}

	if m.mode == ModeHelp {
		mainContent = m.renderHelp()
	}

	return lipgloss.JoinVertical(lipgloss.Left, mainContent, m.renderStatusBar())
}

func (m Model) renderSidebar() string {
	sidebarWidth := 26
	var s string

	s += lipgloss.NewStyle().Bold(true).Foreground(Primary).Render("StudyDesk") + "\n"
	s += lipgloss.NewStyle().Foreground(Border).Render("─────────────────────") + "\n\n"

	prevVirtual := true
	for i, item := range m.items {
		if prevVirtual && !item.Virtual {
			s += "\n"
		}
		prevVirtual = item.Virtual

		cursor := "  "
		style := ListItemStyle
		if i == m.listCursor {
			cursor = "❯ "
			if m.pane == PaneSidebar {
				style = ListItemSelectedStyle
			}
		}

		badge := ""
		if item.Academic {
			badge = " 🎓"
		}

		count := len(m.store.TasksForList(item.ID))
		line := fmt.Sprintf("%s%-13s %3d%s", cursor, truncate(item.Name, 13), count, badge)
		s += style.Render(line) + "\n"
	}

	s += "\n" + lipgloss.NewStyle().Foreground(Border).Render("─────────────────────") + "\n"
	s += HelpStyle.Render("n new list")

	return SidebarStyle.Width(sidebarWidth).Height(m.height - 2).Render(s)
}

func (m Model) renderTasks() string {
	width := m.width - 28
	var s string

	item := m.currentItem()
	pending := 0
	for _, t := range m.tasks {
		if !t.IsCompleted {
			pending++
		}
	}

	header := fmt.Sprintf("%s (%d pending)", item.Name, pending)
	s += lipgloss.NewStyle().Bold(true).Foreground(Primary).Render(header) + "\n"
	s += lipgloss.NewStyle().Foreground(Border).Render(strings.Repeat("─", max(width-4, 1))) + "\n\n"

	if len(m.tasks) == 0 {
		s += HelpStyle.Render("  No tasks. Press 'a' to add one.")
	}

	for i, t := range m.tasks {
		cursor := "  "
		style := TaskItemStyle
		if i == m.taskCursor && m.pane == PaneTasks {
			cursor = "❯ "
			style = TaskItemSelectedStyle
		}

		icon := "[ ]"
		if t.IsCompleted {
			icon = "[x]"
			style = TaskDoneStyle
		}

		title := truncate(t.Title, width-34)
		line := style.Render(fmt.Sprintf("%s%s %-*s", cursor, icon, width-34, title))
		line += " " + formatPriority(t.Priority)
		if t.DueDate != "" {
			line += " " + HelpStyle.Render("📅 "+t.DueDate)
		}
		if t.Source == model.SourceClassroom {
			line += " 🎓"
		}
		s += line + "\n"
	}

	return TaskPaneStyle.Width(width).Height(m.height - 2).Render(s)
}

func (m Model) renderBoard() string {
	width := m.width - 28
	colWidth := width/len(model.Statuses) - 2
	byStatus := m.store.TasksByStatus(m.currentItem().ID)

	cols := make([]string, 0, len(model.Statuses))
	for _, status := range model.Statuses {
		var col string
		col += ColumnHeaderStyle.Render(fmt.Sprintf("%s (%d)", statusTitle(status), len(byStatus[status]))) + "\n"
		col += lipgloss.NewStyle().Foreground(Border).Render(strings.Repeat("─", max(colWidth-2, 1))) + "\n"
		for _, t := range byStatus[status] {
			style := priorityStyle(t.Priority)
			if t.IsCompleted {
				style = TaskDoneStyle
			}
			col += style.Render("• "+truncate(t.Title, colWidth-4)) + "\n"
		}
		cols = append(cols, lipgloss.NewStyle().Width(colWidth).Render(col))
	}

	return TaskPaneStyle.Width(width).Height(m.height - 2).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
}

func (m Model) renderMatrix() string {
	width := m.width - 28
	cellWidth := width/2 - 3
	now := time.Now()

	quadrants := map[store.Quadrant][]model.Task{}
	for _, t := range m.tasks {
		if t.IsCompleted {
			continue
		}
		q := store.Classify(t, now)
		quadrants[q] = append(quadrants[q], t)
	}

	cell := func(title string, q store.Quadrant) string {
		var c string
		c += ColumnHeaderStyle.Render(title) + "\n"
		c += lipgloss.NewStyle().Foreground(Border).Render(strings.Repeat("─", max(cellWidth-2, 1))) + "\n"
		for _, t := range quadrants[q] {
			c += priorityStyle(t.Priority).Render("• "+truncate(t.Title, cellWidth-4)) + "\n"
		}
		return lipgloss.NewStyle().Width(cellWidth).Height(m.height/2 - 3).Render(c)
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		cell("Do first", store.QuadrantUrgentImportant),
		cell("Schedule", store.QuadrantImportant))
	bottom := lipgloss.JoinHorizontal(lipgloss.Top,
		cell("Delegate", store.QuadrantUrgent),
		cell("Later", store.QuadrantNeither))

	return TaskPaneStyle.Width(width).Height(m.height - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, top, bottom))
}

func (m Model) renderStatusBar() string {
	help := "a:add  x:done  s:status  d:del  b:board  m:matrix  1-4:priority  ?:help  q:quit"
	if m.message != "" {
		help = m.message
	}
	return StatusBarStyle.Width(m.width).Render(help)
}

func (m Model) renderModal() string {
	title := "Add Task"
	switch m.mode {
	case ModeAddList:
		title = "New List"
	case ModeEditTask:
		title = "Edit Task"
	}

	if m.mode == ModeAddTask {
		title = fmt.Sprintf("Add Task to: %s", m.currentItem().Name)
	}

	content := lipgloss.NewStyle().Bold(true).Render(title) + "\n\n"
	content += m.input.View() + "\n\n"
	content += HelpStyle.Render("Enter:save  Esc:cancel")

	return ModalStyle.Render(content)
}

func (m Model) renderHelp() string {
	help := `
╭─── Keyboard Shortcuts ───╮
│                          │
│  Navigation              │
│  ──────────              │
│  j/↓    Move down        │
│  k/↑    Move up          │
│  h/l    Switch pane      │
│  Tab    Switch pane      │
│  G      Go to bottom     │
│                          │
│  Actions                 │
│  ───────                 │
│  a       Add task        │
│  e       Edit task       │
│  x/Enter Toggle done     │
│  s       Cycle status    │
│  d       Delete          │
│  n       New list        │
│  1-4     Set priority    │
│                          │
│  Views                   │
│  ─────                   │
│  b       Board columns   │
│  m       Matrix          │
│                          │
│  ?       Toggle help     │
│  q       Quit            │
│                          │
╰──────────────────────────╯

     Press any key to close
`
	return lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, help)
}

func statusTitle(s model.Status) string {
	switch s {
	case model.StatusTodo:
		return "To Do"
	case model.StatusInProgress:
		return "In Progress"
	case model.StatusReview:
		return "Review"
	case model.StatusDone:
		return "Done"
	}
	return string(s)
}
