package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/trihoang/studydesk/internal/model"
	"github.com/trihoang/studydesk/internal/store"
)

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeAddTask, ModeAddList, ModeEditTask:
			return m.updateInput(msg)
		case ModeHelp:
			m.mode = ModeNormal
			return m, nil
		}
		return m.handleNormalKeys(msg)
	}

	return m, nil
}

func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Tab):
		if m.pane == PaneSidebar {
			m.pane = PaneTasks
		} else {
			m.pane = PaneSidebar
		}

	case key.Matches(msg, keys.Left):
		m.pane = PaneSidebar

	case key.Matches(msg, keys.Right):
		m.pane = PaneTasks

	case key.Matches(msg, keys.Up):
		m.handleUp()

	case key.Matches(msg, keys.Down):
		m.handleDown()

	case msg.String() == "G":
		m.handleGoBottom()

	case msg.String() == "1", msg.String() == "2", msg.String() == "3", msg.String() == "4":
		m.handlePriority(int(msg.String()[0] - '0'))

	case key.Matches(msg, keys.Add):
		return m.startAddTask()

	case key.Matches(msg, keys.List):
		return m.startAddList()

	case key.Matches(msg, keys.Done), key.Matches(msg, keys.Enter):
		m.handleToggleDone()

	case key.Matches(msg, keys.Status):
		m.handleCycleStatus()

	case key.Matches(msg, keys.Delete):
		m.handleDelete()

	case msg.String() == "e":
		return m.startEditTask()

	case key.Matches(msg, keys.Board):
		if m.view == ViewBoard {
			m.view = ViewList
		} else {
			m.view = ViewBoard
		}

	case key.Matches(msg, keys.Matrix):
		if m.view == ViewMatrix {
			m.view = ViewList
		} else {
			m.view = ViewMatrix
		}

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp
	}

	return m, nil
}

func (m *Model) handleUp() {
	if m.pane == PaneSidebar {
		if m.listCursor > 0 {
			m.listCursor--
			m.taskCursor = 0
			m.loadData()
		}
	} else if m.taskCursor > 0 {
		m.taskCursor--
	}
}

func (m *Model) handleDown() {
	if m.pane == PaneSidebar {
		if m.listCursor < len(m.items)-1 {
			m.listCursor++
			m.taskCursor = 0
			m.loadData()
		}
	} else if m.taskCursor < len(m.tasks)-1 {
		m.taskCursor++
	}
}

func (m *Model) handleGoBottom() {
	if m.pane == PaneSidebar {
		m.listCursor = len(m.items) - 1
		m.taskCursor = 0
		m.loadData()
	} else {
		m.taskCursor = len(m.tasks) - 1
	}
}

func (m *Model) handlePriority(priority int) {
	if m.pane != PaneTasks {
		return
	}
	task := m.currentTask()
	if task == nil {
		return
	}
	m.store.UpdateFields(task.ID, store.TaskPatch{Priority: &priority})
	m.loadData()
	m.message = fmt.Sprintf("Priority set to P%d", priority)
}

func (m *Model) handleToggleDone() {
	if m.pane != PaneTasks {
		return
	}
	task := m.currentTask()
	if task == nil {
		return
	}
	m.store.ToggleCompletion(task.ID)
	m.loadData()
}

// handleCycleStatus advances the task through the board columns
func (m *Model) handleCycleStatus() {
	if m.pane != PaneTasks {
		return
	}
	task := m.currentTask()
	if task == nil {
		return
	}
	next := model.StatusTodo
	for i, status := range model.Statuses {
		if status == task.Status {
			next = model.Statuses[(i+1)%len(model.Statuses)]
			break
		}
	}
	m.store.ChangeStatus(task.ID, next)
	m.loadData()
	m.message = fmt.Sprintf("Moved to %s", next)
}

func (m *Model) handleDelete() {
	if m.pane != PaneTasks {
		return
	}
	task := m.currentTask()
	if task == nil {
		return
	}
	m.store.DeleteTask(task.ID)
	m.loadData()
	if m.taskCursor >= len(m.tasks) && m.taskCursor > 0 {
		m.taskCursor--
	}
}

func (m Model) startAddTask() (tea.Model, tea.Cmd) {
	if m.currentItem().Virtual {
		m.message = "Select a concrete list to add a task"
		return m, nil
	}
	m.mode = ModeAddTask
	m.input.SetValue("")
	m.input.Placeholder = "Enter task..."
	m.input.Focus()
	return m, textinput.Blink
}

func (m Model) startAddList() (tea.Model, tea.Cmd) {
	m.mode = ModeAddList
	m.input.SetValue("")
	m.input.Placeholder = "Enter list name..."
	m.input.Focus()
	return m, textinput.Blink
}

func (m Model) startEditTask() (tea.Model, tea.Cmd) {
	if m.pane == PaneTasks {
		if task := m.currentTask(); task != nil {
			m.mode = ModeEditTask
			m.input.SetValue(task.Title)
			m.input.Placeholder = "Edit task..."
			m.input.Focus()
			m.input.CursorEnd()
			return m, textinput.Blink
		}
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		return m, nil

	case key.Matches(msg, keys.Enter):
		value := strings.TrimSpace(m.input.Value())
		if value == "" {
			m.mode = ModeNormal
			return m, nil
		}

		switch m.mode {
		case ModeAddTask:
			task := m.store.CreateTask(store.CreateTaskParams{
				ListID: m.currentItem().ID,
				Title:  value,
			})
			m.message = fmt.Sprintf("Added: %s", task.Title)
		case ModeAddList:
			id := strings.ToLower(strings.ReplaceAll(value, " ", "-"))
			added := m.store.CreateList(model.TaskList{
				ID:          id,
				WorkspaceID: model.WorkspacePersonal,
				Name:        value,
				Color:       "#3B82F6",
				SortOrder:   len(m.store.Lists()),
			})
			if added {
				m.message = fmt.Sprintf("Created list: %s", value)
			} else {
				m.message = fmt.Sprintf("List already exists: %s", id)
			}
		case ModeEditTask:
			if task := m.currentTask(); task != nil {
				m.store.UpdateFields(task.ID, store.TaskPatch{Title: &value})
				m.message = "Updated"
			}
		}

		m.mode = ModeNormal
		m.loadData()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}
