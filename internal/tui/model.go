package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/trihoang/studydesk/internal/logger"
	"github.com/trihoang/studydesk/internal/model"
	"github.com/trihoang/studydesk/internal/store"
)

// Pane represents which pane is focused
type Pane int

const (
	PaneSidebar Pane = iota
	PaneTasks
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeAddTask
	ModeAddList
	ModeEditTask
	ModeHelp
)

// View represents how the task pane renders the selected list
type View int

const (
	ViewList View = iota
	ViewBoard
	ViewMatrix
)

// sidebarItem is one selectable row in the sidebar: a virtual list or a
// concrete list inside a workspace
type sidebarItem struct {
	ID       string
	Name     string
	Virtual  bool
	Academic bool
}

// Model is the main TUI model
type Model struct {
	store *store.Store

	items []sidebarItem
	tasks []model.Task

	// UI state
	width      int
	height     int
	pane       Pane
	mode       Mode
	view       View
	listCursor int
	taskCursor int

	// Input
	input textinput.Model

	message string
}

// NewModel creates a new TUI model over a loaded store
func NewModel(s *store.Store) Model {
	logger.Info("Initializing TUI model")

	ti := textinput.New()
	ti.Placeholder = "Enter task..."
	ti.CharLimit = 256
	ti.Width = 50

	m := Model{
		store: s,
		pane:  PaneSidebar,
		mode:  ModeNormal,
		view:  ViewList,
		input: ti,
	}

	m.loadData()
	logger.Debug("TUI model initialized",
		logger.F("lists", len(m.items)),
		logger.F("tasks", len(m.tasks)))
	return m
}

func (m *Model) loadData() {
	m.items = m.items[:0]
	for _, v := range []sidebarItem{
		{ID: model.VirtualListToday, Name: "Today", Virtual: true},
		{ID: model.VirtualListUpcoming, Name: "Upcoming", Virtual: true},
		{ID: model.VirtualListCompleted, Name: "Completed", Virtual: true},
	} {
		m.items = append(m.items, v)
	}
	for _, l := range m.store.Lists() {
		m.items = append(m.items, sidebarItem{
			ID:       l.ID,
			Name:     l.Name,
			Academic: l.WorkspaceID == model.WorkspaceAcademic,
		})
	}

	if m.listCursor >= len(m.items) {
		m.listCursor = 0
	}
	m.tasks = m.store.TasksForList(m.items[m.listCursor].ID)
	if m.taskCursor >= len(m.tasks) {
		m.taskCursor = 0
	}
}

func (m *Model) currentItem() sidebarItem {
	return m.items[m.listCursor]
}

func (m *Model) currentTask() *model.Task {
	if m.taskCursor < len(m.tasks) {
		return &m.tasks[m.taskCursor]
	}
	return nil
}
