package model

import "time"

// Priority levels for tasks
const (
	PriorityUrgent = 1 // Red - Urgent
	PriorityHigh   = 2 // Orange - High
	PriorityMedium = 3 // Yellow - Medium
	PriorityLow    = 4 // Blue - Low (default)
)

// Status is the workflow state of a task
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusReview     Status = "review"
	StatusDone       Status = "done"
)

// Statuses lists the board columns in display order
var Statuses = []Status{StatusTodo, StatusInProgress, StatusReview, StatusDone}

// Source records where a task came from
type Source string

const (
	SourceManual    Source = "manual"
	SourceClassroom Source = "classroom"
)

// DueDateLayout is the calendar-date format used for due dates (no time component)
const DueDateLayout = "2006-01-02"

// Label is a colored tag attached to a task
type Label struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Subtask is a checklist item inside a task
type Subtask struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	IsCompleted bool   `json:"is_completed"`
	SortOrder   int    `json:"sort_order"`
}

// Task represents a single todo item
type Task struct {
	ID          string     `json:"id"`
	ListID      string     `json:"list_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      Status     `json:"status"`
	Priority    int        `json:"priority"`
	DueDate     string     `json:"due_date,omitempty"` // YYYY-MM-DD, empty means no due date
	IsCompleted bool       `json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	SortOrder   int        `json:"sort_order"`
	Source      Source     `json:"source"`
	Labels      []Label    `json:"labels,omitempty"`
	Subtasks    []Subtask  `json:"subtasks,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewTask creates a manual task with defaults
func NewTask(id, listID, title string) Task {
	return Task{
		ID:        id,
		ListID:    listID,
		Title:     title,
		Status:    StatusTodo,
		Priority:  PriorityLow,
		Source:    SourceManual,
		CreatedAt: time.Now(),
	}
}

// DueOn returns true if the task is due on the given day
func (t *Task) DueOn(day time.Time) bool {
	return t.DueDate != "" && t.DueDate == day.Format(DueDateLayout)
}

// DueWithin returns true if the task is due on or before now+days.
// Overdue tasks count as due.
func (t *Task) DueWithin(now time.Time, days int) bool {
	if t.DueDate == "" {
		return false
	}
	due, err := time.Parse(DueDateLayout, t.DueDate)
	if err != nil {
		return false
	}
	return !due.After(now.AddDate(0, 0, days))
}

// IsOverdue returns true if the task is past its due date and still open
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == "" || t.IsCompleted {
		return false
	}
	due, err := time.Parse(DueDateLayout, t.DueDate)
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return due.Before(today)
}
