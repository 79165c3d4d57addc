package model

import (
	"testing"
	"time"
)

func TestNewTaskDefaults(t *testing.T) {
	task := NewTask("id1", "inbox", "Read")
	if task.Status != StatusTodo {
		t.Errorf("status = %s, want todo", task.Status)
	}
	if task.Priority != PriorityLow {
		t.Errorf("priority = %d, want %d", task.Priority, PriorityLow)
	}
	if task.Source != SourceManual {
		t.Errorf("source = %s, want manual", task.Source)
	}
	if task.IsCompleted {
		t.Error("new task must be open")
	}
}

func TestDueWithinCountsOverdue(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	overdue := Task{DueDate: "2026-08-01"}
	if !overdue.DueWithin(now, 7) {
		t.Error("overdue task should count as due")
	}

	soon := Task{DueDate: "2026-09-03"}
	if !soon.DueWithin(now, 7) {
		t.Error("task due in 4 days should be within 7")
	}

	far := Task{DueDate: "2026-10-01"}
	if far.DueWithin(now, 7) {
		t.Error("task a month out is not within 7 days")
	}

	undated := Task{}
	if undated.DueWithin(now, 7) {
		t.Error("undated task is never due")
	}
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	open := Task{DueDate: "2026-08-29"}
	if !open.IsOverdue(now) {
		t.Error("yesterday's open task is overdue")
	}

	today := Task{DueDate: "2026-08-30"}
	if today.IsOverdue(now) {
		t.Error("due today is not overdue")
	}

	finished := Task{DueDate: "2026-08-01", IsCompleted: true}
	if finished.IsOverdue(now) {
		t.Error("completed tasks are never overdue")
	}
}
