package store

import (
	"sort"
	"time"

	"github.com/trihoang/studydesk/internal/model"
)

// Read views over the cache. None of these are persisted; they are computed
// on demand from the task collection.

// Workspaces returns the fixed workspace set
func (s *Store) Workspaces() []model.Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Workspace, len(s.workspaces))
	copy(out, s.workspaces)
	return out
}

// Lists returns all lists ordered by workspace then sort order
func (s *Store) Lists() []model.TaskList {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.TaskList, len(s.lists))
	copy(out, s.lists)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].WorkspaceID != out[j].WorkspaceID {
			return out[i].WorkspaceID < out[j].WorkspaceID
		}
		return out[i].SortOrder < out[j].SortOrder
	})
	return out
}

// List returns a list by id
func (s *Store) List(listID string) (model.TaskList, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.lists {
		if l.ID == listID {
			return l, true
		}
	}
	return model.TaskList{}, false
}

// Task returns a task by id
func (s *Store) Task(taskID string) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t := s.findLocked(taskID); t != nil {
		return *t, true
	}
	return model.Task{}, false
}

// FindTaskByPrefix resolves a task by id prefix, for CLI ergonomics.
// Ambiguous prefixes resolve to nothing.
func (s *Store) FindTaskByPrefix(prefix string) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var found *model.Task
	for i := range s.tasks {
		if s.tasks[i].ID == prefix {
			return s.tasks[i], true
		}
		if len(prefix) > 0 && len(s.tasks[i].ID) > len(prefix) && s.tasks[i].ID[:len(prefix)] == prefix {
			if found != nil {
				return model.Task{}, false
			}
			found = &s.tasks[i]
		}
	}
	if found != nil {
		return *found, true
	}
	return model.Task{}, false
}

// ListTaskCount returns how many tasks currently sit in a list
func (s *Store) ListTaskCount(listID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countForListLocked(listID)
}

// AcademicListCount returns how many lists the academic workspace holds,
// used as the sort order for the next course list
func (s *Store) AcademicListCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.lists {
		if l.WorkspaceID == model.WorkspaceAcademic {
			n++
		}
	}
	return n
}

// TasksForList returns the tasks for a concrete list id or one of the
// virtual lists: today (due today, open), upcoming (due within 7 days,
// open), completed.
func (s *Store) TasksForList(listID string) []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var out []model.Task
	for _, t := range s.tasks {
		switch listID {
		case model.VirtualListToday:
			if t.DueOn(now) && !t.IsCompleted {
				out = append(out, t)
			}
		case model.VirtualListUpcoming:
			if t.DueWithin(now, 7) && !t.IsCompleted {
				out = append(out, t)
			}
		case model.VirtualListCompleted:
			if t.IsCompleted {
				out = append(out, t)
			}
		default:
			if t.ListID == listID {
				out = append(out, t)
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SortOrder < out[j].SortOrder
	})
	return out
}

// TasksByStatus partitions a list's tasks into board columns. A task with
// the completion flag set lands in the done column whatever its raw status
// says; the two completion signals are reconciled here for display.
func (s *Store) TasksByStatus(listID string) map[model.Status][]model.Task {
	tasks := s.TasksForList(listID)

	byStatus := make(map[model.Status][]model.Task, len(model.Statuses))
	for _, status := range model.Statuses {
		byStatus[status] = []model.Task{}
	}

	for _, t := range tasks {
		if t.IsCompleted || t.Status == model.StatusDone {
			byStatus[model.StatusDone] = append(byStatus[model.StatusDone], t)
			continue
		}
		if _, ok := byStatus[t.Status]; !ok {
			byStatus[t.Status] = []model.Task{}
		}
		byStatus[t.Status] = append(byStatus[t.Status], t)
	}

	return byStatus
}

// Quadrant is an Eisenhower matrix cell
type Quadrant int

const (
	QuadrantUrgentImportant Quadrant = iota
	QuadrantImportant
	QuadrantUrgent
	QuadrantNeither
)

// Classify computes the matrix cell for a task at read time from priority
// and due-date proximity. Nothing ever stores these flags.
func Classify(t model.Task, now time.Time) Quadrant {
	urgent := t.Priority == model.PriorityUrgent || t.DueWithin(now, 2)
	important := t.Priority <= model.PriorityHigh

	switch {
	case urgent && important:
		return QuadrantUrgentImportant
	case important:
		return QuadrantImportant
	case urgent:
		return QuadrantUrgent
	default:
		return QuadrantNeither
	}
}
