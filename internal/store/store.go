package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/trihoang/studydesk/internal/logger"
	"github.com/trihoang/studydesk/internal/model"
)

// Gateway is the persistence surface the store writes through to. Rows are
// keyed (entity id, owner id) on the remote side, so repeated upserts of the
// same id are overwrites, not duplicates.
type Gateway interface {
	FetchLists(ctx context.Context, ownerID string) ([]model.TaskList, error)
	FetchTasks(ctx context.Context, ownerID string) ([]model.Task, error)
	UpsertList(ctx context.Context, ownerID string, list model.TaskList) error
	UpsertTask(ctx context.Context, ownerID string, task model.Task) error
	DeleteTask(ctx context.Context, ownerID, taskID string) error
	DeleteList(ctx context.Context, ownerID, listID string) error
}

// Store is the in-memory authoritative cache of workspaces, lists and tasks
// for the loaded owner. Mutations apply to the cache synchronously and
// enqueue an asynchronous write-through; the caller never waits on the
// network, and write failures are logged and swallowed.
type Store struct {
	mu      sync.Mutex
	gw      Gateway
	ownerID string

	workspaces []model.Workspace
	lists      []model.TaskList
	tasks      []model.Task

	writes  chan writeOp
	drained chan struct{}
	closed  bool
}

type writeOp struct {
	what string
	call func(ctx context.Context) error
	done chan struct{} // non-nil only for flush markers
}

const writeQueueSize = 256

// New creates a store backed by the given gateway and starts its writer
func New(gw Gateway) *Store {
	s := &Store{
		gw:         gw,
		workspaces: model.DefaultWorkspaces(),
		writes:     make(chan writeOp, writeQueueSize),
		drained:    make(chan struct{}),
	}
	go s.drain()
	return s
}

// drain issues queued persistence calls one at a time, in enqueue order.
// Network completion order across a burst of edits is therefore call order,
// but callers have long since returned by then.
func (s *Store) drain() {
	for op := range s.writes {
		if op.done != nil {
			close(op.done)
			continue
		}
		if err := op.call(context.Background()); err != nil {
			logger.Warn("persistence write failed", logger.F("op", op.what), logger.F("error", err))
		}
	}
	close(s.drained)
}

// enqueue schedules a persistence call. Caller holds the mutex, which is
// what keeps write order equal to mutation call order.
func (s *Store) enqueue(what string, call func(ctx context.Context) error) {
	if s.closed {
		return
	}
	select {
	case s.writes <- writeOp{what: what, call: call}:
	default:
		// Queue full: drop rather than block the mutation path.
		logger.Error("persistence queue full, dropping write", logger.F("op", what))
	}
}

// Flush blocks until every write enqueued so far has been issued
func (s *Store) Flush() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	done := make(chan struct{})
	s.writes <- writeOp{done: done}
	s.mu.Unlock()
	<-done
}

// Close drains outstanding writes and stops the writer
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.writes)
	s.mu.Unlock()
	<-s.drained
}

// Load fetches the owner's lists and tasks from the gateway and makes them
// the cache. A first-time owner gets the default Inbox list.
func (s *Store) Load(ctx context.Context, ownerID string) error {
	lists, err := s.gw.FetchLists(ctx, ownerID)
	if err != nil {
		return err
	}
	tasks, err := s.gw.FetchTasks(ctx, ownerID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ownerID = ownerID
	s.workspaces = model.DefaultWorkspaces()
	s.tasks = tasks

	if len(lists) == 0 {
		inbox := model.DefaultInboxList()
		s.lists = []model.TaskList{inbox}
		owner := ownerID
		s.enqueue("seed inbox", func(ctx context.Context) error {
			return s.gw.UpsertList(ctx, owner, inbox)
		})
	} else {
		s.lists = lists
	}

	return nil
}

// Reset discards all owner state, for sign-out or owner switch
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ownerID = ""
	s.workspaces = model.DefaultWorkspaces()
	s.lists = nil
	s.tasks = nil
}

// OwnerID returns the currently loaded owner
func (s *Store) OwnerID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ownerID
}

// CreateTaskParams are the caller-supplied fields for a manual task
type CreateTaskParams struct {
	ListID      string
	Title       string
	Description string
	Status      model.Status
	Priority    int
	DueDate     string
}

// CreateTask adds a manual task to the cache and schedules its upsert.
// Defaults: status todo, priority P4, sort order after existing list tasks.
func (s *Store) CreateTask(p CreateTaskParams) model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := model.NewTask(uuid.New().String(), p.ListID, p.Title)
	task.Description = p.Description
	task.DueDate = p.DueDate
	if p.Status != "" {
		task.Status = p.Status
	}
	if p.Priority >= model.PriorityUrgent && p.Priority <= model.PriorityLow {
		task.Priority = p.Priority
	}
	task.SortOrder = s.countForListLocked(p.ListID)

	// Newest first in the cache; sort order still places it last in the list view
	s.tasks = append([]model.Task{task}, s.tasks...)
	s.enqueueTaskUpsert(task)
	return task
}

// ImportExternalTask appends an externally sourced task. Idempotent by id:
// a task that already exists is left untouched and no write is scheduled.
// Reports whether the task was added.
func (s *Store) ImportExternalTask(task model.Task) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == task.ID {
			return false
		}
	}

	s.tasks = append(s.tasks, task)
	s.enqueueTaskUpsert(task)
	return true
}

// CreateList adds a list with the same idempotent-by-id semantics as
// ImportExternalTask. Reports whether the list was added.
func (s *Store) CreateList(list model.TaskList) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lists {
		if s.lists[i].ID == list.ID {
			return false
		}
	}

	s.lists = append(s.lists, list)
	owner := s.ownerID
	s.enqueue("upsert list", func(ctx context.Context) error {
		return s.gw.UpsertList(ctx, owner, list)
	})
	return true
}

// ToggleCompletion flips the completion flag, stamps or clears the
// completion time and moves status between done and todo accordingly
func (s *Store) ToggleCompletion(taskID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.findLocked(taskID)
	if t == nil {
		return false
	}

	t.IsCompleted = !t.IsCompleted
	if t.IsCompleted {
		now := time.Now()
		t.CompletedAt = &now
		t.Status = model.StatusDone
	} else {
		t.CompletedAt = nil
		t.Status = model.StatusTodo
	}

	s.enqueueTaskUpsert(*t)
	return true
}

// TaskPatch is a partial task update; nil fields are left alone
type TaskPatch struct {
	ListID      *string
	Title       *string
	Description *string
	Status      *model.Status
	Priority    *int
	DueDate     *string
}

// UpdateFields shallow-merges the patch into the task. A status change
// through this path also reconciles the completion flag so the two
// completion signals cannot drift.
func (s *Store) UpdateFields(taskID string, patch TaskPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.findLocked(taskID)
	if t == nil {
		return false
	}

	if patch.ListID != nil {
		t.ListID = *patch.ListID
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		t.DueDate = *patch.DueDate
	}
	if patch.Status != nil && *patch.Status != t.Status {
		t.Status = *patch.Status
		if t.Status == model.StatusDone && !t.IsCompleted {
			now := time.Now()
			t.IsCompleted = true
			t.CompletedAt = &now
		} else if t.Status != model.StatusDone && t.IsCompleted {
			t.IsCompleted = false
			t.CompletedAt = nil
		}
	}

	s.enqueueTaskUpsert(*t)
	return true
}

// ChangeStatus sets the status only; board-column moves use this. The board
// view reconciles completed tasks into the done column at read time.
func (s *Store) ChangeStatus(taskID string, status model.Status) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.findLocked(taskID)
	if t == nil {
		return false
	}

	t.Status = status
	s.enqueueTaskUpsert(*t)
	return true
}

// DeleteTask removes the task from the cache and schedules the remote delete
func (s *Store) DeleteTask(taskID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == taskID {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			owner := s.ownerID
			s.enqueue("delete task", func(ctx context.Context) error {
				return s.gw.DeleteTask(ctx, owner, taskID)
			})
			return true
		}
	}
	return false
}

// DeleteList removes a list and its tasks, scheduling the remote deletes
func (s *Store) DeleteList(listID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.lists {
		if s.lists[i].ID == listID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	s.lists = append(s.lists[:idx], s.lists[idx+1:]...)
	owner := s.ownerID

	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.ListID != listID {
			kept = append(kept, t)
			continue
		}
		taskID := t.ID
		s.enqueue("delete task", func(ctx context.Context) error {
			return s.gw.DeleteTask(ctx, owner, taskID)
		})
	}
	s.tasks = kept

	s.enqueue("delete list", func(ctx context.Context) error {
		return s.gw.DeleteList(ctx, owner, listID)
	})
	return true
}

func (s *Store) enqueueTaskUpsert(task model.Task) {
	owner := s.ownerID
	s.enqueue("upsert task", func(ctx context.Context) error {
		return s.gw.UpsertTask(ctx, owner, task)
	})
}

func (s *Store) findLocked(taskID string) *model.Task {
	for i := range s.tasks {
		if s.tasks[i].ID == taskID {
			return &s.tasks[i]
		}
	}
	return nil
}

func (s *Store) countForListLocked(listID string) int {
	n := 0
	for i := range s.tasks {
		if s.tasks[i].ListID == listID {
			n++
		}
	}
	return n
}
