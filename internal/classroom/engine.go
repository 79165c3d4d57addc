package classroom

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/trihoang/studydesk/internal/logger"
	"github.com/trihoang/studydesk/internal/model"
)

var (
	// ErrNoToken means reconciliation was asked to run without a bearer token
	ErrNoToken = errors.New("no classroom token available, sign in with Google again")
	// ErrSyncInProgress means a run was refused because one is already active
	ErrSyncInProgress = errors.New("sync already in progress")
)

// subjectColors is the rotating palette assigned to new course lists
var subjectColors = []string{
	"#7C3AED", "#3B82F6", "#10B981", "#F59E0B",
	"#EF4444", "#EC4899", "#06B6D4", "#8B5CF6",
}

// Feed is the read side of the assignment feed
type Feed interface {
	FetchAll(ctx context.Context, token string) ([]CourseData, error)
}

// EntityStore is the slice of the local store the engine mutates through.
// The engine never writes to the cache or the gateway directly.
type EntityStore interface {
	CreateList(list model.TaskList) bool
	ImportExternalTask(task model.Task) bool
	ListTaskCount(listID string) int
	AcademicListCount() int
}

// StateGateway persists the engine's sync state blob, one row per owner
type StateGateway interface {
	FetchSyncState(ctx context.Context, ownerID string) (*model.SyncState, error)
	UpsertSyncState(ctx context.Context, ownerID string, state model.SyncState) error
}

// Result holds the counts a reconciliation run reports
type Result struct {
	NewTasks       int
	UpdatedCourses int
}

// Engine imports the external assignment feed into the local store exactly
// once per assignment. It owns the course mappings and the imported-key set;
// both are append-only during normal operation.
type Engine struct {
	feed   Feed
	store  EntityStore
	states StateGateway

	mu       sync.Mutex
	syncing  bool
	ownerID  string
	courses  []model.SyncedCourse
	imported map[string]struct{}
	lastSync *time.Time
	lastErr  string
}

// NewEngine creates a reconciliation engine
func NewEngine(feed Feed, store EntityStore, states StateGateway) *Engine {
	return &Engine{
		feed:     feed,
		store:    store,
		states:   states,
		imported: make(map[string]struct{}),
	}
}

// Load restores the owner's prior sync state. A missing row is not an
// error; it means no prior state and the engine starts from defaults.
func (e *Engine) Load(ctx context.Context, ownerID string) error {
	state, err := e.states.FetchSyncState(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("failed to load sync state: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.ownerID = ownerID
	e.courses = nil
	e.imported = make(map[string]struct{})
	e.lastSync = nil
	e.lastErr = ""

	if state != nil {
		e.courses = state.Courses
		for _, key := range state.ImportedWorkIDs {
			e.imported[key] = struct{}{}
		}
		e.lastSync = state.LastSyncAt
	}

	return nil
}

// Reset discards all sync state, for sign-out or owner switch
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ownerID = ""
	e.courses = nil
	e.imported = make(map[string]struct{})
	e.lastSync = nil
	e.lastErr = ""
}

// Status reports the engine's last run for display
func (e *Engine) Status() (courses []model.SyncedCourse, lastSync *time.Time, lastErr string, syncing bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	courses = append(courses, e.courses...)
	return courses, e.lastSync, e.lastErr, e.syncing
}

// CourseListID derives the deterministic local list id for a course, which
// makes list creation idempotent without consulting the mapping table
func CourseListID(courseID string) string {
	return "classroom-" + courseID
}

// workTaskID derives the imported task id from the dedup key, so the store's
// import-by-id guard holds even if the key set were bypassed
func workTaskID(courseID, workID string) string {
	return fmt.Sprintf("classroom-%s-%s", courseID, workID)
}

// SyncNow runs one reconciliation pass: fetch the feed, materialize unseen
// courses as lists, import unseen assignments as tasks, persist the updated
// state blob. Re-running against unchanged remote data imports nothing.
func (e *Engine) SyncNow(ctx context.Context, token string) (Result, error) {
	if token == "" {
		e.mu.Lock()
		e.lastErr = ErrNoToken.Error()
		e.mu.Unlock()
		return Result{}, ErrNoToken
	}

	e.mu.Lock()
	if e.syncing {
		e.mu.Unlock()
		return Result{}, ErrSyncInProgress
	}
	e.syncing = true
	e.lastErr = ""
	ownerID := e.ownerID
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.syncing = false
		e.mu.Unlock()
	}()

	data, err := e.feed.FetchAll(ctx, token)
	if err != nil {
		e.mu.Lock()
		e.lastErr = err.Error()
		e.mu.Unlock()
		return Result{}, fmt.Errorf("classroom sync failed: %w", err)
	}

	var result Result
	for _, cd := range data {
		listID := e.ensureCourseList(cd.Course, &result)
		for _, work := range cd.Work {
			e.importWork(cd.Course, work, listID, &result)
		}
	}

	now := time.Now()
	e.mu.Lock()
	e.lastSync = &now
	state := e.snapshotLocked()
	e.mu.Unlock()

	// Durability only; the in-memory result already stands for the caller
	if err := e.states.UpsertSyncState(ctx, ownerID, state); err != nil {
		logger.Warn("failed to persist sync state", logger.F("error", err))
	}

	logger.Info("classroom sync finished",
		logger.F("newTasks", result.NewTasks), logger.F("updatedCourses", result.UpdatedCourses))
	return result, nil
}

// ensureCourseList finds or creates the list for a course and returns its id
func (e *Engine) ensureCourseList(course Course, result *Result) string {
	e.mu.Lock()
	for _, sc := range e.courses {
		if sc.ID == course.ID {
			e.mu.Unlock()
			return sc.ListID
		}
	}
	listID := CourseListID(course.ID)
	color := subjectColors[len(e.courses)%len(subjectColors)]
	e.courses = append(e.courses, model.SyncedCourse{ID: course.ID, Name: course.Name, ListID: listID})
	e.mu.Unlock()

	e.store.CreateList(model.TaskList{
		ID:          listID,
		WorkspaceID: model.WorkspaceAcademic,
		Name:        course.Name,
		Color:       color,
		SortOrder:   e.store.AcademicListCount(),
		IsAcademic:  true,
		CourseName:  course.Name,
	})
	result.UpdatedCourses++
	return listID
}

// importWork imports a single assignment if its dedup key is unseen
func (e *Engine) importWork(course Course, work CourseWork, listID string, result *Result) {
	key := course.ID + ":" + work.ID

	e.mu.Lock()
	if _, seen := e.imported[key]; seen {
		e.mu.Unlock()
		return
	}
	e.imported[key] = struct{}{}
	e.mu.Unlock()

	dueDate := FormatDueDate(work.DueDate)
	priority := model.PriorityMedium
	if dueDate != "" {
		priority = model.PriorityHigh
	}

	description := work.Description
	if description == "" {
		description = fmt.Sprintf("Assignment from %s", course.Name)
	}

	createdAt := time.Now()
	if work.CreationTime != "" {
		if t, err := time.Parse(time.RFC3339, work.CreationTime); err == nil {
			createdAt = t
		}
	}

	e.store.ImportExternalTask(model.Task{
		ID:          workTaskID(course.ID, work.ID),
		ListID:      listID,
		Title:       work.Title,
		Description: description,
		Status:      model.StatusTodo,
		Priority:    priority,
		DueDate:     dueDate,
		SortOrder:   e.store.ListTaskCount(listID),
		Source:      model.SourceClassroom,
		CreatedAt:   createdAt,
	})
	result.NewTasks++
}

// snapshotLocked builds the persisted state blob. Caller holds the mutex.
func (e *Engine) snapshotLocked() model.SyncState {
	keys := make([]string, 0, len(e.imported))
	for key := range e.imported {
		keys = append(keys, key)
	}
	courses := make([]model.SyncedCourse, len(e.courses))
	copy(courses, e.courses)
	return model.SyncState{
		Courses:         courses,
		ImportedWorkIDs: keys,
		LastSyncAt:      e.lastSync,
	}
}
