package classroom

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/trihoang/studydesk/internal/model"
)

type fakeFeed struct {
	mu    sync.Mutex
	data  []CourseData
	err   error
	calls int
	gate  chan struct{}
}

func (f *fakeFeed) FetchAll(ctx context.Context, token string) ([]CourseData, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.gate != nil {
		<-f.gate
	}
	return f.data, f.err
}

func (f *fakeFeed) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeEntityStore struct {
	lists []model.TaskList
	tasks []model.Task
}

func (s *fakeEntityStore) CreateList(list model.TaskList) bool {
	for _, l := range s.lists {
		if l.ID == list.ID {
			return false
		}
	}
	s.lists = append(s.lists, list)
	return true
}

func (s *fakeEntityStore) ImportExternalTask(task model.Task) bool {
	for _, t := range s.tasks {
		if t.ID == task.ID {
			return false
		}
	}
	s.tasks = append(s.tasks, task)
	return true
}

func (s *fakeEntityStore) ListTaskCount(listID string) int {
	n := 0
	for _, t := range s.tasks {
		if t.ListID == listID {
			n++
		}
	}
	return n
}

func (s *fakeEntityStore) AcademicListCount() int {
	n := 0
	for _, l := range s.lists {
		if l.WorkspaceID == model.WorkspaceAcademic {
			n++
		}
	}
	return n
}

type fakeStateGateway struct {
	state     *model.SyncState
	upserts   int
	fetchErr  error
	upsertErr error
}

func (g *fakeStateGateway) FetchSyncState(ctx context.Context, ownerID string) (*model.SyncState, error) {
	return g.state, g.fetchErr
}

func (g *fakeStateGateway) UpsertSyncState(ctx context.Context, ownerID string, state model.SyncState) error {
	g.upserts++
	g.state = &state
	return g.upsertErr
}

func mathFeed() []CourseData {
	return []CourseData{
		{
			Course: Course{ID: "c1", Name: "Math 101", CourseState: "ACTIVE"},
			Work: []CourseWork{
				{ID: "w1", CourseID: "c1", Title: "Problem set 1", DueDate: &DueDate{Year: 2026, Month: 9, Day: 15}},
				{ID: "w2", CourseID: "c1", Title: "Reading response"},
			},
		},
	}
}

func newTestEngine(t *testing.T, feed Feed, states StateGateway) (*Engine, *fakeEntityStore) {
	t.Helper()
	store := &fakeEntityStore{}
	e := NewEngine(feed, store, states)
	if err := e.Load(context.Background(), "owner-1"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return e, store
}

func TestSyncNowImportsFeed(t *testing.T) {
	feed := &fakeFeed{data: mathFeed()}
	states := &fakeStateGateway{}
	e, store := newTestEngine(t, feed, states)

	result, err := e.SyncNow(context.Background(), "tok")
	if err != nil {
		t.Fatalf("SyncNow failed: %v", err)
	}
	if result.NewTasks != 2 || result.UpdatedCourses != 1 {
		t.Errorf("result = %+v, want 2 new tasks, 1 updated course", result)
	}

	if len(store.lists) != 1 {
		t.Fatalf("lists = %d, want 1", len(store.lists))
	}
	list := store.lists[0]
	if list.ID != "classroom-c1" {
		t.Errorf("list id = %s, want classroom-c1", list.ID)
	}
	if list.WorkspaceID != model.WorkspaceAcademic || !list.IsAcademic {
		t.Error("course list should live in the academic workspace")
	}
	if list.CourseName != "Math 101" {
		t.Errorf("course name = %s", list.CourseName)
	}

	if len(store.tasks) != 2 {
		t.Fatalf("tasks = %d, want 2", len(store.tasks))
	}
	for _, task := range store.tasks {
		if task.Source != model.SourceClassroom {
			t.Errorf("task %s source = %s, want classroom", task.ID, task.Source)
		}
		if task.ListID != "classroom-c1" {
			t.Errorf("task %s list = %s", task.ID, task.ListID)
		}
	}
}

func TestSyncNowSecondRunImportsNothing(t *testing.T) {
	feed := &fakeFeed{data: mathFeed()}
	states := &fakeStateGateway{}
	e, store := newTestEngine(t, feed, states)

	if _, err := e.SyncNow(context.Background(), "tok"); err != nil {
		t.Fatalf("first sync failed: %v", err)
	}
	result, err := e.SyncNow(context.Background(), "tok")
	if err != nil {
		t.Fatalf("second sync failed: %v", err)
	}
	if result.NewTasks != 0 || result.UpdatedCourses != 0 {
		t.Errorf("second run result = %+v, want zeroes", result)
	}
	if len(store.tasks) != 2 {
		t.Errorf("tasks = %d after rerun, want 2", len(store.tasks))
	}
}

func TestSyncNowDeterministicTaskIDs(t *testing.T) {
	feed := &fakeFeed{data: mathFeed()}
	e, store := newTestEngine(t, feed, &fakeStateGateway{})

	if _, err := e.SyncNow(context.Background(), "tok"); err != nil {
		t.Fatalf("SyncNow failed: %v", err)
	}

	want := map[string]bool{"classroom-c1-w1": true, "classroom-c1-w2": true}
	for _, task := range store.tasks {
		if !want[task.ID] {
			t.Errorf("unexpected task id %s", task.ID)
		}
	}
}

func TestImportedPriorityFollowsDueDate(t *testing.T) {
	feed := &fakeFeed{data: mathFeed()}
	e, store := newTestEngine(t, feed, &fakeStateGateway{})

	if _, err := e.SyncNow(context.Background(), "tok"); err != nil {
		t.Fatalf("SyncNow failed: %v", err)
	}

	for _, task := range store.tasks {
		switch task.ID {
		case "classroom-c1-w1":
			if task.Priority != model.PriorityHigh {
				t.Errorf("dated assignment priority = %d, want %d", task.Priority, model.PriorityHigh)
			}
			if task.DueDate != "2026-09-15" {
				t.Errorf("due date = %s, want 2026-09-15", task.DueDate)
			}
		case "classroom-c1-w2":
			if task.Priority != model.PriorityMedium {
				t.Errorf("undated assignment priority = %d, want %d", task.Priority, model.PriorityMedium)
			}
		}
	}
}

func TestImportedDescriptionFallback(t *testing.T) {
	feed := &fakeFeed{data: mathFeed()}
	e, store := newTestEngine(t, feed, &fakeStateGateway{})

	if _, err := e.SyncNow(context.Background(), "tok"); err != nil {
		t.Fatalf("SyncNow failed: %v", err)
	}

	for _, task := range store.tasks {
		if task.Description != "Assignment from Math 101" {
			t.Errorf("description = %q, want course fallback", task.Description)
		}
	}
}

func TestSyncNowWithoutToken(t *testing.T) {
	feed := &fakeFeed{data: mathFeed()}
	e, _ := newTestEngine(t, feed, &fakeStateGateway{})

	_, err := e.SyncNow(context.Background(), "")
	if !errors.Is(err, ErrNoToken) {
		t.Fatalf("err = %v, want ErrNoToken", err)
	}
	if feed.callCount() != 0 {
		t.Error("feed must not be consulted without a token")
	}

	_, _, lastErr, _ := e.Status()
	if lastErr != ErrNoToken.Error() {
		t.Errorf("lastErr = %q", lastErr)
	}
}

func TestSyncNowRefusesConcurrentRun(t *testing.T) {
	gate := make(chan struct{})
	feed := &fakeFeed{data: mathFeed(), gate: gate}
	e, _ := newTestEngine(t, feed, &fakeStateGateway{})

	firstDone := make(chan error, 1)
	go func() {
		_, err := e.SyncNow(context.Background(), "tok")
		firstDone <- err
	}()

	// Wait for the first run to enter the feed fetch, then race a second.
	for feed.callCount() == 0 {
		time.Sleep(time.Millisecond)
	}
	_, err := e.SyncNow(context.Background(), "tok")
	if !errors.Is(err, ErrSyncInProgress) {
		t.Fatalf("err = %v, want ErrSyncInProgress", err)
	}

	close(gate)
	if err := <-firstDone; err != nil {
		t.Fatalf("first run failed: %v", err)
	}
}

func TestSyncNowFeedError(t *testing.T) {
	feed := &fakeFeed{err: errors.New("boom")}
	e, _ := newTestEngine(t, feed, &fakeStateGateway{})

	if _, err := e.SyncNow(context.Background(), "tok"); err == nil {
		t.Fatal("expected error from failing feed")
	}

	_, _, lastErr, syncing := e.Status()
	if lastErr == "" {
		t.Error("lastErr should record the failure")
	}
	if syncing {
		t.Error("syncing flag must clear after a failed run")
	}

	// A failed run must not be sticky.
	feed.err = nil
	feed.data = mathFeed()
	if _, err := e.SyncNow(context.Background(), "tok"); err != nil {
		t.Fatalf("sync after recovery failed: %v", err)
	}
}

func TestSyncNowPersistsState(t *testing.T) {
	feed := &fakeFeed{data: mathFeed()}
	states := &fakeStateGateway{}
	e, _ := newTestEngine(t, feed, states)

	if _, err := e.SyncNow(context.Background(), "tok"); err != nil {
		t.Fatalf("SyncNow failed: %v", err)
	}

	if states.upserts != 1 {
		t.Fatalf("state upserts = %d, want 1", states.upserts)
	}
	if len(states.state.Courses) != 1 || states.state.Courses[0].ListID != "classroom-c1" {
		t.Errorf("persisted courses = %v", states.state.Courses)
	}
	if len(states.state.ImportedWorkIDs) != 2 {
		t.Errorf("persisted keys = %v, want 2", states.state.ImportedWorkIDs)
	}
	if states.state.LastSyncAt == nil {
		t.Error("last sync time missing from persisted state")
	}
}

func TestSyncNowStatePersistFailureIsNonFatal(t *testing.T) {
	feed := &fakeFeed{data: mathFeed()}
	states := &fakeStateGateway{upsertErr: errors.New("down")}
	e, store := newTestEngine(t, feed, states)

	result, err := e.SyncNow(context.Background(), "tok")
	if err != nil {
		t.Fatalf("sync should survive a state persist failure: %v", err)
	}
	if result.NewTasks != 2 || len(store.tasks) != 2 {
		t.Error("imports should stand even when state persistence fails")
	}
}

func TestLoadRestoresImportedKeys(t *testing.T) {
	feed := &fakeFeed{data: mathFeed()}
	states := &fakeStateGateway{state: &model.SyncState{
		Courses:         []model.SyncedCourse{{ID: "c1", Name: "Math 101", ListID: "classroom-c1"}},
		ImportedWorkIDs: []string{"c1:w1", "c1:w2"},
	}}
	e, store := newTestEngine(t, feed, states)

	result, err := e.SyncNow(context.Background(), "tok")
	if err != nil {
		t.Fatalf("SyncNow failed: %v", err)
	}
	if result.NewTasks != 0 || result.UpdatedCourses != 0 {
		t.Errorf("result = %+v, want zeroes from restored state", result)
	}
	if len(store.tasks) != 0 {
		t.Errorf("tasks = %d, want 0", len(store.tasks))
	}
}

func TestResetClearsState(t *testing.T) {
	feed := &fakeFeed{data: mathFeed()}
	e, _ := newTestEngine(t, feed, &fakeStateGateway{})

	if _, err := e.SyncNow(context.Background(), "tok"); err != nil {
		t.Fatalf("SyncNow failed: %v", err)
	}
	e.Reset()

	courses, lastSync, lastErr, _ := e.Status()
	if len(courses) != 0 || lastSync != nil || lastErr != "" {
		t.Error("reset should clear all sync state")
	}
}

func TestLoadSurfacesStateFetchError(t *testing.T) {
	states := &fakeStateGateway{fetchErr: errors.New("unreachable")}
	e := NewEngine(&fakeFeed{}, &fakeEntityStore{}, states)
	if err := e.Load(context.Background(), "owner-1"); err == nil {
		t.Fatal("expected error when the state row cannot be fetched")
	}
}

func TestCourseListID(t *testing.T) {
	if got := CourseListID("42"); got != "classroom-42" {
		t.Errorf("CourseListID = %s", got)
	}
}
