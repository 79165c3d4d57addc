package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/trihoang/studydesk/internal/model"
)

// fakeGateway records persistence calls in order. An optional gate channel
// makes UpsertTask block until released, to observe the cache ahead of the
// write-through.
type fakeGateway struct {
	mu    sync.Mutex
	lists []model.TaskList
	tasks []model.Task
	calls []string
	gate  chan struct{}
}

func (g *fakeGateway) record(call string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, call)
}

func (g *fakeGateway) recorded() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.calls))
	copy(out, g.calls)
	return out
}

func (g *fakeGateway) FetchLists(ctx context.Context, ownerID string) ([]model.TaskList, error) {
	return g.lists, nil
}

func (g *fakeGateway) FetchTasks(ctx context.Context, ownerID string) ([]model.Task, error) {
	return g.tasks, nil
}

func (g *fakeGateway) UpsertList(ctx context.Context, ownerID string, list model.TaskList) error {
	g.record("upsert-list:" + list.ID)
	return nil
}

func (g *fakeGateway) UpsertTask(ctx context.Context, ownerID string, task model.Task) error {
	if g.gate != nil {
		<-g.gate
	}
	g.record("upsert-task:" + task.ID)
	return nil
}

func (g *fakeGateway) DeleteTask(ctx context.Context, ownerID, taskID string) error {
	g.record("delete-task:" + taskID)
	return nil
}

func (g *fakeGateway) DeleteList(ctx context.Context, ownerID, listID string) error {
	g.record("delete-list:" + listID)
	return nil
}

func newLoadedStore(t *testing.T, gw *fakeGateway) *Store {
	t.Helper()
	s := New(gw)
	t.Cleanup(s.Close)
	if err := s.Load(context.Background(), "owner-1"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return s
}

func TestLoadSeedsInboxForNewOwner(t *testing.T) {
	gw := &fakeGateway{}
	s := newLoadedStore(t, gw)

	lists := s.Lists()
	if len(lists) != 1 || lists[0].ID != "inbox" {
		t.Fatalf("expected seeded inbox, got %v", lists)
	}

	s.Flush()
	calls := gw.recorded()
	if len(calls) != 1 || calls[0] != "upsert-list:inbox" {
		t.Errorf("expected inbox upsert, got %v", calls)
	}
}

func TestLoadKeepsExistingLists(t *testing.T) {
	gw := &fakeGateway{lists: []model.TaskList{
		{ID: "reading", WorkspaceID: "personal", Name: "Reading"},
	}}
	s := newLoadedStore(t, gw)

	if _, ok := s.List("inbox"); ok {
		t.Error("inbox should not be seeded when lists exist")
	}
	if _, ok := s.List("reading"); !ok {
		t.Error("existing list missing after load")
	}

	s.Flush()
	if calls := gw.recorded(); len(calls) != 0 {
		t.Errorf("no writes expected on load with existing lists, got %v", calls)
	}
}

func TestCreateTaskDefaults(t *testing.T) {
	gw := &fakeGateway{}
	s := newLoadedStore(t, gw)

	task := s.CreateTask(CreateTaskParams{ListID: "inbox", Title: "Read chapter 3"})

	if task.ID == "" {
		t.Fatal("expected generated id")
	}
	if task.Status != model.StatusTodo {
		t.Errorf("status = %s, want todo", task.Status)
	}
	if task.Priority != model.PriorityLow {
		t.Errorf("priority = %d, want %d", task.Priority, model.PriorityLow)
	}
	if task.Source != model.SourceManual {
		t.Errorf("source = %s, want manual", task.Source)
	}

	second := s.CreateTask(CreateTaskParams{ListID: "inbox", Title: "Another"})
	if second.SortOrder != 1 {
		t.Errorf("second task sort order = %d, want 1", second.SortOrder)
	}
}

func TestCreateTaskVisibleBeforeWriteCompletes(t *testing.T) {
	gate := make(chan struct{})
	gw := &fakeGateway{gate: gate}
	s := newLoadedStore(t, gw)

	task := s.CreateTask(CreateTaskParams{ListID: "inbox", Title: "Instant"})

	// The write is still blocked; the cache must already have the task.
	if _, ok := s.Task(task.ID); !ok {
		t.Error("task not visible before persistence completed")
	}

	close(gate)
	s.Flush()
	found := false
	for _, call := range gw.recorded() {
		if call == "upsert-task:"+task.ID {
			found = true
		}
	}
	if !found {
		t.Error("task upsert never issued")
	}
}

func TestWritesIssueInMutationOrder(t *testing.T) {
	gw := &fakeGateway{}
	s := newLoadedStore(t, gw)

	a := s.CreateTask(CreateTaskParams{ListID: "inbox", Title: "a"})
	b := s.CreateTask(CreateTaskParams{ListID: "inbox", Title: "b"})
	s.ToggleCompletion(a.ID)
	s.DeleteTask(b.ID)
	s.Flush()

	want := []string{
		"upsert-list:inbox",
		"upsert-task:" + a.ID,
		"upsert-task:" + b.ID,
		"upsert-task:" + a.ID,
		"delete-task:" + b.ID,
	}
	got := gw.recorded()
	if len(got) != len(want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestImportExternalTaskIdempotent(t *testing.T) {
	gw := &fakeGateway{}
	s := newLoadedStore(t, gw)

	task := model.Task{ID: "classroom-c1-w1", ListID: "inbox", Title: "Essay", Source: model.SourceClassroom}
	if !s.ImportExternalTask(task) {
		t.Fatal("first import should add")
	}
	if s.ImportExternalTask(task) {
		t.Fatal("second import should be a no-op")
	}

	s.Flush()
	count := 0
	for _, call := range gw.recorded() {
		if call == "upsert-task:classroom-c1-w1" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("upsert count = %d, want 1", count)
	}
}

func TestCreateListIdempotent(t *testing.T) {
	gw := &fakeGateway{}
	s := newLoadedStore(t, gw)

	list := model.TaskList{ID: "classroom-c1", WorkspaceID: model.WorkspaceAcademic, Name: "Math"}
	if !s.CreateList(list) {
		t.Fatal("first create should add")
	}
	if s.CreateList(list) {
		t.Fatal("second create should be a no-op")
	}
}

func TestToggleCompletion(t *testing.T) {
	gw := &fakeGateway{}
	s := newLoadedStore(t, gw)
	task := s.CreateTask(CreateTaskParams{ListID: "inbox", Title: "t"})

	s.ToggleCompletion(task.ID)
	got, _ := s.Task(task.ID)
	if !got.IsCompleted || got.Status != model.StatusDone || got.CompletedAt == nil {
		t.Errorf("after complete: completed=%v status=%s completedAt=%v", got.IsCompleted, got.Status, got.CompletedAt)
	}

	s.ToggleCompletion(task.ID)
	got, _ = s.Task(task.ID)
	if got.IsCompleted || got.Status != model.StatusTodo || got.CompletedAt != nil {
		t.Errorf("after reopen: completed=%v status=%s completedAt=%v", got.IsCompleted, got.Status, got.CompletedAt)
	}
}

func TestUpdateFieldsReconcilesCompletion(t *testing.T) {
	gw := &fakeGateway{}
	s := newLoadedStore(t, gw)
	task := s.CreateTask(CreateTaskParams{ListID: "inbox", Title: "t"})

	done := model.StatusDone
	s.UpdateFields(task.ID, TaskPatch{Status: &done})
	got, _ := s.Task(task.ID)
	if !got.IsCompleted || got.CompletedAt == nil {
		t.Error("status done should set the completion flag")
	}

	todo := model.StatusTodo
	s.UpdateFields(task.ID, TaskPatch{Status: &todo})
	got, _ = s.Task(task.ID)
	if got.IsCompleted || got.CompletedAt != nil {
		t.Error("leaving done should clear the completion flag")
	}
}

func TestChangeStatusLeavesCompletionFlagAlone(t *testing.T) {
	gw := &fakeGateway{}
	s := newLoadedStore(t, gw)
	task := s.CreateTask(CreateTaskParams{ListID: "inbox", Title: "t"})
	s.ToggleCompletion(task.ID)

	s.ChangeStatus(task.ID, model.StatusReview)
	got, _ := s.Task(task.ID)
	if got.Status != model.StatusReview {
		t.Errorf("status = %s, want review", got.Status)
	}
	if !got.IsCompleted {
		t.Error("board move must not clear the completion flag")
	}
}

func TestDeleteListRemovesMemberTasks(t *testing.T) {
	gw := &fakeGateway{}
	s := newLoadedStore(t, gw)

	s.CreateList(model.TaskList{ID: "school", WorkspaceID: "personal", Name: "School"})
	kept := s.CreateTask(CreateTaskParams{ListID: "inbox", Title: "keep"})
	gone := s.CreateTask(CreateTaskParams{ListID: "school", Title: "gone"})

	if !s.DeleteList("school") {
		t.Fatal("delete should succeed")
	}
	if _, ok := s.Task(gone.ID); ok {
		t.Error("member task should be deleted with its list")
	}
	if _, ok := s.Task(kept.ID); !ok {
		t.Error("task in another list should survive")
	}
	if _, ok := s.List("school"); ok {
		t.Error("list should be gone")
	}
}

func TestFindTaskByPrefix(t *testing.T) {
	gw := &fakeGateway{tasks: []model.Task{
		{ID: "abc123", ListID: "inbox", Title: "one"},
		{ID: "abd456", ListID: "inbox", Title: "two"},
	}, lists: []model.TaskList{{ID: "inbox"}}}
	s := newLoadedStore(t, gw)

	if got, ok := s.FindTaskByPrefix("abc"); !ok || got.ID != "abc123" {
		t.Errorf("unique prefix lookup failed: %v %v", got, ok)
	}
	if _, ok := s.FindTaskByPrefix("ab"); ok {
		t.Error("ambiguous prefix should resolve to nothing")
	}
	if got, ok := s.FindTaskByPrefix("abc123"); !ok || got.ID != "abc123" {
		t.Error("exact id should always resolve")
	}
}

func TestTasksForVirtualLists(t *testing.T) {
	now := time.Now()
	today := now.Format(model.DueDateLayout)
	nextWeek := now.AddDate(0, 0, 5).Format(model.DueDateLayout)
	farAway := now.AddDate(0, 0, 30).Format(model.DueDateLayout)

	gw := &fakeGateway{}
	s := newLoadedStore(t, gw)

	dueToday := s.CreateTask(CreateTaskParams{ListID: "inbox", Title: "today", DueDate: today})
	soon := s.CreateTask(CreateTaskParams{ListID: "inbox", Title: "soon", DueDate: nextWeek})
	s.CreateTask(CreateTaskParams{ListID: "inbox", Title: "later", DueDate: farAway})
	finished := s.CreateTask(CreateTaskParams{ListID: "inbox", Title: "finished", DueDate: today})
	s.ToggleCompletion(finished.ID)

	todayTasks := s.TasksForList(model.VirtualListToday)
	if len(todayTasks) != 1 || todayTasks[0].ID != dueToday.ID {
		t.Errorf("today = %v, want only %s", ids(todayTasks), dueToday.ID)
	}

	upcoming := s.TasksForList(model.VirtualListUpcoming)
	if len(upcoming) != 2 {
		t.Errorf("upcoming = %v, want today+soon", ids(upcoming))
	}
	seen := map[string]bool{}
	for _, u := range upcoming {
		seen[u.ID] = true
	}
	if !seen[dueToday.ID] || !seen[soon.ID] {
		t.Errorf("upcoming = %v, want %s and %s", ids(upcoming), dueToday.ID, soon.ID)
	}

	completed := s.TasksForList(model.VirtualListCompleted)
	if len(completed) != 1 || completed[0].ID != finished.ID {
		t.Errorf("completed = %v, want only %s", ids(completed), finished.ID)
	}
}

func TestTasksByStatusReconcilesDoneColumn(t *testing.T) {
	gw := &fakeGateway{}
	s := newLoadedStore(t, gw)

	open := s.CreateTask(CreateTaskParams{ListID: "inbox", Title: "open"})
	inProgress := model.StatusInProgress
	s.ChangeStatus(open.ID, inProgress)

	// Completed but its raw status still says review after a board move.
	flagged := s.CreateTask(CreateTaskParams{ListID: "inbox", Title: "flagged"})
	s.ToggleCompletion(flagged.ID)
	s.ChangeStatus(flagged.ID, model.StatusReview)

	byStatus := s.TasksByStatus("inbox")
	if len(byStatus[model.StatusDone]) != 1 || byStatus[model.StatusDone][0].ID != flagged.ID {
		t.Errorf("done column = %v, want [%s]", ids(byStatus[model.StatusDone]), flagged.ID)
	}
	if len(byStatus[model.StatusReview]) != 0 {
		t.Error("completed task must not appear in its raw status column")
	}
	if len(byStatus[model.StatusInProgress]) != 1 {
		t.Errorf("in_progress column = %v", ids(byStatus[model.StatusInProgress]))
	}
}

func TestClassify(t *testing.T) {
	now := time.Now()
	tomorrow := now.AddDate(0, 0, 1).Format(model.DueDateLayout)
	nextMonth := now.AddDate(0, 1, 0).Format(model.DueDateLayout)

	cases := []struct {
		name string
		task model.Task
		want Quadrant
	}{
		{"p1 always do-first", model.Task{Priority: model.PriorityUrgent}, QuadrantUrgentImportant},
		{"p2 due soon", model.Task{Priority: model.PriorityHigh, DueDate: tomorrow}, QuadrantUrgentImportant},
		{"p2 far out", model.Task{Priority: model.PriorityHigh, DueDate: nextMonth}, QuadrantImportant},
		{"p4 due soon", model.Task{Priority: model.PriorityLow, DueDate: tomorrow}, QuadrantUrgent},
		{"p4 no due date", model.Task{Priority: model.PriorityLow}, QuadrantNeither},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.task, now); got != tc.want {
				t.Errorf("Classify = %d, want %d", got, tc.want)
			}
		})
	}
}

func ids(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}
