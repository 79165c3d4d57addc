package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/trihoang/studydesk/internal/model"
)

// Client is the HTTP Persistence Gateway. The server scopes every row by the
// session owner, so the ownerID arguments exist for interface symmetry with
// in-memory gateways and are validated against the session, not transmitted.
type Client struct {
	baseURL    string
	token      string
	userID     string
	httpClient *http.Client
}

// NewClient creates a gateway client from a logged-in session
func NewClient(session *Session) *Client {
	return &Client{
		baseURL:    session.ServerURL,
		token:      session.Token,
		userID:     session.UserID,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload, out interface{}) (int, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to reach persistence server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody struct {
			Error string `json:"error"`
		}
		msg := resp.Status
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err == nil && errBody.Error != "" {
			msg = errBody.Error
		}
		return resp.StatusCode, fmt.Errorf("gateway error (%d): %s", resp.StatusCode, msg)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}

// Wire rows use the server's snake_case field names; the functions below
// translate them field by field to and from the in-memory shapes.

type listRow struct {
	ID          string `json:"id"`
	WorkspaceID string `json:"workspace_id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	SortOrder   int    `json:"sort_order"`
	IsAcademic  bool   `json:"is_academic"`
	CourseName  string `json:"course_name,omitempty"`
}

func listToRow(l model.TaskList) listRow {
	return listRow{
		ID:          l.ID,
		WorkspaceID: l.WorkspaceID,
		Name:        l.Name,
		Color:       l.Color,
		SortOrder:   l.SortOrder,
		IsAcademic:  l.IsAcademic,
		CourseName:  l.CourseName,
	}
}

func rowToList(r listRow) model.TaskList {
	return model.TaskList{
		ID:          r.ID,
		WorkspaceID: r.WorkspaceID,
		Name:        r.Name,
		Color:       r.Color,
		SortOrder:   r.SortOrder,
		IsAcademic:  r.IsAcademic,
		CourseName:  r.CourseName,
	}
}

type taskRow struct {
	ID          string          `json:"id"`
	ListID      string          `json:"list_id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Status      string          `json:"status"`
	Priority    int             `json:"priority"`
	DueDate     string          `json:"due_date,omitempty"`
	IsCompleted bool            `json:"is_completed"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	SortOrder   int             `json:"sort_order"`
	Source      string          `json:"source"`
	Labels      []model.Label   `json:"labels"`
	Subtasks    []model.Subtask `json:"subtasks"`
	CreatedAt   time.Time       `json:"created_at"`
}

func taskToRow(t model.Task) taskRow {
	return taskRow{
		ID:          t.ID,
		ListID:      t.ListID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		IsCompleted: t.IsCompleted,
		CompletedAt: t.CompletedAt,
		SortOrder:   t.SortOrder,
		Source:      string(t.Source),
		Labels:      t.Labels,
		Subtasks:    t.Subtasks,
		CreatedAt:   t.CreatedAt,
	}
}

func rowToTask(r taskRow) model.Task {
	return model.Task{
		ID:          r.ID,
		ListID:      r.ListID,
		Title:       r.Title,
		Description: r.Description,
		Status:      model.Status(r.Status),
		Priority:    r.Priority,
		DueDate:     r.DueDate,
		IsCompleted: r.IsCompleted,
		CompletedAt: r.CompletedAt,
		SortOrder:   r.SortOrder,
		Source:      model.Source(r.Source),
		Labels:      r.Labels,
		Subtasks:    r.Subtasks,
		CreatedAt:   r.CreatedAt,
	}
}

type syncStateRow struct {
	SyncedCourses         []model.SyncedCourse `json:"synced_courses"`
	ImportedCourseworkIDs []string             `json:"imported_coursework_ids"`
	LastSyncAt            *time.Time           `json:"last_sync_at"`
}

// FetchLists returns the owner's lists ordered by position
func (c *Client) FetchLists(ctx context.Context, ownerID string) ([]model.TaskList, error) {
	var rows []listRow
	if _, err := c.do(ctx, http.MethodGet, "/api/v1/lists", nil, &rows); err != nil {
		return nil, err
	}
	lists := make([]model.TaskList, len(rows))
	for i, r := range rows {
		lists[i] = rowToList(r)
	}
	return lists, nil
}

// FetchTasks returns the owner's tasks ordered by position
func (c *Client) FetchTasks(ctx context.Context, ownerID string) ([]model.Task, error) {
	var rows []taskRow
	if _, err := c.do(ctx, http.MethodGet, "/api/v1/tasks", nil, &rows); err != nil {
		return nil, err
	}
	tasks := make([]model.Task, len(rows))
	for i, r := range rows {
		tasks[i] = rowToTask(r)
	}
	return tasks, nil
}

// UpsertList writes a list row; repeating the same id overwrites
func (c *Client) UpsertList(ctx context.Context, ownerID string, list model.TaskList) error {
	_, err := c.do(ctx, http.MethodPut, "/api/v1/lists/"+url.PathEscape(list.ID), listToRow(list), nil)
	return err
}

// UpsertTask writes a task row; repeating the same id overwrites
func (c *Client) UpsertTask(ctx context.Context, ownerID string, task model.Task) error {
	_, err := c.do(ctx, http.MethodPut, "/api/v1/tasks/"+url.PathEscape(task.ID), taskToRow(task), nil)
	return err
}

// DeleteTask removes a task row scoped by id and owner
func (c *Client) DeleteTask(ctx context.Context, ownerID, taskID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/v1/tasks/"+url.PathEscape(taskID), nil, nil)
	return err
}

// DeleteList removes a list row scoped by id and owner
func (c *Client) DeleteList(ctx context.Context, ownerID, listID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/v1/lists/"+url.PathEscape(listID), nil, nil)
	return err
}

// FetchSyncState loads the owner's sync-state blob. A missing row is not an
// error; it returns nil meaning no prior state.
func (c *Client) FetchSyncState(ctx context.Context, ownerID string) (*model.SyncState, error) {
	var row syncStateRow
	status, err := c.do(ctx, http.MethodGet, "/api/v1/sync-state", nil, &row)
	if status == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &model.SyncState{
		Courses:         row.SyncedCourses,
		ImportedWorkIDs: row.ImportedCourseworkIDs,
		LastSyncAt:      row.LastSyncAt,
	}, nil
}

// UpsertSyncState writes the owner's sync-state blob wholesale
func (c *Client) UpsertSyncState(ctx context.Context, ownerID string, state model.SyncState) error {
	row := syncStateRow{
		SyncedCourses:         state.Courses,
		ImportedCourseworkIDs: state.ImportedWorkIDs,
		LastSyncAt:            state.LastSyncAt,
	}
	_, err := c.do(ctx, http.MethodPut, "/api/v1/sync-state", row, nil)
	return err
}
