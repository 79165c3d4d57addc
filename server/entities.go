package server

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// listRow is the wire shape of a task list
type listRow struct {
	ID          string `json:"id"`
	WorkspaceID string `json:"workspace_id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	SortOrder   int    `json:"sort_order"`
	IsAcademic  bool   `json:"is_academic"`
	CourseName  string `json:"course_name,omitempty"`
}

// taskRow is the wire shape of a task. Labels and subtasks travel as JSON
// arrays and are stored in JSONB columns untouched.
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
	Labels      json.RawMessage `json:"labels"`
	Subtasks    json.RawMessage `json:"subtasks"`
	CreatedAt   time.Time       `json:"created_at"`
}

// handleFetchLists returns the owner's lists ordered by position
func (s *Server) handleFetchLists(c echo.Context) error {
	userID := c.Get("user_id").(string)

	rows, err := s.db.QueryContext(c.Request().Context(), `
		SELECT id, workspace_id, name, color, sort_order, is_academic, COALESCE(course_name, '')
		FROM task_lists
		WHERE user_id = $1
		ORDER BY sort_order`,
		userID,
	)
	if err != nil {
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	defer rows.Close()

	lists := []listRow{}
	for rows.Next() {
		var l listRow
		if err := rows.Scan(&l.ID, &l.WorkspaceID, &l.Name, &l.Color, &l.SortOrder, &l.IsAcademic, &l.CourseName); err != nil {
			c.Logger().Error("scan error:", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
		}
		lists = append(lists, l)
	}

	return c.JSON(http.StatusOK, lists)
}

// handleUpsertList writes a list row; the (id, user_id) key makes repeats overwrites
func (s *Server) handleUpsertList(c echo.Context) error {
	userID := c.Get("user_id").(string)

	var l listRow
	if err := c.Bind(&l); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	l.ID = c.Param("id")
	if l.ID == "" || l.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "id and name required"})
	}

	_, err := s.db.ExecContext(c.Request().Context(), `
		INSERT INTO task_lists (id, user_id, workspace_id, name, color, sort_order, is_academic, course_name, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NOW())
		ON CONFLICT (id, user_id) DO UPDATE SET
			workspace_id = EXCLUDED.workspace_id,
			name = EXCLUDED.name,
			color = EXCLUDED.color,
			sort_order = EXCLUDED.sort_order,
			is_academic = EXCLUDED.is_academic,
			course_name = EXCLUDED.course_name,
			updated_at = NOW()`,
		l.ID, userID, l.WorkspaceID, l.Name, l.Color, l.SortOrder, l.IsAcademic, l.CourseName,
	)
	if err != nil {
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleDeleteList removes a list scoped by id and owner
func (s *Server) handleDeleteList(c echo.Context) error {
	userID := c.Get("user_id").(string)
	listID := c.Param("id")

	_, err := s.db.ExecContext(c.Request().Context(), `
		DELETE FROM task_lists WHERE id = $1 AND user_id = $2`,
		listID, userID,
	)
	if err != nil {
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleFetchTasks returns the owner's tasks ordered by position
func (s *Server) handleFetchTasks(c echo.Context) error {
	userID := c.Get("user_id").(string)

	rows, err := s.db.QueryContext(c.Request().Context(), `
		SELECT id, list_id, title, COALESCE(description, ''), status, priority,
		       COALESCE(due_date, ''), is_completed, completed_at, sort_order, source,
		       labels, subtasks, created_at
		FROM tasks
		WHERE user_id = $1
		ORDER BY sort_order`,
		userID,
	)
	if err != nil {
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	defer rows.Close()

	tasks := []taskRow{}
	for rows.Next() {
		var t taskRow
		var completedAt sql.NullTime
		var labels, subtasks []byte
		if err := rows.Scan(&t.ID, &t.ListID, &t.Title, &t.Description, &t.Status, &t.Priority,
			&t.DueDate, &t.IsCompleted, &completedAt, &t.SortOrder, &t.Source,
			&labels, &subtasks, &t.CreatedAt); err != nil {
			c.Logger().Error("scan error:", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
		}
		if completedAt.Valid {
			t.CompletedAt = &completedAt.Time
		}
		t.Labels = normalizeJSONArray(labels)
		t.Subtasks = normalizeJSONArray(subtasks)
		tasks = append(tasks, t)
	}

	return c.JSON(http.StatusOK, tasks)
}

// handleUpsertTask writes a task row; the (id, user_id) key makes repeats overwrites
func (s *Server) handleUpsertTask(c echo.Context) error {
	userID := c.Get("user_id").(string)

	var t taskRow
	if err := c.Bind(&t); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	t.ID = c.Param("id")
	if t.ID == "" || t.ListID == "" || t.Title == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "id, list_id and title required"})
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(c.Request().Context(), `
		INSERT INTO tasks (id, user_id, list_id, title, description, status, priority,
		                   due_date, is_completed, completed_at, sort_order, source,
		                   labels, subtasks, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, NULLIF($8, ''), $9, $10, $11, $12, $13, $14, $15, NOW())
		ON CONFLICT (id, user_id) DO UPDATE SET
			list_id = EXCLUDED.list_id,
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			status = EXCLUDED.status,
			priority = EXCLUDED.priority,
			due_date = EXCLUDED.due_date,
			is_completed = EXCLUDED.is_completed,
			completed_at = EXCLUDED.completed_at,
			sort_order = EXCLUDED.sort_order,
			source = EXCLUDED.source,
			labels = EXCLUDED.labels,
			subtasks = EXCLUDED.subtasks,
			updated_at = NOW()`,
		t.ID, userID, t.ListID, t.Title, t.Description, t.Status, t.Priority,
		t.DueDate, t.IsCompleted, t.CompletedAt, t.SortOrder, t.Source,
		[]byte(normalizeJSONArray(t.Labels)), []byte(normalizeJSONArray(t.Subtasks)), t.CreatedAt,
	)
	if err != nil {
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleDeleteTask removes a task scoped by id and owner
func (s *Server) handleDeleteTask(c echo.Context) error {
	userID := c.Get("user_id").(string)
	taskID := c.Param("id")

	_, err := s.db.ExecContext(c.Request().Context(), `
		DELETE FROM tasks WHERE id = $1 AND user_id = $2`,
		taskID, userID,
	)
	if err != nil {
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// normalizeJSONArray keeps JSONB columns and wire payloads non-null
func normalizeJSONArray(raw []byte) json.RawMessage {
	if len(raw) == 0 || string(raw) == "null" {
		return json.RawMessage("[]")
	}
	return raw
}
