package server

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// syncStateRow is the wire shape of the owner's reconciliation state blob.
// The whole row is replaced on every write, never patched.
type syncStateRow struct {
	SyncedCourses         json.RawMessage `json:"synced_courses"`
	ImportedCourseworkIDs json.RawMessage `json:"imported_coursework_ids"`
	LastSyncAt            *time.Time      `json:"last_sync_at"`
}

// handleFetchSyncState returns the owner's sync state, or 404 when the owner
// has never synced (the client treats that as "no prior state")
func (s *Server) handleFetchSyncState(c echo.Context) error {
	userID := c.Get("user_id").(string)

	var row syncStateRow
	var courses, imported []byte
	var lastSync sql.NullTime
	err := s.db.QueryRowContext(c.Request().Context(), `
		SELECT synced_courses, imported_coursework_ids, last_sync_at
		FROM classroom_sync
		WHERE user_id = $1`,
		userID,
	).Scan(&courses, &imported, &lastSync)

	if err == sql.ErrNoRows {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "no sync state"})
	}
	if err != nil {
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	row.SyncedCourses = normalizeJSONArray(courses)
	row.ImportedCourseworkIDs = normalizeJSONArray(imported)
	if lastSync.Valid {
		row.LastSyncAt = &lastSync.Time
	}

	return c.JSON(http.StatusOK, row)
}

// handleUpsertSyncState replaces the owner's sync state wholesale
func (s *Server) handleUpsertSyncState(c echo.Context) error {
	userID := c.Get("user_id").(string)

	var row syncStateRow
	if err := c.Bind(&row); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	_, err := s.db.ExecContext(c.Request().Context(), `
		INSERT INTO classroom_sync (user_id, synced_courses, imported_coursework_ids, last_sync_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			synced_courses = EXCLUDED.synced_courses,
			imported_coursework_ids = EXCLUDED.imported_coursework_ids,
			last_sync_at = EXCLUDED.last_sync_at,
			updated_at = NOW()`,
		userID,
		[]byte(normalizeJSONArray(row.SyncedCourses)),
		[]byte(normalizeJSONArray(row.ImportedCourseworkIDs)),
		row.LastSyncAt,
	)
	if err != nil {
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
