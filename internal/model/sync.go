package model

import "time"

// SyncedCourse pairs an external course with the local list it was
// materialized into. Created at most once per course.
type SyncedCourse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	ListID string `json:"list_id"`
}

// SyncState is the owner-scoped reconciliation state, persisted wholesale
// as a single row. ImportedWorkIDs holds composite "<courseID>:<workID>"
// keys and is append-only.
type SyncState struct {
	Courses         []SyncedCourse `json:"synced_courses"`
	ImportedWorkIDs []string       `json:"imported_coursework_ids"`
	LastSyncAt      *time.Time     `json:"last_sync_at"`
}
