package model

// Workspace types
const (
	WorkspacePersonal = "personal"
	WorkspaceAcademic = "academic"
)

// Workspace groups lists into a fixed top-level category
type Workspace struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"` // personal or academic
}

// DefaultWorkspaces returns the fixed workspace set
func DefaultWorkspaces() []Workspace {
	return []Workspace{
		{ID: "personal", Name: "Personal", Type: WorkspacePersonal},
		{ID: "academic", Name: "Academics", Type: WorkspaceAcademic},
	}
}

// TaskList is a named collection of tasks inside a workspace
type TaskList struct {
	ID          string `json:"id"`
	WorkspaceID string `json:"workspace_id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	SortOrder   int    `json:"sort_order"`
	IsAcademic  bool   `json:"is_academic,omitempty"`
	CourseName  string `json:"course_name,omitempty"`
}

// DefaultInboxList returns the list seeded on first load
func DefaultInboxList() TaskList {
	return TaskList{
		ID:          "inbox",
		WorkspaceID: "personal",
		Name:        "Inbox",
		Color:       "#7C3AED",
		SortOrder:   0,
	}
}

// Virtual list ids resolved by the store at read time, never persisted
const (
	VirtualListToday     = "today"
	VirtualListUpcoming  = "upcoming"
	VirtualListCompleted = "completed"
)
