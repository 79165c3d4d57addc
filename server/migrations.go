package server

// migrate runs database migrations
func (s *Server) migrate() error {
	migrations := []string{
		migrationUsers,
		migrationSessions,
		migrationTaskLists,
		migrationTasks,
		migrationClassroomSync,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}

const migrationUsers = `
CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    username VARCHAR(255) UNIQUE NOT NULL,
    email VARCHAR(255) UNIQUE NOT NULL,
    password_hash VARCHAR(255) NOT NULL,
    created_at TIMESTAMP DEFAULT NOW(),
    updated_at TIMESTAMP DEFAULT NOW()
);
`

const migrationSessions = `
CREATE TABLE IF NOT EXISTS sessions (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES users(id),
    token VARCHAR(64) UNIQUE NOT NULL,
    expires_at TIMESTAMP NOT NULL,
    created_at TIMESTAMP DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_sessions_token ON sessions(token);
`

const migrationTaskLists = `
CREATE TABLE IF NOT EXISTS task_lists (
    id TEXT NOT NULL,
    user_id UUID NOT NULL REFERENCES users(id),
    workspace_id TEXT NOT NULL,
    name TEXT NOT NULL,
    color TEXT DEFAULT '#7C3AED',
    sort_order INTEGER DEFAULT 0,
    is_academic BOOLEAN DEFAULT FALSE,
    course_name TEXT,
    updated_at TIMESTAMP DEFAULT NOW(),
    PRIMARY KEY (id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_task_lists_user ON task_lists(user_id);
`

const migrationTasks = `
CREATE TABLE IF NOT EXISTS tasks (
    id TEXT NOT NULL,
    user_id UUID NOT NULL REFERENCES users(id),
    list_id TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT,
    status TEXT NOT NULL DEFAULT 'todo',
    priority INTEGER DEFAULT 4,
    due_date TEXT,
    is_completed BOOLEAN DEFAULT FALSE,
    completed_at TIMESTAMP,
    sort_order INTEGER DEFAULT 0,
    source TEXT NOT NULL DEFAULT 'manual',
    labels JSONB DEFAULT '[]',
    subtasks JSONB DEFAULT '[]',
    created_at TIMESTAMP DEFAULT NOW(),
    updated_at TIMESTAMP DEFAULT NOW(),
    PRIMARY KEY (id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks(user_id);
CREATE INDEX IF NOT EXISTS idx_tasks_user_list ON tasks(user_id, list_id);
`

const migrationClassroomSync = `
CREATE TABLE IF NOT EXISTS classroom_sync (
    user_id UUID PRIMARY KEY REFERENCES users(id),
    synced_courses JSONB DEFAULT '[]',
    imported_coursework_ids JSONB DEFAULT '[]',
    last_sync_at TIMESTAMP,
    updated_at TIMESTAMP DEFAULT NOW()
);
`
