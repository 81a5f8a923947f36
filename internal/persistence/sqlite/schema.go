package sqlite

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS employees (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS rooms (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		capacity INTEGER NOT NULL CHECK (capacity > 0),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS teams (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		strength INTEGER NOT NULL DEFAULT 0 CHECK (strength >= 0),
		is_collaboration INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS team_members (
		team_id INTEGER NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		employee_id INTEGER NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		PRIMARY KEY (team_id, employee_id)
	)`,
	`CREATE TABLE IF NOT EXISTS meetings (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		active_status INTEGER NOT NULL DEFAULT 1,
		active_strength INTEGER NOT NULL CHECK (active_strength >= 0),
		organiser_id INTEGER NOT NULL REFERENCES employees(id),
		team_id INTEGER NOT NULL REFERENCES teams(id),
		room_id INTEGER REFERENCES rooms(id),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		CHECK (end_time > start_time)
	)`,
	`CREATE TABLE IF NOT EXISTS meeting_declined_invitees (
		meeting_id INTEGER NOT NULL REFERENCES meetings(id) ON DELETE CASCADE,
		employee_id INTEGER NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		PRIMARY KEY (meeting_id, employee_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_meetings_room_time ON meetings(room_id, start_time, end_time)`,
	`CREATE INDEX IF NOT EXISTS idx_meetings_team_time ON meetings(team_id, start_time, end_time)`,
	`CREATE INDEX IF NOT EXISTS idx_team_members_employee ON team_members(employee_id)`,
}

// Migrate creates the schema objects that do not exist yet. Statements are
// idempotent, so calling Migrate on every start is safe.
func (cp *ConnectionPool) Migrate(ctx context.Context) error {
	for _, statement := range schemaStatements {
		if _, err := cp.db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
