package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestPool(t *testing.T) *ConnectionPool {
	t.Helper()

	dir := t.TempDir()
	dsn := filepath.Join(dir, "test.db")

	pool, err := NewConnectionPool(dsn)
	if err != nil {
		t.Fatalf("Failed to create connection pool: %v", err)
	}

	t.Cleanup(func() {
		_ = pool.Close()
	})

	if err := pool.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	return pool
}

func insertTestEmployee(t *testing.T, pool *ConnectionPool, id int64, email string) {
	t.Helper()

	ctx := context.Background()
	now := time.Now().UTC().Format(time.RFC3339)

	_, err := pool.DB().ExecContext(ctx, `
		INSERT INTO employees (id, name, email, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, id, "Test Employee", email, now, now)
	if err != nil {
		t.Fatalf("Failed to create test employee %d: %v", id, err)
	}
}

func insertTestRoom(t *testing.T, pool *ConnectionPool, id int64, name string, capacity int) {
	t.Helper()

	ctx := context.Background()
	now := time.Now().UTC().Format(time.RFC3339)

	_, err := pool.DB().ExecContext(ctx, `
		INSERT INTO rooms (id, name, capacity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, id, name, capacity, now, now)
	if err != nil {
		t.Fatalf("Failed to create test room %d: %v", id, err)
	}
}

func insertTestTeam(t *testing.T, pool *ConnectionPool, id int64, name string, memberIDs ...int64) {
	t.Helper()

	ctx := context.Background()
	now := time.Now().UTC().Format(time.RFC3339)

	_, err := pool.DB().ExecContext(ctx, `
		INSERT INTO teams (id, name, strength, is_collaboration, created_at, updated_at)
		VALUES (?, ?, ?, 0, ?, ?)
	`, id, name, len(memberIDs), now, now)
	if err != nil {
		t.Fatalf("Failed to create test team %d: %v", id, err)
	}

	for _, employeeID := range memberIDs {
		_, err := pool.DB().ExecContext(ctx,
			"INSERT INTO team_members (team_id, employee_id) VALUES (?, ?)", id, employeeID)
		if err != nil {
			t.Fatalf("Failed to add member %d to team %d: %v", employeeID, id, err)
		}
	}
}
