package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/meeting-scheduler/internal/persistence"
)

// RoomRepository implements persistence.RoomRepository using SQLite.
type RoomRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewRoomRepository creates a new SQLite room repository.
func NewRoomRepository(pool *ConnectionPool) *RoomRepository {
	return &RoomRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateRoom inserts a new room into the database.
func (r *RoomRepository) CreateRoom(ctx context.Context, room persistence.Room) error {
	if room.ID == 0 {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	room.CreatedAt = now
	room.UpdatedAt = now

	query := `
		INSERT INTO rooms (id, name, capacity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.helper.Exec(ctx, query,
		room.ID,
		room.Name,
		room.Capacity,
		formatTime(room.CreatedAt),
		formatTime(room.UpdatedAt),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	return nil
}

// UpdateRoom updates an existing room.
func (r *RoomRepository) UpdateRoom(ctx context.Context, room persistence.Room) error {
	if room.ID == 0 {
		return persistence.ErrNotFound
	}

	query := `
		UPDATE rooms
		SET name = ?, capacity = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.helper.Exec(ctx, query,
		room.Name,
		room.Capacity,
		formatTime(time.Now().UTC()),
		room.ID,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return persistence.ErrNotFound
	}

	return nil
}

// GetRoom retrieves a room by id.
func (r *RoomRepository) GetRoom(ctx context.Context, id int64) (persistence.Room, error) {
	if id == 0 {
		return persistence.Room{}, persistence.ErrNotFound
	}

	query := `
		SELECT id, name, capacity, created_at, updated_at
		FROM rooms
		WHERE id = ?
	`

	var room persistence.Room
	var createdAtStr, updatedAtStr string

	err := r.helper.QueryRow(ctx, query, id).Scan(
		&room.ID,
		&room.Name,
		&room.Capacity,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Room{}, persistence.ErrNotFound
		}
		return persistence.Room{}, r.mapper.MapError(err)
	}

	if room.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return persistence.Room{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if room.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
		return persistence.Room{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return room, nil
}

// ListRooms returns all rooms ordered by id.
func (r *RoomRepository) ListRooms(ctx context.Context) ([]persistence.Room, error) {
	query := `
		SELECT id, name, capacity, created_at, updated_at
		FROM rooms
		ORDER BY id ASC
	`
	return r.queryRooms(ctx, query)
}

// ListRoomsWithCapacityAtLeast returns rooms whose capacity is at least the
// given minimum, smallest adequate room first.
func (r *RoomRepository) ListRoomsWithCapacityAtLeast(ctx context.Context, minimumCapacity int) ([]persistence.Room, error) {
	query := `
		SELECT id, name, capacity, created_at, updated_at
		FROM rooms
		WHERE capacity >= ?
		ORDER BY capacity ASC, id ASC
	`
	return r.queryRooms(ctx, query, minimumCapacity)
}

// DeleteRoom removes a room by id. Meetings holding the room block deletion
// through the foreign key.
func (r *RoomRepository) DeleteRoom(ctx context.Context, id int64) error {
	if id == 0 {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, "DELETE FROM rooms WHERE id = ?", id)
	if err != nil {
		return r.mapper.MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return persistence.ErrNotFound
	}

	return nil
}

func (r *RoomRepository) queryRooms(ctx context.Context, query string, args ...any) ([]persistence.Room, error) {
	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var rooms []persistence.Room

	for rows.Next() {
		var room persistence.Room
		var createdAtStr, updatedAtStr string

		if err := rows.Scan(&room.ID, &room.Name, &room.Capacity, &createdAtStr, &updatedAtStr); err != nil {
			return nil, r.mapper.MapError(err)
		}

		if room.CreatedAt, err = parseTime(createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		if room.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
			return nil, fmt.Errorf("failed to parse updated_at: %w", err)
		}

		rooms = append(rooms, room)
	}

	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return rooms, nil
}
