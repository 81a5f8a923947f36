package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/meeting-scheduler/internal/persistence"
)

// MeetingRepository implements persistence.MeetingRepository using SQLite.
// Declined invitees live in the meeting_declined_invitees join table and are
// written in the same transaction as the meeting row. Times are stored as
// RFC3339 UTC strings, so lexicographic comparison in SQL matches
// chronological order.
type MeetingRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewMeetingRepository creates a new SQLite meeting repository.
func NewMeetingRepository(pool *ConnectionPool) *MeetingRepository {
	return &MeetingRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const meetingColumns = `id, name, description, start_time, end_time, active_status,
	active_strength, organiser_id, team_id, room_id, created_at, updated_at`

// CreateMeeting inserts a meeting and its declined-invitee rows in one
// transaction.
func (r *MeetingRepository) CreateMeeting(ctx context.Context, meeting persistence.Meeting) error {
	if meeting.ID == 0 {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	meeting.CreatedAt = now
	meeting.UpdatedAt = now

	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := r.helper.ExecTx(tx, `
			INSERT INTO meetings (`+meetingColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			meeting.ID,
			meeting.Name,
			meeting.Description,
			formatTime(meeting.Start),
			formatTime(meeting.End),
			boolToInt(meeting.ActiveStatus),
			meeting.ActiveStrength,
			meeting.OrganiserID,
			meeting.TeamID,
			nullableID(meeting.RoomID),
			formatTime(meeting.CreatedAt),
			formatTime(meeting.UpdatedAt),
		)
		if err != nil {
			return err
		}
		return r.insertDeclinedInvitees(tx, meeting.ID, meeting.DeclinedInviteeIDs)
	})
	if err != nil {
		return r.mapper.MapError(err)
	}

	return nil
}

// UpdateMeeting rewrites the meeting row and replaces its declined-invitee
// rows.
func (r *MeetingRepository) UpdateMeeting(ctx context.Context, meeting persistence.Meeting) error {
	if meeting.ID == 0 {
		return persistence.ErrNotFound
	}

	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := r.helper.ExecTx(tx, `
			UPDATE meetings
			SET name = ?, description = ?, start_time = ?, end_time = ?,
				active_status = ?, active_strength = ?, organiser_id = ?,
				team_id = ?, room_id = ?, updated_at = ?
			WHERE id = ?
		`,
			meeting.Name,
			meeting.Description,
			formatTime(meeting.Start),
			formatTime(meeting.End),
			boolToInt(meeting.ActiveStatus),
			meeting.ActiveStrength,
			meeting.OrganiserID,
			meeting.TeamID,
			nullableID(meeting.RoomID),
			formatTime(time.Now().UTC()),
			meeting.ID,
		)
		if err != nil {
			return err
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return persistence.ErrNotFound
		}

		if _, err := r.helper.ExecTx(tx,
			"DELETE FROM meeting_declined_invitees WHERE meeting_id = ?", meeting.ID); err != nil {
			return err
		}
		return r.insertDeclinedInvitees(tx, meeting.ID, meeting.DeclinedInviteeIDs)
	})
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return persistence.ErrNotFound
		}
		return r.mapper.MapError(err)
	}

	return nil
}

// GetMeeting retrieves a meeting by id, including its declined invitees.
func (r *MeetingRepository) GetMeeting(ctx context.Context, id int64) (persistence.Meeting, error) {
	if id == 0 {
		return persistence.Meeting{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx,
		"SELECT "+meetingColumns+" FROM meetings WHERE id = ?", id)

	meeting, err := r.scanMeetingRow(row)
	if err != nil {
		return persistence.Meeting{}, err
	}

	declined, err := r.loadDeclinedInviteeIDs(ctx, id)
	if err != nil {
		return persistence.Meeting{}, err
	}
	meeting.DeclinedInviteeIDs = declined

	return meeting, nil
}

// ListMeetings returns meetings matching the filter, ordered by start time
// then id.
func (r *MeetingRepository) ListMeetings(ctx context.Context, filter persistence.MeetingFilter) ([]persistence.Meeting, error) {
	var conditions []string
	var args []any

	if filter.TeamID != nil {
		conditions = append(conditions, "team_id = ?")
		args = append(args, *filter.TeamID)
	}
	if filter.RoomID != nil {
		conditions = append(conditions, "room_id = ?")
		args = append(args, *filter.RoomID)
	}
	if filter.StartsAfter != nil {
		conditions = append(conditions, "start_time >= ?")
		args = append(args, formatTime(*filter.StartsAfter))
	}
	if filter.EndsBefore != nil {
		conditions = append(conditions, "end_time <= ?")
		args = append(args, formatTime(*filter.EndsBefore))
	}

	query := "SELECT " + meetingColumns + " FROM meetings"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY start_time ASC, id ASC"

	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var meetings []persistence.Meeting
	for rows.Next() {
		meeting, err := r.scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, meeting)
	}

	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	for i := range meetings {
		declined, err := r.loadDeclinedInviteeIDs(ctx, meetings[i].ID)
		if err != nil {
			return nil, err
		}
		meetings[i].DeclinedInviteeIDs = declined
	}

	return meetings, nil
}

// DeleteMeeting removes a meeting by id; declined-invitee rows go with it via
// cascade.
func (r *MeetingRepository) DeleteMeeting(ctx context.Context, id int64) error {
	if id == 0 {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, "DELETE FROM meetings WHERE id = ?", id)
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

// ExistsOverlappingByRoom reports whether any meeting bound to the room
// overlaps the half-open interval [start, end). excludeMeetingID skips one
// meeting id; pass 0 to exclude nothing.
func (r *MeetingRepository) ExistsOverlappingByRoom(ctx context.Context, roomID int64, start, end time.Time, excludeMeetingID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM meetings
			WHERE room_id = ?
			  AND start_time < ?
			  AND end_time > ?
			  AND id != ?
		)
	`

	var exists int
	err := r.helper.QueryRow(ctx, query,
		roomID, formatTime(end), formatTime(start), excludeMeetingID).Scan(&exists)
	if err != nil {
		return false, r.mapper.MapError(err)
	}

	return exists != 0, nil
}

// ExistsOverlappingByTeam reports whether any meeting of the team overlaps
// the half-open interval [start, end).
func (r *MeetingRepository) ExistsOverlappingByTeam(ctx context.Context, teamID int64, start, end time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM meetings
			WHERE team_id = ?
			  AND start_time < ?
			  AND end_time > ?
		)
	`

	var exists int
	err := r.helper.QueryRow(ctx, query,
		teamID, formatTime(end), formatTime(start)).Scan(&exists)
	if err != nil {
		return false, r.mapper.MapError(err)
	}

	return exists != 0, nil
}

func (r *MeetingRepository) insertDeclinedInvitees(tx *sql.Tx, meetingID int64, employeeIDs []int64) error {
	for _, employeeID := range employeeIDs {
		if _, err := r.helper.ExecTx(tx,
			"INSERT INTO meeting_declined_invitees (meeting_id, employee_id) VALUES (?, ?)",
			meetingID, employeeID); err != nil {
			return err
		}
	}
	return nil
}

func (r *MeetingRepository) loadDeclinedInviteeIDs(ctx context.Context, meetingID int64) ([]int64, error) {
	rows, err := r.helper.Query(ctx,
		"SELECT employee_id FROM meeting_declined_invitees WHERE meeting_id = ? ORDER BY employee_id ASC",
		meetingID)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var employeeIDs []int64
	for rows.Next() {
		var employeeID int64
		if err := rows.Scan(&employeeID); err != nil {
			return nil, r.mapper.MapError(err)
		}
		employeeIDs = append(employeeIDs, employeeID)
	}

	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return employeeIDs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *MeetingRepository) scanMeetingRow(row *sql.Row) (persistence.Meeting, error) {
	meeting, err := r.scanMeetingFrom(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Meeting{}, persistence.ErrNotFound
		}
		return persistence.Meeting{}, err
	}
	return meeting, nil
}

func (r *MeetingRepository) scanMeeting(rows *sql.Rows) (persistence.Meeting, error) {
	return r.scanMeetingFrom(rows)
}

func (r *MeetingRepository) scanMeetingFrom(scanner rowScanner) (persistence.Meeting, error) {
	var meeting persistence.Meeting
	var activeStatus int
	var roomID sql.NullInt64
	var startStr, endStr, createdAtStr, updatedAtStr string

	err := scanner.Scan(
		&meeting.ID,
		&meeting.Name,
		&meeting.Description,
		&startStr,
		&endStr,
		&activeStatus,
		&meeting.ActiveStrength,
		&meeting.OrganiserID,
		&meeting.TeamID,
		&roomID,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Meeting{}, err
		}
		return persistence.Meeting{}, r.mapper.MapError(err)
	}

	meeting.ActiveStatus = activeStatus != 0
	if roomID.Valid {
		meeting.RoomID = &roomID.Int64
	}

	if meeting.Start, err = parseTime(startStr); err != nil {
		return persistence.Meeting{}, fmt.Errorf("failed to parse start_time: %w", err)
	}
	if meeting.End, err = parseTime(endStr); err != nil {
		return persistence.Meeting{}, fmt.Errorf("failed to parse end_time: %w", err)
	}
	if meeting.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return persistence.Meeting{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if meeting.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
		return persistence.Meeting{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return meeting, nil
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}
