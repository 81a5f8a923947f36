package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/meeting-scheduler/internal/persistence"
)

// TeamRepository implements persistence.TeamRepository using SQLite. Member
// rows live in the team_members join table and are replaced wholesale on
// update, inside the same transaction as the team row.
type TeamRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewTeamRepository creates a new SQLite team repository.
func NewTeamRepository(pool *ConnectionPool) *TeamRepository {
	return &TeamRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateTeam inserts a team and its member rows in one transaction.
func (r *TeamRepository) CreateTeam(ctx context.Context, team persistence.Team) error {
	if team.ID == 0 {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	team.CreatedAt = now
	team.UpdatedAt = now

	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := r.helper.ExecTx(tx, `
			INSERT INTO teams (id, name, strength, is_collaboration, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`,
			team.ID,
			team.Name,
			team.Strength,
			boolToInt(team.IsCollaboration),
			formatTime(team.CreatedAt),
			formatTime(team.UpdatedAt),
		)
		if err != nil {
			return err
		}
		return r.insertMembers(tx, team.ID, team.MemberIDs)
	})
	if err != nil {
		return r.mapper.MapError(err)
	}

	return nil
}

// UpdateTeam rewrites the team row and replaces its membership rows.
func (r *TeamRepository) UpdateTeam(ctx context.Context, team persistence.Team) error {
	if team.ID == 0 {
		return persistence.ErrNotFound
	}

	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := r.helper.ExecTx(tx, `
			UPDATE teams
			SET name = ?, strength = ?, is_collaboration = ?, updated_at = ?
			WHERE id = ?
		`,
			team.Name,
			team.Strength,
			boolToInt(team.IsCollaboration),
			formatTime(time.Now().UTC()),
			team.ID,
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

		if _, err := r.helper.ExecTx(tx, "DELETE FROM team_members WHERE team_id = ?", team.ID); err != nil {
			return err
		}
		return r.insertMembers(tx, team.ID, team.MemberIDs)
	})
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return persistence.ErrNotFound
		}
		return r.mapper.MapError(err)
	}

	return nil
}

// GetTeam retrieves a team by id, including its member ids.
func (r *TeamRepository) GetTeam(ctx context.Context, id int64) (persistence.Team, error) {
	if id == 0 {
		return persistence.Team{}, persistence.ErrNotFound
	}

	query := `
		SELECT id, name, strength, is_collaboration, created_at, updated_at
		FROM teams
		WHERE id = ?
	`

	team, err := r.scanTeamRow(r.helper.QueryRow(ctx, query, id))
	if err != nil {
		return persistence.Team{}, err
	}

	memberIDs, err := r.loadMemberIDs(ctx, id)
	if err != nil {
		return persistence.Team{}, err
	}
	team.MemberIDs = memberIDs

	return team, nil
}

// ListTeams returns all teams ordered by id, with member ids populated.
func (r *TeamRepository) ListTeams(ctx context.Context) ([]persistence.Team, error) {
	query := `
		SELECT id, name, strength, is_collaboration, created_at, updated_at
		FROM teams
		ORDER BY id ASC
	`

	rows, err := r.helper.Query(ctx, query)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var teams []persistence.Team

	for rows.Next() {
		var team persistence.Team
		var isCollaboration int
		var createdAtStr, updatedAtStr string

		if err := rows.Scan(&team.ID, &team.Name, &team.Strength, &isCollaboration, &createdAtStr, &updatedAtStr); err != nil {
			return nil, r.mapper.MapError(err)
		}
		team.IsCollaboration = isCollaboration != 0

		if team.CreatedAt, err = parseTime(createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		if team.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
			return nil, fmt.Errorf("failed to parse updated_at: %w", err)
		}

		teams = append(teams, team)
	}

	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	for i := range teams {
		memberIDs, err := r.loadMemberIDs(ctx, teams[i].ID)
		if err != nil {
			return nil, err
		}
		teams[i].MemberIDs = memberIDs
	}

	return teams, nil
}

// DeleteTeam removes a team; membership rows go with it via cascade. Meetings
// still bound to the team block deletion through the foreign key.
func (r *TeamRepository) DeleteTeam(ctx context.Context, id int64) error {
	if id == 0 {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, "DELETE FROM teams WHERE id = ?", id)
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

func (r *TeamRepository) insertMembers(tx *sql.Tx, teamID int64, memberIDs []int64) error {
	for _, employeeID := range memberIDs {
		if _, err := r.helper.ExecTx(tx,
			"INSERT INTO team_members (team_id, employee_id) VALUES (?, ?)", teamID, employeeID); err != nil {
			return err
		}
	}
	return nil
}

func (r *TeamRepository) loadMemberIDs(ctx context.Context, teamID int64) ([]int64, error) {
	rows, err := r.helper.Query(ctx,
		"SELECT employee_id FROM team_members WHERE team_id = ? ORDER BY employee_id ASC", teamID)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var memberIDs []int64
	for rows.Next() {
		var employeeID int64
		if err := rows.Scan(&employeeID); err != nil {
			return nil, r.mapper.MapError(err)
		}
		memberIDs = append(memberIDs, employeeID)
	}

	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return memberIDs, nil
}

func (r *TeamRepository) scanTeamRow(row *sql.Row) (persistence.Team, error) {
	var team persistence.Team
	var isCollaboration int
	var createdAtStr, updatedAtStr string

	err := row.Scan(&team.ID, &team.Name, &team.Strength, &isCollaboration, &createdAtStr, &updatedAtStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Team{}, persistence.ErrNotFound
		}
		return persistence.Team{}, r.mapper.MapError(err)
	}
	team.IsCollaboration = isCollaboration != 0

	if team.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return persistence.Team{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if team.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
		return persistence.Team{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return team, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
