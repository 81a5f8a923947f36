package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/meeting-scheduler/internal/persistence"
)

// EmployeeRepository implements persistence.EmployeeRepository using SQLite.
type EmployeeRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewEmployeeRepository creates a new SQLite employee repository.
func NewEmployeeRepository(pool *ConnectionPool) *EmployeeRepository {
	return &EmployeeRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateEmployee inserts a new employee into the database.
func (r *EmployeeRepository) CreateEmployee(ctx context.Context, employee persistence.Employee) error {
	if employee.ID == 0 {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	employee.CreatedAt = now
	employee.UpdatedAt = now

	query := `
		INSERT INTO employees (id, name, email, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.helper.Exec(ctx, query,
		employee.ID,
		employee.Name,
		employee.Email,
		formatTime(employee.CreatedAt),
		formatTime(employee.UpdatedAt),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	return nil
}

// UpdateEmployee updates an existing employee's attributes. Team membership is
// owned by the team repository and is not touched here.
func (r *EmployeeRepository) UpdateEmployee(ctx context.Context, employee persistence.Employee) error {
	if employee.ID == 0 {
		return persistence.ErrNotFound
	}

	query := `
		UPDATE employees
		SET name = ?, email = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.helper.Exec(ctx, query,
		employee.Name,
		employee.Email,
		formatTime(time.Now().UTC()),
		employee.ID,
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

// GetEmployee retrieves an employee by id, including the ids of every team the
// employee belongs to.
func (r *EmployeeRepository) GetEmployee(ctx context.Context, id int64) (persistence.Employee, error) {
	if id == 0 {
		return persistence.Employee{}, persistence.ErrNotFound
	}

	query := `
		SELECT id, name, email, created_at, updated_at
		FROM employees
		WHERE id = ?
	`

	var employee persistence.Employee
	var createdAtStr, updatedAtStr string

	err := r.helper.QueryRow(ctx, query, id).Scan(
		&employee.ID,
		&employee.Name,
		&employee.Email,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Employee{}, persistence.ErrNotFound
		}
		return persistence.Employee{}, r.mapper.MapError(err)
	}

	if employee.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return persistence.Employee{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if employee.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
		return persistence.Employee{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	teamIDs, err := r.loadTeamIDs(ctx, id)
	if err != nil {
		return persistence.Employee{}, err
	}
	employee.TeamIDs = teamIDs

	return employee, nil
}

// ListEmployees returns all employees ordered by id.
func (r *EmployeeRepository) ListEmployees(ctx context.Context) ([]persistence.Employee, error) {
	query := `
		SELECT id, name, email, created_at, updated_at
		FROM employees
		ORDER BY id ASC
	`

	rows, err := r.helper.Query(ctx, query)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var employees []persistence.Employee

	for rows.Next() {
		var employee persistence.Employee
		var createdAtStr, updatedAtStr string

		if err := rows.Scan(&employee.ID, &employee.Name, &employee.Email, &createdAtStr, &updatedAtStr); err != nil {
			return nil, r.mapper.MapError(err)
		}

		if employee.CreatedAt, err = parseTime(createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		if employee.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
			return nil, fmt.Errorf("failed to parse updated_at: %w", err)
		}

		employees = append(employees, employee)
	}

	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	for i := range employees {
		teamIDs, err := r.loadTeamIDs(ctx, employees[i].ID)
		if err != nil {
			return nil, err
		}
		employees[i].TeamIDs = teamIDs
	}

	return employees, nil
}

// DeleteEmployee removes an employee by id. Memberships are removed by the
// schema's cascade rules; meetings organised by the employee block deletion
// through the foreign key.
func (r *EmployeeRepository) DeleteEmployee(ctx context.Context, id int64) error {
	if id == 0 {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, "DELETE FROM employees WHERE id = ?", id)
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

func (r *EmployeeRepository) loadTeamIDs(ctx context.Context, employeeID int64) ([]int64, error) {
	rows, err := r.helper.Query(ctx,
		"SELECT team_id FROM team_members WHERE employee_id = ? ORDER BY team_id ASC", employeeID)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var teamIDs []int64
	for rows.Next() {
		var teamID int64
		if err := rows.Scan(&teamID); err != nil {
			return nil, r.mapper.MapError(err)
		}
		teamIDs = append(teamIDs, teamID)
	}

	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return teamIDs, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(value string) (time.Time, error) {
	return time.Parse(time.RFC3339, value)
}
