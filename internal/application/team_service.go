package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/example/meeting-scheduler/internal/persistence"
)

// TeamService orchestrates validation and persistence for permanent teams.
// Collaboration teams are created and mutated only by the meeting service;
// this service manages the stable org units.
type TeamService struct {
	teams       persistence.TeamRepository
	employees   persistence.EmployeeRepository
	idGenerator func() int64
	now         func() time.Time
	logger      *slog.Logger
}

// NewTeamService constructs a team service with the provided dependencies.
func NewTeamService(teams persistence.TeamRepository, employees persistence.EmployeeRepository, idGenerator func() int64, now func() time.Time) *TeamService {
	return NewTeamServiceWithLogger(teams, employees, idGenerator, now, nil)
}

// NewTeamServiceWithLogger constructs a team service with a specified logger.
func NewTeamServiceWithLogger(teams persistence.TeamRepository, employees persistence.EmployeeRepository, idGenerator func() int64, now func() time.Time, logger *slog.Logger) *TeamService {
	if idGenerator == nil {
		idGenerator = func() int64 { return 0 }
	}
	if now == nil {
		now = time.Now
	}
	return &TeamService{teams: teams, employees: employees, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *TeamService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "TeamService", operation, attrs...)
}

// CreateTeam validates input and persists a new permanent team. Strength is
// kept consistent with the member count.
func (s *TeamService) CreateTeam(ctx context.Context, input TeamInput) (team persistence.Team, err error) {
	if s == nil {
		err = fmt.Errorf("TeamService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateTeam")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create team", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("team_id", team.ID).InfoContext(ctx, "team created")
	}()

	vErr := validateTeamInput(input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	memberIDs := dedupeIDs(input.MemberIDs)

	team = persistence.Team{
		ID:        s.idGenerator(),
		Name:      strings.TrimSpace(input.Name),
		Strength:  len(memberIDs),
		MemberIDs: memberIDs,
		CreatedAt: s.now(),
	}
	team.UpdatedAt = team.CreatedAt

	if err = s.teams.CreateTeam(ctx, team); err != nil {
		err = mapTeamRepoError(err)
		return
	}

	return
}

// UpdateTeam validates input and rewrites an existing team's name and
// membership.
func (s *TeamService) UpdateTeam(ctx context.Context, teamID int64, input TeamInput) (team persistence.Team, err error) {
	if s == nil {
		err = fmt.Errorf("TeamService is nil")
		return
	}

	logger := s.loggerWith(ctx, "UpdateTeam", "team_id", teamID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update team", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "team updated")
	}()

	var existing persistence.Team
	existing, err = s.teams.GetTeam(ctx, teamID)
	if err != nil {
		err = mapTeamRepoError(err)
		return
	}

	vErr := validateTeamInput(input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	memberIDs := dedupeIDs(input.MemberIDs)

	updated := existing
	updated.Name = strings.TrimSpace(input.Name)
	updated.MemberIDs = memberIDs
	updated.Strength = len(memberIDs)
	updated.UpdatedAt = s.now()

	if err = s.teams.UpdateTeam(ctx, updated); err != nil {
		err = mapTeamRepoError(err)
		return
	}

	team = updated
	return
}

// AddEmployeeToTeam appends one employee to a team's membership.
func (s *TeamService) AddEmployeeToTeam(ctx context.Context, teamID, employeeID int64) (team persistence.Team, err error) {
	if s == nil {
		err = fmt.Errorf("TeamService is nil")
		return
	}

	logger := s.loggerWith(ctx, "AddEmployeeToTeam", "team_id", teamID, "employee_id", employeeID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to add employee to team", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "employee added to team")
	}()

	var existing persistence.Team
	existing, err = s.teams.GetTeam(ctx, teamID)
	if err != nil {
		err = mapTeamRepoError(err)
		return
	}

	if _, err = s.employees.GetEmployee(ctx, employeeID); err != nil {
		err = mapEmployeeRepoError(err)
		return
	}

	if slices.Contains(existing.MemberIDs, employeeID) {
		err = ErrAlreadyInTeam
		return
	}

	updated := existing
	updated.MemberIDs = append(slices.Clone(existing.MemberIDs), employeeID)
	updated.Strength = len(updated.MemberIDs)
	updated.UpdatedAt = s.now()

	if err = s.teams.UpdateTeam(ctx, updated); err != nil {
		err = mapTeamRepoError(err)
		return
	}

	team = updated
	return
}

// GetTeam returns a single team by id.
func (s *TeamService) GetTeam(ctx context.Context, teamID int64) (persistence.Team, error) {
	if s == nil {
		return persistence.Team{}, fmt.Errorf("TeamService is nil")
	}

	team, err := s.teams.GetTeam(ctx, teamID)
	if err != nil {
		return persistence.Team{}, mapTeamRepoError(err)
	}
	return team, nil
}

// ListTeams returns all teams, permanent and collaboration alike.
func (s *TeamService) ListTeams(ctx context.Context) ([]persistence.Team, error) {
	if s == nil {
		return nil, fmt.Errorf("TeamService is nil")
	}

	teams, err := s.teams.ListTeams(ctx)
	if err != nil {
		return nil, mapTeamRepoError(err)
	}
	return teams, nil
}

// DeleteTeam removes a team by id. Teams still bound to meetings cannot be
// deleted.
func (s *TeamService) DeleteTeam(ctx context.Context, teamID int64) error {
	if s == nil {
		return fmt.Errorf("TeamService is nil")
	}

	logger := s.loggerWith(ctx, "DeleteTeam", "team_id", teamID)

	if err := s.teams.DeleteTeam(ctx, teamID); err != nil {
		err = mapTeamRepoError(err)
		logger.ErrorContext(ctx, "failed to delete team", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "team deleted")
	return nil
}

func validateTeamInput(input TeamInput) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}

	return vErr
}

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	var out []int64
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func mapTeamRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrTeamNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	if errors.Is(err, persistence.ErrForeignKeyViolation) {
		return ErrEmployeeNotFound
	}
	return err
}
