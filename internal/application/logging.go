package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/example/meeting-scheduler/internal/logging"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

func serviceLogger(ctx context.Context, base *slog.Logger, serviceName, operation string, attrs ...any) *slog.Logger {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = base
	}
	if logger == nil {
		logger = slog.Default()
	}

	pairs := []any{"service", serviceName}
	if operation != "" {
		pairs = append(pairs, "operation", operation)
	}
	if len(attrs) > 0 {
		pairs = append(pairs, attrs...)
	}
	return logger.With(pairs...)
}

// ErrorKind maps sentinel and validation errors to a stable logging label.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrMeetingNotFound):
		return "meeting_not_found"
	case errors.Is(err, ErrTeamNotFound):
		return "team_not_found"
	case errors.Is(err, ErrRoomNotFound):
		return "room_not_found"
	case errors.Is(err, ErrEmployeeNotFound):
		return "employee_not_found"
	case errors.Is(err, ErrOrganiserNotFound):
		return "organiser_not_found"
	case errors.Is(err, ErrRoomBusy):
		return "room_busy"
	case errors.Is(err, ErrEmployeeBusy):
		return "employee_busy"
	case errors.Is(err, ErrRoomCapacityInsufficient):
		return "room_capacity_insufficient"
	case errors.Is(err, ErrAlreadyAttending):
		return "already_attending"
	case errors.Is(err, ErrNotAttending):
		return "not_attending"
	case errors.Is(err, ErrCollaborationTeamNotBookable):
		return "collaboration_team_not_bookable"
	case errors.Is(err, ErrNoCollaboratorsSpecified):
		return "no_collaborators_specified"
	case errors.Is(err, ErrCancellationNotice):
		return "cancellation_notice"
	case errors.Is(err, ErrAlreadyInTeam):
		return "already_in_team"
	case errors.Is(err, ErrAlreadyExists):
		return "already_exists"
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return "validation"
	}

	return "unexpected"
}
