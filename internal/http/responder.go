package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/meeting-scheduler/internal/application"
)

var (
	errBadRequestBody    = errors.New("invalid request body")
	errInvalidMeetingID  = errors.New("invalid meeting id")
	errInvalidEmployeeID = errors.New("invalid employee id")
	errInvalidRoomID     = errors.New("invalid room id")
	errInvalidTeamID     = errors.New("invalid team id")
	errInvalidStrength   = errors.New("invalid strength")
	errInvalidTimeFormat = errors.New("start and end must be RFC 3339 timestamps")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := http.StatusText(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

// handleServiceError maps the application error taxonomy onto HTTP statuses.
// Missing resources are 404, business-rule rejections are 422, and duplicate
// records are 409.
func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	switch {
	case errors.Is(err, application.ErrMeetingNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: "meeting not found"})
	case errors.Is(err, application.ErrTeamNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: "team not found"})
	case errors.Is(err, application.ErrRoomNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: "room not found"})
	case errors.Is(err, application.ErrEmployeeNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: "employee not found"})
	case errors.Is(err, application.ErrOrganiserNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: "organiser not found"})
	case errors.Is(err, application.ErrNotAttending):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: "employee is not attending this meeting"})
	case errors.Is(err, application.ErrRoomBusy):
		r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{Message: "room is busy for the requested window"})
	case errors.Is(err, application.ErrEmployeeBusy):
		r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{Message: "employee is busy for the requested window"})
	case errors.Is(err, application.ErrRoomCapacityInsufficient):
		r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{Message: "room capacity is insufficient for the team"})
	case errors.Is(err, application.ErrAlreadyAttending):
		r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{Message: "employee is already attending this meeting"})
	case errors.Is(err, application.ErrCollaborationTeamNotBookable):
		r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{Message: "a collaboration team cannot be booked directly"})
	case errors.Is(err, application.ErrNoCollaboratorsSpecified):
		r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{Message: "at least one collaborator is required"})
	case errors.Is(err, application.ErrCancellationNotice):
		r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{Message: "meetings cannot be cancelled less than 30 minutes before they start"})
	case errors.Is(err, application.ErrAlreadyInTeam):
		r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{Message: "employee is already in the team"})
	case errors.Is(err, application.ErrAlreadyExists):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{Message: "a record with the same unique attribute already exists"})
	default:
		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
				Message: "validation failed",
				Errors:  vErr.FieldErrors,
			})
			return
		}

		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: "internal server error"})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

type errorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}
