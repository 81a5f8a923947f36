package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/meeting-scheduler/internal/application"
	"github.com/example/meeting-scheduler/internal/persistence"
)

type teamService interface {
	CreateTeam(ctx context.Context, input application.TeamInput) (persistence.Team, error)
	UpdateTeam(ctx context.Context, teamID int64, input application.TeamInput) (persistence.Team, error)
	AddEmployeeToTeam(ctx context.Context, teamID, employeeID int64) (persistence.Team, error)
	GetTeam(ctx context.Context, teamID int64) (persistence.Team, error)
	ListTeams(ctx context.Context) ([]persistence.Team, error)
	DeleteTeam(ctx context.Context, teamID int64) error
}

type teamAvailabilityService interface {
	NonAvailableTeamMembers(ctx context.Context, teamID int64, start, end time.Time) ([]int64, error)
}

type TeamHandler struct {
	service      teamService
	availability teamAvailabilityService
	responder    responder
	logger       *slog.Logger
}

func NewTeamHandler(service teamService, availability teamAvailabilityService, logger *slog.Logger) *TeamHandler {
	base := defaultLogger(logger)
	return &TeamHandler{service: service, availability: availability, responder: newResponder(base), logger: base}
}

func (h *TeamHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "TeamHandler", operation, attrs...)
}

func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req teamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode team request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create")

	team, err := h.service.CreateTeam(r.Context(), req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "team creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("team_id", team.ID).InfoContext(r.Context(), "team created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, teamResponse{Team: toTeamDTO(team)})
}

func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	teamID, ok := TeamIDFromContext(r.Context())
	if !ok {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "missing team id for update")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidTeamID)
		return
	}

	var req teamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "team_id", teamID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode team update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "team_id", teamID)

	team, err := h.service.UpdateTeam(r.Context(), teamID, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "team update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "team updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, teamResponse{Team: toTeamDTO(team)})
}

// AddEmployee attaches an employee to a permanent team.
func (h *TeamHandler) AddEmployee(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	teamID, ok := TeamIDFromContext(r.Context())
	if !ok {
		h.log(r.Context(), "AddEmployee", "error_kind", "bad_request").ErrorContext(r.Context(), "missing team id for member add")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidTeamID)
		return
	}

	employeeID, ok := EmployeeIDFromContext(r.Context())
	if !ok {
		h.log(r.Context(), "AddEmployee", "team_id", teamID, "error_kind", "bad_request").ErrorContext(r.Context(), "missing employee id for member add")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEmployeeID)
		return
	}

	logger := h.log(r.Context(), "AddEmployee", "team_id", teamID, "employee_id", employeeID)

	team, err := h.service.AddEmployeeToTeam(r.Context(), teamID, employeeID)
	if err != nil {
		logger.ErrorContext(r.Context(), "team member add failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "team member added")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, teamResponse{Team: toTeamDTO(team)})
}

func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	teamID, ok := TeamIDFromContext(r.Context())
	if !ok {
		h.log(r.Context(), "Get", "error_kind", "bad_request").ErrorContext(r.Context(), "missing team id for get")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidTeamID)
		return
	}

	logger := h.log(r.Context(), "Get", "team_id", teamID)

	team, err := h.service.GetTeam(r.Context(), teamID)
	if err != nil {
		logger.ErrorContext(r.Context(), "team fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, teamResponse{Team: toTeamDTO(team)})
}

func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "List")

	teams, err := h.service.ListTeams(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "team list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(teams)).InfoContext(r.Context(), "teams listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listTeamsResponse{Teams: toTeamDTOs(teams)})
}

func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	teamID, ok := TeamIDFromContext(r.Context())
	if !ok {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "missing team id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidTeamID)
		return
	}

	logger := h.log(r.Context(), "Delete", "team_id", teamID)
	if err := h.service.DeleteTeam(r.Context(), teamID); err != nil {
		logger.ErrorContext(r.Context(), "team delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "team deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// NonAvailableMembers lists the team members busy during a window supplied via
// start/end query parameters.
func (h *TeamHandler) NonAvailableMembers(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.availability == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	teamID, ok := TeamIDFromContext(r.Context())
	if !ok {
		h.log(r.Context(), "NonAvailableMembers", "error_kind", "bad_request").ErrorContext(r.Context(), "missing team id for availability")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidTeamID)
		return
	}

	start, end, err := windowFromQuery(r)
	if err != nil {
		h.log(r.Context(), "NonAvailableMembers", "team_id", teamID, "error_kind", "bad_request").ErrorContext(r.Context(), "invalid availability window", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "NonAvailableMembers", "team_id", teamID)

	busy, err := h.availability.NonAvailableTeamMembers(r.Context(), teamID, start, end)
	if err != nil {
		logger.ErrorContext(r.Context(), "availability check failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, nonAvailableMembersResponse{EmployeeIDs: busy})
}

type teamRequest struct {
	Name      string  `json:"name"`
	MemberIDs []int64 `json:"member_ids"`
}

func (r teamRequest) toInput() application.TeamInput {
	return application.TeamInput{
		Name:      strings.TrimSpace(r.Name),
		MemberIDs: r.MemberIDs,
	}
}

type teamResponse struct {
	Team teamDTO `json:"team"`
}

type listTeamsResponse struct {
	Teams []teamDTO `json:"teams"`
}

type nonAvailableMembersResponse struct {
	EmployeeIDs []int64 `json:"employee_ids"`
}

type teamDTO struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Strength        int     `json:"strength"`
	IsCollaboration bool    `json:"is_collaboration"`
	MemberIDs       []int64 `json:"member_ids,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

func toTeamDTO(team persistence.Team) teamDTO {
	return teamDTO{
		ID:              team.ID,
		Name:            team.Name,
		Strength:        team.Strength,
		IsCollaboration: team.IsCollaboration,
		MemberIDs:       team.MemberIDs,
		CreatedAt:       team.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:       team.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toTeamDTOs(teams []persistence.Team) []teamDTO {
	if len(teams) == 0 {
		return nil
	}
	out := make([]teamDTO, 0, len(teams))
	for _, team := range teams {
		out = append(out, toTeamDTO(team))
	}
	return out
}
