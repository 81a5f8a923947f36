package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/meeting-scheduler/internal/application"
	"github.com/example/meeting-scheduler/internal/persistence"
)

type meetingService interface {
	CreateTeamMeeting(ctx context.Context, params application.CreateTeamMeetingParams) (application.BookingResult, error)
	CreateCollaborationMeeting(ctx context.Context, params application.CreateCollaborationMeetingParams) (application.BookingResult, error)
	GetMeeting(ctx context.Context, meetingID int64) (persistence.Meeting, error)
	ListMeetings(ctx context.Context, filter persistence.MeetingFilter) ([]persistence.Meeting, error)
	RescheduleMeeting(ctx context.Context, params application.RescheduleMeetingParams) (persistence.Meeting, error)
	CancelMeeting(ctx context.Context, meetingID int64) error
	AddEmployeeToMeeting(ctx context.Context, meetingID, employeeID int64) (persistence.Meeting, error)
	RemoveEmployeeFromMeeting(ctx context.Context, meetingID, employeeID int64) (persistence.Meeting, error)
}

type candidateRoomFinder interface {
	FindCandidateRooms(ctx context.Context, minimumCapacity int) ([]persistence.Room, error)
}

type MeetingHandler struct {
	service   meetingService
	rooms     candidateRoomFinder
	responder responder
	logger    *slog.Logger
}

func NewMeetingHandler(service meetingService, rooms candidateRoomFinder, logger *slog.Logger) *MeetingHandler {
	base := defaultLogger(logger)
	return &MeetingHandler{service: service, rooms: rooms, responder: newResponder(base), logger: base}
}

func (h *MeetingHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "MeetingHandler", operation, attrs...)
}

// CreateForTeam books a meeting for an existing permanent team. When the
// request carries no room id the response lists candidate rooms instead of a
// committed meeting.
func (h *MeetingHandler) CreateForTeam(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	teamID, ok := TeamIDFromContext(r.Context())
	if !ok {
		h.log(r.Context(), "CreateForTeam", "error_kind", "bad_request").ErrorContext(r.Context(), "missing team id for booking")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidTeamID)
		return
	}

	var req bookMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "CreateForTeam", "team_id", teamID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode booking request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "CreateForTeam", "team_id", teamID)

	result, err := h.service.CreateTeamMeeting(r.Context(), application.CreateTeamMeetingParams{
		TeamID: teamID,
		Input:  req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "team meeting booking failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.writeBookingResult(r.Context(), w, logger, result)
}

// CreateCollaboration books a meeting for an ad-hoc set of collaborators.
func (h *MeetingHandler) CreateCollaboration(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req bookCollaborationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "CreateCollaboration", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode booking request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "CreateCollaboration", "collaborator_count", len(req.CollaboratorIDs))

	result, err := h.service.CreateCollaborationMeeting(r.Context(), application.CreateCollaborationMeetingParams{
		CollaboratorIDs: req.CollaboratorIDs,
		Input:           req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "collaboration booking failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.writeBookingResult(r.Context(), w, logger, result)
}

func (h *MeetingHandler) writeBookingResult(ctx context.Context, w http.ResponseWriter, logger *slog.Logger, result application.BookingResult) {
	if result.RoomChoiceRequired() {
		logger.With("candidate_count", len(result.CandidateRooms)).InfoContext(ctx, "room choice required")
		h.responder.writeJSON(ctx, w, http.StatusOK, bookingResponse{
			CandidateRooms: toRoomDTOs(result.CandidateRooms),
		})
		return
	}

	dto := toMeetingDTO(*result.Meeting)
	logger.With("meeting_id", result.Meeting.ID, "declined_count", len(result.DeclinedEmployeeIDs)).InfoContext(ctx, "meeting booked")
	h.responder.writeJSON(ctx, w, http.StatusCreated, bookingResponse{
		Meeting:             &dto,
		DeclinedEmployeeIDs: result.DeclinedEmployeeIDs,
	})
}

func (h *MeetingHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	meetingID, ok := MeetingIDFromContext(r.Context())
	if !ok {
		h.log(r.Context(), "Get", "error_kind", "bad_request").ErrorContext(r.Context(), "missing meeting id for get")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidMeetingID)
		return
	}

	logger := h.log(r.Context(), "Get", "meeting_id", meetingID)

	meeting, err := h.service.GetMeeting(r.Context(), meetingID)
	if err != nil {
		logger.ErrorContext(r.Context(), "meeting fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, meetingResponse{Meeting: toMeetingDTO(meeting)})
}

func (h *MeetingHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	filter, err := meetingFilterFromQuery(r)
	if err != nil {
		h.log(r.Context(), "List", "error_kind", "bad_request").ErrorContext(r.Context(), "invalid meeting filter", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "List")

	meetings, err := h.service.ListMeetings(r.Context(), filter)
	if err != nil {
		logger.ErrorContext(r.Context(), "meeting list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(meetings)).InfoContext(r.Context(), "meetings listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listMeetingsResponse{Meetings: toMeetingDTOs(meetings)})
}

// Reschedule applies a partial update of the meeting's name, description, or
// window.
func (h *MeetingHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	meetingID, ok := MeetingIDFromContext(r.Context())
	if !ok {
		h.log(r.Context(), "Reschedule", "error_kind", "bad_request").ErrorContext(r.Context(), "missing meeting id for reschedule")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidMeetingID)
		return
	}

	var req rescheduleMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Reschedule", "meeting_id", meetingID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode reschedule request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Reschedule", "meeting_id", meetingID)

	meeting, err := h.service.RescheduleMeeting(r.Context(), application.RescheduleMeetingParams{
		MeetingID:   meetingID,
		Name:        req.Name,
		Description: req.Description,
		Start:       req.Start,
		End:         req.End,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "meeting reschedule failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "meeting rescheduled")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, meetingResponse{Meeting: toMeetingDTO(meeting)})
}

// Cancel deletes the meeting, subject to the cancellation notice period.
func (h *MeetingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	meetingID, ok := MeetingIDFromContext(r.Context())
	if !ok {
		h.log(r.Context(), "Cancel", "error_kind", "bad_request").ErrorContext(r.Context(), "missing meeting id for cancel")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidMeetingID)
		return
	}

	logger := h.log(r.Context(), "Cancel", "meeting_id", meetingID)
	if err := h.service.CancelMeeting(r.Context(), meetingID); err != nil {
		logger.ErrorContext(r.Context(), "meeting cancel failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "meeting cancelled")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// AddEmployee adds an attendee to the meeting. On a permanent team this forks
// a collaboration team rather than mutating the original.
func (h *MeetingHandler) AddEmployee(w http.ResponseWriter, r *http.Request) {
	h.mutateAttendance(w, r, "AddEmployee", func(ctx context.Context, meetingID, employeeID int64) (persistence.Meeting, error) {
		return h.service.AddEmployeeToMeeting(ctx, meetingID, employeeID)
	})
}

// RemoveEmployee removes an attendee from the meeting with the same
// copy-on-write behaviour as AddEmployee.
func (h *MeetingHandler) RemoveEmployee(w http.ResponseWriter, r *http.Request) {
	h.mutateAttendance(w, r, "RemoveEmployee", func(ctx context.Context, meetingID, employeeID int64) (persistence.Meeting, error) {
		return h.service.RemoveEmployeeFromMeeting(ctx, meetingID, employeeID)
	})
}

func (h *MeetingHandler) mutateAttendance(w http.ResponseWriter, r *http.Request, operation string, mutate func(context.Context, int64, int64) (persistence.Meeting, error)) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	meetingID, ok := MeetingIDFromContext(r.Context())
	if !ok {
		h.log(r.Context(), operation, "error_kind", "bad_request").ErrorContext(r.Context(), "missing meeting id for attendance change")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidMeetingID)
		return
	}

	employeeID, ok := EmployeeIDFromContext(r.Context())
	if !ok {
		h.log(r.Context(), operation, "meeting_id", meetingID, "error_kind", "bad_request").ErrorContext(r.Context(), "missing employee id for attendance change")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEmployeeID)
		return
	}

	logger := h.log(r.Context(), operation, "meeting_id", meetingID, "employee_id", employeeID)

	meeting, err := mutate(r.Context(), meetingID, employeeID)
	if err != nil {
		logger.ErrorContext(r.Context(), "attendance change failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "attendance changed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, meetingResponse{Meeting: toMeetingDTO(meeting)})
}

// AvailableRooms lists rooms able to host the given strength, smallest first.
func (h *MeetingHandler) AvailableRooms(w http.ResponseWriter, r *http.Request, strength string) {
	if h == nil || h.rooms == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	minimumCapacity, err := strconv.Atoi(strength)
	if err != nil || minimumCapacity < 1 {
		h.log(r.Context(), "AvailableRooms", "error_kind", "bad_request").ErrorContext(r.Context(), "invalid strength", "strength", strength)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidStrength)
		return
	}

	logger := h.log(r.Context(), "AvailableRooms", "strength", minimumCapacity)

	rooms, err := h.rooms.FindCandidateRooms(r.Context(), minimumCapacity)
	if err != nil {
		logger.ErrorContext(r.Context(), "candidate room lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(rooms)).InfoContext(r.Context(), "candidate rooms listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listRoomsResponse{Rooms: toRoomDTOs(rooms)})
}

func meetingFilterFromQuery(r *http.Request) (persistence.MeetingFilter, error) {
	var filter persistence.MeetingFilter

	query := r.URL.Query()
	if raw := query.Get("team_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return persistence.MeetingFilter{}, errInvalidTeamID
		}
		filter.TeamID = &id
	}
	if raw := query.Get("room_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return persistence.MeetingFilter{}, errInvalidRoomID
		}
		filter.RoomID = &id
	}
	if raw := query.Get("starts_after"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return persistence.MeetingFilter{}, errInvalidTimeFormat
		}
		filter.StartsAfter = &ts
	}
	if raw := query.Get("ends_before"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return persistence.MeetingFilter{}, errInvalidTimeFormat
		}
		filter.EndsBefore = &ts
	}

	return filter, nil
}

type bookMeetingRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	RoomID      *int64    `json:"room_id"`
	OrganiserID int64     `json:"organiser_id"`
}

func (r bookMeetingRequest) toInput() application.MeetingInput {
	return application.MeetingInput{
		Name:        strings.TrimSpace(r.Name),
		Description: strings.TrimSpace(r.Description),
		Start:       r.Start,
		End:         r.End,
		RoomID:      r.RoomID,
		OrganiserID: r.OrganiserID,
	}
}

type bookCollaborationRequest struct {
	bookMeetingRequest
	CollaboratorIDs []int64 `json:"collaborator_ids"`
}

type rescheduleMeetingRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Start       *time.Time `json:"start"`
	End         *time.Time `json:"end"`
}

type bookingResponse struct {
	Meeting             *meetingDTO `json:"meeting,omitempty"`
	CandidateRooms      []roomDTO   `json:"candidate_rooms,omitempty"`
	DeclinedEmployeeIDs []int64     `json:"declined_employee_ids,omitempty"`
}

type meetingResponse struct {
	Meeting meetingDTO `json:"meeting"`
}

type listMeetingsResponse struct {
	Meetings []meetingDTO `json:"meetings"`
}

type meetingDTO struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	Description        string  `json:"description,omitempty"`
	Start              string  `json:"start"`
	End                string  `json:"end"`
	ActiveStatus       bool    `json:"active_status"`
	ActiveStrength     int     `json:"active_strength"`
	OrganiserID        int64   `json:"organiser_id"`
	TeamID             int64   `json:"team_id"`
	RoomID             *int64  `json:"room_id,omitempty"`
	DeclinedInviteeIDs []int64 `json:"declined_invitee_ids,omitempty"`
	CreatedAt          string  `json:"created_at"`
	UpdatedAt          string  `json:"updated_at"`
}

func toMeetingDTO(meeting persistence.Meeting) meetingDTO {
	return meetingDTO{
		ID:                 meeting.ID,
		Name:               meeting.Name,
		Description:        meeting.Description,
		Start:              meeting.Start.UTC().Format(time.RFC3339Nano),
		End:                meeting.End.UTC().Format(time.RFC3339Nano),
		ActiveStatus:       meeting.ActiveStatus,
		ActiveStrength:     meeting.ActiveStrength,
		OrganiserID:        meeting.OrganiserID,
		TeamID:             meeting.TeamID,
		RoomID:             meeting.RoomID,
		DeclinedInviteeIDs: meeting.DeclinedInviteeIDs,
		CreatedAt:          meeting.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:          meeting.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toMeetingDTOs(meetings []persistence.Meeting) []meetingDTO {
	if len(meetings) == 0 {
		return nil
	}
	out := make([]meetingDTO, 0, len(meetings))
	for _, meeting := range meetings {
		out = append(out, toMeetingDTO(meeting))
	}
	return out
}
