package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/example/meeting-scheduler/internal/persistence"
	"github.com/example/meeting-scheduler/internal/scheduler"
)

// collaborationTeamSuffix is appended to the source team's name when a
// permanent team is forked into a meeting-private collaboration team.
const collaborationTeamSuffix = " - Collaboration team"

// cancellationNotice is the minimum lead time for cancelling a meeting.
const cancellationNotice = 30 * time.Minute

// MeetingService orchestrates meeting booking, rescheduling, cancellation,
// and attendee mutation. Booking decisions are check-then-act against the
// shared meeting set, so the commit and attendee-mutation critical sections
// serialize on bookMu and re-validate availability inside the lock right
// before the write.
type MeetingService struct {
	meetings     persistence.MeetingRepository
	teams        persistence.TeamRepository
	rooms        persistence.RoomRepository
	employees    persistence.EmployeeRepository
	availability *AvailabilityChecker
	idGenerator  func() int64
	now          func() time.Time
	logger       *slog.Logger

	bookMu sync.Mutex
}

// NewMeetingService constructs a meeting service with the provided dependencies.
func NewMeetingService(
	meetings persistence.MeetingRepository,
	teams persistence.TeamRepository,
	rooms persistence.RoomRepository,
	employees persistence.EmployeeRepository,
	idGenerator func() int64,
	now func() time.Time,
) *MeetingService {
	return NewMeetingServiceWithLogger(meetings, teams, rooms, employees, idGenerator, now, nil)
}

// NewMeetingServiceWithLogger constructs a meeting service with a specified logger.
func NewMeetingServiceWithLogger(
	meetings persistence.MeetingRepository,
	teams persistence.TeamRepository,
	rooms persistence.RoomRepository,
	employees persistence.EmployeeRepository,
	idGenerator func() int64,
	now func() time.Time,
	logger *slog.Logger,
) *MeetingService {
	if idGenerator == nil {
		idGenerator = func() int64 { return 0 }
	}
	if now == nil {
		now = time.Now
	}
	return &MeetingService{
		meetings:     meetings,
		teams:        teams,
		rooms:        rooms,
		employees:    employees,
		availability: NewAvailabilityChecker(meetings, employees),
		idGenerator:  idGenerator,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

func (s *MeetingService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "MeetingService", operation, attrs...)
}

// CreateTeamMeeting books a meeting for an existing permanent team. A
// collaboration team cannot be booked this way.
func (s *MeetingService) CreateTeamMeeting(ctx context.Context, params CreateTeamMeetingParams) (result BookingResult, err error) {
	if s == nil {
		err = fmt.Errorf("MeetingService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateTeamMeeting", "team_id", params.TeamID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to book team meeting", "error", err, "error_kind", ErrorKind(err))
			return
		}
		s.logBookingResult(ctx, logger, result)
	}()

	s.bookMu.Lock()
	defer s.bookMu.Unlock()

	var team persistence.Team
	team, err = s.teams.GetTeam(ctx, params.TeamID)
	if err != nil {
		err = mapTeamRepoError(err)
		return
	}

	if team.IsCollaboration {
		err = ErrCollaborationTeamNotBookable
		return
	}

	result, err = s.commitMeeting(ctx, team, params.Input)
	return
}

// CreateCollaborationMeeting books an ad-hoc meeting for an explicit attendee
// list. The collaboration team is created lazily and rolled back when no
// meeting ends up committed, so it can never become an orphan.
func (s *MeetingService) CreateCollaborationMeeting(ctx context.Context, params CreateCollaborationMeetingParams) (result BookingResult, err error) {
	if s == nil {
		err = fmt.Errorf("MeetingService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateCollaborationMeeting")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to book collaboration meeting", "error", err, "error_kind", ErrorKind(err))
			return
		}
		s.logBookingResult(ctx, logger, result)
	}()

	collaboratorIDs := dedupeIDs(params.CollaboratorIDs)
	if len(collaboratorIDs) == 0 {
		err = ErrNoCollaboratorsSpecified
		return
	}

	s.bookMu.Lock()
	defer s.bookMu.Unlock()

	for _, employeeID := range collaboratorIDs {
		if _, err = s.employees.GetEmployee(ctx, employeeID); err != nil {
			err = mapEmployeeRepoError(err)
			return
		}
	}

	team := persistence.Team{
		ID:              s.idGenerator(),
		Name:            strings.TrimSpace(params.Input.Name) + collaborationTeamSuffix,
		Strength:        len(collaboratorIDs),
		IsCollaboration: true,
		MemberIDs:       collaboratorIDs,
		CreatedAt:       s.now(),
	}
	team.UpdatedAt = team.CreatedAt

	if err = s.teams.CreateTeam(ctx, team); err != nil {
		err = mapTeamRepoError(err)
		return
	}

	result, err = s.commitMeeting(ctx, team, params.Input)
	if err != nil || result.RoomChoiceRequired() {
		// No meeting was committed, so the lazily created team must not
		// outlive this request.
		if delErr := s.teams.DeleteTeam(ctx, team.ID); delErr != nil {
			s.loggerWith(ctx, "CreateCollaborationMeeting").ErrorContext(ctx,
				"failed to roll back collaboration team", "team_id", team.ID, "error", delErr)
		}
	}
	return
}

// commitMeeting is the shared tail of both booking workflows. Callers hold
// bookMu.
func (s *MeetingService) commitMeeting(ctx context.Context, team persistence.Team, input MeetingInput) (BookingResult, error) {
	if input.RoomID == nil {
		candidates, err := s.rooms.ListRoomsWithCapacityAtLeast(ctx, team.Strength)
		if err != nil {
			return BookingResult{}, mapRoomRepoError(err)
		}
		return BookingResult{CandidateRooms: candidates}, nil
	}

	room, err := s.rooms.GetRoom(ctx, *input.RoomID)
	if err != nil {
		return BookingResult{}, mapRoomRepoError(err)
	}

	if room.Capacity < team.Strength {
		return BookingResult{}, ErrRoomCapacityInsufficient
	}

	available, err := s.availability.IsRoomAvailable(ctx, room.ID, input.Start, input.End, 0)
	if err != nil {
		return BookingResult{}, err
	}
	if !available {
		return BookingResult{}, ErrRoomBusy
	}

	if vErr := s.validateWindow(input.Start, input.End); vErr.HasErrors() {
		return BookingResult{}, vErr
	}

	if _, err := s.employees.GetEmployee(ctx, input.OrganiserID); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return BookingResult{}, ErrOrganiserNotFound
		}
		return BookingResult{}, err
	}

	// Unavailable invitees do not abort the booking. They are recorded as
	// declined and excluded from the active strength.
	declined, err := s.availability.NonAvailableMembers(ctx, team.MemberIDs, input.Start, input.End)
	if err != nil {
		return BookingResult{}, err
	}

	meeting := persistence.Meeting{
		ID:                 s.idGenerator(),
		Name:               strings.TrimSpace(input.Name),
		Description:        strings.TrimSpace(input.Description),
		Start:              input.Start,
		End:                input.End,
		ActiveStatus:       true,
		ActiveStrength:     len(team.MemberIDs) - len(declined),
		OrganiserID:        input.OrganiserID,
		TeamID:             team.ID,
		RoomID:             &room.ID,
		DeclinedInviteeIDs: declined,
		CreatedAt:          s.now(),
	}
	meeting.UpdatedAt = meeting.CreatedAt

	if err := s.meetings.CreateMeeting(ctx, meeting); err != nil {
		return BookingResult{}, mapMeetingRepoError(err)
	}

	return BookingResult{Meeting: &meeting, DeclinedEmployeeIDs: declined}, nil
}

// GetMeeting returns a single meeting by id.
func (s *MeetingService) GetMeeting(ctx context.Context, meetingID int64) (persistence.Meeting, error) {
	if s == nil {
		return persistence.Meeting{}, fmt.Errorf("MeetingService is nil")
	}

	meeting, err := s.meetings.GetMeeting(ctx, meetingID)
	if err != nil {
		return persistence.Meeting{}, mapMeetingRepoError(err)
	}
	return meeting, nil
}

// ListMeetings returns meetings matching the filter. Reads carry no locking
// requirement.
func (s *MeetingService) ListMeetings(ctx context.Context, filter persistence.MeetingFilter) ([]persistence.Meeting, error) {
	if s == nil {
		return nil, fmt.Errorf("MeetingService is nil")
	}

	meetings, err := s.meetings.ListMeetings(ctx, filter)
	if err != nil {
		return nil, mapMeetingRepoError(err)
	}
	return meetings, nil
}

// RescheduleMeeting applies a partial update of name, description, and time
// window. A changed window is validated and the meeting's room is re-checked
// for the new window, excluding the meeting itself.
func (s *MeetingService) RescheduleMeeting(ctx context.Context, params RescheduleMeetingParams) (meeting persistence.Meeting, err error) {
	if s == nil {
		err = fmt.Errorf("MeetingService is nil")
		return
	}

	logger := s.loggerWith(ctx, "RescheduleMeeting", "meeting_id", params.MeetingID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to reschedule meeting", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "meeting rescheduled")
	}()

	s.bookMu.Lock()
	defer s.bookMu.Unlock()

	var existing persistence.Meeting
	existing, err = s.meetings.GetMeeting(ctx, params.MeetingID)
	if err != nil {
		err = mapMeetingRepoError(err)
		return
	}

	updated := existing
	if params.Name != nil {
		updated.Name = strings.TrimSpace(*params.Name)
	}
	if params.Description != nil {
		updated.Description = strings.TrimSpace(*params.Description)
	}
	if params.Start != nil {
		updated.Start = *params.Start
	}
	if params.End != nil {
		updated.End = *params.End
	}

	windowChanged := !updated.Start.Equal(existing.Start) || !updated.End.Equal(existing.End)
	if windowChanged {
		if vErr := s.validateWindow(updated.Start, updated.End); vErr.HasErrors() {
			err = vErr
			return
		}
		if updated.RoomID != nil {
			var available bool
			available, err = s.availability.IsRoomAvailable(ctx, *updated.RoomID, updated.Start, updated.End, updated.ID)
			if err != nil {
				return
			}
			if !available {
				err = ErrRoomBusy
				return
			}
		}
	}

	updated.UpdatedAt = s.now()

	if err = s.meetings.UpdateMeeting(ctx, updated); err != nil {
		err = mapMeetingRepoError(err)
		return
	}

	meeting = updated
	return
}

// CancelMeeting deletes a meeting, enforcing the thirty-minute notice rule.
// A collaboration team bound to the meeting is deleted with it.
func (s *MeetingService) CancelMeeting(ctx context.Context, meetingID int64) (err error) {
	if s == nil {
		return fmt.Errorf("MeetingService is nil")
	}

	logger := s.loggerWith(ctx, "CancelMeeting", "meeting_id", meetingID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to cancel meeting", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "meeting cancelled")
	}()

	s.bookMu.Lock()
	defer s.bookMu.Unlock()

	var meeting persistence.Meeting
	meeting, err = s.meetings.GetMeeting(ctx, meetingID)
	if err != nil {
		err = mapMeetingRepoError(err)
		return
	}

	if s.now().Add(cancellationNotice).After(meeting.Start) {
		err = ErrCancellationNotice
		return
	}

	team, teamErr := s.teams.GetTeam(ctx, meeting.TeamID)

	if err = s.meetings.DeleteMeeting(ctx, meetingID); err != nil {
		err = mapMeetingRepoError(err)
		return
	}

	if teamErr == nil && team.IsCollaboration {
		if delErr := s.teams.DeleteTeam(ctx, team.ID); delErr != nil {
			logger.ErrorContext(ctx, "failed to delete collaboration team", "team_id", team.ID, "error", delErr)
		}
	}

	return
}

type attendanceOp int

const (
	attendanceAdd attendanceOp = iota
	attendanceRemove
)

// AddEmployeeToMeeting adds one employee to a meeting's effective attendee
// set. A permanent team bound to the meeting is never mutated; it is forked
// into a collaboration team that is private to this meeting.
func (s *MeetingService) AddEmployeeToMeeting(ctx context.Context, meetingID, employeeID int64) (persistence.Meeting, error) {
	return s.mutateAttendance(ctx, "AddEmployeeToMeeting", meetingID, employeeID, attendanceAdd)
}

// RemoveEmployeeFromMeeting removes one employee from a meeting's effective
// attendee set, with the same copy-on-write rule as AddEmployeeToMeeting.
func (s *MeetingService) RemoveEmployeeFromMeeting(ctx context.Context, meetingID, employeeID int64) (persistence.Meeting, error) {
	return s.mutateAttendance(ctx, "RemoveEmployeeFromMeeting", meetingID, employeeID, attendanceRemove)
}

func (s *MeetingService) mutateAttendance(ctx context.Context, operation string, meetingID, employeeID int64, op attendanceOp) (meeting persistence.Meeting, err error) {
	if s == nil {
		err = fmt.Errorf("MeetingService is nil")
		return
	}

	logger := s.loggerWith(ctx, operation, "meeting_id", meetingID, "employee_id", employeeID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to mutate attendance", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("team_id", meeting.TeamID).InfoContext(ctx, "attendance updated")
	}()

	s.bookMu.Lock()
	defer s.bookMu.Unlock()

	var existing persistence.Meeting
	existing, err = s.meetings.GetMeeting(ctx, meetingID)
	if err != nil {
		err = mapMeetingRepoError(err)
		return
	}

	var team persistence.Team
	team, err = s.teams.GetTeam(ctx, existing.TeamID)
	if err != nil {
		err = mapTeamRepoError(err)
		return
	}

	attending := slices.Contains(team.MemberIDs, employeeID)
	switch op {
	case attendanceAdd:
		if attending {
			err = ErrAlreadyAttending
			return
		}
	case attendanceRemove:
		if !attending {
			err = ErrNotAttending
			return
		}
	}

	if op == attendanceAdd {
		if _, err = s.employees.GetEmployee(ctx, employeeID); err != nil {
			err = mapEmployeeRepoError(err)
			return
		}
		var available bool
		available, err = s.availability.IsEmployeeAvailable(ctx, employeeID, existing.Start, existing.End)
		if err != nil {
			return
		}
		if !available {
			err = ErrEmployeeBusy
			return
		}
	}

	newMembers := applyAttendance(team.MemberIDs, employeeID, op)

	if team.IsCollaboration {
		// The team is exclusive to this meeting, mutate it in place.
		team.MemberIDs = newMembers
		team.Strength = len(newMembers)
		team.UpdatedAt = s.now()
		if err = s.teams.UpdateTeam(ctx, team); err != nil {
			err = mapTeamRepoError(err)
			return
		}
		meeting, err = s.refreshMeetingStrength(ctx, existing, team)
		return
	}

	// Copy-on-write: the permanent team keeps serving its other meetings
	// untouched, and this meeting is rebound to a private fork.
	fork := persistence.Team{
		ID:              s.idGenerator(),
		Name:            team.Name + collaborationTeamSuffix,
		Strength:        len(newMembers),
		IsCollaboration: true,
		MemberIDs:       newMembers,
		CreatedAt:       s.now(),
	}
	fork.UpdatedAt = fork.CreatedAt

	if err = s.teams.CreateTeam(ctx, fork); err != nil {
		err = mapTeamRepoError(err)
		return
	}

	existing.TeamID = fork.ID
	meeting, err = s.refreshMeetingStrength(ctx, existing, fork)
	if err != nil {
		if delErr := s.teams.DeleteTeam(ctx, fork.ID); delErr != nil {
			logger.ErrorContext(ctx, "failed to roll back forked team", "team_id", fork.ID, "error", delErr)
		}
		return
	}
	return
}

// refreshMeetingStrength recomputes the declined set and active strength from
// the meeting's (possibly rebound) team and persists the meeting.
func (s *MeetingService) refreshMeetingStrength(ctx context.Context, meeting persistence.Meeting, team persistence.Team) (persistence.Meeting, error) {
	declined := meeting.DeclinedInviteeIDs[:0:0]
	for _, id := range meeting.DeclinedInviteeIDs {
		if slices.Contains(team.MemberIDs, id) {
			declined = append(declined, id)
		}
	}

	meeting.DeclinedInviteeIDs = declined
	meeting.ActiveStrength = len(team.MemberIDs) - len(declined)
	meeting.UpdatedAt = s.now()

	if err := s.meetings.UpdateMeeting(ctx, meeting); err != nil {
		return persistence.Meeting{}, mapMeetingRepoError(err)
	}
	return meeting, nil
}

// NonAvailableTeamMembers reports which members of a team are busy during
// [start, end).
func (s *MeetingService) NonAvailableTeamMembers(ctx context.Context, teamID int64, start, end time.Time) ([]int64, error) {
	if s == nil {
		return nil, fmt.Errorf("MeetingService is nil")
	}

	team, err := s.teams.GetTeam(ctx, teamID)
	if err != nil {
		return nil, mapTeamRepoError(err)
	}

	return s.availability.NonAvailableMembers(ctx, team.MemberIDs, start, end)
}

// IsEmployeeAvailable reports whether a single employee is free during
// [start, end).
func (s *MeetingService) IsEmployeeAvailable(ctx context.Context, employeeID int64, start, end time.Time) (bool, error) {
	if s == nil {
		return false, fmt.Errorf("MeetingService is nil")
	}
	return s.availability.IsEmployeeAvailable(ctx, employeeID, start, end)
}

func (s *MeetingService) validateWindow(start, end time.Time) *ValidationError {
	vErr := &ValidationError{}

	window := scheduler.Window{Start: start, End: end}
	for _, violation := range window.Validate(s.now()) {
		switch violation {
		case scheduler.ViolationStartNotFuture:
			vErr.add("start", "start must be in the future")
		case scheduler.ViolationEndNotFuture:
			vErr.add("end", "end must be in the future")
		case scheduler.ViolationEndNotAfterStart:
			vErr.add("end", "end must be after start")
		}
	}

	return vErr
}

func (s *MeetingService) logBookingResult(ctx context.Context, logger *slog.Logger, result BookingResult) {
	if result.RoomChoiceRequired() {
		logger.With("candidate_count", len(result.CandidateRooms)).InfoContext(ctx, "room choice required")
		return
	}
	logger.With(
		"meeting_id", result.Meeting.ID,
		"declined_count", len(result.DeclinedEmployeeIDs),
	).InfoContext(ctx, "meeting booked")
}

func applyAttendance(memberIDs []int64, employeeID int64, op attendanceOp) []int64 {
	switch op {
	case attendanceAdd:
		return append(slices.Clone(memberIDs), employeeID)
	case attendanceRemove:
		out := make([]int64, 0, len(memberIDs))
		for _, id := range memberIDs {
			if id != employeeID {
				out = append(out, id)
			}
		}
		return out
	}
	return slices.Clone(memberIDs)
}

func mapMeetingRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrMeetingNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	return err
}
