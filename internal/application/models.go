package application

import (
	"time"

	"github.com/example/meeting-scheduler/internal/persistence"
)

// EmployeeInput captures caller provided employee fields.
type EmployeeInput struct {
	Name  string
	Email string
}

// RoomInput captures caller provided room fields.
type RoomInput struct {
	Name     string
	Capacity int
}

// TeamInput captures caller provided team fields.
type TeamInput struct {
	Name      string
	MemberIDs []int64
}

// MeetingInput captures the caller provided fields of a booking request.
// RoomID is nil when the caller has not picked a room yet; the booking then
// returns candidate rooms instead of committing a meeting.
type MeetingInput struct {
	Name        string
	Description string
	Start       time.Time
	End         time.Time
	RoomID      *int64
	OrganiserID int64
}

// CreateTeamMeetingParams wraps the data required to book a meeting for a
// permanent team.
type CreateTeamMeetingParams struct {
	TeamID int64
	Input  MeetingInput
}

// CreateCollaborationMeetingParams wraps the data required to book an ad-hoc
// meeting for an explicit attendee list.
type CreateCollaborationMeetingParams struct {
	CollaboratorIDs []int64
	Input           MeetingInput
}

// RescheduleMeetingParams carries the partial update of a reschedule request.
// Nil fields are left unchanged.
type RescheduleMeetingParams struct {
	MeetingID   int64
	Name        *string
	Description *string
	Start       *time.Time
	End         *time.Time
}

// BookingResult is the outcome of a booking request. Exactly one of Meeting
// and CandidateRooms is populated: a nil Meeting means the caller must pick a
// room from CandidateRooms and resubmit. DeclinedEmployeeIDs lists invitees
// found busy at booking time; a non-empty list is still a success.
type BookingResult struct {
	Meeting             *persistence.Meeting
	CandidateRooms      []persistence.Room
	DeclinedEmployeeIDs []int64
}

// RoomChoiceRequired reports whether the booking stopped at the room-choice
// branch instead of committing a meeting.
func (r BookingResult) RoomChoiceRequired() bool {
	return r.Meeting == nil
}

// HasDeclined reports whether any requested invitee was recorded as declined.
func (r BookingResult) HasDeclined() bool {
	return len(r.DeclinedEmployeeIDs) > 0
}
