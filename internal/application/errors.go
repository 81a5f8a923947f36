package application

import "errors"

var (
	// ErrMeetingNotFound is returned when the referenced meeting does not exist.
	ErrMeetingNotFound = errors.New("application: meeting not found")
	// ErrTeamNotFound is returned when the referenced team does not exist.
	ErrTeamNotFound = errors.New("application: team not found")
	// ErrRoomNotFound is returned when the referenced room does not exist.
	ErrRoomNotFound = errors.New("application: room not found")
	// ErrEmployeeNotFound is returned when the referenced employee does not exist.
	ErrEmployeeNotFound = errors.New("application: employee not found")
	// ErrOrganiserNotFound is returned when the meeting organiser does not exist.
	ErrOrganiserNotFound = errors.New("application: organiser not found")
	// ErrRoomBusy is returned when the requested room already hosts an
	// overlapping meeting.
	ErrRoomBusy = errors.New("application: room busy")
	// ErrEmployeeBusy is returned when the employee has an overlapping meeting
	// through one of their teams.
	ErrEmployeeBusy = errors.New("application: employee busy")
	// ErrRoomCapacityInsufficient is returned when the team strength exceeds
	// the room capacity.
	ErrRoomCapacityInsufficient = errors.New("application: room capacity insufficient")
	// ErrAlreadyAttending is returned when adding an employee already in the
	// meeting's team.
	ErrAlreadyAttending = errors.New("application: employee already attending")
	// ErrNotAttending is returned when removing an employee who is not in the
	// meeting's team.
	ErrNotAttending = errors.New("application: employee not attending")
	// ErrCollaborationTeamNotBookable is returned when a collaboration team is
	// used as the target of a fresh team booking.
	ErrCollaborationTeamNotBookable = errors.New("application: collaboration team not bookable")
	// ErrNoCollaboratorsSpecified is returned when an ad-hoc booking carries an
	// empty attendee list.
	ErrNoCollaboratorsSpecified = errors.New("application: no collaborators specified")
	// ErrCancellationNotice is returned when a meeting is cancelled less than
	// thirty minutes before it starts.
	ErrCancellationNotice = errors.New("application: cancellation notice too short")
	// ErrAlreadyInTeam is returned when adding an employee to a team they
	// already belong to.
	ErrAlreadyInTeam = errors.New("application: employee already in team")
	// ErrAlreadyExists is returned when a record with the same unique attribute
	// already exists.
	ErrAlreadyExists = errors.New("application: already exists")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// merge copies entries from another validation error into the receiver.
func (v *ValidationError) merge(other *ValidationError) {
	if other == nil || len(other.FieldErrors) == 0 {
		return
	}
	for field, msg := range other.FieldErrors {
		v.add(field, msg)
	}
}
