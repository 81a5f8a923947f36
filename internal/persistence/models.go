package persistence

import "time"

// Employee represents a bookable person in the scheduler domain. TeamIDs holds
// the ids of every team the employee belongs to; an employee's busy calendar
// is always derived from those teams' meetings, never stored.
type Employee struct {
	ID        int64
	Name      string
	Email     string
	TeamIDs   []int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Team represents an attendee group. A permanent team (IsCollaboration false)
// is a stable org unit reused across meetings; a collaboration team exists for
// exactly one meeting and may be mutated freely.
type Team struct {
	ID              int64
	Name            string
	Strength        int
	IsCollaboration bool
	MemberIDs       []int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Room represents a meeting room catalog entry. Names are unique.
type Room struct {
	ID        int64
	Name      string
	Capacity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Meeting represents a committed booking. Each meeting is bound to exactly one
// team; RoomID is nil while no room has been assigned. ActiveStrength is the
// attendee count minus the declined invitees recorded at booking time.
type Meeting struct {
	ID                 int64
	Name               string
	Description        string
	Start              time.Time
	End                time.Time
	ActiveStatus       bool
	ActiveStrength     int
	OrganiserID        int64
	TeamID             int64
	RoomID             *int64
	DeclinedInviteeIDs []int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
