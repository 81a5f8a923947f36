package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/meeting-scheduler/internal/persistence"
)

var (
	employeeCounter int64
	teamCounter     int64
	roomCounter     int64
	meetingCounter  int64
)

var referenceTime = time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// EmployeeOption configures a generated employee fixture.
type EmployeeOption func(*persistence.Employee)

// WithEmployeeID overrides the generated employee id.
func WithEmployeeID(id int64) EmployeeOption {
	return func(e *persistence.Employee) { e.ID = id }
}

// WithEmployeeName overrides the generated employee name.
func WithEmployeeName(name string) EmployeeOption {
	return func(e *persistence.Employee) { e.Name = name }
}

// NewEmployee returns a deterministic employee fixture with optional overrides.
func NewEmployee(opts ...EmployeeOption) persistence.Employee {
	idx := atomic.AddInt64(&employeeCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	employee := persistence.Employee{
		ID:        idx,
		Name:      fmt.Sprintf("Employee %03d", idx),
		Email:     fmt.Sprintf("employee-%03d@example.com", idx),
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&employee)
	}
	return employee
}

// TeamOption configures a generated team fixture.
type TeamOption func(*persistence.Team)

// WithTeamID overrides the generated team id.
func WithTeamID(id int64) TeamOption {
	return func(t *persistence.Team) { t.ID = id }
}

// WithTeamMembers sets the member list and keeps strength consistent.
func WithTeamMembers(memberIDs ...int64) TeamOption {
	return func(t *persistence.Team) {
		t.MemberIDs = memberIDs
		t.Strength = len(memberIDs)
	}
}

// AsCollaboration marks the team as an ad-hoc collaboration team.
func AsCollaboration() TeamOption {
	return func(t *persistence.Team) { t.IsCollaboration = true }
}

// NewTeam returns a deterministic team fixture with optional overrides.
func NewTeam(opts ...TeamOption) persistence.Team {
	idx := atomic.AddInt64(&teamCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	team := persistence.Team{
		ID:        1000 + idx,
		Name:      fmt.Sprintf("Team %03d", idx),
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&team)
	}
	return team
}

// RoomOption configures a generated room fixture.
type RoomOption func(*persistence.Room)

// WithRoomID overrides the generated room id.
func WithRoomID(id int64) RoomOption {
	return func(r *persistence.Room) { r.ID = id }
}

// WithRoomCapacity overrides the generated capacity.
func WithRoomCapacity(capacity int) RoomOption {
	return func(r *persistence.Room) { r.Capacity = capacity }
}

// NewRoom returns a deterministic room fixture with optional overrides.
func NewRoom(opts ...RoomOption) persistence.Room {
	idx := atomic.AddInt64(&roomCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	room := persistence.Room{
		ID:        2000 + idx,
		Name:      fmt.Sprintf("Room %03d", idx),
		Capacity:  8,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&room)
	}
	return room
}

// MeetingOption configures a generated meeting fixture.
type MeetingOption func(*persistence.Meeting)

// WithMeetingID overrides the generated meeting id.
func WithMeetingID(id int64) MeetingOption {
	return func(m *persistence.Meeting) { m.ID = id }
}

// WithMeetingWindow sets the meeting's half-open time window.
func WithMeetingWindow(start, end time.Time) MeetingOption {
	return func(m *persistence.Meeting) {
		m.Start = start
		m.End = end
	}
}

// WithMeetingTeam binds the meeting to a team and sets the active strength.
func WithMeetingTeam(teamID int64, strength int) MeetingOption {
	return func(m *persistence.Meeting) {
		m.TeamID = teamID
		m.ActiveStrength = strength
	}
}

// WithMeetingRoom binds the meeting to a room.
func WithMeetingRoom(roomID int64) MeetingOption {
	return func(m *persistence.Meeting) { m.RoomID = &roomID }
}

// WithMeetingOrganiser sets the meeting organiser.
func WithMeetingOrganiser(employeeID int64) MeetingOption {
	return func(m *persistence.Meeting) { m.OrganiserID = employeeID }
}

// NewMeeting returns a deterministic meeting fixture with optional overrides.
// The default window is one hour starting an hour after the reference time.
func NewMeeting(opts ...MeetingOption) persistence.Meeting {
	idx := atomic.AddInt64(&meetingCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	start := referenceTime.Add(time.Hour)
	meeting := persistence.Meeting{
		ID:           3000 + idx,
		Name:         fmt.Sprintf("Meeting %03d", idx),
		Start:        start,
		End:          start.Add(time.Hour),
		ActiveStatus: true,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, opt := range opts {
		opt(&meeting)
	}
	return meeting
}
