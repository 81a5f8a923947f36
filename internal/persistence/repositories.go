package persistence

import (
	"context"
	"time"
)

// EmployeeRepository exposes CRUD operations for employees.
type EmployeeRepository interface {
	CreateEmployee(ctx context.Context, employee Employee) error
	UpdateEmployee(ctx context.Context, employee Employee) error
	GetEmployee(ctx context.Context, id int64) (Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
	DeleteEmployee(ctx context.Context, id int64) error
}

// TeamRepository exposes CRUD operations for teams and their memberships.
type TeamRepository interface {
	CreateTeam(ctx context.Context, team Team) error
	UpdateTeam(ctx context.Context, team Team) error
	GetTeam(ctx context.Context, id int64) (Team, error)
	ListTeams(ctx context.Context) ([]Team, error)
	DeleteTeam(ctx context.Context, id int64) error
}

// RoomRepository exposes CRUD and capacity lookups for rooms.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) error
	UpdateRoom(ctx context.Context, room Room) error
	GetRoom(ctx context.Context, id int64) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	// ListRoomsWithCapacityAtLeast returns every room whose capacity is at
	// least the given minimum, ordered by capacity ascending then id.
	ListRoomsWithCapacityAtLeast(ctx context.Context, minimumCapacity int) ([]Room, error)
	DeleteRoom(ctx context.Context, id int64) error
}

// MeetingFilter narrows meeting queries.
type MeetingFilter struct {
	TeamID      *int64
	RoomID      *int64
	StartsAfter *time.Time
	EndsBefore  *time.Time
}

// MeetingRepository stores meetings and answers the overlap-existence queries
// the availability checks are built on.
type MeetingRepository interface {
	CreateMeeting(ctx context.Context, meeting Meeting) error
	UpdateMeeting(ctx context.Context, meeting Meeting) error
	GetMeeting(ctx context.Context, id int64) (Meeting, error)
	ListMeetings(ctx context.Context, filter MeetingFilter) ([]Meeting, error)
	DeleteMeeting(ctx context.Context, id int64) error
	// ExistsOverlappingByRoom reports whether any meeting bound to the room
	// overlaps [start, end). excludeMeetingID skips one meeting, so a
	// reschedule does not collide with itself; pass 0 to exclude nothing.
	ExistsOverlappingByRoom(ctx context.Context, roomID int64, start, end time.Time, excludeMeetingID int64) (bool, error)
	// ExistsOverlappingByTeam reports whether any meeting of the team
	// overlaps [start, end).
	ExistsOverlappingByTeam(ctx context.Context, teamID int64, start, end time.Time) (bool, error)
}
