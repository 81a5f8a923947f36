package testfixtures

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/example/meeting-scheduler/internal/persistence"
	"github.com/example/meeting-scheduler/internal/scheduler"
)

// Store is an in-memory implementation of every persistence repository,
// backed by maps under one lock. It mirrors the sqlite layer's observable
// behavior (uniqueness, not-found semantics, overlap queries) closely enough
// for service-level tests.
type Store struct {
	mu        sync.RWMutex
	employees map[int64]persistence.Employee
	teams     map[int64]persistence.Team
	rooms     map[int64]persistence.Room
	meetings  map[int64]persistence.Meeting
}

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{
		employees: make(map[int64]persistence.Employee),
		teams:     make(map[int64]persistence.Team),
		rooms:     make(map[int64]persistence.Room),
		meetings:  make(map[int64]persistence.Meeting),
	}
}

// ----------------------------- employees -----------------------------

func (s *Store) CreateEmployee(_ context.Context, employee persistence.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[employee.ID]; ok {
		return persistence.ErrDuplicate
	}
	for _, existing := range s.employees {
		if existing.Email == employee.Email {
			return persistence.ErrDuplicate
		}
	}
	s.employees[employee.ID] = employee
	return nil
}

func (s *Store) UpdateEmployee(_ context.Context, employee persistence.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[employee.ID]; !ok {
		return persistence.ErrNotFound
	}
	s.employees[employee.ID] = employee
	return nil
}

func (s *Store) GetEmployee(_ context.Context, id int64) (persistence.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	employee, ok := s.employees[id]
	if !ok {
		return persistence.Employee{}, persistence.ErrNotFound
	}
	employee.TeamIDs = s.teamIDsOfLocked(id)
	return employee, nil
}

func (s *Store) ListEmployees(_ context.Context) ([]persistence.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]persistence.Employee, 0, len(s.employees))
	for _, employee := range s.employees {
		employee.TeamIDs = s.teamIDsOfLocked(employee.ID)
		out = append(out, employee)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) DeleteEmployee(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[id]; !ok {
		return persistence.ErrNotFound
	}
	for _, meeting := range s.meetings {
		if meeting.OrganiserID == id {
			return persistence.ErrForeignKeyViolation
		}
	}
	delete(s.employees, id)
	for teamID, team := range s.teams {
		if slices.Contains(team.MemberIDs, id) {
			team.MemberIDs = withoutID(team.MemberIDs, id)
			s.teams[teamID] = team
		}
	}
	return nil
}

func (s *Store) teamIDsOfLocked(employeeID int64) []int64 {
	var teamIDs []int64
	for teamID, team := range s.teams {
		if slices.Contains(team.MemberIDs, employeeID) {
			teamIDs = append(teamIDs, teamID)
		}
	}
	slices.Sort(teamIDs)
	return teamIDs
}

// ----------------------------- teams -----------------------------

func (s *Store) CreateTeam(_ context.Context, team persistence.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.teams[team.ID]; ok {
		return persistence.ErrDuplicate
	}
	for _, memberID := range team.MemberIDs {
		if _, ok := s.employees[memberID]; !ok {
			return persistence.ErrForeignKeyViolation
		}
	}
	team.MemberIDs = slices.Clone(team.MemberIDs)
	s.teams[team.ID] = team
	return nil
}

func (s *Store) UpdateTeam(_ context.Context, team persistence.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.teams[team.ID]; !ok {
		return persistence.ErrNotFound
	}
	for _, memberID := range team.MemberIDs {
		if _, ok := s.employees[memberID]; !ok {
			return persistence.ErrForeignKeyViolation
		}
	}
	team.MemberIDs = slices.Clone(team.MemberIDs)
	s.teams[team.ID] = team
	return nil
}

func (s *Store) GetTeam(_ context.Context, id int64) (persistence.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	team, ok := s.teams[id]
	if !ok {
		return persistence.Team{}, persistence.ErrNotFound
	}
	team.MemberIDs = slices.Clone(team.MemberIDs)
	return team, nil
}

func (s *Store) ListTeams(_ context.Context) ([]persistence.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]persistence.Team, 0, len(s.teams))
	for _, team := range s.teams {
		team.MemberIDs = slices.Clone(team.MemberIDs)
		out = append(out, team)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) DeleteTeam(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.teams[id]; !ok {
		return persistence.ErrNotFound
	}
	for _, meeting := range s.meetings {
		if meeting.TeamID == id {
			return persistence.ErrForeignKeyViolation
		}
	}
	delete(s.teams, id)
	return nil
}

// ----------------------------- rooms -----------------------------

func (s *Store) CreateRoom(_ context.Context, room persistence.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if room.Capacity <= 0 {
		return persistence.ErrConstraintViolation
	}
	if _, ok := s.rooms[room.ID]; ok {
		return persistence.ErrDuplicate
	}
	for _, existing := range s.rooms {
		if existing.Name == room.Name {
			return persistence.ErrDuplicate
		}
	}
	s.rooms[room.ID] = room
	return nil
}

func (s *Store) UpdateRoom(_ context.Context, room persistence.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if room.Capacity <= 0 {
		return persistence.ErrConstraintViolation
	}
	if _, ok := s.rooms[room.ID]; !ok {
		return persistence.ErrNotFound
	}
	s.rooms[room.ID] = room
	return nil
}

func (s *Store) GetRoom(_ context.Context, id int64) (persistence.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[id]
	if !ok {
		return persistence.Room{}, persistence.ErrNotFound
	}
	return room, nil
}

func (s *Store) ListRooms(_ context.Context) ([]persistence.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]persistence.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		out = append(out, room)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ListRoomsWithCapacityAtLeast(_ context.Context, minimumCapacity int) ([]persistence.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []persistence.Room
	for _, room := range s.rooms {
		if room.Capacity >= minimumCapacity {
			out = append(out, room)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Capacity != out[j].Capacity {
			return out[i].Capacity < out[j].Capacity
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) DeleteRoom(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[id]; !ok {
		return persistence.ErrNotFound
	}
	for _, meeting := range s.meetings {
		if meeting.RoomID != nil && *meeting.RoomID == id {
			return persistence.ErrForeignKeyViolation
		}
	}
	delete(s.rooms, id)
	return nil
}

// ----------------------------- meetings -----------------------------

func (s *Store) CreateMeeting(_ context.Context, meeting persistence.Meeting) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.meetings[meeting.ID]; ok {
		return persistence.ErrDuplicate
	}
	if !meeting.End.After(meeting.Start) {
		return persistence.ErrConstraintViolation
	}
	if _, ok := s.teams[meeting.TeamID]; !ok {
		return persistence.ErrForeignKeyViolation
	}
	if _, ok := s.employees[meeting.OrganiserID]; !ok {
		return persistence.ErrForeignKeyViolation
	}
	if meeting.RoomID != nil {
		if _, ok := s.rooms[*meeting.RoomID]; !ok {
			return persistence.ErrForeignKeyViolation
		}
	}
	meeting.DeclinedInviteeIDs = slices.Clone(meeting.DeclinedInviteeIDs)
	s.meetings[meeting.ID] = meeting
	return nil
}

func (s *Store) UpdateMeeting(_ context.Context, meeting persistence.Meeting) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.meetings[meeting.ID]; !ok {
		return persistence.ErrNotFound
	}
	if !meeting.End.After(meeting.Start) {
		return persistence.ErrConstraintViolation
	}
	if _, ok := s.teams[meeting.TeamID]; !ok {
		return persistence.ErrForeignKeyViolation
	}
	meeting.DeclinedInviteeIDs = slices.Clone(meeting.DeclinedInviteeIDs)
	s.meetings[meeting.ID] = meeting
	return nil
}

func (s *Store) GetMeeting(_ context.Context, id int64) (persistence.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	meeting, ok := s.meetings[id]
	if !ok {
		return persistence.Meeting{}, persistence.ErrNotFound
	}
	meeting.DeclinedInviteeIDs = slices.Clone(meeting.DeclinedInviteeIDs)
	return meeting, nil
}

func (s *Store) ListMeetings(_ context.Context, filter persistence.MeetingFilter) ([]persistence.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []persistence.Meeting
	for _, meeting := range s.meetings {
		if filter.TeamID != nil && meeting.TeamID != *filter.TeamID {
			continue
		}
		if filter.RoomID != nil && (meeting.RoomID == nil || *meeting.RoomID != *filter.RoomID) {
			continue
		}
		if filter.StartsAfter != nil && meeting.Start.Before(*filter.StartsAfter) {
			continue
		}
		if filter.EndsBefore != nil && meeting.End.After(*filter.EndsBefore) {
			continue
		}
		meeting.DeclinedInviteeIDs = slices.Clone(meeting.DeclinedInviteeIDs)
		out = append(out, meeting)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) DeleteMeeting(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.meetings[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.meetings, id)
	return nil
}

func (s *Store) ExistsOverlappingByRoom(_ context.Context, roomID int64, start, end time.Time, excludeMeetingID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	candidate := scheduler.Booking{
		ID:     excludeMeetingID,
		RoomID: &roomID,
		Window: scheduler.Window{Start: start, End: end},
	}
	for _, conflict := range scheduler.DetectConflicts(s.bookingsLocked(), candidate) {
		if conflict.Type == scheduler.ConflictTypeRoom {
			return true, nil
		}
	}
	return false, nil
}

// bookingsLocked projects the stored meetings into the conflict detector's
// booking shape. Callers must hold at least a read lock.
func (s *Store) bookingsLocked() []scheduler.Booking {
	bookings := make([]scheduler.Booking, 0, len(s.meetings))
	for _, meeting := range s.meetings {
		bookings = append(bookings, scheduler.Booking{
			ID:     meeting.ID,
			RoomID: meeting.RoomID,
			Window: scheduler.Window{Start: meeting.Start, End: meeting.End},
		})
	}
	return bookings
}

func (s *Store) ExistsOverlappingByTeam(_ context.Context, teamID int64, start, end time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, meeting := range s.meetings {
		if meeting.TeamID != teamID {
			continue
		}
		if scheduler.Overlaps(meeting.Start, meeting.End, start, end) {
			return true, nil
		}
	}
	return false, nil
}

func withoutID(ids []int64, id int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}
