package application

import (
	"context"
	"fmt"
	"time"

	"github.com/example/meeting-scheduler/internal/persistence"
)

// AvailabilityChecker answers whether a room or an employee is free for a
// half-open time window. An employee's busy calendar is never stored: the
// employee is busy whenever any team they belong to has an overlapping
// meeting, including teams unrelated to the booking under consideration.
type AvailabilityChecker struct {
	meetings  persistence.MeetingRepository
	employees persistence.EmployeeRepository
}

// NewAvailabilityChecker constructs an availability checker over the given
// repositories.
func NewAvailabilityChecker(meetings persistence.MeetingRepository, employees persistence.EmployeeRepository) *AvailabilityChecker {
	return &AvailabilityChecker{meetings: meetings, employees: employees}
}

// IsRoomAvailable reports whether no meeting bound to the room overlaps
// [start, end). excludeMeetingID skips one meeting id so a reschedule does not
// collide with itself; pass 0 to exclude nothing.
func (a *AvailabilityChecker) IsRoomAvailable(ctx context.Context, roomID int64, start, end time.Time, excludeMeetingID int64) (bool, error) {
	busy, err := a.meetings.ExistsOverlappingByRoom(ctx, roomID, start, end, excludeMeetingID)
	if err != nil {
		return false, fmt.Errorf("failed to check room availability: %w", err)
	}
	return !busy, nil
}

// IsEmployeeAvailable reports whether none of the employee's teams has a
// meeting overlapping [start, end).
func (a *AvailabilityChecker) IsEmployeeAvailable(ctx context.Context, employeeID int64, start, end time.Time) (bool, error) {
	employee, err := a.employees.GetEmployee(ctx, employeeID)
	if err != nil {
		return false, mapEmployeeRepoError(err)
	}

	for _, teamID := range employee.TeamIDs {
		busy, err := a.meetings.ExistsOverlappingByTeam(ctx, teamID, start, end)
		if err != nil {
			return false, fmt.Errorf("failed to check team availability: %w", err)
		}
		if busy {
			return false, nil
		}
	}

	return true, nil
}

// NonAvailableMembers filters the candidate employee ids down to those that
// fail IsEmployeeAvailable for [start, end). Order follows the input; ids are
// reported at most once.
func (a *AvailabilityChecker) NonAvailableMembers(ctx context.Context, employeeIDs []int64, start, end time.Time) ([]int64, error) {
	var unavailable []int64
	seen := make(map[int64]struct{}, len(employeeIDs))

	for _, employeeID := range employeeIDs {
		if _, ok := seen[employeeID]; ok {
			continue
		}
		seen[employeeID] = struct{}{}

		available, err := a.IsEmployeeAvailable(ctx, employeeID, start, end)
		if err != nil {
			return nil, err
		}
		if !available {
			unavailable = append(unavailable, employeeID)
		}
	}

	return unavailable, nil
}
