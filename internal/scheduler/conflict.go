package scheduler

// Booking represents a committed meeting as the conflict detector sees it.
type Booking struct {
	ID          int64
	AttendeeIDs []int64
	RoomID      *int64
	Window      Window
}

// ConflictType describes the kind of double-booking detected.
type ConflictType string

const (
	// ConflictTypeAttendee indicates an attendee is double-booked.
	ConflictTypeAttendee ConflictType = "attendee"
	// ConflictTypeRoom indicates a room is double-booked.
	ConflictTypeRoom ConflictType = "room"
)

// Conflict details an overlapping booking relation.
type Conflict struct {
	WithBookingID int64
	Type          ConflictType
	AttendeeID    int64
	RoomID        *int64
}

// DetectConflicts identifies room and attendee conflicts between the candidate
// booking and each existing booking. Bookings sharing the candidate's ID are
// skipped so a booking never conflicts with itself.
func DetectConflicts(existing []Booking, candidate Booking) []Conflict {
	var conflicts []Conflict
	attendees := make(map[int64]struct{}, len(candidate.AttendeeIDs))
	for _, id := range candidate.AttendeeIDs {
		attendees[id] = struct{}{}
	}

	for _, booking := range existing {
		if booking.ID == candidate.ID {
			continue
		}
		if !booking.Window.Overlaps(candidate.Window) {
			continue
		}

		if candidate.RoomID != nil && booking.RoomID != nil && *candidate.RoomID == *booking.RoomID {
			roomID := *booking.RoomID
			conflicts = append(conflicts, Conflict{
				WithBookingID: booking.ID,
				Type:          ConflictTypeRoom,
				RoomID:        &roomID,
			})
		}

		for _, attendee := range booking.AttendeeIDs {
			if _, ok := attendees[attendee]; ok {
				conflicts = append(conflicts, Conflict{
					WithBookingID: booking.ID,
					Type:          ConflictTypeAttendee,
					AttendeeID:    attendee,
				})
			}
		}
	}

	return conflicts
}
