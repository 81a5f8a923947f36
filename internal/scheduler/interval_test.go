package scheduler

import (
	"testing"
	"time"
)

func at(t *testing.T, hour, minute int) time.Time {
	t.Helper()
	return time.Date(2025, 6, 2, hour, minute, 0, 0, time.Local)
}

func TestOverlaps(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     time.Time
		want                           bool
	}{
		{
			name:   "identical intervals overlap",
			aStart: time.Date(2025, 6, 2, 10, 0, 0, 0, time.Local),
			aEnd:   time.Date(2025, 6, 2, 11, 0, 0, 0, time.Local),
			bStart: time.Date(2025, 6, 2, 10, 0, 0, 0, time.Local),
			bEnd:   time.Date(2025, 6, 2, 11, 0, 0, 0, time.Local),
			want:   true,
		},
		{
			name:   "partial overlap at tail",
			aStart: time.Date(2025, 6, 2, 10, 0, 0, 0, time.Local),
			aEnd:   time.Date(2025, 6, 2, 11, 0, 0, 0, time.Local),
			bStart: time.Date(2025, 6, 2, 10, 30, 0, 0, time.Local),
			bEnd:   time.Date(2025, 6, 2, 11, 30, 0, 0, time.Local),
			want:   true,
		},
		{
			name:   "containment overlaps",
			aStart: time.Date(2025, 6, 2, 10, 0, 0, 0, time.Local),
			aEnd:   time.Date(2025, 6, 2, 12, 0, 0, 0, time.Local),
			bStart: time.Date(2025, 6, 2, 10, 15, 0, 0, time.Local),
			bEnd:   time.Date(2025, 6, 2, 10, 45, 0, 0, time.Local),
			want:   true,
		},
		{
			name:   "touching endpoints do not overlap",
			aStart: time.Date(2025, 6, 2, 10, 0, 0, 0, time.Local),
			aEnd:   time.Date(2025, 6, 2, 11, 0, 0, 0, time.Local),
			bStart: time.Date(2025, 6, 2, 11, 0, 0, 0, time.Local),
			bEnd:   time.Date(2025, 6, 2, 12, 0, 0, 0, time.Local),
			want:   false,
		},
		{
			name:   "disjoint intervals do not overlap",
			aStart: time.Date(2025, 6, 2, 10, 0, 0, 0, time.Local),
			aEnd:   time.Date(2025, 6, 2, 11, 0, 0, 0, time.Local),
			bStart: time.Date(2025, 6, 2, 13, 0, 0, 0, time.Local),
			bEnd:   time.Date(2025, 6, 2, 14, 0, 0, 0, time.Local),
			want:   false,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
				t.Fatalf("Overlaps(%v, %v, %v, %v) = %v, want %v", tc.aStart, tc.aEnd, tc.bStart, tc.bEnd, got, tc.want)
			}
			// The predicate is symmetric.
			if got := Overlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd); got != tc.want {
				t.Fatalf("Overlaps is not symmetric for %s", tc.name)
			}
		})
	}
}

func TestWindowValidate(t *testing.T) {
	t.Parallel()

	now := at(t, 9, 0)

	t.Run("future window with positive duration is bookable", func(t *testing.T) {
		t.Parallel()
		w := Window{Start: at(t, 10, 0), End: at(t, 11, 0)}
		if violations := w.Validate(now); len(violations) != 0 {
			t.Fatalf("expected no violations, got %v", violations)
		}
	})

	t.Run("start in the past is rejected", func(t *testing.T) {
		t.Parallel()
		w := Window{Start: at(t, 8, 0), End: at(t, 10, 0)}
		violations := w.Validate(now)
		if !containsViolation(violations, ViolationStartNotFuture) {
			t.Fatalf("expected %s, got %v", ViolationStartNotFuture, violations)
		}
	})

	t.Run("start equal to now is rejected", func(t *testing.T) {
		t.Parallel()
		w := Window{Start: now, End: at(t, 10, 0)}
		violations := w.Validate(now)
		if !containsViolation(violations, ViolationStartNotFuture) {
			t.Fatalf("expected %s, got %v", ViolationStartNotFuture, violations)
		}
	})

	t.Run("end in the past is rejected", func(t *testing.T) {
		t.Parallel()
		w := Window{Start: at(t, 10, 0), End: at(t, 8, 0)}
		violations := w.Validate(now)
		if !containsViolation(violations, ViolationEndNotFuture) {
			t.Fatalf("expected %s, got %v", ViolationEndNotFuture, violations)
		}
		if !containsViolation(violations, ViolationEndNotAfterStart) {
			t.Fatalf("expected %s, got %v", ViolationEndNotAfterStart, violations)
		}
	})

	t.Run("zero duration is rejected", func(t *testing.T) {
		t.Parallel()
		w := Window{Start: at(t, 10, 0), End: at(t, 10, 0)}
		violations := w.Validate(now)
		if !containsViolation(violations, ViolationEndNotAfterStart) {
			t.Fatalf("expected %s, got %v", ViolationEndNotAfterStart, violations)
		}
	})
}

func containsViolation(violations []WindowViolation, target WindowViolation) bool {
	for _, violation := range violations {
		if violation == target {
			return true
		}
	}
	return false
}

func TestDetectConflicts(t *testing.T) {
	t.Parallel()

	roomA := int64(1)
	roomB := int64(2)

	existing := []Booking{
		{
			ID:          100,
			AttendeeIDs: []int64{1, 2},
			RoomID:      &roomA,
			Window:      Window{Start: at(t, 10, 0), End: at(t, 11, 0)},
		},
		{
			ID:          101,
			AttendeeIDs: []int64{3},
			RoomID:      &roomB,
			Window:      Window{Start: at(t, 11, 0), End: at(t, 12, 0)},
		},
	}

	t.Run("room overlap produces room conflict", func(t *testing.T) {
		t.Parallel()
		candidate := Booking{
			ID:          200,
			AttendeeIDs: []int64{4},
			RoomID:      &roomA,
			Window:      Window{Start: at(t, 10, 30), End: at(t, 11, 30)},
		}
		conflicts := DetectConflicts(existing, candidate)
		if len(conflicts) != 1 {
			t.Fatalf("expected 1 conflict, got %d: %v", len(conflicts), conflicts)
		}
		if conflicts[0].Type != ConflictTypeRoom || conflicts[0].WithBookingID != 100 {
			t.Fatalf("unexpected conflict: %+v", conflicts[0])
		}
	})

	t.Run("attendee overlap produces attendee conflict", func(t *testing.T) {
		t.Parallel()
		candidate := Booking{
			ID:          200,
			AttendeeIDs: []int64{2},
			RoomID:      &roomB,
			Window:      Window{Start: at(t, 10, 15), End: at(t, 10, 45)},
		}
		conflicts := DetectConflicts(existing, candidate)
		if len(conflicts) != 1 {
			t.Fatalf("expected 1 conflict, got %d: %v", len(conflicts), conflicts)
		}
		if conflicts[0].Type != ConflictTypeAttendee || conflicts[0].AttendeeID != 2 {
			t.Fatalf("unexpected conflict: %+v", conflicts[0])
		}
	})

	t.Run("back to back bookings yield no conflicts", func(t *testing.T) {
		t.Parallel()
		candidate := Booking{
			ID:          200,
			AttendeeIDs: []int64{1, 2},
			RoomID:      &roomA,
			Window:      Window{Start: at(t, 11, 0), End: at(t, 12, 0)},
		}
		if conflicts := DetectConflicts(existing[:1], candidate); len(conflicts) != 0 {
			t.Fatalf("expected no conflicts, got %v", conflicts)
		}
	})

	t.Run("candidate never conflicts with itself", func(t *testing.T) {
		t.Parallel()
		if conflicts := DetectConflicts(existing, existing[0]); len(conflicts) != 0 {
			t.Fatalf("expected no conflicts, got %v", conflicts)
		}
	})
}
