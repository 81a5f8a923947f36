package scheduler

import "time"

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Intervals that merely touch at an endpoint do not
// overlap, so a meeting ending at T never conflicts with one starting at T.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether the window intersects another window.
func (w Window) Overlaps(other Window) bool {
	return Overlaps(w.Start, w.End, other.Start, other.End)
}

// WindowViolation identifies a booking-time rule the window breaks.
type WindowViolation string

const (
	// ViolationStartNotFuture indicates the start is not strictly after the
	// validation instant.
	ViolationStartNotFuture WindowViolation = "start_not_in_future"
	// ViolationEndNotFuture indicates the end is not strictly after the
	// validation instant.
	ViolationEndNotFuture WindowViolation = "end_not_in_future"
	// ViolationEndNotAfterStart indicates a zero or negative duration.
	ViolationEndNotAfterStart WindowViolation = "end_not_after_start"
)

// Validate checks the window against the booking rules at the given instant:
// both bounds strictly in the future, end strictly after start. An empty
// result means the window is bookable.
func (w Window) Validate(now time.Time) []WindowViolation {
	var violations []WindowViolation
	if !now.Before(w.Start) {
		violations = append(violations, ViolationStartNotFuture)
	}
	if !now.Before(w.End) {
		violations = append(violations, ViolationEndNotFuture)
	}
	if !w.Start.Before(w.End) {
		violations = append(violations, ViolationEndNotAfterStart)
	}
	return violations
}
