package http

import (
	"context"
	"log/slog"

	"github.com/example/meeting-scheduler/internal/logging"
)

type contextKey string

const (
	meetingIDContextKey  contextKey = "meeting_id"
	employeeIDContextKey contextKey = "employee_id"
	roomIDContextKey     contextKey = "room_id"
	teamIDContextKey     contextKey = "team_id"
)

// ContextWithLogger returns a derived context carrying a request-scoped logger.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return logging.ContextWithLogger(ctx, logger)
}

// LoggerFromContext extracts the request-scoped logger if one was attached.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}

// ContextWithMeetingID injects the meeting identifier resolved from the request path.
func ContextWithMeetingID(ctx context.Context, meetingID int64) context.Context {
	return context.WithValue(ctx, meetingIDContextKey, meetingID)
}

// MeetingIDFromContext extracts a meeting identifier previously associated with the context.
func MeetingIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(meetingIDContextKey).(int64)
	return id, ok
}

// ContextWithEmployeeID injects the employee identifier resolved from the request path.
func ContextWithEmployeeID(ctx context.Context, employeeID int64) context.Context {
	return context.WithValue(ctx, employeeIDContextKey, employeeID)
}

// EmployeeIDFromContext extracts an employee identifier previously associated with the context.
func EmployeeIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(employeeIDContextKey).(int64)
	return id, ok
}

// ContextWithRoomID injects the room identifier resolved from the request path.
func ContextWithRoomID(ctx context.Context, roomID int64) context.Context {
	return context.WithValue(ctx, roomIDContextKey, roomID)
}

// RoomIDFromContext extracts a room identifier previously associated with the context.
func RoomIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(roomIDContextKey).(int64)
	return id, ok
}

// ContextWithTeamID injects the team identifier resolved from the request path.
func ContextWithTeamID(ctx context.Context, teamID int64) context.Context {
	return context.WithValue(ctx, teamIDContextKey, teamID)
}

// TeamIDFromContext extracts a team identifier previously associated with the context.
func TeamIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(teamIDContextKey).(int64)
	return id, ok
}
