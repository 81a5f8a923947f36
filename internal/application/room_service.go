package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/meeting-scheduler/internal/persistence"
)

// RoomService orchestrates validation and persistence for the room catalog.
type RoomService struct {
	rooms       persistence.RoomRepository
	idGenerator func() int64
	now         func() time.Time
	logger      *slog.Logger
}

// NewRoomService constructs a room service with the provided dependencies.
func NewRoomService(rooms persistence.RoomRepository, idGenerator func() int64, now func() time.Time) *RoomService {
	return NewRoomServiceWithLogger(rooms, idGenerator, now, nil)
}

// NewRoomServiceWithLogger constructs a room service with a specified logger.
func NewRoomServiceWithLogger(rooms persistence.RoomRepository, idGenerator func() int64, now func() time.Time, logger *slog.Logger) *RoomService {
	if idGenerator == nil {
		idGenerator = func() int64 { return 0 }
	}
	if now == nil {
		now = time.Now
	}
	return &RoomService{rooms: rooms, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *RoomService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "RoomService", operation, attrs...)
}

// CreateRoom validates input and persists a new room.
func (s *RoomService) CreateRoom(ctx context.Context, input RoomInput) (room persistence.Room, err error) {
	if s == nil {
		err = fmt.Errorf("RoomService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateRoom")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create room", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("room_id", room.ID).InfoContext(ctx, "room created")
	}()

	vErr := validateRoomInput(input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	room = persistence.Room{
		ID:        s.idGenerator(),
		Name:      strings.TrimSpace(input.Name),
		Capacity:  input.Capacity,
		CreatedAt: s.now(),
	}
	room.UpdatedAt = room.CreatedAt

	if err = s.rooms.CreateRoom(ctx, room); err != nil {
		err = mapRoomRepoError(err)
		return
	}

	return
}

// UpdateRoom validates input and updates an existing room.
func (s *RoomService) UpdateRoom(ctx context.Context, roomID int64, input RoomInput) (room persistence.Room, err error) {
	if s == nil {
		err = fmt.Errorf("RoomService is nil")
		return
	}

	logger := s.loggerWith(ctx, "UpdateRoom", "room_id", roomID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update room", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "room updated")
	}()

	var existing persistence.Room
	existing, err = s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		err = mapRoomRepoError(err)
		return
	}

	vErr := validateRoomInput(input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	updated := existing
	updated.Name = strings.TrimSpace(input.Name)
	updated.Capacity = input.Capacity
	updated.UpdatedAt = s.now()

	if err = s.rooms.UpdateRoom(ctx, updated); err != nil {
		err = mapRoomRepoError(err)
		return
	}

	room = updated
	return
}

// GetRoom returns a single room by id.
func (s *RoomService) GetRoom(ctx context.Context, roomID int64) (persistence.Room, error) {
	if s == nil {
		return persistence.Room{}, fmt.Errorf("RoomService is nil")
	}

	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return persistence.Room{}, mapRoomRepoError(err)
	}
	return room, nil
}

// ListRooms returns the room catalog.
func (s *RoomService) ListRooms(ctx context.Context) ([]persistence.Room, error) {
	if s == nil {
		return nil, fmt.Errorf("RoomService is nil")
	}

	rooms, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return nil, mapRoomRepoError(err)
	}
	return rooms, nil
}

// FindCandidateRooms returns every room whose capacity is at least the given
// headcount, smallest adequate room first. An empty result means no room fits;
// it is not an error.
func (s *RoomService) FindCandidateRooms(ctx context.Context, minimumCapacity int) ([]persistence.Room, error) {
	if s == nil {
		return nil, fmt.Errorf("RoomService is nil")
	}

	rooms, err := s.rooms.ListRoomsWithCapacityAtLeast(ctx, minimumCapacity)
	if err != nil {
		return nil, mapRoomRepoError(err)
	}
	return rooms, nil
}

// DeleteRoom removes a room by id.
func (s *RoomService) DeleteRoom(ctx context.Context, roomID int64) error {
	if s == nil {
		return fmt.Errorf("RoomService is nil")
	}

	logger := s.loggerWith(ctx, "DeleteRoom", "room_id", roomID)

	if err := s.rooms.DeleteRoom(ctx, roomID); err != nil {
		err = mapRoomRepoError(err)
		logger.ErrorContext(ctx, "failed to delete room", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "room deleted")
	return nil
}

func validateRoomInput(input RoomInput) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if input.Capacity <= 0 {
		vErr.add("capacity", "capacity must be positive")
	}

	return vErr
}

func mapRoomRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrRoomNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	if errors.Is(err, persistence.ErrConstraintViolation) {
		vErr := &ValidationError{}
		vErr.add("capacity", "capacity must be positive")
		return vErr
	}
	return err
}
