package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/meeting-scheduler/internal/testfixtures"
)

func newTeamService(t *testing.T) (*TeamService, *testfixtures.Store) {
	t.Helper()

	ctx := context.Background()
	store := testfixtures.NewStore()
	for id := int64(1); id <= 3; id++ {
		if err := store.CreateEmployee(ctx, testfixtures.NewEmployee(testfixtures.WithEmployeeID(id))); err != nil {
			t.Fatalf("seed employee %d: %v", id, err)
		}
	}

	clock := testfixtures.NewClock(time.Time{})
	ids := testfixtures.NewIDGenerator(100)
	return NewTeamService(store, store, ids.NextFunc(), clock.NowFunc()), store
}

func TestTeamService_CreateTeam(t *testing.T) {
	t.Parallel()
	service, store := newTeamService(t)
	ctx := context.Background()

	team, err := service.CreateTeam(ctx, TeamInput{Name: "Platform", MemberIDs: []int64{1, 2, 2}})
	if err != nil {
		t.Fatalf("CreateTeam failed: %v", err)
	}

	if team.Strength != 2 {
		t.Errorf("expected strength 2 after dedupe, got %d", team.Strength)
	}
	if team.IsCollaboration {
		t.Error("expected a permanent team")
	}

	persisted, err := store.GetTeam(ctx, team.ID)
	if err != nil {
		t.Fatalf("team not persisted: %v", err)
	}
	if len(persisted.MemberIDs) != 2 {
		t.Errorf("expected members [1 2], got %v", persisted.MemberIDs)
	}
}

func TestTeamService_CreateTeam_MissingName(t *testing.T) {
	t.Parallel()
	service, _ := newTeamService(t)

	_, err := service.CreateTeam(context.Background(), TeamInput{Name: "  "})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.FieldErrors["name"]; !ok {
		t.Errorf("expected a name field error, got %v", vErr.FieldErrors)
	}
}

func TestTeamService_CreateTeam_UnknownMember(t *testing.T) {
	t.Parallel()
	service, _ := newTeamService(t)

	_, err := service.CreateTeam(context.Background(), TeamInput{Name: "Platform", MemberIDs: []int64{99}})
	if !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestTeamService_AddEmployeeToTeam(t *testing.T) {
	t.Parallel()
	service, _ := newTeamService(t)
	ctx := context.Background()

	team, err := service.CreateTeam(ctx, TeamInput{Name: "Platform", MemberIDs: []int64{1}})
	if err != nil {
		t.Fatalf("CreateTeam failed: %v", err)
	}

	updated, err := service.AddEmployeeToTeam(ctx, team.ID, 2)
	if err != nil {
		t.Fatalf("AddEmployeeToTeam failed: %v", err)
	}
	if updated.Strength != 2 {
		t.Errorf("expected strength 2, got %d", updated.Strength)
	}

	_, err = service.AddEmployeeToTeam(ctx, team.ID, 2)
	if !errors.Is(err, ErrAlreadyInTeam) {
		t.Fatalf("expected ErrAlreadyInTeam, got %v", err)
	}
}

func TestTeamService_AddEmployeeToTeam_UnknownTeam(t *testing.T) {
	t.Parallel()
	service, _ := newTeamService(t)

	_, err := service.AddEmployeeToTeam(context.Background(), 999, 1)
	if !errors.Is(err, ErrTeamNotFound) {
		t.Fatalf("expected ErrTeamNotFound, got %v", err)
	}
}

func TestTeamService_AddEmployeeToTeam_UnknownEmployee(t *testing.T) {
	t.Parallel()
	service, _ := newTeamService(t)
	ctx := context.Background()

	team, err := service.CreateTeam(ctx, TeamInput{Name: "Platform"})
	if err != nil {
		t.Fatalf("CreateTeam failed: %v", err)
	}

	_, err = service.AddEmployeeToTeam(ctx, team.ID, 999)
	if !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestTeamService_UpdateTeam(t *testing.T) {
	t.Parallel()
	service, _ := newTeamService(t)
	ctx := context.Background()

	team, err := service.CreateTeam(ctx, TeamInput{Name: "Platform", MemberIDs: []int64{1, 2}})
	if err != nil {
		t.Fatalf("CreateTeam failed: %v", err)
	}

	updated, err := service.UpdateTeam(ctx, team.ID, TeamInput{Name: "Platform Core", MemberIDs: []int64{3}})
	if err != nil {
		t.Fatalf("UpdateTeam failed: %v", err)
	}
	if updated.Name != "Platform Core" || updated.Strength != 1 {
		t.Errorf("unexpected team after update: %#v", updated)
	}
}

func TestTeamService_DeleteTeam_NotFound(t *testing.T) {
	t.Parallel()
	service, _ := newTeamService(t)

	err := service.DeleteTeam(context.Background(), 999)
	if !errors.Is(err, ErrTeamNotFound) {
		t.Fatalf("expected ErrTeamNotFound, got %v", err)
	}
}
