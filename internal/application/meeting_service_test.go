package application

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/example/meeting-scheduler/internal/persistence"
	"github.com/example/meeting-scheduler/internal/testfixtures"
)

// bookingHarness wires a meeting service to an in-memory store seeded with
// the baseline fixture set: employees 1..4, permanent team 10 = {1, 2},
// permanent team 20 = {3}, room 100 (capacity 5) and room 101 (capacity 1).
type bookingHarness struct {
	service *MeetingService
	store   *testfixtures.Store
	clock   *testfixtures.Clock
}

func newBookingHarness(t *testing.T) *bookingHarness {
	t.Helper()

	ctx := context.Background()
	store := testfixtures.NewStore()

	for id := int64(1); id <= 4; id++ {
		employee := testfixtures.NewEmployee(testfixtures.WithEmployeeID(id))
		if err := store.CreateEmployee(ctx, employee); err != nil {
			t.Fatalf("seed employee %d: %v", id, err)
		}
	}

	teamOne := testfixtures.NewTeam(testfixtures.WithTeamID(10), testfixtures.WithTeamMembers(1, 2))
	if err := store.CreateTeam(ctx, teamOne); err != nil {
		t.Fatalf("seed team 10: %v", err)
	}
	teamTwo := testfixtures.NewTeam(testfixtures.WithTeamID(20), testfixtures.WithTeamMembers(3))
	if err := store.CreateTeam(ctx, teamTwo); err != nil {
		t.Fatalf("seed team 20: %v", err)
	}

	bigRoom := testfixtures.NewRoom(testfixtures.WithRoomID(100), testfixtures.WithRoomCapacity(5))
	if err := store.CreateRoom(ctx, bigRoom); err != nil {
		t.Fatalf("seed room 100: %v", err)
	}
	smallRoom := testfixtures.NewRoom(testfixtures.WithRoomID(101), testfixtures.WithRoomCapacity(1))
	if err := store.CreateRoom(ctx, smallRoom); err != nil {
		t.Fatalf("seed room 101: %v", err)
	}

	clock := testfixtures.NewClock(time.Time{})
	ids := testfixtures.NewIDGenerator(5000)

	service := NewMeetingService(store, store, store, store, ids.NextFunc(), clock.NowFunc())

	return &bookingHarness{service: service, store: store, clock: clock}
}

// at returns a clock-relative instant on the fixture reference day.
func at(hour, minute int) time.Time {
	return time.Date(2025, time.June, 2, hour, minute, 0, 0, time.UTC)
}

func roomID(id int64) *int64 {
	return &id
}

func teamMeetingInput(roomID *int64, start, end time.Time) MeetingInput {
	return MeetingInput{
		Name:        "Sprint Planning",
		Description: "Plan the next sprint",
		Start:       start,
		End:         end,
		RoomID:      roomID,
		OrganiserID: 1,
	}
}

func mustBookTeamMeeting(t *testing.T, h *bookingHarness, teamID int64, input MeetingInput) persistence.Meeting {
	t.Helper()

	result, err := h.service.CreateTeamMeeting(context.Background(), CreateTeamMeetingParams{TeamID: teamID, Input: input})
	if err != nil {
		t.Fatalf("CreateTeamMeeting failed: %v", err)
	}
	if result.RoomChoiceRequired() {
		t.Fatal("expected a committed meeting, got a room choice prompt")
	}
	return *result.Meeting
}

func TestCreateTeamMeeting_Success(t *testing.T) {
	t.Parallel()
	h := newBookingHarness(t)

	result, err := h.service.CreateTeamMeeting(context.Background(), CreateTeamMeetingParams{
		TeamID: 10,
		Input:  teamMeetingInput(roomID(100), at(10, 0), at(11, 0)),
	})
	if err != nil {
		t.Fatalf("CreateTeamMeeting failed: %v", err)
	}

	if result.RoomChoiceRequired() {
		t.Fatal("expected a committed meeting")
	}
	if result.Meeting.ActiveStrength != 2 {
		t.Errorf("expected active strength 2, got %d", result.Meeting.ActiveStrength)
	}
	if result.HasDeclined() {
		t.Errorf("expected no declined invitees, got %v", result.DeclinedEmployeeIDs)
	}
	if result.Meeting.RoomID == nil || *result.Meeting.RoomID != 100 {
		t.Errorf("expected room 100, got %v", result.Meeting.RoomID)
	}

	persisted, err := h.store.GetMeeting(context.Background(), result.Meeting.ID)
	if err != nil {
		t.Fatalf("meeting not persisted: %v", err)
	}
	if !persisted.ActiveStatus {
		t.Error("expected persisted meeting to be active")
	}
}

func TestCreateTeamMeeting_RoomBusy(t *testing.T) {
	t.Parallel()
	h := newBookingHarness(t)

	mustBookTeamMeeting(t, h, 10, teamMeetingInput(roomID(100), at(10, 0), at(11, 0)))

	_, err := h.service.CreateTeamMeeting(context.Background(), CreateTeamMeetingParams{
		TeamID: 20,
		Input:  teamMeetingInput(roomID(100), at(10, 30), at(11, 30)),
	})
	if !errors.Is(err, ErrRoomBusy) {
		t.Fatalf("expected ErrRoomBusy, got %v", err)
	}
}

func TestCreateTeamMeeting_BackToBackWindowsDoNotConflict(t *testing.T) {
	t.Parallel()
	h := newBookingHarness(t)

	mustBookTeamMeeting(t, h, 10, teamMeetingInput(roomID(100), at(10, 0), at(11, 0)))

	// A meeting ending exactly when the next one starts does not overlap.
	result, err := h.service.CreateTeamMeeting(context.Background(), CreateTeamMeetingParams{
		TeamID: 20,
		Input:  teamMeetingInput(roomID(100), at(11, 0), at(12, 0)),
	})
	if err != nil {
		t.Fatalf("CreateTeamMeeting failed: %v", err)
	}
	if result.RoomChoiceRequired() {
		t.Fatal("expected a committed meeting")
	}
}

func TestCreateTeamMeeting_RoomChoicePrompt(t *testing.T) {
	t.Parallel()
	h := newBookingHarness(t)

	result, err := h.service.CreateTeamMeeting(context.Background(), CreateTeamMeetingParams{
		TeamID: 10,
		Input:  teamMeetingInput(nil, at(10, 0), at(11, 0)),
	})
	if err != nil {
		t.Fatalf("CreateTeamMeeting failed: %v", err)
	}

	if !result.RoomChoiceRequired() {
		t.Fatal("expected a room choice prompt")
	}
	// Team strength is 2, so only the big room qualifies.
	if len(result.CandidateRooms) != 1 || result.CandidateRooms[0].ID != 100 {
		t.Errorf("expected candidate rooms [100], got %v", result.CandidateRooms)
	}

	meetings, err := h.store.ListMeetings(context.Background(), persistence.MeetingFilter{})
	if err != nil {
		t.Fatalf("ListMeetings failed: %v", err)
	}
	if len(meetings) != 0 {
		t.Errorf("expected no meeting persisted, got %d", len(meetings))
	}
}

func TestCreateTeamMeeting_RoomNotFound(t *testing.T) {
	t.Parallel()
	h := newBookingHarness(t)

	_, err := h.service.CreateTeamMeeting(context.Background(), CreateTeamMeetingParams{
		TeamID: 10,
		Input:  teamMeetingInput(roomID(999), at(10, 0), at(11, 0)),
	})
	if !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestCreateTeamMeeting_RoomCapacityInsufficient(t *testing.T) {
	t.Parallel()
	h := newBookingHarness(t)

	_, err := h.service.CreateTeamMeeting(context.Background(), CreateTeamMeetingParams{
		TeamID: 10,
		Input:  teamMeetingInput(roomID(101), at(10, 0), at(11, 0)),
	})
	if !errors.Is(err, ErrRoomCapacityInsufficient) {
		t.Fatalf("expected ErrRoomCapacityInsufficient, got %v", err)
	}
}

func TestCreateTeamMeeting_InvalidWindow(t *testing.T) {
	t.Parallel()
	h := newBookingHarness(t)

	// Reference clock reads 09:00; a window in the past must be rejected.
	_, err := h.service.CreateTeamMeeting(context.Background(), CreateTeamMeetingParams{
		TeamID: 10,
		Input:  teamMeetingInput(roomID(100), at(7, 0), at(8, 0)),
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.FieldErrors["start"]; !ok {
		t.Errorf("expected a start field error, got %v", vErr.FieldErrors)
	}
}

func TestCreateTeamMeeting_OrganiserNotFound(t *testing.T) {
	t.Parallel()
	h := newBookingHarness(t)

	input := teamMeetingInput(roomID(100), at(10, 0), at(11, 0))
	input.OrganiserID = 999

	_, err := h.service.CreateTeamMeeting(context.Background(), CreateTeamMeetingParams{TeamID: 10, Input: input})
	if !errors.Is(err, ErrOrganiserNotFound) {
		t.Fatalf("expected ErrOrganiserNotFound, got %v", err)
	}
}

func TestCreateTeamMeeting_CollaborationTeamNotBookable(t *testing.T) {
	t.Parallel()
	h := newBookingHarness(t)
	ctx := context.Background()

	collab := testfixtures.NewTeam(
		testfixtures.WithTeamID(30),
		testfixtures.WithTeamMembers(1),
		testfixtures.AsCollaboration(),
	)
	if err := h.store.CreateTeam(ctx, collab); err != nil {
		t.Fatalf("seed collaboration team: %v", err)
	}

	_, err := h.service.CreateTeamMeeting(ctx, CreateTeamMeetingParams{
		TeamID: 30,
		Input:  teamMeetingInput(roomID(100), at(10, 0), at(11, 0)),
	})
	if !errors.Is(err, ErrCollaborationTeamNotBookable) {
		t.Fatalf("expected ErrCollaborationTeamNotBookable, got %v", err)
	}
}

func TestCreateCollaborationMeeting_NoCollaborators(t *testing.T) {
	t.Parallel()
	h := newBookingHarness(t)

	_, err := h.service.CreateCollaborationMeeting(context.Background(), CreateCollaborationMeetingParams{
		CollaboratorIDs: nil,
		Input:           teamMeetingInput(roomID(100), at(10, 0), at(11, 0)),
	})
	if !errors.Is(err, ErrNoCollaboratorsSpecified) {
		t.Fatalf("expected ErrNoCollaboratorsSpecified, got %v", err)
	}
}

func TestCreateCollaborationMeeting_DeclinedInviteeStillCommits(t *testing.T) {
	t.Parallel()
	h := newBookingHarness(t)
	ctx := context.Background()

	// Employee 3 is busy through team 20 for [10:00, 11:00).
	mustBookTeamMeeting(t, h, 20, teamMeetingInput(roomID(101), at(10, 0), at(11, 0)))

	result, err := h.service.CreateCollaborationMeeting(ctx, CreateCollaborationMeetingParams{
		CollaboratorIDs: []int64{3, 4},
		Input:           teamMeetingInput(roomID(100), at(10, 30), at(11, 30)),
	})
	if err != nil {
		t.Fatalf("CreateCollaborationMeeting failed: %v", err)
	}

	if result.RoomChoiceRequired() {
		t.Fatal("expected a committed meeting")
	}
	if len(result.DeclinedEmployeeIDs) != 1 || result.DeclinedEmployeeIDs[0] != 3 {
		t.Errorf("expected declined invitees [3], got %v", result.DeclinedEmployeeIDs)
	}
	if result.Meeting.ActiveStrength != 1 {
		t.Errorf("expected active strength 1, got %d", result.Meeting.ActiveStrength)
	}

	team, err := h.store.GetTeam(ctx, result.Meeting.TeamID)
	if err != nil {
		t.Fatalf("collaboration team not persisted: %v", err)
	}
	if !team.IsCollaboration {
		t.Error("expected the synthesized team to be a collaboration team")
	}
}

func TestCreateCollaborationMeeting_RollsBackTeamOnFailure(t *testing.T) {
	t.Parallel()
	h := newBookingHarness(t)
	ctx := context.Background()

	before, err := h.store.ListTeams(ctx)
	if err != nil {
		t.Fatalf("ListTeams failed: %v", err)
	}

	_, err = h.service.CreateCollaborationMeeting(ctx, CreateCollaborationMeetingParams{
		CollaboratorIDs: []int64{3, 4},
		Input:           teamMeetingInput(roomID(999), at(10, 0), at(11, 0)),
	})
	if !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}

	after, err := h.store.ListTeams(ctx)
	if err != nil {
		t.Fatalf("ListTeams failed: %v", err)
	}
	if len(after) != len(before) {
		t.Errorf("expected the ad-hoc team rolled back, team count went %d -> %d", len(before), len(after))
	}
}

func TestCreateCollaborationMeeting_RoomChoiceRollsBackTeam(t *testing.T) {
	t.Parallel()
	h := newBookingHarness(t)
	ctx := context.Background()

	before, err := h.store.ListTeams(ctx)
	if err != nil {
		t.Fatalf("ListTeams failed: %v", err)
	}

	result, err := h.service.CreateCollaborationMeeting(ctx, CreateCollaborationMeetingParams{
		CollaboratorIDs: []int64{3, 4},
		Input:           teamMeetingInput(nil, at(10, 0), at(11, 0)),
	})
	if err != nil {
		t.Fatalf("CreateCollaborationMeeting failed: %v", err)
	}
	if !result.RoomChoiceRequired() {
		t.Fatal("expected a room choice prompt")
	}

	after, err := h.store.ListTeams(ctx)
	if err != nil {
		t.Fatalf("ListTeams failed: %v", err)
	}
	if len(after) != len(before) {
		t.Errorf("expected no lingering ad-hoc team, team count went %d -> %d", len(before), len(after))
	}
}

func TestAddEmployeeToMeeting_EmployeeBusyThroughOtherTeam(t *testing.T) {
	t.Parallel()
	h := newBookingHarness(t)
	ctx := context.Background()

	// Team 10 (with employee 1) holds [10:00, 11:00).
	mustBookTeamMeeting(t, h, 10, teamMeetingInput(roomID(100), at(10, 0), at(11, 0)))

	// An unrelated ad-hoc meeting overlaps that window.
	result, err := h.service.CreateCollaborationMeeting(ctx, CreateCollaborationMeetingParams{
		CollaboratorIDs: []int64{4},
		Input:           teamMeetingInput(roomID(101), at(10, 15), at(10, 45)),
	})
	if err != nil {
		t.Fatalf("CreateCollaborationMeeting failed: %v", err)
	}

	_, err = h.service.AddEmployeeToMeeting(ctx, result.Meeting.ID, 1)
	if !errors.Is(err, ErrEmployeeBusy) {
		t.Fatalf("expected ErrEmployeeBusy, got %v", err)
	}
}

func TestAddEmployeeToMeeting_AlreadyAttending(t *testing.T) {
	t.Parallel()
	h := newBookingHarness(t)

	meeting := mustBookTeamMeeting(t, h, 10, teamMeetingInput(roomID(100), at(10, 0), at(11, 0)))

	_, err := h.service.AddEmployeeToMeeting(context.Background(), meeting.ID, 1)
	if !errors.Is(err, ErrAlreadyAttending) {
		t.Fatalf("expected ErrAlreadyAttending, got %v", err)
	}
}

func TestRemoveEmployeeFromMeeting_NotAttending(t *testing.T) {
	t.Parallel()
	h := newBookingHarness(t)

	meeting := mustBookTeamMeeting(t, h, 10, teamMeetingInput(roomID(100), at(10, 0), at(11, 0)))

	_, err := h.service.RemoveEmployeeFromMeeting(context.Background(), meeting.ID, 4)
	if !errors.Is(err, ErrNotAttending) {
		t.Fatalf("expected ErrNotAttending, got %v", err)
	}
}

func TestRemoveEmployeeFromMeeting_ForksPermanentTeam(t *testing.T) {
	t.Parallel()
	h := newBookingHarness(t)
	ctx := context.Background()

	meeting := mustBookTeamMeeting(t, h, 10, teamMeetingInput(roomID(100), at(10, 0), at(11, 0)))

	updated, err := h.service.RemoveEmployeeFromMeeting(ctx, meeting.ID, 1)
	if err != nil {
		t.Fatalf("RemoveEmployeeFromMeeting failed: %v", err)
	}

	if updated.TeamID == 10 {
		t.Fatal("expected the meeting rebound to a forked team")
	}
	if updated.ActiveStrength != 1 {
		t.Errorf("expected active strength 1, got %d", updated.ActiveStrength)
	}

	fork, err := h.store.GetTeam(ctx, updated.TeamID)
	if err != nil {
		t.Fatalf("forked team not persisted: %v", err)
	}
	if !fork.IsCollaboration {
		t.Error("expected the forked team to be a collaboration team")
	}
	if len(fork.MemberIDs) != 1 || fork.MemberIDs[0] != 2 {
		t.Errorf("expected fork members [2], got %v", fork.MemberIDs)
	}
	if !strings.HasSuffix(fork.Name, " - Collaboration team") {
		t.Errorf("unexpected fork name %q", fork.Name)
	}

	// The permanent team keeps serving every other booking untouched.
	original, err := h.store.GetTeam(ctx, 10)
	if err != nil {
		t.Fatalf("GetTeam failed: %v", err)
	}
	if original.Strength != 2 || len(original.MemberIDs) != 2 {
		t.Errorf("permanent team mutated: strength %d, members %v", original.Strength, original.MemberIDs)
	}
	if original.IsCollaboration {
		t.Error("permanent team flagged as collaboration")
	}
}

func TestAddEmployeeToMeeting_MutatesCollaborationTeamInPlace(t *testing.T) {
	t.Parallel()
	h := newBookingHarness(t)
	ctx := context.Background()

	result, err := h.service.CreateCollaborationMeeting(ctx, CreateCollaborationMeetingParams{
		CollaboratorIDs: []int64{3},
		Input:           teamMeetingInput(roomID(101), at(10, 0), at(11, 0)),
	})
	if err != nil {
		t.Fatalf("CreateCollaborationMeeting failed: %v", err)
	}
	boundTeamID := result.Meeting.TeamID

	updated, err := h.service.AddEmployeeToMeeting(ctx, result.Meeting.ID, 4)
	if err != nil {
		t.Fatalf("AddEmployeeToMeeting failed: %v", err)
	}

	if updated.TeamID != boundTeamID {
		t.Errorf("expected the collaboration team mutated in place, rebound %d -> %d", boundTeamID, updated.TeamID)
	}
	if updated.ActiveStrength != 2 {
		t.Errorf("expected active strength 2, got %d", updated.ActiveStrength)
	}

	team, err := h.store.GetTeam(ctx, boundTeamID)
	if err != nil {
		t.Fatalf("GetTeam failed: %v", err)
	}
	if len(team.MemberIDs) != 2 {
		t.Errorf("expected 2 members, got %v", team.MemberIDs)
	}
}

func TestRemoveEmployeeFromMeeting_DropsDeclinedEntry(t *testing.T) {
	t.Parallel()
	h := newBookingHarness(t)
	ctx := context.Background()

	// Employee 3 is busy through team 20, so the ad-hoc booking records them
	// as declined.
	mustBookTeamMeeting(t, h, 20, teamMeetingInput(roomID(101), at(10, 0), at(11, 0)))

	result, err := h.service.CreateCollaborationMeeting(ctx, CreateCollaborationMeetingParams{
		CollaboratorIDs: []int64{3, 4},
		Input:           teamMeetingInput(roomID(100), at(10, 30), at(11, 30)),
	})
	if err != nil {
		t.Fatalf("CreateCollaborationMeeting failed: %v", err)
	}

	updated, err := h.service.RemoveEmployeeFromMeeting(ctx, result.Meeting.ID, 3)
	if err != nil {
		t.Fatalf("RemoveEmployeeFromMeeting failed: %v", err)
	}

	if len(updated.DeclinedInviteeIDs) != 0 {
		t.Errorf("expected declined entry dropped with the member, got %v", updated.DeclinedInviteeIDs)
	}
	if updated.ActiveStrength != 1 {
		t.Errorf("expected active strength 1, got %d", updated.ActiveStrength)
	}
}

func TestRescheduleMeeting_RoomBusyForNewWindow(t *testing.T) {
	t.Parallel()
	h := newBookingHarness(t)
	ctx := context.Background()

	mustBookTeamMeeting(t, h, 10, teamMeetingInput(roomID(100), at(10, 0), at(11, 0)))

	second := mustBookTeamMeeting(t, h, 20, teamMeetingInput(roomID(100), at(12, 0), at(13, 0)))

	newStart := at(10, 30)
	newEnd := at(11, 30)
	_, err := h.service.RescheduleMeeting(ctx, RescheduleMeetingParams{
		MeetingID: second.ID,
		Start:     &newStart,
		End:       &newEnd,
	})
	if !errors.Is(err, ErrRoomBusy) {
		t.Fatalf("expected ErrRoomBusy, got %v", err)
	}
}

func TestRescheduleMeeting_ShiftWithinOwnWindow(t *testing.T) {
	t.Parallel()
	h := newBookingHarness(t)
	ctx := context.Background()

	meeting := mustBookTeamMeeting(t, h, 10, teamMeetingInput(roomID(100), at(10, 0), at(11, 0)))

	// Overlapping its own previous slot must not count as a conflict.
	newStart := at(10, 30)
	newEnd := at(11, 30)
	updated, err := h.service.RescheduleMeeting(ctx, RescheduleMeetingParams{
		MeetingID: meeting.ID,
		Start:     &newStart,
		End:       &newEnd,
	})
	if err != nil {
		t.Fatalf("RescheduleMeeting failed: %v", err)
	}
	if !updated.Start.Equal(newStart) || !updated.End.Equal(newEnd) {
		t.Errorf("window not updated: [%v, %v)", updated.Start, updated.End)
	}
}

func TestRescheduleMeeting_RenameOnly(t *testing.T) {
	t.Parallel()
	h := newBookingHarness(t)
	ctx := context.Background()

	meeting := mustBookTeamMeeting(t, h, 10, teamMeetingInput(roomID(100), at(10, 0), at(11, 0)))

	name := "Retro"
	updated, err := h.service.RescheduleMeeting(ctx, RescheduleMeetingParams{MeetingID: meeting.ID, Name: &name})
	if err != nil {
		t.Fatalf("RescheduleMeeting failed: %v", err)
	}
	if updated.Name != "Retro" {
		t.Errorf("expected name 'Retro', got %q", updated.Name)
	}
	if !updated.Start.Equal(meeting.Start) {
		t.Errorf("window changed on rename: %v", updated.Start)
	}
}

func TestCancelMeeting_NoticeTooShort(t *testing.T) {
	t.Parallel()
	h := newBookingHarness(t)
	ctx := context.Background()

	meeting := mustBookTeamMeeting(t, h, 10, teamMeetingInput(roomID(100), at(10, 0), at(11, 0)))

	// 09:45 is fifteen minutes before start; the rule requires thirty.
	h.clock.Set(at(9, 45))

	err := h.service.CancelMeeting(ctx, meeting.ID)
	if !errors.Is(err, ErrCancellationNotice) {
		t.Fatalf("expected ErrCancellationNotice, got %v", err)
	}
}

func TestCancelMeeting_DeletesMeetingAndCollaborationTeam(t *testing.T) {
	t.Parallel()
	h := newBookingHarness(t)
	ctx := context.Background()

	result, err := h.service.CreateCollaborationMeeting(ctx, CreateCollaborationMeetingParams{
		CollaboratorIDs: []int64{3, 4},
		Input:           teamMeetingInput(roomID(100), at(10, 0), at(11, 0)),
	})
	if err != nil {
		t.Fatalf("CreateCollaborationMeeting failed: %v", err)
	}

	if err := h.service.CancelMeeting(ctx, result.Meeting.ID); err != nil {
		t.Fatalf("CancelMeeting failed: %v", err)
	}

	if _, err := h.store.GetMeeting(ctx, result.Meeting.ID); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected meeting deleted, got %v", err)
	}
	if _, err := h.store.GetTeam(ctx, result.Meeting.TeamID); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected collaboration team deleted, got %v", err)
	}
}

func TestCancelMeeting_KeepsPermanentTeam(t *testing.T) {
	t.Parallel()
	h := newBookingHarness(t)
	ctx := context.Background()

	meeting := mustBookTeamMeeting(t, h, 10, teamMeetingInput(roomID(100), at(10, 0), at(11, 0)))

	if err := h.service.CancelMeeting(ctx, meeting.ID); err != nil {
		t.Fatalf("CancelMeeting failed: %v", err)
	}

	if _, err := h.store.GetTeam(ctx, 10); err != nil {
		t.Fatalf("permanent team must survive cancellation: %v", err)
	}
}

func TestNonAvailableTeamMembers_Idempotent(t *testing.T) {
	t.Parallel()
	h := newBookingHarness(t)
	ctx := context.Background()

	mustBookTeamMeeting(t, h, 10, teamMeetingInput(roomID(100), at(10, 0), at(11, 0)))

	// Team 10's members are both busy for the overlapping window.
	first, err := h.service.NonAvailableTeamMembers(ctx, 10, at(10, 30), at(11, 30))
	if err != nil {
		t.Fatalf("NonAvailableTeamMembers failed: %v", err)
	}
	second, err := h.service.NonAvailableTeamMembers(ctx, 10, at(10, 30), at(11, 30))
	if err != nil {
		t.Fatalf("NonAvailableTeamMembers failed: %v", err)
	}

	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected both members busy, got %v then %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("expected identical results, got %v then %v", first, second)
		}
	}
}

func TestGetMeeting_NotFound(t *testing.T) {
	t.Parallel()
	h := newBookingHarness(t)

	_, err := h.service.GetMeeting(context.Background(), 9999)
	if !errors.Is(err, ErrMeetingNotFound) {
		t.Fatalf("expected ErrMeetingNotFound, got %v", err)
	}
}
