package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/souchan25/attendance-go-api/internal/dto"
)

func newEventServiceFixture() (*memoryEventRepo, EventService) {
	events := newMemoryEventRepo()
	return events, NewEventService(events, testValidator(), testLogger())
}

func TestCreateEventNormalizesBoundaries(t *testing.T) {
	_, svc := newEventServiceFixture()

	created, err := svc.Create(context.Background(), dto.EventCreateRequest{
		Name:         "Orientation",
		EventDate:    "2026-03-10",
		CheckInStart: "8:00 AM",
		CheckInEnd:   "o9:00",
	})
	require.NoError(t, err)
	require.Equal(t, "08:00", *created.CheckInStart)
	require.Equal(t, "09:00", *created.CheckInEnd)
	require.Nil(t, created.CheckOutStart)
	require.Nil(t, created.CheckOutEnd)
	require.True(t, created.IsActive)
}

func TestCreateEventRejectsBadBoundary(t *testing.T) {
	_, svc := newEventServiceFixture()

	_, err := svc.Create(context.Background(), dto.EventCreateRequest{
		Name:         "Orientation",
		EventDate:    "2026-03-10",
		CheckInStart: "when doors open",
	})
	require.Error(t, err)
}

func TestCreateEventRejectsBadDate(t *testing.T) {
	_, svc := newEventServiceFixture()

	_, err := svc.Create(context.Background(), dto.EventCreateRequest{
		Name:      "Orientation",
		EventDate: "10/03/2026",
	})
	require.Error(t, err)
}

func TestUpdateEventClearsBoundaryWithEmptyString(t *testing.T) {
	_, svc := newEventServiceFixture()

	created, err := svc.Create(context.Background(), dto.EventCreateRequest{
		Name:         "Orientation",
		EventDate:    "2026-03-10",
		CheckInStart: "08:00",
	})
	require.NoError(t, err)

	empty := ""
	updated, err := svc.Update(context.Background(), created.ID, dto.EventUpdateRequest{
		CheckInStart: &empty,
	})
	require.NoError(t, err)
	require.Nil(t, updated.CheckInStart)
}

func TestDeleteEventSoftDeletes(t *testing.T) {
	events, svc := newEventServiceFixture()

	created, err := svc.Create(context.Background(), dto.EventCreateRequest{
		Name:      "Orientation",
		EventDate: "2026-03-10",
	})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), created.ID))

	stored, err := events.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.True(t, stored.IsDeleted)
	require.False(t, stored.IsActive)

	visible, err := svc.List(context.Background(), false)
	require.NoError(t, err)
	require.Empty(t, visible)

	all, err := svc.List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestDeleteMissingEventFails(t *testing.T) {
	_, svc := newEventServiceFixture()

	err := svc.Delete(context.Background(), 404)
	require.ErrorIs(t, err, ErrEventNotFound)
}

func TestCreateEventSanitizesName(t *testing.T) {
	_, svc := newEventServiceFixture()

	created, err := svc.Create(context.Background(), dto.EventCreateRequest{
		Name:      "Orientation <script>alert(1)</script>",
		EventDate: "2026-03-10",
	})
	require.NoError(t, err)
	require.NotContains(t, created.Name, "<script>")
}
