package memstore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Freeeeeet/staff_scheduler/internal/apperrors"
	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/repository"
	"github.com/Freeeeeet/staff_scheduler/internal/repository/memstore"
	"github.com/Freeeeeet/staff_scheduler/internal/timerange"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedFrame(t *testing.T, store *memstore.Store) (*model.Frame, *model.Slot) {
	t.Helper()
	ctx := context.Background()

	d := timerange.MustParseDate("2025-10-24")
	frame := model.NewFrame(model.FrameParams{
		StaffID:         1,
		Date:            &d,
		Title:           "Consultation",
		StartTime:       timerange.MustParseClock("09:00"),
		EndTime:         timerange.MustParseClock("10:00"),
		DurationMinutes: 30,
	})
	require.NoError(t, store.Frames().Create(ctx, frame))

	slot := model.NewSlot(frame.ID, frame.Span())
	require.NoError(t, store.Slots().Create(ctx, slot))
	return frame, slot
}

func TestWithinTxRollsBack(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	frame, _ := seedFrame(t, store)

	boom := errors.New("boom")
	err := store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		frame.Title = "Renamed"
		require.NoError(t, tx.Frames().Update(ctx, frame))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := store.Frames().GetByID(ctx, frame.ID)
	require.NoError(t, err)
	assert.Equal(t, "Consultation", got.Title)
}

func TestWithinTxCommits(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	frame, _ := seedFrame(t, store)

	err := store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		frame.Title = "Renamed"
		return tx.Frames().Update(ctx, frame)
	})
	require.NoError(t, err)

	got, err := store.Frames().GetByID(ctx, frame.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
}

func TestActiveAppointmentPerSlot(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	_, slot := seedFrame(t, store)

	first := &model.Appointment{StaffID: 1, SlotID: slot.ID, VisitorName: "A", Status: model.AppointmentStatusPending}
	require.NoError(t, store.Appointments().Create(ctx, first))

	second := &model.Appointment{StaffID: 1, SlotID: slot.ID, VisitorName: "B", Status: model.AppointmentStatusPending}
	assert.ErrorIs(t, store.Appointments().Create(ctx, second), apperrors.ErrSlotUnavailable)

	first.Status = model.AppointmentStatusCancelled
	require.NoError(t, store.Appointments().Update(ctx, first))
	require.NoError(t, store.Appointments().Create(ctx, second))
}

func TestDeleteFrameCascades(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	frame, slot := seedFrame(t, store)

	a := &model.Appointment{StaffID: 1, SlotID: slot.ID, VisitorName: "A", Status: model.AppointmentStatusApproved}
	require.NoError(t, store.Appointments().Create(ctx, a))

	deleted, err := store.Frames().Delete(ctx, frame.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	gotSlot, err := store.Slots().GetByID(ctx, slot.ID)
	require.NoError(t, err)
	assert.Nil(t, gotSlot)

	gotAppointment, err := store.Appointments().GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, gotAppointment)
}

func TestDeleteUnbookedKeepsBoundSlots(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	frame, bound := seedFrame(t, store)

	free := model.NewSlot(frame.ID, frame.Span())
	require.NoError(t, store.Slots().Create(ctx, free))

	a := &model.Appointment{StaffID: 1, SlotID: bound.ID, Status: model.AppointmentStatusCancelled}
	require.NoError(t, store.Appointments().Create(ctx, a))

	removed, err := store.Slots().DeleteUnbookedByFrame(ctx, frame.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	left, err := store.Slots().ListByFrame(ctx, frame.ID)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, bound.ID, left[0].ID)
}
