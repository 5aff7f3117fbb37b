package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Freeeeeet/staff_scheduler/internal/apperrors"
	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emptyFrame(t *testing.T, e *env) *model.Frame {
	t.Helper()
	// длительность больше окна, слоты не нарезаются
	frame, err := e.frames.CreateFrame(context.Background(), frameInput("2025-10-24", "09:00", "10:00", 90, 0))
	require.NoError(t, err)
	require.Empty(t, frame.Slots)
	return frame
}

func TestCreateSlot(t *testing.T) {
	e := newEnv(t, 52)
	ctx := context.Background()
	frame := emptyFrame(t, e)

	slot, err := e.slots.CreateSlot(ctx, service.CreateSlotInput{FrameID: frame.ID, StartTime: "09:00", EndTime: "09:20"})
	require.NoError(t, err)
	assert.Equal(t, model.SlotStatusAvailable, slot.Status)

	_, err = e.slots.CreateSlot(ctx, service.CreateSlotInput{FrameID: frame.ID, StartTime: "09:20", EndTime: "09:40"})
	require.NoError(t, err)

	_, err = e.slots.CreateSlot(ctx, service.CreateSlotInput{FrameID: frame.ID, StartTime: "09:10", EndTime: "09:30"})
	var conflict *apperrors.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t,
		"Slot overlaps with existing slots: 09:00:00 - 09:20:00, 09:20:00 - 09:40:00",
		err.Error())

	_, err = e.slots.CreateSlot(ctx, service.CreateSlotInput{FrameID: frame.ID, StartTime: "09:40", EndTime: "09:40"})
	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr))

	_, err = e.slots.CreateSlot(ctx, service.CreateSlotInput{FrameID: 404, StartTime: "09:40", EndTime: "09:50"})
	var nf *apperrors.NotFoundError
	require.True(t, errors.As(err, &nf))
}

func TestUpdateSlot(t *testing.T) {
	e := newEnv(t, 52)
	ctx := context.Background()
	frame := emptyFrame(t, e)

	first, err := e.slots.CreateSlot(ctx, service.CreateSlotInput{FrameID: frame.ID, StartTime: "09:00", EndTime: "09:20"})
	require.NoError(t, err)
	second, err := e.slots.CreateSlot(ctx, service.CreateSlotInput{FrameID: frame.ID, StartTime: "09:30", EndTime: "09:50"})
	require.NoError(t, err)

	// собственный интервал не считается пересечением
	updated, err := e.slots.UpdateSlot(ctx, first.ID, service.UpdateSlotInput{EndTime: ptr("09:30")})
	require.NoError(t, err)
	assert.Equal(t, "09:30:00", updated.EndTime.String())

	_, err = e.slots.UpdateSlot(ctx, first.ID, service.UpdateSlotInput{EndTime: ptr("09:40")})
	var conflict *apperrors.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, second.ID, conflict.Conflicts[0].ID)

	updated, err = e.slots.UpdateSlot(ctx, first.ID, service.UpdateSlotInput{Status: ptr("unavailable")})
	require.NoError(t, err)
	assert.Equal(t, model.SlotStatusUnavailable, updated.Status)

	_, err = e.slots.UpdateSlot(ctx, first.ID, service.UpdateSlotInput{Status: ptr("booked")})
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	_, err = e.bookings.BookAppointment(ctx, bookingInput(second.ID))
	require.NoError(t, err)
	_, err = e.slots.UpdateSlot(ctx, second.ID, service.UpdateSlotInput{Status: ptr("available")})
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestDeleteSlot(t *testing.T) {
	e := newEnv(t, 52)
	ctx := context.Background()

	frame, err := e.frames.CreateFrame(ctx, frameInput("2025-10-24", "09:00", "10:00", 30, 0))
	require.NoError(t, err)
	free, bound := frame.Slots[0], frame.Slots[1]

	appointment, err := e.bookings.BookAppointment(ctx, bookingInput(bound.ID))
	require.NoError(t, err)
	_, err = e.bookings.CancelAppointment(ctx, appointment.ID)
	require.NoError(t, err)

	// отменённая запись всё равно блокирует удаление
	ok, err := e.slots.DeleteSlot(ctx, bound.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = e.slots.DeleteSlot(ctx, free.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	slots, err := e.slots.ListSlotsByFrame(ctx, frame.ID)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, bound.ID, slots[0].ID)

	_, err = e.slots.DeleteSlot(ctx, free.ID)
	var nf *apperrors.NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestSlotMustStayInsideFrame(t *testing.T) {
	e := newEnv(t, 52)
	ctx := context.Background()
	frame := emptyFrame(t, e)

	_, err := e.slots.CreateSlot(ctx, service.CreateSlotInput{FrameID: frame.ID, StartTime: "09:50", EndTime: "10:10"})
	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "must be within the frame range 09:00:00 - 10:00:00", verr.Fields[0].Message)

	_, err = e.slots.CreateSlot(ctx, service.CreateSlotInput{FrameID: frame.ID, StartTime: "08:30", EndTime: "09:00"})
	require.True(t, errors.As(err, &verr))

	// граница окна допустима
	slot, err := e.slots.CreateSlot(ctx, service.CreateSlotInput{FrameID: frame.ID, StartTime: "09:40", EndTime: "10:00"})
	require.NoError(t, err)

	_, err = e.slots.UpdateSlot(ctx, slot.ID, service.UpdateSlotInput{EndTime: ptr("10:05")})
	require.True(t, errors.As(err, &verr))

	unchanged, err := e.slots.GetSlot(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, "10:00:00", unchanged.EndTime.String())
}
