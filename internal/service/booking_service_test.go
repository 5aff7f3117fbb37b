package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/apperrors"
	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slotStatus(t *testing.T, e *env, id int64) model.SlotStatus {
	t.Helper()
	slot, err := e.slots.GetSlot(context.Background(), id)
	require.NoError(t, err)
	return slot.Status
}

func TestBookAppointment(t *testing.T) {
	e := newEnv(t, 52)
	ctx := context.Background()

	frame, err := e.frames.CreateFrame(ctx, frameInput("2025-10-24", "09:00", "10:00", 30, 0))
	require.NoError(t, err)
	slot := frame.Slots[0]

	appointment, err := e.bookings.BookAppointment(ctx, bookingInput(slot.ID))
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusPending, appointment.Status)
	assert.Equal(t, frame.ID, appointment.Frame.ID)
	assert.Equal(t, model.SlotStatusBooked, slotStatus(t, e, slot.ID))

	_, err = e.bookings.BookAppointment(ctx, bookingInput(slot.ID))
	assert.ErrorIs(t, err, apperrors.ErrSlotUnavailable)

	in := bookingInput(frame.Slots[1].ID)
	in.StaffID = otherStaffID
	_, err = e.bookings.BookAppointment(ctx, in)
	assert.ErrorIs(t, err, apperrors.ErrStaffMismatch)
	assert.Equal(t, model.SlotStatusAvailable, slotStatus(t, e, frame.Slots[1].ID))

	_, err = e.bookings.BookAppointment(ctx, bookingInput(404))
	var nf *apperrors.NotFoundError
	assert.True(t, errors.As(err, &nf))

	in = bookingInput(frame.Slots[1].ID)
	in.Email = "not-an-email"
	_, err = e.bookings.BookAppointment(ctx, in)
	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "email", verr.Fields[0].Field)
}

func TestBookUnavailableSlot(t *testing.T) {
	e := newEnv(t, 52)
	ctx := context.Background()

	frame, err := e.frames.CreateFrame(ctx, frameInput("2025-10-24", "09:00", "10:00", 30, 0))
	require.NoError(t, err)
	_, err = e.slots.UpdateSlot(ctx, frame.Slots[0].ID, service.UpdateSlotInput{Status: ptr("unavailable")})
	require.NoError(t, err)

	_, err = e.bookings.BookAppointment(ctx, bookingInput(frame.Slots[0].ID))
	assert.ErrorIs(t, err, apperrors.ErrSlotUnavailable)
}

func TestCancelAndRebook(t *testing.T) {
	e := newEnv(t, 52)
	ctx := context.Background()

	frame, err := e.frames.CreateFrame(ctx, frameInput("2025-10-24", "09:00", "10:00", 30, 0))
	require.NoError(t, err)
	slot := frame.Slots[0]

	appointment, err := e.bookings.BookAppointment(ctx, bookingInput(slot.ID))
	require.NoError(t, err)

	cancelled, err := e.bookings.CancelAppointment(ctx, appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, cancelled.Status)
	assert.Equal(t, model.SlotStatusAvailable, slotStatus(t, e, slot.ID))

	// повторная отмена ничего не меняет
	_, err = e.bookings.CancelAppointment(ctx, appointment.ID)
	require.NoError(t, err)

	other, err := e.bookings.BookAppointment(ctx, bookingInput(slot.ID))
	require.NoError(t, err)

	// слот уже занят другой записью
	_, err = e.bookings.UpdateAppointment(ctx, appointment.ID, service.UpdateAppointmentInput{Status: ptr("approved")})
	assert.ErrorIs(t, err, apperrors.ErrSlotUnavailable)

	require.NoError(t, e.bookings.DeleteAppointment(ctx, appointment.ID))
	assert.Equal(t, model.SlotStatusBooked, slotStatus(t, e, slot.ID))

	approved, err := e.bookings.UpdateAppointment(ctx, other.ID, service.UpdateAppointmentInput{
		Status:  ptr("approved"),
		Purpose: ptr("Transfer"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusApproved, approved.Status)
	assert.Equal(t, "Transfer", approved.Purpose)

	require.NoError(t, e.bookings.DeleteAppointment(ctx, other.ID))
	assert.Equal(t, model.SlotStatusAvailable, slotStatus(t, e, slot.ID))

	err = e.bookings.DeleteAppointment(ctx, other.ID)
	var nf *apperrors.NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestUpdateAppointmentLeavesCancelled(t *testing.T) {
	e := newEnv(t, 52)
	ctx := context.Background()

	frame, err := e.frames.CreateFrame(ctx, frameInput("2025-10-24", "09:00", "10:00", 30, 0))
	require.NoError(t, err)
	slot := frame.Slots[0]

	appointment, err := e.bookings.BookAppointment(ctx, bookingInput(slot.ID))
	require.NoError(t, err)
	_, err = e.bookings.CancelAppointment(ctx, appointment.ID)
	require.NoError(t, err)

	restored, err := e.bookings.UpdateAppointment(ctx, appointment.ID, service.UpdateAppointmentInput{Status: ptr("pending")})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusPending, restored.Status)
	assert.Equal(t, model.SlotStatusBooked, slotStatus(t, e, slot.ID))
}

func TestListAppointmentsByStaff(t *testing.T) {
	e := newEnv(t, 52)
	ctx := context.Background()

	frame, err := e.frames.CreateFrame(ctx, frameInput("2025-10-24", "09:00", "10:00", 30, 0))
	require.NoError(t, err)
	for _, s := range frame.Slots {
		_, err := e.bookings.BookAppointment(ctx, bookingInput(s.ID))
		require.NoError(t, err)
	}

	list, err := e.bookings.ListAppointmentsByStaff(ctx, staffID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = e.bookings.ListAppointmentsByStaff(ctx, otherStaffID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListPublicAvailability(t *testing.T) {
	e := newEnv(t, 52)
	ctx := context.Background()

	later, err := e.frames.CreateFrame(ctx, frameInput("2025-10-25", "09:00", "10:00", 30, 0))
	require.NoError(t, err)
	afternoon, err := e.frames.CreateFrame(ctx, frameInput("2025-10-24", "14:00", "15:00", 30, 0))
	require.NoError(t, err)
	morning, err := e.frames.CreateFrame(ctx, frameInput("2025-10-24", "09:00", "10:00", 60, 0))
	require.NoError(t, err)

	private := frameInput("2025-10-24", "11:00", "12:00", 30, 0)
	private.Visibility = "private"
	_, err = e.frames.CreateFrame(ctx, private)
	require.NoError(t, err)

	inactive := frameInput("2025-10-24", "12:00", "13:00", 30, 0)
	inactive.Status = "inactive"
	_, err = e.frames.CreateFrame(ctx, inactive)
	require.NoError(t, err)

	_, err = e.frames.CreateFrame(ctx, frameInput("2025-10-17", "09:00", "10:00", 30, 0))
	require.NoError(t, err)

	_, err = e.bookings.BookAppointment(ctx, bookingInput(afternoon.Slots[0].ID))
	require.NoError(t, err)
	_, err = e.slots.UpdateSlot(ctx, later.Slots[1].ID, service.UpdateSlotInput{Status: ptr("unavailable")})
	require.NoError(t, err)

	availability, err := e.bookings.ListPublicAvailability(ctx, staffID, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "Dr. Lee", availability.Staff.Name)
	require.Len(t, availability.Days, 2)

	day := availability.Days[0]
	assert.Equal(t, "2025-10-24", day.Date)
	require.Len(t, day.Slots, 2)
	assert.Equal(t, morning.Slots[0].ID, day.Slots[0].ID)
	assert.Equal(t, "14:30:00", day.Slots[1].StartTime.String())

	day = availability.Days[1]
	assert.Equal(t, "2025-10-25", day.Date)
	require.Len(t, day.Slots, 1)
	assert.Equal(t, later.Slots[0].ID, day.Slots[0].ID)

	availability, err = e.bookings.ListPublicAvailability(ctx, staffID, date("2025-10-25"))
	require.NoError(t, err)
	assert.Len(t, availability.Days, 1)

	_, err = e.bookings.ListPublicAvailability(ctx, 404, time.Time{})
	var nf *apperrors.NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func publicInput(slotID int64) service.PublicBookingInput {
	in := bookingInput(slotID)
	return service.PublicBookingInput{
		StaffID:     in.StaffID,
		SlotID:      in.SlotID,
		VisitorName: in.VisitorName,
		PhoneNumber: in.PhoneNumber,
		Email:       in.Email,
		Purpose:     in.Purpose,
	}
}

func TestBookPublicAppointment(t *testing.T) {
	e := newEnv(t, 52)
	ctx := context.Background()

	// сегодняшнее окно ещё в публичной выдаче
	current, err := e.frames.CreateFrame(ctx, frameInput("2025-10-20", "09:00", "10:00", 30, 0))
	require.NoError(t, err)
	appointment, err := e.bookings.BookPublicAppointment(ctx, publicInput(current.Slots[0].ID))
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusPending, appointment.Status)
	assert.Equal(t, model.SlotStatusBooked, slotStatus(t, e, current.Slots[0].ID))

	past, err := e.frames.CreateFrame(ctx, frameInput("2025-10-19", "09:00", "10:00", 30, 0))
	require.NoError(t, err)
	private := frameInput("2025-10-21", "09:00", "10:00", 30, 0)
	private.Visibility = "private"
	hidden, err := e.frames.CreateFrame(ctx, private)
	require.NoError(t, err)
	inactive := frameInput("2025-10-22", "09:00", "10:00", 30, 0)
	inactive.Status = "inactive"
	paused, err := e.frames.CreateFrame(ctx, inactive)
	require.NoError(t, err)

	for _, frame := range []*model.Frame{past, hidden, paused} {
		_, err := e.bookings.BookPublicAppointment(ctx, publicInput(frame.Slots[0].ID))
		assert.ErrorIs(t, err, apperrors.ErrSlotUnavailable)
		assert.Equal(t, model.SlotStatusAvailable, slotStatus(t, e, frame.Slots[0].ID))
	}

	wrongStaff := publicInput(current.Slots[1].ID)
	wrongStaff.StaffID = otherStaffID
	_, err = e.bookings.BookPublicAppointment(ctx, wrongStaff)
	assert.ErrorIs(t, err, apperrors.ErrStaffMismatch)
}
