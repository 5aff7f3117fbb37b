package service_test

import (
	"testing"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/repository/memstore"
	"github.com/Freeeeeet/staff_scheduler/internal/service"
	"github.com/Freeeeeet/staff_scheduler/internal/timerange"
	"github.com/Freeeeeet/staff_scheduler/internal/validation"
	"go.uber.org/zap/zaptest"
)

const (
	staffID      int64 = 1
	otherStaffID int64 = 2
)

// today понедельник, все даты в тестах относительно него
var today = time.Date(2025, 10, 20, 8, 0, 0, 0, time.UTC)

type env struct {
	store    *memstore.Store
	frames   *service.FrameService
	slots    *service.SlotService
	bookings *service.BookingService
}

func newEnv(t *testing.T, weeks int) *env {
	t.Helper()

	store := memstore.New()
	store.AddStaff(&model.Staff{ID: staffID, Name: "Dr. Lee", Department: "Admissions"})
	store.AddStaff(&model.Staff{ID: otherStaffID, Name: "Ms. Tan"})

	logger := zaptest.NewLogger(t)
	v := validation.New()
	opts := service.Options{
		RecurrenceWeeks: weeks,
		MinSlotDuration: 5,
		Now:             func() time.Time { return today },
	}

	return &env{
		store:    store,
		frames:   service.NewFrameService(store, v, opts, logger),
		slots:    service.NewSlotService(store, v, logger),
		bookings: service.NewBookingService(store, v, opts, logger),
	}
}

func frameInput(date, start, end string, duration, interval int) service.CreateFrameInput {
	return service.CreateFrameInput{
		StaffID:   staffID,
		Date:      date,
		Title:     "Office hours",
		StartTime: start,
		EndTime:   end,
		Duration:  duration,
		Interval:  interval,
	}
}

func bookingInput(slotID int64) service.BookAppointmentInput {
	return service.BookAppointmentInput{
		StaffID:     staffID,
		SlotID:      slotID,
		VisitorName: "Alice",
		PhoneNumber: "+6012345678",
		Email:       "alice@example.com",
		Purpose:     "Enrollment",
	}
}

func spans(slots []*model.Slot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.StartTime.Short()+"-"+s.EndTime.Short())
	}
	return out
}

func date(s string) time.Time {
	return timerange.MustParseDate(s)
}

func ptr[T any](v T) *T {
	return &v
}
