package service

import (
	"context"
	"slices"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/apperrors"
	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/repository"
	"github.com/Freeeeeet/staff_scheduler/internal/slotstate"
	"github.com/Freeeeeet/staff_scheduler/internal/timerange"
	"github.com/Freeeeeet/staff_scheduler/internal/validation"
	"go.uber.org/zap"
)

// BookingService записи посетителей и публичная выдача свободных слотов.
// Статус слота меняется только вместе с записью.
type BookingService struct {
	uow       repository.UnitOfWork
	validator *validation.Validator
	now       func() time.Time
	logger    *zap.Logger
}

func NewBookingService(
	uow repository.UnitOfWork,
	validator *validation.Validator,
	opts Options,
	logger *zap.Logger,
) *BookingService {
	opts = opts.withDefaults()
	return &BookingService{
		uow:       uow,
		validator: validator,
		now:       opts.Now,
		logger:    logger,
	}
}

// setSlotStatus применяет событие к слоту и сохраняет новый статус
func setSlotStatus(ctx context.Context, tx repository.Store, slot *model.Slot, ev slotstate.Event) error {
	status, err := slotstate.Transition(slot.Status, ev)
	if err != nil {
		return err
	}
	if err := tx.Slots().UpdateStatus(ctx, slot.ID, status); err != nil {
		return err
	}
	slot.Status = status
	return nil
}

func getSlot(ctx context.Context, tx repository.Store, id int64) (*model.Slot, error) {
	slot, err := tx.Slots().LockByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, apperrors.NotFound("slot", id)
	}
	return slot, nil
}

// BookAppointment записывает посетителя на свободный слот сотрудника
func (s *BookingService) BookAppointment(ctx context.Context, in BookAppointmentInput) (*model.Appointment, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}
	return s.book(ctx, in, nil)
}

// BookPublicAppointment запись из публичной выдачи: только слоты активных публичных окон
// начиная с сегодняшней даты, статус всегда pending
func (s *BookingService) BookPublicAppointment(ctx context.Context, in PublicBookingInput) (*model.Appointment, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	today := timerange.DateOf(s.now())
	return s.book(ctx, BookAppointmentInput{
		StaffID:     in.StaffID,
		SlotID:      in.SlotID,
		VisitorName: in.VisitorName,
		StudentName: in.StudentName,
		PhoneNumber: in.PhoneNumber,
		Email:       in.Email,
		Purpose:     in.Purpose,
	}, func(frame *model.Frame) bool {
		return publiclyBookable(frame, today)
	})
}

// publiclyBookable окно попадает в публичную выдачу на дату today
func publiclyBookable(frame *model.Frame, today time.Time) bool {
	return frame.IsActive() && frame.IsPublic() && frame.Date != nil && !frame.Date.Before(today)
}

// book общая часть записи. bookable, если задан, дополнительно ограничивает окна слота.
func (s *BookingService) book(ctx context.Context, in BookAppointmentInput, bookable func(*model.Frame) bool) (*model.Appointment, error) {
	appointment := &model.Appointment{
		StaffID:     in.StaffID,
		SlotID:      in.SlotID,
		VisitorName: in.VisitorName,
		StudentName: in.StudentName,
		PhoneNumber: in.PhoneNumber,
		Email:       in.Email,
		Purpose:     in.Purpose,
		Status:      model.AppointmentStatusPending,
	}
	if in.Status != "" {
		appointment.Status = model.AppointmentStatus(in.Status)
	}

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		slot, err := getSlot(ctx, tx, in.SlotID)
		if err != nil {
			return err
		}
		if !slot.IsAvailable() {
			return apperrors.ErrSlotUnavailable
		}

		frame, err := tx.Frames().GetByID(ctx, slot.FrameID)
		if err != nil {
			return err
		}
		if frame == nil {
			return apperrors.NotFound("frame", slot.FrameID)
		}
		if frame.StaffID != in.StaffID {
			return apperrors.ErrStaffMismatch
		}
		if bookable != nil && !bookable(frame) {
			return apperrors.ErrSlotUnavailable
		}

		if err := tx.Appointments().Create(ctx, appointment); err != nil {
			return err
		}
		if err := setSlotStatus(ctx, tx, slot, slotstate.Book); err != nil {
			return err
		}

		appointment.Slot = slot
		appointment.Frame = frame
		return nil
	})
	if err != nil {
		return nil, fail(s.logger, "book appointment", err,
			zap.Int64("slot_id", in.SlotID),
			zap.Int64("staff_id", in.StaffID),
		)
	}

	s.logger.Info("Appointment booked",
		zap.Int64("appointment_id", appointment.ID),
		zap.Int64("slot_id", appointment.SlotID),
		zap.Int64("staff_id", appointment.StaffID),
		zap.String("status", string(appointment.Status)),
		zap.Bool("public", bookable != nil),
	)

	return appointment, nil
}

// CancelAppointment отменяет запись и освобождает слот. Повторная отмена ничего не меняет.
func (s *BookingService) CancelAppointment(ctx context.Context, id int64) (*model.Appointment, error) {
	status := string(model.AppointmentStatusCancelled)
	return s.UpdateAppointment(ctx, id, UpdateAppointmentInput{Status: &status})
}

// DeleteAppointment удаляет запись. Слот освобождается, если запись его занимала.
func (s *BookingService) DeleteAppointment(ctx context.Context, id int64) error {
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		appointment, err := tx.Appointments().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if appointment == nil {
			return apperrors.NotFound("appointment", id)
		}

		slot, err := getSlot(ctx, tx, appointment.SlotID)
		if err != nil {
			return err
		}
		if err := tx.Appointments().Delete(ctx, id); err != nil {
			return err
		}
		if appointment.Status.HoldsSlot() {
			return setSlotStatus(ctx, tx, slot, slotstate.Release)
		}
		return nil
	})
	if err != nil {
		return fail(s.logger, "delete appointment", err, zap.Int64("appointment_id", id))
	}

	s.logger.Info("Appointment deleted", zap.Int64("appointment_id", id))
	return nil
}

// UpdateAppointment меняет данные посетителя и статус.
// Переход в cancelled освобождает слот, выход из cancelled снова занимает его.
func (s *BookingService) UpdateAppointment(ctx context.Context, id int64, in UpdateAppointmentInput) (*model.Appointment, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	var updated *model.Appointment
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		appointment, err := tx.Appointments().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if appointment == nil {
			return apperrors.NotFound("appointment", id)
		}

		held := appointment.Status.HoldsSlot()
		if in.VisitorName != nil {
			appointment.VisitorName = *in.VisitorName
		}
		if in.StudentName != nil {
			appointment.StudentName = in.StudentName
		}
		if in.PhoneNumber != nil {
			appointment.PhoneNumber = *in.PhoneNumber
		}
		if in.Email != nil {
			appointment.Email = *in.Email
		}
		if in.Purpose != nil {
			appointment.Purpose = *in.Purpose
		}
		if in.Status != nil {
			appointment.Status = model.AppointmentStatus(*in.Status)
		}
		holds := appointment.Status.HoldsSlot()

		slot, err := getSlot(ctx, tx, appointment.SlotID)
		if err != nil {
			return err
		}

		switch {
		case held && !holds:
			if err := setSlotStatus(ctx, tx, slot, slotstate.Release); err != nil {
				return err
			}
		case !held && holds:
			if err := setSlotStatus(ctx, tx, slot, slotstate.Book); err != nil {
				return err
			}
		}

		if err := tx.Appointments().Update(ctx, appointment); err != nil {
			return err
		}

		appointment.Slot = slot
		updated = appointment
		return nil
	})
	if err != nil {
		return nil, fail(s.logger, "update appointment", err,
			zap.Int64("appointment_id", id),
			zap.Any("input", in),
		)
	}

	s.logger.Info("Appointment updated",
		zap.Int64("appointment_id", id),
		zap.String("status", string(updated.Status)),
	)

	return updated, nil
}

// GetAppointment запись вместе со слотом и окном
func (s *BookingService) GetAppointment(ctx context.Context, id int64) (*model.Appointment, error) {
	appointment, err := s.uow.Appointments().GetByID(ctx, id)
	if err != nil {
		return nil, fail(s.logger, "get appointment", err, zap.Int64("appointment_id", id))
	}
	if appointment == nil {
		return nil, apperrors.NotFound("appointment", id)
	}

	slot, err := s.uow.Slots().GetByID(ctx, appointment.SlotID)
	if err != nil {
		return nil, fail(s.logger, "get appointment slot", err, zap.Int64("appointment_id", id))
	}
	appointment.Slot = slot

	if slot != nil {
		frame, err := s.uow.Frames().GetByID(ctx, slot.FrameID)
		if err != nil {
			return nil, fail(s.logger, "get appointment frame", err, zap.Int64("appointment_id", id))
		}
		appointment.Frame = frame
	}

	return appointment, nil
}

func (s *BookingService) ListAppointmentsByStaff(ctx context.Context, staffID int64) ([]*model.Appointment, error) {
	appointments, err := s.uow.Appointments().ListByStaff(ctx, staffID)
	if err != nil {
		return nil, fail(s.logger, "list appointments by staff", err, zap.Int64("staff_id", staffID))
	}
	return appointments, nil
}

// ListPublicAvailability свободные слоты активных публичных окон сотрудника начиная с from,
// сгруппированные по дате. Нулевой from означает сегодня.
func (s *BookingService) ListPublicAvailability(ctx context.Context, staffID int64, from time.Time) (*model.StaffAvailability, error) {
	if from.IsZero() {
		from = s.now()
	}
	from = timerange.DateOf(from)

	staff, err := s.uow.Staff().GetByID(ctx, staffID)
	if err != nil {
		return nil, fail(s.logger, "get staff", err, zap.Int64("staff_id", staffID))
	}
	if staff == nil {
		return nil, apperrors.NotFound("staff", staffID)
	}

	frames, err := s.uow.Frames().ListPublicByStaff(ctx, staffID, from)
	if err != nil {
		return nil, fail(s.logger, "list public frames", err, zap.Int64("staff_id", staffID))
	}

	ids := make([]int64, 0, len(frames))
	byID := make(map[int64]*model.Frame, len(frames))
	for _, f := range frames {
		ids = append(ids, f.ID)
		byID[f.ID] = f
	}

	slots, err := s.uow.Slots().ListByFrames(ctx, ids)
	if err != nil {
		return nil, fail(s.logger, "list public slots", err, zap.Int64("staff_id", staffID))
	}

	type dated struct {
		date time.Time
		slot model.PublicSlot
	}
	var open []dated
	for _, slot := range slots {
		frame := byID[slot.FrameID]
		if frame == nil || frame.Date == nil || !slot.IsAvailable() {
			continue
		}
		open = append(open, dated{
			date: *frame.Date,
			slot: model.PublicSlot{
				ID:         slot.ID,
				StartTime:  slot.StartTime,
				EndTime:    slot.EndTime,
				FrameID:    frame.ID,
				FrameTitle: frame.Title,
			},
		})
	}

	slices.SortStableFunc(open, func(a, b dated) int {
		if c := a.date.Compare(b.date); c != 0 {
			return c
		}
		return int(a.slot.StartTime - b.slot.StartTime)
	})

	result := &model.StaffAvailability{Staff: staff, Days: []model.DayAvailability{}}
	for _, o := range open {
		date := timerange.FormatDate(o.date)
		if n := len(result.Days); n == 0 || result.Days[n-1].Date != date {
			result.Days = append(result.Days, model.DayAvailability{Date: date})
		}
		last := &result.Days[len(result.Days)-1]
		last.Slots = append(last.Slots, o.slot)
	}

	return result, nil
}
