package service

import (
	"context"
	"strconv"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/apperrors"
	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/overlap"
	"github.com/Freeeeeet/staff_scheduler/internal/recurrence"
	"github.com/Freeeeeet/staff_scheduler/internal/repository"
	"github.com/Freeeeeet/staff_scheduler/internal/timerange"
	"github.com/Freeeeeet/staff_scheduler/internal/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FrameService управляет жизненным циклом окон: создание, обновление, сдвиг и удаление
// вместе с их слотами и экземплярами серий. Каждая операция выполняется в одной транзакции.
type FrameService struct {
	uow       repository.UnitOfWork
	validator *validation.Validator
	expander  *recurrence.Expander
	opts      Options
	logger    *zap.Logger
}

func NewFrameService(
	uow repository.UnitOfWork,
	validator *validation.Validator,
	opts Options,
	logger *zap.Logger,
) *FrameService {
	opts = opts.withDefaults()
	return &FrameService{
		uow:       uow,
		validator: validator,
		expander:  recurrence.NewExpander(opts.RecurrenceWeeks),
		opts:      opts,
		logger:    logger,
	}
}

// checkFrame проверяет согласованность полей окна после разбора
func (s *FrameService) checkFrame(ve *apperrors.ValidationError, f *model.Frame) {
	if _, err := timerange.New(f.StartTime, f.EndTime); err != nil {
		ve.Add("end_time", "must be after start_time")
	}
	if f.DurationMinutes < s.opts.MinSlotDuration {
		ve.Add("duration", "must be at least "+strconv.Itoa(s.opts.MinSlotDuration))
	}
	if f.IntervalMinutes < 0 {
		ve.Add("interval", "must be greater than or equal to 0")
	}
	if !f.IsRecurring && f.Date == nil {
		ve.Add("date", "is required when is_recurring is false")
	}
}

// checkOverlap проверяет пересечения с окнами сотрудника на ту же дату.
// Окна без даты не проверяются.
func checkOverlap(ctx context.Context, tx repository.Store, staffID int64, date *time.Time, span timerange.Range, exclude int64) error {
	if date == nil {
		return nil
	}
	existing, err := tx.Frames().ListByStaffAndDate(ctx, staffID, *date)
	if err != nil {
		return err
	}
	return overlap.Check("frame", span, existing, exclude)
}

func lockStaff(ctx context.Context, tx repository.Store, staffID int64) error {
	staff, err := tx.Staff().Lock(ctx, staffID)
	if err != nil {
		return err
	}
	if staff == nil {
		return apperrors.NotFound("staff", staffID)
	}
	return nil
}

// expandSeries создаёт экземпляры серии и их слоты
func (s *FrameService) expandSeries(ctx context.Context, tx repository.Store, origin *model.Frame) (int, error) {
	anchor := recurrence.Anchor(origin, s.opts.Now())
	instances := s.expander.Expand(origin, *origin.RepeatGroupID, anchor)
	if err := tx.Frames().CreateBatch(ctx, instances); err != nil {
		return 0, err
	}

	var slots []*model.Slot
	for _, inst := range instances {
		slots = append(slots, plannedSlots(inst)...)
	}
	if _, err := tx.Slots().CreateBatch(ctx, slots); err != nil {
		return 0, err
	}
	return len(instances), nil
}

// CreateFrame создаёт окно, его слоты и, для повторяющегося окна, экземпляры на горизонт серии
func (s *FrameService) CreateFrame(ctx context.Context, in CreateFrameInput) (*model.Frame, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	ve := &apperrors.ValidationError{}
	params := model.FrameParams{
		StaffID:         in.StaffID,
		Title:           in.Title,
		Day:             in.Day,
		StartTime:       parseClock(ve, "start_time", in.StartTime),
		EndTime:         parseClock(ve, "end_time", in.EndTime),
		DurationMinutes: in.Duration,
		IntervalMinutes: in.Interval,
		IsRecurring:     in.IsRecurring,
		Status:          model.FrameStatus(in.Status),
		Visibility:      model.Visibility(in.Visibility),
	}
	if in.Date != "" {
		params.Date = parseDate(ve, "date", in.Date)
	}
	frame := model.NewFrame(params)
	s.checkFrame(ve, frame)
	if err := ve.OrNil(); err != nil {
		return nil, err
	}

	var instances int
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		if err := lockStaff(ctx, tx, frame.StaffID); err != nil {
			return err
		}
		if err := checkOverlap(ctx, tx, frame.StaffID, frame.Date, frame.Span(), 0); err != nil {
			return err
		}

		if err := tx.Frames().Create(ctx, frame); err != nil {
			return err
		}
		if _, err := tx.Slots().CreateBatch(ctx, plannedSlots(frame)); err != nil {
			return err
		}

		if frame.IsRecurring {
			n, err := s.expandSeries(ctx, tx, frame)
			if err != nil {
				return err
			}
			instances = n
		}

		slots, err := tx.Slots().ListByFrame(ctx, frame.ID)
		if err != nil {
			return err
		}
		frame.Slots = slots
		return nil
	})
	if err != nil {
		return nil, fail(s.logger, "create frame", err,
			zap.Int64("staff_id", in.StaffID),
			zap.Any("input", in),
		)
	}

	s.logger.Info("Frame created",
		zap.Int64("frame_id", frame.ID),
		zap.Int64("staff_id", frame.StaffID),
		zap.Bool("is_recurring", frame.IsRecurring),
		zap.Int("slot_count", len(frame.Slots)),
		zap.Int("instances", instances),
	)

	return frame, nil
}

// applyFramePatch переносит заданные поля в копию окна
func applyFramePatch(ve *apperrors.ValidationError, f *model.Frame, in UpdateFrameInput) {
	if in.Date != nil {
		f.SetDate(parseDate(ve, "date", *in.Date))
	}
	if in.Title != nil {
		f.Title = *in.Title
	}
	if in.Day != nil && f.Date == nil {
		f.Day = *in.Day
	}
	if in.StartTime != nil {
		f.StartTime = parseClock(ve, "start_time", *in.StartTime)
	}
	if in.EndTime != nil {
		f.EndTime = parseClock(ve, "end_time", *in.EndTime)
	}
	if in.Duration != nil {
		f.DurationMinutes = *in.Duration
	}
	if in.Interval != nil {
		f.IntervalMinutes = *in.Interval
	}
	if in.IsRecurring != nil {
		f.IsRecurring = *in.IsRecurring
	}
	if in.Status != nil {
		f.Status = model.FrameStatus(*in.Status)
	}
	if in.Visibility != nil {
		f.Visibility = model.Visibility(*in.Visibility)
	}
}

// timeFieldsChanged изменились ли поля, от которых зависит нарезка слотов
func timeFieldsChanged(before, after *model.Frame) bool {
	if before.StartTime != after.StartTime ||
		before.EndTime != after.EndTime ||
		before.DurationMinutes != after.DurationMinutes ||
		before.IntervalMinutes != after.IntervalMinutes {
		return true
	}
	switch {
	case before.Date == nil && after.Date == nil:
		return false
	case before.Date == nil || after.Date == nil:
		return true
	default:
		return !before.Date.Equal(*after.Date)
	}
}

// UpdateFrame частично обновляет окно. Смена is_recurring продвигает окно в серию
// или выводит его из серии, изменение времени пересоздаёт свободные слоты.
func (s *FrameService) UpdateFrame(ctx context.Context, id int64, in UpdateFrameInput) (*model.Frame, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	var (
		updated *model.Frame
		change  recurrence.Change
	)
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		current, err := tx.Frames().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return apperrors.NotFound("frame", id)
		}
		if err := lockStaff(ctx, tx, current.StaffID); err != nil {
			return err
		}

		ve := &apperrors.ValidationError{}
		next := current.Clone()
		applyFramePatch(ve, next, in)
		s.checkFrame(ve, next)
		if err := ve.OrNil(); err != nil {
			return err
		}

		regenerate := timeFieldsChanged(current, next)
		if regenerate {
			if err := checkOverlap(ctx, tx, next.StaffID, next.Date, next.Span(), next.ID); err != nil {
				return err
			}
		}

		change = recurrence.Classify(current.IsRecurring, next.IsRecurring)
		switch change {
		case recurrence.Promote:
			groupID := uuid.New()
			next.RepeatGroupID = &groupID
		case recurrence.Demote:
			if current.RepeatGroupID != nil {
				pivot := recurrence.Anchor(current, s.opts.Now())
				if _, err := tx.Frames().DeleteGroupAfter(ctx, *current.RepeatGroupID, pivot, current.ID); err != nil {
					return err
				}
				if _, err := tx.Frames().DetachGroup(ctx, *current.RepeatGroupID); err != nil {
					return err
				}
			}
			next.Detach()
		case recurrence.KeepRecurring, recurrence.KeepStandalone:
		}

		if err := tx.Frames().Update(ctx, next); err != nil {
			return err
		}

		if change == recurrence.Promote {
			if _, err := s.expandSeries(ctx, tx, next); err != nil {
				return err
			}
		}

		if regenerate {
			if _, err := tx.Slots().DeleteUnbookedByFrame(ctx, next.ID); err != nil {
				return err
			}
			if _, err := tx.Slots().CreateBatch(ctx, plannedSlots(next)); err != nil {
				return err
			}
		}

		slots, err := tx.Slots().ListByFrame(ctx, next.ID)
		if err != nil {
			return err
		}
		next.Slots = slots
		updated = next
		return nil
	})
	if err != nil {
		return nil, fail(s.logger, "update frame", err,
			zap.Int64("frame_id", id),
			zap.Any("input", in),
		)
	}

	s.logger.Info("Frame updated",
		zap.Int64("frame_id", id),
		zap.Stringer("recurrence", change),
		zap.Int("slot_count", len(updated.Slots)),
	)

	return updated, nil
}

// MoveFrame сдвигает окно и все его слоты на deltaMinutes, при необходимости переносит на другую дату.
// Слоты не пересоздаются, записи остаются привязанными.
func (s *FrameService) MoveFrame(ctx context.Context, id int64, in MoveFrameInput) (*model.Frame, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	var moved *model.Frame
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		frame, err := tx.Frames().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if frame == nil {
			return apperrors.NotFound("frame", id)
		}
		if err := lockStaff(ctx, tx, frame.StaffID); err != nil {
			return err
		}

		span, err := frame.Span().Shift(in.DeltaMinutes)
		if err != nil {
			return apperrors.Invalid("delta_minutes", err.Error())
		}

		target := frame.Date
		if in.NewDate != nil {
			ve := &apperrors.ValidationError{}
			target = parseDate(ve, "new_date", *in.NewDate)
			if err := ve.OrNil(); err != nil {
				return err
			}
		}

		if err := checkOverlap(ctx, tx, frame.StaffID, target, span, frame.ID); err != nil {
			return err
		}

		frame.StartTime, frame.EndTime = span.Start, span.End
		if in.NewDate != nil {
			frame.SetDate(target)
		}
		if err := tx.Frames().Update(ctx, frame); err != nil {
			return err
		}

		slots, err := tx.Slots().ListByFrame(ctx, frame.ID)
		if err != nil {
			return err
		}
		for _, slot := range slots {
			shifted, err := slot.Span().Shift(in.DeltaMinutes)
			if err != nil {
				return apperrors.Invalid("delta_minutes", err.Error())
			}
			slot.StartTime, slot.EndTime = shifted.Start, shifted.End
		}
		if err := tx.Slots().UpdateBatch(ctx, slots); err != nil {
			return err
		}

		frame.Slots = slots
		moved = frame
		return nil
	})
	if err != nil {
		return nil, fail(s.logger, "move frame", err,
			zap.Int64("frame_id", id),
			zap.Any("input", in),
		)
	}

	s.logger.Info("Frame moved",
		zap.Int64("frame_id", id),
		zap.Int("delta_minutes", in.DeltaMinutes),
		zap.Int("slot_count", len(moved.Slots)),
	)

	return moved, nil
}

// DeleteFrame удаляет окно вместе со слотами и записями
func (s *FrameService) DeleteFrame(ctx context.Context, id int64) error {
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		deleted, err := tx.Frames().Delete(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return apperrors.NotFound("frame", id)
		}
		return nil
	})
	if err != nil {
		return fail(s.logger, "delete frame", err, zap.Int64("frame_id", id))
	}

	s.logger.Info("Frame deleted", zap.Int64("frame_id", id))
	return nil
}

// DeleteFramesByRepeatGroup удаляет все окна серии и возвращает их количество
func (s *FrameService) DeleteFramesByRepeatGroup(ctx context.Context, groupID uuid.UUID) (int64, error) {
	var count int64
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		n, err := tx.Frames().DeleteByRepeatGroup(ctx, groupID)
		count = n
		return err
	})
	if err != nil {
		return 0, fail(s.logger, "delete frames by repeat group", err, zap.Stringer("repeat_group_id", groupID))
	}

	s.logger.Info("Repeat group deleted",
		zap.Stringer("repeat_group_id", groupID),
		zap.Int64("count", count),
	)
	return count, nil
}

// GetFrame окно со слотами
func (s *FrameService) GetFrame(ctx context.Context, id int64) (*model.Frame, error) {
	frame, err := s.uow.Frames().GetByID(ctx, id)
	if err != nil {
		return nil, fail(s.logger, "get frame", err, zap.Int64("frame_id", id))
	}
	if frame == nil {
		return nil, apperrors.NotFound("frame", id)
	}

	slots, err := s.uow.Slots().ListByFrame(ctx, id)
	if err != nil {
		return nil, fail(s.logger, "list frame slots", err, zap.Int64("frame_id", id))
	}
	frame.Slots = slots
	return frame, nil
}

// ListFramesByStaff окна сотрудника без слотов
func (s *FrameService) ListFramesByStaff(ctx context.Context, staffID int64) ([]*model.Frame, error) {
	staff, err := s.uow.Staff().GetByID(ctx, staffID)
	if err != nil {
		return nil, fail(s.logger, "get staff", err, zap.Int64("staff_id", staffID))
	}
	if staff == nil {
		return nil, apperrors.NotFound("staff", staffID)
	}

	frames, err := s.uow.Frames().ListByStaff(ctx, staffID)
	if err != nil {
		return nil, fail(s.logger, "list frames by staff", err, zap.Int64("staff_id", staffID))
	}
	return frames, nil
}
