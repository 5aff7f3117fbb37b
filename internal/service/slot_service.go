package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/staff_scheduler/internal/apperrors"
	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/overlap"
	"github.com/Freeeeeet/staff_scheduler/internal/repository"
	"github.com/Freeeeeet/staff_scheduler/internal/slotstate"
	"github.com/Freeeeeet/staff_scheduler/internal/timerange"
	"github.com/Freeeeeet/staff_scheduler/internal/validation"
	"go.uber.org/zap"
)

// SlotService ручное управление слотами окна
type SlotService struct {
	uow       repository.UnitOfWork
	validator *validation.Validator
	logger    *zap.Logger
}

func NewSlotService(uow repository.UnitOfWork, validator *validation.Validator, logger *zap.Logger) *SlotService {
	return &SlotService{
		uow:       uow,
		validator: validator,
		logger:    logger,
	}
}

// lockFrame загружает окно и блокирует его сотрудника
func lockFrame(ctx context.Context, tx repository.Store, frameID int64) (*model.Frame, error) {
	frame, err := tx.Frames().GetByID(ctx, frameID)
	if err != nil {
		return nil, err
	}
	if frame == nil {
		return nil, apperrors.NotFound("frame", frameID)
	}
	if err := lockStaff(ctx, tx, frame.StaffID); err != nil {
		return nil, err
	}
	return frame, nil
}

// checkWithinFrame слот не выходит за границы своего окна
func checkWithinFrame(frame *model.Frame, span timerange.Range) error {
	if !frame.Span().Contains(span) {
		return apperrors.Invalid("start_time", fmt.Sprintf("must be within the frame range %s", frame.Span()))
	}
	return nil
}

// CreateSlot добавляет слот в окно, если он не пересекается с другими слотами окна
func (s *SlotService) CreateSlot(ctx context.Context, in CreateSlotInput) (*model.Slot, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	ve := &apperrors.ValidationError{}
	start := parseClock(ve, "start_time", in.StartTime)
	end := parseClock(ve, "end_time", in.EndTime)
	if err := ve.OrNil(); err != nil {
		return nil, err
	}
	span, err := timerange.New(start, end)
	if err != nil {
		return nil, apperrors.Invalid("end_time", "must be after start_time")
	}

	slot := model.NewSlot(in.FrameID, span)
	if in.Status != "" {
		slot.Status = model.SlotStatus(in.Status)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		frame, err := lockFrame(ctx, tx, in.FrameID)
		if err != nil {
			return err
		}
		if err := checkWithinFrame(frame, span); err != nil {
			return err
		}

		existing, err := tx.Slots().ListByFrame(ctx, in.FrameID)
		if err != nil {
			return err
		}
		if err := overlap.Check("slot", span, existing, 0); err != nil {
			return err
		}

		return tx.Slots().Create(ctx, slot)
	})
	if err != nil {
		return nil, fail(s.logger, "create slot", err,
			zap.Int64("frame_id", in.FrameID),
			zap.Any("input", in),
		)
	}

	s.logger.Info("Slot created",
		zap.Int64("slot_id", slot.ID),
		zap.Int64("frame_id", slot.FrameID),
	)

	return slot, nil
}

// UpdateSlot меняет время и статус слота. Статус booked вручную не ставится и не снимается.
func (s *SlotService) UpdateSlot(ctx context.Context, id int64, in UpdateSlotInput) (*model.Slot, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	var updated *model.Slot
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		slot, err := tx.Slots().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if slot == nil {
			return apperrors.NotFound("slot", id)
		}
		frame, err := lockFrame(ctx, tx, slot.FrameID)
		if err != nil {
			return err
		}

		ve := &apperrors.ValidationError{}
		next := *slot
		if in.StartTime != nil {
			next.StartTime = parseClock(ve, "start_time", *in.StartTime)
		}
		if in.EndTime != nil {
			next.EndTime = parseClock(ve, "end_time", *in.EndTime)
		}
		if err := ve.OrNil(); err != nil {
			return err
		}
		if err := next.Span().Validate(); err != nil {
			return apperrors.Invalid("end_time", "must be after start_time")
		}

		if next.Span() != slot.Span() {
			if err := checkWithinFrame(frame, next.Span()); err != nil {
				return err
			}
			existing, err := tx.Slots().ListByFrame(ctx, slot.FrameID)
			if err != nil {
				return err
			}
			if err := overlap.Check("slot", next.Span(), existing, slot.ID); err != nil {
				return err
			}
		}

		if in.Status != nil {
			status, err := slotstate.Manual(slot.Status, model.SlotStatus(*in.Status))
			if err != nil {
				return err
			}
			next.Status = status
		}

		if err := tx.Slots().Update(ctx, &next); err != nil {
			return err
		}
		updated = &next
		return nil
	})
	if err != nil {
		return nil, fail(s.logger, "update slot", err,
			zap.Int64("slot_id", id),
			zap.Any("input", in),
		)
	}

	s.logger.Info("Slot updated",
		zap.Int64("slot_id", id),
		zap.String("status", string(updated.Status)),
	)

	return updated, nil
}

// DeleteSlot удаляет слот. Возвращает false, если на слот есть хоть одна запись,
// в том числе отменённая.
func (s *SlotService) DeleteSlot(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		slot, err := tx.Slots().LockByID(ctx, id)
		if err != nil {
			return err
		}
		if slot == nil {
			return apperrors.NotFound("slot", id)
		}

		hasAppointment, err := tx.Appointments().ExistsForSlot(ctx, id)
		if err != nil {
			return err
		}
		if !slotstate.CanDelete(hasAppointment) {
			return nil
		}

		if err := tx.Slots().Delete(ctx, id); err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, fail(s.logger, "delete slot", err, zap.Int64("slot_id", id))
	}

	if !deleted {
		s.logger.Info("Slot delete blocked by appointment", zap.Int64("slot_id", id))
		return false, nil
	}

	s.logger.Info("Slot deleted", zap.Int64("slot_id", id))
	return true, nil
}

func (s *SlotService) GetSlot(ctx context.Context, id int64) (*model.Slot, error) {
	slot, err := s.uow.Slots().GetByID(ctx, id)
	if err != nil {
		return nil, fail(s.logger, "get slot", err, zap.Int64("slot_id", id))
	}
	if slot == nil {
		return nil, apperrors.NotFound("slot", id)
	}
	return slot, nil
}

func (s *SlotService) ListSlotsByFrame(ctx context.Context, frameID int64) ([]*model.Slot, error) {
	frame, err := s.uow.Frames().GetByID(ctx, frameID)
	if err != nil {
		return nil, fail(s.logger, "get frame", err, zap.Int64("frame_id", frameID))
	}
	if frame == nil {
		return nil, apperrors.NotFound("frame", frameID)
	}

	slots, err := s.uow.Slots().ListByFrame(ctx, frameID)
	if err != nil {
		return nil, fail(s.logger, "list slots by frame", err, zap.Int64("frame_id", frameID))
	}
	return slots, nil
}
