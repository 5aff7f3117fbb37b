package service

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/apperrors"
	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/slotgen"
	"github.com/Freeeeeet/staff_scheduler/internal/timerange"
	"go.uber.org/zap"
)

// Options параметры политики расписания
type Options struct {
	RecurrenceWeeks int
	MinSlotDuration int
	// Now источник текущего времени, по умолчанию time.Now
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.MinSlotDuration <= 0 {
		o.MinSlotDuration = 5
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// fail логирует инфраструктурную ошибку с контекстом операции и оборачивает её.
// Доменные ошибки возвращаются как есть.
func fail(logger *zap.Logger, op string, err error, fields ...zap.Field) error {
	if apperrors.IsDomain(err) {
		return err
	}
	logger.Error(op+" failed", append(fields, zap.Error(err))...)
	return fmt.Errorf("%s: %w", op, err)
}

// plannedSlots новые свободные слоты окна по его времени, длительности и перерыву
func plannedSlots(frame *model.Frame) []*model.Slot {
	var slots []*model.Slot
	for span := range slotgen.Generate(frame.Span(), frame.DurationMinutes, frame.IntervalMinutes) {
		slots = append(slots, model.NewSlot(frame.ID, span))
	}
	return slots
}

func parseClock(ve *apperrors.ValidationError, field, value string) timerange.Clock {
	c, err := timerange.ParseClock(value)
	if err != nil {
		ve.Add(field, "must be a time in HH:MM or HH:MM:SS format")
	}
	return c
}

func parseDate(ve *apperrors.ValidationError, field, value string) *time.Time {
	d, err := timerange.ParseDate(value)
	if err != nil {
		ve.Add(field, "must be a date in YYYY-MM-DD format")
		return nil
	}
	return &d
}
