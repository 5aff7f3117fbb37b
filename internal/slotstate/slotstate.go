// Package slotstate описывает допустимые переходы статуса слота.
package slotstate

import (
	"fmt"

	"github.com/Freeeeeet/staff_scheduler/internal/apperrors"
	"github.com/Freeeeeet/staff_scheduler/internal/model"
)

type Event string

const (
	Book            Event = "book"             // Запись посетителя
	Release         Event = "release"          // Отмена или удаление записи
	MarkUnavailable Event = "mark_unavailable" // Сотрудник закрыл слот
	MarkAvailable   Event = "mark_available"   // Сотрудник открыл слот
)

// Transition возвращает новый статус слота после события.
// Book разрешён только из available, Release всегда возвращает available.
func Transition(from model.SlotStatus, ev Event) (model.SlotStatus, error) {
	switch ev {
	case Book:
		if from != model.SlotStatusAvailable {
			return from, apperrors.ErrSlotUnavailable
		}
		return model.SlotStatusBooked, nil
	case Release:
		return model.SlotStatusAvailable, nil
	case MarkUnavailable:
		if from != model.SlotStatusAvailable {
			return from, fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidTransition, from, model.SlotStatusUnavailable)
		}
		return model.SlotStatusUnavailable, nil
	case MarkAvailable:
		if from != model.SlotStatusUnavailable {
			return from, fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidTransition, from, model.SlotStatusAvailable)
		}
		return model.SlotStatusAvailable, nil
	default:
		return from, fmt.Errorf("%w: unknown event %q", apperrors.ErrInvalidTransition, ev)
	}
}

// Manual ручная смена статуса сотрудником. Статус booked ставится и снимается только записями.
func Manual(from, to model.SlotStatus) (model.SlotStatus, error) {
	if from == to {
		return from, nil
	}
	switch to {
	case model.SlotStatusUnavailable:
		return Transition(from, MarkUnavailable)
	case model.SlotStatusAvailable:
		return Transition(from, MarkAvailable)
	default:
		return from, fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidTransition, from, to)
	}
}

// CanDelete слот удаляется только если на него нет ни одной записи, включая отменённые
func CanDelete(hasAppointment bool) bool {
	return !hasAppointment
}
