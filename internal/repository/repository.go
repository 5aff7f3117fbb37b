// Package repository описывает хранилище окон, слотов и записей и его реализацию на PostgreSQL.
//
// Get-методы возвращают (nil, nil), если строка не найдена.
package repository

import (
	"context"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/google/uuid"
)

type FrameRepository interface {
	Create(ctx context.Context, frame *model.Frame) error
	// CreateBatch вставляет окна одним пакетом и заполняет их ID
	CreateBatch(ctx context.Context, frames []*model.Frame) error
	GetByID(ctx context.Context, id int64) (*model.Frame, error)
	ListByStaff(ctx context.Context, staffID int64) ([]*model.Frame, error)
	// ListByStaffAndDate окна сотрудника на дату, область проверки пересечений
	ListByStaffAndDate(ctx context.Context, staffID int64, date time.Time) ([]*model.Frame, error)
	// ListPublicByStaff активные публичные окна с датой не раньше from
	ListPublicByStaff(ctx context.Context, staffID int64, from time.Time) ([]*model.Frame, error)
	ListByRepeatGroup(ctx context.Context, groupID uuid.UUID) ([]*model.Frame, error)
	Update(ctx context.Context, frame *model.Frame) error
	Delete(ctx context.Context, id int64) (bool, error)
	DeleteByRepeatGroup(ctx context.Context, groupID uuid.UUID) (int64, error)
	// DeleteGroupAfter удаляет окна группы с датой строго после after, кроме exclude
	DeleteGroupAfter(ctx context.Context, groupID uuid.UUID, after time.Time, exclude int64) (int64, error)
	// DetachGroup снимает признак повторения со всех окон группы
	DetachGroup(ctx context.Context, groupID uuid.UUID) (int64, error)
}

type SlotRepository interface {
	Create(ctx context.Context, slot *model.Slot) error
	// CreateBatch массовая вставка без возврата ID
	CreateBatch(ctx context.Context, slots []*model.Slot) (int64, error)
	GetByID(ctx context.Context, id int64) (*model.Slot, error)
	// LockByID читает слот с блокировкой строки до конца транзакции
	LockByID(ctx context.Context, id int64) (*model.Slot, error)
	ListByFrame(ctx context.Context, frameID int64) ([]*model.Slot, error)
	ListByFrames(ctx context.Context, frameIDs []int64) ([]*model.Slot, error)
	Update(ctx context.Context, slot *model.Slot) error
	UpdateBatch(ctx context.Context, slots []*model.Slot) error
	UpdateStatus(ctx context.Context, id int64, status model.SlotStatus) error
	Delete(ctx context.Context, id int64) error
	// DeleteUnbookedByFrame удаляет слоты окна, на которые нет ни одной записи
	DeleteUnbookedByFrame(ctx context.Context, frameID int64) (int64, error)
}

type AppointmentRepository interface {
	// Create возвращает apperrors.ErrSlotUnavailable, если на слот уже есть активная запись
	Create(ctx context.Context, appointment *model.Appointment) error
	GetByID(ctx context.Context, id int64) (*model.Appointment, error)
	ListByStaff(ctx context.Context, staffID int64) ([]*model.Appointment, error)
	Update(ctx context.Context, appointment *model.Appointment) error
	Delete(ctx context.Context, id int64) error
	// ExistsForSlot есть ли на слот хоть одна запись в любом статусе
	ExistsForSlot(ctx context.Context, slotID int64) (bool, error)
}

type StaffRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Staff, error)
	// Lock блокирует строку сотрудника, сериализуя изменения его расписания
	Lock(ctx context.Context, id int64) (*model.Staff, error)
}

// Store набор репозиториев, работающих в одном соединении или транзакции
type Store interface {
	Frames() FrameRepository
	Slots() SlotRepository
	Appointments() AppointmentRepository
	Staff() StaffRepository
}

// UnitOfWork выполняет fn в транзакции. Ошибка fn откатывает все изменения.
type UnitOfWork interface {
	Store
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
