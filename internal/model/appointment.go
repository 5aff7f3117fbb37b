package model

import "time"

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"   // Ожидает подтверждения сотрудником
	AppointmentStatusApproved  AppointmentStatus = "approved"  // Подтверждено
	AppointmentStatusCancelled AppointmentStatus = "cancelled" // Отменено, слот освобождён
	AppointmentStatusCompleted AppointmentStatus = "completed" // Завершено
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusApproved, AppointmentStatusCancelled, AppointmentStatusCompleted:
		return true
	default:
		return false
	}
}

// HoldsSlot сообщает, занимает ли запись в этом статусе свой слот
func (s AppointmentStatus) HoldsSlot() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusApproved, AppointmentStatusCompleted:
		return true
	case AppointmentStatusCancelled:
		return false
	default:
		return false
	}
}

// Appointment запись посетителя, привязанная ровно к одному слоту
type Appointment struct {
	ID          int64             `json:"id"`
	StaffID     int64             `json:"staff_id"`
	SlotID      int64             `json:"availability_slot_id"`
	VisitorName string            `json:"visitor_name"`
	StudentName *string           `json:"student_name"`
	PhoneNumber string            `json:"phone_number"`
	Email       string            `json:"email"`
	Purpose     string            `json:"purpose"`
	Status      AppointmentStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`

	// Дополнительные поля для удобства (не из БД)
	Slot  *Slot  `json:"slot,omitempty"`
	Frame *Frame `json:"frame,omitempty"`
}
