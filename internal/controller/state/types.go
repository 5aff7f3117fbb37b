// Package state диалоги записи в чатах бота.
package state

import "time"

// Step шаг диалога записи
type Step string

const (
	StepNone    Step = ""
	StepName    Step = "booking_name"
	StepPhone   Step = "booking_phone"
	StepEmail   Step = "booking_email"
	StepPurpose Step = "booking_purpose"
)

// Next шаг после ответа. После цели визита диалог завершается.
func (s Step) Next() Step {
	switch s {
	case StepName:
		return StepPhone
	case StepPhone:
		return StepEmail
	case StepEmail:
		return StepPurpose
	default:
		return StepNone
	}
}

// BookingDraft ответы, собранные к текущему шагу
type BookingDraft struct {
	StaffID     int64
	SlotID      int64
	VisitorName string
	PhoneNumber string
	Email       string
}

type dialog struct {
	step      Step
	draft     BookingDraft
	touchedAt time.Time
}
