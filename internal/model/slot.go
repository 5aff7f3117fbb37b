package model

import (
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/timerange"
)

type SlotStatus string

const (
	SlotStatusAvailable   SlotStatus = "available"
	SlotStatusBooked      SlotStatus = "booked"
	SlotStatusUnavailable SlotStatus = "unavailable"
)

func (s SlotStatus) Valid() bool {
	switch s {
	case SlotStatusAvailable, SlotStatusBooked, SlotStatusUnavailable:
		return true
	default:
		return false
	}
}

// Slot бронируемый интервал внутри окна
type Slot struct {
	ID        int64           `json:"id"`
	FrameID   int64           `json:"availability_frame_id"`
	StartTime timerange.Clock `json:"start_time"`
	EndTime   timerange.Clock `json:"end_time"`
	Status    SlotStatus      `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewSlot свободный слот окна
func NewSlot(frameID int64, span timerange.Range) *Slot {
	return &Slot{
		FrameID:   frameID,
		StartTime: span.Start,
		EndTime:   span.End,
		Status:    SlotStatusAvailable,
	}
}

func (s *Slot) Span() timerange.Range {
	return timerange.Range{Start: s.StartTime, End: s.EndTime}
}

func (s *Slot) Key() int64 {
	return s.ID
}

func (s *Slot) Label() string {
	return ""
}

func (s *Slot) IsAvailable() bool {
	return s.Status == SlotStatusAvailable
}
