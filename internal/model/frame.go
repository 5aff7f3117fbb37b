package model

import (
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/timerange"
	"github.com/google/uuid"
)

type FrameStatus string

const (
	FrameStatusActive   FrameStatus = "active"
	FrameStatusInactive FrameStatus = "inactive"
)

func (s FrameStatus) Valid() bool {
	switch s {
	case FrameStatusActive, FrameStatusInactive:
		return true
	default:
		return false
	}
}

// Visibility определяет, попадает ли окно в публичную запись
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityPrivate:
		return true
	default:
		return false
	}
}

// Frame окно доступности сотрудника на конкретную дату, из которого нарезаются слоты
type Frame struct {
	ID              int64           `json:"id"`
	StaffID         int64           `json:"staff_id"`
	Date            *time.Time      `json:"date"` // nil только у шаблона recurring без даты
	Title           string          `json:"title"`
	Day             string          `json:"day"` // производное от Date, хранится для отображения
	StartTime       timerange.Clock `json:"start_time"`
	EndTime         timerange.Clock `json:"end_time"`
	DurationMinutes int             `json:"duration"`
	IntervalMinutes int             `json:"interval"`
	IsRecurring     bool            `json:"is_recurring"`
	RepeatGroupID   *uuid.UUID      `json:"repeat_group_id"`
	Status          FrameStatus     `json:"status"`
	Visibility      Visibility      `json:"visibility"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// Не из БД
	Slots []*Slot `json:"slots,omitempty"`
}

// FrameParams входные данные фабрики NewFrame
type FrameParams struct {
	StaffID         int64
	Date            *time.Time
	Title           string
	Day             string
	StartTime       timerange.Clock
	EndTime         timerange.Clock
	DurationMinutes int
	IntervalMinutes int
	IsRecurring     bool
	RepeatGroupID   *uuid.UUID
	Status          FrameStatus
	Visibility      Visibility
}

// NewFrame собирает окно и вычисляет все производные поля до передачи в хранилище:
// метку дня недели, идентификатор группы повторов и значения по умолчанию.
func NewFrame(p FrameParams) *Frame {
	f := &Frame{
		StaffID:         p.StaffID,
		Title:           p.Title,
		Day:             p.Day,
		StartTime:       p.StartTime,
		EndTime:         p.EndTime,
		DurationMinutes: p.DurationMinutes,
		IntervalMinutes: p.IntervalMinutes,
		IsRecurring:     p.IsRecurring,
		RepeatGroupID:   p.RepeatGroupID,
		Status:          p.Status,
		Visibility:      p.Visibility,
	}
	f.SetDate(p.Date)

	if f.Status == "" {
		f.Status = FrameStatusActive
	}
	if f.Visibility == "" {
		f.Visibility = VisibilityPublic
	}
	if f.IsRecurring && f.RepeatGroupID == nil {
		groupID := uuid.New()
		f.RepeatGroupID = &groupID
	}

	return f
}

// SetDate меняет дату и пересчитывает метку дня недели
func (f *Frame) SetDate(date *time.Time) {
	if date == nil {
		f.Date = nil
		return
	}
	d := timerange.DateOf(*date)
	f.Date = &d
	f.Day = timerange.WeekdayLabel(d)
}

// CloneForDate копия окна для экземпляра серии на другой дате
func (f *Frame) CloneForDate(date time.Time, groupID uuid.UUID) *Frame {
	return NewFrame(FrameParams{
		StaffID:         f.StaffID,
		Date:            &date,
		Title:           f.Title,
		Day:             f.Day,
		StartTime:       f.StartTime,
		EndTime:         f.EndTime,
		DurationMinutes: f.DurationMinutes,
		IntervalMinutes: f.IntervalMinutes,
		IsRecurring:     true,
		RepeatGroupID:   &groupID,
		Status:          f.Status,
		Visibility:      f.Visibility,
	})
}

// Detach делает окно самостоятельным
func (f *Frame) Detach() {
	f.IsRecurring = false
	f.RepeatGroupID = nil
}

func (f *Frame) Span() timerange.Range {
	return timerange.Range{Start: f.StartTime, End: f.EndTime}
}

func (f *Frame) Key() int64 {
	return f.ID
}

func (f *Frame) Label() string {
	return f.Title
}

func (f *Frame) HasDate() bool {
	return f.Date != nil
}

func (f *Frame) IsActive() bool {
	return f.Status == FrameStatusActive
}

// IsPublic окно показывается в публичной записи
func (f *Frame) IsPublic() bool {
	return f.Visibility == VisibilityPublic
}

// Clone поверхностная копия без слотов
func (f *Frame) Clone() *Frame {
	c := *f
	c.Slots = nil
	if f.Date != nil {
		d := *f.Date
		c.Date = &d
	}
	if f.RepeatGroupID != nil {
		g := *f.RepeatGroupID
		c.RepeatGroupID = &g
	}
	return &c
}
