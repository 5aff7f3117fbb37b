package model

import "github.com/Freeeeeet/staff_scheduler/internal/timerange"

// PublicSlot свободный слот в публичной выдаче
type PublicSlot struct {
	ID         int64           `json:"id"`
	StartTime  timerange.Clock `json:"start_time"`
	EndTime    timerange.Clock `json:"end_time"`
	FrameID    int64           `json:"frame_id"`
	FrameTitle string          `json:"frame_title"`
}

// DayAvailability свободные слоты одной даты, отсортированные по началу
type DayAvailability struct {
	Date  string       `json:"date"`
	Slots []PublicSlot `json:"slots"`
}

// StaffAvailability ответ публичной записи: сотрудник и его свободные слоты по датам
type StaffAvailability struct {
	Staff *Staff            `json:"staff"`
	Days  []DayAvailability `json:"slots_by_date"`
}
