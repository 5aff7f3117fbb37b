package formatting

import (
	"testing"

	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/timerange"
	"github.com/stretchr/testify/assert"
)

func TestFormatDay(t *testing.T) {
	assert.Equal(t, "Вт 21.10.2025", FormatDay("2025-10-21"))
	assert.Equal(t, "garbage", FormatDay("garbage"))
}

func TestFormatAvailability(t *testing.T) {
	a := &model.StaffAvailability{
		Staff: &model.Staff{ID: 1, Name: "Dr. Lee", Department: "Admissions"},
		Days: []model.DayAvailability{
			{Date: "2025-10-21", Slots: []model.PublicSlot{
				{ID: 1, StartTime: timerange.MustParseClock("09:00"), EndTime: timerange.MustParseClock("09:20"), FrameTitle: "Consultations"},
				{ID: 2, StartTime: timerange.MustParseClock("09:20"), EndTime: timerange.MustParseClock("09:40"), FrameTitle: "Consultations"},
			}},
		},
	}

	text := FormatAvailability(a)
	assert.Contains(t, text, "<b>Dr. Lee</b>\nAdmissions")
	assert.Contains(t, text, "📅 Вт 21.10.2025\n")
	assert.Contains(t, text, "09:00-09:20  Consultations")
	assert.Contains(t, text, "09:20-09:40  Consultations")
}

func TestFormatAvailabilityEmpty(t *testing.T) {
	text := FormatAvailability(&model.StaffAvailability{Staff: &model.Staff{Name: "Ms. Tan"}})
	assert.Contains(t, text, "Свободных слотов нет")
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "⏳ ожидает подтверждения", StatusText(model.AppointmentStatusPending))
	assert.Equal(t, "unknown", StatusText("unknown"))
}
