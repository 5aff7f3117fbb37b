package handlers

import (
	"testing"

	"github.com/Freeeeeet/staff_scheduler/internal/apperrors"
	"github.com/Freeeeeet/staff_scheduler/internal/controller/state"
	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/timerange"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookSlotData(t *testing.T) {
	data := BookSlotData(3, 1234)
	assert.Equal(t, "book_slot:3:1234", data)

	staffID, slotID, err := ParseBookSlot(data)
	require.NoError(t, err)
	assert.Equal(t, int64(3), staffID)
	assert.Equal(t, int64(1234), slotID)

	for _, bad := range []string{"book_slot:", "book_slot:3", "book_slot:x:1", "book_slot:3:-1", "other:1:2"} {
		_, _, err := ParseBookSlot(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseSlotsCommand(t *testing.T) {
	id, err := ParseSlotsCommand("/slots 12")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	_, err = ParseSlotsCommand("/slots")
	assert.Error(t, err)
	_, err = ParseSlotsCommand("/slots abc")
	assert.Error(t, err)
}

func TestPublicBookingInput(t *testing.T) {
	in := publicBookingInput(state.BookingDraft{
		StaffID:     1,
		SlotID:      9,
		VisitorName: "Alice",
		PhoneNumber: "+6012345678",
		Email:       "alice@example.com",
	}, "Enrollment")

	assert.Equal(t, int64(1), in.StaffID)
	assert.Equal(t, int64(9), in.SlotID)
	assert.Equal(t, "Alice", in.VisitorName)
	assert.Equal(t, "Enrollment", in.Purpose)
	assert.Nil(t, in.StudentName)
}

func TestAnswerRulesCoverDialog(t *testing.T) {
	for step := state.StepName; step != state.StepNone; step = step.Next() {
		rule, ok := answerRules[step]
		require.True(t, ok, step)
		if step.Next() != state.StepNone {
			assert.NotNil(t, rule.set, step)
			assert.NotEmpty(t, rule.prompt, step)
		}
	}

	var d state.BookingDraft
	answerRules[state.StepEmail].set(&d, "alice@example.com")
	assert.Equal(t, "alice@example.com", d.Email)
}

func TestErrorText(t *testing.T) {
	assert.Contains(t, errorText(apperrors.ErrSlotUnavailable), "недоступен")
	assert.Contains(t, errorText(apperrors.Invalid("email", "must be a valid email address")), "email: must be a valid email address")
	assert.Contains(t, errorText(apperrors.NotFound("staff", 7)), "staff 7 not found")
	assert.Contains(t, errorText(assert.AnError), "Попробуйте позже")
}

func TestSlotsKeyboard(t *testing.T) {
	slots := make([]model.PublicSlot, 0, 45)
	start := timerange.MustParseClock("08:00")
	for i := range 45 {
		s := start.AddMinutes(i * 10)
		slots = append(slots, model.PublicSlot{ID: int64(i + 1), StartTime: s, EndTime: s.AddMinutes(10)})
	}
	a := &model.StaffAvailability{
		Staff: &model.Staff{ID: 2},
		Days:  []model.DayAvailability{{Date: "2025-10-21", Slots: slots}},
	}

	markup := slotsKeyboard(a)
	total := 0
	for _, row := range markup.InlineKeyboard {
		total += len(row)
	}
	assert.Equal(t, maxSlotButtons, total)
	assert.Equal(t, "Вт 21.10.2025 08:00", markup.InlineKeyboard[0][0].Text)
	assert.Equal(t, "book_slot:2:1", markup.InlineKeyboard[0][0].CallbackData)
}

func TestEscapeStaff(t *testing.T) {
	a := &model.StaffAvailability{
		Staff: &model.Staff{Name: "<b>Eve</b>"},
		Days:  []model.DayAvailability{{Date: "2025-10-21", Slots: []model.PublicSlot{{FrameTitle: "A & B"}}}},
	}
	out := escapeStaff(a)
	assert.Equal(t, "&lt;b&gt;Eve&lt;/b&gt;", out.Staff.Name)
	assert.Equal(t, "A &amp; B", out.Days[0].Slots[0].FrameTitle)
	assert.Equal(t, "<b>Eve</b>", a.Staff.Name)
}
