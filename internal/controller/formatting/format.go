// Package formatting тексты сообщений бота.
package formatting

import (
	"fmt"
	"strings"

	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/timerange"
)

// GetWeekdayShort короткое название дня недели
func GetWeekdayShort(weekday int) string {
	names := []string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}
	if weekday >= 0 && weekday < len(names) {
		return names[weekday]
	}
	return "?"
}

// FormatDay дата дня доступности в виде "Вт 21.10.2025"
func FormatDay(date string) string {
	d, err := timerange.ParseDate(date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%s %s", GetWeekdayShort(int(d.Weekday())), d.Format("02.01.2006"))
}

func FormatSlotRange(start, end timerange.Clock) string {
	return fmt.Sprintf("%s-%s", start.Short(), end.Short())
}

// FormatAvailability список свободных слотов сотрудника по дням
func FormatAvailability(a *model.StaffAvailability) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "👤 <b>%s</b>", a.Staff.Name)
	if a.Staff.Position != "" || a.Staff.Department != "" {
		fmt.Fprintf(&sb, "\n%s", strings.TrimSpace(strings.Join(nonEmpty(a.Staff.Position, a.Staff.Department), ", ")))
	}
	sb.WriteString("\n\n")

	if len(a.Days) == 0 {
		sb.WriteString("Свободных слотов нет")
		return sb.String()
	}

	for i, day := range a.Days {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "📅 %s\n", FormatDay(day.Date))
		for _, slot := range day.Slots {
			fmt.Fprintf(&sb, "  • %s  %s\n", FormatSlotRange(slot.StartTime, slot.EndTime), slot.FrameTitle)
		}
	}
	sb.WriteString("\nВыберите слот для записи:")
	return sb.String()
}

// FormatBookingSummary подтверждение созданной записи
func FormatBookingSummary(a *model.Appointment) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "✅ Запись #%d создана\n\n", a.ID)
	if a.Frame != nil && a.Frame.Date != nil {
		fmt.Fprintf(&sb, "📅 %s\n", FormatDay(timerange.FormatDate(*a.Frame.Date)))
	}
	if a.Slot != nil {
		fmt.Fprintf(&sb, "🕐 %s\n", FormatSlotRange(a.Slot.StartTime, a.Slot.EndTime))
	}
	fmt.Fprintf(&sb, "👤 %s\n📞 %s\n✉️ %s\n📝 %s\n\n", a.VisitorName, a.PhoneNumber, a.Email, a.Purpose)
	fmt.Fprintf(&sb, "📊 Статус: %s", StatusText(a.Status))
	return sb.String()
}

// StatusText статус записи для посетителя
func StatusText(s model.AppointmentStatus) string {
	switch s {
	case model.AppointmentStatusPending:
		return "⏳ ожидает подтверждения"
	case model.AppointmentStatusApproved:
		return "✅ подтверждена"
	case model.AppointmentStatusCancelled:
		return "❌ отменена"
	case model.AppointmentStatusCompleted:
		return "🏁 завершена"
	default:
		return string(s)
	}
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
