package timerange

import (
	"fmt"
	"time"
)

// DateLayout формат календарной даты без часового пояса
const DateLayout = "2006-01-02"

// ParseDate разбирает YYYY-MM-DD в полночь UTC
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return d, nil
}

// MustParseDate для тестов и констант
func MustParseDate(s string) time.Time {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// DateOf отбрасывает время суток и зону, оставляя настенную дату
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatDate форматирует дату как YYYY-MM-DD
func FormatDate(d time.Time) string {
	return d.Format(DateLayout)
}

// AddWeeks сдвигает дату на n недель
func AddWeeks(d time.Time, n int) time.Time {
	return d.AddDate(0, 0, 7*n)
}

// WeekdayLabel название дня недели для отображения ("Monday")
func WeekdayLabel(d time.Time) string {
	return d.Weekday().String()
}

// SameDate сравнивает только календарные даты
func SameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
