package timerange

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

const (
	secondsPerMinute = 60
	secondsPerDay    = 24 * 60 * 60
)

// Clock время суток в секундах от полуночи, без даты и часового пояса
type Clock int

// NewClock собирает Clock из часов и минут
func NewClock(hour, minute int) Clock {
	return Clock(hour*3600 + minute*secondsPerMinute)
}

// ParseClock разбирает "HH:MM" или "HH:MM:SS"
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM or HH:MM:SS", s)
	}

	limits := []int{23, 59, 59}
	values := make([]int, 3)
	for i, part := range parts {
		if len(part) != 2 {
			return 0, fmt.Errorf("invalid time %q: expected two digits per component", s)
		}
		v, err := strconv.Atoi(part)
		if err != nil || v < 0 || v > limits[i] {
			return 0, fmt.Errorf("invalid time %q", s)
		}
		values[i] = v
	}

	return Clock(values[0]*3600 + values[1]*secondsPerMinute + values[2]), nil
}

// MustParseClock как ParseClock, но паникует на ошибке. Для констант и тестов.
func MustParseClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// String возвращает время в нормализованном виде HH:MM:SS
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", int(c)/3600, (int(c)%3600)/secondsPerMinute, int(c)%secondsPerMinute)
}

// Short возвращает HH:MM
func (c Clock) Short() string {
	return fmt.Sprintf("%02d:%02d", int(c)/3600, (int(c)%3600)/secondsPerMinute)
}

// AddMinutes сдвигает время на указанное количество минут (может выйти за пределы суток)
func (c Clock) AddMinutes(minutes int) Clock {
	return c + Clock(minutes*secondsPerMinute)
}

// Valid проверяет, что время лежит внутри суток
func (c Clock) Valid() bool {
	return c >= 0 && c < secondsPerDay
}

func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Clock) UnmarshalText(text []byte) error {
	parsed, err := ParseClock(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ScanTime позволяет pgx сканировать колонку типа time напрямую в Clock
func (c *Clock) ScanTime(v pgtype.Time) error {
	if !v.Valid {
		return fmt.Errorf("cannot scan NULL into Clock")
	}
	*c = Clock(v.Microseconds / 1_000_000)
	return nil
}

// TimeValue позволяет передавать Clock параметром для колонки типа time
func (c Clock) TimeValue() (pgtype.Time, error) {
	return pgtype.Time{Microseconds: int64(c) * 1_000_000, Valid: true}, nil
}
