// Package timerange описывает интервалы времени суток [start, end) и проверку их пересечения.
package timerange

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyRange  = errors.New("end time must be after start time")
	ErrOutsideDay  = errors.New("time range must stay within a single day")
	ErrNonPositive = errors.New("duration must be positive")
)

// Range полуоткрытый интервал [Start, End) в пределах одного дня
type Range struct {
	Start Clock `json:"start_time"`
	End   Clock `json:"end_time"`
}

// New создаёт интервал, проверяя что End > Start и оба конца внутри суток
func New(start, end Clock) (Range, error) {
	r := Range{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

// Validate проверяет инвариант интервала
func (r Range) Validate() error {
	if !r.Start.Valid() || r.End < 0 || r.End > secondsPerDay {
		return ErrOutsideDay
	}
	if r.End <= r.Start {
		return ErrEmptyRange
	}
	return nil
}

// Overlaps проверяет строгое пересечение: касание границ пересечением не считается
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && r.End > other.Start
}

// Overlaps свободная форма для симметричных вызовов
func Overlaps(a, b Range) bool {
	return a.Overlaps(b)
}

// Contains проверяет, что other целиком лежит внутри r
func (r Range) Contains(other Range) bool {
	return other.Start >= r.Start && other.End <= r.End
}

// Minutes длительность интервала в минутах
func (r Range) Minutes() int {
	return int(r.End-r.Start) / secondsPerMinute
}

// Shift сдвигает оба конца на delta минут; результат обязан остаться внутри суток
func (r Range) Shift(deltaMinutes int) (Range, error) {
	shifted := Range{Start: r.Start.AddMinutes(deltaMinutes), End: r.End.AddMinutes(deltaMinutes)}
	if err := shifted.Validate(); err != nil {
		return Range{}, fmt.Errorf("shift by %d minutes: %w", deltaMinutes, err)
	}
	return shifted, nil
}

func (r Range) String() string {
	return fmt.Sprintf("%s - %s", r.Start, r.End)
}
