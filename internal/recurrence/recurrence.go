// Package recurrence разворачивает повторяющиеся окна в еженедельные экземпляры
// и классифицирует переходы recurring/standalone при обновлении.
package recurrence

import (
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/timerange"
	"github.com/google/uuid"
)

// DefaultWeeks горизонт разворачивания серии
const DefaultWeeks = 52

// Expander создаёт экземпляры серии на заданное число недель вперёд
type Expander struct {
	weeks int
}

func NewExpander(weeks int) *Expander {
	if weeks <= 0 {
		weeks = DefaultWeeks
	}
	return &Expander{weeks: weeks}
}

func (e *Expander) Weeks() int {
	return e.weeks
}

// Anchor дата, от которой отсчитываются недели серии.
// Окно без даты привязывается к текущему дню.
func Anchor(origin *model.Frame, now time.Time) time.Time {
	if origin.Date != nil {
		return timerange.DateOf(*origin.Date)
	}
	return timerange.DateOf(now)
}

// Expand возвращает экземпляры на anchor+1 ... anchor+weeks недель.
// Сам origin в результат не входит, все экземпляры получают groupID.
func (e *Expander) Expand(origin *model.Frame, groupID uuid.UUID, anchor time.Time) []*model.Frame {
	instances := make([]*model.Frame, 0, e.weeks)
	for k := 1; k <= e.weeks; k++ {
		instances = append(instances, origin.CloneForDate(timerange.AddWeeks(anchor, k), groupID))
	}
	return instances
}

// Change вид изменения признака повторения при обновлении окна
type Change int

const (
	KeepStandalone Change = iota
	KeepRecurring
	Promote // standalone -> recurring
	Demote  // recurring -> standalone
)

func (c Change) String() string {
	switch c {
	case KeepStandalone:
		return "keep_standalone"
	case KeepRecurring:
		return "keep_recurring"
	case Promote:
		return "promote"
	case Demote:
		return "demote"
	default:
		return "unknown"
	}
}

// Classify определяет переход по старому и новому значению is_recurring
func Classify(was, will bool) Change {
	switch {
	case !was && will:
		return Promote
	case was && !will:
		return Demote
	case was:
		return KeepRecurring
	default:
		return KeepStandalone
	}
}

// IsFuture сообщает, лежит ли экземпляр серии строго после даты pivot.
// Экземпляры без даты будущими не считаются.
func IsFuture(sibling *model.Frame, pivot time.Time) bool {
	if sibling.Date == nil {
		return false
	}
	return timerange.DateOf(*sibling.Date).After(timerange.DateOf(pivot))
}
