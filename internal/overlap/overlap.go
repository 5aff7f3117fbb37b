// Package overlap проверяет пересечение интервалов одного дня.
package overlap

import (
	"github.com/Freeeeeet/staff_scheduler/internal/apperrors"
	"github.com/Freeeeeet/staff_scheduler/internal/timerange"
)

// Interval сущность с идентификатором и временным промежутком
type Interval interface {
	Key() int64
	Span() timerange.Range
	Label() string
}

// FindConflicts возвращает все существующие интервалы, строго пересекающиеся с кандидатом.
// exclude пропускает сущность с этим id (0 ничего не исключает).
// Касание границ пересечением не считается.
func FindConflicts[T Interval](candidate timerange.Range, existing []T, exclude int64) []T {
	var conflicts []T
	for _, e := range existing {
		if exclude != 0 && e.Key() == exclude {
			continue
		}
		if candidate.Overlaps(e.Span()) {
			conflicts = append(conflicts, e)
		}
	}
	return conflicts
}

// Check возвращает *apperrors.ConflictError со всеми пересечениями или nil
func Check[T Interval](resource string, candidate timerange.Range, existing []T, exclude int64) error {
	conflicts := FindConflicts(candidate, existing, exclude)
	if len(conflicts) == 0 {
		return nil
	}

	err := &apperrors.ConflictError{Resource: resource, Conflicts: make([]apperrors.Conflict, 0, len(conflicts))}
	for _, c := range conflicts {
		err.Conflicts = append(err.Conflicts, apperrors.Conflict{
			ID:    c.Key(),
			Title: c.Label(),
			Range: c.Span(),
		})
	}
	return err
}
