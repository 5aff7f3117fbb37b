// Package slotgen раскладывает окно доступности на последовательность непересекающихся слотов.
package slotgen

import (
	"iter"
	"slices"

	"github.com/Freeeeeet/staff_scheduler/internal/timerange"
)

// Generate возвращает ленивую последовательность слотов внутри window.
//
// Курсор стартует с window.Start; слот [cursor, cursor+duration) выдаётся, пока
// cursor+duration <= window.End, затем курсор сдвигается на duration+interval.
// Последовательность не хранит состояния между проходами и может перечитываться.
// Минимальную длительность слота задаёт вызывающий код, здесь проверяется
// только то, что цикл конечен.
func Generate(window timerange.Range, duration, interval int) iter.Seq[timerange.Range] {
	return func(yield func(timerange.Range) bool) {
		if duration <= 0 || interval < 0 {
			return
		}

		for cursor := window.Start; cursor.AddMinutes(duration) <= window.End; cursor = cursor.AddMinutes(duration + interval) {
			slot := timerange.Range{Start: cursor, End: cursor.AddMinutes(duration)}
			if !yield(slot) {
				return
			}
		}
	}
}

// Plan материализует Generate в срез для пакетной вставки
func Plan(window timerange.Range, duration, interval int) []timerange.Range {
	return slices.Collect(Generate(window, duration, interval))
}

// Count количество слотов без выделения памяти
func Count(window timerange.Range, duration, interval int) int {
	n := 0
	for range Generate(window, duration, interval) {
		n++
	}
	return n
}
