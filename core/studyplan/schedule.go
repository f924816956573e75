package studyplan

import (
	"math"
	"time"

	"github.com/onlineimmigrant/eduplan/core/course"
)

// Generate computes one planned completion date per lesson.
//
// The window is adjusted by the style's pacing multiplier (intensive compresses
// the course into the first half of the window), then divided evenly: the
// lesson at zero-based global index i is planned at
// start + floor(i * daysPerLesson) days. Dates are therefore non-decreasing in
// lesson order and never leave the window. A window with end <= start collapses
// every date to the start.
//
// In flexible style a lesson already carrying an override keeps it verbatim;
// only unset lessons receive a computed date. Generate never fails: an empty
// lesson list yields an empty schedule.
func Generate(lessons []course.Lesson, win Window, style Style, overrides map[int]time.Time) map[int]time.Time {
	schedule := make(map[int]time.Time, len(lessons))
	if len(lessons) == 0 {
		return schedule
	}

	totalDays := win.TotalDays()
	if totalDays < 0 {
		totalDays = 0
	}

	var multiplier float64
	switch style {
	case StyleIntensive:
		multiplier = 0.5
	case StyleLinear, StyleFlexible:
		multiplier = 1.0
	default:
		multiplier = 1.0
	}

	daysPerLesson := totalDays * multiplier / float64(len(lessons))

	for i, lesson := range lessons {
		if style == StyleFlexible {
			if override, ok := overrides[lesson.ID]; ok {
				schedule[lesson.ID] = override
				continue
			}
		}
		offset := int(math.Floor(float64(i) * daysPerLesson))
		schedule[lesson.ID] = win.Start.AddDate(0, 0, offset)
	}
	return schedule
}
