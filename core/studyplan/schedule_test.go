package studyplan

import (
	"testing"
	"time"

	"github.com/onlineimmigrant/eduplan/core/course"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func lessons(n int) []course.Lesson {
	ls := make([]course.Lesson, 0, n)
	for i := 1; i <= n; i++ {
		ls = append(ls, course.Lesson{ID: i, TopicID: 1, Title: "Lesson", Order: i})
	}
	return ls
}

func TestGenerate(t *testing.T) {
	win := Window{Start: date(2024, time.January, 1), End: date(2024, time.January, 10)}

	tests := []struct {
		name      string
		lessons   []course.Lesson
		win       Window
		style     Style
		overrides map[int]time.Time
		want      map[int]time.Time
	}{
		{
			name:    "linear spreads evenly over full window",
			lessons: lessons(5),
			win:     win, // 9 days, 1.8 days per lesson
			style:   StyleLinear,
			want: map[int]time.Time{
				1: date(2024, time.January, 1),
				2: date(2024, time.January, 2),
				3: date(2024, time.January, 4),
				4: date(2024, time.January, 6),
				5: date(2024, time.January, 8),
			},
		},
		{
			name:    "intensive compresses into first half",
			lessons: lessons(5),
			win:     win, // 4.5 effective days, 0.9 per lesson
			style:   StyleIntensive,
			want: map[int]time.Time{
				1: date(2024, time.January, 1),
				2: date(2024, time.January, 1),
				3: date(2024, time.January, 2),
				4: date(2024, time.January, 3),
				5: date(2024, time.January, 4),
			},
		},
		{
			name:    "flexible keeps overrides verbatim",
			lessons: lessons(3),
			win:     win, // 3 days per lesson
			style:   StyleFlexible,
			overrides: map[int]time.Time{
				2: date(2024, time.February, 14),
			},
			want: map[int]time.Time{
				1: date(2024, time.January, 1),
				2: date(2024, time.February, 14),
				3: date(2024, time.January, 7),
			},
		},
		{
			name:      "linear ignores overrides",
			lessons:   lessons(3),
			win:       win,
			style:     StyleLinear,
			overrides: map[int]time.Time{2: date(2024, time.February, 14)},
			want: map[int]time.Time{
				1: date(2024, time.January, 1),
				2: date(2024, time.January, 4),
				3: date(2024, time.January, 7),
			},
		},
		{
			name:    "collapsed window pins everything to start",
			lessons: lessons(3),
			win:     Window{Start: date(2024, time.March, 1), End: date(2024, time.February, 1)},
			style:   StyleLinear,
			want: map[int]time.Time{
				1: date(2024, time.March, 1),
				2: date(2024, time.March, 1),
				3: date(2024, time.March, 1),
			},
		},
		{
			name:    "no lessons yields empty schedule",
			lessons: nil,
			win:     win,
			style:   StyleLinear,
			want:    map[int]time.Time{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.lessons, tt.win, tt.style, tt.overrides)
			if len(got) != len(tt.want) {
				t.Fatalf("Generate() len = %d, want %d", len(got), len(tt.want))
			}
			for id, want := range tt.want {
				if !got[id].Equal(want) {
					t.Errorf("Generate() lesson %d = %s, want %s", id, got[id].Format("2006-01-02"), want.Format("2006-01-02"))
				}
			}
		})
	}
}

func TestGenerateInvariants(t *testing.T) {
	win := Window{Start: date(2024, time.January, 1), End: date(2024, time.March, 17)}
	ls := lessons(13)

	for _, style := range []Style{StyleLinear, StyleIntensive} {
		sched := Generate(ls, win, style, nil)

		// dates are non-decreasing in lesson order and never leave the window
		prev := win.Start
		for _, lesson := range ls {
			got := sched[lesson.ID]
			if got.Before(prev) {
				t.Errorf("%s: lesson %d date %s before previous %s", style, lesson.ID, got, prev)
			}
			if !win.Contains(got) {
				t.Errorf("%s: lesson %d date %s outside window", style, lesson.ID, got)
			}
			prev = got
		}

		// regenerating with unchanged inputs yields the same dates
		again := Generate(ls, win, style, nil)
		for id, want := range sched {
			if !again[id].Equal(want) {
				t.Errorf("%s: lesson %d not stable across runs", style, id)
			}
		}
	}
}
