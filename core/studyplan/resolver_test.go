package studyplan

import (
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/onlineimmigrant/eduplan/core/enrollment"
)

func TestResolveWindow(t *testing.T) {
	entStart := date(2024, time.January, 1)
	entEnd := date(2024, time.December, 31)
	ent := enrollment.Entitlement{
		ID:        "ent1",
		LearnerID: "lrn1",
		CourseID:  1,
		IsActive:  true,
		StartDate: entStart,
		EndDate:   null.TimeFrom(entEnd),
	}
	openEnt := ent
	openEnt.EndDate = null.Time{}

	explicit := Window{Start: date(2024, time.March, 1), End: date(2024, time.April, 1)}
	prefWin := Preference{
		StartDate: null.TimeFrom(date(2024, time.February, 1)),
		EndDate:   null.TimeFrom(date(2024, time.June, 1)),
	}
	prefPartial := Preference{
		StartDate: null.TimeFrom(date(2024, time.February, 1)),
	}

	tests := []struct {
		name     string
		explicit *Window
		pref     *Preference
		ent      enrollment.Entitlement
		want     Window
	}{
		{
			name:     "explicit window wins over everything",
			explicit: &explicit,
			pref:     &prefWin,
			ent:      ent,
			want:     explicit,
		},
		{
			name: "stored preference wins over entitlement",
			pref: &prefWin,
			ent:  ent,
			want: Window{Start: date(2024, time.February, 1), End: date(2024, time.June, 1)},
		},
		{
			name: "partial preference falls through to entitlement",
			pref: &prefPartial,
			ent:  ent,
			want: Window{Start: entStart, End: entEnd},
		},
		{
			name: "no preference falls through to entitlement",
			ent:  ent,
			want: Window{Start: entStart, End: entEnd},
		},
		{
			name: "open-ended entitlement defaults to six months",
			ent:  openEnt,
			want: Window{Start: entStart, End: date(2024, time.July, 1)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveWindow(tt.explicit, tt.pref, tt.ent)
			if !got.Start.Equal(tt.want.Start) || !got.End.Equal(tt.want.End) {
				t.Errorf("ResolveWindow() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolveStyle(t *testing.T) {
	intensive := StyleIntensive
	bogus := Style("yolo")

	tests := []struct {
		name     string
		explicit *Style
		pref     *Preference
		want     Style
	}{
		{name: "explicit style wins", explicit: &intensive, pref: &Preference{Style: StyleFlexible}, want: StyleIntensive},
		{name: "stored preference", pref: &Preference{Style: StyleFlexible}, want: StyleFlexible},
		{name: "invalid stored style falls back to default", pref: &Preference{Style: bogus}, want: DefaultStyle},
		{name: "nothing stored", want: DefaultStyle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveStyle(tt.explicit, tt.pref); got != tt.want {
				t.Errorf("ResolveStyle() = %v, want %v", got, tt.want)
			}
		})
	}
}
