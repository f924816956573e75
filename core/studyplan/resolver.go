package studyplan

import (
	"github.com/onlineimmigrant/eduplan/core/enrollment"
)

// windowResolver is one tier of the window precedence chain; it either yields
// an effective window or passes to the next tier.
type windowResolver func() (Window, bool)

// ResolveWindow determines the effective scheduling window for a learner+course
// pair. Precedence (first match wins):
//  1. caller-supplied explicit window (avoids a read-after-write race right
//     after the learner edits the plan)
//  2. the stored preference's window, when both dates are set
//  3. the entitlement window; an open-ended entitlement defaults to
//     start + 6 months
func ResolveWindow(explicit *Window, pref *Preference, ent enrollment.Entitlement) Window {
	resolvers := []windowResolver{
		explicitWindow(explicit),
		preferenceWindow(pref),
		entitlementWindow(ent),
	}
	for _, resolve := range resolvers {
		if win, ok := resolve(); ok {
			return win
		}
	}
	return Window{} // unreachable: entitlementWindow always resolves
}

func explicitWindow(win *Window) windowResolver {
	return func() (Window, bool) {
		if win == nil {
			return Window{}, false
		}
		return *win, true
	}
}

func preferenceWindow(pref *Preference) windowResolver {
	return func() (Window, bool) {
		if pref == nil {
			return Window{}, false
		}
		return pref.Window()
	}
}

func entitlementWindow(ent enrollment.Entitlement) windowResolver {
	return func() (Window, bool) {
		end := ent.EndDate.Time
		if !ent.EndDate.Valid {
			end = ent.StartDate.AddDate(0, defaultPlanMonths, 0)
		}
		return Window{Start: ent.StartDate, End: end}, true
	}
}

// ResolveStyle determines the effective pacing style: caller-supplied style,
// then the stored preference, then the default.
func ResolveStyle(explicit *Style, pref *Preference) Style {
	if explicit != nil {
		return *explicit
	}
	if pref != nil && pref.Style.Valid() {
		return pref.Style
	}
	return DefaultStyle
}
