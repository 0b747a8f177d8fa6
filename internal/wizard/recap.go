// ABOUTME: Read-only summary of the draft for the final wizard step
// ABOUTME: Derived values only; closure dates arrive collapsed into ranges

package wizard

import (
	"github.com/voxtable/voxtable/internal/draft"
)

// RecapView is the summary presented on the final step before publish.
// Everything here is derived from the draft; the view holds no state.
type RecapView struct {
	Name          string              `json:"name"`
	Sector        string              `json:"sector"`
	Establishment draft.Establishment `json:"establishment"`
	Telephony     draft.Telephony     `json:"telephony"`
	OpenDays      []string            `json:"open_days"`
	ClosureRanges []DateRange         `json:"closure_ranges,omitempty"`
	Options       []string            `json:"options"`
	FoodOptions   []string            `json:"food_options"`
	Integrations  []string            `json:"integrations"`
	Documents     []string            `json:"documents,omitempty"`
	Notes         string              `json:"notes,omitempty"`
}

// BuildRecap derives the summary from the draft. Option and integration
// lists carry only the enabled entries, in the canonical key order, and
// open days follow the week order rather than map iteration order.
func BuildRecap(d draft.Draft) RecapView {
	view := RecapView{
		Name:          d.Name,
		Sector:        d.Sector,
		Establishment: d.Establishment,
		Telephony:     d.Telephony,
		Documents:     append([]string(nil), d.Documents...),
		Notes:         d.Notes,
	}

	for _, day := range draft.DayNames {
		hours, ok := d.Hours[day]
		if ok && (hours.Lunch.Open || hours.Dinner.Open) {
			view.OpenDays = append(view.OpenDays, day)
		}
	}

	if d.Closures.Enabled {
		view.ClosureRanges = CollapseClosureDates(d.Closures.Dates)
	}

	for _, key := range draft.OptionKeys {
		if d.Options[key] {
			view.Options = append(view.Options, key)
		}
	}
	for _, key := range draft.FoodOptionKeys {
		if d.FoodOptions[key] {
			view.FoodOptions = append(view.FoodOptions, key)
		}
	}
	for _, integ := range d.Integrations {
		if integ.Enabled {
			view.Integrations = append(view.Integrations, integ.Name)
		}
	}

	return view
}
