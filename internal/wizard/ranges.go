// ABOUTME: Closure-date range collapsing for the recap view
// ABOUTME: Adjacent calendar dates fold into contiguous ranges

package wizard

import (
	"sort"
	"time"
)

const (
	closureDateLayout = "2006-01-02" // storage format
	displayDateLayout = "02/01/2006" // recap display format
)

// DateRange is one contiguous closure period, formatted for display. A
// single-day closure has Start == End.
type DateRange struct {
	Start string `json:"start"` // "DD/MM/YYYY"
	End   string `json:"end"`   // "DD/MM/YYYY"
}

// CollapseClosureDates folds a set of "YYYY-MM-DD" dates into contiguous
// display ranges. Two dates belong to the same range iff they are exactly
// one calendar day apart. Input order does not matter; duplicates and
// unparseable entries are ignored.
func CollapseClosureDates(dates []string) []DateRange {
	parsed := make([]time.Time, 0, len(dates))
	seen := make(map[string]bool, len(dates))
	for _, raw := range dates {
		if seen[raw] {
			continue
		}
		seen[raw] = true
		t, err := time.Parse(closureDateLayout, raw)
		if err != nil {
			continue
		}
		parsed = append(parsed, t)
	}

	if len(parsed) == 0 {
		return nil
	}

	sort.Slice(parsed, func(i, j int) bool { return parsed[i].Before(parsed[j]) })

	var ranges []DateRange
	start, end := parsed[0], parsed[0]
	for _, t := range parsed[1:] {
		if t.Sub(end) == 24*time.Hour {
			end = t
			continue
		}
		ranges = append(ranges, DateRange{
			Start: start.Format(displayDateLayout),
			End:   end.Format(displayDateLayout),
		})
		start, end = t, t
	}
	ranges = append(ranges, DateRange{
		Start: start.Format(displayDateLayout),
		End:   end.Format(displayDateLayout),
	})

	return ranges
}
