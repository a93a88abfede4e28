package schedule

import (
	"sort"
	"time"

	"github.com/glowdesk/spa-scheduler/internal/timezone"
)

// DayGroup holds one calendar day's slots in the display timezone,
// ordered by start time ascending.
type DayGroup struct {
	Label string    `json:"label"`
	Date  time.Time `json:"date"`
	Slots []Slot    `json:"slots"`
}

const dayLabelFormat = "Monday, Jan 2"

// GroupByDay partitions slots by their localized calendar date. The returned
// groups are chronological, so iteration order is a property of the slice and
// not of any map. Empty input yields an empty grouping.
func GroupByDay(slots []Slot, tz string) []DayGroup {
	if len(slots) == 0 {
		return []DayGroup{}
	}

	loc := timezone.Location(tz)

	sorted := make([]Slot, len(slots))
	copy(sorted, slots)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Start.Equal(sorted[j].Start) {
			return sorted[i].Start.Before(sorted[j].Start)
		}
		return sorted[i].StaffID < sorted[j].StaffID
	})

	var groups []DayGroup
	for _, s := range sorted {
		local := s.Start.In(loc)
		day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

		if len(groups) == 0 || !groups[len(groups)-1].Date.Equal(day) {
			groups = append(groups, DayGroup{
				Label: local.Format(dayLabelFormat),
				Date:  day,
			})
		}
		last := len(groups) - 1
		groups[last].Slots = append(groups[last].Slots, s)
	}

	return groups
}
