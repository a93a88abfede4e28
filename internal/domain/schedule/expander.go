package schedule

import (
	"time"

	"github.com/glowdesk/spa-scheduler/internal/timezone"
)

// Expand turns raw per-staff availability windows into concrete bookable
// slots for the given service. Pure: the result depends only on the inputs.
//
// Rules:
//   - staff outside the service's eligible set never produce slots
//   - staff missing from the roster never produce slots
//   - slots starting before horizonStart are dropped
//   - every slot lasts exactly the service duration
func Expand(
	svc ServiceInfo,
	windows []RawWindow,
	roster []StaffInfo,
	tz string,
	horizonStart time.Time,
) []Slot {

	loc := timezone.Location(tz)
	duration := time.Duration(svc.DurationMin) * time.Minute
	if duration <= 0 {
		return nil
	}

	eligible := make(map[uint]bool, len(svc.EligibleStaff))
	for _, id := range svc.EligibleStaff {
		eligible[id] = true
	}

	names := make(map[uint]string, len(roster))
	for _, m := range roster {
		names[m.ID] = m.Name
	}

	var slots []Slot
	for _, w := range windows {
		if !eligible[w.StaffID] {
			continue
		}
		name, ok := names[w.StaffID]
		if !ok {
			continue
		}

		for cur := w.Start; !cur.Add(duration).After(w.End); cur = cur.Add(duration) {
			if cur.Before(horizonStart) {
				continue
			}

			start := cur.In(loc)
			slots = append(slots, Slot{
				ID:        SlotID(w.StaffID, start),
				ServiceID: svc.ID,
				StaffID:   w.StaffID,
				StaffName: name,
				Start:     start,
				End:       start.Add(duration),
			})
		}
	}

	return slots
}

// FilterByStaff keeps only slots for the given staff member. A zero id means
// "any staff" and returns the input unchanged.
func FilterByStaff(slots []Slot, staffID uint) []Slot {
	if staffID == 0 {
		return slots
	}
	out := make([]Slot, 0, len(slots))
	for _, s := range slots {
		if s.StaffID == staffID {
			out = append(out, s)
		}
	}
	return out
}
