package availability

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/glowdesk/spa-scheduler/internal/domain/booking"
	"github.com/glowdesk/spa-scheduler/internal/domain/schedule"
	"github.com/glowdesk/spa-scheduler/internal/models"
	"github.com/glowdesk/spa-scheduler/internal/timezone"
)

// WorkingHoursProvider derives raw windows from each staff member's
// per-weekday working hours, minus the break and minus intervals already
// booked. The expander downstream stays agnostic of all of this.
type WorkingHoursProvider struct {
	db *gorm.DB
}

func NewWorkingHoursProvider(db *gorm.DB) *WorkingHoursProvider {
	return &WorkingHoursProvider{db: db}
}

type interval struct {
	start time.Time
	end   time.Time
}

func (p *WorkingHoursProvider) Windows(
	ctx context.Context,
	salon *models.Salon,
	svc *models.Service,
	horizonStart time.Time,
	horizonDays int,
) ([]schedule.RawWindow, error) {

	loc := timezone.Location(salon.Timezone)
	horizonEnd := horizonStart.AddDate(0, 0, horizonDays)

	var windows []schedule.RawWindow

	for _, staff := range svc.Staff {
		if !staff.Active {
			continue
		}

		var hours []models.WorkingHours
		if err := p.db.WithContext(ctx).
			Where("staff_id = ? AND active = true", staff.ID).
			Find(&hours).Error; err != nil {
			return nil, err
		}
		if len(hours) == 0 {
			continue
		}

		byWeekday := make(map[int]models.WorkingHours, len(hours))
		for _, h := range hours {
			byWeekday[h.Weekday] = h
		}

		busy, err := p.bookedIntervals(ctx, staff.ID, horizonStart, horizonEnd)
		if err != nil {
			return nil, err
		}

		day := time.Date(
			horizonStart.In(loc).Year(),
			horizonStart.In(loc).Month(),
			horizonStart.In(loc).Day(),
			0, 0, 0, 0,
			loc,
		)

		for d := 0; d < horizonDays; d++ {
			cur := day.AddDate(0, 0, d)

			wh, ok := byWeekday[int(cur.Weekday())]
			if !ok || wh.StartTime == "" || wh.EndTime == "" {
				continue
			}

			open := interval{
				start: atClock(cur, wh.StartTime),
				end:   atClock(cur, wh.EndTime),
			}
			if !open.end.After(open.start) {
				continue
			}

			free := []interval{open}
			if wh.BreakStart != "" && wh.BreakEnd != "" {
				free = subtract(free, interval{
					start: atClock(cur, wh.BreakStart),
					end:   atClock(cur, wh.BreakEnd),
				})
			}
			for _, b := range busy {
				free = subtract(free, b)
			}

			for _, f := range free {
				windows = append(windows, schedule.RawWindow{
					StaffID: staff.ID,
					Start:   f.start,
					End:     f.end,
				})
			}
		}
	}

	return windows, nil
}

func (p *WorkingHoursProvider) bookedIntervals(
	ctx context.Context,
	staffID uint,
	start time.Time,
	end time.Time,
) ([]interval, error) {

	var bookings []models.Booking
	if err := p.db.WithContext(ctx).
		Where("staff_id = ? AND status = ? AND start_time < ? AND end_time > ?",
			staffID, string(booking.StatusScheduled), end, start).
		Find(&bookings).Error; err != nil {
		return nil, err
	}

	out := make([]interval, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, interval{start: b.StartTime, end: b.EndTime})
	}
	return out, nil
}

func atClock(day time.Time, hm string) time.Time {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return day
	}
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		t.Hour(), t.Minute(), 0, 0,
		day.Location(),
	)
}

// subtract removes the busy interval from every free interval, splitting
// where the busy range falls in the middle.
func subtract(free []interval, busy interval) []interval {
	if !busy.end.After(busy.start) {
		return free
	}

	var out []interval
	for _, f := range free {
		if !busy.start.Before(f.end) || !busy.end.After(f.start) {
			out = append(out, f)
			continue
		}
		if busy.start.After(f.start) {
			out = append(out, interval{start: f.start, end: busy.start})
		}
		if busy.end.Before(f.end) {
			out = append(out, interval{start: busy.end, end: f.end})
		}
	}
	return out
}
