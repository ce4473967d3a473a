package service

import (
	"slices"
	"time"
)

// calendarDay is a date without time of day or zone.
type calendarDay struct {
	year  int
	month time.Month
	day   int
}

// dayOf projects t onto its calendar day in loc.
func dayOf(t time.Time, loc *time.Location) calendarDay {
	y, m, d := t.In(loc).Date()
	return calendarDay{year: y, month: m, day: d}
}

// previous returns the calendar day before d. Arithmetic runs on UTC midnights,
// which have no DST transitions.
func (d calendarDay) previous() calendarDay {
	y, m, dd := time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1).Date()
	return calendarDay{year: y, month: m, day: dd}
}

func (d calendarDay) compare(o calendarDay) int {
	switch {
	case d.year != o.year:
		return d.year - o.year
	case d.month != o.month:
		return int(d.month) - int(o.month)
	default:
		return d.day - o.day
	}
}

// CalculateStreak returns the number of consecutive calendar days with at least one
// session, counting back from the most recent session day. The streak is alive only
// if that day is today or yesterday relative to now; otherwise it is 0.
// Days are taken in now's location.
func CalculateStreak(starts []time.Time, now time.Time) int {
	if len(starts) == 0 {
		return 0
	}

	loc := now.Location()
	days := make([]calendarDay, 0, len(starts))
	for _, t := range starts {
		days = append(days, dayOf(t, loc))
	}
	slices.SortFunc(days, func(a, b calendarDay) int { return b.compare(a) })
	days = slices.Compact(days)

	today := dayOf(now, loc)
	if days[0] != today && days[0] != today.previous() {
		return 0
	}

	streak := 1
	for i := 0; i < len(days)-1; i++ {
		if days[i+1] != days[i].previous() {
			break
		}
		streak++
	}
	return streak
}
