package services

import (
	"time"

	"climbing-gym/belay/internal/db/repositories"
)

// weekWindow holds the boundaries for week-over-week deltas: last week is
// [from, mid) and this week is [mid, today].
type weekWindow struct {
	from   time.Time
	mid    time.Time
	newGym bool
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// newWeekWindow computes today-14 and today-7. Gyms whose owner account was
// created on or after today-7 report zero deltas.
func newWeekWindow(now, ownerCreatedAt time.Time) weekWindow {
	today := startOfDay(now)
	mid := today.AddDate(0, 0, -7)
	created := startOfDay(ownerCreatedAt.In(now.Location()))
	return weekWindow{
		from:   today.AddDate(0, 0, -14),
		mid:    mid,
		newGym: !created.Before(mid),
	}
}

func (w weekWindow) delta(wc repositories.WeeklyCount) int64 {
	if w.newGym {
		return 0
	}
	return wc.Delta()
}
