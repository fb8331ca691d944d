package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = errors.New("record not found")

// Scoped filters out soft-deleted rows of table unless includeDeleted is set.
func Scoped(table string, includeDeleted bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if includeDeleted {
			return db
		}
		return db.Where(table+".is_deleted = ?", false)
	}
}

// WeeklyCount is a running total plus the two trailing weekly windows used
// for week-over-week deltas.
type WeeklyCount struct {
	Total    int64 `gorm:"column:total"`
	ThisWeek int64 `gorm:"column:this_week"`
	LastWeek int64 `gorm:"column:last_week"`
}

// Delta is this week's count minus the previous week's
func (w WeeklyCount) Delta() int64 {
	return w.ThisWeek - w.LastWeek
}

// weeklySelect builds the conditional aggregate for column against the window
// boundaries: [from, mid) is last week and [mid, ...) is this week.
func weeklySelect(db *gorm.DB, column string, from, mid time.Time) *gorm.DB {
	return db.Select(
		"COUNT(*) AS total, "+
			"COALESCE(SUM(CASE WHEN "+column+" >= ? THEN 1 ELSE 0 END), 0) AS this_week, "+
			"COALESCE(SUM(CASE WHEN "+column+" >= ? AND "+column+" < ? THEN 1 ELSE 0 END), 0) AS last_week",
		mid, from, mid,
	)
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// ErrTokenExpired is returned when a verification token is past its expiry
var ErrTokenExpired = errors.New("token expired")
