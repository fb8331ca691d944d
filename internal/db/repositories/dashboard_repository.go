package repositories

import (
	"context"
	"fmt"
	"time"

	gormModels "climbing-gym/belay/internal/models/gorm"

	"gorm.io/gorm"
)

type DashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// WallCounts counts every wall of the gym, soft-deleted ones included
func (r *DashboardRepository) WallCounts(ctx context.Context, gymID uint, from, mid time.Time) (WeeklyCount, error) {
	var wc WeeklyCount
	q := r.db.WithContext(ctx).
		Table("section_walls sw").
		Joins("JOIN gym_layouts gl ON gl.id = sw.gym_layout_id").
		Where("gl.gym_id = ?", gymID)
	if err := weeklySelect(q, "sw.created_at", from, mid).Scan(&wc).Error; err != nil {
		return WeeklyCount{}, fmt.Errorf("failed to count walls: %w", err)
	}
	return wc, nil
}

// FeedbackCounts counts feedback at the gym on non-deleted routes whose progress is in progresses
func (r *DashboardRepository) FeedbackCounts(ctx context.Context, gymID uint, progresses []int, from, mid time.Time) (WeeklyCount, error) {
	var wc WeeklyCount
	q := r.gymFeedback(ctx, gymID).Where("rf.route_progress IN ?", progresses)
	if err := weeklySelect(q, "rf.created_at", from, mid).Scan(&wc).Error; err != nil {
		return WeeklyCount{}, fmt.Errorf("failed to count feedback: %w", err)
	}
	return wc, nil
}

func (r *DashboardRepository) gymFeedback(ctx context.Context, gymID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("route_feedbacks rf").
		Joins("JOIN wall_routes wr ON wr.id = rf.route_id AND wr.is_deleted = ?", false).
		Where("rf.gym_id = ? AND rf.is_deleted = ?", gymID, false)
}

func (r *DashboardRepository) WallVisitCounts(ctx context.Context, gymID uint, from, mid time.Time) (WeeklyCount, error) {
	var wc WeeklyCount
	q := r.db.WithContext(ctx).
		Table("wall_visits wv").
		Joins("JOIN section_walls sw ON sw.id = wv.wall_id").
		Joins("JOIN gym_layouts gl ON gl.id = sw.gym_layout_id").
		Where("gl.gym_id = ? AND wv.is_deleted = ?", gymID, false)
	if err := weeklySelect(q, "wv.created_at", from, mid).Scan(&wc).Error; err != nil {
		return WeeklyCount{}, fmt.Errorf("failed to count wall visits: %w", err)
	}
	return wc, nil
}

// gymRoutes selects the gym's non-deleted routes
func (r *DashboardRepository) gymRoutes(ctx context.Context, gymID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("wall_routes wr").
		Joins("JOIN section_walls sw ON sw.id = wr.section_wall_id").
		Joins("JOIN gym_layouts gl ON gl.id = sw.gym_layout_id").
		Where("gl.gym_id = ? AND wr.is_deleted = ?", gymID, false)
}

type keyCount struct {
	Key   uint  `gorm:"column:group_key"`
	Count int64 `gorm:"column:count"`
}

// RouteTypeCounts returns non-deleted route counts keyed by route type id, and
// the number of routes that have any route type.
func (r *DashboardRepository) RouteTypeCounts(ctx context.Context, gymID uint) (map[uint]int64, int64, error) {
	var rows []keyCount
	err := r.gymRoutes(ctx, gymID).
		Select("wr.route_type_id AS group_key, COUNT(*) AS count").
		Where("wr.route_type_id IS NOT NULL").
		Group("wr.route_type_id").
		Scan(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count route types: %w", err)
	}

	counts := make(map[uint]int64, len(rows))
	var total int64
	for _, row := range rows {
		counts[row.Key] = row.Count
		total += row.Count
	}
	return counts, total, nil
}

// GradeTypes lists grade values of one grading sub category in id order
func (r *DashboardRepository) GradeTypes(ctx context.Context, gradingSystem, subCategory int) ([]gormModels.GradeType, error) {
	var grades []gormModels.GradeType
	err := r.db.WithContext(ctx).
		Scopes(Scoped("grade_types", false)).
		Where("grading_system = ? AND sub_category = ?", gradingSystem, subCategory).
		Order("id").
		Find(&grades).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch grade types: %w", err)
	}
	return grades, nil
}

// RouteGradeCounts returns non-deleted route counts keyed by grade id
func (r *DashboardRepository) RouteGradeCounts(ctx context.Context, gymID uint) (map[uint]int64, error) {
	var rows []keyCount
	err := r.gymRoutes(ctx, gymID).
		Select("wr.grade_id AS group_key, COUNT(*) AS count").
		Where("wr.grade_id IS NOT NULL").
		Group("wr.grade_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count route grades: %w", err)
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.Key] = row.Count
	}
	return counts, nil
}

// GradeVotes returns community grade vote counts for one route keyed by vote value
func (r *DashboardRepository) GradeVotes(ctx context.Context, gymID, routeID uint) (map[int]int64, error) {
	var rows []struct {
		Grade int   `gorm:"column:grade"`
		Count int64 `gorm:"column:count"`
	}
	err := r.gymFeedback(ctx, gymID).
		Select("rf.grade AS grade, COUNT(*) AS count").
		Where("rf.route_id = ? AND rf.grade IS NOT NULL", routeID).
		Group("rf.grade").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count grade votes: %w", err)
	}

	votes := make(map[int]int64, len(rows))
	for _, row := range rows {
		votes[row.Grade] = row.Count
	}
	return votes, nil
}

// GymVisitCounts counts the user's visits to the gym in [thisWeek, ...) and [lastWeek, thisWeek)
func (r *DashboardRepository) GymVisitCounts(ctx context.Context, gymID, userID uint, lastWeek, thisWeek time.Time) (WeeklyCount, error) {
	var wc WeeklyCount
	q := r.db.WithContext(ctx).
		Table("gym_visits gv").
		Where("gv.gym_id = ? AND gv.user_id = ? AND gv.is_deleted = ?", gymID, userID, false)
	if err := weeklySelect(q, "gv.created_at", lastWeek, thisWeek).Scan(&wc).Error; err != nil {
		return WeeklyCount{}, fmt.Errorf("failed to count gym visits: %w", err)
	}
	return wc, nil
}
