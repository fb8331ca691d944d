package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	gormModels "climbing-gym/belay/internal/models/gorm"

	"gorm.io/gorm"
)

// MemberRow is one gym member as read for the member list
type MemberRow struct {
	UserID            uint       `gorm:"column:user_id"`
	FullName          string     `gorm:"column:full_name"`
	Email             string     `gorm:"column:email"`
	UserAvatar        string     `gorm:"column:user_avatar"`
	HomeGymAddedOn    *time.Time `gorm:"column:home_gym_added_on"`
	Birthday          *time.Time `gorm:"column:birthday"`
	Gender            *int       `gorm:"column:gender"`
	RopeGrading       *string    `gorm:"column:rope_grading"`
	BoulderingGrading *string    `gorm:"column:bouldering_grading"`
	Bouldering        *string    `gorm:"column:bouldering"`
	TopRope           *string    `gorm:"column:top_rope"`
	LeadClimbing      *string    `gorm:"column:lead_climbing"`
	Height            *float64   `gorm:"column:height"`
	Wingspan          *float64   `gorm:"column:wingspan"`
}

// FeedbackStamp is one feedback row counted toward a member's activity
type FeedbackStamp struct {
	UserID    uint      `gorm:"column:user_id"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// membersOf selects active, non-deleted users whose home gym is gymID
func (r *MemberRepository) membersOf(ctx context.Context, gymID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN user_details ud ON ud.user_id = users.id").
		Where("ud.home_gym_id = ? AND users.is_deleted = ? AND users.is_active = ?", gymID, false, true)
}

// BaseMembers returns the gym's members in store order (user id ascending)
func (r *MemberRepository) BaseMembers(ctx context.Context, gymID uint) ([]MemberRow, error) {
	var rows []MemberRow
	err := r.membersOf(ctx, gymID).
		Select("users.id AS user_id, users.full_name, users.email, ud.user_avatar, ud.home_gym_added_on, " +
			"ub.birthday, ub.gender, ub.height, ub.wingspan, " +
			"up.rope_grading, up.bouldering_grading, up.bouldering, up.top_rope, up.lead_climbing").
		Joins("LEFT JOIN user_biometrics ub ON ub.user_id = users.id").
		Joins("LEFT JOIN user_preferences up ON up.user_id = users.id").
		Order("users.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch gym members: %w", err)
	}
	return rows, nil
}

// FeedbackStamps returns the feedback rows at the gym whose route is not deleted
func (r *MemberRepository) FeedbackStamps(ctx context.Context, gymID uint) ([]FeedbackStamp, error) {
	var stamps []FeedbackStamp
	err := r.db.WithContext(ctx).
		Table("route_feedbacks rf").
		Select("rf.user_id, rf.updated_at").
		Joins("JOIN wall_routes wr ON wr.id = rf.route_id AND wr.is_deleted = ?", false).
		Where("rf.gym_id = ? AND rf.is_deleted = ?", gymID, false).
		Scan(&stamps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feedback activity: %w", err)
	}
	return stamps, nil
}

// UserIDsWithRouteMatch returns users with feedback at the gym on a route whose
// name contains term, case-insensitively.
func (r *MemberRepository) UserIDsWithRouteMatch(ctx context.Context, gymID uint, term string) ([]uint, error) {
	var ids []uint
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	err := r.db.WithContext(ctx).
		Table("route_feedbacks rf").
		Distinct().
		Joins("JOIN wall_routes wr ON wr.id = rf.route_id").
		Where("rf.gym_id = ? AND rf.is_deleted = ?", gymID, false).
		Where("LOWER(wr.name) LIKE ? ESCAPE '\\'", pattern).
		Pluck("rf.user_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search submitted routes: %w", err)
	}
	return ids, nil
}

// MemberWeeklyCount counts members and how many joined in each trailing week
func (r *MemberRepository) MemberWeeklyCount(ctx context.Context, gymID uint, from, mid time.Time) (WeeklyCount, error) {
	var wc WeeklyCount
	err := weeklySelect(r.membersOf(ctx, gymID), "ud.home_gym_added_on", from, mid).Scan(&wc).Error
	if err != nil {
		return WeeklyCount{}, fmt.Errorf("failed to count members: %w", err)
	}
	return wc, nil
}

// PreferenceLevel is a count of members sharing one grading level value
type PreferenceLevel struct {
	Value string `gorm:"column:value"`
	Count int64  `gorm:"column:count"`
}

// LevelCounts groups the gym's members that use grading by the given
// preference column (top_rope, lead_climbing or bouldering).
func (r *MemberRepository) LevelCounts(ctx context.Context, gymID uint, gradingColumn, grading, levelColumn string) ([]PreferenceLevel, error) {
	switch gradingColumn {
	case "rope_grading", "bouldering_grading":
	default:
		return nil, fmt.Errorf("unsupported grading column %q", gradingColumn)
	}
	switch levelColumn {
	case "top_rope", "lead_climbing", "bouldering":
	default:
		return nil, fmt.Errorf("unsupported level column %q", levelColumn)
	}

	var levels []PreferenceLevel
	err := r.membersOf(ctx, gymID).
		Select("up."+levelColumn+" AS value, COUNT(*) AS count").
		Joins("JOIN user_preferences up ON up.user_id = users.id").
		Where("up."+gradingColumn+" = ?", grading).
		Where("up." + levelColumn + " IS NOT NULL AND up." + levelColumn + " <> ''").
		Group("up." + levelColumn).
		Order("up." + levelColumn).
		Scan(&levels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count climbing levels: %w", err)
	}
	return levels, nil
}

// IsMember reports whether userID currently calls gymID home
func (r *MemberRepository) IsMember(ctx context.Context, gymID, userID uint) (bool, error) {
	var count int64
	err := r.membersOf(ctx, gymID).Where("users.id = ?", userID).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return count > 0, nil
}

// Profile loads a member with everything the profile view may expose
func (r *MemberRepository) Profile(ctx context.Context, userID uint) (*gormModels.User, error) {
	var user gormModels.User
	err := r.db.WithContext(ctx).
		Scopes(Scoped("users", false)).
		Preload("Details").
		Preload("Biometric").
		Preload("Preference").
		Where("users.id = ?", userID).
		First(&user).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch member profile: %w", mapNotFound(err))
	}
	return &user, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
