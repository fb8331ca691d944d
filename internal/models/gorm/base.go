package gorm

import "time"

// Base carries the columns every table shares. Soft delete is a flag plus a
// timestamp; queries opt in to deleted rows explicitly.
type Base struct {
	ID        uint       `gorm:"column:id;primaryKey;autoIncrement"`
	IsDeleted bool       `gorm:"column:is_deleted;default:false;index"`
	DeletedAt *time.Time `gorm:"column:deleted_at"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// AllModels lists every table in dependency order for AutoMigrate.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Role{},
		&SubscriptionPlan{},
		&Gym{},
		&GymBlockedUser{},
		&UserDetails{},
		&UserBiometric{},
		&UserPreference{},
		&UserDetailPercentage{},
		&AccountVerification{},
		&GymLayout{},
		&LayoutSection{},
		&WallType{},
		&ColorType{},
		&RouteType{},
		&GradeType{},
		&SectionWall{},
		&WallRoute{},
		&RouteFeedback{},
		&WallVisit{},
		&GymVisit{},
		&Announcement{},
		&Event{},
		&UserSubscription{},
		&StripeCustomer{},
		&Transaction{},
	}
}
