package gorm

import "time"

type RouteFeedback struct {
	Base
	UserID         uint   `gorm:"column:user_id;index"`
	GymID          uint   `gorm:"column:gym_id;index"`
	RouteID        uint   `gorm:"column:route_id;index"`
	RouteProgress  *int   `gorm:"column:route_progress"`
	AttemptCount   int    `gorm:"column:attempt_count;default:0"`
	ClimbCount     int    `gorm:"column:climb_count;default:0"`
	Grade          *int   `gorm:"column:grade"`
	Rating         int    `gorm:"column:rating;default:0"`
	RouteNote      string `gorm:"column:route_note"`
	Feedback       string `gorm:"column:feedback"`
	FirstTimeRead  bool   `gorm:"column:first_time_read;default:false"`
	SecondTimeRead bool   `gorm:"column:second_time_read;default:false"`
}

func (RouteFeedback) TableName() string {
	return "route_feedbacks"
}

type WallVisit struct {
	Base
	UserID uint `gorm:"column:user_id;index"`
	WallID uint `gorm:"column:wall_id;index"`
}

func (WallVisit) TableName() string {
	return "wall_visits"
}

type GymVisit struct {
	Base
	UserID          uint  `gorm:"column:user_id;index"`
	GymID           uint  `gorm:"column:gym_id;index"`
	RouteFeedbackID *uint `gorm:"column:route_feedback_id"`
}

func (GymVisit) TableName() string {
	return "gym_visits"
}

type Announcement struct {
	Base
	GymID    uint   `gorm:"column:gym_id;index"`
	Title    string `gorm:"column:title"`
	SubTitle string `gorm:"column:sub_title"`
	Priority int    `gorm:"column:priority;default:0"`
	IsActive bool   `gorm:"column:is_active"`
	Banner   string `gorm:"column:banner"`
}

func (Announcement) TableName() string {
	return "announcements"
}

type Event struct {
	Base
	GymID       uint      `gorm:"column:gym_id;index"`
	Title       string    `gorm:"column:title"`
	StartDate   time.Time `gorm:"column:start_date"`
	Description string    `gorm:"column:description"`
}

func (Event) TableName() string {
	return "events"
}
