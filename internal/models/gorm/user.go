package gorm

import (
	"time"

	"climbing-gym/belay/internal/constants"
)

type User struct {
	Base
	Email           string `gorm:"column:email;uniqueIndex;not null"`
	Password        string `gorm:"column:password"`
	FullName        string `gorm:"column:full_name"`
	FirstName       string `gorm:"column:first_name"`
	LastName        string `gorm:"column:last_name"`
	Phone           string `gorm:"column:phone"`
	IsEmailVerified bool   `gorm:"column:is_email_verified;default:false"`
	IsActive        bool   `gorm:"column:is_active"`
	TokenVersion    int    `gorm:"column:token_version;default:0"`

	// Relationships
	Roles      []Role          `gorm:"foreignKey:UserID"`
	Details    *UserDetails    `gorm:"foreignKey:UserID"`
	Biometric  *UserBiometric  `gorm:"foreignKey:UserID"`
	Preference *UserPreference `gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

type Role struct {
	Base
	UserID     uint           `gorm:"column:user_id;index"`
	Name       constants.Role `gorm:"column:name"`
	RoleStatus bool           `gorm:"column:role_status"`
}

func (Role) TableName() string {
	return "roles"
}

type UserDetails struct {
	Base
	UserID         uint       `gorm:"column:user_id;uniqueIndex"`
	UserAvatar     string     `gorm:"column:user_avatar"`
	HomeGymID      *uint      `gorm:"column:home_gym_id;index"`
	HomeGymAddedOn *time.Time `gorm:"column:home_gym_added_on"`
	StrengthHold   []string   `gorm:"column:strength_hold;serializer:json;type:text"`
	StrengthMove   []string   `gorm:"column:strength_move;serializer:json;type:text"`
	WeaknessHold   []string   `gorm:"column:weakness_hold;serializer:json;type:text"`
	WeaknessMove   []string   `gorm:"column:weakness_move;serializer:json;type:text"`
	DeviceToken    string     `gorm:"column:device_token"`
	LoginCount     int        `gorm:"column:login_count;default:0"`
}

func (UserDetails) TableName() string {
	return "user_details"
}

type UserBiometric struct {
	Base
	UserID   uint       `gorm:"column:user_id;uniqueIndex"`
	Height   *float64   `gorm:"column:height"`
	Wingspan *float64   `gorm:"column:wingspan"`
	ApeIndex *float64   `gorm:"column:ape_index"`
	Gender   int        `gorm:"column:gender;default:0"`
	Birthday *time.Time `gorm:"column:birthday"`
	Weight   *float64   `gorm:"column:weight"`
	ShoeSize *float64   `gorm:"column:shoe_size"`
	HandSize *float64   `gorm:"column:hand_size"`
}

func (UserBiometric) TableName() string {
	return "user_biometrics"
}

type UserPreference struct {
	Base
	UserID            uint   `gorm:"column:user_id;uniqueIndex"`
	PreferClimbing    *int   `gorm:"column:prefer_climbing"`
	RopeGrading       string `gorm:"column:rope_grading"`
	BoulderingGrading string `gorm:"column:bouldering_grading"`
	Bouldering        string `gorm:"column:bouldering"`
	TopRope           string `gorm:"column:top_rope"`
	LeadClimbing      string `gorm:"column:lead_climbing"`
}

func (UserPreference) TableName() string {
	return "user_preferences"
}

// UserDetailPercentage is the stored profile completion snapshot
type UserDetailPercentage struct {
	Base
	UserID          uint    `gorm:"column:user_id;uniqueIndex"`
	BasicDetail     float64 `gorm:"column:basic_detail;default:0"`
	ClimbingDetail  float64 `gorm:"column:climbing_detail;default:0"`
	BiometricDetail float64 `gorm:"column:biometric_detail;default:0"`
	OverallDetail   float64 `gorm:"column:overall_detail;default:0"`
}

func (UserDetailPercentage) TableName() string {
	return "user_detail_percentages"
}

type AccountVerification struct {
	Base
	UserID           uint      `gorm:"column:user_id;index"`
	Token            string    `gorm:"column:token;uniqueIndex"`
	ExpiredAt        time.Time `gorm:"column:expired_at"`
	IsUsed           bool      `gorm:"column:is_used;default:false"`
	VerificationType int       `gorm:"column:verification_type"`
}

func (AccountVerification) TableName() string {
	return "account_verifications"
}
