package gorm

type Gym struct {
	Base
	UserID          uint   `gorm:"column:user_id;uniqueIndex"`
	GymName         string `gorm:"column:gym_name"`
	Phone           string `gorm:"column:phone"`
	Address         string `gorm:"column:address"`
	Zipcode         string `gorm:"column:zipcode"`
	RopeClimbing    *int   `gorm:"column:rope_climbing"`
	Bouldering      *int   `gorm:"column:bouldering"`
	IsActive        bool   `gorm:"column:is_active"`
	IsAdminApproved bool   `gorm:"column:is_admin_approved;default:false"`

	// Relationships
	User User `gorm:"foreignKey:UserID"`
}

func (Gym) TableName() string {
	return "gym_details"
}

type GymBlockedUser struct {
	Base
	GymID  uint `gorm:"column:gym_id;uniqueIndex:idx_gym_blocked"`
	UserID uint `gorm:"column:user_id;uniqueIndex:idx_gym_blocked"`
}

func (GymBlockedUser) TableName() string {
	return "gym_blocked_users"
}

type GymLayout struct {
	Base
	GymID        uint   `gorm:"column:gym_id;index"`
	ClimbingType int    `gorm:"column:climbing_type"`
	LayoutImage  string `gorm:"column:layout_image"`
}

func (GymLayout) TableName() string {
	return "gym_layouts"
}

type LayoutSection struct {
	Base
	GymLayoutID uint   `gorm:"column:gym_layout_id;index"`
	Name        string `gorm:"column:name"`
}

func (LayoutSection) TableName() string {
	return "layout_sections"
}

type SectionWall struct {
	Base
	GymLayoutID        uint   `gorm:"column:gym_layout_id;index"`
	GymLayoutSectionID uint   `gorm:"column:gym_layout_section_id;index"`
	Name               string `gorm:"column:name"`
	Category           string `gorm:"column:category"`
	WallTypeID         *uint  `gorm:"column:wall_type_id"`
	Image              string `gorm:"column:image"`
	CreatedBy          uint   `gorm:"column:created_by"`
}

func (SectionWall) TableName() string {
	return "section_walls"
}

type WallType struct {
	Base
	GymID uint   `gorm:"column:gym_id;index"`
	Name  string `gorm:"column:name"`
}

func (WallType) TableName() string {
	return "wall_types"
}

type ColorType struct {
	Base
	GymID    uint   `gorm:"column:gym_id;index"`
	Name     string `gorm:"column:name"`
	HexValue string `gorm:"column:hex_value"`
}

func (ColorType) TableName() string {
	return "color_types"
}

type RouteType struct {
	Base
	GymID uint   `gorm:"column:gym_id;index"`
	Name  string `gorm:"column:name"`
}

func (RouteType) TableName() string {
	return "route_types"
}

// GradeType is a grade value within a grading system sub category (1, 2, 10, 11)
type GradeType struct {
	Base
	GradingSystem    int    `gorm:"column:grading_system"`
	SubCategory      int    `gorm:"column:sub_category;index"`
	SubCategoryValue string `gorm:"column:sub_category_value"`
}

func (GradeType) TableName() string {
	return "grade_types"
}

type WallRoute struct {
	Base
	SectionWallID uint   `gorm:"column:section_wall_id;index"`
	Name          string `gorm:"column:name"`
	GradeID       *uint  `gorm:"column:grade_id"`
	ColorID       *uint  `gorm:"column:color_id"`
	RouteTypeID   *uint  `gorm:"column:route_type_id"`
	SettersTip    string `gorm:"column:setters_tip"`
	CreatedBy     uint   `gorm:"column:created_by"`
}

func (WallRoute) TableName() string {
	return "wall_routes"
}
