package responses

type WeeklyCounter struct {
	Count         int64 `json:"count"`
	LastWeekCount int64 `json:"last_week_count"`
}

type GradeCount struct {
	GradeID uint   `json:"grade_id"`
	Value   string `json:"sub_category_value"`
	Count   int64  `json:"count"`
}

// RopeBoulderingGraph reports -1 totals and null data for a system the gym does not use
type RopeBoulderingGraph struct {
	TotalRopeClimbingCount int64        `json:"total_rope_climbing_count"`
	RopeClimbingData       []GradeCount `json:"rope_climbing_data"`
	TotalBoulderingCount   int64        `json:"total_bouldering_count"`
	BoulderingData         []GradeCount `json:"bouldering_data"`
}

type DashboardSummary struct {
	WallCount           WeeklyCounter       `json:"wall_count"`
	RouteAttemptCount   WeeklyCounter       `json:"route_attempt_count"`
	TotalMemberCount    WeeklyCounter       `json:"total_member_count"`
	TotalWallVisit      WeeklyCounter       `json:"total_wall_visit"`
	RopeBoulderingGraph RopeBoulderingGraph `json:"rope_bouldering_graph"`
}

type FeedbackCounts struct {
	ProjectingCount         int64 `json:"projecting_count"`
	LastWeekProjectingCount int64 `json:"last_week_projecting_count"`
	RedPointCount           int64 `json:"red_point_count"`
	LastWeekRedPointCount   int64 `json:"last_week_red_point_count"`
	FlashCount              int64 `json:"flash_count"`
	LastWeekFlashCount      int64 `json:"last_week_flash_count"`
	OnSightCount            int64 `json:"on_sight_count"`
	LastWeekOnSightCount    int64 `json:"last_week_on_sight_count"`
	TotalRFOCount           int64 `json:"total_rfo_count"`
	LastWeekTotalRFOCount   int64 `json:"last_week_total_rfo_count"`
}

type RouteTypeShare struct {
	RouteTypeID             uint    `json:"route_type_id"`
	RouteTypeName           string  `json:"route_type_name"`
	SpecificRouteCount      int64   `json:"specific_route_count"`
	SpecificRoutePercentage float64 `json:"specific_route_percentage"`
}

type RouteTypeCount struct {
	TotalRouteCount int64            `json:"total_route_count"`
	RouteTypes      []RouteTypeShare `json:"route_types"`
}

type RangeBucket struct {
	Key   string `json:"key"`
	Value int64  `json:"value"`
}

type LevelCount struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

type RopeLevelRange struct {
	GradingName  string       `json:"grading_name"`
	TopRope      []LevelCount `json:"top_rope"`
	LeadClimbing []LevelCount `json:"lead_climbing"`
}

type BoulderingLevelRange struct {
	GradingName string       `json:"grading_name"`
	LevelData   []LevelCount `json:"level_data"`
}

type ClimbingLevelRange struct {
	RopeClimbing *RopeLevelRange       `json:"YDS_Scale_Or_Francia,omitempty"`
	Bouldering   *BoulderingLevelRange `json:"V_System_Or_Fontainebleau,omitempty"`
}

type RangeData struct {
	ClimbingLevelRange ClimbingLevelRange `json:"climbing_level_range"`
	HeightRange        []RangeBucket      `json:"height_range"`
	WingspanRange      []RangeBucket      `json:"wingspan_range"`
}

type DashboardDetails struct {
	RangeData         RangeData      `json:"range_data"`
	UserRouteFeedback FeedbackCounts `json:"user_route_feedback"`
	RouteTypeCount    RouteTypeCount `json:"route_type_count"`
}

type GymVisits struct {
	ThisWeek int64 `json:"this_week"`
	LastWeek int64 `json:"last_week"`
}
