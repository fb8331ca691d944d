package requests

type UpdateBasicRequest struct {
	FullName          *string `json:"full_name" validate:"omitempty,max=120"`
	UserAvatar        *string `json:"user_avatar" validate:"omitempty,max=500"`
	PreferClimbing    *int    `json:"prefer_climbing" validate:"omitempty,min=0,max=2"`
	RopeGrading       *string `json:"rope_grading" validate:"omitempty,oneof='YDS Scale' Francia"`
	BoulderingGrading *string `json:"bouldering_grading" validate:"omitempty,oneof='V System' Fontainebleau"`
	Bouldering        *string `json:"bouldering" validate:"omitempty,max=20"`
	TopRope           *string `json:"top_rope" validate:"omitempty,max=20"`
	LeadClimbing      *string `json:"lead_climbing" validate:"omitempty,max=20"`
}

type UpdateBiometricRequest struct {
	Height   *float64 `json:"height" validate:"omitempty,gt=0"`
	Wingspan *float64 `json:"wingspan" validate:"omitempty,gt=0"`
	ApeIndex *float64 `json:"ape_index"`
	Gender   *int     `json:"gender" validate:"omitempty,min=0,max=3"`
	Birthday *string  `json:"birthday" validate:"omitempty,datetime=2006-01-02"`
	Weight   *float64 `json:"weight" validate:"omitempty,gt=0"`
	ShoeSize *float64 `json:"shoe_size" validate:"omitempty,gt=0"`
	HandSize *float64 `json:"hand_size" validate:"omitempty,gt=0"`
}

type UpdateClimbingRequest struct {
	StrengthHold []string `json:"strength_hold" validate:"omitempty,dive,max=50"`
	StrengthMove []string `json:"strength_move" validate:"omitempty,dive,max=50"`
	WeaknessHold []string `json:"weakness_hold" validate:"omitempty,dive,max=50"`
	WeaknessMove []string `json:"weakness_move" validate:"omitempty,dive,max=50"`
}
