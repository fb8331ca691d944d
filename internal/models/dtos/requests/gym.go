package requests

type AddStaffRequest struct {
	UserID uint `json:"user_id" validate:"required"`
}

type CreateWallRequest struct {
	GymLayoutID        uint   `json:"gym_layout_id" validate:"required"`
	GymLayoutSectionID uint   `json:"gym_layout_section_id" validate:"required"`
	Name               string `json:"name" validate:"required,max=120"`
	Category           string `json:"category" validate:"omitempty,max=60"`
	WallTypeID         *uint  `json:"wall_type_id"`
	Image              string `json:"image" validate:"omitempty,url"`
}

type CreateAnnouncementRequest struct {
	Title    string `json:"title" validate:"required,max=200"`
	SubTitle string `json:"sub_title" validate:"omitempty,max=500"`
	Priority int    `json:"priority" validate:"min=0,max=10"`
	Banner   string `json:"banner" validate:"omitempty,url"`
	Notify   bool   `json:"notify"`
}
