package requests

type SignUpRequest struct {
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=8,max=128"`
	FullName       string `json:"full_name" validate:"required,max=120"`
	PreferClimbing *int   `json:"prefer_climbing" validate:"omitempty,min=0,max=2"`
}

type GymSignUpRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8,max=128"`
	FullName     string `json:"full_name" validate:"required,max=120"`
	GymName      string `json:"gym_name" validate:"required,max=120"`
	Phone        string `json:"phone" validate:"omitempty,max=20"`
	Address      string `json:"address" validate:"omitempty,max=255"`
	Zipcode      string `json:"zipcode" validate:"omitempty,max=12"`
	RopeClimbing *int   `json:"rope_climbing" validate:"omitempty,oneof=1 2"`
	Bouldering   *int   `json:"bouldering" validate:"omitempty,oneof=10 11"`
}

type LoginRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	DeviceToken string `json:"device_token" validate:"omitempty,max=255"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=128,nefield=OldPassword"`
}
