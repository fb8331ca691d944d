package responses

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   Timestamp `json:"expires_at"`
	UserID      uint      `json:"user_id"`
	Roles       []string  `json:"roles"`
}

type SignUpResponse struct {
	UserID  uint   `json:"user_id"`
	GymID   *uint  `json:"gym_id,omitempty"`
	Message string `json:"message"`
}

type PercentageResponse struct {
	BasicDetail     float64 `json:"basic_detail"`
	ClimbingDetail  float64 `json:"climbing_detail"`
	BiometricDetail float64 `json:"biometric_detail"`
	OverallDetail   float64 `json:"overall_detail"`
}
