package responses

type MemberListItem struct {
	ID           uint       `json:"id"`
	FullName     string     `json:"full_name"`
	Email        string     `json:"email"`
	UserAvatar   string     `json:"user_avatar"`
	Birthday     *string    `json:"birthday"`
	Gender       *int       `json:"gender"`
	Bouldering   *string    `json:"bouldering"`
	TopRope      *string    `json:"top_rope"`
	LeadClimbing *string    `json:"lead_climbing"`
	Age          *int       `json:"age"`
	Submitted    int64      `json:"submitted"`
	LastUpdated  *Timestamp `json:"last_updated"`
}

// MemberPage is the paginated member list. Without page_size every member is on page 1.
type MemberPage struct {
	Count      int              `json:"count"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
	Results    []MemberListItem `json:"results"`
}

type MemberCount struct {
	TotalUserCount    int64 `json:"total_user_count"`
	LastWeekUserCount int64 `json:"last_week_user_count"`
}

// MemberProfile is what a gym may see of one member; sections are omitted per plan access
type MemberProfile struct {
	AccessLevel int               `json:"access_level"`
	ID          uint              `json:"id"`
	FullName    string            `json:"full_name"`
	Email       string            `json:"email"`
	CreatedAt   Timestamp         `json:"created_at"`
	UserAvatar  string            `json:"user_avatar"`
	Age         *int              `json:"age"`
	SignUpInfo  *MemberSignUpInfo `json:"sign_up_info,omitempty"`
	Biometric   *MemberBiometric  `json:"biometric,omitempty"`
}

type MemberSignUpInfo struct {
	PreferClimbing *int   `json:"prefer_climbing"`
	Bouldering     string `json:"bouldering"`
	TopRope        string `json:"top_rope"`
	LeadClimbing   string `json:"lead_climbing"`
}

type MemberBiometric struct {
	Gender   int      `json:"gender"`
	Birthday *string  `json:"birthday"`
	Height   *float64 `json:"height"`
	Wingspan *float64 `json:"wingspan"`
	ApeIndex *float64 `json:"ape_index"`
	Weight   *float64 `json:"weight"`
	ShoeSize *float64 `json:"shoe_size"`
	HandSize *float64 `json:"hand_size"`
}
