package constants

const (
	MsgStaffLimitFmt = "Upgrade your plan to add more staff member (Current limit -> %d)."
	MsgWallLimitFmt  = "Upgrade your plan to add more walls (Current limit -> %d)."
)

const (
	MsgSignupSuccess      = "Account created. Please verify your email."
	MsgEmailVerified      = "Email verified"
	MsgPasswordChanged    = "Password changed"
	MsgMemberBlocked      = "Member removed from gym"
	MsgSubscriptionEnded  = "Subscription ended"
	MsgWebhookAcknowledge = "received"
	MsgInvalidPage        = "Invalid page."
)
