package constants

// Redis stream names for outbound delivery
const (
	StreamOutboundTasks = "outbound:tasks"
	StreamOutboundDead  = "outbound:dead"
	GroupOutbound       = "outbound-workers"
)

// Outbound task kinds
const (
	TaskEmailHTML  = "email_html"
	TaskEmailPlain = "email_plain"
	TaskPush       = "push"
)
