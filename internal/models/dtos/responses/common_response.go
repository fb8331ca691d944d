package responses

import (
	"time"

	"climbing-gym/belay/internal/constants"
)

// DataEnvelope wraps every successful payload as {"data": ...}
type DataEnvelope[T any] struct {
	Data T `json:"data"`
}

type ErrorResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Location string `json:"location,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Timestamp renders as 2006-01-02T15:04:05Z in UTC, or null
type Timestamp struct {
	time.Time
}

func NewTimestamp(t *time.Time) *Timestamp {
	if t == nil {
		return nil
	}
	return &Timestamp{Time: *t}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.UTC().Format(constants.TimestampLayout) + `"`), nil
}

type CreatedResponse struct {
	ID uint `json:"id"`
}
