package pipeline

import (
	"time"

	"rosebot/internal/schedule"
)

// Result is one entry in the recent-activity log.
type Result struct {
	At        time.Time          `json:"at"`
	Kind      schedule.Kind      `json:"kind"`
	Sanctuary schedule.Sanctuary `json:"sanctuary"`
	Message   string             `json:"message,omitempty"`
	Delivered bool               `json:"delivered"`
	Detail    string             `json:"detail,omitempty"`
}
