package model

import "time"

// Event is one audit log entry. The event log is append-only and purely
// informational; replaying it is not how state is rebuilt.
type Event struct {
	ID      int64     `json:"id"`
	TS      time.Time `json:"ts"`
	Type    string    `json:"type"`
	NodeID  string    `json:"nodeId"`
	Payload any       `json:"payload,omitempty"`
}
