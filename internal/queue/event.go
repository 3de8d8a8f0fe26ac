// Package queue defines message payloads exchanged over the message broker.
package queue

// AvailabilityChangedEvent is published after a change set is applied to a
// user's stored availability. It carries enough information for downstream
// consumers to recompute recommendations, log, or notify without replaying
// the original chat message.
type AvailabilityChangedEvent struct {
	EventID    uint64   `json:"event_id"`
	UserID     uint64   `json:"user_id"`
	Action     string   `json:"action"` // add | remove
	Dates      []string `json:"dates"`  // affected YYYY-MM-DD dates
	OccurredAt string   `json:"occurred_at"`
}
