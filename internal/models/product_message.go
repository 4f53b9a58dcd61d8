package models

import "time"

type ProductAction string

const (
	ActionCreated ProductAction = "created"
	ActionUpdated ProductAction = "updated"
	ActionDeleted ProductAction = "deleted"
)

// ProductMessage is the change-feed record published after a successful mutation.
type ProductMessage struct {
	EventID    string        `json:"eventId"`
	Action     ProductAction `json:"action"`
	ID         string        `json:"id"`
	Title      string        `json:"title,omitempty"`
	Price      float64       `json:"price,omitempty"`
	IsEnabled  int           `json:"is_enabled"`
	OccurredAt time.Time     `json:"occurredAt"`
}
