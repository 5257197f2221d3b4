package model

import "time"

// RevisionAction is the direction of an analyst rating change.
type RevisionAction string

const (
	RevisionUp   RevisionAction = "Up"
	RevisionDown RevisionAction = "Down"
	RevisionMain RevisionAction = "Main"
	RevisionInit RevisionAction = "Init"
)

// Revision is one analyst upgrade or downgrade event.
type Revision struct {
	Date   time.Time      `json:"date" msgpack:"date"`
	Firm   string         `json:"firm,omitempty" msgpack:"firm,omitempty"`
	Action RevisionAction `json:"action" msgpack:"action"`
}
