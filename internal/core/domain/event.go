package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventStatus string

const (
	EventScheduled  EventStatus = "scheduled"
	EventInProgress EventStatus = "in-progress"
	EventFinalized  EventStatus = "finalized"
	EventCancelled  EventStatus = "cancelled"
)

// CanTransitionTo lists the allowed lifecycle moves. Finalized and cancelled
// are terminal.
func (s EventStatus) CanTransitionTo(next EventStatus) bool {
	switch s {
	case EventScheduled:
		return next == EventInProgress || next == EventCancelled
	case EventInProgress:
		return next == EventFinalized || next == EventCancelled
	default:
		return false
	}
}

// Event is a scheduled tournament. CatchVersion increases on every write to
// the event's catch records and guards the event_results projection.
type Event struct {
	ID           uuid.UUID   `json:"id"`
	SeasonID     uuid.UUID   `json:"season_id"`
	Lake         string      `json:"lake"`
	Date         time.Time   `json:"date"`
	Status       EventStatus `json:"status"`
	CatchVersion int64       `json:"-"`
	CreatedAt    time.Time   `json:"created_at"`
}
