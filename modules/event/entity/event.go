package entity

import (
	"time"

	"event-dashboard-api/core/entity"

	"github.com/google/uuid"
)

// EventStatus drives visibility: anyone sees PUBLISHED events, only the
// owner sees DRAFT and CANCELED ones. Transitions are unconstrained.
type EventStatus string

const (
	EventStatusDraft     EventStatus = "DRAFT"
	EventStatusPublished EventStatus = "PUBLISHED"
	EventStatusCanceled  EventStatus = "CANCELED"
)

func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusDraft, EventStatusPublished, EventStatusCanceled:
		return true
	}
	return false
}

type Event struct {
	Title       string      `db:"title" json:"title"`
	Description *string     `db:"description" json:"description,omitempty"`
	Date        time.Time   `db:"date" json:"date"`
	Location    string      `db:"location" json:"location"`
	Status      EventStatus `db:"status" json:"status"`
	Slug        string      `db:"slug" json:"slug"`
	UserID      uuid.UUID   `db:"user_id" json:"user_id"`
	entity.BaseEntity
}

// EventWithReminder is a listing row annotated with the requester's own
// reminder, never another user's.
type EventWithReminder struct {
	Event
	ReminderTime *time.Time `db:"reminder_time"`
	ReminderID   *uuid.UUID `db:"reminder_id"`
}
