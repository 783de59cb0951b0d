package entity

import (
	"time"

	"event-dashboard-api/core/entity"

	"github.com/google/uuid"
)

// Reminder belongs to the user who set it, which is not necessarily the
// owner of the event. At most one reminder exists per (event, user) pair;
// the database enforces that with a unique constraint.
type Reminder struct {
	EventID      uuid.UUID `db:"event_id" json:"event_id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	ReminderTime time.Time `db:"reminder_time" json:"reminder_time"`
	Seen         bool      `db:"seen" json:"seen"`
	entity.BaseEntity
}

// ReminderWithEvent joins the parent event's title for feeds and lists.
type ReminderWithEvent struct {
	Reminder
	EventTitle string `db:"event_title"`
}
