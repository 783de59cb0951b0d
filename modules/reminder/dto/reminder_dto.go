package dto

import (
	"time"

	"event-dashboard-api/modules/reminder/entity"
)

// ===================== Request DTOs =====================

type CreateReminderRequest struct {
	EventID      string `json:"event_id" validate:"required"`
	ReminderTime string `json:"reminder_time" validate:"required"` // RFC3339
}

type UpdateReminderRequest struct {
	EventID      string `json:"event_id" validate:"required"`
	ReminderTime string `json:"reminder_time" validate:"required"`
}

// MarkSeenRequest acknowledges due reminders. Empty IDs means "sweep
// everything currently due".
type MarkSeenRequest struct {
	IDs []string `json:"ids"`
}

// ===================== Response DTOs =====================

type ReminderResponse struct {
	ID           string    `json:"id"`
	EventID      string    `json:"event_id"`
	EventTitle   string    `json:"event_title,omitempty"`
	ReminderTime time.Time `json:"reminder_time"`
	UserID       string    `json:"user_id"`
	Seen         bool      `json:"seen"`
}

// DueReminderResponse is one entry of the notification feed.
type DueReminderResponse struct {
	ID           string    `json:"id"`
	EventID      string    `json:"event_id"`
	EventTitle   string    `json:"event_title"`
	ReminderTime time.Time `json:"reminder_time"`
	UserID       string    `json:"user_id"`
}

// ===================== Mapper Functions =====================

func ToReminderResponse(r *entity.Reminder, eventTitle string) *ReminderResponse {
	return &ReminderResponse{
		ID:           r.ID.String(),
		EventID:      r.EventID.String(),
		EventTitle:   eventTitle,
		ReminderTime: r.ReminderTime,
		UserID:       r.UserID.String(),
		Seen:         r.Seen,
	}
}

func ToDueReminderResponse(r *entity.ReminderWithEvent) DueReminderResponse {
	return DueReminderResponse{
		ID:           r.ID.String(),
		EventID:      r.EventID.String(),
		EventTitle:   r.EventTitle,
		ReminderTime: r.ReminderTime,
		UserID:       r.UserID.String(),
	}
}
