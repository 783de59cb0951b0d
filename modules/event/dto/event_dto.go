package dto

import (
	"time"

	coreEntity "event-dashboard-api/core/entity"
	"event-dashboard-api/modules/event/entity"
)

// ===================== Request DTOs =====================

type CreateEventRequest struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
	Date        string `json:"date" validate:"required"` // RFC3339
	Location    string `json:"location" validate:"required"`
	Status      string `json:"status" validate:"required"`
}

type UpdateEventRequest struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
	Date        string `json:"date" validate:"required"`
	Location    string `json:"location" validate:"required"`
	Status      string `json:"status" validate:"required"`
}

// ===================== Response DTOs =====================

type EventResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Date        time.Time  `json:"date"`
	Location    string     `json:"location"`
	Status      string     `json:"status"`
	Slug        string     `json:"slug"`
	Reminder    *time.Time `json:"reminder"`
	ReminderID  *string    `json:"reminder_id"`
	UserID      string     `json:"user_id"`
	CreatedAt   time.Time  `json:"created_at"`
}

// EventListResponse extends the shared page envelope with the dashboard
// aggregate counts.
type EventListResponse struct {
	coreEntity.Pagination[EventResponse]
	PublishedCount int `json:"published_count"`
	DraftCount     int `json:"draft_count"`
}

// ===================== Mapper Functions =====================

func ToEventResponse(e *entity.Event, reminderTime *time.Time, reminderID *string) *EventResponse {
	resp := &EventResponse{
		ID:         e.ID.String(),
		Title:      e.Title,
		Date:       e.Date,
		Location:   e.Location,
		Status:     string(e.Status),
		Slug:       e.Slug,
		Reminder:   reminderTime,
		ReminderID: reminderID,
		UserID:     e.UserID.String(),
		CreatedAt:  e.CreatedAt,
	}
	if e.Description != nil {
		resp.Description = *e.Description
	}
	return resp
}

func ToEventRowResponse(row *entity.EventWithReminder) EventResponse {
	var reminderID *string
	if row.ReminderID != nil {
		s := row.ReminderID.String()
		reminderID = &s
	}
	return *ToEventResponse(&row.Event, row.ReminderTime, reminderID)
}
