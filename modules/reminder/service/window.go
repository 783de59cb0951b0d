package service

import (
	"time"

	"event-dashboard-api/core/constants"
	"event-dashboard-api/core/errors"
)

// ValidateReminderTime parses a raw reminder time and checks it against
// the event date: a reminder must fire no less than 15 minutes and no
// more than 7 days before the event, both bounds inclusive. Pure and
// deterministic.
func ValidateReminderTime(eventDate time.Time, raw string) (time.Time, *errors.AppError) {
	reminderTime, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, errors.NewAppError(errors.ErrInvalidFormat, "Invalid reminder time", err)
	}

	diff := eventDate.Sub(reminderTime)
	if diff < constants.ReminderWindowMin || diff > constants.ReminderWindowMax {
		return time.Time{}, errors.NewAppError(errors.ErrOutOfWindow,
			"Reminder must be 15 minutes to 7 days before event.", nil)
	}
	return reminderTime, nil
}
