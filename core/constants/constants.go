package constants

import "time"

// Context keys.
const (
	ContextTokenData = "token_data"
	ContextRequestID = "request_id"
)

// Pagination defaults.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Reminder time window: a reminder must fire between 15 minutes and
// 7 days before its event, bounds inclusive.
const (
	ReminderWindowMin = 15 * time.Minute
	ReminderWindowMax = 7 * 24 * time.Hour
)

// Notification polling.
const (
	PollInterval    = 30 * time.Second
	FreshnessWindow = 60 * time.Second
)

// Listing response cache.
const (
	ListingCacheTTL       = 60 * time.Second
	ListingCacheMaxKeys   = 1024
	ListingCacheKeyPrefix = "events:list:"
)

// Database pool settings.
const (
	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
)

// Event schema limits.
const (
	EventTitleMaxLen       = 100
	EventDescriptionMaxLen = 500
)

// Asynq task types.
const (
	TaskReminderPurge = "reminder:purge"
)
