package main

import (
	"event-dashboard-api/core/logger"
	"event-dashboard-api/core/server"

	_ "event-dashboard-api/docs" // Swagger docs
)

// @title Event Dashboard API
// @version 1.0
// @description Backend for the event management dashboard: events, reminders and the notification feed.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
