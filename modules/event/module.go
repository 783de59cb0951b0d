package event

import (
	"event-dashboard-api/core/cache"
	"event-dashboard-api/core/database"
	"event-dashboard-api/core/middleware"
	"event-dashboard-api/modules/event/controller"
	"event-dashboard-api/modules/event/repository"
	"event-dashboard-api/modules/event/router"
	"event-dashboard-api/modules/event/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Group, db database.IDatabase, c cache.Cache, mw *middleware.Middleware, reminderScope string) (*service.EventService, *repository.EventRepository) {
	repo := repository.NewEventRepository(db)
	svc := service.NewEventService(repo, c, reminderScope)
	ctrl := controller.NewEventController(svc)

	router.NewEventRouter(ctrl).Register(e, mw)

	return svc, repo
}
