package reminder

import (
	"event-dashboard-api/core/cache"
	"event-dashboard-api/core/database"
	"event-dashboard-api/core/middleware"
	eventrepo "event-dashboard-api/modules/event/repository"
	"event-dashboard-api/modules/reminder/controller"
	"event-dashboard-api/modules/reminder/repository"
	"event-dashboard-api/modules/reminder/router"
	"event-dashboard-api/modules/reminder/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Group, db database.IDatabase, eventRepo eventrepo.EventRepositoryInterface, c cache.Cache, mw *middleware.Middleware) (*service.ReminderService, *repository.ReminderRepository) {
	repo := repository.NewReminderRepository(db)
	svc := service.NewReminderService(repo, eventRepo, c)
	ctrl := controller.NewReminderController(svc)

	router.NewReminderRouter(ctrl).Register(e, mw)

	return svc, repo
}
