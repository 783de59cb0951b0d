package router

import (
	"event-dashboard-api/core/middleware"
	"event-dashboard-api/modules/reminder/controller"

	"github.com/labstack/echo/v4"
)

type ReminderRouter struct {
	controller *controller.ReminderController
}

func NewReminderRouter(controller *controller.ReminderController) *ReminderRouter {
	return &ReminderRouter{controller: controller}
}

func (r *ReminderRouter) Register(e *echo.Group, mw *middleware.Middleware) {
	group := e.Group("/private/reminders", mw.AuthMiddleware())
	group.GET("", r.controller.ListMine)
	group.GET("/due", r.controller.Due)
	group.PUT("/mark-seen", r.controller.MarkSeen)
	group.GET("/:id", r.controller.Get)
	group.POST("", r.controller.Create)
	group.PUT("/:id", r.controller.Update)
	group.DELETE("/:id", r.controller.Delete)
}
