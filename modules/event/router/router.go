package router

import (
	"event-dashboard-api/core/middleware"
	"event-dashboard-api/modules/event/controller"

	"github.com/labstack/echo/v4"
)

type EventRouter struct {
	controller *controller.EventController
}

func NewEventRouter(controller *controller.EventController) *EventRouter {
	return &EventRouter{controller: controller}
}

func (r *EventRouter) Register(e *echo.Group, mw *middleware.Middleware) {
	// Listing and detail serve both anonymous and authenticated callers.
	public := e.Group("/events", mw.OptionalAuthMiddleware())
	public.GET("", r.controller.List)
	public.GET("/:id", r.controller.Get)

	e.GET("/public/events/:slug", r.controller.GetBySlug)

	private := e.Group("/private/events", mw.AuthMiddleware())
	private.POST("", r.controller.Create)
	private.PUT("/:id", r.controller.Update)
	private.DELETE("/:id", r.controller.Delete)
}
