package controller

import (
	"event-dashboard-api/core/constants"
	"event-dashboard-api/core/controller"
	"event-dashboard-api/core/errors"
	"event-dashboard-api/core/params"
	"event-dashboard-api/core/utils"
	"event-dashboard-api/modules/event/dto"
	"event-dashboard-api/modules/event/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type EventController struct {
	controller.BaseController
	EventService service.EventServiceInterface
}

func NewEventController(svc service.EventServiceInterface) *EventController {
	return &EventController{
		BaseController: controller.NewBaseController(),
		EventService:   svc,
	}
}

func (c *EventController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
	tokenData := ctx.Get(constants.ContextTokenData)
	if tokenData == nil {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "User not authenticated", nil)
	}
	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid token data", nil)
	}
	return claims.UserID, nil
}

// optionalUserID returns the requester identity when a valid token was
// presented, nil for anonymous visitors.
func (c *EventController) optionalUserID(ctx echo.Context) *uuid.UUID {
	if claims, ok := ctx.Get(constants.ContextTokenData).(*utils.TokenClaims); ok {
		id := claims.UserID
		return &id
	}
	return nil
}

// List handles GET /events
// @Summary List events
// @Description Filtered, sorted and paginated event listing. Anonymous callers see published events only; authenticated callers also see their own drafts and canceled events.
// @Tags Event
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param sort query string false "Sort field (date, title, status, location, created_at)"
// @Param order query string false "asc or desc"
// @Param search query string false "Substring match on title or location"
// @Param status query string false "DRAFT, PUBLISHED or CANCELED"
// @Param start_date query string false "Inclusive lower bound on event date"
// @Param end_date query string false "Inclusive upper bound on event date"
// @Param has_reminder query string false "yes or no"
// @Success 200 {object} dto.EventListResponse
// @Router /events [get]
func (c *EventController) List(ctx echo.Context) error {
	requesterID := c.optionalUserID(ctx)
	queryParams := params.NewQueryParams(ctx)

	result, appErr := c.EventService.List(ctx.Request().Context(), requesterID, queryParams)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Events retrieved successfully")
}

// Get handles GET /events/:id
// @Summary Get event
// @Description Returns one event; non-published events are visible to their owner only
// @Tags Event
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.EventResponse
// @Failure 403 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /events/{id} [get]
func (c *EventController) Get(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	result, appErr := c.EventService.GetByID(ctx.Request().Context(), eventID, c.optionalUserID(ctx))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// GetBySlug handles GET /public/events/:slug
// @Summary Get published event by slug
// @Tags Event
// @Produce json
// @Param slug path string true "Event slug"
// @Success 200 {object} dto.EventResponse
// @Failure 404 {object} errors.AppError
// @Router /public/events/{slug} [get]
func (c *EventController) GetBySlug(ctx echo.Context) error {
	result, appErr := c.EventService.GetBySlug(ctx.Request().Context(), ctx.Param("slug"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// Create handles POST /private/events
// @Summary Create event
// @Tags Event
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateEventRequest true "Event payload"
// @Success 200 {object} dto.EventResponse
// @Failure 400 {object} errors.AppError
// @Failure 401 {object} errors.AppError
// @Router /private/events [post]
func (c *EventController) Create(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.CreateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.EventService.Create(ctx.Request().Context(), userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Event created successfully")
}

// Update handles PUT /private/events/:id
// @Summary Update event
// @Tags Event
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.UpdateEventRequest true "Event payload"
// @Success 200 {object} dto.EventResponse
// @Failure 403 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /private/events/{id} [put]
func (c *EventController) Update(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	var req dto.UpdateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.EventService.Update(ctx.Request().Context(), eventID, userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Event updated successfully")
}

// Delete handles DELETE /private/events/:id
// @Summary Delete event
// @Description Deletes the event and every reminder attached to it
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /private/events/{id} [delete]
func (c *EventController) Delete(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	if appErr := c.EventService.Delete(ctx.Request().Context(), eventID, userID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Event deleted successfully")
}
