package controller

import (
	"time"

	"event-dashboard-api/core/constants"
	"event-dashboard-api/core/controller"
	"event-dashboard-api/core/errors"
	"event-dashboard-api/core/utils"
	"event-dashboard-api/modules/reminder/dto"
	"event-dashboard-api/modules/reminder/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ReminderController struct {
	controller.BaseController
	ReminderService service.ReminderServiceInterface
}

func NewReminderController(svc service.ReminderServiceInterface) *ReminderController {
	return &ReminderController{
		BaseController:  controller.NewBaseController(),
		ReminderService: svc,
	}
}

func (c *ReminderController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
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

// Create handles POST /private/reminders
// @Summary Create reminder
// @Description Attaches a reminder to an event, 15 minutes to 7 days before it
// @Tags Reminder
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateReminderRequest true "Reminder payload"
// @Success 200 {object} dto.ReminderResponse
// @Failure 400 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Router /private/reminders [post]
func (c *ReminderController) Create(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.CreateReminderRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.ReminderService.Create(ctx.Request().Context(), userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Reminder created successfully")
}

// Update handles PUT /private/reminders/:id
// @Summary Update reminder
// @Description Moves a reminder; an edited reminder is re-armed (seen resets to false)
// @Tags Reminder
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Reminder ID"
// @Param request body dto.UpdateReminderRequest true "Reminder payload"
// @Success 200 {object} dto.ReminderResponse
// @Failure 403 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /private/reminders/{id} [put]
func (c *ReminderController) Update(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	reminderID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid reminder ID")
	}

	var req dto.UpdateReminderRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.ReminderService.Update(ctx.Request().Context(), reminderID, userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Reminder updated successfully")
}

// Delete handles DELETE /private/reminders/:id
// @Summary Delete reminder
// @Tags Reminder
// @Security BearerAuth
// @Produce json
// @Param id path string true "Reminder ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /private/reminders/{id} [delete]
func (c *ReminderController) Delete(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	reminderID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid reminder ID")
	}

	if appErr := c.ReminderService.Delete(ctx.Request().Context(), reminderID, userID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Reminder deleted successfully")
}

// ListMine handles GET /private/reminders
// @Summary List my reminders
// @Description All of the caller's reminders with event titles, soonest first
// @Tags Reminder
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.ReminderResponse
// @Router /private/reminders [get]
func (c *ReminderController) ListMine(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.ReminderService.ListForUser(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Reminders retrieved successfully")
}

// Get handles GET /private/reminders/:id
// @Summary Get reminder
// @Tags Reminder
// @Security BearerAuth
// @Produce json
// @Param id path string true "Reminder ID"
// @Success 200 {object} dto.ReminderResponse
// @Failure 404 {object} errors.AppError
// @Router /private/reminders/{id} [get]
func (c *ReminderController) Get(ctx echo.Context) error {
	if _, err := c.getUserIDFromContext(ctx); err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	reminderID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid reminder ID")
	}

	result, appErr := c.ReminderService.GetByID(ctx.Request().Context(), reminderID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// Due handles GET /private/reminders/due
// @Summary Due unseen reminders
// @Description The caller's notification feed: reminders due now and not yet acknowledged
// @Tags Reminder
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.DueReminderResponse
// @Router /private/reminders/due [get]
func (c *ReminderController) Due(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.ReminderService.DueUnseen(ctx.Request().Context(), userID, time.Now())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Due reminders retrieved")
}

// MarkSeen handles PUT /private/reminders/mark-seen
// @Summary Acknowledge reminders
// @Description Marks the given due reminders seen, or sweeps all currently due ones when no IDs are sent
// @Tags Reminder
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.MarkSeenRequest true "Reminder IDs, optional"
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.AppError
// @Router /private/reminders/mark-seen [put]
func (c *ReminderController) MarkSeen(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	req := new(dto.MarkSeenRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.BadRequest(errors.ErrInvalidInput, "Invalid reminder ID in list")
		}
		ids = append(ids, id)
	}

	if appErr := c.ReminderService.MarkSeen(ctx.Request().Context(), userID, ids, time.Now()); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Marked as seen successfully")
}
