package middleware

import (
	"strings"

	"event-dashboard-api/core/constants"
	"event-dashboard-api/core/controller"
	"event-dashboard-api/core/errors"
	"event-dashboard-api/core/utils"

	"github.com/labstack/echo/v4"
)

type Middleware struct{}

func NewMiddleware() *Middleware {
	return &Middleware{}
}

// AuthMiddleware rejects requests without a valid bearer token and stores
// the parsed claims on the context.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, appErr := claimsFromHeader(c)
			if appErr != nil {
				return controller.NewErrorResponse(controller.StatusForCode(appErr.Code), appErr.Code, appErr.Message)
			}
			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}

// OptionalAuthMiddleware parses claims when a token is present but lets
// anonymous requests through. The listing path serves both audiences.
func (m *Middleware) OptionalAuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get("Authorization") != "" {
				if claims, appErr := claimsFromHeader(c); appErr == nil {
					c.Set(constants.ContextTokenData, claims)
				}
			}
			return next(c)
		}
	}
}

// RequestIDMiddleware tags each request with a short ID for log
// correlation.
func (m *Middleware) RequestIDMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get("X-Request-ID")
			if id == "" {
				id = utils.GenerateID()
			}
			c.Set(constants.ContextRequestID, id)
			c.Response().Header().Set("X-Request-ID", id)
			return next(c)
		}
	}
}

func claimsFromHeader(c echo.Context) (*utils.TokenClaims, *errors.AppError) {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return nil, errors.NewAppError(errors.ErrMissingAuthorizationHeader, "missing authorization header", nil)
	}

	token := header
	if strings.HasPrefix(header, "Bearer ") {
		token = header[len("Bearer "):]
	}

	claims, err := utils.ValidateAndParseToken(token)
	if err != nil {
		if ae, ok := err.(*errors.AppError); ok {
			return nil, ae
		}
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid token", err)
	}
	return claims, nil
}
