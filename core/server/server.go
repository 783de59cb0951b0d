package server

import (
	"event-dashboard-api/core/cache"
	"event-dashboard-api/core/config"
	"event-dashboard-api/core/constants"
	"event-dashboard-api/core/database"
	"event-dashboard-api/core/logger"
	mw "event-dashboard-api/core/middleware"
	"event-dashboard-api/core/utils"
	"event-dashboard-api/modules/event"
	"event-dashboard-api/modules/notifier"
	"event-dashboard-api/modules/reminder"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func Run() error {
	cfg := config.Load()
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	utils.InitTokenSecret(cfg.Auth.JWTSecret)

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return err
	}

	listingCache, err := newCache(cfg)
	if err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	middleware := mw.NewMiddleware()
	e.Use(middleware.RequestIDMiddleware())

	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	api := e.Group("/api/v1")

	_, eventRepo := event.Init(api, db, listingCache, middleware, cfg.Events.ReminderFilterScope)
	_, reminderRepo := reminder.Init(api, db, eventRepo, listingCache, middleware)

	worker := notifier.NewWorker(cfg.Redis, reminderRepo)
	go func() {
		if err := worker.Run(); err != nil {
			logger.Warn("Maintenance worker unavailable", "error", err)
		}
	}()

	logger.Info("Server starting", "port", cfg.Server.Port)
	return e.Start(":" + cfg.Server.Port)
}

// newCache picks the listing cache backend. Memory is the default; redis
// lets multiple instances share invalidation.
func newCache(cfg *config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case "redis":
		return cache.NewRedisCache(cfg.Redis)
	default:
		return cache.NewMemoryCache(constants.ListingCacheMaxKeys), nil
	}
}
