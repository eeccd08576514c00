package app

import (
	"github.com/gofiber/fiber/v2"

	"github.com/talenthub/talenthub/internal/engine/conf"
	"github.com/talenthub/talenthub/internal/engine/router"
	"github.com/talenthub/talenthub/internal/engine/service"
	"github.com/talenthub/talenthub/pkg/log"
)

/**
 * @author: dev@talenthub.io
 * @file: app.go
 * @description: application assembly
 */

type App struct {
	HttpApp   *fiber.App
	Logger    *log.Logger
	AppConf   conf.AppConfig
	Scheduler *service.SyncScheduler
}

func NewApp(
	rt *router.Router,
	logger *log.Logger,
	appConf conf.AppConfig,
	scheduler *service.SyncScheduler,
) (*App, func(), error) {
	httpApp := rt.Router()

	if err := scheduler.Start(); err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		scheduler.Stop()
		_ = logger.Log.Sync()
	}

	app := &App{
		HttpApp:   httpApp,
		Logger:    logger,
		AppConf:   appConf,
		Scheduler: scheduler,
	}
	return app, cleanup, nil
}
