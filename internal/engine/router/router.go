// Copyright 2025 Talenthub Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package router

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/talenthub/talenthub/internal/engine/common"
	"github.com/talenthub/talenthub/internal/engine/service"
	httpx "github.com/talenthub/talenthub/pkg/http"
	"github.com/talenthub/talenthub/pkg/http/middleware"
	"github.com/talenthub/talenthub/pkg/version"
)

/**
 * @author: dev@talenthub.io
 * @file: router.go
 * @description: setup router
 *  		     internal api router, use by web
 */

type Router struct {
	Http       *httpx.Http
	Event      *service.EventService
	Invitation *service.InvitationService
	Response   *service.ResponseService
	Sync       *service.SyncService
	Candidate  *service.CandidateService
}

func NewRouter(httpConf *httpx.Http, event *service.EventService, invitation *service.InvitationService,
	response *service.ResponseService, sync *service.SyncService, candidate *service.CandidateService) *Router {
	return &Router{
		Http:       httpConf,
		Event:      event,
		Invitation: invitation,
		Response:   response,
		Sync:       sync,
		Candidate:  candidate,
	}
}

func (rt *Router) Router() *fiber.App {
	bodyLimit := rt.Http.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = 10 * 1024 * 1024
	}

	app := fiber.New(fiber.Config{
		AppName:      "Talenthub",
		ReadTimeout:  time.Duration(rt.Http.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(rt.Http.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(rt.Http.IdleTimeout) * time.Second,
		BodyLimit:    bodyLimit,
	})

	app.Use(middleware.RequestIdMiddleware())
	if rt.Http.AccessLog {
		app.Use(middleware.AccessLogMiddleware(rt.Http))
	}

	// 中间件
	app.Use(
		fiberrecover.New(),
		cors.New(),
		middleware.UnifiedResponseMiddleware(),
	)

	if rt.Http.ExposeMetrics {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	// 健康检查
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	// 版本信息
	app.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(version.GetVersion())
	})

	auth := middleware.AuthorizationMiddleware(rt.Http.Auth.SecretKey)

	// internal api router
	api := app.Group(rt.Http.InternalContextPath)
	{
		rt.eventRouter(api, auth)
		rt.invitationRouter(api, auth)
		rt.syncRouter(api, auth)
		rt.candidateRouter(api, auth)
	}

	// external router, unauthenticated invitation response links
	ext := app.Group(rt.Http.ExternalContextPath)
	{
		rt.externalRouter(ext)
	}

	// 找不到路径时的处理 - 必须在所有路由注册之后
	app.Use(func(c *fiber.Ctx) error {
		return httpx.WithRepErrMsg(c, fiber.StatusNotFound, "request path not found", c.Path())
	})

	return app
}

// failCode 业务错误到响应码的映射
func failCode(err error) *httpx.Response {
	if errors.Is(err, service.ErrSyncAlreadyRunning) {
		return httpx.SyncAlreadyRunning
	}
	switch common.KindOf(err) {
	case common.KindNotFound:
		return httpx.NotFound
	case common.KindValidation:
		return httpx.ValidationFailed
	case common.KindInvalidState:
		return httpx.InvalidState
	case common.KindAuthScope:
		return httpx.ReauthorizationRequired
	default:
		return httpx.Failed
	}
}

func fail(c *fiber.Ctx, err error) error {
	return httpx.WithRepErrMsg(c, failCode(err).Code, err.Error(), c.Path())
}

func queryInt(c *fiber.Ctx, key string) int {
	v, _ := strconv.Atoi(c.Query(key))
	return v
}
