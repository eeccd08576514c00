package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/talenthub/talenthub/internal/engine/constant"
	httpx "github.com/talenthub/talenthub/pkg/http"
	"github.com/talenthub/talenthub/pkg/http/middleware"
)

func (rt *Router) syncRouter(r fiber.Router, auth fiber.Handler) {
	syncGroup := r.Group("/calendar/sync")
	{
		syncGroup.Get("/settings", auth, rt.getSyncSettings)   // GET /calendar/sync/settings
		syncGroup.Post("/enable", auth, rt.enableSync)         // POST /calendar/sync/enable
		syncGroup.Post("/auth", auth, rt.completeAuth)         // POST /calendar/sync/auth - submit oauth code
		syncGroup.Post("/disconnect", auth, rt.disconnectSync) // POST /calendar/sync/disconnect
		syncGroup.Post("/push", auth, rt.syncToGoogle)         // POST /calendar/sync/push - local to external
		syncGroup.Post("/pull", auth, rt.syncFromGoogle)       // POST /calendar/sync/pull - external to local
		syncGroup.Post("/full", auth, rt.fullSync)             // POST /calendar/sync/full - bidirectional
	}
}

func (rt *Router) getSyncSettings(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFromCtx(c)
	if !ok {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}

	resp, err := rt.Sync.GetSettings(claims.UserId)
	if err != nil {
		return fail(c, err)
	}

	c.Locals(constant.DETAIL, resp)
	return nil
}

func (rt *Router) enableSync(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFromCtx(c)
	if !ok {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}

	resp, err := rt.Sync.EnableSync(claims.UserId)
	if err != nil {
		return fail(c, err)
	}

	c.Locals(constant.DETAIL, resp)
	return nil
}

func (rt *Router) completeAuth(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFromCtx(c)
	if !ok {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	resp, err := rt.Sync.CompleteAuth(c.UserContext(), claims.UserId, req.Code)
	if err != nil {
		return fail(c, err)
	}

	c.Locals(constant.DETAIL, resp)
	return nil
}

func (rt *Router) disconnectSync(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFromCtx(c)
	if !ok {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}

	if err := rt.Sync.Disconnect(claims.UserId); err != nil {
		return fail(c, err)
	}

	c.Locals(constant.OPERATION, "")
	return nil
}

func (rt *Router) syncToGoogle(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFromCtx(c)
	if !ok {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}

	resp, err := rt.Sync.SyncToGoogle(c.UserContext(), claims.UserId)
	if err != nil {
		return fail(c, err)
	}

	c.Locals(constant.DETAIL, resp)
	return nil
}

func (rt *Router) syncFromGoogle(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFromCtx(c)
	if !ok {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}

	resp, err := rt.Sync.SyncFromGoogle(c.UserContext(), claims.UserId)
	if err != nil {
		return fail(c, err)
	}

	c.Locals(constant.DETAIL, resp)
	return nil
}

func (rt *Router) fullSync(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFromCtx(c)
	if !ok {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}

	resp, err := rt.Sync.FullSync(c.UserContext(), claims.UserId)
	if err != nil {
		return fail(c, err)
	}

	c.Locals(constant.DETAIL, resp)
	return nil
}
