package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/talenthub/talenthub/internal/engine/constant"
	httpx "github.com/talenthub/talenthub/pkg/http"
)

/**
 * @author: dev@talenthub.io
 * @file: router_external.go
 * @description: external router, unauthenticated invitation response links
 */

func (rt *Router) externalRouter(r fiber.Router) {
	invGroup := r.Group("/invitations")
	{
		// 邮件链接点击直达，GET 携带 token 与 response
		invGroup.Get("/respond", rt.respondByLink)
		invGroup.Post("/respond", rt.respondByLink)
	}
}

func (rt *Router) respondByLink(c *fiber.Ctx) error {
	token := c.Query("token")
	response := c.Query("response")
	message := c.Query("message")

	// POST 时参数也允许放在请求体
	if token == "" && c.Method() == fiber.MethodPost {
		var req struct {
			Token    string `json:"token"`
			Response string `json:"response"`
			Message  string `json:"message"`
		}
		if err := c.BodyParser(&req); err == nil {
			token, response, message = req.Token, req.Response, req.Message
		}
	}
	if token == "" {
		return httpx.WithRepErrMsg(c, httpx.InvitationTokenIsEmpty.Code, httpx.InvitationTokenIsEmpty.Msg, c.Path())
	}

	resp, err := rt.Response.RespondByToken(token, response, message)
	if err != nil {
		return fail(c, err)
	}

	c.Locals(constant.DETAIL, resp)
	return nil
}
