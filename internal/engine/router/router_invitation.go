package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/talenthub/talenthub/internal/engine/constant"
	"github.com/talenthub/talenthub/internal/engine/model"
	httpx "github.com/talenthub/talenthub/pkg/http"
	"github.com/talenthub/talenthub/pkg/http/middleware"
)

func (rt *Router) invitationRouter(r fiber.Router, auth fiber.Handler) {
	invGroup := r.Group("/invitations")
	{
		invGroup.Post("/", auth, rt.invite)                              // POST /invitations - invite to an event
		invGroup.Get("/pending", auth, rt.listPendingInvitations)        // GET /invitations/pending - my pending invitations
		invGroup.Get("/event/:eventId", auth, rt.listEventInvitations)   // GET /invitations/event/:eventId - invitations of an event
		invGroup.Post("/:invitationId/respond", auth, rt.respond)        // POST /invitations/:invitationId/respond
		invGroup.Post("/:invitationId/resend", auth, rt.resendInvitation)
		invGroup.Delete("/:invitationId", auth, rt.cancelInvitation)     // DELETE /invitations/:invitationId - cancel
	}
}

func (rt *Router) invite(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFromCtx(c)
	if !ok {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}

	var req model.InviteReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	results, err := rt.Invitation.Invite(c.UserContext(), &req, claims.UserId)
	if err != nil {
		return fail(c, err)
	}

	c.Locals(constant.DETAIL, map[string]any{"results": results})
	return nil
}

func (rt *Router) listPendingInvitations(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFromCtx(c)
	if !ok {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}

	invs, err := rt.Invitation.ListPending(claims.UserId, claims.Email)
	if err != nil {
		return fail(c, err)
	}

	c.Locals(constant.DETAIL, map[string]any{"invitations": invs})
	return nil
}

func (rt *Router) listEventInvitations(c *fiber.Ctx) error {
	eventId := c.Params("eventId")
	if eventId == "" {
		return httpx.WithRepErrMsg(c, httpx.EventIdIsEmpty.Code, httpx.EventIdIsEmpty.Msg, c.Path())
	}

	invs, err := rt.Invitation.ListByEvent(eventId)
	if err != nil {
		return fail(c, err)
	}

	c.Locals(constant.DETAIL, map[string]any{"invitations": invs})
	return nil
}

func (rt *Router) respond(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFromCtx(c)
	if !ok {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}

	invitationId := c.Params("invitationId")
	if invitationId == "" {
		return httpx.WithRepErrMsg(c, httpx.InvitationIdIsEmpty.Code, httpx.InvitationIdIsEmpty.Msg, c.Path())
	}

	var req model.RespondReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}
	req.InvitationId = invitationId

	resp, err := rt.Response.Respond(&req, claims.UserId, claims.Email)
	if err != nil {
		return fail(c, err)
	}

	c.Locals(constant.DETAIL, resp)
	return nil
}

func (rt *Router) resendInvitation(c *fiber.Ctx) error {
	invitationId := c.Params("invitationId")
	if invitationId == "" {
		return httpx.WithRepErrMsg(c, httpx.InvitationIdIsEmpty.Code, httpx.InvitationIdIsEmpty.Msg, c.Path())
	}

	resp, err := rt.Invitation.Resend(c.UserContext(), invitationId)
	if err != nil {
		return fail(c, err)
	}

	c.Locals(constant.DETAIL, resp)
	return nil
}

func (rt *Router) cancelInvitation(c *fiber.Ctx) error {
	invitationId := c.Params("invitationId")
	if invitationId == "" {
		return httpx.WithRepErrMsg(c, httpx.InvitationIdIsEmpty.Code, httpx.InvitationIdIsEmpty.Msg, c.Path())
	}

	if err := rt.Invitation.Cancel(invitationId); err != nil {
		return fail(c, err)
	}

	c.Locals(constant.OPERATION, "")
	return nil
}
