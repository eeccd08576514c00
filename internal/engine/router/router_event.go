package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/talenthub/talenthub/internal/engine/constant"
	"github.com/talenthub/talenthub/internal/engine/model"
	httpx "github.com/talenthub/talenthub/pkg/http"
	"github.com/talenthub/talenthub/pkg/http/middleware"
)

func (rt *Router) eventRouter(r fiber.Router, auth fiber.Handler) {
	eventGroup := r.Group("/events")
	{
		eventGroup.Get("/", auth, rt.listEvents)                // GET /events - list events (paged or range)
		eventGroup.Post("/", auth, rt.createEvent)              // POST /events - create event
		eventGroup.Get("/:eventId", auth, rt.getEvent)          // GET /events/:eventId - event detail with attendees
		eventGroup.Put("/:eventId", auth, rt.updateEvent)       // PUT /events/:eventId - update event
		eventGroup.Put("/:eventId/status", auth, rt.updateEventStatus)
		eventGroup.Post("/:eventId/attendees", auth, rt.addAttendee) // POST /events/:eventId/attendees - add attendee
		eventGroup.Delete("/:eventId", auth, rt.deleteEvent)    // DELETE /events/:eventId - delete event
	}
}

func (rt *Router) createEvent(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFromCtx(c)
	if !ok {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}

	var req model.CreateEventReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	resp, err := rt.Event.CreateEvent(&req, claims.UserId)
	if err != nil {
		return fail(c, err)
	}

	c.Locals(constant.DETAIL, resp)
	return nil
}

func (rt *Router) getEvent(c *fiber.Ctx) error {
	eventId := c.Params("eventId")
	if eventId == "" {
		return httpx.WithRepErrMsg(c, httpx.EventIdIsEmpty.Code, httpx.EventIdIsEmpty.Msg, c.Path())
	}

	resp, err := rt.Event.GetEvent(eventId)
	if err != nil {
		return fail(c, err)
	}

	c.Locals(constant.DETAIL, resp)
	return nil
}

// listEvents 分页查询；携带 from/to 参数时按时间区间查询
func (rt *Router) listEvents(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFromCtx(c)
	if !ok {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}

	if c.Query("from") != "" || c.Query("to") != "" {
		from, err := time.Parse(time.RFC3339, c.Query("from"))
		if err != nil {
			return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, "invalid from time", c.Path())
		}
		to, err := time.Parse(time.RFC3339, c.Query("to"))
		if err != nil {
			return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, "invalid to time", c.Path())
		}
		events, err := rt.Event.ListEventsInRange(claims.UserId, from, to)
		if err != nil {
			return fail(c, err)
		}
		c.Locals(constant.DETAIL, map[string]any{"events": events})
		return nil
	}

	events, count, err := rt.Event.ListEvents(claims.UserId, queryInt(c, "pageNum"), queryInt(c, "pageSize"))
	if err != nil {
		return fail(c, err)
	}

	c.Locals(constant.DETAIL, map[string]any{
		"events": events,
		"total":  count,
	})
	return nil
}

func (rt *Router) updateEvent(c *fiber.Ctx) error {
	eventId := c.Params("eventId")
	if eventId == "" {
		return httpx.WithRepErrMsg(c, httpx.EventIdIsEmpty.Code, httpx.EventIdIsEmpty.Msg, c.Path())
	}

	var req model.CreateEventReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	resp, err := rt.Event.UpdateEvent(eventId, &req)
	if err != nil {
		return fail(c, err)
	}

	c.Locals(constant.DETAIL, resp)
	return nil
}

func (rt *Router) updateEventStatus(c *fiber.Ctx) error {
	eventId := c.Params("eventId")
	if eventId == "" {
		return httpx.WithRepErrMsg(c, httpx.EventIdIsEmpty.Code, httpx.EventIdIsEmpty.Msg, c.Path())
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	if err := rt.Event.UpdateEventStatus(eventId, req.Status); err != nil {
		return fail(c, err)
	}

	c.Locals(constant.OPERATION, "")
	return nil
}

func (rt *Router) addAttendee(c *fiber.Ctx) error {
	eventId := c.Params("eventId")
	if eventId == "" {
		return httpx.WithRepErrMsg(c, httpx.EventIdIsEmpty.Code, httpx.EventIdIsEmpty.Msg, c.Path())
	}

	var req model.AddAttendeeReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	resp, err := rt.Event.AddAttendee(eventId, &req)
	if err != nil {
		return fail(c, err)
	}

	c.Locals(constant.DETAIL, resp)
	return nil
}

func (rt *Router) deleteEvent(c *fiber.Ctx) error {
	eventId := c.Params("eventId")
	if eventId == "" {
		return httpx.WithRepErrMsg(c, httpx.EventIdIsEmpty.Code, httpx.EventIdIsEmpty.Msg, c.Path())
	}

	if err := rt.Event.DeleteEvent(eventId); err != nil {
		return fail(c, err)
	}

	c.Locals(constant.OPERATION, "")
	return nil
}
