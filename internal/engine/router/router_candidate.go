package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/talenthub/talenthub/internal/engine/constant"
	"github.com/talenthub/talenthub/internal/engine/model"
	httpx "github.com/talenthub/talenthub/pkg/http"
)

func (rt *Router) candidateRouter(r fiber.Router, auth fiber.Handler) {
	candidateGroup := r.Group("/candidates")
	{
		candidateGroup.Get("/", auth, rt.listCandidates)            // GET /candidates - list candidates
		candidateGroup.Put("/", auth, rt.ensureCandidate)           // PUT /candidates - create or update by external ref
		candidateGroup.Get("/:candidateId", auth, rt.getCandidate)  // GET /candidates/:candidateId
	}
}

// ensureCandidate 按外部引用创建或更新，重复提交幂等
func (rt *Router) ensureCandidate(c *fiber.Ctx) error {
	var req model.EnsureCandidateReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	resp, err := rt.Candidate.EnsureByExternalRef(&req)
	if err != nil {
		return fail(c, err)
	}

	c.Locals(constant.DETAIL, resp)
	return nil
}

func (rt *Router) getCandidate(c *fiber.Ctx) error {
	candidateId := c.Params("candidateId")
	if candidateId == "" {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, "candidate id is empty", c.Path())
	}

	resp, err := rt.Candidate.GetCandidate(candidateId)
	if err != nil {
		return fail(c, err)
	}

	c.Locals(constant.DETAIL, resp)
	return nil
}

func (rt *Router) listCandidates(c *fiber.Ctx) error {
	candidates, count, err := rt.Candidate.ListCandidates(queryInt(c, "pageNum"), queryInt(c, "pageSize"))
	if err != nil {
		return fail(c, err)
	}

	c.Locals(constant.DETAIL, map[string]any{
		"candidates": candidates,
		"total":      count,
	})
	return nil
}
