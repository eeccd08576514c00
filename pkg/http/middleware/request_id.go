package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/talenthub/talenthub/pkg/id"
)

/**
 * @author: dev@talenthub.io
 * @file: request_id.go
 * @description: 请求ID中间件
 */

// RequestIdMiddleware 透传或生成 X-Request-Id，便于日志串联
func RequestIdMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(fiber.HeaderXRequestID)
		if rid == "" {
			rid = id.ShortId()
		}
		c.Locals(fiber.HeaderXRequestID, rid)
		c.Set(fiber.HeaderXRequestID, rid)
		return c.Next()
	}
}
