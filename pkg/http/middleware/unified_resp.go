package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/talenthub/talenthub/internal/engine/constant"
	httpx "github.com/talenthub/talenthub/pkg/http"
)

// UnifiedResponseMiddleware 统一响应中间件
// c.Locals(constant.DETAIL, value) 用于设置响应数据
func UnifiedResponseMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err != nil {
			return err
		}

		// 业务逻辑错误
		if c.Response().StatusCode() != fiber.StatusOK {
			return nil
		}

		// 处理器已经写入响应体（例如错误响应），不再包装
		if len(c.Response().Body()) > 0 {
			return nil
		}

		// 业务逻辑正确, 设置响应数据
		if detail := c.Locals(constant.DETAIL); detail != nil {
			return httpx.WithRepJSON(c, detail)
		}

		// 业务逻辑正确, 无响应数据, 只返回结果
		if c.Locals(constant.OPERATION) != nil {
			return httpx.WithRepNotDetail(c)
		}

		return nil
	}
}
