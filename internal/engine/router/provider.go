package router

import (
	"github.com/google/wire"

	"github.com/talenthub/talenthub/internal/engine/service"
	httpx "github.com/talenthub/talenthub/pkg/http"
)

// ProviderSet 提供路由相关的依赖
var ProviderSet = wire.NewSet(
	ProvideRouter,
)

// ProvideRouter 提供路由实例
func ProvideRouter(httpConf httpx.Http, event *service.EventService, invitation *service.InvitationService,
	response *service.ResponseService, sync *service.SyncService, candidate *service.CandidateService) *Router {
	return NewRouter(&httpConf, event, invitation, response, sync, candidate)
}
