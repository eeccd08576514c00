package service

import (
	"github.com/google/wire"

	"github.com/talenthub/talenthub/internal/engine/repo"
	"github.com/talenthub/talenthub/internal/pkg/google"
	"github.com/talenthub/talenthub/internal/pkg/notify"
	"github.com/talenthub/talenthub/pkg/http"
)

// ProviderSet 提供服务层相关的依赖
var ProviderSet = wire.NewSet(
	NewEventService,
	ProvideInvitationService,
	NewResponseService,
	NewSyncService,
	NewSyncScheduler,
	NewCandidateService,
	google.NewCalendarProvider,
	notify.NewDispatcher,
)

// ProvideInvitationService 提供邀请服务，外部响应链接以 http.externalBaseUrl 为前缀
func ProvideInvitationService(invitationRepo repo.IInvitationRepository, eventRepo repo.IEventRepository,
	userRepo repo.IUserRepository, dispatcher *notify.Dispatcher, httpConf http.Http) *InvitationService {
	return NewInvitationService(invitationRepo, eventRepo, userRepo, dispatcher, httpConf.ExternalBaseURL)
}
