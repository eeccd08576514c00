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

package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"

	"github.com/talenthub/talenthub/internal/engine/common"
	"github.com/talenthub/talenthub/internal/engine/constant"
	"github.com/talenthub/talenthub/internal/engine/model"
	"github.com/talenthub/talenthub/internal/engine/repo"
	"github.com/talenthub/talenthub/internal/pkg/google"
	"github.com/talenthub/talenthub/pkg/cache"
	"github.com/talenthub/talenthub/pkg/id"
	"github.com/talenthub/talenthub/pkg/log"
	"github.com/talenthub/talenthub/pkg/retry"
)

// ErrSyncAlreadyRunning 同一用户的并发同步请求被拒绝，稍后重试即可
var ErrSyncAlreadyRunning = common.E(common.KindTransient, "sync already in progress")

const (
	syncLockTTL = 5 * time.Minute
	// 首次同步没有锚点时的回溯窗口
	initialSyncLookback = 30 * 24 * time.Hour
)

type SyncService struct {
	linkRepo    repo.ICalendarLinkRepository
	mappingRepo repo.IEventMappingRepository
	eventRepo   repo.IEventRepository
	provider    google.ICalendarProvider
	cache       cache.ICache
}

func NewSyncService(linkRepo repo.ICalendarLinkRepository, mappingRepo repo.IEventMappingRepository,
	eventRepo repo.IEventRepository, provider google.ICalendarProvider, cache cache.ICache) *SyncService {
	return &SyncService{
		linkRepo:    linkRepo,
		mappingRepo: mappingRepo,
		eventRepo:   eventRepo,
		provider:    provider,
		cache:       cache,
	}
}

// GetSettings 查询用户的同步设置
func (s *SyncService) GetSettings(userId string) (*model.SyncSettingsResp, error) {
	link, err := s.linkRepo.GetLinkByUserId(userId)
	if err != nil {
		return nil, fmt.Errorf("get calendar link failed: %w", err)
	}
	if link == nil || link.State == model.LinkStateDisconnected {
		return &model.SyncSettingsResp{}, nil
	}
	return &model.SyncSettingsResp{
		IsConnected:        link.State == model.LinkStateConnected,
		SyncEnabled:        link.SyncEnabled == 1,
		RequiresReauth:     link.State == model.LinkStateRequiresReauth,
		ExternalCalendarId: link.ExternalCalendarId,
		LastSyncAt:         link.LastSyncAt,
	}, nil
}

// EnableSync 启用同步
// 未连接或授权失效时返回授权跳转地址，由前端引导用户完成 OAuth
func (s *SyncService) EnableSync(userId string) (*model.EnableSyncResp, error) {
	// 1. 查询现有连接
	link, err := s.linkRepo.GetLinkByUserId(userId)
	if err != nil {
		return nil, fmt.Errorf("get calendar link failed: %w", err)
	}

	// 2. 已连接则直接打开开关
	if link != nil && link.State == model.LinkStateConnected {
		if err := s.linkRepo.UpdateLinkByUserId(userId, map[string]any{"sync_enabled": 1}); err != nil {
			return nil, fmt.Errorf("enable sync failed: %w", err)
		}
		log.Infow("success enable sync", "userId", userId)
		return &model.EnableSyncResp{Message: "calendar sync enabled"}, nil
	}

	// 3. 其余情况需要走授权流程
	return &model.EnableSyncResp{
		Message:      "authorization required",
		RequiresAuth: true,
		AuthUrl:      s.provider.AuthURL(userId),
	}, nil
}

// CompleteAuth 用授权码完成连接
func (s *SyncService) CompleteAuth(ctx context.Context, userId, code string) (*model.SyncSettingsResp, error) {
	if code == "" {
		return nil, common.E(common.KindValidation, "auth code cannot be empty")
	}

	// 1. 换取令牌
	token, err := s.provider.Exchange(ctx, code)
	if err != nil {
		log.Errorw("exchange auth code failed", "userId", userId, "error", err)
		return nil, common.Wrap(common.KindAuthScope, err, "exchange auth code failed")
	}

	// 2. 探测主日历，验证授权可用
	session, err := s.provider.Open(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("open calendar session failed: %w", err)
	}
	calendarId, err := session.PrimaryCalendarId(ctx)
	if err != nil {
		if google.IsAuthScopeErr(err) {
			return nil, common.Wrap(common.KindAuthScope, err, "calendar access denied")
		}
		return nil, fmt.Errorf("probe primary calendar failed: %w", err)
	}

	// 3. 保存连接
	link := &model.CalendarLink{
		UserId:             userId,
		Provider:           "google",
		State:              model.LinkStateConnected,
		ExternalCalendarId: calendarId,
		AccessToken:        token.AccessToken,
		RefreshToken:       token.RefreshToken,
		SyncEnabled:        1,
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		link.TokenExpiry = &expiry
	}
	if err := s.linkRepo.SaveLink(link); err != nil {
		log.Errorw("save calendar link failed", "userId", userId, "error", err)
		return nil, fmt.Errorf("save calendar link failed: %w", err)
	}

	log.Infow("success connect calendar", "userId", userId, "calendarId", calendarId)
	return s.GetSettings(userId)
}

// Disconnect 断开连接，清除令牌与映射，本地事件保留
func (s *SyncService) Disconnect(userId string) error {
	link, err := s.linkRepo.GetLinkByUserId(userId)
	if err != nil {
		return fmt.Errorf("get calendar link failed: %w", err)
	}
	if link == nil {
		return common.E(common.KindNotFound, "calendar is not connected")
	}

	updates := map[string]any{
		"state":         model.LinkStateDisconnected,
		"sync_enabled":  0,
		"access_token":  "",
		"refresh_token": "",
		"token_expiry":  nil,
	}
	if err := s.linkRepo.UpdateLinkByUserId(userId, updates); err != nil {
		return fmt.Errorf("disconnect calendar failed: %w", err)
	}
	if err := s.mappingRepo.DeleteByUserId(userId); err != nil {
		return fmt.Errorf("delete event mappings failed: %w", err)
	}

	log.Infow("success disconnect calendar", "userId", userId)
	return nil
}

// SyncToGoogle 将本地变更推送到外部日历
func (s *SyncService) SyncToGoogle(ctx context.Context, userId string) (*model.SyncResp, error) {
	return s.runLocked(ctx, userId, func(sc *syncContext) (*model.SyncResult, error) {
		result, err := s.exportEvents(ctx, sc)
		if err != nil {
			return nil, err
		}
		return result, nil
	})
}

// SyncFromGoogle 拉取外部变更到本地
func (s *SyncService) SyncFromGoogle(ctx context.Context, userId string) (*model.SyncResp, error) {
	return s.runLocked(ctx, userId, func(sc *syncContext) (*model.SyncResult, error) {
		result, err := s.importEvents(ctx, sc)
		if err != nil {
			return nil, err
		}
		return result, nil
	})
}

// FullSync 双向同步，先导入后导出
// 先导入保证冲突在本地裁决后再决定是否覆盖外部
func (s *SyncService) FullSync(ctx context.Context, userId string) (*model.SyncResp, error) {
	return s.runLocked(ctx, userId, func(sc *syncContext) (*model.SyncResult, error) {
		result := &model.SyncResult{}

		imported, err := s.importEvents(ctx, sc)
		if err != nil {
			return nil, err
		}
		result.Add(*imported)

		exported, err := s.exportEvents(ctx, sc)
		if err != nil {
			return nil, err
		}
		result.Add(*exported)
		return result, nil
	})
}

// syncContext 一次同步过程中共享的状态
type syncContext struct {
	userId  string
	link    *model.CalendarLink
	session google.ICalendarSession
	since   time.Time
	started time.Time
	// 导入阶段判为冲突的事件，导出阶段回推外部时不再重复计数
	conflicted map[string]bool
}

// runLocked 获取用户级互斥锁后执行同步，并维护同步锚点与令牌
func (s *SyncService) runLocked(ctx context.Context, userId string,
	fn func(sc *syncContext) (*model.SyncResult, error)) (*model.SyncResp, error) {
	// 1. 连接与开关检查
	link, err := s.linkRepo.GetLinkByUserId(userId)
	if err != nil {
		return nil, fmt.Errorf("get calendar link failed: %w", err)
	}
	if link == nil || link.State == model.LinkStateDisconnected {
		return nil, common.E(common.KindNotFound, "calendar is not connected")
	}
	if link.State == model.LinkStateRequiresReauth {
		return nil, common.E(common.KindAuthScope, "calendar authorization expired, re-auth required")
	}
	if link.SyncEnabled != 1 {
		return nil, common.E(common.KindInvalidState, "calendar sync is disabled")
	}

	// 2. 用户级互斥，避免并发同步互相覆盖
	acquired, release, err := cache.Lock(ctx, s.cache, constant.SyncLockKeyPrefix+userId, syncLockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire sync lock failed: %w", err)
	}
	if !acquired {
		return nil, ErrSyncAlreadyRunning
	}
	defer release()

	// 3. 打开外部会话
	session, err := s.openSession(ctx, link)
	if err != nil {
		return nil, err
	}

	sc := &syncContext{
		userId:     userId,
		link:       link,
		session:    session,
		since:      s.sinceAnchor(link),
		started:    time.Now(),
		conflicted: map[string]bool{},
	}

	// 4. 执行同步
	result, err := fn(sc)
	if err != nil {
		// 授权失效时标记连接，后续请求直接要求重新授权
		if common.KindOf(err) == common.KindAuthScope {
			if uerr := s.linkRepo.UpdateLinkByUserId(userId, map[string]any{"state": model.LinkStateRequiresReauth}); uerr != nil {
				log.Errorw("mark link requires reauth failed", "userId", userId, "error", uerr)
			}
		}
		return nil, err
	}

	// 5. 推进同步锚点，持久化可能刷新过的令牌
	updates := map[string]any{"last_sync_at": sc.started}
	if tok, terr := session.Token(); terr == nil && tok.AccessToken != link.AccessToken {
		updates["access_token"] = tok.AccessToken
		if tok.RefreshToken != "" {
			updates["refresh_token"] = tok.RefreshToken
		}
		if !tok.Expiry.IsZero() {
			updates["token_expiry"] = tok.Expiry
		}
	}
	if err := s.linkRepo.UpdateLinkByUserId(userId, updates); err != nil {
		log.Errorw("update sync anchor failed", "userId", userId, "error", err)
	}

	log.Infow("success sync calendar", "userId", userId,
		"imported", result.Imported, "exported", result.Exported,
		"updated", result.Updated, "conflicts", result.Conflicts)
	return &model.SyncResp{Message: "sync completed", Result: *result}, nil
}

func (s *SyncService) openSession(ctx context.Context, link *model.CalendarLink) (google.ICalendarSession, error) {
	token := &oauth2.Token{
		AccessToken:  link.AccessToken,
		RefreshToken: link.RefreshToken,
	}
	if link.TokenExpiry != nil {
		token.Expiry = *link.TokenExpiry
	}
	session, err := s.provider.Open(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("open calendar session failed: %w", err)
	}
	return session, nil
}

func (s *SyncService) sinceAnchor(link *model.CalendarLink) time.Time {
	if link.LastSyncAt != nil {
		return *link.LastSyncAt
	}
	return time.Now().Add(-initialSyncLookback)
}

// importEvents 拉取外部变更并与本地裁决
func (s *SyncService) importEvents(ctx context.Context, sc *syncContext) (*model.SyncResult, error) {
	result := &model.SyncResult{}

	// 1. 增量拉取，瞬时错误重试
	var externals []google.ExternalEvent
	err := retry.Do(ctx, func(ctx context.Context) error {
		var lerr error
		externals, lerr = sc.session.ListUpdatedSince(ctx, sc.link.ExternalCalendarId, sc.since)
		return lerr
	}, retry.WithMaxAttempts(3), retry.WithRetryIf(func(err error) bool {
		return !google.IsAuthScopeErr(err)
	}))
	if err != nil {
		if google.IsAuthScopeErr(err) {
			return nil, common.Wrap(common.KindAuthScope, err, "list external events failed")
		}
		return nil, common.Wrap(common.KindTransient, err, "list external events failed")
	}

	// 2. 逐个合并
	for i := range externals {
		ext := &externals[i]
		if err := s.mergeExternal(sc, ext, result); err != nil {
			log.Errorw("merge external event failed", "userId", sc.userId, "externalEventId", ext.Id, "error", err)
			return nil, err
		}
	}
	return result, nil
}

// mergeExternal 将单个外部事件并入本地
func (s *SyncService) mergeExternal(sc *syncContext, ext *google.ExternalEvent, result *model.SyncResult) error {
	mapping, err := s.mappingRepo.GetMappingByExternalEventId(sc.userId, ext.Id)
	if err != nil {
		return fmt.Errorf("get event mapping failed: %w", err)
	}

	// 未映射的外部事件，已取消的跳过，其余导入为新本地事件
	if mapping == nil {
		if ext.Cancelled || ext.Title == "" {
			return nil
		}
		allDay := 0
		if ext.AllDay {
			allDay = 1
		}
		event := &model.Event{
			EventId:     id.GetUUID(),
			Title:       ext.Title,
			Description: ext.Description,
			StartTime:   ext.Start,
			EndTime:     ext.End,
			AllDay:      allDay,
			Location:    ext.Location,
			Status:      model.EventStatusScheduled,
			Priority:    model.EventPriorityMedium,
			OwnerId:     sc.userId,
		}
		if err := s.eventRepo.CreateEvent(event); err != nil {
			return fmt.Errorf("create imported event failed: %w", err)
		}
		if err := s.saveMapping(sc, event.EventId, ext, time.Now()); err != nil {
			return err
		}
		result.Imported++
		return nil
	}

	// 外部未变化则跳过
	if !ext.Updated.After(mapping.ExternalUpdatedAt) {
		return nil
	}

	event, err := s.eventRepo.GetEvent(mapping.EventId)
	if err != nil {
		// 本地已删除，映射失效
		if derr := s.mappingRepo.DeleteMappingByEventId(mapping.EventId); derr != nil {
			return fmt.Errorf("delete stale mapping failed: %w", derr)
		}
		return nil
	}

	// 双方都改过为冲突，按最后修改时间裁决
	// 冲突事件只进 conflicts 桶，裁决写入不再另计 updated/exported
	localChanged := event.UpdatedAt.After(mapping.LocalUpdatedAt)
	if localChanged {
		result.Conflicts++
		sc.conflicted[mapping.EventId] = true
		if event.UpdatedAt.After(ext.Updated) {
			// 本地较新，外部版本丢弃，导出阶段会覆盖外部
			return nil
		}
	}

	// 外部获胜，覆盖本地
	updates := map[string]any{}
	if ext.Cancelled {
		updates["status"] = model.EventStatusCancelled
	} else {
		allDay := 0
		if ext.AllDay {
			allDay = 1
		}
		updates["title"] = ext.Title
		updates["description"] = ext.Description
		updates["start_time"] = ext.Start
		updates["end_time"] = ext.End
		updates["all_day"] = allDay
		updates["location"] = ext.Location
	}
	if err := s.eventRepo.UpdateEventByEventId(mapping.EventId, updates); err != nil {
		return fmt.Errorf("update local event failed: %w", err)
	}
	if err := s.saveMapping(sc, mapping.EventId, ext, time.Now()); err != nil {
		return err
	}
	if !localChanged {
		result.Updated++
	}
	return nil
}

// exportEvents 推送本地变更到外部日历
func (s *SyncService) exportEvents(ctx context.Context, sc *syncContext) (*model.SyncResult, error) {
	result := &model.SyncResult{}

	// 1. 遍历全部本地事件，未映射的无论何时修改都要补导出，
	// 已映射的靠 LocalUpdatedAt 比对跳过未变化的
	events, err := s.eventRepo.ListAllEventsByOwner(sc.userId)
	if err != nil {
		return nil, fmt.Errorf("list local events failed: %w", err)
	}

	for i := range events {
		event := &events[i]
		if event.Status == model.EventStatusCancelled {
			continue
		}

		mapping, err := s.mappingRepo.GetMappingByEventId(event.EventId)
		if err != nil {
			return nil, fmt.Errorf("get event mapping failed: %w", err)
		}

		ext := &google.ExternalEvent{
			Title:       event.Title,
			Description: event.Description,
			Location:    event.Location,
			Start:       event.StartTime,
			End:         event.EndTime,
			AllDay:      event.AllDay == 1,
		}

		// 2. 无映射则新建外部事件，有映射且本地较新则覆盖外部
		var saved *google.ExternalEvent
		if mapping == nil {
			saved, err = s.callExternal(ctx, func(ctx context.Context) (*google.ExternalEvent, error) {
				return sc.session.Insert(ctx, sc.link.ExternalCalendarId, ext)
			})
			if err != nil {
				return nil, err
			}
			result.Exported++
		} else {
			if !event.UpdatedAt.After(mapping.LocalUpdatedAt) {
				continue
			}
			saved, err = s.callExternal(ctx, func(ctx context.Context) (*google.ExternalEvent, error) {
				return sc.session.Patch(ctx, sc.link.ExternalCalendarId, mapping.ExternalEventId, ext)
			})
			if err != nil {
				return nil, err
			}
			if !sc.conflicted[event.EventId] {
				result.Updated++
			}
		}

		if err := s.saveMapping(sc, event.EventId, saved, event.UpdatedAt); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// callExternal 带重试的外部调用，授权错误不重试
func (s *SyncService) callExternal(ctx context.Context,
	fn func(ctx context.Context) (*google.ExternalEvent, error)) (*google.ExternalEvent, error) {
	var out *google.ExternalEvent
	err := retry.Do(ctx, func(ctx context.Context) error {
		var lerr error
		out, lerr = fn(ctx)
		return lerr
	}, retry.WithMaxAttempts(3), retry.WithRetryIf(func(err error) bool {
		return !google.IsAuthScopeErr(err)
	}))
	if err != nil {
		if google.IsAuthScopeErr(err) {
			return nil, common.Wrap(common.KindAuthScope, err, "external calendar call failed")
		}
		return nil, common.Wrap(common.KindTransient, err, "external calendar call failed")
	}
	return out, nil
}

func (s *SyncService) saveMapping(sc *syncContext, eventId string, ext *google.ExternalEvent, localUpdated time.Time) error {
	now := time.Now()
	m := &model.EventMapping{
		UserId:            sc.userId,
		EventId:           eventId,
		ExternalEventId:   ext.Id,
		LocalUpdatedAt:    localUpdated,
		ExternalUpdatedAt: ext.Updated,
		LastSyncedAt:      &now,
	}
	if err := s.mappingRepo.SaveMapping(m); err != nil {
		return fmt.Errorf("save event mapping failed: %w", err)
	}
	return nil
}
