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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"github.com/talenthub/talenthub/internal/engine/common"
	"github.com/talenthub/talenthub/internal/engine/constant"
	"github.com/talenthub/talenthub/internal/engine/model"
)

type syncFixture struct {
	svc         *SyncService
	linkRepo    *fakeLinkRepo
	mappingRepo *fakeMappingRepo
	eventRepo   *fakeEventRepo
	provider    *fakeCalendarProvider
	cache       *fakeCache
}

func newSyncFixture() *syncFixture {
	linkRepo := newFakeLinkRepo()
	mappingRepo := newFakeMappingRepo()
	eventRepo := newFakeEventRepo()
	provider := newFakeCalendarProvider()
	c := newFakeCache()
	return &syncFixture{
		svc:         NewSyncService(linkRepo, mappingRepo, eventRepo, provider, c),
		linkRepo:    linkRepo,
		mappingRepo: mappingRepo,
		eventRepo:   eventRepo,
		provider:    provider,
		cache:       c,
	}
}

// seedLink 预置一条已连接且开启同步的链接
func (fx *syncFixture) seedLink(t *testing.T, userId string, lastSyncAt time.Time) {
	t.Helper()
	link := &model.CalendarLink{
		UserId:             userId,
		Provider:           "google",
		State:              model.LinkStateConnected,
		ExternalCalendarId: "primary",
		AccessToken:        "access-token",
		RefreshToken:       "refresh-token",
		SyncEnabled:        1,
	}
	if !lastSyncAt.IsZero() {
		link.LastSyncAt = &lastSyncAt
	}
	require.NoError(t, fx.linkRepo.SaveLink(link))
}

func (fx *syncFixture) seedLocalEvent(t *testing.T, eventId, userId string, updatedAt time.Time) *model.Event {
	t.Helper()
	event := &model.Event{
		EventId:   eventId,
		Title:     "Phone Screen",
		StartTime: time.Now().Add(48 * time.Hour),
		EndTime:   time.Now().Add(49 * time.Hour),
		Status:    model.EventStatusScheduled,
		Priority:  model.EventPriorityMedium,
		OwnerId:   userId,
	}
	require.NoError(t, fx.eventRepo.CreateEvent(event))
	fx.eventRepo.setUpdatedAt(eventId, updatedAt)
	return event
}

func TestEnableSync(t *testing.T) {
	fx := newSyncFixture()

	// 未连接时引导授权
	resp, err := fx.svc.EnableSync("user-1")
	require.NoError(t, err)
	assert.True(t, resp.RequiresAuth)
	assert.Contains(t, resp.AuthUrl, "state=user-1")

	// 已连接时直接打开开关
	fx.seedLink(t, "user-1", time.Time{})
	require.NoError(t, fx.linkRepo.UpdateLinkByUserId("user-1", map[string]any{"sync_enabled": 0}))
	resp, err = fx.svc.EnableSync("user-1")
	require.NoError(t, err)
	assert.False(t, resp.RequiresAuth)

	link, err := fx.linkRepo.GetLinkByUserId("user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, link.SyncEnabled)
}

func TestCompleteAuth(t *testing.T) {
	fx := newSyncFixture()

	settings, err := fx.svc.CompleteAuth(context.Background(), "user-1", "good-code")
	require.NoError(t, err)
	assert.True(t, settings.IsConnected)
	assert.True(t, settings.SyncEnabled)
	assert.Equal(t, "primary", settings.ExternalCalendarId)

	link, err := fx.linkRepo.GetLinkByUserId("user-1")
	require.NoError(t, err)
	assert.Equal(t, model.LinkStateConnected, link.State)
	assert.Equal(t, "access-good-code", link.AccessToken)
}

func TestCompleteAuth_BadCode(t *testing.T) {
	fx := newSyncFixture()

	_, err := fx.svc.CompleteAuth(context.Background(), "user-1", "bad")
	require.Error(t, err)
	assert.Equal(t, common.KindAuthScope, common.KindOf(err))

	_, err = fx.svc.CompleteAuth(context.Background(), "user-1", "")
	require.Error(t, err)
	assert.Equal(t, common.KindValidation, common.KindOf(err))
}

func TestSyncToGoogle_ExportsNewEvents(t *testing.T) {
	fx := newSyncFixture()
	anchor := time.Now().Add(-time.Hour)
	fx.seedLink(t, "user-1", anchor)
	fx.seedLocalEvent(t, "evt-1", "user-1", time.Now())

	resp, err := fx.svc.SyncToGoogle(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Result.Exported)
	assert.Equal(t, 1, fx.provider.session.inserted)

	// 建立映射，锚点前进
	mapping, err := fx.mappingRepo.GetMappingByEventId("evt-1")
	require.NoError(t, err)
	require.NotNil(t, mapping)
	assert.NotEmpty(t, mapping.ExternalEventId)

	link, err := fx.linkRepo.GetLinkByUserId("user-1")
	require.NoError(t, err)
	require.NotNil(t, link.LastSyncAt)
	assert.True(t, link.LastSyncAt.After(anchor))
}

func TestSyncToGoogle_SkipsCancelledAndUnchanged(t *testing.T) {
	fx := newSyncFixture()
	anchor := time.Now().Add(-time.Hour)
	fx.seedLink(t, "user-1", anchor)

	// 已映射且上次同步后未修改的事件不回推
	updated := anchor.Add(-time.Minute)
	event := fx.seedLocalEvent(t, "evt-synced", "user-1", updated)
	require.NoError(t, fx.mappingRepo.SaveMapping(&model.EventMapping{
		UserId:            "user-1",
		EventId:           event.EventId,
		ExternalEventId:   "ext-1",
		LocalUpdatedAt:    updated,
		ExternalUpdatedAt: updated,
	}))
	// 已取消的事件不导出
	fx.seedLocalEvent(t, "evt-cancelled", "user-1", time.Now())
	require.NoError(t, fx.eventRepo.UpdateEventByEventId("evt-cancelled", map[string]any{
		"status": model.EventStatusCancelled,
	}))

	resp, err := fx.svc.SyncToGoogle(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Result.Exported)
	assert.Equal(t, 0, resp.Result.Updated)
	assert.Equal(t, 0, fx.provider.session.inserted)
	assert.Equal(t, 0, fx.provider.session.patched)
}

func TestSyncToGoogle_ExportsUnmappedRegardlessOfAnchor(t *testing.T) {
	fx := newSyncFixture()
	anchor := time.Now().Add(-time.Hour)
	fx.seedLink(t, "user-1", anchor)

	// 从未导出过的事件即使早于锚点也要补导出
	fx.seedLocalEvent(t, "evt-old", "user-1", anchor.Add(-time.Minute))

	resp, err := fx.svc.SyncToGoogle(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Result.Exported)
	assert.Equal(t, 1, fx.provider.session.inserted)

	mapping, err := fx.mappingRepo.GetMappingByEventId("evt-old")
	require.NoError(t, err)
	require.NotNil(t, mapping)
}

func TestSyncToGoogle_PullDoesNotHideLocalChanges(t *testing.T) {
	fx := newSyncFixture()
	anchor := time.Now().Add(-time.Hour)
	fx.seedLink(t, "user-1", anchor)
	fx.seedLocalEvent(t, "evt-1", "user-1", time.Now().Add(-time.Minute))

	// 先拉取，锚点前进
	_, err := fx.svc.SyncFromGoogle(context.Background(), "user-1")
	require.NoError(t, err)

	// 再推送，之前未导出的事件不能被前进后的锚点吞掉
	resp, err := fx.svc.SyncToGoogle(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Result.Exported)
	assert.Equal(t, 1, fx.provider.session.inserted)
}

func TestSyncToGoogle_SecondRunIsNoop(t *testing.T) {
	fx := newSyncFixture()
	fx.seedLink(t, "user-1", time.Now().Add(-time.Hour))
	fx.seedLocalEvent(t, "evt-1", "user-1", time.Now())

	resp, err := fx.svc.SyncToGoogle(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, 1, resp.Result.Exported)

	// 没有新变更的第二次推送不产生任何外部写入
	resp, err = fx.svc.SyncToGoogle(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Result.Exported)
	assert.Equal(t, 0, resp.Result.Updated)
	assert.Equal(t, 0, resp.Result.Conflicts)
	assert.Equal(t, 1, fx.provider.session.inserted)
	assert.Equal(t, 0, fx.provider.session.patched)
}

func TestSyncToGoogle_AuthScopeErrMidExport(t *testing.T) {
	fx := newSyncFixture()
	fx.seedLink(t, "user-1", time.Now().Add(-time.Hour))
	fx.seedLocalEvent(t, "evt-a", "user-1", time.Now())
	fx.seedLocalEvent(t, "evt-b", "user-1", time.Now())

	// 第一条写入成功后授权失效
	fx.provider.session.writeErr = &googleapi.Error{Code: 403, Message: "insufficient scope"}
	fx.provider.session.writeErrAfter = 1

	_, err := fx.svc.SyncToGoogle(context.Background(), "user-1")
	require.Error(t, err)
	assert.Equal(t, common.KindAuthScope, common.KindOf(err))
	assert.Equal(t, 1, fx.provider.session.inserted)

	// 失败之后的事件保持未导出，连接要求重新授权
	mapping, err := fx.mappingRepo.GetMappingByEventId("evt-b")
	require.NoError(t, err)
	assert.Nil(t, mapping)

	link, err := fx.linkRepo.GetLinkByUserId("user-1")
	require.NoError(t, err)
	assert.Equal(t, model.LinkStateRequiresReauth, link.State)
}

func TestSyncFromGoogle_ImportsNewEvents(t *testing.T) {
	fx := newSyncFixture()
	anchor := time.Now().Add(-time.Hour)
	fx.seedLink(t, "user-1", anchor)
	fx.provider.session.seedRemote("ext-100", "Onsite Loop",
		time.Now().Add(72*time.Hour), time.Now().Add(76*time.Hour), time.Now())

	resp, err := fx.svc.SyncFromGoogle(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Result.Imported)

	mapping, err := fx.mappingRepo.GetMappingByExternalEventId("user-1", "ext-100")
	require.NoError(t, err)
	require.NotNil(t, mapping)

	event, err := fx.eventRepo.GetEvent(mapping.EventId)
	require.NoError(t, err)
	assert.Equal(t, "Onsite Loop", event.Title)
	assert.Equal(t, "user-1", event.OwnerId)
	assert.Equal(t, model.EventStatusScheduled, event.Status)
}

func TestSyncFromGoogle_ExternalCancellation(t *testing.T) {
	fx := newSyncFixture()
	anchor := time.Now().Add(-time.Hour)
	fx.seedLink(t, "user-1", anchor)
	event := fx.seedLocalEvent(t, "evt-1", "user-1", anchor.Add(-time.Minute))

	// 已映射的外部事件被取消
	now := time.Now()
	require.NoError(t, fx.mappingRepo.SaveMapping(&model.EventMapping{
		UserId:            "user-1",
		EventId:           event.EventId,
		ExternalEventId:   "ext-1",
		LocalUpdatedAt:    event.UpdatedAt,
		ExternalUpdatedAt: anchor,
	}))
	fx.provider.session.seedRemote("ext-1", event.Title, event.StartTime, event.EndTime, now)
	fx.provider.session.remote["ext-1"].Cancelled = true

	resp, err := fx.svc.SyncFromGoogle(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Result.Updated)

	got, err := fx.eventRepo.GetEvent(event.EventId)
	require.NoError(t, err)
	assert.Equal(t, model.EventStatusCancelled, got.Status)
}

func TestFullSync_ConflictLocalWins(t *testing.T) {
	fx := newSyncFixture()
	anchor := time.Now().Add(-time.Hour)
	fx.seedLink(t, "user-1", anchor)

	// 双方都改过: 本地 5 分钟前，外部 10 分钟前，本地胜出
	base := anchor.Add(-time.Minute)
	localUpdated := time.Now().Add(-5 * time.Minute)
	externalUpdated := time.Now().Add(-10 * time.Minute)
	event := fx.seedLocalEvent(t, "evt-1", "user-1", localUpdated)
	require.NoError(t, fx.mappingRepo.SaveMapping(&model.EventMapping{
		UserId:            "user-1",
		EventId:           event.EventId,
		ExternalEventId:   "ext-1",
		LocalUpdatedAt:    base,
		ExternalUpdatedAt: base,
	}))
	fx.provider.session.seedRemote("ext-1", "Remote Title", event.StartTime, event.EndTime, externalUpdated)

	resp, err := fx.svc.FullSync(context.Background(), "user-1")
	require.NoError(t, err)
	// 冲突事件只进 conflicts 桶，裁决回推不再计入 updated
	assert.Equal(t, 1, resp.Result.Conflicts)
	assert.Equal(t, 0, resp.Result.Updated)
	assert.Equal(t, 1, fx.provider.session.patched)

	// 本地内容未被外部覆盖
	got, err := fx.eventRepo.GetEvent(event.EventId)
	require.NoError(t, err)
	assert.Equal(t, "Phone Screen", got.Title)
	// 外部侧被本地内容覆盖
	assert.Equal(t, "Phone Screen", fx.provider.session.remote["ext-1"].Title)
}

func TestFullSync_ConflictExternalWins(t *testing.T) {
	fx := newSyncFixture()
	anchor := time.Now().Add(-time.Hour)
	fx.seedLink(t, "user-1", anchor)

	// 双方都改过: 外部更新更晚，外部胜出
	base := anchor.Add(-time.Minute)
	localUpdated := time.Now().Add(-10 * time.Minute)
	externalUpdated := time.Now().Add(-5 * time.Minute)
	event := fx.seedLocalEvent(t, "evt-1", "user-1", localUpdated)
	require.NoError(t, fx.mappingRepo.SaveMapping(&model.EventMapping{
		UserId:            "user-1",
		EventId:           event.EventId,
		ExternalEventId:   "ext-1",
		LocalUpdatedAt:    base,
		ExternalUpdatedAt: base,
	}))
	fx.provider.session.seedRemote("ext-1", "Remote Title", event.StartTime, event.EndTime, externalUpdated)

	resp, err := fx.svc.FullSync(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Result.Conflicts)
	assert.Equal(t, 0, resp.Result.Updated)

	got, err := fx.eventRepo.GetEvent(event.EventId)
	require.NoError(t, err)
	assert.Equal(t, "Remote Title", got.Title)
	// 导入已更新映射锚点，导出阶段不再回推
	assert.Equal(t, 0, fx.provider.session.patched)
}

func TestSync_LockContention(t *testing.T) {
	fx := newSyncFixture()
	fx.seedLink(t, "user-1", time.Now().Add(-time.Hour))

	// 他人持锁
	ok, err := fx.cache.SetNX(context.Background(), constant.SyncLockKeyPrefix+"user-1", "1", time.Minute).Result()
	require.NoError(t, err)
	require.True(t, ok)

	_, err = fx.svc.SyncFromGoogle(context.Background(), "user-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSyncAlreadyRunning))
	assert.Equal(t, common.KindTransient, common.KindOf(err))
}

func TestSync_AuthScopeErrMarksReauth(t *testing.T) {
	fx := newSyncFixture()
	fx.seedLink(t, "user-1", time.Now().Add(-time.Hour))
	fx.provider.session.listErr = &googleapi.Error{Code: 401, Message: "Invalid Credentials"}

	_, err := fx.svc.SyncFromGoogle(context.Background(), "user-1")
	require.Error(t, err)
	assert.Equal(t, common.KindAuthScope, common.KindOf(err))

	link, err := fx.linkRepo.GetLinkByUserId("user-1")
	require.NoError(t, err)
	assert.Equal(t, model.LinkStateRequiresReauth, link.State)

	// 后续请求直接要求重新授权
	_, err = fx.svc.SyncFromGoogle(context.Background(), "user-1")
	require.Error(t, err)
	assert.Equal(t, common.KindAuthScope, common.KindOf(err))
}

func TestSync_TransientErr(t *testing.T) {
	fx := newSyncFixture()
	fx.seedLink(t, "user-1", time.Now().Add(-time.Hour))
	fx.provider.session.listErr = errors.New("backend unavailable")

	_, err := fx.svc.SyncFromGoogle(context.Background(), "user-1")
	require.Error(t, err)
	assert.Equal(t, common.KindTransient, common.KindOf(err))

	// 瞬时错误不标记授权失效
	link, err := fx.linkRepo.GetLinkByUserId("user-1")
	require.NoError(t, err)
	assert.Equal(t, model.LinkStateConnected, link.State)
}

func TestSync_GuardsLinkState(t *testing.T) {
	fx := newSyncFixture()

	// 未连接
	_, err := fx.svc.SyncFromGoogle(context.Background(), "user-1")
	require.Error(t, err)
	assert.Equal(t, common.KindNotFound, common.KindOf(err))

	// 开关关闭
	fx.seedLink(t, "user-1", time.Time{})
	require.NoError(t, fx.linkRepo.UpdateLinkByUserId("user-1", map[string]any{"sync_enabled": 0}))
	_, err = fx.svc.SyncFromGoogle(context.Background(), "user-1")
	require.Error(t, err)
	assert.Equal(t, common.KindInvalidState, common.KindOf(err))
}

func TestDisconnect(t *testing.T) {
	fx := newSyncFixture()
	fx.seedLink(t, "user-1", time.Now().Add(-time.Hour))
	event := fx.seedLocalEvent(t, "evt-1", "user-1", time.Now())
	require.NoError(t, fx.mappingRepo.SaveMapping(&model.EventMapping{
		UserId:          "user-1",
		EventId:         event.EventId,
		ExternalEventId: "ext-1",
	}))

	require.NoError(t, fx.svc.Disconnect("user-1"))

	// 令牌清空，映射删除，本地事件保留
	link, err := fx.linkRepo.GetLinkByUserId("user-1")
	require.NoError(t, err)
	assert.Equal(t, model.LinkStateDisconnected, link.State)
	assert.Empty(t, link.AccessToken)

	mapping, err := fx.mappingRepo.GetMappingByEventId(event.EventId)
	require.NoError(t, err)
	assert.Nil(t, mapping)

	_, err = fx.eventRepo.GetEvent(event.EventId)
	require.NoError(t, err)

	settings, err := fx.svc.GetSettings("user-1")
	require.NoError(t, err)
	assert.False(t, settings.IsConnected)
}

func TestSyncScheduler_RunAll(t *testing.T) {
	fx := newSyncFixture()
	fx.seedLink(t, "user-1", time.Now().Add(-time.Hour))
	fx.seedLocalEvent(t, "evt-1", "user-1", time.Now())

	sched := NewSyncScheduler(SchedulerConf{}, fx.svc, fx.linkRepo)
	// 未配置表达式时不启动调度
	require.NoError(t, sched.Start())
	sched.Stop()

	sched.runAll()
	assert.Equal(t, 1, fx.provider.session.inserted)
}

func TestSyncScheduler_InvalidCron(t *testing.T) {
	fx := newSyncFixture()

	sched := NewSyncScheduler(SchedulerConf{AutoSyncCron: "not-a-cron"}, fx.svc, fx.linkRepo)
	require.Error(t, sched.Start())
}

func TestDisconnect_NotConnected(t *testing.T) {
	fx := newSyncFixture()

	err := fx.svc.Disconnect("user-1")
	require.Error(t, err)
	assert.Equal(t, common.KindNotFound, common.KindOf(err))
}
