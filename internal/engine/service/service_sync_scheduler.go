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
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/talenthub/talenthub/internal/engine/repo"
	"github.com/talenthub/talenthub/pkg/log"
)

// SchedulerConf 定时同步配置，autoSyncCron 为空时不启动
type SchedulerConf struct {
	AutoSyncCron string `toml:"autoSyncCron" json:"autoSyncCron"`
}

// SyncScheduler 按 cron 表达式为所有开启同步的用户执行双向同步
type SyncScheduler struct {
	conf        SchedulerConf
	cron        *cron.Cron
	syncService *SyncService
	linkRepo    repo.ICalendarLinkRepository
}

func NewSyncScheduler(conf SchedulerConf, syncService *SyncService,
	linkRepo repo.ICalendarLinkRepository) *SyncScheduler {
	return &SyncScheduler{
		conf:        conf,
		syncService: syncService,
		linkRepo:    linkRepo,
	}
}

// Start 启动定时任务，未配置表达式时直接返回
func (s *SyncScheduler) Start() error {
	if s.conf.AutoSyncCron == "" {
		log.Infow("auto sync disabled, no cron expression configured")
		return nil
	}

	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.conf.AutoSyncCron, s.runAll); err != nil {
		return fmt.Errorf("invalid auto sync cron %q: %w", s.conf.AutoSyncCron, err)
	}
	s.cron.Start()

	log.Infow("auto sync scheduler started", "cron", s.conf.AutoSyncCron)
	return nil
}

// Stop 停止调度并等待在途任务结束
func (s *SyncScheduler) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	log.Infow("auto sync scheduler stopped")
}

// runAll 逐个用户执行同步，单个用户失败不影响其他用户
func (s *SyncScheduler) runAll() {
	links, err := s.linkRepo.ListSyncEnabled()
	if err != nil {
		log.Errorw("list sync enabled links failed", "error", err)
		return
	}

	ctx := context.Background()
	for i := range links {
		userId := links[i].UserId
		if _, err := s.syncService.FullSync(ctx, userId); err != nil {
			// 用户正在手动同步时跳过本轮
			if errors.Is(err, ErrSyncAlreadyRunning) {
				continue
			}
			log.Errorw("auto sync failed", "userId", userId, "error", err)
		}
	}
}
