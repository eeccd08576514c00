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

package repo

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/talenthub/talenthub/internal/engine/model"
	"github.com/talenthub/talenthub/pkg/database"
)

type ICalendarLinkRepository interface {
	SaveLink(link *model.CalendarLink) error
	GetLinkByUserId(userId string) (*model.CalendarLink, error)
	ListSyncEnabled() ([]model.CalendarLink, error)
	UpdateLinkByUserId(userId string, updates map[string]any) error
	DeleteLinkByUserId(userId string) error
}

type CalendarLinkRepo struct {
	database.IDatabase
}

func NewCalendarLinkRepo(db database.IDatabase) ICalendarLinkRepository {
	return &CalendarLinkRepo{
		IDatabase: db,
	}
}

// SaveLink 保存连接，user_id 上唯一，重复时整行覆盖
func (r *CalendarLinkRepo) SaveLink(link *model.CalendarLink) error {
	return r.Database().Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"provider", "state", "external_calendar_id",
			"access_token", "refresh_token", "token_expiry",
			"sync_enabled", "last_sync_at", "updated_at",
		}),
	}).Create(link).Error
}

// GetLinkByUserId 获取用户的日历连接，不存在时返回 nil
func (r *CalendarLinkRepo) GetLinkByUserId(userId string) (*model.CalendarLink, error) {
	var link model.CalendarLink
	err := r.Database().Where("user_id = ?", userId).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &link, nil
}

// ListSyncEnabled 列出已连接且开启同步的用户，定时同步使用
func (r *CalendarLinkRepo) ListSyncEnabled() ([]model.CalendarLink, error) {
	var links []model.CalendarLink
	err := r.Database().Where("state = ? AND sync_enabled = 1", model.LinkStateConnected).
		Find(&links).Error
	return links, err
}

// UpdateLinkByUserId 更新连接
func (r *CalendarLinkRepo) UpdateLinkByUserId(userId string, updates map[string]any) error {
	return r.Database().Model(&model.CalendarLink{}).Where("user_id = ?", userId).
		Updates(updates).Error
}

// DeleteLinkByUserId 删除连接
func (r *CalendarLinkRepo) DeleteLinkByUserId(userId string) error {
	return r.Database().Where("user_id = ?", userId).Delete(&model.CalendarLink{}).Error
}
