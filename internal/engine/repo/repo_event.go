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
	"time"

	"github.com/talenthub/talenthub/internal/engine/model"
	"github.com/talenthub/talenthub/pkg/database"
)

type IEventRepository interface {
	CreateEvent(event *model.Event) error
	GetEvent(eventId string) (*model.Event, error)
	ListEvents(ownerId string, pageNum, pageSize int) ([]model.Event, int64, error)
	ListEventsInRange(ownerId string, from, to time.Time) ([]model.Event, error)
	ListAllEventsByOwner(ownerId string) ([]model.Event, error)
	UpdateEventByEventId(eventId string, updates map[string]any) error
	DeleteEventByEventId(eventId string) error
}

type EventRepo struct {
	database.IDatabase
}

func NewEventRepo(db database.IDatabase) IEventRepository {
	return &EventRepo{
		IDatabase: db,
	}
}

// CreateEvent 创建事件
func (r *EventRepo) CreateEvent(event *model.Event) error {
	if err := r.Database().Table(event.TableName()).Create(event).Error; err != nil {
		return err
	}
	return nil
}

// GetEvent 获取事件
func (r *EventRepo) GetEvent(eventId string) (*model.Event, error) {
	var event model.Event
	err := r.Database().Where("event_id = ?", eventId).First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// ListEvents 分页查询事件
func (r *EventRepo) ListEvents(ownerId string, pageNum, pageSize int) ([]model.Event, int64, error) {
	var events []model.Event
	var count int64

	query := r.Database().Model(&model.Event{}).Where("owner_id = ?", ownerId)
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("start_time DESC").
		Offset((pageNum - 1) * pageSize).Limit(pageSize).
		Find(&events).Error
	if err != nil {
		return nil, 0, err
	}
	return events, count, nil
}

// ListEventsInRange 查询时间区间内的事件
func (r *EventRepo) ListEventsInRange(ownerId string, from, to time.Time) ([]model.Event, error) {
	var events []model.Event
	err := r.Database().Where("owner_id = ? AND start_time < ? AND end_time > ?", ownerId, to, from).
		Order("start_time ASC").Find(&events).Error
	return events, err
}

// ListAllEventsByOwner 查询用户的全部事件，导出同步时逐个比对
func (r *EventRepo) ListAllEventsByOwner(ownerId string) ([]model.Event, error) {
	var events []model.Event
	err := r.Database().Where("owner_id = ?", ownerId).Find(&events).Error
	return events, err
}

// UpdateEventByEventId 更新事件
func (r *EventRepo) UpdateEventByEventId(eventId string, updates map[string]any) error {
	return r.Database().Model(&model.Event{}).Where("event_id = ?", eventId).
		Updates(updates).Error
}

// DeleteEventByEventId 删除事件
func (r *EventRepo) DeleteEventByEventId(eventId string) error {
	return r.Database().Where("event_id = ?", eventId).Delete(&model.Event{}).Error
}
