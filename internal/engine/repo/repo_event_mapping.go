package repo

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/talenthub/talenthub/internal/engine/model"
	"github.com/talenthub/talenthub/pkg/database"
)

/**
 * @author: dev@talenthub.io
 * @file: repo_event_mapping.go
 * @description: 本地事件与外部事件映射数据访问层
 */

type IEventMappingRepository interface {
	SaveMapping(m *model.EventMapping) error
	GetMappingByEventId(eventId string) (*model.EventMapping, error)
	GetMappingByExternalEventId(userId, externalEventId string) (*model.EventMapping, error)
	ListByUserId(userId string) ([]model.EventMapping, error)
	DeleteMappingByEventId(eventId string) error
	DeleteByUserId(userId string) error
}

type EventMappingRepo struct {
	database.IDatabase
}

func NewEventMappingRepo(db database.IDatabase) IEventMappingRepository {
	return &EventMappingRepo{
		IDatabase: db,
	}
}

// SaveMapping 保存映射，event_id 唯一，重复时刷新同步锚点
func (r *EventMappingRepo) SaveMapping(m *model.EventMapping) error {
	return r.Database().Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "event_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"external_event_id", "local_updated_at", "external_updated_at",
			"last_synced_at", "updated_at",
		}),
	}).Create(m).Error
}

// GetMappingByEventId 根据本地事件ID获取映射，不存在时返回 nil
func (r *EventMappingRepo) GetMappingByEventId(eventId string) (*model.EventMapping, error) {
	var m model.EventMapping
	err := r.Database().Where("event_id = ?", eventId).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// GetMappingByExternalEventId 根据外部事件ID获取映射，不存在时返回 nil
func (r *EventMappingRepo) GetMappingByExternalEventId(userId, externalEventId string) (*model.EventMapping, error) {
	var m model.EventMapping
	err := r.Database().Where("user_id = ? AND external_event_id = ?", userId, externalEventId).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// ListByUserId 查询用户的全部映射
func (r *EventMappingRepo) ListByUserId(userId string) ([]model.EventMapping, error) {
	var ms []model.EventMapping
	err := r.Database().Where("user_id = ?", userId).Find(&ms).Error
	return ms, err
}

// DeleteMappingByEventId 删除映射
func (r *EventMappingRepo) DeleteMappingByEventId(eventId string) error {
	return r.Database().Where("event_id = ?", eventId).Delete(&model.EventMapping{}).Error
}

// DeleteByUserId 断开连接时清理用户全部映射
func (r *EventMappingRepo) DeleteByUserId(userId string) error {
	return r.Database().Where("user_id = ?", userId).Delete(&model.EventMapping{}).Error
}
