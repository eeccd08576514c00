package repo

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/talenthub/talenthub/internal/engine/model"
	"github.com/talenthub/talenthub/pkg/database"
)

/**
 * @author: dev@talenthub.io
 * @file: repo_event_attendee.go
 * @description: 事件参与人数据访问层
 */

type IEventAttendeeRepository interface {
	UpsertAttendee(att *model.EventAttendee) error
	UpsertAttendeeTx(tx *gorm.DB, att *model.EventAttendee) error
	RemoveAttendee(eventId, identity string) error
	RemoveAttendeeTx(tx *gorm.DB, eventId, identity string) error
	DeleteByEvent(eventId string) error
	ListByEvent(eventId string) ([]model.EventAttendee, error)
}

type EventAttendeeRepo struct {
	database.IDatabase
}

func NewEventAttendeeRepo(db database.IDatabase) IEventAttendeeRepository {
	return &EventAttendeeRepo{
		IDatabase: db,
	}
}

// UpsertAttendee 写入参与人，命中 uk_event_identity 时更新现有记录
func (r *EventAttendeeRepo) UpsertAttendee(att *model.EventAttendee) error {
	return r.UpsertAttendeeTx(r.Database(), att)
}

func (r *EventAttendeeRepo) UpsertAttendeeTx(tx *gorm.DB, att *model.EventAttendee) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}, {Name: "identity"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "user_id", "source", "updated_at"}),
	}).Create(att).Error
}

// RemoveAttendee 移除参与人
func (r *EventAttendeeRepo) RemoveAttendee(eventId, identity string) error {
	return r.RemoveAttendeeTx(r.Database(), eventId, identity)
}

func (r *EventAttendeeRepo) RemoveAttendeeTx(tx *gorm.DB, eventId, identity string) error {
	return tx.Where("event_id = ? AND identity = ?", eventId, identity).
		Delete(&model.EventAttendee{}).Error
}

// DeleteByEvent 删除事件的全部参与人，删除事件时级联使用
func (r *EventAttendeeRepo) DeleteByEvent(eventId string) error {
	return r.Database().Where("event_id = ?", eventId).Delete(&model.EventAttendee{}).Error
}

// ListByEvent 查询事件参与人
func (r *EventAttendeeRepo) ListByEvent(eventId string) ([]model.EventAttendee, error) {
	var atts []model.EventAttendee
	err := r.Database().Where("event_id = ?", eventId).
		Order("created_at ASC").Find(&atts).Error
	return atts, err
}
