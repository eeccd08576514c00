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
	"gorm.io/gorm"

	"github.com/talenthub/talenthub/internal/engine/model"
	"github.com/talenthub/talenthub/pkg/database"
	"github.com/talenthub/talenthub/pkg/statemachine"
)

type IInvitationRepository interface {
	CreateInvitation(inv *model.Invitation) error
	GetInvitation(invitationId string) (*model.Invitation, error)
	GetInvitationByToken(token string) (*model.Invitation, error)
	GetActiveInvitation(eventId, inviteeEmail string) (*model.Invitation, error)
	ListByEvent(eventId string) ([]model.Invitation, error)
	ListPendingByEmail(inviteeEmail string) ([]model.Invitation, error)
	ListPendingByUserId(userId string) ([]model.Invitation, error)
	UpdateInvitationByInvitationId(invitationId string, updates map[string]any) error
	UpdateStatusTx(tx *gorm.DB, invitationId string, from model.InvitationStatus, updates map[string]any) (int64, error)
	DeleteByEvent(eventId string) error
	Transaction(fn func(tx *gorm.DB) error) error
}

type InvitationRepo struct {
	database.IDatabase
}

func NewInvitationRepo(db database.IDatabase) IInvitationRepository {
	return &InvitationRepo{
		IDatabase: db,
	}
}

// CreateInvitation 创建邀请
// uk_event_email 唯一索引保证同一事件同一邮箱只有一条活跃邀请
func (r *InvitationRepo) CreateInvitation(inv *model.Invitation) error {
	if err := r.Database().Table(inv.TableName()).Create(inv).Error; err != nil {
		return err
	}
	return nil
}

// GetInvitation 获取邀请
func (r *InvitationRepo) GetInvitation(invitationId string) (*model.Invitation, error) {
	var inv model.Invitation
	err := r.Database().Where("invitation_id = ?", invitationId).First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetInvitationByToken 根据响应令牌获取邀请
func (r *InvitationRepo) GetInvitationByToken(token string) (*model.Invitation, error) {
	var inv model.Invitation
	err := r.Database().Where("token = ?", token).First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetActiveInvitation 获取事件下某邮箱的活跃邀请
func (r *InvitationRepo) GetActiveInvitation(eventId, inviteeEmail string) (*model.Invitation, error) {
	var inv model.Invitation
	err := r.Database().Where("event_id = ? AND invitee_email = ? AND active = ?", eventId, inviteeEmail, 1).
		First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListByEvent 查询事件下全部邀请，含已取消的历史记录
func (r *InvitationRepo) ListByEvent(eventId string) ([]model.Invitation, error) {
	var invs []model.Invitation
	err := r.Database().Where("event_id = ?", eventId).
		Order("created_at ASC").Find(&invs).Error
	return invs, err
}

// ListPendingByEmail 查询某邮箱的待响应邀请
func (r *InvitationRepo) ListPendingByEmail(inviteeEmail string) ([]model.Invitation, error) {
	var invs []model.Invitation
	err := r.Database().Where("invitee_email = ? AND status = ?", inviteeEmail, statemachine.InvitationPending).
		Order("created_at DESC").Find(&invs).Error
	return invs, err
}

// ListPendingByUserId 查询某用户的待响应邀请
func (r *InvitationRepo) ListPendingByUserId(userId string) ([]model.Invitation, error) {
	var invs []model.Invitation
	err := r.Database().Where("invitee_user_id = ? AND status = ?", userId, statemachine.InvitationPending).
		Order("created_at DESC").Find(&invs).Error
	return invs, err
}

// UpdateInvitationByInvitationId 更新邀请
func (r *InvitationRepo) UpdateInvitationByInvitationId(invitationId string, updates map[string]any) error {
	return r.Database().Model(&model.Invitation{}).Where("invitation_id = ?", invitationId).
		Updates(updates).Error
}

// UpdateStatusTx 带原状态检查的状态更新，并发响应时以先写入者为准
func (r *InvitationRepo) UpdateStatusTx(tx *gorm.DB, invitationId string, from model.InvitationStatus, updates map[string]any) (int64, error) {
	if tx == nil {
		tx = r.Database()
	}
	res := tx.Model(&model.Invitation{}).
		Where("invitation_id = ? AND status = ?", invitationId, from).
		Updates(updates)
	return res.RowsAffected, res.Error
}

// DeleteByEvent 删除事件的全部邀请，删除事件时级联使用
func (r *InvitationRepo) DeleteByEvent(eventId string) error {
	return r.Database().Where("event_id = ?", eventId).Delete(&model.Invitation{}).Error
}

// Transaction 在事务中执行，响应写入与参与人调整需要原子性
func (r *InvitationRepo) Transaction(fn func(tx *gorm.DB) error) error {
	return r.Database().Transaction(fn)
}
