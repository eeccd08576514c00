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
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/talenthub/talenthub/internal/engine/common"
	"github.com/talenthub/talenthub/internal/engine/model"
	"github.com/talenthub/talenthub/internal/engine/repo"
	"github.com/talenthub/talenthub/pkg/log"
	"github.com/talenthub/talenthub/pkg/statemachine"
)

type ResponseService struct {
	invitationRepo repo.IInvitationRepository
	eventRepo      repo.IEventRepository
	attendeeRepo   repo.IEventAttendeeRepository
}

func NewResponseService(invitationRepo repo.IInvitationRepository, eventRepo repo.IEventRepository,
	attendeeRepo repo.IEventAttendeeRepository) *ResponseService {
	return &ResponseService{
		invitationRepo: invitationRepo,
		eventRepo:      eventRepo,
		attendeeRepo:   attendeeRepo,
	}
}

// Respond 已认证用户响应邀请
// 只有被邀请人本人可以响应，改主意允许在 accepted/declined/maybe 之间切换
func (s *ResponseService) Respond(req *model.RespondReq, userId, email string) (*model.InvitationResp, error) {
	// 1. 获取邀请
	inv, err := s.getInvitation(req.InvitationId)
	if err != nil {
		return nil, err
	}

	// 2. 身份校验
	if inv.InviteeUserId != "" {
		if inv.InviteeUserId != userId {
			return nil, common.E(common.KindValidation, "invitation belongs to another user")
		}
	} else if inv.InviteeEmail != email {
		return nil, common.E(common.KindValidation, "invitation belongs to another email")
	}

	return s.apply(inv, req.Response, req.Message)
}

// RespondByToken 通过邮件链接响应邀请，无需认证
func (s *ResponseService) RespondByToken(token, response, message string) (*model.RespondByLinkResp, error) {
	// 1. 根据令牌定位邀请
	if token == "" {
		return nil, common.E(common.KindValidation, "token cannot be empty")
	}
	inv, err := s.invitationRepo.GetInvitationByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.E(common.KindNotFound, "invitation not found")
		}
		return nil, fmt.Errorf("get invitation by token failed: %w", err)
	}

	// 2. 执行响应
	resp, err := s.apply(inv, response, message)
	if err != nil {
		return nil, err
	}

	// 3. 附带事件摘要，供响应页展示
	event, err := s.eventRepo.GetEvent(inv.EventId)
	if err != nil {
		return nil, fmt.Errorf("get event failed: %w", err)
	}
	return &model.RespondByLinkResp{
		Invitation: resp,
		Event:      model.ToEventSummary(event),
	}, nil
}

// apply 校验状态迁移并在单个事务中落响应与参与人调整
func (s *ResponseService) apply(inv *model.Invitation, response, message string) (*model.InvitationResp, error) {
	// 1. 响应值必须是三种回应之一
	target := statemachine.InvitationStatus(response)
	if !target.IsResponse() {
		return nil, common.Ef(common.KindValidation, "invalid response: %s", response)
	}

	// 2. 状态机校验，cancelled 为终态
	sm := statemachine.NewInvitationStateMachine()
	sm.SetCurrent(inv.Status)
	if !sm.CanTransitionTo(target) {
		return nil, common.Ef(common.KindInvalidState, "cannot respond %s to invitation in status %s", target, inv.Status)
	}

	// 3. 事务内更新邀请并调整参与人
	now := time.Now()
	err := s.invitationRepo.Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"status":           target,
			"response_message": message,
			"response_date":    now,
		}
		affected, err := s.invitationRepo.UpdateStatusTx(tx, inv.InvitationId, inv.Status, updates)
		if err != nil {
			return err
		}
		// 并发响应时以先写入者为准
		if affected == 0 {
			return common.E(common.KindInvalidState, "invitation status changed concurrently")
		}

		identity := model.AttendeeIdentity(inv.InviteeUserId, inv.InviteeEmail)
		if target == statemachine.InvitationAccepted {
			att := &model.EventAttendee{
				EventId:    inv.EventId,
				Identity:   identity,
				UserId:     inv.InviteeUserId,
				Email:      inv.InviteeEmail,
				Name:       inv.InviteeName,
				IsExternal: inv.IsExternal,
				Source:     model.AttendeeSourceInvitation,
			}
			return s.attendeeRepo.UpsertAttendeeTx(tx, att)
		}
		// 离开 accepted 时移除由邀请产生的参与人
		if inv.Status == statemachine.InvitationAccepted {
			return s.attendeeRepo.RemoveAttendeeTx(tx, inv.EventId, identity)
		}
		return nil
	})
	if err != nil {
		if common.KindOf(err) != common.KindUnknown {
			return nil, err
		}
		log.Errorw("respond invitation failed", "invitationId", inv.InvitationId, "response", target, "error", err)
		return nil, fmt.Errorf("respond invitation failed: %w", err)
	}

	inv.Status = target
	inv.ResponseMessage = message
	inv.ResponseDate = &now

	log.Infow("success respond invitation", "invitationId", inv.InvitationId, "response", target)
	return model.ToInvitationResp(inv), nil
}

func (s *ResponseService) getInvitation(invitationId string) (*model.Invitation, error) {
	if invitationId == "" {
		return nil, common.E(common.KindValidation, "invitation id cannot be empty")
	}
	inv, err := s.invitationRepo.GetInvitation(invitationId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.Ef(common.KindNotFound, "invitation %s not found", invitationId)
		}
		return nil, fmt.Errorf("get invitation failed: %w", err)
	}
	return inv, nil
}
