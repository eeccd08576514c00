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
	"net/mail"
	"time"

	"gorm.io/gorm"

	"github.com/talenthub/talenthub/internal/engine/common"
	"github.com/talenthub/talenthub/internal/engine/model"
	"github.com/talenthub/talenthub/internal/engine/repo"
	"github.com/talenthub/talenthub/internal/pkg/notify"
	"github.com/talenthub/talenthub/pkg/id"
	"github.com/talenthub/talenthub/pkg/log"
	"github.com/talenthub/talenthub/pkg/statemachine"
)

type InvitationService struct {
	invitationRepo repo.IInvitationRepository
	eventRepo      repo.IEventRepository
	userRepo       repo.IUserRepository
	dispatcher     *notify.Dispatcher
	externalBase   string
}

func NewInvitationService(invitationRepo repo.IInvitationRepository, eventRepo repo.IEventRepository,
	userRepo repo.IUserRepository, dispatcher *notify.Dispatcher, externalBase string) *InvitationService {
	return &InvitationService{
		invitationRepo: invitationRepo,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		dispatcher:     dispatcher,
		externalBase:   externalBase,
	}
}

// InviteResult 单个被邀请对象的处理结果
type InviteResult struct {
	Email      string                `json:"email"`
	Invitation *model.InvitationResp `json:"invitation,omitempty"`
	Error      string                `json:"error,omitempty"`
}

// Invite 为事件批量发起邀请
// 同一事件同一邮箱只允许一条活跃邀请，重复邀请返回原邀请而不产生新记录，
// 已拒绝的邀请允许重新发起，单个对象的失败不影响批次里的其他对象
func (s *InvitationService) Invite(ctx context.Context, req *model.InviteReq, createdBy string) ([]InviteResult, error) {
	// 1. 校验事件
	if req.EventId == "" {
		return nil, common.E(common.KindValidation, "event id cannot be empty")
	}
	if len(req.Invitees) == 0 {
		return nil, common.E(common.KindValidation, "invitees cannot be empty")
	}
	event, err := s.eventRepo.GetEvent(req.EventId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.Ef(common.KindNotFound, "event %s not found", req.EventId)
		}
		return nil, fmt.Errorf("get event failed: %w", err)
	}
	if event.Status == model.EventStatusCancelled {
		return nil, common.E(common.KindInvalidState, "cannot invite to a cancelled event")
	}

	// 2. 逐个处理被邀请对象
	results := make([]InviteResult, 0, len(req.Invitees))
	for _, invitee := range req.Invitees {
		result := InviteResult{Email: invitee.Email}

		inv, err := s.createOne(event, &invitee, req.Message, createdBy)
		if err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		result.Invitation = model.ToInvitationResp(inv)

		// 3. 发送邀请通知，投递失败记录在单项结果里，邀请本身已落库
		if req.SendEmail {
			if serr := s.sendInvitationMail(ctx, event, inv); serr != nil {
				result.Error = serr.Error()
			}
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *InvitationService) createOne(event *model.Event, invitee *model.InviteeReq, message, createdBy string) (*model.Invitation, error) {
	// 邮箱格式校验
	if _, err := mail.ParseAddress(invitee.Email); err != nil {
		return nil, common.Ef(common.KindValidation, "invalid email: %s", invitee.Email)
	}

	// 同一事件同一邮箱的活跃邀请不重复创建
	existing, err := s.invitationRepo.GetActiveInvitation(event.EventId, invitee.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check existing invitation failed: %w", err)
	}
	if existing != nil {
		if existing.Status == statemachine.InvitationDeclined {
			// 已拒绝的允许重新邀请，旧记录转为历史，释放唯一槽位
			if err := s.invitationRepo.UpdateInvitationByInvitationId(existing.InvitationId,
				map[string]any{"active": nil}); err != nil {
				return nil, fmt.Errorf("retire declined invitation failed: %w", err)
			}
		} else {
			// pending/accepted/maybe 原地刷新附言，返回原邀请
			if message != "" && message != existing.Message {
				if err := s.invitationRepo.UpdateInvitationByInvitationId(existing.InvitationId,
					map[string]any{"message": message}); err != nil {
					return nil, fmt.Errorf("refresh invitation failed: %w", err)
				}
				existing.Message = message
			}
			return existing, nil
		}
	}

	// 内部用户按邮箱归属
	inviteeUserId := invitee.UserId
	isExternal := 1
	if inviteeUserId == "" && !invitee.IsExternal {
		if user, err := s.userRepo.GetUserByEmail(invitee.Email); err == nil && user != nil {
			inviteeUserId = user.UserId
		}
	}
	if inviteeUserId != "" {
		isExternal = 0
	}

	inv := &model.Invitation{
		InvitationId:  id.GetUUID(),
		EventId:       event.EventId,
		InviteeEmail:  invitee.Email,
		Active:        model.ActiveFlag(),
		InviteeName:   invitee.Name,
		InviteeUserId: inviteeUserId,
		IsExternal:    isExternal,
		Status:        statemachine.InvitationPending,
		Message:       message,
		Token:         id.GetUUIDWithoutDashes(),
		CreatedBy:     createdBy,
	}
	if err := s.invitationRepo.CreateInvitation(inv); err != nil {
		// 并发下唯一索引兜底
		log.Errorw("create invitation failed", "eventId", event.EventId, "email", invitee.Email, "error", err)
		return nil, common.Wrap(common.KindInvalidState, err, "create invitation failed")
	}

	log.Infow("success create invitation", "invitationId", inv.InvitationId, "eventId", event.EventId, "email", invitee.Email)
	return inv, nil
}

// Resend 重发邀请通知
// 仅 pending 和 maybe 状态允许重发，其余状态视为非法操作
func (s *InvitationService) Resend(ctx context.Context, invitationId string) (*model.InvitationResp, error) {
	// 1. 获取邀请
	inv, err := s.findInvitation(invitationId)
	if err != nil {
		return nil, err
	}

	// 2. 状态检查
	if inv.Status != statemachine.InvitationPending && inv.Status != statemachine.InvitationMaybe {
		return nil, common.Ef(common.KindInvalidState, "cannot resend invitation in status %s", inv.Status)
	}

	// 3. 获取事件并重发通知
	event, err := s.eventRepo.GetEvent(inv.EventId)
	if err != nil {
		return nil, fmt.Errorf("get event failed: %w", err)
	}
	if err := s.sendInvitationMail(ctx, event, inv); err != nil {
		return nil, err
	}

	log.Infow("success resend invitation", "invitationId", invitationId, "email", inv.InviteeEmail)
	return model.ToInvitationResp(inv), nil
}

// Cancel 取消邀请
// 记录保留为历史，释放唯一槽位以便后续重新邀请
func (s *InvitationService) Cancel(invitationId string) error {
	// 1. 获取邀请
	inv, err := s.findInvitation(invitationId)
	if err != nil {
		return err
	}

	// 2. 状态机校验
	sm := statemachine.NewInvitationStateMachine()
	sm.SetCurrent(inv.Status)
	if !sm.CanTransitionTo(statemachine.InvitationCancelled) {
		return common.Ef(common.KindInvalidState, "cannot cancel invitation in status %s", inv.Status)
	}

	// 3. 置为取消并释放唯一槽位
	updates := map[string]any{
		"status": statemachine.InvitationCancelled,
		"active": nil,
	}
	if err := s.invitationRepo.UpdateInvitationByInvitationId(invitationId, updates); err != nil {
		log.Errorw("cancel invitation failed", "invitationId", invitationId, "error", err)
		return fmt.Errorf("cancel invitation failed: %w", err)
	}

	log.Infow("success cancel invitation", "invitationId", invitationId)
	return nil
}

// ListByEvent 查询事件下的全部邀请
func (s *InvitationService) ListByEvent(eventId string) ([]*model.InvitationResp, error) {
	if eventId == "" {
		return nil, common.E(common.KindValidation, "event id cannot be empty")
	}
	invs, err := s.invitationRepo.ListByEvent(eventId)
	if err != nil {
		log.Errorw("list invitations failed", "eventId", eventId, "error", err)
		return nil, fmt.Errorf("list invitations failed: %w", err)
	}
	return model.ToInvitationResps(invs), nil
}

// ListPending 查询当前用户的待响应邀请
func (s *InvitationService) ListPending(userId, email string) ([]*model.InvitationResp, error) {
	byUser, err := s.invitationRepo.ListPendingByUserId(userId)
	if err != nil {
		return nil, fmt.Errorf("list pending invitations failed: %w", err)
	}
	byEmail, err := s.invitationRepo.ListPendingByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("list pending invitations failed: %w", err)
	}

	// 用户ID与邮箱两路合并去重
	seen := make(map[string]struct{}, len(byUser))
	merged := make([]model.Invitation, 0, len(byUser)+len(byEmail))
	for _, inv := range byUser {
		seen[inv.InvitationId] = struct{}{}
		merged = append(merged, inv)
	}
	for _, inv := range byEmail {
		if _, ok := seen[inv.InvitationId]; !ok {
			merged = append(merged, inv)
		}
	}
	return model.ToInvitationResps(merged), nil
}

func (s *InvitationService) findInvitation(invitationId string) (*model.Invitation, error) {
	inv, err := s.invitationRepo.GetInvitation(invitationId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.Ef(common.KindNotFound, "invitation %s not found", invitationId)
		}
		log.Errorw("get invitation failed", "invitationId", invitationId, "error", err)
		return nil, fmt.Errorf("get invitation failed: %w", err)
	}
	return inv, nil
}

// sendInvitationMail 发送带响应链接的邀请通知
// 投递失败按瞬时错误上抛，调用方决定是否整体失败
func (s *InvitationService) sendInvitationMail(ctx context.Context, event *model.Event, inv *model.Invitation) error {
	if s.dispatcher == nil {
		return nil
	}
	respondURL := fmt.Sprintf("%s/ext/invitations/respond?token=%s", s.externalBase, inv.Token)

	body := fmt.Sprintf(
		"Hi %s,\n\nYou are invited to \"%s\".\n\nWhen: %s - %s\nWhere: %s\n",
		inv.InviteeName, event.Title,
		event.StartTime.Format(time.RFC1123), event.EndTime.Format(time.RFC1123),
		event.Location,
	)
	if inv.Message != "" {
		body += fmt.Sprintf("\nMessage: %s\n", inv.Message)
	}
	body += fmt.Sprintf(
		"\nAccept:  %s&response=accepted\nMaybe:   %s&response=maybe\nDecline: %s&response=declined\n",
		respondURL, respondURL, respondURL,
	)

	err := s.dispatcher.Dispatch(ctx, &notify.Message{
		To:      []string{inv.InviteeEmail},
		Subject: fmt.Sprintf("Invitation: %s", event.Title),
		Body:    body,
		Meta: map[string]any{
			"invitationId": inv.InvitationId,
			"eventId":      event.EventId,
		},
	})
	if err != nil {
		return common.Wrap(common.KindTransient, err, "send invitation mail failed")
	}
	return nil
}
