package model

import (
	"time"

	"github.com/talenthub/talenthub/pkg/statemachine"
)

/**
 * @author: dev@talenthub.io
 * @file: model_invitation.go
 * @description: 事件邀请表模型
 */

// InvitationStatus 邀请状态，生命周期由 statemachine 包定义
type InvitationStatus = statemachine.InvitationStatus

const (
	InvitationStatusPending   = statemachine.InvitationPending
	InvitationStatusAccepted  = statemachine.InvitationAccepted
	InvitationStatusDeclined  = statemachine.InvitationDeclined
	InvitationStatusMaybe     = statemachine.InvitationMaybe
	InvitationStatusCancelled = statemachine.InvitationCancelled
)

// Invitation 事件邀请表
// Active 列为 1 表示邀请占用 (event_id, invitee_email) 唯一槽位，
// 取消后置 NULL，保证同一邮箱同一事件至多一条未取消邀请。
type Invitation struct {
	BaseModel
	InvitationId    string           `gorm:"column:invitation_id" json:"invitationId"` // 邀请唯一标识
	EventId         string           `gorm:"column:event_id;uniqueIndex:uk_event_email" json:"eventId"` // 所属事件ID
	InviteeEmail    string           `gorm:"column:invitee_email;uniqueIndex:uk_event_email" json:"inviteeEmail"` // 被邀请人邮箱
	Active          *int             `gorm:"column:active;uniqueIndex:uk_event_email" json:"-"` // 唯一槽位标记: 1 或 NULL
	InviteeName     string           `gorm:"column:invitee_name" json:"inviteeName"`   // 被邀请人姓名
	InviteeUserId   string           `gorm:"column:invitee_user_id" json:"inviteeUserId,omitempty"` // 内部用户ID，外部被邀请人为空
	IsExternal      int              `gorm:"column:is_external" json:"isExternal"`     // 是否外部被邀请人: 0-否, 1-是
	Status          InvitationStatus `gorm:"column:status" json:"status"`              // 状态
	Message         string           `gorm:"column:message" json:"message"`            // 邀请附言
	ResponseMessage string           `gorm:"column:response_message" json:"responseMessage"` // 响应附言
	ResponseDate    *time.Time       `gorm:"column:response_date" json:"responseDate,omitempty"` // 最近响应时间
	Token           string           `gorm:"column:token;uniqueIndex" json:"-"`        // 响应链接令牌
	CreatedBy       string           `gorm:"column:created_by" json:"createdBy"`       // 邀请人用户ID
}

func (Invitation) TableName() string {
	return "t_invitation"
}

// ActiveFlag 占用唯一槽位的 active 列取值
func ActiveFlag() *int {
	v := 1
	return &v
}

// InviteeReq 邀请对象
type InviteeReq struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	UserId     string `json:"userId,omitempty"`
	IsExternal bool   `json:"isExternal"`
}

// InviteReq 发起邀请请求
type InviteReq struct {
	EventId   string       `json:"eventId"`
	Invitees  []InviteeReq `json:"invitees"`
	Message   string       `json:"message,omitempty"`
	SendEmail bool         `json:"sendEmail"`
}

// RespondReq 响应邀请请求
type RespondReq struct {
	InvitationId string `json:"invitationId"`
	Response     string `json:"response"`
	Message      string `json:"message,omitempty"`
}

// InvitationResp 邀请响应
type InvitationResp struct {
	InvitationId    string           `json:"invitationId"`
	EventId         string           `json:"eventId"`
	InviteeEmail    string           `json:"inviteeEmail"`
	InviteeName     string           `json:"inviteeName"`
	InviteeUserId   string           `json:"inviteeUserId,omitempty"`
	IsExternal      bool             `json:"isExternal"`
	Status          InvitationStatus `json:"status"`
	Message         string           `json:"message,omitempty"`
	ResponseMessage string           `json:"responseMessage,omitempty"`
	ResponseDate    *time.Time       `json:"responseDate,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
}

// RespondByLinkResp 未认证链接响应结果
type RespondByLinkResp struct {
	Invitation *InvitationResp `json:"invitation"`
	Event      *EventSummary   `json:"event"`
}

// ToInvitationResp 转换为邀请响应
func ToInvitationResp(inv *Invitation) *InvitationResp {
	return &InvitationResp{
		InvitationId:    inv.InvitationId,
		EventId:         inv.EventId,
		InviteeEmail:    inv.InviteeEmail,
		InviteeName:     inv.InviteeName,
		InviteeUserId:   inv.InviteeUserId,
		IsExternal:      inv.IsExternal == 1,
		Status:          inv.Status,
		Message:         inv.Message,
		ResponseMessage: inv.ResponseMessage,
		ResponseDate:    inv.ResponseDate,
		CreatedAt:       inv.CreatedAt,
	}
}

// ToInvitationResps 批量转换
func ToInvitationResps(invs []Invitation) []*InvitationResp {
	out := make([]*InvitationResp, 0, len(invs))
	for i := range invs {
		out = append(out, ToInvitationResp(&invs[i]))
	}
	return out
}
