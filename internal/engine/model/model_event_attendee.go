package model

/**
 * @author: dev@talenthub.io
 * @file: model_event_attendee.go
 * @description: 事件参与人表模型
 */

// EventAttendee 事件参与人表
// identity 为内部用户的 user_id，外部参与人的 email，(event_id, identity) 唯一。
type EventAttendee struct {
	BaseModel
	EventId    string `gorm:"column:event_id;uniqueIndex:uk_event_identity" json:"eventId"` // 所属事件ID
	Identity   string `gorm:"column:identity;uniqueIndex:uk_event_identity" json:"-"`       // 去重标识
	UserId     string `gorm:"column:user_id" json:"userId"`                  // 内部用户ID，外部参与人为空
	Email      string `gorm:"column:email" json:"email"`                     // 邮箱
	Name       string `gorm:"column:name" json:"name"`                       // 显示名称
	IsExternal int    `gorm:"column:is_external" json:"isExternal"`          // 是否外部参与人: 0-否, 1-是
	Source     string `gorm:"column:source" json:"source"`                   // 来源: invitation, manual
}

func (EventAttendee) TableName() string {
	return "t_event_attendee"
}

// AttendeeSource 参与人来源
const (
	AttendeeSourceInvitation = "invitation" // 通过接受邀请加入
	AttendeeSourceManual     = "manual"     // 由事件所有人直接添加
)

// AttendeeIdentity 计算参与人去重标识
func AttendeeIdentity(userId, email string) string {
	if userId != "" {
		return "u:" + userId
	}
	return "e:" + email
}

// AddAttendeeReq 手工添加参与人请求
type AddAttendeeReq struct {
	UserId string `json:"userId,omitempty"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name"`
}

// AttendeeResp 参与人响应
type AttendeeResp struct {
	UserId     string `json:"userId,omitempty"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	IsExternal bool   `json:"isExternal"`
	Source     string `json:"source"`
}

// ToAttendeeResp 转换为参与人响应
func ToAttendeeResp(a *EventAttendee) AttendeeResp {
	return AttendeeResp{
		UserId:     a.UserId,
		Email:      a.Email,
		Name:       a.Name,
		IsExternal: a.IsExternal == 1,
		Source:     a.Source,
	}
}
