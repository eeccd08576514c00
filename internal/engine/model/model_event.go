package model

import (
	"time"

	"gorm.io/datatypes"
)

/**
 * @author: dev@talenthub.io
 * @file: model_event.go
 * @description: 日程事件表模型
 */

// Event 日程事件表
type Event struct {
	BaseModel
	EventId     string         `gorm:"column:event_id" json:"eventId"`         // 事件唯一标识
	Title       string         `gorm:"column:title" json:"title"`              // 标题
	Description string         `gorm:"column:description" json:"description"`  // 描述
	StartTime   time.Time      `gorm:"column:start_time" json:"startTime"`     // 开始时间
	EndTime     time.Time      `gorm:"column:end_time" json:"endTime"`         // 结束时间
	AllDay      int            `gorm:"column:all_day" json:"allDay"`           // 是否全天: 0-否, 1-是
	Location    string         `gorm:"column:location" json:"location"`        // 地点
	MeetingLink string         `gorm:"column:meeting_link" json:"meetingLink"` // 会议链接
	Status      string         `gorm:"column:status" json:"status"`            // 状态
	Priority    string         `gorm:"column:priority" json:"priority"`        // 优先级: low, medium, high
	Recurrence  datatypes.JSON `gorm:"column:recurrence;type:json" json:"recurrence"` // 重复规则
	OwnerId     string         `gorm:"column:owner_id" json:"ownerId"`         // 创建人用户ID
}

func (Event) TableName() string {
	return "t_event"
}

// EventStatus 事件状态枚举
const (
	EventStatusScheduled = "scheduled" // 已安排
	EventStatusConfirmed = "confirmed" // 已确认
	EventStatusCompleted = "completed" // 已完成
	EventStatusCancelled = "cancelled" // 已取消
	EventStatusNoShow    = "no_show"   // 未出席
)

// EventPriority 事件优先级枚举
const (
	EventPriorityLow    = "low"
	EventPriorityMedium = "medium"
	EventPriorityHigh   = "high"
)

// ValidEventStatus 校验事件状态
func ValidEventStatus(s string) bool {
	switch s {
	case EventStatusScheduled, EventStatusConfirmed, EventStatusCompleted,
		EventStatusCancelled, EventStatusNoShow:
		return true
	}
	return false
}

// Recurrence 重复规则
type Recurrence struct {
	Pattern string     `json:"pattern"` // daily, weekly, biweekly, monthly
	Until   *time.Time `json:"until,omitempty"`
}

// CreateEventReq 创建事件请求
type CreateEventReq struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	StartTime   time.Time   `json:"startTime"`
	EndTime     time.Time   `json:"endTime"`
	AllDay      bool        `json:"allDay"`
	Location    string      `json:"location"`
	MeetingLink string      `json:"meetingLink"`
	Priority    string      `json:"priority"`
	Recurrence  *Recurrence `json:"recurrence,omitempty"`
}

// EventResp 事件响应
type EventResp struct {
	EventId     string          `json:"eventId"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	StartTime   time.Time       `json:"startTime"`
	EndTime     time.Time       `json:"endTime"`
	AllDay      bool            `json:"allDay"`
	Location    string          `json:"location"`
	MeetingLink string          `json:"meetingLink"`
	Status      string          `json:"status"`
	Priority    string          `json:"priority"`
	OwnerId     string          `json:"ownerId"`
	Attendees   []AttendeeResp  `json:"attendees"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// EventSummary 对外展示的事件摘要（未认证响应链接使用）
type EventSummary struct {
	EventId   string    `json:"eventId"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	AllDay    bool      `json:"allDay"`
	Location  string    `json:"location"`
}

// ToEventResp 转换为事件响应
func ToEventResp(e *Event, attendees []EventAttendee) *EventResp {
	resp := &EventResp{
		EventId:     e.EventId,
		Title:       e.Title,
		Description: e.Description,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		AllDay:      e.AllDay == 1,
		Location:    e.Location,
		MeetingLink: e.MeetingLink,
		Status:      e.Status,
		Priority:    e.Priority,
		OwnerId:     e.OwnerId,
		Attendees:   make([]AttendeeResp, 0, len(attendees)),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	for i := range attendees {
		resp.Attendees = append(resp.Attendees, ToAttendeeResp(&attendees[i]))
	}
	return resp
}

// ToEventSummary 转换为事件摘要
func ToEventSummary(e *Event) *EventSummary {
	return &EventSummary{
		EventId:   e.EventId,
		Title:     e.Title,
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
		AllDay:    e.AllDay == 1,
		Location:  e.Location,
	}
}
