package model

import "time"

/**
 * @author: dev@talenthub.io
 * @file: model_calendar_link.go
 * @description: 外部日历连接表模型
 */

// CalendarLink 外部日历连接表，每个用户至多一条
type CalendarLink struct {
	BaseModel
	UserId             string     `gorm:"column:user_id;uniqueIndex" json:"userId"`       // 所属用户ID
	Provider           string     `gorm:"column:provider" json:"provider"`                // 提供方: google
	State              string     `gorm:"column:state" json:"state"`                      // 连接状态
	ExternalCalendarId string     `gorm:"column:external_calendar_id" json:"externalCalendarId"` // 外部日历ID
	AccessToken        string     `gorm:"column:access_token" json:"-"`
	RefreshToken       string     `gorm:"column:refresh_token" json:"-"`
	TokenExpiry        *time.Time `gorm:"column:token_expiry" json:"-"`
	SyncEnabled        int        `gorm:"column:sync_enabled" json:"syncEnabled"`         // 是否启用同步: 0-否, 1-是
	LastSyncAt         *time.Time `gorm:"column:last_sync_at" json:"lastSyncAt,omitempty"` // 最近一次成功同步时间
}

func (CalendarLink) TableName() string {
	return "t_calendar_link"
}

// CalendarLinkState 连接状态枚举
const (
	LinkStateConnected      = "connected"       // 已连接
	LinkStateRequiresReauth = "requires_reauth" // 授权失效，需要重新授权
	LinkStateDisconnected   = "disconnected"    // 已断开
)

// EventMapping 本地事件与外部事件的映射表
// 双向同步以该表为锚点检测漂移。
type EventMapping struct {
	BaseModel
	UserId            string     `gorm:"column:user_id" json:"userId"`                       // 所属用户ID
	EventId           string     `gorm:"column:event_id;uniqueIndex" json:"eventId"`         // 本地事件ID
	ExternalEventId   string     `gorm:"column:external_event_id" json:"externalEventId"`    // 外部事件ID
	LocalUpdatedAt    time.Time  `gorm:"column:local_updated_at" json:"localUpdatedAt"`      // 同步时本地事件的修改时间
	ExternalUpdatedAt time.Time  `gorm:"column:external_updated_at" json:"externalUpdatedAt"` // 同步时外部事件的修改时间
	LastSyncedAt      *time.Time `gorm:"column:last_synced_at" json:"lastSyncedAt,omitempty"` // 最近同步时间
}

func (EventMapping) TableName() string {
	return "t_event_mapping"
}

// SyncResult 单次同步的统计结果，不落库
type SyncResult struct {
	Imported  int `json:"imported"`
	Exported  int `json:"exported"`
	Updated   int `json:"updated"`
	Conflicts int `json:"conflicts"`
}

// Add 合并另一次同步的统计
func (r *SyncResult) Add(o SyncResult) {
	r.Imported += o.Imported
	r.Exported += o.Exported
	r.Updated += o.Updated
	r.Conflicts += o.Conflicts
}

// SyncSettingsResp 同步设置响应
type SyncSettingsResp struct {
	IsConnected        bool       `json:"isConnected"`
	SyncEnabled        bool       `json:"syncEnabled"`
	RequiresReauth     bool       `json:"requiresReauth"`
	ExternalCalendarId string     `json:"externalCalendarId,omitempty"`
	LastSyncAt         *time.Time `json:"lastSyncAt,omitempty"`
}

// EnableSyncResp 启用同步响应
type EnableSyncResp struct {
	Message      string `json:"message"`
	RequiresAuth bool   `json:"requiresAuth,omitempty"`
	AuthUrl      string `json:"authUrl,omitempty"`
}

// SyncResp 同步操作响应
type SyncResp struct {
	Message string     `json:"message"`
	Result  SyncResult `json:"result"`
}
