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

package google

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Conf Google Calendar OAuth 配置
type Conf struct {
	ClientId     string `toml:"clientId" json:"clientId"`
	ClientSecret string `toml:"clientSecret" json:"clientSecret"`
	RedirectURL  string `toml:"redirectUrl" json:"redirectUrl"`
}

// ExternalEvent 外部日历事件，与本地模型解耦
type ExternalEvent struct {
	Id          string
	Title       string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	AllDay      bool
	Updated     time.Time
	Cancelled   bool
}

// ICalendarProvider 封装 OAuth 流程与会话创建，便于测试替换
type ICalendarProvider interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	Open(ctx context.Context, token *oauth2.Token) (ICalendarSession, error)
}

// ICalendarSession 一个已授权用户的日历会话
type ICalendarSession interface {
	PrimaryCalendarId(ctx context.Context) (string, error)
	ListUpdatedSince(ctx context.Context, calendarId string, since time.Time) ([]ExternalEvent, error)
	Insert(ctx context.Context, calendarId string, ev *ExternalEvent) (*ExternalEvent, error)
	Patch(ctx context.Context, calendarId, externalEventId string, ev *ExternalEvent) (*ExternalEvent, error)
	// Token 返回当前令牌，刷新后由调用方负责落库
	Token() (*oauth2.Token, error)
}

type CalendarProvider struct {
	config *oauth2.Config
}

func NewCalendarProvider(conf *Conf) ICalendarProvider {
	return &CalendarProvider{
		config: &oauth2.Config{
			ClientID:     conf.ClientId,
			ClientSecret: conf.ClientSecret,
			RedirectURL:  conf.RedirectURL,
			Scopes:       []string{calendar.CalendarEventsScope},
			Endpoint:     google.Endpoint,
		},
	}
}

// AuthURL 生成授权跳转地址，state 用于回调时关联用户
func (p *CalendarProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange 用授权码换取令牌
func (p *CalendarProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange auth code: %w", err)
	}
	return token, nil
}

// Open 以已有令牌创建会话，后续请求自动刷新
func (p *CalendarProvider) Open(ctx context.Context, token *oauth2.Token) (ICalendarSession, error) {
	ts := p.config.TokenSource(ctx, token)
	service, err := calendar.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return &calendarSession{service: service, tokenSource: ts}, nil
}

type calendarSession struct {
	service     *calendar.Service
	tokenSource oauth2.TokenSource
}

// PrimaryCalendarId 探测主日历，兼做授权有效性检查
func (s *calendarSession) PrimaryCalendarId(ctx context.Context) (string, error) {
	cal, err := s.service.Calendars.Get("primary").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("get primary calendar: %w", err)
	}
	return cal.Id, nil
}

// ListUpdatedSince 增量拉取指定时间后修改过的事件，含已删除的
func (s *calendarSession) ListUpdatedSince(ctx context.Context, calendarId string, since time.Time) ([]ExternalEvent, error) {
	var out []ExternalEvent
	pageToken := ""
	for {
		call := s.service.Events.List(calendarId).
			ShowDeleted(true).
			SingleEvents(true).
			UpdatedMin(since.UTC().Format(time.RFC3339)).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		events, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("list events: %w", err)
		}
		for _, item := range events.Items {
			out = append(out, fromGoogleEvent(item))
		}
		if events.NextPageToken == "" {
			break
		}
		pageToken = events.NextPageToken
	}
	return out, nil
}

// Insert 创建外部事件
func (s *calendarSession) Insert(ctx context.Context, calendarId string, ev *ExternalEvent) (*ExternalEvent, error) {
	created, err := s.service.Events.Insert(calendarId, toGoogleEvent(ev)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	result := fromGoogleEvent(created)
	return &result, nil
}

// Patch 更新外部事件
func (s *calendarSession) Patch(ctx context.Context, calendarId, externalEventId string, ev *ExternalEvent) (*ExternalEvent, error) {
	patched, err := s.service.Events.Patch(calendarId, externalEventId, toGoogleEvent(ev)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("patch event: %w", err)
	}
	result := fromGoogleEvent(patched)
	return &result, nil
}

func (s *calendarSession) Token() (*oauth2.Token, error) {
	return s.tokenSource.Token()
}

func toGoogleEvent(ev *ExternalEvent) *calendar.Event {
	ge := &calendar.Event{
		Summary:     ev.Title,
		Description: ev.Description,
		Location:    ev.Location,
	}
	if ev.AllDay {
		ge.Start = &calendar.EventDateTime{Date: ev.Start.Format("2006-01-02")}
		ge.End = &calendar.EventDateTime{Date: ev.End.Format("2006-01-02")}
	} else {
		ge.Start = &calendar.EventDateTime{DateTime: ev.Start.Format(time.RFC3339)}
		ge.End = &calendar.EventDateTime{DateTime: ev.End.Format(time.RFC3339)}
	}
	return ge
}

func fromGoogleEvent(item *calendar.Event) ExternalEvent {
	ev := ExternalEvent{
		Id:          item.Id,
		Title:       item.Summary,
		Description: item.Description,
		Location:    item.Location,
		Cancelled:   item.Status == "cancelled",
	}
	if item.Updated != "" {
		ev.Updated, _ = time.Parse(time.RFC3339, item.Updated)
	}
	if item.Start != nil {
		if item.Start.DateTime != "" {
			ev.Start, _ = time.Parse(time.RFC3339, item.Start.DateTime)
		} else if item.Start.Date != "" {
			ev.Start, _ = time.Parse("2006-01-02", item.Start.Date)
			ev.AllDay = true
		}
	}
	if item.End != nil {
		if item.End.DateTime != "" {
			ev.End, _ = time.Parse(time.RFC3339, item.End.DateTime)
		} else if item.End.Date != "" {
			ev.End, _ = time.Parse("2006-01-02", item.End.Date)
		}
	}
	return ev
}

// IsAuthScopeErr 判断是否为授权失效类错误，同步遇到时应中止并标记重新授权
func IsAuthScopeErr(err error) bool {
	if err == nil {
		return false
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == 401 || gerr.Code == 403
	}
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		return rerr.Response != nil && (rerr.Response.StatusCode == 400 || rerr.Response.StatusCode == 401)
	}
	return false
}
