package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/talenthub/talenthub/internal/engine/model"
	"github.com/talenthub/talenthub/internal/pkg/google"
	"github.com/talenthub/talenthub/pkg/statemachine"
)

// in-memory repo fakes

type fakeEventRepo struct {
	mu     sync.Mutex
	events map[string]*model.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: map[string]*model.Event{}}
}

func (f *fakeEventRepo) CreateEvent(event *model.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	event.UpdatedAt = now
	cp := *event
	f.events[event.EventId] = &cp
	return nil
}

func (f *fakeEventRepo) GetEvent(eventId string) (*model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[eventId]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEventRepo) ListEvents(ownerId string, pageNum, pageSize int) ([]model.Event, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Event
	for _, e := range f.events {
		if e.OwnerId == ownerId {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out, int64(len(out)), nil
}

func (f *fakeEventRepo) ListEventsInRange(ownerId string, from, to time.Time) ([]model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Event
	for _, e := range f.events {
		if e.OwnerId == ownerId && e.StartTime.Before(to) && e.EndTime.After(from) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) ListAllEventsByOwner(ownerId string) ([]model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Event
	for _, e := range f.events {
		if e.OwnerId == ownerId {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventId < out[j].EventId })
	return out, nil
}

func (f *fakeEventRepo) UpdateEventByEventId(eventId string, updates map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[eventId]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range updates {
		switch k {
		case "title":
			e.Title = v.(string)
		case "description":
			e.Description = v.(string)
		case "location":
			e.Location = v.(string)
		case "meeting_link":
			e.MeetingLink = v.(string)
		case "status":
			e.Status = v.(string)
		case "start_time":
			e.StartTime = v.(time.Time)
		case "end_time":
			e.EndTime = v.(time.Time)
		case "all_day":
			e.AllDay = v.(int)
		}
	}
	e.UpdatedAt = time.Now()
	return nil
}

func (f *fakeEventRepo) DeleteEventByEventId(eventId string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.events, eventId)
	return nil
}

// setUpdatedAt 测试中用于制造本地修改时间
func (f *fakeEventRepo) setUpdatedAt(eventId string, at time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.events[eventId]; ok {
		e.UpdatedAt = at
	}
}

type fakeInvitationRepo struct {
	mu          sync.Mutex
	invitations map[string]*model.Invitation
}

func newFakeInvitationRepo() *fakeInvitationRepo {
	return &fakeInvitationRepo{invitations: map[string]*model.Invitation{}}
}

func (f *fakeInvitationRepo) CreateInvitation(inv *model.Invitation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.invitations {
		if existing.EventId == inv.EventId && existing.InviteeEmail == inv.InviteeEmail &&
			existing.Active != nil && inv.Active != nil {
			return gorm.ErrDuplicatedKey
		}
	}
	inv.CreatedAt = time.Now()
	cp := *inv
	f.invitations[inv.InvitationId] = &cp
	return nil
}

func (f *fakeInvitationRepo) GetInvitation(invitationId string) (*model.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invitations[invitationId]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *inv
	return &cp, nil
}

func (f *fakeInvitationRepo) GetInvitationByToken(token string) (*model.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inv := range f.invitations {
		if inv.Token == token {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeInvitationRepo) GetActiveInvitation(eventId, inviteeEmail string) (*model.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inv := range f.invitations {
		if inv.EventId == eventId && inv.InviteeEmail == inviteeEmail && inv.Active != nil {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeInvitationRepo) ListByEvent(eventId string) ([]model.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Invitation
	for _, inv := range f.invitations {
		if inv.EventId == eventId {
			out = append(out, *inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeInvitationRepo) ListPendingByEmail(inviteeEmail string) ([]model.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Invitation
	for _, inv := range f.invitations {
		if inv.InviteeEmail == inviteeEmail && inv.Status == statemachine.InvitationPending {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (f *fakeInvitationRepo) ListPendingByUserId(userId string) ([]model.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Invitation
	for _, inv := range f.invitations {
		if inv.InviteeUserId == userId && inv.Status == statemachine.InvitationPending {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (f *fakeInvitationRepo) UpdateInvitationByInvitationId(invitationId string, updates map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invitations[invitationId]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	f.applyUpdates(inv, updates)
	return nil
}

func (f *fakeInvitationRepo) UpdateStatusTx(tx *gorm.DB, invitationId string, from model.InvitationStatus, updates map[string]any) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invitations[invitationId]
	if !ok || inv.Status != from {
		return 0, nil
	}
	f.applyUpdates(inv, updates)
	return 1, nil
}

func (f *fakeInvitationRepo) applyUpdates(inv *model.Invitation, updates map[string]any) {
	for k, v := range updates {
		switch k {
		case "status":
			inv.Status = v.(model.InvitationStatus)
		case "active":
			if v == nil {
				inv.Active = nil
			}
		case "message":
			inv.Message = v.(string)
		case "response_message":
			inv.ResponseMessage = v.(string)
		case "response_date":
			t := v.(time.Time)
			inv.ResponseDate = &t
		}
	}
}

func (f *fakeInvitationRepo) DeleteByEvent(eventId string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, inv := range f.invitations {
		if inv.EventId == eventId {
			delete(f.invitations, k)
		}
	}
	return nil
}

func (f *fakeInvitationRepo) Transaction(fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeAttendeeRepo struct {
	mu        sync.Mutex
	attendees map[string]map[string]*model.EventAttendee // eventId -> identity
}

func newFakeAttendeeRepo() *fakeAttendeeRepo {
	return &fakeAttendeeRepo{attendees: map[string]map[string]*model.EventAttendee{}}
}

func (f *fakeAttendeeRepo) UpsertAttendee(att *model.EventAttendee) error {
	return f.UpsertAttendeeTx(nil, att)
}

func (f *fakeAttendeeRepo) UpsertAttendeeTx(tx *gorm.DB, att *model.EventAttendee) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.attendees[att.EventId] == nil {
		f.attendees[att.EventId] = map[string]*model.EventAttendee{}
	}
	cp := *att
	f.attendees[att.EventId][att.Identity] = &cp
	return nil
}

func (f *fakeAttendeeRepo) RemoveAttendee(eventId, identity string) error {
	return f.RemoveAttendeeTx(nil, eventId, identity)
}

func (f *fakeAttendeeRepo) RemoveAttendeeTx(tx *gorm.DB, eventId, identity string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.attendees[eventId], identity)
	return nil
}

func (f *fakeAttendeeRepo) DeleteByEvent(eventId string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.attendees, eventId)
	return nil
}

func (f *fakeAttendeeRepo) ListByEvent(eventId string) ([]model.EventAttendee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.EventAttendee
	for _, att := range f.attendees[eventId] {
		out = append(out, *att)
	}
	return out, nil
}

type fakeUserRepo struct {
	usersByEmail map[string]*model.User
}

func (f *fakeUserRepo) GetUser(userId string) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetUserByEmail(email string) (*model.User, error) {
	if f.usersByEmail == nil {
		return nil, nil
	}
	return f.usersByEmail[email], nil
}

type fakeLinkRepo struct {
	mu    sync.Mutex
	links map[string]*model.CalendarLink
}

func newFakeLinkRepo() *fakeLinkRepo {
	return &fakeLinkRepo{links: map[string]*model.CalendarLink{}}
}

func (f *fakeLinkRepo) SaveLink(link *model.CalendarLink) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *link
	f.links[link.UserId] = &cp
	return nil
}

func (f *fakeLinkRepo) GetLinkByUserId(userId string) (*model.CalendarLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	link, ok := f.links[userId]
	if !ok {
		return nil, nil
	}
	cp := *link
	return &cp, nil
}

func (f *fakeLinkRepo) ListSyncEnabled() ([]model.CalendarLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.CalendarLink
	for _, link := range f.links {
		if link.State == model.LinkStateConnected && link.SyncEnabled == 1 {
			out = append(out, *link)
		}
	}
	return out, nil
}

func (f *fakeLinkRepo) UpdateLinkByUserId(userId string, updates map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	link, ok := f.links[userId]
	if !ok {
		return nil
	}
	for k, v := range updates {
		switch k {
		case "state":
			link.State = v.(string)
		case "sync_enabled":
			link.SyncEnabled = v.(int)
		case "access_token":
			link.AccessToken = v.(string)
		case "refresh_token":
			link.RefreshToken = v.(string)
		case "token_expiry":
			if v == nil {
				link.TokenExpiry = nil
			} else {
				t := v.(time.Time)
				link.TokenExpiry = &t
			}
		case "last_sync_at":
			t := v.(time.Time)
			link.LastSyncAt = &t
		}
	}
	return nil
}

func (f *fakeLinkRepo) DeleteLinkByUserId(userId string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.links, userId)
	return nil
}

type fakeMappingRepo struct {
	mu       sync.Mutex
	mappings map[string]*model.EventMapping // by eventId
}

func newFakeMappingRepo() *fakeMappingRepo {
	return &fakeMappingRepo{mappings: map[string]*model.EventMapping{}}
}

func (f *fakeMappingRepo) SaveMapping(m *model.EventMapping) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *m
	f.mappings[m.EventId] = &cp
	return nil
}

func (f *fakeMappingRepo) GetMappingByEventId(eventId string) (*model.EventMapping, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.mappings[eventId]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMappingRepo) GetMappingByExternalEventId(userId, externalEventId string) (*model.EventMapping, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.mappings {
		if m.UserId == userId && m.ExternalEventId == externalEventId {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeMappingRepo) ListByUserId(userId string) ([]model.EventMapping, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.EventMapping
	for _, m := range f.mappings {
		if m.UserId == userId {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMappingRepo) DeleteMappingByEventId(eventId string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.mappings, eventId)
	return nil
}

func (f *fakeMappingRepo) DeleteByUserId(userId string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, m := range f.mappings {
		if m.UserId == userId {
			delete(f.mappings, k)
		}
	}
	return nil
}

type fakeCandidateRepo struct {
	mu         sync.Mutex
	candidates map[string]*model.Candidate // by candidateId
}

func newFakeCandidateRepo() *fakeCandidateRepo {
	return &fakeCandidateRepo{candidates: map[string]*model.Candidate{}}
}

func (f *fakeCandidateRepo) CreateCandidate(c *model.Candidate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.candidates {
		if existing.ExternalRef == c.ExternalRef {
			return gorm.ErrDuplicatedKey
		}
	}
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()
	cp := *c
	f.candidates[c.CandidateId] = &cp
	return nil
}

func (f *fakeCandidateRepo) GetCandidate(candidateId string) (*model.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.candidates[candidateId]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCandidateRepo) GetCandidateByExternalRef(externalRef string) (*model.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.candidates {
		if c.ExternalRef == externalRef {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCandidateRepo) ListCandidates(pageNum, pageSize int) ([]model.Candidate, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Candidate
	for _, c := range f.candidates {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (f *fakeCandidateRepo) UpdateCandidateByCandidateId(candidateId string, updates map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.candidates[candidateId]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range updates {
		switch k {
		case "name":
			c.Name = v.(string)
		case "email":
			c.Email = v.(string)
		case "phone":
			c.Phone = v.(string)
		case "stage":
			c.Stage = v.(string)
		case "profile":
			c.Profile = v.(datatypes.JSON)
		}
	}
	c.UpdatedAt = time.Now()
	return nil
}

// fakeCache 基于 map 的 ICache 实现，SetNX 支持锁语义
type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string]string{}}
}

func (f *fakeCache) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.data[key]; ok {
		return redis.NewStringResult(v, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (f *fakeCache) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = toString(value)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeCache) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.data[key] = toString(value)
	return redis.NewBoolResult(true, nil)
}

func (f *fakeCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeCache) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	return redis.NewBoolResult(true, nil)
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return "1"
}

// fakeCalendarProvider 可编排的外部日历
type fakeCalendarProvider struct {
	session *fakeCalendarSession
}

func newFakeCalendarProvider() *fakeCalendarProvider {
	return &fakeCalendarProvider{session: newFakeCalendarSession()}
}

func (p *fakeCalendarProvider) AuthURL(state string) string {
	return "https://accounts.example.com/auth?state=" + state
}

func (p *fakeCalendarProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	if code == "bad" {
		return nil, context.DeadlineExceeded
	}
	return &oauth2.Token{AccessToken: "access-" + code, RefreshToken: "refresh-" + code}, nil
}

func (p *fakeCalendarProvider) Open(ctx context.Context, token *oauth2.Token) (google.ICalendarSession, error) {
	p.session.token = token
	return p.session, nil
}

type fakeCalendarSession struct {
	mu       sync.Mutex
	token    *oauth2.Token
	remote   map[string]*google.ExternalEvent
	nextId   int
	listErr  error
	writeErr error
	// writeErr 生效前允许成功的写入次数
	writeErrAfter int
	inserted      int
	patched       int
}

func newFakeCalendarSession() *fakeCalendarSession {
	return &fakeCalendarSession{remote: map[string]*google.ExternalEvent{}}
}

func (s *fakeCalendarSession) PrimaryCalendarId(ctx context.Context) (string, error) {
	return "primary", nil
}

func (s *fakeCalendarSession) ListUpdatedSince(ctx context.Context, calendarId string, since time.Time) ([]google.ExternalEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []google.ExternalEvent
	for _, ev := range s.remote {
		if ev.Updated.After(since) {
			out = append(out, *ev)
		}
	}
	return out, nil
}

func (s *fakeCalendarSession) Insert(ctx context.Context, calendarId string, ev *google.ExternalEvent) (*google.ExternalEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil && s.inserted+s.patched >= s.writeErrAfter {
		return nil, s.writeErr
	}
	s.nextId++
	cp := *ev
	cp.Id = "ext-" + time.Now().Format("150405") + "-" + string(rune('a'+s.nextId))
	cp.Updated = time.Now()
	s.remote[cp.Id] = &cp
	s.inserted++
	out := cp
	return &out, nil
}

func (s *fakeCalendarSession) Patch(ctx context.Context, calendarId, externalEventId string, ev *google.ExternalEvent) (*google.ExternalEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil && s.inserted+s.patched >= s.writeErrAfter {
		return nil, s.writeErr
	}
	cp := *ev
	cp.Id = externalEventId
	cp.Updated = time.Now()
	s.remote[externalEventId] = &cp
	s.patched++
	out := cp
	return &out, nil
}

func (s *fakeCalendarSession) Token() (*oauth2.Token, error) {
	return s.token, nil
}

// seedRemote 预置一条外部事件
func (s *fakeCalendarSession) seedRemote(id, title string, start, end, updated time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remote[id] = &google.ExternalEvent{
		Id:      id,
		Title:   title,
		Start:   start,
		End:     end,
		Updated: updated,
	}
}
