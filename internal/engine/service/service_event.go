package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/talenthub/talenthub/internal/engine/common"
	"github.com/talenthub/talenthub/internal/engine/model"
	"github.com/talenthub/talenthub/internal/engine/repo"
	"github.com/talenthub/talenthub/pkg/id"
	"github.com/talenthub/talenthub/pkg/log"
)

type EventService struct {
	eventRepo      repo.IEventRepository
	attendeeRepo   repo.IEventAttendeeRepository
	invitationRepo repo.IInvitationRepository
	mappingRepo    repo.IEventMappingRepository
}

func NewEventService(eventRepo repo.IEventRepository, attendeeRepo repo.IEventAttendeeRepository,
	invitationRepo repo.IInvitationRepository, mappingRepo repo.IEventMappingRepository) *EventService {
	return &EventService{
		eventRepo:      eventRepo,
		attendeeRepo:   attendeeRepo,
		invitationRepo: invitationRepo,
		mappingRepo:    mappingRepo,
	}
}

// CreateEvent 创建事件
func (s *EventService) CreateEvent(req *model.CreateEventReq, ownerId string) (*model.EventResp, error) {
	// 1. 校验请求
	if err := validateEventTimes(req.StartTime, req.EndTime, req.AllDay); err != nil {
		return nil, err
	}
	if req.Title == "" {
		return nil, common.E(common.KindValidation, "title cannot be empty")
	}
	priority := req.Priority
	if priority == "" {
		priority = model.EventPriorityMedium
	}
	switch priority {
	case model.EventPriorityLow, model.EventPriorityMedium, model.EventPriorityHigh:
	default:
		return nil, common.Ef(common.KindValidation, "invalid priority: %s", priority)
	}

	// 2. 序列化重复规则
	var recurrence datatypes.JSON
	if req.Recurrence != nil {
		raw, err := json.Marshal(req.Recurrence)
		if err != nil {
			return nil, common.Wrap(common.KindValidation, err, "invalid recurrence")
		}
		recurrence = raw
	}

	// 3. 创建事件实体
	allDay := 0
	if req.AllDay {
		allDay = 1
	}
	event := &model.Event{
		EventId:     id.GetUUID(),
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		AllDay:      allDay,
		Location:    req.Location,
		MeetingLink: req.MeetingLink,
		Status:      model.EventStatusScheduled,
		Priority:    priority,
		Recurrence:  recurrence,
		OwnerId:     ownerId,
	}

	// 4. 保存到数据库
	if err := s.eventRepo.CreateEvent(event); err != nil {
		log.Errorw("create event failed", "title", event.Title, "error", err)
		return nil, fmt.Errorf("create event failed: %w", err)
	}

	log.Infow("success create event", "eventId", event.EventId, "title", event.Title)
	return model.ToEventResp(event, nil), nil
}

// GetEvent 获取事件详情，含参与人
func (s *EventService) GetEvent(eventId string) (*model.EventResp, error) {
	event, err := s.findEvent(eventId)
	if err != nil {
		return nil, err
	}

	attendees, err := s.attendeeRepo.ListByEvent(eventId)
	if err != nil {
		log.Errorw("list attendees failed", "eventId", eventId, "error", err)
		return nil, fmt.Errorf("list attendees failed: %w", err)
	}
	return model.ToEventResp(event, attendees), nil
}

// ListEvents 分页查询用户的事件
func (s *EventService) ListEvents(ownerId string, pageNum, pageSize int) ([]model.Event, int64, error) {
	if pageNum <= 0 {
		pageNum = 1
	}
	if pageSize <= 0 || pageSize > 200 {
		pageSize = 20
	}
	return s.eventRepo.ListEvents(ownerId, pageNum, pageSize)
}

// ListEventsInRange 查询时间区间内的事件，日历视图使用
func (s *EventService) ListEventsInRange(ownerId string, from, to time.Time) ([]model.Event, error) {
	if !to.After(from) {
		return nil, common.E(common.KindValidation, "range end must be after range start")
	}
	return s.eventRepo.ListEventsInRange(ownerId, from, to)
}

// UpdateEvent 更新事件
func (s *EventService) UpdateEvent(eventId string, req *model.CreateEventReq) (*model.EventResp, error) {
	// 1. 确认事件存在
	if _, err := s.findEvent(eventId); err != nil {
		return nil, err
	}

	// 2. 校验并组装更新字段
	if err := validateEventTimes(req.StartTime, req.EndTime, req.AllDay); err != nil {
		return nil, err
	}
	allDay := 0
	if req.AllDay {
		allDay = 1
	}
	updates := map[string]any{
		"title":        req.Title,
		"description":  req.Description,
		"start_time":   req.StartTime,
		"end_time":     req.EndTime,
		"all_day":      allDay,
		"location":     req.Location,
		"meeting_link": req.MeetingLink,
	}
	if req.Recurrence != nil {
		raw, err := json.Marshal(req.Recurrence)
		if err != nil {
			return nil, common.Wrap(common.KindValidation, err, "invalid recurrence")
		}
		updates["recurrence"] = datatypes.JSON(raw)
	}

	// 3. 写入数据库
	if err := s.eventRepo.UpdateEventByEventId(eventId, updates); err != nil {
		log.Errorw("update event failed", "eventId", eventId, "error", err)
		return nil, fmt.Errorf("update event failed: %w", err)
	}

	// 4. 返回最新状态
	updated, err := s.findEvent(eventId)
	if err != nil {
		return nil, err
	}
	attendees, _ := s.attendeeRepo.ListByEvent(eventId)
	return model.ToEventResp(updated, attendees), nil
}

// UpdateEventStatus 更新事件状态
func (s *EventService) UpdateEventStatus(eventId, status string) error {
	if !model.ValidEventStatus(status) {
		return common.Ef(common.KindValidation, "invalid event status: %s", status)
	}
	if _, err := s.findEvent(eventId); err != nil {
		return err
	}
	if err := s.eventRepo.UpdateEventByEventId(eventId, map[string]any{"status": status}); err != nil {
		log.Errorw("update event status failed", "eventId", eventId, "status", status, "error", err)
		return fmt.Errorf("update event status failed: %w", err)
	}
	return nil
}

// AddAttendee 事件所有人直接添加参与人，按 identity 去重
func (s *EventService) AddAttendee(eventId string, req *model.AddAttendeeReq) (*model.EventResp, error) {
	// 1. 校验
	if req.UserId == "" && req.Email == "" {
		return nil, common.E(common.KindValidation, "attendee userId or email is required")
	}
	event, err := s.findEvent(eventId)
	if err != nil {
		return nil, err
	}
	if event.Status == model.EventStatusCancelled {
		return nil, common.E(common.KindInvalidState, "cannot add attendee to a cancelled event")
	}

	// 2. 写入，重复添加更新现有记录
	isExternal := 1
	if req.UserId != "" {
		isExternal = 0
	}
	att := &model.EventAttendee{
		EventId:    eventId,
		Identity:   model.AttendeeIdentity(req.UserId, req.Email),
		UserId:     req.UserId,
		Email:      req.Email,
		Name:       req.Name,
		IsExternal: isExternal,
		Source:     model.AttendeeSourceManual,
	}
	if err := s.attendeeRepo.UpsertAttendee(att); err != nil {
		log.Errorw("add attendee failed", "eventId", eventId, "identity", att.Identity, "error", err)
		return nil, fmt.Errorf("add attendee failed: %w", err)
	}

	attendees, err := s.attendeeRepo.ListByEvent(eventId)
	if err != nil {
		return nil, fmt.Errorf("list attendees failed: %w", err)
	}
	return model.ToEventResp(event, attendees), nil
}

// DeleteEvent 删除事件，级联清理邀请、参与人与同步映射
func (s *EventService) DeleteEvent(eventId string) error {
	if _, err := s.findEvent(eventId); err != nil {
		return err
	}
	if err := s.invitationRepo.DeleteByEvent(eventId); err != nil {
		return fmt.Errorf("delete event invitations failed: %w", err)
	}
	if err := s.attendeeRepo.DeleteByEvent(eventId); err != nil {
		return fmt.Errorf("delete event attendees failed: %w", err)
	}
	if err := s.mappingRepo.DeleteMappingByEventId(eventId); err != nil {
		return fmt.Errorf("delete event mapping failed: %w", err)
	}
	if err := s.eventRepo.DeleteEventByEventId(eventId); err != nil {
		log.Errorw("delete event failed", "eventId", eventId, "error", err)
		return fmt.Errorf("delete event failed: %w", err)
	}
	log.Infow("success delete event", "eventId", eventId)
	return nil
}

func (s *EventService) findEvent(eventId string) (*model.Event, error) {
	event, err := s.eventRepo.GetEvent(eventId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.Ef(common.KindNotFound, "event %s not found", eventId)
		}
		log.Errorw("get event failed", "eventId", eventId, "error", err)
		return nil, fmt.Errorf("get event failed: %w", err)
	}
	return event, nil
}

// 全天事件按日期语义处理，start == end 表示单天，不比较先后
func validateEventTimes(start, end time.Time, allDay bool) error {
	if start.IsZero() || end.IsZero() {
		return common.E(common.KindValidation, "start time and end time are required")
	}
	if !allDay && end.Before(start) {
		return common.E(common.KindValidation, "end time cannot be before start time")
	}
	return nil
}
