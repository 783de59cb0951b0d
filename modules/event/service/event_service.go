package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"event-dashboard-api/core/cache"
	"event-dashboard-api/core/constants"
	coreEntity "event-dashboard-api/core/entity"
	"event-dashboard-api/core/errors"
	"event-dashboard-api/core/logger"
	"event-dashboard-api/core/params"
	"event-dashboard-api/core/utils"
	"event-dashboard-api/modules/event/dto"
	"event-dashboard-api/modules/event/entity"
	"event-dashboard-api/modules/event/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type EventServiceInterface interface {
	Create(ctx context.Context, userID uuid.UUID, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError)
	GetByID(ctx context.Context, id uuid.UUID, requesterID *uuid.UUID) (*dto.EventResponse, *errors.AppError)
	GetBySlug(ctx context.Context, eventSlug string) (*dto.EventResponse, *errors.AppError)
	Update(ctx context.Context, eventID, requesterID uuid.UUID, req *dto.UpdateEventRequest) (*dto.EventResponse, *errors.AppError)
	Delete(ctx context.Context, eventID, requesterID uuid.UUID) *errors.AppError
	List(ctx context.Context, requesterID *uuid.UUID, p *params.QueryParams) (*dto.EventListResponse, *errors.AppError)
}

type EventService struct {
	repo          repository.EventRepositoryInterface
	cache         cache.Cache
	reminderScope repository.ReminderScope
}

func NewEventService(repo repository.EventRepositoryInterface, c cache.Cache, reminderScope string) *EventService {
	scope := repository.ReminderScopeRequester
	if reminderScope == string(repository.ReminderScopeAny) {
		scope = repository.ReminderScopeAny
	}
	return &EventService{repo: repo, cache: c, reminderScope: scope}
}

func (s *EventService) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError) {
	date, appErr := validateEventSchema(req.Title, req.Description, req.Date, req.Location, req.Status, true)
	if appErr != nil {
		return nil, appErr
	}

	event := &entity.Event{
		Title:    strings.TrimSpace(req.Title),
		Date:     date,
		Location: req.Location,
		Status:   entity.EventStatus(req.Status),
		Slug:     makeSlug(req.Title),
		UserID:   userID,
	}
	if req.Description != "" {
		event.Description = &req.Description
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, errors.Wrap(err, "failed to create event")
	}

	s.invalidateListings(ctx)
	return dto.ToEventResponse(event, nil, nil), nil
}

func (s *EventService) GetByID(ctx context.Context, id uuid.UUID, requesterID *uuid.UUID) (*dto.EventResponse, *errors.AppError) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load event")
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrEventNotFound, "Event not found", nil)
	}

	if event.Status != entity.EventStatusPublished &&
		(requesterID == nil || *requesterID != event.UserID) {
		return nil, errors.NewAppError(errors.ErrForbidden, "You do not have permission to view this event", nil)
	}

	var reminderTime *time.Time
	var reminderID *string
	if requesterID != nil {
		rt, rid, err := s.repo.GetUserReminder(ctx, event.ID, *requesterID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load reminder")
		}
		reminderTime = rt
		if rid != nil {
			idStr := rid.String()
			reminderID = &idStr
		}
	}
	return dto.ToEventResponse(event, reminderTime, reminderID), nil
}

func (s *EventService) GetBySlug(ctx context.Context, eventSlug string) (*dto.EventResponse, *errors.AppError) {
	event, err := s.repo.GetBySlug(ctx, eventSlug)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load event")
	}
	if event == nil || event.Status != entity.EventStatusPublished {
		return nil, errors.NewAppError(errors.ErrEventNotFound, "Event not found", nil)
	}
	return dto.ToEventResponse(event, nil, nil), nil
}

func (s *EventService) Update(ctx context.Context, eventID, requesterID uuid.UUID, req *dto.UpdateEventRequest) (*dto.EventResponse, *errors.AppError) {
	date, appErr := validateEventSchema(req.Title, req.Description, req.Date, req.Location, req.Status, true)
	if appErr != nil {
		return nil, appErr
	}

	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load event")
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrEventNotFound, "Event not found", nil)
	}
	if event.UserID != requesterID {
		return nil, errors.NewAppError(errors.ErrForbidden, "You do not have permission to edit this event", nil)
	}

	title := strings.TrimSpace(req.Title)
	if event.Title != title {
		event.Slug = makeSlug(title)
	}
	event.Title = title
	event.Date = date
	event.Location = req.Location
	event.Status = entity.EventStatus(req.Status)
	event.Description = nil
	if req.Description != "" {
		event.Description = &req.Description
	}

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, errors.Wrap(err, "failed to update event")
	}

	s.invalidateListings(ctx)
	return dto.ToEventResponse(event, nil, nil), nil
}

func (s *EventService) Delete(ctx context.Context, eventID, requesterID uuid.UUID) *errors.AppError {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return errors.Wrap(err, "failed to load event")
	}
	if event == nil {
		return errors.NewAppError(errors.ErrEventNotFound, "Event not found", nil)
	}
	if event.UserID != requesterID {
		return errors.NewAppError(errors.ErrForbidden, "You do not have permission to delete this event", nil)
	}

	if err := s.repo.DeleteCascade(ctx, eventID); err != nil {
		return errors.Wrap(err, "failed to delete event")
	}

	s.invalidateListings(ctx)
	return nil
}

// List composes visibility, filters, sorting and pagination into one
// page plus aggregate counts. Page 1 of each query signature is served
// from the response cache within its TTL.
func (s *EventService) List(ctx context.Context, requesterID *uuid.UUID, p *params.QueryParams) (*dto.EventListResponse, *errors.AppError) {
	requester := ""
	if requesterID != nil {
		requester = requesterID.String()
	}
	cacheKey := p.Signature(requester)

	if p.PageNumber == 1 {
		if raw, ok, err := s.cache.Get(ctx, cacheKey); err == nil && ok {
			var cached dto.EventListResponse
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	startDate, appErr := parseFilterDate(p.StartDate, false)
	if appErr != nil {
		return nil, appErr
	}
	endDate, appErr := parseFilterDate(p.EndDate, true)
	if appErr != nil {
		return nil, appErr
	}
	if p.Status != "" && !entity.EventStatus(p.Status).Valid() {
		return nil, errors.NewAppError(errors.ErrValidation, "Invalid status filter", nil)
	}

	rows, total, err := s.repo.List(ctx, repository.ListQuery{
		RequesterID:   requesterID,
		Page:          p.PageNumber,
		PageSize:      p.PageSize,
		SortField:     p.Sort,
		SortOrder:     p.Order,
		Search:        p.Search,
		Status:        p.Status,
		StartDate:     startDate,
		EndDate:       endDate,
		HasReminder:   p.HasReminder,
		ReminderScope: s.reminderScope,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list events")
	}

	publishedCount, err := s.repo.CountPublished(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count published events")
	}
	draftCount := 0
	if requesterID != nil {
		draftCount, err = s.repo.CountDraftsForUser(ctx, *requesterID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to count drafts")
		}
	}

	items := make([]dto.EventResponse, 0, len(rows))
	for i := range rows {
		items = append(items, dto.ToEventRowResponse(&rows[i]))
	}

	resp := &dto.EventListResponse{
		Pagination: coreEntity.Pagination[dto.EventResponse]{
			Items:      items,
			TotalItems: total,
			PageNumber: p.PageNumber,
			PageSize:   p.PageSize,
		},
		PublishedCount: publishedCount,
		DraftCount:     draftCount,
	}

	if p.PageNumber == 1 {
		if raw, err := json.Marshal(resp); err == nil {
			if err := s.cache.Set(ctx, cacheKey, raw, constants.ListingCacheTTL); err != nil {
				logger.Warn("EventService:List:CacheSet:Error:", err)
			}
		}
	}
	return resp, nil
}

func (s *EventService) invalidateListings(ctx context.Context) {
	if err := s.cache.DeletePrefix(ctx, constants.ListingCacheKeyPrefix); err != nil {
		logger.Warn("EventService:invalidateListings:Error:", err)
	}
}

func validateEventSchema(title, description, rawDate, location, status string, requireFuture bool) (time.Time, *errors.AppError) {
	// Limits are in characters, not bytes, so multibyte titles count
	// the way users see them.
	title = strings.TrimSpace(title)
	if title == "" || utf8.RuneCountInString(title) > constants.EventTitleMaxLen {
		return time.Time{}, errors.NewAppError(errors.ErrValidation, "Title must be 1-100 characters", nil)
	}
	if utf8.RuneCountInString(description) > constants.EventDescriptionMaxLen {
		return time.Time{}, errors.NewAppError(errors.ErrValidation, "Description must be at most 500 characters", nil)
	}
	if strings.TrimSpace(location) == "" {
		return time.Time{}, errors.NewAppError(errors.ErrValidation, "Location is required", nil)
	}
	if !entity.EventStatus(status).Valid() {
		return time.Time{}, errors.NewAppError(errors.ErrValidation, "Invalid status", nil)
	}

	date, err := time.Parse(time.RFC3339, rawDate)
	if err != nil {
		return time.Time{}, errors.NewAppError(errors.ErrValidation, "Invalid date", err)
	}
	if requireFuture && !date.After(time.Now()) {
		return time.Time{}, errors.NewAppError(errors.ErrValidation, "Date must be in the future", nil)
	}
	return date, nil
}

// parseFilterDate accepts a date-only or RFC3339 value; date-only end
// bounds are pushed to the end of the day so the range stays inclusive.
func parseFilterDate(raw string, endOfDay bool) (*time.Time, *errors.AppError) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrValidation, "Invalid date filter", err)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Second)
	}
	return &t, nil
}

func makeSlug(title string) string {
	return slug.Make(title) + "-" + strings.ToLower(utils.GenerateID())
}
