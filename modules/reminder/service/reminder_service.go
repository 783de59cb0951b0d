package service

import (
	"context"
	"time"

	"event-dashboard-api/core/cache"
	"event-dashboard-api/core/constants"
	"event-dashboard-api/core/errors"
	"event-dashboard-api/core/logger"
	eventrepo "event-dashboard-api/modules/event/repository"
	"event-dashboard-api/modules/reminder/dto"
	"event-dashboard-api/modules/reminder/entity"
	"event-dashboard-api/modules/reminder/repository"

	"github.com/google/uuid"
)

type ReminderServiceInterface interface {
	Create(ctx context.Context, userID uuid.UUID, req *dto.CreateReminderRequest) (*dto.ReminderResponse, *errors.AppError)
	Update(ctx context.Context, reminderID, requesterID uuid.UUID, req *dto.UpdateReminderRequest) (*dto.ReminderResponse, *errors.AppError)
	Delete(ctx context.Context, reminderID, requesterID uuid.UUID) *errors.AppError
	ListForUser(ctx context.Context, userID uuid.UUID) ([]dto.ReminderResponse, *errors.AppError)
	GetByID(ctx context.Context, reminderID uuid.UUID) (*dto.ReminderResponse, *errors.AppError)
	DueUnseen(ctx context.Context, userID uuid.UUID, now time.Time) ([]dto.DueReminderResponse, *errors.AppError)
	MarkSeen(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, now time.Time) *errors.AppError
}

type ReminderService struct {
	repo      repository.ReminderRepositoryInterface
	eventRepo eventrepo.EventRepositoryInterface
	cache     cache.Cache
}

func NewReminderService(repo repository.ReminderRepositoryInterface, eventRepo eventrepo.EventRepositoryInterface, c cache.Cache) *ReminderService {
	return &ReminderService{repo: repo, eventRepo: eventRepo, cache: c}
}

func (s *ReminderService) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateReminderRequest) (*dto.ReminderResponse, *errors.AppError) {
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid event ID", err)
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load event")
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrEventNotFound, "Event not found", nil)
	}

	reminderTime, appErr := ValidateReminderTime(event.Date, req.ReminderTime)
	if appErr != nil {
		return nil, appErr
	}

	// Fast-path duplicate check; the unique constraint below is the
	// authoritative one.
	existing, err := s.repo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check existing reminder")
	}
	if existing != nil {
		return nil, errors.NewAppError(errors.ErrDuplicateReminder, "A reminder already exists for this event.", nil)
	}

	reminder := &entity.Reminder{
		EventID:      eventID,
		UserID:       userID,
		ReminderTime: reminderTime,
	}
	if err := s.repo.Create(ctx, reminder); err != nil {
		if err == repository.ErrDuplicate {
			return nil, errors.NewAppError(errors.ErrDuplicateReminder, "A reminder already exists for this event.", nil)
		}
		return nil, errors.Wrap(err, "failed to create reminder")
	}

	s.invalidateListings(ctx)
	return dto.ToReminderResponse(reminder, event.Title), nil
}

func (s *ReminderService) Update(ctx context.Context, reminderID, requesterID uuid.UUID, req *dto.UpdateReminderRequest) (*dto.ReminderResponse, *errors.AppError) {
	existing, err := s.repo.GetByID(ctx, reminderID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load reminder")
	}
	if existing == nil {
		return nil, errors.NewAppError(errors.ErrReminderNotFound, "Reminder not found", nil)
	}
	if existing.UserID != requesterID {
		return nil, errors.NewAppError(errors.ErrForbidden, "Not allowed", nil)
	}

	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid event ID", err)
	}

	// Re-validate against the target event, which may differ from the
	// one the reminder was created for.
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load event")
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrEventNotFound, "Event not found", nil)
	}

	reminderTime, appErr := ValidateReminderTime(event.Date, req.ReminderTime)
	if appErr != nil {
		return nil, appErr
	}

	if err := s.repo.Update(ctx, reminderID, eventID, reminderTime); err != nil {
		return nil, errors.Wrap(err, "failed to update reminder")
	}

	s.invalidateListings(ctx)

	updated := existing.Reminder
	updated.EventID = eventID
	updated.ReminderTime = reminderTime
	updated.Seen = false
	return dto.ToReminderResponse(&updated, event.Title), nil
}

func (s *ReminderService) Delete(ctx context.Context, reminderID, requesterID uuid.UUID) *errors.AppError {
	existing, err := s.repo.GetByID(ctx, reminderID)
	if err != nil {
		return errors.Wrap(err, "failed to load reminder")
	}
	if existing == nil {
		return errors.NewAppError(errors.ErrReminderNotFound, "Reminder not found", nil)
	}
	if existing.UserID != requesterID {
		return errors.NewAppError(errors.ErrForbidden, "Not allowed", nil)
	}

	if err := s.repo.Delete(ctx, reminderID); err != nil {
		return errors.Wrap(err, "failed to delete reminder")
	}

	s.invalidateListings(ctx)
	return nil
}

func (s *ReminderService) ListForUser(ctx context.Context, userID uuid.UUID) ([]dto.ReminderResponse, *errors.AppError) {
	rows, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list reminders")
	}

	result := make([]dto.ReminderResponse, 0, len(rows))
	for i := range rows {
		result = append(result, *dto.ToReminderResponse(&rows[i].Reminder, rows[i].EventTitle))
	}
	return result, nil
}

func (s *ReminderService) GetByID(ctx context.Context, reminderID uuid.UUID) (*dto.ReminderResponse, *errors.AppError) {
	row, err := s.repo.GetByID(ctx, reminderID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load reminder")
	}
	if row == nil {
		return nil, errors.NewAppError(errors.ErrReminderNotFound, "Reminder not found", nil)
	}
	return dto.ToReminderResponse(&row.Reminder, row.EventTitle), nil
}

func (s *ReminderService) DueUnseen(ctx context.Context, userID uuid.UUID, now time.Time) ([]dto.DueReminderResponse, *errors.AppError) {
	rows, err := s.repo.DueUnseen(ctx, userID, now)
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan due reminders")
	}

	result := make([]dto.DueReminderResponse, 0, len(rows))
	for i := range rows {
		result = append(result, dto.ToDueReminderResponse(&rows[i]))
	}
	return result, nil
}

func (s *ReminderService) MarkSeen(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, now time.Time) *errors.AppError {
	if err := s.repo.MarkSeen(ctx, userID, ids, now); err != nil {
		return errors.Wrap(err, "failed to mark reminders seen")
	}
	s.invalidateListings(ctx)
	return nil
}

func (s *ReminderService) invalidateListings(ctx context.Context) {
	if err := s.cache.DeletePrefix(ctx, constants.ListingCacheKeyPrefix); err != nil {
		logger.Warn("ReminderService:invalidateListings:Error:", err)
	}
}
