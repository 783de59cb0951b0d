package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"event-dashboard-api/core/database"
	"event-dashboard-api/core/logger"
	"event-dashboard-api/modules/reminder/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ErrDuplicate is returned by Create when the (event, user) unique
// constraint rejects the insert. The constraint is the authoritative
// duplicate signal; the service's pre-check is only a fast path.
var ErrDuplicate = stderrors.New("reminder already exists for event and user")

const uniqueViolation = "23505"

type ReminderRepositoryInterface interface {
	Create(ctx context.Context, reminder *entity.Reminder) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ReminderWithEvent, error)
	GetByEventAndUser(ctx context.Context, eventID, userID uuid.UUID) (*entity.Reminder, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]entity.ReminderWithEvent, error)
	Update(ctx context.Context, id, eventID uuid.UUID, reminderTime time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	DueUnseen(ctx context.Context, userID uuid.UUID, now time.Time) ([]entity.ReminderWithEvent, error)
	MarkSeen(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, now time.Time) error
	PurgeStaleSeen(ctx context.Context, before time.Time) (int64, error)
}

type ReminderRepository struct {
	db database.IDatabase
}

func NewReminderRepository(db database.IDatabase) *ReminderRepository {
	return &ReminderRepository{db: db}
}

func (r *ReminderRepository) Create(ctx context.Context, reminder *entity.Reminder) error {
	query := `
		INSERT INTO reminders (event_id, user_id, reminder_time, seen, created_at, updated_at)
		VALUES ($1, $2, $3, false, NOW(), NOW())
		RETURNING id, seen, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		reminder.EventID, reminder.UserID, reminder.ReminderTime,
	).Scan(&reminder.ID, &reminder.Seen, &reminder.CreatedAt, &reminder.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if stderrors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return ErrDuplicate
		}
		logger.Error("ReminderRepository:Create:Error:", err)
		return err
	}
	return nil
}

func (r *ReminderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ReminderWithEvent, error) {
	query := `
		SELECT r.id, r.event_id, r.user_id, r.reminder_time, r.seen, r.created_at, r.updated_at,
		       e.title AS event_title
		FROM reminders r
		JOIN events e ON e.id = r.event_id
		WHERE r.id = $1
	`
	var row entity.ReminderWithEvent
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ReminderRepository:GetByID:Error:", err)
		return nil, err
	}
	return &row, nil
}

func (r *ReminderRepository) GetByEventAndUser(ctx context.Context, eventID, userID uuid.UUID) (*entity.Reminder, error) {
	query := `
		SELECT id, event_id, user_id, reminder_time, seen, created_at, updated_at
		FROM reminders WHERE event_id = $1 AND user_id = $2
	`
	var reminder entity.Reminder
	err := r.db.GetContext(ctx, &reminder, query, eventID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ReminderRepository:GetByEventAndUser:Error:", err)
		return nil, err
	}
	return &reminder, nil
}

func (r *ReminderRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]entity.ReminderWithEvent, error) {
	query := `
		SELECT r.id, r.event_id, r.user_id, r.reminder_time, r.seen, r.created_at, r.updated_at,
		       e.title AS event_title
		FROM reminders r
		JOIN events e ON e.id = r.event_id
		WHERE r.user_id = $1
		ORDER BY r.reminder_time ASC
	`
	var rows []entity.ReminderWithEvent
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		logger.Error("ReminderRepository:ListForUser:Error:", err)
		return nil, err
	}
	return rows, nil
}

// Update re-points the reminder and re-arms it: an edited reminder is
// unseen again.
func (r *ReminderRepository) Update(ctx context.Context, id, eventID uuid.UUID, reminderTime time.Time) error {
	query := `
		UPDATE reminders
		SET event_id = $2, reminder_time = $3, seen = false, updated_at = NOW()
		WHERE id = $1
	`
	if err := r.db.ExecContext(ctx, query, id, eventID, reminderTime); err != nil {
		logger.Error("ReminderRepository:Update:Error:", err)
		return err
	}
	return nil
}

func (r *ReminderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = $1`, id); err != nil {
		logger.Error("ReminderRepository:Delete:Error:", err)
		return err
	}
	return nil
}

// DueUnseen returns the user's reminders that have come due and have not
// been acknowledged, oldest first. Read-only; never flips seen.
func (r *ReminderRepository) DueUnseen(ctx context.Context, userID uuid.UUID, now time.Time) ([]entity.ReminderWithEvent, error) {
	query := `
		SELECT r.id, r.event_id, r.user_id, r.reminder_time, r.seen, r.created_at, r.updated_at,
		       e.title AS event_title
		FROM reminders r
		JOIN events e ON e.id = r.event_id
		WHERE r.user_id = $1 AND r.reminder_time <= $2 AND r.seen = false
		ORDER BY r.reminder_time ASC
	`
	var rows []entity.ReminderWithEvent
	if err := r.db.SelectContext(ctx, &rows, query, userID, now); err != nil {
		logger.Error("ReminderRepository:DueUnseen:Error:", err)
		return nil, err
	}
	return rows, nil
}

// MarkSeen acknowledges due-and-unseen reminders. With ids it marks only
// those rows; without ids it sweeps everything currently due for the
// user. A reminder that becomes due between scan and sweep may be
// swept too, which is the accepted at-least-once behavior.
func (r *ReminderRepository) MarkSeen(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, now time.Time) error {
	if len(ids) > 0 {
		query, args, err := sqlx.In(`
			UPDATE reminders SET seen = true, updated_at = NOW()
			WHERE user_id = ? AND reminder_time <= ? AND seen = false AND id IN (?)`,
			userID, now, ids)
		if err != nil {
			return err
		}
		query = r.db.SQLx().Rebind(query)
		if err := r.db.ExecContext(ctx, query, args...); err != nil {
			logger.Error("ReminderRepository:MarkSeen:Error:", err)
			return err
		}
		return nil
	}

	query := `
		UPDATE reminders SET seen = true, updated_at = NOW()
		WHERE user_id = $1 AND reminder_time <= $2 AND seen = false
	`
	if err := r.db.ExecContext(ctx, query, userID, now); err != nil {
		logger.Error("ReminderRepository:MarkSeen:Sweep:Error:", err)
		return err
	}
	return nil
}

// PurgeStaleSeen deletes acknowledged reminders whose event date passed
// before the cutoff. Run periodically by the maintenance worker.
func (r *ReminderRepository) PurgeStaleSeen(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.NamedExecContext(ctx, `
		DELETE FROM reminders r
		USING events e
		WHERE r.event_id = e.id AND r.seen = true AND e.date < :before`,
		map[string]any{"before": before})
	if err != nil {
		logger.Error("ReminderRepository:PurgeStaleSeen:Error:", err)
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}
