package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"event-dashboard-api/core/database"
	"event-dashboard-api/core/logger"
	"event-dashboard-api/modules/event/entity"

	"github.com/google/uuid"
)

// ReminderScope controls whose reminders the has_reminder listing filter
// matches: the requester's own, or anyone's.
type ReminderScope string

const (
	ReminderScopeRequester ReminderScope = "requester"
	ReminderScopeAny       ReminderScope = "any"
)

// ListQuery is the fully parsed input of a listing query. Dates are
// already resolved, page is ≥1 and the reminder filter is "", "yes" or
// "no". SortField is validated against the allow-list at build time.
type ListQuery struct {
	RequesterID   *uuid.UUID
	Page          int
	PageSize      int
	SortField     string
	SortOrder     string
	Search        string
	Status        string
	StartDate     *time.Time
	EndDate       *time.Time
	HasReminder   string
	ReminderScope ReminderScope
}

// sortColumns is the allow-list guarding the ORDER BY clause; unknown
// fields fall back to the event date.
var sortColumns = map[string]string{
	"date":       "e.date",
	"title":      "e.title",
	"status":     "e.status",
	"location":   "e.location",
	"created_at": "e.created_at",
}

type EventRepositoryInterface interface {
	Create(ctx context.Context, event *entity.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Event, error)
	Update(ctx context.Context, event *entity.Event) error
	DeleteCascade(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, q ListQuery) ([]entity.EventWithReminder, int, error)
	CountPublished(ctx context.Context) (int, error)
	CountDraftsForUser(ctx context.Context, userID uuid.UUID) (int, error)
	GetUserReminder(ctx context.Context, eventID, userID uuid.UUID) (*time.Time, *uuid.UUID, error)
}

type EventRepository struct {
	db database.IDatabase
}

func NewEventRepository(db database.IDatabase) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, event *entity.Event) error {
	query := `
		INSERT INTO events (title, description, date, location, status, slug, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		event.Title, event.Description, event.Date, event.Location,
		event.Status, event.Slug, event.UserID,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		logger.Error("EventRepository:Create:Error:", err)
		return err
	}
	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	query := `
		SELECT id, title, description, date, location, status, slug, user_id, created_at, updated_at
		FROM events WHERE id = $1
	`
	var event entity.Event
	err := r.db.GetContext(ctx, &event, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetByID:Error:", err)
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) GetBySlug(ctx context.Context, slug string) (*entity.Event, error) {
	query := `
		SELECT id, title, description, date, location, status, slug, user_id, created_at, updated_at
		FROM events WHERE slug = $1
	`
	var event entity.Event
	err := r.db.GetContext(ctx, &event, query, slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetBySlug:Error:", err)
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) Update(ctx context.Context, event *entity.Event) error {
	query := `
		UPDATE events
		SET title = $2, description = $3, date = $4, location = $5, status = $6, slug = $7, updated_at = NOW()
		WHERE id = $1
	`
	err := r.db.ExecContext(ctx, query,
		event.ID, event.Title, event.Description, event.Date,
		event.Location, event.Status, event.Slug,
	)
	if err != nil {
		logger.Error("EventRepository:Update:Error:", err)
		return err
	}
	return nil
}

// DeleteCascade removes the event and its reminders in one transaction.
func (r *EventRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx)
	if err != nil {
		logger.Error("EventRepository:DeleteCascade:Begin:Error:", err)
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM reminders WHERE event_id = $1`, id); err != nil {
		logger.Error("EventRepository:DeleteCascade:Reminders:Error:", err)
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id); err != nil {
		logger.Error("EventRepository:DeleteCascade:Event:Error:", err)
		return err
	}
	return tx.Commit()
}

// List runs the composed listing query and the matching count in the
// same filter set. Returned rows carry the requester's own reminder.
func (r *EventRepository) List(ctx context.Context, q ListQuery) ([]entity.EventWithReminder, int, error) {
	where, args := buildWhere(q)

	countQuery := `SELECT COUNT(*) FROM events e ` + where
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		logger.Error("EventRepository:List:Count:Error:", err)
		return nil, 0, err
	}

	selectCols := `
		SELECT e.id, e.title, e.description, e.date, e.location, e.status, e.slug,
		       e.user_id, e.created_at, e.updated_at`
	joinClause := ""
	if q.RequesterID != nil {
		args = append(args, *q.RequesterID)
		selectCols += `, r.reminder_time AS reminder_time, r.id AS reminder_id`
		joinClause = fmt.Sprintf(` LEFT JOIN reminders r ON r.event_id = e.id AND r.user_id = $%d`, len(args))
	} else {
		selectCols += `, NULL::timestamptz AS reminder_time, NULL::uuid AS reminder_id`
	}

	col, ok := sortColumns[q.SortField]
	if !ok {
		col = sortColumns["date"]
	}
	order := "ASC"
	if strings.EqualFold(q.SortOrder, "desc") {
		order = "DESC"
	}

	offset := (q.Page - 1) * q.PageSize
	args = append(args, q.PageSize, offset)
	query := fmt.Sprintf(`%s FROM events e%s %s ORDER BY %s %s, e.id LIMIT $%d OFFSET $%d`,
		selectCols, joinClause, where, col, order, len(args)-1, len(args))

	var rows []entity.EventWithReminder
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		logger.Error("EventRepository:List:Select:Error:", err)
		return nil, 0, err
	}
	return rows, total, nil
}

func buildWhere(q ListQuery) (string, []any) {
	var conds []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.RequesterID != nil {
		conds = append(conds, fmt.Sprintf("(e.user_id = %s OR e.status = 'PUBLISHED')", arg(*q.RequesterID)))
	} else {
		conds = append(conds, "e.status = 'PUBLISHED'")
	}

	if q.Search != "" {
		p := arg("%" + q.Search + "%")
		conds = append(conds, fmt.Sprintf("(e.title ILIKE %s OR e.location ILIKE %s)", p, p))
	}
	if q.Status != "" {
		conds = append(conds, fmt.Sprintf("e.status = %s", arg(q.Status)))
	}
	if q.StartDate != nil {
		conds = append(conds, fmt.Sprintf("e.date >= %s", arg(*q.StartDate)))
	}
	if q.EndDate != nil {
		conds = append(conds, fmt.Sprintf("e.date <= %s", arg(*q.EndDate)))
	}

	if q.HasReminder == "yes" || q.HasReminder == "no" {
		sub := "SELECT 1 FROM reminders rf WHERE rf.event_id = e.id"
		if q.ReminderScope == ReminderScopeRequester && q.RequesterID != nil {
			sub += fmt.Sprintf(" AND rf.user_id = %s", arg(*q.RequesterID))
		}
		if q.HasReminder == "yes" {
			conds = append(conds, fmt.Sprintf("EXISTS (%s)", sub))
		} else {
			conds = append(conds, fmt.Sprintf("NOT EXISTS (%s)", sub))
		}
	}

	return "WHERE " + strings.Join(conds, " AND "), args
}

func (r *EventRepository) CountPublished(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM events WHERE status = 'PUBLISHED'`)
	if err != nil {
		logger.Error("EventRepository:CountPublished:Error:", err)
		return 0, err
	}
	return count, nil
}

func (r *EventRepository) CountDraftsForUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM events WHERE user_id = $1 AND status = 'DRAFT'`, userID)
	if err != nil {
		logger.Error("EventRepository:CountDraftsForUser:Error:", err)
		return 0, err
	}
	return count, nil
}

// GetUserReminder returns the requester's reminder for one event, used to
// annotate the detail view.
func (r *EventRepository) GetUserReminder(ctx context.Context, eventID, userID uuid.UUID) (*time.Time, *uuid.UUID, error) {
	var row struct {
		ReminderTime time.Time `db:"reminder_time"`
		ID           uuid.UUID `db:"id"`
	}
	err := r.db.GetContext(ctx, &row,
		`SELECT id, reminder_time FROM reminders WHERE event_id = $1 AND user_id = $2`,
		eventID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, nil
		}
		logger.Error("EventRepository:GetUserReminder:Error:", err)
		return nil, nil, err
	}
	return &row.ReminderTime, &row.ID, nil
}
