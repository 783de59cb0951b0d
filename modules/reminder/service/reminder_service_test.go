package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"event-dashboard-api/core/cache"
	"event-dashboard-api/core/constants"
	coreentity "event-dashboard-api/core/entity"
	"event-dashboard-api/core/errors"
	evententity "event-dashboard-api/modules/event/entity"
	eventrepo "event-dashboard-api/modules/event/repository"
	"event-dashboard-api/modules/reminder/dto"
	"event-dashboard-api/modules/reminder/entity"
	"event-dashboard-api/modules/reminder/repository"

	"github.com/google/uuid"
)

// ===================== Fakes =====================

type fakeEventRepo struct {
	events map[uuid.UUID]*evententity.Event
}

func newFakeEventRepo(events ...*evententity.Event) *fakeEventRepo {
	r := &fakeEventRepo{events: make(map[uuid.UUID]*evententity.Event)}
	for _, e := range events {
		r.events[e.ID] = e
	}
	return r
}

func (r *fakeEventRepo) Create(_ context.Context, e *evententity.Event) error {
	r.events[e.ID] = e
	return nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id uuid.UUID) (*evententity.Event, error) {
	return r.events[id], nil
}

func (r *fakeEventRepo) GetBySlug(context.Context, string) (*evententity.Event, error) {
	return nil, nil
}

func (r *fakeEventRepo) Update(_ context.Context, e *evententity.Event) error {
	r.events[e.ID] = e
	return nil
}

func (r *fakeEventRepo) DeleteCascade(_ context.Context, id uuid.UUID) error {
	delete(r.events, id)
	return nil
}

func (r *fakeEventRepo) List(context.Context, eventrepo.ListQuery) ([]evententity.EventWithReminder, int, error) {
	return nil, 0, nil
}

func (r *fakeEventRepo) CountPublished(context.Context) (int, error) { return 0, nil }

func (r *fakeEventRepo) CountDraftsForUser(context.Context, uuid.UUID) (int, error) { return 0, nil }

func (r *fakeEventRepo) GetUserReminder(context.Context, uuid.UUID, uuid.UUID) (*time.Time, *uuid.UUID, error) {
	return nil, nil, nil
}

type fakeReminderRepo struct {
	rows map[uuid.UUID]*entity.Reminder

	// forceDuplicate makes Create fail with ErrDuplicate even when the
	// lookup index is empty, simulating a concurrent insert winning the
	// race between the service's pre-check and the constraint.
	forceDuplicate bool
}

func newFakeReminderRepo() *fakeReminderRepo {
	return &fakeReminderRepo{rows: make(map[uuid.UUID]*entity.Reminder)}
}

func (r *fakeReminderRepo) Create(_ context.Context, reminder *entity.Reminder) error {
	if r.forceDuplicate {
		return repository.ErrDuplicate
	}
	for _, row := range r.rows {
		if row.EventID == reminder.EventID && row.UserID == reminder.UserID {
			return repository.ErrDuplicate
		}
	}
	reminder.ID = uuid.New()
	reminder.CreatedAt = time.Now()
	reminder.UpdatedAt = reminder.CreatedAt
	cp := *reminder
	r.rows[reminder.ID] = &cp
	return nil
}

func (r *fakeReminderRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.ReminderWithEvent, error) {
	row, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return &entity.ReminderWithEvent{Reminder: *row}, nil
}

func (r *fakeReminderRepo) GetByEventAndUser(_ context.Context, eventID, userID uuid.UUID) (*entity.Reminder, error) {
	for _, row := range r.rows {
		if row.EventID == eventID && row.UserID == userID {
			cp := *row
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeReminderRepo) ListForUser(_ context.Context, userID uuid.UUID) ([]entity.ReminderWithEvent, error) {
	var out []entity.ReminderWithEvent
	for _, row := range r.rows {
		if row.UserID == userID {
			out = append(out, entity.ReminderWithEvent{Reminder: *row})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReminderTime.Before(out[j].ReminderTime) })
	return out, nil
}

func (r *fakeReminderRepo) Update(_ context.Context, id, eventID uuid.UUID, reminderTime time.Time) error {
	row := r.rows[id]
	row.EventID = eventID
	row.ReminderTime = reminderTime
	row.Seen = false
	row.UpdatedAt = time.Now()
	return nil
}

func (r *fakeReminderRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.rows, id)
	return nil
}

func (r *fakeReminderRepo) DueUnseen(_ context.Context, userID uuid.UUID, now time.Time) ([]entity.ReminderWithEvent, error) {
	var out []entity.ReminderWithEvent
	for _, row := range r.rows {
		if row.UserID == userID && !row.Seen && !row.ReminderTime.After(now) {
			out = append(out, entity.ReminderWithEvent{Reminder: *row})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReminderTime.Before(out[j].ReminderTime) })
	return out, nil
}

func (r *fakeReminderRepo) MarkSeen(_ context.Context, userID uuid.UUID, ids []uuid.UUID, now time.Time) error {
	wanted := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	for _, row := range r.rows {
		if row.UserID != userID || row.Seen || row.ReminderTime.After(now) {
			continue
		}
		if len(ids) > 0 && !wanted[row.ID] {
			continue
		}
		row.Seen = true
	}
	return nil
}

func (r *fakeReminderRepo) PurgeStaleSeen(context.Context, time.Time) (int64, error) {
	return 0, nil
}

// ===================== Helpers =====================

func testEvent(owner uuid.UUID, date time.Time) *evententity.Event {
	return &evententity.Event{
		Title:      "Team Offsite",
		Date:       date,
		Location:   "Berlin",
		Status:     evententity.EventStatusPublished,
		Slug:       "team-offsite-x1y2z3a",
		UserID:     owner,
		BaseEntity: coreentity.BaseEntity{ID: uuid.New()},
	}
}

func newTestService(events ...*evententity.Event) (*ReminderService, *fakeReminderRepo, *cache.MemoryCache) {
	repo := newFakeReminderRepo()
	c := cache.NewMemoryCache(constants.ListingCacheMaxKeys)
	svc := NewReminderService(repo, newFakeEventRepo(events...), c)
	return svc, repo, c
}

// ===================== Tests =====================

func TestReminderServiceCreate(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	event := testEvent(uuid.New(), time.Now().Add(48*time.Hour))
	svc, repo, c := newTestService(event)

	// Seed a listing cache entry that Create must invalidate.
	key := constants.ListingCacheKeyPrefix + "stale"
	if err := c.Set(ctx, key, []byte("{}"), constants.ListingCacheTTL); err != nil {
		t.Fatal(err)
	}

	resp, appErr := svc.Create(ctx, userID, &dto.CreateReminderRequest{
		EventID:      event.ID.String(),
		ReminderTime: event.Date.Add(-2 * time.Hour).Format(time.RFC3339),
	})
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if resp.EventID != event.ID.String() || resp.UserID != userID.String() {
		t.Errorf("response mismatch: %+v", resp)
	}
	if resp.Seen {
		t.Error("new reminder must start unseen")
	}
	if resp.EventTitle != event.Title {
		t.Errorf("event title = %q, want %q", resp.EventTitle, event.Title)
	}
	if len(repo.rows) != 1 {
		t.Fatalf("stored rows = %d, want 1", len(repo.rows))
	}

	if _, ok, _ := c.Get(ctx, key); ok {
		t.Error("listing cache entry must be invalidated after create")
	}
}

func TestReminderServiceCreateEventNotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, appErr := svc.Create(context.Background(), uuid.New(), &dto.CreateReminderRequest{
		EventID:      uuid.New().String(),
		ReminderTime: time.Now().Add(time.Hour).Format(time.RFC3339),
	})
	if appErr == nil || appErr.Code != errors.ErrEventNotFound {
		t.Fatalf("error = %v, want %s", appErr, errors.ErrEventNotFound)
	}
}

func TestReminderServiceCreateOutOfWindow(t *testing.T) {
	event := testEvent(uuid.New(), time.Now().Add(48*time.Hour))
	svc, _, _ := newTestService(event)

	_, appErr := svc.Create(context.Background(), uuid.New(), &dto.CreateReminderRequest{
		EventID:      event.ID.String(),
		ReminderTime: event.Date.Add(-10 * time.Minute).Format(time.RFC3339),
	})
	if appErr == nil || appErr.Code != errors.ErrOutOfWindow {
		t.Fatalf("error = %v, want %s", appErr, errors.ErrOutOfWindow)
	}
}

func TestReminderServiceCreateDuplicate(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	event := testEvent(uuid.New(), time.Now().Add(48*time.Hour))
	req := &dto.CreateReminderRequest{
		EventID:      event.ID.String(),
		ReminderTime: event.Date.Add(-time.Hour).Format(time.RFC3339),
	}

	t.Run("pre-check", func(t *testing.T) {
		svc, _, _ := newTestService(event)
		if _, appErr := svc.Create(ctx, userID, req); appErr != nil {
			t.Fatalf("first create failed: %v", appErr)
		}
		_, appErr := svc.Create(ctx, userID, req)
		if appErr == nil || appErr.Code != errors.ErrDuplicateReminder {
			t.Fatalf("error = %v, want %s", appErr, errors.ErrDuplicateReminder)
		}
	})

	t.Run("constraint race", func(t *testing.T) {
		svc, repo, _ := newTestService(event)
		repo.forceDuplicate = true
		_, appErr := svc.Create(ctx, userID, req)
		if appErr == nil || appErr.Code != errors.ErrDuplicateReminder {
			t.Fatalf("error = %v, want %s", appErr, errors.ErrDuplicateReminder)
		}
	})
}

func TestReminderServiceUpdate(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	event := testEvent(uuid.New(), time.Now().Add(72*time.Hour))
	svc, repo, _ := newTestService(event)

	created, appErr := svc.Create(ctx, userID, &dto.CreateReminderRequest{
		EventID:      event.ID.String(),
		ReminderTime: event.Date.Add(-time.Hour).Format(time.RFC3339),
	})
	if appErr != nil {
		t.Fatal(appErr)
	}
	reminderID := uuid.MustParse(created.ID)

	// Acknowledged reminders come back unseen after an edit.
	repo.rows[reminderID].Seen = true

	newTime := event.Date.Add(-24 * time.Hour).Truncate(time.Second)
	resp, appErr := svc.Update(ctx, reminderID, userID, &dto.UpdateReminderRequest{
		EventID:      event.ID.String(),
		ReminderTime: newTime.Format(time.RFC3339),
	})
	if appErr != nil {
		t.Fatalf("update failed: %v", appErr)
	}
	if resp.Seen {
		t.Error("updated reminder must be re-armed")
	}
	if repo.rows[reminderID].Seen {
		t.Error("stored reminder must be re-armed")
	}
	if !repo.rows[reminderID].ReminderTime.Equal(newTime) {
		t.Errorf("stored time = %v, want %v", repo.rows[reminderID].ReminderTime, newTime)
	}
}

func TestReminderServiceUpdateForbidden(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	event := testEvent(uuid.New(), time.Now().Add(72*time.Hour))
	svc, _, _ := newTestService(event)

	created, appErr := svc.Create(ctx, owner, &dto.CreateReminderRequest{
		EventID:      event.ID.String(),
		ReminderTime: event.Date.Add(-time.Hour).Format(time.RFC3339),
	})
	if appErr != nil {
		t.Fatal(appErr)
	}

	_, appErr = svc.Update(ctx, uuid.MustParse(created.ID), uuid.New(), &dto.UpdateReminderRequest{
		EventID:      event.ID.String(),
		ReminderTime: event.Date.Add(-2 * time.Hour).Format(time.RFC3339),
	})
	if appErr == nil || appErr.Code != errors.ErrForbidden {
		t.Fatalf("error = %v, want %s", appErr, errors.ErrForbidden)
	}
}

func TestReminderServiceUpdateNotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, appErr := svc.Update(context.Background(), uuid.New(), uuid.New(), &dto.UpdateReminderRequest{
		EventID:      uuid.New().String(),
		ReminderTime: time.Now().Format(time.RFC3339),
	})
	if appErr == nil || appErr.Code != errors.ErrReminderNotFound {
		t.Fatalf("error = %v, want %s", appErr, errors.ErrReminderNotFound)
	}
}

func TestReminderServiceDelete(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	event := testEvent(uuid.New(), time.Now().Add(72*time.Hour))
	svc, repo, _ := newTestService(event)

	created, appErr := svc.Create(ctx, owner, &dto.CreateReminderRequest{
		EventID:      event.ID.String(),
		ReminderTime: event.Date.Add(-time.Hour).Format(time.RFC3339),
	})
	if appErr != nil {
		t.Fatal(appErr)
	}
	reminderID := uuid.MustParse(created.ID)

	if appErr := svc.Delete(ctx, reminderID, uuid.New()); appErr == nil || appErr.Code != errors.ErrForbidden {
		t.Fatalf("error = %v, want %s", appErr, errors.ErrForbidden)
	}
	if appErr := svc.Delete(ctx, reminderID, owner); appErr != nil {
		t.Fatalf("delete failed: %v", appErr)
	}
	if len(repo.rows) != 0 {
		t.Error("reminder must be removed")
	}
	if appErr := svc.Delete(ctx, reminderID, owner); appErr == nil || appErr.Code != errors.ErrReminderNotFound {
		t.Fatalf("error = %v, want %s", appErr, errors.ErrReminderNotFound)
	}
}

func TestReminderServiceDueUnseenAndMarkSeen(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	now := time.Now()
	svc, repo, _ := newTestService()

	seed := func(offset time.Duration, seen bool) uuid.UUID {
		id := uuid.New()
		repo.rows[id] = &entity.Reminder{
			EventID:      uuid.New(),
			UserID:       userID,
			ReminderTime: now.Add(offset),
			Seen:         seen,
			BaseEntity:   coreentity.BaseEntity{ID: id},
		}
		return id
	}

	older := seed(-2*time.Hour, false)
	newer := seed(-time.Hour, false)
	seed(-30*time.Minute, true) // already acknowledged
	seed(time.Hour, false)      // not due yet

	due, appErr := svc.DueUnseen(ctx, userID, now)
	if appErr != nil {
		t.Fatal(appErr)
	}
	if len(due) != 2 {
		t.Fatalf("due = %d, want 2", len(due))
	}
	if due[0].ID != older.String() || due[1].ID != newer.String() {
		t.Errorf("due reminders not ordered oldest first: %v, %v", due[0].ID, due[1].ID)
	}

	// Targeted ack flips only the named reminder.
	if appErr := svc.MarkSeen(ctx, userID, []uuid.UUID{older}, now); appErr != nil {
		t.Fatal(appErr)
	}
	due, _ = svc.DueUnseen(ctx, userID, now)
	if len(due) != 1 || due[0].ID != newer.String() {
		t.Fatalf("after targeted ack, due = %+v", due)
	}

	// Sweep acks everything still due.
	if appErr := svc.MarkSeen(ctx, userID, nil, now); appErr != nil {
		t.Fatal(appErr)
	}
	due, _ = svc.DueUnseen(ctx, userID, now)
	if len(due) != 0 {
		t.Fatalf("after sweep, due = %+v", due)
	}
}
