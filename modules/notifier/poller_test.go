package notifier

import (
	"context"
	"sync"
	"testing"
	"time"

	"event-dashboard-api/core/errors"
	"event-dashboard-api/modules/reminder/dto"

	"github.com/google/uuid"
)

type fakeScanner struct {
	mu       sync.Mutex
	rows     []dto.DueReminderResponse
	scanErr  *errors.AppError
	markErr  *errors.AppError
	markedID []uuid.UUID
	swept    bool
}

func (s *fakeScanner) DueUnseen(_ context.Context, _ uuid.UUID, _ time.Time) ([]dto.DueReminderResponse, *errors.AppError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scanErr != nil {
		return nil, s.scanErr
	}
	out := make([]dto.DueReminderResponse, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

func (s *fakeScanner) MarkSeen(_ context.Context, _ uuid.UUID, ids []uuid.UUID, _ time.Time) *errors.AppError {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.markErr != nil {
		return s.markErr
	}
	if len(ids) == 0 {
		s.swept = true
		s.rows = nil
		return nil
	}
	s.markedID = append(s.markedID, ids...)
	kept := s.rows[:0]
	for _, r := range s.rows {
		remove := false
		for _, id := range ids {
			if r.ID == id.String() {
				remove = true
			}
		}
		if !remove {
			kept = append(kept, r)
		}
	}
	s.rows = kept
	return nil
}

func (s *fakeScanner) setRows(rows ...dto.DueReminderResponse) {
	s.mu.Lock()
	s.rows = rows
	s.mu.Unlock()
}

func dueRow(reminderTime time.Time) dto.DueReminderResponse {
	return dto.DueReminderResponse{
		ID:           uuid.New().String(),
		EventID:      uuid.New().String(),
		EventTitle:   "Standup",
		ReminderTime: reminderTime,
		UserID:       uuid.New().String(),
	}
}

func TestPollerImmediateTickAndStop(t *testing.T) {
	base := time.Now()
	scanner := &fakeScanner{}
	scanner.setRows(dueRow(base.Add(-10 * time.Second)))

	alerts := make(chan Alert, 1)
	p := NewPoller(scanner, uuid.New(), func(a Alert) { alerts <- a },
		WithInterval(time.Hour), // only the immediate tick fires
		WithClock(func() time.Time { return base }),
	)
	p.Start(context.Background())

	select {
	case a := <-alerts:
		if a.EventTitle != "Standup" {
			t.Errorf("alert = %+v", a)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no alert from the immediate tick")
	}

	p.Stop()
	if p.State() != StateStopped {
		t.Errorf("state = %v, want StateStopped", p.State())
	}
	p.Stop() // idempotent
}

func TestPollerStopWithoutStart(t *testing.T) {
	p := NewPoller(&fakeScanner{}, uuid.New(), func(Alert) {})

	done := make(chan struct{})
	go func() {
		p.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop on a never-started poller must not block")
	}
	if p.State() != StateStopped {
		t.Errorf("state = %v, want StateStopped", p.State())
	}
}

func TestPollerFreshnessWindow(t *testing.T) {
	base := time.Now()
	now := base
	scanner := &fakeScanner{}

	fresh := dueRow(base.Add(-10 * time.Second))
	stale := dueRow(base.Add(-5 * time.Minute)) // due long before the window
	scanner.setRows(fresh, stale)

	var alerts []Alert
	p := NewPoller(scanner, uuid.New(), func(a Alert) { alerts = append(alerts, a) },
		WithFreshnessWindow(time.Minute),
		WithClock(func() time.Time { return now }),
	)

	p.tick(context.Background())
	if len(alerts) != 1 || alerts[0].ReminderID.String() != fresh.ID {
		t.Fatalf("alerts = %+v, want only the fresh reminder", alerts)
	}

	// Same window: the reminder stays due but is not surfaced again.
	now = base.Add(20 * time.Second)
	p.tick(context.Background())
	if len(alerts) != 1 {
		t.Fatalf("alerts after repeat tick = %d, want 1", len(alerts))
	}

	// Past the window: still no new alert, the moment has passed.
	now = base.Add(2 * time.Minute)
	p.tick(context.Background())
	if len(alerts) != 1 {
		t.Fatalf("alerts after window expiry = %d, want 1", len(alerts))
	}
}

func TestPollerScanErrorRecovers(t *testing.T) {
	base := time.Now()
	scanner := &fakeScanner{scanErr: errors.NewAppError(errors.ErrPersistence, "db down", nil)}
	scanner.setRows(dueRow(base.Add(-time.Second)))

	var alerts []Alert
	p := NewPoller(scanner, uuid.New(), func(a Alert) { alerts = append(alerts, a) },
		WithClock(func() time.Time { return base }),
	)

	p.tick(context.Background())
	if len(alerts) != 0 {
		t.Fatalf("alerts during outage = %d, want 0", len(alerts))
	}

	scanner.mu.Lock()
	scanner.scanErr = nil
	scanner.mu.Unlock()

	p.tick(context.Background())
	if len(alerts) != 1 {
		t.Fatalf("alerts after recovery = %d, want 1", len(alerts))
	}
}

func TestPollerAckAll(t *testing.T) {
	base := time.Now()
	scanner := &fakeScanner{}
	scanner.setRows(dueRow(base.Add(-time.Second)), dueRow(base.Add(-2*time.Second)))

	var alerts []Alert
	p := NewPoller(scanner, uuid.New(), func(a Alert) { alerts = append(alerts, a) },
		WithClock(func() time.Time { return base }),
	)

	p.tick(context.Background())
	if len(alerts) != 2 {
		t.Fatalf("alerts = %d, want 2", len(alerts))
	}

	if err := p.AckAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !scanner.swept {
		t.Error("AckAll must sweep without ids")
	}

	p.tick(context.Background())
	if len(alerts) != 2 {
		t.Fatalf("alerts after ack = %d, want 2", len(alerts))
	}
}

func TestPollerAckOne(t *testing.T) {
	base := time.Now()
	scanner := &fakeScanner{}
	first := dueRow(base.Add(-time.Second))
	second := dueRow(base.Add(-2 * time.Second))
	scanner.setRows(first, second)

	var alerts []Alert
	p := NewPoller(scanner, uuid.New(), func(a Alert) { alerts = append(alerts, a) },
		WithClock(func() time.Time { return base }),
	)
	p.tick(context.Background())

	firstID := uuid.MustParse(first.ID)
	if err := p.AckOne(context.Background(), firstID); err != nil {
		t.Fatal(err)
	}
	if len(scanner.markedID) != 1 || scanner.markedID[0] != firstID {
		t.Errorf("marked ids = %v, want [%s]", scanner.markedID, firstID)
	}

	// The other reminder stays due; dedup still suppresses re-alerting.
	p.tick(context.Background())
	if len(alerts) != 2 {
		t.Fatalf("alerts = %d, want 2", len(alerts))
	}
}

func TestPollerAckOneFailureKeepsDedup(t *testing.T) {
	base := time.Now()
	scanner := &fakeScanner{}
	row := dueRow(base.Add(-time.Second))
	scanner.setRows(row)

	var alerts []Alert
	p := NewPoller(scanner, uuid.New(), func(a Alert) { alerts = append(alerts, a) },
		WithClock(func() time.Time { return base }),
	)
	p.tick(context.Background())
	if len(alerts) != 1 {
		t.Fatal("expected initial alert")
	}

	scanner.mu.Lock()
	scanner.markErr = errors.NewAppError(errors.ErrPersistence, "db down", nil)
	scanner.mu.Unlock()

	if err := p.AckOne(context.Background(), uuid.MustParse(row.ID)); err == nil {
		t.Fatal("expected mark error")
	}

	// The failed ack leaves the dedup entry; the same window does not
	// re-alert even though the reminder is still unseen.
	p.tick(context.Background())
	if len(alerts) != 1 {
		t.Fatalf("alerts = %d, want 1", len(alerts))
	}
}
