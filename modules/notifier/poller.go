package notifier

import (
	"context"
	"sync"
	"time"

	"event-dashboard-api/core/constants"
	"event-dashboard-api/core/errors"
	"event-dashboard-api/core/logger"
	"event-dashboard-api/modules/reminder/dto"

	"github.com/google/uuid"
)

// Scanner is the slice of the reminder service the poller needs.
type Scanner interface {
	DueUnseen(ctx context.Context, userID uuid.UUID, now time.Time) ([]dto.DueReminderResponse, *errors.AppError)
	MarkSeen(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, now time.Time) *errors.AppError
}

// Alert is one surfaced notification.
type Alert struct {
	ReminderID   uuid.UUID
	EventID      uuid.UUID
	EventTitle   string
	ReminderTime time.Time
}

// State of the poller between ticks.
type State int

const (
	StateIdle State = iota
	StatePolling
	StateStopped
)

// Poller periodically scans a user's due unseen reminders and surfaces
// each at most once per freshness window through the alert callback.
// One poller per session; concurrent pollers for the same user are
// independent, mirroring multiple open tabs.
type Poller struct {
	scanner   Scanner
	userID    uuid.UUID
	interval  time.Duration
	freshness time.Duration
	onAlert   func(Alert)
	now       func() time.Time

	mu      sync.Mutex
	state   State
	alerted map[uuid.UUID]time.Time // reminder id -> reminderTime

	cancel context.CancelFunc
	done   chan struct{}
}

type Option func(*Poller)

func WithInterval(d time.Duration) Option {
	return func(p *Poller) { p.interval = d }
}

func WithFreshnessWindow(d time.Duration) Option {
	return func(p *Poller) { p.freshness = d }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Poller) { p.now = now }
}

func NewPoller(scanner Scanner, userID uuid.UUID, onAlert func(Alert), opts ...Option) *Poller {
	p := &Poller{
		scanner:   scanner,
		userID:    userID,
		interval:  constants.PollInterval,
		freshness: constants.FreshnessWindow,
		onAlert:   onAlert,
		now:       time.Now,
		state:     StateIdle,
		alerted:   make(map[uuid.UUID]time.Time),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start polls once immediately, then on every interval until Stop or
// context cancellation.
func (p *Poller) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)

	go func() {
		defer close(p.done)

		p.tick(ctx)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				p.setState(StateStopped)
				return
			case <-ticker.C:
				p.tick(ctx)
			}
		}
	}()
}

// Stop cancels the timer and waits for the loop to exit. Results of an
// in-flight scan are discarded, not delivered. Idempotent, and a no-op
// on a poller that was never started.
func (p *Poller) Stop() {
	if p.cancel == nil {
		p.setState(StateStopped)
		return
	}
	p.cancel()
	<-p.done
}

func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Poller) tick(ctx context.Context) {
	p.setState(StatePolling)
	defer p.setState(StateIdle)

	now := p.now()
	due, appErr := p.scanner.DueUnseen(ctx, p.userID, now)
	if appErr != nil {
		// Polling retries implicitly on the next tick.
		logger.Warn("Poller:tick:DueUnseen:Error:", appErr)
		return
	}
	if ctx.Err() != nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Drop dedup entries that left the freshness window so the set
	// stays bounded.
	for id, reminderTime := range p.alerted {
		if now.After(reminderTime.Add(p.freshness)) {
			delete(p.alerted, id)
		}
	}

	for _, r := range due {
		id, err := uuid.Parse(r.ID)
		if err != nil {
			continue
		}
		// Only alert within the freshness window, once per window.
		if now.Before(r.ReminderTime) || now.After(r.ReminderTime.Add(p.freshness)) {
			continue
		}
		if _, seen := p.alerted[id]; seen {
			continue
		}
		p.alerted[id] = r.ReminderTime

		eventID, _ := uuid.Parse(r.EventID)
		p.onAlert(Alert{
			ReminderID:   id,
			EventID:      eventID,
			EventTitle:   r.EventTitle,
			ReminderTime: r.ReminderTime,
		})
	}
}

// AckAll acknowledges every currently due reminder (the "open the bell"
// path). On failure the items stay unseen and the next tick surfaces
// them again; there is no explicit retry.
func (p *Poller) AckAll(ctx context.Context) error {
	if appErr := p.scanner.MarkSeen(ctx, p.userID, nil, p.now()); appErr != nil {
		return appErr
	}
	p.clearAlerted(nil)
	return nil
}

// AckOne acknowledges a single reminder (the "click one entry" path).
// The caller navigates regardless of the returned error; the mark is
// best effort.
func (p *Poller) AckOne(ctx context.Context, reminderID uuid.UUID) error {
	err := error(nil)
	if appErr := p.scanner.MarkSeen(ctx, p.userID, []uuid.UUID{reminderID}, p.now()); appErr != nil {
		err = appErr
	} else {
		p.clearAlerted([]uuid.UUID{reminderID})
	}
	return err
}

func (p *Poller) clearAlerted(ids []uuid.UUID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ids == nil {
		p.alerted = make(map[uuid.UUID]time.Time)
		return
	}
	for _, id := range ids {
		delete(p.alerted, id)
	}
}

func (p *Poller) setState(s State) {
	p.mu.Lock()
	if p.state != StateStopped || s == StateStopped {
		p.state = s
	}
	p.mu.Unlock()
}
