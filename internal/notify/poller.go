package notify

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/rfmelo/barbearia-client/internal/api"
	"github.com/rfmelo/barbearia-client/internal/metrics"
	"github.com/rfmelo/barbearia-client/pkg/observability"
)

const (
	defaultInterval      = 10 * time.Second
	defaultSoundCooldown = 2 * time.Second
)

// Checker is the slice of the API the poller needs. *api.NotificationsService
// satisfies it.
type Checker interface {
	Check(ctx context.Context, since time.Time) (*api.CheckResult, error)
	MarkRead(ctx context.Context, id int64) error
}

// Presenter renders poller output. Implementations decide what a "toast"
// looks like; the terminal one prints a styled line and rings the bell.
type Presenter interface {
	ShowNotification(n api.Notification, d Display)
	UpdateBadge(unread int)
	PlaySound()
}

// Poller owns one polling loop. Construct with New, drive with Start/Stop.
// All state lives on the instance so tests can run independent pollers.
type Poller struct {
	checker   Checker
	presenter Presenter
	log       *observability.Logger

	interval      time.Duration
	soundCooldown time.Duration
	now           func() time.Time

	mu        sync.Mutex
	polling   bool
	enabled   bool
	lastCheck time.Time
	unread    int
	shown     map[string]struct{}
	lastSound time.Time
	stop      chan struct{}
}

// Option configures a Poller.
type Option func(*Poller)

// WithInterval overrides the 10s poll interval.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) { p.interval = d }
}

// WithSoundCooldown overrides the minimum spacing between audible cues.
func WithSoundCooldown(d time.Duration) Option {
	return func(p *Poller) { p.soundCooldown = d }
}

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(p *Poller) { p.now = now }
}

// WithLogger sets the poller logger.
func WithLogger(log *observability.Logger) Option {
	return func(p *Poller) { p.log = log }
}

// New creates a stopped poller.
func New(checker Checker, presenter Presenter, opts ...Option) *Poller {
	p := &Poller{
		checker:       checker,
		presenter:     presenter,
		log:           observability.NewLogger("notify"),
		interval:      defaultInterval,
		soundCooldown: defaultSoundCooldown,
		now:           time.Now,
		enabled:       true,
		shown:         make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start begins polling: one immediate check, then one per interval. Calling
// Start while polling is a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.polling {
		p.mu.Unlock()
		return
	}
	p.polling = true
	p.lastCheck = p.now()
	p.stop = make(chan struct{})
	stop := p.stop
	p.mu.Unlock()

	p.log.Info("notification polling started", "interval", p.interval.String())

	go p.Check(ctx)
	go p.loop(ctx, stop)
}

func (p *Poller) loop(ctx context.Context, stop chan struct{}) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			p.Stop()
			return
		case <-ticker.C:
			// Ticks fire checks without waiting for the previous one;
			// overlapping responses are safe because state only moves
			// forward (count replace, set-based dedup).
			if p.Enabled() {
				go p.Check(ctx)
			}
		}
	}
}

// Stop cancels future ticks. In-flight requests are left to resolve; their
// results still apply. Idempotent.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.polling {
		return
	}
	p.polling = false
	close(p.stop)
	p.log.Info("notification polling stopped")
}

// SetEnabled gates whether timer ticks issue requests without tearing down
// the schedule.
func (p *Poller) SetEnabled(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = enabled
}

// Enabled reports the tick gate.
func (p *Poller) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// Polling reports whether the schedule is active.
func (p *Poller) Polling() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.polling
}

// Unread returns the currently displayed unread count.
func (p *Poller) Unread() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.unread
}

// Check performs a single poll. Failures leave lastCheck untouched so the
// next tick re-requests the same window; a 401 stops polling entirely.
func (p *Poller) Check(ctx context.Context) {
	p.mu.Lock()
	since := p.lastCheck
	p.mu.Unlock()

	res, err := p.checker.Check(ctx, since)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			metrics.PollChecks.WithLabelValues("unauthorized").Inc()
			p.log.Warn("not authenticated, stopping notification polling")
			p.Stop()
			return
		}
		metrics.PollChecks.WithLabelValues("error").Inc()
		p.log.Warn("notification check failed", "error", err)
		return
	}
	metrics.PollChecks.WithLabelValues("ok").Inc()

	p.mu.Lock()
	oldUnread := p.unread
	p.unread = res.UnreadCount
	unread := p.unread

	var fresh []api.Notification
	for _, n := range res.Notifications {
		key := dedupKey(n)
		if _, seen := p.shown[key]; seen {
			continue
		}
		p.shown[key] = struct{}{}
		fresh = append(fresh, n)
	}

	now := p.now()
	playSound := len(fresh) > 0 && oldUnread < res.UnreadCount &&
		now.Sub(p.lastSound) >= p.soundCooldown
	if playSound {
		p.lastSound = now
	}
	p.lastCheck = now
	p.mu.Unlock()

	p.presenter.UpdateBadge(unread)
	for _, n := range fresh {
		metrics.NotificationsShown.Inc()
		p.presenter.ShowNotification(n, DisplayFor(n.Type))
	}
	if playSound {
		metrics.SoundsPlayed.Inc()
		p.presenter.PlaySound()
	}

	if len(fresh) > 0 {
		p.log.Info("new notifications", "count", len(fresh), "unread", unread)
	}
}

// MarkRead acknowledges a notification server-side and optimistically
// decrements the local unread count, floored at zero. Failures are logged
// and not retried.
func (p *Poller) MarkRead(ctx context.Context, id int64) {
	if err := p.checker.MarkRead(ctx, id); err != nil {
		p.log.Warn("mark notification read failed", "id", id, "error", err)
		return
	}

	p.mu.Lock()
	if p.unread > 0 {
		p.unread--
	}
	unread := p.unread
	p.mu.Unlock()

	p.presenter.UpdateBadge(unread)
}

// dedupKey identifies a notification for the session dedup set: the id when
// present, otherwise a title+message composite.
func dedupKey(n api.Notification) string {
	if n.ID != 0 {
		return "id:" + strconv.FormatInt(n.ID, 10)
	}
	return n.Title + "|" + n.Message
}
