// Package channel delivers ordered status events for one transaction until it
// reaches a terminal state. It combines a live EventSource with authoritative
// fetches from the backend and degrades to polling when no transport is available.
package channel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/piresc/payon/internal/pkg/lifecycle"
	"github.com/piresc/payon/internal/pkg/logger"
	"github.com/piresc/payon/internal/pkg/models"
	"github.com/piresc/payon/internal/pkg/observability"
	"github.com/piresc/payon/internal/pkg/retry"
	"github.com/piresc/payon/services/tracker"
)

// Config tunes reconnection and degraded polling
type Config struct {
	PollInterval      time.Duration
	MaxWait           time.Duration
	ReconnectAttempts int
	ReconnectDelay    time.Duration
	ResyncAttempts    int
	EventBuffer       int
}

// ConfigFrom converts the tracker section of the application config
func ConfigFrom(cfg models.TrackerConfig) Config {
	return Config{
		PollInterval:      cfg.PollInterval,
		MaxWait:           cfg.MaxWait,
		ReconnectAttempts: cfg.ReconnectAttempts,
		ReconnectDelay:    cfg.ReconnectDelay,
		ResyncAttempts:    cfg.ResyncAttempts,
		EventBuffer:       cfg.EventBuffer,
	}
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = 3 * time.Second
	}
	if c.MaxWait <= 0 {
		c.MaxWait = 2 * time.Minute
	}
	if c.ReconnectAttempts <= 0 {
		c.ReconnectAttempts = 3
	}
	if c.ReconnectDelay <= 0 {
		c.ReconnectDelay = 500 * time.Millisecond
	}
	if c.ResyncAttempts < 0 {
		c.ResyncAttempts = 0
	}
	if c.EventBuffer <= 0 {
		c.EventBuffer = 16
	}
	return c
}

// Channel opens subscriptions. It is safe for concurrent use.
type Channel struct {
	backend tracker.BackendGW
	source  tracker.EventSource
	cfg     Config
	tracer  observability.Tracer
	logger  *logger.ZapLogger
	now     func() time.Time
}

// New creates a channel. source may be nil, in which case every subscription polls.
func New(backend tracker.BackendGW, source tracker.EventSource, cfg Config, tracer observability.Tracer, l *logger.ZapLogger) *Channel {
	if tracer == nil {
		tracer = observability.NewNoOpTracer()
	}
	if l == nil {
		l = logger.GetGlobalLogger()
	}
	return &Channel{
		backend: backend,
		source:  source,
		cfg:     cfg.withDefaults(),
		tracer:  tracer,
		logger:  l,
		now:     time.Now,
	}
}

// Subscription is one running delivery task for a transaction
type Subscription struct {
	TransactionID string

	events chan models.StatusEvent
	cancel context.CancelFunc
	done   chan struct{}

	mu  sync.Mutex
	err error
}

// Events yields status events in delivery order. It is closed when the
// subscription completes.
func (s *Subscription) Events() <-chan models.StatusEvent {
	return s.events
}

// Done is closed once the subscription has completed and released its transport
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Cancel stops the subscription. It is safe to call more than once.
func (s *Subscription) Cancel() {
	s.cancel()
}

// Err reports why the subscription ended: nil after a terminal state or a
// cancellation, models.ErrStatusUnknown after polling gave up, or the error of
// the initial fetch.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Subscription) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// Subscribe starts delivering events for transactionID without blocking. The
// subscription ends at the first terminal status, on Cancel, or when ctx is done.
func (c *Channel) Subscribe(ctx context.Context, transactionID string) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		TransactionID: transactionID,
		events:        make(chan models.StatusEvent, c.cfg.EventBuffer),
		cancel:        cancel,
		done:          make(chan struct{}),
	}
	go c.run(ctx, sub)
	return sub
}

// session is the per subscription state owned by the run goroutine
type session struct {
	sub       *Subscription
	cursor    models.TransactionStatus
	announced bool
	log       *logger.ZapLogger
}

func (c *Channel) run(ctx context.Context, sub *Subscription) {
	defer close(sub.done)
	defer close(sub.events)
	defer sub.cancel()

	ctx, txn := c.tracer.StartTransaction(ctx, "Tracker/session")
	defer txn.End()
	txn.AddAttribute("transaction_id", sub.TransactionID)

	s := &session{
		sub:    sub,
		cursor: models.TransactionStatusPending,
		log:    logger.FromZap(c.logger.WithTransaction(sub.TransactionID)),
	}

	err := c.track(ctx, s)
	if err != nil && ctx.Err() == nil {
		txn.NoticeError(err)
		sub.setErr(err)
		s.log.Warn("Status subscription ended with error", logger.Err(err))
		return
	}
	s.log.Debug("Status subscription completed", logger.Status("status", s.cursor))
}

// track runs the initial load, the live phase with reconnects and, when the
// transport cannot be established, the polling phase.
func (c *Channel) track(ctx context.Context, s *session) error {
	if err := c.resync(ctx, s); err != nil {
		if errors.Is(err, models.ErrTransactionNotFound) || errors.Is(err, models.ErrUnauthenticated) {
			return err
		}
		s.log.Warn("Initial status fetch failed, relying on live channel", logger.Err(err))
	}
	if lifecycle.IsTerminal(s.cursor) {
		return nil
	}
	if c.source == nil {
		return c.poll(ctx, s)
	}

	failures := 0
	for {
		if ctx.Err() != nil {
			return nil
		}

		stream, err := c.source.Open(ctx, s.sub.TransactionID)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			failures++
			s.log.Warn("Failed to open status stream",
				logger.String("transport", c.source.Name()),
				logger.Int("attempt", failures),
				logger.Err(err))
			if failures >= c.cfg.ReconnectAttempts {
				return c.poll(ctx, s)
			}
			if !c.sleep(ctx, c.backoff(failures)) {
				return nil
			}
			continue
		}

		delivered, terminal := c.consume(ctx, s, stream)
		dropErr := stream.Err()
		_ = stream.Close()
		if terminal || ctx.Err() != nil {
			return nil
		}

		// A stream that drops before delivering anything counts as a failed attempt
		if delivered {
			failures = 0
		} else {
			failures++
		}
		s.log.Warn("Status stream dropped, resynchronizing",
			logger.String("transport", c.source.Name()),
			logger.Status("last_status", s.cursor),
			logger.Err(dropErr))

		endSegment := c.tracer.StartSegment(ctx, observability.SegmentReconnect)
		err = c.resync(ctx, s)
		endSegment()
		if err != nil && ctx.Err() == nil {
			s.log.Warn("Resync after drop failed", logger.Err(err))
		}
		if lifecycle.IsTerminal(s.cursor) {
			return nil
		}
		if failures >= c.cfg.ReconnectAttempts {
			return c.poll(ctx, s)
		}
		if failures > 0 && !c.sleep(ctx, c.backoff(failures)) {
			return nil
		}
	}
}

// consume forwards live events until the stream drops, ctx ends or a terminal
// status is delivered.
func (c *Channel) consume(ctx context.Context, s *session, stream tracker.EventStream) (delivered, terminal bool) {
	events := stream.Events()
	for {
		select {
		case <-ctx.Done():
			return delivered, false
		case ev, ok := <-events:
			if !ok {
				return delivered, false
			}
			if ev.TransactionID != "" && ev.TransactionID != s.sub.TransactionID {
				continue
			}
			delivered = true
			if c.onPush(ctx, s, ev) {
				return true, true
			}
		}
	}
}

// onPush applies one live event to the cursor and reports whether it reached a terminal state
func (c *Channel) onPush(ctx context.Context, s *session, ev models.StatusEvent) bool {
	ev.TransactionID = s.sub.TransactionID
	ev.Origin = models.OriginPush
	if ev.NewStatus == "" && ev.Decision != "" {
		status, ok := lifecycle.FromDecision(ev.Decision)
		if !ok {
			s.log.Warn("Dropping event with unknown decision", logger.String("decision", ev.Decision))
			return false
		}
		ev.NewStatus = status
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = c.now()
	}

	if ev.NewStatus == s.cursor {
		s.log.Debug("Dropping duplicate status event", logger.String("event_id", ev.EventID))
		return false
	}

	next, err := lifecycle.Apply(s.cursor, ev.NewStatus)
	switch {
	case err == nil:
		s.cursor = next
		c.emit(ctx, s, ev)
	case lifecycle.Reachable(s.cursor, ev.NewStatus):
		// Intermediate events were missed; ask the backend instead of trusting the jump
		s.log.Info("Gap in status events, resynchronizing",
			logger.Status("from", s.cursor),
			logger.Status("to", ev.NewStatus))
		endSegment := c.tracer.StartSegment(ctx, observability.SegmentResync)
		if err := c.resync(ctx, s); err != nil && ctx.Err() == nil {
			s.log.Warn("Resync after gap failed, event discarded", logger.Err(err))
		}
		endSegment()
	default:
		// Illegal from the cursor: forwarded so the projection reports it
		c.emit(ctx, s, ev)
	}
	return lifecycle.IsTerminal(s.cursor)
}

// resync fetches the authoritative status with retries and forwards it when it is fresher
func (c *Channel) resync(ctx context.Context, s *session) error {
	retrier := retry.New(retry.Config{
		MaxRetries: c.cfg.ResyncAttempts,
		BaseDelay:  c.cfg.ReconnectDelay,
		MaxDelay:   c.cfg.PollInterval,
		Multiplier: 2,
		Jitter:     true,
		RetryableFunc: func(err error) bool {
			return !errors.Is(err, models.ErrTransactionNotFound) && !errors.Is(err, models.ErrUnauthenticated)
		},
	}, c.logger)

	var resp *models.StatusResponse
	err := retrier.Execute(ctx, func(ctx context.Context) error {
		var err error
		resp, err = c.backend.GetStatus(ctx, s.sub.TransactionID)
		return err
	})
	if err != nil {
		return err
	}
	c.reconcile(ctx, s, resp, models.OriginResync)
	return nil
}

// reconcile forwards an authoritative status when it moves the cursor forward.
// The first status of a session is forwarded even when unchanged so that the
// consumer always learns where the transaction stands.
func (c *Channel) reconcile(ctx context.Context, s *session, resp *models.StatusResponse, origin models.EventOrigin) {
	ev := models.StatusEvent{
		TransactionID: s.sub.TransactionID,
		NewStatus:     resp.Status,
		Timestamp:     resp.UpdatedAt,
		Origin:        origin,
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = c.now()
	}

	next, err := lifecycle.Reconcile(s.cursor, resp.Status)
	switch {
	case err == nil && (next != s.cursor || !s.announced):
		s.cursor = next
		c.emit(ctx, s, ev)
	case errors.Is(err, models.ErrStaleStatus):
		s.log.Debug("Discarding stale authoritative status",
			logger.Status("current", s.cursor),
			logger.Status("fetched", resp.Status))
	case err != nil:
		c.emit(ctx, s, ev)
	}
}

// poll replaces the live transport. It gives up with ErrStatusUnknown once
// MaxWait has elapsed without a terminal status.
func (c *Channel) poll(ctx context.Context, s *session) error {
	s.log.Warn("Live status channel unavailable, polling",
		logger.Duration("interval", c.cfg.PollInterval),
		logger.Duration("max_wait", c.cfg.MaxWait))

	deadline := c.now().Add(c.cfg.MaxWait)
	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	for {
		endSegment := c.tracer.StartSegment(ctx, observability.SegmentPoll)
		resp, err := c.backend.GetStatus(ctx, s.sub.TransactionID)
		endSegment()
		switch {
		case err == nil:
			c.reconcile(ctx, s, resp, models.OriginPoll)
			if lifecycle.IsTerminal(s.cursor) {
				return nil
			}
		case errors.Is(err, models.ErrTransactionNotFound), errors.Is(err, models.ErrUnauthenticated):
			return err
		case ctx.Err() == nil:
			s.log.Debug("Status poll failed", logger.Err(err))
		}

		if !c.now().Before(deadline) {
			return fmt.Errorf("%w: %w after %s", models.ErrChannelFailure, models.ErrStatusUnknown, c.cfg.MaxWait)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// emit hands an event to the consumer, giving up if the subscription is cancelled
func (c *Channel) emit(ctx context.Context, s *session, ev models.StatusEvent) {
	select {
	case s.sub.events <- ev:
		s.announced = true
	case <-ctx.Done():
	}
}

func (c *Channel) backoff(attempt int) time.Duration {
	d := c.cfg.ReconnectDelay << (attempt - 1)
	if d <= 0 || d > c.cfg.PollInterval*4 {
		d = c.cfg.PollInterval * 4
	}
	return d
}

func (c *Channel) sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
