// Package projection holds the locally known status of one transaction and
// notifies observers whenever a validated change is applied.
package projection

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/piresc/payon/internal/pkg/lifecycle"
	"github.com/piresc/payon/internal/pkg/models"
)

// ErrForeignEvent is returned for an event addressed to another transaction
var ErrForeignEvent = errors.New("event belongs to another transaction")

// Observer receives the view after every accepted change
type Observer func(models.TransactionView)

// DiagnosticFunc receives every rejected event as a diagnostic
type DiagnosticFunc func(models.Diagnostic)

// Projection is the view side state of a single transaction. Safe for concurrent use.
type Projection struct {
	mu        sync.RWMutex
	id        string
	status    models.TransactionStatus
	unknown   bool
	updatedAt time.Time

	observers map[int]Observer
	nextID    int

	onDiagnostic DiagnosticFunc
	now          func() time.Time
}

// New creates a projection starting at initial, usually PENDING
func New(transactionID string, initial models.TransactionStatus, onDiagnostic DiagnosticFunc) *Projection {
	if onDiagnostic == nil {
		onDiagnostic = func(models.Diagnostic) {}
	}
	return &Projection{
		id:           transactionID,
		status:       initial,
		updatedAt:    time.Now(),
		observers:    make(map[int]Observer),
		onDiagnostic: onDiagnostic,
		now:          time.Now,
	}
}

// OnEvent validates ev against the current status and applies it. Live events
// must be a legal single step; authoritative fetches are reconciled, freshest
// wins. Observers are notified of every accepted event, including a fetch that
// confirms the current status. A rejected event leaves the state untouched, is
// reported as a diagnostic and returned as an error.
func (p *Projection) OnEvent(ev models.StatusEvent) error {
	if ev.TransactionID != "" && ev.TransactionID != p.id {
		return fmt.Errorf("%w: %s", ErrForeignEvent, ev.TransactionID)
	}

	p.mu.Lock()
	current := p.status
	var (
		next models.TransactionStatus
		err  error
	)
	if ev.Origin.IsAuthoritative() {
		next, err = lifecycle.Reconcile(current, ev.NewStatus)
	} else {
		next, err = lifecycle.Apply(current, ev.NewStatus)
	}
	if err != nil {
		p.mu.Unlock()
		p.report(current, ev, err)
		return err
	}

	p.status = next
	p.unknown = false
	if !ev.Timestamp.IsZero() {
		p.updatedAt = ev.Timestamp
	} else {
		p.updatedAt = p.now()
	}
	view := p.viewLocked()
	observers := p.observersLocked()
	p.mu.Unlock()

	for _, fn := range observers {
		fn(view)
	}
	return nil
}

func (p *Projection) report(current models.TransactionStatus, ev models.StatusEvent, err error) {
	kind := models.DiagnosticInvalidTransition
	if errors.Is(err, models.ErrStaleStatus) {
		kind = models.DiagnosticStaleStatus
	}
	p.onDiagnostic(models.Diagnostic{
		ID:            uuid.New().String(),
		TransactionID: p.id,
		Kind:          kind,
		FromStatus:    current,
		ToStatus:      ev.NewStatus,
		Origin:        ev.Origin,
		Detail:        err.Error(),
		ObservedAt:    p.now(),
	})
}

// MarkUnknown flags the status as unknown after the channel gave up.
// Observers are notified once.
func (p *Projection) MarkUnknown() {
	p.mu.Lock()
	if p.unknown || lifecycle.IsTerminal(p.status) {
		p.mu.Unlock()
		return
	}
	p.unknown = true
	p.updatedAt = p.now()
	view := p.viewLocked()
	observers := p.observersLocked()
	p.mu.Unlock()

	for _, fn := range observers {
		fn(view)
	}
}

// Subscribe registers fn for future changes. The returned func unregisters it
// and is safe to call more than once.
func (p *Projection) Subscribe(fn Observer) (unsubscribe func()) {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.observers[id] = fn
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.observers, id)
			p.mu.Unlock()
		})
	}
}

// TransactionID returns the tracked transaction
func (p *Projection) TransactionID() string {
	return p.id
}

// Status returns the latest accepted status
func (p *Projection) Status() models.TransactionStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

// IsTerminal reports whether the transaction reached VALIDATED or REJECTED
func (p *Projection) IsTerminal() bool {
	return lifecycle.IsTerminal(p.Status())
}

// IsAwaitingReview is true only in SUSPECT
func (p *Projection) IsAwaitingReview() bool {
	return lifecycle.IsAwaitingReview(p.Status())
}

// IsUnknown reports whether MarkUnknown was called since the last accepted event
func (p *Projection) IsUnknown() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.unknown
}

// View renders the current state
func (p *Projection) View() models.TransactionView {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.viewLocked()
}

func (p *Projection) viewLocked() models.TransactionView {
	return Render(p.id, p.status, p.unknown, p.updatedAt)
}

// observersLocked returns observers in registration order
func (p *Projection) observersLocked() []Observer {
	ids := make([]int, 0, len(p.observers))
	for id := range p.observers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]Observer, 0, len(ids))
	for _, id := range ids {
		out = append(out, p.observers[id])
	}
	return out
}
