package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/piresc/payon/internal/pkg/constants"
	appctx "github.com/piresc/payon/internal/pkg/context"
	"github.com/piresc/payon/internal/pkg/logger"
	"github.com/piresc/payon/internal/pkg/models"
	"github.com/piresc/payon/services/tracker/channel"
	"github.com/piresc/payon/services/tracker/projection"
)

// ErrTrackerClosed is returned by Track after Close
var ErrTrackerClosed = errors.New("tracker is shutting down")

const (
	msgStatusUnknown       = "Statut indisponible pour le moment. Vérifiez plus tard."
	msgTransactionNotFound = "Transaction introuvable"
	msgTrackingFailed      = "Impossible de suivre cette transaction"
)

type subKey struct {
	clientID      string
	transactionID string
}

// tracking ties one subscription to the projection it feeds
type tracking struct {
	projection  *projection.Projection
	sub         *channel.Subscription
	unsubscribe func()
}

// finished reports whether the subscription already completed or was cancelled
func (t *tracking) finished() bool {
	select {
	case <-t.sub.Done():
		return true
	default:
		return false
	}
}

// Track starts a subscription for (clientID, transactionID) and pushes every
// accepted status to the client. Tracking an already tracked transaction
// re-sends the current view.
func (uc *TrackerUC) Track(ctx context.Context, clientID, transactionID string) error {
	if transactionID == "" {
		return fmt.Errorf("%w: transaction_id is required", ErrInvalidRequest)
	}
	key := subKey{clientID: clientID, transactionID: transactionID}

	uc.mu.Lock()
	if uc.closed {
		uc.mu.Unlock()
		return ErrTrackerClosed
	}
	if existing, ok := uc.subs[key]; ok && !existing.finished() {
		uc.mu.Unlock()
		uc.notifier.NotifyClient(clientID, constants.EventTransactionStatus, existing.projection.View())
		return nil
	}

	p := projection.New(transactionID, models.TransactionStatusPending, uc.recordDiagnostic)
	unsubscribe := p.Subscribe(func(view models.TransactionView) {
		uc.notifier.NotifyClient(clientID, constants.EventTransactionStatus, view)
	})
	t := &tracking{
		projection:  p,
		sub:         uc.channel.Subscribe(appctx.Detach(ctx), transactionID),
		unsubscribe: unsubscribe,
	}
	uc.subs[key] = t
	uc.wg.Add(1)
	uc.mu.Unlock()

	logger.Info("Tracking transaction",
		logger.String("client_id", clientID),
		logger.TransactionID(transactionID))

	go uc.follow(key, t)
	return nil
}

// follow feeds the projection until the subscription completes
func (uc *TrackerUC) follow(key subKey, t *tracking) {
	defer uc.wg.Done()
	defer uc.release(key, t)

	for ev := range t.sub.Events() {
		if err := t.projection.OnEvent(ev); err != nil {
			logger.Debug("Status event rejected",
				logger.TransactionID(key.transactionID),
				logger.Err(err))
		}
	}

	err := t.sub.Err()
	switch {
	case err == nil:
		return
	case errors.Is(err, models.ErrStatusUnknown):
		uc.recordDiagnostic(models.Diagnostic{
			ID:            uuid.New().String(),
			TransactionID: key.transactionID,
			Kind:          models.DiagnosticChannelFailure,
			FromStatus:    t.projection.Status(),
			Origin:        models.OriginPoll,
			Detail:        err.Error(),
			ObservedAt:    timeNow(),
		})
		t.projection.MarkUnknown()
		uc.notifier.NotifyClient(key.clientID, constants.EventTransactionStatusUnknown, models.WSStatusUnknown{
			TransactionID: key.transactionID,
			Message:       msgStatusUnknown,
		})
	case errors.Is(err, models.ErrTransactionNotFound):
		uc.notifyError(key, msgTransactionNotFound)
	default:
		logger.Warn("Transaction tracking failed",
			logger.TransactionID(key.transactionID),
			logger.Err(err))
		uc.notifyError(key, msgTrackingFailed)
	}
}

func (uc *TrackerUC) notifyError(key subKey, message string) {
	uc.notifier.NotifyClient(key.clientID, constants.EventError, models.WSErrorMessage{
		Code:    constants.ErrorTrackingFailed,
		Message: message,
	})
}

// release drops the registry entry if it still belongs to t
func (uc *TrackerUC) release(key subKey, t *tracking) {
	t.unsubscribe()
	t.sub.Cancel()

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if current, ok := uc.subs[key]; ok && current == t {
		delete(uc.subs, key)
	}
}

// Untrack cancels the subscription of clientID for transactionID, if any
func (uc *TrackerUC) Untrack(clientID, transactionID string) {
	key := subKey{clientID: clientID, transactionID: transactionID}
	uc.mu.Lock()
	t, ok := uc.subs[key]
	if ok {
		delete(uc.subs, key)
	}
	uc.mu.Unlock()
	if !ok {
		return
	}
	t.unsubscribe()
	t.sub.Cancel()
}

// UntrackAll cancels every subscription of clientID, on disconnect
func (uc *TrackerUC) UntrackAll(clientID string) {
	uc.mu.Lock()
	var owned []*tracking
	for key, t := range uc.subs {
		if key.clientID == clientID {
			owned = append(owned, t)
			delete(uc.subs, key)
		}
	}
	uc.mu.Unlock()

	for _, t := range owned {
		t.unsubscribe()
		t.sub.Cancel()
	}
}

// Active returns the number of running subscriptions
func (uc *TrackerUC) Active() int {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return len(uc.subs)
}

// Close cancels every subscription and waits for them to finish
func (uc *TrackerUC) Close() {
	uc.mu.Lock()
	uc.closed = true
	all := make([]*tracking, 0, len(uc.subs))
	for _, t := range uc.subs {
		all = append(all, t)
	}
	uc.mu.Unlock()

	for _, t := range all {
		t.unsubscribe()
		t.sub.Cancel()
	}
	uc.wg.Wait()
}
