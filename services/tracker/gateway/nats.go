package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/piresc/payon/internal/pkg/constants"
	"github.com/piresc/payon/internal/pkg/logger"
	"github.com/piresc/payon/internal/pkg/models"
	natspkg "github.com/piresc/payon/internal/pkg/nats"
	"github.com/piresc/payon/services/tracker"
)

// connCheckInterval is how often an open NATS stream checks its connection
const connCheckInterval = 250 * time.Millisecond

// NATSSource subscribes to per transaction subjects <prefix>.<transaction id>
type NATSSource struct {
	client *natspkg.Client
	prefix string
	buffer int
}

// NewNATSSource creates an event source; an empty prefix uses the default subject
func NewNATSSource(client *natspkg.Client, prefix string, buffer int) *NATSSource {
	if prefix == "" {
		prefix = constants.SubjectTransactionStatus
	}
	return &NATSSource{client: client, prefix: prefix, buffer: buffer}
}

// Name identifies the transport in logs
func (s *NATSSource) Name() string { return "nats" }

// Subject returns the subject carrying events for transactionID
func (s *NATSSource) Subject(transactionID string) string {
	return s.prefix + "." + transactionID
}

// Open subscribes to the transaction subject. A lost connection ends the
// stream so that the caller resynchronizes; NATS core does not replay.
func (s *NATSSource) Open(ctx context.Context, transactionID string) (tracker.EventStream, error) {
	if s.client == nil || !s.client.IsConnected() {
		return nil, fmt.Errorf("%w: nats not connected", models.ErrChannelFailure)
	}

	var sub *nats.Subscription
	st := newStream(s.buffer, func() error {
		if sub == nil {
			return nil
		}
		if err := sub.Unsubscribe(); err != nil && !errors.Is(err, nats.ErrConnectionClosed) && !errors.Is(err, nats.ErrBadSubscription) {
			return err
		}
		return nil
	})

	subject := s.Subject(transactionID)
	sub, err := s.client.Subscribe(subject, func(msg *nats.Msg) {
		ev, err := decodeEvent(msg.Data)
		if err != nil {
			logger.Warn("Dropping malformed status event",
				logger.String("subject", msg.Subject),
				logger.Err(err))
			return
		}
		st.deliver(ev)
	})
	if err != nil {
		st.fail(err)
		return nil, fmt.Errorf("%w: %w", models.ErrChannelFailure, err)
	}

	go s.watch(ctx, st, sub)
	return st, nil
}

func (s *NATSSource) watch(ctx context.Context, st *stream, sub *nats.Subscription) {
	ticker := time.NewTicker(connCheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-st.done:
			return
		case <-ctx.Done():
			st.fail(ctx.Err())
			return
		case <-ticker.C:
			if !s.client.IsConnected() || !sub.IsValid() {
				st.fail(fmt.Errorf("%w: nats connection lost", models.ErrChannelFailure))
				return
			}
		}
	}
}
