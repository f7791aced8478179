package gateway

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/piresc/payon/internal/pkg/constants"
	"github.com/piresc/payon/internal/pkg/logger"
	"github.com/piresc/payon/internal/pkg/models"
	nsqpkg "github.com/piresc/payon/internal/pkg/nsq"
	"github.com/piresc/payon/services/tracker"
)

// consumerFactory creates the shared consumer; swapped in tests
type consumerFactory func(topic, channel string, cfg nsqpkg.Config, handler nsqpkg.MessageHandler) (nsqConsumer, error)

type nsqConsumer interface {
	StopChan() <-chan int
	Stop()
}

// NSQSource reads the shared status topic through one consumer per process
// and fans events out to the streams open for each transaction.
type NSQSource struct {
	topic   string
	channel string
	cfg     nsqpkg.Config
	buffer  int
	connect consumerFactory

	mu       sync.Mutex
	consumer nsqConsumer
	streams  map[string]map[*stream]struct{}
}

// NewNSQSource creates an event source. The consumer connects lazily on the
// first Open, on an ephemeral channel unique to this instance.
func NewNSQSource(topic string, cfg nsqpkg.Config, buffer int) *NSQSource {
	if topic == "" {
		topic = constants.TopicTransactionStatus
	}
	return &NSQSource{
		topic:   topic,
		channel: "tracker-" + uuid.New().String()[:8] + "#ephemeral",
		cfg:     cfg,
		buffer:  buffer,
		connect: func(topic, channel string, cfg nsqpkg.Config, handler nsqpkg.MessageHandler) (nsqConsumer, error) {
			return nsqpkg.NewConsumer(topic, channel, cfg, handler)
		},
		streams: make(map[string]map[*stream]struct{}),
	}
}

// Name identifies the transport in logs
func (s *NSQSource) Name() string { return "nsq" }

// Open registers a stream for transactionID, connecting the consumer if needed
func (s *NSQSource) Open(ctx context.Context, transactionID string) (tracker.EventStream, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.consumer == nil {
		consumer, err := s.connect(s.topic, s.channel, s.cfg, s.dispatch)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", models.ErrChannelFailure, err)
		}
		s.consumer = consumer
		go s.watch(consumer)
	}

	var st *stream
	st = newStream(s.buffer, func() error {
		s.unregister(transactionID, st)
		return nil
	})
	if s.streams[transactionID] == nil {
		s.streams[transactionID] = make(map[*stream]struct{})
	}
	s.streams[transactionID][st] = struct{}{}

	go func() {
		select {
		case <-ctx.Done():
			st.fail(ctx.Err())
		case <-st.done:
		}
	}()
	return st, nil
}

// dispatch routes one message to every stream open for its transaction
func (s *NSQSource) dispatch(body []byte) error {
	ev, err := decodeEvent(body)
	if err != nil {
		logger.Warn("Dropping malformed status event", logger.String("topic", s.topic), logger.Err(err))
		return nil
	}

	s.mu.Lock()
	targets := make([]*stream, 0, len(s.streams[ev.TransactionID]))
	for st := range s.streams[ev.TransactionID] {
		targets = append(targets, st)
	}
	s.mu.Unlock()

	for _, st := range targets {
		st.deliver(ev)
	}
	return nil
}

func (s *NSQSource) unregister(transactionID string, st *stream) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if set, ok := s.streams[transactionID]; ok {
		delete(set, st)
		if len(set) == 0 {
			delete(s.streams, transactionID)
		}
	}
}

// watch fails every open stream when the consumer stops, so they resync on a new one
func (s *NSQSource) watch(consumer nsqConsumer) {
	<-consumer.StopChan()

	s.mu.Lock()
	if s.consumer == consumer {
		s.consumer = nil
	}
	var open []*stream
	for _, set := range s.streams {
		for st := range set {
			open = append(open, st)
		}
	}
	s.mu.Unlock()

	for _, st := range open {
		st.fail(fmt.Errorf("%w: nsq consumer stopped", models.ErrChannelFailure))
	}
}

// Stop stops the shared consumer
func (s *NSQSource) Stop() {
	s.mu.Lock()
	consumer := s.consumer
	s.mu.Unlock()
	if consumer != nil {
		consumer.Stop()
		<-consumer.StopChan()
	}
}
