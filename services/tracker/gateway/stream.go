package gateway

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/piresc/payon/internal/pkg/lifecycle"
	"github.com/piresc/payon/internal/pkg/models"
)

// stream is the EventStream shared by every transport. Producers call deliver
// and fail from any goroutine; a single pump owns and closes the output channel.
type stream struct {
	in     chan models.StatusEvent
	events chan models.StatusEvent
	done   chan struct{}

	once   sync.Once
	mu     sync.Mutex
	err    error
	closer func() error
}

func newStream(buffer int, closer func() error) *stream {
	if buffer <= 0 {
		buffer = 16
	}
	s := &stream{
		in:     make(chan models.StatusEvent, buffer),
		events: make(chan models.StatusEvent),
		done:   make(chan struct{}),
		closer: closer,
	}
	go s.pump()
	return s
}

func (s *stream) pump() {
	defer close(s.events)
	for {
		select {
		case <-s.done:
			return
		case ev := <-s.in:
			select {
			case s.events <- ev:
			case <-s.done:
				return
			}
		}
	}
}

// deliver queues ev; it reports false once the stream has ended
func (s *stream) deliver(ev models.StatusEvent) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.in <- ev:
		return true
	case <-s.done:
		return false
	}
}

// fail ends the stream as a drop, keeping the first reason
func (s *stream) fail(err error) {
	s.once.Do(func() {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		close(s.done)
	})
}

func (s *stream) Events() <-chan models.StatusEvent {
	return s.events
}

func (s *stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close releases the transport. Err stays nil when the stream had not dropped.
func (s *stream) Close() error {
	s.fail(nil)
	if s.closer != nil {
		return s.closer()
	}
	return nil
}

// wireEvent is the status message published by the backend. Either status or
// decision is set.
type wireEvent struct {
	EventID       string   `json:"event_id"`
	TransactionID string   `json:"transaction_id"`
	Status        string   `json:"status"`
	NewStatus     string   `json:"new_status"`
	Decision      string   `json:"decision"`
	Timestamp     wireTime `json:"timestamp"`
	OccurredAt    wireTime `json:"occurred_at"`
}

// wireTime accepts RFC 3339, naive ISO 8601 (UTC assumed) or unix seconds
type wireTime struct {
	time.Time
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func (t *wireTime) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] != '"' {
		secs, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("invalid timestamp %s", data)
		}
		t.Time = time.Unix(0, int64(secs*float64(time.Second))).UTC()
		return nil
	}

	raw, err := strconv.Unquote(string(data))
	if err != nil {
		return err
	}
	if raw == "" {
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		t.Time = parsed
		return nil
	}
	for _, layout := range naiveLayouts {
		if parsed, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", raw)
}

// decodeEvent parses a backend status message
func decodeEvent(data []byte) (models.StatusEvent, error) {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return models.StatusEvent{}, fmt.Errorf("invalid status event: %w", err)
	}

	raw := w.NewStatus
	if raw == "" {
		raw = w.Status
	}
	ev := models.StatusEvent{
		EventID:       w.EventID,
		TransactionID: w.TransactionID,
		Decision:      w.Decision,
		Timestamp:     w.Timestamp.Time,
		Origin:        models.OriginPush,
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = w.OccurredAt.Time
	}
	if raw != "" {
		status, ok := lifecycle.Parse(raw)
		if !ok {
			return ev, fmt.Errorf("invalid status event: unknown status %q", raw)
		}
		ev.NewStatus = status
	}
	if ev.NewStatus == "" && ev.Decision == "" {
		return ev, fmt.Errorf("invalid status event: neither status nor decision")
	}
	return ev, nil
}
