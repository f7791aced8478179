package gateway

import (
	"fmt"
	"strings"

	"github.com/piresc/payon/internal/pkg/models"
	natspkg "github.com/piresc/payon/internal/pkg/nats"
	nsqpkg "github.com/piresc/payon/internal/pkg/nsq"
	"github.com/piresc/payon/services/tracker"
)

// Transport names accepted in TRACKER_TRANSPORT
const (
	TransportNATS      = "nats"
	TransportNSQ       = "nsq"
	TransportWebSocket = "websocket"
	TransportPoll      = "poll"
)

// NeedsNATS reports whether transport selects the NATS event source
func NeedsNATS(transport string) bool {
	switch strings.ToLower(strings.TrimSpace(transport)) {
	case TransportNATS, "":
		return true
	}
	return false
}

// NewEventSource builds the live transport named in cfg.Tracker.Transport.
// "poll" returns a nil source, which makes every subscription poll.
func NewEventSource(cfg *models.Config, natsClient *natspkg.Client) (tracker.EventSource, error) {
	if NeedsNATS(cfg.Tracker.Transport) {
		if natsClient == nil {
			return nil, fmt.Errorf("nats transport selected without a NATS connection")
		}
		return NewNATSSource(natsClient, cfg.NATS.SubjectPrefix, cfg.Tracker.EventBuffer), nil
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Tracker.Transport)) {
	case TransportNSQ:
		return NewNSQSource(cfg.NSQ.StatusTopic, nsqpkg.Config{
			NSQDAddress:    cfg.NSQ.NSQDAddress,
			LookupdAddress: cfg.NSQ.LookupdAddress,
			MaxInFlight:    cfg.NSQ.MaxInFlight,
		}, cfg.Tracker.EventBuffer), nil
	case TransportWebSocket:
		return NewWebSocketSource(cfg.Backend.WSURL, cfg.Backend.Timeout, cfg.Tracker.EventBuffer), nil
	case TransportPoll:
		return nil, nil
	}
	return nil, fmt.Errorf("unknown tracker transport %q", cfg.Tracker.Transport)
}

var (
	_ tracker.BackendGW   = (*HTTPGateway)(nil)
	_ tracker.EventSource = (*NATSSource)(nil)
	_ tracker.EventSource = (*NSQSource)(nil)
	_ tracker.EventSource = (*WebSocketSource)(nil)
)
