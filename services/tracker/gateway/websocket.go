package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/piresc/payon/internal/pkg/constants"
	appctx "github.com/piresc/payon/internal/pkg/context"
	"github.com/piresc/payon/internal/pkg/logger"
	"github.com/piresc/payon/internal/pkg/models"
	"github.com/piresc/payon/services/tracker"
)

// pongWait bounds how long the backend stream may stay silent before it is considered dropped
const pongWait = 60 * time.Second

// WebSocketSource dials the backend's per transaction status stream
type WebSocketSource struct {
	baseURL string
	dialer  *websocket.Dialer
	buffer  int
}

// NewWebSocketSource creates an event source for a ws:// or wss:// backend URL
func NewWebSocketSource(baseURL string, handshakeTimeout time.Duration, buffer int) *WebSocketSource {
	if handshakeTimeout <= 0 {
		handshakeTimeout = 10 * time.Second
	}
	return &WebSocketSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: handshakeTimeout,
		},
		buffer: buffer,
	}
}

// Name identifies the transport in logs
func (s *WebSocketSource) Name() string { return "websocket" }

// Open dials the stream, forwarding the user's bearer token
func (s *WebSocketSource) Open(ctx context.Context, transactionID string) (tracker.EventStream, error) {
	token := appctx.GetToken(ctx)
	if token == "" {
		return nil, models.ErrUnauthenticated
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	if requestID := appctx.GetRequestID(ctx); requestID != "" {
		header.Set("X-Request-ID", requestID)
	}

	endpoint := s.baseURL + constants.BackendStreamPath + url.PathEscape(transactionID)
	conn, resp, err := s.dialer.DialContext(ctx, endpoint, header)
	if err != nil {
		if resp != nil {
			defer resp.Body.Close()
			if resp.StatusCode == http.StatusUnauthorized {
				return nil, models.ErrUnauthenticated
			}
			return nil, fmt.Errorf("%w: websocket handshake: %d", models.ErrChannelFailure, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: %w", models.ErrChannelFailure, err)
	}

	st := newStream(s.buffer, conn.Close)

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPingHandler(func(data string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(time.Second))
	})

	go s.readLoop(ctx, conn, st)
	return st, nil
}

func (s *WebSocketSource) readLoop(ctx context.Context, conn *websocket.Conn, st *stream) {
	go func() {
		select {
		case <-ctx.Done():
			st.fail(ctx.Err())
			conn.Close()
		case <-st.done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				st.fail(fmt.Errorf("%w: backend closed the stream", models.ErrChannelFailure))
			} else {
				st.fail(fmt.Errorf("%w: %w", models.ErrChannelFailure, err))
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		ev, err := decodeEvent(data)
		if err != nil {
			logger.Warn("Dropping malformed status event", logger.Err(err))
			continue
		}
		if !st.deliver(ev) {
			return
		}
	}
}
