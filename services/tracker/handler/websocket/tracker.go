package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	gws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/piresc/payon/internal/pkg/constants"
	appctx "github.com/piresc/payon/internal/pkg/context"
	"github.com/piresc/payon/internal/pkg/logger"
	"github.com/piresc/payon/internal/pkg/models"
	pkgws "github.com/piresc/payon/internal/pkg/websocket"
	"github.com/piresc/payon/services/tracker"
)

// TrackerWSHandler lets a browser follow transactions over one websocket
type TrackerWSHandler struct {
	trackerUC tracker.TrackerUC
	manager   *pkgws.Manager
}

// NewTrackerWSHandler creates a new websocket handler
func NewTrackerWSHandler(trackerUC tracker.TrackerUC, manager *pkgws.Manager) *TrackerWSHandler {
	return &TrackerWSHandler{trackerUC: trackerUC, manager: manager}
}

// HandleWebSocket handles GET /ws
func (h *TrackerWSHandler) HandleWebSocket(c echo.Context) error {
	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	return h.manager.HandleConnection(c, func(client *pkgws.Client) error {
		return h.messageLoop(client, requestID)
	})
}

// messageLoop runs until the browser disconnects, then drops every subscription of the client
func (h *TrackerWSHandler) messageLoop(client *pkgws.Client, requestID string) error {
	defer h.trackerUC.UntrackAll(client.ID)

	ctx := appctx.WithRequestID(context.Background(), requestID)
	ctx = appctx.WithUserID(ctx, client.UserID)
	ctx = appctx.WithToken(ctx, client.Token)

	for {
		msg, err := client.ReadMessage()
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
			_ = client.SendError(constants.ErrorInvalidFormat, "Invalid message format")
			continue
		}
		if err != nil {
			if gws.IsUnexpectedCloseError(err, gws.CloseGoingAway, gws.CloseNormalClosure) {
				logger.Warn("WebSocket read failed",
					logger.String("client_id", client.ID),
					logger.Err(err))
				return err
			}
			return nil
		}
		h.handleMessage(ctx, client, msg)
	}
}

func (h *TrackerWSHandler) handleMessage(ctx context.Context, client *pkgws.Client, msg models.WSMessage) {
	switch msg.Event {
	case constants.EventTrackTransaction:
		id, ok := h.transactionID(client, msg.Data)
		if !ok {
			return
		}
		if err := h.trackerUC.Track(ctx, client.ID, id); err != nil {
			logger.Warn("Track request failed",
				logger.String("client_id", client.ID),
				logger.TransactionID(id),
				logger.Err(err))
			code := constants.ErrorTrackingFailed
			if errors.Is(err, models.ErrInvalidRequest) {
				code = constants.ErrorValidationFailed
			}
			_ = client.SendError(code, "Impossible de suivre cette transaction")
		}
	case constants.EventUntrackTransaction:
		if id, ok := h.transactionID(client, msg.Data); ok {
			h.trackerUC.Untrack(client.ID, id)
		}
	case constants.EventPing:
		_ = client.Send(constants.EventPong, nil)
	default:
		_ = client.SendError(constants.ErrorUnknownEvent, "Unknown event: "+msg.Event)
	}
}

func (h *TrackerWSHandler) transactionID(client *pkgws.Client, data json.RawMessage) (string, bool) {
	var req models.WSTrackRequest
	if err := json.Unmarshal(data, &req); err != nil {
		_ = client.SendError(constants.ErrorInvalidFormat, "Invalid message format")
		return "", false
	}
	id := strings.TrimSpace(req.TransactionID)
	if id == "" {
		_ = client.SendError(constants.ErrorValidationFailed, "transaction_id is required")
		return "", false
	}
	return id, true
}

// NotifyClient forwards tracker events to the browser connection
func (h *TrackerWSHandler) NotifyClient(clientID, event string, data interface{}) {
	h.manager.NotifyClient(clientID, event, data)
}
