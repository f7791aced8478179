package websocket

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/piresc/payon/internal/pkg/constants"
	jwtpkg "github.com/piresc/payon/internal/pkg/jwt"
	"github.com/piresc/payon/internal/pkg/logger"
	"github.com/piresc/payon/internal/pkg/middleware"
	"github.com/piresc/payon/internal/pkg/models"
)

const writeWait = 10 * time.Second

// Client is one authenticated browser connection. A user may hold several.
type Client struct {
	ID     string
	UserID string
	Token  string

	conn *websocket.Conn
	mu   sync.Mutex
}

// Send writes one event to the browser. Safe for concurrent use.
func (c *Client) Send(event string, data interface{}) error {
	if c.conn == nil {
		return nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("error marshaling message data: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(models.WSMessage{Event: event, Data: raw})
}

// SendError writes an error event
func (c *Client) SendError(code, message string) error {
	return c.Send(constants.EventError, models.WSErrorMessage{Code: code, Message: message})
}

// ReadMessage blocks for the next browser message
func (c *Client) ReadMessage() (models.WSMessage, error) {
	var msg models.WSMessage
	err := c.conn.ReadJSON(&msg)
	return msg, err
}

// Manager authenticates browser websocket connections and keeps track of live clients
type Manager struct {
	sync.RWMutex
	clients  map[string]*Client
	cfg      models.JWTConfig
	upgrader websocket.Upgrader
}

// NewManager creates a new WebSocket manager
func NewManager(jwtConfig models.JWTConfig) *Manager {
	return &Manager{
		clients: make(map[string]*Client),
		cfg:     jwtConfig,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// HandleConnection authenticates, upgrades and registers the connection, then
// runs handleClient until it returns
func (m *Manager) HandleConnection(c echo.Context, handleClient func(*Client) error) error {
	token := middleware.BearerToken(c)
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is required")
	}
	claims, err := jwtpkg.ValidateToken(token, m.cfg)
	if err != nil {
		logger.Warn("Token validation failed", logger.Err(err))
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	conn, err := m.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	client := &Client{
		ID:     uuid.New().String(),
		UserID: claims.UserID,
		Token:  token,
		conn:   conn,
	}
	m.AddClient(client)
	defer m.RemoveClient(client.ID)

	logger.Info("WebSocket client connected",
		logger.String("client_id", client.ID),
		logger.String("user_id", client.UserID))

	return handleClient(client)
}

// AddClient safely adds a client to the manager
func (m *Manager) AddClient(client *Client) {
	m.Lock()
	defer m.Unlock()
	m.clients[client.ID] = client
}

// RemoveClient safely removes a client from the manager
func (m *Manager) RemoveClient(clientID string) {
	m.Lock()
	defer m.Unlock()
	delete(m.clients, clientID)
}

// GetClient returns a client by ID
func (m *Manager) GetClient(clientID string) (*Client, bool) {
	m.RLock()
	defer m.RUnlock()
	client, ok := m.clients[clientID]
	return client, ok
}

// Count returns the number of connected clients
func (m *Manager) Count() int {
	m.RLock()
	defer m.RUnlock()
	return len(m.clients)
}

// NotifyClient sends an event to one connected client; unknown clients are ignored
func (m *Manager) NotifyClient(clientID, event string, data interface{}) {
	client, ok := m.GetClient(clientID)
	if !ok {
		return
	}
	if err := client.Send(event, data); err != nil {
		logger.Warn("Error sending message to client",
			logger.String("client_id", clientID),
			logger.String("event", event),
			logger.Err(err))
	}
}
