package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	gws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/piresc/payon/internal/pkg/constants"
	appctx "github.com/piresc/payon/internal/pkg/context"
	jwtpkg "github.com/piresc/payon/internal/pkg/jwt"
	"github.com/piresc/payon/internal/pkg/models"
	pkgws "github.com/piresc/payon/internal/pkg/websocket"
	"github.com/piresc/payon/services/tracker/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jwtCfg = models.JWTConfig{Secret: "tracker-secret"}

func dial(t *testing.T, h *TrackerWSHandler) *gws.Conn {
	t.Helper()
	e := echo.New()
	e.GET("/ws", h.HandleWebSocket)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	token, err := jwtpkg.GenerateToken("user-1", time.Hour, jwtCfg)
	require.NoError(t, err)
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	conn, _, err := gws.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", header)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *gws.Conn, event, data string) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(models.WSMessage{Event: event, Data: json.RawMessage(data)}))
}

func read(t *testing.T, conn *gws.Conn) models.WSMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg models.WSMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestTrackAndNotify(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockTrackerUC(ctrl)
	h := NewTrackerWSHandler(uc, pkgws.NewManager(jwtCfg))

	tracked := make(chan string, 1)
	uc.EXPECT().Track(gomock.Any(), gomock.Any(), "tx-1").
		DoAndReturn(func(ctx context.Context, clientID, txID string) error {
			assert.NotEmpty(t, appctx.GetToken(ctx))
			assert.Equal(t, "user-1", appctx.GetUserID(ctx))
			tracked <- clientID
			return nil
		})
	uc.EXPECT().UntrackAll(gomock.Any()).AnyTimes()

	conn := dial(t, h)
	send(t, conn, constants.EventTrackTransaction, `{"transaction_id":"tx-1"}`)

	var clientID string
	select {
	case clientID = <-tracked:
	case <-time.After(2 * time.Second):
		t.Fatal("track was not requested")
	}

	h.NotifyClient(clientID, constants.EventTransactionStatus, models.TransactionView{
		TransactionID: "tx-1",
		Status:        models.TransactionStatusAnalyzing,
	})
	msg := read(t, conn)
	assert.Equal(t, constants.EventTransactionStatus, msg.Event)
	assert.Contains(t, string(msg.Data), `"status":"ANALYZING"`)
}

func TestInvalidMessages(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockTrackerUC(ctrl)
	uc.EXPECT().UntrackAll(gomock.Any()).AnyTimes()
	h := NewTrackerWSHandler(uc, pkgws.NewManager(jwtCfg))
	conn := dial(t, h)

	send(t, conn, constants.EventTrackTransaction, `{"transaction_id":"  "}`)
	msg := read(t, conn)
	assert.Equal(t, constants.EventError, msg.Event)
	assert.Contains(t, string(msg.Data), constants.ErrorValidationFailed)

	send(t, conn, "dance", `{}`)
	msg = read(t, conn)
	assert.Contains(t, string(msg.Data), constants.ErrorUnknownEvent)

	send(t, conn, constants.EventPing, `{}`)
	assert.Equal(t, constants.EventPong, read(t, conn).Event)
}

func TestTrackFailureIsReported(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockTrackerUC(ctrl)
	uc.EXPECT().Track(gomock.Any(), gomock.Any(), "tx-1").Return(assert.AnError)
	uc.EXPECT().UntrackAll(gomock.Any()).AnyTimes()
	h := NewTrackerWSHandler(uc, pkgws.NewManager(jwtCfg))
	conn := dial(t, h)

	send(t, conn, constants.EventTrackTransaction, `{"transaction_id":"tx-1"}`)
	msg := read(t, conn)
	assert.Equal(t, constants.EventError, msg.Event)
	assert.Contains(t, string(msg.Data), constants.ErrorTrackingFailed)
}

func TestDisconnectUntracksEverything(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockTrackerUC(ctrl)
	h := NewTrackerWSHandler(uc, pkgws.NewManager(jwtCfg))

	untracked := make(chan struct{})
	uc.EXPECT().Untrack(gomock.Any(), "tx-1")
	uc.EXPECT().UntrackAll(gomock.Any()).Do(func(string) { close(untracked) })

	conn := dial(t, h)
	send(t, conn, constants.EventUntrackTransaction, `{"transaction_id":"tx-1"}`)
	send(t, conn, constants.EventPing, `{}`)
	read(t, conn)
	require.NoError(t, conn.WriteMessage(gws.CloseMessage, gws.FormatCloseMessage(gws.CloseNormalClosure, "")))

	select {
	case <-untracked:
	case <-time.After(2 * time.Second):
		t.Fatal("subscriptions were not released on disconnect")
	}
}

func TestMalformedFrameKeepsConnection(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockTrackerUC(ctrl)
	uc.EXPECT().UntrackAll(gomock.Any()).AnyTimes()
	h := NewTrackerWSHandler(uc, pkgws.NewManager(jwtCfg))
	conn := dial(t, h)

	require.NoError(t, conn.WriteMessage(gws.TextMessage, []byte(`not json`)))
	msg := read(t, conn)
	assert.Contains(t, string(msg.Data), constants.ErrorInvalidFormat)

	send(t, conn, constants.EventPing, `{}`)
	assert.Equal(t, constants.EventPong, read(t, conn).Event)
}
