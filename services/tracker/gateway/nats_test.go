package gateway

import (
	"context"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/test"
	"github.com/piresc/payon/internal/pkg/models"
	natspkg "github.com/piresc/payon/internal/pkg/nats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runNATS(t *testing.T, port int) func() {
	t.Helper()
	opts := natsserver.DefaultTestOptions
	opts.Port = port
	srv := natsserver.RunServer(&opts)
	return srv.Shutdown
}

func nextEvent(t *testing.T, events <-chan models.StatusEvent) (models.StatusEvent, bool) {
	t.Helper()
	select {
	case ev, ok := <-events:
		return ev, ok
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
	return models.StatusEvent{}, false
}

func TestNATSSource_DeliversTransactionEvents(t *testing.T) {
	shutdown := runNATS(t, 8372)
	defer shutdown()

	client, err := natspkg.NewClient("nats://127.0.0.1:8372")
	require.NoError(t, err)
	defer client.Close()

	source := NewNATSSource(client, "", 4)
	assert.Equal(t, "transaction.status.tx-1", source.Subject("tx-1"))

	st, err := source.Open(context.Background(), "tx-1")
	require.NoError(t, err)
	defer st.Close()
	require.NoError(t, client.GetConn().Flush())

	require.NoError(t, client.Publish(source.Subject("tx-1"), []byte("garbage")))
	require.NoError(t, client.PublishJSON(source.Subject("tx-2"), map[string]string{"transaction_id": "tx-2", "status": "REJECTED"}))
	require.NoError(t, client.PublishJSON(source.Subject("tx-1"), map[string]string{"transaction_id": "tx-1", "new_status": "ANALYZING"}))

	ev, ok := nextEvent(t, st.Events())
	require.True(t, ok)
	assert.Equal(t, "tx-1", ev.TransactionID)
	assert.Equal(t, models.TransactionStatusAnalyzing, ev.NewStatus)
}

func TestNATSSource_ServerLossDropsStream(t *testing.T) {
	shutdown := runNATS(t, 8373)

	client, err := natspkg.NewClient("nats://127.0.0.1:8373")
	require.NoError(t, err)
	defer client.Close()

	st, err := NewNATSSource(client, "payments.status", 4).Open(context.Background(), "tx-1")
	require.NoError(t, err)

	shutdown()

	_, ok := nextEvent(t, st.Events())
	assert.False(t, ok)
	assert.ErrorIs(t, st.Err(), models.ErrChannelFailure)
	assert.NoError(t, st.Close())

	_, err = NewNATSSource(client, "", 4).Open(context.Background(), "tx-1")
	assert.ErrorIs(t, err, models.ErrChannelFailure)
}
