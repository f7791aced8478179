package gateway

import (
	"errors"
	"testing"
	"time"

	"github.com/piresc/payon/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEvent(t *testing.T) {
	t.Run("status with RFC 3339 timestamp", func(t *testing.T) {
		ev, err := decodeEvent([]byte(`{"event_id":"e1","transaction_id":"tx-1","new_status":"analyzing","timestamp":"2024-05-01T10:00:00Z"}`))
		require.NoError(t, err)
		assert.Equal(t, "e1", ev.EventID)
		assert.Equal(t, models.TransactionStatusAnalyzing, ev.NewStatus)
		assert.Equal(t, models.OriginPush, ev.Origin)
		assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), ev.Timestamp)
	})

	t.Run("status field alias and naive timestamp", func(t *testing.T) {
		ev, err := decodeEvent([]byte(`{"transaction_id":"tx-1","status":"VALIDATED","occurred_at":"2024-05-01T10:00:00.250000"}`))
		require.NoError(t, err)
		assert.Equal(t, models.TransactionStatusValidated, ev.NewStatus)
		assert.Equal(t, 250*time.Millisecond, time.Duration(ev.Timestamp.Nanosecond()))
	})

	t.Run("decision with unix timestamp", func(t *testing.T) {
		ev, err := decodeEvent([]byte(`{"transaction_id":"tx-1","decision":"BLOCK","timestamp":1714557600}`))
		require.NoError(t, err)
		assert.Equal(t, "BLOCK", ev.Decision)
		assert.Empty(t, ev.NewStatus)
		assert.Equal(t, int64(1714557600), ev.Timestamp.Unix())
	})

	for name, payload := range map[string]string{
		"not json":         `nope`,
		"unknown status":   `{"transaction_id":"tx-1","status":"LOST"}`,
		"empty event":      `{"transaction_id":"tx-1"}`,
		"broken timestamp": `{"transaction_id":"tx-1","status":"PENDING","timestamp":"yesterday"}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := decodeEvent([]byte(payload))
			assert.Error(t, err)
		})
	}
}

func TestStream_DeliverThenDrop(t *testing.T) {
	closed := false
	st := newStream(4, func() error { closed = true; return nil })

	require.True(t, st.deliver(models.StatusEvent{NewStatus: models.TransactionStatusAnalyzing}))
	ev := <-st.Events()
	assert.Equal(t, models.TransactionStatusAnalyzing, ev.NewStatus)

	dropErr := errors.New("reset")
	st.fail(dropErr)
	st.fail(errors.New("second reason ignored"))

	_, ok := <-st.Events()
	assert.False(t, ok)
	assert.Equal(t, dropErr, st.Err())
	assert.False(t, st.deliver(models.StatusEvent{}))

	require.NoError(t, st.Close())
	assert.True(t, closed)
}

func TestStream_CloseIsNotADrop(t *testing.T) {
	st := newStream(1, nil)
	require.NoError(t, st.Close())
	_, ok := <-st.Events()
	assert.False(t, ok)
	assert.NoError(t, st.Err())
}
