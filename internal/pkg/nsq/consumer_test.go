package nsq

import (
	"errors"
	"testing"

	"github.com/nsqio/go-nsq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapHandler(t *testing.T) {
	var got []byte
	h := wrapHandler("transaction.status", func(body []byte) error {
		got = body
		return nil
	})

	var id nsq.MessageID
	require.NoError(t, h.HandleMessage(nsq.NewMessage(id, []byte(`{"transaction_id":"t1"}`))))
	assert.Equal(t, `{"transaction_id":"t1"}`, string(got))
}

func TestWrapHandler_ErrorRequeues(t *testing.T) {
	boom := errors.New("boom")
	h := wrapHandler("transaction.status", func(body []byte) error { return boom })

	var id nsq.MessageID
	assert.ErrorIs(t, h.HandleMessage(nsq.NewMessage(id, nil)), boom)
}

func TestUnmarshalMessage(t *testing.T) {
	var v struct {
		TransactionID string `json:"transaction_id"`
	}
	require.NoError(t, UnmarshalMessage([]byte(`{"transaction_id":"t1"}`), &v))
	assert.Equal(t, "t1", v.TransactionID)

	assert.Error(t, UnmarshalMessage([]byte(`{`), &v))
}

func TestNewConsumer_InvalidTopic(t *testing.T) {
	_, err := NewConsumer("bad topic!", "tracker", Config{NSQDAddress: "127.0.0.1:4150"}, func([]byte) error { return nil })
	assert.Error(t, err)
}
