package nsq

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nsqio/go-nsq"
	"github.com/piresc/payon/internal/pkg/logger"
)

// MessageHandler processes one message body. Returning an error requeues the message.
type MessageHandler func(message []byte) error

// Consumer handles consuming messages from one NSQ topic/channel
type Consumer struct {
	consumer *nsq.Consumer
}

// Config selects where the consumer connects
type Config struct {
	NSQDAddress    string
	LookupdAddress []string
	MaxInFlight    int
}

// NewConsumer creates a consumer for topic/channel and connects it, preferring lookupd when configured
func NewConsumer(topic, channel string, cfg Config, handler MessageHandler) (*Consumer, error) {
	nsqCfg := nsq.NewConfig()
	if cfg.MaxInFlight > 0 {
		nsqCfg.MaxInFlight = cfg.MaxInFlight
	}
	nsqCfg.LookupdPollInterval = 5 * time.Second

	consumer, err := nsq.NewConsumer(topic, channel, nsqCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create NSQ consumer: %w", err)
	}
	consumer.SetLoggerLevel(nsq.LogLevelWarning)
	consumer.AddHandler(wrapHandler(topic, handler))

	if len(cfg.LookupdAddress) > 0 {
		err = consumer.ConnectToNSQLookupds(cfg.LookupdAddress)
	} else {
		err = consumer.ConnectToNSQD(cfg.NSQDAddress)
	}
	if err != nil {
		consumer.Stop()
		return nil, fmt.Errorf("failed to connect NSQ consumer: %w", err)
	}

	return &Consumer{consumer: consumer}, nil
}

func wrapHandler(topic string, handler MessageHandler) nsq.Handler {
	return nsq.HandlerFunc(func(message *nsq.Message) error {
		if err := handler(message.Body); err != nil {
			logger.Debug("Error processing NSQ message",
				logger.String("topic", topic),
				logger.Err(err))
			return err
		}
		return nil
	})
}

// UnmarshalMessage deserializes a JSON message into the provided struct
func UnmarshalMessage(messageBody []byte, v interface{}) error {
	if err := json.Unmarshal(messageBody, v); err != nil {
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}
	return nil
}

// StopChan is closed once the consumer has fully stopped
func (c *Consumer) StopChan() <-chan int {
	return c.consumer.StopChan
}

// Stop gracefully stops the consumer
func (c *Consumer) Stop() {
	c.consumer.Stop()
}
