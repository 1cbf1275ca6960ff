package events

import (
	"context"
	"encoding/json"
	"time"

	"muster/config"
	"muster/internal/database"
	"muster/internal/logger"

	"github.com/valkey-io/valkey-go"
)

// Event is the envelope published on the bus. Data carries the
// channel-specific payload.
type Event struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Channel   string         `json:"channel,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// EventBus fans events out over the cache's pub/sub. Delivery is
// best-effort: subscribers only see events published while subscribed.
type EventBus struct {
	cache  database.CacheClient
	cancel context.CancelFunc
	ctx    context.Context
	log    logger.Logger
}

func New(cache database.CacheClient, config config.Config) *EventBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventBus{
		cache:  cache,
		ctx:    ctx,
		cancel: cancel,
		log:    logger.New("EventBus"),
	}
}

func (e *EventBus) Publish(channel string, event Event) error {
	log := e.log.Function("Publish")

	payload, err := json.Marshal(event)
	if err != nil {
		return log.Err("failed to marshal event", err, "channel", channel)
	}

	cmd := e.cache.B().Publish().Channel(channel).Message(string(payload)).Build()
	if err := e.cache.Do(e.ctx, cmd).Error(); err != nil {
		return log.Err("failed to publish event", err, "channel", channel)
	}

	return nil
}

// Subscribe delivers every event published on channel to handler until the
// bus is closed. Blocks; run it on its own goroutine.
func (e *EventBus) Subscribe(channel string, handler func(Event)) error {
	log := e.log.Function("Subscribe")

	cmd := e.cache.B().Subscribe().Channel(channel).Build()
	err := e.cache.Receive(e.ctx, cmd, func(msg valkey.PubSubMessage) {
		var event Event
		if err := json.Unmarshal([]byte(msg.Message), &event); err != nil {
			log.Er("failed to unmarshal event", err, "channel", channel)
			return
		}
		handler(event)
	})
	if err != nil && e.ctx.Err() == nil {
		return log.Err("subscription ended", err, "channel", channel)
	}

	return nil
}

func (e *EventBus) Close() error {
	e.cancel()
	return nil
}
