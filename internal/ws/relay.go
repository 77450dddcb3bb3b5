package ws

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"kanban_api/internal/domain"
	"kanban_api/internal/logger"

	redis "github.com/redis/go-redis/v9"
)

const EventsChannel = "kanban:events"

const (
	minResubscribe = time.Second
	maxResubscribe = 30 * time.Second
)

// RedisRelay shares board events between API instances. Publish goes to
// Redis; Run feeds everything on the channel, including this instance's own
// events, into the local hub. While Run holds no subscription, Publish also
// delivers to the local hub so this instance's clients still hear their own
// boards.
type RedisRelay struct {
	rdb        *redis.Client
	hub        *Hub
	subscribed atomic.Bool
}

func NewRedisRelay(rdb *redis.Client, hub *Hub) *RedisRelay {
	return &RedisRelay{rdb: rdb, hub: hub}
}

// Subscribed reports whether Run currently holds the channel subscription.
func (r *RedisRelay) Subscribed() bool {
	return r.subscribed.Load()
}

func (r *RedisRelay) Publish(ctx context.Context, ev domain.Event) {
	local := !r.subscribed.Load()
	if local {
		r.hub.Deliver(ev)
	}

	b, err := json.Marshal(ev)
	if err != nil {
		logger.Error("marshal board event", "error", err)
		return
	}
	// the request context may already be cancelled once the response is out
	if err := r.rdb.Publish(context.WithoutCancel(ctx), EventsChannel, b).Err(); err != nil {
		logger.Warn("redis publish failed, delivering locally", "error", err)
		if !local {
			r.hub.Deliver(ev)
		}
	}
}

// Run blocks until ctx is done, resubscribing with capped backoff whenever
// the subscription cannot be established or is lost.
func (r *RedisRelay) Run(ctx context.Context) error {
	backoff := minResubscribe
	for {
		err := r.consume(ctx)
		r.subscribed.Store(false)
		if ctx.Err() != nil {
			return nil
		}
		if err == nil {
			backoff = minResubscribe
		}
		logger.Warn("board events relay unsubscribed", "error", err, "retry_in", backoff)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
		if err != nil {
			backoff = min(backoff*2, maxResubscribe)
		}
	}
}

// consume returns nil when an established subscription ends.
func (r *RedisRelay) consume(ctx context.Context) error {
	sub := r.rdb.Subscribe(ctx, EventsChannel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	r.subscribed.Store(true)
	logger.Info("board events relay subscribed", "channel", EventsChannel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var ev domain.Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				logger.Warn("bad board event on relay", "error", err)
				continue
			}
			r.hub.Deliver(ev)
		}
	}
}
