package ws

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"kanban_api/internal/domain"

	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelayFansOutAcrossInstances(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Ping(context.Background()).Err())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// two instances share one channel
	hubA, hubB := NewHub(), NewHub()
	relayA, relayB := NewRedisRelay(rdb, hubA), NewRedisRelay(rdb, hubB)
	go func() { _ = relayA.Run(ctx) }()
	go func() { _ = relayB.Run(ctx) }()

	onB := NewClient(hubB, "alice", nil)
	hubB.Register(onB)

	require.Eventually(t, func() bool {
		n, err := rdb.PubSubNumSub(ctx, EventsChannel).Result()
		return err == nil && n[EventsChannel] >= 2 && relayA.Subscribed() && relayB.Subscribed()
	}, 2*time.Second, 20*time.Millisecond)

	relayA.Publish(ctx, domain.Event{Type: domain.EventColumnCreated, UserID: "alice", BoardID: "b1", EntityID: "c1"})

	select {
	case msg := <-onB.send:
		var ev domain.Event
		require.NoError(t, json.Unmarshal(msg, &ev))
		assert.Equal(t, "c1", ev.EntityID)
	case <-time.After(2 * time.Second):
		t.Fatal("event did not reach the other instance")
	}
}

func TestRelayDeliversLocallyWithoutSubscription(t *testing.T) {
	// nothing listens on port 1
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	t.Cleanup(func() { _ = rdb.Close() })

	hub := NewHub()
	relay := NewRedisRelay(rdb, hub)
	c := NewClient(hub, "alice", nil)
	hub.Register(c)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- relay.Run(ctx) }()

	relay.Publish(ctx, domain.Event{Type: domain.EventTaskCreated, UserID: "alice", BoardID: "b1", EntityID: "t1"})
	assert.False(t, relay.Subscribed())

	select {
	case msg := <-c.send:
		var ev domain.Event
		require.NoError(t, json.Unmarshal(msg, &ev))
		assert.Equal(t, "t1", ev.EntityID)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered locally")
	}
	select {
	case <-c.send:
		t.Fatal("event delivered twice")
	default:
	}

	// Run keeps retrying until cancelled
	select {
	case err := <-done:
		t.Fatalf("Run returned early: %v", err)
	case <-time.After(200 * time.Millisecond):
	}
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}
