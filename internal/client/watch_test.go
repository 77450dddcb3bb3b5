package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kanban_api/internal/domain"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchRefreshesOnEvent(t *testing.T) {
	f, s := newTestStore(t)

	upgrader := websocket.Upgrader{}
	events := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("token") != "tok-1" {
			http.Error(w, "no token", http.StatusUnauthorized)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		// The board appears server side before the event is sent.
		f.mu.Lock()
		f.boards["b-remote"] = domain.Board{ID: "b-remote", Title: "Remote", LastUpdated: 5}
		f.mu.Unlock()

		_ = conn.WriteJSON(domain.Event{Type: domain.EventBoardCreated, BoardID: "b-remote", UserID: "u1"})
		_, _, _ = conn.ReadMessage()
	}))
	t.Cleanup(events.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got := make(chan domain.Event, 1)
	err := s.Watch(ctx, "ws"+strings.TrimPrefix(events.URL, "http")+"/api/ws", func(ev domain.Event) {
		got <- ev
		cancel()
	})
	require.ErrorIs(t, err, context.Canceled)

	ev := <-got
	assert.Equal(t, domain.EventBoardCreated, ev.Type)
	b, ok := s.Board("b-remote")
	require.True(t, ok)
	assert.Equal(t, "Remote", b.Title)
}

func TestWatchRejectsBadURL(t *testing.T) {
	s := NewStore(NewClient("http://localhost", "tok"))
	err := s.Watch(context.Background(), "://bad", nil)
	assert.Error(t, err)
}
