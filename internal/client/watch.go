package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"kanban_api/internal/domain"
	"kanban_api/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	minBackoff = time.Second
	maxBackoff = 30 * time.Second
)

// Watch follows the board-events socket until ctx is done. The cache is
// reloaded on every (re)connect and after every event; onEvent, if set, runs
// after the reload.
func (s *Store) Watch(ctx context.Context, wsURL string, onEvent func(domain.Event)) error {
	u, err := url.Parse(wsURL)
	if err != nil {
		return fmt.Errorf("invalid websocket url: %w", err)
	}
	q := u.Query()
	q.Set("token", s.api.Token())
	u.RawQuery = q.Encode()

	backoff := minBackoff
	for {
		connected, err := s.watchOnce(ctx, u.String(), onEvent)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if connected {
			backoff = minBackoff
		}
		logger.Warn("board events disconnected", "error", err, "retry_in", backoff)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, maxBackoff)
	}
}

func (s *Store) watchOnce(ctx context.Context, target string, onEvent func(domain.Event)) (bool, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, target, nil)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	if err := s.Refresh(ctx); err != nil {
		logger.Warn("refresh after connect failed", "error", err)
	}

	for {
		var ev domain.Event
		if err := conn.ReadJSON(&ev); err != nil {
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) && closeErr.Code == websocket.CloseNormalClosure {
				return true, nil
			}
			return true, err
		}

		if err := s.Refresh(ctx); err != nil {
			logger.Warn("refresh after event failed", "event", ev.Type, "error", err)
		}
		if onEvent != nil {
			onEvent(ev)
		}
	}
}
