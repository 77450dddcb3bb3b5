package ws

import (
	"context"
	"encoding/json"
	"sync"

	"kanban_api/internal/domain"
	"kanban_api/internal/logger"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	EventsDelivered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "board_events_delivered_total",
			Help: "Board events written to websocket client queues",
		},
		[]string{"type"},
	)
	EventsDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "board_events_dropped_clients_total",
			Help: "Websocket clients dropped because their queue was full",
		},
	)
)

func init() {
	prometheus.MustRegister(EventsDelivered)
	prometheus.MustRegister(EventsDropped)
}

// Hub fans board events out to the websocket clients of the owning user.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*Client]struct{})}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[c.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.UserID] = set
	}
	set[c] = struct{}{}
	logger.Debug("ws client registered", "user_id", c.UserID, "sessions", len(set))
}

// Unregister removes c and closes its queue. Safe to call more than once.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[c.UserID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.UserID)
	}
	close(c.send)
}

func (h *Hub) ClientCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Publish delivers ev to this process's clients. It satisfies
// service.Publisher when no relay is configured.
func (h *Hub) Publish(_ context.Context, ev domain.Event) {
	h.Deliver(ev)
}

// Deliver queues ev for every session of ev.UserID and returns how many
// clients received it. Clients whose queue is full are dropped.
func (h *Hub) Deliver(ev domain.Event) int {
	msg, err := json.Marshal(ev)
	if err != nil {
		logger.Error("marshal board event", "error", err)
		return 0
	}

	var slow []*Client
	delivered := 0

	h.mu.RLock()
	for c := range h.clients[ev.UserID] {
		select {
		case c.send <- msg:
			delivered++
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		logger.Warn("dropping slow ws client", "user_id", c.UserID)
		EventsDropped.Inc()
		h.Unregister(c)
	}
	if delivered > 0 {
		EventsDelivered.WithLabelValues(string(ev.Type)).Add(float64(delivered))
	}
	return delivered
}
