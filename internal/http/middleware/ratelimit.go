package middleware

import (
	"sync"
	"time"
)

type clientInfo struct {
	start time.Time
	count int
}

// memoryWindow is the single-process fixed window used when Redis is not
// configured.
type memoryWindow struct {
	mu      sync.Mutex
	clients map[string]*clientInfo
}

func newMemoryWindow() *memoryWindow {
	return &memoryWindow{clients: make(map[string]*clientInfo)}
}

// hit counts one request for key and returns the count in the current window.
func (m *memoryWindow) hit(key string, window time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	ci, ok := m.clients[key]
	if !ok || now.Sub(ci.start) > window {
		if len(m.clients) > 10000 {
			m.sweep(now, window)
		}
		m.clients[key] = &clientInfo{start: now, count: 1}
		return 1
	}
	ci.count++
	return ci.count
}

func (m *memoryWindow) sweep(now time.Time, window time.Duration) {
	for k, ci := range m.clients {
		if now.Sub(ci.start) > window {
			delete(m.clients, k)
		}
	}
}
