package http

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/randomtoy/dicegame/internal/ports"
)

const subscriberBuffer = 16

// StreamHub fans view snapshots out to SSE subscribers. It implements
// ports.Publisher.
type StreamHub struct {
	logger *slog.Logger

	mu          sync.RWMutex
	subscribers map[string]map[chan string]struct{}
}

func NewStreamHub(logger *slog.Logger) *StreamHub {
	return &StreamHub{
		logger:      logger,
		subscribers: make(map[string]map[chan string]struct{}),
	}
}

// Subscribe returns a channel of JSON-encoded snapshots for the view. The
// channel is closed by cancel or when the view is dropped.
func (h *StreamHub) Subscribe(viewID string) (<-chan string, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan string, subscriberBuffer)
	if _, ok := h.subscribers[viewID]; !ok {
		h.subscribers[viewID] = make(map[chan string]struct{})
	}
	h.subscribers[viewID][ch] = struct{}{}

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		subs, ok := h.subscribers[viewID]
		if !ok {
			return
		}
		if _, ok := subs[ch]; !ok {
			return
		}
		delete(subs, ch)
		close(ch)
		if len(subs) == 0 {
			delete(h.subscribers, viewID)
		}
	}
}

// Publish never blocks: a subscriber with a full buffer misses the message.
func (h *StreamHub) Publish(snap ports.ViewSnapshot) {
	payload, err := json.Marshal(toResponse(snap))
	if err != nil {
		h.logger.Error("encode snapshot", "view_id", snap.ViewID, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers[snap.ViewID] {
		select {
		case ch <- string(payload):
		default:
			h.logger.Warn("sse buffer full, dropping snapshot", "view_id", snap.ViewID)
		}
	}
}

// Drop closes every subscription to the view.
func (h *StreamHub) Drop(viewID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subscribers[viewID] {
		close(ch)
	}
	delete(h.subscribers, viewID)
}

// Subscribers returns the number of open subscriptions for the view.
func (h *StreamHub) Subscribers(viewID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[viewID])
}
