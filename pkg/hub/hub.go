package hub

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Hub owns the set of connected viewers and fans broadcasts out to
// them. All map mutation happens on the Run goroutine under the write
// lock, so ViewerCount can be read from anywhere.
type Hub struct {
	name   string
	logger *slog.Logger

	viewers map[*Viewer]struct{}

	// Payloads waiting to be fanned out.
	broadcast chan Message

	// Viewer arrivals and departures.
	join  chan *Viewer
	leave chan *Viewer

	// Closed by Stop to end the run loop.
	quit     chan struct{}
	stopOnce sync.Once

	mu      sync.RWMutex
	running bool
}

// New creates a hub. The name shows up in log lines; a nil logger
// falls back to slog.Default.
func New(name string, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		name:      name,
		logger:    logger.With("hub", name),
		viewers:   make(map[*Viewer]struct{}),
		broadcast: make(chan Message, 256),
		join:      make(chan *Viewer),
		leave:     make(chan *Viewer),
		quit:      make(chan struct{}),
	}
}

// Run drives the hub until Stop is called. Call it in a goroutine
// before attaching any viewers.
func (h *Hub) Run() {
	h.mu.Lock()
	h.running = true
	h.mu.Unlock()

	for {
		select {
		case <-h.quit:
			h.mu.Lock()
			for v := range h.viewers {
				h.removeLocked(v)
			}
			h.running = false
			h.mu.Unlock()
			return

		case v := <-h.join:
			h.mu.Lock()
			h.viewers[v] = struct{}{}
			count := len(h.viewers)
			h.mu.Unlock()
			h.logger.Debug("viewer connected", "total", count)

		case v := <-h.leave:
			h.mu.Lock()
			h.removeLocked(v)
			count := len(h.viewers)
			h.mu.Unlock()
			h.logger.Debug("viewer disconnected", "remaining", count)

		case msg := <-h.broadcast:
			h.mu.Lock()
			for v := range h.viewers {
				select {
				case v.send <- msg:
				default:
					// Buffer full. Cut the viewer loose so one
					// stalled browser tab cannot wedge the app.
					h.removeLocked(v)
					h.logger.Warn("dropped slow viewer")
				}
			}
			h.mu.Unlock()
		}
	}
}

// removeLocked detaches a viewer and closes its channel. Callers must
// hold the write lock. Calling it for a viewer already gone is a no-op.
func (h *Hub) removeLocked(v *Viewer) {
	if _, ok := h.viewers[v]; ok {
		delete(h.viewers, v)
		close(v.send)
	}
}

// Stop ends the run loop and disconnects every viewer.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.quit)
	})
}

// Broadcast queues a message for every connected viewer. It never
// blocks; when the queue is saturated the message is dropped.
func (h *Hub) Broadcast(msg Message) {
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("broadcast queue full, dropping message")
	}
}

// BroadcastJSON encodes v and broadcasts it as a text frame.
func (h *Hub) BroadcastJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.Broadcast(NewJSONMessage(data))
	return nil
}

// BroadcastBinary broadcasts raw bytes, such as an encoded PNG frame.
func (h *Hub) BroadcastBinary(data []byte) {
	h.Broadcast(NewBinaryMessage(data))
}

// ViewerCount reports how many viewers are attached right now.
func (h *Hub) ViewerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.viewers)
}

// Running reports whether the run loop is active.
func (h *Hub) Running() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.running
}
