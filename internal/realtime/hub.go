// Package realtime pushes community activity (new startups, events,
// discussions, likes) to connected WebSocket clients. All clients share a
// single feed; Redis pub/sub fans events out across instances.
package realtime

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

const (
	// PingInterval and PongWait are used for heartbeat (seconds).
	PingInterval = 30
	PongWait     = 60
)

// Feed event names.
const (
	EventStartupCreated     = "startup_created"
	EventEventCreated       = "event_created"
	EventEventParticipation = "event_participation"
	EventDiscussionCreated  = "discussion_created"
	EventDiscussionDeleted  = "discussion_deleted"
	EventDiscussionLiked    = "discussion_liked"
)

// RedisPublisher publishes feed events to Redis for cross-instance broadcast.
type RedisPublisher interface {
	PublishFeedEvent(event string, payload []byte) error
}

// RedisSubscriber subscribes to the feed channel and invokes handler for incoming events.
type RedisSubscriber interface {
	SubscribeFeed(handler func(event string, payload []byte)) (cancel func(), err error)
}

// Hub maintains the set of connected clients and broadcasts feed events.
type Hub struct {
	clients  map[string]*Client
	mu       sync.RWMutex
	logger   *zap.Logger
	redis    RedisPublisher
	redisSub RedisSubscriber
	cancel   func()
}

// NewHub creates a WebSocket hub. redisPub and redisSub may be nil, in which
// case events only reach clients on this instance.
func NewHub(logger *zap.Logger, redisPub RedisPublisher, redisSub RedisSubscriber) *Hub {
	return &Hub{
		clients:  make(map[string]*Client),
		logger:   logger,
		redis:    redisPub,
		redisSub: redisSub,
	}
}

// Start subscribes to the Redis feed channel. Incoming messages are broadcast
// to local clients; this includes messages this instance published itself.
func (h *Hub) Start() error {
	if h.redisSub == nil {
		return nil
	}
	cancel, err := h.redisSub.SubscribeFeed(func(event string, payload []byte) {
		h.Broadcast(event, json.RawMessage(payload))
	})
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.cancel = cancel
	h.mu.Unlock()
	return nil
}

// Stop cancels the Redis subscription.
func (h *Hub) Stop() {
	h.mu.Lock()
	cancel := h.cancel
	h.cancel = nil
	h.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Register adds a client to the feed.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()
	h.logger.Debug("client joined feed", zap.String("client_id", c.ID))
}

// Unregister removes a client from the feed.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	delete(h.clients, c.ID)
	h.mu.Unlock()
	h.logger.Debug("client left feed", zap.String("client_id", c.ID))
}

// ClientCount returns the number of connected clients on this instance.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends an event to all clients on this instance only.
func (h *Hub) Broadcast(event string, payload interface{}) {
	var data []byte
	switch v := payload.(type) {
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	default:
		data, _ = json.Marshal(payload)
	}
	msg := WSMessage{Event: event, Data: data}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		select {
		case c.send <- msg:
		default:
			// buffer full, skip
		}
	}
}

// Publish sends an event through Redis so every instance (including this one)
// broadcasts it exactly once. Without Redis it falls back to a local broadcast.
func (h *Hub) Publish(event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if h.redis != nil {
		if err := h.redis.PublishFeedEvent(event, data); err == nil {
			return
		}
		h.logger.Warn("feed publish failed, broadcasting locally", zap.String("event", event))
	}
	h.Broadcast(event, json.RawMessage(data))
}
