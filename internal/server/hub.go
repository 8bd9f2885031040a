package server

import (
	"sync"

	"go.uber.org/zap"

	"sealchat/internal/domain"
)

// subscriberBuffer is how many messages a slow websocket may fall behind
// before it is dropped.
const subscriberBuffer = 32

type subscriber struct {
	ch   chan domain.SealedMessage
	once sync.Once
}

func (s *subscriber) close() { s.once.Do(func() { close(s.ch) }) }

// Hub fans new messages out to the websocket subscribers of each chat.
type Hub struct {
	mu      sync.Mutex
	chats   map[domain.ChatID]map[*subscriber]struct{}
	metrics *Metrics
	log     *zap.Logger
}

func NewHub(m *Metrics, log *zap.Logger) *Hub {
	return &Hub{
		chats:   make(map[domain.ChatID]map[*subscriber]struct{}),
		metrics: m,
		log:     log,
	}
}

// Subscribe registers a receiver for chat. The returned cancel func must be
// called when the receiver goes away; the channel is closed afterwards.
func (h *Hub) Subscribe(chat domain.ChatID) (<-chan domain.SealedMessage, func()) {
	sub := &subscriber{ch: make(chan domain.SealedMessage, subscriberBuffer)}

	h.mu.Lock()
	subs, ok := h.chats[chat]
	if !ok {
		subs = make(map[*subscriber]struct{})
		h.chats[chat] = subs
	}
	subs[sub] = struct{}{}
	h.mu.Unlock()
	h.metrics.Subscribers.Inc()

	return sub.ch, func() { h.remove(chat, sub) }
}

// Broadcast delivers m to every subscriber of its chat without blocking.
func (h *Hub) Broadcast(m domain.SealedMessage) {
	h.mu.Lock()
	var slow []*subscriber
	for sub := range h.chats[m.ChatID] {
		select {
		case sub.ch <- m:
		default:
			slow = append(slow, sub)
		}
	}
	h.mu.Unlock()

	for _, sub := range slow {
		h.log.Warn("dropping slow subscriber", zap.String("chat_id", m.ChatID.String()))
		h.remove(m.ChatID, sub)
	}
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	chats := h.chats
	h.chats = make(map[domain.ChatID]map[*subscriber]struct{})
	h.mu.Unlock()

	for _, subs := range chats {
		for sub := range subs {
			sub.close()
			h.metrics.Subscribers.Dec()
		}
	}
}

func (h *Hub) remove(chat domain.ChatID, sub *subscriber) {
	h.mu.Lock()
	subs, ok := h.chats[chat]
	_, present := subs[sub]
	if ok && present {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.chats, chat)
		}
	}
	h.mu.Unlock()

	if present {
		sub.close()
		h.metrics.Subscribers.Dec()
	}
}
