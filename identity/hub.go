package identity

import (
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Handler processes one identity event
type Handler func(ev Event)

// Hub fans identity events out to subscribers.
// Publishers are serialized and handlers run synchronously on the publishing
// goroutine, so every subscriber observes events in emission order and has
// applied an event by the time Publish returns.
type Hub struct {
	pubMu  sync.Mutex
	mu     sync.RWMutex
	subs   map[uint64]*Subscription
	nextID uint64
	logger *zap.Logger
}

// NewHub creates an event hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subs:   make(map[uint64]*Subscription),
		logger: logger,
	}
}

// Subscription is a handle on one hub listener. Release it with Close.
type Subscription struct {
	id      uint64
	hub     *Hub
	handler Handler
	done    chan struct{}
	once    sync.Once
}

// Subscribe registers handler and returns its subscription handle
func (h *Hub) Subscribe(handler Handler) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	sub := &Subscription{
		id:      h.nextID,
		hub:     h,
		handler: handler,
		done:    make(chan struct{}),
	}
	h.subs[sub.id] = sub
	h.logger.Debug("auth listener subscribed", zap.Uint64("subscription", sub.id))
	return sub
}

// Publish delivers ev to every current subscriber, oldest subscription first.
// Handlers must not publish.
func (h *Hub) Publish(ev Event) {
	h.pubMu.Lock()
	defer h.pubMu.Unlock()

	h.mu.RLock()
	subs := make([]*Subscription, 0, len(h.subs))
	for _, s := range h.subs {
		subs = append(subs, s)
	}
	h.mu.RUnlock()

	if len(subs) == 0 {
		h.logger.Debug("no listeners for auth event", zap.String("event", ev.Name))
		return
	}

	sort.Slice(subs, func(i, j int) bool { return subs[i].id < subs[j].id })
	for _, s := range subs {
		if s.closed() {
			continue
		}
		s.handler(ev)
	}
}

// Subscribers returns the number of active listeners
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subs)
}

// Done is closed once the subscription is released
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Close releases the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		close(s.done)

		s.hub.mu.Lock()
		delete(s.hub.subs, s.id)
		s.hub.mu.Unlock()

		s.hub.logger.Debug("auth listener unsubscribed", zap.Uint64("subscription", s.id))
	})
}

func (s *Subscription) closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}
