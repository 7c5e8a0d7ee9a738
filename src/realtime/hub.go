package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"
)

const (
	EventJoinRoom       = "join_room"
	EventJoined         = "joined"
	EventSendMessage    = "send_message"
	EventReceiveMessage = "receive_message"
	EventError          = "error"
)

// subscriptionBuffer bounds how far a slow socket may fall behind before
// deliveries to it are dropped
const subscriptionBuffer = 64

// Envelope is the JSON frame exchanged over a socket and carried through a Hub.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NewEnvelope marshals data into an Envelope for event.
func NewEnvelope(event string, data any) (Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", event, err)
	}
	return Envelope{Event: event, Data: raw}, nil
}

// Hub fans envelopes out to every live subscription of a user's channel.
// Delivery is at most once, with no acknowledgement and no retry; within one
// channel envelopes arrive in publish order.
type Hub interface {
	Subscribe(ctx context.Context, userID uint) (*Subscription, error)
	Publish(ctx context.Context, userID uint, env Envelope) error
	Close() error
}

// Subscription is one live handle on a user channel.
type Subscription struct {
	ID     string
	UserID uint
	C      <-chan Envelope

	once   sync.Once
	cancel func()
}

// Close detaches the subscription; C is closed afterwards. Safe to call twice.
func (s *Subscription) Close() {
	s.once.Do(s.cancel)
}

// channelKey is the channel name for a user, shared by every Hub implementation
func channelKey(userID uint) string {
	return "user:" + strconv.FormatUint(uint64(userID), 10)
}

// MemoryHub is a Hub for a single process: user id -> set of subscription channels.
type MemoryHub struct {
	mu   sync.RWMutex
	subs map[uint]map[string]chan Envelope
}

func NewMemoryHub() *MemoryHub {
	return &MemoryHub{subs: make(map[uint]map[string]chan Envelope)}
}

func (h *MemoryHub) Subscribe(_ context.Context, userID uint) (*Subscription, error) {
	id := uuid.NewString()
	ch := make(chan Envelope, subscriptionBuffer)

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[string]chan Envelope)
	}
	h.subs[userID][id] = ch
	h.mu.Unlock()

	return &Subscription{
		ID:     id,
		UserID: userID,
		C:      ch,
		cancel: func() { h.remove(userID, id) },
	}, nil
}

func (h *MemoryHub) remove(userID uint, id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	handles := h.subs[userID]
	ch, ok := handles[id]
	if !ok {
		return
	}
	delete(handles, id)
	close(ch)
	if len(handles) == 0 {
		delete(h.subs, userID)
	}
}

func (h *MemoryHub) Publish(_ context.Context, userID uint, env Envelope) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subs[userID] {
		select {
		case ch <- env:
		default:
			// Suscriptor lento: se descarta la entrega
		}
	}
	return nil
}

// Subscribers returns how many live handles userID currently has
func (h *MemoryHub) Subscribers(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}

// Close drops every subscription.
func (h *MemoryHub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, handles := range h.subs {
		for id, ch := range handles {
			close(ch)
			delete(handles, id)
		}
		delete(h.subs, userID)
	}
	return nil
}
