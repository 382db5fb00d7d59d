package peer

import (
	"errors"
	"sync"

	"github.com/devsilvver/corrida-das-gemas/internal/net/proto"
)

// State is the connection state reported to OnConnectionStateChange.
type State string

const (
	StateOpen   State = "open"
	StateClosed State = "closed"
)

// ErrClosed is returned by Send once the channel has closed.
var ErrClosed = errors.New("peer channel closed")

// MessageHandler receives decoded envelopes in the order they were sent.
type MessageHandler func(proto.Envelope)

// StateHandler receives connection state transitions.
type StateHandler func(State)

// DropHandler is told about frames that could not be decoded.
type DropHandler func(err error, size int)

// Channel is an ordered, reliable, duplex envelope channel to the other
// peer. Handlers must be registered before Start; they run on the channel's
// delivery goroutine and must not block.
type Channel interface {
	Send(proto.Envelope) error
	OnMessage(MessageHandler)
	OnConnectionStateChange(StateHandler)
	OnDropped(DropHandler)
	// Start begins delivery and reports StateOpen.
	Start()
	Close() error
}

type handlers struct {
	mu        sync.RWMutex
	onMessage MessageHandler
	onState   StateHandler
	onDropped DropHandler
	closeOnce sync.Once
}

func (h *handlers) OnMessage(fn MessageHandler) {
	h.mu.Lock()
	h.onMessage = fn
	h.mu.Unlock()
}

func (h *handlers) OnConnectionStateChange(fn StateHandler) {
	h.mu.Lock()
	h.onState = fn
	h.mu.Unlock()
}

func (h *handlers) OnDropped(fn DropHandler) {
	h.mu.Lock()
	h.onDropped = fn
	h.mu.Unlock()
}

func (h *handlers) deliver(env proto.Envelope) {
	h.mu.RLock()
	fn := h.onMessage
	h.mu.RUnlock()
	if fn != nil {
		fn(env)
	}
}

func (h *handlers) dropped(err error, size int) {
	h.mu.RLock()
	fn := h.onDropped
	h.mu.RUnlock()
	if fn != nil {
		fn(err, size)
	}
}

func (h *handlers) opened() {
	h.mu.RLock()
	fn := h.onState
	h.mu.RUnlock()
	if fn != nil {
		fn(StateOpen)
	}
}

// closed reports StateClosed at most once.
func (h *handlers) closed() {
	h.closeOnce.Do(func() {
		h.mu.RLock()
		fn := h.onState
		h.mu.RUnlock()
		if fn != nil {
			fn(StateClosed)
		}
	})
}
