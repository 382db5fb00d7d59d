package pvp

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/devsilvver/corrida-das-gemas/internal/net/intake"
	"github.com/devsilvver/corrida-das-gemas/internal/net/peer"
	"github.com/devsilvver/corrida-das-gemas/internal/net/proto"
	"github.com/devsilvver/corrida-das-gemas/internal/sim"
	"github.com/devsilvver/corrida-das-gemas/logging"
	loggingnetwork "github.com/devsilvver/corrida-das-gemas/logging/network"
)

const (
	inboxSize         = 1024
	pumpRetryInterval = 5 * time.Millisecond
)

// Link owns one peer channel for the lifetime of a session. Inbound
// envelopes are buffered in arrival order until the handshake or the loop
// pump consumes them.
type Link struct {
	role      Role
	ch        peer.Channel
	publisher logging.Publisher

	inbox     chan proto.Envelope
	closed    chan struct{}
	closeOnce sync.Once
}

// NewLink registers handlers on ch and starts delivery.
func NewLink(role Role, ch peer.Channel, publisher logging.Publisher) *Link {
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	l := &Link{
		role:      role,
		ch:        ch,
		publisher: publisher,
		inbox:     make(chan proto.Envelope, inboxSize),
		closed:    make(chan struct{}),
	}
	ch.OnMessage(l.receive)
	ch.OnDropped(func(err error, size int) {
		loggingnetwork.EnvelopeDropped(context.Background(), l.publisher, 0, l.ref(), loggingnetwork.EnvelopeDroppedPayload{
			Reason: err.Error(),
			Bytes:  size,
		}, nil)
	})
	ch.OnConnectionStateChange(func(state peer.State) {
		if state == peer.StateClosed {
			l.markClosed()
		}
	})
	ch.Start()
	return l
}

func (l *Link) ref() logging.EntityRef {
	return logging.EntityRef{ID: string(l.role), Kind: logging.EntityKindPeer}
}

func (l *Link) receive(env proto.Envelope) {
	select {
	case l.inbox <- env:
	case <-l.closed:
	}
}

func (l *Link) markClosed() {
	l.closeOnce.Do(func() {
		close(l.closed)
		loggingnetwork.PeerClosed(context.Background(), l.publisher, 0, l.ref(), loggingnetwork.PeerClosedPayload{
			Role:   string(l.role),
			Reason: "channel closed",
		}, nil)
	})
}

// Role is the local peer's role.
func (l *Link) Role() Role { return l.role }

// Closed is closed once the channel has gone away.
func (l *Link) Closed() <-chan struct{} { return l.closed }

// Send writes env to the peer.
func (l *Link) Send(env proto.Envelope) error {
	return l.ch.Send(env)
}

// Close tears the channel down.
func (l *Link) Close() error {
	err := l.ch.Close()
	l.markClosed()
	return err
}

// Recv returns the next inbound envelope. Envelopes received before the
// channel closed are still returned; after that Recv fails with
// ErrConnectionLost.
func (l *Link) Recv(ctx context.Context) (proto.Envelope, error) {
	select {
	case env := <-l.inbox:
		return env, nil
	default:
	}
	select {
	case env := <-l.inbox:
		return env, nil
	case <-l.closed:
		select {
		case env := <-l.inbox:
			return env, nil
		default:
			return proto.Envelope{}, ErrConnectionLost
		}
	case <-ctx.Done():
		return proto.Envelope{}, ctx.Err()
	}
}

// Pump stages inbound envelopes on queue until ctx ends or the channel
// closes. A closed channel enqueues an abandon carrying ErrConnectionLost so
// the loop ends the match on its own goroutine. Actions wait for queue space
// instead of being dropped.
func (l *Link) Pump(ctx context.Context, queue intake.Queue, tick func() uint64) error {
	stage := intake.CommandContext{
		Queue:   queue,
		Accepts: l.role.Accepts,
		Tick:    tick,
		Now:     time.Now,
	}
	for {
		env, err := l.Recv(ctx)
		if errors.Is(err, ErrConnectionLost) {
			enqueueLost(queue)
			return nil
		}
		if err != nil {
			return nil
		}
		_, ok, reason := intake.StageEnvelope(stage, env)
		for !ok && reason == intake.RejectQueueFull && env.Type == proto.TypeAction {
			// The replica cannot skip an action, so wait for the loop to drain.
			select {
			case <-ctx.Done():
				return nil
			case <-l.closed:
				enqueueLost(queue)
				return nil
			case <-time.After(pumpRetryInterval):
			}
			_, ok, reason = intake.StageEnvelope(stage, env)
		}
		if !ok {
			loggingnetwork.EnvelopeDropped(ctx, l.publisher, currentTick(tick), l.ref(), loggingnetwork.EnvelopeDroppedPayload{
				Type:   env.Type,
				Reason: reason,
			}, nil)
		}
	}
}

func enqueueLost(queue intake.Queue) {
	queue.Enqueue(sim.Command{
		Source:  sim.SourcePeer,
		Type:    sim.CommandAbandon,
		Abandon: &sim.AbandonCommand{Reason: "connection_lost", Err: ErrConnectionLost},
	})
}

func currentTick(tick func() uint64) uint64 {
	if tick == nil {
		return 0
	}
	return tick()
}
