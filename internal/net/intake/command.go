package intake

import (
	"time"

	"github.com/devsilvver/corrida-das-gemas/internal/net/proto"
	"github.com/devsilvver/corrida-das-gemas/internal/sim"
)

// Reasons a peer envelope is not staged.
const (
	RejectUnexpectedType = "unexpected_type"
	RejectMissingPayload = "missing_payload"
	RejectQueueFull      = "queue_full"
)

// Queue is the part of the loop intake needs.
type Queue interface {
	Enqueue(sim.Command) bool
}

// CommandContext binds envelope staging to a loop and a role's rules.
type CommandContext struct {
	Queue Queue
	// Accepts reports whether the receiving role handles envelopes of type.
	Accepts func(string) bool
	Tick    func() uint64
	Now     func() time.Time
}

// StageEnvelope validates a decoded peer envelope and queues it for the next
// tick. Nothing touches match state here; the tick goroutine applies it.
func StageEnvelope(ctx CommandContext, env proto.Envelope) (sim.Command, bool, string) {
	var zero sim.Command

	if ctx.Accepts != nil && !ctx.Accepts(env.Type) {
		return zero, false, RejectUnexpectedType
	}
	if env.Type != proto.TypeRequestSummon && env.Payload == nil {
		return zero, false, RejectMissingPayload
	}

	envelope := env
	command := sim.Command{
		Source:   sim.SourcePeer,
		Type:     sim.CommandEnvelope,
		Envelope: &envelope,
	}
	if ctx.Tick != nil {
		command.OriginTick = ctx.Tick()
	}
	if ctx.Now != nil {
		command.IssuedAt = ctx.Now()
	} else {
		command.IssuedAt = time.Now()
	}

	if ctx.Queue == nil || !ctx.Queue.Enqueue(command) {
		return zero, false, RejectQueueFull
	}
	return command, true, ""
}
