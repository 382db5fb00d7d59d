package pvp

import (
	"context"
	"errors"

	"github.com/devsilvver/corrida-das-gemas/internal/board"
	"github.com/devsilvver/corrida-das-gemas/internal/match"
	"github.com/devsilvver/corrida-das-gemas/internal/net/peer"
	"github.com/devsilvver/corrida-das-gemas/internal/net/proto"
	"github.com/devsilvver/corrida-das-gemas/internal/sim"
	"github.com/devsilvver/corrida-das-gemas/logging"
	loggingnetwork "github.com/devsilvver/corrida-das-gemas/logging/network"
)

// GuestEngine mirrors a host-run match. Local intents become requests; the
// boards change only when the host's actions arrive, and everything else
// comes from the host's state broadcasts.
type GuestEngine struct {
	match *match.Match
	link  *Link
	cfg   EngineConfig
	err   error
}

// NewGuestEngine adapts a replica match to the loop.
func NewGuestEngine(m *match.Match, link *Link, cfg EngineConfig) *GuestEngine {
	return &GuestEngine{match: m, link: link, cfg: cfg.normalized()}
}

func (e *GuestEngine) Match() *match.Match { return e.match }

func (e *GuestEngine) Apply(ctx sim.TickContext, cmds []sim.Command) {
	e.match.SetNow(ctx.Now.UnixMilli())
	for _, cmd := range cmds {
		switch cmd.Type {
		case sim.CommandSummon:
			if !e.match.Done() {
				e.send(proto.Envelope{Type: proto.TypeRequestSummon})
			}
		case sim.CommandMerge:
			if cmd.Merge != nil {
				e.requestMerge(cmd.Merge.SourceID, cmd.Merge.TargetID)
			}
		case sim.CommandDrop:
			if cmd.Drop != nil {
				e.requestDrop(cmd.Drop)
			}
		case sim.CommandEnvelope:
			if cmd.Envelope != nil {
				e.handle(*cmd.Envelope)
			}
		case sim.CommandAbandon:
			reason := "abandoned"
			if cmd.Abandon != nil {
				reason = cmd.Abandon.Reason
				if !e.match.Done() {
					e.err = cmd.Abandon.Err
				}
			}
			e.match.Abandon(reason)
		}
	}
}

func (e *GuestEngine) requestMerge(sourceID, targetID int) {
	if e.match.Done() || sourceID == targetID {
		return
	}
	e.send(proto.Envelope{Type: proto.TypeRequestMerge, Payload: proto.RequestMerge{Unit1ID: sourceID, Unit2ID: targetID}})
}

// requestDrop applies the drop rules against the mirrored board so empty
// cells and cooling-down units never reach the host.
func (e *GuestEngine) requestDrop(drop *sim.DropCommand) {
	b := e.match.Board(match.SideMine)
	source, ok := b.Get(drop.SourceID)
	if !ok || source.AbilityCooldownUntil > e.match.Now() {
		return
	}
	target, ok := b.At(dropCell(drop))
	if !ok {
		return
	}
	e.requestMerge(source.ID, target.ID)
}

func (e *GuestEngine) handle(env proto.Envelope) {
	switch env.Type {
	case proto.TypeAction:
		action, ok := proto.Payload[proto.Action](env)
		if !ok || !e.applyAction(action) {
			e.dropped(env.Type, "stale_action")
		}
	case proto.TypeState:
		state, ok := proto.Payload[proto.State](env)
		if !ok {
			e.dropped(env.Type, "malformed_state")
			return
		}
		e.applyState(state)
	}
}

func (e *GuestEngine) applyAction(action proto.Action) bool {
	side := RoleGuest.Side(action.ForPlayer)
	if action.Type == proto.ActionSummon {
		if action.NewUnit == nil {
			return false
		}
		return e.match.ApplySummon(side, *action.NewUnit, action.NewSummonCost)
	}
	outcome, ok := actionOutcome(action)
	if !ok {
		return false
	}
	return e.match.ApplyOutcome(side, outcome)
}

func (e *GuestEngine) applyState(state proto.State) {
	e.match.ApplyRemote(resources(state.Guest), resources(state.Host), match.Globals{
		ElapsedSeconds:   state.ElapsedSeconds,
		BossTimer:        state.BossTimer,
		BossActive:       state.BossActive,
		BossHPMultiplier: state.BossHPMultiplier,
		Winner:           RoleGuest.winnerSide(state.Winner),
	})
}

func (e *GuestEngine) dropped(kind, reason string) {
	loggingnetwork.EnvelopeDropped(context.Background(), e.cfg.Publisher, e.match.Tick(), logging.EntityRef{ID: string(RoleHost), Kind: logging.EntityKindPeer}, loggingnetwork.EnvelopeDroppedPayload{
		Type:   kind,
		Reason: reason,
	}, nil)
}

func (e *GuestEngine) send(env proto.Envelope) {
	if err := e.link.Send(env); err != nil && !errors.Is(err, peer.ErrClosed) {
		e.cfg.Logger.Printf("failed to send %s to host: %v", env.Type, err)
	}
}

func (e *GuestEngine) Step(ctx sim.TickContext) {
	e.match.Step(ctx.Now.UnixMilli())
}

func (e *GuestEngine) Finished() (bool, error) {
	return e.match.Done(), e.err
}

func dropCell(drop *sim.DropCommand) board.Cell {
	return board.Cell{Row: drop.Row, Col: drop.Col}
}
