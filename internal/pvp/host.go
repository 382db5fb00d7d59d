package pvp

import (
	"context"
	"errors"

	"github.com/devsilvver/corrida-das-gemas/internal/match"
	"github.com/devsilvver/corrida-das-gemas/internal/net/peer"
	"github.com/devsilvver/corrida-das-gemas/internal/net/proto"
	"github.com/devsilvver/corrida-das-gemas/internal/sim"
	"github.com/devsilvver/corrida-das-gemas/internal/telemetry"
	"github.com/devsilvver/corrida-das-gemas/logging"
	loggingnetwork "github.com/devsilvver/corrida-das-gemas/logging/network"
)

// DefaultStateIntervalTicks is how often the host broadcasts state.
const DefaultStateIntervalTicks = 5

// EngineConfig is shared by the host and guest engines.
type EngineConfig struct {
	Publisher logging.Publisher
	Logger    telemetry.Logger
	// StateIntervalTicks applies to the host only.
	StateIntervalTicks int
}

func (c EngineConfig) normalized() EngineConfig {
	if c.Publisher == nil {
		c.Publisher = logging.NopPublisher()
	}
	if c.Logger == nil {
		c.Logger = telemetry.LoggerFunc(nil)
	}
	if c.StateIntervalTicks <= 0 {
		c.StateIntervalTicks = DefaultStateIntervalTicks
	}
	return c
}

// HostEngine runs the authoritative PvP match. It simulates both boards,
// resolves the guest's requests against its copy of the guest board, and
// sends every decided action and periodic state to the guest.
type HostEngine struct {
	match *match.Match
	link  *Link
	cfg   EngineConfig

	err       error
	finalSent bool
}

// NewHostEngine adapts an authoritative pvp match to the loop.
func NewHostEngine(m *match.Match, link *Link, cfg EngineConfig) *HostEngine {
	return &HostEngine{match: m, link: link, cfg: cfg.normalized()}
}

func (e *HostEngine) Match() *match.Match { return e.match }

func (e *HostEngine) Apply(ctx sim.TickContext, cmds []sim.Command) {
	e.match.SetNow(ctx.Now.UnixMilli())
	for _, cmd := range cmds {
		switch cmd.Type {
		case sim.CommandSummon:
			e.summon(match.SideMine)
		case sim.CommandMerge:
			if cmd.Merge != nil {
				e.merge(match.SideMine, cmd.Merge.SourceID, cmd.Merge.TargetID)
			}
		case sim.CommandDrop:
			if cmd.Drop != nil {
				if outcome, ok := e.match.AttemptDrop(match.SideMine, cmd.Drop.SourceID, dropCell(cmd.Drop)); ok {
					e.send(proto.TypeAction, outcomeAction(outcome, true))
				}
			}
		case sim.CommandEnvelope:
			if cmd.Envelope != nil {
				e.handleRequest(*cmd.Envelope)
			}
		case sim.CommandAbandon:
			e.abandon(cmd.Abandon)
		}
	}
}

func (e *HostEngine) handleRequest(env proto.Envelope) {
	switch env.Type {
	case proto.TypeRequestSummon:
		if !e.summon(match.SideTheirs) {
			e.rejected(loggingnetwork.RequestRejectedPayload{Type: env.Type})
		}
	case proto.TypeRequestMerge:
		req, ok := proto.Payload[proto.RequestMerge](env)
		if !ok || !e.merge(match.SideTheirs, req.Unit1ID, req.Unit2ID) {
			e.rejected(loggingnetwork.RequestRejectedPayload{Type: env.Type, Unit1ID: req.Unit1ID, Unit2ID: req.Unit2ID})
		}
	}
}

func (e *HostEngine) summon(side match.Side) bool {
	result, ok := e.match.Summon(side)
	if !ok {
		return false
	}
	e.send(proto.TypeAction, summonAction(result, RoleHost.ForPlayer(side)))
	return true
}

func (e *HostEngine) merge(side match.Side, sourceID, targetID int) bool {
	outcome, ok := e.match.AttemptMerge(side, sourceID, targetID)
	if !ok {
		return false
	}
	e.send(proto.TypeAction, outcomeAction(outcome, RoleHost.ForPlayer(side)))
	return true
}

func (e *HostEngine) rejected(payload loggingnetwork.RequestRejectedPayload) {
	loggingnetwork.RequestRejected(context.Background(), e.cfg.Publisher, e.match.Tick(), logging.EntityRef{ID: string(RoleGuest), Kind: logging.EntityKindPeer}, payload, nil)
}

func (e *HostEngine) abandon(cmd *sim.AbandonCommand) {
	reason := "abandoned"
	if cmd != nil {
		reason = cmd.Reason
		// A peer leaving after the result is known does not fail the run.
		if !e.match.Done() {
			e.err = cmd.Err
		}
	}
	e.match.Abandon(reason)
}

func (e *HostEngine) Step(ctx sim.TickContext) {
	e.match.Step(ctx.Now.UnixMilli())
	if e.match.Done() {
		if !e.finalSent {
			e.finalSent = true
			e.broadcast()
		}
		return
	}
	if e.match.Tick()%uint64(e.cfg.StateIntervalTicks) == 0 {
		e.broadcast()
	}
}

func (e *HostEngine) broadcast() {
	e.send(proto.TypeState, HostState(e.match))
}

// HostState renders the host's match as the host-relative state payload.
func HostState(m *match.Match) proto.State {
	mine, _ := m.Resources(match.SideMine)
	theirs, _ := m.Resources(match.SideTheirs)
	g := m.Globals()
	return proto.State{
		Tick:             m.Tick(),
		Host:             sideState(mine),
		Guest:            sideState(theirs),
		ElapsedSeconds:   g.ElapsedSeconds,
		BossTimer:        g.BossTimer,
		BossActive:       g.BossActive,
		BossHPMultiplier: g.BossHPMultiplier,
		Winner:           RoleHost.winnerTag(g.Winner),
	}
}

func (e *HostEngine) send(kind string, payload any) {
	if err := e.link.Send(proto.Envelope{Type: kind, Payload: payload}); err != nil && !errors.Is(err, peer.ErrClosed) {
		e.cfg.Logger.Printf("failed to send %s to guest: %v", kind, err)
	}
}

func (e *HostEngine) Finished() (bool, error) {
	return e.match.Done(), e.err
}
