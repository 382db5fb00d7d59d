package pvp

import (
	"github.com/devsilvver/corrida-das-gemas/internal/match"
	"github.com/devsilvver/corrida-das-gemas/internal/sim"
	"github.com/devsilvver/corrida-das-gemas/logging"
)

// NewMatch builds this peer's match for an agreed start. The guest's match
// is a replica of the host's.
func NewMatch(role Role, start Start, rng match.Rand, publisher logging.Publisher) (*match.Match, error) {
	mine, theirs := start.Decks(role)
	return match.New(match.Config{
		Mode:         match.ModePvP,
		PlayerDeck:   mine,
		OpponentDeck: theirs,
		RNG:          rng,
		Publisher:    publisher,
		Replica:      role == RoleGuest,
	})
}

// Engine is a loop engine that exposes its match for rendering.
type Engine interface {
	sim.Engine
	Match() *match.Match
}

// NewEngine returns the engine for role.
func NewEngine(role Role, m *match.Match, link *Link, cfg EngineConfig) Engine {
	if role == RoleHost {
		return NewHostEngine(m, link, cfg)
	}
	return NewGuestEngine(m, link, cfg)
}
