package match

import "github.com/devsilvver/corrida-das-gemas/internal/arena"

// ApplyRemote overwrites enemies, resources, and match-wide state with the
// authority's view. Boards are left alone; they change only through
// ApplySummon and ApplyOutcome so unit ids stay in the authority's order.
func (m *Match) ApplyRemote(mine, theirs Resources, g Globals) {
	for _, pair := range []struct {
		side Side
		res  Resources
	}{{SideMine, mine}, {SideTheirs, theirs}} {
		s := m.state(pair.side)
		if s == nil {
			continue
		}
		s.enemies = append([]arena.Enemy(nil), pair.res.Enemies...)
		s.health = max(pair.res.Health, 0)
		s.mana = pair.res.Mana
		s.summonCost = pair.res.SummonCost
	}
	m.elapsedSeconds = g.ElapsedSeconds
	m.director.Timer = g.BossTimer
	m.director.BossActive = g.BossActive
	if g.BossHPMultiplier > 0 {
		m.director.BossHPMultiplier = g.BossHPMultiplier
	}
	if g.Winner != SideNone {
		m.finish(g.Winner, "health_depleted")
	}
}
