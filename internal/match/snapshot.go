package match

import (
	"github.com/devsilvver/corrida-das-gemas/internal/arena"
	"github.com/devsilvver/corrida-das-gemas/internal/board"
)

// UnitView is a unit annotated for rendering.
type UnitView struct {
	board.Unit
	CultistState board.CultistState `json:"cultistState"`
	Attacking    bool               `json:"attacking"`
}

// EnemyView is an enemy annotated for rendering.
type EnemyView struct {
	arena.Enemy
	HealthRatio float64 `json:"healthRatio"`
}

// SideSnapshot is everything the renderer draws for one board.
type SideSnapshot struct {
	Side       Side        `json:"side"`
	Units      []UnitView  `json:"units"`
	Enemies    []EnemyView `json:"enemies"`
	Indicators []Indicator `json:"indicators"`
	Mana       int         `json:"mana"`
	Health     int         `json:"health"`
	SummonCost int         `json:"summonCost"`
	CanSummon  bool        `json:"canSummon"`
}

// Snapshot is a deep copy of the match for the render collaborator. It
// shares no memory with the match.
type Snapshot struct {
	Tick    uint64        `json:"tick"`
	Now     int64         `json:"now"`
	Mode    Mode          `json:"mode"`
	Replica bool          `json:"replica"`
	Mine    SideSnapshot  `json:"mine"`
	Theirs  *SideSnapshot `json:"theirs,omitempty"`
	Globals
}

// Snapshot renders the current state.
func (m *Match) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:    m.tick,
		Now:     m.now,
		Mode:    m.mode,
		Replica: m.replica,
		Mine:    m.sideSnapshot(m.sides[0]),
		Globals: m.Globals(),
	}
	if m.sides[1] != nil {
		theirs := m.sideSnapshot(m.sides[1])
		snap.Theirs = &theirs
	}
	return snap
}

func (m *Match) sideSnapshot(s *sideState) SideSnapshot {
	units := s.board.Units()
	views := make([]UnitView, len(units))
	for i, u := range units {
		_, attacking := s.attacking[u.ID]
		views[i] = UnitView{Unit: u, CultistState: s.board.CultistStateOf(u), Attacking: attacking}
	}
	enemies := make([]EnemyView, len(s.enemies))
	for i, e := range s.enemies {
		enemies[i] = EnemyView{Enemy: e, HealthRatio: e.HealthRatio()}
	}
	indicators := make([]Indicator, 0)
	for _, indicator := range m.indicators {
		if indicator.Side == s.side {
			indicators = append(indicators, indicator)
		}
	}
	affordable := m.mode == ModeTraining || s.mana >= s.summonCost
	return SideSnapshot{
		Side:       s.side,
		Units:      views,
		Enemies:    enemies,
		Indicators: indicators,
		Mana:       s.mana,
		Health:     s.health,
		SummonCost: s.summonCost,
		CanSummon:  !m.Done() && !s.board.Full() && affordable,
	}
}
