package match

import (
	"github.com/devsilvver/corrida-das-gemas/internal/arena"
	"github.com/devsilvver/corrida-das-gemas/internal/board"
	"github.com/devsilvver/corrida-das-gemas/internal/catalog"
)

// Mode selects who controls the opponent board.
type Mode string

const (
	ModePvE      Mode = "pve"
	ModeTraining Mode = "training"
	ModePvP      Mode = "pvp"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModePvE, ModeTraining, ModePvP:
		return true
	}
	return false
}

// OpponentActive reports whether the opponent board takes part in the match.
func (m Mode) OpponentActive() bool {
	return m == ModePvE || m == ModePvP
}

// Side names a board from the local peer's point of view.
type Side int

const (
	SideNone Side = iota
	SideMine
	SideTheirs
)

// Other returns the opposing side.
func (s Side) Other() Side {
	switch s {
	case SideMine:
		return SideTheirs
	case SideTheirs:
		return SideMine
	}
	return SideNone
}

func (s Side) String() string {
	switch s {
	case SideMine:
		return "mine"
	case SideTheirs:
		return "theirs"
	}
	return "none"
}

const (
	StartingMana   = 100
	TrainingMana   = 9999
	StartingHealth = 3
	BaseSummonCost = 10
	SummonCostStep = 15

	// AIIntervalMillis is how often the PvE opponent acts.
	AIIntervalMillis = 1100
	// IndicatorLifetimeMillis is how long a damage indicator stays visible.
	IndicatorLifetimeMillis = 1000
	// AttackFlagMillis is how long a unit shows its attack animation.
	AttackFlagMillis = 200

	secondMillis = 1000
)

// sideState is everything one board owns during a match.
type sideState struct {
	side       Side
	board      *board.Board
	deck       catalog.Deck
	path       arena.Path
	mana       int
	health     int
	summonCost int
	enemies    []arena.Enemy
	// Only the local player's board earns the priestess merge bonus.
	human     bool
	attacking map[int]int64
}

func newSideState(side Side, deck catalog.Deck, path arena.Path, mana int, human bool) *sideState {
	return &sideState{
		side:       side,
		board:      board.New(),
		deck:       deck,
		path:       path,
		mana:       mana,
		health:     StartingHealth,
		summonCost: BaseSummonCost,
		human:      human,
		attacking:  make(map[int]int64),
	}
}

func (s *sideState) loseHealth(amount int) {
	s.health -= amount
	if s.health < 0 {
		s.health = 0
	}
}

// Indicator is a transient damage number shown over an enemy.
type Indicator struct {
	ID        int     `json:"id"`
	Side      Side    `json:"side"`
	Amount    int     `json:"amount"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	CreatedAt int64   `json:"createdAt"`
}

// Resources is a copy of one side's mutable resources and enemies.
type Resources struct {
	Enemies    []arena.Enemy
	Health     int
	Mana       int
	SummonCost int
}

// Globals is the match-wide state shared by both boards.
type Globals struct {
	ElapsedSeconds   int     `json:"elapsedSeconds"`
	BossTimer        int     `json:"bossTimer"`
	BossActive       bool    `json:"bossActive"`
	BossHPMultiplier float64 `json:"bossHpMultiplier"`
	Winner           Side    `json:"winner"`
}

// MarshalText renders the side by name in snapshots and logs.
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
