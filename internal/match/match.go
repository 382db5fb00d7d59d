package match

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/devsilvver/corrida-das-gemas/internal/arena"
	"github.com/devsilvver/corrida-das-gemas/internal/board"
	"github.com/devsilvver/corrida-das-gemas/internal/catalog"
	"github.com/devsilvver/corrida-das-gemas/internal/combat"
	"github.com/devsilvver/corrida-das-gemas/internal/wave"
	"github.com/devsilvver/corrida-das-gemas/logging"
	loggingcombat "github.com/devsilvver/corrida-das-gemas/logging/combat"
	loggingeconomy "github.com/devsilvver/corrida-das-gemas/logging/economy"
	loggingmatch "github.com/devsilvver/corrida-das-gemas/logging/match"
)

// Rand is the random source a match draws from.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// Config describes one match.
type Config struct {
	Mode       Mode
	PlayerDeck catalog.Deck
	// OpponentDeck defaults to PlayerDeck when empty.
	OpponentDeck catalog.Deck
	RNG          Rand
	Publisher    logging.Publisher
	// Replica marks a mirror of a match simulated elsewhere. A replica never
	// runs waves, movement, combat, or AI, and never resolves intents itself.
	Replica bool
}

// Match owns all mutable state of one game. It is not safe for concurrent
// use; the loop goroutine is the only caller.
type Match struct {
	mode      Mode
	replica   bool
	rng       Rand
	publisher logging.Publisher
	director  *wave.Director
	sides     [2]*sideState

	started        bool
	tick           uint64
	now            int64
	nextSecondAt   int64
	nextAIAt       int64
	elapsedSeconds int

	winner    Side
	ended     bool
	endReason string

	indicators      []Indicator
	nextIndicatorID int
}

// New validates cfg and builds a match that has not started ticking yet.
func New(cfg Config) (*Match, error) {
	if !cfg.Mode.Valid() {
		return nil, fmt.Errorf("unknown mode %q", cfg.Mode)
	}
	if len(cfg.PlayerDeck) == 0 {
		return nil, fmt.Errorf("player deck: %w", catalog.ErrInvalidDeck)
	}
	if cfg.RNG == nil {
		return nil, errors.New("match requires a random source")
	}
	opponentDeck := cfg.OpponentDeck
	if len(opponentDeck) == 0 {
		opponentDeck = cfg.PlayerDeck
	}
	publisher := cfg.Publisher
	if publisher == nil {
		publisher = logging.NopPublisher()
	}

	mana := StartingMana
	if cfg.Mode == ModeTraining {
		mana = TrainingMana
	}
	m := &Match{
		mode:      cfg.Mode,
		replica:   cfg.Replica,
		rng:       cfg.RNG,
		publisher: publisher,
		director:  wave.NewDirector(),
	}
	m.sides[0] = newSideState(SideMine, cfg.PlayerDeck, arena.PlayerPath(), mana, true)
	if cfg.Mode.OpponentActive() {
		m.sides[1] = newSideState(SideTheirs, opponentDeck, arena.OpponentPath(), StartingMana, false)
	}
	return m, nil
}

func (m *Match) state(side Side) *sideState {
	switch side {
	case SideMine:
		return m.sides[0]
	case SideTheirs:
		return m.sides[1]
	}
	return nil
}

func (m *Match) activeSides() []*sideState {
	if m.sides[1] == nil {
		return m.sides[:1]
	}
	return m.sides[:]
}

func (m *Match) Mode() Mode { return m.mode }

// Replica reports whether this match mirrors a remote authority.
func (m *Match) Replica() bool { return m.replica }

func (m *Match) Tick() uint64 { return m.tick }

// Now is the match clock in unix milliseconds as of the last tick.
func (m *Match) Now() int64 { return m.now }

// Winner is SideNone until one side's health is depleted.
func (m *Match) Winner() Side { return m.winner }

// Done reports whether the match has a winner or was abandoned.
func (m *Match) Done() bool { return m.winner != SideNone || m.ended }

// EndReason describes why the match ended.
func (m *Match) EndReason() string { return m.endReason }

// Board exposes a side's board. Only the loop goroutine may touch it.
func (m *Match) Board(side Side) *board.Board {
	if s := m.state(side); s != nil {
		return s.board
	}
	return nil
}

// Deck returns the deck a side samples from.
func (m *Match) Deck(side Side) catalog.Deck {
	if s := m.state(side); s != nil {
		return s.deck
	}
	return nil
}

// Resources copies a side's resources and enemies.
func (m *Match) Resources(side Side) (Resources, bool) {
	s := m.state(side)
	if s == nil {
		return Resources{}, false
	}
	return Resources{
		Enemies:    append([]arena.Enemy(nil), s.enemies...),
		Health:     s.health,
		Mana:       s.mana,
		SummonCost: s.summonCost,
	}, true
}

// Globals copies the match-wide state.
func (m *Match) Globals() Globals {
	return Globals{
		ElapsedSeconds:   m.elapsedSeconds,
		BossTimer:        m.director.Timer,
		BossActive:       m.director.BossActive,
		BossHPMultiplier: m.director.BossHPMultiplier,
		Winner:           m.winner,
	}
}

// SetNow advances the match clock without simulating, so intents applied
// before a tick see the tick's timestamp. The first call starts the match.
func (m *Match) SetNow(now int64) {
	if !m.started {
		m.start(now)
	}
	if now > m.now {
		m.now = now
	}
}

func (m *Match) start(now int64) {
	m.started = true
	m.now = now
	m.nextSecondAt = now + secondMillis
	m.nextAIAt = now + AIIntervalMillis
	payload := loggingmatch.StartedPayload{
		Mode:           string(m.mode),
		PlayerDeck:     m.sides[0].deck.IDs(),
		Authoritative:  !m.replica,
		OpponentActive: m.sides[1] != nil,
	}
	if m.sides[1] != nil {
		payload.OpponentDeck = m.sides[1].deck.IDs()
	}
	loggingmatch.Started(context.Background(), m.publisher, m.tick, matchRef(), payload, nil)
}

// Step runs one tick at now (unix milliseconds). Elapsed-second and AI
// timers fire from timestamp comparisons, then movement resolves before
// combat on every active board. A finished match only decays presentation.
func (m *Match) Step(now int64) {
	m.SetNow(now)
	m.tick++
	if !m.replica && !m.Done() {
		for !m.Done() && m.now >= m.nextSecondAt {
			m.nextSecondAt += secondMillis
			m.second()
		}
		if m.mode == ModePvE && m.now >= m.nextAIAt {
			m.nextAIAt += AIIntervalMillis
			m.opponentTurn()
		}
		for _, s := range m.activeSides() {
			m.move(s)
		}
		for _, s := range m.activeSides() {
			m.fight(s)
		}
		m.deriveWinner()
	}
	m.decay()
}

func (m *Match) second() {
	m.elapsedSeconds++
	plan := m.director.Second()
	if plan.Wave {
		for _, s := range m.activeSides() {
			m.spawn(s, wave.WaveType(m.rng, m.elapsedSeconds))
		}
	}
	if plan.Boss {
		var hp float64
		for _, s := range m.activeSides() {
			hp = m.spawn(s, arena.EnemyBoss).HP
		}
		loggingmatch.BossSpawned(context.Background(), m.publisher, m.tick, matchRef(), loggingmatch.BossSpawnedPayload{
			Cycle:        m.director.Cycle,
			HP:           hp,
			HPMultiplier: m.director.BossHPMultiplier,
		}, nil)
	}
}

// Spawn adds an enemy of kind to side, scaled to the current elapsed time.
func (m *Match) Spawn(side Side, kind arena.EnemyType) (arena.Enemy, bool) {
	s := m.state(side)
	if s == nil {
		return arena.Enemy{}, false
	}
	return m.spawn(s, kind), true
}

func (m *Match) spawn(s *sideState, kind arena.EnemyType) arena.Enemy {
	enemy := m.director.Spawn(kind, m.elapsedSeconds, s.path)
	s.enemies = append(s.enemies, enemy)
	return enemy
}

func (m *Match) move(s *sideState) {
	result := arena.Advance(s.enemies, s.path)
	s.enemies = result.Remaining
	for _, enemy := range result.Breached {
		damage := enemy.BreachDamage()
		s.loseHealth(damage)
		loggingcombat.Breach(context.Background(), m.publisher, m.tick, sideRef(s.side), loggingcombat.BreachPayload{
			EnemyType:       string(enemy.Type),
			Damage:          damage,
			RemainingHealth: s.health,
		}, nil)
		if enemy.Type == arena.EnemyBoss {
			m.resolveBoss(enemy.Cycle, wave.BossBreached)
		}
	}
}

func (m *Match) fight(s *sideState) {
	result := combat.Resolve(s.board, s.enemies, s.path, combat.Params{
		Now:              m.now,
		ElapsedSeconds:   m.elapsedSeconds,
		BossHPMultiplier: m.director.BossHPMultiplier,
		AwardsMana:       m.mode != ModeTraining,
	})
	s.enemies = result.Enemies

	for _, hit := range result.Hits {
		m.indicators = append(m.indicators, Indicator{
			ID:        m.nextIndicatorID,
			Side:      s.side,
			Amount:    int(math.Round(hit.Amount)),
			X:         hit.Position.X,
			Y:         hit.Position.Y,
			CreatedAt: m.now,
		})
		m.nextIndicatorID++
	}
	for _, id := range result.Attackers {
		s.attacking[id] = m.now
	}

	if result.Mana > 0 {
		s.mana += result.Mana
		loggingeconomy.ManaAwarded(context.Background(), m.publisher, m.tick, sideRef(s.side), loggingeconomy.ManaAwardedPayload{
			Amount: result.Mana,
			Kills:  len(result.Kills),
			Total:  s.mana,
		}, nil)
	}

	for _, kill := range result.Kills {
		loggingcombat.EnemyKilled(context.Background(), m.publisher, m.tick, unitRef(kill.UnitID), enemyRef(kill.Enemy.ID), loggingcombat.EnemyKilledPayload{
			EnemyType:  string(kill.Enemy.Type),
			ManaReward: kill.Mana,
		}, map[string]any{"side": s.side.String()})
		if kill.Enemy.Type == arena.EnemyBoss {
			m.resolveBoss(kill.Enemy.Cycle, wave.BossKilled)
			continue
		}
		if m.mode == ModeTraining {
			continue
		}
		if other := m.state(s.side.Other()); other != nil {
			m.spawn(other, wave.ReplacementType(m.rng))
		}
	}
}

func (m *Match) resolveBoss(cycle int, outcome wave.BossOutcome) {
	if !m.director.ResolveBoss(cycle, outcome) {
		return
	}
	loggingmatch.BossResolved(context.Background(), m.publisher, m.tick, matchRef(), loggingmatch.BossResolvedPayload{
		Cycle:         cycle,
		Outcome:       outcome.String(),
		NewMultiplier: m.director.BossHPMultiplier,
	}, nil)
}

// deriveWinner ends the match once a board runs out of health. The local
// board is checked first, so simultaneous depletion goes to the opponent.
func (m *Match) deriveWinner() {
	if m.winner != SideNone {
		return
	}
	mine := m.sides[0]
	switch {
	case mine.health <= 0:
		m.finish(SideTheirs, "health_depleted")
	case m.sides[1] != nil && m.sides[1].health <= 0:
		m.finish(SideMine, "health_depleted")
	}
}

func (m *Match) finish(winner Side, reason string) {
	if m.Done() {
		return
	}
	m.winner = winner
	m.ended = true
	m.endReason = reason
	payload := loggingmatch.EndedPayload{Reason: reason, ElapsedSeconds: m.elapsedSeconds}
	if winner != SideNone {
		payload.Winner = winner.String()
	}
	loggingmatch.Ended(context.Background(), m.publisher, m.tick, matchRef(), payload, nil)
}

// Abandon ends the match without a winner, for example when the peer
// channel is lost.
func (m *Match) Abandon(reason string) {
	m.finish(SideNone, reason)
}

func (m *Match) decay() {
	live := m.indicators[:0]
	for _, indicator := range m.indicators {
		if m.now-indicator.CreatedAt < IndicatorLifetimeMillis {
			live = append(live, indicator)
		}
	}
	m.indicators = live
	for _, s := range m.activeSides() {
		for id, at := range s.attacking {
			if m.now-at >= AttackFlagMillis {
				delete(s.attacking, id)
			}
		}
	}
}

func matchRef() logging.EntityRef {
	return logging.EntityRef{Kind: logging.EntityKindMatch}
}

func sideRef(side Side) logging.EntityRef {
	return logging.EntityRef{ID: side.String(), Kind: logging.EntityKindSide}
}

func unitRef(id int) logging.EntityRef {
	return logging.EntityRef{ID: strconv.Itoa(id), Kind: logging.EntityKindUnit}
}

func enemyRef(id int) logging.EntityRef {
	return logging.EntityRef{ID: strconv.Itoa(id), Kind: logging.EntityKindEnemy}
}
