package match

import (
	"math/rand"
	"testing"

	"github.com/devsilvver/corrida-das-gemas/internal/arena"
	"github.com/devsilvver/corrida-das-gemas/internal/board"
	"github.com/devsilvver/corrida-das-gemas/internal/catalog"
	"github.com/devsilvver/corrida-das-gemas/logging"
	loggingcombat "github.com/devsilvver/corrida-das-gemas/logging/combat"
	loggingeconomy "github.com/devsilvver/corrida-das-gemas/logging/economy"
	loggingmatch "github.com/devsilvver/corrida-das-gemas/logging/match"
	"github.com/devsilvver/corrida-das-gemas/logging/sinks"
)

func defaultDeck(t *testing.T) catalog.Deck {
	t.Helper()
	deck, err := catalog.Default().Deck(catalog.DefaultDeckIDs)
	if err != nil {
		t.Fatalf("default deck: %v", err)
	}
	return deck
}

func character(t *testing.T, id string) catalog.Character {
	t.Helper()
	c, ok := catalog.Default().Lookup(id)
	if !ok {
		t.Fatalf("missing character %s", id)
	}
	return c
}

func newMatch(t *testing.T, mode Mode, pub logging.Publisher) *Match {
	t.Helper()
	m, err := New(Config{
		Mode:       mode,
		PlayerDeck: defaultDeck(t),
		RNG:        rand.New(rand.NewSource(7)),
		Publisher:  pub,
	})
	if err != nil {
		t.Fatalf("new match: %v", err)
	}
	m.Step(0)
	return m
}

func place(t *testing.T, m *Match, side Side, u board.Unit) {
	t.Helper()
	if err := m.Board(side).Place(u); err != nil {
		t.Fatalf("place %+v: %v", u, err)
	}
}

func atPortal(path arena.Path, e arena.Enemy) arena.Enemy {
	e.PathIndex = path.Last()
	e.X, e.Y = path.Portal().X, path.Portal().Y
	return e
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	if _, err := New(Config{Mode: "arcade", PlayerDeck: defaultDeck(t), RNG: rand.New(rand.NewSource(1))}); err == nil {
		t.Fatalf("expected unknown mode error")
	}
	if _, err := New(Config{Mode: ModePvE, RNG: rand.New(rand.NewSource(1))}); err == nil {
		t.Fatalf("expected empty deck error")
	}
	if _, err := New(Config{Mode: ModePvE, PlayerDeck: defaultDeck(t)}); err == nil {
		t.Fatalf("expected missing rng error")
	}
}

func TestStartingResources(t *testing.T) {
	pve := newMatch(t, ModePvE, nil)
	mine, _ := pve.Resources(SideMine)
	theirs, ok := pve.Resources(SideTheirs)
	if !ok || mine.Mana != 100 || mine.Health != 3 || mine.SummonCost != 10 || theirs.Mana != 100 {
		t.Fatalf("unexpected pve resources %+v %+v", mine, theirs)
	}
	g := pve.Globals()
	if g.BossTimer != 120 || g.BossHPMultiplier != 1 || g.Winner != SideNone {
		t.Fatalf("unexpected globals %+v", g)
	}

	training := newMatch(t, ModeTraining, nil)
	mine, _ = training.Resources(SideMine)
	if mine.Mana != TrainingMana {
		t.Fatalf("expected training mana %d, got %d", TrainingMana, mine.Mana)
	}
	if _, ok := training.Resources(SideTheirs); ok {
		t.Fatalf("expected no opponent in training")
	}
}

func TestScenarioAStandardMerge(t *testing.T) {
	m := newMatch(t, ModePvE, nil)
	swordsman := character(t, "COM_01")
	b := m.Board(SideMine)
	first, second := b.NextID(), b.NextID()
	place(t, m, SideMine, board.Unit{ID: first, Character: swordsman, Level: 1, Row: 0, Col: 0})
	place(t, m, SideMine, board.Unit{ID: second, Character: swordsman, Level: 1, Row: 2, Col: 3})

	outcome, ok := m.AttemptMerge(SideMine, first, second)
	if !ok {
		t.Fatalf("expected merge to succeed")
	}
	units := b.Units()
	if len(units) != 1 {
		t.Fatalf("expected one unit after merge, got %d", len(units))
	}
	merged := units[0]
	if merged.Level != 2 || merged.Row != 2 || merged.Col != 3 {
		t.Fatalf("expected level 2 unit at 2,3, got %+v", merged)
	}
	if merged.ID == first || merged.ID == second || merged.ID != outcome.NewUnit.ID {
		t.Fatalf("expected fresh id, got %d", merged.ID)
	}
}

func TestScenarioBPriestessBonus(t *testing.T) {
	m := newMatch(t, ModePvE, nil)
	priestess := character(t, "RAR_03")
	place(t, m, SideMine, board.Unit{ID: 1, Character: priestess, Level: 2, Row: 0, Col: 0})
	place(t, m, SideMine, board.Unit{ID: 2, Character: priestess, Level: 2, Row: 0, Col: 1})

	if _, ok := m.AttemptMerge(SideMine, 1, 2); !ok {
		t.Fatalf("expected priestess merge to succeed")
	}
	res, _ := m.Resources(SideMine)
	if res.Mana != 220 {
		t.Fatalf("expected 100+120 mana, got %d", res.Mana)
	}

	place(t, m, SideTheirs, board.Unit{ID: 1, Character: priestess, Level: 2, Row: 0, Col: 0})
	place(t, m, SideTheirs, board.Unit{ID: 2, Character: priestess, Level: 2, Row: 0, Col: 1})
	if _, ok := m.AttemptMerge(SideTheirs, 1, 2); !ok {
		t.Fatalf("expected opponent merge to succeed")
	}
	theirs, _ := m.Resources(SideTheirs)
	if theirs.Mana != 100 {
		t.Fatalf("expected no priestess bonus for the AI board, got %d", theirs.Mana)
	}
}

func TestPvPPriestessBonusOnlyOnOwnBoard(t *testing.T) {
	m := newMatch(t, ModePvP, nil)
	priestess := character(t, "RAR_03")
	place(t, m, SideTheirs, board.Unit{ID: 1, Character: priestess, Level: 2, Row: 0, Col: 0})
	place(t, m, SideTheirs, board.Unit{ID: 2, Character: priestess, Level: 2, Row: 0, Col: 1})
	outcome, ok := m.AttemptMerge(SideTheirs, 1, 2)
	if !ok {
		t.Fatalf("expected guest board merge to succeed")
	}
	theirs, _ := m.Resources(SideTheirs)
	if outcome.ManaGained != 0 || theirs.Mana != StartingMana {
		t.Fatalf("expected no bonus on the guest board, got %d mana gained and %d mana", outcome.ManaGained, theirs.Mana)
	}
}

func TestScenarioDBreachesEndMatch(t *testing.T) {
	memory := sinks.NewMemorySink()
	m := newMatch(t, ModePvE, memory)
	s := m.state(SideMine)
	for id := 100; id < 103; id++ {
		s.enemies = append(s.enemies, atPortal(s.path, arena.Enemy{ID: id, Type: arena.EnemyCommon, HP: 150, MaxHP: 150}))
	}

	m.Step(20)
	mine, _ := m.Resources(SideMine)
	if mine.Health != 0 {
		t.Fatalf("expected health 0 after three breaches, got %d", mine.Health)
	}
	if m.Winner() != SideTheirs || !m.Done() {
		t.Fatalf("expected opponent recorded as winner, got %v", m.Winner())
	}
	if got := len(memory.OfType(loggingcombat.EventBreach)); got != 3 {
		t.Fatalf("expected 3 breach events, got %d", got)
	}
	if got := len(memory.OfType(loggingmatch.EventEnded)); got != 1 {
		t.Fatalf("expected one match end event, got %d", got)
	}

	m.Step(5000)
	if m.Globals().ElapsedSeconds != 0 {
		t.Fatalf("expected a finished match to stop simulating")
	}
	if _, ok := m.Summon(SideMine); ok {
		t.Fatalf("expected summon rejected after the match ended")
	}
}

func TestUnblockedWavesBreachOncePerEnemy(t *testing.T) {
	memory := sinks.NewMemorySink()
	m := newMatch(t, ModeTraining, memory)
	for now := int64(20); now <= 60_000 && !m.Done(); now += 20 {
		m.Step(now)
	}
	if m.Winner() != SideTheirs {
		t.Fatalf("expected the training player to lose, got winner %v", m.Winner())
	}
	breaches := memory.OfType(loggingcombat.EventBreach)
	if len(breaches) != 3 {
		t.Fatalf("expected exactly 3 breaches, got %d", len(breaches))
	}
	for i, event := range breaches {
		payload := event.Payload.(loggingcombat.BreachPayload)
		if payload.Damage != 1 || payload.RemainingHealth != 2-i {
			t.Fatalf("breach %d: unexpected payload %+v", i, payload)
		}
	}
}

func TestBossCycleResolvesOnce(t *testing.T) {
	memory := sinks.NewMemorySink()
	m := newMatch(t, ModePvE, memory)
	m.director.Timer = 1

	m.Step(1000)
	g := m.Globals()
	if !g.BossActive || g.BossTimer != 0 {
		t.Fatalf("expected boss phase after countdown, got %+v", g)
	}
	for _, side := range []Side{SideMine, SideTheirs} {
		res, _ := m.Resources(side)
		if len(res.Enemies) != 1 || res.Enemies[0].Type != arena.EnemyBoss || res.Enemies[0].HP != 20000 {
			t.Fatalf("%v: expected one full-hp boss, got %+v", side, res.Enemies)
		}
	}
	if len(memory.OfType(loggingmatch.EventBossSpawned)) != 1 {
		t.Fatalf("expected one boss spawn event")
	}

	place(t, m, SideMine, board.Unit{ID: 1, Character: character(t, "COM_01"), Level: 1})
	m.state(SideMine).enemies[0].HP = 1
	m.Step(1020)

	g = m.Globals()
	if g.BossActive || g.BossTimer != 120 || g.BossHPMultiplier != 2 {
		t.Fatalf("expected kill to reset the cycle with multiplier 2, got %+v", g)
	}
	mine, _ := m.Resources(SideMine)
	if mine.Mana != 600 || len(mine.Enemies) != 0 {
		t.Fatalf("expected 500 boss mana and an empty lane, got %+v", mine)
	}
	theirs, _ := m.Resources(SideTheirs)
	if len(theirs.Enemies) != 1 {
		t.Fatalf("expected boss kills not to send a replacement, got %d enemies", len(theirs.Enemies))
	}

	opponent := m.state(SideTheirs)
	opponent.enemies[0] = atPortal(opponent.path, opponent.enemies[0])
	m.Step(1040)
	theirs, _ = m.Resources(SideTheirs)
	if theirs.Health != 1 {
		t.Fatalf("expected boss breach to cost 2 health, got %d", theirs.Health)
	}
	if m.Globals().BossHPMultiplier != 2 {
		t.Fatalf("expected the resolved cycle not to rescale again, got %v", m.Globals().BossHPMultiplier)
	}
	if len(memory.OfType(loggingmatch.EventBossResolved)) != 1 {
		t.Fatalf("expected one boss resolution event")
	}
}

func TestBossBreachScalesMultiplier(t *testing.T) {
	m := newMatch(t, ModeTraining, nil)
	m.director.Timer = 1
	m.Step(1000)
	s := m.state(SideMine)
	s.enemies[0] = atPortal(s.path, s.enemies[0])
	m.Step(1020)
	g := m.Globals()
	if g.BossHPMultiplier != 1.5 || g.BossTimer != 120 || g.BossActive {
		t.Fatalf("expected breach to reset with multiplier 1.5, got %+v", g)
	}
	res, _ := m.Resources(SideMine)
	if res.Health != 1 {
		t.Fatalf("expected health 1 after boss breach, got %d", res.Health)
	}
}

func TestKillSendsReplacementToOpponent(t *testing.T) {
	m := newMatch(t, ModePvE, nil)
	place(t, m, SideMine, board.Unit{ID: 1, Character: character(t, "COM_01"), Level: 1})
	m.Spawn(SideMine, arena.EnemyCommon)
	m.state(SideMine).enemies[0].HP = 1

	m.Step(20)
	theirs, _ := m.Resources(SideTheirs)
	if len(theirs.Enemies) != 1 {
		t.Fatalf("expected a replacement enemy on the opponent board, got %d", len(theirs.Enemies))
	}
	mine, _ := m.Resources(SideMine)
	if mine.Mana != 115 {
		t.Fatalf("expected 15 kill mana, got %d", mine.Mana)
	}
}

func TestTrainingKillsEarnNothing(t *testing.T) {
	m := newMatch(t, ModeTraining, nil)
	place(t, m, SideMine, board.Unit{ID: 1, Character: character(t, "COM_01"), Level: 1})
	m.Spawn(SideMine, arena.EnemyCommon)
	m.state(SideMine).enemies[0].HP = 1
	m.Step(20)
	mine, _ := m.Resources(SideMine)
	if mine.Mana != TrainingMana || len(mine.Enemies) != 0 {
		t.Fatalf("expected kill without mana, got %+v", mine)
	}
}

func TestSummonCostAndRejection(t *testing.T) {
	memory := sinks.NewMemorySink()
	m := newMatch(t, ModePvE, memory)
	costs := []int{25, 40, 55}
	for i, want := range costs {
		result, ok := m.Summon(SideMine)
		if !ok {
			t.Fatalf("summon %d rejected", i)
		}
		if result.NewSummonCost != want || result.Unit.Level != 1 {
			t.Fatalf("summon %d: unexpected result %+v", i, result)
		}
	}
	res, _ := m.Resources(SideMine)
	if res.Mana != 25 || res.SummonCost != 55 {
		t.Fatalf("expected mana 25 and cost 55, got %+v", res)
	}
	if _, ok := m.Summon(SideMine); ok {
		t.Fatalf("expected summon rejected for insufficient mana")
	}
	after, _ := m.Resources(SideMine)
	if after.Mana != 25 || after.SummonCost != 55 || m.Board(SideMine).Len() != 3 {
		t.Fatalf("expected rejected summon to change nothing, got %+v", after)
	}
	if len(memory.OfType(loggingeconomy.EventSummoned)) != 3 {
		t.Fatalf("expected 3 summon events")
	}
}

func TestTrainingSummonsAreFreeUntilFull(t *testing.T) {
	m := newMatch(t, ModeTraining, nil)
	seen := make(map[int]bool)
	for i := 0; i < board.Cells; i++ {
		result, ok := m.Summon(SideMine)
		if !ok {
			t.Fatalf("summon %d rejected", i)
		}
		if seen[result.Unit.ID] {
			t.Fatalf("duplicate unit id %d", result.Unit.ID)
		}
		seen[result.Unit.ID] = true
	}
	if _, ok := m.Summon(SideMine); ok {
		t.Fatalf("expected summon rejected on a full board")
	}
	res, _ := m.Resources(SideMine)
	if res.Mana != TrainingMana || res.SummonCost != BaseSummonCost {
		t.Fatalf("expected free summons, got %+v", res)
	}
	cells := make(map[board.Cell]bool)
	for _, u := range m.Board(SideMine).Units() {
		if cells[u.Cell()] {
			t.Fatalf("two units share cell %+v", u.Cell())
		}
		cells[u.Cell()] = true
	}
}

func TestAttemptDrop(t *testing.T) {
	m := newMatch(t, ModePvE, nil)
	swordsman := character(t, "COM_01")
	place(t, m, SideMine, board.Unit{ID: 1, Character: swordsman, Level: 1, Row: 0, Col: 0})
	place(t, m, SideMine, board.Unit{ID: 2, Character: swordsman, Level: 1, Row: 1, Col: 0})

	if _, ok := m.AttemptDrop(SideMine, 1, board.Cell{Row: 0, Col: 0}); ok {
		t.Fatalf("expected drop onto own cell to be a no-op")
	}
	if _, ok := m.AttemptDrop(SideMine, 1, board.Cell{Row: 2, Col: 4}); ok {
		t.Fatalf("expected drop onto an empty cell to be rejected")
	}
	if u, _ := m.Board(SideMine).Get(1); u.Row != 0 || u.Col != 0 {
		t.Fatalf("expected unit not to relocate, got %+v", u)
	}
	if _, ok := m.AttemptDrop(SideMine, 1, board.Cell{Row: 1, Col: 0}); !ok {
		t.Fatalf("expected drop onto a matching unit to merge")
	}

	mage := character(t, "EPI_03")
	place(t, m, SideMine, board.Unit{ID: 50, Character: mage, Level: 1, Row: 2, Col: 0, AbilityCooldownUntil: m.Now() + 100})
	place(t, m, SideMine, board.Unit{ID: 51, Character: swordsman, Level: 1, Row: 2, Col: 1})
	if _, ok := m.AttemptDrop(SideMine, 50, board.Cell{Row: 2, Col: 1}); ok {
		t.Fatalf("expected a cooling-down teleport mage to be undraggable")
	}
}

func TestOpponentAISummonsThenMerges(t *testing.T) {
	m := newMatch(t, ModePvE, nil)
	m.Step(1100)
	if m.Board(SideTheirs).Len() != 1 {
		t.Fatalf("expected the AI to summon once, got %d units", m.Board(SideTheirs).Len())
	}

	opponent := m.state(SideTheirs)
	opponent.mana = 0
	opponent.board.Reset()
	swordsman := character(t, "COM_01")
	place(t, m, SideTheirs, board.Unit{ID: 10, Character: swordsman, Level: 1, Row: 0, Col: 0})
	place(t, m, SideTheirs, board.Unit{ID: 11, Character: swordsman, Level: 1, Row: 0, Col: 1})
	m.Step(2200)
	units := m.Board(SideTheirs).Units()
	if len(units) != 1 || units[0].Level != 2 {
		t.Fatalf("expected the AI to merge its pair, got %+v", units)
	}
}

func TestReplicaOnlyMirrors(t *testing.T) {
	m, err := New(Config{Mode: ModePvP, PlayerDeck: defaultDeck(t), RNG: rand.New(rand.NewSource(1)), Replica: true})
	if err != nil {
		t.Fatalf("new replica: %v", err)
	}
	for now := int64(0); now <= 5000; now += 20 {
		m.Step(now)
	}
	if g := m.Globals(); g.ElapsedSeconds != 0 || g.BossTimer != 120 {
		t.Fatalf("expected replica not to simulate, got %+v", g)
	}
	if _, ok := m.Summon(SideMine); ok {
		t.Fatalf("expected replica to refuse local summons")
	}

	unit := board.Unit{ID: 9, Character: character(t, "COM_01"), Level: 1, Row: 1, Col: 1}
	if !m.ApplySummon(SideMine, unit, 25) {
		t.Fatalf("expected mirrored summon to apply")
	}
	res, _ := m.Resources(SideMine)
	if res.Mana != 90 || res.SummonCost != 25 {
		t.Fatalf("expected mirrored summon to pay the current cost, got %+v", res)
	}
	if next := m.Board(SideMine).NextID(); next != 10 {
		t.Fatalf("expected id counter to observe host ids, got %d", next)
	}

	m.ApplyRemote(
		Resources{Health: 2, Mana: 40, SummonCost: 25, Enemies: []arena.Enemy{{ID: 4, Type: arena.EnemyCommon, HP: 10, MaxHP: 150}}},
		Resources{Health: 0, Mana: 5, SummonCost: 10},
		Globals{ElapsedSeconds: 33, BossTimer: 87, BossHPMultiplier: 1, Winner: SideMine},
	)
	res, _ = m.Resources(SideMine)
	if res.Health != 2 || res.Mana != 40 || len(res.Enemies) != 1 {
		t.Fatalf("expected remote resources applied, got %+v", res)
	}
	if m.Board(SideMine).Len() != 1 {
		t.Fatalf("expected remote state to leave the board alone")
	}
	if m.Winner() != SideMine || !m.Done() {
		t.Fatalf("expected remote winner applied")
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	m := newMatch(t, ModePvE, nil)
	cultist := character(t, "LEG_01")
	place(t, m, SideMine, board.Unit{ID: 1, Character: cultist, Level: 1, Row: 0, Col: 0})
	place(t, m, SideMine, board.Unit{ID: 2, Character: cultist, Level: 1, Row: 0, Col: 1})
	m.Spawn(SideMine, arena.EnemyCommon)
	m.state(SideMine).enemies[0].HP = 1e6
	m.Step(20)

	snap := m.Snapshot()
	if snap.Theirs == nil || len(snap.Mine.Units) != 2 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if snap.Mine.Units[0].CultistState != board.CultistAdjacent {
		t.Fatalf("expected adjacent cultist, got %s", snap.Mine.Units[0].CultistState)
	}
	if !snap.Mine.Units[0].Attacking {
		t.Fatalf("expected attacking flag after an attack")
	}
	if len(snap.Mine.Indicators) == 0 {
		t.Fatalf("expected damage indicators")
	}
	snap.Mine.Units[0].Level = 6
	snap.Mine.Enemies[0].HP = -1
	if u, _ := m.Board(SideMine).Get(1); u.Level != 1 {
		t.Fatalf("expected snapshot edits not to leak into the board")
	}
	if res, _ := m.Resources(SideMine); res.Enemies[0].HP < 0 {
		t.Fatalf("expected snapshot edits not to leak into enemies")
	}
}

func TestPresentationDecay(t *testing.T) {
	m := newMatch(t, ModeTraining, nil)
	place(t, m, SideMine, board.Unit{ID: 1, Character: character(t, "COM_01"), Level: 1})
	m.Spawn(SideMine, arena.EnemyShielded)
	m.Step(20)
	if len(m.indicators) != 1 || len(m.state(SideMine).attacking) != 1 {
		t.Fatalf("expected one indicator and one attacking flag")
	}
	m.Step(220)
	if len(m.state(SideMine).attacking) != 0 {
		t.Fatalf("expected attack flag cleared after 200ms")
	}
	if len(m.indicators) != 1 {
		t.Fatalf("expected indicator still visible")
	}
	m.Step(1020)
	for _, indicator := range m.indicators {
		if indicator.CreatedAt == 20 {
			t.Fatalf("expected the first indicator to expire after 1000ms")
		}
	}
}
