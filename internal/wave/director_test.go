package wave

import (
	"math"
	"testing"

	"github.com/devsilvver/corrida-das-gemas/internal/arena"
)

type constRand float64

func (r constRand) Float64() float64 { return float64(r) }

func TestBossCountdownSpawnsBossAfterCycle(t *testing.T) {
	d := NewDirector()
	waves := 0
	for i := 0; i < BossCycleSeconds-1; i++ {
		plan := d.Second()
		if plan.Boss {
			t.Fatalf("boss spawned early at second %d", i+1)
		}
		if plan.Wave {
			waves++
		}
	}
	plan := d.Second()
	if !plan.Boss || plan.Wave {
		t.Fatalf("expected boss-only plan at second %d, got %+v", BossCycleSeconds, plan)
	}
	if !d.BossActive || d.Timer != 0 || d.Cycle != 1 {
		t.Fatalf("unexpected director after boss spawn: %+v", d)
	}
	if waves != BossCycleSeconds-1 {
		t.Fatalf("expected %d waves before the boss, got %d", BossCycleSeconds-1, waves)
	}
	if next := d.Second(); next.Wave || next.Boss {
		t.Fatalf("expected spawning frozen during boss phase, got %+v", next)
	}
}

func TestBossCycleMultipliers(t *testing.T) {
	d := NewDirector()
	if d.BossHPMultiplier != 1 {
		t.Fatalf("expected starting multiplier 1, got %v", d.BossHPMultiplier)
	}

	d.BossActive, d.Cycle = true, 1
	if !d.ResolveBoss(1, BossKilled) {
		t.Fatalf("expected kill to resolve the cycle")
	}
	if d.BossHPMultiplier != 2 || d.Timer != BossCycleSeconds || d.BossActive {
		t.Fatalf("unexpected state after kill: %+v", d)
	}

	d.BossActive, d.Cycle = true, 2
	if !d.ResolveBoss(2, BossBreached) {
		t.Fatalf("expected breach to resolve the cycle")
	}
	if d.BossHPMultiplier != 3 || d.Timer != BossCycleSeconds {
		t.Fatalf("expected multiplier 3 after kill then breach, got %v", d.BossHPMultiplier)
	}
}

func TestResolveBossOncePerCycle(t *testing.T) {
	d := NewDirector()
	d.BossActive, d.Cycle = true, 1
	if !d.ResolveBoss(1, BossKilled) {
		t.Fatalf("expected first outcome to resolve")
	}
	if d.ResolveBoss(1, BossKilled) {
		t.Fatalf("expected second outcome of the same cycle to be ignored")
	}
	if d.BossHPMultiplier != 2 {
		t.Fatalf("expected multiplier 2, got %v", d.BossHPMultiplier)
	}
}

func TestShieldedChanceCurve(t *testing.T) {
	cases := map[int]float64{0: 0, 90: 0, 135: 0.1, 270: 0.4, 1000: 0.4}
	for elapsed, want := range cases {
		if got := ShieldedChance(elapsed); math.Abs(got-want) > 1e-9 {
			t.Fatalf("elapsed %d: expected %v, got %v", elapsed, want, got)
		}
	}
	if WaveType(constRand(0.05), 135) != arena.EnemyShielded {
		t.Fatalf("expected low roll to spawn shielded")
	}
	if WaveType(constRand(0.15), 135) != arena.EnemyCommon {
		t.Fatalf("expected high roll to spawn common")
	}
	if WaveType(constRand(0), 10) != arena.EnemyCommon {
		t.Fatalf("expected no shielded before the ramp")
	}
}

func TestSpawnScaling(t *testing.T) {
	d := NewDirector()
	path := arena.PlayerPath()

	common := d.Spawn(arena.EnemyCommon, 40, path)
	if common.HP != 250 || common.MaxHP != 250 {
		t.Fatalf("expected common hp 250, got %v", common.HP)
	}
	if math.Abs(common.Speed-0.07) > 1e-9 {
		t.Fatalf("expected common speed 0.07, got %v", common.Speed)
	}
	if common.Position() != path.Start() || common.PathIndex != 0 {
		t.Fatalf("expected spawn at path start")
	}

	shielded := d.Spawn(arena.EnemyShielded, 40, path)
	if shielded.HP != 600 || math.Abs(shielded.Speed-0.056) > 1e-9 {
		t.Fatalf("unexpected shielded stats hp=%v speed=%v", shielded.HP, shielded.Speed)
	}

	fast := d.Spawn(arena.EnemyCommon, 1000, path)
	if fast.Speed != 0.2 {
		t.Fatalf("expected speed capped at 0.2, got %v", fast.Speed)
	}

	d.BossHPMultiplier = 1.5
	d.Cycle = 3
	boss := d.Spawn(arena.EnemyBoss, 500, path)
	if boss.HP != 30000 || boss.Speed != 0.03 || boss.Cycle != 3 {
		t.Fatalf("unexpected boss %+v", boss)
	}

	if common.ID == shielded.ID || shielded.ID == fast.ID || fast.ID == boss.ID {
		t.Fatalf("expected unique enemy ids")
	}
}

func TestReplacementType(t *testing.T) {
	if ReplacementType(constRand(0.2)) != arena.EnemyShielded {
		t.Fatalf("expected roll below 0.25 to be shielded")
	}
	if ReplacementType(constRand(0.3)) != arena.EnemyCommon {
		t.Fatalf("expected roll above 0.25 to be common")
	}
}
