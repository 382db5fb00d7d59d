package wave

import (
	"math"

	"github.com/devsilvver/corrida-das-gemas/internal/arena"
)

const (
	// BossCycleSeconds is the countdown between boss phases.
	BossCycleSeconds = 120

	CommonBaseHP   = 150.0
	ShieldedBaseHP = 400.0
	BossBaseHP     = 20000.0

	commonHPPerSecond   = 2.5
	shieldedHPPerSecond = 5.0

	baseSpeed           = 0.05
	speedPerSecond      = 0.0005
	maxSpeed            = 0.2
	shieldedSpeedFactor = 0.8
	bossSpeed           = 0.03

	maxShieldedChance     = 0.4
	shieldedRampStart     = 90.0
	shieldedRampSeconds   = 450.0
	replacementShieldOdds = 0.25

	breachMultiplier = 1.5
	killMultiplier   = 2.0
)

// Rand is the subset of *rand.Rand the director rolls with.
type Rand interface {
	Float64() float64
}

// BossOutcome is how a boss phase ended.
type BossOutcome int

const (
	BossKilled BossOutcome = iota
	BossBreached
)

func (o BossOutcome) String() string {
	if o == BossBreached {
		return "breached"
	}
	return "killed"
}

// Plan tells the match what to spawn for one elapsed second.
type Plan struct {
	Wave bool
	Boss bool
}

// Director owns the spawn cadence, the enemy stat curve, and the boss cycle.
type Director struct {
	Timer            int
	BossActive       bool
	BossHPMultiplier float64
	// Cycle counts boss spawns; the active boss belongs to Cycle.
	Cycle int

	nextEnemyID int
}

// NewDirector returns a director at the start of a match.
func NewDirector() *Director {
	return &Director{Timer: BossCycleSeconds, BossHPMultiplier: 1}
}

// Second advances the boss countdown by one elapsed second. While no boss is
// active a normal wave spawns every second, except on the second the
// countdown reaches zero, which spawns the boss instead and freezes waves.
func (d *Director) Second() Plan {
	if d.BossActive {
		return Plan{}
	}
	d.Timer--
	if d.Timer <= 0 {
		d.Timer = 0
		d.BossActive = true
		d.Cycle++
		return Plan{Boss: true}
	}
	return Plan{Wave: true}
}

// ResolveBoss ends the boss phase of cycle. Only the first outcome of the
// active cycle rescales the multiplier and restarts the countdown; it reports
// whether this call did so.
func (d *Director) ResolveBoss(cycle int, outcome BossOutcome) bool {
	if !d.BossActive || cycle != d.Cycle {
		return false
	}
	d.BossActive = false
	d.Timer = BossCycleSeconds
	switch outcome {
	case BossBreached:
		d.BossHPMultiplier *= breachMultiplier
	default:
		d.BossHPMultiplier *= killMultiplier
	}
	return true
}

// ShieldedChance is the probability a wave enemy spawns shielded.
func ShieldedChance(elapsedSeconds int) float64 {
	ramp := math.Max(0, float64(elapsedSeconds)-shieldedRampStart) / shieldedRampSeconds
	return math.Min(maxShieldedChance, ramp)
}

// WaveType rolls the type of a regular wave enemy.
func WaveType(rng Rand, elapsedSeconds int) arena.EnemyType {
	if rng.Float64() < ShieldedChance(elapsedSeconds) {
		return arena.EnemyShielded
	}
	return arena.EnemyCommon
}

// ReplacementType rolls the type of an enemy sent to the opposing board
// after a kill.
func ReplacementType(rng Rand) arena.EnemyType {
	if rng.Float64() < replacementShieldOdds {
		return arena.EnemyShielded
	}
	return arena.EnemyCommon
}

// Speed is the tiles-per-tick speed of a regular enemy at elapsedSeconds.
func Speed(elapsedSeconds int) float64 {
	return math.Min(maxSpeed, baseSpeed+float64(elapsedSeconds)*speedPerSecond)
}

// Spawn creates an enemy of kind at the start of path, scaled to
// elapsedSeconds and the current boss multiplier.
func (d *Director) Spawn(kind arena.EnemyType, elapsedSeconds int, path arena.Path) arena.Enemy {
	elapsed := float64(elapsedSeconds)
	var hp, speed float64
	cycle := 0
	switch kind {
	case arena.EnemyShielded:
		hp = ShieldedBaseHP + elapsed*shieldedHPPerSecond
		speed = Speed(elapsedSeconds) * shieldedSpeedFactor
	case arena.EnemyBoss:
		hp = BossBaseHP * d.BossHPMultiplier
		speed = bossSpeed
		cycle = d.Cycle
	default:
		kind = arena.EnemyCommon
		hp = CommonBaseHP + elapsed*commonHPPerSecond
		speed = Speed(elapsedSeconds)
	}
	start := path.Start()
	enemy := arena.Enemy{
		ID:    d.nextEnemyID,
		Type:  kind,
		HP:    hp,
		MaxHP: hp,
		Speed: speed,
		X:     start.X,
		Y:     start.Y,
		Cycle: cycle,
	}
	d.nextEnemyID++
	return enemy
}
