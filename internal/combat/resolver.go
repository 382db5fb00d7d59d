package combat

import (
	"math"
	"sort"

	"github.com/devsilvver/corrida-das-gemas/internal/arena"
	"github.com/devsilvver/corrida-das-gemas/internal/board"
	"github.com/devsilvver/corrida-das-gemas/internal/catalog"
)

const (
	LevelDamageMultiplier      = 1.75
	LevelAttackSpeedMultiplier = 1.25
	// BaseCooldownMillis is the attack interval of a level 1 unit.
	BaseCooldownMillis = 1500.0

	supremeMultiplier  = 5.0
	adjacentMultiplier = 1.5
	// ShieldedDamageReduction is the share of damage a shielded enemy ignores.
	ShieldedDamageReduction = 0.5
)

// Damage is the base attack damage of a unit before ability and shield
// modifiers.
func Damage(baseDamage float64, level int) float64 {
	return baseDamage * math.Pow(LevelDamageMultiplier, float64(level-1))
}

// CooldownMillis is how long a unit of level waits between attacks.
func CooldownMillis(level int) float64 {
	return BaseCooldownMillis / math.Pow(LevelAttackSpeedMultiplier, float64(level-1))
}

// Modifier returns the cultist multiplier for state and whether the attack
// hits every enemy on the board.
func Modifier(state board.CultistState) (multiplier float64, area bool) {
	switch state {
	case board.CultistSupreme:
		return supremeMultiplier, true
	case board.CultistAdjacent:
		return adjacentMultiplier, false
	default:
		return 1, false
	}
}

// Mitigate applies the enemy's damage reduction to amount.
func Mitigate(amount float64, enemy arena.Enemy) float64 {
	if enemy.Type == arena.EnemyShielded {
		return amount * (1 - ShieldedDamageReduction)
	}
	return amount
}

// KillReward is the mana granted for killing enemy.
func KillReward(enemy arena.Enemy, elapsedSeconds int, bossHPMultiplier float64) int {
	switch enemy.Type {
	case arena.EnemyBoss:
		return int(math.Floor(500 + (bossHPMultiplier-1)*250))
	case arena.EnemyShielded:
		return 35 + elapsedSeconds/20
	default:
		return 15 + elapsedSeconds/20
	}
}

// Prioritize returns enemies ordered by attack priority: furthest along the
// path first, ties broken by the shortest distance to the next waypoint.
// Enemies already at the portal sort last since they breach on the next
// movement pass.
func Prioritize(enemies []arena.Enemy, path arena.Path) []arena.Enemy {
	ordered := make([]arena.Enemy, len(enemies))
	copy(ordered, enemies)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ahead(ordered[i], ordered[j], path)
	})
	return ordered
}

func ahead(a, b arena.Enemy, path arena.Path) bool {
	aPortal, bPortal := a.AtPortal(path), b.AtPortal(path)
	if aPortal != bPortal {
		return bPortal
	}
	if a.PathIndex != b.PathIndex {
		return a.PathIndex > b.PathIndex
	}
	if aPortal {
		return false
	}
	next := path[a.PathIndex+1]
	return a.Position().DistanceSq(next) < b.Position().DistanceSq(next)
}

// Params carries the per-tick context the resolver needs.
type Params struct {
	// Now is the current time in unix milliseconds.
	Now              int64
	ElapsedSeconds   int
	BossHPMultiplier float64
	// AwardsMana is false for the training player, who earns nothing from kills.
	AwardsMana bool
}

// Hit is one damage application, kept for damage indicators and telemetry.
type Hit struct {
	UnitID   int
	EnemyID  int
	Amount   float64
	Position arena.Point
	Area     bool
}

// Kill records an enemy removed by combat.
type Kill struct {
	UnitID int
	Enemy  arena.Enemy
	Mana   int
}

// Result summarises one combat pass over a board.
type Result struct {
	Enemies   []arena.Enemy
	Hits      []Hit
	Kills     []Kill
	Attackers []int
	Mana      int
}

// Resolve lets every ready unit on b attack the enemies walking path. Units
// act in placement order against the live enemy list, so a kill by an earlier
// unit is visible to later ones within the same pass. Cooldowns are written
// back to b; the surviving enemies are returned in their original order.
func Resolve(b *board.Board, enemies []arena.Enemy, path arena.Path, params Params) Result {
	live := make([]arena.Enemy, len(enemies))
	copy(live, enemies)
	result := Result{}

	for _, unit := range b.Units() {
		if unit.AttackCooldownUntil > params.Now || len(live) == 0 {
			continue
		}

		damage := Damage(unit.Character.BaseDamage, unit.Level)
		area := false
		if unit.Ability() == catalog.AbilityCultist {
			multiplier, aoe := Modifier(b.CultistStateOf(unit))
			damage *= multiplier
			area = aoe
		}

		targets := []int{targetIndex(live, path)}
		if area {
			targets = targets[:0]
			for i := range live {
				targets = append(targets, i)
			}
		}

		killed := make(map[int]bool, len(targets))
		for _, idx := range targets {
			enemy := &live[idx]
			amount := Mitigate(damage, *enemy)
			enemy.HP -= amount
			result.Hits = append(result.Hits, Hit{
				UnitID:   unit.ID,
				EnemyID:  enemy.ID,
				Amount:   amount,
				Position: enemy.Position(),
				Area:     area,
			})
			if enemy.HP <= 0 {
				enemy.HP = 0
				killed[enemy.ID] = true
				kill := Kill{UnitID: unit.ID, Enemy: *enemy}
				if params.AwardsMana {
					kill.Mana = KillReward(*enemy, params.ElapsedSeconds, params.BossHPMultiplier)
					result.Mana += kill.Mana
				}
				result.Kills = append(result.Kills, kill)
			}
		}
		if len(killed) > 0 {
			survivors := live[:0]
			for _, enemy := range live {
				if !killed[enemy.ID] {
					survivors = append(survivors, enemy)
				}
			}
			live = survivors
		}

		cooldown := int64(CooldownMillis(unit.Level))
		b.SetAttackCooldown(unit.ID, params.Now+cooldown)
		result.Attackers = append(result.Attackers, unit.ID)
	}

	result.Enemies = live
	return result
}

func targetIndex(enemies []arena.Enemy, path arena.Path) int {
	best := 0
	for i := 1; i < len(enemies); i++ {
		if ahead(enemies[i], enemies[best], path) {
			best = i
		}
	}
	return best
}
