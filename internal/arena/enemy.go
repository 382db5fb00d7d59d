package arena

// EnemyType distinguishes the three enemy archetypes.
type EnemyType string

const (
	EnemyCommon   EnemyType = "common"
	EnemyShielded EnemyType = "shielded"
	EnemyBoss     EnemyType = "boss"
)

// Enemy walks a side's path toward the portal.
type Enemy struct {
	ID        int       `json:"id"`
	Type      EnemyType `json:"type"`
	HP        float64   `json:"hp"`
	MaxHP     float64   `json:"maxHp"`
	Speed     float64   `json:"speed"`
	PathIndex int       `json:"pathIndex"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	// Cycle is the boss cycle a boss was spawned in; zero for other enemies.
	Cycle int `json:"cycle,omitempty"`
}

// Position returns the enemy's current coordinate.
func (e Enemy) Position() Point {
	return Point{X: e.X, Y: e.Y}
}

// HealthRatio is hp/maxHp clamped to [0, 1] for health bars.
func (e Enemy) HealthRatio() float64 {
	if e.MaxHP <= 0 {
		return 0
	}
	ratio := e.HP / e.MaxHP
	if ratio < 0 {
		return 0
	}
	if ratio > 1 {
		return 1
	}
	return ratio
}

// AtPortal reports whether the enemy has reached the last waypoint of path.
func (e Enemy) AtPortal(path Path) bool {
	return e.PathIndex >= path.Last()
}

// BreachDamage is the health a side loses when this enemy reaches the portal.
func (e Enemy) BreachDamage() int {
	if e.Type == EnemyBoss {
		return 2
	}
	return 1
}
