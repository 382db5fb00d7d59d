package combat

import (
	"context"

	"github.com/devsilvver/corrida-das-gemas/logging"
)

const (
	// EventEnemyKilled is emitted when a unit's attack removes an enemy.
	EventEnemyKilled logging.EventType = "combat.enemy_killed"
	// EventBreach is emitted when an enemy reaches a side's portal.
	EventBreach logging.EventType = "combat.breach"
)

// EnemyKilledPayload describes the kill.
type EnemyKilledPayload struct {
	EnemyType  string `json:"enemyType"`
	ManaReward int    `json:"manaReward"`
	Area       bool   `json:"area,omitempty"`
}

// BreachPayload describes the health lost to a breach.
type BreachPayload struct {
	EnemyType       string `json:"enemyType"`
	Damage          int    `json:"damage"`
	RemainingHealth int    `json:"remainingHealth"`
}

// EnemyKilled publishes a kill event. The actor is the killing unit and the
// single target is the enemy.
func EnemyKilled(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, target logging.EntityRef, payload EnemyKilledPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventEnemyKilled,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityDebug,
		Category: logging.CategoryCombat,
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}

// Breach publishes a breach event against the defending side.
func Breach(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload BreachPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventBreach,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}
