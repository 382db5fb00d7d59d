package match

import (
	"context"

	"github.com/devsilvver/corrida-das-gemas/logging"
)

const (
	// EventStarted is emitted when a match begins ticking.
	EventStarted logging.EventType = "match.started"
	// EventEnded is emitted once when a winner is decided or the match is abandoned.
	EventEnded logging.EventType = "match.ended"
	// EventBossSpawned is emitted when the boss countdown reaches zero.
	EventBossSpawned logging.EventType = "match.boss_spawned"
	// EventBossResolved is emitted when a boss cycle ends by kill or breach.
	EventBossResolved logging.EventType = "match.boss_resolved"
)

// StartedPayload describes the match configuration.
type StartedPayload struct {
	Mode           string   `json:"mode"`
	PlayerDeck     []string `json:"playerDeck"`
	OpponentDeck   []string `json:"opponentDeck,omitempty"`
	Authoritative  bool     `json:"authoritative"`
	OpponentActive bool     `json:"opponentActive"`
}

// EndedPayload records the final outcome.
type EndedPayload struct {
	Winner         string `json:"winner,omitempty"`
	Reason         string `json:"reason"`
	ElapsedSeconds int    `json:"elapsedSeconds"`
}

// BossSpawnedPayload captures the boss cycle.
type BossSpawnedPayload struct {
	Cycle        int     `json:"cycle"`
	HP           float64 `json:"hp"`
	HPMultiplier float64 `json:"hpMultiplier"`
}

// BossResolvedPayload captures how the boss cycle ended.
type BossResolvedPayload struct {
	Cycle         int     `json:"cycle"`
	Outcome       string  `json:"outcome"`
	NewMultiplier float64 `json:"newMultiplier"`
}

// Started publishes a match start event.
func Started(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload StartedPayload, extra map[string]any) {
	publish(ctx, pub, EventStarted, logging.SeverityInfo, tick, actor, payload, extra)
}

// Ended publishes a match end event.
func Ended(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload EndedPayload, extra map[string]any) {
	publish(ctx, pub, EventEnded, logging.SeverityInfo, tick, actor, payload, extra)
}

// BossSpawned publishes a boss spawn event.
func BossSpawned(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload BossSpawnedPayload, extra map[string]any) {
	publish(ctx, pub, EventBossSpawned, logging.SeverityInfo, tick, actor, payload, extra)
}

// BossResolved publishes a boss resolution event.
func BossResolved(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload BossResolvedPayload, extra map[string]any) {
	publish(ctx, pub, EventBossResolved, logging.SeverityInfo, tick, actor, payload, extra)
}

func publish(ctx context.Context, pub logging.Publisher, eventType logging.EventType, severity logging.Severity, tick uint64, actor logging.EntityRef, payload any, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     eventType,
		Tick:     tick,
		Actor:    actor,
		Severity: severity,
		Category: logging.CategoryMatch,
		Payload:  payload,
		Extra:    extra,
	})
}
