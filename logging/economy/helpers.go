package economy

import (
	"context"

	"github.com/devsilvver/corrida-das-gemas/logging"
)

const (
	// EventSummoned is emitted when a side summons a unit.
	EventSummoned logging.EventType = "economy.summoned"
	// EventMerged is emitted for every successful merge, copy, or swap.
	EventMerged logging.EventType = "economy.merged"
	// EventManaAwarded is emitted when kills during one tick grant mana.
	EventManaAwarded logging.EventType = "economy.mana_awarded"
)

// SummonedPayload describes the summoned unit and the cost paid.
type SummonedPayload struct {
	UnitID        int    `json:"unitId"`
	CharacterID   string `json:"characterId"`
	Row           int    `json:"row"`
	Col           int    `json:"col"`
	Cost          int    `json:"cost"`
	NewSummonCost int    `json:"newSummonCost"`
}

// MergedPayload describes a resolved board interaction.
type MergedPayload struct {
	Kind        string `json:"kind"`
	SourceID    int    `json:"sourceId"`
	TargetID    int    `json:"targetId"`
	NewUnitID   int    `json:"newUnitId,omitempty"`
	CharacterID string `json:"characterId,omitempty"`
	Level       int    `json:"level,omitempty"`
	ManaGained  int    `json:"manaGained,omitempty"`
}

// ManaAwardedPayload describes mana granted by combat.
type ManaAwardedPayload struct {
	Amount int `json:"amount"`
	Kills  int `json:"kills"`
	Total  int `json:"total"`
}

// Summoned publishes a summon event.
func Summoned(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload SummonedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventSummoned,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryEconomy,
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}

// Merged publishes a merge event.
func Merged(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload MergedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventMerged,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryEconomy,
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}

// ManaAwarded publishes a combat reward event.
func ManaAwarded(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload ManaAwardedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventManaAwarded,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryEconomy,
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}
