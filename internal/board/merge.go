package board

import "github.com/devsilvver/corrida-das-gemas/internal/catalog"

const (
	// SameCharacterChance is the probability a standard merge keeps the merged character.
	SameCharacterChance = 0.1
	// TeleportCooldownMillis is how long a teleport mage stays undraggable after a swap.
	TeleportCooldownMillis = 5000
	// PriestessManaPerLevel is the mana granted per level of a merged priestess.
	PriestessManaPerLevel = 60
)

// Rand is the subset of *rand.Rand the resolver samples from.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// Kind names a resolved board interaction. Values match the wire action tags.
type Kind string

const (
	KindMerge        Kind = "MERGE"
	KindJesterCopy   Kind = "JESTER_COPY"
	KindTeleportSwap Kind = "TELEPORT_SWAP"
)

// Outcome is a fully decided interaction. Applying it is deterministic, so
// the same Outcome produces the same board on every peer.
type Outcome struct {
	Kind          Kind
	SourceID      int
	TargetID      int
	NewUnit       Unit
	ManaGained    int
	CooldownUntil int64
}

// Rules carries everything resolution needs beyond the board itself.
type Rules struct {
	Deck catalog.Deck
	RNG  Rand
	// Now is the current time in unix milliseconds.
	Now int64
	// GrantsMana enables the priestess merge bonus for this board.
	GrantsMana bool
}

// Resolve decides what dropping source onto target does. It reports false
// when the interaction is not allowed; the board is never mutated except for
// id issuance of the resulting unit.
func (b *Board) Resolve(sourceID, targetID int, rules Rules) (Outcome, bool) {
	if sourceID == targetID {
		return Outcome{}, false
	}
	source, ok := b.Get(sourceID)
	if !ok {
		return Outcome{}, false
	}
	target, ok := b.Get(targetID)
	if !ok {
		return Outcome{}, false
	}
	if source.AbilityCooldownUntil > rules.Now {
		return Outcome{}, false
	}
	sameLevel := source.Level == target.Level

	switch {
	case source.Ability() == catalog.AbilityJester && sameLevel:
		clone := Unit{
			ID:        b.NextID(),
			Character: target.Character,
			Level:     target.Level,
			Row:       source.Row,
			Col:       source.Col,
		}
		return Outcome{Kind: KindJesterCopy, SourceID: source.ID, TargetID: target.ID, NewUnit: clone}, true

	case source.Ability() == catalog.AbilityTeleportMage && sameLevel && source.Character.ID != target.Character.ID:
		return Outcome{
			Kind:          KindTeleportSwap,
			SourceID:      source.ID,
			TargetID:      target.ID,
			CooldownUntil: rules.Now + TeleportCooldownMillis,
		}, true
	}

	if !sameLevel || source.Level >= MaxLevel {
		return Outcome{}, false
	}

	sourceFairy := source.Ability() == catalog.AbilityForestFairy
	targetFairy := target.Ability() == catalog.AbilityForestFairy
	var result catalog.Character
	switch {
	case sourceFairy && !targetFairy:
		result = target.Character
	case targetFairy && !sourceFairy:
		result = source.Character
	case source.Character.ID == target.Character.ID:
		result = sampleMergeResult(source.Character, rules)
	default:
		return Outcome{}, false
	}

	merged := Unit{
		ID:        b.NextID(),
		Character: result,
		Level:     source.Level + 1,
		Row:       target.Row,
		Col:       target.Col,
	}
	outcome := Outcome{Kind: KindMerge, SourceID: source.ID, TargetID: target.ID, NewUnit: merged}
	if rules.GrantsMana && source.Ability() == catalog.AbilityPriestess {
		outcome.ManaGained = PriestessManaPerLevel * source.Level
	}
	return outcome, true
}

func sampleMergeResult(merged catalog.Character, rules Rules) catalog.Character {
	if rules.RNG == nil || rules.RNG.Float64() < SameCharacterChance {
		return merged
	}
	others := rules.Deck.Without(merged.ID)
	if len(others) == 0 {
		return merged
	}
	return others[rules.RNG.Intn(len(others))]
}

// Apply mutates the board according to o. It reports false, leaving the
// board untouched, when a referenced unit is missing.
func (b *Board) Apply(o Outcome) bool {
	switch o.Kind {
	case KindMerge:
		if b.find(o.SourceID) == nil || b.find(o.TargetID) == nil {
			return false
		}
		saved := b.save()
		b.Remove(o.SourceID)
		b.Remove(o.TargetID)
		if err := b.Place(o.NewUnit); err != nil {
			b.units = saved
			return false
		}
		return true

	case KindJesterCopy:
		if b.find(o.SourceID) == nil {
			return false
		}
		saved := b.save()
		b.Remove(o.SourceID)
		if err := b.Place(o.NewUnit); err != nil {
			b.units = saved
			return false
		}
		return true

	case KindTeleportSwap:
		source := b.find(o.SourceID)
		target := b.find(o.TargetID)
		if source == nil || target == nil {
			return false
		}
		source.Row, target.Row = target.Row, source.Row
		source.Col, target.Col = target.Col, source.Col
		source.AbilityCooldownUntil = o.CooldownUntil
		return true
	}
	return false
}
