package match

import (
	"context"

	"github.com/devsilvver/corrida-das-gemas/internal/board"
	loggingeconomy "github.com/devsilvver/corrida-das-gemas/logging/economy"
)

// SummonResult is a completed summon, ready to be mirrored to a peer.
type SummonResult struct {
	Unit          board.Unit
	Cost          int
	NewSummonCost int
}

// CanSummon reports whether side could summon right now.
func (m *Match) CanSummon(side Side) bool {
	s := m.state(side)
	if s == nil || m.replica || m.Done() || s.board.Full() || len(s.deck) == 0 {
		return false
	}
	return m.mode == ModeTraining || s.mana >= s.summonCost
}

// Summon places a random deck character at level 1 on a random empty cell
// of side. Training summons are free and never raise the cost. Rejected
// summons leave every resource untouched.
func (m *Match) Summon(side Side) (SummonResult, bool) {
	if !m.CanSummon(side) {
		return SummonResult{}, false
	}
	s := m.state(side)
	character := s.deck[m.rng.Intn(len(s.deck))]
	empty := s.board.EmptyCells()
	cell := empty[m.rng.Intn(len(empty))]
	unit := board.Unit{
		ID:        s.board.NextID(),
		Character: character,
		Level:     1,
		Row:       cell.Row,
		Col:       cell.Col,
	}
	if err := s.board.Place(unit); err != nil {
		return SummonResult{}, false
	}
	cost := 0
	if m.mode != ModeTraining {
		cost = s.summonCost
		s.mana -= cost
		s.summonCost += SummonCostStep
	}
	result := SummonResult{Unit: unit, Cost: cost, NewSummonCost: s.summonCost}
	m.publishSummon(s, result)
	return result, true
}

// ApplySummon mirrors a summon decided by the host onto side: the unit is
// placed with its host-issued id, the side's current cost is paid, and the
// cost is replaced by newSummonCost.
func (m *Match) ApplySummon(side Side, unit board.Unit, newSummonCost int) bool {
	s := m.state(side)
	if s == nil {
		return false
	}
	if err := s.board.Place(unit); err != nil {
		return false
	}
	cost := 0
	if m.mode != ModeTraining {
		cost = s.summonCost
		s.mana -= cost
		if s.mana < 0 {
			s.mana = 0
		}
	}
	s.summonCost = newSummonCost
	m.publishSummon(s, SummonResult{Unit: unit, Cost: cost, NewSummonCost: newSummonCost})
	return true
}

func (m *Match) publishSummon(s *sideState, result SummonResult) {
	loggingeconomy.Summoned(context.Background(), m.publisher, m.tick, sideRef(s.side), loggingeconomy.SummonedPayload{
		UnitID:        result.Unit.ID,
		CharacterID:   result.Unit.Character.ID,
		Row:           result.Unit.Row,
		Col:           result.Unit.Col,
		Cost:          result.Cost,
		NewSummonCost: result.NewSummonCost,
	}, nil)
}

// AttemptMerge drops sourceID onto targetID on side. Illegal or stale
// interactions are silent no-ops.
func (m *Match) AttemptMerge(side Side, sourceID, targetID int) (board.Outcome, bool) {
	s := m.state(side)
	if s == nil || m.replica || m.Done() {
		return board.Outcome{}, false
	}
	outcome, ok := s.board.Resolve(sourceID, targetID, board.Rules{
		Deck:       s.deck,
		RNG:        m.rng,
		Now:        m.now,
		GrantsMana: s.human,
	})
	if !ok {
		return board.Outcome{}, false
	}
	if !m.apply(s, outcome) {
		return board.Outcome{}, false
	}
	return outcome, true
}

// AttemptDrop drops sourceID onto cell. Dropping onto the unit's own cell
// or onto an empty cell does nothing; units only move by interacting.
func (m *Match) AttemptDrop(side Side, sourceID int, cell board.Cell) (board.Outcome, bool) {
	s := m.state(side)
	if s == nil {
		return board.Outcome{}, false
	}
	source, ok := s.board.Get(sourceID)
	if !ok || source.AbilityCooldownUntil > m.now {
		return board.Outcome{}, false
	}
	target, ok := s.board.At(cell)
	if !ok || target.ID == source.ID {
		return board.Outcome{}, false
	}
	return m.AttemptMerge(side, source.ID, target.ID)
}

// ApplyOutcome mirrors an interaction decided by the host onto side.
func (m *Match) ApplyOutcome(side Side, outcome board.Outcome) bool {
	s := m.state(side)
	if s == nil {
		return false
	}
	return m.apply(s, outcome)
}

func (m *Match) apply(s *sideState, outcome board.Outcome) bool {
	if !s.board.Apply(outcome) {
		return false
	}
	s.mana += outcome.ManaGained
	payload := loggingeconomy.MergedPayload{
		Kind:       string(outcome.Kind),
		SourceID:   outcome.SourceID,
		TargetID:   outcome.TargetID,
		ManaGained: outcome.ManaGained,
	}
	if outcome.Kind != board.KindTeleportSwap {
		payload.NewUnitID = outcome.NewUnit.ID
		payload.CharacterID = outcome.NewUnit.Character.ID
		payload.Level = outcome.NewUnit.Level
	}
	loggingeconomy.Merged(context.Background(), m.publisher, m.tick, sideRef(s.side), payload, nil)
	return true
}
