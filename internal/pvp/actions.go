package pvp

import (
	"github.com/devsilvver/corrida-das-gemas/internal/board"
	"github.com/devsilvver/corrida-das-gemas/internal/match"
	"github.com/devsilvver/corrida-das-gemas/internal/net/proto"
)

func summonAction(result match.SummonResult, forPlayer bool) proto.Action {
	unit := result.Unit
	return proto.Action{
		Type:          proto.ActionSummon,
		ForPlayer:     forPlayer,
		NewUnit:       &unit,
		NewSummonCost: result.NewSummonCost,
	}
}

// outcomeAction encodes a resolved interaction for the wire.
func outcomeAction(o board.Outcome, forPlayer bool) proto.Action {
	action := proto.Action{ForPlayer: forPlayer}
	switch o.Kind {
	case board.KindMerge:
		unit := o.NewUnit
		action.Type = proto.ActionMerge
		action.Unit1ID = o.SourceID
		action.Unit2ID = o.TargetID
		action.NewUnit = &unit
		action.ManaGained = o.ManaGained
	case board.KindJesterCopy:
		unit := o.NewUnit
		action.Type = proto.ActionJesterCopy
		action.JesterID = o.SourceID
		action.Unit2ID = o.TargetID
		action.NewUnit = &unit
	case board.KindTeleportSwap:
		action.Type = proto.ActionTeleportSwap
		action.Unit1ID = o.SourceID
		action.Unit2ID = o.TargetID
		action.CooldownUntil = o.CooldownUntil
	}
	return action
}

// actionOutcome decodes a non-summon action into the outcome it describes.
func actionOutcome(a proto.Action) (board.Outcome, bool) {
	switch a.Type {
	case proto.ActionMerge:
		if a.NewUnit == nil {
			return board.Outcome{}, false
		}
		return board.Outcome{
			Kind:       board.KindMerge,
			SourceID:   a.Unit1ID,
			TargetID:   a.Unit2ID,
			NewUnit:    *a.NewUnit,
			ManaGained: a.ManaGained,
		}, true
	case proto.ActionJesterCopy:
		if a.NewUnit == nil {
			return board.Outcome{}, false
		}
		return board.Outcome{
			Kind:     board.KindJesterCopy,
			SourceID: a.JesterID,
			TargetID: a.Unit2ID,
			NewUnit:  *a.NewUnit,
		}, true
	case proto.ActionTeleportSwap:
		return board.Outcome{
			Kind:          board.KindTeleportSwap,
			SourceID:      a.Unit1ID,
			TargetID:      a.Unit2ID,
			CooldownUntil: a.CooldownUntil,
		}, true
	}
	return board.Outcome{}, false
}

func sideState(res match.Resources) proto.SideState {
	return proto.SideState{
		Enemies:    res.Enemies,
		Health:     res.Health,
		Mana:       res.Mana,
		SummonCost: res.SummonCost,
	}
}

func resources(s proto.SideState) match.Resources {
	return match.Resources{
		Enemies:    s.Enemies,
		Health:     s.Health,
		Mana:       s.Mana,
		SummonCost: s.SummonCost,
	}
}
