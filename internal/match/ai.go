package match

import (
	"sort"

	"github.com/devsilvver/corrida-das-gemas/internal/board"
	"github.com/devsilvver/corrida-das-gemas/internal/catalog"
)

// opponentTurn is the PvE opponent's single action per AI interval: summon
// when affordable, otherwise the first legal merge in unit id order.
func (m *Match) opponentTurn() {
	if _, ok := m.Summon(SideTheirs); ok {
		return
	}
	s := m.state(SideTheirs)
	if s == nil {
		return
	}
	units := s.board.Units()
	sort.Slice(units, func(i, j int) bool { return units[i].ID < units[j].ID })
	for _, source := range units {
		if !aiMergeSource(source) {
			continue
		}
		for _, target := range units {
			if !aiMergeable(source, target) {
				continue
			}
			if _, ok := m.AttemptMerge(SideTheirs, source.ID, target.ID); ok {
				return
			}
		}
	}
}

// aiMergeSource excludes abilities whose drag is a copy or swap rather
// than a merge.
func aiMergeSource(u board.Unit) bool {
	switch u.Ability() {
	case catalog.AbilityJester, catalog.AbilityTeleportMage:
		return false
	}
	return u.Level < board.MaxLevel
}

func aiMergeable(source, target board.Unit) bool {
	if source.ID == target.ID || source.Level != target.Level {
		return false
	}
	if source.Character.ID == target.Character.ID {
		return true
	}
	return source.Ability() == catalog.AbilityForestFairy || target.Ability() == catalog.AbilityForestFairy
}
