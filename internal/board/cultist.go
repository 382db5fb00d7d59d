package board

import "github.com/devsilvver/corrida-das-gemas/internal/catalog"

// CultistState classifies a cultist by its orthogonal neighbours.
type CultistState string

const (
	CultistNormal   CultistState = "normal"
	CultistAdjacent CultistState = "adjacent"
	CultistSupreme  CultistState = "supreme"
)

var orthogonal = [4]Cell{{Row: -1}, {Row: 1}, {Col: -1}, {Col: 1}}

// CultistStateOf derives the state of u on b. Non-cultists are always normal.
// The result is recomputed from the current board on every call.
func (b *Board) CultistStateOf(u Unit) CultistState {
	if u.Ability() != catalog.AbilityCultist {
		return CultistNormal
	}
	neighbours := 0
	for _, d := range orthogonal {
		other, ok := b.At(Cell{Row: u.Row + d.Row, Col: u.Col + d.Col})
		if ok && other.Ability() == catalog.AbilityCultist {
			neighbours++
		}
	}
	switch {
	case neighbours == len(orthogonal):
		return CultistSupreme
	case neighbours > 0:
		return CultistAdjacent
	default:
		return CultistNormal
	}
}
