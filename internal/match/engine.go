package match

import (
	"github.com/devsilvver/corrida-das-gemas/internal/board"
	"github.com/devsilvver/corrida-das-gemas/internal/sim"
)

// LocalEngine drives a single-process match (PvE or training) from the
// loop. Every local intent targets the player's own board.
type LocalEngine struct {
	match *Match
	err   error
}

// NewLocalEngine adapts m to the loop's Engine contract.
func NewLocalEngine(m *Match) *LocalEngine {
	return &LocalEngine{match: m}
}

func (e *LocalEngine) Match() *Match { return e.match }

func (e *LocalEngine) Apply(ctx sim.TickContext, cmds []sim.Command) {
	e.match.SetNow(ctx.Now.UnixMilli())
	for _, cmd := range cmds {
		switch cmd.Type {
		case sim.CommandSummon:
			e.match.Summon(SideMine)
		case sim.CommandMerge:
			if cmd.Merge != nil {
				e.match.AttemptMerge(SideMine, cmd.Merge.SourceID, cmd.Merge.TargetID)
			}
		case sim.CommandDrop:
			if cmd.Drop != nil {
				e.match.AttemptDrop(SideMine, cmd.Drop.SourceID, boardCell(cmd.Drop))
			}
		case sim.CommandAbandon:
			reason := "abandoned"
			if cmd.Abandon != nil {
				reason = cmd.Abandon.Reason
				if !e.match.Done() {
					e.err = cmd.Abandon.Err
				}
			}
			e.match.Abandon(reason)
		}
	}
}

func (e *LocalEngine) Step(ctx sim.TickContext) {
	e.match.Step(ctx.Now.UnixMilli())
}

func (e *LocalEngine) Finished() (bool, error) {
	return e.match.Done(), e.err
}

func boardCell(drop *sim.DropCommand) board.Cell {
	return board.Cell{Row: drop.Row, Col: drop.Col}
}
