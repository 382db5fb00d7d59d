package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/devsilvver/corrida-das-gemas/internal/board"
	"github.com/devsilvver/corrida-das-gemas/internal/match"
)

// TextRenderer prints a board summary whenever the match clock crosses a
// whole second. It is meant for terminals and logs, not for play.
func TextRenderer(w io.Writer) func(match.Snapshot) {
	lastSecond := -1
	ended := false
	return func(snap match.Snapshot) {
		if ended {
			return
		}
		over := snap.Winner != match.SideNone
		if snap.ElapsedSeconds == lastSecond && !over {
			return
		}
		lastSecond = snap.ElapsedSeconds
		ended = over

		var b strings.Builder
		fmt.Fprintf(&b, "t=%ds boss=%ds", snap.ElapsedSeconds, snap.BossTimer)
		if snap.BossActive {
			b.WriteString(" [boss]")
		}
		writeSide(&b, snap.Mine)
		if snap.Theirs != nil {
			writeSide(&b, *snap.Theirs)
		}
		if over {
			fmt.Fprintf(&b, " winner=%s", snap.Winner)
		}
		b.WriteByte('\n')
		io.WriteString(w, b.String())
	}
}

func writeSide(b *strings.Builder, side match.SideSnapshot) {
	fmt.Fprintf(b, " | %s hp=%d mana=%d cost=%d enemies=%d ", side.Side, side.Health, side.Mana, side.SummonCost, len(side.Enemies))
	grid := make([][]string, board.Rows)
	for r := range grid {
		grid[r] = make([]string, board.Cols)
		for c := range grid[r] {
			grid[r][c] = "."
		}
	}
	for _, unit := range side.Units {
		grid[unit.Row][unit.Col] = fmt.Sprintf("%d:%s%d", unit.ID, unit.Character.ID, unit.Level)
	}
	for r, row := range grid {
		if r > 0 {
			b.WriteByte('/')
		}
		b.WriteString(strings.Join(row, ","))
	}
}
