package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/devsilvver/corrida-das-gemas/internal/sim"
)

// ParseCommand turns one line of player input into a loop command:
//
//	summon
//	merge <sourceId> <targetId>
//	drop <sourceId> <row> <col>
//	quit
func ParseCommand(line string) (sim.Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return sim.Command{}, fmt.Errorf("empty command")
	}
	ints := func(want int) ([]int, error) {
		if len(fields)-1 != want {
			return nil, fmt.Errorf("%s expects %d arguments, got %d", fields[0], want, len(fields)-1)
		}
		out := make([]int, want)
		for i, raw := range fields[1:] {
			value, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("%s argument %d: %w", fields[0], i+1, err)
			}
			out[i] = value
		}
		return out, nil
	}

	cmd := sim.Command{Source: sim.SourceLocal}
	switch strings.ToLower(fields[0]) {
	case "summon":
		cmd.Type = sim.CommandSummon
	case "merge":
		args, err := ints(2)
		if err != nil {
			return sim.Command{}, err
		}
		cmd.Type = sim.CommandMerge
		cmd.Merge = &sim.MergeCommand{SourceID: args[0], TargetID: args[1]}
	case "drop":
		args, err := ints(3)
		if err != nil {
			return sim.Command{}, err
		}
		cmd.Type = sim.CommandDrop
		cmd.Drop = &sim.DropCommand{SourceID: args[0], Row: args[1], Col: args[2]}
	case "quit":
		cmd.Type = sim.CommandAbandon
		cmd.Abandon = &sim.AbandonCommand{Reason: "quit"}
	default:
		return sim.Command{}, fmt.Errorf("unknown command %q", fields[0])
	}
	return cmd, nil
}

// scanCommands stages every parsed line from r until r ends or ctx is done.
func scanCommands(ctx context.Context, r io.Reader, queue func(sim.Command) bool, report func(string, ...any)) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, err := ParseCommand(line)
		if err != nil {
			report("ignoring input %q: %v", line, err)
			continue
		}
		if !queue(cmd) {
			report("input queue full, dropped %q", line)
		}
	}
	return scanner.Err()
}
