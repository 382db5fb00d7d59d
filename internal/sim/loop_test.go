package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/devsilvver/corrida-das-gemas/internal/telemetry"
)

type recordingEngine struct {
	applied  [][]Command
	steps    []uint64
	finishAt uint64
	err      error
}

func (e *recordingEngine) Apply(_ TickContext, cmds []Command) {
	e.applied = append(e.applied, cmds)
}

func (e *recordingEngine) Step(ctx TickContext) {
	e.steps = append(e.steps, ctx.Tick)
}

func (e *recordingEngine) Finished() (bool, error) {
	if e.finishAt > 0 && uint64(len(e.steps)) >= e.finishAt {
		return true, e.err
	}
	return false, nil
}

func TestAdvanceAppliesStagedCommandsOnce(t *testing.T) {
	engine := &recordingEngine{}
	var results []LoopStepResult
	loop := NewLoop(engine, LoopConfig{CommandCapacity: 4}, LoopHooks{
		AfterStep: func(r LoopStepResult) { results = append(results, r) },
	}, nil, nil, nil)

	loop.Enqueue(Command{Type: CommandSummon, Source: SourceLocal})
	loop.Enqueue(Command{Type: CommandMerge, Source: SourceLocal, Merge: &MergeCommand{SourceID: 1, TargetID: 2}})
	loop.Advance(TickContext{Tick: 1})
	loop.Advance(TickContext{Tick: 2})

	if len(engine.applied) != 2 || len(engine.applied[0]) != 2 || len(engine.applied[1]) != 0 {
		t.Fatalf("expected both commands on the first tick only, got %+v", engine.applied)
	}
	if engine.applied[0][1].Merge.TargetID != 2 {
		t.Fatalf("expected commands in FIFO order")
	}
	if len(results) != 2 || results[0].Tick != 1 || len(results[0].Commands) != 2 {
		t.Fatalf("unexpected step results %+v", results)
	}
	if loop.Pending() != 0 {
		t.Fatalf("expected empty buffer after advance")
	}
}

func TestEnqueueReportsDrops(t *testing.T) {
	engine := &recordingEngine{}
	dropped := 0
	counters := telemetry.NewCounters()
	loop := NewLoop(engine, LoopConfig{CommandCapacity: 1}, LoopHooks{
		OnCommandDrop: func(Command) { dropped++ },
	}, nil, nil, counters)

	if !loop.Enqueue(Command{Type: CommandSummon}) {
		t.Fatalf("expected first enqueue to succeed")
	}
	if loop.Enqueue(Command{Type: CommandSummon}) {
		t.Fatalf("expected second enqueue to be dropped")
	}
	if dropped != 1 {
		t.Fatalf("expected drop hook once, got %d", dropped)
	}
}

func TestRunStopsWhenEngineFinishes(t *testing.T) {
	wantErr := errors.New("connection lost")
	engine := &recordingEngine{finishAt: 3, err: wantErr}
	loop := NewLoop(engine, LoopConfig{TickRate: 1000}, LoopHooks{}, nil, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := loop.Run(ctx); !errors.Is(err, wantErr) {
		t.Fatalf("expected engine error, got %v", err)
	}
	if len(engine.steps) != 3 {
		t.Fatalf("expected exactly 3 ticks, got %d", len(engine.steps))
	}
	for i, tick := range engine.steps {
		if tick != uint64(i+1) {
			t.Fatalf("expected monotonically increasing ticks, got %v", engine.steps)
		}
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	engine := &recordingEngine{}
	loop := NewLoop(engine, LoopConfig{TickRate: 1000}, LoopHooks{}, nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("loop did not stop after cancel")
	}
}
