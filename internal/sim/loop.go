package sim

import (
	"context"
	"time"

	"github.com/devsilvver/corrida-das-gemas/internal/telemetry"
	"github.com/devsilvver/corrida-das-gemas/logging"
)

const (
	// DefaultTickRate runs the match at 50Hz.
	DefaultTickRate = 50

	ticksMetricKey    = "sim_ticks_total"
	overrunsMetricKey = "sim_tick_overruns_total"
)

// TickContext describes the tick being processed.
type TickContext struct {
	Tick uint64
	Now  time.Time
}

// Engine is the simulation driven by the loop. Apply and Step always run on
// the loop goroutine, Apply first with the commands staged since the last tick.
type Engine interface {
	Apply(ctx TickContext, cmds []Command)
	Step(ctx TickContext)
	// Finished reports whether the loop should stop, and with which error.
	Finished() (bool, error)
}

// LoopConfig tunes the command buffer and tick loop orchestration.
type LoopConfig struct {
	TickRate        int
	CommandCapacity int
	WarningStep     int
}

// LoopHooks are optional callbacks fired on the loop goroutine.
type LoopHooks struct {
	AfterStep      func(LoopStepResult)
	OnCommandDrop  func(Command)
	OnQueueWarning func(length int)
}

// LoopStepResult summarises one advanced tick.
type LoopStepResult struct {
	Tick     uint64
	Now      time.Time
	Commands []Command
	Duration time.Duration
	Budget   time.Duration
}

// Loop coordinates command ingestion and the fixed-timestep simulation runner.
type Loop struct {
	engine  Engine
	buffer  *CommandBuffer
	hooks   LoopHooks
	config  LoopConfig
	clock   logging.Clock
	logger  telemetry.Logger
	metrics telemetry.Metrics
	tick    uint64
}

// NewLoop wraps engine with a ring-buffer queue and a fixed-rate ticker.
func NewLoop(engine Engine, cfg LoopConfig, hooks LoopHooks, clock logging.Clock, logger telemetry.Logger, metrics telemetry.Metrics) *Loop {
	if cfg.TickRate <= 0 {
		cfg.TickRate = DefaultTickRate
	}
	if cfg.CommandCapacity <= 0 {
		cfg.CommandCapacity = 256
	}
	if clock == nil {
		clock = logging.ClockFunc(time.Now)
	}
	return &Loop{
		engine:  engine,
		buffer:  NewCommandBuffer(cfg.CommandCapacity, metrics),
		hooks:   hooks,
		config:  cfg,
		clock:   clock,
		logger:  logger,
		metrics: metrics,
	}
}

// Interval is the wall time between ticks.
func (l *Loop) Interval() time.Duration {
	return time.Second / time.Duration(l.config.TickRate)
}

// Pending reports the number of staged commands.
func (l *Loop) Pending() int {
	return l.buffer.Len()
}

// Enqueue stages a command for the next tick. It is safe to call from any
// goroutine and reports false when the buffer is saturated.
func (l *Loop) Enqueue(cmd Command) bool {
	if cmd.IssuedAt.IsZero() {
		cmd.IssuedAt = l.clock.Now()
	}
	if !l.buffer.Push(cmd) {
		if l.hooks.OnCommandDrop != nil {
			l.hooks.OnCommandDrop(cmd)
		}
		if l.logger != nil {
			l.logger.Printf("[backpressure] dropping command source=%s type=%s capacity=%d", cmd.Source, cmd.Type, l.buffer.Capacity())
		}
		return false
	}
	if step := l.config.WarningStep; step > 0 && l.hooks.OnQueueWarning != nil {
		if length := l.buffer.Len(); length >= step && length%step == 0 {
			l.hooks.OnQueueWarning(length)
		}
	}
	return true
}

// Advance executes a single simulation step using the staged commands.
func (l *Loop) Advance(ctx TickContext) LoopStepResult {
	start := l.clock.Now()
	commands := l.buffer.Drain()
	l.engine.Apply(ctx, commands)
	l.engine.Step(ctx)
	result := LoopStepResult{
		Tick:     ctx.Tick,
		Now:      ctx.Now,
		Commands: commands,
		Duration: l.clock.Now().Sub(start),
		Budget:   l.Interval(),
	}
	if l.metrics != nil {
		l.metrics.Add(ticksMetricKey, 1)
		if result.Duration > result.Budget {
			l.metrics.Add(overrunsMetricKey, 1)
		}
	}
	if l.hooks.AfterStep != nil {
		l.hooks.AfterStep(result)
	}
	return result
}

// Run drives the fixed-timestep loop until the engine finishes or ctx is
// cancelled. The ticker is stopped before Run returns, so no tick fires
// after teardown.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.tick++
			l.Advance(TickContext{Tick: l.tick, Now: l.clock.Now()})
			if done, err := l.engine.Finished(); done {
				return err
			}
		}
	}
}
