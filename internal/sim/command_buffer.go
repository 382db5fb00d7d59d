package sim

import (
	"sync"

	"github.com/devsilvver/corrida-das-gemas/internal/telemetry"
)

const (
	queueDepthMetricKey     = "sim_command_queue_depth"
	queueOverflowMetricBase = "sim_command_overflow_total_"
)

// CommandBuffer is the bounded FIFO between input goroutines and the tick.
// Intents beyond capacity are refused, but an abandon is always accepted:
// it is parked outside the ring and delivered after everything staged
// before it, so a lost peer ends the match even under a flood of input.
type CommandBuffer struct {
	mu      sync.Mutex
	ring    []Command
	start   int
	size    int
	abandon *Command
	metrics telemetry.Metrics
}

// NewCommandBuffer holds up to capacity intents (at least one).
func NewCommandBuffer(capacity int, metrics telemetry.Metrics) *CommandBuffer {
	return &CommandBuffer{
		ring:    make([]Command, max(capacity, 1)),
		metrics: metrics,
	}
}

func (b *CommandBuffer) Capacity() int {
	return len(b.ring)
}

// Push stages cmd and reports whether it was kept. Only the first abandon
// staged between drains is kept.
func (b *CommandBuffer) Push(cmd Command) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if cmd.Type == CommandAbandon {
		if b.abandon != nil {
			return false
		}
		parked := cmd
		b.abandon = &parked
		b.reportDepth()
		return true
	}
	if b.size == len(b.ring) {
		if b.metrics != nil {
			b.metrics.Add(queueOverflowMetricBase+sourceLabel(cmd.Source), 1)
		}
		return false
	}
	b.ring[(b.start+b.size)%len(b.ring)] = cmd
	b.size++
	b.reportDepth()
	return true
}

// Drain empties the buffer in arrival order, a parked abandon last.
func (b *CommandBuffer) Drain() []Command {
	b.mu.Lock()
	defer b.mu.Unlock()

	total := b.size
	if b.abandon != nil {
		total++
	}
	if total == 0 {
		return nil
	}
	out := make([]Command, 0, total)
	for ; b.size > 0; b.size-- {
		out = append(out, b.ring[b.start])
		b.ring[b.start] = Command{}
		b.start = (b.start + 1) % len(b.ring)
	}
	if b.abandon != nil {
		out = append(out, *b.abandon)
		b.abandon = nil
	}
	b.reportDepth()
	return out
}

// Len counts staged commands, including a parked abandon.
func (b *CommandBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.abandon != nil {
		return b.size + 1
	}
	return b.size
}

func (b *CommandBuffer) reportDepth() {
	if b.metrics == nil {
		return
	}
	depth := b.size
	if b.abandon != nil {
		depth++
	}
	b.metrics.Store(queueDepthMetricKey, uint64(depth))
}

func sourceLabel(source string) string {
	if source == "" {
		return "unknown"
	}
	return source
}
