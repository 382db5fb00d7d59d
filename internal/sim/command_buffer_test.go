package sim

import (
	"testing"

	"github.com/devsilvver/corrida-das-gemas/internal/telemetry"
)

func TestCommandBufferKeepsOrderAcrossWrap(t *testing.T) {
	buffer := NewCommandBuffer(3, nil)
	for _, id := range []int{1, 2, 3} {
		if !buffer.Push(Command{Type: CommandMerge, Merge: &MergeCommand{SourceID: id}}) {
			t.Fatalf("expected merge %d to be staged", id)
		}
	}
	if buffer.Push(Command{Type: CommandSummon}) {
		t.Fatalf("expected a full buffer to refuse a summon")
	}
	if got := len(buffer.Drain()); got != 3 {
		t.Fatalf("expected 3 staged merges, got %d", got)
	}

	for _, id := range []int{4, 5} {
		buffer.Push(Command{Type: CommandMerge, Merge: &MergeCommand{SourceID: id}})
	}
	wrapped := buffer.Drain()
	if len(wrapped) != 2 || wrapped[0].Merge.SourceID != 4 || wrapped[1].Merge.SourceID != 5 {
		t.Fatalf("expected merges 4 then 5 after wrapping, got %+v", wrapped)
	}
	if buffer.Drain() != nil {
		t.Fatalf("expected an empty drain to return nil")
	}
}

func TestCommandBufferAlwaysAcceptsAbandon(t *testing.T) {
	counters := telemetry.NewCounters()
	buffer := NewCommandBuffer(1, counters)
	buffer.Push(Command{Type: CommandSummon, Source: SourceLocal})
	if buffer.Push(Command{Type: CommandEnvelope, Source: SourcePeer}) {
		t.Fatalf("expected the peer envelope to overflow")
	}
	if !buffer.Push(Command{Type: CommandAbandon, Source: SourcePeer, Abandon: &AbandonCommand{Reason: "connection_lost"}}) {
		t.Fatalf("expected abandon to be accepted on a full buffer")
	}
	if buffer.Push(Command{Type: CommandAbandon, Abandon: &AbandonCommand{Reason: "quit"}}) {
		t.Fatalf("expected a second abandon to be refused")
	}
	if buffer.Len() != 2 {
		t.Fatalf("expected 2 staged commands, got %d", buffer.Len())
	}

	snapshot := counters.Snapshot()
	if snapshot[queueOverflowMetricBase+SourcePeer] != 1 || snapshot[queueOverflowMetricBase+SourceLocal] != 0 {
		t.Fatalf("expected one peer overflow, got %v", snapshot)
	}
	if snapshot[queueDepthMetricKey] != 2 {
		t.Fatalf("expected depth 2, got %d", snapshot[queueDepthMetricKey])
	}

	drained := buffer.Drain()
	if len(drained) != 2 || drained[0].Type != CommandSummon || drained[1].Abandon.Reason != "connection_lost" {
		t.Fatalf("expected summon then the first abandon, got %+v", drained)
	}
	if buffer.Len() != 0 || counters.Snapshot()[queueDepthMetricKey] != 0 {
		t.Fatalf("expected an empty buffer after drain")
	}
}
