package sinks

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/devsilvver/corrida-das-gemas/logging"
)

func sampleEvent() logging.Event {
	return logging.Event{
		Type:     "economy.summoned",
		Tick:     12,
		Time:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Actor:    logging.EntityRef{Kind: logging.EntityKindSide, ID: "mine"},
		Targets:  []logging.EntityRef{{Kind: logging.EntityKindUnit, ID: "3"}},
		Severity: logging.SeverityWarn,
		Category: "economy",
		Payload:  map[string]int{"cost": 25},
		Extra:    map[string]any{"matchId": "m1"},
	}
}

func TestConsoleSinkFormatsLine(t *testing.T) {
	var buf bytes.Buffer
	sink := NewConsoleSink(&buf)
	if err := sink.Write(sampleEvent()); err != nil {
		t.Fatalf("write: %v", err)
	}
	line := buf.String()
	for _, want := range []string{"[economy.summoned]", "tick=12", "actor=side:mine", "severity=warn", "targets=unit:3", `payload={"cost":25}`, "matchId=m1"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
}

type closeRecorder struct {
	bytes.Buffer
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func TestJSONSinkWritesLinesAndClosesWriter(t *testing.T) {
	out := &closeRecorder{}
	sink := NewJSON(out, 0)
	if err := sink.Write(sampleEvent()); err != nil {
		t.Fatalf("write: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("expected one json line, got %q: %v", out.String(), err)
	}
	if decoded["type"] != "economy.summoned" || decoded["severity"] != "warn" {
		t.Fatalf("unexpected wire shape %v", decoded)
	}
	if err := sink.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !out.closed {
		t.Fatalf("expected the writer to be closed with the sink")
	}
}

func TestJSONSinkBuffersUntilClose(t *testing.T) {
	out := &closeRecorder{}
	sink := NewJSON(out, time.Hour)
	if err := sink.Write(sampleEvent()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected buffered output, got %q", out.String())
	}
	if err := sink.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
	if out.Len() == 0 {
		t.Fatalf("expected close to flush")
	}
}

func TestZapSinkMapsSeverityAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sink, err := NewZap(zap.New(core), false)
	if err != nil {
		t.Fatalf("new zap: %v", err)
	}
	if err := sink.Write(sampleEvent()); err != nil {
		t.Fatalf("write: %v", err)
	}
	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Message != "economy.summoned" || entry.Level != zapcore.WarnLevel {
		t.Fatalf("unexpected entry %s/%s", entry.Message, entry.Level)
	}
	fields := entry.ContextMap()
	if fields["actor"] != "side:mine" || fields["matchId"] != "m1" || fields["tick"] != uint64(12) {
		t.Fatalf("unexpected fields %v", fields)
	}
}

func TestMemorySinkFiltersAndResets(t *testing.T) {
	sink := NewMemorySink()
	sink.Publish(context.Background(), sampleEvent())
	sink.Publish(context.Background(), logging.Event{Type: "other"})
	if got := len(sink.OfType("economy.summoned")); got != 1 {
		t.Fatalf("expected 1 matching event, got %d", got)
	}
	if got := len(sink.Events()); got != 2 {
		t.Fatalf("expected 2 events, got %d", got)
	}
	sink.Reset()
	if got := len(sink.Events()); got != 0 {
		t.Fatalf("expected reset to clear, got %d", got)
	}
}
