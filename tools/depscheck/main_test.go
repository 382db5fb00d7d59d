package main

import (
	"strings"
	"testing"
)

func TestCheckReportsForbiddenImports(t *testing.T) {
	stream := `{"ImportPath":"github.com/devsilvver/corrida-das-gemas/internal/net/ws","Imports":["github.com/devsilvver/corrida-das-gemas/internal/net/peer","github.com/devsilvver/corrida-das-gemas/internal/match"]}
{"ImportPath":"github.com/devsilvver/corrida-das-gemas/internal/match","Imports":["github.com/devsilvver/corrida-das-gemas/internal/sim","github.com/devsilvver/corrida-das-gemas/internal/board"]}
{"ImportPath":"github.com/devsilvver/corrida-das-gemas/logging/sinks","Imports":["go.uber.org/zap","github.com/devsilvver/corrida-das-gemas/internal/telemetry"]}
{"ImportPath":"github.com/devsilvver/corrida-das-gemas/internal/pvp","Imports":["github.com/devsilvver/corrida-das-gemas/internal/match"]}`

	violations, err := check(strings.NewReader(stream))
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	want := []string{
		"github.com/devsilvver/corrida-das-gemas/internal/net/ws -> github.com/devsilvver/corrida-das-gemas/internal/match",
		"github.com/devsilvver/corrida-das-gemas/logging/sinks -> github.com/devsilvver/corrida-das-gemas/internal/telemetry",
	}
	if strings.Join(violations, "\n") != strings.Join(want, "\n") {
		t.Fatalf("expected %v, got %v", want, violations)
	}
}

func TestUnderMatchesWholeSegments(t *testing.T) {
	if under(modulePath+"/internal/network", "internal/net") {
		t.Fatalf("expected internal/network not to fall under internal/net")
	}
	if !under(modulePath+"/internal/net", "internal/net") {
		t.Fatalf("expected the package itself to match")
	}
}
