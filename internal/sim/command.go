package sim

import (
	"time"

	"github.com/devsilvver/corrida-das-gemas/internal/net/proto"
)

// CommandType enumerates the intents the tick goroutine consumes.
type CommandType string

const (
	CommandSummon   CommandType = "Summon"
	CommandMerge    CommandType = "Merge"
	CommandDrop     CommandType = "Drop"
	CommandEnvelope CommandType = "Envelope"
	CommandAbandon  CommandType = "Abandon"
)

// Command sources.
const (
	SourceLocal = "local"
	SourcePeer  = "peer"
)

// MergeCommand drags one unit onto another.
type MergeCommand struct {
	SourceID int `json:"sourceId"`
	TargetID int `json:"targetId"`
}

// DropCommand drops a unit onto a board cell.
type DropCommand struct {
	SourceID int `json:"sourceId"`
	Row      int `json:"row"`
	Col      int `json:"col"`
}

// AbandonCommand ends the match without a winner.
type AbandonCommand struct {
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

// Command represents an intent captured for processing on the next tick.
type Command struct {
	OriginTick uint64          `json:"originTick"`
	Source     string          `json:"source"`
	Type       CommandType     `json:"type"`
	IssuedAt   time.Time       `json:"issuedAt"`
	Merge      *MergeCommand   `json:"merge,omitempty"`
	Drop       *DropCommand    `json:"drop,omitempty"`
	Envelope   *proto.Envelope `json:"envelope,omitempty"`
	Abandon    *AbandonCommand `json:"abandon,omitempty"`
}
