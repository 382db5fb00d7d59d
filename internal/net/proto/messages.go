package proto

import (
	"errors"

	"github.com/devsilvver/corrida-das-gemas/internal/arena"
	"github.com/devsilvver/corrida-das-gemas/internal/board"
)

// Version tracks the wire-protocol revision both peers expect.
const Version = 1

// Envelope type identifiers.
const (
	TypeRequestSummon = "request_summon"
	TypeRequestMerge  = "request_merge"
	TypeAction        = "action"
	TypeState         = "state"
	TypeDeckShare     = "deck_share"
	TypeStartGame     = "start_game"
)

// ErrUnknownType is returned when decoding an envelope with an unrecognised type.
var ErrUnknownType = errors.New("unknown envelope type")

// Envelope is the only framing on the peer channel. Payload holds one of the
// payload types below, or nil for request_summon.
type Envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// RequestMerge asks the host to resolve an interaction on the guest's board.
type RequestMerge struct {
	Unit1ID int `json:"unit1Id"`
	Unit2ID int `json:"unit2Id"`
}

// ActionType tags a canonical outcome.
type ActionType string

const (
	ActionSummon       ActionType = "SUMMON"
	ActionMerge        ActionType = "MERGE"
	ActionJesterCopy   ActionType = "JESTER_COPY"
	ActionTeleportSwap ActionType = "TELEPORT_SWAP"
)

// Action is an outcome already decided by the host. ForPlayer is relative to
// the host: true targets the host's own board.
type Action struct {
	Type          ActionType  `json:"type"`
	ForPlayer     bool        `json:"forPlayer"`
	NewUnit       *board.Unit `json:"newUnit,omitempty"`
	NewSummonCost int         `json:"newSummonCost,omitempty"`
	Unit1ID       int         `json:"unit1Id"`
	Unit2ID       int         `json:"unit2Id"`
	JesterID      int         `json:"jesterId"`
	ManaGained    int         `json:"manaGained,omitempty"`
	CooldownUntil int64       `json:"cooldownUntil,omitempty"`
}

// SideState mirrors one side's resources and enemies.
type SideState struct {
	Enemies    []arena.Enemy `json:"enemies"`
	Health     int           `json:"health"`
	Mana       int           `json:"mana"`
	SummonCost int           `json:"summonCost"`
}

// Winner values carried by State.
const (
	WinnerNone  = ""
	WinnerHost  = "host"
	WinnerGuest = "guest"
)

// State is the host's periodic broadcast of everything except board units.
type State struct {
	Tick             uint64    `json:"tick"`
	Host             SideState `json:"host"`
	Guest            SideState `json:"guest"`
	ElapsedSeconds   int       `json:"elapsedSeconds"`
	BossTimer        int       `json:"bossTimer"`
	BossActive       bool      `json:"bossActive"`
	BossHPMultiplier float64   `json:"bossHpMultiplier"`
	Winner           string    `json:"winner,omitempty"`
}

// DeckShare carries the sender's deck as character ids.
type DeckShare []string

// StartGame ends the lobby and fixes both decks for the match.
type StartGame struct {
	MatchID   string   `json:"matchId"`
	Version   int      `json:"version"`
	HostDeck  []string `json:"hostDeck"`
	GuestDeck []string `json:"guestDeck"`
}
