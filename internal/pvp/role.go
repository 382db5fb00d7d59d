package pvp

import (
	"errors"
	"fmt"

	"github.com/devsilvver/corrida-das-gemas/internal/match"
	"github.com/devsilvver/corrida-das-gemas/internal/net/proto"
)

var (
	// ErrConnectionLost ends a match whose peer channel closed.
	ErrConnectionLost = errors.New("peer connection lost")
	// ErrHandshake wraps every lobby failure.
	ErrHandshake = errors.New("lobby handshake failed")
)

// Role is this peer's identity in a PvP match.
type Role string

const (
	RoleHost  Role = "host"
	RoleGuest Role = "guest"
)

// ParseRole validates a role name.
func ParseRole(name string) (Role, error) {
	switch Role(name) {
	case RoleHost, RoleGuest:
		return Role(name), nil
	}
	return "", fmt.Errorf("unknown role %q", name)
}

// Side maps a host-relative forPlayer flag onto this peer's boards.
func (r Role) Side(forPlayer bool) match.Side {
	if (r == RoleHost) == forPlayer {
		return match.SideMine
	}
	return match.SideTheirs
}

// ForPlayer is the inverse of Side.
func (r Role) ForPlayer(side match.Side) bool {
	return (side == match.SideMine) == (r == RoleHost)
}

// Accepts reports whether r handles inbound envelopes of kind during a
// match. Lobby envelopes are consumed by the handshake before that.
func (r Role) Accepts(kind string) bool {
	switch r {
	case RoleHost:
		return kind == proto.TypeRequestSummon || kind == proto.TypeRequestMerge
	case RoleGuest:
		return kind == proto.TypeAction || kind == proto.TypeState
	}
	return false
}

// winnerTag renders a local winner in host-relative terms.
func (r Role) winnerTag(side match.Side) string {
	if side == match.SideNone {
		return proto.WinnerNone
	}
	if r.ForPlayer(side) {
		return proto.WinnerHost
	}
	return proto.WinnerGuest
}

// winnerSide maps a host-relative winner tag onto this peer's boards.
func (r Role) winnerSide(tag string) match.Side {
	switch tag {
	case proto.WinnerHost:
		return r.Side(true)
	case proto.WinnerGuest:
		return r.Side(false)
	}
	return match.SideNone
}
