package pvp

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/devsilvver/corrida-das-gemas/internal/catalog"
	"github.com/devsilvver/corrida-das-gemas/internal/net/proto"
)

// Start is the agreed setup of a PvP match.
type Start struct {
	MatchID   string
	HostDeck  catalog.Deck
	GuestDeck catalog.Deck
}

// Decks returns the local and remote decks for role.
func (s Start) Decks(role Role) (mine, theirs catalog.Deck) {
	if role == RoleHost {
		return s.HostDeck, s.GuestDeck
	}
	return s.GuestDeck, s.HostDeck
}

// Handshake runs the lobby exchange over l. The host shares its deck, the
// guest answers with its own, and the host fixes both in start_game.
// Unknown character ids abort the handshake.
func Handshake(ctx context.Context, l *Link, cat *catalog.Catalog, deck catalog.Deck) (Start, error) {
	if l.Role() == RoleHost {
		return hostHandshake(ctx, l, cat, deck)
	}
	return guestHandshake(ctx, l, cat, deck)
}

func hostHandshake(ctx context.Context, l *Link, cat *catalog.Catalog, deck catalog.Deck) (Start, error) {
	if err := l.Send(proto.Envelope{Type: proto.TypeDeckShare, Payload: proto.DeckShare(deck.IDs())}); err != nil {
		return Start{}, fmt.Errorf("%w: share deck: %w", ErrHandshake, err)
	}
	shared, err := expect[proto.DeckShare](ctx, l, proto.TypeDeckShare)
	if err != nil {
		return Start{}, err
	}
	guestDeck, err := cat.Deck(shared)
	if err != nil {
		return Start{}, fmt.Errorf("%w: guest deck: %w", ErrHandshake, err)
	}
	start := Start{MatchID: uuid.NewString(), HostDeck: deck, GuestDeck: guestDeck}
	err = l.Send(proto.Envelope{Type: proto.TypeStartGame, Payload: proto.StartGame{
		MatchID:   start.MatchID,
		Version:   proto.Version,
		HostDeck:  deck.IDs(),
		GuestDeck: guestDeck.IDs(),
	}})
	if err != nil {
		return Start{}, fmt.Errorf("%w: start game: %w", ErrHandshake, err)
	}
	return start, nil
}

func guestHandshake(ctx context.Context, l *Link, cat *catalog.Catalog, deck catalog.Deck) (Start, error) {
	shared, err := expect[proto.DeckShare](ctx, l, proto.TypeDeckShare)
	if err != nil {
		return Start{}, err
	}
	if _, err := cat.Deck(shared); err != nil {
		return Start{}, fmt.Errorf("%w: host deck: %w", ErrHandshake, err)
	}
	if err := l.Send(proto.Envelope{Type: proto.TypeDeckShare, Payload: proto.DeckShare(deck.IDs())}); err != nil {
		return Start{}, fmt.Errorf("%w: share deck: %w", ErrHandshake, err)
	}
	started, err := expect[proto.StartGame](ctx, l, proto.TypeStartGame)
	if err != nil {
		return Start{}, err
	}
	if started.Version != proto.Version {
		return Start{}, fmt.Errorf("%w: protocol version %d, want %d", ErrHandshake, started.Version, proto.Version)
	}
	hostDeck, err := cat.Deck(started.HostDeck)
	if err != nil {
		return Start{}, fmt.Errorf("%w: host deck: %w", ErrHandshake, err)
	}
	guestDeck := deck
	if len(started.GuestDeck) > 0 {
		if guestDeck, err = cat.Deck(started.GuestDeck); err != nil {
			return Start{}, fmt.Errorf("%w: guest deck: %w", ErrHandshake, err)
		}
	}
	return Start{MatchID: started.MatchID, HostDeck: hostDeck, GuestDeck: guestDeck}, nil
}

func expect[T any](ctx context.Context, l *Link, kind string) (T, error) {
	var zero T
	env, err := l.Recv(ctx)
	if err != nil {
		return zero, fmt.Errorf("%w: waiting for %s: %w", ErrHandshake, kind, err)
	}
	if env.Type != kind {
		return zero, fmt.Errorf("%w: expected %s, got %s", ErrHandshake, kind, env.Type)
	}
	payload, ok := proto.Payload[T](env)
	if !ok {
		return zero, fmt.Errorf("%w: malformed %s", ErrHandshake, kind)
	}
	return payload, nil
}
