package catalog

import (
	"errors"
	"fmt"
)

// Rarity buckets characters for deck building and presentation.
type Rarity string

const (
	RarityCommon    Rarity = "Common"
	RarityRare      Rarity = "Rare"
	RarityEpic      Rarity = "Epic"
	RarityLegendary Rarity = "Legendary"
)

// Valid reports whether r is one of the known rarities.
func (r Rarity) Valid() bool {
	switch r {
	case RarityCommon, RarityRare, RarityEpic, RarityLegendary:
		return true
	}
	return false
}

// Ability identifies the special rule a character follows on the board.
type Ability string

const (
	AbilityNone         Ability = ""
	AbilityCultist      Ability = "CULTIST"
	AbilityForestFairy  Ability = "FOREST_FAIRY"
	AbilityJester       Ability = "JESTER"
	AbilityTeleportMage Ability = "TELEPORT_MAGE"
	AbilityPriestess    Ability = "PRIESTESS"
)

// Valid reports whether a is AbilityNone or one of the known abilities.
func (a Ability) Valid() bool {
	switch a {
	case AbilityNone, AbilityCultist, AbilityForestFairy, AbilityJester, AbilityTeleportMage, AbilityPriestess:
		return true
	}
	return false
}

// DeckSize is the number of distinct characters a match deck holds.
const DeckSize = 5

var (
	// ErrUnknownCharacter is returned when an id is not present in the catalog.
	ErrUnknownCharacter = errors.New("unknown character")
	// ErrInvalidDeck is returned when a deck does not satisfy the deck rules.
	ErrInvalidDeck = errors.New("invalid deck")
)

// Character is a static catalog entry. Values are copied freely and never mutated.
type Character struct {
	ID          string  `json:"id" yaml:"id" jsonschema:"title=Character id,pattern=^[A-Z]{3}_[0-9]{2}$"`
	Name        string  `json:"name" yaml:"name"`
	Rarity      Rarity  `json:"rarity" yaml:"rarity" jsonschema:"enum=Common,enum=Rare,enum=Epic,enum=Legendary"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	BaseDamage  float64 `json:"baseDamage" yaml:"baseDamage" jsonschema:"minimum=0,description=Damage per hit at level 1"`
	Ability     Ability `json:"abilityId,omitempty" yaml:"abilityId,omitempty" jsonschema:"enum=CULTIST,enum=FOREST_FAIRY,enum=JESTER,enum=TELEPORT_MAGE,enum=PRIESTESS"`
}

// Catalog indexes the full set of characters available to decks.
type Catalog struct {
	characters []Character
	byID       map[string]Character
}

// New builds a catalog, rejecting duplicate ids and unknown rarities or abilities.
func New(characters []Character) (*Catalog, error) {
	c := &Catalog{
		characters: make([]Character, 0, len(characters)),
		byID:       make(map[string]Character, len(characters)),
	}
	for _, ch := range characters {
		if ch.ID == "" {
			return nil, fmt.Errorf("character %q: missing id", ch.Name)
		}
		if _, exists := c.byID[ch.ID]; exists {
			return nil, fmt.Errorf("character %s: duplicate id", ch.ID)
		}
		if !ch.Rarity.Valid() {
			return nil, fmt.Errorf("character %s: unknown rarity %q", ch.ID, ch.Rarity)
		}
		if !ch.Ability.Valid() {
			return nil, fmt.Errorf("character %s: unknown ability %q", ch.ID, ch.Ability)
		}
		if ch.BaseDamage < 0 {
			return nil, fmt.Errorf("character %s: negative base damage", ch.ID)
		}
		c.characters = append(c.characters, ch)
		c.byID[ch.ID] = ch
	}
	return c, nil
}

// Lookup returns the character registered under id.
func (c *Catalog) Lookup(id string) (Character, bool) {
	if c == nil {
		return Character{}, false
	}
	ch, ok := c.byID[id]
	return ch, ok
}

// All returns the catalog entries in declaration order.
func (c *Catalog) All() []Character {
	if c == nil {
		return nil
	}
	copied := make([]Character, len(c.characters))
	copy(copied, c.characters)
	return copied
}

// Len reports the number of characters in the catalog.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.characters)
}

// Deck is the fixed set of characters a side samples summons and merge results from.
type Deck []Character

// IDs returns the character ids in deck order.
func (d Deck) IDs() []string {
	ids := make([]string, len(d))
	for i, ch := range d {
		ids[i] = ch.ID
	}
	return ids
}

// Without returns the deck entries whose id differs from id.
func (d Deck) Without(id string) Deck {
	out := make(Deck, 0, len(d))
	for _, ch := range d {
		if ch.ID != id {
			out = append(out, ch)
		}
	}
	return out
}

// Deck resolves ids into a deck of exactly DeckSize distinct characters.
func (c *Catalog) Deck(ids []string) (Deck, error) {
	if len(ids) != DeckSize {
		return nil, fmt.Errorf("%w: want %d characters, got %d", ErrInvalidDeck, DeckSize, len(ids))
	}
	seen := make(map[string]struct{}, len(ids))
	deck := make(Deck, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: duplicate character %s", ErrInvalidDeck, id)
		}
		seen[id] = struct{}{}
		ch, ok := c.Lookup(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCharacter, id)
		}
		deck = append(deck, ch)
	}
	return deck, nil
}
