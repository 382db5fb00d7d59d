package board

import (
	"errors"
	"fmt"

	"github.com/devsilvver/corrida-das-gemas/internal/catalog"
)

const (
	// Rows is the number of board rows.
	Rows = 3
	// Cols is the number of board columns.
	Cols = 5
	// Cells is the board capacity.
	Cells = Rows * Cols
	// MaxLevel is the highest level a unit can reach through merges.
	MaxLevel = 6
)

var (
	// ErrCellOccupied is returned when placing a unit onto a taken cell.
	ErrCellOccupied = errors.New("cell occupied")
	// ErrOutOfBounds is returned for cells outside the grid.
	ErrOutOfBounds = errors.New("cell out of bounds")
	// ErrDuplicateID is returned when a unit id is already on the board.
	ErrDuplicateID = errors.New("duplicate unit id")
	// ErrInvalidLevel is returned for levels outside [1, MaxLevel].
	ErrInvalidLevel = errors.New("invalid level")
)

// Cell addresses one grid position.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// InBounds reports whether the cell lies on the grid.
func (c Cell) InBounds() bool {
	return c.Row >= 0 && c.Row < Rows && c.Col >= 0 && c.Col < Cols
}

// Unit is a character placed on a board. Cooldowns are unix milliseconds;
// zero means unset.
type Unit struct {
	ID                   int               `json:"id"`
	Character            catalog.Character `json:"character"`
	Level                int               `json:"level"`
	Row                  int               `json:"row"`
	Col                  int               `json:"col"`
	AttackCooldownUntil  int64             `json:"attackCooldownUntil,omitempty"`
	AbilityCooldownUntil int64             `json:"abilityCooldownUntil,omitempty"`
}

// Cell returns the unit's grid position.
func (u Unit) Cell() Cell {
	return Cell{Row: u.Row, Col: u.Col}
}

// Ability is shorthand for the unit's character ability.
func (u Unit) Ability() catalog.Ability {
	return u.Character.Ability
}

// Board holds one side's units. Iteration order is placement order.
type Board struct {
	units  []*Unit
	nextID int
}

// New returns an empty board.
func New() *Board {
	return &Board{units: make([]*Unit, 0, Cells)}
}

// Len reports the number of units on the board.
func (b *Board) Len() int {
	return len(b.units)
}

// Full reports whether every cell is occupied.
func (b *Board) Full() bool {
	return len(b.units) >= Cells
}

// NextID issues a fresh unit id. Ids are never reused for the board's lifetime.
func (b *Board) NextID() int {
	id := b.nextID
	b.nextID++
	return id
}

// Observe advances the id counter past id so ids issued elsewhere (a remote
// host) never collide with locally issued ones.
func (b *Board) Observe(id int) {
	if id >= b.nextID {
		b.nextID = id + 1
	}
}

// Units returns copies of every unit in placement order.
func (b *Board) Units() []Unit {
	out := make([]Unit, len(b.units))
	for i, u := range b.units {
		out[i] = *u
	}
	return out
}

// Get returns a copy of the unit with the given id.
func (b *Board) Get(id int) (Unit, bool) {
	if u := b.find(id); u != nil {
		return *u, true
	}
	return Unit{}, false
}

// At returns a copy of the unit occupying cell.
func (b *Board) At(cell Cell) (Unit, bool) {
	for _, u := range b.units {
		if u.Row == cell.Row && u.Col == cell.Col {
			return *u, true
		}
	}
	return Unit{}, false
}

// Occupied reports whether a unit sits at cell.
func (b *Board) Occupied(cell Cell) bool {
	_, ok := b.At(cell)
	return ok
}

// EmptyCells lists unoccupied cells in row-major order.
func (b *Board) EmptyCells() []Cell {
	cells := make([]Cell, 0, Cells-len(b.units))
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			cell := Cell{Row: r, Col: c}
			if !b.Occupied(cell) {
				cells = append(cells, cell)
			}
		}
	}
	return cells
}

// Place adds u to the board, enforcing bounds, level range, and unique
// cell and id occupancy.
func (b *Board) Place(u Unit) error {
	cell := u.Cell()
	if !cell.InBounds() {
		return fmt.Errorf("place unit %d at %d,%d: %w", u.ID, u.Row, u.Col, ErrOutOfBounds)
	}
	if u.Level < 1 || u.Level > MaxLevel {
		return fmt.Errorf("place unit %d level %d: %w", u.ID, u.Level, ErrInvalidLevel)
	}
	if b.find(u.ID) != nil {
		return fmt.Errorf("place unit %d: %w", u.ID, ErrDuplicateID)
	}
	if b.Occupied(cell) {
		return fmt.Errorf("place unit %d at %d,%d: %w", u.ID, u.Row, u.Col, ErrCellOccupied)
	}
	placed := u
	b.units = append(b.units, &placed)
	b.Observe(u.ID)
	return nil
}

// Remove deletes the unit with id, reporting whether it existed.
func (b *Board) Remove(id int) bool {
	for i, u := range b.units {
		if u.ID == id {
			b.units = append(b.units[:i], b.units[i+1:]...)
			return true
		}
	}
	return false
}

// SetAttackCooldown records when unit id may attack again.
func (b *Board) SetAttackCooldown(id int, until int64) bool {
	u := b.find(id)
	if u == nil {
		return false
	}
	u.AttackCooldownUntil = until
	return true
}

// Reset removes every unit. The id counter keeps advancing.
func (b *Board) Reset() {
	b.units = b.units[:0]
}

func (b *Board) find(id int) *Unit {
	for _, u := range b.units {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (b *Board) save() []*Unit {
	saved := make([]*Unit, len(b.units))
	copy(saved, b.units)
	return saved
}
