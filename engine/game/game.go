// Package game rolls a fixed collection of dice in batches and keeps the
// most recent outcome matrix.
package game

import (
	"cmp"
	"fmt"

	"github.com/nathoo/dicelab/engine/die"
	"github.com/nathoo/dicelab/types"
)

// Roller is anything that can be rolled like a die.
type Roller[L cmp.Ordered] interface {
	Roll(count int) ([]L, error)
	Show() []types.Face[L]
}

// Form selects the shape returned by Show.
type Form string

const (
	FormWide   Form = "wide"
	FormNarrow Form = "narrow"
)

// ParseForm maps a form name to a Form.
func ParseForm(s string) (Form, error) {
	switch Form(s) {
	case FormWide, FormNarrow:
		return Form(s), nil
	}
	return "", fmt.Errorf("form %q must be %q or %q: %w", s, FormWide, FormNarrow, die.ErrInvalidInput)
}

// Game holds dice by reference and the last batch they produced.
type Game[L cmp.Ordered] struct {
	dice []Roller[L]
	rows [][]L // nil until the first Play
}

// New creates a game over the given dice. The slice elements are kept as
// given, so one die may appear several times or be shared with other games.
func New[L cmp.Ordered](dice []Roller[L]) (*Game[L], error) {
	if len(dice) == 0 {
		return nil, fmt.Errorf("game needs at least one die: %w", die.ErrInvalidInput)
	}
	for i, d := range dice {
		if d == nil {
			return nil, fmt.Errorf("die %d is nil: %w", i, die.ErrInvalidInput)
		}
	}
	return &Game[L]{dice: append([]Roller[L](nil), dice...)}, nil
}

// Play rolls every die rolls times, in stored order, and replaces the
// batch. On error the previous batch is kept.
func (g *Game[L]) Play(rolls int) error {
	if rolls < 1 {
		return fmt.Errorf("roll count %d: %w", rolls, die.ErrInvalidInput)
	}

	columns := make([][]L, len(g.dice))
	for i, d := range g.dice {
		col, err := d.Roll(rolls)
		if err != nil {
			return fmt.Errorf("rolling die %d: %w", i, err)
		}
		if len(col) != rolls {
			return fmt.Errorf("die %d returned %d outcomes for %d rolls: %w", i, len(col), rolls, die.ErrInvalidInput)
		}
		columns[i] = col
	}

	rows := make([][]L, rolls)
	for r := range rows {
		row := make([]L, len(columns))
		for c := range columns {
			row[c] = columns[c][r]
		}
		rows[r] = row
	}
	g.rows = rows
	return nil
}

// Clear drops the last batch, as if the game had never been played.
func (g *Game[L]) Clear() {
	g.rows = nil
}

// Show returns the last batch in the requested form.
func (g *Game[L]) Show(form Form) (types.Table[L], error) {
	switch form {
	case FormWide:
		w, err := g.Wide()
		if err != nil {
			return types.Table[L]{}, err
		}
		return types.Table[L]{Wide: &w}, nil
	case FormNarrow:
		n, err := g.Narrow()
		if err != nil {
			return types.Table[L]{}, err
		}
		return types.Table[L]{Narrow: n}, nil
	}
	return types.Table[L]{}, fmt.Errorf("form %q: %w", form, die.ErrInvalidInput)
}

// Wide returns a copy of the last batch, one row per roll.
func (g *Game[L]) Wide() (types.Wide[L], error) {
	if g == nil {
		return types.Wide[L]{}, fmt.Errorf("nil game: %w", die.ErrInvalidInput)
	}
	if g.rows == nil {
		return types.Wide[L]{}, die.ErrNoResults
	}
	rows := make([][]L, len(g.rows))
	for i, r := range g.rows {
		rows[i] = append([]L(nil), r...)
	}
	return types.Wide[L]{Rows: rows}, nil
}

// Narrow returns the last batch unpivoted to one row per (roll, die).
func (g *Game[L]) Narrow() ([]types.NarrowRow[L], error) {
	if g == nil {
		return nil, fmt.Errorf("nil game: %w", die.ErrInvalidInput)
	}
	if g.rows == nil {
		return nil, die.ErrNoResults
	}
	out := make([]types.NarrowRow[L], 0, len(g.rows)*len(g.dice))
	for r, row := range g.rows {
		for d, v := range row {
			out = append(out, types.NarrowRow[L]{Roll: r, Die: d, Outcome: v})
		}
	}
	return out, nil
}

// Dice returns the dice in stored order. The elements are the caller's own
// dice, not copies.
func (g *Game[L]) Dice() []Roller[L] {
	return append([]Roller[L](nil), g.dice...)
}

// NumDice returns the number of dice positions.
func (g *Game[L]) NumDice() int {
	return len(g.dice)
}

// Rolls returns the number of rolls in the last batch, or 0 before Play.
func (g *Game[L]) Rolls() int {
	return len(g.rows)
}
