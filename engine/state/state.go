// Package state holds the loaded definitions and the mutable session built
// from them, with weight lookups layered as runtime value over definition.
package state

import (
	"fmt"
	"sort"

	"github.com/nathoo/dicelab/engine/analyze"
	"github.com/nathoo/dicelab/engine/die"
	"github.com/nathoo/dicelab/engine/game"
	"github.com/nathoo/dicelab/engine/rng"
	"github.com/nathoo/dicelab/types"
)

// Defs holds the immutable definitions loaded from content files.
type Defs struct {
	Game       types.GameDef
	Dice       map[string]types.DieDef
	Dictionary map[string]bool // upper-case tokens; nil when no dictionary is configured
}

// Session is the complete mutable simulation state.
type Session struct {
	RNG      *rng.RNG
	Dice     map[string]*die.Die[string] // one instance per die ID
	Game     *game.Game[string]
	Analyzer *analyze.Analyzer[string] // nil until the first play
	Rolls    int                       // roll count of the last play
	LastPlay *PlayMark                 // nil until the first play
	Log      []string                  // commands executed
}

// PlayMark records what is needed to reproduce the last batch: the RNG
// stream and weight overrides as they were when it was rolled.
type PlayMark struct {
	Seed     int64
	Position int64
	Rolls    int
	Weights  map[string]map[string]float64
}

// Mark captures the current RNG position and weight overrides for a play
// of rolls.
func Mark(s *Session, defs *Defs, rolls int) *PlayMark {
	return &PlayMark{
		Seed:     s.RNG.Seed(),
		Position: s.RNG.Position(),
		Rolls:    rolls,
		Weights:  Overrides(s, defs),
	}
}

// NewSession builds dice and the game from defs. Every die draws from one
// RNG seeded with seed, and a die ID listed at several positions is the
// same die at each of them.
func NewSession(defs *Defs, seed int64) (*Session, error) {
	src := rng.New(seed)
	dice := make(map[string]*die.Die[string], len(defs.Dice))
	for _, id := range DieIDs(defs) {
		d, err := BuildDie(defs.Dice[id], src)
		if err != nil {
			return nil, fmt.Errorf("die %q: %w", id, err)
		}
		dice[id] = d
	}

	rollers := make([]game.Roller[string], 0, len(defs.Game.Dice))
	for _, id := range defs.Game.Dice {
		d, ok := dice[id]
		if !ok {
			return nil, fmt.Errorf("game die %q: %w", id, die.ErrNotFound)
		}
		rollers = append(rollers, d)
	}
	g, err := game.New(rollers)
	if err != nil {
		return nil, err
	}

	return &Session{
		RNG:  src,
		Dice: dice,
		Game: g,
		Log:  []string{},
	}, nil
}

// BuildDie creates a die from its definition. Faces without an explicit
// weight keep the default of 1.0.
func BuildDie(def types.DieDef, src rng.Source) (*die.Die[string], error) {
	d, err := die.New(def.Faces, die.WithSource(src))
	if err != nil {
		return nil, err
	}
	for _, face := range def.Faces {
		if w, ok := def.Weights[face]; ok {
			if err := d.SetWeight(face, w); err != nil {
				return nil, err
			}
		}
	}
	return d, nil
}

// DieIDs returns the defined die IDs in sorted order.
func DieIDs(defs *Defs) []string {
	ids := make([]string, 0, len(defs.Dice))
	for id := range defs.Dice {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// BaseWeight returns the weight a face has in its definition.
func BaseWeight(defs *Defs, dieID, face string) float64 {
	if w, ok := defs.Dice[dieID].Weights[face]; ok {
		return w
	}
	return 1.0
}

// GetWeight returns the effective weight of a face: the live die value
// if the session has one, else the definition's weight.
func GetWeight(s *Session, defs *Defs, dieID, face string) (float64, bool) {
	if d, ok := s.Dice[dieID]; ok {
		return d.Weight(face)
	}
	def, ok := defs.Dice[dieID]
	if !ok {
		return 0, false
	}
	for _, f := range def.Faces {
		if f == face {
			return BaseWeight(defs, dieID, face), true
		}
	}
	return 0, false
}

// Overrides returns the faces whose live weight differs from the definition,
// keyed by die ID then face.
func Overrides(s *Session, defs *Defs) map[string]map[string]float64 {
	out := map[string]map[string]float64{}
	for id, d := range s.Dice {
		for _, f := range d.Show() {
			if f.Weight == BaseWeight(defs, id, f.Label) {
				continue
			}
			if out[id] == nil {
				out[id] = map[string]float64{}
			}
			out[id][f.Label] = f.Weight
		}
	}
	return out
}

// DiePositions returns the game positions a die ID occupies.
func DiePositions(defs *Defs, dieID string) []int {
	var pos []int
	for i, id := range defs.Game.Dice {
		if id == dieID {
			pos = append(pos, i)
		}
	}
	return pos
}
