// Package save implements JSON serialization and deserialization of a
// simulation session.
package save

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"

	"github.com/nathoo/dicelab/engine"
	"github.com/nathoo/dicelab/engine/analyze"
	"github.com/nathoo/dicelab/engine/die"
	"github.com/nathoo/dicelab/engine/state"
	"github.com/nathoo/dicelab/types"
)

// PlayData describes the last play. The batch itself is not stored: it is
// reproduced by replaying the play from the recorded RNG position with the
// recorded weights.
type PlayData struct {
	Seed        int64                         `json:"seed"`
	RNGPosition int64                         `json:"rng_position"`
	Rolls       int                           `json:"rolls"`
	Weights     map[string]map[string]float64 `json:"weights"`
}

// SaveData is the JSON-serializable save format.
type SaveData struct {
	Version     string                        `json:"version"`
	Game        string                        `json:"game"`
	Seed        int64                         `json:"seed"`
	RNGPosition int64                         `json:"rng_position"`
	Weights     map[string]map[string]float64 `json:"weights"` // overrides of the definitions
	LastPlay    *PlayData                     `json:"last_play,omitempty"`
	CommandLog  []string                      `json:"command_log"`
}

// Save serializes the session to JSON bytes.
func Save(e *engine.Engine) ([]byte, error) {
	s := e.Session
	data := SaveData{
		Version:     e.Defs.Game.Version,
		Game:        e.Defs.Game.Title,
		Seed:        s.RNG.Seed(),
		RNGPosition: s.RNG.Position(),
		Weights:     state.Overrides(s, e.Defs),
		CommandLog:  s.Log,
	}
	if m := s.LastPlay; m != nil {
		data.LastPlay = &PlayData{
			Seed:        m.Seed,
			RNGPosition: m.Position,
			Rolls:       m.Rolls,
			Weights:     m.Weights,
		}
	}
	return json.MarshalIndent(data, "", "  ")
}

// Load deserializes JSON bytes into SaveData.
func Load(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, err
	}
	// Ensure maps are never nil after load.
	if sd.Weights == nil {
		sd.Weights = map[string]map[string]float64{}
	}
	if sd.CommandLog == nil {
		sd.CommandLog = []string{}
	}
	if sd.RNGPosition < 0 {
		return nil, fmt.Errorf("negative rng position %d", sd.RNGPosition)
	}
	if lp := sd.LastPlay; lp != nil {
		if lp.RNGPosition < 0 || lp.Rolls < 1 {
			return nil, fmt.Errorf("invalid last play: position %d, rolls %d", lp.RNGPosition, lp.Rolls)
		}
		if lp.Weights == nil {
			lp.Weights = map[string]map[string]float64{}
		}
	}
	return &sd, nil
}

// ApplySave restores a save onto an engine built from the same definitions.
// The last play is replayed first so the batch is identical, then the
// current weights and RNG position are applied. The save is checked before
// anything changes; on error the session is left as it was.
func ApplySave(e *engine.Engine, sd *SaveData) error {
	if err := check(e.Defs, sd); err != nil {
		return err
	}

	s := e.Session
	snap := takeSnapshot(s)
	if lp := sd.LastPlay; lp != nil {
		applyWeights(e, lp.Weights)
		s.RNG.Reset(lp.Seed, lp.RNGPosition)
		if err := e.Replay(lp.Rolls); err != nil {
			snap.restore(s)
			return fmt.Errorf("replaying last play: %w", err)
		}
	} else {
		s.Game.Clear()
		s.Analyzer = nil
		s.Rolls = 0
		s.LastPlay = nil
	}

	applyWeights(e, sd.Weights)
	s.RNG.Reset(sd.Seed, sd.RNGPosition)
	s.Log = append([]string(nil), sd.CommandLog...)
	return nil
}

// check rejects saves that cannot be applied to defs: unknown dice or faces,
// invalid weights, negative positions, and a last play whose weights leave
// a game die with nothing to roll.
func check(defs *state.Defs, sd *SaveData) error {
	if sd.RNGPosition < 0 {
		return fmt.Errorf("negative rng position %d: %w", sd.RNGPosition, die.ErrInvalidInput)
	}
	if err := checkWeights(defs, sd.Weights); err != nil {
		return err
	}
	lp := sd.LastPlay
	if lp == nil {
		return nil
	}
	if lp.RNGPosition < 0 || lp.Rolls < 1 {
		return fmt.Errorf("invalid last play: position %d, rolls %d: %w", lp.RNGPosition, lp.Rolls, die.ErrInvalidInput)
	}
	if err := checkWeights(defs, lp.Weights); err != nil {
		return fmt.Errorf("last play: %w", err)
	}
	for _, id := range defs.Game.Dice {
		total := 0.0
		for _, face := range defs.Dice[id].Faces {
			total += weightOf(defs, lp.Weights, id, face)
		}
		if total == 0 {
			return fmt.Errorf("last play: die %q: %w", id, die.ErrDegenerateDistribution)
		}
	}
	return nil
}

func checkWeights(defs *state.Defs, overrides map[string]map[string]float64) error {
	for id, faces := range overrides {
		def, ok := defs.Dice[id]
		if !ok {
			return fmt.Errorf("save references unknown die %q: %w", id, die.ErrNotFound)
		}
		for face, w := range faces {
			if !slices.Contains(def.Faces, face) {
				return fmt.Errorf("save references unknown face %q on die %q: %w", face, id, die.ErrNotFound)
			}
			if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
				return fmt.Errorf("die %q face %q weight %v: %w", id, face, w, die.ErrInvalidWeight)
			}
		}
	}
	return nil
}

func weightOf(defs *state.Defs, overrides map[string]map[string]float64, id, face string) float64 {
	if w, ok := overrides[id][face]; ok {
		return w
	}
	return state.BaseWeight(defs, id, face)
}

// applyWeights sets every face to its definition weight, then applies the
// overrides. The overrides must have passed checkWeights.
func applyWeights(e *engine.Engine, overrides map[string]map[string]float64) {
	for _, id := range state.DieIDs(e.Defs) {
		d := e.Session.Dice[id]
		for _, face := range e.Defs.Dice[id].Faces {
			_ = d.SetWeight(face, weightOf(e.Defs, overrides, id, face))
		}
	}
}

// snapshot is the part of a session ApplySave changes before replaying.
type snapshot struct {
	weights  map[string][]types.Face[string]
	seed     int64
	position int64
	analyzer *analyze.Analyzer[string]
	rolls    int
	lastPlay *state.PlayMark
}

func takeSnapshot(s *state.Session) snapshot {
	snap := snapshot{
		weights:  make(map[string][]types.Face[string], len(s.Dice)),
		seed:     s.RNG.Seed(),
		position: s.RNG.Position(),
		analyzer: s.Analyzer,
		rolls:    s.Rolls,
		lastPlay: s.LastPlay,
	}
	for id, d := range s.Dice {
		snap.weights[id] = d.Show()
	}
	return snap
}

func (snap snapshot) restore(s *state.Session) {
	for id, faces := range snap.weights {
		for _, f := range faces {
			_ = s.Dice[id].SetWeight(f.Label, f.Weight)
		}
	}
	s.RNG.Reset(snap.seed, snap.position)
	s.Analyzer = snap.analyzer
	s.Rolls = snap.rolls
	s.LastPlay = snap.lastPlay
}
