// Package loader loads Lua game content into Go structs at load time.
// The Lua VM is discarded after loading, so no Lua runs during play.
package loader

import (
	"fmt"
	"io/fs"
	"sort"

	"github.com/nathoo/dicelab/engine/die"
	"github.com/nathoo/dicelab/engine/state"
	"github.com/nathoo/dicelab/types"
	lua "github.com/yuin/gopher-lua"
)

// rawDie holds a die definition before compilation. Exactly one of table
// and file is set.
type rawDie struct {
	id    string
	table *lua.LTable
	file  string
	order int
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// label converts a Lua face value to its label. Strings and numbers are
// accepted; numbers use Lua's own formatting, so 6 becomes "6".
func label(v lua.LValue) (string, bool) {
	switch val := v.(type) {
	case lua.LString:
		return string(val), true
	case lua.LNumber:
		return val.String(), true
	}
	return "", false
}

// labelList converts an array table of faces or die IDs to strings.
func labelList(tbl *lua.LTable) ([]string, error) {
	if tbl == nil {
		return nil, nil
	}
	out := make([]string, 0, tbl.MaxN())
	for i := 1; i <= tbl.MaxN(); i++ {
		v := tbl.RawGetInt(i)
		s, ok := label(v)
		if !ok {
			return nil, fmt.Errorf("entry %d is a %s, want string or number: %w",
				i, v.Type(), die.ErrInvalidInput)
		}
		out = append(out, s)
	}
	return out, nil
}

// compile converts all collected Lua data into a Defs struct. Frequency
// tables and the dictionary are read from fsys.
func compile(coll *collector, fsys fs.FS) (*state.Defs, error) {
	defs := &state.Defs{
		Dice: map[string]types.DieDef{},
	}

	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}
	game, err := compileGame(coll.game)
	if err != nil {
		return nil, fmt.Errorf("compiling game: %w", err)
	}
	defs.Game = game

	for _, raw := range coll.dice {
		if _, dup := defs.Dice[raw.id]; dup {
			return nil, fmt.Errorf("duplicate die ID %q", raw.id)
		}
		var def types.DieDef
		if raw.file != "" {
			def, err = compileFrequencyDie(raw, fsys)
		} else {
			def, err = compileDie(raw)
		}
		if err != nil {
			return nil, fmt.Errorf("compiling die %s: %w", raw.id, err)
		}
		defs.Dice[raw.id] = def
	}

	if defs.Game.Dictionary != "" {
		f, err := fsys.Open(defs.Game.Dictionary)
		if err != nil {
			return nil, fmt.Errorf("opening dictionary: %w", err)
		}
		defer f.Close()
		dict, err := ReadDictionary(f)
		if err != nil {
			return nil, fmt.Errorf("reading dictionary %s: %w", defs.Game.Dictionary, err)
		}
		defs.Dictionary = dict
	}

	return defs, nil
}

func compileGame(tbl *lua.LTable) (types.GameDef, error) {
	dice, err := labelList(getTable(tbl, "dice"))
	if err != nil {
		return types.GameDef{}, fmt.Errorf("dice: %w", err)
	}
	return types.GameDef{
		Title:      getString(tbl, "title"),
		Author:     getString(tbl, "author"),
		Version:    getString(tbl, "version"),
		Seed:       int64(getNumber(tbl, "seed")),
		Rolls:      getInt(tbl, "rolls"),
		Dice:       dice,
		Dictionary: getString(tbl, "dictionary"),
	}, nil
}

func compileDie(raw rawDie) (types.DieDef, error) {
	faces, err := labelList(getTable(raw.table, "faces"))
	if err != nil {
		return types.DieDef{}, fmt.Errorf("faces: %w", err)
	}
	def := types.DieDef{ID: raw.id, Faces: faces, Weights: map[string]float64{}}

	known := make(map[string]bool, len(faces))
	for _, f := range faces {
		known[f] = true
	}

	var werr error
	if wt := getTable(raw.table, "weights"); wt != nil {
		wt.ForEach(func(k, v lua.LValue) {
			if werr != nil {
				return
			}
			face, ok := label(k)
			if !ok || !known[face] {
				werr = fmt.Errorf("weight given for unknown face %s: %w", k.String(), die.ErrNotFound)
				return
			}
			n, ok := v.(lua.LNumber)
			if !ok {
				werr = fmt.Errorf("weight for face %s is a %s, not a number: %w",
					face, v.Type(), die.ErrInvalidWeight)
				return
			}
			def.Weights[face] = float64(n)
		})
	}
	if werr != nil {
		return types.DieDef{}, werr
	}
	return def, nil
}

// compileFrequencyDie reads a frequency table and stores the normalized
// frequencies as the die's weights.
func compileFrequencyDie(raw rawDie, fsys fs.FS) (types.DieDef, error) {
	f, err := fsys.Open(raw.file)
	if err != nil {
		return types.DieDef{}, fmt.Errorf("opening frequency table: %w", err)
	}
	defer f.Close()

	freqs, err := ReadFrequencies(f)
	if err != nil {
		return types.DieDef{}, fmt.Errorf("reading %s: %w", raw.file, err)
	}
	d, err := die.FromFrequencies(freqs)
	if err != nil {
		return types.DieDef{}, fmt.Errorf("%s: %w", raw.file, err)
	}

	def := types.DieDef{ID: raw.id, Weights: map[string]float64{}, Source: raw.file}
	for _, face := range d.Show() {
		def.Faces = append(def.Faces, face.Label)
		def.Weights[face.Label] = face.Weight
	}
	return def, nil
}

// sortedLuaFiles returns .lua files in a directory, with game.lua first
// and the rest sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var gameFile string
	var others []string
	for _, f := range files {
		if f == "game.lua" {
			gameFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if gameFile != "" {
		return append([]string{gameFile}, others...)
	}
	return others
}
