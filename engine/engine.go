// Package engine provides the Step() orchestrator that turns one session
// command into calls on the dice, the game and the analyzer.
package engine

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/nathoo/dicelab/engine/analyze"
	"github.com/nathoo/dicelab/engine/die"
	"github.com/nathoo/dicelab/engine/game"
	"github.com/nathoo/dicelab/engine/parser"
	"github.com/nathoo/dicelab/engine/resolve"
	"github.com/nathoo/dicelab/engine/state"
	"github.com/nathoo/dicelab/types"
)

// DefaultRolls is used by "play" when neither the command nor the game
// definition gives a roll count.
const DefaultRolls = 1000

// DefaultLimit caps the rows printed for table commands.
const DefaultLimit = 20

// Engine holds the definitions and the mutable session.
type Engine struct {
	Defs    *state.Defs
	Session *state.Session
	Logger  *log.Logger // debug trace of each command; nil discards
}

var discard = log.New(io.Discard)

// New creates an engine whose dice share one RNG seeded with seed.
func New(defs *state.Defs, seed int64) (*Engine, error) {
	s, err := state.NewSession(defs, seed)
	if err != nil {
		return nil, err
	}
	return &Engine{Defs: defs, Session: s}, nil
}

// Step processes one command and returns the result.
func (e *Engine) Step(input string) types.Result {
	intent := parser.Parse(input)
	if intent.Verb == "" {
		return types.Result{Output: []string{"What do you want to do? Type /help for commands."}}
	}
	e.Session.Log = append(e.Session.Log, input)

	before := e.Session.RNG.Position()
	res := e.dispatch(intent)
	logger := e.logger()
	if res.Err != nil {
		logger.Debug("command failed", "verb", intent.Verb, "args", intent.Args, "err", res.Err)
	} else {
		logger.Debug("command", "verb", intent.Verb, "args", intent.Args,
			"draws", e.Session.RNG.Position()-before, "position", e.Session.RNG.Position())
	}
	return res
}

func (e *Engine) logger() *log.Logger {
	if e.Logger == nil {
		return discard
	}
	return e.Logger
}

func (e *Engine) dispatch(intent types.Intent) types.Result {
	switch intent.Verb {
	case "play":
		return e.play(intent.Args)
	case "show":
		return e.show(intent.Args)
	case "jackpot":
		return e.withAnalyzer(e.jackpot)
	case "faces":
		return e.withAnalyzer(func(a *analyze.Analyzer[string]) types.Result {
			return facesResult(a.FaceCountsPerRoll(), limitArg(intent.Args, 0))
		})
	case "combos":
		return e.withAnalyzer(func(a *analyze.Analyzer[string]) types.Result {
			return tallyResult("Combinations", orderTallies(a.ComboCount(), true), limitArg(intent.Args, 0))
		})
	case "perms":
		return e.withAnalyzer(func(a *analyze.Analyzer[string]) types.Result {
			return tallyResult("Permutations", orderTallies(a.PermutationCount(), false), limitArg(intent.Args, 0))
		})
	case "words":
		return e.withDictionary(func(a *analyze.Analyzer[string], dict map[string]bool) types.Result {
			return wordsResult("Valid words (per face)", a.ValidWords(dict))
		})
	case "rowwords":
		return e.withDictionary(func(a *analyze.Analyzer[string], dict map[string]bool) types.Result {
			return wordsResult("Valid words (per roll)", a.RowWords(dict))
		})
	case "stats":
		return e.withAnalyzer(func(*analyze.Analyzer[string]) types.Result { return e.stats() })
	case "weight":
		return e.weight(intent.Args)
	case "dice":
		return e.listDice()
	case "die":
		return e.showDie(intent.Args)
	case "seed":
		return e.seed(intent.Args)
	}
	return failure(fmt.Errorf("unknown command %q", intent.Verb))
}

// Replay plays n rolls without logging a command. Used after restoring
// a save.
func (e *Engine) Replay(n int) error {
	return e.roll(n)
}

// roll plays n rolls and rebinds the analyzer to the new batch.
func (e *Engine) roll(n int) error {
	mark := state.Mark(e.Session, e.Defs, n)
	if err := e.Session.Game.Play(n); err != nil {
		return err
	}
	a, err := analyze.New[string](e.Session.Game)
	if err != nil {
		return err
	}
	e.Session.Analyzer = a
	e.Session.Rolls = n
	e.Session.LastPlay = mark
	return nil
}

func (e *Engine) play(args []string) types.Result {
	n := e.Defs.Game.Rolls
	if n <= 0 {
		n = DefaultRolls
	}
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return failure(fmt.Errorf("roll count %q is not a number: %w", args[0], die.ErrInvalidInput))
		}
		n = v
	}

	if err := e.roll(n); err != nil {
		return failure(err)
	}
	return types.Result{Output: []string{
		fmt.Sprintf("Rolled %d dice %d time(s).", e.Session.Game.NumDice(), n),
	}}
}

func (e *Engine) show(args []string) types.Result {
	form := game.FormWide
	if len(args) > 0 {
		f, err := game.ParseForm(strings.ToLower(args[0]))
		if err != nil {
			return failure(err)
		}
		form = f
	}
	tbl, err := e.Session.Game.Show(form)
	if err != nil {
		return failure(err)
	}
	limit := limitArg(args, 1)
	if tbl.Wide != nil {
		return wideResult(tbl.Wide, e.Defs.Game.Dice, limit)
	}
	return narrowResult(tbl.Narrow, e.Defs.Game.Dice, limit)
}

func (e *Engine) jackpot(a *analyze.Analyzer[string]) types.Result {
	n := a.Jackpot()
	pct := 100 * float64(n) / float64(a.Rolls())
	return types.Result{Output: []string{
		fmt.Sprintf("Jackpots: %d of %d rolls (%.2f%%).", n, a.Rolls(), pct),
	}}
}

func (e *Engine) weight(args []string) types.Result {
	if len(args) != 3 {
		return failure(fmt.Errorf("usage: weight <die> <face> <weight>: %w", die.ErrInvalidInput))
	}
	id, err := resolve.Die(e.Defs, args[0])
	if err != nil {
		return failure(err)
	}
	face, err := resolve.Face(e.Defs, id, args[1])
	if err != nil {
		return failure(err)
	}
	w, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return failure(fmt.Errorf("weight %q is not a number: %w", args[2], die.ErrInvalidWeight))
	}
	if err := e.Session.Dice[id].SetWeight(face, w); err != nil {
		return failure(err)
	}
	return types.Result{Output: []string{
		fmt.Sprintf("Die %s face %s weight set to %g.", id, face, w),
	}}
}

func (e *Engine) listDice() types.Result {
	grid := types.Grid{
		Title:   "Dice",
		Headers: []string{"die", "faces", "positions"},
	}
	for _, id := range state.DieIDs(e.Defs) {
		pos := state.DiePositions(e.Defs, id)
		ps := make([]string, len(pos))
		for i, p := range pos {
			ps[i] = strconv.Itoa(p + 1)
		}
		grid.Rows = append(grid.Rows, []string{
			id,
			strconv.Itoa(e.Session.Dice[id].Len()),
			strings.Join(ps, ","),
		})
	}
	return types.Result{Tables: []types.Grid{grid}}
}

func (e *Engine) showDie(args []string) types.Result {
	if len(args) != 1 {
		return failure(fmt.Errorf("usage: die <id>: %w", die.ErrInvalidInput))
	}
	id, err := resolve.Die(e.Defs, args[0])
	if err != nil {
		return failure(err)
	}
	return dieResult(id, e.Session.Dice[id].Show())
}

func (e *Engine) seed(args []string) types.Result {
	if len(args) != 1 {
		return types.Result{Output: []string{
			fmt.Sprintf("Seed %d, %d draw(s) so far.", e.Session.RNG.Seed(), e.Session.RNG.Position()),
		}}
	}
	v, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return failure(fmt.Errorf("seed %q is not an integer: %w", args[0], die.ErrInvalidInput))
	}
	e.Session.RNG.Reset(v, 0)
	return types.Result{Output: []string{fmt.Sprintf("Reseeded with %d.", v)}}
}

// stats compares the observed face frequencies of each die ID, pooled over
// the positions it occupies, against its current weights.
func (e *Engine) stats() types.Result {
	w, err := e.Session.Game.Wide()
	if err != nil {
		return failure(err)
	}
	var res types.Result
	for _, id := range state.DieIDs(e.Defs) {
		pos := state.DiePositions(e.Defs, id)
		if len(pos) == 0 {
			continue
		}
		var outcomes []string
		for _, row := range w.Rows {
			for _, p := range pos {
				outcomes = append(outcomes, row[p])
			}
		}
		fit := Fit(e.Session.Dice[id].Show(), outcomes)
		res.Tables = append(res.Tables, fitGrid(id, fit))
		res.Output = append(res.Output, fmt.Sprintf(
			"%s: chi-square %.3f over %d draw(s), %d degree(s) of freedom.",
			id, fit.ChiSquare, len(outcomes), fit.Freedom))
	}
	return res
}

func (e *Engine) withAnalyzer(fn func(*analyze.Analyzer[string]) types.Result) types.Result {
	if e.Session.Analyzer == nil {
		return failure(die.ErrNoResults)
	}
	return fn(e.Session.Analyzer)
}

func (e *Engine) withDictionary(fn func(*analyze.Analyzer[string], map[string]bool) types.Result) types.Result {
	if e.Defs.Dictionary == nil {
		return failure(errors.New("no dictionary loaded: set Game.dictionary"))
	}
	return e.withAnalyzer(func(a *analyze.Analyzer[string]) types.Result {
		return fn(a, e.Defs.Dictionary)
	})
}

func failure(err error) types.Result {
	return types.Result{Output: []string{err.Error()}, Err: err}
}

// limitArg reads an optional row limit at args[i]. "all" disables the cap.
func limitArg(args []string, i int) int {
	if i >= len(args) {
		return DefaultLimit
	}
	if strings.EqualFold(args[i], "all") {
		return 0
	}
	n, err := strconv.Atoi(args[i])
	if err != nil || n < 0 {
		return DefaultLimit
	}
	return n
}
