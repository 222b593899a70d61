package loader

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/nathoo/dicelab/engine/state"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// validate checks the compiled defs for referential integrity and
// consistency. Warnings go to logger and do not fail the load.
func validate(defs *state.Defs, logger *log.Logger) error {
	ve := check(defs)

	for _, w := range ve.Warnings {
		logger.Warn(w)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

// check collects every problem in defs without printing anything.
func check(defs *state.Defs) *ValidationError {
	ve := &ValidationError{}

	if defs.Game.Title == "" {
		ve.Errors = append(ve.Errors, "Game.title is required")
	}
	if defs.Game.Rolls < 0 {
		ve.Errors = append(ve.Errors, fmt.Sprintf("Game.rolls must not be negative, got %d", defs.Game.Rolls))
	}

	// Game positions reference defined dice.
	if len(defs.Game.Dice) == 0 {
		ve.Errors = append(ve.Errors, "Game.dice must name at least one die")
	}
	used := map[string]bool{}
	for i, id := range defs.Game.Dice {
		used[id] = true
		if _, ok := defs.Dice[id]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"Game.dice[%d] names undefined die %q", i+1, id))
		}
	}

	for _, id := range state.DieIDs(defs) {
		validateDie(id, defs, ve)
		if !used[id] {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"die %q is defined but not used by Game.dice", id))
		}
	}

	if defs.Game.Dictionary != "" && len(defs.Dictionary) == 0 {
		ve.Warnings = append(ve.Warnings, fmt.Sprintf(
			"dictionary %q contains no words", defs.Game.Dictionary))
	}

	return ve
}

func validateDie(id string, defs *state.Defs, ve *ValidationError) {
	def := defs.Dice[id]
	if len(def.Faces) == 0 {
		ve.Errors = append(ve.Errors, fmt.Sprintf("die %q has no faces", id))
		return
	}

	seen := map[string]bool{}
	for _, f := range def.Faces {
		if seen[f] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("die %q has duplicate face %q", id, f))
		}
		seen[f] = true
	}

	var total float64
	for _, f := range def.Faces {
		w := state.BaseWeight(defs, id, f)
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"die %q face %q has invalid weight %v", id, f, w))
			continue
		}
		total += w
	}
	if total == 0 {
		ve.Errors = append(ve.Errors, fmt.Sprintf("die %q has no face with positive weight", id))
	}
}
