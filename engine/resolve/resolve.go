// Package resolve maps die and face names typed in commands to the IDs and
// labels defined in the game.
package resolve

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/dicelab/engine/die"
	"github.com/nathoo/dicelab/engine/state"
)

// AmbiguityError indicates multiple candidates matched a name.
type AmbiguityError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	names := strings.Join(e.Candidates, ", ")
	return fmt.Sprintf("which %s? (%s)", e.Name, names)
}

// NotFoundError indicates no candidate matched a name.
type NotFoundError struct {
	Kind string // "die" or "face"
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s named %q", e.Kind, e.Name)
}

// Unwrap lets callers test with errors.Is(err, die.ErrNotFound).
func (e *NotFoundError) Unwrap() error {
	return die.ErrNotFound
}

// Die resolves a die name to a defined die ID. Exact IDs win, then a
// case-insensitive match, then a unique case-insensitive prefix.
func Die(defs *state.Defs, name string) (string, error) {
	if _, ok := defs.Dice[name]; ok {
		return name, nil
	}
	id, err := match(state.DieIDs(defs), name)
	if err != nil {
		return "", withKind(err, "die")
	}
	return id, nil
}

// Face resolves a face name on a defined die. Labels are matched exactly
// first, then case-insensitively. Prefixes are not accepted: faces are
// often single characters.
func Face(defs *state.Defs, dieID, name string) (string, error) {
	faces := defs.Dice[dieID].Faces
	var folded []string
	for _, f := range faces {
		if f == name {
			return f, nil
		}
		if strings.EqualFold(f, name) {
			folded = append(folded, f)
		}
	}
	switch len(folded) {
	case 0:
		return "", &NotFoundError{Kind: "face", Name: name}
	case 1:
		return folded[0], nil
	default:
		sort.Strings(folded)
		return "", &AmbiguityError{Name: name, Candidates: folded}
	}
}

// match applies the case-insensitive then prefix rules to candidates.
func match(candidates []string, name string) (string, error) {
	nameLower := strings.ToLower(name)

	var exact, prefix []string
	for _, c := range candidates {
		cl := strings.ToLower(c)
		switch {
		case cl == nameLower:
			exact = append(exact, c)
		case strings.HasPrefix(cl, nameLower):
			prefix = append(prefix, c)
		}
	}

	matches := exact
	if len(matches) == 0 {
		matches = prefix
	}
	switch len(matches) {
	case 0:
		return "", &NotFoundError{Name: name}
	case 1:
		return matches[0], nil
	default:
		return "", &AmbiguityError{Name: name, Candidates: matches}
	}
}

func withKind(err error, kind string) error {
	if nf, ok := err.(*NotFoundError); ok {
		nf.Kind = kind
	}
	return err
}
