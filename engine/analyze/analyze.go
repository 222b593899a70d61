// Package analyze computes statistics over one roll batch: jackpots,
// per-roll face counts, combination and permutation tallies, and
// dictionary matches.
package analyze

import (
	"cmp"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/nathoo/dicelab/engine/die"
	"github.com/nathoo/dicelab/types"
)

// Results is anything that exposes a wide-form batch, such as a game.
type Results[L cmp.Ordered] interface {
	Wide() (types.Wide[L], error)
}

// Analyzer is a read-only view over the batch present when it was built.
type Analyzer[L cmp.Ordered] struct {
	rows [][]L
}

// New snapshots the current batch of g.
func New[L cmp.Ordered](g Results[L]) (*Analyzer[L], error) {
	if g == nil {
		return nil, fmt.Errorf("analyzer needs a game: %w", die.ErrInvalidInput)
	}
	w, err := g.Wide()
	if err != nil {
		return nil, err
	}
	rows := make([][]L, len(w.Rows))
	for i, r := range w.Rows {
		rows[i] = append([]L(nil), r...)
	}
	return &Analyzer[L]{rows: rows}, nil
}

// Rolls returns the number of rows in the batch.
func (a *Analyzer[L]) Rolls() int {
	return len(a.rows)
}

// NumDice returns the number of columns in the batch.
func (a *Analyzer[L]) NumDice() int {
	if len(a.rows) == 0 {
		return 0
	}
	return len(a.rows[0])
}

// Jackpot counts rolls where every die shows the same label.
func (a *Analyzer[L]) Jackpot() int {
	n := 0
	for _, row := range a.rows {
		if allEqual(row) {
			n++
		}
	}
	return n
}

func allEqual[L cmp.Ordered](row []L) bool {
	if len(row) == 0 {
		return false
	}
	for _, v := range row[1:] {
		if v != row[0] {
			return false
		}
	}
	return true
}

// FaceCountsPerRoll tallies each observed label within each roll. Columns
// are the sorted union of labels that appeared anywhere in the batch.
func (a *Analyzer[L]) FaceCountsPerRoll() types.FaceCounts[L] {
	col := map[L]int{}
	for _, row := range a.rows {
		for _, v := range row {
			col[v] = 0
		}
	}
	labels := make([]L, 0, len(col))
	for l := range col {
		labels = append(labels, l)
	}
	slices.Sort(labels)
	for i, l := range labels {
		col[l] = i
	}

	counts := make([][]int, len(a.rows))
	for r, row := range a.rows {
		counts[r] = make([]int, len(labels))
		for _, v := range row {
			counts[r][col[v]]++
		}
	}
	return types.FaceCounts[L]{Labels: labels, Counts: counts}
}

// ComboCount groups rolls by their order-independent combination.
func (a *Analyzer[L]) ComboCount() []types.Tally[L] {
	return a.tally(func(row []L) []L {
		sorted := append([]L(nil), row...)
		slices.Sort(sorted)
		return sorted
	})
}

// PermutationCount groups rolls by their outcome in die order.
func (a *Analyzer[L]) PermutationCount() []types.Tally[L] {
	return a.tally(func(row []L) []L { return row })
}

// tally groups rows by key(row) and returns the groups ordered by count
// descending, then by outcome.
func (a *Analyzer[L]) tally(key func([]L) []L) []types.Tally[L] {
	index := map[string]int{}
	var out []types.Tally[L]
	for _, row := range a.rows {
		k := key(row)
		id := tupleKey(k)
		if i, ok := index[id]; ok {
			out[i].Count++
			continue
		}
		index[id] = len(out)
		out = append(out, types.Tally[L]{Outcome: append([]L(nil), k...), Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return slices.Compare(out[i].Outcome, out[j].Outcome) < 0
	})
	return out
}

// tupleKey builds a map key for a tuple. %q keeps labels containing the
// separator distinct.
func tupleKey[L cmp.Ordered](t []L) string {
	var b strings.Builder
	for _, v := range t {
		fmt.Fprintf(&b, "%q\x00", fmt.Sprint(v))
	}
	return b.String()
}

// ValidWords matches each distinct outcome of a roll, as a whole token,
// against dict. A roll contributes each matching token once no matter how
// many dice showed it.
func (a *Analyzer[L]) ValidWords(dict map[string]bool) []types.WordCount {
	counts := map[string]int{}
	for _, row := range a.rows {
		seen := map[L]bool{}
		for _, v := range row {
			if seen[v] {
				continue
			}
			seen[v] = true
			if w := fmt.Sprint(v); dict[w] {
				counts[w]++
			}
		}
	}
	return sortWords(counts)
}

// RowWords concatenates each roll in die order into one candidate word and
// counts the dictionary hits.
func (a *Analyzer[L]) RowWords(dict map[string]bool) []types.WordCount {
	counts := map[string]int{}
	for _, row := range a.rows {
		var b strings.Builder
		for _, v := range row {
			fmt.Fprint(&b, v)
		}
		if w := b.String(); dict[w] {
			counts[w]++
		}
	}
	return sortWords(counts)
}

func sortWords(counts map[string]int) []types.WordCount {
	out := make([]types.WordCount, 0, len(counts))
	for w, c := range counts {
		out = append(out, types.WordCount{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	return out
}
