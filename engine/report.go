package engine

import (
	"cmp"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/nathoo/dicelab/types"
)

// columnNames labels each game position with its die ID.
func columnNames(ids []string) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = fmt.Sprintf("%d:%s", i+1, id)
	}
	return names
}

// capRows returns the number of rows to print and a trailer line when rows
// were cut. A limit of 0 prints everything.
func capRows(total, limit int) (int, []string) {
	if limit <= 0 || total <= limit {
		return total, nil
	}
	return limit, []string{fmt.Sprintf("... %d more row(s).", total-limit)}
}

func wideResult(w *types.Wide[string], ids []string, limit int) types.Result {
	grid := types.Grid{
		Title:   fmt.Sprintf("Rolls (wide, %d)", len(w.Rows)),
		Headers: append([]string{"roll"}, columnNames(ids)...),
	}
	n, trailer := capRows(len(w.Rows), limit)
	for r, row := range w.Rows[:n] {
		grid.Rows = append(grid.Rows, append([]string{strconv.Itoa(r + 1)}, row...))
	}
	return types.Result{Tables: []types.Grid{grid}, Output: trailer}
}

func narrowResult(rows []types.NarrowRow[string], ids []string, limit int) types.Result {
	names := columnNames(ids)
	grid := types.Grid{
		Title:   fmt.Sprintf("Rolls (narrow, %d)", len(rows)),
		Headers: []string{"roll", "die", "outcome"},
	}
	n, trailer := capRows(len(rows), limit)
	for _, nr := range rows[:n] {
		grid.Rows = append(grid.Rows, []string{strconv.Itoa(nr.Roll + 1), names[nr.Die], nr.Outcome})
	}
	return types.Result{Tables: []types.Grid{grid}, Output: trailer}
}

// compareLabels orders labels that read as numbers by value, ahead of all
// other labels, which compare as text. Faces built with Range(1, 12) then
// sort 1, 2, ..., 10 instead of 1, 10, 11, 2.
func compareLabels(a, b string) int {
	x, errX := strconv.ParseFloat(a, 64)
	y, errY := strconv.ParseFloat(b, 64)
	switch {
	case errX == nil && errY == nil:
		if c := cmp.Compare(x, y); c != 0 {
			return c
		}
	case errX == nil:
		return -1
	case errY == nil:
		return 1
	}
	return strings.Compare(a, b)
}

// orderFaceColumns reorders the columns of fc with compareLabels.
func orderFaceColumns(fc types.FaceCounts[string]) types.FaceCounts[string] {
	idx := make([]int, len(fc.Labels))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(i, j int) int { return compareLabels(fc.Labels[i], fc.Labels[j]) })

	out := types.FaceCounts[string]{Labels: make([]string, len(idx)), Counts: make([][]int, len(fc.Counts))}
	for c, i := range idx {
		out.Labels[c] = fc.Labels[i]
	}
	for r, counts := range fc.Counts {
		out.Counts[r] = make([]int, len(idx))
		for c, i := range idx {
			out.Counts[r][c] = counts[i]
		}
	}
	return out
}

// orderTallies keeps count descending and breaks ties with compareLabels.
// For combinations the labels inside each outcome are reordered too.
func orderTallies(tallies []types.Tally[string], combinations bool) []types.Tally[string] {
	out := make([]types.Tally[string], len(tallies))
	for i, t := range tallies {
		outcome := append([]string(nil), t.Outcome...)
		if combinations {
			slices.SortFunc(outcome, compareLabels)
		}
		out[i] = types.Tally[string]{Outcome: outcome, Count: t.Count}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return slices.CompareFunc(out[i].Outcome, out[j].Outcome, compareLabels) < 0
	})
	return out
}

func facesResult(fc types.FaceCounts[string], limit int) types.Result {
	fc = orderFaceColumns(fc)
	grid := types.Grid{
		Title:   "Face counts per roll",
		Headers: append([]string{"roll"}, fc.Labels...),
	}
	n, trailer := capRows(len(fc.Counts), limit)
	for r, counts := range fc.Counts[:n] {
		row := []string{strconv.Itoa(r + 1)}
		for _, c := range counts {
			row = append(row, strconv.Itoa(c))
		}
		grid.Rows = append(grid.Rows, row)
	}
	return types.Result{Tables: []types.Grid{grid}, Output: trailer}
}

func tallyResult(title string, tallies []types.Tally[string], limit int) types.Result {
	grid := types.Grid{
		Title:   fmt.Sprintf("%s (%d distinct)", title, len(tallies)),
		Headers: []string{"outcome", "count"},
	}
	n, trailer := capRows(len(tallies), limit)
	for _, t := range tallies[:n] {
		grid.Rows = append(grid.Rows, []string{fmt.Sprint(t.Outcome), strconv.Itoa(t.Count)})
	}
	return types.Result{Tables: []types.Grid{grid}, Output: trailer}
}

func wordsResult(title string, words []types.WordCount) types.Result {
	if len(words) == 0 {
		return types.Result{Output: []string{"No valid words."}}
	}
	grid := types.Grid{Title: title, Headers: []string{"word", "count"}}
	for _, w := range words {
		grid.Rows = append(grid.Rows, []string{w.Word, strconv.Itoa(w.Count)})
	}
	return types.Result{Tables: []types.Grid{grid}}
}

func dieResult(id string, faces []types.Face[string]) types.Result {
	total := 0.0
	for _, f := range faces {
		total += f.Weight
	}
	grid := types.Grid{
		Title:   "Die " + id,
		Headers: []string{"face", "weight", "probability"},
	}
	for _, f := range faces {
		p := 0.0
		if total > 0 {
			p = f.Weight / total
		}
		grid.Rows = append(grid.Rows, []string{
			f.Label,
			strconv.FormatFloat(f.Weight, 'g', 6, 64),
			strconv.FormatFloat(p, 'f', 4, 64),
		})
	}
	return types.Result{Tables: []types.Grid{grid}}
}

func fitGrid(id string, fit FitResult) types.Grid {
	grid := types.Grid{
		Title:   "Fairness " + id,
		Headers: []string{"face", "expected", "observed", "count"},
	}
	for _, f := range fit.Faces {
		grid.Rows = append(grid.Rows, []string{
			f.Label,
			strconv.FormatFloat(f.Expected, 'f', 4, 64),
			strconv.FormatFloat(f.Observed, 'f', 4, 64),
			strconv.Itoa(f.Count),
		})
	}
	return grid
}
