package engine

import "github.com/nathoo/dicelab/types"

// FaceFit is the observed versus expected share of one face.
type FaceFit struct {
	Label    string
	Expected float64 // weight / total weight
	Observed float64 // count / draws
	Count    int
}

// FitResult is a goodness-of-fit summary for one die.
type FitResult struct {
	Faces     []FaceFit
	ChiSquare float64
	Freedom   int // faces with positive weight, minus one
}

// Fit compares outcomes against the distribution described by faces.
// Faces with zero weight are reported but excluded from the statistic.
func Fit(faces []types.Face[string], outcomes []string) FitResult {
	counts := map[string]int{}
	for _, o := range outcomes {
		counts[o]++
	}
	total := 0.0
	for _, f := range faces {
		total += f.Weight
	}

	var res FitResult
	n := float64(len(outcomes))
	live := 0
	for _, f := range faces {
		ff := FaceFit{Label: f.Label, Count: counts[f.Label]}
		if total > 0 {
			ff.Expected = f.Weight / total
		}
		if n > 0 {
			ff.Observed = float64(ff.Count) / n
		}
		res.Faces = append(res.Faces, ff)

		if ff.Expected == 0 {
			continue
		}
		live++
		exp := ff.Expected * n
		d := float64(ff.Count) - exp
		res.ChiSquare += d * d / exp
	}
	if live > 0 {
		res.Freedom = live - 1
	}
	return res
}
