// Package die implements a weighted die with a finite set of unique labels.
//
// A Die is a plain mutable value shared by pointer: every game holding the
// same *Die sees its weight changes and draws from its random source.
package die

import (
	"cmp"
	"fmt"
	"math"

	"github.com/nathoo/dicelab/engine/rng"
	"github.com/nathoo/dicelab/types"
)

// Die holds ordered unique labels and a weight per label.
type Die[L cmp.Ordered] struct {
	labels  []L
	weights map[L]float64
	src     rng.Source
}

// Option configures a Die at construction.
type Option func(*options)

type options struct {
	src rng.Source
}

// WithSource sets the random source the die draws from. Dice given the same
// source consume one shared stream in roll order.
func WithSource(src rng.Source) Option {
	return func(o *options) { o.src = src }
}

// New creates a die with every weight set to 1.0.
func New[L cmp.Ordered](labels []L, opts ...Option) (*Die[L], error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("die needs at least one label: %w", ErrInvalidInput)
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.src == nil {
		o.src = rng.NewTimeSeeded()
	}

	weights := make(map[L]float64, len(labels))
	for _, l := range labels {
		if _, dup := weights[l]; dup {
			return nil, fmt.Errorf("duplicate label %v: %w", l, ErrInvalidInput)
		}
		weights[l] = 1.0
	}

	return &Die[L]{
		labels:  append([]L(nil), labels...),
		weights: weights,
		src:     o.src,
	}, nil
}

// FromFrequencies builds a die whose weights are the given frequencies
// normalized to sum to 1.
func FromFrequencies[L cmp.Ordered](freqs []types.Face[L], opts ...Option) (*Die[L], error) {
	labels := make([]L, len(freqs))
	for i, f := range freqs {
		labels[i] = f.Label
	}
	d, err := New(labels, opts...)
	if err != nil {
		return nil, err
	}
	for _, f := range freqs {
		if err := d.SetWeight(f.Label, f.Weight); err != nil {
			return nil, err
		}
	}
	d.Normalize()
	return d, nil
}

// SetWeight replaces the weight of one label.
func (d *Die[L]) SetWeight(label L, weight float64) error {
	if _, ok := d.weights[label]; !ok {
		return fmt.Errorf("label %v: %w", label, ErrNotFound)
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight < 0 {
		return fmt.Errorf("weight %v for label %v: %w", weight, label, ErrInvalidWeight)
	}
	d.weights[label] = weight
	return nil
}

// Weight returns the weight of label and whether the label exists.
func (d *Die[L]) Weight(label L) (float64, bool) {
	w, ok := d.weights[label]
	return w, ok
}

// Normalize rescales the weights to sum to 1. All-zero dice are left as is.
func (d *Die[L]) Normalize() {
	total := d.total()
	if total == 0 {
		return
	}
	for l, w := range d.weights {
		d.weights[l] = w / total
	}
}

// Roll draws count labels with replacement. The distribution is read once
// at the start of the call.
func (d *Die[L]) Roll(count int) ([]L, error) {
	if count < 1 {
		return nil, fmt.Errorf("roll count %d: %w", count, ErrInvalidInput)
	}

	cdf := make([]float64, len(d.labels))
	sum := 0.0
	for i, l := range d.labels {
		sum += d.weights[l]
		cdf[i] = sum
	}
	if sum == 0 {
		return nil, ErrDegenerateDistribution
	}

	out := make([]L, count)
	for i := range out {
		out[i] = d.labels[rng.Pick(d.src, cdf)]
	}
	return out, nil
}

// Show returns a copy of the labels and weights in construction order.
func (d *Die[L]) Show() []types.Face[L] {
	faces := make([]types.Face[L], len(d.labels))
	for i, l := range d.labels {
		faces[i] = types.Face[L]{Label: l, Weight: d.weights[l]}
	}
	return faces
}

// Labels returns a copy of the labels in construction order.
func (d *Die[L]) Labels() []L {
	return append([]L(nil), d.labels...)
}

// Len returns the number of labels.
func (d *Die[L]) Len() int {
	return len(d.labels)
}

func (d *Die[L]) total() float64 {
	sum := 0.0
	for _, w := range d.weights {
		sum += w
	}
	return sum
}
