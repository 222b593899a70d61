// Package types defines the shared data structures for dicelab.
// This package contains only type definitions: no logic and no methods.
package types

import "cmp"

// Intent is the parsed representation of a session command.
type Intent struct {
	Verb string
	Args []string // positional arguments, case preserved
}

// Face is one label of a die together with its current weight.
type Face[L cmp.Ordered] struct {
	Label  L
	Weight float64
}

// Wide is a roll batch in wide form: one row per roll, one column per die.
type Wide[L cmp.Ordered] struct {
	Rows [][]L
}

// NarrowRow is one (roll, die) cell of a batch in long form.
type NarrowRow[L cmp.Ordered] struct {
	Roll    int
	Die     int
	Outcome L
}

// Table is the result of a game Show call. Exactly one of Wide or Narrow
// is populated, depending on the requested form.
type Table[L cmp.Ordered] struct {
	Wide   *Wide[L]
	Narrow []NarrowRow[L]
}

// FaceCounts holds per-roll label tallies. Labels are the columns,
// Counts[row][col] is how often Labels[col] appeared in that roll.
type FaceCounts[L cmp.Ordered] struct {
	Labels []L
	Counts [][]int
}

// Tally is one distinct outcome tuple and the number of rolls that produced it.
type Tally[L cmp.Ordered] struct {
	Outcome []L
	Count   int
}

// WordCount is a dictionary match and its number of occurrences.
type WordCount struct {
	Word  string
	Count int
}

// Grid is a rendered table carried in a Result so front ends can style it.
type Grid struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Result is the output of a single session step.
type Result struct {
	Output []string
	Tables []Grid
	Err    error // set when the command failed
}

// DieDef is the definition of a die loaded from content files.
type DieDef struct {
	ID      string
	Faces   []string
	Weights map[string]float64 // explicit weights; missing faces default to 1.0
	Source  string             // frequency table file, if the die was built from one
}

// GameDef holds game metadata from content files.
type GameDef struct {
	Title      string
	Author     string
	Version    string
	Seed       int64
	Rolls      int      // default roll count for "play"
	Dice       []string // die IDs by position; repeats share one die
	Dictionary string   // dictionary file, relative to the game directory
}
