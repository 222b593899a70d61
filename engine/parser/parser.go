// Package parser converts command strings into Intent structs.
// Intentionally dumb: verbs are aliased, arguments are split on whitespace.
package parser

import (
	"strings"

	"github.com/nathoo/dicelab/types"
)

var verbAliases = map[string]string{
	// Rolling
	"roll": "play",
	"p":    "play",
	"r":    "play",

	// Batch views
	"table": "show",
	"s":     "show",

	// Analysis
	"jp":           "jackpot",
	"jackpots":     "jackpot",
	"face":         "faces",
	"counts":       "faces",
	"combo":        "combos",
	"combination":  "combos",
	"combinations": "combos",
	"perm":         "perms",
	"permutation":  "perms",
	"permutations": "perms",
	"word":         "words",
	"fairness":     "stats",

	// Dice
	"set":     "weight",
	"w":       "weight",
	"inspect": "die",
	"list":    "dice",
}

// Parse converts a raw command string into an Intent. The verb is
// lower-cased; arguments keep their case because labels are case-sensitive.
func Parse(input string) types.Intent {
	input = strings.TrimSpace(input)
	if input == "" {
		return types.Intent{}
	}

	words := strings.Fields(input)
	words[0] = strings.ToLower(words[0])

	// Handle multi-word verb phrases before aliasing.
	words = expandMultiWordVerbs(words)

	if alias, ok := verbAliases[words[0]]; ok {
		words[0] = alias
	}

	intent := types.Intent{Verb: words[0]}
	if len(words) > 1 {
		intent.Args = words[1:]
	}
	return intent
}

// expandMultiWordVerbs handles "face counts", "valid words", "row words" etc.
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}

	second := strings.ToLower(words[1])
	switch words[0] {
	case "face":
		if second == "counts" {
			return append([]string{"faces"}, words[2:]...)
		}
	case "valid":
		if second == "words" {
			return append([]string{"words"}, words[2:]...)
		}
	case "row":
		if second == "words" {
			return append([]string{"rowwords"}, words[2:]...)
		}
	case "set":
		if second == "weight" {
			return append([]string{"weight"}, words[2:]...)
		}
	}

	return words
}
