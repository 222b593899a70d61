package loader

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nathoo/dicelab/engine/die"
	"github.com/nathoo/dicelab/types"
)

// ReadFrequencies parses a frequency table: one "LABEL FREQ" pair per
// line, separated by whitespace. Blank lines and lines starting with '#'
// are skipped. Frequencies are returned as read, not normalized.
func ReadFrequencies(r io.Reader) ([]types.Face[string], error) {
	var faces []types.Face[string]
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: want LABEL FREQ, got %q: %w", line, text, die.ErrInvalidInput)
		}
		freq, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: frequency %q is not a number: %w", line, fields[1], die.ErrInvalidWeight)
		}
		faces = append(faces, types.Face[string]{Label: fields[0], Weight: freq})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(faces) == 0 {
		return nil, fmt.Errorf("frequency table is empty: %w", die.ErrInvalidInput)
	}
	return faces, nil
}

// ReadDictionary reads one word per line. Words are trimmed and
// upper-cased; blank lines are skipped.
func ReadDictionary(r io.Reader) (map[string]bool, error) {
	dict := map[string]bool{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		word := strings.ToUpper(strings.TrimSpace(sc.Text()))
		if word != "" {
			dict[word] = true
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return dict, nil
}
