package loader

import (
	"errors"
	"strings"
	"testing"

	"github.com/nathoo/dicelab/engine/die"
)

func TestReadFrequencies(t *testing.T) {
	in := "# English letters\nE 12.7\n\nT\t9.1\n  A 8.2  \n"
	faces, err := ReadFrequencies(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadFrequencies failed: %v", err)
	}
	if len(faces) != 3 {
		t.Fatalf("expected 3 faces, got %d", len(faces))
	}
	if faces[0].Label != "E" || faces[0].Weight != 12.7 {
		t.Errorf("first face = %+v", faces[0])
	}
	if faces[1].Label != "T" || faces[2].Label != "A" {
		t.Errorf("file order not kept: %+v", faces)
	}
}

func TestReadFrequencies_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"missing frequency", "A\n", die.ErrInvalidInput},
		{"extra field", "A 1 2\n", die.ErrInvalidInput},
		{"not a number", "A x\n", die.ErrInvalidWeight},
		{"empty", "# nothing\n\n", die.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFrequencies(strings.NewReader(tt.in))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestReadDictionary(t *testing.T) {
	dict, err := ReadDictionary(strings.NewReader("cat\n  Dog \n\nEMU\n"))
	if err != nil {
		t.Fatalf("ReadDictionary failed: %v", err)
	}
	for _, w := range []string{"CAT", "DOG", "EMU"} {
		if !dict[w] {
			t.Errorf("expected %q in dictionary", w)
		}
	}
	if len(dict) != 3 {
		t.Errorf("expected 3 words, got %d", len(dict))
	}
	if dict["cat"] {
		t.Error("words should be stored upper-case")
	}
}
