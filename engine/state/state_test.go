package state

import (
	"errors"
	"testing"

	"github.com/nathoo/dicelab/engine/die"
	"github.com/nathoo/dicelab/types"
)

func testDefs() *Defs {
	return &Defs{
		Game: types.GameDef{
			Title: "Test",
			Rolls: 10,
			Dice:  []string{"coin", "coin", "d3"},
		},
		Dice: map[string]types.DieDef{
			"coin": {ID: "coin", Faces: []string{"H", "T"}, Weights: map[string]float64{"H": 3}},
			"d3":   {ID: "d3", Faces: []string{"1", "2", "3"}},
		},
	}
}

func TestNewSession_BuildsDice(t *testing.T) {
	s, err := NewSession(testDefs(), 1)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	if len(s.Dice) != 2 {
		t.Fatalf("expected 2 distinct dice, got %d", len(s.Dice))
	}
	if s.Game.NumDice() != 3 {
		t.Fatalf("expected 3 game positions, got %d", s.Game.NumDice())
	}
	if w, _ := s.Dice["coin"].Weight("H"); w != 3 {
		t.Errorf("expected coin H weight 3, got %v", w)
	}
	if w, _ := s.Dice["coin"].Weight("T"); w != 1 {
		t.Errorf("expected coin T default weight 1, got %v", w)
	}
}

func TestNewSession_RepeatedIDSharesDie(t *testing.T) {
	s, err := NewSession(testDefs(), 1)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	dice := s.Game.Dice()
	if dice[0] != dice[1] {
		t.Error("positions 0 and 1 should hold the same coin die")
	}
	if dice[0] == dice[2] {
		t.Error("coin and d3 should be different dice")
	}
}

func TestNewSession_UnknownDie(t *testing.T) {
	defs := testDefs()
	defs.Game.Dice = []string{"coin", "d20"}
	_, err := NewSession(defs, 1)
	if !errors.Is(err, die.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNewSession_SameSeedSameBatch(t *testing.T) {
	s1, _ := NewSession(testDefs(), 42)
	s2, _ := NewSession(testDefs(), 42)
	_ = s1.Game.Play(25)
	_ = s2.Game.Play(25)

	w1, _ := s1.Game.Wide()
	w2, _ := s2.Game.Wide()
	for r := range w1.Rows {
		for c := range w1.Rows[r] {
			if w1.Rows[r][c] != w2.Rows[r][c] {
				t.Fatalf("cell (%d,%d) differs: %q vs %q", r, c, w1.Rows[r][c], w2.Rows[r][c])
			}
		}
	}
}

func TestGetWeight_Layering(t *testing.T) {
	defs := testDefs()
	s, _ := NewSession(defs, 1)

	if w, ok := GetWeight(s, defs, "coin", "H"); !ok || w != 3 {
		t.Errorf("expected base weight 3, got %v (found=%v)", w, ok)
	}

	_ = s.Dice["coin"].SetWeight("H", 7)
	if w, _ := GetWeight(s, defs, "coin", "H"); w != 7 {
		t.Errorf("expected live weight 7, got %v", w)
	}
	if BaseWeight(defs, "coin", "H") != 3 {
		t.Error("definition weight should be unchanged")
	}

	if _, ok := GetWeight(s, defs, "coin", "X"); ok {
		t.Error("expected missing face to report not found")
	}
	if _, ok := GetWeight(&Session{}, defs, "d3", "2"); !ok {
		t.Error("expected definition fallback for session without dice")
	}
}

func TestOverrides(t *testing.T) {
	defs := testDefs()
	s, _ := NewSession(defs, 1)

	if len(Overrides(s, defs)) != 0 {
		t.Fatalf("fresh session should have no overrides")
	}

	_ = s.Dice["coin"].SetWeight("T", 0)
	_ = s.Dice["d3"].SetWeight("2", 1) // unchanged value
	ov := Overrides(s, defs)
	if len(ov) != 1 || ov["coin"]["T"] != 0 {
		t.Fatalf("expected only coin T override, got %v", ov)
	}
	if _, ok := ov["coin"]["T"]; !ok {
		t.Fatal("expected coin T present")
	}
}

func TestDieIDsAndPositions(t *testing.T) {
	defs := testDefs()
	ids := DieIDs(defs)
	if len(ids) != 2 || ids[0] != "coin" || ids[1] != "d3" {
		t.Errorf("expected [coin d3], got %v", ids)
	}
	pos := DiePositions(defs, "coin")
	if len(pos) != 2 || pos[0] != 0 || pos[1] != 1 {
		t.Errorf("expected coin at [0 1], got %v", pos)
	}
}
