package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/dicelab/engine"
	"github.com/nathoo/dicelab/engine/state"
	"github.com/nathoo/dicelab/types"
)

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		want lineKind
	}{
		{"[Session saved to test.]", kindSystem},
		{"[trace] RNG 0 -> 8 (8 draw(s))", kindTrace},
		{"... 980 more row(s).", kindNote},
		{"What do you want to do? Type /help for commands.", kindNote},
		{"Rolled 3 dice 1000 time(s).", kindOutput},
		{"Jackpots: 4 of 100 rolls (4.00%).", kindOutput},
		{"", kindOutput},
	}
	for _, tt := range tests {
		got := classifyLine(tt.line)
		if got != tt.want {
			t.Errorf("classifyLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestWordWrap(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"short", 80, "short"},
		{"hello world", 5, "hello\nworld"},
		{"letters: chi-square 1.234 over 3000 draw(s), 2 degree(s) of freedom.", 30,
			"letters: chi-square 1.234 over\n3000 draw(s), 2 degree(s) of\nfreedom."},
		{"", 80, ""},
		{"a b c d e", 3, "a b\nc d\ne"},
	}
	for _, tt := range tests {
		got := wordWrap(tt.text, tt.width)
		if got != tt.want {
			t.Errorf("wordWrap(%q, %d) =\n  %q\nwant:\n  %q", tt.text, tt.width, got, tt.want)
		}
	}
}

func TestRenderGrid(t *testing.T) {
	out := renderGrid(types.Grid{
		Title:   "Combinations",
		Headers: []string{"outcome", "count"},
		Rows:    [][]string{{"[H H]", "7"}, {"[H T]", "2"}},
	})
	for _, want := range []string{"Combinations", "outcome", "count", "[H H]", "7", "[H T]"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in rendered table:\n%s", want, out)
		}
	}
}

func TestHistory_PushAndPrev(t *testing.T) {
	h := NewHistory(5)
	h.Push("play 100")
	h.Push("show")
	h.Push("jackpot")

	for _, want := range []string{"jackpot", "show", "play 100", "play 100"} {
		prev, ok := h.Prev("")
		if !ok || prev != want {
			t.Errorf("expected %q, got %q (ok=%v)", want, prev, ok)
		}
	}
}

func TestHistory_Next(t *testing.T) {
	h := NewHistory(5)
	h.Push("play")
	h.Push("combos")

	h.Prev("") // "combos"
	h.Prev("") // "play"

	next, ok := h.Next()
	if !ok || next != "combos" {
		t.Errorf("expected 'combos', got %q (ok=%v)", next, ok)
	}

	if _, ok = h.Next(); ok {
		t.Error("expected false when past newest entry")
	}
}

func TestHistory_Empty(t *testing.T) {
	h := NewHistory(5)
	if _, ok := h.Prev(""); ok {
		t.Error("expected false on empty history")
	}
	if _, ok := h.Next(); ok {
		t.Error("expected false on empty history")
	}
}

func TestHistory_MaxSize(t *testing.T) {
	h := NewHistory(2)
	h.Push("a")
	h.Push("b")
	h.Push("c") // "a" evicted

	for _, want := range []string{"c", "b", "b"} {
		if prev, _ := h.Prev(""); prev != want {
			t.Errorf("expected %q, got %q", want, prev)
		}
	}
}

func TestHistory_NoDuplicates(t *testing.T) {
	h := NewHistory(5)
	h.Push("play")
	h.Push("play") // skipped
	h.Push("play") // skipped

	if len(h.entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(h.entries))
	}
}

func TestHistory_ResetCursor(t *testing.T) {
	h := NewHistory(5)
	h.Push("play")
	h.Push("show")

	h.Prev("") // "show"
	h.ResetCursor()

	prev, ok := h.Prev("")
	if !ok || prev != "show" {
		t.Errorf("expected 'show' after reset, got %q", prev)
	}
}

func TestHistory_RepeatMovesToNewest(t *testing.T) {
	h := NewHistory(5)
	h.Push("play 1000")
	h.Push("jackpot")
	h.Push("play   1000")

	if h.Len() != 2 || h.entries[0] != "jackpot" || h.entries[1] != "play 1000" {
		t.Errorf("expected [jackpot, play 1000], got %v", h.entries)
	}
}

func TestHistory_SkipsRepeatCommands(t *testing.T) {
	h := NewHistory(5)
	h.Push("play")
	h.Push("g")
	h.Push("Again")
	if h.Len() != 1 {
		t.Errorf("expected only play, got %v", h.entries)
	}
}

func TestHistory_PrefixFilter(t *testing.T) {
	h := NewHistory(10)
	h.Push("weight coin H 2")
	h.Push("play 10")
	h.Push("weight coin T 3")
	h.Push("jackpot")

	for _, want := range []string{"weight coin T 3", "weight coin H 2", "weight coin H 2"} {
		if prev, ok := h.Prev("weight"); !ok || prev != want {
			t.Errorf("expected %q, got %q (ok=%v)", want, prev, ok)
		}
	}
	if next, ok := h.Next(); !ok || next != "weight coin T 3" {
		t.Errorf("expected newer weight command, got %q (ok=%v)", next, ok)
	}
	if typed, ok := h.Next(); ok || typed != "weight" {
		t.Errorf("expected the typed prefix back, got %q (ok=%v)", typed, ok)
	}

	if _, ok := h.Prev("seed"); ok {
		t.Error("expected no match for an unused prefix")
	}
}

func TestHistory_Replace(t *testing.T) {
	h := NewHistory(2)
	h.Push("stats")
	h.Replace([]string{"play 5", "show", "play 5", "combos"})

	if h.Len() != 2 || h.entries[0] != "play 5" || h.entries[1] != "combos" {
		t.Errorf("expected newest two distinct commands, got %v", h.entries)
	}
}

// testDefs returns a small two-die game for TUI testing.
func testDefs() *state.Defs {
	return &state.Defs{
		Game: types.GameDef{
			Title:   "Test Game",
			Author:  "Test",
			Version: "1.0",
			Rolls:   10,
			Dice:    []string{"coin", "coin"},
		},
		Dice: map[string]types.DieDef{
			"coin": {ID: "coin", Faces: []string{"H", "T"}},
		},
	}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	defs := testDefs()
	eng, err := engine.New(defs, 42)
	if err != nil {
		t.Fatalf("engine.New failed: %v", err)
	}
	return New(eng, defs, Options{SaveDir: t.TempDir(), HistorySize: 10})
}

// submit types input and presses enter.
func submit(t *testing.T, m Model, input string) Model {
	t.Helper()
	m.input.SetValue(input)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(Model)
}

func TestTitle(t *testing.T) {
	if got := title(types.GameDef{Title: "Dice", Version: "2", Author: "Me"}); got != "Dice v2 by Me" {
		t.Errorf("title = %q", got)
	}
	if got := title(types.GameDef{Title: "Dice"}); got != "Dice" {
		t.Errorf("title without metadata = %q", got)
	}
}

func TestEnter_RunsEngineCommand(t *testing.T) {
	m := newTestModel(t)
	m = submit(t, m, "play 5")

	if m.engine.Session.Rolls != 5 {
		t.Fatalf("expected 5 rolls, got %d", m.engine.Session.Rolls)
	}
	if m.history.entries[0] != "play 5" {
		t.Errorf("expected command in history, got %v", m.history.entries)
	}

	m = submit(t, m, "show")
	var tables int
	for _, rl := range m.rawLines {
		if rl.kind == kindTable {
			tables++
		}
	}
	if tables != 1 {
		t.Errorf("expected one rendered table, got %d", tables)
	}
}

func TestEnter_ErrorsAreStyledAsErrors(t *testing.T) {
	m := newTestModel(t)
	m = submit(t, m, "jackpot")

	var found bool
	for _, rl := range m.rawLines {
		if rl.kind == kindError && strings.Contains(rl.text, "no results") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an error line, got %+v", m.rawLines)
	}
}

func TestEnter_Again(t *testing.T) {
	m := newTestModel(t)
	m = submit(t, m, "play 2")
	m = submit(t, m, "g")

	if got := m.engine.Session.RNG.Position(); got != 8 {
		t.Errorf("expected two plays of 2x2 draws, RNG at %d", got)
	}
}

func TestKeys_HistoryBrowsing(t *testing.T) {
	m := newTestModel(t)
	m = submit(t, m, "play 2")
	m = submit(t, m, "show")

	m.input.SetValue("pl")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(Model)
	if got := m.input.Value(); got != "play 2" {
		t.Errorf("Up with prefix: input = %q, want %q", got, "play 2")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	if got := m.input.Value(); got != "pl" {
		t.Errorf("Down past newest: input = %q, want typed prefix", got)
	}
}

func TestStatusBar(t *testing.T) {
	m := newTestModel(t)
	m.width = 80
	m = submit(t, m, "play 3")

	bar := m.renderStatusBar()
	for _, want := range []string{"Test Game", "Dice: 2", "Rolls: 3", "Seed:42", "Pos:6"} {
		if !strings.Contains(bar, want) {
			t.Errorf("expected %q in status bar %q", want, bar)
		}
	}
	if w := lipgloss.Width(bar); w != 80 {
		t.Errorf("status bar width = %d, want 80", w)
	}

	m.width = 30
	if bar := m.renderStatusBar(); strings.Contains(bar, "Seed:") {
		t.Errorf("narrow bar should drop the seed, got %q", bar)
	}
}

func TestHandleMeta_Quit(t *testing.T) {
	m := newTestModel(t)

	if _, quit := m.handleMeta("/quit"); !quit {
		t.Error("expected quit=true for /quit")
	}
	if _, quit := m.handleMeta("/exit"); !quit {
		t.Error("expected quit=true for /exit")
	}
}

func TestHandleMeta_SaveAndLoad(t *testing.T) {
	m := newTestModel(t)
	m = submit(t, m, "play 6")

	output, quit := m.handleMeta("/save test")
	if quit {
		t.Error("save should not quit")
	}
	if len(output) == 0 || !strings.Contains(output[0], "Session saved to test.") {
		t.Fatalf("expected save confirmation, got %v", output)
	}

	m = submit(t, m, "play 1")
	m = submit(t, m, "jackpot")
	output, _ = m.handleMeta("/load test")
	if len(output) == 0 || !strings.Contains(output[0], "(6 rolls in the last batch)") {
		t.Errorf("expected load confirmation, got %v", output)
	}
	if m.history.Len() != 1 || m.history.entries[0] != "play 6" {
		t.Errorf("expected history from the saved command log, got %v", m.history.entries)
	}
}

func TestHandleMeta_LoadNonexistent(t *testing.T) {
	m := newTestModel(t)

	output, quit := m.handleMeta("/load nonexistent")
	if quit {
		t.Error("load should not quit")
	}
	if len(output) == 0 || !strings.Contains(output[0], "Load failed") {
		t.Errorf("expected load failure, got %v", output)
	}
}

func TestHandleMeta_Help(t *testing.T) {
	m := newTestModel(t)

	output, _ := m.handleMeta("/help")
	joined := strings.Join(output, "\n")
	for _, expected := range []string{"/save", "/load", "/quit", "play [n]", "combos", "PgUp/PgDn"} {
		if !strings.Contains(joined, expected) {
			t.Errorf("expected %q in help output", expected)
		}
	}
}

func TestHandleMeta_Trace(t *testing.T) {
	m := newTestModel(t)

	output, _ := m.handleMeta("/trace")
	if !m.trace {
		t.Error("expected trace to be enabled")
	}
	if len(output) == 0 || !strings.Contains(output[0], "enabled") {
		t.Errorf("expected enabled message, got %v", output)
	}

	m = submit(t, m, "play 1")
	var traced bool
	for _, rl := range m.rawLines {
		if strings.HasPrefix(rl.text, "[trace] RNG 0 -> 2") {
			traced = true
		}
	}
	if !traced {
		t.Error("expected a trace line after play")
	}

	output, _ = m.handleMeta("/trace")
	if m.trace {
		t.Error("expected trace to be disabled")
	}
	if len(output) == 0 || !strings.Contains(output[0], "disabled") {
		t.Errorf("expected disabled message, got %v", output)
	}
}

func TestHandleMeta_Unknown(t *testing.T) {
	m := newTestModel(t)

	output, quit := m.handleMeta("/bogus")
	if quit {
		t.Error("unknown command should not quit")
	}
	if len(output) == 0 || !strings.Contains(output[0], "Unknown command") {
		t.Errorf("expected unknown command message, got %v", output)
	}
}

func TestHandleMeta_State(t *testing.T) {
	m := newTestModel(t)

	output, _ := m.handleMeta("/state")
	joined := strings.Join(output, "\n")
	if !strings.Contains(joined, "Seed: 42") || !strings.Contains(joined, "RNG position: 0") {
		t.Errorf("unexpected state output %q", joined)
	}
}
