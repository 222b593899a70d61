// Package tui provides a Bubble Tea terminal UI for the dicelab simulator.
package tui

import "strings"

// History keeps recent session commands, newest last. A command that is
// entered again moves to the newest slot instead of being stored twice, so
// a long run of "play 1000" and "jackpot" stays two entries.
//
// Browsing is filtered by the text typed before the first Up: typing
// "weight" and pressing Up walks only the weight commands.
type History struct {
	entries []string
	max     int

	cursor int    // -1 when not browsing, else index into entries
	prefix string // filter captured when browsing started
}

// NewHistory creates a history holding at most max commands.
func NewHistory(max int) *History {
	if max < 1 {
		max = 1
	}
	return &History{max: max, cursor: -1}
}

// normalize collapses runs of whitespace so "play  10" and "play 10" are
// the same entry.
func normalize(cmd string) string {
	return strings.Join(strings.Fields(cmd), " ")
}

// Push records cmd. Repeat commands ("again", "g") are not recorded; the
// caller pushes the command they repeated.
func (h *History) Push(cmd string) {
	cmd = normalize(cmd)
	if cmd == "" || isRepeat(cmd) {
		return
	}
	for i, e := range h.entries {
		if e == cmd {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			break
		}
	}
	h.entries = append(h.entries, cmd)
	if over := len(h.entries) - h.max; over > 0 {
		h.entries = h.entries[over:]
	}
}

// Replace drops every entry and pushes cmds in order, keeping the newest
// max. Used to pick up a loaded session's command log.
func (h *History) Replace(cmds []string) {
	h.entries = nil
	h.ResetCursor()
	for _, c := range cmds {
		h.Push(c)
	}
}

// Prev moves to the next older entry matching the browse prefix. typed is
// read only when browsing starts. At the oldest match Prev stays put.
func (h *History) Prev(typed string) (string, bool) {
	if h.cursor == -1 {
		h.prefix = normalize(typed)
		h.cursor = len(h.entries)
	}
	for i := h.cursor - 1; i >= 0; i-- {
		if strings.HasPrefix(h.entries[i], h.prefix) {
			h.cursor = i
			return h.entries[i], true
		}
	}
	if h.cursor < len(h.entries) {
		return h.entries[h.cursor], true
	}
	h.ResetCursor()
	return "", false
}

// Next moves to the next newer matching entry. Past the newest it stops
// browsing and returns the prefix the user had typed, with ok false.
func (h *History) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	for i := h.cursor + 1; i < len(h.entries); i++ {
		if strings.HasPrefix(h.entries[i], h.prefix) {
			h.cursor = i
			return h.entries[i], true
		}
	}
	typed := h.prefix
	h.ResetCursor()
	return typed, false
}

// ResetCursor stops browsing.
func (h *History) ResetCursor() {
	h.cursor = -1
	h.prefix = ""
}

// Len returns the number of stored commands.
func (h *History) Len() int {
	return len(h.entries)
}

func isRepeat(cmd string) bool {
	switch strings.ToLower(cmd) {
	case "again", "g":
		return true
	}
	return false
}
