package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderStatusBar produces a full-width inverted status line showing the
// game title, dice count, last batch size, seed and RNG position.
func (m Model) renderStatusBar() string {
	s := m.engine.Session

	left := fmt.Sprintf(" %s | Dice: %d", m.defs.Game.Title, s.Game.NumDice())
	if s.Rolls > 0 {
		left += fmt.Sprintf(" | Rolls: %d", s.Rolls)
	}
	right := fmt.Sprintf("Seed:%d Pos:%d ", s.RNG.Seed(), s.RNG.Position())

	// Drop the seed when the bar is too narrow for both halves.
	if lipgloss.Width(left)+lipgloss.Width(right) > m.width {
		right = fmt.Sprintf("Pos:%d ", s.RNG.Position())
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
