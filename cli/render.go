package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/nathoo/dicelab/types"
)

// RenderGrid draws a result table with ASCII borders and no colour, so
// script output stays diffable.
func RenderGrid(g types.Grid) string {
	t := table.New().
		Border(lipgloss.ASCIIBorder()).
		Headers(g.Headers...).
		Rows(g.Rows...)
	out := t.Render()
	if g.Title != "" {
		out = g.Title + "\n" + out
	}
	return out
}
