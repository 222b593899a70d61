package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/nathoo/dicelab/types"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleOutput = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleNote = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true)

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	styleTableTitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228")).
			Bold(true)

	styleTableHeader = lipgloss.NewStyle().
				Foreground(lipgloss.Color("228")).
				Bold(true).
				Padding(0, 1)

	styleTableCell = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)

	styleTableBorder = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindOutput lineKind = iota
	kindNote
	kindSystem
	kindError
	kindTrace
	kindTable
	kindInput // echoed command
	kindMeta  // /command output, drawn in brackets
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "... ") && strings.HasSuffix(line, "more row(s)."):
		return kindNote
	case strings.HasPrefix(line, "What do you want to do?"):
		return kindNote
	default:
		return kindOutput
	}
}

// renderGrid draws a result table with rounded borders and a bold header.
func renderGrid(g types.Grid) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers(g.Headers...).
		Rows(g.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleTableHeader
			}
			return styleTableCell
		})
	out := t.Render()
	if g.Title != "" {
		out = styleTableTitle.Render(g.Title) + "\n" + out
	}
	return out
}

// renderLineKind styles one wrapped line.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindInput:
		return styledPlayerInput(line)
	case kindMeta:
		return styledSystemMsg(line)
	case kindNote:
		return styleNote.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	}
	return styleOutput.Render(line)
}

// styledPlayerInput renders the echoed user input in green with "> " prefix.
func styledPlayerInput(input string) string {
	return stylePlayerInput.Render("> " + input)
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
