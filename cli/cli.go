// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for the dicelab simulator.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nathoo/dicelab/engine"
	"github.com/nathoo/dicelab/engine/save"
	"github.com/nathoo/dicelab/engine/state"
	"github.com/nathoo/dicelab/types"
)

// Help lists the meta and session commands. The TUI shows the same text.
var Help = []string{
	"System:",
	"  /save [name]  Save session (default: quicksave)",
	"  /load [name]  Load session (default: quicksave)",
	"  /quit         Exit",
	"  /help         Show this help",
	"  /state        Debug: dump session state",
	"  /trace        Toggle debug trace output",
	"",
	"Session commands:",
	"  play [n] (roll, p)              Roll every die n times",
	"  show [wide|narrow] [limit|all]  Print the last batch",
	"  jackpot                         Count rolls where every face matches",
	"  faces [limit|all]               Face counts per roll",
	"  combos [limit|all]              Unordered outcome counts",
	"  perms [limit|all]               Ordered outcome counts",
	"  words                           Dictionary hits per face",
	"  row words                       Dictionary hits per concatenated roll",
	"  stats                           Chi-square fairness check per die",
	"  weight <die> <face> <w> (set)   Change a face weight",
	"  dice                            List dice and their positions",
	"  die <id>                        Show faces, weights, probabilities",
	"  seed [n]                        Show or reset the RNG seed",
	"  again (g)                       Repeat your last command",
}

// CLI handles terminal interaction with the user.
type CLI struct {
	Engine    *engine.Engine
	Defs      *state.Defs
	In        io.Reader
	Out       io.Writer
	SaveDir   string
	Trace     bool
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine, defs *state.Defs) *CLI {
	return &CLI{
		Engine:  eng,
		Defs:    defs,
		In:      os.Stdin,
		Out:     os.Stdout,
		SaveDir: save.DefaultDir(),
	}
}

// Run starts the command loop: prompt, input, dispatch, output.
func (c *CLI) Run() {
	c.printLine(fmt.Sprintf("%d dice loaded. Type /help for commands.", c.Engine.Session.Game.NumDice()))

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		before := c.Engine.Session.RNG.Position()
		result := c.Engine.Step(input)
		c.printResult(result)

		if c.Trace {
			c.printTrace(result, before)
		}
	}
}

// handleMeta dispatches meta-commands. Returns true if the session should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/save":
		c.cmdSave(arg)

	case "/load":
		c.cmdLoad(arg)

	case "/help":
		for _, line := range Help {
			c.printLine(line)
		}

	case "/state":
		for _, line := range StateLines(c.Engine) {
			c.printSystem(line)
		}

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdSave(name string) {
	if err := save.WriteFile(c.Engine, save.Path(c.SaveDir, name)); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	if name == "" {
		name = save.DefaultName
	}
	c.printSystem(fmt.Sprintf("Session saved to %s.", name))
}

func (c *CLI) cmdLoad(name string) {
	if _, err := save.ReadFile(c.Engine, save.Path(c.SaveDir, name)); err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}
	if name == "" {
		name = save.DefaultName
	}
	c.printSystem(fmt.Sprintf("Session loaded from %s (%d rolls in the last batch).", name, c.Engine.Session.Rolls))
}

// StateLines describes the session for /state.
func StateLines(e *engine.Engine) []string {
	s := e.Session
	lines := []string{
		fmt.Sprintf("Seed: %d", s.RNG.Seed()),
		fmt.Sprintf("RNG position: %d", s.RNG.Position()),
		fmt.Sprintf("Rolls: %d", s.Rolls),
		fmt.Sprintf("Commands: %d", len(s.Log)),
	}
	if ov := state.Overrides(s, e.Defs); len(ov) > 0 {
		lines = append(lines, fmt.Sprintf("Weights: %v", ov))
	}
	return lines
}

func (c *CLI) printTrace(result types.Result, before int64) {
	after := c.Engine.Session.RNG.Position()
	c.printLine(fmt.Sprintf("[trace] RNG %d -> %d (%d draw(s))", before, after, after-before))
	if result.Err != nil {
		c.printLine(fmt.Sprintf("[trace] error %T: %v", result.Err, result.Err))
	}
}

func (c *CLI) printResult(result types.Result) {
	for _, g := range result.Tables {
		c.printLine(RenderGrid(g))
	}
	for _, line := range result.Output {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
