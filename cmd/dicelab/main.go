// Dicelab simulates weighted dice games and analyzes the results.
// Usage: dicelab [--version] [--plain] [--script <file>] [--trace] [--seed <n>] <game_directory>
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/nathoo/dicelab/cli"
	"github.com/nathoo/dicelab/config"
	"github.com/nathoo/dicelab/engine"
	"github.com/nathoo/dicelab/loader"
	"github.com/nathoo/dicelab/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: dicelab [--version] [--plain] [--script <file>] [--trace] [--seed <n>] <game_directory>"

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "dicelab"})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("loading config", "err", err)
	}

	plain := cfg.Plain
	trace := cfg.Trace
	var seed *int64
	var gameDir string
	var scriptFile string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("dicelab %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--trace":
			trace = true
		case "--script":
			if i+1 >= len(args) {
				logger.Fatal("--script requires a file path")
			}
			i++
			scriptFile = args[i]
		case "--seed":
			if i+1 >= len(args) {
				logger.Fatal("--seed requires an integer")
			}
			i++
			n, err := strconv.ParseInt(args[i], 10, 64)
			if err != nil {
				logger.Fatal("--seed is not an integer", "value", args[i])
			}
			seed = &n
		default:
			if gameDir == "" {
				gameDir = args[i]
			}
		}
	}

	if gameDir == "" {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	if trace {
		logger.SetLevel(log.DebugLevel)
	}

	defs, err := loader.Load(gameDir, loader.WithLogger(logger))
	if err != nil {
		logger.Fatal("loading game", "dir", gameDir, "err", err)
	}

	s := cfg.PickSeed(seed, defs.Game.Seed)
	logger.Debug("game loaded", "title", defs.Game.Title, "seed", s,
		"positions", len(defs.Game.Dice), "dice", len(defs.Dice))

	eng, err := engine.New(defs, s)
	if err != nil {
		logger.Fatal("building session", "err", err)
	}
	eng.Logger = logger

	// Script mode: open file, force plain, echo commands.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			logger.Fatal("opening script", "file", scriptFile, "err", err)
		}
		defer f.Close()
		printBanner(defs.Game.Title, defs.Game.Version, defs.Game.Author)
		c := newCLI(eng, cfg, trace)
		c.In = f
		c.EchoInput = true
		c.Run()
		return
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if plain || !isTerminal() {
		printBanner(defs.Game.Title, defs.Game.Version, defs.Game.Author)
		newCLI(eng, cfg, trace).Run()
		return
	}

	// The TUI owns the terminal; engine diagnostics would tear the screen.
	eng.Logger = nil
	opts := tui.Options{SaveDir: cfg.SaveDir, HistorySize: cfg.HistorySize, Trace: trace}
	if err := tui.Run(eng, defs, opts); err != nil {
		logger.Fatal("running tui", "err", err)
	}
}

func newCLI(eng *engine.Engine, cfg config.Config, trace bool) *cli.CLI {
	c := cli.New(eng, eng.Defs)
	if cfg.SaveDir != "" {
		c.SaveDir = cfg.SaveDir
	}
	c.Trace = trace
	return c
}

func printBanner(title, version, author string) {
	line := title
	if version != "" {
		line += " v" + version
	}
	if author != "" {
		line += " by " + author
	}
	fmt.Printf("%s\n\n", line)
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
