package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/dicelab/cli"
	"github.com/nathoo/dicelab/engine"
	"github.com/nathoo/dicelab/engine/save"
	"github.com/nathoo/dicelab/engine/state"
	"github.com/nathoo/dicelab/types"
)

// Options configures a Model.
type Options struct {
	SaveDir     string // defaults to save.DefaultDir()
	HistorySize int    // defaults to 100
	Trace       bool
}

// rawLine is one transcript line before wrapping and styling. Tables are
// kept pre-rendered in a single rawLine of kind kindTable.
type rawLine struct {
	text string
	kind lineKind
}

// keyMap binds the keys the model handles itself. Everything else goes to
// the text input.
type keyMap struct {
	Quit   key.Binding
	Submit key.Binding
	Older  key.Binding
	Newer  key.Binding
	Scroll key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:   key.NewBinding(key.WithKeys("ctrl+c")),
		Submit: key.NewBinding(key.WithKeys("enter")),
		Older:  key.NewBinding(key.WithKeys("up")),
		Newer:  key.NewBinding(key.WithKeys("down")),
		Scroll: key.NewBinding(key.WithKeys("pgup", "pgdown")),
	}
}

// Model is the Bubble Tea model for the dicelab TUI.
type Model struct {
	engine *engine.Engine
	defs   *state.Defs
	keys   keyMap

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine

	width, height int
	ready         bool
	trace         bool
	quitting      bool
	lastCmd       string
	saveDir       string
}

// gameOutputMsg carries one command's output into Update.
type gameOutputMsg struct {
	input   string // echoed command; empty for the banner
	lines   []string
	tables  []types.Grid
	meta    bool // output of a /command
	isError bool
}

// New creates a TUI model wired to the given engine.
func New(eng *engine.Engine, defs *state.Defs, opts Options) Model {
	if opts.SaveDir == "" {
		opts.SaveDir = save.DefaultDir()
	}
	if opts.HistorySize < 1 {
		opts.HistorySize = 100
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.PromptStyle = styleInputPrompt
	ti.CharLimit = 256
	ti.Focus()

	return Model{
		engine:  eng,
		defs:    defs,
		keys:    defaultKeyMap(),
		input:   ti,
		history: NewHistory(opts.HistorySize),
		trace:   opts.Trace,
		saveDir: opts.SaveDir,
	}
}

// Run starts the Bubble Tea program.
func Run(eng *engine.Engine, defs *state.Defs, opts Options) error {
	p := tea.NewProgram(New(eng, defs, opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init blinks the cursor and prints the banner.
func (m Model) Init() tea.Cmd {
	banner := gameOutputMsg{lines: []string{
		title(m.defs.Game),
		"",
		fmt.Sprintf("%d dice loaded. Type /help for commands.", m.engine.Session.Game.NumDice()),
	}}
	return tea.Batch(textinput.Blink, func() tea.Msg { return banner })
}

func title(g types.GameDef) string {
	s := g.Title
	if g.Version != "" {
		s += " v" + g.Version
	}
	if g.Author != "" {
		s += " by " + g.Author
	}
	return s
}

// Update handles window resizes, keys and engine output.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}
	case gameOutputMsg:
		m = m.appendOutput(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// resize fits the viewport above the status bar and input line.
func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	vpHeight := max(height-2, 1)
	if m.ready {
		m.viewport.Width = width
		m.viewport.Height = vpHeight
	} else {
		m.viewport = viewport.New(width, vpHeight)
		m.viewport.KeyMap = viewportKeyMap()
		m.ready = true
	}
	m.refreshViewport()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit, true
	case key.Matches(msg, m.keys.Submit):
		next, cmd := m.handleEnter()
		return next, cmd, true
	case key.Matches(msg, m.keys.Older):
		if prev, ok := m.history.Prev(m.input.Value()); ok {
			m.setInput(prev)
		}
		return m, nil, true
	case key.Matches(msg, m.keys.Newer):
		// Past the newest match Next hands back what was typed.
		text, _ := m.history.Next()
		m.setInput(text)
		return m, nil, true
	case key.Matches(msg, m.keys.Scroll):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd, true
	}
	return m, nil, false
}

func (m *Model) setInput(s string) {
	m.input.SetValue(s)
	m.input.CursorEnd()
}

// handleEnter runs the submitted line as a /command or a session command.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	typed := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	m.history.ResetCursor()
	if typed == "" {
		return m, nil
	}

	input := typed
	if isRepeat(typed) {
		if m.lastCmd == "" {
			return m.appendOutput(gameOutputMsg{input: typed, lines: []string{"Nothing to repeat."}, meta: true}), nil
		}
		input = m.lastCmd
	}
	m.lastCmd = input
	m.history.Push(input)

	if strings.HasPrefix(input, "/") {
		lines, quit := m.handleMeta(input)
		m = m.appendOutput(gameOutputMsg{input: input, lines: lines, meta: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	before := m.engine.Session.RNG.Position()
	res := m.engine.Step(input)
	lines := res.Output
	if m.trace {
		lines = append(lines, m.formatTrace(res, before)...)
	}
	return m.appendOutput(gameOutputMsg{
		input:   input,
		lines:   lines,
		tables:  res.Tables,
		isError: res.Err != nil,
	}), nil
}

// appendOutput adds one command's echo, tables and lines to the transcript,
// followed by a blank separator.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{text: msg.input, kind: kindInput})
	}
	for _, g := range msg.tables {
		m.rawLines = append(m.rawLines, rawLine{text: renderGrid(g), kind: kindTable})
	}
	for _, line := range msg.lines {
		kind := classifyLine(line)
		switch {
		case msg.meta:
			kind = kindMeta
		case msg.isError:
			kind = kindError
		}
		m.rawLines = append(m.rawLines, rawLine{text: line, kind: kind})
	}
	m.rawLines = append(m.rawLines, rawLine{})
	m.refreshViewport()
	return m
}

// refreshViewport re-renders the transcript at the current width and
// scrolls to the bottom.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	width := max(m.width, 10)
	out := make([]string, len(m.rawLines))
	for i, rl := range m.rawLines {
		switch {
		case rl.text == "":
		case rl.kind == kindTable:
			out[i] = rl.text
		default:
			out[i] = renderLineKind(wordWrap(rl.text, width), rl.kind)
		}
	}
	m.viewport.SetContent(strings.Join(out, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap breaks text at spaces so no line exceeds width, unless a single
// word is longer than width.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}
	var lines []string
	var line strings.Builder
	for _, w := range strings.Fields(text) {
		if line.Len() > 0 && line.Len()+1+len(w) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(w)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// View stacks the transcript, status bar and input line.
func (m Model) View() string {
	switch {
	case m.quitting:
		return ""
	case !m.ready:
		return "Loading..."
	}
	return strings.Join([]string{m.viewport.View(), m.renderStatusBar(), m.input.View()}, "\n")
}

// handleMeta runs a /command and reports whether the program should quit.
func (m *Model) handleMeta(input string) ([]string, bool) {
	cmd, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true
	case "/save":
		return m.cmdSave(arg), false
	case "/load":
		return m.cmdLoad(arg), false
	case "/help":
		return append(append([]string(nil), cli.Help...), "",
			"Navigation: PgUp/PgDn to scroll, Up/Down for command history (type a prefix first to filter)"), false
	case "/state":
		return append(cli.StateLines(m.engine), fmt.Sprintf("History: %d command(s)", m.history.Len())), false
	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false
	}
	return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
}

func saveName(name string) string {
	if name == "" {
		return save.DefaultName
	}
	return name
}

func (m *Model) cmdSave(name string) []string {
	if err := save.WriteFile(m.engine, save.Path(m.saveDir, name)); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	return []string{fmt.Sprintf("Session saved to %s.", saveName(name))}
}

// cmdLoad restores a save and takes over its command log as the history.
func (m *Model) cmdLoad(name string) []string {
	sd, err := save.ReadFile(m.engine, save.Path(m.saveDir, name))
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}
	m.history.Replace(sd.CommandLog)
	return []string{fmt.Sprintf("Session loaded from %s (%d rolls in the last batch).", saveName(name), m.engine.Session.Rolls)}
}

func (m *Model) formatTrace(res types.Result, before int64) []string {
	after := m.engine.Session.RNG.Position()
	lines := []string{fmt.Sprintf("[trace] RNG %d -> %d (%d draw(s))", before, after, after-before)}
	if res.Err != nil {
		lines = append(lines, fmt.Sprintf("[trace] error %T: %v", res.Err, res.Err))
	}
	return lines
}

// viewportKeyMap leaves Up and Down to the command history.
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
