package repl

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/jpx/cli/cmd"
	"github.com/ardnew/jpx/lang"
	"github.com/ardnew/jpx/log"
)

const evalPrompt = "➜ "

func helpMessage() string {
	return `
Commands:

  :help       Print this cruft
  :functions  List callable functions
  :clear      Clear screen
  :quit       Exit REPL

Usage:
  Type an expression to evaluate it against the loaded document
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Press Esc to abandon tab-cycling
  Use Up/Down arrows for history navigation
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// commandNames lists the REPL commands offered for completion.
var commandNames = []string{"clear", "functions", "help", "quit"}

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	matchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true)
	selectedMatchStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("4")).
				Bold(true)
)

// formatCommand formats the command echo line with prompt and input styled.
func formatCommand(input string) string {
	return promptStyle.Render(evalPrompt) + inputStyle.Render(input)
}

// Repl queries a document interactively.
type Repl struct {
	File  string `arg:"" help:"Document to query, or '-' for stdin" optional:""`
	Input string `default:"auto" enum:"auto,json,yaml" help:"Input format" short:"i"`
}

// Run loads the document and starts the REPL.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	doc, err := r.load(ctx)
	if err != nil {
		return err
	}

	var historyPath string
	if dir, ok := cmd.Var(ctx, cmd.CacheIdentifier); ok && dir != "" {
		historyPath = filepath.Join(dir, baseHistory)
	}

	history := NewHistory(historyPath)
	if err := history.Load(); err != nil {
		log.WarnContext(ctx, "could not load history",
			slog.String("path", historyPath),
			slog.String("error", err.Error()))
	}

	log.TraceContext(ctx, "repl start",
		slog.String("file", r.File),
		slog.Int("history", history.Len()))

	m := newModel(ctx, cmd.EngineFrom(ctx), doc, history, log.Default())

	opts := []tea.ProgramOption{tea.WithContext(ctx)}

	// Keys cannot be read from stdin once the document has consumed it.
	if r.File == cmd.StdinSource {
		opts = append(opts, tea.WithInputTTY())
	}

	_, err = tea.NewProgram(m, opts...).Run()

	return err
}

// load decodes the document named by r.File. Without a file, the document is
// null. An input holding several documents is queried as an array of them.
func (r *Repl) load(ctx context.Context) (any, error) {
	if r.File == "" {
		return nil, nil
	}

	srcs, err := cmd.OpenSources([]string{r.File})
	if err != nil {
		return nil, err
	}

	var docs []any

	for _, src := range srcs {
		d, err := cmd.Decode(ctx, src, r.Input)

		_ = src.Close()

		if err != nil {
			return nil, err
		}

		docs = append(docs, d...)
	}

	switch len(docs) {
	case 0:
		return nil, nil
	case 1:
		return docs[0], nil
	}

	return docs, nil
}

const defaultWidth = 80

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	engine       *lang.Engine
	doc          any
	functions    map[string]lang.Function
	names        []string // function names, sorted
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches // current fuzzy match results
	candidates   []string      // backing candidate list
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	width        int           // terminal width for ellipsization
	quitting     bool
}

func newModel(
	ctx context.Context,
	engine *lang.Engine,
	doc any,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	m := model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		engine:     engine,
		doc:        doc,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		width:      defaultWidth,
	}

	m.loadFunctions()

	return m
}

// loadFunctions refreshes the function table, which grows when an
// expression calls define().
func (m *model) loadFunctions() {
	fns := m.engine.Functions()

	m.functions = make(map[string]lang.Function, len(fns))
	m.names = make([]string, len(fns))

	for i, fn := range fns {
		m.functions[fn.Name] = fn
		m.names[i] = fn.Name
	}
}

// isFunction reports whether name refers to a callable function.
func (m model) isFunction(name string) bool {
	_, ok := m.functions[name]

	return ok
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	// Input line.
	b.WriteString(m.input.View())
	b.WriteString("\n")

	// Completion / hint line.
	input := m.input.Value()

	viewingHistory := m.historyIdx < m.history.Len()

	cursor := m.input.Position()
	funcCall := detectFunctionCall(input, cursor)

	switch {
	case viewingHistory:
		pos := m.historyIdx + 1 // 1-based for display
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(pos)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "":
		b.WriteString(hintStyle.Render(
			"Type an expression, or :help for commands"))

	case funcCall.inCall && !strings.HasPrefix(input, commandPrefix):
		if fn, ok := m.functions[funcCall.name]; ok {
			b.WriteString(renderSignatureHint(fn, funcCall.argIndex))
		} else {
			b.WriteString(m.renderCandidateBar())
		}

	default:
		b.WriteString(m.renderCandidateBar())
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}
		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1)

	case tea.KeyShiftTab:
		return m.cycle(-1)

	case tea.KeyUp:
		return m.historyPrev()

	case tea.KeyDown:
		return m.historyNext()

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)
		}

		return m, nil

	case tea.KeyRunes:
		// Check for space as "breaking" key while tab-cycling.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// For any other key (backspace, delete, arrows, etc.),
	// update input and recompute matches without auto-confirm.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the tab selection by step, wrapping at either end.
func (m model) cycle(step int) (model, tea.Cmd) {
	if len(m.matches) == 0 {
		return m, nil
	}

	// Single candidate: complete and confirm immediately.
	if len(m.matches) == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m, nil
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m, nil
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	newInput := input[:m.wordStart] + replacement + input[m.wordEnd:]
	newCursor := m.wordStart + len(replacement)

	m.input.SetValue(newInput)
	m.input.SetCursor(newCursor)

	m.wordEnd = newCursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also auto-confirms the completion when exactly
// one candidate remains and the typed word already equals that candidate.
// autoConfirm should be false for deletions and cursor navigation so that
// the user can freely edit without unexpected completions.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	candidate := m.matches[0].Str
	word := m.input.Value()[m.wordStart:m.wordEnd]

	if word == candidate {
		replaceCurrentWord(m, candidate)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.input.SetValue("")
	m.matches = nil

	if _, err := m.history.Write(input); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not write history",
			slog.String("error", err.Error()))
	}

	m.historyIdx = m.history.Len()

	echoCmd := tea.Println(formatCommand(input))

	if name, ok := strings.CutPrefix(input, commandPrefix); ok {
		return m.executeCommand(strings.TrimSpace(name), echoCmd)
	}

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl eval",
		slog.String("input", input),
	)

	out, err := m.evaluate(input)
	if err != nil {
		return m, tea.Sequence(
			echoCmd,
			tea.Println(errorStyle.Render("error: "+err.Error())),
		)
	}

	// define() may have added functions.
	m.loadFunctions()

	return m, tea.Sequence(echoCmd, tea.Println(resultStyle.Render(out)))
}

// evaluate searches the document with expression and formats the result.
func (m model) evaluate(expression string) (string, error) {
	result, err := m.engine.Search(m.ctxFunc(), m.doc, expression)
	if err != nil {
		return "", err
	}

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl eval result",
		slog.String("type", lang.TypeOf(result).String()),
	)

	var buf bytes.Buffer
	if err := lang.FormatJSON(&buf, result, 2); err != nil {
		return "", err
	}

	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func (m model) executeCommand(name string, echoCmd tea.Cmd) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl exec command",
		slog.String("command", name),
	)

	switch name {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echoCmd, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echoCmd, tea.Println(helpMessage()))

	case "f", "functions":
		return m, tea.Sequence(echoCmd, tea.Println(m.listFunctions()))

	case "c", "clear":
		return m, tea.ClearScreen

	default:
		return m, tea.Sequence(echoCmd, tea.Println(
			errorStyle.Render("Unknown command: "+name+" (try :help)"),
		))
	}
}

func (m model) listFunctions() string {
	var b strings.Builder

	for _, name := range m.names {
		fn := m.functions[name]

		b.WriteString("  ")
		b.WriteString(fn.String())

		if fn.Defined {
			b.WriteString(" " + hintStyle.Render("defined"))
		}

		b.WriteString("\n")
	}

	return b.String()
}

func (m model) historyPrev() (model, tea.Cmd) {
	if m.historyIdx > 0 {
		m.historyIdx--

		if line, err := m.history.GetLine(m.historyIdx); err == nil {
			m.input.SetValue(line)
			m.input.SetCursor(len(line))
			refreshMatches(&m, false)
		}
	}

	return m, nil
}

func (m model) historyNext() (model, tea.Cmd) {
	if m.historyIdx < m.history.Len()-1 {
		m.historyIdx++

		if line, err := m.history.GetLine(m.historyIdx); err == nil {
			m.input.SetValue(line)
			m.input.SetCursor(len(line))
			refreshMatches(&m, false)
		}
	} else {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m, nil
}
