package repl

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/arith/lang"
	"github.com/ardnew/arith/log"
)

// inputMode selects how a submitted line is interpreted.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

func (m inputMode) other() inputMode { return 1 - m }

// prompt returns the styled prompt shown before input in mode m.
func (m inputMode) prompt() string {
	if m == modeCtrl {
		return ctrlPromptStyle.Render(" :")
	}

	return promptStyle.Render("➜ ")
}

// echo renders a submitted line as it is kept in the scrollback.
func (m inputMode) echo(line string) string {
	return m.prompt() + inputStyle.Render(line)
}

// prefix returns the history file marker for entries of mode m.
func (m inputMode) prefix() string {
	if m == modeCtrl {
		return "C:"
	}

	return "E:"
}

var (
	promptStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = suggestionStyle.Bold(true)
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// draft is unsubmitted input and its cursor.
type draft struct {
	text   string
	cursor int
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc func() context.Context
	logger  log.Logger
	session *Session
	history *History

	input    textinput.Model
	mode     inputMode
	drafts   [2]draft // per-mode input kept while the other mode is active
	comp     completion
	width    int
	quitting bool

	// recallAt indexes the history entry shown in the input; history.Len()
	// means a fresh line, saved in fresh while recalling.
	recallAt int
	fresh    draft
}

// Run starts the REPL with prelude already bound. History is kept in
// cacheDir.
func Run(
	ctx context.Context,
	prelude []lang.Definition,
	cacheDir string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	session, err := NewSession(ctx, prelude, logger)
	if err != nil {
		return err
	}

	history := NewHistory(filepath.Join(cacheDir, baseHistory))
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history",
			slog.String("path", history.path),
			slog.Any("error", err),
		)
	}

	logger.TraceContext(ctx, "repl start",
		slog.Int("prelude", session.Len()),
		slog.Int("history", history.Len()),
	)

	_, err = tea.NewProgram(
		newModel(ctx, session, history, logger),
		tea.WithContext(ctx),
	).Run()

	return err
}

func newModel(
	ctx context.Context,
	session *Session,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = modeEval.prompt()
	ti.CharLimit = 1024
	ti.Width = 80
	ti.Focus()

	return model{
		ctxFunc:  func() context.Context { return ctx },
		logger:   logger,
		session:  session,
		history:  history,
		input:    ti,
		width:    80,
		comp:     completion{sel: -1},
		recallAt: history.Len(),
	}
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
		m.input.Width = msg.Width - lipgloss.Width(m.input.Prompt) - 1

		return m, nil

	case editedMsg:
		return m.edited(msg)
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var status string

	switch {
	case m.recallAt < m.history.Len():
		status = hintStyle.Render(fmt.Sprintf("history %d/%d",
			m.recallAt+1, m.history.Len()))

	case len(m.comp.matches) > 0:
		status = renderCandidateBar(m.comp, m.width)

	case strings.TrimSpace(m.input.Value()) != "":

	case m.mode == modeCtrl:
		status = hintStyle.Render(strings.Join(commandNames(), " | ") +
			"  (Esc to return)")

	default:
		status = hintStyle.Render(fmt.Sprintf(
			"%d definitions in scope; Esc for commands, help for keys",
			m.session.Len()))
	}

	return m.input.View() + "\n" + status + "\n"
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl key",
		slog.String("key", msg.String()),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			return m.quit()
		}

		m.setInput("")

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			return m.quit()
		}

		return m, nil

	case tea.KeyEnter:
		if m.comp.cycling {
			m.comp.cycling = false
			m.complete(true)

			return m, nil
		}

		return m.executeInput()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.recall(-1, msg.Alt), nil

	case tea.KeyDown:
		return m.recall(1, msg.Alt), nil

	case tea.KeyEsc:
		if m.comp.cycling {
			return m.cancelCycle(), nil
		}

		return m.switchMode(m.mode.other()), nil
	}

	// A space ends cycling with the highlighted candidate in place.
	if msg.Type == tea.KeySpace {
		m.comp.cycling = false
	}

	var cmd tea.Cmd

	m.recallAt = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.complete(msg.Type == tea.KeyRunes)

	return m, cmd
}

func (m model) quit() (model, tea.Cmd) {
	m.quitting = true

	return m, tea.Quit
}

// setInput replaces the input line and leaves history and completion.
func (m *model) setInput(s string) {
	m.input.SetValue(s)
	m.input.CursorEnd()
	m.recallAt = m.history.Len()
	m.comp = completion{sel: -1}
	m.complete(false)
}

// switchMode activates mode, keeping each mode's unsubmitted input.
func (m model) switchMode(mode inputMode) model {
	m.drafts[m.mode] = draft{m.input.Value(), m.input.Position()}
	m.mode = mode

	d := m.drafts[mode]
	m.input.Prompt = mode.prompt()
	m.input.SetValue(d.text)
	m.input.SetCursor(d.cursor)
	m.complete(false)

	return m
}

// recall moves through history by step: -1 is older, 1 is newer. With
// sameMode only entries of the active mode are visited; otherwise the mode
// follows the recalled entry. Moving past the newest entry restores the line
// being typed before recall began.
func (m model) recall(step int, sameMode bool) model {
	n := m.history.Len()
	if step > 0 && m.recallAt >= n {
		return m
	}

	for i := m.recallAt + step; i >= 0; i += step {
		if i >= n {
			fresh := m.fresh
			m.setInput(fresh.text)
			m.input.SetCursor(fresh.cursor)

			return m
		}

		e, err := m.history.At(i)
		if err != nil || (sameMode && e.Mode != m.mode) {
			continue
		}

		if m.recallAt >= n {
			m.fresh = draft{m.input.Value(), m.input.Position()}
		}

		if e.Mode != m.mode {
			m = m.switchMode(e.Mode)
		}

		m.input.SetValue(e.Line)
		m.input.CursorEnd()
		m.complete(false)
		m.recallAt = i

		return m
	}

	return m
}

// executeInput submits the input line in the active mode.
func (m model) executeInput() (model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		return m, nil
	}

	if err := m.history.Add(line, m.mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not save history",
			slog.Any("error", err))
	}

	m.drafts = [2]draft{}
	m.fresh = draft{}
	m.setInput("")

	if m.mode == modeCtrl {
		return m.executeCommand(line)
	}

	return m.evaluate(line)
}

// evaluate runs an eval-mode line against the session. quit and exit leave
// unless the prelude binds that name.
func (m model) evaluate(line string) (model, tea.Cmd) {
	echo := tea.Println(modeEval.echo(line))

	if line == "quit" || line == "exit" {
		if _, bound := m.session.Lookup(line); !bound {
			m.quitting = true

			return m, tea.Sequence(echo, tea.Quit)
		}
	}

	result, err := m.session.Eval(m.ctxFunc(), line)

	var out string

	switch {
	case err != nil:
		m.logger.TraceContext(m.ctxFunc(), "repl error", slog.Any("error", err))
		out = errorStyle.Render(renderError(err, line))

	case len(result.Bound) > 0:
		out = hintStyle.Render("bound " + strings.Join(result.Bound, ", "))

	default:
		out = resultStyle.Render(lang.FormatValue(result.Value))
	}

	return m, tea.Sequence(echo, tea.Println(out))
}

// renderError formats err against the input line it came from.
func renderError(err error, input string) string {
	return strings.TrimRight(lang.FormatError(err, input), "\n")
}
