package repl

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// command is a control-mode command.
type command struct {
	name  string
	alias string
	help  string
}

var commands = []command{
	{"help", "h", "Show this help"},
	{"list", "l", "List prelude definitions and their values"},
	{"edit", "e", "Edit the prelude in $EDITOR"},
	{"clear", "c", "Clear the screen"},
	{"reset", "r", "Drop every prelude definition"},
	{"quit", "q", "Leave the REPL (also: exit)"},
}

// commandNames returns the name of every command, in table order.
func commandNames() []string {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.name
	}

	return names
}

// findCommand returns the command called name or its alias. "exit" is quit.
func findCommand(name string) (command, bool) {
	if name == "exit" {
		name = "quit"
	}

	i := slices.IndexFunc(commands, func(c command) bool {
		return c.name == name || c.alias == name
	})
	if i < 0 {
		return command{}, false
	}

	return commands[i], true
}

const usage = `Keys:
  Enter        evaluate the line, or accept the highlighted completion
  Tab/S-Tab    cycle through completions
  Esc          switch between eval and command mode
  Up/Down      recall history (the mode follows the entry)
  Alt+Up/Down  recall history of the current mode only
  Ctrl+C       clear the line, or leave on an empty line
  Ctrl+D       leave on an empty line

A line made only of definitions (def x = 1;) extends the prelude. Any other
line is a program evaluated after the prelude.`

// helpView renders the command table and key usage.
func helpView() string {
	var b strings.Builder

	b.WriteString("Commands (Esc for command mode):\n")

	for _, c := range commands {
		fmt.Fprintf(&b, "  %-6s %-2s %s\n", c.name, c.alias, c.help)
	}

	b.WriteString("\n")
	b.WriteString(usage)

	return hintStyle.Render(b.String())
}

// executeCommand runs a control-mode line.
func (m model) executeCommand(line string) (model, tea.Cmd) {
	fields := strings.Fields(line)
	echo := tea.Println(modeCtrl.echo(line))

	cmd, ok := findCommand(fields[0])
	if !ok {
		return m, tea.Sequence(echo, tea.Println(
			errorStyle.Render("unknown command "+fields[0]+" (try help)"),
		))
	}

	m.logger.TraceContext(m.ctxFunc(), "repl command",
		slog.String("command", cmd.name),
		slog.Any("args", fields[1:]),
	)

	switch cmd.name {
	case "help":
		return m, tea.Sequence(echo, tea.Println(helpView()))

	case "list":
		return m, tea.Sequence(echo, tea.Println(m.listBindings()))

	case "edit":
		return m, tea.Sequence(echo, m.editPrelude())

	case "clear":
		return m, tea.ClearScreen

	case "reset":
		n := m.session.Len()
		m.session.Reset()

		return m, tea.Sequence(echo, tea.Println(
			hintStyle.Render(fmt.Sprintf("dropped %d definitions", n)),
		))

	default: // quit
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)
	}
}

// listBindings renders every prelude definition with its value.
func (m model) listBindings() string {
	bindings := m.session.Bindings()
	if len(bindings) == 0 {
		return hintStyle.Render("  (no definitions)")
	}

	width := 0
	for _, b := range bindings {
		width = max(width, utf8.RuneCountInString(b.Name))
	}

	lines := make([]string, len(bindings))
	for i, b := range bindings {
		lines[i] = formatBinding(b, width)
	}

	return strings.Join(lines, "\n")
}
