package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/arith/log"
)

const defaultEditor = "vi"

// editedMsg reports the end of a prelude edit. next is nil when the edit was
// cancelled by emptying the file.
type editedMsg struct {
	next *Session
	err  error
}

// editPrelude suspends the program and edits the session prelude in
// $EDITOR.
func (m model) editPrelude() tea.Cmd {
	cmd := &editCommand{
		ctx:     m.ctxFunc(),
		session: m.session,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		return editedMsg{next: cmd.next, err: err}
	})
}

// edited applies the result of a prelude edit.
func (m model) edited(msg editedMsg) (model, tea.Cmd) {
	switch {
	case errors.Is(msg.err, ErrEditDeclined):
		return m.quit()

	case msg.err != nil:
		return m, tea.Println(errorStyle.Render("edit failed: " + msg.err.Error()))

	case msg.next == nil:
		return m, tea.Println(hintStyle.Render("edit cancelled"))
	}

	m.session = msg.next
	m.complete(false)

	m.logger.TraceContext(m.ctxFunc(), "repl prelude replaced",
		slog.Int("definitions", m.session.Len()),
	)

	return m, tea.Println(resultStyle.Render(
		fmt.Sprintf("prelude updated (%d definitions)", m.session.Len())))
}

// editCommand is a [tea.ExecCommand] running the edit, check and retry loop
// over a copy of the session. The copy is kept in next only once it
// evaluates.
type editCommand struct {
	ctx     context.Context
	session *Session
	next    *Session
	logger  log.Logger

	stdin          io.Reader
	stdout, stderr io.Writer
}

func (c *editCommand) SetStdin(r io.Reader)  { c.stdin = r }
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run edits until the prelude evaluates, the file is emptied, or the user
// declines to edit again ([ErrEditDeclined]).
func (c *editCommand) Run() error {
	text, err := c.session.Source()
	if err != nil {
		return err
	}

	f, err := os.CreateTemp("", "arith-prelude-*.arith")
	if err != nil {
		return err
	}

	path := f.Name()
	defer os.Remove(path)

	if err := f.Close(); err != nil {
		return err
	}

	answers := bufio.NewScanner(c.stdin)

	for attempt := 1; ; attempt++ {
		if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
			return err
		}

		if err := c.runEditor(path); err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		text = string(data)
		if strings.TrimSpace(text) == "" {
			return nil
		}

		next := c.session.clone()
		err = next.Replace(c.ctx, text)

		c.logger.TraceContext(c.ctx, "repl edit checked",
			slog.Int("attempt", attempt),
			slog.Bool("ok", err == nil),
		)

		if err == nil {
			c.next = next

			return nil
		}

		fmt.Fprintf(c.stderr, "\n%s\n", renderError(err, text))
		fmt.Fprint(c.stdout, "Edit again? [Y/n] ")

		if !answers.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(answers.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}
	}
}

// runEditor opens path in $EDITOR, which may carry arguments.
func (c *editCommand) runEditor(path string) error {
	args := strings.Fields(os.Getenv("EDITOR"))
	if len(args) == 0 {
		args = []string{defaultEditor}
	}

	cmd := exec.CommandContext(c.ctx, args[0], append(args[1:], path)...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = c.stdin, c.stdout, c.stderr

	return cmd.Run()
}
