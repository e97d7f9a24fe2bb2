package repl

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// submit types line into m and presses Enter.
func submit(m model, line string) model {
	m.input.SetValue(line)
	m, _ = m.executeInput()

	return m
}

func TestModel_DefinitionLinesExtendPrelude(t *testing.T) {
	m := testModel(t, "")

	m = submit(m, "def r = 2;")
	m = submit(m, "def area = r * r * 3;")
	m = submit(m, "area + 1")

	if got := m.session.Names(); len(got) != 2 || got[0] != "r" || got[1] != "area" {
		t.Errorf("Names() = %v", got)
	}

	if m.history.Len() != 3 {
		t.Errorf("history len = %d, want 3", m.history.Len())
	}

	if m.input.Value() != "" {
		t.Errorf("input not cleared: %q", m.input.Value())
	}
}

func TestModel_Quit(t *testing.T) {
	tests := []struct {
		name    string
		prelude string
		line    string
		mode    inputMode
		want    bool
	}{
		{"eval_quit", "", "quit", modeEval, true},
		{"eval_exit", "", "exit", modeEval, true},
		{"bound_name", "def quit = 1;", "quit", modeEval, false},
		{"ctrl_quit", "", "quit", modeCtrl, true},
		{"ctrl_q", "", "q", modeCtrl, true},
		{"ctrl_list", "", "list", modeCtrl, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testModel(t, tt.prelude)
			m.mode = tt.mode

			m = submit(m, tt.line)

			if m.quitting != tt.want {
				t.Errorf("quitting = %v, want %v", m.quitting, tt.want)
			}
		})
	}
}

func TestModel_ResetCommand(t *testing.T) {
	m := testModel(t, "def a = 1;")
	m.mode = modeCtrl

	m = submit(m, "reset")

	if m.session.Len() != 0 {
		t.Errorf("reset left %d definitions", m.session.Len())
	}
}

func TestModel_ToggleModeKeepsInput(t *testing.T) {
	m := testModel(t, "")
	m.input.SetValue("1 +")

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeCtrl || m.input.Value() != "" {
		t.Fatalf("after Esc: mode=%v input=%q", m.mode, m.input.Value())
	}

	m.input.SetValue("li")

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeEval || m.input.Value() != "1 +" {
		t.Errorf("after second Esc: mode=%v input=%q", m.mode, m.input.Value())
	}
}

func TestModel_RecallSwitchesMode(t *testing.T) {
	m := testModel(t, "")

	m = submit(m, "1 + 1")

	m.mode = modeCtrl
	m = submit(m, "help")
	m.mode = modeEval

	m = m.recall(-1, false)
	if m.mode != modeCtrl || m.input.Value() != "help" {
		t.Errorf("older 1: mode=%v input=%q", m.mode, m.input.Value())
	}

	m = m.recall(-1, false)
	if m.mode != modeEval || m.input.Value() != "1 + 1" {
		t.Errorf("older 2: mode=%v input=%q", m.mode, m.input.Value())
	}

	m = m.recall(1, false)
	m = m.recall(1, false)
	if m.input.Value() != "" || m.recallAt != m.history.Len() {
		t.Errorf("newer past end: input=%q at=%d", m.input.Value(), m.recallAt)
	}
}

func TestModel_RecallSameModeRestoresFreshLine(t *testing.T) {
	m := testModel(t, "")

	m = submit(m, "1 + 1")

	m.mode = modeCtrl
	m = submit(m, "help")
	m.mode = modeEval

	m = submit(m, "2")

	m.input.SetValue("3 *")
	m.input.CursorEnd()

	m = m.recall(-1, true)
	if m.input.Value() != "2" {
		t.Errorf("older 1: input=%q", m.input.Value())
	}

	m = m.recall(-1, true)
	if m.mode != modeEval || m.input.Value() != "1 + 1" {
		t.Errorf("older 2: mode=%v input=%q", m.mode, m.input.Value())
	}

	// Nothing older in eval mode.
	m = m.recall(-1, true)
	if m.input.Value() != "1 + 1" {
		t.Errorf("older 3: input=%q", m.input.Value())
	}

	m = m.recall(1, true)
	m = m.recall(1, true)
	if m.input.Value() != "3 *" || m.input.Position() != 3 {
		t.Errorf("fresh line: input=%q cursor=%d", m.input.Value(), m.input.Position())
	}
}

func TestModel_ListBindings(t *testing.T) {
	m := testModel(t, "")

	if got := m.listBindings(); got == "" {
		t.Error("empty prelude should still render a note")
	}

	m = testModel(t, "def a = 1; def a = 2;")

	if got := m.listBindings(); got == "" {
		t.Error("listBindings rendered nothing")
	}
}
