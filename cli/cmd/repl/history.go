package repl

import (
	"errors"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"
)

const baseHistory = "history.utf8"

// Entry is one submitted input line and the mode it was entered in.
type Entry struct {
	Line string
	Mode inputMode
}

// String returns e as it is stored in the history file.
func (e Entry) String() string { return e.Mode.prefix() + e.Line + "\n" }

// parseEntry reads one line of the history file. Lines without a mode marker
// are eval input.
func parseEntry(line string) Entry {
	for _, mode := range []inputMode{modeEval, modeCtrl} {
		if s, ok := strings.CutPrefix(line, mode.prefix()); ok {
			return Entry{Line: s, Mode: mode}
		}
	}

	return Entry{Line: line, Mode: modeEval}
}

// History is the list of submitted lines, oldest first, persisted to a file
// one entry per line. Each line starts with "E:" for eval input or "C:" for
// a control command.
//
// Submitting a line that is already recorded moves it to the end.
type History struct {
	mu      sync.RWMutex
	path    string
	entries []Entry
}

// NewHistory returns an empty History stored at path.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load replaces the entries with the content of the history file. A missing
// file is an empty history.
func (h *History) Load() error {
	data, err := os.ReadFile(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return err
	}

	var entries []Entry

	for line := range strings.Lines(string(data)) {
		if line = strings.TrimSpace(line); line != "" {
			entries = append(entries, parseEntry(line))
		}
	}

	h.mu.Lock()
	h.entries = entries
	h.mu.Unlock()

	return nil
}

// Add records line as entered in mode. Blank lines are ignored.
func (h *History) Add(line string, mode inputMode) error {
	e := Entry{Line: strings.TrimSpace(line), Mode: mode}
	if e.Line == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 && h.entries[n-1] == e {
		return nil
	}

	if i := slices.Index(h.entries, e); i >= 0 {
		h.entries = append(slices.Delete(h.entries, i, i+1), e)

		return h.save()
	}

	h.entries = append(h.entries, e)

	f, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}

	_, err = f.WriteString(e.String())

	return errors.Join(err, f.Close())
}

// save rewrites the history file. h.mu must be held.
func (h *History) save() error {
	var b strings.Builder

	for _, e := range h.entries {
		b.WriteString(e.String())
	}

	return os.WriteFile(h.path, []byte(b.String()), 0o600)
}

// At returns the entry at index i, where 0 is the oldest.
func (h *History) At(i int) (Entry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return Entry{}, ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns a copy of every entry, oldest first.
func (h *History) Entries() []Entry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.entries)
}
