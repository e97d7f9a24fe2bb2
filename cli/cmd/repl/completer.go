package repl

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/arith/lang"
)

// keywords are offered in eval mode alongside prelude names.
var keywords = []string{"def"}

// isWordBoundary returns true if the rune cannot be part of an identifier:
// whitespace and the language's operators and punctuation.
func isWordBoundary(r rune) bool {
	switch r {
	case '(', ')', '+', '-', '*', '/', '=', ';':
		return true
	}

	return unicode.IsSpace(r)
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input. Words are delimited by whitespace and operator
// or punctuation characters. Returns an empty word when the cursor sits on
// a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	// Walk backward from cursor to find word start.
	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	// Walk forward from cursor to find word end.
	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	word = input[start:end]

	return word, start, end
}

// completion is the state of the candidate bar for the word at the cursor.
type completion struct {
	matches    fuzzy.Matches // ranked best-first
	start, end int           // byte bounds of the word being completed
	sel        int           // highlighted match while cycling
	cycling    bool
	before     draft // input before cycling began
}

// candidates returns the words offered for completion in the current mode.
func (m model) candidates() []string {
	if m.mode == modeCtrl {
		return commandNames()
	}

	return append(m.session.Names(), keywords...)
}

// complete recomputes the candidate bar for the word at the cursor. An empty
// word has no matches so the hint line stays visible.
//
// When typing, a word that already equals its sole candidate is accepted so
// the bar gets out of the way.
func (m *model) complete(typing bool) {
	word, start, end := wordBounds(m.input.Value(), m.input.Position())

	m.comp.start, m.comp.end = start, end
	m.comp.matches = nil

	if word != "" {
		m.comp.matches = fuzzy.Find(word, m.candidates())
	}

	if !m.comp.cycling {
		m.comp.sel = -1
	}

	if typing && len(m.comp.matches) == 1 && m.comp.matches[0].Str == word {
		m.comp = completion{sel: -1}
	}
}

// cycle highlights the next (step 1) or previous (step -1) match and writes
// it into the input. A single match is accepted at once.
func (m model) cycle(step int) model {
	n := len(m.comp.matches)

	switch {
	case n == 0:
		return m

	case n == 1:
		m.replaceWord(m.comp.matches[0].Str)
		m.comp = completion{sel: -1}

		return m

	case !m.comp.cycling:
		m.comp.cycling = true
		m.comp.before = draft{m.input.Value(), m.input.Position()}
		m.comp.sel = 0

		if step < 0 {
			m.comp.sel = n - 1
		}

	default:
		m.comp.sel = (m.comp.sel + step + n) % n
	}

	m.replaceWord(m.comp.matches[m.comp.sel].Str)

	return m
}

// cancelCycle restores the input from before cycling began.
func (m model) cancelCycle() model {
	m.input.SetValue(m.comp.before.text)
	m.input.SetCursor(m.comp.before.cursor)
	m.comp.cycling = false
	m.complete(false)

	return m
}

// replaceWord replaces the word being completed with s and moves the cursor
// after it.
func (m *model) replaceWord(s string) {
	input := m.input.Value()

	m.input.SetValue(input[:m.comp.start] + s + input[m.comp.end:])
	m.comp.end = m.comp.start + len(s)
	m.input.SetCursor(m.comp.end)
}

// renderCandidateBar renders the matches on one line, cut short with an
// ellipsis where they would exceed width.
func renderCandidateBar(c completion, width int) string {
	if len(c.matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	more := hintStyle.Render("...")
	room := width - lipgloss.Width(more)

	var b strings.Builder

	for i, match := range c.matches {
		item := renderCandidate(match, c.cycling && i == c.sel)

		if i > 0 {
			if lipgloss.Width(b.String()+sep+item) > room {
				b.WriteString(sep)
				b.WriteString(more)

				break
			}

			b.WriteString(sep)
		}

		b.WriteString(item)
	}

	return b.String()
}

// renderCandidate renders a match with its matched runes emphasized.
func renderCandidate(match fuzzy.Match, selected bool) string {
	plain, strong := suggestionStyle, matchStyle
	if selected {
		plain, strong = selectedStyle, selectedStyle.Bold(true)
	}

	var b strings.Builder

	for i, r := range match.Str {
		style := plain
		if slices.Contains(match.MatchedIndexes, i) {
			style = strong
		}

		b.WriteString(style.Render(string(r)))
	}

	return b.String()
}

// formatBinding renders one line of the list command.
func formatBinding(b Binding, width int) string {
	src := b.Source
	if len(src) > 40 {
		src = src[:37] + "..."
	}

	line := fmt.Sprintf("  %-*s %s %s", width, b.Name,
		resultStyle.Render(lang.FormatValue(b.Value)),
		hintStyle.Render("= "+src),
	)

	if b.Shadowed {
		line += hintStyle.Render(" (shadowed)")
	}

	return line
}
