package repl

import (
	"maps"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// commandPrefix introduces a REPL command.
const commandPrefix = ":"

// isIdentRune reports whether r may appear in an unquoted identifier.
func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// isWordBoundary returns true if the rune is a word delimiter for completion
// purposes: anything that cannot appear in an unquoted identifier.
func isWordBoundary(r rune) bool { return !isIdentRune(r) }

// isPathRune reports whether r may appear in the member-access chain
// leading up to a word, such as people[0].name or items[*].
func isPathRune(r rune) bool {
	switch r {
	case '.', '[', ']', '*', '@', '-':
		return true
	}

	return isIdentRune(r)
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input.
// Returns an empty word when the cursor sits on a boundary (after a space,
// after a dot, start of line, etc.).
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

// parentPath returns the member-access chain leading up to the current word
// when the word follows a dot. For input "length(people[0].na" with the word
// "na", the parent path is "people[0]". Returns "" for top-level words.
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]
	if !strings.HasSuffix(prefix, ".") {
		return ""
	}

	prefix = strings.TrimRight(prefix, ".")

	pos := len(prefix)

	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if !isPathRune(r) {
			break
		}

		pos -= size
	}

	return prefix[pos:]
}

// keysOf returns the sorted member names of v: the keys of an object, or the
// union of the keys of the objects in an array.
func keysOf(v any) []string {
	switch v := v.(type) {
	case map[string]any:
		return slices.Sorted(maps.Keys(v))

	case []any:
		seen := make(map[string]struct{})

		for _, e := range v {
			if m, ok := e.(map[string]any); ok {
				for k := range m {
					seen[k] = struct{}{}
				}
			}
		}

		return slices.Sorted(maps.Keys(seen))
	}

	return nil
}

// childCandidates returns the names that are valid completions for the given
// parent path. For an empty parent, returns the function names plus the
// document's top-level keys. Otherwise, evaluates parent against the
// document and returns the member names of the result.
func (m model) childCandidates(parent string) []string {
	if parent == "" {
		return append(slices.Clone(m.names), keysOf(m.doc)...)
	}

	v, err := m.engine.Search(m.ctxFunc(), m.doc, parent)
	if err != nil {
		return nil
	}

	return keysOf(v)
}

// computeMatches calculates the fuzzy match results for the word at the cursor.
// It returns the matches (ranked best-first), the candidate list, and the word
// boundaries. When the current word is empty at the top level, it returns nil
// matches. When the word is empty after a dot (member access), it returns all
// children as matches.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	cursor := m.input.Position()

	if cmd, ok := strings.CutPrefix(input, commandPrefix); ok {
		if strings.ContainsAny(cmd, " \t") {
			return nil, nil, cursor, cursor
		}

		wordStart, wordEnd = len(commandPrefix), len(input)

		return fuzzy.Find(cmd, commandNames), commandNames, wordStart, wordEnd
	}

	word, ws, we := wordBounds(input, cursor)
	wordStart, wordEnd = ws, we

	parent := parentPath(input, wordStart)
	candidates = m.childCandidates(parent)

	// When the word is empty at the top level, don't show completions
	// (allows the hint text to be visible). After a dot, show all children
	// immediately so the user can browse the available members.
	if word == "" {
		if parent == "" || len(candidates) == 0 {
			return nil, nil, wordStart, wordEnd
		}

		matches = make(fuzzy.Matches, len(candidates))
		for i, c := range candidates {
			matches[i] = fuzzy.Match{Str: c, Index: i}
		}

		return matches, candidates, wordStart, wordEnd
	}

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	matches = fuzzy.Find(word, candidates)

	return matches, candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. Each candidate is rendered with its matched
// characters highlighted. The selected candidate (when tabbing) uses the
// selected style.
func (m model) renderCandidateBar() string {
	if len(m.matches) == 0 || m.width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range m.matches {
		selected := m.tabActive && i == m.suggIdx
		rendered := renderCandidate(match, selected, m.isFunction(match.Str))
		candidateWidth := lipgloss.Width(rendered)

		entryWidth := candidateWidth
		if i > 0 {
			entryWidth += sepWidth
		}

		// Check if adding this candidate would exceed width.
		if used+entryWidth+ellipsisWidth > m.width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted. Functions are displayed with a "()" suffix.
func renderCandidate(match fuzzy.Match, selected, function bool) string {
	baseStyle := suggestionStyle
	highlightStyle := matchStyle

	if selected {
		baseStyle = selectedStyle
		highlightStyle = selectedMatchStyle
	}

	matchSet := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matchSet[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		ch := string(r)
		if matchSet[i] {
			b.WriteString(highlightStyle.Render(ch))
		} else {
			b.WriteString(baseStyle.Render(ch))
		}
	}

	// Suffix is display-only; completion inserts the bare name.
	if function {
		b.WriteString(baseStyle.Render("()"))
	}

	return b.String()
}
