// Package promote rewrites lint configuration documents so that selected rules
// lose their warning severity marker and fall back to the default severity.
//
// Documents are treated as text, not as YAML trees: a rule entry is a
// column-zero declaration line followed by indented body lines, and the only
// edit ever made is the removal of the marker line inside such an entry.
// Every other byte of the document is preserved.
package promote

import "strings"

// SeverityMarker is the body line that marks a rule as demoted to a warning.
const SeverityMarker = "  Severity: warning"

// span is a half-open byte range [start, end) of the document.
type span struct {
	start int
	end   int
}

// entry is one top-level rule declaration found by the scanner.
type entry struct {
	// header is the full declaration line without its line terminator.
	header string
	// markers are the byte ranges of the entry's marker lines, in order.
	// Each range starts at the newline preceding the marker line and ends at
	// the end of the marker text, so the marker's own terminator survives.
	markers []span
}

type scanState int

const (
	outsideEntry scanState = iota
	insideEntry
)

// scanEntries walks text line by line and reports every top-level entry.
func scanEntries(text string) []entry {
	var (
		entries []entry
		state   = outsideEntry
		current *entry
	)

	pos := 0
	for pos <= len(text) {
		end := strings.IndexByte(text[pos:], '\n')
		lineEnd := len(text)
		if end >= 0 {
			lineEnd = pos + end
		}
		line := text[pos:lineEnd]

		if state == insideEntry {
			switch {
			case strings.TrimSuffix(line, "\r") == SeverityMarker:
				// pos > 0 here: a marker always follows a declaration or body line.
				current.markers = append(current.markers, span{start: pos - 1, end: lineEnd})
			case isIndented(line):
				// body line, keep scanning the entry
			default:
				state = outsideEntry
				current = nil
			}
		}

		if state == outsideEntry && isDeclaration(line) {
			entries = append(entries, entry{header: line})
			current = &entries[len(entries)-1]
			state = insideEntry
		}

		if end < 0 {
			break
		}
		pos = lineEnd + 1
	}

	return entries
}

func isIndented(line string) bool {
	return line != "" && (line[0] == ' ' || line[0] == '\t')
}

func isDeclaration(line string) bool {
	if line == "" {
		return false
	}
	switch line[0] {
	case ' ', '\t', '#', '-', '\r':
		return false
	}
	return strings.Contains(line, ":")
}

// PromoteRuleInText removes the warning marker from the top-level entry
// declared as ruleID. Only the first marker line of an entry is removed; a
// repeated marker further down the same entry stays. The identifier is compared literally against the start
// of each column-zero line, so namespace separators and other characters in
// it carry no special meaning. It reports whether anything was removed; when
// nothing matched the original text is returned unchanged.
func PromoteRuleInText(text, ruleID string) (string, bool) {
	prefix := ruleID + ":"

	var cuts []span
	for _, e := range scanEntries(text) {
		if strings.HasPrefix(e.header, prefix) && len(e.markers) > 0 {
			cuts = append(cuts, e.markers[0])
		}
	}
	if len(cuts) == 0 {
		return text, false
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, c := range cuts {
		b.WriteString(text[last:c.start])
		last = c.end
	}
	b.WriteString(text[last:])
	return b.String(), true
}
