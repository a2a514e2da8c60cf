package main

import "strings"

// item is one collected statement plus the comment and attribute lines
// attached above it. Once collected, its text is never rewritten.
type item struct {
	lead []string // attached comments and attributes, blank-free
	body []string // the statement's own lines through its terminator
}

func (it item) decorated() bool {
	return len(it.lead) > 0
}

func (it item) lines() []string {
	out := make([]string, 0, len(it.lead)+len(it.body))
	out = append(out, it.lead...)
	out = append(out, it.body...)
	return out
}

// collectItem consumes the raw lines of one statement starting at start.
// The terminator depends on the kind: use and extern crate run to the
// first line ending in ";", mod to the first ";" or "{", and module
// attributes to the first "]". An unterminated statement runs to the end
// of the slice without error.
func collectItem(lines []string, start int, info lineInfo) ([]string, int) {
	var body []string
	i := start
	for i < len(lines) {
		line := lines[i]
		body = append(body, line)
		i++

		trimmed := strings.TrimSpace(line)
		switch {
		case info.Kind == LineGlobalAttr:
			if strings.HasSuffix(trimmed, "]") {
				return body, i
			}
		case info.Kind == LineDecl && info.Decl == DeclMod:
			if strings.HasSuffix(trimmed, ";") || strings.HasSuffix(trimmed, "{") {
				return body, i
			}
		default:
			if strings.HasSuffix(trimmed, ";") {
				return body, i
			}
		}
	}
	return body, i
}

// opensBlock reports whether a collected mod statement ended at an opening
// brace rather than a semicolon.
func opensBlock(body []string) bool {
	if len(body) == 0 {
		return false
	}
	return strings.HasSuffix(strings.TrimSpace(body[len(body)-1]), "{")
}
