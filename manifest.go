package main

import (
	"sort"
	"strings"
)

// OrganizeManifest rewrites the [dependencies] and [dev-dependencies]
// tables of Cargo.toml text so each table lists path dependencies first,
// then external ones, both sorted by name without regard to case.
// Comments travel with the entry below them and inline tables may span
// lines. Every other section passes through untouched.
//
// Like GroupDeclarations, the transform is total and idempotent, and
// non-empty output ends with exactly one trailing newline.
func OrganizeManifest(content string) string {
	lines := splitLines(content)
	if len(lines) == 0 {
		return ""
	}

	var out []string
	i := 0
	for i < len(lines) {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		if trimmed == "[dependencies]" || trimmed == "[dev-dependencies]" {
			out = append(out, line)
			i++
			section, next := collectManifestSection(lines, i)
			out = append(out, organizeManifestSection(section)...)
			i = next
			continue
		}

		out = append(out, line)
		i++
	}

	return strings.TrimRight(strings.Join(out, "\n"), "\n") + "\n"
}

// collectManifestSection gathers the lines of one dependency table. It
// stops before the next section header, leaving any blank run that
// precedes the header in place.
func collectManifestSection(lines []string, start int) ([]string, int) {
	i := start
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])

		if isSectionHeader(trimmed) {
			break
		}
		if i > start && trimmed == "" {
			j := i + 1
			for j < len(lines) && strings.TrimSpace(lines[j]) == "" {
				j++
			}
			if j < len(lines) && isSectionHeader(strings.TrimSpace(lines[j])) {
				break
			}
		}

		i++
	}
	return lines[start:i], i
}

func isSectionHeader(trimmed string) bool {
	return strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]")
}

// organizeManifestSection splits a table's entries into the path group
// and the external group, sorts each by lowercased key, and joins them
// with one blank line. Comment lines ride with the entry that follows
// them; trailing comments with no entry below stay at the end.
func organizeManifestSection(lines []string) []string {
	type entry struct {
		lines []string
		key   string
	}

	var local, external []entry
	var current []string
	var pendingComments []string
	multiline := false

	finish := func() {
		if len(current) == 0 {
			return
		}
		e := entry{lines: current, key: strings.ToLower(manifestEntryKey(current))}
		if isPathDependency(current) {
			local = append(local, e)
		} else {
			external = append(external, e)
		}
		current = nil
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			pendingComments = append(pendingComments, line)
			continue
		}

		if !multiline && strings.Contains(trimmed, "=") {
			finish()
			current = append(current, pendingComments...)
			pendingComments = nil
			current = append(current, line)
			multiline = strings.Contains(trimmed, "{") && !strings.Contains(trimmed, "}")
			continue
		}

		// Continuation of a multi-line value.
		current = append(current, line)
		if multiline && strings.Contains(trimmed, "}") {
			multiline = false
		}
	}
	finish()

	sortEntries := func(entries []entry) {
		sort.SliceStable(entries, func(a, b int) bool {
			return entries[a].key < entries[b].key
		})
	}
	sortEntries(local)
	sortEntries(external)

	var out []string
	for _, e := range local {
		out = append(out, e.lines...)
	}
	if len(local) > 0 && len(external) > 0 {
		out = append(out, "")
	}
	for _, e := range external {
		out = append(out, e.lines...)
	}
	out = append(out, pendingComments...)
	return out
}

// manifestEntryKey returns the name an entry sorts by: the text before
// the first "=" on its first non-comment line.
func manifestEntryKey(lines []string) string {
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			continue
		}
		if eq := strings.IndexByte(trimmed, '='); eq >= 0 {
			return strings.TrimSpace(trimmed[:eq])
		}
	}
	return ""
}

// isPathDependency reports whether an entry points at a local path rather
// than a registry version.
func isPathDependency(lines []string) bool {
	for _, line := range lines {
		if strings.Contains(line, "path =") || strings.Contains(line, "path=") {
			return true
		}
	}
	return false
}
