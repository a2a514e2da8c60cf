package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Verify checks that a rewrite kept every non-blank line intact and that
// a second pass of the same transform is a fixed point.
func Verify(original, rewritten string, transform func(string) string) error {
	if err := verifyContentIntegrity(original, rewritten); err != nil {
		return &VerifyError{Err: err}
	}
	if transform(rewritten) != rewritten {
		return &VerifyError{Err: errors.New("output is not stable: a second pass changed it")}
	}
	return nil
}

// verifyContentIntegrity checks that the multiset of non-blank lines,
// compared with surrounding whitespace stripped, is unchanged by the
// rewrite. Reordering and respacing are fine; altered or missing text is
// not.
func verifyContentIntegrity(original, rewritten string) error {
	origCounts := lineCounts(original)
	newCounts := lineCounts(rewritten)

	for line, n := range origCounts {
		if m := newCounts[line]; m != n {
			return fmt.Errorf("line %q appears %d time(s) in input but %d in output", line, n, m)
		}
	}
	for line, m := range newCounts {
		if _, ok := origCounts[line]; !ok {
			return fmt.Errorf("line %q appears %d time(s) in output but not in input", line, m)
		}
	}
	return nil
}

func lineCounts(content string) map[string]int {
	counts := make(map[string]int)
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		counts[trimmed]++
	}
	return counts
}

// DiffStrings produces a unified diff between two strings with three
// lines of context and standard ---/+++/@@ headers. It returns "" when
// the inputs are line-identical.
func DiffStrings(a, b, nameA, nameB string) string {
	edits := diffLines(splitLines(a), splitLines(b))
	hunks := buildHunks(edits, 3)
	if len(hunks) == 0 {
		return ""
	}

	var out strings.Builder
	out.WriteString(fmt.Sprintf("--- %s\n", nameA))
	out.WriteString(fmt.Sprintf("+++ %s\n", nameB))
	for _, h := range hunks {
		out.WriteString(fmt.Sprintf("@@ -%d,%d +%d,%d @@\n",
			h.aStart+1, h.aCount,
			h.bStart+1, h.bCount))
		for _, line := range h.lines {
			out.WriteString(line)
			out.WriteByte('\n')
		}
	}
	return out.String()
}

type diffOp int

const (
	diffKeep diffOp = iota
	diffDelete
	diffInsert
)

type diffEdit struct {
	op   diffOp
	text string
}

// diffLines computes a line-level edit script from the longest common
// subsequence of a and b.
func diffLines(a, b []string) []diffEdit {
	n, m := len(a), len(b)

	// lcs[i][j] is the LCS length of a[i:] and b[j:].
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			switch {
			case a[i] == b[j]:
				lcs[i][j] = lcs[i+1][j+1] + 1
			case lcs[i+1][j] >= lcs[i][j+1]:
				lcs[i][j] = lcs[i+1][j]
			default:
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	var edits []diffEdit
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case a[i] == b[j]:
			edits = append(edits, diffEdit{diffKeep, a[i]})
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			edits = append(edits, diffEdit{diffDelete, a[i]})
			i++
		default:
			edits = append(edits, diffEdit{diffInsert, b[j]})
			j++
		}
	}
	for ; i < n; i++ {
		edits = append(edits, diffEdit{diffDelete, a[i]})
	}
	for ; j < m; j++ {
		edits = append(edits, diffEdit{diffInsert, b[j]})
	}
	return edits
}

type diffHunk struct {
	aStart, aCount int
	bStart, bCount int
	lines          []string
}

// buildHunks groups the changed edits into hunks, padding each with ctx
// context lines and merging hunks whose context overlaps.
func buildHunks(edits []diffEdit, ctx int) []diffHunk {
	type span struct{ lo, hi int }
	var spans []span
	for i, e := range edits {
		if e.op == diffKeep {
			continue
		}
		lo, hi := i-ctx, i+ctx+1
		if lo < 0 {
			lo = 0
		}
		if hi > len(edits) {
			hi = len(edits)
		}
		if n := len(spans); n > 0 && lo <= spans[n-1].hi {
			spans[n-1].hi = hi
		} else {
			spans = append(spans, span{lo, hi})
		}
	}
	if len(spans) == 0 {
		return nil
	}

	var hunks []diffHunk
	aLine, bLine := 0, 0
	next := 0
	idx := 0
	for idx < len(edits) {
		if next < len(spans) && idx == spans[next].lo {
			h := diffHunk{aStart: aLine, bStart: bLine}
			for ; idx < spans[next].hi; idx++ {
				switch edits[idx].op {
				case diffKeep:
					h.lines = append(h.lines, " "+edits[idx].text)
					h.aCount++
					h.bCount++
					aLine++
					bLine++
				case diffDelete:
					h.lines = append(h.lines, "-"+edits[idx].text)
					h.aCount++
					aLine++
				case diffInsert:
					h.lines = append(h.lines, "+"+edits[idx].text)
					h.bCount++
					bLine++
				}
			}
			hunks = append(hunks, h)
			next++
			continue
		}
		switch edits[idx].op {
		case diffKeep:
			aLine++
			bLine++
		case diffDelete:
			aLine++
		case diffInsert:
			bLine++
		}
		idx++
	}
	return hunks
}

// VerboseReport summarizes how GroupDeclarations would classify a file,
// for --verbose mode.
func VerboseReport(content string) string {
	_, stats := groupDeclarations(content)

	var report strings.Builder
	report.WriteString("Declaration classification:\n")
	report.WriteString(fmt.Sprintf("  %-24s %d\n", "scopes", stats.Scopes))
	if stats.Features > 0 {
		report.WriteString(fmt.Sprintf("  %-24s %d\n", "module attributes", stats.Features))
	}
	if stats.Externs > 0 {
		report.WriteString(fmt.Sprintf("  %-24s %d\n", "extern crates", stats.Externs))
	}

	keys := make([]bucketKey, 0, len(stats.Decls))
	for key := range stats.Decls {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(a, b int) bool {
		return lessBucketKey(keys[a], keys[b])
	})
	for _, key := range keys {
		report.WriteString(fmt.Sprintf("  %-24s %d\n", key.String(), stats.Decls[key]))
	}
	return report.String()
}
