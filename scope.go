package main

import "strings"

// GroupDeclarations rewrites the declaration preamble of Rust source text
// into a canonical layout: module attributes first, then preamble notes,
// extern crates, and the mod/use declarations grouped by visibility and
// kind. Comments and attributes stay attached to the declaration below
// them, nested mod blocks are regrouped recursively, and everything after
// the first ordinary code line in a scope passes through untouched.
//
// The transform is total, deterministic and idempotent. Non-empty output
// ends with exactly one trailing newline.
func GroupDeclarations(content string) string {
	out, _ := groupDeclarations(content)
	return out
}

func groupDeclarations(content string) (string, *groupStats) {
	g := &grouper{lines: splitLines(content)}
	if len(g.lines) == 0 {
		return "", &g.stats
	}
	g.processScope(0, 0)
	return strings.TrimRight(g.out.String(), "\n") + "\n", &g.stats
}

// splitLines splits content on newlines, dropping the empty tail produced
// by a trailing newline.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// grouper walks the line list and rebuilds each scope's declaration
// header in place.
type grouper struct {
	lines []string
	out   strings.Builder
	stats groupStats
}

// groupStats summarizes what one grouping pass classified.
type groupStats struct {
	Scopes   int
	Features int
	Externs  int
	Decls    map[bucketKey]int
}

func (g *grouper) writeLine(line string) {
	g.out.WriteString(line)
	g.out.WriteByte('\n')
}

func (g *grouper) writeLines(lines []string) {
	for _, line := range lines {
		g.writeLine(line)
	}
}

// processScope regroups one scope starting at start. It returns the index
// just past the scope's body: at the closing brace line for a nested
// scope, or len(lines) when input ran out.
func (g *grouper) processScope(start, depth int) int {
	g.stats.Scopes++

	acc := newScopeAccum()
	inHeader := true
	i := start

	// Comments and attributes waiting for the item below them. Attributes
	// are buffered separately so they land after the comments when the
	// item is assembled, whatever order they arrived in.
	var pending []string
	var pendingAttrs []string

	if i < len(g.lines) && classifyLine(strings.TrimSpace(g.lines[i])).Kind == LineGlobalAttr {
		i = g.collectLeading(acc, i)
	}

	for i < len(g.lines) {
		line := g.lines[i]
		trimmed := strings.TrimSpace(line)

		if depth > 0 && trimmed == "}" {
			break
		}

		info := classifyLine(trimmed)

		if !inHeader {
			i = g.passThrough(line, info, i, depth)
			continue
		}

		switch info.Kind {
		case LineBlank:
			// Separator blanks are regenerated by the emitter. They are
			// kept in pending only once an item exists, so that a header
			// interrupted by ordinary code replays its tail verbatim.
			if acc.hasItems {
				pending = append(pending, line)
			}
			i++

		case LineComment:
			pending = append(pending, line)
			i++

		case LineItemAttr:
			pendingAttrs = append(pendingAttrs, line)
			i++

		case LineGlobalAttr, LineExternCrate, LineDecl:
			lead := make([]string, 0, len(pending)+len(pendingAttrs))
			for _, p := range pending {
				if strings.TrimSpace(p) != "" {
					lead = append(lead, p)
				}
			}
			lead = append(lead, pendingAttrs...)
			pending = nil
			pendingAttrs = nil

			body, next := collectItem(g.lines, i, info)
			i = next
			it := item{lead: lead, body: body}

			if info.Kind == LineDecl && info.Decl == DeclMod && opensBlock(body) {
				// A mod with a body ends the header: everything gathered
				// so far is emitted above it, the body becomes its own
				// scope, and the rest of this scope is plain code.
				wrote := g.flush(acc)
				inHeader = false
				if wrote {
					g.out.WriteByte('\n')
				}
				g.writeLines(it.lines())
				i = g.processScope(i, depth+1)
				if i < len(g.lines) {
					g.writeLine(g.lines[i])
					i++
				}
				continue
			}

			g.record(info)
			acc.add(info, it)

		case LineOther:
			g.flush(acc)
			inHeader = false
			g.writeLines(pending)
			g.writeLines(pendingAttrs)
			pending = nil
			pendingAttrs = nil
			g.writeLine(line)
			i++
		}
	}

	if inHeader {
		g.flush(acc)
		// Trailing comments or attributes with no declaration after them
		// still belong to the scope.
		g.writeLines(pending)
		g.writeLines(pendingAttrs)
	}

	return i
}

// collectLeading consumes the run of module attributes and blank lines at
// a scope's start, preserved verbatim ahead of every group. A comment
// block following the run becomes the preamble notes when a blank line
// (or the end of input) separates it from the next statement; a comment
// block butted directly against a statement is left for normal
// attachment.
func (g *grouper) collectLeading(acc *scopeAccum, start int) int {
	i := start
	var block []string
	for i < len(g.lines) {
		kind := classifyLine(strings.TrimSpace(g.lines[i])).Kind
		if kind != LineGlobalAttr && kind != LineBlank {
			break
		}
		if kind == LineGlobalAttr {
			g.stats.Features++
		}
		block = append(block, g.lines[i])
		i++
	}
	for len(block) > 0 && strings.TrimSpace(block[len(block)-1]) == "" {
		block = block[:len(block)-1]
	}
	acc.leading = block

	var notes []string
	j := i
	for j < len(g.lines) && classifyLine(strings.TrimSpace(g.lines[j])).Kind == LineComment {
		notes = append(notes, g.lines[j])
		j++
	}
	if len(notes) > 0 {
		if j >= len(g.lines) || classifyLine(strings.TrimSpace(g.lines[j])).Kind == LineBlank {
			acc.notes = notes
			return j
		}
	}
	return i
}

// passThrough emits one in-body line, recursing into any mod block that
// opens there so its header is regrouped without moving the block.
func (g *grouper) passThrough(line string, info lineInfo, i, depth int) int {
	if info.Kind == LineDecl && info.Decl == DeclMod {
		body, next := collectItem(g.lines, i, info)
		g.writeLines(body)
		if opensBlock(body) {
			next = g.processScope(next, depth+1)
			if next < len(g.lines) {
				g.writeLine(g.lines[next])
				next++
			}
		}
		return next
	}
	g.writeLine(line)
	return i + 1
}

func (g *grouper) record(info lineInfo) {
	switch info.Kind {
	case LineGlobalAttr:
		g.stats.Features++
	case LineExternCrate:
		g.stats.Externs++
	case LineDecl:
		if g.stats.Decls == nil {
			g.stats.Decls = make(map[bucketKey]int)
		}
		g.stats.Decls[bucketKey{vis: info.Vis, path: info.VisPath, decl: info.Decl}]++
	}
}
