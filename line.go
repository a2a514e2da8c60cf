package main

import "strings"

// LineKind represents the classification of one trimmed source line.
type LineKind int

const (
	LineBlank LineKind = iota
	LineComment
	LineItemAttr   // #[...] — waits for the declaration below it
	LineGlobalAttr // #![...] of a recognized module-attribute kind
	LineExternCrate
	LineDecl // mod or use, with a visibility
	LineOther
)

// AttrKind distinguishes the recognized module-attribute forms.
type AttrKind int

const (
	AttrFeature AttrKind = iota
	AttrExpect
	AttrWarn
	AttrRecursionLimit
)

// DeclKind is the declaration keyword: mod sorts before use.
type DeclKind int

const (
	DeclMod DeclKind = iota
	DeclUse
)

func (k DeclKind) String() string {
	if k == DeclMod {
		return "mod"
	}
	return "use"
}

// Visibility orders declarations from most exposed to private. The
// constant order is the emission order.
type Visibility int

const (
	VisPub Visibility = iota
	VisPubCrate
	VisPubSuper
	VisPubIn // carries a restriction path, e.g. pub(in crate::config)
	VisPrivate
)

func (v Visibility) String() string {
	switch v {
	case VisPub:
		return "pub"
	case VisPubCrate:
		return "pub(crate)"
	case VisPubSuper:
		return "pub(super)"
	case VisPubIn:
		return "pub(in)"
	default:
		return "private"
	}
}

// lineInfo is the result of classifying one line. Attr is meaningful only
// for LineGlobalAttr; Decl, Vis and VisPath only for LineDecl.
type lineInfo struct {
	Kind    LineKind
	Attr    AttrKind
	Decl    DeclKind
	Vis     Visibility
	VisPath string
}

// classifyLine maps a trimmed line to its category. Pure and total:
// anything unrecognized is other code and passes through untouched.
func classifyLine(trimmed string) lineInfo {
	if trimmed == "" {
		return lineInfo{Kind: LineBlank}
	}

	if strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "/*") || strings.HasPrefix(trimmed, "*") {
		return lineInfo{Kind: LineComment}
	}

	if strings.HasPrefix(trimmed, "#![") {
		switch {
		case strings.HasPrefix(trimmed, "#![feature("):
			return lineInfo{Kind: LineGlobalAttr, Attr: AttrFeature}
		case strings.HasPrefix(trimmed, "#![expect("):
			return lineInfo{Kind: LineGlobalAttr, Attr: AttrExpect}
		case strings.HasPrefix(trimmed, "#![warn("):
			return lineInfo{Kind: LineGlobalAttr, Attr: AttrWarn}
		case strings.HasPrefix(trimmed, "#![recursion_limit"):
			return lineInfo{Kind: LineGlobalAttr, Attr: AttrRecursionLimit}
		}
		// Other inner attributes (#![allow(...)] and friends) behave like
		// item attributes: they stay attached to whatever follows.
		return lineInfo{Kind: LineItemAttr}
	}

	if strings.HasPrefix(trimmed, "#[") {
		return lineInfo{Kind: LineItemAttr}
	}

	// Only the plain form; pub extern crate re-exports are position
	// sensitive and stay where they are.
	if strings.HasPrefix(trimmed, "extern crate ") {
		return lineInfo{Kind: LineExternCrate}
	}

	vis, path, rest := splitVisibility(trimmed)
	if strings.HasPrefix(rest, "use ") {
		return lineInfo{Kind: LineDecl, Decl: DeclUse, Vis: vis, VisPath: path}
	}
	if strings.HasPrefix(rest, "mod ") {
		return lineInfo{Kind: LineDecl, Decl: DeclMod, Vis: vis, VisPath: path}
	}

	return lineInfo{Kind: LineOther}
}

// splitVisibility strips a visibility qualifier from the front of a
// trimmed line, returning the visibility, the restriction path for
// pub(in ...) forms, and the remainder.
func splitVisibility(trimmed string) (Visibility, string, string) {
	if strings.HasPrefix(trimmed, "pub(") {
		end := strings.IndexByte(trimmed, ')')
		if end < 0 {
			// Unclosed restriction; let the caller fail open.
			return VisPrivate, "", trimmed
		}
		inner := strings.TrimSpace(trimmed[len("pub("):end])
		rest := strings.TrimLeft(trimmed[end+1:], " \t")
		switch {
		case inner == "crate":
			return VisPubCrate, "", rest
		case inner == "super":
			return VisPubSuper, "", rest
		case strings.HasPrefix(inner, "in "):
			return VisPubIn, strings.TrimSpace(inner[len("in "):]), rest
		default:
			// pub(self) and anything unexpected sort with the pub(in ...)
			// tier, keyed by the raw restriction text.
			return VisPubIn, inner, rest
		}
	}
	if strings.HasPrefix(trimmed, "pub ") {
		return VisPub, "", strings.TrimLeft(trimmed[len("pub "):], " \t")
	}
	return VisPrivate, "", trimmed
}

// Options holds the run configuration.
type Options struct {
	Check      bool
	Diff       bool
	DryRun     bool
	Stdout     bool
	Verify     bool
	NoGrouping bool
	NoFmt      bool
	NoClippy   bool
	Recursive  bool
	Verbose    bool
	Quiet      bool
	Exclude    []string
	CargoPath  string
	Jobs       int
	ConfigFile string
}
