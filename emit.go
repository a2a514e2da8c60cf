package main

import "sort"

// bucketKey identifies one declaration bucket. Ordering is visibility
// first (most exposed wins), then the restriction path for pub(in ...)
// forms, then mod before use.
type bucketKey struct {
	vis  Visibility
	path string
	decl DeclKind
}

func (k bucketKey) String() string {
	vis := k.vis.String()
	if k.vis == VisPubIn {
		vis = "pub(in " + k.path + ")"
	}
	if k.vis == VisPrivate {
		return k.decl.String()
	}
	return vis + " " + k.decl.String()
}

func lessBucketKey(a, b bucketKey) bool {
	if a.vis != b.vis {
		return a.vis < b.vis
	}
	if a.path != b.path {
		return a.path < b.path
	}
	return a.decl < b.decl
}

// scopeAccum gathers one scope's header while it is being walked.
type scopeAccum struct {
	leading  []string // verbatim module-attribute block from scope start
	notes    []string // preamble comment block detached from any item
	features []item   // module attributes found later in the header
	externs  []item
	decls    map[bucketKey][]item
	order    []bucketKey // bucket creation order, for stable iteration
	hasItems bool
}

func newScopeAccum() *scopeAccum {
	return &scopeAccum{decls: make(map[bucketKey][]item)}
}

func (acc *scopeAccum) add(info lineInfo, it item) {
	switch info.Kind {
	case LineGlobalAttr:
		acc.features = append(acc.features, it)
	case LineExternCrate:
		acc.externs = append(acc.externs, it)
	case LineDecl:
		key := bucketKey{vis: info.Vis, path: info.VisPath, decl: info.Decl}
		if _, ok := acc.decls[key]; !ok {
			acc.order = append(acc.order, key)
		}
		acc.decls[key] = append(acc.decls[key], it)
	}
	acc.hasItems = true
}

// flush renders the scope's collected header in canonical order and
// reports whether anything was written. Each paragraph is separated from
// the previous one by exactly one blank line.
func (g *grouper) flush(acc *scopeAccum) bool {
	paras := buildParagraphs(acc)
	if len(paras) == 0 {
		return false
	}
	for n, para := range paras {
		if n > 0 {
			g.out.WriteByte('\n')
		}
		g.writeLines(para)
	}
	return true
}

// buildParagraphs lays out the header groups: the module-attribute block,
// the preamble notes, extern crates, then the declaration buckets ordered
// by visibility and kind. Within a bucket, decorated items each form
// their own paragraph ahead of the contiguous undecorated run; both keep
// their input order. Module attributes are never split that way.
func buildParagraphs(acc *scopeAccum) [][]string {
	var paras [][]string

	attrs := make([]string, 0, len(acc.leading))
	attrs = append(attrs, acc.leading...)
	for _, it := range acc.features {
		attrs = append(attrs, it.lines()...)
	}
	if len(attrs) > 0 {
		paras = append(paras, attrs)
	}

	if len(acc.notes) > 0 {
		paras = append(paras, acc.notes)
	}

	paras = append(paras, bucketParagraphs(acc.externs)...)

	keys := make([]bucketKey, len(acc.order))
	copy(keys, acc.order)
	sort.Slice(keys, func(a, b int) bool {
		return lessBucketKey(keys[a], keys[b])
	})
	for _, key := range keys {
		paras = append(paras, bucketParagraphs(acc.decls[key])...)
	}

	return paras
}

// bucketParagraphs splits one bucket into decorated paragraphs followed
// by the undecorated block.
func bucketParagraphs(items []item) [][]string {
	var paras [][]string
	var plain []string
	for _, it := range items {
		if it.decorated() {
			paras = append(paras, it.lines())
		} else {
			plain = append(plain, it.body...)
		}
	}
	if len(plain) > 0 {
		paras = append(paras, plain)
	}
	return paras
}
