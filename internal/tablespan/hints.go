// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package tablespan

import (
	gast "github.com/yuin/goldmark/ast"
)

// hintsAttrName is the private node attribute under which a *Hints record
// is stored. It is never serialized: the attribute filters used by the
// renderers only pass standard HTML attribute names.
var hintsAttrName = []byte("markpress:tablespan")

// Hints annotates a table, row, cell, or adjacent paragraph with rendering
// instructions produced by the span and caption resolvers. A node without
// a Hints record renders exactly as the base grammar would render it.
type Hints struct {
	// ColSpan and RowSpan are the rendered span counts. Zero means unset
	// and renders as 1; values above 1 become colspan/rowspan attributes.
	ColSpan int
	RowSpan int

	// Removed nodes emit no output at all, including their subtrees.
	// Nothing is ever detached from the tree; removal is annotation-only.
	Removed bool

	// Footer marks a row to be rendered inside <tfoot> instead of <tbody>.
	Footer bool

	// Caption is table-scoped label text. CaptionSet distinguishes an
	// attached empty caption from no caption at all.
	Caption    string
	CaptionSet bool
}

// HintsOf returns the hints attached to n, or nil if n carries none.
func HintsOf(n gast.Node) *Hints {
	v, ok := n.Attribute(hintsAttrName)
	if !ok {
		return nil
	}
	h, _ := v.(*Hints)
	return h
}

// ensureHints returns the hints attached to n, creating an empty record
// on first write.
func ensureHints(n gast.Node) *Hints {
	if h := HintsOf(n); h != nil {
		return h
	}
	h := &Hints{}
	n.SetAttribute(hintsAttrName, h)
	return h
}

// removed reports whether n carries a Removed hint.
func removed(n gast.Node) bool {
	h := HintsOf(n)
	return h != nil && h.Removed
}

// attachCaption attaches caption text to a table. The first successful
// attach wins; later attempts for the same table are no-ops and report
// false.
func attachCaption(tbl gast.Node, text string) bool {
	h := ensureHints(tbl)
	if h.CaptionSet {
		return false
	}
	h.Caption = text
	h.CaptionSet = true
	return true
}

// bumpColSpan increments a cell's colspan, starting from the implicit
// base of 1.
func bumpColSpan(n gast.Node) {
	h := ensureHints(n)
	if h.ColSpan == 0 {
		h.ColSpan = 1
	}
	h.ColSpan++
}

// bumpRowSpan increments a cell's rowspan, starting from the implicit
// base of 1.
func bumpRowSpan(n gast.Node) {
	h := ensureHints(n)
	if h.RowSpan == 0 {
		h.RowSpan = 1
	}
	h.RowSpan++
}
