// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package tablespan

import (
	"strings"

	gast "github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Transformer locates every table in a parsed document and resolves its
// span markers and caption sources. It mutates rendering hints only;
// the tree structure itself is never changed.
type Transformer struct{}

// NewTransformer returns the AST transformer registered by the extension.
func NewTransformer() *Transformer {
	return &Transformer{}
}

// Transform implements parser.ASTTransformer. Tables are visited in
// document order (pre-order), at any nesting depth. For each table the
// span resolver runs first, then the caption resolver, exactly once.
func (t *Transformer) Transform(doc *gast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()
	_ = gast.Walk(doc, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering {
			return gast.WalkContinue, nil
		}
		tbl, ok := n.(*east.Table)
		if !ok {
			return gast.WalkContinue, nil
		}
		g := newGrid(source, tbl)
		g.resolveSpans()
		g.resolveCaptions()
		return gast.WalkContinue, nil
	})
}

// rowClass is the mutually-exclusive classification of a table row,
// decided up front so the merge pass works against fixed classes instead
// of scan-order state.
type rowClass int

const (
	classHeader rowClass = iota
	classData
	classSeparator
	classFooter
)

// gridRow pairs a row node with its classification and its cells in
// column order.
type gridRow struct {
	node  gast.Node // *east.TableHeader or *east.TableRow
	class rowClass
	cells []*east.TableCell
}

// grid is a table viewed as an owned 2-D arena addressed by
// (row index, column index). Merges become index arithmetic; the upward
// rowspan search is a bounded loop decrementing the row index.
type grid struct {
	source []byte
	table  *east.Table
	rows   []gridRow
}

// newGrid builds the arena and classifies every row. The footer class is
// sticky: once a row carries a footer marker, that row and every row
// after it is a footer row, whatever its cells contain.
func newGrid(source []byte, tbl *east.Table) *grid {
	g := &grid{source: source, table: tbl}
	footerActive := false
	for row := tbl.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []*east.TableCell
		for c := row.FirstChild(); c != nil; c = c.NextSibling() {
			if cell, ok := c.(*east.TableCell); ok {
				cells = append(cells, cell)
			}
		}
		gr := gridRow{node: row, cells: cells}
		switch {
		case len(g.rows) == 0:
			gr.class = classHeader
		case footerActive || g.hasFooterMarker(cells):
			footerActive = true
			gr.class = classFooter
		case g.allFiller(cells):
			gr.class = classSeparator
		default:
			gr.class = classData
		}
		g.rows = append(g.rows, gr)
	}
	return g
}

func (g *grid) cellText(cell *east.TableCell) string {
	return strings.TrimSpace(nodeText(g.source, cell))
}

func (g *grid) hasFooterMarker(cells []*east.TableCell) bool {
	for _, cell := range cells {
		if isFooterMarker(g.cellText(cell)) {
			return true
		}
	}
	return false
}

func (g *grid) allFiller(cells []*east.TableCell) bool {
	for _, cell := range cells {
		if !isFillerCell(g.cellText(cell)) {
			return false
		}
	}
	return true
}

// resolveSpans runs the merge pass over the classified grid.
//
// Header rows pass through unmodified. Footer rows get the footer hint
// and lose their === marker cells, nothing else: they never consume span
// markers and never serve as rowspan anchors. Separator rows are removed
// wholesale and are invisible to rowspan lookups. Data rows are scanned
// left to right for span markers.
func (g *grid) resolveSpans() {
	for i := range g.rows {
		row := &g.rows[i]
		switch row.class {
		case classHeader:
		case classFooter:
			ensureHints(row.node).Footer = true
			delimiter := true
			for _, cell := range row.cells {
				txt := g.cellText(cell)
				if isFooterMarker(txt) {
					ensureHints(cell).Removed = true
				} else if !isFillerCell(txt) {
					delimiter = false
				}
			}
			// A row of nothing but === markers and fillers is the footer
			// delimiter itself and does not appear in output.
			if delimiter {
				ensureHints(row.node).Removed = true
				for _, cell := range row.cells {
					ensureHints(cell).Removed = true
				}
			}
		case classSeparator:
			ensureHints(row.node).Removed = true
			for _, cell := range row.cells {
				ensureHints(cell).Removed = true
			}
		case classData:
			g.resolveDataRow(i)
		}
	}
}

func (g *grid) resolveDataRow(ri int) {
	row := g.rows[ri]
	for ci, cell := range row.cells {
		// A cell that is already removed was resolved by an earlier run
		// of the transform; skipping it keeps span counts stable when the
		// transform is applied to an already-processed tree.
		if removed(cell) {
			continue
		}
		txt := g.cellText(cell)
		switch {
		case isColSpanMarker(txt):
			if target := g.leftTarget(row.cells, ci); target != nil {
				bumpColSpan(target)
				ensureHints(cell).Removed = true
			}
			// No surviving left neighbor: leave the cell untouched so it
			// renders as an ordinary empty cell.
		case isRowSpanMarker(txt) && g.hasAnchorAbove(ri):
			if target := g.upTarget(ri, ci); target != nil {
				bumpRowSpan(target)
			}
			// The marker is dropped from output even when no target
			// survives.
			ensureHints(cell).Removed = true
		}
	}
}

// leftTarget walks left through the already-visited cells of a row,
// skipping removed ones, and returns the nearest surviving cell.
func (g *grid) leftTarget(cells []*east.TableCell, ci int) *east.TableCell {
	for j := ci - 1; j >= 0; j-- {
		if !removed(cells[j]) {
			return cells[j]
		}
	}
	return nil
}

// hasAnchorAbove reports whether any row above ri is eligible as a
// rowspan target. Footer and separator rows are never eligible.
func (g *grid) hasAnchorAbove(ri int) bool {
	for j := ri - 1; j >= 0; j-- {
		if c := g.rows[j].class; c == classHeader || c == classData {
			return true
		}
	}
	return false
}

// upTarget finds the merge target for a rowspan marker at column ci of
// row ri: the nearest anchor-eligible row above holding a surviving cell
// at the same column index. Rows whose cell at that column is removed
// (or missing) are stepped past.
func (g *grid) upTarget(ri, ci int) *east.TableCell {
	for j := ri - 1; j >= 0; j-- {
		r := g.rows[j]
		if r.class != classHeader && r.class != classData {
			continue
		}
		if ci >= len(r.cells) {
			continue
		}
		if removed(r.cells[ci]) {
			continue
		}
		return r.cells[ci]
	}
	return nil
}

// resolveCaptions attaches at most one caption to the table, trying the
// paragraph before the table, then the paragraph after it, then the last
// qualifying one-cell row. The attach is idempotent per table; marking a
// matched source node removed happens regardless of the attach outcome.
func (g *grid) resolveCaptions() {
	if p, txt, ok := g.captionParagraph(g.table.PreviousSibling()); ok {
		attachCaption(g.table, txt)
		ensureHints(p).Removed = true
	}
	if p, txt, ok := g.captionParagraph(g.table.NextSibling()); ok {
		attachCaption(g.table, txt)
		ensureHints(p).Removed = true
	}
	if row, txt, ok := g.trailingCaptionRow(); ok {
		attachCaption(g.table, txt)
		ensureHints(row).Removed = true
	}
}

// captionParagraph qualifies an adjacent sibling as a caption source: a
// paragraph whose content is plain text matching the bracket pattern.
func (g *grid) captionParagraph(n gast.Node) (gast.Node, string, bool) {
	p, ok := n.(*gast.Paragraph)
	if !ok {
		return nil, "", false
	}
	content, ok := textOnlyContent(g.source, p)
	if !ok {
		return nil, "", false
	}
	txt, ok := captionText(content)
	if !ok {
		return nil, "", false
	}
	return p, txt, true
}

// trailingCaptionRow scans the body rows after span resolution for rows
// with exactly one surviving cell whose plain-text content matches the
// bracket pattern, and returns the last such row.
func (g *grid) trailingCaptionRow() (gast.Node, string, bool) {
	var (
		found gast.Node
		txt   string
	)
	for _, row := range g.rows {
		if _, ok := row.node.(*east.TableRow); !ok {
			continue
		}
		var sole *east.TableCell
		live := 0
		for _, cell := range row.cells {
			if removed(cell) {
				continue
			}
			live++
			sole = cell
		}
		if live != 1 {
			continue
		}
		content, ok := textOnlyContent(g.source, sole)
		if !ok {
			continue
		}
		if t, ok := captionText(content); ok {
			found = row.node
			txt = t
		}
	}
	if found == nil {
		return nil, "", false
	}
	return found, txt, true
}

// Token predicates. All operate on text already trimmed of surrounding
// whitespace.

func isColSpanMarker(txt string) bool {
	return txt == "" || txt == "<<"
}

func isRowSpanMarker(txt string) bool {
	return txt == "^^"
}

// isFooterMarker matches three or more consecutive = characters and
// nothing else.
func isFooterMarker(txt string) bool {
	if len(txt) < 3 {
		return false
	}
	for i := 0; i < len(txt); i++ {
		if txt[i] != '=' {
			return false
		}
	}
	return true
}

// isFillerCell matches the placeholder dash glyph used to pad blank and
// alignment rows, or an empty cell.
func isFillerCell(txt string) bool {
	return txt == "" || txt == "-"
}

// captionText matches the bracket pattern: text starting with '[', whose
// matching ']' is followed by whitespace only. The bracketed substring is
// the caption. Matching is by bracket depth, so nested brackets stay part
// of the caption while an unbalanced ']' disqualifies the text. A bracket
// with no closing ']' is not recognized and the node stays ordinary
// content.
func captionText(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") {
		return "", false
	}
	depth := 0
	end := -1
	for i := 0; i < len(s) && end < 0; i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				end = i
			}
		}
	}
	if end < 0 {
		return "", false
	}
	if strings.TrimSpace(s[end+1:]) != "" {
		return "", false
	}
	return s[1:end], true
}

// nodeText concatenates the literal text beneath n, descending through
// inline containers.
func nodeText(source []byte, n gast.Node) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *gast.Text:
			sb.Write(t.Segment.Value(source))
		case *gast.String:
			sb.Write(t.Value)
		default:
			sb.WriteString(nodeText(source, c))
		}
	}
	return sb.String()
}

// textOnlyContent returns the concatenated literal of n's children when
// the content consists solely of text segments. The base parser splits a
// literal like "[Caption]" into adjacent segments, so a caption source is
// judged on the joined text rather than on a single child node.
func textOnlyContent(source []byte, n gast.Node) (string, bool) {
	if n.ChildCount() == 0 {
		return "", false
	}
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *gast.Text:
			sb.Write(t.Segment.Value(source))
		case *gast.String:
			sb.Write(t.Value)
		default:
			return "", false
		}
	}
	return sb.String(), true
}
