// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package tablespan

import (
	"strconv"

	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// HTMLRenderer renders table nodes honoring their rendering hints:
// removed nodes are omitted entirely, spans above 1 become colspan and
// rowspan attributes, footer rows go into <tfoot>, and an attached
// caption renders as the table's first element. It replaces the GFM
// table renderer for the table kinds and overrides paragraph rendering
// only to honor the removed hint on caption paragraphs.
type HTMLRenderer struct {
	html.Config
}

// NewHTMLRenderer returns the renderer registered by the extension.
func NewHTMLRenderer(opts ...html.Option) renderer.NodeRenderer {
	r := &HTMLRenderer{Config: html.NewConfig()}
	for _, opt := range opts {
		opt.SetHTMLOption(&r.Config)
	}
	return r
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *HTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(east.KindTable, r.renderTable)
	reg.Register(east.KindTableHeader, r.renderTableHeader)
	reg.Register(east.KindTableRow, r.renderTableRow)
	reg.Register(east.KindTableCell, r.renderTableCell)
	reg.Register(gast.KindParagraph, r.renderParagraph)
}

func (r *HTMLRenderer) renderTable(w util.BufWriter, source []byte, n gast.Node, entering bool) (gast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString("<table")
		if n.Attributes() != nil {
			html.RenderAttributes(w, n, extension.TableAttributeFilter)
		}
		_, _ = w.WriteString(">\n")
		if h := HintsOf(n); h != nil && h.CaptionSet {
			_, _ = w.WriteString("<caption>")
			_, _ = w.Write(util.EscapeHTML([]byte(h.Caption)))
			_, _ = w.WriteString("</caption>\n")
		}
	} else {
		_, _ = w.WriteString("</table>\n")
	}
	return gast.WalkContinue, nil
}

func (r *HTMLRenderer) renderTableHeader(w util.BufWriter, source []byte, n gast.Node, entering bool) (gast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString("<thead>\n")
		_, _ = w.WriteString("<tr>\n")
	} else {
		_, _ = w.WriteString("</tr>\n")
		_, _ = w.WriteString("</thead>\n")
	}
	return gast.WalkContinue, nil
}

func (r *HTMLRenderer) renderTableRow(w util.BufWriter, source []byte, n gast.Node, entering bool) (gast.WalkStatus, error) {
	if removed(n) {
		if entering {
			return gast.WalkSkipChildren, nil
		}
		return gast.WalkContinue, nil
	}
	h := HintsOf(n)
	footer := h != nil && h.Footer
	if entering {
		// Section tags are emitted at the body/footer boundaries of the
		// surviving rows, so removed rows leave no trace in the output.
		prev := prevLiveRow(n)
		switch {
		case prev == nil:
			if footer {
				_, _ = w.WriteString("<tfoot>\n")
			} else {
				_, _ = w.WriteString("<tbody>\n")
			}
		case footer && !isFooterRow(prev):
			_, _ = w.WriteString("</tbody>\n")
			_, _ = w.WriteString("<tfoot>\n")
		}
		_, _ = w.WriteString("<tr>\n")
	} else {
		_, _ = w.WriteString("</tr>\n")
		if nextLiveRow(n) == nil {
			if footer {
				_, _ = w.WriteString("</tfoot>\n")
			} else {
				_, _ = w.WriteString("</tbody>\n")
			}
		}
	}
	return gast.WalkContinue, nil
}

func (r *HTMLRenderer) renderTableCell(w util.BufWriter, source []byte, node gast.Node, entering bool) (gast.WalkStatus, error) {
	if removed(node) {
		if entering {
			return gast.WalkSkipChildren, nil
		}
		return gast.WalkContinue, nil
	}
	n := node.(*east.TableCell)
	tag := "td"
	filter := extension.TableTdCellAttributeFilter
	if n.Parent().Kind() == east.KindTableHeader {
		tag = "th"
		filter = extension.TableThCellAttributeFilter
	}
	if entering {
		_ = w.WriteByte('<')
		_, _ = w.WriteString(tag)
		if n.Alignment != east.AlignNone {
			_, _ = w.WriteString(` style="text-align:`)
			_, _ = w.WriteString(n.Alignment.String())
			_ = w.WriteByte('"')
		}
		if h := HintsOf(n); h != nil {
			if h.ColSpan > 1 {
				_, _ = w.WriteString(` colspan="`)
				_, _ = w.WriteString(strconv.Itoa(h.ColSpan))
				_ = w.WriteByte('"')
			}
			if h.RowSpan > 1 {
				_, _ = w.WriteString(` rowspan="`)
				_, _ = w.WriteString(strconv.Itoa(h.RowSpan))
				_ = w.WriteByte('"')
			}
		}
		if n.Attributes() != nil {
			html.RenderAttributes(w, n, filter)
		}
		_ = w.WriteByte('>')
	} else {
		_, _ = w.WriteString("</")
		_, _ = w.WriteString(tag)
		_, _ = w.WriteString(">\n")
	}
	return gast.WalkContinue, nil
}

// renderParagraph mirrors the default paragraph renderer, adding only the
// removed check for caption paragraphs absorbed by an adjacent table.
func (r *HTMLRenderer) renderParagraph(w util.BufWriter, source []byte, n gast.Node, entering bool) (gast.WalkStatus, error) {
	if removed(n) {
		if entering {
			return gast.WalkSkipChildren, nil
		}
		return gast.WalkContinue, nil
	}
	if entering {
		if n.Attributes() != nil {
			_, _ = w.WriteString("<p")
			html.RenderAttributes(w, n, html.ParagraphAttributeFilter)
			_ = w.WriteByte('>')
		} else {
			_, _ = w.WriteString("<p>")
		}
	} else {
		_, _ = w.WriteString("</p>\n")
	}
	return gast.WalkContinue, nil
}

// prevLiveRow returns the nearest preceding body row that will produce
// output, or nil if n is the first such row.
func prevLiveRow(n gast.Node) gast.Node {
	for s := n.PreviousSibling(); s != nil; s = s.PreviousSibling() {
		if _, ok := s.(*east.TableRow); !ok {
			continue
		}
		if !removed(s) {
			return s
		}
	}
	return nil
}

// nextLiveRow returns the nearest following body row that will produce
// output, or nil if n is the last such row.
func nextLiveRow(n gast.Node) gast.Node {
	for s := n.NextSibling(); s != nil; s = s.NextSibling() {
		if _, ok := s.(*east.TableRow); !ok {
			continue
		}
		if !removed(s) {
			return s
		}
	}
	return nil
}

func isFooterRow(n gast.Node) bool {
	h := HintsOf(n)
	return h != nil && h.Footer
}
