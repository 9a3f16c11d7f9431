// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package tablespan extends GFM tables with column merging, row merging,
// footer sections, and captions. It runs as a goldmark AST transformer
// after the base parse and annotates table nodes with rendering hints
// that its HTML renderer consumes.
//
// Source tokens, matched after trimming surrounding whitespace:
//
//	empty cell or <<   merge into the nearest surviving cell to the left
//	^^                 merge into the same column of the row above
//	=== (3+ equals)    this row and all following rows form the footer
//	-                  separator/filler cell; an all-filler row is dropped
//	[Caption Text]     caption, as an adjacent paragraph or a trailing
//	                   one-cell row
//
// The extension assumes table support is enabled (extension.Table or
// extension.GFM). Nested tables are not supported.
package tablespan

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// Registration priorities. The transformer runs after the built-in table
// transformers; the renderer registers below 500 so its funcs replace the
// GFM table renderer's (and the default paragraph renderer's) for the
// node kinds it handles.
const (
	transformerPriority = 500
	rendererPriority    = 200
)

type tableSpans struct{}

// TableSpans is the extension instance to pass to goldmark.WithExtensions.
var TableSpans goldmark.Extender = &tableSpans{}

func (e *tableSpans) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithASTTransformers(
			util.Prioritized(NewTransformer(), transformerPriority),
		),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(NewHTMLRenderer(), rendererPriority),
		),
	)
}
