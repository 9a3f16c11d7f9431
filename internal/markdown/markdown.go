// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown converts the MarkPress Markdown dialect into HTML.
// The base grammar is CommonMark plus GFM, parsed by goldmark; the
// tablespan extension then adds column/row merging, table footers, and
// captions on top. Unsafe HTML pass-through stays enabled so existing
// raw-HTML content renders correctly.
package markdown

import (
	"bytes"
	"log/slog"

	"github.com/alecthomas/chroma/v2/styles"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"markpress/internal/tablespan"
)

// DefaultStyle is the chroma highlight style used when none is configured.
const DefaultStyle = "monokai"

// Converter is a configured goldmark instance. A Converter is safe for
// concurrent use; distinct documents share nothing.
type Converter struct {
	md goldmark.Markdown
}

// New creates a Converter highlighting fenced code blocks with the given
// chroma style. Unknown style names fall back to DefaultStyle with a
// warning rather than failing the conversion pipeline.
func New(style string) *Converter {
	if style == "" {
		style = DefaultStyle
	}
	if styles.Get(style) == styles.Fallback && style != styles.Fallback.Name {
		slog.Warn("unknown highlight style, using default", "style", style, "default", DefaultStyle)
		style = DefaultStyle
	}
	return &Converter{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM, // GitHub-Flavored Markdown: tables, strikethrough, autolinks, task lists
				// Smart quotes and dashes. The angle-quote substitutions are
				// disabled: << in a table cell is a column-merge token and
				// must reach the table transformer intact.
				extension.NewTypographer(
					extension.WithTypographicSubstitutions(map[extension.TypographicPunctuation][]byte{
						extension.LeftAngleQuote:  nil,
						extension.RightAngleQuote: nil,
					}),
				),
				tablespan.TableSpans, // Column/row merging, table footers, captions
				highlighting.NewHighlighting( // Syntax highlighting for fenced code blocks
					highlighting.WithStyle(style),
					highlighting.WithFormatOptions(),
				),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(), // Auto-generate heading IDs for anchors
			),
			goldmark.WithRendererOptions(
				html.WithUnsafe(), // Allow raw HTML blocks for backward compat with existing HTML content
			),
		),
	}
}

// ToHTML converts Markdown source into HTML. Raw HTML embedded in the
// Markdown is passed through unchanged (WithUnsafe).
func (c *Converter) ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := c.md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// defaultConverter backs the package-level ToHTML, reused across calls.
var defaultConverter = New(DefaultStyle)

// ToHTML converts Markdown source into HTML using the default converter.
func ToHTML(source string) (string, error) {
	return defaultConverter.ToHTML(source)
}
