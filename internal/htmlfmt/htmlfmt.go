// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package htmlfmt re-indents HTML fragments produced by the markdown
// converter so that block structure is readable in page source. Inline
// markup is left on one line and <pre> subtrees are preserved
// byte-for-byte, so the rendered page is unaffected.
package htmlfmt

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const indent = "  "

// blockTags lists elements that get their own output line. <pre> is
// deliberately absent: its whitespace is significant.
var blockTags = map[string]bool{
	"article": true, "aside": true, "blockquote": true, "caption": true,
	"div": true, "figcaption": true, "figure": true, "footer": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true,
	"ol": true, "p": true, "section": true, "table": true, "tbody": true,
	"td": true, "tfoot": true, "th": true, "thead": true, "tr": true,
	"ul": true,
}

// Pretty re-indents a body fragment. The input must be a fragment (no
// surrounding <html>/<body>), which is what the converter emits.
func Pretty(fragment string) (string, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	for _, n := range nodes {
		if err := writeNode(&buf, n, 0); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func writeNode(buf *bytes.Buffer, n *html.Node, depth int) error {
	switch n.Type {
	case html.TextNode:
		// Whitespace between block elements is formatting noise from the
		// renderer; everything else is kept (trimmed, since it gets its
		// own line).
		txt := strings.TrimSpace(n.Data)
		if txt == "" {
			return nil
		}
		writeIndent(buf, depth)
		buf.WriteString(html.EscapeString(txt))
		buf.WriteByte('\n')
		return nil
	case html.CommentNode, html.DoctypeNode:
		writeIndent(buf, depth)
		if err := html.Render(buf, n); err != nil {
			return err
		}
		buf.WriteByte('\n')
		return nil
	case html.ElementNode:
		// handled below
	default:
		return nil
	}

	if !blockTags[n.Data] {
		// Inline element (or <pre>) at block level: one line, verbatim.
		writeIndent(buf, depth)
		if err := html.Render(buf, n); err != nil {
			return err
		}
		buf.WriteByte('\n')
		return nil
	}

	if !hasBlockChild(n) {
		// Leaf block like <p>, <td>, <li>: the whole element on one line
		// so inline markup and its whitespace stay intact.
		writeIndent(buf, depth)
		if err := html.Render(buf, n); err != nil {
			return err
		}
		buf.WriteByte('\n')
		return nil
	}

	writeIndent(buf, depth)
	writeOpenTag(buf, n)
	buf.WriteByte('\n')
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := writeNode(buf, c, depth+1); err != nil {
			return err
		}
	}
	writeIndent(buf, depth)
	buf.WriteString("</")
	buf.WriteString(n.Data)
	buf.WriteString(">\n")
	return nil
}

func writeIndent(buf *bytes.Buffer, depth int) {
	for i := 0; i < depth; i++ {
		buf.WriteString(indent)
	}
}

func writeOpenTag(buf *bytes.Buffer, n *html.Node) {
	buf.WriteByte('<')
	buf.WriteString(n.Data)
	for _, a := range n.Attr {
		buf.WriteByte(' ')
		buf.WriteString(a.Key)
		buf.WriteString(`="`)
		buf.WriteString(html.EscapeString(a.Val))
		buf.WriteByte('"')
	}
	buf.WriteByte('>')
}

func hasBlockChild(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && blockTags[c.Data] {
			return true
		}
	}
	return false
}
