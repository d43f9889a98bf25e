package memdom

import (
	"fmt"
	"slices"
	"strings"
)

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// HTML serializes the document's children.
func (d *Document) HTML() string {
	return InnerHTML(d.root)
}

// InnerHTML serializes n's children.
func InnerHTML(n *Node) string {
	var b strings.Builder
	for _, c := range n.Children {
		writeNode(&b, c)
	}
	return b.String()
}

// OuterHTML serializes n itself.
func OuterHTML(n *Node) string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

func writeNode(b *strings.Builder, n *Node) {
	switch n.Type {
	case TextNode:
		b.WriteString(escapeHTML(n.Text))
	case CommentNode:
		b.WriteString("<!--")
		b.WriteString(n.Text)
		b.WriteString("-->")
	case RawNode:
		b.WriteString(n.Text)
	case DocumentNode:
		for _, c := range n.Children {
			writeNode(b, c)
		}
	case ElementNode:
		b.WriteByte('<')
		b.WriteString(n.Tag)
		writeAttrs(b, n.Attrs)
		b.WriteByte('>')
		if voidElements[n.Tag] {
			return
		}
		for _, c := range n.Children {
			writeNode(b, c)
		}
		b.WriteString("</")
		b.WriteString(n.Tag)
		b.WriteByte('>')
	}
}

// writeAttrs writes attributes in key order so output is stable.
func writeAttrs(b *strings.Builder, attrs map[string]any) {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		switch v := attrs[k].(type) {
		case nil:
			continue
		case bool:
			if v {
				b.WriteByte(' ')
				b.WriteString(k)
			}
		default:
			fmt.Fprintf(b, ` %s="%s"`, k, escapeAttr(fmt.Sprint(v)))
		}
	}
}

// escapeHTML escapes text for safe inclusion in HTML content.
func escapeHTML(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}

// escapeAttr escapes text for attribute values. Whitespace control
// characters are escaped as well.
func escapeAttr(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '\n':
			buf.WriteString("&#10;")
		case '\r':
			buf.WriteString("&#13;")
		case '\t':
			buf.WriteString("&#9;")
		default:
			buf.WriteString(escapeHTML(string(r)))
		}
	}

	return buf.String()
}
