package extractor

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// contentTags are the element types emitted by the formatted traversal.
var contentTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"p": true, "li": true, "blockquote": true, "pre": true, "code": true,
}

// formatContent walks the container's content elements in document order
// through a single forward traversal, emitting each node's formatted form
// at its traversal position. Tables are emitted inline where they occur,
// not collected and appended at the end.
func formatContent(container *html.Node, tables map[*html.Node]Table) string {
	var sb strings.Builder

	var process func(*html.Node)
	process = func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}

		if isElement(n, "table") {
			if t, ok := tables[n]; ok {
				sb.WriteString(t.serialize())
			}
			return
		}

		tag := n.Data
		if contentTags[tag] {
			text := strings.TrimSpace(textContent(n))
			if text == "" {
				return
			}
			switch {
			case tag[0] == 'h' && len(tag) == 2:
				level := int(tag[1] - '0')
				sb.WriteString(strings.Repeat("#", level))
				sb.WriteString(" ")
				sb.WriteString(text)
				sb.WriteString("\n\n")
			case tag == "p":
				sb.WriteString(text)
				sb.WriteString("\n\n")
			case tag == "li":
				sb.WriteString("• ")
				sb.WriteString(text)
				sb.WriteString("\n")
			case tag == "blockquote":
				sb.WriteString("> ")
				sb.WriteString(strings.ReplaceAll(text, "\n", "\n> "))
				sb.WriteString("\n\n")
			case tag == "pre" || tag == "code":
				sb.WriteString("```\n")
				sb.WriteString(text)
				sb.WriteString("\n```\n\n")
			}
			// Content elements are emitted whole; never descend into them.
			return
		}

		for child := n.FirstChild; child != nil; child = child.NextSibling {
			process(child)
		}
	}

	process(container)
	return strings.TrimSpace(sb.String())
}

var blankLines = regexp.MustCompile(`\n+`)

// rawFlatten is the raw-fallback transformation: whitespace collapsed,
// sentence-ending periods and colons converted to line breaks, and
// consecutive blank lines collapsed.
func rawFlatten(text string) string {
	text = collapseWhitespace(text)
	text = strings.ReplaceAll(text, ". ", ".\n")
	text = strings.ReplaceAll(text, ": ", ":\n")
	text = blankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
