package extractor

import (
	"strings"

	"golang.org/x/net/html"
)

// cloneNode deep-copies a parsed node so strategies never mutate the live
// document.
func cloneNode(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}

	clone := &html.Node{
		Type:     n.Type,
		DataAtom: n.DataAtom,
		Data:     n.Data,
		Attr:     make([]html.Attribute, len(n.Attr)),
	}
	copy(clone.Attr, n.Attr)

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		clone.AppendChild(cloneNode(child))
	}
	return clone
}

// attrVal returns the value of the named attribute, or "".
func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// isElement reports whether n is an element with the given tag name.
func isElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

// textContent returns the concatenated text of n's subtree.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
			return
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return sb.String()
}

// forEachElement visits every element under root in document order.
// The visitor returns false to skip the element's subtree.
func forEachElement(root *html.Node, visit func(*html.Node) bool) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && !visit(n) {
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)
}

// findElement returns the first element under root matching the predicate,
// in document order.
func findElement(root *html.Node, match func(*html.Node) bool) *html.Node {
	var found *html.Node
	forEachElement(root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if match(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

// findBody returns the <body> element of a parsed document, or the root
// itself when no body exists (fragment input).
func findBody(root *html.Node) *html.Node {
	if body := findElement(root, func(n *html.Node) bool { return isElement(n, "body") }); body != nil {
		return body
	}
	return root
}

// detach removes n from its parent, if any.
func detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// documentPosition returns the index of target among all elements of root
// in document order, or -1 when absent. Used to deduplicate and order
// harvested UI regions.
func documentPosition(root, target *html.Node) int {
	pos := -1
	index := 0
	forEachElement(root, func(n *html.Node) bool {
		if n == target {
			pos = index
		}
		index++
		return true
	})
	return pos
}

var whitespaceReplacer = strings.NewReplacer("\n", " ", "\t", " ", "\r", " ")

// collapseWhitespace reduces any run of whitespace to a single space.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(whitespaceReplacer.Replace(s)), " ")
}
