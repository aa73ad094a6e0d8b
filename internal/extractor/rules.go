package extractor

import (
	"strings"

	"golang.org/x/net/html"
)

// RemovalRule is one declarative noise-removal rule. An element matches
// when its tag equals Tag, its ARIA role equals Role, or its id/class
// attribute contains AttrSubstring. Empty fields do not match.
type RemovalRule struct {
	Tag           string
	Role          string
	AttrSubstring string
}

// Matches reports whether the element matches the rule.
func (r RemovalRule) Matches(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if r.Tag != "" && n.Data == r.Tag {
		return true
	}
	if r.Role != "" && attrVal(n, "role") == r.Role {
		return true
	}
	if r.AttrSubstring != "" {
		if strings.Contains(strings.ToLower(attrVal(n, "id")), r.AttrSubstring) {
			return true
		}
		if strings.Contains(strings.ToLower(attrVal(n, "class")), r.AttrSubstring) {
			return true
		}
	}
	return false
}

// alwaysRemoveRules strip elements that never carry page content:
// scripts, styles, embeds, and ad/cookie banners.
var alwaysRemoveRules = []RemovalRule{
	{Tag: "script"},
	{Tag: "style"},
	{Tag: "iframe"},
	{Tag: "noscript"},
	{AttrSubstring: "cookie"},
	{AttrSubstring: "ad-"},
	{AttrSubstring: "advertisement"},
}

// uiRemoveRules strip page chrome. Applied only when the caller did not
// ask for UI elements to be included.
var uiRemoveRules = []RemovalRule{
	{Tag: "nav"},
	{Tag: "footer"},
	{Tag: "header"},
	{Tag: "aside"},
	{Role: "banner"},
	{Role: "navigation"},
	{Role: "complementary"},
	{Role: "alert"},
	{AttrSubstring: "banner"},
	{AttrSubstring: "nav"},
	{AttrSubstring: "menu"},
	{AttrSubstring: "header"},
	{AttrSubstring: "footer"},
	{AttrSubstring: "flash"},
	{AttrSubstring: "alert"},
	{AttrSubstring: "popup"},
	{AttrSubstring: "modal"},
	{AttrSubstring: "comment"},
	{AttrSubstring: "social"},
	{AttrSubstring: "sidebar"},
	{AttrSubstring: "widget"},
	{AttrSubstring: "recommended"},
	{AttrSubstring: "related"},
}

// applyRemovalRules detaches every element matching any rule. Rules are
// evaluated once per extraction over a cloned document.
func applyRemovalRules(root *html.Node, rules []RemovalRule) {
	var doomed []*html.Node
	forEachElement(root, func(n *html.Node) bool {
		for _, rule := range rules {
			if rule.Matches(n) {
				doomed = append(doomed, n)
				return false
			}
		}
		return true
	})
	for _, n := range doomed {
		detach(n)
	}
}

// containerCandidate identifies one main-content container selector.
// Exactly one field is set.
type containerCandidate struct {
	Tag   string
	Role  string
	ID    string
	Class string
}

func (c containerCandidate) matches(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch {
	case c.Tag != "":
		return n.Data == c.Tag
	case c.Role != "":
		return attrVal(n, "role") == c.Role
	case c.ID != "":
		return attrVal(n, "id") == c.ID
	case c.Class != "":
		for _, cls := range strings.Fields(attrVal(n, "class")) {
			if cls == c.Class {
				return true
			}
		}
	}
	return false
}

// containerCandidates are checked in priority order; the first with
// substantial content wins.
var containerCandidates = []containerCandidate{
	{Tag: "main"},
	{Tag: "article"},
	{Role: "main"},
	{ID: "content"},
	{Class: "content"},
	{Class: "post-content"},
	{Class: "article-content"},
	{Class: "entry-content"},
	{ID: "main"},
	{Class: "main"},
}

// blockContentTags are the element types counted when judging whether a
// candidate container holds substantial content.
var blockContentTags = map[string]bool{
	"p": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true,
}

// hasSubstantialContent accepts a container with more than 250 characters
// of text and more than two block-level content elements.
func hasSubstantialContent(n *html.Node) bool {
	if len(strings.TrimSpace(textContent(n))) <= 250 {
		return false
	}
	count := 0
	forEachElement(n, func(el *html.Node) bool {
		if blockContentTags[el.Data] {
			count++
		}
		return true
	})
	return count > 2
}

// findMainContent locates the main content container, falling back to
// <body> when no candidate qualifies.
func findMainContent(root *html.Node) *html.Node {
	for _, candidate := range containerCandidates {
		el := findElement(root, candidate.matches)
		if el != nil && hasSubstantialContent(el) {
			return el
		}
	}
	return findBody(root)
}
