package extractor

import (
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// uiRegion names one harvested region type with the rules that select it.
type uiRegion struct {
	Name  string
	Rules []RemovalRule
}

// uiRegions are harvested in this order when IncludeUIElements is set.
var uiRegions = []uiRegion{
	{Name: "Header", Rules: []RemovalRule{{Tag: "header"}, {Role: "banner"}, {AttrSubstring: "header"}}},
	{Name: "Navigation", Rules: []RemovalRule{{Tag: "nav"}, {Role: "navigation"}, {AttrSubstring: "nav"}, {AttrSubstring: "menu"}}},
	{Name: "Sidebar", Rules: []RemovalRule{{Tag: "aside"}, {Role: "complementary"}, {AttrSubstring: "sidebar"}}},
	{Name: "Footer", Rules: []RemovalRule{{Tag: "footer"}, {AttrSubstring: "footer"}}},
}

type harvestedElement struct {
	node     *html.Node
	region   string
	position int
}

// harvestUIElements collects header/navigation/sidebar/footer regions from
// the document, deduplicated by DOM position, grouped by region type with
// their own sub-headings. Returns "" when nothing was found.
func harvestUIElements(root *html.Node, title, pageURL string) string {
	seen := make(map[*html.Node]bool)
	var all []harvestedElement

	for _, region := range uiRegions {
		forEachElement(root, func(n *html.Node) bool {
			for _, rule := range region.Rules {
				if rule.Matches(n) {
					if !seen[n] {
						seen[n] = true
						all = append(all, harvestedElement{
							node:     n,
							region:   region.Name,
							position: documentPosition(root, n),
						})
					}
					return false
				}
			}
			return true
		})
	}

	if len(all) == 0 {
		return ""
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].position < all[j].position })

	byRegion := make(map[string][]string)
	for _, h := range all {
		clone := cloneNode(h.node)
		applyRemovalRules(clone, []RemovalRule{{Tag: "script"}, {Tag: "style"}})
		text := collapseWhitespace(textContent(clone))
		if text != "" {
			byRegion[h.region] = append(byRegion[h.region], text)
		}
	}

	var sb strings.Builder
	sb.WriteString("# ")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(pageURL)
	sb.WriteString("\n\n")

	wrote := false
	for _, region := range uiRegions {
		texts := byRegion[region.Name]
		if len(texts) == 0 {
			continue
		}
		wrote = true
		sb.WriteString("## ")
		sb.WriteString(region.Name)
		sb.WriteString(" Elements\n\n")
		for _, text := range texts {
			sb.WriteString(text)
			sb.WriteString("\n\n")
		}
	}
	if !wrote {
		return ""
	}
	return strings.TrimSpace(sb.String())
}
