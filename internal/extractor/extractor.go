// Package extractor turns web-page snapshots into ordered structured text.
//
// Extraction runs a layered chain of strategies, each a pure function over a
// cloned document, tried in sequence until one yields content. It degrades
// rather than fails: on any internal failure a simpler strategy takes over,
// and the final total fallback always returns a result.
package extractor

import (
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/pagechat/pagechat-cli/internal/core/domain"
	"github.com/pagechat/pagechat-cli/internal/logger"
)

// excerptLength is the maximum excerpt prefix length in runes.
const excerptLength = 150

// rawFallbackThreshold is the structured-text length below which the raw
// fallback transformation replaces the structured form.
const rawFallbackThreshold = 200

// Options configures one extraction call.
type Options struct {
	// IncludeUIElements harvests header/navigation/sidebar/footer regions
	// in addition to the main content.
	IncludeUIElements bool
}

// Page is a parsed page snapshot. It is transient: owned by the extraction
// call and never persisted.
type Page struct {
	// URL is the page location, possibly nil when unknown.
	URL *url.URL

	// HTML is the raw snapshot.
	HTML []byte

	// Root is the parsed document.
	Root *html.Node
}

// NewPage parses a raw HTML snapshot. The page URL may be empty.
func NewPage(raw []byte, pageURL string) (*Page, error) {
	root, err := html.Parse(strings.NewReader(string(raw)))
	if err != nil {
		return nil, err
	}

	var u *url.URL
	if pageURL != "" {
		// A malformed URL only costs the siteName metadata.
		u, _ = url.Parse(pageURL)
	}

	return &Page{URL: u, HTML: raw, Root: root}, nil
}

// Title returns the page's <title> text, trimmed.
func (p *Page) Title() string {
	title := findElement(p.Root, func(n *html.Node) bool { return isElement(n, "title") })
	if title == nil {
		return ""
	}
	return strings.TrimSpace(textContent(title))
}

// Hostname returns the URL hostname, or "".
func (p *Page) Hostname() string {
	if p.URL == nil {
		return ""
	}
	return p.URL.Hostname()
}

// Location returns the page URL string, or "".
func (p *Page) Location() string {
	if p.URL == nil {
		return ""
	}
	return p.URL.String()
}

// Strategy is one fallback stage of the extraction chain. A strategy
// returns (nil, error) to pass control to the next stage; it must never
// mutate the page it is given.
type Strategy interface {
	// Name identifies the strategy in logs.
	Name() string

	// Extract attempts to produce content from the page.
	Extract(page *Page, opts Options) (*domain.ExtractedContent, error)
}

// Extractor runs the ordered strategy chain.
type Extractor struct {
	strategies []Strategy
}

// New creates an extractor with the default chain: the readability-style
// primary strategy followed by the heuristic container strategy.
func New() *Extractor {
	return &Extractor{
		strategies: []Strategy{
			&readabilityStrategy{},
			&heuristicStrategy{},
		},
	}
}

// NewWithStrategies creates an extractor with an explicit chain.
// Used by tests to exercise stages in isolation.
func NewWithStrategies(strategies ...Strategy) *Extractor {
	return &Extractor{strategies: strategies}
}

// Extract produces structured text from the page. It never fails: when
// every strategy declines, the total fallback flattens the document body
// and returns title/hostname-derived metadata.
func (e *Extractor) Extract(page *Page, opts Options) domain.ExtractedContent {
	for _, strategy := range e.strategies {
		result, err := strategy.Extract(page, opts)
		if err != nil {
			logger.Debug("extraction strategy %s declined: %v", strategy.Name(), err)
			continue
		}
		if result == nil || strings.TrimSpace(result.Content) == "" {
			logger.Debug("extraction strategy %s yielded no content", strategy.Name())
			continue
		}
		logger.Info("extracted %d chars via %s", len(result.Content), strategy.Name())
		return e.finalize(page, *result)
	}

	logger.Warn("all extraction strategies declined, using total fallback")
	return e.totalFallback(page)
}

// finalize fills the derived fields every result carries: excerpt, length,
// site name, URL and timestamp.
func (e *Extractor) finalize(page *Page, result domain.ExtractedContent) domain.ExtractedContent {
	result.Excerpt = makeExcerpt(result.Content)
	result.Length = len(result.Content)
	if result.SiteName == "" {
		result.SiteName = page.Hostname()
	}
	if result.URL == "" {
		result.URL = page.Location()
	}
	if result.Title == "" {
		result.Title = page.Title()
	}
	result.Timestamp = time.Now()
	return result
}

// totalFallback flattens the document body text with whitespace collapsed.
func (e *Extractor) totalFallback(page *Page) domain.ExtractedContent {
	content := collapseWhitespace(textContent(findBody(page.Root)))
	return e.finalize(page, domain.ExtractedContent{
		Title:   page.Title(),
		Content: content,
		Method:  domain.ExtractionRawFallback,
	})
}

// makeExcerpt returns the first excerptLength runes of content plus an
// ellipsis marker.
func makeExcerpt(content string) string {
	runes := []rune(content)
	if len(runes) > excerptLength {
		runes = runes[:excerptLength]
	}
	return string(runes) + "..."
}
