package extractor

import (
	"bytes"
	"errors"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"

	"github.com/pagechat/pagechat-cli/internal/core/domain"
)

// readabilityStrategy is the primary extraction stage: a readability-style
// main-content parse of a cloned document, with the resulting HTML
// converted to the structured plain-text format.
type readabilityStrategy struct{}

func (s *readabilityStrategy) Name() string {
	return "readability"
}

func (s *readabilityStrategy) Extract(page *Page, opts Options) (*domain.ExtractedContent, error) {
	pageURL := page.URL
	if pageURL == nil {
		pageURL = &url.URL{}
	}

	article, err := readability.FromReader(bytes.NewReader(page.HTML), pageURL)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(article.Content) == "" {
		return nil, errors.New("readability produced no content")
	}

	frag, err := html.Parse(strings.NewReader(article.Content))
	if err != nil {
		return nil, err
	}

	container := findBody(frag)
	tables := extractTables(container)
	content := formatContent(container, tables)

	if len(content) < rawFallbackThreshold {
		content = rawFlatten(article.TextContent)
	}
	if content == "" {
		return nil, errors.New("readability content empty after formatting")
	}

	if opts.IncludeUIElements {
		if ui := harvestUIElements(page.Root, article.Title, page.Location()); ui != "" {
			content = content + "\n\n" + ui
		}
	}

	return &domain.ExtractedContent{
		Title:    article.Title,
		Content:  content,
		SiteName: article.SiteName,
		Method:   domain.ExtractionPrimary,
	}, nil
}
