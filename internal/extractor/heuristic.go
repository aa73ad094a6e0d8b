package extractor

import (
	"errors"

	"github.com/pagechat/pagechat-cli/internal/core/domain"
)

// heuristicStrategy is the custom extraction fallback: remove noise via the
// declarative rule groups, locate the main content container, then emit the
// container's content elements through a single forward traversal.
type heuristicStrategy struct{}

func (s *heuristicStrategy) Name() string {
	return "heuristic"
}

func (s *heuristicStrategy) Extract(page *Page, opts Options) (*domain.ExtractedContent, error) {
	doc := cloneNode(page.Root)

	applyRemovalRules(doc, alwaysRemoveRules)
	if !opts.IncludeUIElements {
		applyRemovalRules(doc, uiRemoveRules)
	}

	// With UI elements requested the whole body is the container; noise
	// that would hide the chrome was deliberately kept above.
	var container = findBody(doc)
	if !opts.IncludeUIElements {
		container = findMainContent(doc)
	}

	tables := extractTables(container)
	content := formatContent(container, tables)
	method := domain.ExtractionFallback

	if len(content) < rawFallbackThreshold {
		content = rawFlatten(textContent(container))
		method = domain.ExtractionRawFallback
	}

	if content == "" {
		return nil, errors.New("no content in document")
	}

	return &domain.ExtractedContent{
		Title:   page.Title(),
		Content: content,
		Method:  method,
	}, nil
}
