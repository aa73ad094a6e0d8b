package domain

import "time"

// ExtractionMethod identifies which extraction strategy produced the content.
type ExtractionMethod string

const (
	// ExtractionPrimary means the readability-style parser succeeded.
	ExtractionPrimary ExtractionMethod = "primary"

	// ExtractionFallback means the heuristic container extraction was used.
	ExtractionFallback ExtractionMethod = "fallback"

	// ExtractionRawFallback means only flattened raw text could be produced.
	ExtractionRawFallback ExtractionMethod = "rawFallback"
)

// ExtractedContent is the result of a single extraction call.
// It is transient: the caller either hands it to the chunker or discards it.
//
// Invariants: Excerpt is a prefix of Content (at most 150 characters plus an
// ellipsis marker) and Length equals len(Content).
type ExtractedContent struct {
	// Title is the page title.
	Title string

	// Content is the structured plain text.
	Content string

	// Excerpt is the first 150 characters of Content plus "...".
	Excerpt string

	// Length is the character length of Content.
	Length int

	// SiteName is the hostname derived from URL.
	SiteName string

	// URL is the page location the snapshot was taken from.
	URL string

	// Timestamp is when the extraction ran.
	Timestamp time.Time

	// Method records the strategy that produced Content.
	Method ExtractionMethod
}
