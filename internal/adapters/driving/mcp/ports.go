package mcp

import (
	"github.com/pagechat/pagechat-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Ingest runs the page ingestion write path.
	Ingest driving.IngestService

	// Retrieval answers scoped similarity queries.
	Retrieval driving.RetrievalService

	// Chat orchestrates conversational turns.
	Chat driving.ChatService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	if p.Ingest == nil {
		return ErrMissingIngestService
	}
	// Chat is optional; the chat tool is only registered when present
	return nil
}
