package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pagechat/pagechat-cli/internal/core/domain"
	"github.com/pagechat/pagechat-cli/internal/core/ports/driving"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query          string   `json:"query" jsonschema:"the search query to match against ingested page content"`
	ConversationID string   `json:"conversation_id" jsonschema:"the conversation whose pages are in scope"`
	DocumentIDs    []string `json:"document_ids,omitempty" jsonschema:"optional document IDs widening the scope"`
	Limit          int      `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 5)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
	Title string  `json:"title,omitempty"`
	URL   string  `json:"url,omitempty"`
}

// IngestInput is the input schema for the ingest tool.
type IngestInput struct {
	ConversationID    string `json:"conversation_id" jsonschema:"the conversation the page belongs to"`
	URL               string `json:"url,omitempty" jsonschema:"the page location the snapshot was taken from"`
	HTML              string `json:"html" jsonschema:"the raw HTML snapshot to ingest"`
	IncludeUIElements bool   `json:"include_ui_elements,omitempty" jsonschema:"also harvest header/navigation/sidebar/footer regions"`
}

// IngestOutput is the output schema for the ingest tool.
type IngestOutput struct {
	DocumentID       string `json:"document_id"`
	Title            string `json:"title"`
	ExtractionMethod string `json:"extraction_method"`
	Length           int    `json:"length"`
	ChunkCount       int    `json:"chunk_count"`
}

// ChatInput is the input schema for the chat tool.
type ChatInput struct {
	ConversationID string `json:"conversation_id" jsonschema:"the conversation to send the message to"`
	Message        string `json:"message" jsonschema:"the user message"`
	Retrieve       bool   `json:"retrieve,omitempty" jsonschema:"retrieve page context before answering"`
}

// ChatOutput is the output schema for the chat tool.
type ChatOutput struct {
	MessageID string `json:"message_id"`
	Content   string `json:"content"`
	State     string `json:"state"`
	Error     string `json:"error,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search the ingested page content of a conversation",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_page",
		Description: "Extract and index a web page snapshot",
	}, s.handleIngest)

	if s.ports.Chat != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "chat",
			Description: "Send a message in a conversation, grounded in its ingested pages",
		}, s.handleChat)
	}
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	results, err := s.ports.Retrieval.Search(ctx, domain.RetrievalQuery{
		ConversationID: input.ConversationID,
		DocumentIDs:    input.DocumentIDs,
		QueryText:      input.Query,
		Limit:          input.Limit,
	})
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = SearchResultOutput{
			Text:  results[i].Text,
			Score: results[i].Score,
			Title: results[i].Title,
			URL:   results[i].URL,
		}
	}

	return nil, output, nil
}

// handleIngest handles the ingest_page tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	result, err := s.ports.Ingest.IngestPage(ctx, driving.IngestRequest{
		ConversationID:    input.ConversationID,
		URL:               input.URL,
		HTML:              []byte(input.HTML),
		IncludeUIElements: input.IncludeUIElements,
	})
	if err != nil {
		return nil, IngestOutput{}, err
	}

	return nil, IngestOutput{
		DocumentID:       result.Document.ID,
		Title:            result.Document.Title,
		ExtractionMethod: string(result.Document.ExtractionMethod),
		Length:           result.Document.Length,
		ChunkCount:       result.ChunkCount,
	}, nil
}

// handleChat handles the chat tool invocation.
func (s *Server) handleChat(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ChatInput,
) (*mcp.CallToolResult, ChatOutput, error) {
	msg, err := s.ports.Chat.Send(ctx, input.ConversationID, input.Message, driving.TurnOptions{
		Retrieve: input.Retrieve,
	})
	if msg == nil && err != nil {
		return nil, ChatOutput{}, err
	}

	output := ChatOutput{
		MessageID: msg.ID,
		Content:   msg.Content,
		State:     string(msg.State),
		Error:     msg.Error,
	}
	return nil, output, nil
}
