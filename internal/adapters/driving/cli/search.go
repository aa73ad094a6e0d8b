package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pagechat/pagechat-cli/internal/core/domain"
)

var (
	searchLimit int
	searchDocs  []string
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [conversation-id] [query]",
	Short: "Search the ingested pages of a conversation",
	Long: `Embeds the query and returns the most similar chunks from the
conversation's ingested pages, ranked by cosine similarity.`,
	Args: cobra.ExactArgs(2),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", domain.DefaultRetrievalLimit, "maximum number of results")
	searchCmd.Flags().StringSliceVar(&searchDocs, "docs", nil, "document IDs widening the scope")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	results, err := retrievalService.Search(cmd.Context(), domain.RetrievalQuery{
		ConversationID: args[0],
		DocumentIDs:    searchDocs,
		QueryText:      args[1],
		Limit:          searchLimit,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, result := range results {
		title := result.Title
		if title == "" {
			title = result.URL
		}
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, title, result.Score)
		if result.URL != "" {
			cmd.Printf("      %s\n", result.URL)
		}
		cmd.Printf("      %s\n", snippet(result.Text, 160))
		cmd.Println()
	}

	return nil
}

// snippet truncates text to at most n runes for display.
func snippet(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
