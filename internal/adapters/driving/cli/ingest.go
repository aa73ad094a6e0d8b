package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pagechat/pagechat-cli/internal/core/ports/driving"
)

var (
	ingestURL string
	ingestUI  bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [conversation-id] [html-file]",
	Short: "Ingest a page snapshot into a conversation",
	Long: `Extracts the main content of an HTML page snapshot, splits it into
overlapping chunks, embeds them and stores them in the conversation's
index. Reads from stdin when no file is given.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestURL, "url", "", "page location the snapshot was taken from")
	ingestCmd.Flags().BoolVar(&ingestUI, "ui", false, "also harvest header/navigation/sidebar/footer regions")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	conversationID := args[0]

	var html []byte
	var err error
	if len(args) > 1 {
		html, err = os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("reading snapshot: %w", err)
		}
	} else {
		html, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading snapshot from stdin: %w", err)
		}
	}

	result, err := ingestService.IngestPage(cmd.Context(), driving.IngestRequest{
		ConversationID:    conversationID,
		URL:               ingestURL,
		HTML:              html,
		IncludeUIElements: ingestUI,
	})
	if err != nil {
		return fmt.Errorf("ingesting page: %w", err)
	}

	cmd.Printf("Ingested %q (%s, %d chars) as document %s\n",
		result.Document.Title, result.Document.ExtractionMethod,
		result.Document.Length, result.Document.ID)
	cmd.Printf("Indexed %d chunks\n", result.ChunkCount)
	return nil
}
