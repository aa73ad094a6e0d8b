package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pagechat/pagechat-cli/internal/core/domain"
	"github.com/pagechat/pagechat-cli/internal/core/ports/driving"
)

var (
	chatNoRetrieve bool
	chatDocs       []string
)

var chatCmd = &cobra.Command{
	Use:   "chat [conversation-id] [message]",
	Short: "Send a message in a conversation",
	Long: `Sends a message and streams the assistant's answer, grounded in the
conversation's ingested pages. The answer cites its sources as
[title](url) markdown links.`,
	Args: cobra.ExactArgs(2),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().BoolVar(&chatNoRetrieve, "no-retrieve", false, "answer without page context")
	chatCmd.Flags().StringSliceVar(&chatDocs, "docs", nil, "document IDs widening the retrieval scope")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	conversationID, content := args[0], args[1]

	// The observer receives cumulative content; print only the suffix
	// beyond what was already shown.
	printed := 0
	observer := func(cumulative string) {
		if len(cumulative) > printed {
			cmd.Print(cumulative[printed:])
			printed = len(cumulative)
		}
	}

	msg, err := chatService.Send(cmd.Context(), conversationID, content, driving.TurnOptions{
		Retrieve:    !chatNoRetrieve,
		DocumentIDs: chatDocs,
		Observer:    observer,
	})
	if printed > 0 {
		cmd.Println()
	}
	if err != nil {
		if msg != nil && msg.State == domain.StateError {
			return fmt.Errorf("generation failed: %s", msg.Error)
		}
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("conversation %s not found (create one with 'pagechat conversation new')", conversationID)
		}
		return err
	}

	return nil
}
