package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var conversationCmd = &cobra.Command{
	Use:     "conversation",
	Aliases: []string{"conv"},
	Short:   "Manage conversations",
}

var conversationNewCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Create a new conversation",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conv, err := chatService.NewConversation(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("creating conversation: %w", err)
		}
		cmd.Printf("Created conversation %s (%q)\n", conv.ID, conv.Title)
		return nil
	},
}

var conversationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List conversations, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		convs, err := store.ConversationStore().ListConversations(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing conversations: %w", err)
		}
		if len(convs) == 0 {
			cmd.Println("No conversations yet.")
			return nil
		}
		for _, conv := range convs {
			cmd.Printf("%s  %-30q  %d messages  %s\n",
				conv.ID, conv.Title, conv.MessageCount,
				conv.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var conversationShowCmd = &cobra.Command{
	Use:   "show [conversation-id]",
	Short: "Show a conversation's messages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		msgs, err := chatService.History(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("loading history: %w", err)
		}
		for _, msg := range msgs {
			cmd.Printf("[%s] %s\n", msg.Role, msg.Content)
			if msg.Error != "" {
				cmd.Printf("  (failed: %s)\n", msg.Error)
			}
		}
		return nil
	},
}

var conversationDocsCmd = &cobra.Command{
	Use:   "docs [conversation-id]",
	Short: "List a conversation's ingested pages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		docs, err := store.DocumentStore().ListDocuments(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("listing documents: %w", err)
		}
		if len(docs) == 0 {
			cmd.Println("No pages ingested yet.")
			return nil
		}
		for _, doc := range docs {
			cmd.Printf("%s  %q  %s  %d chars (%s)\n",
				doc.ID, doc.Title, doc.URL, doc.Length, doc.ExtractionMethod)
			if doc.Error != "" {
				cmd.Printf("  (ingest error: %s)\n", doc.Error)
			}
		}
		return nil
	},
}

func init() {
	conversationCmd.AddCommand(conversationNewCmd)
	conversationCmd.AddCommand(conversationListCmd)
	conversationCmd.AddCommand(conversationShowCmd)
	conversationCmd.AddCommand(conversationDocsCmd)
	rootCmd.AddCommand(conversationCmd)
}
