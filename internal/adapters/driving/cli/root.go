// Package cli implements the pagechat command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	configfile "github.com/pagechat/pagechat-cli/internal/adapters/driven/config/file"
	embeddingopenai "github.com/pagechat/pagechat-cli/internal/adapters/driven/embedding/openai"
	llmopenai "github.com/pagechat/pagechat-cli/internal/adapters/driven/llm/openai"
	"github.com/pagechat/pagechat-cli/internal/adapters/driven/storage/sqlite"
	"github.com/pagechat/pagechat-cli/internal/chunker"
	"github.com/pagechat/pagechat-cli/internal/core/ports/driven"
	"github.com/pagechat/pagechat-cli/internal/core/ports/driving"
	"github.com/pagechat/pagechat-cli/internal/core/services"
	"github.com/pagechat/pagechat-cli/internal/extractor"
	"github.com/pagechat/pagechat-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	verbose bool
	dataDir string
)

// Shared services, wired once per invocation in initServices.
var (
	store             *sqlite.Store
	configStore       driven.ConfigStore
	embeddingService  driven.EmbeddingService
	completionService driven.CompletionService
	ingestService     driving.IngestService
	retrievalService  driving.RetrievalService
	chatService       driving.ChatService
)

var rootCmd = &cobra.Command{
	Use:   "pagechat",
	Short: "Chat with web pages from your terminal",
	Long: `pagechat ingests web page snapshots, indexes their content for
semantic retrieval, and answers questions about them in grounded,
citation-bearing conversations.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}
		return initServices()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if store != nil {
			store.Close() //nolint:errcheck
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.pagechat/data)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// initServices wires the adapters and core services. The OpenAI services
// are optional: without an API key, ingestion and chat degrade to explicit
// unavailability errors rather than failing at startup.
func initServices() error {
	var err error

	configStore, err = configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	store, err = sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		apiKey = configStore.GetString("openai.api_key")
	}

	if apiKey != "" {
		embeddingService, err = embeddingopenai.New(embeddingopenai.Config{
			APIKey:  apiKey,
			BaseURL: configStore.GetString("openai.base_url"),
			Model:   configStore.GetString("openai.embedding_model"),
		})
		if err != nil {
			return fmt.Errorf("configuring embedding service: %w", err)
		}

		completionService, err = llmopenai.New(llmopenai.Config{
			APIKey:  apiKey,
			BaseURL: configStore.GetString("openai.base_url"),
			Model:   configStore.GetString("openai.model"),
		})
		if err != nil {
			return fmt.Errorf("configuring completion service: %w", err)
		}
	} else {
		logger.Debug("No OpenAI API key configured; embedding and completion disabled")
	}

	chunkOpts := []chunker.Option{}
	if size := configStore.GetInt("chunker.size"); size > 0 {
		chunkOpts = append(chunkOpts, chunker.WithChunkSize(size))
	}
	if overlap := configStore.GetInt("chunker.overlap"); overlap > 0 {
		chunkOpts = append(chunkOpts, chunker.WithOverlap(overlap))
	}
	chk, err := chunker.New(chunkOpts...)
	if err != nil {
		return fmt.Errorf("configuring chunker: %w", err)
	}

	docStore := store.DocumentStore()
	chunkStore := store.ChunkStore()

	ingestService = services.NewIngestService(extractor.New(), chk, embeddingService, docStore, chunkStore)
	retrievalService = services.NewRetrievalService(embeddingService, chunkStore, docStore)
	chatService = services.NewChatService(store.ConversationStore(), retrievalService, completionService)

	return nil
}
