package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pagechat/pagechat-cli/internal/envelope"
	"github.com/pagechat/pagechat-cli/internal/extractor"
)

var (
	extractURL     string
	extractUI      bool
	extractJSON    bool
	extractTimeout time.Duration
)

var extractCmd = &cobra.Command{
	Use:   "extract [html-file]",
	Short: "Extract structured text from a page snapshot",
	Long: `Runs the extraction chain over an HTML page snapshot and prints the
structured text without storing anything. Reads from stdin when no file
is given. Useful for inspecting what ingestion would index.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractURL, "url", "", "page location the snapshot was taken from")
	extractCmd.Flags().BoolVar(&extractUI, "ui", false, "also harvest header/navigation/sidebar/footer regions")
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "output the full response envelope as JSON")
	extractCmd.Flags().DurationVar(&extractTimeout, "timeout", 30*time.Second, "extraction timeout")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	var html []byte
	var err error
	if len(args) > 0 {
		html, err = os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading snapshot: %w", err)
		}
	} else {
		html, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading snapshot from stdin: %w", err)
		}
	}

	// Extraction runs behind the envelope dispatcher, the same
	// request/response surface a page execution context would use.
	dispatcher := envelope.NewDispatcher()
	transport := func(req envelope.Request) error {
		go func() {
			dispatcher.Deliver(extractResponse(req, html))
		}()
		return nil
	}

	req := envelope.NewRequest(extractURL, extractUI)
	resp, err := dispatcher.Send(cmd.Context(), transport, req, extractTimeout)
	if err != nil {
		return fmt.Errorf("extraction request: %w", err)
	}

	if extractJSON {
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling response: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if !resp.Success {
		return fmt.Errorf("extraction failed: %s", resp.Error)
	}

	cmd.Println(resp.Text)
	return nil
}

// extractResponse runs the extraction chain and wraps the result in a
// response envelope.
func extractResponse(req envelope.Request, html []byte) envelope.Response {
	page, err := extractor.NewPage(html, req.DocumentRef)
	if err != nil {
		return envelope.Response{ID: req.ID, Error: err.Error()}
	}

	result := extractor.New().Extract(page, extractor.Options{
		IncludeUIElements: req.IncludeUIElements,
	})

	return envelope.Response{
		ID:      req.ID,
		Success: true,
		Text:    result.Content,
		Metadata: &envelope.Metadata{
			Title:     result.Title,
			Excerpt:   result.Excerpt,
			SiteName:  result.SiteName,
			URL:       result.URL,
			Timestamp: result.Timestamp,
		},
	}
}
