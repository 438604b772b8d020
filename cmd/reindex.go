package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/campushq/voicedesk/internal/config"
	"github.com/campushq/voicedesk/internal/db"
	"github.com/campushq/voicedesk/internal/embeddings"
	"github.com/campushq/voicedesk/internal/knowledge"
	"github.com/campushq/voicedesk/internal/rag"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild chunk embeddings for every knowledge document",
	Long: `Re-chunks and re-embeds all knowledge documents. Run this after
changing the embedding model or importing documents in bulk.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if cfg.OpenAIAPIKey == "" {
			return fmt.Errorf("openai_api_key is required for reindexing")
		}

		database, err := db.Open(filepath.Join(cfg.DataDir, "voicedesk.db"))
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		store := knowledge.NewStore(database)
		embedder := embeddings.NewOpenAIEmbedder(cfg.OpenAIAPIKey, embeddings.OpenAIModel(cfg.EmbeddingModel))
		service := rag.NewService(store, embedder)

		ctx := context.Background()
		docs, err := store.List(ctx)
		if err != nil {
			return fmt.Errorf("listing documents: %w", err)
		}
		if len(docs) == 0 {
			fmt.Println("No knowledge documents to index.")
			return nil
		}

		bar := progressbar.NewOptions(len(docs),
			progressbar.OptionSetDescription("Indexing documents"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)

		indexed, failed := 0, 0
		for _, doc := range docs {
			bar.Describe(doc.Title)
			result := service.IndexByID(ctx, doc.ID)
			if result.Success {
				indexed++
			} else {
				failed++
				if verbose {
					fmt.Printf("\n%s: %s\n", doc.Title, result.Message)
				}
			}
			bar.Add(1)
		}
		bar.Finish()

		fmt.Printf("Indexed %d documents (%d failed or skipped)\n", indexed, failed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reindexCmd)
}
