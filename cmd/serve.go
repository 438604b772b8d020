package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/campushq/voicedesk/internal/agent"
	"github.com/campushq/voicedesk/internal/calls"
	"github.com/campushq/voicedesk/internal/college"
	"github.com/campushq/voicedesk/internal/config"
	"github.com/campushq/voicedesk/internal/db"
	"github.com/campushq/voicedesk/internal/embeddings"
	"github.com/campushq/voicedesk/internal/enrich"
	"github.com/campushq/voicedesk/internal/knowledge"
	"github.com/campushq/voicedesk/internal/leads"
	"github.com/campushq/voicedesk/internal/live"
	"github.com/campushq/voicedesk/internal/livedata"
	"github.com/campushq/voicedesk/internal/notify"
	"github.com/campushq/voicedesk/internal/rag"
	"github.com/campushq/voicedesk/internal/server"
	"github.com/campushq/voicedesk/internal/templates"
	"github.com/campushq/voicedesk/internal/vapi"
	"github.com/campushq/voicedesk/internal/webhook"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the voicedesk API server",
	Long: `Starts the HTTP server: admin API, public college/AI endpoints, the
voice platform webhook and the live call WebSocket feed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if servePort != 0 {
			cfg.Port = servePort
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		database, err := db.Open(filepath.Join(cfg.DataDir, "voicedesk.db"))
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		collegeStore := college.NewStore(database)
		agentStore := agent.NewStore(database)
		knowledgeStore := knowledge.NewStore(database)
		leadStore := leads.NewStore(database)
		callStore := calls.NewStore(database)
		templateStore := templates.NewStore(database)

		embedder := embeddings.NewOpenAIEmbedder(cfg.OpenAIAPIKey, embeddings.OpenAIModel(cfg.EmbeddingModel))
		ragService := rag.NewService(knowledgeStore, embedder)
		enricher := enrich.New(livedata.NewFetcher(), ragService)

		smsSender := notify.NewTwilioSender(cfg.Twilio)
		vapiClient := vapi.NewClient(cfg.Vapi.PrivateKey)
		hub := live.NewHub()

		if !vapiClient.Configured() {
			log.Println("vapi credentials not configured; voice platform features disabled")
		}

		srv := server.New(server.Config{
			Port:       cfg.Port,
			ClientURL:  cfg.ClientURL,
			AdminToken: cfg.AdminToken,
		}, server.Deps{
			College:   collegeStore,
			Agent:     agentStore,
			Knowledge: knowledgeStore,
			Leads:     leadStore,
			Calls:     callStore,
			Templates: templateStore,
			RAG:       ragService,
			Vapi:      vapiClient,
			VapiSync:  vapi.NewSyncer(vapiClient, cfg.Vapi.AssistantID, collegeStore, agentStore, enricher),
			LeadSync:  leads.NewSyncer(leadStore, vapiClient),
			Webhook: webhook.NewHandler(collegeStore, agentStore, leadStore, callStore,
				enricher, smsSender, templateStore, hub, cfg.WebsiteURL),
			Hub:         hub,
			AssistantID: cfg.Vapi.AssistantID,
		})

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "override the configured port")
	rootCmd.AddCommand(serveCmd)
}
