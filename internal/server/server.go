// Package server assembles the HTTP API from the feature packages.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/campushq/voicedesk/internal/agent"
	"github.com/campushq/voicedesk/internal/ai"
	"github.com/campushq/voicedesk/internal/auth"
	"github.com/campushq/voicedesk/internal/calls"
	"github.com/campushq/voicedesk/internal/college"
	"github.com/campushq/voicedesk/internal/knowledge"
	"github.com/campushq/voicedesk/internal/leads"
	"github.com/campushq/voicedesk/internal/live"
	"github.com/campushq/voicedesk/internal/rag"
	"github.com/campushq/voicedesk/internal/templates"
	"github.com/campushq/voicedesk/internal/vapi"
	"github.com/campushq/voicedesk/internal/webhook"
)

// Config holds server configuration.
type Config struct {
	Port       int
	ClientURL  string
	AdminToken string
}

// Deps collects the feature stores and services the router mounts.
type Deps struct {
	College   *college.Store
	Agent     *agent.Store
	Knowledge *knowledge.Store
	Leads     *leads.Store
	Calls     *calls.Store
	Templates *templates.Store
	RAG       *rag.Service
	Vapi      *vapi.Client
	VapiSync  *vapi.Syncer
	LeadSync  *leads.Syncer
	Webhook   *webhook.Handler
	Hub       *live.Hub
	// AssistantID is the hosted assistant patched by sync.
	AssistantID string
}

// Server is the voicedesk HTTP server.
type Server struct {
	cfg        Config
	router     chi.Router
	httpServer *http.Server
}

// New creates the server and mounts every feature route.
func New(cfg Config, deps Deps) *Server {
	s := &Server{cfg: cfg}
	s.router = s.buildRouter(deps)
	return s
}

func (s *Server) buildRouter(deps Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.ClientURL != "" {
		corsOpts.AllowedOrigins = append(corsOpts.AllowedOrigins, s.cfg.ClientURL)
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Public surface: the widget, the website, and the platform
	// webhook hit these without credentials.
	college.RegisterPublicRoutes(r, deps.College)
	ai.RegisterRoutes(r, deps.College)
	calls.RegisterPublicRoutes(r, deps.Calls)
	deps.Webhook.RegisterRoutes(r)
	deps.Hub.RegisterRoutes(r)

	// Admin surface.
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireToken(s.cfg.AdminToken))

		college.RegisterAdminRoutes(r, deps.College)
		agent.RegisterRoutes(r, deps.Agent)
		knowledge.RegisterRoutes(r, deps.Knowledge, deps.RAG)
		leads.RegisterRoutes(r, deps.Leads, deps.LeadSync)
		calls.RegisterAdminRoutes(r, deps.Calls, deps.College, deps.Vapi)
		templates.RegisterRoutes(r, deps.Templates)
		vapi.RegisterRoutes(r, deps.Vapi, deps.AssistantID, deps.VapiSync)
	})

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("voicedesk server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
