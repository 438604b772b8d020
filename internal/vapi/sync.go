package vapi

import (
	"context"
	"fmt"
	"log"

	"github.com/campushq/voicedesk/internal/agent"
	"github.com/campushq/voicedesk/internal/college"
	"github.com/campushq/voicedesk/internal/enrich"
	"github.com/campushq/voicedesk/internal/prompt"
)

// Syncer pushes the current college profile and agent configuration to
// the hosted assistant so the voice platform speaks from fresh data.
type Syncer struct {
	client      *Client
	assistantID string
	college     *college.Store
	agent       *agent.Store
	enricher    *enrich.Enricher
}

func NewSyncer(client *Client, assistantID string, collegeStore *college.Store, agentStore *agent.Store, enricher *enrich.Enricher) *Syncer {
	return &Syncer{
		client:      client,
		assistantID: assistantID,
		college:     collegeStore,
		agent:       agentStore,
		enricher:    enricher,
	}
}

// SyncResult reports the outcome of an assistant sync.
type SyncResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Sync rebuilds the system prompt and patches the assistant. Voice and
// other dashboard settings are left untouched; only the model, prompt,
// and greeting fields are updated.
func (s *Syncer) Sync(ctx context.Context) SyncResult {
	if !s.client.Configured() || s.assistantID == "" {
		log.Printf("vapi sync skipped: credentials not configured")
		return SyncResult{Message: "Vapi credentials not configured"}
	}

	info, err := s.college.Get(ctx)
	if err != nil {
		return SyncResult{Message: err.Error()}
	}
	if info == nil {
		return SyncResult{Message: "No college info found in database"}
	}
	cfg, err := s.agent.Get(ctx)
	if err != nil {
		return SyncResult{Message: err.Error()}
	}

	var liveURL string
	ragEnabled := false
	if cfg != nil {
		liveURL = cfg.LiveDataURL
		ragEnabled = cfg.RAGEnabled
	}
	extra := s.enricher.Enrich(ctx, liveURL, ragEnabled)
	systemPrompt := prompt.BuildSystemPrompt(info, cfg, extra)

	firstMessage := prompt.DefaultFirstMessage(info.Name)
	endCallMessage := prompt.DefaultEndCallMessage(info.Name)
	if cfg != nil && cfg.FirstMessage != "" {
		firstMessage = cfg.FirstMessage
	}
	if cfg != nil && cfg.EndCallMessage != "" {
		endCallMessage = cfg.EndCallMessage
	}

	patch := map[string]any{
		"model": map[string]any{
			"provider":    "openai",
			"model":       "gpt-3.5-turbo",
			"messages":    []map[string]any{{"role": "system", "content": systemPrompt}},
			"temperature": 0.7,
			"maxTokens":   500,
		},
		"firstMessage":           firstMessage,
		"endCallMessage":         endCallMessage,
		"name":                   info.Name + " AI Assistant",
		"endCallFunctionEnabled": true,
		"recordingEnabled":       false,
	}
	if err := s.client.UpdateAssistant(ctx, s.assistantID, patch); err != nil {
		log.Printf("vapi sync error: %v", err)
		return SyncResult{Message: err.Error()}
	}

	log.Printf("vapi assistant synced with latest college data (%s)", info.Name)
	return SyncResult{Success: true, Message: fmt.Sprintf("Assistant updated with data from %q", info.Name)}
}
