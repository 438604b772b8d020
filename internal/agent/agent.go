package agent

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/campushq/voicedesk/internal/db"
)

// EscalationRule maps a caller condition to the action the assistant
// should take, e.g. "complaint" -> "transfer_to_human".
type EscalationRule struct {
	Condition string `json:"condition"`
	Action    string `json:"action"`
}

// Config controls the voice assistant's behavior. The database holds a
// single row; empty optional fields fall back to built-in defaults at
// prompt-build time.
type Config struct {
	Enabled         bool             `json:"enabled"`
	FirstMessage    string           `json:"firstMessage,omitempty"`
	EndCallMessage  string           `json:"endCallMessage,omitempty"`
	SystemPrompt    string           `json:"systemPrompt"`
	Tone            string           `json:"tone"`
	Language        string           `json:"language"`
	FallbackMessage string           `json:"fallbackMessage,omitempty"`
	EscalationRules []EscalationRule `json:"escalationRules"`
	VapiAssistantID string           `json:"vapiAssistantId,omitempty"`
	LiveDataURL     string           `json:"liveDataUrl,omitempty"`
	RAGEnabled      bool             `json:"ragEnabled"`
	LastModified    time.Time        `json:"lastModified"`
}

// Store persists the singleton assistant configuration.
type Store struct {
	db *db.DB
}

func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Get returns the assistant config, or nil when none has been seeded.
func (s *Store) Get(ctx context.Context) (*Config, error) {
	var c Config
	var rules string
	err := s.db.QueryRowContext(ctx,
		`SELECT enabled, first_message, end_call_message, system_prompt, tone, language,
		        fallback_message, escalation_rules, vapi_assistant_id, live_data_url,
		        rag_enabled, last_modified
		 FROM agent_config WHERE id = 1`,
	).Scan(&c.Enabled, &c.FirstMessage, &c.EndCallMessage, &c.SystemPrompt, &c.Tone, &c.Language,
		&c.FallbackMessage, &rules, &c.VapiAssistantID, &c.LiveDataURL,
		&c.RAGEnabled, &c.LastModified)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading agent config: %w", err)
	}
	if err := json.Unmarshal([]byte(rules), &c.EscalationRules); err != nil {
		return nil, fmt.Errorf("decoding escalation rules: %w", err)
	}
	return &c, nil
}

// Upsert writes the config, creating the singleton row if needed.
func (s *Store) Upsert(ctx context.Context, c *Config) error {
	if c.Tone == "" {
		c.Tone = "formal"
	}
	if c.Language == "" {
		c.Language = "English"
	}
	if c.EscalationRules == nil {
		c.EscalationRules = []EscalationRule{}
	}
	rules, err := json.Marshal(c.EscalationRules)
	if err != nil {
		return fmt.Errorf("encoding escalation rules: %w", err)
	}
	c.LastModified = time.Now().UTC()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO agent_config (
		    id, enabled, first_message, end_call_message, system_prompt, tone, language,
		    fallback_message, escalation_rules, vapi_assistant_id, live_data_url,
		    rag_enabled, last_modified
		 ) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		    enabled = excluded.enabled,
		    first_message = excluded.first_message,
		    end_call_message = excluded.end_call_message,
		    system_prompt = excluded.system_prompt,
		    tone = excluded.tone,
		    language = excluded.language,
		    fallback_message = excluded.fallback_message,
		    escalation_rules = excluded.escalation_rules,
		    vapi_assistant_id = excluded.vapi_assistant_id,
		    live_data_url = excluded.live_data_url,
		    rag_enabled = excluded.rag_enabled,
		    last_modified = excluded.last_modified`,
		c.Enabled, c.FirstMessage, c.EndCallMessage, c.SystemPrompt, c.Tone, c.Language,
		c.FallbackMessage, string(rules), c.VapiAssistantID, c.LiveDataURL,
		c.RAGEnabled, c.LastModified,
	)
	if err != nil {
		return fmt.Errorf("saving agent config: %w", err)
	}
	return nil
}
