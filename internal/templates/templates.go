// Package templates manages the message templates used for post-call
// follow-ups over SMS, email, and WhatsApp.
package templates

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campushq/voicedesk/internal/db"
)

// Template is one follow-up message blueprint. Variables lists the
// placeholder names the body accepts, e.g. "college" or "summary".
type Template struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Channel   string    `json:"channel"`
	Subject   string    `json:"subject,omitempty"`
	Body      string    `json:"body"`
	Enabled   bool      `json:"enabled"`
	Variables []string  `json:"variables"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Render substitutes {name} placeholders in the body.
func (t *Template) Render(values map[string]string) string {
	out := t.Body
	for k, v := range values {
		out = strings.ReplaceAll(out, "{"+k+"}", v)
	}
	return out
}

// Store persists message templates.
type Store struct {
	db *db.DB
}

func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// List returns all templates, newest first.
func (s *Store) List(ctx context.Context) ([]Template, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, channel, subject, body, enabled, variables, created_at, updated_at
		 FROM message_templates ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	defer rows.Close()

	var list []Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *t)
	}
	return list, rows.Err()
}

// Get returns one template, or nil.
func (s *Store) Get(ctx context.Context, id string) (*Template, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, channel, subject, body, enabled, variables, created_at, updated_at
		 FROM message_templates WHERE id = ?`, id)
	t, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return t, err
}

// FirstEnabled returns the newest enabled template for a channel, or
// nil when none exists. The webhook uses this to pick the SMS body.
func (s *Store) FirstEnabled(ctx context.Context, channel string) (*Template, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, channel, subject, body, enabled, variables, created_at, updated_at
		 FROM message_templates WHERE channel = ? AND enabled = 1
		 ORDER BY created_at DESC LIMIT 1`, channel)
	t, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return t, err
}

// Create inserts a template.
func (s *Store) Create(ctx context.Context, t *Template) error {
	if t.Name == "" || t.Body == "" {
		return fmt.Errorf("name and body are required")
	}
	switch t.Channel {
	case "email", "sms", "whatsapp":
	default:
		return fmt.Errorf("invalid channel %q", t.Channel)
	}
	t.ID = uuid.New().String()
	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now
	if t.Variables == nil {
		t.Variables = []string{}
	}
	vars, err := json.Marshal(t.Variables)
	if err != nil {
		return fmt.Errorf("encoding variables: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO message_templates (id, name, channel, subject, body, enabled, variables, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Channel, t.Subject, t.Body, t.Enabled, string(vars), t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting template: %w", err)
	}
	return nil
}

// Update replaces a template's editable fields. Returns nil when the
// template does not exist.
func (s *Store) Update(ctx context.Context, id string, t *Template) (*Template, error) {
	if t.Variables == nil {
		t.Variables = []string{}
	}
	vars, err := json.Marshal(t.Variables)
	if err != nil {
		return nil, fmt.Errorf("encoding variables: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE message_templates SET name = ?, channel = ?, subject = ?, body = ?, enabled = ?, variables = ?, updated_at = ?
		 WHERE id = ?`,
		t.Name, t.Channel, t.Subject, t.Body, t.Enabled, string(vars), time.Now().UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("updating template: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}
	return s.Get(ctx, id)
}

// Toggle flips the enabled flag. Returns nil when the template does
// not exist.
func (s *Store) Toggle(ctx context.Context, id string) (*Template, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE message_templates SET enabled = NOT enabled, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("toggling template: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}
	return s.Get(ctx, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (*Template, error) {
	var t Template
	var vars string
	err := row.Scan(&t.ID, &t.Name, &t.Channel, &t.Subject, &t.Body, &t.Enabled, &vars, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(vars), &t.Variables); err != nil {
		return nil, fmt.Errorf("decoding variables: %w", err)
	}
	return &t, nil
}
