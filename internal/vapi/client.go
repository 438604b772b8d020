// Package vapi talks to the Vapi voice-platform management API.
package vapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api.vapi.ai"

// ErrNotConfigured is returned when no private key is set.
var ErrNotConfigured = errors.New("vapi: credentials not configured")

// Client is a minimal Vapi management API client.
type Client struct {
	baseURL    string
	privateKey string
	httpClient *http.Client
}

// NewClient creates a client. An empty key yields a client whose calls
// all fail with ErrNotConfigured; callers check Configured first.
func NewClient(privateKey string) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		privateKey: privateKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Configured reports whether a private key is present.
func (c *Client) Configured() bool {
	return c.privateKey != ""
}

// Call is a Vapi call record. Transcript fields stay raw because the
// platform varies their shape between string and array forms.
type Call struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Customer    Customer        `json:"customer"`
	CreatedAt   time.Time       `json:"createdAt"`
	StartedAt   time.Time       `json:"startedAt"`
	EndedAt     time.Time       `json:"endedAt"`
	EndedReason string          `json:"endedReason"`
	Transcript  json.RawMessage `json:"transcript,omitempty"`
	Artifact    *Artifact       `json:"artifact,omitempty"`
	Analysis    *Analysis       `json:"analysis,omitempty"`
}

type Customer struct {
	Number string `json:"number"`
}

// Artifact carries the post-call transcript payloads.
type Artifact struct {
	Transcript json.RawMessage `json:"transcript,omitempty"`
	Messages   json.RawMessage `json:"messages,omitempty"`
}

// Analysis carries the platform's post-call analysis.
type Analysis struct {
	Summary        string          `json:"summary"`
	StructuredData json.RawMessage `json:"structuredData,omitempty"`
}

// PhoneNumber is a provisioned inbound number.
type PhoneNumber struct {
	ID     string `json:"id"`
	Number string `json:"number"`
	Name   string `json:"name"`
}

// GetAssistant fetches the raw assistant object.
func (c *Client) GetAssistant(ctx context.Context, assistantID string) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, http.MethodGet, "/assistant/"+assistantID, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateAssistant patches the assistant. Only the provided fields are
// sent so dashboard settings like voice are preserved.
func (c *Client) UpdateAssistant(ctx context.Context, assistantID string, patch map[string]any) error {
	return c.do(ctx, http.MethodPatch, "/assistant/"+assistantID, patch, nil)
}

// ListCalls returns the most recent calls, newest first.
func (c *Client) ListCalls(ctx context.Context, limit int) ([]Call, error) {
	if limit <= 0 {
		limit = 50
	}
	path := "/call?limit=" + url.QueryEscape(fmt.Sprint(limit))

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	return decodeCallList(raw)
}

// GetCall fetches one call with its full transcript artifact.
func (c *Client) GetCall(ctx context.Context, id string) (*Call, error) {
	var call Call
	if err := c.do(ctx, http.MethodGet, "/call/"+id, nil, &call); err != nil {
		return nil, err
	}
	return &call, nil
}

// ListPhoneNumbers returns the provisioned inbound numbers.
func (c *Client) ListPhoneNumbers(ctx context.Context) ([]PhoneNumber, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/phone-number", nil, &raw); err != nil {
		return nil, err
	}

	var numbers []PhoneNumber
	if err := json.Unmarshal(raw, &numbers); err == nil {
		return numbers, nil
	}
	var wrapped struct {
		Data []PhoneNumber `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decoding phone numbers: %w", err)
	}
	return wrapped.Data, nil
}

// decodeCallList handles both the bare-array and wrapped list shapes
// the API has used.
func decodeCallList(raw json.RawMessage) ([]Call, error) {
	var calls []Call
	if err := json.Unmarshal(raw, &calls); err == nil {
		return calls, nil
	}
	var wrapped struct {
		Calls []Call `json:"calls"`
		Data  []Call `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decoding call list: %w", err)
	}
	if wrapped.Calls != nil {
		return wrapped.Calls, nil
	}
	return wrapped.Data, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.privateKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling vapi: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("vapi %s %s: status %d: %s", method, path, resp.StatusCode, apiErrorMessage(data))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding vapi response: %w", err)
	}
	return nil
}

func apiErrorMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &e) == nil && e.Message != "" {
		return e.Message
	}
	return string(body)
}
