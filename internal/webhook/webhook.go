// Package webhook handles the voice platform's server events: tool
// calls during the admission flow, transient assistant requests, and
// post-call reports.
package webhook

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/campushq/voicedesk/internal/agent"
	"github.com/campushq/voicedesk/internal/calls"
	"github.com/campushq/voicedesk/internal/college"
	"github.com/campushq/voicedesk/internal/enrich"
	"github.com/campushq/voicedesk/internal/leads"
	"github.com/campushq/voicedesk/internal/notify"
	"github.com/campushq/voicedesk/internal/prompt"
	"github.com/campushq/voicedesk/internal/templates"
	"github.com/campushq/voicedesk/internal/transcript"
)

// Broadcaster pushes webhook events to the live monitor.
type Broadcaster interface {
	Broadcast(eventType, callID string, data any)
}

// Handler processes Vapi webhook events.
type Handler struct {
	college    *college.Store
	agent      *agent.Store
	leads      *leads.Store
	calls      *calls.Store
	enricher   *enrich.Enricher
	sms        notify.SMSSender
	templates  *templates.Store
	live       Broadcaster
	websiteURL string
}

func NewHandler(
	collegeStore *college.Store,
	agentStore *agent.Store,
	leadStore *leads.Store,
	callStore *calls.Store,
	enricher *enrich.Enricher,
	sms notify.SMSSender,
	templateStore *templates.Store,
	live Broadcaster,
	websiteURL string,
) *Handler {
	return &Handler{
		college:    collegeStore,
		agent:      agentStore,
		leads:      leadStore,
		calls:      callStore,
		enricher:   enricher,
		sms:        sms,
		templates:  templateStore,
		live:       live,
		websiteURL: websiteURL,
	}
}

// RegisterRoutes mounts the webhook endpoint. It is unauthenticated;
// the platform calls it directly.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/webhook/vapi", h.handle)
}

type payload struct {
	Message message `json:"message"`
}

type message struct {
	Type                 string          `json:"type"`
	ToolCallList         []toolCall      `json:"toolCallList"`
	ToolWithToolCallList []wrappedTool   `json:"toolWithToolCallList"`
	Call                 *callInfo       `json:"call"`
	Artifact             *artifact       `json:"artifact"`
	Analysis             *analysis       `json:"analysis"`
	EndedReason          string          `json:"endedReason"`
	Transcript           json.RawMessage `json:"transcript"`
}

type callInfo struct {
	ID          string    `json:"id"`
	Customer    customer  `json:"customer"`
	StartedAt   time.Time `json:"startedAt"`
	EndedAt     time.Time `json:"endedAt"`
	EndedReason string    `json:"endedReason"`
}

type customer struct {
	Number string `json:"number"`
}

type artifact struct {
	Transcript json.RawMessage `json:"transcript"`
	Messages   json.RawMessage `json:"messages"`
}

type analysis struct {
	Summary        string `json:"summary"`
	StructuredData struct {
		EnquiryType string `json:"enquiryType"`
	} `json:"structuredData"`
}

type toolCall struct {
	ID         string         `json:"id"`
	ToolCallID string         `json:"toolCallId"`
	Name       string         `json:"name"`
	Parameters map[string]any `json:"parameters"`
}

type wrappedTool struct {
	Name     string `json:"name"`
	ToolCall struct {
		ID         string         `json:"id"`
		Parameters map[string]any `json:"parameters"`
	} `json:"toolCall"`
}

type toolResult struct {
	Name       string `json:"name"`
	ToolCallID string `json:"toolCallId"`
	Result     string `json:"result"`
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request) {
	var p payload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.Message.Type == "" {
		http.Error(w, `{"error":"Invalid webhook payload"}`, http.StatusBadRequest)
		return
	}
	msg := p.Message
	log.Printf("webhook: event %s", msg.Type)

	switch msg.Type {
	case "tool-calls":
		h.handleToolCalls(w, r, msg)
	case "assistant-request":
		h.handleAssistantRequest(w, r)
	case "end-of-call-report":
		h.handleEndOfCall(w, r, msg)
	default:
		writeJSON(w, map[string]string{"status": "ignored"})
	}
}

// admissionPhrases are the exact question phrases for the guided
// admission flow, indexed by step.
var admissionPhrases = [5]string{
	"Great! I'll take a few details for our admissions team. May I know your full name?",
	"Thank you. May I know your age?",
	"What is your 12th grade percentage?",
	"Which course are you interested in?",
	"Which city or area are you from?",
}

func (h *Handler) handleToolCalls(w http.ResponseWriter, r *http.Request, msg message) {
	list := msg.ToolCallList
	if len(list) == 0 {
		for _, wt := range msg.ToolWithToolCallList {
			list = append(list, toolCall{ID: wt.ToolCall.ID, Name: wt.Name, Parameters: wt.ToolCall.Parameters})
		}
	}

	results := make([]toolResult, 0, len(list))
	for _, tc := range list {
		id := tc.ID
		if id == "" {
			id = tc.ToolCallID
		}
		switch tc.Name {
		case "getAdmissionQuestion":
			results = append(results, admissionQuestionResult(id, tc.Parameters))
		case "submitAdmissionLead":
			results = append(results, h.submitLeadResult(r, id, tc.Parameters, msg.Call))
		default:
			name := tc.Name
			if name == "" {
				name = "unknown"
			}
			results = append(results, toolResult{Name: name, ToolCallID: id, Result: `{"error":"Unknown tool"}`})
		}
	}
	writeJSON(w, map[string]any{"results": results})
}

func admissionQuestionResult(id string, params map[string]any) toolResult {
	step := 1
	if v, ok := params["step"]; ok {
		switch n := v.(type) {
		case float64:
			step = int(n)
		case string:
			fmt.Sscanf(n, "%d", &step)
		}
	}
	if step < 1 {
		step = 1
	}
	if step > 5 {
		step = 5
	}

	var next any
	if step < 5 {
		next = step + 1
	}
	result, _ := json.Marshal(map[string]any{
		"messageToSay": admissionPhrases[step-1],
		"step":         step,
		"nextStep":     next,
	})
	return toolResult{Name: "getAdmissionQuestion", ToolCallID: id, Result: string(result)}
}

func (h *Handler) submitLeadResult(r *http.Request, id string, params map[string]any, call *callInfo) toolResult {
	str := func(keys ...string) string {
		for _, k := range keys {
			if v, ok := params[k]; ok && v != nil {
				return strings.TrimSpace(fmt.Sprint(v))
			}
		}
		return ""
	}

	lead := &leads.Lead{
		FullName:          str("fullName", "full_name"),
		Age:               str("age"),
		TwelfthPercentage: str("twelfthPercentage", "twelfth_percentage"),
		Course:            str("course"),
		City:              str("city"),
		Phone:             str("phone"),
		Source:            "voice",
	}
	if call != nil {
		if call.Customer.Number != "" {
			lead.Phone = call.Customer.Number
		}
		lead.CallID = call.ID
	}
	if lead.CallID == "" {
		lead.CallID = str("callId")
	}

	if err := h.leads.Insert(r.Context(), lead); err != nil {
		log.Printf("webhook: lead save failed: %v", err)
		result, _ := json.Marshal(map[string]any{
			"success": false,
			"message": "Thank you. Your details have been noted. Our team will contact you soon.",
		})
		return toolResult{Name: "submitAdmissionLead", ToolCallID: id, Result: string(result)}
	}

	log.Printf("webhook: admission lead saved: %s (%s)", lead.FullName, lead.ID)
	if h.live != nil {
		h.live.Broadcast("lead-saved", lead.CallID, lead)
	}
	result, _ := json.Marshal(map[string]any{
		"success": true,
		"message": "Lead saved. Say: Thank you. Your details have been recorded and our admission team will contact you soon.",
	})
	return toolResult{Name: "submitAdmissionLead", ToolCallID: id, Result: string(result)}
}

func (h *Handler) handleAssistantRequest(w http.ResponseWriter, r *http.Request) {
	info, err := h.college.Get(r.Context())
	if err == nil && info == nil {
		err = fmt.Errorf("college profile not seeded")
	}
	if err != nil {
		log.Printf("webhook: assistant request failed: %v", err)
		writeJSON(w, map[string]string{"status": "error", "error": err.Error()})
		return
	}
	cfg, err := h.agent.Get(r.Context())
	if err != nil {
		log.Printf("webhook: assistant request failed: %v", err)
		writeJSON(w, map[string]string{"status": "error", "error": err.Error()})
		return
	}

	var liveURL string
	ragEnabled := false
	if cfg != nil {
		liveURL = cfg.LiveDataURL
		ragEnabled = cfg.RAGEnabled
	}
	extra := h.enricher.Enrich(r.Context(), liveURL, ragEnabled)
	systemPrompt := prompt.BuildSystemPrompt(info, cfg, extra)

	firstMessage := prompt.DefaultFirstMessage(info.Name)
	endCallMessage := prompt.DefaultEndCallMessage(info.Name)
	if cfg != nil && cfg.FirstMessage != "" {
		firstMessage = cfg.FirstMessage
	}
	if cfg != nil && cfg.EndCallMessage != "" {
		endCallMessage = cfg.EndCallMessage
	}

	writeJSON(w, map[string]any{
		"assistant": map[string]any{
			"name":           info.Name + " AI Assistant",
			"firstMessage":   firstMessage,
			"endCallMessage": endCallMessage,
			"model": map[string]any{
				"provider":    "openai",
				"model":       "gpt-3.5-turbo",
				"messages":    []map[string]any{{"role": "system", "content": systemPrompt}},
				"temperature": 0.7,
				"tools":       []map[string]any{admissionQuestionTool(), submitLeadTool()},
			},
			"recordingEnabled":       false,
			"endCallFunctionEnabled": true,
		},
	})
}

func admissionQuestionTool() map[string]any {
	return map[string]any{
		"type": "function",
		"function": map[string]any{
			"name":        "getAdmissionQuestion",
			"description": "Get the exact phrase to say for the admission flow. Step 1=name, 2=age, 3=12th%, 4=course, 5=city. After step 5, call submitAdmissionLead with all 5 answers, then say thank you.",
			"parameters": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"step": map[string]any{"type": "number", "description": "1=name, 2=age, 3=12th%, 4=course, 5=city"},
				},
				"required": []string{"step"},
			},
		},
	}
}

func submitLeadTool() map[string]any {
	return map[string]any{
		"type": "function",
		"function": map[string]any{
			"name":        "submitAdmissionLead",
			"description": "Call this AFTER you have collected all 5 details: full name, age, 12th grade percentage, course, city. Saves the lead. Call once with all parameters.",
			"parameters": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"fullName":          map[string]any{"type": "string", "description": "Caller full name"},
					"age":               map[string]any{"type": "string", "description": "Age or class"},
					"twelfthPercentage": map[string]any{"type": "string", "description": "12th grade percentage"},
					"course":            map[string]any{"type": "string", "description": "Course interested in"},
					"city":              map[string]any{"type": "string", "description": "City or area"},
				},
				"required": []string{"fullName", "age", "twelfthPercentage", "course", "city"},
			},
		},
	}
}

var (
	phonePattern          = regexp.MustCompile(`^\+?[\d\s()-]{10,}$`)
	admissionCallKeywords = regexp.MustCompile(`(?i)admission|admit|apply|course|enrol`)
)

func (h *Handler) handleEndOfCall(w http.ResponseWriter, r *http.Request, msg message) {
	ctx := r.Context()

	var call callInfo
	if msg.Call != nil {
		call = *msg.Call
	}
	started := call.StartedAt
	if started.IsZero() {
		started = time.Now().UTC()
	}
	ended := call.EndedAt
	if ended.IsZero() {
		ended = time.Now().UTC()
	}
	duration := int(ended.Sub(started).Round(time.Second).Seconds())
	if duration < 0 {
		duration = 0
	}

	custNum := call.Customer.Number
	hasPhone := custNum != "" && phonePattern.MatchString(strings.ReplaceAll(custNum, " ", ""))
	callType := "Web"
	caller := custNum
	if hasPhone {
		callType = "Inbound"
	} else if caller == "" {
		caller = "Web"
	}

	rawReason := msg.EndedReason
	if rawReason == "" {
		rawReason = call.EndedReason
	}

	summary := ""
	enquiryType := ""
	if msg.Analysis != nil {
		summary = msg.Analysis.Summary
		enquiryType = msg.Analysis.StructuredData.EnquiryType
	}

	var n transcript.Normalized
	if msg.Artifact != nil {
		n = transcript.Normalize(summary, msg.Transcript, msg.Artifact.Transcript, msg.Artifact.Messages)
	} else {
		n = transcript.Normalize(summary, msg.Transcript)
	}

	callID := call.ID
	if callID == "" {
		callID = fmt.Sprintf("sim-%d", time.Now().UnixMilli())
	}
	callLog := &calls.Log{
		CallID:       callID,
		CallerNumber: caller,
		CallType:     callType,
		EndedReason:  calls.TitleReason(rawReason),
		StartTime:    started,
		EndTime:      ended,
		Duration:     duration,
		Transcript:   n.Messages,
		Summary:      summary,
		EnquiryType:  enquiryType,
	}
	if err := h.calls.Insert(ctx, callLog); err != nil {
		log.Printf("webhook: call log save failed: %v", err)
		writeJSON(w, map[string]string{"status": "error", "error": err.Error()})
		return
	}
	log.Printf("webhook: call logged: %s (%ds)", callLog.CallID, duration)

	// Tool flow may not have fired; extract a lead from the
	// transcript, at most once per call.
	if admissionCallKeywords.MatchString(n.RawText) {
		h.saveFallbackLead(r, call, n, custNum)
	}

	if hasPhone {
		h.sendPostCallSMS(r, callLog, custNum, summary)
	}

	if h.live != nil {
		h.live.Broadcast("call-ended", callLog.CallID, map[string]any{
			"duration": duration,
			"callType": callType,
			"summary":  summary,
		})
	}
	writeJSON(w, map[string]string{"status": "logged"})
}

func (h *Handler) saveFallbackLead(r *http.Request, call callInfo, n transcript.Normalized, phone string) {
	ctx := r.Context()
	existing, err := h.leads.FindByCallID(ctx, call.ID)
	if err != nil {
		log.Printf("webhook: fallback lead lookup failed: %v", err)
		return
	}
	if existing != nil {
		return
	}

	extracted := transcript.ExtractLead(n.RawText, n.Messages, phone)
	if len(extracted.FullName) <= 1 {
		return
	}
	lead := &leads.Lead{
		FullName:          extracted.FullName,
		Age:               extracted.Age,
		TwelfthPercentage: extracted.TwelfthPercentage,
		Course:            extracted.Course,
		City:              extracted.City,
		Phone:             extracted.Phone,
		CallID:            call.ID,
		Source:            "voice_fallback",
	}
	if err := h.leads.Insert(ctx, lead); err != nil {
		log.Printf("webhook: fallback lead save failed: %v", err)
		return
	}
	log.Printf("webhook: admission lead saved from transcript: %s (%s)", lead.FullName, lead.ID)
	if h.live != nil {
		h.live.Broadcast("lead-saved", lead.CallID, lead)
	}
}

func (h *Handler) sendPostCallSMS(r *http.Request, callLog *calls.Log, phone, summary string) {
	if h.sms == nil {
		return
	}
	ctx := r.Context()

	collegeName := "our college"
	website := h.websiteURL
	if info, err := h.college.Get(ctx); err == nil && info != nil {
		collegeName = info.Name
		if info.Website != "" {
			website = info.Website
		}
	}
	if summary == "" {
		summary = "You enquired about our programs."
	}
	if len([]rune(summary)) > 80 {
		summary = string([]rune(summary)[:80])
	}

	body := fmt.Sprintf("Thanks for calling %s! %s Visit %s for more info.", collegeName, summary, website)
	if h.templates != nil {
		if tmpl, err := h.templates.FirstEnabled(ctx, "sms"); err == nil && tmpl != nil {
			body = tmpl.Render(map[string]string{
				"college": collegeName,
				"summary": summary,
				"website": website,
			})
		}
	}
	if h.sms.SendSMS(phone, body) {
		if err := h.calls.SetAutomationSMS(ctx, callLog.CallID); err != nil {
			log.Printf("webhook: flagging sms automation failed: %v", err)
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
