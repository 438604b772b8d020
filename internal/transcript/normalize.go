package transcript

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Message is the canonical transcript entry all payload shapes reduce to.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Normalized is the result of flattening a call payload. RawText is
// the call summary concatenated with the transcript text and feeds
// keyword matching; Messages carries the ordered conversation with
// system entries removed.
type Normalized struct {
	RawText  string
	Messages []Message
}

// entry covers the field variants the voice platform uses for a single
// transcript element.
type entry struct {
	Role       string `json:"role"`
	Message    string `json:"message"`
	Content    string `json:"content"`
	Transcript string `json:"transcript"`
	Text       string `json:"text"`
}

func (e entry) text() string {
	for _, s := range []string{e.Message, e.Content, e.Transcript, e.Text} {
		if strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// Normalize reduces a call payload to one canonical form. Candidates
// are transcript shapes in priority order (top-level array, nested
// artifact transcript, artifact messages); the first that yields
// content wins. Each candidate may be an array of role/text objects, a
// "Role: text" delimited string, or a bare string.
func Normalize(summary string, candidates ...json.RawMessage) Normalized {
	var msgs []Message
	var text string
	for _, c := range candidates {
		if len(c) == 0 || string(c) == "null" {
			continue
		}
		m, t := decodeCandidate(c)
		if len(m) > 0 || strings.TrimSpace(t) != "" {
			msgs, text = m, t
			break
		}
	}

	// System messages never surface in the displayed or extracted
	// transcript, but their text still participates in rawText.
	var visible []Message
	for _, m := range msgs {
		if strings.EqualFold(m.Role, "system") {
			continue
		}
		visible = append(visible, m)
	}

	raw := strings.TrimSpace(strings.ToLower(summary) + " " + text)
	return Normalized{RawText: raw, Messages: visible}
}

func decodeCandidate(raw json.RawMessage) ([]Message, string) {
	var entries []entry
	if err := json.Unmarshal(raw, &entries); err == nil {
		var msgs []Message
		var parts []string
		for _, e := range entries {
			t := e.text()
			if t == "" {
				continue
			}
			msgs = append(msgs, Message{Role: strings.ToLower(strings.TrimSpace(e.Role)), Text: t})
			parts = append(parts, t)
		}
		return msgs, strings.Join(parts, " ")
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return ParseDelimited(s), s
	}
	return nil, ""
}

var rolePrefix = regexp.MustCompile(`(?s)^\s*([A-Za-z][A-Za-z ]*):\s*(.+)$`)

// ParseDelimited parses a transcript string of blank-line separated
// blocks, each prefixed "Role:". Blocks without a recognizable prefix
// default to the user role.
func ParseDelimited(s string) []Message {
	var msgs []Message
	for _, block := range strings.Split(s, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		m := rolePrefix.FindStringSubmatch(block)
		if m == nil {
			msgs = append(msgs, Message{Role: "user", Text: block})
			continue
		}
		msgs = append(msgs, Message{Role: canonicalRole(m[1]), Text: strings.TrimSpace(m[2])})
	}
	return msgs
}

func canonicalRole(role string) string {
	r := strings.ToLower(strings.TrimSpace(role))
	switch {
	case strings.HasPrefix(r, "assistant"), strings.HasPrefix(r, "agent"), r == "ai", r == "bot":
		return "assistant"
	case strings.HasPrefix(r, "user"), strings.HasPrefix(r, "caller"), strings.HasPrefix(r, "customer"):
		return "user"
	default:
		return r
	}
}

// Format renders messages back into the delimited string form used for
// display and storage of plain-text transcripts.
func Format(msgs []Message) string {
	var sb strings.Builder
	for i, m := range msgs {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		role := m.Role
		if role == "" {
			role = "user"
		}
		sb.WriteString(strings.ToUpper(role[:1]) + role[1:])
		sb.WriteString(": ")
		sb.WriteString(m.Text)
	}
	return sb.String()
}
