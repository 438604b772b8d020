// Package prompt assembles the assistant's system prompt from the
// college profile, the agent configuration, and the enrichment blocks.
package prompt

import (
	"fmt"
	"strings"
	"time"

	"github.com/campushq/voicedesk/internal/agent"
	"github.com/campushq/voicedesk/internal/college"
	"github.com/campushq/voicedesk/internal/enrich"
)

const admissionBlock = `### ADMISSION FLOW (OVERRIDES EVERYTHING BELOW):
If the caller says "admission", "I want admission", "admission enquiry", "take admission", "how to apply", or "course details" — do NOT give website/phone details yet. Instead, say exactly: "Great! I'll take a few details for our admissions team. May I know your full name?" Then ask ONE BY ONE: age, 12th grade percentage, which course, then city/area. After all five, repeat back and confirm. Only then you may give website/phone if they ask.
`

const ruleBlock = `### RULE (with admission exception):
For general questions: answer ONLY from this system prompt. No external knowledge.
When they say admission: ASK name, age, percentage, course, and area first. If unsure about other topics, offer to connect to admissions.
`

// DefaultFirstMessage is the greeting used when the agent config does
// not set one.
func DefaultFirstMessage(collegeName string) string {
	return fmt.Sprintf("Hello! Welcome to %s. I'm your AI admissions assistant. How can I help you today?", collegeName)
}

// DefaultEndCallMessage is the sign-off used when the agent config
// does not set one.
func DefaultEndCallMessage(collegeName string) string {
	return fmt.Sprintf("Thank you for contacting %s. If you have any questions, feel free to call us anytime. Have a great day!", collegeName)
}

// BuildSystemPrompt renders the full system prompt. The admission flow
// and answering rules always lead so they take precedence over
// whatever the admin wrote in the configurable base prompt.
func BuildSystemPrompt(info *college.Info, cfg *agent.Config, extra enrich.Context) string {
	base := ""
	if cfg != nil {
		base = strings.TrimSpace(cfg.SystemPrompt)
	}
	if base == "" {
		base = fmt.Sprintf("You are an AI admissions assistant for %s. Be warm, concise, and professional.", info.Name)
	}

	var sb strings.Builder
	sb.WriteString(admissionBlock)
	sb.WriteString("\n")
	sb.WriteString(ruleBlock)
	sb.WriteString("---\n")
	sb.WriteString(base)
	sb.WriteString("\n\n### Current College Information:\n")
	fmt.Fprintf(&sb, "College Name: %s\n", info.Name)
	if info.About != "" {
		fmt.Fprintf(&sb, "About: %s\n", info.About)
	}
	if info.Tagline != "" {
		fmt.Fprintf(&sb, "Tagline: %s\n", info.Tagline)
	}

	if block := leadershipBlock(info); block != "" {
		sb.WriteString(block)
	}

	sb.WriteString("\n### Courses & Fees:\n")
	if len(info.Courses) == 0 {
		sb.WriteString("Contact us for details.\n")
	}
	for _, c := range info.Courses {
		fmt.Fprintf(&sb, "• %s: Fees — %s, Duration — %s, Eligibility — %s",
			c.Name, orNA(c.Fees), orNA(c.Duration), orNA(c.Eligibility))
		if c.Description != "" {
			sb.WriteString(". " + c.Description)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n### Campus Facilities:\n")
	if len(info.Facilities) == 0 {
		sb.WriteString("World-class facilities available.\n")
	}
	for _, f := range info.Facilities {
		fmt.Fprintf(&sb, "• %s: %s\n", f.Name, f.Description)
	}

	if info.HostelDetails.Description != "" || info.HostelDetails.Fees != "" {
		sb.WriteString("\n### Hostel:\n")
		if info.HostelDetails.Description != "" {
			sb.WriteString(info.HostelDetails.Description + "\n")
		}
		if info.HostelDetails.Fees != "" {
			fmt.Fprintf(&sb, "Hostel fees: %s\n", info.HostelDetails.Fees)
		}
	}

	if info.AdmissionProcess != "" {
		sb.WriteString("\n### Admission Process:\n")
		sb.WriteString(info.AdmissionProcess + "\n")
	}

	sb.WriteString("\n### Contact:\n")
	fmt.Fprintf(&sb, "Phone: %s\n", orContact(info.Contact.Phone))
	fmt.Fprintf(&sb, "Email: %s\n", orContact(info.Contact.Email))
	fmt.Fprintf(&sb, "Address: %s\n", orContact(info.Contact.Address))
	if info.Website != "" {
		fmt.Fprintf(&sb, "Website: %s\n", info.Website)
	}

	if extra.LiveNoticesText != "" {
		sb.WriteString(extra.LiveNoticesText)
	}
	if extra.RAGChunksText != "" {
		sb.WriteString(extra.RAGChunksText)
	}

	if cfg != nil && cfg.FallbackMessage != "" {
		fmt.Fprintf(&sb, "\n### If unsure: %s\n", cfg.FallbackMessage)
	}
	fmt.Fprintf(&sb, "Today's date: %s", time.Now().Format("Monday, 2 January 2006"))

	return strings.TrimSpace(sb.String())
}

// leadershipBlock instructs the model to answer founder questions from
// the profile instead of deflecting to the admissions office.
func leadershipBlock(info *college.Info) string {
	var parts []string
	for _, p := range []string{info.Founder, info.Chairman, info.Director} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\n### IMPORTANT - Founder & Leadership (you MUST use this when asked):\n")
	fmt.Fprintf(&sb, "When the caller asks \"who is the founder\", \"who started %s\", \"chairman\", \"director\", or similar, you MUST answer from the data below. Do NOT say \"I couldn't find information\" or offer to connect to admissions.\n", info.Name)
	if info.Founder != "" {
		fmt.Fprintf(&sb, "Founder: %s\n", info.Founder)
	}
	if info.Chairman != "" {
		fmt.Fprintf(&sb, "Chairman: %s\n", info.Chairman)
	}
	if info.Director != "" {
		fmt.Fprintf(&sb, "Director: %s\n", info.Director)
	}
	return sb.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func orContact(s string) string {
	if s == "" {
		return "Contact the admissions office."
	}
	return s
}
