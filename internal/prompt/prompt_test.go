package prompt

import (
	"strings"
	"testing"

	"github.com/campushq/voicedesk/internal/agent"
	"github.com/campushq/voicedesk/internal/college"
	"github.com/campushq/voicedesk/internal/enrich"
)

func sampleInfo() *college.Info {
	return &college.Info{
		Name:    "Eastshore Institute of Technology",
		About:   "A technology institute on the east coast.",
		Tagline: "Learn by building",
		Courses: []college.Course{
			{Name: "B.Tech CSE", Fees: "95,000/yr", Duration: "4 years", Eligibility: "12th with PCM"},
			{Name: "MBA"},
		},
		Facilities: []college.Facility{{Name: "Library", Description: "Open 8am-10pm"}},
		Founder:    "Dr. A. Mohanty",
		Director:   "Prof. S. Rao",
		Contact:    college.Contact{Phone: "+91 99887 76655", Email: "admissions@eastshore.edu"},
	}
}

func TestBuildSystemPromptOrdering(t *testing.T) {
	got := BuildSystemPrompt(sampleInfo(), &agent.Config{SystemPrompt: "Custom base prompt."}, enrich.Context{})

	flow := strings.Index(got, "### ADMISSION FLOW")
	rule := strings.Index(got, "### RULE")
	base := strings.Index(got, "Custom base prompt.")
	if flow != 0 {
		t.Errorf("admission flow should lead the prompt, found at %d", flow)
	}
	if !(flow < rule && rule < base) {
		t.Errorf("block ordering wrong: flow=%d rule=%d base=%d", flow, rule, base)
	}
}

func TestBuildSystemPromptCourseLines(t *testing.T) {
	got := BuildSystemPrompt(sampleInfo(), nil, enrich.Context{})

	if !strings.Contains(got, "• B.Tech CSE: Fees — 95,000/yr, Duration — 4 years, Eligibility — 12th with PCM") {
		t.Errorf("course line missing:\n%s", got)
	}
	if !strings.Contains(got, "• MBA: Fees — N/A, Duration — N/A, Eligibility — N/A") {
		t.Errorf("sparse course should use N/A:\n%s", got)
	}
}

func TestBuildSystemPromptLeadership(t *testing.T) {
	got := BuildSystemPrompt(sampleInfo(), nil, enrich.Context{})
	if !strings.Contains(got, "Founder: Dr. A. Mohanty") {
		t.Errorf("founder missing:\n%s", got)
	}
	if strings.Contains(got, "Chairman:") {
		t.Errorf("empty chairman should be omitted:\n%s", got)
	}

	info := sampleInfo()
	info.Founder, info.Director = "", ""
	got = BuildSystemPrompt(info, nil, enrich.Context{})
	if strings.Contains(got, "Founder & Leadership") {
		t.Errorf("leadership block should be absent without data:\n%s", got)
	}
}

func TestBuildSystemPromptDefaultsWithoutConfig(t *testing.T) {
	got := BuildSystemPrompt(sampleInfo(), nil, enrich.Context{})
	if !strings.Contains(got, "You are an AI admissions assistant for Eastshore Institute of Technology.") {
		t.Errorf("default base prompt missing:\n%s", got)
	}
	if strings.Contains(got, "### If unsure:") {
		t.Errorf("fallback block should be absent without config:\n%s", got)
	}
}

func TestBuildSystemPromptEnrichment(t *testing.T) {
	extra := enrich.Context{
		LiveNoticesText: "\n### Recent Notices & Events (from college website):\n• 2025-06-01: Exam schedule\n",
		RAGChunksText:   "\n### Additional Knowledge (from documents - use this when caller asks about WiFi, password, exam dates, events, or any topic listed):\n• WiFi password is on the notice board\n",
	}
	got := BuildSystemPrompt(sampleInfo(), nil, extra)
	if !strings.Contains(got, "Recent Notices & Events") || !strings.Contains(got, "Additional Knowledge") {
		t.Errorf("enrichment blocks missing:\n%s", got)
	}
}

func TestDefaultMessages(t *testing.T) {
	first := DefaultFirstMessage("Eastshore")
	if !strings.Contains(first, "Welcome to Eastshore") {
		t.Errorf("first message = %q", first)
	}
	end := DefaultEndCallMessage("Eastshore")
	if !strings.Contains(end, "Thank you for contacting Eastshore") {
		t.Errorf("end message = %q", end)
	}
}
