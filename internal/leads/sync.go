package leads

import (
	"context"
	"log"
	"regexp"

	"github.com/campushq/voicedesk/internal/transcript"
	"github.com/campushq/voicedesk/internal/vapi"
)

// admissionSignals marks a transcript as an admission enquiry worth
// backfilling. Long transcripts count even without a keyword hit
// because the tool-call questions rarely survive verbatim.
var admissionSignals = regexp.MustCompile(`(?i)admission|admit|apply|enrol|inquir|name|age|course|percentage|city|area|full name|may i have`)

const minBackfillTranscript = 60

// SyncReport summarizes a backfill run over recent platform calls.
type SyncReport struct {
	Success bool `json:"success"`
	Created int  `json:"created"`
	Skipped int  `json:"skipped"`
	Total   int  `json:"total"`
}

// Syncer backfills leads from call transcripts for calls where the
// voice tool flow never fired.
type Syncer struct {
	store  *Store
	client *vapi.Client
}

func NewSyncer(store *Store, client *vapi.Client) *Syncer {
	return &Syncer{store: store, client: client}
}

// Sync lists recent calls and extracts a lead from each admission-like
// transcript not already recorded. Per-call failures are logged and
// counted as skips so one bad call never aborts the run.
func (s *Syncer) Sync(ctx context.Context) (SyncReport, error) {
	calls, err := s.client.ListCalls(ctx, 50)
	if err != nil {
		return SyncReport{}, err
	}

	report := SyncReport{Total: len(calls)}
	for _, call := range calls {
		if call.ID == "" {
			continue
		}
		existing, err := s.store.FindByCallID(ctx, call.ID)
		if err != nil {
			log.Printf("lead sync: lookup for call %s failed: %v", call.ID, err)
			report.Skipped++
			continue
		}
		if existing != nil {
			report.Skipped++
			continue
		}

		full, err := s.client.GetCall(ctx, call.ID)
		if err != nil {
			log.Printf("lead sync: fetch of call %s failed: %v", call.ID, err)
			report.Skipped++
			continue
		}

		n := normalizeCall(full)
		if !admissionSignals.MatchString(n.RawText) && len(n.RawText) <= minBackfillTranscript {
			report.Skipped++
			continue
		}

		phone := full.Customer.Number
		if phone == "" {
			phone = call.Customer.Number
		}
		extracted := transcript.ExtractLead(n.RawText, n.Messages, phone)
		lead := &Lead{
			FullName:          extracted.FullName,
			Age:               extracted.Age,
			TwelfthPercentage: extracted.TwelfthPercentage,
			Course:            extracted.Course,
			City:              extracted.City,
			Phone:             extracted.Phone,
			CallID:            call.ID,
			Source:            "vapi_sync",
		}
		if lead.FullName == "" {
			lead.FullName = "From Vapi call"
		}
		if err := s.store.Insert(ctx, lead); err != nil {
			log.Printf("lead sync: save for call %s failed: %v", call.ID, err)
			report.Skipped++
			continue
		}
		report.Created++
		log.Printf("lead synced from call %s: %s", call.ID, lead.FullName)
	}

	report.Success = true
	return report, nil
}

func normalizeCall(call *vapi.Call) transcript.Normalized {
	if call.Artifact != nil {
		return transcript.Normalize(summaryOf(call), call.Transcript, call.Artifact.Transcript, call.Artifact.Messages)
	}
	return transcript.Normalize(summaryOf(call), call.Transcript)
}

func summaryOf(call *vapi.Call) string {
	if call.Analysis != nil {
		return call.Analysis.Summary
	}
	return ""
}
