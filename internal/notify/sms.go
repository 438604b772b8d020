// Package notify sends post-call follow-ups over SMS and email. Both
// senders degrade to a no-op when their credentials are absent so the
// webhook path never depends on them being configured.
package notify

import (
	"log"
	"regexp"
	"strings"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/campushq/voicedesk/internal/config"
)

const maxSMSLength = 1600

// SMSSender is the interface the webhook layer depends on.
type SMSSender interface {
	SendSMS(to, body string) bool
}

// TwilioSender sends SMS via the Twilio REST API.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioSender returns a sender, or one that reports unconfigured
// when any Twilio credential is missing.
func NewTwilioSender(cfg config.TwilioConfig) *TwilioSender {
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.FromNumber == "" {
		return &TwilioSender{}
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &TwilioSender{client: client, from: cfg.FromNumber}
}

// SendSMS delivers body to the given number. It reports whether the
// message was handed to Twilio; failures are logged, not returned, so
// callers treat SMS as best-effort.
func (s *TwilioSender) SendSMS(to, body string) bool {
	if s.client == nil {
		log.Printf("sms: Twilio not configured, skipping")
		return false
	}
	if to == "" || body == "" {
		log.Printf("sms: skipped, missing recipient or body")
		return false
	}

	normalized := NormalizeE164(to)
	if len([]rune(body)) > maxSMSLength {
		body = string([]rune(body)[:maxSMSLength])
	}

	params := &twilioapi.CreateMessageParams{}
	params.SetTo(normalized)
	params.SetFrom(s.from)
	params.SetBody(body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		log.Printf("sms: send to %s failed: %v", normalized, err)
		return false
	}
	log.Printf("sms: sent to %s", normalized)
	return true
}

var nonDigits = regexp.MustCompile(`\D`)

// NormalizeE164 coerces a dialed number into E.164. Bare 10-digit
// numbers are assumed Indian and get the +91 prefix.
func NormalizeE164(number string) string {
	digits := nonDigits.ReplaceAllString(number, "")
	switch {
	case strings.HasPrefix(number, "+"):
		return "+" + digits
	case len(digits) == 10:
		return "+91" + digits
	case len(digits) > 10:
		return "+" + digits
	default:
		return digits
	}
}
