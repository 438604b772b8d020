package notify

import (
	"testing"

	"github.com/campushq/voicedesk/internal/config"
)

func TestNormalizeE164(t *testing.T) {
	cases := []struct{ in, want string }{
		{"+919777938474", "+919777938474"},
		{"9777938474", "+919777938474"},
		{"097779 38474", "+09777938474"},
		{"+1 (555) 000-1111", "+15550001111"},
		{"919777938474", "+919777938474"},
	}
	for _, c := range cases {
		if got := NormalizeE164(c.in); got != c.want {
			t.Errorf("NormalizeE164(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSendersDisabledWithoutCredentials(t *testing.T) {
	sms := NewTwilioSender(config.TwilioConfig{})
	if sms.SendSMS("+919777938474", "hello") {
		t.Error("unconfigured Twilio sender should report false")
	}

	email := NewSMTPSender(config.SMTPConfig{Host: "smtp.gmail.com", Port: 587})
	if email.SendFollowUp("a@b.edu", "Eastshore", "summary") {
		t.Error("unconfigured SMTP sender should report false")
	}
}
