package notify

import (
	"fmt"
	"log"

	gomail "gopkg.in/gomail.v2"

	"github.com/campushq/voicedesk/internal/config"
)

// EmailSender is the interface the webhook layer depends on.
type EmailSender interface {
	SendFollowUp(to, collegeName, summary string) bool
}

// SMTPSender sends follow-up emails over SMTP.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender returns a sender, or one that reports unconfigured
// when SMTP credentials are missing.
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	if cfg.User == "" || cfg.Pass == "" {
		return &SMTPSender{}
	}
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass),
		from:   cfg.User,
	}
}

// SendFollowUp emails the caller a summary of their enquiry. Like SMS,
// delivery is best-effort and failures only log.
func (s *SMTPSender) SendFollowUp(to, collegeName, summary string) bool {
	if s.dialer == nil {
		log.Printf("email: SMTP not configured, skipping")
		return false
	}
	if to == "" {
		log.Printf("email: skipped, missing recipient")
		return false
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, collegeName+" Admissions")
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Thanks for your enquiry — %s", collegeName))
	m.SetBody("text/html", followUpHTML(collegeName, summary))

	if err := s.dialer.DialAndSend(m); err != nil {
		log.Printf("email: send to %s failed: %v", to, err)
		return false
	}
	log.Printf("email: follow-up sent to %s", to)
	return true
}

func followUpHTML(collegeName, summary string) string {
	if summary == "" {
		summary = "You asked about our programs and admissions process."
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background: #f5f7ff; padding: 40px 0;">
  <div style="max-width: 600px; margin: 0 auto; background: #fff; border-radius: 16px; overflow: hidden;">
    <div style="background: #4f46e5; padding: 40px; text-align: center;">
      <h1 style="color: #fff; margin: 0;">%s</h1>
      <p style="color: rgba(255,255,255,0.8); margin: 8px 0 0;">Thank you for your enquiry!</p>
    </div>
    <div style="padding: 40px;">
      <p>Thank you for calling our admissions assistant. Here's a brief summary of your conversation:</p>
      <div style="background: #f5f3ff; border-left: 4px solid #4f46e5; padding: 16px 20px; margin: 20px 0;">%s</div>
      <p>Our admissions team will follow up with you shortly.</p>
    </div>
    <div style="background: #f5f7ff; padding: 20px; text-align: center; color: #9ca3af; font-size: 12px;">
      <p>This email was sent because you called our admissions assistant.</p>
    </div>
  </div>
</body>
</html>`, collegeName, summary)
}
