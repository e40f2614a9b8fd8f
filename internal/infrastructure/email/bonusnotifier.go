// Package email sends transactional notifications over SMTP.
package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	sharedConfig "inboxlift/internal/shared/config"
	"inboxlift/internal/shared/services/markdown"
)

const bonusAwardedTemplate = `## Your bonus credits are in!

Thanks for sharing InboxLift — **%d bonus credits** just landed on your account.

You now have **%d credits** to spend on email rewrites. They never expire while your account is active.

Happy rewriting,
The InboxLift team
`

// BonusNotifier emails users after a successful social share claim. Sending
// is best-effort: the claim has already committed when this runs.
type BonusNotifier struct {
	cfg      *sharedConfig.EmailConfig
	dialer   *gomail.Dialer
	renderer markdown.MarkdownService
}

func NewBonusNotifier(cfg *sharedConfig.EmailConfig, renderer markdown.MarkdownService) *BonusNotifier {
	return &BonusNotifier{
		cfg:      cfg,
		dialer:   gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		renderer: renderer,
	}
}

// SendBonusAwarded notifies to about creditsAwarded new credits and their
// resulting total.
func (n *BonusNotifier) SendBonusAwarded(to string, creditsAwarded, totalCredits int) error {
	body := fmt.Sprintf(bonusAwardedTemplate, creditsAwarded, totalCredits)

	htmlBody, err := n.renderer.ToHTMLSanitized(body)
	if err != nil {
		return fmt.Errorf("failed to render bonus email: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(n.cfg.FromAddress, n.cfg.FromName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("You earned %d bonus credits", creditsAwarded))
	m.SetBody("text/plain", body)
	m.AddAlternative("text/html", htmlBody)

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send bonus email: %w", err)
	}
	return nil
}
