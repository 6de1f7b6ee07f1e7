// Package mailer provides the SendGrid implementation of the outbound
// email transport.
package mailer

import (
	"context"
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/vulong264/cvstatuschecker/internal/outreach"
)

// SendGrid sends email through the SendGrid v3 API. Campaign id and
// tracking token travel as custom args so event webhooks can be matched
// back without relying on the provider message id.
type SendGrid struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

// New creates a SendGrid transport. Returns an error when no API key is
// configured so callers fail at startup rather than on the first send.
func New(apiKey, fromEmail, fromName string) (*SendGrid, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("SENDGRID_API_KEY is not set")
	}
	if fromEmail == "" {
		return nil, fmt.Errorf("SENDGRID_FROM_EMAIL is not set")
	}
	return &SendGrid{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}, nil
}

// buildMessage assembles the V3 mail payload. Open and click tracking
// are enabled so the provider reports both through the event webhook;
// link rewriting applies to the HTML body only.
func (s *SendGrid) buildMessage(msg outreach.Message) *mail.SGMailV3 {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(msg.ToName, msg.ToEmail)

	personalization := mail.NewPersonalization()
	personalization.AddTos(to)
	personalization.SetCustomArg("campaign_id", msg.CampaignID)
	personalization.SetCustomArg("tracking_token", msg.TrackingToken)

	m := mail.NewV3Mail()
	m.SetFrom(from)
	m.Subject = msg.Subject
	m.AddPersonalizations(personalization)
	if msg.BodyText != "" {
		m.AddContent(mail.NewContent("text/plain", msg.BodyText))
	}
	m.AddContent(mail.NewContent("text/html", msg.BodyHTML))

	trackings := mail.NewTrackingSettings()
	clickSetting := mail.NewClickTrackingSetting()
	clickSetting.SetEnable(true)
	clickSetting.SetEnableText(false)
	trackings.SetClickTracking(clickSetting)
	openSetting := mail.NewOpenTrackingSetting()
	openSetting.SetEnable(true)
	trackings.SetOpenTracking(openSetting)
	m.SetTrackingSettings(trackings)
	return m
}

// Send delivers one message. The returned message id comes from the
// X-Message-Id response header and may be empty.
func (s *SendGrid) Send(ctx context.Context, msg outreach.Message) (string, error) {
	resp, err := s.client.SendWithContext(ctx, s.buildMessage(msg))
	if err != nil {
		return "", fmt.Errorf("sendgrid request failed: %w", err)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}

	messageID := ""
	if ids := resp.Headers["X-Message-Id"]; len(ids) > 0 {
		messageID = ids[0]
	}
	log.Printf("SendGrid accepted message to %s | status=%d", msg.ToEmail, resp.StatusCode)
	return messageID, nil
}
