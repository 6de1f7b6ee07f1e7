// Package outreach owns campaign creation, outbound sends, and the fold-in
// of tracking signals (pixel hits, provider webhooks, inbound replies) into
// campaign and candidate state.
package outreach

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vulong264/cvstatuschecker/internal/database"
	"github.com/vulong264/cvstatuschecker/internal/lifecycle"
	"github.com/vulong264/cvstatuschecker/internal/model"
)

// ErrMissingAddress is returned when a send is requested for a candidate
// whose CV yielded no email address.
var ErrMissingAddress = errors.New("candidate has no email address")

// Message is one outbound email handed to the transport.
type Message struct {
	ToEmail  string
	ToName   string
	Subject  string
	BodyHTML string
	BodyText string

	// Attached as provider custom args so webhook events can be matched
	// back to the campaign.
	CampaignID    string
	TrackingToken string
}

// Mailer is the outbound email transport.
type Mailer interface {
	Send(ctx context.Context, msg Message) (messageID string, err error)
}

// Tracker orchestrates sends and event fold-in against the shared store.
type Tracker struct {
	DB      *database.DBinstanceStruct
	Mailer  Mailer
	BaseURL string
}

// NewTracker creates a Tracker. baseURL is the externally reachable address
// embedded in tracking pixel links.
func NewTracker(db *database.DBinstanceStruct, mailer Mailer, baseURL string) *Tracker {
	return &Tracker{DB: db, Mailer: mailer, BaseURL: baseURL}
}

// Send renders the template for the candidate, sends it through the
// transport, and records an EmailCampaign.
//
// The campaign row is persisted before the transport call so the tracking
// token exists when the pixel is embedded. If the transport fails the row
// stays behind with a NULL sent_at ("send pending/unknown"); candidate
// status is only advanced after the transport confirms. A retried send
// creates a second campaign with a new token.
func (t *Tracker) Send(ctx context.Context, candidate *model.Candidate, tmpl *model.EmailTemplate, variables map[string]string) (*model.EmailCampaign, error) {
	if candidate.Email == nil || *candidate.Email == "" {
		return nil, ErrMissingAddress
	}
	if t.Mailer == nil {
		return nil, errors.New("no email transport configured")
	}

	subject := Render(tmpl.Subject, variables)
	html := Render(tmpl.BodyHTML, variables)
	text := ""
	if tmpl.BodyText != nil {
		text = Render(*tmpl.BodyText, variables)
	}

	campaign := &model.EmailCampaign{
		ID:               uuid.New(),
		CandidateID:      candidate.ID,
		TemplateID:       &tmpl.ID,
		RenderedSubject:  subject,
		RenderedBodyHTML: html,
		TrackingToken:    uuid.NewString(),
	}
	if err := t.DB.WithContext(ctx).Create(campaign).Error; err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	htmlWithPixel := InjectPixel(html, t.BaseURL, campaign.TrackingToken)
	if text == "" {
		text = htmlToPlain(html)
	}

	toName := *candidate.Email
	if candidate.FullName != nil && *candidate.FullName != "" {
		toName = *candidate.FullName
	}

	messageID, err := t.Mailer.Send(ctx, Message{
		ToEmail:       *candidate.Email,
		ToName:        toName,
		Subject:       subject,
		BodyHTML:      htmlWithPixel,
		BodyText:      text,
		CampaignID:    campaign.ID.String(),
		TrackingToken: campaign.TrackingToken,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send email to %s: %w", *candidate.Email, err)
	}

	now := time.Now().UTC()
	err = t.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"sent_at":            now,
			"rendered_body_html": htmlWithPixel,
		}
		if messageID != "" {
			updates["sendgrid_message_id"] = messageID
		}
		if err := tx.Model(campaign).Updates(updates).Error; err != nil {
			return err
		}
		// Entered by the confirmed send itself, not by the event machine.
		return tx.Model(&model.Candidate{}).
			Where("id = ?", candidate.ID).
			Update("status", lifecycle.StatusEmailed).Error
	})
	if err != nil {
		return nil, err
	}

	campaign.SentAt = &now
	campaign.RenderedBodyHTML = htmlWithPixel
	if messageID != "" {
		campaign.SendGridMessageID = &messageID
	}
	candidate.Status = lifecycle.StatusEmailed

	log.Printf("Email sent to %s | campaign=%s message_id=%s", *candidate.Email, campaign.ID, messageID)
	return campaign, nil
}

// BulkResult reports a bulk send: how many went out and which candidate ids
// failed (missing candidate, missing address, or transport error).
type BulkResult struct {
	Sent   int      `json:"sent"`
	Failed []string `json:"failed"`
}

// SendBulk applies Send per candidate id independently. One candidate's
// failure is recorded and never aborts the batch.
func (t *Tracker) SendBulk(ctx context.Context, candidateIDs []string, tmpl *model.EmailTemplate, v Variables) BulkResult {
	result := BulkResult{Failed: []string{}}
	for _, cid := range candidateIDs {
		var candidate model.Candidate
		if err := t.DB.WithContext(ctx).First(&candidate, "id = ?", cid).Error; err != nil {
			result.Failed = append(result.Failed, cid)
			continue
		}
		variables := BuildTemplateVariables(&candidate, v)
		if _, err := t.Send(ctx, &candidate, tmpl, variables); err != nil {
			log.Printf("Bulk send failed for candidate %s: %v", cid, err)
			result.Failed = append(result.Failed, cid)
			continue
		}
		result.Sent++
	}
	return result
}
