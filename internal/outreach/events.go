package outreach

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vulong264/cvstatuschecker/internal/lifecycle"
	"github.com/vulong264/cvstatuschecker/internal/model"
)

// ReplyOutcome reports how an inbound reply was resolved.
type ReplyOutcome string

const (
	ReplyNoSender          ReplyOutcome = "no sender email found"
	ReplyCandidateNotFound ReplyOutcome = "candidate not found"
	ReplyNoCampaign        ReplyOutcome = "no campaign found"
	ReplyRecorded          ReplyOutcome = "reply recorded"
)

// InboundReply is the parsed form payload of the provider's inbound-parse
// webhook.
type InboundReply struct {
	From    string
	To      string
	Subject string
	Text    string
}

var addressPattern = regexp.MustCompile(`[\w.+\-]+@[\w\-]+\.[\w.]+`)

// ExtractAddress pulls the bare email address out of a From header, which
// may be "Name <addr>" or a bare address. Falls back to the raw input when
// no address-shaped substring is found.
func ExtractAddress(from string) string {
	if m := addressPattern.FindString(from); m != "" {
		return m
	}
	return from
}

// FindByToken returns the campaign owning a tracking token, or nil when the
// token is unknown.
func (t *Tracker) FindByToken(ctx context.Context, token string) (*model.EmailCampaign, error) {
	var campaign model.EmailCampaign
	err := t.DB.WithContext(ctx).Where("tracking_token = ?", token).First(&campaign).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

// RecordOpen folds one pixel hit into campaign and candidate state: appends
// an open event, bumps the counter, sets opened_at on first occurrence, and
// runs the candidate's status through the state machine.
func (t *Tracker) RecordOpen(ctx context.Context, campaign *model.EmailCampaign, ip, userAgent string) error {
	return t.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event := model.EmailEvent{
			CampaignID: campaign.ID,
			EventType:  model.EventOpen,
			IPAddress:  ip,
			UserAgent:  userAgent,
			OccurredAt: time.Now().UTC(),
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
		return foldOpen(tx, campaign.ID, campaign.CandidateID)
	})
}

// foldOpen applies the idempotent open counters inside tx. The increment is
// done SQL-side and opened_at is guarded by IS NULL, so two concurrent
// deliveries of the same open cannot lose an update or move the first-open
// timestamp.
func foldOpen(tx *gorm.DB, campaignID, candidateID uuid.UUID) error {
	now := time.Now().UTC()
	if err := tx.Model(&model.EmailCampaign{}).
		Where("id = ?", campaignID).
		UpdateColumn("open_count", gorm.Expr("open_count + 1")).Error; err != nil {
		return err
	}
	if err := tx.Model(&model.EmailCampaign{}).
		Where("id = ? AND opened_at IS NULL", campaignID).
		Update("opened_at", now).Error; err != nil {
		return err
	}
	return advanceStatus(tx, candidateID, lifecycle.EventOpen)
}

func advanceStatus(tx *gorm.DB, candidateID uuid.UUID, event lifecycle.EventKind) error {
	var candidate model.Candidate
	if err := tx.Select("id", "status").First(&candidate, "id = ?", candidateID).Error; err != nil {
		return err
	}
	next, changed := lifecycle.NextStatus(candidate.Status, event)
	if !changed {
		return nil
	}
	return tx.Model(&model.Candidate{}).
		Where("id = ?", candidateID).
		Update("status", next).Error
}

// RecordReply folds an inbound reply into campaign and candidate state.
// replied_at is set on first occurrence only.
func (t *Tracker) RecordReply(ctx context.Context, campaign *model.EmailCampaign, rawPayload datatypes.JSON) error {
	return t.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event := model.EmailEvent{
			CampaignID: campaign.ID,
			EventType:  model.EventReply,
			RawPayload: rawPayload,
			OccurredAt: time.Now().UTC(),
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.EmailCampaign{}).
			Where("id = ? AND replied_at IS NULL", campaign.ID).
			Update("replied_at", time.Now().UTC()).Error; err != nil {
			return err
		}
		return advanceStatus(tx, campaign.CandidateID, lifecycle.EventReply)
	})
}

// RecordProviderEvent processes one element of a SendGrid event webhook
// batch. The campaign is matched by tracking token first, then by the
// provider message id. Returns false when the element carries no usable key
// or matches no campaign; such elements are dropped, never fatal.
func (t *Tracker) RecordProviderEvent(ctx context.Context, payload map[string]interface{}) (bool, error) {
	token, _ := payload["tracking_token"].(string)
	if token == "" {
		token, _ = payload["campaign_id"].(string)
	}
	messageID, _ := payload["sg_message_id"].(string)
	if token == "" && messageID == "" {
		log.Printf("SendGrid event without tracking keys: %v", payload)
		return false, nil
	}

	var campaign model.EmailCampaign
	err := t.DB.WithContext(ctx).
		Where("tracking_token = ? OR (sendgrid_message_id IS NOT NULL AND sendgrid_message_id = ?)", token, messageID).
		First(&campaign).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("No campaign found for SendGrid event: %v", payload)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	eventType, _ := payload["event"].(string)
	eventType = strings.ToLower(eventType)
	raw, _ := json.Marshal(payload)

	err = t.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event := model.EmailEvent{
			CampaignID: campaign.ID,
			EventType:  eventType,
			IPAddress:  stringField(payload, "ip"),
			UserAgent:  stringField(payload, "useragent"),
			URLClicked: stringField(payload, "url"),
			RawPayload: datatypes.JSON(raw),
			OccurredAt: time.Now().UTC(),
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
		if eventType == model.EventOpen {
			return foldOpen(tx, campaign.ID, campaign.CandidateID)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// HandleInboundReply matches an inbound-parse payload to a candidate by
// sender address and records a reply against that candidate's most recently
// sent campaign.
//
// The most-recent-campaign rule is a documented heuristic: with several
// overlapping sends to one candidate the reply may belong to an older
// campaign, and there is deliberately no thread correlation.
func (t *Tracker) HandleInboundReply(ctx context.Context, reply InboundReply) (ReplyOutcome, error) {
	addr := ExtractAddress(reply.From)
	if addr == "" {
		return ReplyNoSender, nil
	}

	var candidate model.Candidate
	err := t.DB.WithContext(ctx).Where("email ILIKE ?", addr).First(&candidate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Inbound reply from unknown email: %s", addr)
		return ReplyCandidateNotFound, nil
	}
	if err != nil {
		return "", err
	}

	var campaign model.EmailCampaign
	err = t.DB.WithContext(ctx).
		Where("candidate_id = ?", candidate.ID).
		Order("sent_at DESC NULLS LAST").
		First(&campaign).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ReplyNoCampaign, nil
	}
	if err != nil {
		return "", err
	}

	text := reply.Text
	if len(text) > 2000 {
		text = text[:2000]
	}
	raw, _ := json.Marshal(map[string]string{
		"from":    reply.From,
		"to":      reply.To,
		"subject": reply.Subject,
		"text":    text,
	})

	if err := t.RecordReply(ctx, &campaign, datatypes.JSON(raw)); err != nil {
		return "", err
	}
	log.Printf("Reply recorded | candidate=%s campaign=%s", candidate.ID, campaign.ID)
	return ReplyRecorded, nil
}

func stringField(payload map[string]interface{}, key string) string {
	s, _ := payload[key].(string)
	return s
}
