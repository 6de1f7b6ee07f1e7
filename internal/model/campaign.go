package model

import (
	"time"

	"github.com/google/uuid"
)

// EmailCampaign is one outreach send to one candidate. The row is created
// before the transport call so the tracking token exists when the pixel is
// embedded; SentAt and SendGridMessageID stay NULL until SendGrid confirms.
//
// TrackingToken joins pixel hits and webhook events back to this row;
// SendGridMessageID is the fallback key for events that omit the token.
type EmailCampaign struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	CandidateID uuid.UUID  `gorm:"type:uuid;not null;index" json:"candidate_id"`
	TemplateID  *uuid.UUID `gorm:"type:uuid" json:"template_id"`

	RenderedSubject  string `json:"rendered_subject"`
	RenderedBodyHTML string `gorm:"type:text" json:"rendered_body_html"`

	SentAt            *time.Time `json:"sent_at"`
	SendGridMessageID *string    `gorm:"index" json:"sendgrid_message_id"`

	TrackingToken string     `gorm:"uniqueIndex;not null" json:"tracking_token"`
	OpenedAt      *time.Time `json:"opened_at"`
	OpenCount     int        `gorm:"default:0" json:"open_count"`
	RepliedAt     *time.Time `json:"replied_at"`
}
