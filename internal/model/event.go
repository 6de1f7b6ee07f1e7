package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Event types recorded against a campaign.
const (
	EventOpen         = "open"
	EventClick        = "click"
	EventReply        = "reply"
	EventBounce       = "bounce"
	EventDelivered    = "delivered"
	EventUnsubscribed = "unsubscribed"
)

// EmailEvent is an append-only log entry for one tracking signal. Rows are
// never updated or deleted; RawPayload keeps the source payload for audit.
type EmailEvent struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	OccurredAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"occurred_at"`

	CampaignID uuid.UUID `gorm:"type:uuid;not null;index" json:"campaign_id"`

	EventType string `gorm:"not null;index" json:"event_type"`

	IPAddress  string         `json:"ip_address"`
	UserAgent  string         `json:"user_agent"`
	URLClicked string         `json:"url_clicked"`
	RawPayload datatypes.JSON `json:"raw_payload"`
}
