package model

import (
	"time"

	"github.com/google/uuid"
)

// EmailTemplate is a reusable outreach template. Subject and bodies may
// contain {{variable}} placeholders resolved at send time. Campaigns keep a
// copy of the rendered text, so deleting a template never loses past sends.
type EmailTemplate struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name     string  `gorm:"not null" json:"name" binding:"required"`
	Subject  string  `gorm:"not null" json:"subject" binding:"required"`
	BodyHTML string  `gorm:"type:text;not null" json:"body_html" binding:"required"`
	BodyText *string `gorm:"type:text" json:"body_text"`
	IsActive bool    `gorm:"default:true" json:"is_active"`
}
