package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"

	"github.com/vulong264/cvstatuschecker/internal/lifecycle"
)

// Candidate is the gorm model for a candidate parsed from one CV file in the
// Drive folder. DriveFileID is unique: repeated syncs of the same file update
// this row instead of creating a new one.
type Candidate struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Source file on Google Drive
	DriveFileID   string `gorm:"uniqueIndex;not null" json:"drive_file_id"`
	DriveFileName string `json:"drive_file_name"`

	Status lifecycle.Status `gorm:"type:text;default:'PENDING';index" json:"status"`

	// Identity
	FullName    *string `json:"full_name"`
	Email       *string `gorm:"index" json:"email"`
	Phone       *string `json:"phone"`
	LinkedinURL *string `json:"linkedin_url"`
	Location    *string `json:"location"`

	// Experience
	YearsOfExperience *float64 `json:"years_of_experience"`
	CurrentTitle      *string  `json:"current_title"`
	CurrentCompany    *string  `json:"current_company"`

	MainSkills      pq.StringArray `gorm:"type:text[]" json:"main_skills"`
	TechStack       pq.StringArray `gorm:"type:text[]" json:"tech_stack"`
	BusinessDomains pq.StringArray `gorm:"type:text[]" json:"business_domains"`

	Education   datatypes.JSON `json:"education"`
	WorkHistory datatypes.JSON `json:"work_history"`

	RawCVText string  `gorm:"type:text" json:"-"`
	CVSummary *string `gorm:"type:text" json:"cv_summary"`
}
