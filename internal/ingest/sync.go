// Package ingest scans the remote CV folder and upserts candidates.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vulong264/cvstatuschecker/internal/cvparse"
	"github.com/vulong264/cvstatuschecker/internal/database"
	"github.com/vulong264/cvstatuschecker/internal/lifecycle"
	"github.com/vulong264/cvstatuschecker/internal/model"
)

// FileMeta describes one discovered file in the remote store.
type FileMeta struct {
	ID       string
	Name     string
	MimeType string
}

// FileStore lists and downloads CV files from a remote folder. List failure
// is fatal to a sync run; Download may fail per file.
type FileStore interface {
	List(ctx context.Context, folderID string) ([]FileMeta, error)
	Download(ctx context.Context, fileID, mimeType string) (content []byte, extension string, err error)
}

// Extractor turns downloaded CV bytes into structured candidate fields.
type Extractor interface {
	Process(ctx context.Context, content []byte, extension string) (cvparse.CandidateData, error)
}

// Summary aggregates the outcome of one sync run.
type Summary struct {
	New     int `json:"new"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

// Syncer orchestrates one synchronous scan of the CV folder.
type Syncer struct {
	DB        *database.DBinstanceStruct
	Store     FileStore
	Extractor Extractor
}

// NewSyncer creates a Syncer with the provided collaborators.
func NewSyncer(db *database.DBinstanceStruct, store FileStore, extractor Extractor) *Syncer {
	return &Syncer{DB: db, Store: store, Extractor: extractor}
}

// Sync scans the folder and upserts one candidate per source file.
//
// A file already in the database is skipped unless force is set. Each file's
// download/extraction/upsert failure only increments the error counter; the
// run continues with the next file. Every successful file is committed in its
// own transaction before the next one starts, so an interrupted run keeps
// completed files and retries failed ones on the next invocation.
func (s *Syncer) Sync(ctx context.Context, folderID string, force bool) (Summary, error) {
	var summary Summary

	files, err := s.Store.List(ctx, folderID)
	if err != nil {
		// Listing or auth failure aborts the whole run.
		return summary, fmt.Errorf("failed to list CV folder: %w", err)
	}
	log.Printf("Found %d CV file(s) in folder", len(files))

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		var existing model.Candidate
		err := s.DB.WithContext(ctx).Where("drive_file_id = ?", f.ID).First(&existing).Error
		found := err == nil
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Error looking up candidate for %s: %v", f.Name, err)
			summary.Errors++
			continue
		}

		if found && !force {
			summary.Skipped++
			continue
		}

		content, ext, err := s.Store.Download(ctx, f.ID, f.MimeType)
		if err != nil {
			log.Printf("Failed to download %s: %v", f.Name, err)
			summary.Errors++
			continue
		}

		data, err := s.Extractor.Process(ctx, content, ext)
		if err != nil {
			log.Printf("Error parsing CV %s: %v", f.Name, err)
			summary.Errors++
			continue
		}

		if found {
			if err := s.updateCandidate(ctx, &existing, data, f); err != nil {
				log.Printf("Failed to update candidate from %s: %v", f.Name, err)
				summary.Errors++
				continue
			}
			summary.Updated++
			log.Printf("Updated candidate from: %s", f.Name)
		} else {
			if err := s.createCandidate(ctx, data, f); err != nil {
				log.Printf("Failed to create candidate from %s: %v", f.Name, err)
				summary.Errors++
				continue
			}
			summary.New++
			log.Printf("Created candidate from: %s | email=%s", f.Name, data.Email)
		}
	}

	return summary, nil
}

func (s *Syncer) createCandidate(ctx context.Context, data cvparse.CandidateData, meta FileMeta) error {
	candidate := model.Candidate{
		DriveFileID: meta.ID,
		Status:      lifecycle.StatusPending,
	}
	applyProfile(&candidate, data, meta)
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&candidate).Error
	})
}

// updateCandidate overwrites the extracted fields of an existing candidate.
// Status is deliberately untouched: a re-parse never resets engagement state.
func (s *Syncer) updateCandidate(ctx context.Context, candidate *model.Candidate, data cvparse.CandidateData, meta FileMeta) error {
	applyProfile(candidate, data, meta)
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Model(candidate).Select(
			"drive_file_name", "full_name", "email", "phone", "linkedin_url",
			"location", "years_of_experience", "current_title", "current_company",
			"main_skills", "tech_stack", "business_domains", "education",
			"work_history", "cv_summary", "raw_cv_text",
		).Updates(candidate).Error
	})
}

func applyProfile(c *model.Candidate, data cvparse.CandidateData, meta FileMeta) {
	c.DriveFileName = meta.Name
	c.FullName = strOrNil(data.FullName)
	c.Email = strOrNil(data.Email)
	c.Phone = strOrNil(data.Phone)
	c.LinkedinURL = strOrNil(data.LinkedinURL)
	c.Location = strOrNil(data.Location)
	c.YearsOfExperience = data.YearsOfExperience
	c.CurrentTitle = strOrNil(data.CurrentTitle)
	c.CurrentCompany = strOrNil(data.CurrentCompany)
	c.MainSkills = pq.StringArray(data.MainSkills)
	c.TechStack = pq.StringArray(data.TechStack)
	c.BusinessDomains = pq.StringArray(data.BusinessDomains)
	c.Education = toJSON(data.Education)
	c.WorkHistory = toJSON(data.WorkHistory)
	c.CVSummary = strOrNil(data.CVSummary)
	c.RawCVText = data.RawCVText
}

func strOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toJSON(v []map[string]interface{}) datatypes.JSON {
	if len(v) == 0 {
		return datatypes.JSON([]byte("[]"))
	}
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(b)
}
