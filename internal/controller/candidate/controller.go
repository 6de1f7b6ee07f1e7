// Package candidate provides HTTP handlers for candidate related operations.
package candidate

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vulong264/cvstatuschecker/internal/database"
	"github.com/vulong264/cvstatuschecker/internal/ingest"
	"github.com/vulong264/cvstatuschecker/internal/lifecycle"
	"github.com/vulong264/cvstatuschecker/internal/model"
	"github.com/vulong264/cvstatuschecker/internal/utilities"
)

// CandidateController handles candidate related endpoints
type CandidateController struct {
	DB     *database.DBinstanceStruct
	Syncer *ingest.Syncer

	// DefaultFolderID is used when a sync request names no folder.
	DefaultFolderID string
}

// NewCandidateController creates a new instance of CandidateController
func NewCandidateController(db *database.DBinstanceStruct, syncer *ingest.Syncer, defaultFolderID string) *CandidateController {
	return &CandidateController{
		DB:              db,
		Syncer:          syncer,
		DefaultFolderID: defaultFolderID,
	}
}

// ListCandidates fetches candidates matching the query filters.
// @Summary List candidates with optional filters
// @Description Every query is optional; filters combine with AND
// @Tags Candidate
// @Produce json
// @Param status query string false "Exact lifecycle status, e.g. PENDING or EMAILED"
// @Param skill query string false "Candidate must list this skill (case insensitive)"
// @Param domain query string false "Candidate must list this business domain (case insensitive)"
// @Param min_years query number false "Minimum years of experience"
// @Param max_years query number false "Maximum years of experience"
// @Param q query string false "Substring match over name, title, company and summary"
// @Param limit query int false "Page size, default 50, max 200"
// @Param offset query int false "Page offset, default 0"
// @Success 200 {array} model.Candidate "Matching candidates"
// @Failure 400 {object} utilities.ErrorResponse "Invalid filter value"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /candidates [get]
func (cc *CandidateController) ListCandidates(c *gin.Context) {
	query := cc.DB.Model(&model.Candidate{})

	if status := c.Query("status"); status != "" {
		parsed, err := lifecycle.ParseStatus(status)
		if err != nil {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
			return
		}
		query = query.Where("status = ?", parsed)
	}

	if skill := c.Query("skill"); skill != "" {
		query = query.Where("EXISTS (SELECT 1 FROM unnest(main_skills) AS s WHERE s ILIKE ?)", skill)
	}
	if domain := c.Query("domain"); domain != "" {
		query = query.Where("EXISTS (SELECT 1 FROM unnest(business_domains) AS d WHERE d ILIKE ?)", domain)
	}

	if minYears := c.Query("min_years"); minYears != "" {
		years, err := strconv.ParseFloat(minYears, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "min_years must be a number"})
			return
		}
		query = query.Where("years_of_experience >= ?", years)
	}
	if maxYears := c.Query("max_years"); maxYears != "" {
		years, err := strconv.ParseFloat(maxYears, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "max_years must be a number"})
			return
		}
		query = query.Where("years_of_experience <= ?", years)
	}

	if q := c.Query("q"); q != "" {
		like := "%" + q + "%"
		query = query.Where(
			"full_name ILIKE ? OR current_title ILIKE ? OR current_company ILIKE ? OR cv_summary ILIKE ?",
			like, like, like, like,
		)
	}

	limit := 50
	if l := c.Query("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = parsed
	}
	if limit > 200 {
		limit = 200
	}
	offset := 0
	if o := c.Query("offset"); o != "" {
		parsed, err := strconv.Atoi(o)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "offset must be a non-negative integer"})
			return
		}
		offset = parsed
	}

	var candidates []model.Candidate
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&candidates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to retrieve candidates: ", err),
		})
		return
	}

	c.JSON(http.StatusOK, candidates)
}

// GetCandidate fetches one candidate by id.
// @Summary Get a single candidate
// @Tags Candidate
// @Produce json
// @Param id path string true "Candidate id"
// @Success 200 {object} model.Candidate "Candidate found"
// @Failure 404 {object} utilities.ErrorResponse "Candidate not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /candidates/{id} [get]
func (cc *CandidateController) GetCandidate(c *gin.Context) {
	var candidate model.Candidate
	if err := cc.DB.First(&candidate, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Candidate not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to retrieve candidate: ", err),
		})
		return
	}
	c.JSON(http.StatusOK, candidate)
}

type statusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus overrides a candidate's lifecycle status.
// @Summary Manually set a candidate's status
// @Description Accepts any valid status; the monotonic event rules do not apply to manual overrides
// @Tags Candidate
// @Accept json
// @Produce json
// @Param X-API-Key header string false "Admin API key"
// @Param id path string true "Candidate id"
// @Param status body statusUpdateRequest true "New status"
// @Success 200 {object} model.Candidate "Updated candidate"
// @Failure 400 {object} utilities.ErrorResponse "Unknown status value"
// @Failure 404 {object} utilities.ErrorResponse "Candidate not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /candidates/{id}/status [patch]
func (cc *CandidateController) UpdateStatus(c *gin.Context) {
	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	status, err := lifecycle.ParseStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var candidate model.Candidate
	if err := cc.DB.First(&candidate, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Candidate not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to retrieve candidate: ", err),
		})
		return
	}

	if err := cc.DB.Model(&candidate).Update("status", status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to update status: ", err),
		})
		return
	}

	c.JSON(http.StatusOK, candidate)
}

// DeleteCandidate removes a candidate and its campaigns.
// @Summary Delete a candidate
// @Tags Candidate
// @Produce json
// @Param X-API-Key header string false "Admin API key"
// @Param id path string true "Candidate id"
// @Success 200 {object} utilities.MessageResponse "Candidate deleted"
// @Failure 404 {object} utilities.ErrorResponse "Candidate not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /candidates/{id} [delete]
func (cc *CandidateController) DeleteCandidate(c *gin.Context) {
	var candidate model.Candidate
	if err := cc.DB.First(&candidate, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Candidate not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to retrieve candidate: ", err),
		})
		return
	}

	err := cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(
			"campaign_id IN (SELECT id FROM email_campaigns WHERE candidate_id = ?)", candidate.ID,
		).Delete(&model.EmailEvent{}).Error; err != nil {
			return err
		}
		if err := tx.Where("candidate_id = ?", candidate.ID).Delete(&model.EmailCampaign{}).Error; err != nil {
			return err
		}
		return tx.Delete(&candidate).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to delete candidate: ", err),
		})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Candidate deleted"})
}

type syncRequest struct {
	FolderID string `json:"folder_id"`
	Force    bool   `json:"force"`
}

// SyncCandidates scans the CV folder and upserts candidate records.
// @Summary Sync candidates from the Drive CV folder
// @Description Lists the folder, downloads new files, extracts and structures their content
// @Tags Candidate
// @Accept json
// @Produce json
// @Param X-API-Key header string false "Admin API key"
// @Param options body syncRequest false "Folder override and force reparse flag"
// @Success 200 {object} ingest.Summary "Per-file outcome counts"
// @Failure 400 {object} utilities.ErrorResponse "No folder configured"
// @Failure 502 {object} utilities.ErrorResponse "Folder listing failed"
// @Router /candidates/sync [post]
func (cc *CandidateController) SyncCandidates(c *gin.Context) {
	var req syncRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
				Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
			})
			return
		}
	}

	folderID := req.FolderID
	if folderID == "" {
		folderID = cc.DefaultFolderID
	}
	if folderID == "" {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "No CV folder configured"})
		return
	}

	summary, err := cc.Syncer.Sync(c.Request.Context(), folderID, req.Force)
	if err != nil {
		c.JSON(http.StatusBadGateway, utilities.ErrorResponse{
			Error: fmt.Sprint("Sync failed: ", err),
		})
		return
	}

	c.JSON(http.StatusOK, summary)
}
