// Package email provides HTTP handlers for template, send and campaign
// operations.
package email

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vulong264/cvstatuschecker/internal/database"
	"github.com/vulong264/cvstatuschecker/internal/model"
	"github.com/vulong264/cvstatuschecker/internal/outreach"
	"github.com/vulong264/cvstatuschecker/internal/utilities"
)

// EmailController handles template, send and campaign endpoints
type EmailController struct {
	DB      *database.DBinstanceStruct
	Tracker *outreach.Tracker
}

// NewEmailController creates a new instance of EmailController
func NewEmailController(db *database.DBinstanceStruct, tracker *outreach.Tracker) *EmailController {
	return &EmailController{
		DB:      db,
		Tracker: tracker,
	}
}

// ListTemplates fetches email templates.
// @Summary List email templates
// @Tags Email
// @Produce json
// @Param include_inactive query boolean false "Also return deactivated templates"
// @Success 200 {array} model.EmailTemplate "Templates"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /email/templates [get]
func (ec *EmailController) ListTemplates(c *gin.Context) {
	query := ec.DB.Model(&model.EmailTemplate{})
	if c.Query("include_inactive") != "true" {
		query = query.Where("is_active = ?", true)
	}

	var templates []model.EmailTemplate
	if err := query.Order("created_at DESC").Find(&templates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to retrieve templates: ", err),
		})
		return
	}
	c.JSON(http.StatusOK, templates)
}

// CreateTemplate stores a new email template.
// @Summary Create an email template
// @Description Subject and body may contain {{placeholders}} rendered per candidate at send time
// @Tags Email
// @Accept json
// @Produce json
// @Param X-API-Key header string false "Admin API key"
// @Param template body model.EmailTemplate true "Template"
// @Success 201 {object} model.EmailTemplate "Created template"
// @Failure 400 {object} utilities.ErrorResponse "Missing required fields"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /email/templates [post]
func (ec *EmailController) CreateTemplate(c *gin.Context) {
	var tmpl model.EmailTemplate
	if err := c.ShouldBindJSON(&tmpl); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	if err := ec.DB.Create(&tmpl).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to create template: ", err),
		})
		return
	}
	c.JSON(http.StatusCreated, tmpl)
}

// GetTemplate fetches one template by id.
// @Summary Get a single email template
// @Tags Email
// @Produce json
// @Param id path string true "Template id"
// @Success 200 {object} model.EmailTemplate "Template found"
// @Failure 404 {object} utilities.ErrorResponse "Template not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /email/templates/{id} [get]
func (ec *EmailController) GetTemplate(c *gin.Context) {
	var tmpl model.EmailTemplate
	if err := ec.DB.First(&tmpl, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Template not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to retrieve template: ", err),
		})
		return
	}
	c.JSON(http.StatusOK, tmpl)
}

// UpdateTemplate merges non-empty fields into an existing template.
// @Summary Update an email template
// @Tags Email
// @Accept json
// @Produce json
// @Param X-API-Key header string false "Admin API key"
// @Param id path string true "Template id"
// @Param template body model.EmailTemplate true "Fields to update"
// @Success 200 {object} model.EmailTemplate "Updated template"
// @Failure 404 {object} utilities.ErrorResponse "Template not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /email/templates/{id} [put]
func (ec *EmailController) UpdateTemplate(c *gin.Context) {
	var existing model.EmailTemplate
	if err := ec.DB.First(&existing, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Template not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to retrieve template: ", err),
		})
		return
	}

	var incoming model.EmailTemplate
	if err := c.ShouldBindJSON(&incoming); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	incoming.ID = existing.ID
	utilities.MergeNonEmpty(&existing, &incoming)

	if err := ec.DB.Save(&existing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to update template: ", err),
		})
		return
	}
	c.JSON(http.StatusOK, existing)
}

// DeactivateTemplate soft-deletes a template. Past campaigns keep their
// rendered copies, so the row is never removed.
// @Summary Deactivate an email template
// @Tags Email
// @Produce json
// @Param X-API-Key header string false "Admin API key"
// @Param id path string true "Template id"
// @Success 200 {object} utilities.MessageResponse "Template deactivated"
// @Failure 404 {object} utilities.ErrorResponse "Template not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /email/templates/{id} [delete]
func (ec *EmailController) DeactivateTemplate(c *gin.Context) {
	result := ec.DB.Model(&model.EmailTemplate{}).
		Where("id = ?", c.Param("id")).
		Update("is_active", false)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to deactivate template: ", result.Error),
		})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Template not found"})
		return
	}
	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Template deactivated"})
}

type sendRequest struct {
	TemplateID string `json:"template_id" binding:"required"`
	SenderName string `json:"sender_name"`
	Role       string `json:"role"`
	Company    string `json:"company"`
}

func (ec *EmailController) loadTemplate(c *gin.Context, id string) (*model.EmailTemplate, bool) {
	var tmpl model.EmailTemplate
	if err := ec.DB.First(&tmpl, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Template not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to retrieve template: ", err),
		})
		return nil, false
	}
	if !tmpl.IsActive {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Template is not active"})
		return nil, false
	}
	return &tmpl, true
}

// SendToCandidate renders a template for one candidate and sends it.
// @Summary Send a tracked email to a candidate
// @Tags Email
// @Accept json
// @Produce json
// @Param X-API-Key header string false "Admin API key"
// @Param candidate_id path string true "Candidate id"
// @Param send body sendRequest true "Template and sender variables"
// @Success 200 {object} model.EmailCampaign "Campaign for the confirmed send"
// @Failure 400 {object} utilities.ErrorResponse "Candidate has no email address or template inactive"
// @Failure 404 {object} utilities.ErrorResponse "Candidate or template not found"
// @Failure 502 {object} utilities.ErrorResponse "Transport failure, campaign row kept without sent_at"
// @Router /email/send/{candidate_id} [post]
func (ec *EmailController) SendToCandidate(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	var candidate model.Candidate
	if err := ec.DB.First(&candidate, "id = ?", c.Param("candidate_id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Candidate not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to retrieve candidate: ", err),
		})
		return
	}

	tmpl, ok := ec.loadTemplate(c, req.TemplateID)
	if !ok {
		return
	}

	variables := outreach.BuildTemplateVariables(&candidate, outreach.Variables{
		SenderName: req.SenderName,
		Role:       req.Role,
		Company:    req.Company,
	})

	campaign, err := ec.Tracker.Send(c.Request.Context(), &candidate, tmpl, variables)
	if err != nil {
		if errors.Is(err, outreach.ErrMissingAddress) {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to send email: ", err),
		})
		return
	}

	c.JSON(http.StatusOK, campaign)
}

type bulkSendRequest struct {
	CandidateIDs []string `json:"candidate_ids" binding:"required,min=1"`
	TemplateID   string   `json:"template_id" binding:"required"`
	SenderName   string   `json:"sender_name"`
	Role         string   `json:"role"`
	Company      string   `json:"company"`
}

// SendBulk sends a template to several candidates; failures never abort the
// batch.
// @Summary Send a tracked email to several candidates
// @Tags Email
// @Accept json
// @Produce json
// @Param X-API-Key header string false "Admin API key"
// @Param send body bulkSendRequest true "Candidate ids, template and sender variables"
// @Success 200 {object} outreach.BulkResult "Sent count and failed candidate ids"
// @Failure 400 {object} utilities.ErrorResponse "Empty candidate list or template inactive"
// @Failure 404 {object} utilities.ErrorResponse "Template not found"
// @Router /email/send-bulk [post]
func (ec *EmailController) SendBulk(c *gin.Context) {
	var req bulkSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	tmpl, ok := ec.loadTemplate(c, req.TemplateID)
	if !ok {
		return
	}

	// Duplicate ids in the request would double-send.
	ids := []string{}
	for _, id := range req.CandidateIDs {
		if !utilities.Contains(ids, id) {
			ids = append(ids, id)
		}
	}

	result := ec.Tracker.SendBulk(c.Request.Context(), ids, tmpl, outreach.Variables{
		SenderName: req.SenderName,
		Role:       req.Role,
		Company:    req.Company,
	})

	c.JSON(http.StatusOK, result)
}

// ListCampaigns fetches campaigns, optionally for one candidate.
// @Summary List email campaigns
// @Tags Email
// @Produce json
// @Param candidate_id query string false "Only campaigns for this candidate"
// @Param limit query int false "Page size, default 50, max 200"
// @Param offset query int false "Page offset, default 0"
// @Success 200 {array} model.EmailCampaign "Campaigns, newest first"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /email/campaigns [get]
func (ec *EmailController) ListCampaigns(c *gin.Context) {
	query := ec.DB.Model(&model.EmailCampaign{})
	if cid := c.Query("candidate_id"); cid != "" {
		query = query.Where("candidate_id = ?", cid)
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

	var campaigns []model.EmailCampaign
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&campaigns).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to retrieve campaigns: ", err),
		})
		return
	}
	c.JSON(http.StatusOK, campaigns)
}

// campaignDetail is a campaign with its event log.
type campaignDetail struct {
	model.EmailCampaign
	Events []model.EmailEvent `json:"events"`
}

// GetCampaign fetches one campaign with its events.
// @Summary Get a campaign and its tracking events
// @Tags Email
// @Produce json
// @Param id path string true "Campaign id"
// @Success 200 {object} campaignDetail "Campaign with events, oldest first"
// @Failure 404 {object} utilities.ErrorResponse "Campaign not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /email/campaigns/{id} [get]
func (ec *EmailController) GetCampaign(c *gin.Context) {
	var campaign model.EmailCampaign
	if err := ec.DB.First(&campaign, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Campaign not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to retrieve campaign: ", err),
		})
		return
	}

	var events []model.EmailEvent
	if err := ec.DB.Where("campaign_id = ?", campaign.ID).
		Order("occurred_at ASC").Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to retrieve events: ", err),
		})
		return
	}

	c.JSON(http.StatusOK, campaignDetail{EmailCampaign: campaign, Events: events})
}
