package email

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/vulong264/cvstatuschecker/internal/database"
	"github.com/vulong264/cvstatuschecker/internal/lifecycle"
	"github.com/vulong264/cvstatuschecker/internal/model"
	"github.com/vulong264/cvstatuschecker/internal/outreach"
	"github.com/vulong264/cvstatuschecker/internal/testutil"
)

var testDB *database.DBinstanceStruct
var mailerStub *stubMailer

type stubMailer struct {
	sent []outreach.Message
	err  error
}

func (s *stubMailer) Send(_ context.Context, msg outreach.Message) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.sent = append(s.sent, msg)
	return "sg-stub", nil
}

func buildRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	tracker := outreach.NewTracker(testDB, mailerStub, "http://app.example.com")
	ctrl := NewEmailController(testDB, tracker)
	r.GET("/api/email/templates", ctrl.ListTemplates)
	r.GET("/api/email/templates/:id", ctrl.GetTemplate)
	r.POST("/api/email/templates", ctrl.CreateTemplate)
	r.PUT("/api/email/templates/:id", ctrl.UpdateTemplate)
	r.DELETE("/api/email/templates/:id", ctrl.DeactivateTemplate)
	r.POST("/api/email/send/:candidate_id", ctrl.SendToCandidate)
	r.POST("/api/email/send-bulk", ctrl.SendBulk)
	r.GET("/api/email/campaigns", ctrl.ListCampaigns)
	r.GET("/api/email/campaigns/:id", ctrl.GetCampaign)
	return r
}

var router *gin.Engine

func TestMain(m *testing.M) {
	teardown, db, err := database.GetTestDB()
	if err != nil {
		log.Fatalf("could not start test database: %v", err)
	}
	testDB = db
	mailerStub = &stubMailer{}
	router = buildRouter()

	code := m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Printf("could not teardown test database: %v", err)
		}
	}
	os.Exit(code)
}

func TestListTemplates(t *testing.T) {
	rec, _ := testutil.MakeJSONRequest(nil, "", router, "/api/email/templates", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Senior Engineer Outreach")
	assert.NotContains(t, rec.Body.String(), "Old Outreach")

	rec, _ = testutil.MakeJSONRequest(nil, "", router, "/api/email/templates?include_inactive=true", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Old Outreach")
}

func TestGetTemplate(t *testing.T) {
	rec, resp := testutil.MakeJSONRequest(nil, "", router, "/api/email/templates/"+database.TestTemplate1.ID.String(), http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Senior Engineer Outreach", resp["name"])

	rec, _ = testutil.MakeJSONRequest(nil, "", router, "/api/email/templates/"+uuid.NewString(), http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateTemplate(t *testing.T) {
	rec, resp := testutil.MakeJSONRequest(gin.H{
		"name":      "Follow Up",
		"subject":   "Checking in, {{first_name}}",
		"body_html": "<p>Hi {{first_name}}</p>",
	}, "", router, "/api/email/templates", http.MethodPost)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Follow Up", resp["name"])
	assert.NotEmpty(t, resp["id"])
}

func TestCreateTemplate_MissingFields(t *testing.T) {
	rec, _ := testutil.MakeJSONRequest(gin.H{"name": "No Body"}, "", router, "/api/email/templates", http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateTemplate(t *testing.T) {
	tmpl := model.EmailTemplate{ID: uuid.New(), Name: "Editable", Subject: "Old subject", BodyHTML: "<p>old</p>", IsActive: true}
	assert.NoError(t, testDB.Create(&tmpl).Error)

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"name":      "Editable",
		"subject":   "New subject",
		"body_html": "<p>old</p>",
	}, "", router, "/api/email/templates/"+tmpl.ID.String(), http.MethodPut)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "New subject", resp["subject"])

	rec, _ = testutil.MakeJSONRequest(gin.H{
		"name": "x", "subject": "y", "body_html": "z",
	}, "", router, "/api/email/templates/"+uuid.NewString(), http.MethodPut)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeactivateTemplate(t *testing.T) {
	tmpl := model.EmailTemplate{ID: uuid.New(), Name: "Retired", Subject: "s", BodyHTML: "b", IsActive: true}
	assert.NoError(t, testDB.Create(&tmpl).Error)

	rec, _ := testutil.MakeJSONRequest(nil, "", router, "/api/email/templates/"+tmpl.ID.String(), http.MethodDelete)
	assert.Equal(t, http.StatusOK, rec.Code)

	var stored model.EmailTemplate
	assert.NoError(t, testDB.First(&stored, "id = ?", tmpl.ID).Error)
	assert.False(t, stored.IsActive)

	rec, _ = testutil.MakeJSONRequest(nil, "", router, "/api/email/templates/"+uuid.NewString(), http.MethodDelete)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSendToCandidate(t *testing.T) {
	mailerStub.err = nil
	rec, resp := testutil.MakeJSONRequest(gin.H{
		"template_id": database.TestTemplate1.ID.String(),
		"sender_name": "Reka",
		"role":        "Backend Engineer",
		"company":     "Acme",
	}, "", router, "/api/email/send/"+database.TestCandidate1.ID.String(), http.MethodPost)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Opportunity for Ana Kovacs", resp["rendered_subject"])
	assert.NotEmpty(t, resp["sent_at"])
	assert.NotEmpty(t, resp["tracking_token"])

	assert.Equal(t, lifecycle.StatusEmailed, candidateStatus(t, database.TestCandidate1.ID))
}

func TestSendToCandidate_Failures(t *testing.T) {
	// No email address on file.
	rec, _ := testutil.MakeJSONRequest(gin.H{
		"template_id": database.TestTemplate1.ID.String(),
	}, "", router, "/api/email/send/"+database.TestCandidateNoEmail.ID.String(), http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Inactive template.
	rec, _ = testutil.MakeJSONRequest(gin.H{
		"template_id": database.TestTemplateInactive.ID.String(),
	}, "", router, "/api/email/send/"+database.TestCandidate1.ID.String(), http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown candidate and unknown template.
	rec, _ = testutil.MakeJSONRequest(gin.H{
		"template_id": database.TestTemplate1.ID.String(),
	}, "", router, "/api/email/send/"+uuid.NewString(), http.MethodPost)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = testutil.MakeJSONRequest(gin.H{
		"template_id": uuid.NewString(),
	}, "", router, "/api/email/send/"+database.TestCandidate1.ID.String(), http.MethodPost)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSendToCandidate_TransportError(t *testing.T) {
	mailerStub.err = errors.New("sendgrid down")
	defer func() { mailerStub.err = nil }()

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"template_id": database.TestTemplate1.ID.String(),
	}, "", router, "/api/email/send/"+database.TestCandidate2.ID.String(), http.MethodPost)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	// The pending campaign row is kept for inspection.
	var campaign model.EmailCampaign
	assert.NoError(t, testDB.First(&campaign, "candidate_id = ?", database.TestCandidate2.ID).Error)
	assert.Nil(t, campaign.SentAt)
}

func TestSendBulk(t *testing.T) {
	mailerStub.err = nil
	id1 := database.TestCandidate1.ID.String()
	rec, resp := testutil.MakeJSONRequest(gin.H{
		"candidate_ids": []string{id1, id1, database.TestCandidateNoEmail.ID.String()},
		"template_id":   database.TestTemplate1.ID.String(),
		"sender_name":   "Reka",
	}, "", router, "/api/email/send-bulk", http.MethodPost)
	assert.Equal(t, http.StatusOK, rec.Code)
	// The duplicate id is collapsed before sending.
	assert.EqualValues(t, 1, resp["sent"])
	assert.Len(t, resp["failed"], 1)
}

func TestSendBulk_EmptyList(t *testing.T) {
	rec, _ := testutil.MakeJSONRequest(gin.H{
		"candidate_ids": []string{},
		"template_id":   database.TestTemplate1.ID.String(),
	}, "", router, "/api/email/send-bulk", http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListAndGetCampaigns(t *testing.T) {
	rec, _ := testutil.MakeJSONRequest(nil, "", router,
		"/api/email/campaigns?candidate_id="+database.TestCandidate1.ID.String(), http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), database.TestCandidate1.ID.String())

	var campaign model.EmailCampaign
	assert.NoError(t, testDB.First(&campaign, "candidate_id = ?", database.TestCandidate1.ID).Error)

	rec, resp := testutil.MakeJSONRequest(nil, "", router,
		"/api/email/campaigns/"+campaign.ID.String(), http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, campaign.ID.String(), resp["id"])
	assert.NotNil(t, resp["events"])

	rec, _ = testutil.MakeJSONRequest(nil, "", router,
		"/api/email/campaigns/"+uuid.NewString(), http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func candidateStatus(t *testing.T, id uuid.UUID) lifecycle.Status {
	t.Helper()
	var c model.Candidate
	assert.NoError(t, testDB.Select("id", "status").First(&c, "id = ?", id).Error)
	return c.Status
}
