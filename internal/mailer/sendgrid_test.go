package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vulong264/cvstatuschecker/internal/outreach"
)

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New("", "from@example.com", "Recruiting Team")
	assert.Error(t, err)

	_, err = New("SG.key", "", "Recruiting Team")
	assert.Error(t, err)

	s, err := New("SG.key", "from@example.com", "Recruiting Team")
	assert.NoError(t, err)
	assert.NotNil(t, s)
}

func TestBuildMessage_TrackingEnabled(t *testing.T) {
	s, err := New("SG.key", "from@example.com", "Recruiting Team")
	assert.NoError(t, err)

	m := s.buildMessage(outreach.Message{
		ToEmail:       "ana.kovacs@example.com",
		ToName:        "Ana Kovacs",
		Subject:       "Opportunity for Ana Kovacs",
		BodyHTML:      "<p>Hi Ana</p>",
		CampaignID:    "campaign-1",
		TrackingToken: "token-1",
	})

	if assert.NotNil(t, m.TrackingSettings) {
		if assert.NotNil(t, m.TrackingSettings.ClickTracking) {
			assert.True(t, *m.TrackingSettings.ClickTracking.Enable)
			assert.False(t, *m.TrackingSettings.ClickTracking.EnableText)
		}
		if assert.NotNil(t, m.TrackingSettings.OpenTracking) {
			assert.True(t, *m.TrackingSettings.OpenTracking.Enable)
		}
	}

	if assert.Len(t, m.Personalizations, 1) {
		p := m.Personalizations[0]
		assert.Equal(t, "campaign-1", p.CustomArgs["campaign_id"])
		assert.Equal(t, "token-1", p.CustomArgs["tracking_token"])
		if assert.Len(t, p.To, 1) {
			assert.Equal(t, "ana.kovacs@example.com", p.To[0].Address)
		}
	}
}

func TestBuildMessage_TextBodyOptional(t *testing.T) {
	s, _ := New("SG.key", "from@example.com", "Recruiting Team")

	m := s.buildMessage(outreach.Message{BodyHTML: "<p>Hi</p>"})
	assert.Len(t, m.Content, 1)
	assert.Equal(t, "text/html", m.Content[0].Type)

	m = s.buildMessage(outreach.Message{BodyHTML: "<p>Hi</p>", BodyText: "Hi"})
	assert.Len(t, m.Content, 2)
	assert.Equal(t, "text/plain", m.Content[0].Type)
}
