// Package tracking provides the public endpoints hit by mail clients and
// the email provider: the open pixel, the event webhook, and inbound parse.
package tracking

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/vulong264/cvstatuschecker/internal/outreach"
	"github.com/vulong264/cvstatuschecker/internal/utilities"
)

// transparentGIF is a 1x1 transparent image, returned for every pixel hit
// so mail clients never see an error.
var transparentGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00, 0x80, 0x00,
	0x00, 0x00, 0x00, 0x00, 0xff, 0xff, 0xff, 0x21, 0xf9, 0x04, 0x01, 0x00,
	0x00, 0x00, 0x00, 0x2c, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00,
	0x00, 0x02, 0x02, 0x44, 0x01, 0x00, 0x3b,
}

// TrackingController handles tracking pixel, webhook and inbound reply
// endpoints
type TrackingController struct {
	Tracker *outreach.Tracker
}

// NewTrackingController creates a new instance of TrackingController
func NewTrackingController(tracker *outreach.Tracker) *TrackingController {
	return &TrackingController{Tracker: tracker}
}

// TrackOpen serves the tracking pixel and records the open.
// @Summary Open-tracking pixel
// @Description Always returns the GIF; unknown tokens and storage errors are swallowed
// @Tags Tracking
// @Produce gif
// @Param token path string true "Tracking token, with or without .gif suffix"
// @Success 200 {string} binary "1x1 transparent GIF"
// @Router /track/open/{token} [get]
func (tc *TrackingController) TrackOpen(c *gin.Context) {
	token := strings.TrimSuffix(c.Param("token"), ".gif")

	campaign, err := tc.Tracker.FindByToken(c.Request.Context(), token)
	if err == nil && campaign == nil {
		log.Printf("Unknown tracking token: %s", token)
	}
	if err == nil && campaign != nil {
		err = tc.Tracker.RecordOpen(c.Request.Context(), campaign, c.ClientIP(), c.Request.UserAgent())
	}
	if err != nil {
		// The client is a mail program loading an image; it gets the
		// pixel regardless.
		log.Printf("Failed to record open for token %s: %v", token, err)
	}

	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	c.Data(http.StatusOK, "image/gif", transparentGIF)
}

// HandleSendGridEvents ingests a SendGrid event webhook batch.
// @Summary SendGrid event webhook
// @Description Accepts a JSON array or a single event object; unmatchable elements are dropped
// @Tags Tracking
// @Accept json
// @Produce json
// @Success 200 {object} map[string]int "Number of events folded in"
// @Failure 400 {object} utilities.ErrorResponse "Body is not valid JSON"
// @Router /track/sendgrid [post]
func (tc *TrackingController) HandleSendGridEvents(c *gin.Context) {
	var events []map[string]interface{}
	if err := c.ShouldBindBodyWith(&events, binding.JSON); err != nil {
		// SendGrid normally posts an array but single objects appear in
		// manual tests and replays.
		var single map[string]interface{}
		if err := c.ShouldBindBodyWith(&single, binding.JSON); err != nil {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
				Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
			})
			return
		}
		events = []map[string]interface{}{single}
	}

	processed := 0
	for _, event := range events {
		matched, err := tc.Tracker.RecordProviderEvent(c.Request.Context(), event)
		if err != nil {
			log.Printf("Failed to record SendGrid event: %v", err)
			continue
		}
		if matched {
			processed++
		}
	}

	c.JSON(http.StatusOK, gin.H{"processed": processed})
}

// HandleInboundReply ingests a SendGrid inbound-parse form post.
// @Summary SendGrid inbound parse webhook
// @Description Matches the sender to a candidate and records a reply on the latest campaign
// @Tags Tracking
// @Accept mpfd
// @Produce json
// @Success 200 {object} utilities.MessageResponse "Resolution outcome"
// @Router /track/reply [post]
func (tc *TrackingController) HandleInboundReply(c *gin.Context) {
	reply := outreach.InboundReply{
		From:    c.PostForm("from"),
		To:      c.PostForm("to"),
		Subject: c.PostForm("subject"),
		Text:    c.PostForm("text"),
	}

	outcome, err := tc.Tracker.HandleInboundReply(c.Request.Context(), reply)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to record reply: ", err),
		})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: string(outcome)})
}
