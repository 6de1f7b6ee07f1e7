// Package server contain implementation of go-gin-server and each route handlers
package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/vulong264/cvstatuschecker/internal/controller/candidate"
	"github.com/vulong264/cvstatuschecker/internal/controller/email"
	"github.com/vulong264/cvstatuschecker/internal/controller/tracking"
	"github.com/vulong264/cvstatuschecker/internal/middleware"

	// Init swagger doc
	_ "github.com/vulong264/cvstatuschecker/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes will register each http endpoint routes to bound AppServer instance
func (s *AppServer) RegisterRoutes() http.Handler {
	r := gin.Default()

	r.Use(middleware.SafeHeader())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.Config.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Content-Type", "X-API-Key"},
		AllowCredentials: true,
	}))

	candidateCtrl := candidate.NewCandidateController(s.DB, s.Syncer, s.Config.GoogleDriveFolderID)
	emailCtrl := email.NewEmailController(s.DB, s.Tracker)
	trackingCtrl := tracking.NewTrackingController(s.Tracker)

	r.GET("/health", s.healthHandler)

	api := r.Group("/api")
	{
		// Mutating admin endpoints sit behind the API key; reads and the
		// provider-facing tracking endpoints do not.
		requireKey := middleware.RequireAPIKey(s.Config.AdminAPIKey)

		candidates := api.Group("/candidates")
		{
			candidates.GET("", candidateCtrl.ListCandidates)
			candidates.GET("/:id", candidateCtrl.GetCandidate)
			candidates.POST("/sync", requireKey, candidateCtrl.SyncCandidates)
			candidates.PATCH("/:id/status", requireKey, candidateCtrl.UpdateStatus)
			candidates.DELETE("/:id", requireKey, candidateCtrl.DeleteCandidate)
		}

		emails := api.Group("/email")
		{
			emails.GET("/templates", emailCtrl.ListTemplates)
			emails.GET("/templates/:id", emailCtrl.GetTemplate)
			emails.POST("/templates", requireKey, middleware.SizeLimit(1<<20), emailCtrl.CreateTemplate)
			emails.PUT("/templates/:id", requireKey, middleware.SizeLimit(1<<20), emailCtrl.UpdateTemplate)
			emails.DELETE("/templates/:id", requireKey, emailCtrl.DeactivateTemplate)

			emails.POST("/send/:candidate_id", requireKey, emailCtrl.SendToCandidate)
			emails.POST("/send-bulk", requireKey, emailCtrl.SendBulk)

			emails.GET("/campaigns", emailCtrl.ListCampaigns)
			emails.GET("/campaigns/:id", emailCtrl.GetCampaign)
		}

		track := api.Group("/track")
		{
			track.Use(middleware.EnvRateLimitMiddleware())
			track.GET("/open/:token", trackingCtrl.TrackOpen)
			track.POST("/sendgrid", trackingCtrl.HandleSendGridEvents)
			track.POST("/reply", trackingCtrl.HandleInboundReply)
		}
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func (s *AppServer) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.DB.Health())
}
