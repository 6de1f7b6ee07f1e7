package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"

	"github.com/vulong264/cvstatuschecker/internal/config"
	"github.com/vulong264/cvstatuschecker/internal/cvparse"
	"github.com/vulong264/cvstatuschecker/internal/database"
	"github.com/vulong264/cvstatuschecker/internal/drive"
	"github.com/vulong264/cvstatuschecker/internal/ingest"
	"github.com/vulong264/cvstatuschecker/internal/mailer"
	"github.com/vulong264/cvstatuschecker/internal/outreach"
)

// AppServer holds the wired application: configuration, database, the CV
// sync pipeline and the outreach tracker.
type AppServer struct {
	Config  *config.Config
	DB      *database.DBinstanceStruct
	Syncer  *ingest.Syncer
	Tracker *outreach.Tracker
}

// NewServer constructs the fully wired http.Server. The SendGrid transport
// is optional: without an API key sends fail per request but the tracking
// and candidate endpoints still work.
func NewServer() *http.Server {
	cfg := config.Load()

	db, err := database.GetMainDB()
	if err != nil {
		log.Fatalf("Database failed to initialize: %s", err)
	}

	driveClient, err := drive.NewClient(context.Background(), cfg.GoogleServiceAccountFile, cfg.GoogleDriveFolderID)
	if err != nil {
		log.Fatalf("Drive client failed to initialize: %s", err)
	}

	parser := cvparse.NewParser(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	syncer := ingest.NewSyncer(db, driveClient, parser)

	var transport outreach.Mailer
	sg, err := mailer.New(cfg.SendGridAPIKey, cfg.SendGridFromEmail, cfg.SendGridFromName)
	if err != nil {
		log.Printf("SendGrid transport disabled: %s", err)
	} else {
		transport = sg
	}
	tracker := outreach.NewTracker(db, transport, cfg.AppBaseURL)

	app := &AppServer{
		Config:  cfg,
		DB:      db,
		Syncer:  syncer,
		Tracker: tracker,
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      app.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}
