package database

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/datatypes"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	"github.com/vulong264/cvstatuschecker/internal/lifecycle"
	m "github.com/vulong264/cvstatuschecker/internal/model"
)

var testDBInstance *DBinstanceStruct
var teardown func(context.Context, ...testcontainers.TerminateOption) error

// Exported seeded records for package tests.
var (
	// TestCandidate1 has an email address and is PENDING.
	TestCandidate1 m.Candidate
	// TestCandidate2 has an email address and is PENDING.
	TestCandidate2 m.Candidate
	// TestCandidateNoEmail has no contact address; sends to it must fail.
	TestCandidateNoEmail m.Candidate

	TestTemplate1 m.EmailTemplate
	// TestTemplateInactive is excluded from active-template listings.
	TestTemplateInactive m.EmailTemplate
)

// GetTestDB starts a PostgreSQL test container and returns a teardown function,
// the DB instance, and any error encountered during setup.
func GetTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, *DBinstanceStruct, error) {

	if testDBInstance != nil && teardown != nil {
		return teardown, testDBInstance, nil
	}

	// Database configuration
	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:latest",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), nat.Port("5432/tcp"))
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	config := &DBConfig{
		useConstr: true,
		Constr:    fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort.Port(), dbUser, dbPwd, dbName),
	}

	db, err := NewDBInstance(config)
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	if err := seedTestData(db); err != nil {
		_ = dbContainer.Terminate(context.Background())
		return nil, nil, err
	}

	testDBInstance = db
	teardown = dbContainer.Terminate

	return dbContainer.Terminate, db, nil
}

// seedTestData inserts sample candidates and templates if the tables are empty.
func seedTestData(db *DBinstanceStruct) error {
	var candidateCount int64
	if err := db.Model(&m.Candidate{}).Count(&candidateCount).Error; err != nil {
		return err
	}
	if candidateCount > 0 {
		return loadTestData(db)
	}

	years1, years2 := 7.5, 3.0
	candidates := []m.Candidate{
		{
			ID:                uuid.New(),
			DriveFileID:       "drive-file-ana",
			DriveFileName:     "ana_kovacs_cv.pdf",
			Status:            lifecycle.StatusPending,
			FullName:          ptr("Ana Kovacs"),
			Email:             ptr("ana.kovacs@example.com"),
			Phone:             ptr("+36 20 000 0001"),
			Location:          ptr("Budapest, Hungary"),
			YearsOfExperience: &years1,
			CurrentTitle:      ptr("Senior Backend Engineer"),
			CurrentCompany:    ptr("FinPay"),
			MainSkills:        pq.StringArray{"Go", "PostgreSQL", "Kubernetes"},
			TechStack:         pq.StringArray{"Gin", "GORM", "Redis"},
			BusinessDomains:   pq.StringArray{"Fintech"},
			Education:         datatypes.JSON([]byte(`[{"degree":"BSc Computer Science","institution":"BME","year":2016}]`)),
			WorkHistory:       datatypes.JSON([]byte(`[{"company":"FinPay","role":"Senior Backend Engineer","years":3}]`)),
			CVSummary:         ptr("Backend engineer with fintech background."),
			RawCVText:         "Ana Kovacs\nSenior Backend Engineer...",
		},
		{
			ID:                uuid.New(),
			DriveFileID:       "drive-file-bela",
			DriveFileName:     "bela_toth_cv.docx",
			Status:            lifecycle.StatusPending,
			FullName:          ptr("Bela Toth"),
			Email:             ptr("bela.toth@example.com"),
			YearsOfExperience: &years2,
			CurrentTitle:      ptr("Data Engineer"),
			MainSkills:        pq.StringArray{"Python", "SQL"},
			BusinessDomains:   pq.StringArray{"E-commerce"},
		},
		{
			ID:            uuid.New(),
			DriveFileID:   "drive-file-noemail",
			DriveFileName: "anonymous_cv.pdf",
			Status:        lifecycle.StatusPending,
			FullName:      ptr("Cecil Nagy"),
			MainSkills:    pq.StringArray{"Java"},
		},
	}
	if err := db.Create(&candidates).Error; err != nil {
		return err
	}
	TestCandidate1 = candidates[0]
	TestCandidate2 = candidates[1]
	TestCandidateNoEmail = candidates[2]

	templates := []m.EmailTemplate{
		{
			ID:       uuid.New(),
			Name:     "Senior Engineer Outreach",
			Subject:  "Opportunity for {{candidate_name}}",
			BodyHTML: "<html><body><p>Hi {{first_name}},</p><p>{{sender_name}} is hiring a {{role}} at {{company}}.</p></body></html>",
			BodyText: ptr("Hi {{first_name}}, {{sender_name}} is hiring a {{role}} at {{company}}."),
			IsActive: true,
		},
		{
			ID:       uuid.New(),
			Name:     "Old Outreach",
			Subject:  "Hello {{candidate_name}}",
			BodyHTML: "<p>Hi {{candidate_name}}</p>",
			IsActive: false,
		},
	}
	if err := db.Create(&templates).Error; err != nil {
		return err
	}
	TestTemplate1 = templates[0]
	TestTemplateInactive = templates[1]

	return nil
}

// loadTestData populates exported variables when records already exist.
func loadTestData(db *DBinstanceStruct) error {
	if err := db.First(&TestCandidate1, "drive_file_id = ?", "drive-file-ana").Error; err != nil {
		return err
	}
	if err := db.First(&TestCandidate2, "drive_file_id = ?", "drive-file-bela").Error; err != nil {
		return err
	}
	if err := db.First(&TestCandidateNoEmail, "drive_file_id = ?", "drive-file-noemail").Error; err != nil {
		return err
	}
	if err := db.First(&TestTemplate1, "name = ?", "Senior Engineer Outreach").Error; err != nil {
		return err
	}
	return db.First(&TestTemplateInactive, "name = ?", "Old Outreach").Error
}

// ptr helper
func ptr[T any](v T) *T { return &v }
