package ingest_test

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"

	"github.com/vulong264/cvstatuschecker/internal/cvparse"
	"github.com/vulong264/cvstatuschecker/internal/database"
	"github.com/vulong264/cvstatuschecker/internal/ingest"
	"github.com/vulong264/cvstatuschecker/internal/lifecycle"
	"github.com/vulong264/cvstatuschecker/internal/model"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	var err error
	var teardown func(context.Context, ...testcontainers.TerminateOption) error
	teardown, testDB, err = database.GetTestDB()
	if err != nil {
		log.Printf("could not start postgres container: %v", err)
		os.Exit(1)
	}
	m.Run()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if teardown != nil {
		_ = teardown(ctx)
	}
}

// fakeStore serves an in-memory file listing. File content is the file name,
// so the fake extractor can derive deterministic candidate fields from it.
type fakeStore struct {
	files       []ingest.FileMeta
	listErr     error
	downloadErr map[string]error
}

func (s *fakeStore) List(ctx context.Context, folderID string) ([]ingest.FileMeta, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.files, nil
}

func (s *fakeStore) Download(ctx context.Context, fileID, mimeType string) ([]byte, string, error) {
	if err := s.downloadErr[fileID]; err != nil {
		return nil, "", err
	}
	for _, f := range s.files {
		if f.ID == fileID {
			return []byte(f.Name), ".txt", nil
		}
	}
	return nil, "", errors.New("file not found")
}

// fakeExtractor fails for content containing "broken", otherwise builds
// fields from the content string.
type fakeExtractor struct {
	suffix string
}

func (e *fakeExtractor) Process(ctx context.Context, content []byte, extension string) (cvparse.CandidateData, error) {
	name := string(content)
	if strings.Contains(name, "broken") {
		return cvparse.CandidateData{}, errors.New("unsupported document")
	}
	return cvparse.CandidateData{
		FullName:  name + e.suffix,
		Email:     name + "@example.com",
		RawCVText: "cv text of " + name,
	}, nil
}

func candidateCount(t *testing.T) int64 {
	var n int64
	assert.NoError(t, testDB.Model(&model.Candidate{}).Count(&n).Error)
	return n
}

func TestSync_NewFilesCreatePendingCandidates(t *testing.T) {
	store := &fakeStore{files: []ingest.FileMeta{
		{ID: "sync-new-1", Name: "dora", MimeType: "application/pdf"},
		{ID: "sync-new-2", Name: "endre", MimeType: "text/plain"},
	}}
	syncer := ingest.NewSyncer(testDB, store, &fakeExtractor{})

	summary, err := syncer.Sync(context.Background(), "folder", false)
	assert.NoError(t, err)
	assert.Equal(t, ingest.Summary{New: 2}, summary)

	var c model.Candidate
	assert.NoError(t, testDB.First(&c, "drive_file_id = ?", "sync-new-1").Error)
	assert.Equal(t, lifecycle.StatusPending, c.Status)
	assert.Equal(t, "dora", *c.FullName)
	assert.Equal(t, "dora@example.com", *c.Email)
	assert.Equal(t, "dora", c.DriveFileName)
}

func TestSync_SecondRunSkipsEverything(t *testing.T) {
	store := &fakeStore{files: []ingest.FileMeta{
		{ID: "sync-idem-1", Name: "fanni", MimeType: "application/pdf"},
	}}
	syncer := ingest.NewSyncer(testDB, store, &fakeExtractor{})

	first, err := syncer.Sync(context.Background(), "folder", false)
	assert.NoError(t, err)
	assert.Equal(t, 1, first.New)

	before := candidateCount(t)
	second, err := syncer.Sync(context.Background(), "folder", false)
	assert.NoError(t, err)
	assert.Equal(t, ingest.Summary{Skipped: 1}, second)
	assert.Equal(t, before, candidateCount(t))
}

func TestSync_ForceReparseOverwritesButKeepsStatus(t *testing.T) {
	store := &fakeStore{files: []ingest.FileMeta{
		{ID: "sync-force-1", Name: "geza", MimeType: "application/pdf"},
	}}
	syncer := ingest.NewSyncer(testDB, store, &fakeExtractor{})

	_, err := syncer.Sync(context.Background(), "folder", false)
	assert.NoError(t, err)

	// Simulate engagement progress before the re-parse.
	assert.NoError(t, testDB.Model(&model.Candidate{}).
		Where("drive_file_id = ?", "sync-force-1").
		Update("status", lifecycle.StatusEmailed).Error)

	before := candidateCount(t)
	summary, err := ingest.NewSyncer(testDB, store, &fakeExtractor{suffix: " v2"}).
		Sync(context.Background(), "folder", true)
	assert.NoError(t, err)
	assert.Equal(t, ingest.Summary{Updated: 1}, summary)
	assert.Equal(t, before, candidateCount(t), "force re-parse must not duplicate the candidate")

	var c model.Candidate
	assert.NoError(t, testDB.First(&c, "drive_file_id = ?", "sync-force-1").Error)
	assert.Equal(t, "geza v2", *c.FullName)
	assert.Equal(t, lifecycle.StatusEmailed, c.Status, "re-parse must never reset status")
}

func TestSync_ExtractionFailureIsIsolated(t *testing.T) {
	store := &fakeStore{files: []ingest.FileMeta{
		{ID: "sync-iso-1", Name: "hanna", MimeType: "application/pdf"},
		{ID: "sync-iso-2", Name: "broken-doc", MimeType: "application/pdf"},
		{ID: "sync-iso-3", Name: "imre", MimeType: "application/pdf"},
	}}
	syncer := ingest.NewSyncer(testDB, store, &fakeExtractor{})

	summary, err := syncer.Sync(context.Background(), "folder", false)
	assert.NoError(t, err)
	assert.Equal(t, ingest.Summary{New: 2, Errors: 1}, summary)

	// The file after the broken one was still processed.
	var c model.Candidate
	assert.NoError(t, testDB.First(&c, "drive_file_id = ?", "sync-iso-3").Error)
}

func TestSync_DownloadFailureIsIsolated(t *testing.T) {
	store := &fakeStore{
		files: []ingest.FileMeta{
			{ID: "sync-dl-1", Name: "janos", MimeType: "application/pdf"},
			{ID: "sync-dl-2", Name: "kata", MimeType: "application/pdf"},
		},
		downloadErr: map[string]error{"sync-dl-1": errors.New("transient drive error")},
	}
	summary, err := ingest.NewSyncer(testDB, store, &fakeExtractor{}).
		Sync(context.Background(), "folder", false)
	assert.NoError(t, err)
	assert.Equal(t, ingest.Summary{New: 1, Errors: 1}, summary)

	// The failed file was not committed and is retried on the next run.
	retry, err := ingest.NewSyncer(testDB, &fakeStore{files: store.files}, &fakeExtractor{}).
		Sync(context.Background(), "folder", false)
	assert.NoError(t, err)
	assert.Equal(t, ingest.Summary{New: 1, Skipped: 1}, retry)
}

func TestSync_ListFailureIsFatal(t *testing.T) {
	store := &fakeStore{listErr: fmt.Errorf("drive auth failed")}
	_, err := ingest.NewSyncer(testDB, store, &fakeExtractor{}).
		Sync(context.Background(), "folder", false)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "drive auth failed")
}
