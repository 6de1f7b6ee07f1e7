// Package drive lists and downloads CV files from a shared Google Drive
// folder using a service account.
package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/vulong264/cvstatuschecker/internal/ingest"
)

// MIME types we can process, mapped to the extension handed to extraction.
var supportedMimeTypes = map[string]string{
	"application/pdf": ".pdf",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
	"application/msword":                        ".doc",
	"text/plain":                                ".txt",
	"application/vnd.oasis.opendocument.text":   ".odt",
	"application/vnd.google-apps.document":      ".docx", // Google Docs -> export as DOCX
}

const (
	googleDocMime       = "application/vnd.google-apps.document"
	googleDocExportMime = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Client wraps the Drive API for read-only CV access.
type Client struct {
	svc           *gdrive.Service
	defaultFolder string
}

// NewClient builds an authenticated Drive client. With an empty credentials
// file path, application default credentials are used.
func NewClient(ctx context.Context, serviceAccountFile, defaultFolder string) (*Client, error) {
	opts := []option.ClientOption{option.WithScopes(gdrive.DriveReadonlyScope)}
	if serviceAccountFile != "" {
		opts = append(opts, option.WithCredentialsFile(serviceAccountFile))
	}
	svc, err := gdrive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive client: %w", err)
	}
	return &Client{svc: svc, defaultFolder: defaultFolder}, nil
}

// List returns metadata for every supported CV file in the folder, following
// pagination. An empty folderID falls back to the configured default folder.
func (c *Client) List(ctx context.Context, folderID string) ([]ingest.FileMeta, error) {
	if folderID == "" {
		folderID = c.defaultFolder
	}
	if folderID == "" {
		return nil, errors.New("GOOGLE_DRIVE_FOLDER_ID is not set")
	}

	mimeFilters := make([]string, 0, len(supportedMimeTypes))
	for m := range supportedMimeTypes {
		mimeFilters = append(mimeFilters, fmt.Sprintf("mimeType='%s'", m))
	}
	query := fmt.Sprintf("'%s' in parents and (%s) and trashed=false",
		folderID, strings.Join(mimeFilters, " or "))

	var files []ingest.FileMeta
	pageToken := ""
	for {
		call := c.svc.Files.List().
			Q(query).
			Spaces("drive").
			Fields("nextPageToken, files(id, name, mimeType, modifiedTime, size)").
			PageSize(100).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list drive folder %s: %w", folderID, err)
		}
		for _, f := range resp.Files {
			files = append(files, ingest.FileMeta{ID: f.Id, Name: f.Name, MimeType: f.MimeType})
		}
		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return files, nil
}

// Download fetches a file's bytes and the extension to parse it with.
// Google Docs are exported as DOCX automatically.
func (c *Client) Download(ctx context.Context, fileID, mimeType string) ([]byte, string, error) {
	if mimeType == googleDocMime {
		res, err := c.svc.Files.Export(fileID, googleDocExportMime).Context(ctx).Download()
		if err != nil {
			return nil, "", fmt.Errorf("failed to export google doc %s: %w", fileID, err)
		}
		defer res.Body.Close()
		content, err := io.ReadAll(res.Body)
		if err != nil {
			return nil, "", err
		}
		return content, ".docx", nil
	}

	res, err := c.svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, "", fmt.Errorf("failed to download file %s: %w", fileID, err)
	}
	defer res.Body.Close()
	content, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, "", err
	}

	ext, ok := supportedMimeTypes[mimeType]
	if !ok {
		ext = ".bin"
	}
	return content, ext, nil
}
