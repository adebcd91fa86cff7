// Package drive adapts the Google Drive API to the object storage port.
package drive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	drivev3 "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/dreamsdoc/dreamsdoc-web/internal/domain/upload"
	"github.com/dreamsdoc/dreamsdoc-web/internal/ports"
)

// DefaultAPIBaseURL is the Drive v3 endpoint. Media uploads go to the
// /upload/drive/v3 path on the same host.
const DefaultAPIBaseURL = "https://www.googleapis.com/drive/v3/"

// ClientOptions groups dependencies for NewClient.
type ClientOptions struct {
	APIBaseURL string       // Optional, defaults to DefaultAPIBaseURL
	HTTPClient *http.Client // Optional, its transport carries the provider token
	Logger     *slog.Logger
}

// Client calls the Drive v3 API with a caller-supplied access token.
// It never sees the backend credential.
type Client struct {
	endpoint string
	http     *http.Client
	logger   *slog.Logger
}

var _ ports.ObjectStorage = (*Client)(nil)

// NewClient constructs a Client.
func NewClient(opts ClientOptions) (*Client, error) {
	endpoint := strings.TrimSpace(opts.APIBaseURL)
	if endpoint == "" {
		endpoint = DefaultAPIBaseURL
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		return nil, fmt.Errorf("drive api base url %q must be absolute", endpoint)
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 60 * time.Second}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/") + "/",
		http:     hc,
		logger:   logger.With("component", "drive"),
	}, nil
}

// service builds a Drive service that authenticates every call with token.
func (c *Client) service(ctx context.Context, token string) (*drivev3.Service, error) {
	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	authed := &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   base,
		},
		Timeout: c.http.Timeout,
	}
	svc, err := drivev3.NewService(ctx, option.WithHTTPClient(authed), option.WithEndpoint(c.endpoint))
	if err != nil {
		return nil, fmt.Errorf("drive service: %w", err)
	}
	return svc, nil
}

// FindFolder looks up a non-trashed folder by exact name.
func (c *Client) FindFolder(ctx context.Context, token, name string) (string, bool, error) {
	svc, err := c.service(ctx, token)
	if err != nil {
		return "", false, err
	}
	q := fmt.Sprintf("name='%s' and mimeType='%s' and trashed=false", escapeQuery(name), upload.FolderMimeType)
	list, err := svc.Files.List().
		Q(q).
		Spaces("drive").
		Fields("files(id,name)").
		Context(ctx).
		Do()
	if err != nil {
		return "", false, fmt.Errorf("drive find folder: %w", err)
	}
	for _, f := range list.Files {
		if f.Name == name {
			return f.Id, true, nil
		}
	}
	return "", false, nil
}

// CreateFolder creates a folder at the drive root.
func (c *Client) CreateFolder(ctx context.Context, token, name string) (string, error) {
	svc, err := c.service(ctx, token)
	if err != nil {
		return "", err
	}
	folder, err := svc.Files.Create(&drivev3.File{Name: name, MimeType: upload.FolderMimeType}).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("drive create folder: %w", err)
	}
	if folder.Id == "" {
		return "", errors.New("drive create folder: response carried no id")
	}
	c.logger.InfoContext(ctx, "created storage folder", "name", name, "folder_id", folder.Id)
	return folder.Id, nil
}

// Upload stores one file inside folderID in a single multipart request.
func (c *Client) Upload(ctx context.Context, token, folderID string, file upload.File) (string, error) {
	svc, err := c.service(ctx, token)
	if err != nil {
		return "", err
	}
	mediaType := file.MimeType
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	meta := &drivev3.File{Name: file.Name, MimeType: file.MimeType, Parents: []string{folderID}}
	created, err := svc.Files.Create(meta).
		Media(bytes.NewReader(file.Content), googleapi.ContentType(mediaType), googleapi.ChunkSize(0)).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("drive upload %s: %w", file.Name, err)
	}
	if created.Id == "" {
		return "", errors.New("drive upload: response carried no id")
	}
	return created.Id, nil
}

// SetPublic grants anyone-with-link read access to objectID.
func (c *Client) SetPublic(ctx context.Context, token, objectID string) error {
	svc, err := c.service(ctx, token)
	if err != nil {
		return err
	}
	_, err = svc.Permissions.Create(objectID, &drivev3.Permission{Type: "anyone", Role: "reader"}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("drive set permission: %w", err)
	}
	return nil
}

// StatusCode extracts the HTTP status of a Drive API failure, or 0.
func StatusCode(err error) int {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}

// escapeQuery escapes a literal for the Drive query language.
func escapeQuery(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}
