package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dreamsdoc/dreamsdoc-web/internal/domain/upload"
	apperrors "github.com/dreamsdoc/dreamsdoc-web/internal/errors"
	"github.com/dreamsdoc/dreamsdoc-web/internal/ports"
)

// UploadRecorder counts uploaded files by category.
type UploadRecorder interface {
	FileUploaded(category string)
}

// UploadServiceOptions groups dependencies for UploadService.
type UploadServiceOptions struct {
	Storage ports.ObjectStorage        // Required
	Auth    ports.StorageAuthenticator // Required
	Config  UploadServiceConfig
}

// UploadServiceConfig holds optional UploadService settings.
type UploadServiceConfig struct {
	Concurrency int
	Recorder    UploadRecorder
	Obs         Observability
}

// UploadService uploads batches of files to the storage provider and returns
// a public display URL per file.
type UploadService struct {
	storage     ports.ObjectStorage
	auth        ports.StorageAuthenticator
	concurrency int
	recorder    UploadRecorder
	obs         Observability
	logger      *slog.Logger
}

// NewUploadService constructs an UploadService.
func NewUploadService(opts UploadServiceOptions) *UploadService {
	if opts.Storage == nil {
		panic("ObjectStorage is required")
	}
	if opts.Auth == nil {
		panic("StorageAuthenticator is required")
	}
	n := opts.Config.Concurrency
	if n <= 0 {
		n = 4
	}
	return &UploadService{
		storage:     opts.Storage,
		auth:        opts.Auth,
		concurrency: n,
		recorder:    opts.Config.Recorder,
		obs:         opts.Config.Obs,
		logger:      opts.Config.Obs.logger("upload"),
	}
}

// Upload stores files in the named folder, creating it if needed, and makes
// each object publicly readable. Results are in input order. Any failure
// aborts the batch and evicts the cached provider token; objects already
// uploaded are left in place.
func (s *UploadService) Upload(ctx context.Context, folder string, files []upload.File) ([]upload.Result, error) {
	folder = strings.TrimSpace(folder)
	if folder == "" {
		return nil, apperrors.ValidationField("folder", "Folder name is required.")
	}
	if len(files) == 0 {
		return nil, nil
	}
	files = slices.Clone(files)
	for i := range files {
		if err := files[i].Validate(); err != nil {
			return nil, apperrors.ValidationField("files", err.Error())
		}
		files[i].Sniff()
	}

	start := time.Now()
	results, err := s.upload(ctx, folder, files)
	s.obs.emit("upload", "batch", start, err)
	if err != nil {
		s.evict(ctx)
		s.logger.WarnContext(ctx, "upload batch failed", "folder", folder, "files", len(files), "error", err)
		return nil, apperrors.Storage(err, "Upload failed. Please try again.")
	}
	for _, r := range results {
		if s.recorder != nil {
			s.recorder.FileUploaded(string(r.MimeCategory))
		}
	}
	s.logger.InfoContext(ctx, "upload batch complete", "folder", folder, "files", len(results))
	return results, nil
}

func (s *UploadService) upload(ctx context.Context, folder string, files []upload.File) ([]upload.Result, error) {
	token, err := s.auth.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	folderID, err := s.ensureFolder(ctx, token, folder)
	if err != nil {
		return nil, err
	}

	results := make([]upload.Result, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, f := range files {
		g.Go(func() error {
			id, err := s.storage.Upload(gctx, token, folderID, f)
			if err != nil {
				return fmt.Errorf("upload %s: %w", f.Name, err)
			}
			if err := s.storage.SetPublic(gctx, token, id); err != nil {
				return fmt.Errorf("share %s: %w", f.Name, err)
			}
			results[i] = upload.Result{
				ObjectID:     id,
				PublicURL:    upload.DisplayURL(f.Role, id),
				MimeCategory: upload.CategoryOf(f.MimeType),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ensureFolder runs once per batch, before any file is uploaded.
func (s *UploadService) ensureFolder(ctx context.Context, token, name string) (string, error) {
	id, found, err := s.storage.FindFolder(ctx, token, name)
	if err != nil {
		return "", fmt.Errorf("find folder %q: %w", name, err)
	}
	if found {
		return id, nil
	}
	id, err = s.storage.CreateFolder(ctx, token, name)
	if err != nil {
		return "", fmt.Errorf("create folder %q: %w", name, err)
	}
	if id == "" {
		return "", errors.New("create folder returned no id")
	}
	s.logger.InfoContext(ctx, "storage folder created", "folder", name, "folder_id", id)
	return id, nil
}

func (s *UploadService) evict(ctx context.Context) {
	if err := s.auth.Evict(context.WithoutCancel(ctx)); err != nil {
		s.logger.WarnContext(ctx, "evict provider token failed", "error", err)
	}
}
