package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dreamsdoc/dreamsdoc-web/internal/domain/feed"
	"github.com/dreamsdoc/dreamsdoc-web/internal/domain/upload"
	apperrors "github.com/dreamsdoc/dreamsdoc-web/internal/errors"
	"github.com/dreamsdoc/dreamsdoc-web/internal/ports"
)

// ComposeServiceOptions groups dependencies for ComposeService.
type ComposeServiceOptions struct {
	Dreams  ports.DreamAPI  // Required
	Session *SessionService // Required
	Config  ComposeServiceConfig
}

// ComposeServiceConfig holds optional ComposeService collaborators.
type ComposeServiceConfig struct {
	Uploads *UploadService
	Views   *FeedViews
	Folder  string
	Obs     Observability
}

// ComposeService creates and deletes posts and refreshes mounted feeds afterwards.
type ComposeService struct {
	dreams   ports.DreamAPI
	session  *SessionService
	uploads  *UploadService
	views    *FeedViews
	folder   string
	obs      Observability
	logger   *slog.Logger
	validate *validator.Validate
}

// NewComposeService constructs a ComposeService.
func NewComposeService(opts ComposeServiceOptions) *ComposeService {
	if opts.Dreams == nil {
		panic("DreamAPI is required")
	}
	if opts.Session == nil {
		panic("SessionService is required")
	}
	folder := opts.Config.Folder
	if folder == "" {
		folder = "DreamsDoc"
	}
	return &ComposeService{
		dreams:   opts.Dreams,
		session:  opts.Session,
		uploads:  opts.Config.Uploads,
		views:    opts.Config.Views,
		folder:   folder,
		obs:      opts.Config.Obs,
		logger:   opts.Config.Obs.logger("compose"),
		validate: newValidator(),
	}
}

// Create validates the draft, uploads any media, submits the post and
// refreshes every mounted feed. An invalid draft uploads nothing.
func (s *ComposeService) Create(ctx context.Context, d feed.Draft, files []upload.File) (feed.CreatePost, error) {
	d.Normalize()
	if err := validateForm(s.validate, d); err != nil {
		return feed.CreatePost{}, err
	}
	viewer := s.session.Snapshot().Identity
	if viewer.IsZero() {
		return feed.CreatePost{}, apperrors.Unauthorized("Sign in to post.")
	}

	start := time.Now()
	var urls []string
	if len(files) > 0 {
		if s.uploads == nil {
			return feed.CreatePost{}, apperrors.Validation("Media uploads are not configured.")
		}
		results, err := s.uploads.Upload(ctx, s.folder, files)
		if err != nil {
			s.obs.emit("compose", "create", start, err)
			return feed.CreatePost{}, fmt.Errorf("create post: %w", err)
		}
		urls = upload.URLs(results)
	}

	payload := d.ToCreatePost(viewer.UserID, urls)
	err := s.dreams.CreateDream(ctx, payload)
	s.obs.emit("compose", "create", start, err)
	if err != nil {
		return feed.CreatePost{}, fmt.Errorf("create post: %w", err)
	}

	s.logger.InfoContext(ctx, "post created", "user_id", viewer.UserID, "media", len(urls))
	s.refreshAll(ctx)
	return payload, nil
}

// Delete removes a post and refetches every mounted feed rather than
// patching them locally.
func (s *ComposeService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.ValidationField("id", "Post id is required.")
	}
	start := time.Now()
	err := s.dreams.DeleteDream(ctx, id)
	s.obs.emit("compose", "delete", start, err)
	if err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	s.logger.InfoContext(ctx, "post deleted", "post_id", id)
	s.refreshAll(ctx)
	return nil
}

func (s *ComposeService) refreshAll(ctx context.Context) {
	if s.views != nil {
		s.views.RefreshAll(ctx)
	}
}
