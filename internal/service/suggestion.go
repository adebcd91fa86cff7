package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dreamsdoc/dreamsdoc-web/internal/domain/user"
	apperrors "github.com/dreamsdoc/dreamsdoc-web/internal/errors"
	"github.com/dreamsdoc/dreamsdoc-web/internal/ports"
)

// DefaultSuggestionLimit is how many follow suggestions are shown.
const DefaultSuggestionLimit = 5

// SuggestionServiceOptions groups dependencies for SuggestionService.
type SuggestionServiceOptions struct {
	Users   ports.UserAPI   // Required
	Session *SessionService // Required
	Obs     Observability
}

// SuggestionService proposes users to follow.
type SuggestionService struct {
	users   ports.UserAPI
	session *SessionService
	obs     Observability
}

// NewSuggestionService constructs a SuggestionService.
func NewSuggestionService(opts SuggestionServiceOptions) *SuggestionService {
	if opts.Users == nil {
		panic("UserAPI is required")
	}
	if opts.Session == nil {
		panic("SessionService is required")
	}
	return &SuggestionService{users: opts.Users, session: opts.Session, obs: opts.Obs}
}

// Suggest lists users minus the viewer and those the viewer already follows.
func (s *SuggestionService) Suggest(ctx context.Context, limit int) ([]user.Suggestion, error) {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	viewer := s.session.Snapshot().Identity
	if viewer.IsZero() {
		return nil, apperrors.Unauthorized("Sign in to see suggestions.")
	}

	start := time.Now()
	var all, following []user.Summary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		all, err = s.users.ListUsers(gctx, ports.PageParams{})
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		following, err = s.users.Following(gctx, viewer.UserID)
		if err != nil {
			return fmt.Errorf("list following: %w", err)
		}
		return nil
	})
	err := g.Wait()
	s.obs.emit("suggestion", "suggest", start, err)
	if err != nil {
		return nil, err
	}
	return user.Suggest(all, following, viewer.UserID, limit), nil
}
