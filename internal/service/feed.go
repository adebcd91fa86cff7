package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	domainauth "github.com/dreamsdoc/dreamsdoc-web/internal/domain/auth"
	"github.com/dreamsdoc/dreamsdoc-web/internal/domain/feed"
	apperrors "github.com/dreamsdoc/dreamsdoc-web/internal/errors"
	"github.com/dreamsdoc/dreamsdoc-web/internal/ports"
)

// authorLookupLimit bounds concurrent author lookups per fetch.
const authorLookupLimit = 8

// FeedServiceOptions groups dependencies for FeedService.
type FeedServiceOptions struct {
	Dreams ports.DreamAPI // Required
	Users  ports.UserAPI  // Required
	Config FeedServiceConfig
}

// FeedServiceConfig holds optional FeedService settings.
type FeedServiceConfig struct {
	Cache    ports.AuthorCache
	CacheTTL time.Duration
	Page     ports.PageParams
	Obs      Observability
}

// FeedService fetches post records for a feed context and turns them into
// view models. It keeps no per-context state; see FeedView for that.
type FeedService struct {
	dreams   ports.DreamAPI
	users    ports.UserAPI
	cache    ports.AuthorCache
	cacheTTL time.Duration
	page     ports.PageParams
	obs      Observability
	logger   *slog.Logger
	now      func() time.Time

	authors singleflight.Group
}

// NewFeedService constructs a FeedService.
func NewFeedService(opts FeedServiceOptions) *FeedService {
	if opts.Dreams == nil {
		panic("DreamAPI is required")
	}
	if opts.Users == nil {
		panic("UserAPI is required")
	}
	ttl := opts.Config.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	page := opts.Config.Page
	if page.Size <= 0 {
		page.Size = 20
	}
	return &FeedService{
		dreams:   opts.Dreams,
		users:    opts.Users,
		cache:    opts.Config.Cache,
		cacheTTL: ttl,
		page:     page,
		obs:      opts.Config.Obs,
		logger:   opts.Config.Obs.logger("feed"),
		now:      time.Now,
	}
}

// Fetch returns the view models of c in the backend's display order, without
// duplicates. An author lookup failure fails the whole fetch so callers never
// apply a partial sequence.
func (s *FeedService) Fetch(ctx context.Context, c feed.Context, viewer domainauth.Identity) ([]feed.PostViewModel, error) {
	if err := c.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	start := time.Now()
	vms, err := s.fetch(ctx, c, viewer)
	s.obs.emit("feed", "fetch_"+string(c.Kind), start, err)
	if err != nil {
		return nil, fmt.Errorf("fetch %s feed: %w", c.Kind, err)
	}
	return vms, nil
}

func (s *FeedService) fetch(ctx context.Context, c feed.Context, viewer domainauth.Identity) ([]feed.PostViewModel, error) {
	recs, err := s.records(ctx, c)
	if err != nil {
		return nil, err
	}
	recs = feed.Dedupe(recs)

	authors, err := s.resolveAuthors(ctx, recs)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]feed.PostViewModel, 0, len(recs))
	for _, rec := range recs {
		author, ok := rec.Author.Inline()
		if !ok {
			author = authors[rec.Author.ID()]
		}
		out = append(out, feed.BuildViewModel(rec, author, viewer, now))
	}
	return out, nil
}

// records dispatches to the single fetch operation of each context kind.
func (s *FeedService) records(ctx context.Context, c feed.Context) ([]feed.PostRecord, error) {
	switch c.Kind {
	case feed.KindGlobal:
		return s.dreams.ListDreams(ctx, s.page)
	case feed.KindUser:
		return s.dreams.ListUserDreams(ctx, c.Arg, s.page)
	case feed.KindPost:
		return s.dreams.GetDream(ctx, c.Arg)
	case feed.KindSearch:
		return s.dreams.SearchDreams(ctx, c.Arg)
	case feed.KindHashtag:
		return s.dreams.ListHashtag(ctx, c.Arg)
	default:
		return nil, apperrors.Validationf("unknown feed kind %q", c.Kind)
	}
}

// resolveAuthors looks up every referenced author once, concurrently.
func (s *FeedService) resolveAuthors(ctx context.Context, recs []feed.PostRecord) (map[string]feed.Author, error) {
	seen := make(map[string]struct{})
	var ids []string
	for _, rec := range recs {
		if _, inline := rec.Author.Inline(); inline {
			continue
		}
		id := rec.Author.ID()
		if id == "" {
			continue
		}
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var mu sync.Mutex
	out := make(map[string]feed.Author, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(authorLookupLimit)
	for _, id := range ids {
		g.Go(func() error {
			a, err := s.Author(gctx, id)
			if err != nil {
				return err
			}
			mu.Lock()
			out[id] = a
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Author resolves an author id, consulting the cache first. Concurrent
// lookups of the same id share one request.
func (s *FeedService) Author(ctx context.Context, id string) (feed.Author, error) {
	if s.cache != nil {
		a, ok, err := s.cache.Get(ctx, id)
		if err != nil {
			s.logger.WarnContext(ctx, "author cache read failed", "user_id", id, "error", err)
		} else if ok {
			return a, nil
		}
	}

	v, err, _ := s.authors.Do(id, func() (any, error) {
		a, err := s.users.GetUser(ctx, id)
		if err != nil {
			return feed.Author{}, fmt.Errorf("resolve author %s: %w", id, err)
		}
		if s.cache != nil {
			if setErr := s.cache.Set(ctx, a, s.cacheTTL); setErr != nil {
				s.logger.WarnContext(ctx, "author cache write failed", "user_id", id, "error", setErr)
			}
		}
		return a, nil
	})
	if err != nil {
		return feed.Author{}, err
	}
	return v.(feed.Author), nil
}
