package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	domainauth "github.com/dreamsdoc/dreamsdoc-web/internal/domain/auth"
	"github.com/dreamsdoc/dreamsdoc-web/internal/domain/feed"
	apperrors "github.com/dreamsdoc/dreamsdoc-web/internal/errors"
)

// ViewGauge observes the number of mounted feed views.
type ViewGauge interface {
	SetActiveViews(n int)
}

// FeedViewsOptions groups dependencies for FeedViews.
type FeedViewsOptions struct {
	Feed    *FeedService    // Required
	Session *SessionService // Required
	Config  FeedViewsConfig
}

// FeedViewsConfig holds optional FeedViews settings.
type FeedViewsConfig struct {
	IdleTimeout time.Duration
	Interval    time.Duration // overrides every poll interval when positive
	Polls       PollIntervals
	Gauge       ViewGauge
	Logger      *slog.Logger
}

// FeedViews mounts a FeedView per feed context on first access and unmounts
// views nobody has looked at for IdleTimeout.
type FeedViews struct {
	feed     *FeedService
	session  *SessionService
	idle     time.Duration
	interval time.Duration
	polls    PollIntervals
	gauge    ViewGauge
	logger   *slog.Logger

	mu    sync.Mutex
	views map[string]*FeedView
}

// NewFeedViews constructs an empty registry.
func NewFeedViews(opts FeedViewsOptions) *FeedViews {
	if opts.Feed == nil {
		panic("FeedService is required")
	}
	if opts.Session == nil {
		panic("SessionService is required")
	}
	idle := opts.Config.IdleTimeout
	if idle <= 0 {
		idle = 2 * time.Minute
	}
	logger := opts.Config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &FeedViews{
		feed:     opts.Feed,
		session:  opts.Session,
		idle:     idle,
		interval: opts.Config.Interval,
		polls:    opts.Config.Polls,
		gauge:    opts.Config.Gauge,
		logger:   logger.With("component", "feed_views"),
		views:    make(map[string]*FeedView),
	}
}

func (r *FeedViews) intervalFor(k feed.Kind) time.Duration {
	if r.interval > 0 {
		return r.interval
	}
	return r.polls.For(k)
}

func (r *FeedViews) viewer() domainauth.Identity {
	return r.session.Snapshot().Identity
}

// Mount returns the view for c, starting it if it is not mounted yet.
func (r *FeedViews) Mount(ctx context.Context, c feed.Context) (*FeedView, error) {
	if err := c.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	key := c.Key()

	r.mu.Lock()
	v, ok := r.views[key]
	if !ok {
		v = NewFeedView(FeedViewOptions{
			Feed:     r.feed,
			Viewer:   r.viewer,
			Context:  c,
			Interval: r.intervalFor(c.Kind),
			Logger:   r.logger,
		})
		r.views[key] = v
	}
	n := len(r.views)
	r.mu.Unlock()

	if !ok {
		v.Start(ctx)
		r.setGauge(n)
		r.logger.DebugContext(ctx, "feed view mounted", "feed", key)
	}
	return v, nil
}

// Lookup returns a mounted view without mounting one.
func (r *FeedViews) Lookup(c feed.Context) (*FeedView, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.views[c.Key()]
	return v, ok
}

// Refresh refreshes c if it is mounted. The returned flag is false when it is not.
func (r *FeedViews) Refresh(ctx context.Context, c feed.Context) (FeedSnapshot, bool, error) {
	v, ok := r.Lookup(c)
	if !ok {
		return FeedSnapshot{}, false, nil
	}
	snap, err := v.Refresh(ctx)
	return snap, true, err
}

// RefreshAll refreshes every mounted view concurrently. Failures are logged
// by each view and do not stop the others.
func (r *FeedViews) RefreshAll(ctx context.Context) {
	r.mu.Lock()
	views := make([]*FeedView, 0, len(r.views))
	for _, v := range r.views {
		views = append(views, v)
	}
	r.mu.Unlock()

	var g errgroup.Group
	g.SetLimit(authorLookupLimit)
	for _, v := range views {
		g.Go(func() error {
			_, _ = v.Refresh(ctx)
			return nil
		})
	}
	_ = g.Wait()
}

// Sweep unmounts views idle since before now minus the idle timeout and
// returns how many were closed.
func (r *FeedViews) Sweep(now time.Time) int {
	cutoff := now.Add(-r.idle)
	var closed []*FeedView

	r.mu.Lock()
	for key, v := range r.views {
		if v.idleSince(cutoff) {
			delete(r.views, key)
			closed = append(closed, v)
		}
	}
	n := len(r.views)
	r.mu.Unlock()

	for _, v := range closed {
		v.Close()
	}
	if len(closed) > 0 {
		r.setGauge(n)
		r.logger.Debug("feed views unmounted", "count", len(closed))
	}
	return len(closed)
}

// Run sweeps idle views until ctx is done, then closes every view.
func (r *FeedViews) Run(ctx context.Context) {
	ticker := time.NewTicker(r.idle / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.Close()
			return
		case now := <-ticker.C:
			r.Sweep(now)
		}
	}
}

// Len returns the number of mounted views.
func (r *FeedViews) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// Close unmounts every view.
func (r *FeedViews) Close() {
	r.mu.Lock()
	views := r.views
	r.views = make(map[string]*FeedView)
	r.mu.Unlock()

	for _, v := range views {
		v.Close()
	}
	r.setGauge(0)
}

func (r *FeedViews) setGauge(n int) {
	if r.gauge != nil {
		r.gauge.SetActiveViews(n)
	}
}
