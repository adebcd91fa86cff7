package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	domainauth "github.com/dreamsdoc/dreamsdoc-web/internal/domain/auth"
	"github.com/dreamsdoc/dreamsdoc-web/internal/domain/feed"
	apperrors "github.com/dreamsdoc/dreamsdoc-web/internal/errors"
)

// Poll intervals per feed context kind.
const (
	PrimaryPollInterval = 30 * time.Second
	QueryPollInterval   = 10 * time.Second
	PostPollInterval    = 5 * time.Second
)

// PollInterval returns the refresh interval for a context kind.
func PollInterval(k feed.Kind) time.Duration {
	switch k {
	case feed.KindSearch, feed.KindHashtag:
		return QueryPollInterval
	case feed.KindPost:
		return PostPollInterval
	default:
		return PrimaryPollInterval
	}
}

// PollIntervals overrides the default interval per kind. Zero fields keep the default.
type PollIntervals struct {
	Primary time.Duration
	Query   time.Duration
	Post    time.Duration
}

// For returns the configured interval for k.
func (p PollIntervals) For(k feed.Kind) time.Duration {
	var d time.Duration
	switch k {
	case feed.KindSearch, feed.KindHashtag:
		d = p.Query
	case feed.KindPost:
		d = p.Post
	default:
		d = p.Primary
	}
	if d <= 0 {
		return PollInterval(k)
	}
	return d
}

// FeedSnapshot is the state of a mounted feed view at one point in time.
type FeedSnapshot struct {
	Context   string               `json:"context"`
	Posts     []feed.PostViewModel `json:"posts"`
	Loading   bool                 `json:"loading"`
	Error     string               `json:"error,omitempty"`
	Version   uint64               `json:"version"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// FeedViewOptions groups dependencies for FeedView.
type FeedViewOptions struct {
	Feed     *FeedService               // Required
	Viewer   func() domainauth.Identity // Required
	Context  feed.Context
	Interval time.Duration // overrides PollInterval(Context.Kind) when positive
	Logger   *slog.Logger
}

// FeedView owns the view-model sequence of one feed context. It refreshes on
// a timer and on demand. Results that complete after Close are discarded.
type FeedView struct {
	feed     *FeedService
	viewer   func() domainauth.Identity
	fc       feed.Context
	interval time.Duration
	logger   *slog.Logger

	mu         sync.Mutex
	snap       FeedSnapshot
	loaded     bool
	closed     bool
	lastAccess time.Time
	subs       map[chan FeedSnapshot]struct{}

	stop chan struct{}
}

// NewFeedView constructs an unstarted FeedView in the loading state.
func NewFeedView(opts FeedViewOptions) *FeedView {
	if opts.Feed == nil {
		panic("FeedService is required")
	}
	if opts.Viewer == nil {
		panic("Viewer is required")
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = PollInterval(opts.Context.Kind)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &FeedView{
		feed:       opts.Feed,
		viewer:     opts.Viewer,
		fc:         opts.Context,
		interval:   interval,
		logger:     logger.With("feed", opts.Context.Key()),
		snap:       FeedSnapshot{Context: opts.Context.Key(), Loading: true},
		lastAccess: time.Now(),
		subs:       make(map[chan FeedSnapshot]struct{}),
		stop:       make(chan struct{}),
	}
}

// Context returns the feed context this view renders.
func (v *FeedView) Context() feed.Context { return v.fc }

// Start performs the first load in the background and begins polling.
func (v *FeedView) Start(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	go func() {
		_, _ = v.Refresh(ctx)

		ticker := time.NewTicker(v.interval)
		defer ticker.Stop()
		for {
			select {
			case <-v.stop:
				return
			case <-ticker.C:
				_, _ = v.Refresh(ctx)
			}
		}
	}()
}

// Refresh fetches the full sequence and replaces the current one. Concurrent
// refreshes are not serialized; whichever completes last is kept.
func (v *FeedView) Refresh(ctx context.Context) (FeedSnapshot, error) {
	posts, err := v.feed.Fetch(ctx, v.fc, v.viewer())

	v.mu.Lock()
	if v.closed {
		snap := v.snap
		v.mu.Unlock()
		v.logger.DebugContext(ctx, "discarding feed result for closed view")
		return snap, nil
	}
	v.snap.Loading = false
	v.snap.Version++
	v.snap.UpdatedAt = time.Now()
	if err != nil {
		v.snap.Error = apperrors.GetMessage(err, "Could not load posts.")
	} else {
		v.snap.Posts = posts
		v.snap.Error = ""
		v.loaded = true
	}
	snap := v.snap
	for ch := range v.subs {
		publish(ch, snap)
	}
	v.mu.Unlock()

	if err != nil {
		v.logger.WarnContext(ctx, "feed refresh failed", "error", err)
	}
	return snap, err
}

// publish delivers snap without blocking, replacing an undelivered older
// snapshot. Callers hold the view lock.
func publish(ch chan FeedSnapshot, snap FeedSnapshot) {
	for {
		select {
		case ch <- snap:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Snapshot returns the current state and marks the view as accessed.
func (v *FeedView) Snapshot() FeedSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lastAccess = time.Now()
	return v.snap
}

// Loaded reports whether any fetch has succeeded.
func (v *FeedView) Loaded() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loaded
}

// Subscribe returns a channel receiving each new snapshot. Slow receivers
// only see the latest one. The returned func unsubscribes.
func (v *FeedView) Subscribe() (<-chan FeedSnapshot, func()) {
	ch := make(chan FeedSnapshot, 1)
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	v.subs[ch] = struct{}{}
	v.lastAccess = time.Now()
	v.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			v.mu.Lock()
			defer v.mu.Unlock()
			if _, ok := v.subs[ch]; ok {
				delete(v.subs, ch)
				close(ch)
			}
		})
	}
}

// idleSince reports whether the view has no subscribers and was last
// accessed before cutoff.
func (v *FeedView) idleSince(cutoff time.Time) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.subs) == 0 && v.lastAccess.Before(cutoff)
}

// Close stops polling and closes subscriber channels. In-flight refreshes
// complete but their results are not applied.
func (v *FeedView) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	for ch := range v.subs {
		delete(v.subs, ch)
		close(ch)
	}
	v.mu.Unlock()

	close(v.stop)
}
