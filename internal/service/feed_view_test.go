package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/dreamsdoc/dreamsdoc-web/internal/domain/auth"
	"github.com/dreamsdoc/dreamsdoc-web/internal/domain/feed"
	"github.com/dreamsdoc/dreamsdoc-web/internal/mocks"
	mockauth "github.com/dreamsdoc/dreamsdoc-web/internal/mocks/auth"
	"github.com/dreamsdoc/dreamsdoc-web/internal/ports"
	"github.com/dreamsdoc/dreamsdoc-web/internal/testutil"
)

func newViewFixture(t *testing.T, c feed.Context, interval time.Duration) (*FeedView, *mocks.MockDreamAPI) {
	t.Helper()
	ctrl := gomock.NewController(t)
	dreams := mocks.NewMockDreamAPI(ctrl)
	svc := NewFeedService(FeedServiceOptions{Dreams: dreams, Users: mocks.NewMockUserAPI(ctrl)})
	v := NewFeedView(FeedViewOptions{
		Feed:     svc,
		Viewer:   domainauth.EmptyIdentity,
		Context:  c,
		Interval: interval,
	})
	t.Cleanup(v.Close)
	return v, dreams
}

func TestPollInterval(t *testing.T) {
	assert.Equal(t, 30*time.Second, PollInterval(feed.KindGlobal))
	assert.Equal(t, 30*time.Second, PollInterval(feed.KindUser))
	assert.Equal(t, 10*time.Second, PollInterval(feed.KindSearch))
	assert.Equal(t, 10*time.Second, PollInterval(feed.KindHashtag))
	assert.Equal(t, 5*time.Second, PollInterval(feed.KindPost))
}

func TestPollIntervals_For(t *testing.T) {
	p := PollIntervals{Query: 3 * time.Second}
	assert.Equal(t, 3*time.Second, p.For(feed.KindSearch))
	assert.Equal(t, 3*time.Second, p.For(feed.KindHashtag))
	assert.Equal(t, PollInterval(feed.KindPost), p.For(feed.KindPost), "zero keeps the default")
	assert.Equal(t, PollInterval(feed.KindGlobal), p.For(feed.KindGlobal))
}

func TestFeedView_LoadingOnlyOnFirstLoad(t *testing.T) {
	v, dreams := newViewFixture(t, feed.Global(), time.Hour)
	assert.True(t, v.Snapshot().Loading)

	dreams.EXPECT().ListDreams(gomock.Any(), gomock.Any()).
		Return([]feed.PostRecord{testutil.NewPost("1").Build()}, nil)
	snap, err := v.Refresh(context.Background())
	require.NoError(t, err)
	assert.False(t, snap.Loading)
	assert.Len(t, snap.Posts, 1)
	assert.True(t, v.Loaded())

	// A later failure keeps the previous posts and never returns to loading.
	dreams.EXPECT().ListDreams(gomock.Any(), gomock.Any()).Return(nil, errors.New("502"))
	snap, err = v.Refresh(context.Background())
	require.Error(t, err)
	assert.False(t, snap.Loading)
	assert.Len(t, snap.Posts, 1)
	assert.NotEmpty(t, snap.Error)
	assert.Equal(t, uint64(2), snap.Version)
}

func TestFeedView_ReplacesFullSequence(t *testing.T) {
	v, dreams := newViewFixture(t, feed.Global(), time.Hour)
	gomock.InOrder(
		dreams.EXPECT().ListDreams(gomock.Any(), gomock.Any()).
			Return([]feed.PostRecord{testutil.NewPost("1").Build(), testutil.NewPost("2").Build()}, nil),
		dreams.EXPECT().ListDreams(gomock.Any(), gomock.Any()).
			Return([]feed.PostRecord{testutil.NewPost("3").Build()}, nil),
	)

	_, err := v.Refresh(context.Background())
	require.NoError(t, err)
	snap, err := v.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, ids(snap.Posts))
}

func TestFeedView_DiscardsResultAfterClose(t *testing.T) {
	v, dreams := newViewFixture(t, feed.Global(), time.Hour)
	release := make(chan struct{})
	started := make(chan struct{})
	dreams.EXPECT().ListDreams(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, ports.PageParams) ([]feed.PostRecord, error) {
			close(started)
			<-release
			return []feed.PostRecord{testutil.NewPost("1").Build()}, nil
		})

	done := make(chan FeedSnapshot, 1)
	go func() {
		snap, _ := v.Refresh(context.Background())
		done <- snap
	}()
	<-started
	v.Close()
	close(release)

	snap := <-done
	assert.True(t, snap.Loading, "late result not applied")
	assert.Empty(t, v.Snapshot().Posts)
}

func TestFeedView_StartPollsAndPublishes(t *testing.T) {
	v, dreams := newViewFixture(t, feed.Search("sea"), 10*time.Millisecond)
	dreams.EXPECT().SearchDreams(gomock.Any(), "sea").
		Return([]feed.PostRecord{testutil.NewPost("1").Build()}, nil).MinTimes(2)

	ch, unsubscribe := v.Subscribe()
	defer unsubscribe()
	v.Start(context.Background())

	var last FeedSnapshot
	require.Eventually(t, func() bool {
		select {
		case last = <-ch:
		default:
		}
		return last.Version >= 2
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"1"}, ids(last.Posts))
}

func TestFeedView_CloseEndsSubscriptions(t *testing.T) {
	v, _ := newViewFixture(t, feed.Global(), time.Hour)
	ch, unsubscribe := v.Subscribe()
	v.Close()

	_, open := <-ch
	assert.False(t, open)
	unsubscribe()

	late, _ := v.Subscribe()
	_, open = <-late
	assert.False(t, open, "subscribing to a closed view yields a closed channel")
}

func newViewsFixture(t *testing.T) (*FeedViews, *mocks.MockDreamAPI, *viewGauge) {
	t.Helper()
	ctrl := gomock.NewController(t)
	dreams := mocks.NewMockDreamAPI(ctrl)
	svc := NewFeedService(FeedServiceOptions{Dreams: dreams, Users: mocks.NewMockUserAPI(ctrl)})
	sess := NewSessionService(SessionServiceOptions{
		Identity:    mockauth.NewMockIdentityAPI(),
		Credentials: mockauth.NewMemoryCredentialStore(domainauth.Credential{}),
	})
	gauge := &viewGauge{}
	views := NewFeedViews(FeedViewsOptions{
		Feed:    svc,
		Session: sess,
		Config:  FeedViewsConfig{IdleTimeout: time.Minute, Interval: time.Hour, Gauge: gauge},
	})
	t.Cleanup(views.Close)
	return views, dreams, gauge
}

type viewGauge struct {
	mu sync.Mutex
	n  int
}

func (g *viewGauge) SetActiveViews(n int) {
	g.mu.Lock()
	g.n = n
	g.mu.Unlock()
}

func (g *viewGauge) value() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.n
}

func TestFeedViews_MountOnce(t *testing.T) {
	views, dreams, gauge := newViewsFixture(t)
	dreams.EXPECT().ListUserDreams(gomock.Any(), "7", gomock.Any()).Return(nil, nil).AnyTimes()

	a, err := views.Mount(context.Background(), feed.User("7"))
	require.NoError(t, err)
	b, err := views.Mount(context.Background(), feed.User("7"))
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, 1, views.Len())
	assert.Equal(t, 1, gauge.value())

	_, err = views.Mount(context.Background(), feed.Post(""))
	assert.Error(t, err)
}

func TestFeedViews_SweepUnmountsIdleViews(t *testing.T) {
	views, dreams, gauge := newViewsFixture(t)
	dreams.EXPECT().ListDreams(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	dreams.EXPECT().ListHashtag(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	global, err := views.Mount(context.Background(), feed.Global())
	require.NoError(t, err)
	tag, err := views.Mount(context.Background(), feed.Hashtag("lucid"))
	require.NoError(t, err)
	_, unsubscribe := tag.Subscribe()
	defer unsubscribe()

	closed := views.Sweep(time.Now().Add(2 * time.Minute))
	assert.Equal(t, 1, closed, "subscribed views stay mounted")
	_, ok := views.Lookup(feed.Global())
	assert.False(t, ok)
	assert.Equal(t, 1, gauge.value())

	ch, _ := global.Subscribe()
	_, open := <-ch
	assert.False(t, open, "swept view is closed")
}

func TestFeedViews_RefreshAll(t *testing.T) {
	views, dreams, _ := newViewsFixture(t)
	dreams.EXPECT().ListDreams(gomock.Any(), gomock.Any()).
		Return([]feed.PostRecord{testutil.NewPost("1").Build()}, nil).AnyTimes()
	dreams.EXPECT().GetDream(gomock.Any(), "4").
		Return([]feed.PostRecord{testutil.NewPost("4").Build()}, nil).AnyTimes()

	global, err := views.Mount(context.Background(), feed.Global())
	require.NoError(t, err)
	post, err := views.Mount(context.Background(), feed.Post("4"))
	require.NoError(t, err)

	views.RefreshAll(context.Background())

	assert.True(t, global.Loaded())
	assert.True(t, post.Loaded())
	_, mounted, err := views.Refresh(context.Background(), feed.Search("absent"))
	require.NoError(t, err)
	assert.False(t, mounted)
}
