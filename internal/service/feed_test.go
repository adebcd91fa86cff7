package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/dreamsdoc/dreamsdoc-web/internal/domain/auth"
	"github.com/dreamsdoc/dreamsdoc-web/internal/domain/feed"
	apperrors "github.com/dreamsdoc/dreamsdoc-web/internal/errors"
	"github.com/dreamsdoc/dreamsdoc-web/internal/mocks"
	"github.com/dreamsdoc/dreamsdoc-web/internal/ports"
	"github.com/dreamsdoc/dreamsdoc-web/internal/testutil"
)

type feedFixture struct {
	svc    *FeedService
	dreams *mocks.MockDreamAPI
	users  *mocks.MockUserAPI
	cache  *mocks.MockAuthorCache
}

func newFeedFixture(t *testing.T) feedFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := feedFixture{
		dreams: mocks.NewMockDreamAPI(ctrl),
		users:  mocks.NewMockUserAPI(ctrl),
		cache:  mocks.NewMockAuthorCache(ctrl),
	}
	f.svc = NewFeedService(FeedServiceOptions{
		Dreams: f.dreams,
		Users:  f.users,
		Config: FeedServiceConfig{Cache: f.cache, CacheTTL: time.Minute},
	})
	f.svc.now = testutil.FixedTimeFunc(testutil.TestTime())
	return f
}

func ids(vms []feed.PostViewModel) []string {
	out := make([]string, len(vms))
	for i, vm := range vms {
		out[i] = vm.ID
	}
	return out
}

func TestFeedService_Fetch_JoinsAuthors(t *testing.T) {
	f := newFeedFixture(t)
	luna := testutil.NewAuthor("7")
	sol := testutil.NewAuthor("4")
	recs := []feed.PostRecord{
		testutil.NewPost("3").ByAuthorID("7").LikedBy("1").Build(),
		testutil.NewPost("2").ByAuthor(sol).Build(),
		testutil.NewPost("1").ByAuthorID("7").Build(),
	}

	f.dreams.EXPECT().ListDreams(gomock.Any(), ports.PageParams{Size: 20}).Return(recs, nil)
	f.cache.EXPECT().Get(gomock.Any(), "7").Return(feed.Author{}, false, nil)
	f.users.EXPECT().GetUser(gomock.Any(), "7").Return(luna, nil).Times(1)
	f.cache.EXPECT().Set(gomock.Any(), luna, time.Minute).Return(nil)

	vms, err := f.svc.Fetch(context.Background(), feed.Global(), domainauth.Identity{UserID: "1"})
	require.NoError(t, err)

	assert.Equal(t, []string{"3", "2", "1"}, ids(vms), "display order preserved")
	assert.Equal(t, luna, vms[0].Author)
	assert.Equal(t, sol, vms[1].Author, "inline author used directly")
	assert.Equal(t, luna, vms[2].Author)
	assert.True(t, vms[0].IsLikedByMe)
	assert.False(t, vms[1].IsLikedByMe)
}

func TestFeedService_Fetch_CacheHit(t *testing.T) {
	f := newFeedFixture(t)
	luna := testutil.NewAuthor("7")

	f.dreams.EXPECT().ListUserDreams(gomock.Any(), "7", ports.PageParams{Size: 20}).
		Return([]feed.PostRecord{testutil.NewPost("5").ByAuthorID("7").Build()}, nil)
	f.cache.EXPECT().Get(gomock.Any(), "7").Return(luna, true, nil)

	vms, err := f.svc.Fetch(context.Background(), feed.User("7"), domainauth.Identity{UserID: "7"})
	require.NoError(t, err)
	require.Len(t, vms, 1)
	assert.True(t, vms[0].IsOwnedByMe)
}

func TestFeedService_Fetch_CacheErrorFallsBackToBackend(t *testing.T) {
	f := newFeedFixture(t)
	luna := testutil.NewAuthor("7")

	f.dreams.EXPECT().GetDream(gomock.Any(), "5").
		Return([]feed.PostRecord{testutil.NewPost("5").ByAuthorID("7").Build()}, nil)
	f.cache.EXPECT().Get(gomock.Any(), "7").Return(feed.Author{}, false, errors.New("redis down"))
	f.users.EXPECT().GetUser(gomock.Any(), "7").Return(luna, nil)
	f.cache.EXPECT().Set(gomock.Any(), luna, time.Minute).Return(errors.New("redis down"))

	vms, err := f.svc.Fetch(context.Background(), feed.Post("5"), domainauth.EmptyIdentity())
	require.NoError(t, err)
	assert.Equal(t, luna, vms[0].Author)
}

func TestFeedService_Fetch_AuthorFailureFailsWholeFetch(t *testing.T) {
	f := newFeedFixture(t)

	f.dreams.EXPECT().ListDreams(gomock.Any(), gomock.Any()).Return([]feed.PostRecord{
		testutil.NewPost("1").Build(),
		testutil.NewPost("2").ByAuthorID("9").Build(),
	}, nil)
	f.cache.EXPECT().Get(gomock.Any(), "9").Return(feed.Author{}, false, nil)
	f.users.EXPECT().GetUser(gomock.Any(), "9").Return(feed.Author{}, apperrors.NotFound("user not found"))

	vms, err := f.svc.Fetch(context.Background(), feed.Global(), domainauth.EmptyIdentity())
	require.Error(t, err)
	assert.Nil(t, vms)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestFeedService_Fetch_DedupesById(t *testing.T) {
	f := newFeedFixture(t)
	first := testutil.NewPost("1").Build()
	dup := testutil.NewPost("1").Build()

	f.dreams.EXPECT().SearchDreams(gomock.Any(), "ocean").
		Return([]feed.PostRecord{first, testutil.NewPost("2").Build(), dup}, nil)

	vms, err := f.svc.Fetch(context.Background(), feed.Search(" ocean "), domainauth.EmptyIdentity())
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, ids(vms))
	assert.Equal(t, first.Body, vms[0].Body, "first occurrence wins")
}

func TestFeedService_Fetch_IsIdempotent(t *testing.T) {
	f := newFeedFixture(t)
	recs := []feed.PostRecord{testutil.NewPost("8").Build(), testutil.NewPost("6").Build()}
	f.dreams.EXPECT().ListHashtag(gomock.Any(), "lucid").Return(recs, nil).Times(2)

	a, err := f.svc.Fetch(context.Background(), feed.Hashtag("#lucid"), domainauth.EmptyIdentity())
	require.NoError(t, err)
	b, err := f.svc.Fetch(context.Background(), feed.Hashtag("#lucid"), domainauth.EmptyIdentity())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFeedService_Fetch_InvalidContext(t *testing.T) {
	f := newFeedFixture(t)
	_, err := f.svc.Fetch(context.Background(), feed.User(""), domainauth.EmptyIdentity())
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestFeedService_Fetch_BackendError(t *testing.T) {
	f := newFeedFixture(t)
	f.dreams.EXPECT().ListDreams(gomock.Any(), gomock.Any()).
		Return(nil, apperrors.Upstream(errors.New("502"), "Could not load posts."))

	_, err := f.svc.Fetch(context.Background(), feed.Global(), domainauth.EmptyIdentity())
	require.Error(t, err)
	assert.True(t, apperrors.IsUpstream(err))
}

func TestFeedService_Author_Coalesces(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserAPI(ctrl)
	svc := NewFeedService(FeedServiceOptions{Dreams: mocks.NewMockDreamAPI(ctrl), Users: users})

	release := make(chan struct{})
	luna := testutil.NewAuthor("7")
	users.EXPECT().GetUser(gomock.Any(), "7").DoAndReturn(func(context.Context, string) (feed.Author, error) {
		<-release
		return luna, nil
	}).Times(1)

	results := make(chan feed.Author, 3)
	for range 3 {
		go func() {
			a, err := svc.Author(context.Background(), "7")
			assert.NoError(t, err)
			results <- a
		}()
	}
	time.Sleep(30 * time.Millisecond)
	close(release)
	for range 3 {
		assert.Equal(t, luna, <-results)
	}
}
