package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dreamsdoc/dreamsdoc-web/internal/domain/upload"
	apperrors "github.com/dreamsdoc/dreamsdoc-web/internal/errors"
	"github.com/dreamsdoc/dreamsdoc-web/internal/mocks"
	"github.com/dreamsdoc/dreamsdoc-web/internal/testutil"
)

type uploadCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

func (c *uploadCounter) FileUploaded(category string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	c.counts[category]++
}

type uploadFixture struct {
	svc      *UploadService
	storage  *mocks.MockObjectStorage
	auth     *mocks.MockStorageAuthenticator
	recorder *uploadCounter
}

func newUploadFixture(t *testing.T) uploadFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := uploadFixture{
		storage:  mocks.NewMockObjectStorage(ctrl),
		auth:     mocks.NewMockStorageAuthenticator(ctrl),
		recorder: &uploadCounter{},
	}
	f.svc = NewUploadService(UploadServiceOptions{
		Storage: f.storage,
		Auth:    f.auth,
		Config:  UploadServiceConfig{Recorder: f.recorder},
	})
	return f
}

func TestUploadService_CreatesFolderOnceAndKeepsOrder(t *testing.T) {
	f := newUploadFixture(t)
	files := []upload.File{testutil.NewImage("a.png"), testutil.NewImage("b.png"), testutil.NewImage("c.png")}
	files[0].Role = upload.RoleProfile
	files[1].Role = upload.RoleCover

	f.auth.EXPECT().Token(gomock.Any()).Return("ptok", nil)
	find := f.storage.EXPECT().FindFolder(gomock.Any(), "ptok", "Dreams").Return("", false, nil)
	create := f.storage.EXPECT().CreateFolder(gomock.Any(), "ptok", "Dreams").Return("folder-1", nil).After(find).Times(1)
	f.storage.EXPECT().Upload(gomock.Any(), "ptok", "folder-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, got upload.File) (string, error) {
			return "obj-" + got.Name, nil
		}).After(create).Times(3)
	for _, file := range files {
		f.storage.EXPECT().SetPublic(gomock.Any(), "ptok", "obj-"+file.Name).Return(nil)
	}

	results, err := f.svc.Upload(context.Background(), "Dreams", files)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "obj-a.png", results[0].ObjectID)
	assert.Equal(t, upload.DisplayURL(upload.RoleProfile, "obj-a.png"), results[0].PublicURL)
	assert.Equal(t, upload.DisplayURL(upload.RoleCover, "obj-b.png"), results[1].PublicURL)
	assert.Equal(t, upload.DisplayURL(upload.RoleAttachment, "obj-c.png"), results[2].PublicURL)
	assert.Equal(t, upload.CategoryImage, results[2].MimeCategory)
	assert.Equal(t, map[string]int{"image": 3}, f.recorder.counts)
}

func TestUploadService_ReusesExistingFolder(t *testing.T) {
	f := newUploadFixture(t)

	f.auth.EXPECT().Token(gomock.Any()).Return("ptok", nil)
	f.storage.EXPECT().FindFolder(gomock.Any(), "ptok", "Dreams").Return("folder-9", true, nil)
	f.storage.EXPECT().Upload(gomock.Any(), "ptok", "folder-9", gomock.Any()).Return("obj-1", nil)
	f.storage.EXPECT().SetPublic(gomock.Any(), "ptok", "obj-1").Return(nil)

	results, err := f.svc.Upload(context.Background(), " Dreams ", []upload.File{testutil.NewImage("a.png")})
	require.NoError(t, err)
	assert.Equal(t, []string{upload.DisplayURL(upload.RoleAttachment, "obj-1")}, upload.URLs(results))
}

func TestUploadService_FailureAbortsAndEvictsToken(t *testing.T) {
	boom := errors.New("quota exceeded")
	tests := []struct {
		name  string
		setup func(f uploadFixture)
	}{
		{"authenticate", func(f uploadFixture) {
			f.auth.EXPECT().Token(gomock.Any()).Return("", boom)
		}},
		{"find folder", func(f uploadFixture) {
			f.auth.EXPECT().Token(gomock.Any()).Return("ptok", nil)
			f.storage.EXPECT().FindFolder(gomock.Any(), gomock.Any(), gomock.Any()).Return("", false, boom)
		}},
		{"create folder", func(f uploadFixture) {
			f.auth.EXPECT().Token(gomock.Any()).Return("ptok", nil)
			f.storage.EXPECT().FindFolder(gomock.Any(), gomock.Any(), gomock.Any()).Return("", false, nil)
			f.storage.EXPECT().CreateFolder(gomock.Any(), gomock.Any(), gomock.Any()).Return("", boom)
		}},
		{"upload", func(f uploadFixture) {
			f.auth.EXPECT().Token(gomock.Any()).Return("ptok", nil)
			f.storage.EXPECT().FindFolder(gomock.Any(), gomock.Any(), gomock.Any()).Return("f", true, nil)
			f.storage.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, _, _ string, file upload.File) (string, error) {
					if file.Name == "b.png" {
						return "", boom
					}
					return "obj-" + file.Name, nil
				}).AnyTimes()
			f.storage.EXPECT().SetPublic(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		}},
		{"set public", func(f uploadFixture) {
			f.auth.EXPECT().Token(gomock.Any()).Return("ptok", nil)
			f.storage.EXPECT().FindFolder(gomock.Any(), gomock.Any(), gomock.Any()).Return("f", true, nil)
			f.storage.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("obj", nil).AnyTimes()
			f.storage.EXPECT().SetPublic(gomock.Any(), gomock.Any(), gomock.Any()).Return(boom).MinTimes(1)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newUploadFixture(t)
			tt.setup(f)
			f.auth.EXPECT().Evict(gomock.Any()).Return(nil).Times(1)

			results, err := f.svc.Upload(context.Background(), "Dreams",
				[]upload.File{testutil.NewImage("a.png"), testutil.NewImage("b.png")})
			require.Error(t, err)
			assert.Nil(t, results, "no partial success")
			assert.True(t, apperrors.IsStorage(err))
			assert.ErrorIs(t, err, boom)
			assert.Empty(t, f.recorder.counts)
		})
	}
}

func TestUploadService_Validation(t *testing.T) {
	f := newUploadFixture(t)

	_, err := f.svc.Upload(context.Background(), "  ", []upload.File{testutil.NewImage("a.png")})
	require.Error(t, err)
	assert.Equal(t, "folder", apperrors.GetField(err))

	_, err = f.svc.Upload(context.Background(), "Dreams", []upload.File{{Name: "empty.png"}})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	results, err := f.svc.Upload(context.Background(), "Dreams", nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestUploadService_SniffsMissingMimeType(t *testing.T) {
	f := newUploadFixture(t)
	file := testutil.NewImage("raw")
	file.MimeType = ""

	f.auth.EXPECT().Token(gomock.Any()).Return("ptok", nil)
	f.storage.EXPECT().FindFolder(gomock.Any(), gomock.Any(), gomock.Any()).Return("f", true, nil)
	f.storage.EXPECT().Upload(gomock.Any(), "ptok", "f", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, got upload.File) (string, error) {
			assert.Equal(t, "image/png", got.MimeType)
			return "obj", nil
		})
	f.storage.EXPECT().SetPublic(gomock.Any(), "ptok", "obj").Return(nil)

	_, err := f.svc.Upload(context.Background(), "Dreams", []upload.File{file})
	require.NoError(t, err)
	assert.Empty(t, file.MimeType, "caller's file is not modified")
}
