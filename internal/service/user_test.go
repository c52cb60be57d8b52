package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"weshare/internal/model"
	repoMocks "weshare/internal/repository/mocks"
	"weshare/internal/storage"
	storeMocks "weshare/internal/storage/mocks"
)

func TestUserService_UploadProfileImage(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		contentType string
		setupMocks  func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockUserRepository) io.Reader
		wantErr     error
		wantErrMsg  string
	}{
		{
			name:        "happy path",
			contentType: "image/png",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockUserRepository) io.Reader {
				r := strings.NewReader("png-bytes")
				mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "profiles/") && strings.HasSuffix(key, ".png")
				}), r, mock.Anything).
					Return(func(_ context.Context, key string, _ io.Reader, _ storage.PutObjectOptions) storage.ObjectInfo {
						return storage.ObjectInfo{Key: key, Size: 9}
					}, nil)
				mRepo.On("UpdateProfileImage", ctx, int64(1), mock.AnythingOfType("string")).Return(nil)
				mStore.On("PresignGet", ctx, mock.AnythingOfType("string"), profileURLExpiry).Return("https://minio/signed", nil)
				return r
			},
		},
		{
			name:        "not an image",
			contentType: "application/pdf",
			setupMocks: func(*storeMocks.MockStorage, *repoMocks.MockUserRepository) io.Reader {
				return strings.NewReader("%PDF")
			},
			wantErr: model.ErrInvalidArgument,
		},
		{
			name:        "storage error",
			contentType: "image/png",
			setupMocks: func(mStore *storeMocks.MockStorage, _ *repoMocks.MockUserRepository) io.Reader {
				r := strings.NewReader("png")
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).Return(storage.ObjectInfo{}, errors.New("storage fail"))
				return r
			},
			wantErrMsg: "upload to storage: storage fail",
		},
		{
			name:        "db error triggers rollback",
			contentType: "image/png",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockUserRepository) io.Reader {
				r := strings.NewReader("png")
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).Return(storage.ObjectInfo{Key: "profiles/x.png"}, nil)
				mRepo.On("UpdateProfileImage", ctx, int64(1), "profiles/x.png").Return(sql.ErrNoRows)
				mStore.On("Delete", ctx, "profiles/x.png").Return(nil)
				return r
			},
			wantErr: ErrUserNotFound,
		},
		{
			name:        "db error and rollback fails",
			contentType: "image/png",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockUserRepository) io.Reader {
				r := strings.NewReader("png")
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).Return(storage.ObjectInfo{Key: "profiles/x.png"}, nil)
				mRepo.On("UpdateProfileImage", ctx, int64(1), "profiles/x.png").Return(errors.New("db fail"))
				mStore.On("Delete", ctx, "profiles/x.png").Return(errors.New("delete fail"))
				return r
			},
			wantErrMsg: "db save failed: db fail; rollback delete failed: delete fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockUserRepository)
			r := tt.setupMocks(mStore, mRepo)

			svc := NewUserService(mRepo, mStore)
			img, err := svc.UploadProfileImage(ctx, 1, r, "me.PNG", tt.contentType, 9)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, img)
			case tt.wantErrMsg != "":
				assert.EqualError(t, err, tt.wantErrMsg)
				assert.Nil(t, img)
			default:
				require.NoError(t, err)
				assert.Equal(t, "https://minio/signed", img.URL)
				assert.True(t, strings.HasPrefix(img.Key, "profiles/"))
			}
			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestUserService_UploadWithoutStorage(t *testing.T) {
	mRepo := new(repoMocks.MockUserRepository)
	svc := NewUserService(mRepo, nil)

	img, err := svc.UploadProfileImage(context.Background(), 1, strings.NewReader("png"), "me.png", "image/png", 3)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.Nil(t, img)
	mRepo.AssertNotCalled(t, "UpdateProfileImage", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_Me(t *testing.T) {
	ctx := context.Background()
	mStore := new(storeMocks.MockStorage)
	mRepo := new(repoMocks.MockUserRepository)

	mRepo.On("FindByID", ctx, int64(1)).Return(&model.User{ID: 1, ProfileImg: "profiles/a.png"}, nil)
	mRepo.On("FindByID", ctx, int64(2)).Return(&model.User{ID: 2, ProfileImg: model.DefaultProfileImage}, nil)
	mRepo.On("FindByID", ctx, int64(3)).Return(nil, sql.ErrNoRows)
	mStore.On("PresignGet", ctx, "profiles/a.png", profileURLExpiry).Return("https://minio/a", nil)

	svc := NewUserService(mRepo, mStore)

	u, err := svc.Me(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "https://minio/a", u.ProfileImg)

	u, err = svc.Me(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultProfileImage, u.ProfileImg)

	_, err = svc.Me(ctx, 3)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
