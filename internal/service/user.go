package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"weshare/internal/model"
	"weshare/internal/repository"
	"weshare/internal/storage"
)

const profileURLExpiry = 24 * time.Hour

// ProfileImage is an uploaded image and a temporary download link to it.
type ProfileImage struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// UserService serves the authenticated user's own profile.
type UserService interface {
	// Me returns the profile, resolving stored images to presigned URLs.
	Me(ctx context.Context, userID int64) (*model.User, error)
	// UploadProfileImage stores the image and points the profile at it. The object is removed again when the update fails.
	UploadProfileImage(ctx context.Context, userID int64, r io.Reader, filename, contentType string, size int64) (*ProfileImage, error)
}

type userService struct {
	users repository.UserRepository
	store storage.Storage
}

func NewUserService(users repository.UserRepository, store storage.Storage) UserService {
	return &userService{users: users, store: store}
}

func (s *userService) Me(ctx context.Context, userID int64) (*model.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	if isStoredImage(u.ProfileImg) && s.store != nil {
		url, err := s.store.PresignGet(ctx, u.ProfileImg, profileURLExpiry)
		if err != nil {
			return nil, fmt.Errorf("presign profile image: %w", err)
		}
		u.ProfileImg = url
	}
	return u, nil
}

func isStoredImage(img string) bool {
	return strings.HasPrefix(img, storage.ProfileImagePrefix+"/")
}

func (s *userService) UploadProfileImage(ctx context.Context, userID int64, r io.Reader, filename, contentType string, size int64) (*ProfileImage, error) {
	if r == nil {
		return nil, invalidArgument("file is required")
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, invalidArgument("content type %q is not an image", contentType)
	}
	if s.store == nil {
		return nil, fmt.Errorf("upload profile image: %w", ErrStorageUnavailable)
	}

	key := storage.ObjectKey(storage.ProfileImagePrefix, filename)
	info, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata:    map[string]string{"original-filename": filename},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	if err := s.users.UpdateProfileImage(ctx, userID, info.Key); err != nil {
		if delErr := s.store.Delete(ctx, info.Key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", notFound(err, ErrUserNotFound))
	}

	url, err := s.store.PresignGet(ctx, info.Key, profileURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign profile image: %w", err)
	}
	return &ProfileImage{Key: info.Key, URL: url}, nil
}
