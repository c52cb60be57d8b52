package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"weshare/internal/model"
	"weshare/internal/service"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Me(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) UploadProfileImage(ctx context.Context, userID int64, r io.Reader, filename, contentType string, size int64) (*service.ProfileImage, error) {
	args := m.Called(ctx, userID, r, filename, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProfileImage), args.Error(1)
}
