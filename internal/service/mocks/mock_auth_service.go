package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"weshare/internal/model"
	"weshare/internal/service"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, in service.SignupInput) (*model.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) CheckDuplicateEmail(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockAuthService) CheckDuplicateName(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string, issuedAt time.Time) (*service.LoginResult, error) {
	args := m.Called(ctx, email, password, issuedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoginResult), args.Error(1)
}

func (m *MockAuthService) ReissueToken(ctx context.Context, refreshToken string, issuedAt time.Time) (*service.LoginResult, error) {
	args := m.Called(ctx, refreshToken, issuedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoginResult), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, accessToken string) error {
	args := m.Called(ctx, accessToken)
	return args.Error(0)
}

func (m *MockAuthService) Authenticate(ctx context.Context, accessToken string) (*model.User, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) PurgeRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockExternalLoginService struct {
	mock.Mock
}

func (m *MockExternalLoginService) Login(ctx context.Context, provider, code string, issuedAt time.Time) (*service.ExternalLoginResult, error) {
	args := m.Called(ctx, provider, code, issuedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExternalLoginResult), args.Error(1)
}
