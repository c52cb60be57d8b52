package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockLogoutStore struct {
	mock.Mock
}

func (m *MockLogoutStore) Save(ctx context.Context, accessToken string, ttl time.Duration) error {
	args := m.Called(ctx, accessToken, ttl)
	return args.Error(0)
}

func (m *MockLogoutStore) Exists(ctx context.Context, accessToken string) (bool, error) {
	args := m.Called(ctx, accessToken)
	return args.Bool(0), args.Error(1)
}
