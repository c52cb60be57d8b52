package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"weshare/internal/service"
)

type MockLikeService struct {
	mock.Mock
}

func (m *MockLikeService) LikeSchedule(ctx context.Context, userID, scheduleID int64) (*service.ScheduleLikeResult, error) {
	args := m.Called(ctx, userID, scheduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ScheduleLikeResult), args.Error(1)
}

func (m *MockLikeService) UnlikeSchedule(ctx context.Context, userID, scheduleID int64) error {
	args := m.Called(ctx, userID, scheduleID)
	return args.Error(0)
}

func (m *MockLikeService) LikeComment(ctx context.Context, userID, scheduleID, commentID int64) (*service.CommentLikeResult, error) {
	args := m.Called(ctx, userID, scheduleID, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CommentLikeResult), args.Error(1)
}

func (m *MockLikeService) UnlikeComment(ctx context.Context, userID, scheduleID, commentID int64) error {
	args := m.Called(ctx, userID, scheduleID, commentID)
	return args.Error(0)
}
