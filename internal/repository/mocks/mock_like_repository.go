package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"weshare/internal/model"
)

type MockLikeRepository struct {
	mock.Mock
}

func (m *MockLikeRepository) CreateScheduleLike(ctx context.Context, l *model.ScheduleLike) (*model.ScheduleLike, error) {
	args := m.Called(ctx, l)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ScheduleLike), args.Error(1)
}

func (m *MockLikeRepository) DeleteScheduleLike(ctx context.Context, scheduleID, likerID int64) (bool, error) {
	args := m.Called(ctx, scheduleID, likerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLikeRepository) LikedScheduleIDs(ctx context.Context, userID int64, scheduleIDs []int64) (map[int64]bool, error) {
	args := m.Called(ctx, userID, scheduleIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]bool), args.Error(1)
}

func (m *MockLikeRepository) CreateCommentLike(ctx context.Context, l *model.CommentLike) (*model.CommentLike, error) {
	args := m.Called(ctx, l)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CommentLike), args.Error(1)
}

func (m *MockLikeRepository) DeleteCommentLike(ctx context.Context, commentID, likerID int64) (bool, error) {
	args := m.Called(ctx, commentID, likerID)
	return args.Bool(0), args.Error(1)
}
