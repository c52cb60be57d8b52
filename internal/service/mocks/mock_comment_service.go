package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"weshare/internal/model"
	"weshare/internal/repository"
	"weshare/internal/service"
)

type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) Create(ctx context.Context, userID, scheduleID int64, content string, parentID *int64) (*model.Comment, error) {
	args := m.Called(ctx, userID, scheduleID, content, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockCommentService) Update(ctx context.Context, userID, scheduleID, commentID int64, content string) (*model.Comment, error) {
	args := m.Called(ctx, userID, scheduleID, commentID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockCommentService) Delete(ctx context.Context, userID, scheduleID, commentID int64) error {
	args := m.Called(ctx, userID, scheduleID, commentID)
	return args.Error(0)
}

func (m *MockCommentService) List(ctx context.Context, scheduleID int64, page, size int) (*service.CommentPage, error) {
	args := m.Called(ctx, scheduleID, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CommentPage), args.Error(1)
}

func (m *MockCommentService) Replies(ctx context.Context, scheduleID, parentID int64) ([]repository.CommentView, error) {
	args := m.Called(ctx, scheduleID, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.CommentView), args.Error(1)
}
