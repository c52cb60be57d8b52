package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"weshare/internal/model"
)

type MockStatisticsRepository struct {
	mock.Mock
}

func (m *MockStatisticsRepository) CreateDetails(ctx context.Context, d *model.StatisticsScheduleDetails) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockStatisticsRepository) FindDetailsForUpdate(ctx context.Context, scheduleID int64) (*model.StatisticsScheduleDetails, error) {
	args := m.Called(ctx, scheduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StatisticsScheduleDetails), args.Error(1)
}

func (m *MockStatisticsRepository) SaveDetails(ctx context.Context, d *model.StatisticsScheduleDetails) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockStatisticsRepository) DeleteDetails(ctx context.Context, scheduleID int64) error {
	args := m.Called(ctx, scheduleID)
	return args.Error(0)
}

func (m *MockStatisticsRepository) DetailsByScheduleIDs(ctx context.Context, ids []int64) (map[int64]model.StatisticsScheduleDetails, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]model.StatisticsScheduleDetails), args.Error(1)
}

func (m *MockStatisticsRepository) TotalCount(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatisticsRepository) FindTotalCountForUpdate(ctx context.Context) (*model.StatisticsScheduleTotalCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StatisticsScheduleTotalCount), args.Error(1)
}

func (m *MockStatisticsRepository) SaveTotalCount(ctx context.Context, c *model.StatisticsScheduleTotalCount) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockStatisticsRepository) FindParentCountForUpdate(ctx context.Context, parentCommentID int64) (*model.StatisticsParentCommentTotalCount, error) {
	args := m.Called(ctx, parentCommentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StatisticsParentCommentTotalCount), args.Error(1)
}

func (m *MockStatisticsRepository) SaveParentCount(ctx context.Context, c *model.StatisticsParentCommentTotalCount) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockStatisticsRepository) DeleteParentCount(ctx context.Context, parentCommentID int64) error {
	args := m.Called(ctx, parentCommentID)
	return args.Error(0)
}
