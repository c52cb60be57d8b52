package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"weshare/internal/model"
	"weshare/internal/service"
)

type MockScheduleService struct {
	mock.Mock
}

func (m *MockScheduleService) Create(ctx context.Context, userID int64, in service.ScheduleInput) (*model.Schedule, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Schedule), args.Error(1)
}

func (m *MockScheduleService) Update(ctx context.Context, userID, scheduleID int64, in service.ScheduleInput) (*model.Schedule, error) {
	args := m.Called(ctx, userID, scheduleID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Schedule), args.Error(1)
}

func (m *MockScheduleService) Delete(ctx context.Context, userID, scheduleID int64) error {
	args := m.Called(ctx, userID, scheduleID)
	return args.Error(0)
}

type MockScheduleQueryService struct {
	mock.Mock
}

func (m *MockScheduleQueryService) Page(ctx context.Context, q service.SchedulePageQuery) (*service.SchedulePage, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SchedulePage), args.Error(1)
}

func (m *MockScheduleQueryService) Detail(ctx context.Context, scheduleID, viewerID int64) (*service.ScheduleDetail, error) {
	args := m.Called(ctx, scheduleID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ScheduleDetail), args.Error(1)
}
