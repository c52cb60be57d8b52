package service

import (
	"context"
	"fmt"

	"weshare/internal/event"
	"weshare/internal/model"
	"weshare/internal/repository"
)

// ScheduleInput is the editable content of a schedule.
type ScheduleInput struct {
	Title       string      `json:"title"`
	Destination string      `json:"destination"`
	StartDate   model.Date  `json:"start_date"`
	EndDate     model.Date  `json:"end_date"`
	Days        []model.Day `json:"day_detail"`
}

// ScheduleService creates, edits and removes schedules. Only the owner may edit or remove one.
type ScheduleService interface {
	Create(ctx context.Context, userID int64, in ScheduleInput) (*model.Schedule, error)
	Update(ctx context.Context, userID, scheduleID int64, in ScheduleInput) (*model.Schedule, error)
	Delete(ctx context.Context, userID, scheduleID int64) error
}

type scheduleService struct {
	schedules repository.ScheduleRepository
	tx        repository.Transactor
	bus       *event.Bus
}

func NewScheduleService(schedules repository.ScheduleRepository, tx repository.Transactor, bus *event.Bus) ScheduleService {
	return &scheduleService{schedules: schedules, tx: tx, bus: bus}
}

func (s *scheduleService) Create(ctx context.Context, userID int64, in ScheduleInput) (*model.Schedule, error) {
	dest, err := model.FindDestinationByName(in.Destination)
	if err != nil {
		return nil, err
	}
	sched, err := model.NewSchedule(userID, in.Title, dest, in.StartDate, in.EndDate, in.Days)
	if err != nil {
		return nil, err
	}

	var created *model.Schedule
	err = s.bus.Atomic(ctx, s.tx, func(ctx context.Context) error {
		created, err = s.schedules.Create(ctx, sched)
		if err != nil {
			return fmt.Errorf("create schedule: %w", err)
		}
		return s.bus.Publish(ctx, event.ScheduleCreated{
			ScheduleID:   created.ID,
			UserID:       userID,
			TotalExpense: created.TotalExpense(),
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *scheduleService) Update(ctx context.Context, userID, scheduleID int64, in ScheduleInput) (*model.Schedule, error) {
	dest, err := model.FindDestinationByName(in.Destination)
	if err != nil {
		return nil, err
	}

	var sched *model.Schedule
	err = s.bus.Atomic(ctx, s.tx, func(ctx context.Context) error {
		sched, err = s.ownedSchedule(ctx, userID, scheduleID)
		if err != nil {
			return err
		}
		if err := sched.Update(in.Title, dest, in.StartDate, in.EndDate, in.Days); err != nil {
			return err
		}
		if err := s.schedules.Update(ctx, sched); err != nil {
			return fmt.Errorf("update schedule %d: %w", scheduleID, err)
		}
		return s.bus.Publish(ctx, event.ScheduleUpdated{ScheduleID: scheduleID, TotalExpense: sched.TotalExpense()})
	})
	if err != nil {
		return nil, err
	}
	return sched, nil
}

func (s *scheduleService) Delete(ctx context.Context, userID, scheduleID int64) error {
	return s.bus.Atomic(ctx, s.tx, func(ctx context.Context) error {
		if _, err := s.ownedSchedule(ctx, userID, scheduleID); err != nil {
			return err
		}
		if err := s.schedules.Delete(ctx, scheduleID); err != nil {
			return notFound(err, ErrScheduleNotFound)
		}
		return s.bus.Publish(ctx, event.ScheduleDeleted{ScheduleID: scheduleID})
	})
}

func (s *scheduleService) ownedSchedule(ctx context.Context, userID, scheduleID int64) (*model.Schedule, error) {
	sched, err := s.schedules.FindByID(ctx, scheduleID)
	if err != nil {
		return nil, notFound(err, ErrScheduleNotFound)
	}
	if !sched.IsOwner(userID) {
		return nil, fmt.Errorf("schedule %d: %w", scheduleID, ErrForbidden)
	}
	return sched, nil
}
