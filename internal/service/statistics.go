package service

import (
	"context"
	"fmt"

	"weshare/internal/event"
	"weshare/internal/model"
	"weshare/internal/repository"
)

// StatisticsService keeps the counter read-models in step with domain events.
// Schedule creation and deletion update counters inside the writing transaction;
// everything else is applied after commit in a transaction of its own.
type StatisticsService struct {
	stats     repository.StatisticsRepository
	schedules repository.ScheduleRepository
	tx        repository.Transactor
}

func NewStatisticsService(stats repository.StatisticsRepository, schedules repository.ScheduleRepository, tx repository.Transactor) *StatisticsService {
	return &StatisticsService{stats: stats, schedules: schedules, tx: tx}
}

// Register subscribes the handlers on b.
func (s *StatisticsService) Register(b *event.Bus) {
	b.Subscribe(event.NameScheduleCreated, event.BeforeCommit, s.onScheduleCreated)
	b.Subscribe(event.NameScheduleDeleted, event.BeforeCommit, s.onScheduleDeleted)
	b.Subscribe(event.NameScheduleUpdated, event.AfterCommit, s.onScheduleUpdated)
	b.Subscribe(event.NameScheduleViewed, event.AfterCommit, s.onScheduleViewed)
	b.Subscribe(event.NameScheduleLiked, event.AfterCommit, s.onScheduleLiked)
	b.Subscribe(event.NameScheduleUnliked, event.AfterCommit, s.onScheduleUnliked)
	b.Subscribe(event.NameCommentCreated, event.AfterCommit, s.onCommentCreated)
	b.Subscribe(event.NameCommentDeleted, event.AfterCommit, s.onCommentDeleted)
}

func (s *StatisticsService) onScheduleCreated(ctx context.Context, e event.Event) error {
	ev := e.(event.ScheduleCreated)
	d := model.NewStatisticsScheduleDetails(ev.ScheduleID)
	if err := d.UpdateTotalExpense(ev.TotalExpense); err != nil {
		return err
	}
	if err := s.stats.CreateDetails(ctx, &d); err != nil {
		return fmt.Errorf("create statistics of schedule %d: %w", ev.ScheduleID, err)
	}
	return s.updateTotalCount(ctx, func(c *model.StatisticsScheduleTotalCount) error {
		c.Increment()
		return nil
	})
}

func (s *StatisticsService) onScheduleDeleted(ctx context.Context, e event.Event) error {
	ev := e.(event.ScheduleDeleted)
	if err := s.stats.DeleteDetails(ctx, ev.ScheduleID); err != nil {
		return fmt.Errorf("delete statistics of schedule %d: %w", ev.ScheduleID, err)
	}
	return s.updateTotalCount(ctx, (*model.StatisticsScheduleTotalCount).Decrement)
}

func (s *StatisticsService) onScheduleUpdated(ctx context.Context, e event.Event) error {
	ev := e.(event.ScheduleUpdated)
	return s.updateDetails(ctx, ev.ScheduleID, func(d *model.StatisticsScheduleDetails) error {
		return d.UpdateTotalExpense(ev.TotalExpense)
	})
}

func (s *StatisticsService) onScheduleViewed(ctx context.Context, e event.Event) error {
	return s.updateDetails(ctx, e.(event.ScheduleViewed).ScheduleID, func(d *model.StatisticsScheduleDetails) error {
		d.IncrementViewCount()
		return nil
	})
}

func (s *StatisticsService) onScheduleLiked(ctx context.Context, e event.Event) error {
	return s.updateDetails(ctx, e.(event.ScheduleLiked).ScheduleID, func(d *model.StatisticsScheduleDetails) error {
		d.IncrementLikeCount()
		return nil
	})
}

func (s *StatisticsService) onScheduleUnliked(ctx context.Context, e event.Event) error {
	return s.updateDetails(ctx, e.(event.ScheduleUnliked).ScheduleID, (*model.StatisticsScheduleDetails).DecrementLikeCount)
}

func (s *StatisticsService) onCommentCreated(ctx context.Context, e event.Event) error {
	ev := e.(event.CommentCreated)
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		err := s.updateDetails(ctx, ev.ScheduleID, func(d *model.StatisticsScheduleDetails) error {
			d.IncrementCommentCount()
			return nil
		})
		if err != nil || !ev.IsReply() {
			return err
		}
		c, err := s.stats.FindParentCountForUpdate(ctx, *ev.ParentCommentID)
		if err != nil {
			return fmt.Errorf("reply count of comment %d: %w", *ev.ParentCommentID, err)
		}
		c.Increment()
		return s.stats.SaveParentCount(ctx, c)
	})
}

func (s *StatisticsService) onCommentDeleted(ctx context.Context, e event.Event) error {
	ev := e.(event.CommentDeleted)
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		err := s.updateDetails(ctx, ev.ScheduleID, func(d *model.StatisticsScheduleDetails) error {
			return d.DecrementCommentCount(ev.DeletedCommentCount)
		})
		if err != nil {
			return err
		}
		if !ev.IsReply() {
			return s.stats.DeleteParentCount(ctx, ev.CommentID)
		}
		c, err := s.stats.FindParentCountForUpdate(ctx, *ev.ParentCommentID)
		if err != nil {
			return fmt.Errorf("reply count of comment %d: %w", *ev.ParentCommentID, err)
		}
		if err := c.Decrement(); err != nil {
			return err
		}
		return s.stats.SaveParentCount(ctx, c)
	})
}

// updateDetails locks the statistics row of a schedule, applies fn and saves it.
func (s *StatisticsService) updateDetails(ctx context.Context, scheduleID int64, fn func(*model.StatisticsScheduleDetails) error) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		d, err := s.stats.FindDetailsForUpdate(ctx, scheduleID)
		if err != nil {
			return fmt.Errorf("schedule %d: %w", scheduleID, notFound(err, ErrStatisticsNotFound))
		}
		if err := fn(d); err != nil {
			return err
		}
		return s.stats.SaveDetails(ctx, d)
	})
}

func (s *StatisticsService) updateTotalCount(ctx context.Context, fn func(*model.StatisticsScheduleTotalCount) error) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		c, err := s.stats.FindTotalCountForUpdate(ctx)
		if err != nil {
			return fmt.Errorf("schedule total count: %w", err)
		}
		if err := fn(c); err != nil {
			return err
		}
		return s.stats.SaveTotalCount(ctx, c)
	})
}

// SyncTotalCount overwrites the schedule total counter with the real row count.
func (s *StatisticsService) SyncTotalCount(ctx context.Context) (int64, error) {
	var total int64
	err := s.updateTotalCount(ctx, func(c *model.StatisticsScheduleTotalCount) error {
		n, err := s.schedules.Count(ctx, repository.ScheduleFilter{})
		if err != nil {
			return fmt.Errorf("count schedules: %w", err)
		}
		total = n
		return c.Sync(n)
	})
	return total, err
}
