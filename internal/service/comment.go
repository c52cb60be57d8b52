package service

import (
	"context"
	"fmt"
	"time"

	"weshare/internal/event"
	"weshare/internal/model"
	"weshare/internal/repository"
)

const defaultCommentPageSize = 20

type CommentPage struct {
	Items []repository.CommentView `json:"data"`
	Total int64                    `json:"total"`
	Page  int                      `json:"page"`
	Size  int                      `json:"size"`
}

// CommentService manages comments and one level of replies on a schedule.
type CommentService interface {
	// Create adds a root comment, or a reply when parentID is set.
	Create(ctx context.Context, userID, scheduleID int64, content string, parentID *int64) (*model.Comment, error)
	Update(ctx context.Context, userID, scheduleID, commentID int64, content string) (*model.Comment, error)
	// Delete removes the comment; a root comment takes its replies with it.
	Delete(ctx context.Context, userID, scheduleID, commentID int64) error
	List(ctx context.Context, scheduleID int64, page, size int) (*CommentPage, error)
	Replies(ctx context.Context, scheduleID, parentID int64) ([]repository.CommentView, error)
}

type commentService struct {
	comments  repository.CommentRepository
	schedules repository.ScheduleRepository
	tx        repository.Transactor
	bus       *event.Bus
	now       func() time.Time
}

func NewCommentService(comments repository.CommentRepository, schedules repository.ScheduleRepository, tx repository.Transactor, bus *event.Bus) CommentService {
	return &commentService{comments: comments, schedules: schedules, tx: tx, bus: bus, now: time.Now}
}

func (s *commentService) Create(ctx context.Context, userID, scheduleID int64, content string, parentID *int64) (*model.Comment, error) {
	var created *model.Comment
	err := s.bus.Atomic(ctx, s.tx, func(ctx context.Context) error {
		if err := s.requireSchedule(ctx, scheduleID); err != nil {
			return err
		}
		var parent *model.Comment
		if parentID != nil {
			p, err := s.comments.FindByID(ctx, *parentID)
			if err != nil {
				return notFound(err, ErrCommentNotFound)
			}
			parent = p
		}
		c, err := model.NewComment(content, userID, scheduleID, parent)
		if err != nil {
			return err
		}
		if created, err = s.comments.Create(ctx, c); err != nil {
			return fmt.Errorf("create comment: %w", err)
		}
		return s.bus.Publish(ctx, event.CommentCreated{
			CommentID:       created.ID,
			ScheduleID:      scheduleID,
			ParentCommentID: created.ParentCommentID,
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *commentService) Update(ctx context.Context, userID, scheduleID, commentID int64, content string) (*model.Comment, error) {
	var c *model.Comment
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if c, err = s.ownedComment(ctx, userID, scheduleID, commentID); err != nil {
			return err
		}
		if err := c.UpdateContent(content, s.now()); err != nil {
			return err
		}
		if err := s.comments.UpdateContent(ctx, c); err != nil {
			return notFound(err, ErrCommentNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *commentService) Delete(ctx context.Context, userID, scheduleID, commentID int64) error {
	return s.bus.Atomic(ctx, s.tx, func(ctx context.Context) error {
		c, err := s.ownedComment(ctx, userID, scheduleID, commentID)
		if err != nil {
			return err
		}
		deleted, err := s.comments.Delete(ctx, commentID)
		if err != nil {
			return notFound(err, ErrCommentNotFound)
		}
		return s.bus.Publish(ctx, event.CommentDeleted{
			CommentID:           commentID,
			ScheduleID:          scheduleID,
			ParentCommentID:     c.ParentCommentID,
			DeletedCommentCount: deleted,
		})
	})
}

func (s *commentService) List(ctx context.Context, scheduleID int64, page, size int) (*CommentPage, error) {
	limit, offset, err := pageOffset(page, size, defaultCommentPageSize)
	if err != nil {
		return nil, err
	}
	if err := s.requireSchedule(ctx, scheduleID); err != nil {
		return nil, err
	}
	res, err := s.comments.ListRoots(ctx, scheduleID, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return &CommentPage{Items: res.Items, Total: res.Total, Page: offset / limit, Size: limit}, nil
}

func (s *commentService) Replies(ctx context.Context, scheduleID, parentID int64) ([]repository.CommentView, error) {
	parent, err := s.comments.FindByID(ctx, parentID)
	if err != nil {
		return nil, notFound(err, ErrCommentNotFound)
	}
	if !parent.IsSameScheduleID(scheduleID) {
		return nil, fmt.Errorf("comment %d is not on schedule %d: %w", parentID, scheduleID, ErrCommentNotFound)
	}
	replies, err := s.comments.ListReplies(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("list replies: %w", err)
	}
	return replies, nil
}

func (s *commentService) requireSchedule(ctx context.Context, scheduleID int64) error {
	ok, err := s.schedules.Exists(ctx, scheduleID)
	if err != nil {
		return fmt.Errorf("check schedule %d: %w", scheduleID, err)
	}
	if !ok {
		return ErrScheduleNotFound
	}
	return nil
}

// ownedComment loads a comment of scheduleID written by userID.
func (s *commentService) ownedComment(ctx context.Context, userID, scheduleID, commentID int64) (*model.Comment, error) {
	c, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return nil, notFound(err, ErrCommentNotFound)
	}
	if !c.IsSameScheduleID(scheduleID) {
		return nil, invalidArgument("comment %d does not belong to schedule %d", commentID, scheduleID)
	}
	if !c.IsSameCommenter(userID) {
		return nil, fmt.Errorf("comment %d: %w", commentID, ErrForbidden)
	}
	return c, nil
}
