package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"weshare/internal/event"
	"weshare/internal/model"
	"weshare/internal/repository"
)

// LikedTimeLayout renders like timestamps, e.g. "2024-05-01 09:30 PM".
const LikedTimeLayout = "2006-01-02 03:04 PM"

type ScheduleLikeResult struct {
	ScheduleID int64  `json:"schedule_id"`
	LikeID     int64  `json:"like_id"`
	LikerName  string `json:"liker_name"`
	LikedTime  string `json:"liked_time"`
}

type CommentLikeResult struct {
	CommentID int64  `json:"comment_id"`
	LikeID    int64  `json:"like_id"`
	LikerName string `json:"liker_name"`
	LikedTime string `json:"liked_time"`
}

// LikeService records likes on schedules and comments. A user likes a target at most once.
type LikeService interface {
	LikeSchedule(ctx context.Context, userID, scheduleID int64) (*ScheduleLikeResult, error)
	UnlikeSchedule(ctx context.Context, userID, scheduleID int64) error
	LikeComment(ctx context.Context, userID, scheduleID, commentID int64) (*CommentLikeResult, error)
	UnlikeComment(ctx context.Context, userID, scheduleID, commentID int64) error
}

type likeService struct {
	likes     repository.LikeRepository
	schedules repository.ScheduleRepository
	comments  repository.CommentRepository
	users     repository.UserRepository
	tx        repository.Transactor
	bus       *event.Bus
	loc       *time.Location
}

func NewLikeService(
	likes repository.LikeRepository,
	schedules repository.ScheduleRepository,
	comments repository.CommentRepository,
	users repository.UserRepository,
	tx repository.Transactor,
	bus *event.Bus,
	loc *time.Location,
) LikeService {
	if loc == nil {
		loc = time.UTC
	}
	return &likeService{likes: likes, schedules: schedules, comments: comments, users: users, tx: tx, bus: bus, loc: loc}
}

func (s *likeService) LikeSchedule(ctx context.Context, userID, scheduleID int64) (*ScheduleLikeResult, error) {
	liker, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}

	var like *model.ScheduleLike
	err = s.bus.Atomic(ctx, s.tx, func(ctx context.Context) error {
		if err := s.requireSchedule(ctx, scheduleID); err != nil {
			return err
		}
		like, err = s.likes.CreateScheduleLike(ctx, &model.ScheduleLike{ScheduleID: scheduleID, LikerID: userID})
		if errors.Is(err, repository.ErrDuplicate) {
			return fmt.Errorf("schedule %d: %w", scheduleID, ErrAlreadyLiked)
		}
		if err != nil {
			return fmt.Errorf("create schedule like: %w", err)
		}
		return s.bus.Publish(ctx, event.ScheduleLiked{ScheduleID: scheduleID, LikeID: like.ID, LikerID: userID})
	})
	if err != nil {
		return nil, err
	}
	return &ScheduleLikeResult{
		ScheduleID: like.ScheduleID,
		LikeID:     like.ID,
		LikerName:  liker.Name,
		LikedTime:  like.CreatedAt.In(s.loc).Format(LikedTimeLayout),
	}, nil
}

func (s *likeService) UnlikeSchedule(ctx context.Context, userID, scheduleID int64) error {
	return s.bus.Atomic(ctx, s.tx, func(ctx context.Context) error {
		if err := s.requireSchedule(ctx, scheduleID); err != nil {
			return err
		}
		removed, err := s.likes.DeleteScheduleLike(ctx, scheduleID, userID)
		if err != nil {
			return fmt.Errorf("delete schedule like: %w", err)
		}
		if !removed {
			return fmt.Errorf("schedule %d: %w", scheduleID, ErrLikeNotFound)
		}
		return s.bus.Publish(ctx, event.ScheduleUnliked{ScheduleID: scheduleID, LikerID: userID})
	})
}

func (s *likeService) LikeComment(ctx context.Context, userID, scheduleID, commentID int64) (*CommentLikeResult, error) {
	liker, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}

	var like *model.CommentLike
	err = s.bus.Atomic(ctx, s.tx, func(ctx context.Context) error {
		if err := s.requireComment(ctx, scheduleID, commentID); err != nil {
			return err
		}
		like, err = s.likes.CreateCommentLike(ctx, &model.CommentLike{CommentID: commentID, LikerID: userID})
		if errors.Is(err, repository.ErrDuplicate) {
			return fmt.Errorf("comment %d: %w", commentID, ErrAlreadyLiked)
		}
		if err != nil {
			return fmt.Errorf("create comment like: %w", err)
		}
		return s.bus.Publish(ctx, event.CommentLiked{CommentID: commentID, LikeID: like.ID, LikerID: userID})
	})
	if err != nil {
		return nil, err
	}
	return &CommentLikeResult{
		CommentID: like.CommentID,
		LikeID:    like.ID,
		LikerName: liker.Name,
		LikedTime: like.CreatedAt.In(s.loc).Format(LikedTimeLayout),
	}, nil
}

func (s *likeService) UnlikeComment(ctx context.Context, userID, scheduleID, commentID int64) error {
	return s.bus.Atomic(ctx, s.tx, func(ctx context.Context) error {
		if err := s.requireComment(ctx, scheduleID, commentID); err != nil {
			return err
		}
		removed, err := s.likes.DeleteCommentLike(ctx, commentID, userID)
		if err != nil {
			return fmt.Errorf("delete comment like: %w", err)
		}
		if !removed {
			return fmt.Errorf("comment %d: %w", commentID, ErrLikeNotFound)
		}
		return s.bus.Publish(ctx, event.CommentUnliked{CommentID: commentID, LikerID: userID})
	})
}

func (s *likeService) requireSchedule(ctx context.Context, scheduleID int64) error {
	ok, err := s.schedules.Exists(ctx, scheduleID)
	if err != nil {
		return fmt.Errorf("check schedule %d: %w", scheduleID, err)
	}
	if !ok {
		return ErrScheduleNotFound
	}
	return nil
}

func (s *likeService) requireComment(ctx context.Context, scheduleID, commentID int64) error {
	c, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return notFound(err, ErrCommentNotFound)
	}
	if !c.IsSameScheduleID(scheduleID) {
		return fmt.Errorf("comment %d is not on schedule %d: %w", commentID, scheduleID, ErrCommentNotFound)
	}
	return nil
}
