package repository

import (
	"context"

	"weshare/internal/model"
)

type LikeRepository interface {
	// CreateScheduleLike yields ErrDuplicate when the user already liked the schedule.
	CreateScheduleLike(ctx context.Context, l *model.ScheduleLike) (*model.ScheduleLike, error)
	// DeleteScheduleLike reports whether a like was removed.
	DeleteScheduleLike(ctx context.Context, scheduleID, likerID int64) (bool, error)
	// LikedScheduleIDs returns, for each of scheduleIDs, whether userID liked it.
	LikedScheduleIDs(ctx context.Context, userID int64, scheduleIDs []int64) (map[int64]bool, error)
	CreateCommentLike(ctx context.Context, l *model.CommentLike) (*model.CommentLike, error)
	DeleteCommentLike(ctx context.Context, commentID, likerID int64) (bool, error)
}
