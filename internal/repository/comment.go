package repository

import (
	"context"

	"weshare/internal/model"
)

// CommentView is a comment joined with its author and counters.
type CommentView struct {
	model.Comment
	CommenterName       string `json:"commenter_name"`
	CommenterProfileImg string `json:"commenter_profile_img"`
	LikeCount           int64  `json:"like_count"`
	ReplyCount          int64  `json:"reply_count"`
}

type CommentRepository interface {
	Create(ctx context.Context, c *model.Comment) (*model.Comment, error)
	FindByID(ctx context.Context, id int64) (*model.Comment, error)
	UpdateContent(ctx context.Context, c *model.Comment) error
	// Delete removes the comment and its replies, returning the number of rows removed.
	Delete(ctx context.Context, id int64) (int64, error)
	// ListRoots pages the root comments of a schedule, newest first.
	ListRoots(ctx context.Context, scheduleID int64, pq PageQuery) (*PageResult[CommentView], error)
	// ListReplies returns the replies of a root comment, oldest first.
	ListReplies(ctx context.Context, parentID int64) ([]CommentView, error)
}
