package model

import (
	"strings"
	"time"
)

// Comment belongs to a schedule. Replies point at a root comment of the same schedule; nesting stops at one level.
type Comment struct {
	ID              int64     `json:"id"`
	Content         string    `json:"content"`
	CommenterID     int64     `json:"commenter_id"`
	ScheduleID      int64     `json:"schedule_id"`
	ParentCommentID *int64    `json:"parent_comment_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewComment builds a root comment, or a reply when parent is non-nil.
func NewComment(content string, commenterID, scheduleID int64, parent *Comment) (*Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, invalidArgument("comment content is required")
	}
	c := &Comment{Content: content, CommenterID: commenterID, ScheduleID: scheduleID}
	if parent != nil {
		if !parent.IsRootComment() {
			return nil, invalidArgument("replies can only target a root comment")
		}
		if !parent.IsSameScheduleID(scheduleID) {
			return nil, invalidArgument("parent comment belongs to another schedule")
		}
		id := parent.ID
		c.ParentCommentID = &id
	}
	return c, nil
}

func (c *Comment) IsRootComment() bool {
	return c.ParentCommentID == nil
}

func (c *Comment) IsSameCommenter(userID int64) bool {
	return c.CommenterID == userID
}

func (c *Comment) IsSameScheduleID(scheduleID int64) bool {
	return c.ScheduleID == scheduleID
}

func (c *Comment) UpdateContent(content string, at time.Time) error {
	if strings.TrimSpace(content) == "" {
		return invalidArgument("comment content is required")
	}
	c.Content = content
	c.UpdatedAt = at
	return nil
}
