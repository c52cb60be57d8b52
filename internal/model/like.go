package model

import "time"

type ScheduleLike struct {
	ID         int64     `json:"id"`
	ScheduleID int64     `json:"schedule_id"`
	LikerID    int64     `json:"liker_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (l *ScheduleLike) IsSameScheduleID(id int64) bool {
	return l.ScheduleID == id
}

type CommentLike struct {
	ID        int64     `json:"id"`
	CommentID int64     `json:"comment_id"`
	LikerID   int64     `json:"liker_id"`
	CreatedAt time.Time `json:"created_at"`
}
