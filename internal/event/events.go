package event

// Event names double as the suffix of outbound message subjects.
const (
	NameUserRegistered  = "UserRegistered"
	NameScheduleCreated = "ScheduleCreated"
	NameScheduleUpdated = "ScheduleUpdated"
	NameScheduleDeleted = "ScheduleDeleted"
	NameScheduleViewed  = "ScheduleViewed"
	NameScheduleLiked   = "ScheduleLiked"
	NameScheduleUnliked = "ScheduleUnliked"
	NameCommentCreated  = "CommentCreated"
	NameCommentDeleted  = "CommentDeleted"
	NameCommentLiked    = "CommentLiked"
	NameCommentUnliked  = "CommentUnliked"
)

type UserRegistered struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Social string `json:"social"`
}

func (UserRegistered) Name() string { return NameUserRegistered }

type ScheduleCreated struct {
	ScheduleID   int64 `json:"schedule_id"`
	UserID       int64 `json:"user_id"`
	TotalExpense int64 `json:"total_expense"`
}

func (ScheduleCreated) Name() string { return NameScheduleCreated }

type ScheduleUpdated struct {
	ScheduleID   int64 `json:"schedule_id"`
	TotalExpense int64 `json:"total_expense"`
}

func (ScheduleUpdated) Name() string { return NameScheduleUpdated }

type ScheduleDeleted struct {
	ScheduleID int64 `json:"schedule_id"`
}

func (ScheduleDeleted) Name() string { return NameScheduleDeleted }

type ScheduleViewed struct {
	ScheduleID int64 `json:"schedule_id"`
}

func (ScheduleViewed) Name() string { return NameScheduleViewed }

type ScheduleLiked struct {
	ScheduleID int64 `json:"schedule_id"`
	LikeID     int64 `json:"like_id"`
	LikerID    int64 `json:"liker_id"`
}

func (ScheduleLiked) Name() string { return NameScheduleLiked }

type ScheduleUnliked struct {
	ScheduleID int64 `json:"schedule_id"`
	LikerID    int64 `json:"liker_id"`
}

func (ScheduleUnliked) Name() string { return NameScheduleUnliked }

type CommentCreated struct {
	CommentID       int64  `json:"comment_id"`
	ScheduleID      int64  `json:"schedule_id"`
	ParentCommentID *int64 `json:"parent_comment_id,omitempty"`
}

func (CommentCreated) Name() string { return NameCommentCreated }

// IsReply reports whether the created comment answers a root comment.
func (e CommentCreated) IsReply() bool { return e.ParentCommentID != nil }

// CommentDeleted carries how many rows went away: a root comment takes its replies with it.
type CommentDeleted struct {
	CommentID           int64  `json:"comment_id"`
	ScheduleID          int64  `json:"schedule_id"`
	ParentCommentID     *int64 `json:"parent_comment_id,omitempty"`
	DeletedCommentCount int64  `json:"deleted_comment_count"`
}

func (CommentDeleted) Name() string { return NameCommentDeleted }

func (e CommentDeleted) IsReply() bool { return e.ParentCommentID != nil }

type CommentLiked struct {
	CommentID int64 `json:"comment_id"`
	LikeID    int64 `json:"like_id"`
	LikerID   int64 `json:"liker_id"`
}

func (CommentLiked) Name() string { return NameCommentLiked }

type CommentUnliked struct {
	CommentID int64 `json:"comment_id"`
	LikerID   int64 `json:"liker_id"`
}

func (CommentUnliked) Name() string { return NameCommentUnliked }
