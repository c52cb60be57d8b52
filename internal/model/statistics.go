package model

import (
	"fmt"
	"time"
)

// StatisticsScheduleDetails is the per-schedule counter read-model.
type StatisticsScheduleDetails struct {
	ScheduleID        int64     `json:"schedule_id"`
	TotalViewCount    int64     `json:"total_view_count"`
	TotalCommentCount int64     `json:"total_comment_count"`
	TotalLikeCount    int64     `json:"total_like_count"`
	TotalExpense      int64     `json:"total_expense"`
	UpdatedAt         time.Time `json:"-"`
}

// NewStatisticsScheduleDetails returns zeroed statistics for a schedule without a row yet.
func NewStatisticsScheduleDetails(scheduleID int64) StatisticsScheduleDetails {
	return StatisticsScheduleDetails{ScheduleID: scheduleID}
}

func (s *StatisticsScheduleDetails) IncrementViewCount() {
	s.TotalViewCount++
}

func (s *StatisticsScheduleDetails) IncrementCommentCount() {
	s.TotalCommentCount++
}

// DecrementCommentCount removes deleted comments; the count never drops below zero.
func (s *StatisticsScheduleDetails) DecrementCommentCount(deleted int64) error {
	if deleted <= 0 {
		return fmt.Errorf("%w: deleted comment count must be positive", ErrInvalidArgument)
	}
	if s.TotalCommentCount-deleted < 0 {
		return fmt.Errorf("%w: schedule %d comment count %d cannot drop by %d", ErrInvalidState, s.ScheduleID, s.TotalCommentCount, deleted)
	}
	s.TotalCommentCount -= deleted
	return nil
}

func (s *StatisticsScheduleDetails) IncrementLikeCount() {
	s.TotalLikeCount++
}

func (s *StatisticsScheduleDetails) DecrementLikeCount() error {
	if s.TotalLikeCount <= 0 {
		return fmt.Errorf("%w: schedule %d like count is already zero", ErrInvalidState, s.ScheduleID)
	}
	s.TotalLikeCount--
	return nil
}

func (s *StatisticsScheduleDetails) UpdateTotalExpense(expense int64) error {
	if expense < 0 {
		return fmt.Errorf("%w: total expense must not be negative", ErrInvalidArgument)
	}
	s.TotalExpense = expense
	return nil
}

// StatisticsScheduleTotalCount is the single-row count of all schedules.
type StatisticsScheduleTotalCount struct {
	TotalCount int64
	UpdatedAt  time.Time
}

func (s *StatisticsScheduleTotalCount) Increment() {
	s.TotalCount++
}

func (s *StatisticsScheduleTotalCount) Decrement() error {
	if s.TotalCount <= 0 {
		return fmt.Errorf("%w: schedule total count is already zero", ErrInvalidState)
	}
	s.TotalCount--
	return nil
}

// Sync overwrites the counter with an authoritative total.
func (s *StatisticsScheduleTotalCount) Sync(total int64) error {
	if total < 0 {
		return fmt.Errorf("%w: total count must not be negative", ErrInvalidArgument)
	}
	s.TotalCount = total
	return nil
}

// StatisticsParentCommentTotalCount counts the replies of one root comment.
type StatisticsParentCommentTotalCount struct {
	ParentCommentID int64
	TotalCount      int64
}

func (s *StatisticsParentCommentTotalCount) Increment() {
	s.TotalCount++
}

func (s *StatisticsParentCommentTotalCount) Decrement() error {
	if s.TotalCount <= 0 {
		return fmt.Errorf("%w: reply count of comment %d is already zero", ErrInvalidState, s.ParentCommentID)
	}
	s.TotalCount--
	return nil
}
