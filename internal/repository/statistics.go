package repository

import (
	"context"

	"weshare/internal/model"
)

// StatisticsRepository persists the counter read-models. The ForUpdate finders lock
// the row for the surrounding transaction; the total and reply counters are created on first use.
type StatisticsRepository interface {
	CreateDetails(ctx context.Context, d *model.StatisticsScheduleDetails) error
	FindDetailsForUpdate(ctx context.Context, scheduleID int64) (*model.StatisticsScheduleDetails, error)
	SaveDetails(ctx context.Context, d *model.StatisticsScheduleDetails) error
	DeleteDetails(ctx context.Context, scheduleID int64) error
	// DetailsByScheduleIDs returns statistics for every id; schedules without a row get zeroed statistics.
	DetailsByScheduleIDs(ctx context.Context, ids []int64) (map[int64]model.StatisticsScheduleDetails, error)

	TotalCount(ctx context.Context) (int64, error)
	FindTotalCountForUpdate(ctx context.Context) (*model.StatisticsScheduleTotalCount, error)
	SaveTotalCount(ctx context.Context, c *model.StatisticsScheduleTotalCount) error

	FindParentCountForUpdate(ctx context.Context, parentCommentID int64) (*model.StatisticsParentCommentTotalCount, error)
	SaveParentCount(ctx context.Context, c *model.StatisticsParentCommentTotalCount) error
	DeleteParentCount(ctx context.Context, parentCommentID int64) error
}
