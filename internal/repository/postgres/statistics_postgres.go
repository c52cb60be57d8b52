package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"weshare/internal/model"
	"weshare/internal/repository"
)

// StatisticsPostgres is a PostgreSQL implementation of repository.StatisticsRepository.
type StatisticsPostgres struct {
	db *sql.DB
}

func NewStatisticsPostgres(db *sql.DB) *StatisticsPostgres {
	return &StatisticsPostgres{db: db}
}

var _ repository.StatisticsRepository = (*StatisticsPostgres)(nil)

func (r *StatisticsPostgres) CreateDetails(ctx context.Context, d *model.StatisticsScheduleDetails) error {
	const q = `
		INSERT INTO statistics_schedule_details
			(schedule_id, total_view_count, total_comment_count, total_like_count, total_expense)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := conn(ctx, r.db).ExecContext(ctx, q,
		d.ScheduleID, d.TotalViewCount, d.TotalCommentCount, d.TotalLikeCount, d.TotalExpense)
	return translate(err)
}

func (r *StatisticsPostgres) FindDetailsForUpdate(ctx context.Context, scheduleID int64) (*model.StatisticsScheduleDetails, error) {
	const q = `
		SELECT schedule_id, total_view_count, total_comment_count, total_like_count, total_expense, updated_at
		FROM statistics_schedule_details
		WHERE schedule_id = $1
		FOR UPDATE
	`
	var d model.StatisticsScheduleDetails
	if err := conn(ctx, r.db).QueryRowContext(ctx, q, scheduleID).Scan(
		&d.ScheduleID, &d.TotalViewCount, &d.TotalCommentCount, &d.TotalLikeCount, &d.TotalExpense, &d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *StatisticsPostgres) SaveDetails(ctx context.Context, d *model.StatisticsScheduleDetails) error {
	const q = `
		UPDATE statistics_schedule_details
		SET total_view_count = $2, total_comment_count = $3, total_like_count = $4, total_expense = $5, updated_at = now()
		WHERE schedule_id = $1
	`
	res, err := conn(ctx, r.db).ExecContext(ctx, q,
		d.ScheduleID, d.TotalViewCount, d.TotalCommentCount, d.TotalLikeCount, d.TotalExpense)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *StatisticsPostgres) DeleteDetails(ctx context.Context, scheduleID int64) error {
	const q = `DELETE FROM statistics_schedule_details WHERE schedule_id = $1`
	_, err := conn(ctx, r.db).ExecContext(ctx, q, scheduleID)
	return err
}

func (r *StatisticsPostgres) DetailsByScheduleIDs(ctx context.Context, ids []int64) (map[int64]model.StatisticsScheduleDetails, error) {
	out := make(map[int64]model.StatisticsScheduleDetails, len(ids))
	for _, id := range ids {
		out[id] = model.NewStatisticsScheduleDetails(id)
	}
	if len(ids) == 0 {
		return out, nil
	}

	args := make([]any, 0, len(ids))
	placeholders := make([]string, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}
	q := `
		SELECT schedule_id, total_view_count, total_comment_count, total_like_count, total_expense, updated_at
		FROM statistics_schedule_details
		WHERE schedule_id IN (` + strings.Join(placeholders, ", ") + `)`

	rows, err := conn(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var d model.StatisticsScheduleDetails
		if err := rows.Scan(&d.ScheduleID, &d.TotalViewCount, &d.TotalCommentCount, &d.TotalLikeCount, &d.TotalExpense, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out[d.ScheduleID] = d
	}
	return out, rows.Err()
}

func (r *StatisticsPostgres) TotalCount(ctx context.Context) (int64, error) {
	const q = `SELECT COALESCE((SELECT total_count FROM statistics_schedule_total_count WHERE id = 1), 0)`
	var total int64
	if err := conn(ctx, r.db).QueryRowContext(ctx, q).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *StatisticsPostgres) FindTotalCountForUpdate(ctx context.Context) (*model.StatisticsScheduleTotalCount, error) {
	q := conn(ctx, r.db)
	const qEnsure = `INSERT INTO statistics_schedule_total_count (id, total_count) VALUES (1, 0) ON CONFLICT (id) DO NOTHING`
	if _, err := q.ExecContext(ctx, qEnsure); err != nil {
		return nil, err
	}

	const qSelect = `SELECT total_count, updated_at FROM statistics_schedule_total_count WHERE id = 1 FOR UPDATE`
	var c model.StatisticsScheduleTotalCount
	if err := q.QueryRowContext(ctx, qSelect).Scan(&c.TotalCount, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *StatisticsPostgres) SaveTotalCount(ctx context.Context, c *model.StatisticsScheduleTotalCount) error {
	const q = `UPDATE statistics_schedule_total_count SET total_count = $1, updated_at = now() WHERE id = 1`
	res, err := conn(ctx, r.db).ExecContext(ctx, q, c.TotalCount)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *StatisticsPostgres) FindParentCountForUpdate(ctx context.Context, parentCommentID int64) (*model.StatisticsParentCommentTotalCount, error) {
	q := conn(ctx, r.db)
	const qEnsure = `
		INSERT INTO statistics_parent_comment_total_count (parent_comment_id, total_count)
		VALUES ($1, 0)
		ON CONFLICT (parent_comment_id) DO NOTHING
	`
	if _, err := q.ExecContext(ctx, qEnsure, parentCommentID); err != nil {
		return nil, err
	}

	const qSelect = `
		SELECT parent_comment_id, total_count
		FROM statistics_parent_comment_total_count
		WHERE parent_comment_id = $1
		FOR UPDATE
	`
	var c model.StatisticsParentCommentTotalCount
	if err := q.QueryRowContext(ctx, qSelect, parentCommentID).Scan(&c.ParentCommentID, &c.TotalCount); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *StatisticsPostgres) SaveParentCount(ctx context.Context, c *model.StatisticsParentCommentTotalCount) error {
	const q = `UPDATE statistics_parent_comment_total_count SET total_count = $2 WHERE parent_comment_id = $1`
	res, err := conn(ctx, r.db).ExecContext(ctx, q, c.ParentCommentID, c.TotalCount)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *StatisticsPostgres) DeleteParentCount(ctx context.Context, parentCommentID int64) error {
	const q = `DELETE FROM statistics_parent_comment_total_count WHERE parent_comment_id = $1`
	_, err := conn(ctx, r.db).ExecContext(ctx, q, parentCommentID)
	return err
}
