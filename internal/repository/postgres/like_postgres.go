package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"weshare/internal/model"
	"weshare/internal/repository"
)

// LikePostgres is a PostgreSQL implementation of repository.LikeRepository.
type LikePostgres struct {
	db *sql.DB
}

func NewLikePostgres(db *sql.DB) *LikePostgres {
	return &LikePostgres{db: db}
}

var _ repository.LikeRepository = (*LikePostgres)(nil)

func (r *LikePostgres) CreateScheduleLike(ctx context.Context, l *model.ScheduleLike) (*model.ScheduleLike, error) {
	const q = `
		INSERT INTO schedule_likes (schedule_id, liker_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	out := *l
	if err := conn(ctx, r.db).QueryRowContext(ctx, q, l.ScheduleID, l.LikerID).Scan(&out.ID, &out.CreatedAt); err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func (r *LikePostgres) DeleteScheduleLike(ctx context.Context, scheduleID, likerID int64) (bool, error) {
	const q = `DELETE FROM schedule_likes WHERE schedule_id = $1 AND liker_id = $2`
	res, err := conn(ctx, r.db).ExecContext(ctx, q, scheduleID, likerID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *LikePostgres) LikedScheduleIDs(ctx context.Context, userID int64, scheduleIDs []int64) (map[int64]bool, error) {
	liked := make(map[int64]bool, len(scheduleIDs))
	for _, id := range scheduleIDs {
		liked[id] = false
	}
	if len(scheduleIDs) == 0 {
		return liked, nil
	}

	args := []any{userID}
	placeholders := make([]string, 0, len(scheduleIDs))
	for _, id := range scheduleIDs {
		args = append(args, id)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}
	q := `SELECT schedule_id FROM schedule_likes WHERE liker_id = $1 AND schedule_id IN (` + strings.Join(placeholders, ", ") + `)`

	rows, err := conn(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		liked[id] = true
	}
	return liked, rows.Err()
}

func (r *LikePostgres) CreateCommentLike(ctx context.Context, l *model.CommentLike) (*model.CommentLike, error) {
	const q = `
		INSERT INTO comment_likes (comment_id, liker_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	out := *l
	if err := conn(ctx, r.db).QueryRowContext(ctx, q, l.CommentID, l.LikerID).Scan(&out.ID, &out.CreatedAt); err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func (r *LikePostgres) DeleteCommentLike(ctx context.Context, commentID, likerID int64) (bool, error) {
	const q = `DELETE FROM comment_likes WHERE comment_id = $1 AND liker_id = $2`
	res, err := conn(ctx, r.db).ExecContext(ctx, q, commentID, likerID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
