package postgres

import (
	"context"
	"database/sql"

	"weshare/internal/model"
	"weshare/internal/repository"
)

// CommentPostgres is a PostgreSQL implementation of repository.CommentRepository.
type CommentPostgres struct {
	db *sql.DB
}

func NewCommentPostgres(db *sql.DB) *CommentPostgres {
	return &CommentPostgres{db: db}
}

var _ repository.CommentRepository = (*CommentPostgres)(nil)

func (r *CommentPostgres) Create(ctx context.Context, c *model.Comment) (*model.Comment, error) {
	const q = `
		INSERT INTO schedule_comments (schedule_id, commenter_id, parent_comment_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	out := *c
	var parent any
	if c.ParentCommentID != nil {
		parent = *c.ParentCommentID
	}
	if err := conn(ctx, r.db).QueryRowContext(ctx, q, c.ScheduleID, c.CommenterID, parent, c.Content).
		Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func (r *CommentPostgres) FindByID(ctx context.Context, id int64) (*model.Comment, error) {
	const q = `
		SELECT id, content, commenter_id, schedule_id, parent_comment_id, created_at, updated_at
		FROM schedule_comments
		WHERE id = $1
	`
	var (
		c      model.Comment
		parent sql.NullInt64
	)
	if err := conn(ctx, r.db).QueryRowContext(ctx, q, id).Scan(
		&c.ID, &c.Content, &c.CommenterID, &c.ScheduleID, &parent, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if parent.Valid {
		c.ParentCommentID = &parent.Int64
	}
	return &c, nil
}

func (r *CommentPostgres) UpdateContent(ctx context.Context, c *model.Comment) error {
	const q = `UPDATE schedule_comments SET content = $2, updated_at = $3 WHERE id = $1`
	res, err := conn(ctx, r.db).ExecContext(ctx, q, c.ID, c.Content, c.UpdatedAt)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *CommentPostgres) Delete(ctx context.Context, id int64) (int64, error) {
	const q = `DELETE FROM schedule_comments WHERE id = $1 OR parent_comment_id = $1`
	res, err := conn(ctx, r.db).ExecContext(ctx, q, id)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, sql.ErrNoRows
	}
	return n, nil
}

const commentViewSelect = `
		SELECT c.id, c.content, c.commenter_id, c.schedule_id, c.parent_comment_id, c.created_at, c.updated_at,
		       u.name, u.profile_img,
		       (SELECT COUNT(*) FROM comment_likes l WHERE l.comment_id = c.id),
		       COALESCE(p.total_count, 0)
		FROM schedule_comments c
		JOIN users u ON u.id = c.commenter_id
		LEFT JOIN statistics_parent_comment_total_count p ON p.parent_comment_id = c.id`

func scanCommentViews(rows *sql.Rows) ([]repository.CommentView, error) {
	defer rows.Close()
	items := make([]repository.CommentView, 0)
	for rows.Next() {
		var (
			v      repository.CommentView
			parent sql.NullInt64
		)
		if err := rows.Scan(
			&v.ID, &v.Content, &v.CommenterID, &v.ScheduleID, &parent, &v.CreatedAt, &v.UpdatedAt,
			&v.CommenterName, &v.CommenterProfileImg, &v.LikeCount, &v.ReplyCount,
		); err != nil {
			return nil, err
		}
		if parent.Valid {
			id := parent.Int64
			v.ParentCommentID = &id
		}
		items = append(items, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *CommentPostgres) ListRoots(ctx context.Context, scheduleID int64, pq repository.PageQuery) (*repository.PageResult[repository.CommentView], error) {
	q := conn(ctx, r.db)

	const qCount = `SELECT COUNT(*) FROM schedule_comments WHERE schedule_id = $1 AND parent_comment_id IS NULL`
	var total int64
	if err := q.QueryRowContext(ctx, qCount, scheduleID).Scan(&total); err != nil {
		return nil, err
	}

	const qList = commentViewSelect + `
		WHERE c.schedule_id = $1 AND c.parent_comment_id IS NULL
		ORDER BY c.created_at DESC, c.id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := q.QueryContext(ctx, qList, scheduleID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	items, err := scanCommentViews(rows)
	if err != nil {
		return nil, err
	}
	return &repository.PageResult[repository.CommentView]{Items: items, Total: total}, nil
}

func (r *CommentPostgres) ListReplies(ctx context.Context, parentID int64) ([]repository.CommentView, error) {
	const q = commentViewSelect + `
		WHERE c.parent_comment_id = $1
		ORDER BY c.created_at, c.id
	`
	rows, err := conn(ctx, r.db).QueryContext(ctx, q, parentID)
	if err != nil {
		return nil, err
	}
	return scanCommentViews(rows)
}
