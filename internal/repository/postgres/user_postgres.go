package postgres

import (
	"context"
	"database/sql"
	"time"

	"weshare/internal/model"
	"weshare/internal/repository"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	db *sql.DB
}

func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

const userColumns = `id, email, name, password, birth_date, profile_img, role, social, created_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var (
		u     model.User
		birth model.Date
	)
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Password, &birth, &u.ProfileImg, &u.Role, &u.Social, &u.CreatedAt); err != nil {
		return nil, err
	}
	if !birth.IsZero() {
		u.BirthDate = &birth
	}
	return &u, nil
}

func (r *UserPostgres) Create(ctx context.Context, u *model.User) (*model.User, error) {
	const q = `
		INSERT INTO users (email, name, password, birth_date, profile_img, role, social)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + userColumns
	var birth any
	if u.BirthDate != nil {
		birth = *u.BirthDate
	}
	out, err := scanUser(conn(ctx, r.db).QueryRowContext(ctx, q,
		u.Email, u.Name, u.Password, birth, u.ProfileImg, string(u.Role), string(u.Social),
	))
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (r *UserPostgres) FindByID(ctx context.Context, id int64) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(conn(ctx, r.db).QueryRowContext(ctx, q, id))
}

func (r *UserPostgres) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(conn(ctx, r.db).QueryRowContext(ctx, q, email))
}

func (r *UserPostgres) FindByName(ctx context.Context, name string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE name = $1`
	return scanUser(conn(ctx, r.db).QueryRowContext(ctx, q, name))
}

func (r *UserPostgres) UpdateProfileImage(ctx context.Context, id int64, url string) error {
	const q = `UPDATE users SET profile_img = $2 WHERE id = $1`
	res, err := conn(ctx, r.db).ExecContext(ctx, q, id, url)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// RefreshTokenPostgres is a PostgreSQL implementation of repository.RefreshTokenRepository.
type RefreshTokenPostgres struct {
	db *sql.DB
}

func NewRefreshTokenPostgres(db *sql.DB) *RefreshTokenPostgres {
	return &RefreshTokenPostgres{db: db}
}

var _ repository.RefreshTokenRepository = (*RefreshTokenPostgres)(nil)

const refreshTokenColumns = `id, user_id, token, token_type, updated_at`

func scanRefreshToken(row *sql.Row) (*model.RefreshToken, error) {
	var t model.RefreshToken
	if err := row.Scan(&t.ID, &t.UserID, &t.Token, &t.TokenType, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *RefreshTokenPostgres) FindByToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	const q = `SELECT ` + refreshTokenColumns + ` FROM refresh_tokens WHERE token = $1`
	return scanRefreshToken(conn(ctx, r.db).QueryRowContext(ctx, q, token))
}

func (r *RefreshTokenPostgres) Save(ctx context.Context, t *model.RefreshToken) error {
	const q = `
		INSERT INTO refresh_tokens (user_id, token, token_type, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET token = EXCLUDED.token, token_type = EXCLUDED.token_type, updated_at = EXCLUDED.updated_at
		RETURNING id
	`
	if err := conn(ctx, r.db).QueryRowContext(ctx, q, t.UserID, t.Token, t.TokenType, t.UpdatedAt).Scan(&t.ID); err != nil {
		return translate(err)
	}
	return nil
}

func (r *RefreshTokenPostgres) DeleteByUserID(ctx context.Context, userID int64) error {
	const q = `DELETE FROM refresh_tokens WHERE user_id = $1`
	_, err := conn(ctx, r.db).ExecContext(ctx, q, userID)
	return err
}

func (r *RefreshTokenPostgres) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	const q = `DELETE FROM refresh_tokens WHERE updated_at < $1`
	res, err := conn(ctx, r.db).ExecContext(ctx, q, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// expectAffected turns an UPDATE or DELETE that matched nothing into sql.ErrNoRows.
func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
