package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"weshare/internal/model"
	"weshare/internal/repository"
)

// SchedulePostgres is a PostgreSQL implementation of repository.ScheduleRepository.
// Create and Update write several tables and expect to run inside a transaction.
type SchedulePostgres struct {
	db *sql.DB
}

func NewSchedulePostgres(db *sql.DB) *SchedulePostgres {
	return &SchedulePostgres{db: db}
}

var _ repository.ScheduleRepository = (*SchedulePostgres)(nil)

func (r *SchedulePostgres) Create(ctx context.Context, s *model.Schedule) (*model.Schedule, error) {
	const q = `
		INSERT INTO schedules (user_id, title, destination, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	out := *s
	if err := conn(ctx, r.db).QueryRowContext(ctx, q,
		s.UserID, s.Title, string(s.Destination), s.StartDate, s.EndDate,
	).Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, translate(err)
	}

	days, err := r.insertDays(ctx, out.ID, s.Days)
	if err != nil {
		return nil, err
	}
	out.Days = days
	return &out, nil
}

func (r *SchedulePostgres) insertDays(ctx context.Context, scheduleID int64, days []model.Day) ([]model.Day, error) {
	const qDay = `INSERT INTO schedule_days (schedule_id, travel_date) VALUES ($1, $2) RETURNING id`
	const qPlace = `
		INSERT INTO schedule_places (day_id, title, visit_time, memo, expense, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	q := conn(ctx, r.db)
	out := make([]model.Day, 0, len(days))
	for _, d := range days {
		day := model.Day{TravelDate: d.TravelDate, Places: make([]model.Place, 0, len(d.Places))}
		if err := q.QueryRowContext(ctx, qDay, scheduleID, d.TravelDate).Scan(&day.ID); err != nil {
			return nil, fmt.Errorf("insert day %s: %w", d.TravelDate, translate(err))
		}
		for _, p := range d.Places {
			if err := q.QueryRowContext(ctx, qPlace,
				day.ID, p.Title, p.Time, p.Memo, p.Expense, p.Latitude, p.Longitude,
			).Scan(&p.ID); err != nil {
				return nil, fmt.Errorf("insert place %q: %w", p.Title, err)
			}
			day.Places = append(day.Places, p)
		}
		out = append(out, day)
	}
	return out, nil
}

func (r *SchedulePostgres) FindByID(ctx context.Context, id int64) (*model.Schedule, error) {
	const qSchedule = `
		SELECT id, user_id, title, destination, start_date, end_date, created_at, updated_at
		FROM schedules
		WHERE id = $1
	`
	q := conn(ctx, r.db)
	var s model.Schedule
	if err := q.QueryRowContext(ctx, qSchedule, id).Scan(
		&s.ID, &s.UserID, &s.Title, &s.Destination, &s.StartDate, &s.EndDate, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}

	const qPlaces = `
		SELECT d.id, d.travel_date, p.id, p.title, p.visit_time, p.memo, p.expense, p.latitude, p.longitude
		FROM schedule_days d
		LEFT JOIN schedule_places p ON p.day_id = d.id
		WHERE d.schedule_id = $1
		ORDER BY d.travel_date, p.id
	`
	rows, err := q.QueryContext(ctx, qPlaces, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	s.Days = make([]model.Day, 0)
	for rows.Next() {
		var (
			dayID                  int64
			travelDate             model.Date
			placeID                sql.NullInt64
			title, visitTime, memo sql.NullString
			expense                sql.NullInt64
			latitude, longitude    sql.NullFloat64
		)
		if err := rows.Scan(&dayID, &travelDate, &placeID, &title, &visitTime, &memo, &expense, &latitude, &longitude); err != nil {
			return nil, err
		}
		if n := len(s.Days); n == 0 || s.Days[n-1].ID != dayID {
			s.Days = append(s.Days, model.Day{ID: dayID, TravelDate: travelDate, Places: make([]model.Place, 0)})
		}
		if placeID.Valid {
			day := &s.Days[len(s.Days)-1]
			day.Places = append(day.Places, model.Place{
				ID:        placeID.Int64,
				Title:     title.String,
				Time:      visitTime.String,
				Memo:      memo.String,
				Expense:   expense.Int64,
				Latitude:  latitude.Float64,
				Longitude: longitude.Float64,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SchedulePostgres) Exists(ctx context.Context, id int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM schedules WHERE id = $1)`
	var ok bool
	if err := conn(ctx, r.db).QueryRowContext(ctx, q, id).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (r *SchedulePostgres) Update(ctx context.Context, s *model.Schedule) error {
	const qUpdate = `
		UPDATE schedules
		SET title = $2, destination = $3, start_date = $4, end_date = $5, updated_at = now()
		WHERE id = $1
	`
	q := conn(ctx, r.db)
	res, err := q.ExecContext(ctx, qUpdate, s.ID, s.Title, string(s.Destination), s.StartDate, s.EndDate)
	if err != nil {
		return err
	}
	if err := expectAffected(res); err != nil {
		return err
	}

	const qClear = `DELETE FROM schedule_days WHERE schedule_id = $1`
	if _, err := q.ExecContext(ctx, qClear, s.ID); err != nil {
		return err
	}
	days, err := r.insertDays(ctx, s.ID, s.Days)
	if err != nil {
		return err
	}
	s.Days = days
	return nil
}

func (r *SchedulePostgres) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM schedules WHERE id = $1`
	res, err := conn(ctx, r.db).ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *SchedulePostgres) List(ctx context.Context, f repository.ScheduleFilter) ([]repository.ScheduleSummary, error) {
	where, args := scheduleWhere(f)
	q := `
		SELECT s.id, s.user_id, s.title, s.destination, s.start_date, s.end_date, s.created_at, u.name, u.profile_img
		FROM schedules s
		JOIN users u ON u.id = s.user_id` + where + fmt.Sprintf(`
		ORDER BY s.created_at DESC, s.id DESC
		LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, f.Page.Limit, f.Page.Offset)

	rows, err := conn(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]repository.ScheduleSummary, 0)
	for rows.Next() {
		var it repository.ScheduleSummary
		if err := rows.Scan(
			&it.ID, &it.UserID, &it.Title, &it.Destination, &it.StartDate, &it.EndDate, &it.CreatedAt,
			&it.AuthorName, &it.AuthorProfileImg,
		); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *SchedulePostgres) Count(ctx context.Context, f repository.ScheduleFilter) (int64, error) {
	where, args := scheduleWhere(f)
	q := `SELECT COUNT(*) FROM schedules s` + where
	var total int64
	if err := conn(ctx, r.db).QueryRowContext(ctx, q, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// scheduleWhere renders the filter as a WHERE clause over alias s with positional arguments.
func scheduleWhere(f repository.ScheduleFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.FiltersDestination() {
		placeholders := make([]string, 0, len(f.Destinations))
		for _, d := range f.Destinations {
			placeholders = append(placeholders, next(string(d)))
		}
		conds = append(conds, "s.destination IN ("+strings.Join(placeholders, ", ")+")")
	}

	switch {
	case f.MinExpense != nil && f.MaxExpense != nil:
		conds = append(conds, fmt.Sprintf(
			"s.id IN (SELECT schedule_id FROM statistics_schedule_details WHERE total_expense BETWEEN %s AND %s)",
			next(*f.MinExpense), next(*f.MaxExpense)))
	case f.MinExpense != nil:
		conds = append(conds, fmt.Sprintf(
			"s.id IN (SELECT schedule_id FROM statistics_schedule_details WHERE total_expense >= %s)", next(*f.MinExpense)))
	case f.MaxExpense != nil:
		conds = append(conds, fmt.Sprintf(
			"s.id IN (SELECT schedule_id FROM statistics_schedule_details WHERE total_expense <= %s)", next(*f.MaxExpense)))
	}

	if f.Search != "" {
		conds = append(conds, "s.title ILIKE "+next("%"+escapeLike(f.Search)+"%"))
	}

	if len(conds) == 0 {
		return "", args
	}
	return "\n\t\tWHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
