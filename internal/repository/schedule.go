package repository

import (
	"context"
	"slices"
	"time"

	"weshare/internal/model"
)

// ScheduleFilter narrows the schedule listing. Zero values disable a criterion.
type ScheduleFilter struct {
	Destinations []model.Destination
	MinExpense   *int64
	MaxExpense   *int64
	Search       string
	Page         PageQuery
}

// FiltersDestination is false when no destination is given or EMPTY is among them.
func (f ScheduleFilter) FiltersDestination() bool {
	return len(f.Destinations) > 0 && !slices.Contains(f.Destinations, model.DestinationEmpty)
}

// HasCondition reports whether any criterion is set.
func (f ScheduleFilter) HasCondition() bool {
	return f.FiltersDestination() || f.MinExpense != nil || f.MaxExpense != nil || f.Search != ""
}

// ScheduleSummary is a listing row: the schedule header joined with its author.
type ScheduleSummary struct {
	ID               int64             `json:"id"`
	UserID           int64             `json:"user_id"`
	Title            string            `json:"title"`
	Destination      model.Destination `json:"destination"`
	StartDate        model.Date        `json:"start_date"`
	EndDate          model.Date        `json:"end_date"`
	CreatedAt        time.Time         `json:"created_at"`
	AuthorName       string            `json:"author_name"`
	AuthorProfileImg string            `json:"author_profile_img"`
}

type ScheduleRepository interface {
	// Create stores the schedule with its days and places and returns it with generated IDs.
	Create(ctx context.Context, s *model.Schedule) (*model.Schedule, error)
	// FindByID loads the schedule with days and places.
	FindByID(ctx context.Context, id int64) (*model.Schedule, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// Update rewrites the header and replaces every day and place.
	Update(ctx context.Context, s *model.Schedule) error
	Delete(ctx context.Context, id int64) error
	// List returns one page of summaries, newest first.
	List(ctx context.Context, f ScheduleFilter) ([]ScheduleSummary, error)
	// Count returns the number of schedules matching f.
	Count(ctx context.Context, f ScheduleFilter) (int64, error)
}
