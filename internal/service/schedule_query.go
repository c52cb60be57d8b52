package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"weshare/internal/event"
	"weshare/internal/model"
	"weshare/internal/repository"
)

const defaultSchedulePageSize = 12

// SchedulePageQuery holds the browse filters. ViewerID is 0 for anonymous visitors.
// Expense is "min-max" where either bound may be omitted, e.g. "1000-" or "-50000".
type SchedulePageQuery struct {
	ViewerID     int64
	Destinations []string
	Expense      string
	Search       string
	Page         int
	Size         int
}

// ScheduleItem is one row of the browse page.
type ScheduleItem struct {
	repository.ScheduleSummary
	Statistics model.StatisticsScheduleDetails `json:"statistics"`
	Liked      bool                            `json:"liked"`
}

type SchedulePage struct {
	Items      []ScheduleItem `json:"data"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Size       int            `json:"size"`
	TotalPages int64          `json:"total_pages"`
}

// Author is the public part of a user.
type Author struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	ProfileImg string `json:"profile_img"`
}

type ScheduleDetail struct {
	*model.Schedule
	Author     Author                          `json:"author"`
	Statistics model.StatisticsScheduleDetails `json:"statistics"`
	Liked      bool                            `json:"liked"`
}

// ScheduleQueryService serves the read side of schedules.
type ScheduleQueryService interface {
	Page(ctx context.Context, q SchedulePageQuery) (*SchedulePage, error)
	// Detail loads a schedule and records a view.
	Detail(ctx context.Context, scheduleID, viewerID int64) (*ScheduleDetail, error)
}

type scheduleQueryService struct {
	schedules repository.ScheduleRepository
	users     repository.UserRepository
	likes     repository.LikeRepository
	stats     repository.StatisticsRepository
	bus       *event.Bus
}

func NewScheduleQueryService(
	schedules repository.ScheduleRepository,
	users repository.UserRepository,
	likes repository.LikeRepository,
	stats repository.StatisticsRepository,
	bus *event.Bus,
) ScheduleQueryService {
	return &scheduleQueryService{schedules: schedules, users: users, likes: likes, stats: stats, bus: bus}
}

func (s *scheduleQueryService) Page(ctx context.Context, q SchedulePageQuery) (*SchedulePage, error) {
	f, err := buildFilter(q)
	if err != nil {
		return nil, err
	}

	rows, err := s.schedules.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	total, err := s.total(ctx, f)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	stats, err := s.stats.DetailsByScheduleIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load statistics: %w", err)
	}
	liked, err := s.likedBy(ctx, q.ViewerID, ids)
	if err != nil {
		return nil, err
	}

	items := make([]ScheduleItem, len(rows))
	for i, r := range rows {
		items[i] = ScheduleItem{ScheduleSummary: r, Statistics: stats[r.ID], Liked: liked[r.ID]}
	}
	size := f.Page.Limit
	return &SchedulePage{
		Items:      items,
		Total:      total,
		Page:       f.Page.Offset / size,
		Size:       size,
		TotalPages: (total + int64(size) - 1) / int64(size),
	}, nil
}

// total reads the maintained counter for unfiltered listings and counts rows otherwise.
func (s *scheduleQueryService) total(ctx context.Context, f repository.ScheduleFilter) (int64, error) {
	if !f.HasCondition() {
		n, err := s.stats.TotalCount(ctx)
		if err != nil {
			return 0, fmt.Errorf("schedule total count: %w", err)
		}
		return n, nil
	}
	n, err := s.schedules.Count(ctx, f)
	if err != nil {
		return 0, fmt.Errorf("count schedules: %w", err)
	}
	return n, nil
}

func (s *scheduleQueryService) likedBy(ctx context.Context, viewerID int64, ids []int64) (map[int64]bool, error) {
	if viewerID == 0 || len(ids) == 0 {
		return map[int64]bool{}, nil
	}
	liked, err := s.likes.LikedScheduleIDs(ctx, viewerID, ids)
	if err != nil {
		return nil, fmt.Errorf("load likes: %w", err)
	}
	return liked, nil
}

func buildFilter(q SchedulePageQuery) (repository.ScheduleFilter, error) {
	var (
		f   repository.ScheduleFilter
		err error
	)
	for _, name := range q.Destinations {
		if strings.TrimSpace(name) == "" {
			continue
		}
		d, err := model.FindDestinationByName(name)
		if err != nil {
			return f, err
		}
		f.Destinations = append(f.Destinations, d)
	}
	f.MinExpense, f.MaxExpense, err = parseExpense(q.Expense)
	if err != nil {
		return f, err
	}
	f.Search = strings.TrimSpace(q.Search)
	f.Page.Limit, f.Page.Offset, err = pageOffset(q.Page, q.Size, defaultSchedulePageSize)
	return f, err
}

// parseExpense reads "min-max"; an empty side leaves that bound open.
func parseExpense(raw string) (lower, upper *int64, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil, nil
	}
	lo, hi, ok := strings.Cut(raw, "-")
	if !ok {
		return nil, nil, invalidArgument("expense %q must be formatted as min-max", raw)
	}
	if lower, err = parseBound(lo); err != nil {
		return nil, nil, err
	}
	if upper, err = parseBound(hi); err != nil {
		return nil, nil, err
	}
	if lower != nil && upper != nil && *lower > *upper {
		return nil, nil, invalidArgument("expense lower bound %d exceeds upper bound %d", *lower, *upper)
	}
	return lower, upper, nil
}

func parseBound(s string) (*int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return nil, invalidArgument("expense bound %q must be a non-negative integer", s)
	}
	return &v, nil
}

func (s *scheduleQueryService) Detail(ctx context.Context, scheduleID, viewerID int64) (*ScheduleDetail, error) {
	sched, err := s.schedules.FindByID(ctx, scheduleID)
	if err != nil {
		return nil, notFound(err, ErrScheduleNotFound)
	}
	author, err := s.users.FindByID(ctx, sched.UserID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	stats, err := s.stats.DetailsByScheduleIDs(ctx, []int64{scheduleID})
	if err != nil {
		return nil, fmt.Errorf("load statistics: %w", err)
	}
	liked, err := s.likedBy(ctx, viewerID, []int64{scheduleID})
	if err != nil {
		return nil, err
	}

	if err := s.bus.Publish(ctx, event.ScheduleViewed{ScheduleID: scheduleID}); err != nil {
		return nil, err
	}
	return &ScheduleDetail{
		Schedule:   sched,
		Author:     Author{ID: author.ID, Name: author.Name, ProfileImg: author.ProfileImg},
		Statistics: stats[scheduleID],
		Liked:      liked[scheduleID],
	}, nil
}
