package service

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"weshare/internal/event"
	"weshare/internal/model"
	"weshare/internal/repository"
	repoMocks "weshare/internal/repository/mocks"
)

func twoDayInput(t *testing.T) ScheduleInput {
	t.Helper()
	start, err := model.ParseDate("2024-05-01")
	require.NoError(t, err)
	end := start.AddDays(1)
	return ScheduleInput{
		Title:       "Busan food trip",
		Destination: "busan",
		StartDate:   start,
		EndDate:     end,
		Days: []model.Day{
			{TravelDate: start, Places: []model.Place{{Title: "Jagalchi", Time: "11:00 AM", Expense: 30000, Latitude: 35.09, Longitude: 129.03}}},
			{TravelDate: end, Places: []model.Place{{Title: "Haeundae", Time: "02:30 PM", Expense: 12000, Latitude: 35.15, Longitude: 129.16}}},
		},
	}
}

// recordEvents subscribes a recorder for every event in phase.
func recordEvents(b *event.Bus, phase event.Phase) *[]event.Event {
	var got []event.Event
	b.SubscribeAll(phase, func(_ context.Context, e event.Event) error {
		got = append(got, e)
		return nil
	})
	return &got
}

func TestScheduleService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("stores and publishes", func(t *testing.T) {
		repo := &repoMocks.MockScheduleRepository{}
		bus := event.NewBus(nil)
		events := recordEvents(bus, event.BeforeCommit)

		repo.On("Create", mock.Anything, mock.MatchedBy(func(s *model.Schedule) bool {
			return s.UserID == 3 && s.Destination == model.DestinationBusan && len(s.Days) == 2
		})).Return(func() *model.Schedule {
			in := twoDayInput(t)
			s, _ := model.NewSchedule(3, in.Title, model.DestinationBusan, in.StartDate, in.EndDate, in.Days)
			s.ID = 40
			return s
		}(), nil)

		s, err := NewScheduleService(repo, &repoMocks.MockTransactor{}, bus).Create(ctx, 3, twoDayInput(t))
		require.NoError(t, err)
		assert.Equal(t, int64(40), s.ID)
		assert.Equal(t, []event.Event{event.ScheduleCreated{ScheduleID: 40, UserID: 3, TotalExpense: 42000}}, *events)
	})

	t.Run("unknown destination", func(t *testing.T) {
		in := twoDayInput(t)
		in.Destination = "ATLANTIS"
		_, err := NewScheduleService(&repoMocks.MockScheduleRepository{}, &repoMocks.MockTransactor{}, event.NewBus(nil)).Create(ctx, 3, in)
		assert.ErrorIs(t, err, model.ErrInvalidArgument)
	})

	t.Run("day count mismatch", func(t *testing.T) {
		in := twoDayInput(t)
		in.Days = in.Days[:1]
		_, err := NewScheduleService(&repoMocks.MockScheduleRepository{}, &repoMocks.MockTransactor{}, event.NewBus(nil)).Create(ctx, 3, in)
		assert.ErrorIs(t, err, model.ErrInvalidArgument)
	})

	t.Run("statistics failure rolls back", func(t *testing.T) {
		repo := &repoMocks.MockScheduleRepository{}
		bus := event.NewBus(nil)
		bus.Subscribe(event.NameScheduleCreated, event.BeforeCommit, func(context.Context, event.Event) error {
			return errors.New("stats down")
		})
		repo.On("Create", mock.Anything, mock.Anything).Return(&model.Schedule{ID: 41}, nil)

		_, err := NewScheduleService(repo, &repoMocks.MockTransactor{}, bus).Create(ctx, 3, twoDayInput(t))
		assert.ErrorContains(t, err, "stats down")
	})
}

func TestScheduleService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	owned := func() *model.Schedule {
		in := twoDayInput(t)
		s, err := model.NewSchedule(3, in.Title, model.DestinationBusan, in.StartDate, in.EndDate, in.Days)
		require.NoError(t, err)
		s.ID = 40
		return s
	}

	t.Run("owner updates", func(t *testing.T) {
		repo := &repoMocks.MockScheduleRepository{}
		bus := event.NewBus(nil)
		events := recordEvents(bus, event.AfterCommit)
		repo.On("FindByID", mock.Anything, int64(40)).Return(owned(), nil)
		repo.On("Update", mock.Anything, mock.MatchedBy(func(s *model.Schedule) bool { return s.Title == "Jeju instead" })).Return(nil)

		in := twoDayInput(t)
		in.Title = "Jeju instead"
		in.Destination = "JEJU"
		in.Days[0].Places[0].Expense = 1000

		s, err := NewScheduleService(repo, &repoMocks.MockTransactor{}, bus).Update(ctx, 3, 40, in)
		require.NoError(t, err)
		assert.Equal(t, model.DestinationJeju, s.Destination)
		bus.Wait()
		assert.Equal(t, []event.Event{event.ScheduleUpdated{ScheduleID: 40, TotalExpense: 13000}}, *events)
	})

	t.Run("stranger cannot update", func(t *testing.T) {
		repo := &repoMocks.MockScheduleRepository{}
		repo.On("FindByID", mock.Anything, int64(40)).Return(owned(), nil)

		_, err := NewScheduleService(repo, &repoMocks.MockTransactor{}, event.NewBus(nil)).Update(ctx, 4, 40, twoDayInput(t))
		assert.ErrorIs(t, err, ErrForbidden)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("missing schedule", func(t *testing.T) {
		repo := &repoMocks.MockScheduleRepository{}
		repo.On("FindByID", mock.Anything, int64(99)).Return(nil, sql.ErrNoRows)

		err := NewScheduleService(repo, &repoMocks.MockTransactor{}, event.NewBus(nil)).Delete(ctx, 3, 99)
		assert.ErrorIs(t, err, ErrScheduleNotFound)
	})

	t.Run("owner deletes", func(t *testing.T) {
		repo := &repoMocks.MockScheduleRepository{}
		bus := event.NewBus(nil)
		events := recordEvents(bus, event.BeforeCommit)
		repo.On("FindByID", mock.Anything, int64(40)).Return(owned(), nil)
		repo.On("Delete", mock.Anything, int64(40)).Return(nil)

		require.NoError(t, NewScheduleService(repo, &repoMocks.MockTransactor{}, bus).Delete(ctx, 3, 40))
		assert.Equal(t, []event.Event{event.ScheduleDeleted{ScheduleID: 40}}, *events)
	})
}

func TestScheduleQueryService_Page(t *testing.T) {
	ctx := context.Background()
	rows := []repository.ScheduleSummary{{ID: 2, Title: "b"}, {ID: 1, Title: "a"}}

	t.Run("unfiltered uses the total counter", func(t *testing.T) {
		schedules := &repoMocks.MockScheduleRepository{}
		stats := &repoMocks.MockStatisticsRepository{}
		likes := &repoMocks.MockLikeRepository{}

		schedules.On("List", mock.Anything, repository.ScheduleFilter{Page: repository.PageQuery{Limit: 12, Offset: 0}}).Return(rows, nil)
		stats.On("TotalCount", mock.Anything).Return(int64(25), nil)
		stats.On("DetailsByScheduleIDs", mock.Anything, []int64{2, 1}).Return(map[int64]model.StatisticsScheduleDetails{
			2: {ScheduleID: 2, TotalLikeCount: 4},
			1: model.NewStatisticsScheduleDetails(1),
		}, nil)
		likes.On("LikedScheduleIDs", mock.Anything, int64(7), []int64{2, 1}).Return(map[int64]bool{2: true, 1: false}, nil)

		svc := NewScheduleQueryService(schedules, &repoMocks.MockUserRepository{}, likes, stats, event.NewBus(nil))
		page, err := svc.Page(ctx, SchedulePageQuery{ViewerID: 7})
		require.NoError(t, err)

		assert.Equal(t, int64(25), page.Total)
		assert.Equal(t, int64(3), page.TotalPages)
		assert.Equal(t, 12, page.Size)
		require.Len(t, page.Items, 2)
		assert.True(t, page.Items[0].Liked)
		assert.Equal(t, int64(4), page.Items[0].Statistics.TotalLikeCount)
		assert.False(t, page.Items[1].Liked)
		schedules.AssertNotCalled(t, "Count", mock.Anything, mock.Anything)
	})

	t.Run("filtered counts rows and anonymous viewer likes nothing", func(t *testing.T) {
		schedules := &repoMocks.MockScheduleRepository{}
		stats := &repoMocks.MockStatisticsRepository{}
		likes := &repoMocks.MockLikeRepository{}

		lo, hi := int64(1000), int64(5000)
		want := repository.ScheduleFilter{
			Destinations: []model.Destination{model.DestinationJeju},
			MinExpense:   &lo,
			MaxExpense:   &hi,
			Search:       "beach",
			Page:         repository.PageQuery{Limit: 5, Offset: 10},
		}
		schedules.On("List", mock.Anything, want).Return(rows[:1], nil)
		schedules.On("Count", mock.Anything, want).Return(int64(11), nil)
		stats.On("DetailsByScheduleIDs", mock.Anything, []int64{2}).Return(map[int64]model.StatisticsScheduleDetails{2: {ScheduleID: 2}}, nil)

		svc := NewScheduleQueryService(schedules, &repoMocks.MockUserRepository{}, likes, stats, event.NewBus(nil))
		page, err := svc.Page(ctx, SchedulePageQuery{Destinations: []string{"jeju"}, Expense: "1000-5000", Search: " beach ", Page: 2, Size: 5})
		require.NoError(t, err)

		assert.Equal(t, int64(11), page.Total)
		assert.Equal(t, 2, page.Page)
		assert.False(t, page.Items[0].Liked)
		likes.AssertNotCalled(t, "LikedScheduleIDs", mock.Anything, mock.Anything, mock.Anything)
		stats.AssertNotCalled(t, "TotalCount", mock.Anything)
	})

	t.Run("bad filters", func(t *testing.T) {
		svc := NewScheduleQueryService(nil, nil, nil, nil, event.NewBus(nil))
		for _, q := range []SchedulePageQuery{
			{Expense: "abc"},
			{Expense: "5000-1000"},
			{Expense: "-5-"},
			{Destinations: []string{"MARS"}},
		} {
			_, err := svc.Page(ctx, q)
			assert.ErrorIs(t, err, model.ErrInvalidArgument, "query %+v", q)
		}

		_, err := svc.Page(ctx, SchedulePageQuery{Page: math.MaxInt})
		assert.ErrorIs(t, err, ErrInvalidPage)
	})
}

func TestPageOffset(t *testing.T) {
	tests := []struct {
		name       string
		page, size int
		wantLimit  int
		wantOffset int
		wantErr    bool
	}{
		{name: "defaults", page: 0, size: 0, wantLimit: 12, wantOffset: 0},
		{name: "negative page", page: -3, size: 5, wantLimit: 5, wantOffset: 0},
		{name: "size capped", page: 2, size: 500, wantLimit: 100, wantOffset: 200},
		{name: "largest page", page: math.MaxInt / 12, size: 0, wantLimit: 12, wantOffset: (math.MaxInt / 12) * 12},
		{name: "offset overflows", page: math.MaxInt/12 + 1, size: 0, wantErr: true},
		{name: "max int page", page: math.MaxInt, size: 100, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset, err := pageOffset(tt.page, tt.size, 12)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}

func TestParseExpense(t *testing.T) {
	lo, hi, err := parseExpense("1000-")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), *lo)
	assert.Nil(t, hi)

	lo, hi, err = parseExpense("-2500")
	require.NoError(t, err)
	assert.Nil(t, lo)
	assert.Equal(t, int64(2500), *hi)

	lo, hi, err = parseExpense("")
	require.NoError(t, err)
	assert.Nil(t, lo)
	assert.Nil(t, hi)
}

func TestScheduleQueryService_Detail(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes a view", func(t *testing.T) {
		schedules := &repoMocks.MockScheduleRepository{}
		users := &repoMocks.MockUserRepository{}
		stats := &repoMocks.MockStatisticsRepository{}
		likes := &repoMocks.MockLikeRepository{}
		bus := event.NewBus(nil)
		events := recordEvents(bus, event.AfterCommit)

		schedules.On("FindByID", mock.Anything, int64(40)).Return(&model.Schedule{ID: 40, UserID: 3}, nil)
		users.On("FindByID", mock.Anything, int64(3)).Return(&model.User{ID: 3, Name: "carol", ProfileImg: "img"}, nil)
		stats.On("DetailsByScheduleIDs", mock.Anything, []int64{40}).Return(map[int64]model.StatisticsScheduleDetails{40: {ScheduleID: 40, TotalViewCount: 9}}, nil)
		likes.On("LikedScheduleIDs", mock.Anything, int64(7), []int64{40}).Return(map[int64]bool{40: true}, nil)

		d, err := NewScheduleQueryService(schedules, users, likes, stats, bus).Detail(ctx, 40, 7)
		require.NoError(t, err)
		assert.Equal(t, "carol", d.Author.Name)
		assert.Equal(t, int64(9), d.Statistics.TotalViewCount)
		assert.True(t, d.Liked)

		bus.Wait()
		assert.Equal(t, []event.Event{event.ScheduleViewed{ScheduleID: 40}}, *events)
	})

	t.Run("missing schedule", func(t *testing.T) {
		schedules := &repoMocks.MockScheduleRepository{}
		schedules.On("FindByID", mock.Anything, int64(41)).Return(nil, sql.ErrNoRows)

		_, err := NewScheduleQueryService(schedules, nil, nil, nil, event.NewBus(nil)).Detail(ctx, 41, 0)
		assert.ErrorIs(t, err, ErrScheduleNotFound)
	})
}
