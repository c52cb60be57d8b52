package handler

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"weshare/internal/event"
	"weshare/internal/model"
	"weshare/internal/repository"
	"weshare/internal/service"
	serviceMocks "weshare/internal/service/mocks"
)

const scheduleBody = `{
	"title": "Jeju weekend",
	"destination": "JEJU",
	"start_date": "2024-05-01",
	"end_date": "2024-05-01",
	"day_detail": [{"travel_date": "2024-05-01", "places": [{"title": "Seongsan", "time": "09:30 AM", "expense": 5000, "latitude": 33.45, "longitude": 126.94}]}]
}`

func TestCreateSchedule(t *testing.T) {
	mockSvc := new(serviceMocks.MockScheduleService)
	app := fiber.New()
	app.Post("/schedule", withUser(&model.User{ID: 1}), CreateSchedule(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, int64(1), mock.MatchedBy(func(in service.ScheduleInput) bool {
			return in.Title == "Jeju weekend" && in.Destination == "JEJU" &&
				len(in.Days) == 1 && in.Days[0].Places[0].Expense == 5000 &&
				in.StartDate.String() == "2024-05-01"
		})).Return(&model.Schedule{ID: 10, UserID: 1, Title: "Jeju weekend"}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/schedule", scheduleBody))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var s model.Schedule
		json.NewDecoder(resp.Body).Decode(&s)
		assert.Equal(t, int64(10), s.ID)
	})

	t.Run("invariant violation", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, int64(1), mock.Anything).Return(nil, model.ErrInvalidArgument).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/schedule", scheduleBody))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ARGUMENT", decodeError(t, resp).Error.Code)
	})

	t.Run("malformed date", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/schedule", `{"start_date":"05/01/2024"}`))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("anonymous", func(t *testing.T) {
		anon := fiber.New()
		anon.Post("/schedule", CreateSchedule(mockSvc))

		resp, _ := anon.Test(jsonRequest(http.MethodPost, "/schedule", scheduleBody))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	mockSvc.AssertExpectations(t)
}

func TestListSchedules(t *testing.T) {
	mockSvc := new(serviceMocks.MockScheduleQueryService)
	app := fiber.New()
	app.Get("/schedules", withUser(&model.User{ID: 7}), ListSchedules(mockSvc))

	t.Run("filters", func(t *testing.T) {
		want := service.SchedulePageQuery{
			ViewerID:     7,
			Destinations: []string{"SEOUL", "JEJU", "BUSAN"},
			Expense:      "1000-50000",
			Search:       "trip",
			Page:         2,
			Size:         6,
		}
		page := &service.SchedulePage{
			Items: []service.ScheduleItem{{ScheduleSummary: repository.ScheduleSummary{ID: 1, Title: "trip"}, Liked: true}},
			Total: 13, Page: 2, Size: 6, TotalPages: 3,
		}
		mockSvc.On("Page", mock.Anything, want).Return(page, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet,
			"/schedules?destination=SEOUL&destination=JEJU,BUSAN&expense=1000-50000&search=trip&page=2&size=6", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var got map[string]any
		json.NewDecoder(resp.Body).Decode(&got)
		assert.Equal(t, float64(13), got["total"])
		assert.Len(t, got["data"], 1)
	})

	t.Run("invalid page", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/schedules?page=abc", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_PAGE", decodeError(t, resp).Error.Code)
	})

	t.Run("bad expense", func(t *testing.T) {
		mockSvc.On("Page", mock.Anything, mock.Anything).Return(nil, model.ErrInvalidArgument).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/schedules?expense=lots", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	mockSvc.AssertExpectations(t)
}

func TestListSchedules_PageOutOfRange(t *testing.T) {
	svc := service.NewScheduleQueryService(nil, nil, nil, nil, event.NewBus(nil))
	app := fiber.New()
	app.Get("/schedules", ListSchedules(svc))

	for _, q := range []string{
		"page=" + strconv.Itoa(math.MaxInt),
		"page=" + strconv.Itoa(math.MaxInt/12+1),
		"page=" + strconv.Itoa(math.MaxInt/100+1) + "&size=100",
	} {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/schedules?"+q, nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
		assert.Equal(t, "INVALID_PAGE", decodeError(t, resp).Error.Code, q)
	}
}

func TestGetSchedule(t *testing.T) {
	mockSvc := new(serviceMocks.MockScheduleQueryService)
	app := fiber.New()
	app.Get("/schedules/:scheduleId", GetSchedule(mockSvc))

	t.Run("anonymous viewer", func(t *testing.T) {
		detail := &service.ScheduleDetail{
			Schedule: &model.Schedule{ID: 4, Title: "Busan"},
			Author:   service.Author{ID: 2, Name: "author"},
		}
		mockSvc.On("Detail", mock.Anything, int64(4), int64(0)).Return(detail, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/schedules/4", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var got map[string]any
		json.NewDecoder(resp.Body).Decode(&got)
		assert.Equal(t, "Busan", got["title"])
		assert.Equal(t, false, got["liked"])
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("Detail", mock.Anything, int64(99), int64(0)).Return(nil, service.ErrScheduleNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/schedules/99", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "SCHEDULE_NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/schedules/abc", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", decodeError(t, resp).Error.Code)
	})

	mockSvc.AssertExpectations(t)
}

func TestUpdateAndDeleteSchedule(t *testing.T) {
	mockSvc := new(serviceMocks.MockScheduleService)
	app := fiber.New()
	app.Use(withUser(&model.User{ID: 2}))
	app.Put("/schedules/:scheduleId", UpdateSchedule(mockSvc))
	app.Delete("/schedules/:scheduleId", DeleteSchedule(mockSvc))

	t.Run("update by non-owner", func(t *testing.T) {
		mockSvc.On("Update", mock.Anything, int64(2), int64(10), mock.Anything).Return(nil, service.ErrForbidden).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPut, "/schedules/10", scheduleBody))

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "FORBIDDEN", decodeError(t, resp).Error.Code)
	})

	t.Run("update", func(t *testing.T) {
		mockSvc.On("Update", mock.Anything, int64(2), int64(11), mock.Anything).
			Return(&model.Schedule{ID: 11, Title: "Jeju weekend"}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPut, "/schedules/11", scheduleBody))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("delete", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, int64(2), int64(11)).Return(nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/schedules/11", nil))
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("delete missing", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, int64(2), int64(12)).Return(service.ErrScheduleNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/schedules/12", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	mockSvc.AssertExpectations(t)
}
