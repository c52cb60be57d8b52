package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"weshare/internal/model"
	"weshare/internal/service"
	serviceMocks "weshare/internal/service/mocks"
)

func imageForm(t *testing.T, filename string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(h)
	assert.NoError(t, err)
	part.Write([]byte("\x89PNG"))
	writer.Close()
	return body, writer.FormDataContentType()
}

func TestMe(t *testing.T) {
	mockSvc := new(serviceMocks.MockUserService)

	t.Run("anonymous", func(t *testing.T) {
		app := fiber.New()
		app.Get("/me", Me(mockSvc))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "UNAUTHORIZED", decodeError(t, resp).Error.Code)
	})

	t.Run("success", func(t *testing.T) {
		app := fiber.New()
		app.Get("/me", withUser(&model.User{ID: 5}), Me(mockSvc))
		mockSvc.On("Me", mock.Anything, int64(5)).
			Return(&model.User{ID: 5, Name: "traveler", Password: "hash"}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]any
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "traveler", body["name"])
		assert.NotContains(t, body, "password")
	})

	mockSvc.AssertExpectations(t)
}

func TestUploadProfileImage_NoObjectStorage(t *testing.T) {
	app := fiber.New()
	app.Post("/me/profile-image", withUser(&model.User{ID: 5}), UploadProfileImage(service.NewUserService(nil, nil)))

	body, ct := imageForm(t, "me.png")
	req := httptest.NewRequest(http.MethodPost, "/me/profile-image", body)
	req.Header.Set("Content-Type", ct)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "STORAGE_UNAVAILABLE", decodeError(t, resp).Error.Code)
}

func TestUploadProfileImage(t *testing.T) {
	mockSvc := new(serviceMocks.MockUserService)
	app := fiber.New()
	app.Post("/me/profile-image", withUser(&model.User{ID: 5}), UploadProfileImage(mockSvc))

	t.Run("success", func(t *testing.T) {
		body, ct := imageForm(t, "me.png")
		mockSvc.On("UploadProfileImage", mock.Anything, int64(5), mock.Anything, "me.png", "image/png", int64(4)).
			Return(&service.ProfileImage{Key: "profiles/abc.png", URL: "http://minio/profiles/abc.png?sig"}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/me/profile-image", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var img service.ProfileImage
		json.NewDecoder(resp.Body).Decode(&img)
		assert.Equal(t, "profiles/abc.png", img.Key)
	})

	t.Run("no file", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/me/profile-image", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "FILE_REQUIRED", decodeError(t, resp).Error.Code)
	})

	t.Run("not an image", func(t *testing.T) {
		body, ct := imageForm(t, "notes.txt")
		mockSvc.On("UploadProfileImage", mock.Anything, int64(5), mock.Anything, "notes.txt", mock.Anything, mock.Anything).
			Return(nil, model.ErrInvalidArgument).Once()

		req := httptest.NewRequest(http.MethodPost, "/me/profile-image", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ARGUMENT", decodeError(t, resp).Error.Code)
	})

	mockSvc.AssertExpectations(t)
}
