package handler

import (
	"github.com/gofiber/fiber/v2"

	"weshare/internal/service"
)

func Me(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := currentUser(c)
		if u == nil {
			return unauthorized(c)
		}
		me, err := svc.Me(c.UserContext(), u.ID)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(me)
	}
}

// UploadProfileImage accepts multipart/form-data with the image in field "file".
func UploadProfileImage(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := currentUser(c)
		if u == nil {
			return unauthorized(c)
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		img, err := svc.UploadProfileImage(c.UserContext(), u.ID, f, fh.Filename, ct, fh.Size)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(img)
	}
}
