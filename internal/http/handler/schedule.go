package handler

import (
	"github.com/gofiber/fiber/v2"

	"weshare/internal/service"
)

func CreateSchedule(svc service.ScheduleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := currentUser(c)
		if u == nil {
			return unauthorized(c)
		}
		var in service.ScheduleInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		s, err := svc.Create(c.UserContext(), u.ID, in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(s)
	}
}

// ListSchedules serves the browse page.
// Query: destination (repeatable or comma separated), expense ("min-max"), search, page (0-based), size.
func ListSchedules(svc service.ScheduleQueryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, ok := queryInt(c, "page")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PAGE", "invalid page")
		}
		size, ok := queryInt(c, "size")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_SIZE", "invalid size")
		}

		res, err := svc.Page(c.UserContext(), service.SchedulePageQuery{
			ViewerID:     viewerID(c),
			Destinations: queryList(c, "destination"),
			Expense:      c.Query("expense"),
			Search:       c.Query("search"),
			Page:         page,
			Size:         size,
		})
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	}
}

func GetSchedule(svc service.ScheduleQueryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "scheduleId")
		if !ok {
			return invalidID(c, "schedule id")
		}
		res, err := svc.Detail(c.UserContext(), id, viewerID(c))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	}
}

func UpdateSchedule(svc service.ScheduleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := currentUser(c)
		if u == nil {
			return unauthorized(c)
		}
		id, ok := pathID(c, "scheduleId")
		if !ok {
			return invalidID(c, "schedule id")
		}
		var in service.ScheduleInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		s, err := svc.Update(c.UserContext(), u.ID, id, in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(s)
	}
}

func DeleteSchedule(svc service.ScheduleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := currentUser(c)
		if u == nil {
			return unauthorized(c)
		}
		id, ok := pathID(c, "scheduleId")
		if !ok {
			return invalidID(c, "schedule id")
		}
		if err := svc.Delete(c.UserContext(), u.ID, id); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
