package handler

import (
	"github.com/gofiber/fiber/v2"

	"weshare/internal/service"
)

func LikeSchedule(svc service.LikeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := currentUser(c)
		if u == nil {
			return unauthorized(c)
		}
		scheduleID, ok := pathID(c, "scheduleId")
		if !ok {
			return invalidID(c, "schedule id")
		}
		res, err := svc.LikeSchedule(c.UserContext(), u.ID, scheduleID)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

func UnlikeSchedule(svc service.LikeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := currentUser(c)
		if u == nil {
			return unauthorized(c)
		}
		scheduleID, ok := pathID(c, "scheduleId")
		if !ok {
			return invalidID(c, "schedule id")
		}
		if err := svc.UnlikeSchedule(c.UserContext(), u.ID, scheduleID); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func LikeComment(svc service.LikeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := currentUser(c)
		if u == nil {
			return unauthorized(c)
		}
		scheduleID, ok := pathID(c, "scheduleId")
		if !ok {
			return invalidID(c, "schedule id")
		}
		commentID, ok := pathID(c, "commentId")
		if !ok {
			return invalidID(c, "comment id")
		}
		res, err := svc.LikeComment(c.UserContext(), u.ID, scheduleID, commentID)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

func UnlikeComment(svc service.LikeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := currentUser(c)
		if u == nil {
			return unauthorized(c)
		}
		scheduleID, ok := pathID(c, "scheduleId")
		if !ok {
			return invalidID(c, "schedule id")
		}
		commentID, ok := pathID(c, "commentId")
		if !ok {
			return invalidID(c, "comment id")
		}
		if err := svc.UnlikeComment(c.UserContext(), u.ID, scheduleID, commentID); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
