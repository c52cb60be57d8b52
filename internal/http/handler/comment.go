package handler

import (
	"github.com/gofiber/fiber/v2"

	"weshare/internal/service"
)

type commentRequest struct {
	Content         string `json:"content"`
	ParentCommentID *int64 `json:"parent_comment_id"`
}

func ListComments(svc service.CommentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scheduleID, ok := pathID(c, "scheduleId")
		if !ok {
			return invalidID(c, "schedule id")
		}
		page, ok := queryInt(c, "page")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PAGE", "invalid page")
		}
		size, ok := queryInt(c, "size")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_SIZE", "invalid size")
		}
		res, err := svc.List(c.UserContext(), scheduleID, page, size)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	}
}

// CreateComment adds a root comment, or a reply when parent_comment_id is set.
func CreateComment(svc service.CommentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := currentUser(c)
		if u == nil {
			return unauthorized(c)
		}
		scheduleID, ok := pathID(c, "scheduleId")
		if !ok {
			return invalidID(c, "schedule id")
		}
		var req commentRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		cm, err := svc.Create(c.UserContext(), u.ID, scheduleID, req.Content, req.ParentCommentID)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(cm)
	}
}

func ListReplies(svc service.CommentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scheduleID, ok := pathID(c, "scheduleId")
		if !ok {
			return invalidID(c, "schedule id")
		}
		commentID, ok := pathID(c, "commentId")
		if !ok {
			return invalidID(c, "comment id")
		}
		res, err := svc.Replies(c.UserContext(), scheduleID, commentID)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"data": res})
	}
}

func UpdateComment(svc service.CommentService) fiber.Handler {
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
		var req commentRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		cm, err := svc.Update(c.UserContext(), u.ID, scheduleID, commentID, req.Content)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(cm)
	}
}

func DeleteComment(svc service.CommentService) fiber.Handler {
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
		if err := svc.Delete(c.UserContext(), u.ID, scheduleID, commentID); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
