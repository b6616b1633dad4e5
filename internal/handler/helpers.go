package handler

import (
	"context"
	"errors"
	"strings"

	"go-quote-pricing/internal/model"
	"go-quote-pricing/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// actorFromCtx reads the caller set by middleware.RequireAuth.
func actorFromCtx(c *fiber.Ctx) service.Actor {
	return service.Actor{ID: getUserID(c), Name: getUserName(c)}
}

func getUserID(c *fiber.Ctx) string {
	userID, ok := c.Locals("user_id").(string)
	if !ok {
		return "system"
	}
	return userID
}

func getUserName(c *fiber.Ctx) string {
	userName, ok := c.Locals("user_name").(string)
	if !ok {
		return "Unknown"
	}
	return userName
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return id, nil
}

// categoryParam accepts the category in any case; validation happens in the service.
func categoryParam(c *fiber.Ctx) model.Category {
	return model.Category(strings.ToUpper(c.Params("category")))
}

// respondError maps service errors onto HTTP status codes.
func respondError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	case errors.Is(err, service.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidArgument):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrVersionConflict), errors.Is(err, service.ErrCommitConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return c.Status(fiber.StatusRequestTimeout).JSON(fiber.Map{"error": "Request cancelled"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
}
