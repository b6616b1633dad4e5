package handler

import (
	"go-quote-pricing/internal/model"

	"github.com/gofiber/fiber/v2"
)

// GetRoles lists the roles tokens can be issued for.
func GetRoles(c *fiber.Ctx) error {
	return c.JSON(model.DefaultRoles)
}

func GetPrivileges(c *fiber.Ctx) error {
	return c.JSON(model.DefaultPrivileges)
}

// GetMe echoes the caller as seen by the auth middleware.
func GetMe(c *fiber.Ctx) error {
	privileges, _ := c.Locals("user_privileges").([]string)
	return c.JSON(fiber.Map{
		"id":         getUserID(c),
		"name":       getUserName(c),
		"privileges": privileges,
	})
}
