package handler

import (
	"go-quote-pricing/internal/model"
	"go-quote-pricing/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProjectHandler struct {
	service service.ProjectService
}

func NewProjectHandler(s service.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: s}
}

func (h *ProjectHandler) CreateProject(c *fiber.Ctx) error {
	var project model.Project
	if err := c.BodyParser(&project); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.CreateProject(c.UserContext(), &project, actorFromCtx(c)); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Project created", "data": project})
}

func (h *ProjectHandler) GetProjects(c *fiber.Ctx) error {
	projects, err := h.service.ListProjects(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(projects)
}

func (h *ProjectHandler) GetProject(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	project, err := h.service.GetProject(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(project)
}

func (h *ProjectHandler) DeleteProject(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.DeleteProject(c.UserContext(), id, actorFromCtx(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Project deleted"})
}
