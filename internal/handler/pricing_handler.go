package handler

import (
	"strings"

	"go-quote-pricing/internal/model"
	"go-quote-pricing/internal/service"

	"github.com/gofiber/fiber/v2"
)

type PricingHandler struct {
	service service.PricingService
}

func NewPricingHandler(s service.PricingService) *PricingHandler {
	return &PricingHandler{service: s}
}

// GetComparison handles GET /projects/:id/pricing/:category
func (h *PricingHandler) GetComparison(c *fiber.Ctx) error {
	projectID, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	category := categoryParam(c)

	entries, err := h.service.GetComparison(c.UserContext(), projectID, category)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"project_id": projectID, "category": category, "data": entries})
}

// ReplaceDraftRows handles PUT /projects/:id/pricing/:category/drafts
func (h *PricingHandler) ReplaceDraftRows(c *fiber.Ctx) error {
	projectID, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req service.ReplaceDraftRowsInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	req.ProjectID = projectID
	req.Category = categoryParam(c)
	req.Actor = actorFromCtx(c)

	res, err := h.service.ReplaceDraftRows(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Draft rows saved", "data": res})
}

// PatchGroupOption handles PATCH /projects/:id/pricing/:category/group-option
func (h *PricingHandler) PatchGroupOption(c *fiber.Ctx) error {
	projectID, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req service.PatchGroupOptionInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	req.ProjectID = projectID
	req.Category = categoryParam(c)
	req.Actor = actorFromCtx(c)

	res, err := h.service.PatchGroupOption(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Group option updated", "data": res})
}

// DiscardDrafts handles DELETE /projects/:id/drafts?category=TILES
func (h *PricingHandler) DiscardDrafts(c *fiber.Ctx) error {
	projectID, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	req := service.DiscardDraftsInput{
		ProjectID: projectID,
		Actor:     actorFromCtx(c),
	}
	if category := c.Query("category"); category != "" {
		req.Category = model.Category(strings.ToUpper(category))
	}
	if v := c.QueryInt("expected_version", -1); v >= 0 {
		expected := int64(v)
		req.ExpectedVersion = &expected
	}

	res, err := h.service.DiscardDrafts(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Drafts discarded", "data": res})
}

// CommitProject handles POST /projects/:id/commit. The body is optional.
func (h *PricingHandler) CommitProject(c *fiber.Ctx) error {
	projectID, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req service.CommitProjectInput
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
		}
	}
	req.ProjectID = projectID
	req.Actor = actorFromCtx(c)

	res, err := h.service.CommitProject(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Project committed", "data": res})
}

// GetOffer handles GET /projects/:id/offer/:category
func (h *PricingHandler) GetOffer(c *fiber.Ctx) error {
	projectID, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	offer, err := h.service.GetOffer(c.UserContext(), projectID, categoryParam(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(offer)
}
