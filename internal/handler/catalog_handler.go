package handler

import (
	"go-quote-pricing/internal/model"
	"go-quote-pricing/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	service service.CatalogService
}

func NewCatalogHandler(s service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: s}
}

func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var product model.CatalogProduct
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.CreateProduct(c.UserContext(), &product, actorFromCtx(c)); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *CatalogHandler) GetByCategory(c *fiber.Ctx) error {
	products, err := h.service.ListByCategory(c.UserContext(), categoryParam(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}
