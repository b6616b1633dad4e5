package handler

import (
	"go-quote-pricing/internal/middleware"
	"go-quote-pricing/internal/model"
	"go-quote-pricing/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Projects *ProjectHandler
	Catalog  *CatalogHandler
	Pricing  *PricingHandler
}

// RegisterRoutes mounts the authenticated API on router (normally /api/v1).
func RegisterRoutes(router fiber.Router, h Handlers, signer *jwt.Signer) {
	protected := router.Group("", middleware.RequireAuth(signer))

	protected.Get("/me", GetMe)
	protected.Get("/roles", GetRoles)
	protected.Get("/privileges", GetPrivileges)

	// Projects
	protected.Get("/projects", middleware.RequirePrivilege(model.PrivilegeProjectView), h.Projects.GetProjects)
	protected.Post("/projects", middleware.RequirePrivilege(model.PrivilegeProjectCreate), h.Projects.CreateProject)
	protected.Get("/projects/:id", middleware.RequirePrivilege(model.PrivilegeProjectView), h.Projects.GetProject)
	protected.Delete("/projects/:id", middleware.RequirePrivilege(model.PrivilegeProjectDelete), h.Projects.DeleteProject)

	// Catalog
	protected.Get("/catalog/:category", middleware.RequirePrivilege(model.PrivilegeCatalogView), h.Catalog.GetByCategory)
	protected.Post("/catalog", middleware.RequirePrivilege(model.PrivilegeCatalogCreate), h.Catalog.CreateProduct)

	// Pricing overlay
	protected.Get("/projects/:id/pricing/:category", middleware.RequirePrivilege(model.PrivilegePricingView), h.Pricing.GetComparison)
	protected.Put("/projects/:id/pricing/:category/drafts", middleware.RequirePrivilege(model.PrivilegePricingEdit), h.Pricing.ReplaceDraftRows)
	protected.Patch("/projects/:id/pricing/:category/group-option", middleware.RequirePrivilege(model.PrivilegePricingEdit), h.Pricing.PatchGroupOption)
	protected.Delete("/projects/:id/drafts", middleware.RequireAnyPrivilege(model.PrivilegePricingEdit, model.PrivilegePricingCommit), h.Pricing.DiscardDrafts)
	protected.Post("/projects/:id/commit", middleware.RequirePrivilege(model.PrivilegePricingCommit), h.Pricing.CommitProject)
	protected.Get("/projects/:id/offer/:category", middleware.RequirePrivilege(model.PrivilegePricingView), h.Pricing.GetOffer)
}
