package model

// Privilege codes carried in access tokens and checked by middleware.RequirePrivilege.
const (
	PrivilegeProjectView   = "project:view"
	PrivilegeProjectCreate = "project:create"
	PrivilegeProjectDelete = "project:delete"
	PrivilegeCatalogView   = "catalog:view"
	PrivilegeCatalogCreate = "catalog:create"
	PrivilegePricingView   = "pricing:view"
	PrivilegePricingEdit   = "pricing:edit"
	PrivilegePricingCommit = "pricing:commit"
)

// Privilege represents a permission that can be granted to a role
type Privilege struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	{Code: PrivilegeProjectView, Name: "View Project"},
	{Code: PrivilegeProjectCreate, Name: "Create Project"},
	{Code: PrivilegeProjectDelete, Name: "Delete Project"},
	{Code: PrivilegeCatalogView, Name: "View Catalog"},
	{Code: PrivilegeCatalogCreate, Name: "Create Catalog Product"},
	{Code: PrivilegePricingView, Name: "View Pricing"},
	{Code: PrivilegePricingEdit, Name: "Edit Draft Pricing"},
	{Code: PrivilegePricingCommit, Name: "Commit Project Pricing"},
}
