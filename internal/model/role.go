package model

// Role bundles privileges; tokens are minted per role by cmd/issue-token.
type Role struct {
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Privileges  []string `json:"privileges"`
}

// Role codes as constants
const (
	RoleMasterAdmin = "MASTER_ADMIN"
	RoleEstimator   = "ESTIMATOR"
	RoleViewer      = "VIEWER"
)

// DefaultRoles defines the default roles in the system
var DefaultRoles = []Role{
	{
		Code:        RoleMasterAdmin,
		Name:        "Master Administrator",
		Description: "Full access including catalog seeding and project deletion",
		Privileges:  privilegeCodes(DefaultPrivileges),
	},
	{
		Code:        RoleEstimator,
		Name:        "Estimator",
		Description: "Edits and commits project pricing",
		Privileges: []string{
			PrivilegeProjectView, PrivilegeProjectCreate, PrivilegeCatalogView,
			PrivilegePricingView, PrivilegePricingEdit, PrivilegePricingCommit,
		},
	},
	{
		Code:        RoleViewer,
		Name:        "Viewer",
		Description: "Read-only access to projects and offers",
		Privileges:  []string{PrivilegeProjectView, PrivilegeCatalogView, PrivilegePricingView},
	},
}

// FindRole returns the default role with the given code.
func FindRole(code string) (Role, bool) {
	for _, r := range DefaultRoles {
		if r.Code == code {
			return r, true
		}
	}
	return Role{}, false
}

func privilegeCodes(privileges []Privilege) []string {
	codes := make([]string, len(privileges))
	for i, p := range privileges {
		codes[i] = p.Code
	}
	return codes
}
