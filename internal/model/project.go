package model

// Project is the identity every draft and committed overlay row hangs off.
type Project struct {
	BaseModel
	Name         string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	CustomerName string `gorm:"type:varchar(255)" json:"customer_name"`
	// DraftVersion increases on every draft mutation and commit; clients may echo it back
	// as expected_version to detect a stale workspace.
	DraftVersion int64 `gorm:"not null;default:0" json:"draft_version"`
}
