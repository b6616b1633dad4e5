package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CommittedPrice holds the last saved price/quantity overrides of a product in a project.
// Only the commit path writes it.
type CommittedPrice struct {
	ProjectID uuid.UUID `gorm:"type:uuid;primaryKey" json:"project_id"`
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey" json:"product_id"`
	Category  Category  `gorm:"type:varchar(32);primaryKey" json:"category"`

	Quantity      *decimal.Decimal `gorm:"type:decimal(12,4)" json:"quantity"`
	RetailPrice   *decimal.Decimal `gorm:"type:decimal(12,4)" json:"retail_price"`
	PurchasePrice *decimal.Decimal `gorm:"type:decimal(12,4)" json:"purchase_price"`
	SellingPrice  *decimal.Decimal `gorm:"type:decimal(12,4)" json:"selling_price"`

	UpdatedAt time.Time `json:"updated_at"`
}

func (CommittedPrice) TableName() string {
	return "committed_prices"
}

// CommittedGroupOption is kept apart from CommittedPrice so tagging never rewrites prices.
type CommittedGroupOption struct {
	ProjectID uuid.UUID `gorm:"type:uuid;primaryKey" json:"project_id"`
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey" json:"product_id"`
	Category  Category  `gorm:"type:varchar(32);primaryKey" json:"category"`

	GroupOption GroupOption `gorm:"type:varchar(16);not null" json:"group_option"`

	UpdatedAt time.Time `json:"updated_at"`
}

func (CommittedGroupOption) TableName() string {
	return "committed_group_options"
}

// CommittedPriceFromDraft copies the draft price fields and returns the columns that were set.
// Columns left nil in the draft are not part of the upsert, so the previous committed value stays.
func CommittedPriceFromDraft(d *DraftRow, now time.Time) (CommittedPrice, []string) {
	row := CommittedPrice{
		ProjectID: d.ProjectID,
		ProductID: d.ProductID,
		Category:  d.Category,
		UpdatedAt: now,
	}
	var cols []string
	if d.Quantity != nil {
		row.Quantity = d.Quantity
		cols = append(cols, "quantity")
	}
	if d.RetailPrice != nil {
		row.RetailPrice = d.RetailPrice
		cols = append(cols, "retail_price")
	}
	if d.PurchasePrice != nil {
		row.PurchasePrice = d.PurchasePrice
		cols = append(cols, "purchase_price")
	}
	if d.SellingPrice != nil {
		row.SellingPrice = d.SellingPrice
		cols = append(cols, "selling_price")
	}
	if len(cols) > 0 {
		cols = append(cols, "updated_at")
	}
	return row, cols
}
