package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DraftRow is the uncommitted edit buffer for one product of a project category.
// Every field apart from the key is independently nullable; nil means "not set in the draft".
type DraftRow struct {
	ProjectID uuid.UUID `gorm:"type:uuid;primaryKey" json:"project_id"`
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey" json:"product_id"`
	Category  Category  `gorm:"type:varchar(32);primaryKey" json:"category"`

	Quantity        *decimal.Decimal `gorm:"type:decimal(12,4)" json:"quantity"`
	RetailPrice     *decimal.Decimal `gorm:"type:decimal(12,4)" json:"retail_price"`
	PurchasePrice   *decimal.Decimal `gorm:"type:decimal(12,4)" json:"purchase_price"`
	SellingPrice    *decimal.Decimal `gorm:"type:decimal(12,4)" json:"selling_price"`
	MarginPercent   *decimal.Decimal `gorm:"type:decimal(7,3)" json:"margin_percent"`
	DiscountPercent *decimal.Decimal `gorm:"type:decimal(7,3)" json:"discount_percent"`

	CategoryMarginPercent   *decimal.Decimal `gorm:"type:decimal(7,3)" json:"category_margin_percent"`
	CategoryDiscountPercent *decimal.Decimal `gorm:"type:decimal(7,3)" json:"category_discount_percent"`

	GroupOption       *GroupOption       `gorm:"type:varchar(16)" json:"group_option"`
	PriceChangeSource *PriceChangeSource `gorm:"type:varchar(16)" json:"price_change_source"`

	UpdatedAt time.Time `json:"updated_at"`
}

func (DraftRow) TableName() string {
	return "pricing_drafts"
}

// HasPriceFields reports whether the row carries anything the committed price store keeps.
func (d DraftRow) HasPriceFields() bool {
	return d.Quantity != nil || d.RetailPrice != nil || d.PurchasePrice != nil || d.SellingPrice != nil
}

// DraftReplaceColumns lists every non-key column; a replace writes all of them so an omitted
// field ends up NULL.
var DraftReplaceColumns = []string{
	"quantity",
	"retail_price",
	"purchase_price",
	"selling_price",
	"margin_percent",
	"discount_percent",
	"category_margin_percent",
	"category_discount_percent",
	"group_option",
	"price_change_source",
	"updated_at",
}

// Column limits of decimal(12,4) amounts and decimal(7,3) percentages. Values are rounded to
// the column scale before comparing, the same way Postgres stores them.
var (
	maxAmount  = decimal.New(1, 8)
	maxPercent = decimal.New(1, 4)
)

// AmountFits reports whether d can be stored in a quantity or price column.
func AmountFits(d decimal.Decimal) bool {
	return d.Round(4).Abs().LessThan(maxAmount)
}

// PercentFits reports whether d can be stored in a margin or discount column.
func PercentFits(d decimal.Decimal) bool {
	return d.Round(3).Abs().LessThan(maxPercent)
}
