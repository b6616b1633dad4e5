package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ComparisonEntry is the read model for one catalog product: catalog, saved and draft values side by side.
type ComparisonEntry struct {
	ProductID         uuid.UUID       `json:"product_id"`
	Manufacturer      string          `json:"manufacturer"`
	GroupName         string          `json:"group_name"`
	MapperKey         string          `json:"mapper_key"`
	QuantityConverter decimal.Decimal `json:"quantity_converter"`

	CurrentRetailPrice  decimal.Decimal `json:"current_retail_price"`
	CurrentSellingPrice decimal.Decimal `json:"current_selling_price"`

	DraftQuantity          *decimal.Decimal   `json:"draft_quantity"`
	DraftRetailPrice       *decimal.Decimal   `json:"draft_retail_price"`
	DraftPurchasePrice     *decimal.Decimal   `json:"draft_purchase_price"`
	DraftSellingPrice      *decimal.Decimal   `json:"draft_selling_price"`
	DraftMarginPercent     *decimal.Decimal   `json:"draft_margin_percent"`
	DraftDiscountPercent   *decimal.Decimal   `json:"draft_discount_percent"`
	DraftGroupOption       *GroupOption       `json:"draft_group_option"`
	DraftPriceChangeSource *PriceChangeSource `json:"draft_price_change_source"`

	SavedQuantity      *decimal.Decimal `json:"saved_quantity"`
	SavedRetailPrice   *decimal.Decimal `json:"saved_retail_price"`
	SavedPurchasePrice *decimal.Decimal `json:"saved_purchase_price"`
	SavedSellingPrice  *decimal.Decimal `json:"saved_selling_price"`
	SavedGroupOption   *GroupOption     `json:"saved_group_option"`

	CategoryDraftMarginPercent   *decimal.Decimal `json:"category_draft_margin_percent"`
	CategoryDraftDiscountPercent *decimal.Decimal `json:"category_draft_discount_percent"`

	EffectiveGroupOption GroupOption `json:"effective_group_option"`
}

// EffectiveSellingPrice picks draft over saved over catalog. Offer rendering uses it; the
// comparison view itself never collapses the layers.
func (e *ComparisonEntry) EffectiveSellingPrice() decimal.Decimal {
	if e.DraftSellingPrice != nil {
		return *e.DraftSellingPrice
	}
	if e.SavedSellingPrice != nil {
		return *e.SavedSellingPrice
	}
	return e.CurrentSellingPrice
}

func (e *ComparisonEntry) EffectiveQuantity() decimal.Decimal {
	if e.DraftQuantity != nil {
		return *e.DraftQuantity
	}
	if e.SavedQuantity != nil {
		return *e.SavedQuantity
	}
	return decimal.Zero
}

// HasDraft reports whether any draft field is set for the product.
func (e *ComparisonEntry) HasDraft() bool {
	return e.DraftQuantity != nil || e.DraftRetailPrice != nil || e.DraftPurchasePrice != nil ||
		e.DraftSellingPrice != nil || e.DraftMarginPercent != nil || e.DraftDiscountPercent != nil ||
		e.DraftGroupOption != nil || e.DraftPriceChangeSource != nil ||
		e.CategoryDraftMarginPercent != nil || e.CategoryDraftDiscountPercent != nil
}
