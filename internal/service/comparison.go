package service

import (
	"go-quote-pricing/internal/model"

	"github.com/google/uuid"
)

// BuildComparison merges the three pricing layers into one entry per catalog product.
// It has no side effects; overlay rows without a matching catalog product are ignored,
// so the result set is always exactly the catalog slice passed in.
func BuildComparison(
	catalog []model.CatalogProduct,
	drafts []model.DraftRow,
	prices []model.CommittedPrice,
	groups []model.CommittedGroupOption,
) []model.ComparisonEntry {
	draftByProduct := make(map[uuid.UUID]*model.DraftRow, len(drafts))
	for i := range drafts {
		draftByProduct[drafts[i].ProductID] = &drafts[i]
	}
	priceByProduct := make(map[uuid.UUID]*model.CommittedPrice, len(prices))
	for i := range prices {
		priceByProduct[prices[i].ProductID] = &prices[i]
	}
	groupByProduct := make(map[uuid.UUID]model.GroupOption, len(groups))
	for _, g := range groups {
		groupByProduct[g.ProductID] = g.GroupOption
	}

	entries := make([]model.ComparisonEntry, 0, len(catalog))
	for _, p := range catalog {
		entry := model.ComparisonEntry{
			ProductID:           p.ID,
			Manufacturer:        p.Manufacturer,
			GroupName:           p.GroupName,
			MapperKey:           p.MapperKey,
			QuantityConverter:   p.QuantityConverter,
			CurrentRetailPrice:  p.RetailPrice,
			CurrentSellingPrice: p.SellingPrice,
		}

		if d, ok := draftByProduct[p.ID]; ok {
			entry.DraftQuantity = d.Quantity
			entry.DraftRetailPrice = d.RetailPrice
			entry.DraftPurchasePrice = d.PurchasePrice
			entry.DraftSellingPrice = d.SellingPrice
			entry.DraftMarginPercent = d.MarginPercent
			entry.DraftDiscountPercent = d.DiscountPercent
			entry.DraftGroupOption = d.GroupOption
			entry.DraftPriceChangeSource = d.PriceChangeSource
			entry.CategoryDraftMarginPercent = d.CategoryMarginPercent
			entry.CategoryDraftDiscountPercent = d.CategoryDiscountPercent
		}

		if c, ok := priceByProduct[p.ID]; ok {
			entry.SavedQuantity = c.Quantity
			entry.SavedRetailPrice = c.RetailPrice
			entry.SavedPurchasePrice = c.PurchasePrice
			entry.SavedSellingPrice = c.SellingPrice
		}

		if g, ok := groupByProduct[p.ID]; ok {
			saved := g
			entry.SavedGroupOption = &saved
		}

		entry.EffectiveGroupOption = resolveGroupOption(entry.DraftGroupOption, entry.SavedGroupOption)
		entries = append(entries, entry)
	}
	return entries
}

// resolveGroupOption walks the layers from strongest to weakest: draft, committed, then NONE.
func resolveGroupOption(layers ...*model.GroupOption) model.GroupOption {
	for _, opt := range layers {
		if opt != nil {
			return *opt
		}
	}
	return model.GroupOptionNone
}
