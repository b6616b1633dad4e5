package service

import (
	"context"

	"go-quote-pricing/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Price layer an offer line took its unit price from.
const (
	PriceFromDraft   = "DRAFT"
	PriceFromSaved   = "SAVED"
	PriceFromCatalog = "CATALOG"
)

type OfferLine struct {
	ProductID    uuid.UUID         `json:"product_id"`
	Manufacturer string            `json:"manufacturer"`
	GroupName    string            `json:"group_name"`
	GroupOption  model.GroupOption `json:"group_option"`
	Quantity     decimal.Decimal   `json:"quantity"`
	UnitPrice    decimal.Decimal   `json:"unit_price"`
	PriceSource  string            `json:"price_source"`
	LineTotal    decimal.Decimal   `json:"line_total"`
}

// Offer is what the PDF renderer consumes. Optional lines are priced but kept out of Total.
type Offer struct {
	ProjectID     uuid.UUID       `json:"project_id"`
	Category      model.Category  `json:"category"`
	Lines         []OfferLine     `json:"lines"`
	OptionalLines []OfferLine     `json:"optional_lines"`
	Total         decimal.Decimal `json:"total"`
	OptionalTotal decimal.Decimal `json:"optional_total"`
}

func (s *pricingService) GetOffer(ctx context.Context, projectID uuid.UUID, category model.Category) (*Offer, error) {
	entries, err := s.GetComparison(ctx, projectID, category)
	if err != nil {
		return nil, err
	}
	return BuildOffer(projectID, category, entries), nil
}

// BuildOffer collapses each comparison entry to one effective number per field:
// draft over saved over catalog. Products with no effective quantity are left out.
func BuildOffer(projectID uuid.UUID, category model.Category, entries []model.ComparisonEntry) *Offer {
	offer := &Offer{
		ProjectID:     projectID,
		Category:      category,
		Lines:         []OfferLine{},
		OptionalLines: []OfferLine{},
		Total:         decimal.Zero,
		OptionalTotal: decimal.Zero,
	}
	for i := range entries {
		e := &entries[i]
		qty := e.EffectiveQuantity()
		if !qty.IsPositive() {
			continue
		}
		price := e.EffectiveSellingPrice()
		line := OfferLine{
			ProductID:    e.ProductID,
			Manufacturer: e.Manufacturer,
			GroupName:    e.GroupName,
			GroupOption:  e.EffectiveGroupOption,
			Quantity:     qty,
			UnitPrice:    price,
			PriceSource:  priceSource(e),
			LineTotal:    price.Mul(qty).Round(2),
		}
		if e.EffectiveGroupOption == model.GroupOptionOptional {
			offer.OptionalLines = append(offer.OptionalLines, line)
			offer.OptionalTotal = offer.OptionalTotal.Add(line.LineTotal)
			continue
		}
		offer.Lines = append(offer.Lines, line)
		offer.Total = offer.Total.Add(line.LineTotal)
	}
	return offer
}

func priceSource(e *model.ComparisonEntry) string {
	switch {
	case e.DraftSellingPrice != nil:
		return PriceFromDraft
	case e.SavedSellingPrice != nil:
		return PriceFromSaved
	default:
		return PriceFromCatalog
	}
}
