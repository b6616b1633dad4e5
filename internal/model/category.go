package model

// Category groups catalog products; pricing overlays are always scoped to one category.
type Category string

const (
	CategoryTiles       Category = "TILES"
	CategorySheetMetal  Category = "SHEET_METAL"
	CategoryGutters     Category = "GUTTERS"
	CategoryInsulation  Category = "INSULATION"
	CategoryWindows     Category = "WINDOWS"
	CategoryAccessories Category = "ACCESSORIES"
)

var Categories = []Category{
	CategoryTiles,
	CategorySheetMetal,
	CategoryGutters,
	CategoryInsulation,
	CategoryWindows,
	CategoryAccessories,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// GroupOption marks how a product's variant group is presented in an offer.
type GroupOption string

const (
	GroupOptionMain     GroupOption = "MAIN"
	GroupOptionOptional GroupOption = "OPTIONAL"
	GroupOptionNone     GroupOption = "NONE"
)

func (g GroupOption) Valid() bool {
	switch g {
	case GroupOptionMain, GroupOptionOptional, GroupOptionNone:
		return true
	}
	return false
}

// PriceChangeSource records which kind of edit produced a draft row.
type PriceChangeSource string

const (
	PriceChangeMargin      PriceChangeSource = "MARGIN"
	PriceChangeDiscount    PriceChangeSource = "DISCOUNT"
	PriceChangeRecalculate PriceChangeSource = "RECALCULATE"
	PriceChangeNone        PriceChangeSource = "NONE"
)

func (s PriceChangeSource) Valid() bool {
	switch s {
	case PriceChangeMargin, PriceChangeDiscount, PriceChangeRecalculate, PriceChangeNone:
		return true
	}
	return false
}
