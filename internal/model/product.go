package model

import "github.com/shopspring/decimal"

// CatalogProduct is the category-wide base record. The pricing overlay only ever reads it.
type CatalogProduct struct {
	BaseModel
	Category          Category        `gorm:"type:varchar(32);not null;index" json:"category" validate:"required,category"`
	Manufacturer      string          `gorm:"type:varchar(255);not null" json:"manufacturer" validate:"required"`
	GroupName         string          `gorm:"type:varchar(255);index" json:"group_name"`
	RetailPrice       decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0" json:"retail_price"`
	PurchasePrice     decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0" json:"purchase_price"`
	SellingPrice      decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0" json:"selling_price"`
	QuantityConverter decimal.Decimal `gorm:"type:decimal(12,4);not null;default:1" json:"quantity_converter"`
	MapperKey         string          `gorm:"type:varchar(100);index" json:"mapper_key"`
}

func (CatalogProduct) TableName() string {
	return "catalog_products"
}
