// Package testutil opens throwaway databases for repository and service tests.
package testutil

import (
	"testing"

	"go-quote-pricing/internal/model"
	"go-quote-pricing/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory SQLite database. A single connection keeps every
// query on the same in-memory file.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := repository.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Dec parses a decimal literal and returns a pointer, for nullable fields.
func Dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func SeedProject(t *testing.T, db *gorm.DB, name string) *model.Project {
	t.Helper()
	p := &model.Project{Name: name, CustomerName: "ACME Roofing"}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return p
}

func SeedProduct(t *testing.T, db *gorm.DB, category model.Category, group, manufacturer, retail, selling string) *model.CatalogProduct {
	t.Helper()
	p := &model.CatalogProduct{
		Category:          category,
		Manufacturer:      manufacturer,
		GroupName:         group,
		RetailPrice:       decimal.RequireFromString(retail),
		PurchasePrice:     decimal.RequireFromString(retail).Mul(decimal.RequireFromString("0.6")),
		SellingPrice:      decimal.RequireFromString(selling),
		QuantityConverter: decimal.NewFromInt(1),
		MapperKey:         manufacturer + "-" + uuid.NewString()[:8],
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

// EqualDec compares nullable decimals by value; nil only equals nil.
func EqualDec(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// FmtDec renders a nullable decimal for failure messages.
func FmtDec(d *decimal.Decimal) string {
	if d == nil {
		return "<nil>"
	}
	return d.String()
}
