package repository

import (
	"context"

	"go-quote-pricing/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogRepository is the read side of the product catalog. Create exists for seeding and imports only.
type CatalogRepository interface {
	Create(ctx context.Context, product *model.CatalogProduct) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CatalogProduct, error)
	FindByCategory(ctx context.Context, category model.Category) ([]model.CatalogProduct, error)
	WithTx(tx *gorm.DB) CatalogRepository
}

type catalogRepo struct {
	db *gorm.DB
}

func NewCatalogRepo(db *gorm.DB) CatalogRepository {
	return &catalogRepo{db}
}

func (r *catalogRepo) WithTx(tx *gorm.DB) CatalogRepository {
	return &catalogRepo{tx}
}

func (r *catalogRepo) Create(ctx context.Context, product *model.CatalogProduct) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *catalogRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CatalogProduct, error) {
	var product model.CatalogProduct
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *catalogRepo) FindByCategory(ctx context.Context, category model.Category) ([]model.CatalogProduct, error) {
	var products []model.CatalogProduct
	err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("group_name, manufacturer, id").
		Find(&products).Error
	return products, err
}
